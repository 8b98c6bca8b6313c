package domain

import "time"

// TaskType - периодичность задания
type TaskType string

const (
	TaskTypeDaily  TaskType = "daily"
	TaskTypeWeekly TaskType = "weekly"
)

// Difficulty - сложность задания
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Task - admin-defined unit of work with a fixed reward
type Task struct {
	ID          int64      `db:"id" json:"id"`
	Title       string     `db:"title" json:"title"`
	Description string     `db:"description" json:"description"`
	Reward      int64      `db:"reward" json:"reward"`
	TaskType    TaskType   `db:"task_type" json:"task_type"`
	Difficulty  Difficulty `db:"difficulty" json:"difficulty"`
	URL         *string    `db:"url" json:"url,omitempty"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`
}

// TaskCompletion marks that an account has claimed a task's reward.
// Reward is a snapshot of the task reward at completion time.
type TaskCompletion struct {
	ID          int64     `db:"id" json:"id"`
	AccountID   int64     `db:"account_id" json:"account_id"`
	TaskID      int64     `db:"task_id" json:"task_id"`
	Reward      int64     `db:"reward" json:"reward"`
	CompletedAt time.Time `db:"completed_at" json:"completed_at"`
}

// TaskWithStatus - задание вместе со статусом выполнения (для API ответов)
type TaskWithStatus struct {
	Task
	Completed bool `json:"completed"`
}

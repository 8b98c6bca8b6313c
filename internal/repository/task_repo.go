package repository

import (
	"context"
	"errors"

	"wagchain/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const taskColumns = `id, title, description, reward, task_type, difficulty, url, created_at, updated_at`

type TaskRepository struct {
	db *pgxpool.Pool
}

func NewTaskRepository(db *pgxpool.Pool) *TaskRepository {
	return &TaskRepository{db: db}
}

func scanTask(row pgx.Row) (*domain.Task, error) {
	var t domain.Task
	err := row.Scan(&t.ID, &t.Title, &t.Description, &t.Reward, &t.TaskType, &t.Difficulty, &t.URL, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (r *TaskRepository) List(ctx context.Context) ([]*domain.Task, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+taskColumns+` FROM tasks ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []*domain.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, t)
	}
	return res, rows.Err()
}

func (r *TaskRepository) GetByID(ctx context.Context, id int64) (*domain.Task, error) {
	return scanTask(r.db.QueryRow(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE id = $1`, id))
}

func (r *TaskRepository) Create(ctx context.Context, t *domain.Task) error {
	return r.db.QueryRow(ctx,
		`INSERT INTO tasks (title, description, reward, task_type, difficulty, url)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at, updated_at`,
		t.Title, t.Description, t.Reward, t.TaskType, t.Difficulty, t.URL,
	).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
}

func (r *TaskRepository) Update(ctx context.Context, t *domain.Task) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE tasks
		 SET title = $1, description = $2, reward = $3, task_type = $4, difficulty = $5, url = $6, updated_at = NOW()
		 WHERE id = $7`,
		t.Title, t.Description, t.Reward, t.TaskType, t.Difficulty, t.URL, t.ID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *TaskRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ListCompletions returns the completion records for one account.
func (r *TaskRepository) ListCompletions(ctx context.Context, accountID int64) ([]domain.TaskCompletion, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, account_id, task_id, reward, completed_at
		 FROM user_tasks
		 WHERE account_id = $1
		 ORDER BY completed_at DESC`,
		accountID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []domain.TaskCompletion
	for rows.Next() {
		var c domain.TaskCompletion
		if err := rows.Scan(&c.ID, &c.AccountID, &c.TaskID, &c.Reward, &c.CompletedAt); err != nil {
			return nil, err
		}
		res = append(res, c)
	}
	return res, rows.Err()
}

// InsertCompletion records a completion inside tx, snapshotting the task's
// current reward. The (account, task) uniqueness constraint decides
// duplicates: a conflicting insert returns pgx.ErrNoRows through RETURNING,
// which callers must read as "already completed", not as a failure.
func (r *TaskRepository) InsertCompletion(ctx context.Context, tx pgx.Tx, accountID, taskID int64) (*domain.TaskCompletion, error) {
	var c domain.TaskCompletion
	err := tx.QueryRow(ctx,
		`INSERT INTO user_tasks (account_id, task_id, reward)
		 SELECT $1, t.id, t.reward FROM tasks t WHERE t.id = $2
		 ON CONFLICT (account_id, task_id) DO NOTHING
		 RETURNING id, account_id, task_id, reward, completed_at`,
		accountID, taskID,
	).Scan(&c.ID, &c.AccountID, &c.TaskID, &c.Reward, &c.CompletedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

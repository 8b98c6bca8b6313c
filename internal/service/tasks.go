package service

import (
	"context"
	"errors"

	"wagchain/internal/domain"
	"wagchain/internal/logger"
	"wagchain/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrTaskNotFound = errors.New("task not found")

// CompletionResult is what a completion attempt produced.
type CompletionResult struct {
	Completion       *domain.TaskCompletion
	NewBalance       int64
	AlreadyCompleted bool
}

// TaskService records task completions and credits the snapshot reward,
// exactly once per (account, task).
type TaskService struct {
	db     *pgxpool.Pool
	tasks  *repository.TaskRepository
	ledger *LedgerService
}

func NewTaskService(db *pgxpool.Pool, ledger *LedgerService) *TaskService {
	return &TaskService{
		db:     db,
		tasks:  repository.NewTaskRepository(db),
		ledger: ledger,
	}
}

// Complete records that accountID finished taskID and credits the task's
// current reward. A repeat attempt is a benign no-op (AlreadyCompleted true,
// no credit). The duplicate decision is the store's uniqueness constraint,
// not a pre-check, so two racing claims cannot both credit.
func (s *TaskService) Complete(ctx context.Context, accountID, taskID int64) (*CompletionResult, error) {
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	completion, err := s.tasks.InsertCompletion(ctx, tx, accountID, taskID)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		// No row from the insert means either the task does not exist or the
		// pair already did.
		if _, taskErr := s.tasks.GetByID(ctx, taskID); taskErr != nil {
			if errors.Is(taskErr, repository.ErrNotFound) {
				return nil, ErrTaskNotFound
			}
			return nil, taskErr
		}
		balance, balErr := s.ledger.GetBalance(ctx, accountID)
		if balErr != nil {
			return nil, balErr
		}
		return &CompletionResult{AlreadyCompleted: true, NewBalance: balance}, nil
	}

	newBalance, err := s.ledger.CreditWithTx(ctx, tx, accountID, completion.Reward, domain.TxTaskReward,
		map[string]interface{}{"task_id": taskID})
	if err != nil {
		return nil, err
	}

	if _, err = tx.Exec(ctx,
		`UPDATE users SET total_tasks_completed = total_tasks_completed + 1 WHERE id = $1`,
		accountID,
	); err != nil {
		return nil, err
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, err
	}

	s.ledger.Committed(accountID, newBalance, completion.Reward, domain.TxTaskReward)
	logger.Info("task completed", "account_id", accountID, "task_id", taskID, "reward", completion.Reward)
	return &CompletionResult{Completion: completion, NewBalance: newBalance}, nil
}

// ListWithStatus returns all tasks, flagging the ones accountID already
// completed. accountID 0 lists tasks with no completion state.
func (s *TaskService) ListWithStatus(ctx context.Context, accountID int64) ([]domain.TaskWithStatus, error) {
	tasks, err := s.tasks.List(ctx)
	if err != nil {
		return nil, err
	}

	done := make(map[int64]bool)
	if accountID != 0 {
		completions, err := s.tasks.ListCompletions(ctx, accountID)
		if err != nil {
			return nil, err
		}
		for _, c := range completions {
			done[c.TaskID] = true
		}
	}

	res := make([]domain.TaskWithStatus, 0, len(tasks))
	for _, t := range tasks {
		res = append(res, domain.TaskWithStatus{Task: *t, Completed: done[t.ID]})
	}
	return res, nil
}

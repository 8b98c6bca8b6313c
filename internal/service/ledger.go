package service

import (
	"context"
	"errors"
	"time"

	"wagchain/internal/domain"
	"wagchain/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	ErrAccountNotFound = errors.New("account not found")
	ErrInvalidAmount   = errors.New("invalid amount")
)

var creditsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "ledger_credits_total",
		Help: "Total balance credits applied, by reason",
	},
	[]string{"reason"},
)

func init() {
	prometheus.MustRegister(creditsTotal)
}

// BalanceNotifier receives committed balance changes, e.g. to push them to
// connected websocket clients. Delivery is best-effort.
type BalanceNotifier interface {
	NotifyBalance(accountID int64, balance int64, reason string)
}

// LedgerService is the single writer of users.balance. Every mutation is a
// server-side atomic increment paired with a transactions audit row; there is
// no debit path.
type LedgerService struct {
	db              *pgxpool.Pool
	transactionRepo *repository.TransactionRepository
	notifier        BalanceNotifier
}

func NewLedgerService(db *pgxpool.Pool) *LedgerService {
	return &LedgerService{
		db:              db,
		transactionRepo: repository.NewTransactionRepository(db),
	}
}

// SetNotifier attaches a notifier for committed credits.
func (s *LedgerService) SetNotifier(n BalanceNotifier) {
	s.notifier = n
}

// GetBalance returns an account's current balance
func (s *LedgerService) GetBalance(ctx context.Context, accountID int64) (int64, error) {
	var balance int64
	err := s.db.QueryRow(ctx, `SELECT balance FROM users WHERE id = $1`, accountID).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrAccountNotFound
		}
		return 0, err
	}
	return balance, nil
}

// CreditWithTx applies a credit within an existing transaction and records
// the audit row. The increment runs server-side, so concurrent credits to the
// same account never lose updates.
func (s *LedgerService) CreditWithTx(ctx context.Context, tx pgx.Tx, accountID, amount int64, txType string, meta map[string]interface{}) (newBalance int64, err error) {
	if amount <= 0 {
		return 0, ErrInvalidAmount
	}

	err = tx.QueryRow(ctx,
		`UPDATE users SET balance = balance + $1 WHERE id = $2 RETURNING balance`,
		amount, accountID,
	).Scan(&newBalance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrAccountNotFound
		}
		return 0, err
	}

	entry := &domain.Transaction{
		AccountID: accountID,
		Type:      txType,
		Amount:    amount,
		Meta:      meta,
	}
	if err = s.transactionRepo.CreateWithTx(ctx, tx, entry); err != nil {
		return 0, err
	}

	return newBalance, nil
}

// ApplyStreakWithTx applies a streak evaluation as one conditional update:
// streak, bonus and last_login move together, and only while last_login still
// holds the value the evaluation was computed from. A concurrent login that
// got there first makes this a no-op (applied=false), which is how a streak
// bonus stays exactly-once.
func (s *LedgerService) ApplyStreakWithTx(ctx context.Context, tx pgx.Tx, accountID int64, observedLastLogin time.Time, res StreakResult, now time.Time) (applied bool, newBalance int64, err error) {
	err = tx.QueryRow(ctx,
		`UPDATE users
		 SET daily_streak = $1, balance = balance + $2, last_login = $3
		 WHERE id = $4 AND last_login = $5
		 RETURNING balance`,
		res.Streak, res.Bonus, now, accountID, observedLastLogin,
	).Scan(&newBalance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, 0, nil
		}
		return false, 0, err
	}

	if res.Bonus > 0 {
		entry := &domain.Transaction{
			AccountID: accountID,
			Type:      domain.TxStreakBonus,
			Amount:    res.Bonus,
			Meta:      map[string]interface{}{"streak": res.Streak},
		}
		if err = s.transactionRepo.CreateWithTx(ctx, tx, entry); err != nil {
			return false, 0, err
		}
	}

	return true, newBalance, nil
}

// Committed is called by workflow services after their transaction commits:
// it bumps metrics and pushes the new balance to subscribers.
func (s *LedgerService) Committed(accountID, newBalance, amount int64, reason string) {
	if amount <= 0 {
		return
	}
	creditsTotal.WithLabelValues(reason).Inc()
	if s.notifier != nil {
		s.notifier.NotifyBalance(accountID, newBalance, reason)
	}
}

// History returns recent ledger entries for an account.
func (s *LedgerService) History(ctx context.Context, accountID int64, limit int) ([]*domain.Transaction, error) {
	return s.transactionRepo.GetByAccountID(ctx, accountID, limit)
}

package service

import (
	"context"
	"time"

	"wagchain/internal/domain"
	"wagchain/internal/logger"
	"wagchain/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SessionService runs the per-login bookkeeping: streak evaluation and the
// bonus credit that may come with it.
type SessionService struct {
	db       *pgxpool.Pool
	accounts *repository.AccountRepository
	ledger   *LedgerService
	bonuses  StreakBonuses
	now      func() time.Time // test hook
}

func NewSessionService(db *pgxpool.Pool, ledger *LedgerService, bonuses StreakBonuses) *SessionService {
	return &SessionService{
		db:       db,
		accounts: repository.NewAccountRepository(db),
		ledger:   ledger,
		bonuses:  bonuses,
		now:      time.Now,
	}
}

// OnLogin evaluates the account's streak against now and applies the result.
// The returned account reflects the applied state. A concurrent login that
// applied the same evaluation first turns this call into a refresh.
func (s *SessionService) OnLogin(ctx context.Context, account *domain.Account) (*domain.Account, *StreakResult, error) {
	now := s.now()
	res := EvaluateStreak(account.LastLogin, now, account.DailyStreak, s.bonuses)

	if !res.Changed {
		if err := s.accounts.TouchLastLogin(ctx, account.ID, now); err != nil {
			return nil, nil, err
		}
		account.LastLogin = now
		return account, &res, nil
	}

	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	applied, newBalance, err := s.ledger.ApplyStreakWithTx(ctx, tx, account.ID, account.LastLogin, res, now)
	if err != nil {
		return nil, nil, err
	}
	if err = tx.Commit(ctx); err != nil {
		return nil, nil, err
	}

	if !applied {
		// Someone else won the race for today; re-read and report no change.
		fresh, err := s.accounts.GetByID(ctx, account.ID)
		if err != nil {
			return nil, nil, err
		}
		noop := StreakResult{Streak: fresh.DailyStreak, Bonus: 0, Changed: false}
		return fresh, &noop, nil
	}

	s.ledger.Committed(account.ID, newBalance, res.Bonus, domain.TxStreakBonus)
	logger.Info("streak applied", "account_id", account.ID, "streak", res.Streak, "bonus", res.Bonus)

	account.DailyStreak = res.Streak
	account.Balance = newBalance
	account.LastLogin = now
	return account, &res, nil
}

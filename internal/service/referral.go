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

// ReferralService credits the referrer (and records the link) when a new
// account arrives through a referral code.
type ReferralService struct {
	db        *pgxpool.Pool
	accounts  *repository.AccountRepository
	referrals *repository.ReferralRepository
	ledger    *LedgerService
	reward    int64
}

func NewReferralService(db *pgxpool.Pool, ledger *LedgerService, reward int64) *ReferralService {
	return &ReferralService{
		db:        db,
		accounts:  repository.NewAccountRepository(db),
		referrals: repository.NewReferralRepository(db),
		ledger:    ledger,
		reward:    reward,
	}
}

// Process attempts to credit the owner of code for referring refereeID,
// exactly once. An unknown code, a self-referral or an already-processed
// referee are benign: Process returns (false, nil) and credits nobody.
// Store errors propagate so the caller can retry; retries are safe because
// the referrals uniqueness constraints make the insert idempotent.
func (s *ReferralService) Process(ctx context.Context, code string, refereeID int64) (bool, error) {
	if code == "" || refereeID == 0 {
		return false, nil
	}

	referrer, err := s.accounts.GetByReferralCode(ctx, code)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			logger.Debug("referral code not found", "code", code)
			return false, nil
		}
		return false, err
	}

	if referrer.ID == refereeID {
		logger.Debug("self-referral rejected", "account_id", refereeID)
		return false, nil
	}

	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return false, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// The insert is the duplicate check: ON CONFLICT DO NOTHING loses to any
	// earlier referral for this referee, so the credit below runs at most
	// once per pair even under concurrent signup events.
	inserted, err := s.referrals.Insert(ctx, tx, referrer.ID, refereeID, s.reward)
	if err != nil {
		return false, err
	}
	if !inserted {
		return false, nil
	}

	newBalance, err := s.ledger.CreditWithTx(ctx, tx, referrer.ID, s.reward, domain.TxReferralBonus,
		map[string]interface{}{"referee_id": refereeID})
	if err != nil {
		return false, err
	}

	if _, err = tx.Exec(ctx,
		`UPDATE users SET referral_count = referral_count + 1 WHERE id = $1`,
		referrer.ID,
	); err != nil {
		return false, err
	}

	if err = tx.Commit(ctx); err != nil {
		return false, err
	}

	s.ledger.Committed(referrer.ID, newBalance, s.reward, domain.TxReferralBonus)
	logger.Info("referral credited", "referrer_id", referrer.ID, "referee_id", refereeID, "reward", s.reward)
	return true, nil
}

// IsReferred reports whether the account already came in through a referral.
func (s *ReferralService) IsReferred(ctx context.Context, accountID int64) (bool, error) {
	return s.referrals.IsReferred(ctx, accountID)
}

// Stats returns the referral summary and list for an account's profile.
func (s *ReferralService) Stats(ctx context.Context, accountID int64) (*domain.ReferralStats, []domain.Referral, error) {
	stats, err := s.referrals.Stats(ctx, accountID)
	if err != nil {
		return nil, nil, err
	}
	refs, err := s.referrals.ListByReferrer(ctx, accountID)
	if err != nil {
		return nil, nil, err
	}
	return stats, refs, nil
}

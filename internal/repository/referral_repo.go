package repository

import (
	"context"

	"wagchain/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ReferralRepository struct {
	db *pgxpool.Pool
}

func NewReferralRepository(db *pgxpool.Pool) *ReferralRepository {
	return &ReferralRepository{db: db}
}

// Insert records a referral inside tx. The uniqueness constraints on
// (referrer, referee) and on referee are the duplicate check: a conflicting
// insert affects zero rows and Insert returns false without error.
func (r *ReferralRepository) Insert(ctx context.Context, tx pgx.Tx, referrerID, refereeID, reward int64) (bool, error) {
	tag, err := tx.Exec(ctx,
		`INSERT INTO referrals (referrer_id, referee_id, reward)
		 VALUES ($1, $2, $3)
		 ON CONFLICT DO NOTHING`,
		referrerID, refereeID, reward,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// IsReferred reports whether the account already has a referrer.
func (r *ReferralRepository) IsReferred(ctx context.Context, refereeID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM referrals WHERE referee_id = $1)`,
		refereeID,
	).Scan(&exists)
	return exists, err
}

// ListByReferrer returns all referrals made by an account, newest first.
func (r *ReferralRepository) ListByReferrer(ctx context.Context, referrerID int64) ([]domain.Referral, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, referrer_id, referee_id, reward, created_at
		 FROM referrals
		 WHERE referrer_id = $1
		 ORDER BY created_at DESC`,
		referrerID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []domain.Referral
	for rows.Next() {
		var ref domain.Referral
		if err := rows.Scan(&ref.ID, &ref.ReferrerID, &ref.RefereeID, &ref.Reward, &ref.CreatedAt); err != nil {
			return nil, err
		}
		res = append(res, ref)
	}
	return res, rows.Err()
}

// Stats returns the referral count and total earned for an account.
func (r *ReferralRepository) Stats(ctx context.Context, referrerID int64) (*domain.ReferralStats, error) {
	stats := &domain.ReferralStats{}
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*), COALESCE(SUM(reward), 0) FROM referrals WHERE referrer_id = $1`,
		referrerID,
	).Scan(&stats.TotalReferrals, &stats.TotalEarned)
	if err != nil {
		return nil, err
	}
	return stats, nil
}

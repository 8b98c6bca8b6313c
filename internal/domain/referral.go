package domain

import "time"

// Referral links a referee account to the referrer whose code it signed up
// with. At most one row per (referrer, referee) pair.
type Referral struct {
	ID         int64     `db:"id" json:"id"`
	ReferrerID int64     `db:"referrer_id" json:"referrer_id"`
	RefereeID  int64     `db:"referee_id" json:"referee_id"`
	Reward     int64     `db:"reward" json:"reward"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// ReferralStats - сводка по рефералам для профиля
type ReferralStats struct {
	TotalReferrals int   `json:"total_referrals"`
	TotalEarned    int64 `json:"total_earned"`
}

package domain

import "time"

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Account is the ledger record behind every identity: the balance, the
// referral code and the counters every workflow mutates.
type Account struct {
	ID                  int64     `db:"id" json:"id"`
	WalletAddress       string    `db:"wallet_address" json:"wallet_address,omitempty"`
	Email               string    `db:"email" json:"email,omitempty"`
	PasswordHash        string    `db:"password_hash" json:"-"`
	Balance             int64     `db:"balance" json:"balance"`
	ReferralCode        string    `db:"referral_code" json:"referral_code"`
	ReferralCount       int       `db:"referral_count" json:"referral_count"`
	DailyStreak         int       `db:"daily_streak" json:"daily_streak"`
	TotalTasksCompleted int       `db:"total_tasks_completed" json:"total_tasks_completed"`
	Role                Role      `db:"role" json:"role"`
	LastLogin           time.Time `db:"last_login" json:"last_login"`
	CreatedAt           time.Time `db:"created_at" json:"created_at"`
}

func (a *Account) IsAdmin() bool {
	return a.Role == RoleAdmin
}

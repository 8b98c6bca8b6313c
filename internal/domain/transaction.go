package domain

import "time"

// Credit reasons recorded in the transactions ledger. There is no debit
// reason: balances only ever grow.
const (
	TxTaskReward    = "task_reward"
	TxReferralBonus = "referral_bonus"
	TxStreakBonus   = "streak_bonus"
)

type Transaction struct {
	ID        int64                  `db:"id" json:"id"`
	AccountID int64                  `db:"account_id" json:"account_id"`
	Type      string                 `db:"type" json:"type"`
	Amount    int64                  `db:"amount" json:"amount"`
	Meta      map[string]interface{} `db:"meta" json:"meta,omitempty"`
	CreatedAt time.Time              `db:"created_at" json:"created_at"`
}

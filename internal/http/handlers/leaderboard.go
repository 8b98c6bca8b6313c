package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// LeaderboardEntry is the public view of an account on the leaderboard
type LeaderboardEntry struct {
	Rank                int    `json:"rank"`
	ID                  int64  `json:"id"`
	WalletAddress       string `json:"wallet_address,omitempty"`
	Balance             int64  `json:"balance"`
	DailyStreak         int    `json:"daily_streak"`
	ReferralCount       int    `json:"referral_count"`
	TotalTasksCompleted int    `json:"total_tasks_completed"`
}

// GetLeaderboard returns the top accounts by balance descending. The read
// reflects latest committed state; clients poll or listen on /ws for pushes.
func (h *Handler) GetLeaderboard(c *gin.Context) {
	limit := h.LeaderboardLimit
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}

	top, err := h.AccountRepo.ListTopByBalance(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get leaderboard"})
		return
	}

	entries := make([]LeaderboardEntry, 0, len(top))
	for i, a := range top {
		entries = append(entries, LeaderboardEntry{
			Rank:                i + 1,
			ID:                  a.ID,
			WalletAddress:       a.WalletAddress,
			Balance:             a.Balance,
			DailyStreak:         a.DailyStreak,
			ReferralCount:       a.ReferralCount,
			TotalTasksCompleted: a.TotalTasksCompleted,
		})
	}

	c.JSON(http.StatusOK, gin.H{"leaderboard": entries})
}

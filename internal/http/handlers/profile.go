package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// Profile returns the public subset of an account
func (h *Handler) Profile(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	account, err := h.AccountRepo.GetByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":                    account.ID,
		"wallet_address":        account.WalletAddress,
		"balance":               account.Balance,
		"daily_streak":          account.DailyStreak,
		"referral_count":        account.ReferralCount,
		"total_tasks_completed": account.TotalTasksCompleted,
		"created_at":            account.CreatedAt,
	})
}

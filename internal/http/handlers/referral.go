package handlers

import (
	"net/http"

	"wagchain/internal/domain"

	"github.com/gin-gonic/gin"
)

// GetReferralLink returns the current account's code and share link. The
// ?ref= parameter is consumed by the frontend at signup time.
func (h *Handler) GetReferralLink(c *gin.Context) {
	accountID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	account, err := h.AccountRepo.GetByID(c.Request.Context(), accountID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get referral code"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code": account.ReferralCode,
		"link": h.AppURL + "/?ref=" + account.ReferralCode,
	})
}

// MyReferrals returns the current account's referral statistics
func (h *Handler) MyReferrals(c *gin.Context) {
	accountID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	stats, referrals, err := h.Referrals.Stats(c.Request.Context(), accountID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get stats"})
		return
	}
	if referrals == nil {
		referrals = []domain.Referral{}
	}

	c.JSON(http.StatusOK, gin.H{
		"stats":     stats,
		"referrals": referrals,
	})
}

type ApplyReferralRequest struct {
	Code string `json:"code" binding:"required"`
}

// ApplyReferralCode applies a referral code for the current account. Only
// fresh accounts qualify: once a task has been completed the account is no
// longer a referable newcomer.
func (h *Handler) ApplyReferralCode(c *gin.Context) {
	accountID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req ApplyReferralRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "code is required"})
		return
	}

	ctx := c.Request.Context()
	account, err := h.AccountRepo.GetByID(ctx, accountID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load account"})
		return
	}
	if account.TotalTasksCompleted > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "account is not eligible for a referral"})
		return
	}
	if referred, err := h.Referrals.IsReferred(ctx, accountID); err == nil && referred {
		c.JSON(http.StatusBadRequest, gin.H{"error": "a referral code was already applied"})
		return
	}

	applied, err := h.Referrals.Process(ctx, req.Code, accountID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to apply referral, try again"})
		return
	}
	if !applied {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid or already used referral code"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "referral applied successfully"})
}

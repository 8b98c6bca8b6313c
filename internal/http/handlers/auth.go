package handlers

import (
	"errors"
	"net/http"

	"wagchain/internal/domain"
	"wagchain/internal/logger"
	"wagchain/internal/service"

	"github.com/gin-gonic/gin"
)

type RegisterRequest struct {
	Email        string `json:"email" binding:"required,email"`
	Password     string `json:"password" binding:"required,min=8"`
	ReferralCode string `json:"referral_code"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type WalletConnectRequest struct {
	Address      string `json:"address" binding:"required"`
	ReferralCode string `json:"referral_code"`
}

func accountJSON(a *domain.Account) gin.H {
	return gin.H{
		"id":                    a.ID,
		"wallet_address":        a.WalletAddress,
		"balance":               a.Balance,
		"referral_code":         a.ReferralCode,
		"referral_count":        a.ReferralCount,
		"daily_streak":          a.DailyStreak,
		"total_tasks_completed": a.TotalTasksCompleted,
		"role":                  a.Role,
		"last_login":            a.LastLogin,
		"created_at":            a.CreatedAt,
	}
}

// Register creates an email/password account. A referral code, when present,
// is processed after the account exists; its failure never fails the signup.
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email and password (min 8 chars) required"})
		return
	}

	ctx := c.Request.Context()
	account, err := h.Identity.RegisterEmail(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			c.JSON(http.StatusConflict, gin.H{"error": "email already registered"})
			return
		}
		if errors.Is(err, service.ErrEmptyIdentity) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "email and password required"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create account"})
		return
	}

	referralApplied := false
	if req.ReferralCode != "" {
		referralApplied, err = h.Referrals.Process(ctx, req.ReferralCode, account.ID)
		if err != nil {
			// The account exists; the code can be re-applied via
			// /referral/apply once the store recovers.
			logger.Error("referral processing failed", "account_id", account.ID, "error", err)
		}
	}

	token, err := service.GenerateJWT(account.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "token generation failed"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"token":            token,
		"user":             accountJSON(account),
		"referral_applied": referralApplied,
	})
}

// Login verifies credentials and runs the streak evaluation for the session.
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email and password required"})
		return
	}

	ctx := c.Request.Context()
	account, err := h.Identity.AuthenticateEmail(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
		return
	}

	account, streak, err := h.Sessions.OnLogin(ctx, account)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update streak"})
		return
	}

	token, err := service.GenerateJWT(account.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "token generation failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":        token,
		"user":         accountJSON(account),
		"streak_bonus": streak.Bonus,
	})
}

// WalletConnect resolves a wallet address into an account, creating one on
// first connect. New accounts may carry a referral code from the ?ref= entry
// parameter; returning accounts get a streak evaluation instead.
func (h *Handler) WalletConnect(c *gin.Context) {
	var req WalletConnectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "address required"})
		return
	}

	ctx := c.Request.Context()
	account, created, err := h.Identity.ResolveWallet(ctx, req.Address)
	if err != nil {
		if errors.Is(err, service.ErrEmptyIdentity) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "address required"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to resolve wallet"})
		return
	}

	referralApplied := false
	var streakBonus int64
	if created {
		if req.ReferralCode != "" {
			referralApplied, err = h.Referrals.Process(ctx, req.ReferralCode, account.ID)
			if err != nil {
				logger.Error("referral processing failed", "account_id", account.ID, "error", err)
			}
		}
	} else {
		var streak *service.StreakResult
		account, streak, err = h.Sessions.OnLogin(ctx, account)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update streak"})
			return
		}
		streakBonus = streak.Bonus
	}

	token, err := service.GenerateJWT(account.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "token generation failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":            token,
		"user":             accountJSON(account),
		"created":          created,
		"referral_applied": referralApplied,
		"streak_bonus":     streakBonus,
	})
}

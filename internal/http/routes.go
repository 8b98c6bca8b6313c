package http

import (
	"os"
	"strconv"
	"time"

	"wagchain/internal/config"
	"wagchain/internal/http/handlers"
	"wagchain/internal/http/middleware"
	"wagchain/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

func RegisterRoutes(r *gin.Engine, db *pgxpool.Pool, cfg *config.Config, hub *ws.Hub, version string) {
	h := handlers.NewHandler(db, cfg)
	h.Ledger.SetNotifier(hub)
	healthHandler := handlers.NewHealthHandler(db, middleware.RedisClient(), version)

	// read limits from env, with safe defaults
	apiRateLimit := envRateInt("API_RATE_LIMIT", 60)
	apiRateWindow := envRateWindow("API_RATE_WINDOW_SECONDS", time.Minute)
	authRateLimit := envRateInt("AUTH_RATE_LIMIT", 5)
	authRateWindow := envRateWindow("AUTH_RATE_WINDOW_SECONDS", time.Minute)

	// Health checks (no rate limiting)
	r.GET("/health", healthHandler.Health)
	r.GET("/healthz", healthHandler.Liveness)
	r.GET("/readyz", healthHandler.Readiness)

	// API v1 routes
	v1 := r.Group("/api/v1")
	v1.Use(middleware.RateLimit(apiRateLimit, apiRateWindow))
	registerAPIRoutes(v1, h, authRateLimit, authRateWindow)

	// Legacy /api routes (kept for older frontend builds)
	api := r.Group("/api")
	api.Use(middleware.RateLimit(apiRateLimit, apiRateWindow))
	api.GET("/health", healthHandler.Health)
	registerAPIRoutes(api, h, authRateLimit, authRateWindow)

	// WebSocket balance feed
	r.GET("/ws", h.WS(hub))
}

func registerAPIRoutes(api *gin.RouterGroup, h *handlers.Handler, authRateLimit int, authRateWindow time.Duration) {
	authRL := middleware.RateLimit(authRateLimit, authRateWindow)

	// Auth
	api.POST("/auth/register", authRL, h.Register)
	api.POST("/auth/login", authRL, h.Login)
	api.POST("/auth/wallet", authRL, h.WalletConnect)

	// Current account
	api.GET("/me", middleware.JWT(), h.Me)
	api.GET("/me/history", middleware.JWT(), h.MyHistory)
	api.GET("/me/referrals", middleware.JWT(), h.MyReferrals)

	// Public profiles and leaderboard
	api.GET("/profile/:id", h.Profile)
	api.GET("/leaderboard", h.GetLeaderboard)

	// Tasks
	api.GET("/tasks", h.ListTasks)
	api.POST("/tasks/:id/complete", middleware.JWT(), h.CompleteTask)

	// Referral system
	referral := api.Group("/referral")
	referral.Use(middleware.JWT())
	{
		referral.GET("/link", h.GetReferralLink)
		referral.POST("/apply", h.ApplyReferralCode)
	}

	// Admin task management
	admin := api.Group("/admin")
	admin.Use(middleware.JWT(), h.RequireAdmin())
	{
		admin.POST("/tasks", h.AdminCreateTask)
		admin.PUT("/tasks/:id", h.AdminUpdateTask)
		admin.DELETE("/tasks/:id", h.AdminDeleteTask)
		admin.GET("/users", h.AdminListAccounts)
	}
}

func envRateInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envRateWindow(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return time.Duration(n) * time.Second
		}
	}
	return def
}

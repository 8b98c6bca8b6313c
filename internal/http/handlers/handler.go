package handlers

import (
	"wagchain/internal/config"
	"wagchain/internal/repository"
	"wagchain/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Handler struct {
	DB          *pgxpool.Pool
	AccountRepo *repository.AccountRepository
	TaskRepo    *repository.TaskRepository

	Identity  *service.IdentityService
	Sessions  *service.SessionService
	Referrals *service.ReferralService
	Tasks     *service.TaskService
	Ledger    *service.LedgerService

	AppURL           string
	LeaderboardLimit int
}

func NewHandler(db *pgxpool.Pool, cfg *config.Config) *Handler {
	accountRepo := repository.NewAccountRepository(db)
	ledger := service.NewLedgerService(db)
	bonuses := service.StreakBonuses{
		Base:    cfg.StreakBaseBonus,
		Weekly:  cfg.StreakWeeklyBonus,
		Monthly: cfg.StreakMonthlyBonus,
	}

	return &Handler{
		DB:          db,
		AccountRepo: accountRepo,
		TaskRepo:    repository.NewTaskRepository(db),
		Identity:    service.NewIdentityService(accountRepo),
		Sessions:    service.NewSessionService(db, ledger, bonuses),
		Referrals:   service.NewReferralService(db, ledger, cfg.ReferralReward),
		Tasks:       service.NewTaskService(db, ledger),
		Ledger:      ledger,

		AppURL:           cfg.AppURL,
		LeaderboardLimit: cfg.LeaderboardLimit,
	}
}

// getUserID извлекает user_id из контекста Gin
func getUserID(c *gin.Context) (int64, bool) {
	uidVal, ok := c.Get("user_id")
	if !ok {
		return 0, false
	}
	switch v := uidVal.(type) {
	case int64:
		return v, true
	case float64:
		return int64(v), true
	default:
		return 0, false
	}
}

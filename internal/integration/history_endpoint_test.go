package integration

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"wagchain/internal/config"
	"wagchain/internal/http/handlers"
	"wagchain/internal/repository"
	"wagchain/internal/service"

	"github.com/gin-gonic/gin"
)

// The history endpoint must return an empty array, not null, for accounts
// with no ledger entries yet.
func TestMyHistory_EmptyIsArray(t *testing.T) {
	db := testDB(t)
	gin.SetMode(gin.TestMode)

	identity := service.NewIdentityService(repository.NewAccountRepository(db))
	account := newWalletAccount(t, identity)

	h := handlers.NewHandler(db, &config.Config{
		ReferralReward:     testReferralReward,
		StreakBaseBonus:    testStreakBonuses.Base,
		StreakWeeklyBonus:  testStreakBonuses.Weekly,
		StreakMonthlyBonus: testStreakBonuses.Monthly,
		LeaderboardLimit:   20,
	})

	r := gin.New()
	r.GET("/me/history", func(c *gin.Context) {
		c.Set("user_id", account.ID)
	}, h.MyHistory)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/me/history", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), `"history":[]`) {
		t.Fatalf("expected empty history array, got %s", w.Body.String())
	}
}

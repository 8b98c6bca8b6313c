package integration

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
	"time"

	"wagchain/internal/domain"
	"wagchain/internal/repository"
	"wagchain/internal/service"

	"github.com/jackc/pgx/v5/pgxpool"
)

var testStreakBonuses = service.StreakBonuses{Base: 10, Weekly: 50, Monthly: 200}

const testReferralReward = 50

func applyMigrations(t *testing.T, db *pgxpool.Pool) {
	t.Helper()
	migDir := filepath.Join("..", "..", "internal", "migrations")
	files, err := os.ReadDir(migDir)
	if err != nil {
		t.Fatalf("read migrations: %v", err)
	}
	var names []string
	for _, f := range files {
		if strings.HasSuffix(f.Name(), ".sql") {
			names = append(names, f.Name())
		}
	}
	sort.Strings(names)
	for _, name := range names {
		b, err := os.ReadFile(filepath.Join(migDir, name))
		if err != nil {
			t.Fatalf("read file: %v", err)
		}
		if _, err := db.Exec(context.Background(), string(b)); err != nil {
			t.Fatalf("apply migration %s: %v", name, err)
		}
	}
}

func testDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set")
	}
	db, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	t.Cleanup(db.Close)
	applyMigrations(t, db)
	return db
}

func newWalletAccount(t *testing.T, identity *service.IdentityService) *domain.Account {
	t.Helper()
	addr := fmt.Sprintf("0x%040x", rand.Int63())
	account, created, err := identity.ResolveWallet(context.Background(), addr)
	if err != nil {
		t.Fatalf("resolve wallet: %v", err)
	}
	if !created {
		t.Fatalf("expected a fresh account for %s", addr)
	}
	return account
}

func TestIdentity_ResolveWalletIdempotent(t *testing.T) {
	db := testDB(t)
	identity := service.NewIdentityService(repository.NewAccountRepository(db))

	first := newWalletAccount(t, identity)

	// resolving again, upper-cased, must return the same account
	again, created, err := identity.ResolveWallet(context.Background(), strings.ToUpper(first.WalletAddress))
	if err != nil {
		t.Fatalf("resolve wallet again: %v", err)
	}
	if created {
		t.Fatalf("second resolve must not create an account")
	}
	if again.ID != first.ID {
		t.Fatalf("expected account %d, got %d", first.ID, again.ID)
	}
	if first.ReferralCode == "" {
		t.Fatalf("new account must have a referral code")
	}
}

func TestReferral_ProcessExactlyOnce(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	accounts := repository.NewAccountRepository(db)
	identity := service.NewIdentityService(accounts)
	ledger := service.NewLedgerService(db)
	referrals := service.NewReferralService(db, ledger, testReferralReward)

	referrer := newWalletAccount(t, identity)
	referee := newWalletAccount(t, identity)

	credited, err := referrals.Process(ctx, referrer.ReferralCode, referee.ID)
	if err != nil {
		t.Fatalf("process referral: %v", err)
	}
	if !credited {
		t.Fatalf("first application must credit the referrer")
	}

	balance, err := ledger.GetBalance(ctx, referrer.ID)
	if err != nil {
		t.Fatalf("get balance: %v", err)
	}
	if balance != testReferralReward {
		t.Fatalf("expected balance %d, got %d", testReferralReward, balance)
	}

	// applying the same code again is a no-op, not an error
	credited, err = referrals.Process(ctx, referrer.ReferralCode, referee.ID)
	if err != nil {
		t.Fatalf("process referral twice: %v", err)
	}
	if credited {
		t.Fatalf("second application must not credit again")
	}

	balance, _ = ledger.GetBalance(ctx, referrer.ID)
	if balance != testReferralReward {
		t.Fatalf("balance moved on duplicate application: %d", balance)
	}

	updated, err := accounts.GetByID(ctx, referrer.ID)
	if err != nil {
		t.Fatalf("reload referrer: %v", err)
	}
	if updated.ReferralCount != 1 {
		t.Fatalf("expected referral_count 1, got %d", updated.ReferralCount)
	}
}

func TestReferral_SelfReferralRejected(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	identity := service.NewIdentityService(repository.NewAccountRepository(db))
	ledger := service.NewLedgerService(db)
	referrals := service.NewReferralService(db, ledger, testReferralReward)

	account := newWalletAccount(t, identity)

	credited, err := referrals.Process(ctx, account.ReferralCode, account.ID)
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if credited {
		t.Fatalf("self-referral must not credit")
	}

	balance, _ := ledger.GetBalance(ctx, account.ID)
	if balance != 0 {
		t.Fatalf("self-referral moved the balance: %d", balance)
	}
}

func TestReferral_SecondReferrerRejected(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	identity := service.NewIdentityService(repository.NewAccountRepository(db))
	ledger := service.NewLedgerService(db)
	referrals := service.NewReferralService(db, ledger, testReferralReward)

	referrerA := newWalletAccount(t, identity)
	referrerB := newWalletAccount(t, identity)
	referee := newWalletAccount(t, identity)

	if credited, err := referrals.Process(ctx, referrerA.ReferralCode, referee.ID); err != nil || !credited {
		t.Fatalf("first referral: credited=%v err=%v", credited, err)
	}

	// an account can be referred only once, even by a different referrer
	credited, err := referrals.Process(ctx, referrerB.ReferralCode, referee.ID)
	if err != nil {
		t.Fatalf("second referral: %v", err)
	}
	if credited {
		t.Fatalf("referee was credited to a second referrer")
	}
}

func TestTasks_CompleteExactlyOnce(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	identity := service.NewIdentityService(repository.NewAccountRepository(db))
	ledger := service.NewLedgerService(db)
	tasks := service.NewTaskService(db, ledger)
	taskRepo := repository.NewTaskRepository(db)

	account := newWalletAccount(t, identity)

	task := &domain.Task{
		Title:      fmt.Sprintf("integration-task-%d", rand.Int63()),
		Reward:     25,
		TaskType:   domain.TaskTypeDaily,
		Difficulty: domain.DifficultyEasy,
	}
	if err := taskRepo.Create(ctx, task); err != nil {
		t.Fatalf("create task: %v", err)
	}

	res, err := tasks.Complete(ctx, account.ID, task.ID)
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if res.AlreadyCompleted {
		t.Fatalf("first completion reported as duplicate")
	}
	if res.NewBalance != 25 {
		t.Fatalf("expected balance 25, got %d", res.NewBalance)
	}

	res, err = tasks.Complete(ctx, account.ID, task.ID)
	if err != nil {
		t.Fatalf("complete twice: %v", err)
	}
	if !res.AlreadyCompleted {
		t.Fatalf("duplicate completion not detected")
	}

	balance, _ := ledger.GetBalance(ctx, account.ID)
	if balance != 25 {
		t.Fatalf("duplicate completion moved the balance: %d", balance)
	}

	if _, err := tasks.Complete(ctx, account.ID, task.ID+1_000_000); err != service.ErrTaskNotFound {
		t.Fatalf("expected ErrTaskNotFound, got %v", err)
	}
}

func TestSessions_StreakAdvanceAndReset(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	accounts := repository.NewAccountRepository(db)
	identity := service.NewIdentityService(accounts)
	ledger := service.NewLedgerService(db)
	sessions := service.NewSessionService(db, ledger, testStreakBonuses)

	account := newWalletAccount(t, identity)

	// a login the day after the last one advances the streak
	if _, err := db.Exec(ctx, `UPDATE users SET last_login = $1, daily_streak = 1 WHERE id = $2`,
		time.Now().UTC().Add(-24*time.Hour), account.ID); err != nil {
		t.Fatalf("seed last_login: %v", err)
	}
	// re-read so last_login carries the store's precision, as in production
	account, err := accounts.GetByID(ctx, account.ID)
	if err != nil {
		t.Fatalf("reload account: %v", err)
	}

	updated, res, err := sessions.OnLogin(ctx, account)
	if err != nil {
		t.Fatalf("on login: %v", err)
	}
	if !res.Changed || updated.DailyStreak != 2 {
		t.Fatalf("expected streak 2, got %d (changed=%v)", updated.DailyStreak, res.Changed)
	}
	if updated.Balance != testStreakBonuses.Base {
		t.Fatalf("expected base bonus credited, balance %d", updated.Balance)
	}

	// a second login the same day is a refresh, not another credit
	updated2, res2, err := sessions.OnLogin(ctx, updated)
	if err != nil {
		t.Fatalf("second login: %v", err)
	}
	if res2.Changed {
		t.Fatalf("same-day login changed the streak")
	}
	if updated2.Balance != updated.Balance {
		t.Fatalf("same-day login moved the balance")
	}

	// a three-day gap resets the streak to 1 and still pays the base bonus
	if _, err := db.Exec(ctx, `UPDATE users SET last_login = $1 WHERE id = $2`,
		time.Now().UTC().Add(-72*time.Hour), updated2.ID); err != nil {
		t.Fatalf("seed gap: %v", err)
	}
	updated2, err = accounts.GetByID(ctx, updated2.ID)
	if err != nil {
		t.Fatalf("reload account: %v", err)
	}

	updated3, res3, err := sessions.OnLogin(ctx, updated2)
	if err != nil {
		t.Fatalf("login after gap: %v", err)
	}
	if updated3.DailyStreak != 1 || !res3.Changed {
		t.Fatalf("expected streak reset to 1, got %d", updated3.DailyStreak)
	}
	if updated3.Balance != updated2.Balance+testStreakBonuses.Base {
		t.Fatalf("expected base bonus after reset, balance %d", updated3.Balance)
	}

	// the ledger history carries every credit
	history, err := ledger.History(ctx, account.ID, 10)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("expected 2 ledger entries, got %d", len(history))
	}
	for _, tr := range history {
		if tr.Type != domain.TxStreakBonus {
			t.Fatalf("unexpected transaction type %s", tr.Type)
		}
	}
}

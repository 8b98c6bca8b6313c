package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"wagchain/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("not found")

const accountColumns = `id, COALESCE(wallet_address, ''), COALESCE(email, ''), COALESCE(password_hash, ''),
	 balance, referral_code, referral_count, daily_streak, total_tasks_completed, role, last_login, created_at`

type AccountRepository struct {
	db *pgxpool.Pool
}

func NewAccountRepository(db *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{db: db}
}

func scanAccount(row pgx.Row) (*domain.Account, error) {
	var a domain.Account
	err := row.Scan(
		&a.ID,
		&a.WalletAddress,
		&a.Email,
		&a.PasswordHash,
		&a.Balance,
		&a.ReferralCode,
		&a.ReferralCount,
		&a.DailyStreak,
		&a.TotalTasksCompleted,
		&a.Role,
		&a.LastLogin,
		&a.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

func (r *AccountRepository) GetByID(ctx context.Context, id int64) (*domain.Account, error) {
	return scanAccount(r.db.QueryRow(ctx,
		`SELECT `+accountColumns+` FROM users WHERE id = $1`, id))
}

// GetByWallet looks up an account by wallet address. Addresses are stored
// lowercase; the argument is normalized here as well so callers can't create
// case-variant duplicates through a lookup miss.
func (r *AccountRepository) GetByWallet(ctx context.Context, address string) (*domain.Account, error) {
	return scanAccount(r.db.QueryRow(ctx,
		`SELECT `+accountColumns+` FROM users WHERE wallet_address = $1`, strings.ToLower(address)))
}

func (r *AccountRepository) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	return scanAccount(r.db.QueryRow(ctx,
		`SELECT `+accountColumns+` FROM users WHERE email = $1`, strings.ToLower(email)))
}

func (r *AccountRepository) GetByReferralCode(ctx context.Context, code string) (*domain.Account, error) {
	return scanAccount(r.db.QueryRow(ctx,
		`SELECT `+accountColumns+` FROM users WHERE referral_code = $1`, code))
}

// Create inserts a new account with a zeroed ledger (balance 0, streak 1,
// counters 0). A unique violation on wallet/email/referral code is reported
// as-is; the service layer decides whether to retry or treat it as
// "already exists".
func (r *AccountRepository) Create(ctx context.Context, a *domain.Account) error {
	var wallet, email, passwordHash any
	if a.WalletAddress != "" {
		wallet = strings.ToLower(a.WalletAddress)
	}
	if a.Email != "" {
		email = strings.ToLower(a.Email)
	}
	if a.PasswordHash != "" {
		passwordHash = a.PasswordHash
	}
	if a.Role == "" {
		a.Role = domain.RoleUser
	}

	return r.db.QueryRow(ctx,
		`INSERT INTO users (wallet_address, email, password_hash, referral_code, role)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, balance, referral_count, daily_streak, total_tasks_completed, last_login, created_at`,
		wallet, email, passwordHash, a.ReferralCode, a.Role,
	).Scan(&a.ID, &a.Balance, &a.ReferralCount, &a.DailyStreak, &a.TotalTasksCompleted, &a.LastLogin, &a.CreatedAt)
}

// TouchLastLogin updates only the login timestamp, for same-day resumes where
// the streak does not move.
func (r *AccountRepository) TouchLastLogin(ctx context.Context, id int64, now time.Time) error {
	_, err := r.db.Exec(ctx, `UPDATE users SET last_login = $1 WHERE id = $2`, now, id)
	return err
}

// ListTopByBalance returns accounts ordered by balance descending for the
// leaderboard. Wallets and emails are not exposed here.
func (r *AccountRepository) ListTopByBalance(ctx context.Context, limit int) ([]*domain.Account, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+accountColumns+`
		 FROM users
		 ORDER BY balance DESC, id
		 LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []*domain.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, a)
	}
	return res, rows.Err()
}

// List returns accounts page-wise for the admin panel.
func (r *AccountRepository) List(ctx context.Context, limit, offset int) ([]*domain.Account, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+accountColumns+`
		 FROM users
		 ORDER BY created_at DESC
		 LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []*domain.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, a)
	}
	return res, rows.Err()
}

// IsUniqueViolation reports whether err is a Postgres unique-constraint
// violation, the canonical "already processed / already exists" signal.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

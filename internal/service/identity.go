package service

import (
	"context"
	"crypto/rand"
	"errors"
	"strings"

	"wagchain/internal/domain"
	"wagchain/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrEmptyIdentity      = errors.New("identity must not be empty")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

const referralCodeChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
const referralCodeLen = 6

// GenerateReferralCode returns a random 6-character uppercase alphanumeric
// code. Uniqueness is enforced by the store; callers retry on collision.
func GenerateReferralCode() string {
	// 252 is the largest multiple of 36 below 256; rejecting bytes at or
	// above it keeps every character equally likely.
	const limit = 252

	out := make([]byte, 0, referralCodeLen)
	buf := make([]byte, referralCodeLen)
	for len(out) < referralCodeLen {
		rand.Read(buf)
		for _, v := range buf {
			if v >= limit || len(out) == referralCodeLen {
				continue
			}
			out = append(out, referralCodeChars[int(v)%len(referralCodeChars)])
		}
	}
	return string(out)
}

// IdentityService resolves external identities (wallet addresses, email
// credentials) into ledger accounts, creating them on first contact.
type IdentityService struct {
	accounts *repository.AccountRepository
}

func NewIdentityService(accounts *repository.AccountRepository) *IdentityService {
	return &IdentityService{accounts: accounts}
}

// ResolveWallet finds or creates the account for a wallet address. Addresses
// are lowercased before lookup so the same wallet in different cases maps to
// one account. created reports whether this call made the account.
func (s *IdentityService) ResolveWallet(ctx context.Context, address string) (account *domain.Account, created bool, err error) {
	address = strings.ToLower(strings.TrimSpace(address))
	if address == "" {
		return nil, false, ErrEmptyIdentity
	}

	account, err = s.accounts.GetByWallet(ctx, address)
	if err == nil {
		return account, false, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, false, err
	}

	account, err = s.create(ctx, &domain.Account{WalletAddress: address})
	if err == nil {
		return account, true, nil
	}

	// Lost a create race for the same address: the winner's row is the
	// account, not an error.
	if repository.IsUniqueViolation(err) {
		account, err = s.accounts.GetByWallet(ctx, address)
		return account, false, err
	}
	return nil, false, err
}

// RegisterEmail creates an account for email/password credentials.
func (s *IdentityService) RegisterEmail(ctx context.Context, email, password string) (*domain.Account, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, ErrEmptyIdentity
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	account, err := s.create(ctx, &domain.Account{Email: email, PasswordHash: string(hash)})
	if err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return account, nil
}

// AuthenticateEmail verifies email/password credentials.
func (s *IdentityService) AuthenticateEmail(ctx context.Context, email, password string) (*domain.Account, error) {
	account, err := s.accounts.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return account, nil
}

// create inserts a fresh account, regenerating the referral code on a code
// collision. A collision on the identity column itself propagates to the
// caller.
func (s *IdentityService) create(ctx context.Context, account *domain.Account) (*domain.Account, error) {
	var err error
	for attempt := 0; attempt < 5; attempt++ {
		account.ReferralCode = GenerateReferralCode()
		err = s.accounts.Create(ctx, account)
		if err == nil {
			return account, nil
		}
		if !repository.IsUniqueViolation(err) {
			return nil, err
		}
		// A duplicate wallet/email means the account exists; only a
		// referral-code clash is worth retrying.
		if account.WalletAddress != "" {
			if _, lookupErr := s.accounts.GetByWallet(ctx, account.WalletAddress); lookupErr == nil {
				return nil, err
			}
		}
		if account.Email != "" {
			if _, lookupErr := s.accounts.GetByEmail(ctx, account.Email); lookupErr == nil {
				return nil, err
			}
		}
	}
	return nil, err
}

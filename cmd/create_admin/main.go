package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"

	"wagchain/internal/db"
	"wagchain/internal/repository"
	"wagchain/internal/service"

	"github.com/joho/godotenv"
)

// Bootstraps an admin account and prints a JWT for it. Safe to re-run:
// an existing account is promoted instead of recreated.
func main() {
	_ = godotenv.Load()

	email := flag.String("email", "admin@wagchain.app", "admin email")
	password := flag.String("password", "", "admin password (required on first run)")
	flag.Parse()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL not set")
	}
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		log.Fatal("JWT_SECRET not set")
	}
	service.InitJWT(secret)

	pool := db.Connect(dsn)
	defer pool.Close()

	ctx := context.Background()
	accounts := repository.NewAccountRepository(pool)
	identity := service.NewIdentityService(accounts)

	account, err := accounts.GetByEmail(ctx, *email)
	switch {
	case err == nil:
		log.Printf("account already exists id=%d\n", account.ID)
	case errors.Is(err, repository.ErrNotFound):
		if *password == "" {
			log.Fatal("-password required to create the admin account")
		}
		account, err = identity.RegisterEmail(ctx, *email, *password)
		if err != nil {
			log.Fatalf("create admin failed: %v", err)
		}
		log.Printf("account created id=%d\n", account.ID)
	default:
		log.Fatalf("lookup failed: %v", err)
	}

	if _, err := pool.Exec(ctx, `UPDATE users SET role = 'admin' WHERE id = $1`, account.ID); err != nil {
		log.Fatalf("promote to admin failed: %v", err)
	}
	log.Printf("account id=%d promoted to admin\n", account.ID)

	token, err := service.GenerateJWT(account.ID)
	if err != nil {
		log.Fatalf("failed to generate token: %v", err)
	}
	log.Printf("token=%s\n", token)
}

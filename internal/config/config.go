package config

import (
	"os"
	"strconv"

	"wagchain/internal/logger"

	"github.com/joho/godotenv"
)

type Config struct {
	AppPort     string
	AppURL      string
	DatabaseURL string
	JWTSecret   string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Reward tunables
	ReferralReward     int64
	StreakBaseBonus    int64
	StreakWeeklyBonus  int64
	StreakMonthlyBonus int64
	LeaderboardLimit   int
}

// Загрузка конфига из env
func Load() *Config {
	_ = godotenv.Load()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		logger.Fatal("DATABASE_URL is not set")
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		logger.Fatal("JWT_SECRET is not set")
	}

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	appURL := os.Getenv("APP_URL")
	if appURL == "" {
		appURL = "https://wagchain.app" // ! если не установлено в env !
	}

	redisDB := 0
	if v := os.Getenv("REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			redisDB = n
		}
	}

	return &Config{
		AppPort:       port,
		AppURL:        appURL,
		DatabaseURL:   dbURL,
		JWTSecret:     jwtSecret,
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       redisDB,

		ReferralReward:     envInt64("REFERRAL_REWARD", 50),
		StreakBaseBonus:    envInt64("STREAK_BASE_BONUS", 10),
		StreakWeeklyBonus:  envInt64("STREAK_WEEKLY_BONUS", 50),
		StreakMonthlyBonus: envInt64("STREAK_MONTHLY_BONUS", 200),
		LeaderboardLimit:   envInt("LEADERBOARD_LIMIT", 20),
	}
}

func envInt64(name string, def int64) int64 {
	if v := os.Getenv(name); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			return n
		}
	}
	return def
}

func envInt(name string, def int) int {
	if v := os.Getenv(name); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return def
}

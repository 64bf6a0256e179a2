package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv         string
	HTTPAddr       string
	MigrationsPath string

	// DatabaseURL takes precedence over the discrete DB fields when set
	// (hosted Postgres, often behind a pooler). DirectURL, when set, is used
	// for migrations to bypass the pooler.
	DatabaseURL string
	DirectURL   string

	DB DBConfig

	Auth AuthConfig

	// PortalAllowedOrigins is a comma-separated allowlist of origins allowed
	// to call the public supplier-portal endpoints (token-based). Example:
	//   https://portal.yourapp.com,http://localhost:5173
	PortalAllowedOrigins []string

	// OverdueSweepSchedule is the cron spec for the job that flags open
	// payables past their due date. Empty disables the sweep.
	OverdueSweepSchedule string
}

type DBConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string
}

type AuthConfig struct {
	// JWTSecret signs back-office session tokens (HS256).
	JWTSecret string
	// TokenTTLMinutes is the session token lifetime.
	TokenTTLMinutes int
}

func Load() Config {
	// Convenience for local dev: load variables from .env if present.
	// In production, rely on real environment variables.
	_ = godotenv.Load()

	httpAddr := os.Getenv("HTTP_ADDR")
	if httpAddr == "" {
		if port := os.Getenv("PORT"); port != "" {
			httpAddr = ":" + port
		} else {
			httpAddr = ":8081"
		}
	}

	return Config{
		AppEnv:         env("APP_ENV", "dev"),
		HTTPAddr:       httpAddr,
		MigrationsPath: os.Getenv("MIGRATIONS_PATH"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		DirectURL:      os.Getenv("DIRECT_URL"),
		DB: DBConfig{
			Host:     env("DB_HOST", "localhost"),
			Port:     env("DB_PORT", "5432"),
			Name:     env("DB_NAME", "backoffice"),
			User:     env("DB_USER", "backoffice"),
			Password: env("DB_PASSWORD", "backoffice"),
			SSLMode:  env("DB_SSLMODE", "disable"),
		},
		Auth: AuthConfig{
			JWTSecret:       os.Getenv("AUTH_JWT_SECRET"),
			TokenTTLMinutes: envInt("AUTH_TOKEN_TTL_MINUTES", 480),
		},
		PortalAllowedOrigins: envList("PORTAL_ALLOWED_ORIGINS", "http://localhost:5173,http://localhost:4173"),
		OverdueSweepSchedule: env("OVERDUE_SWEEP_SCHEDULE", "0 6 * * *"),
	}
}

func env(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func envList(key, fallbackCSV string) []string {
	v := os.Getenv(key)
	if v == "" {
		v = fallbackCSV
	}
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

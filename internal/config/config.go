package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/neexbeast/pickyourtrail/internal/auth"
)

// Config holds the server settings read from the environment.
type Config struct {
	Port          string
	DatabaseURL   string
	RedisURL      string // empty disables caching
	JWTSecret     string
	TokenTTL      time.Duration
	MigrationsDir string
	CORSOrigins   []string
	RateLimitRPM  int
}

// Load reads configuration from the environment, after loading a .env file if
// one exists in the working directory.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from getenv.
func FromEnv(getenv func(string) string) (*Config, error) {
	env := func(key, fallback string) string {
		if v := getenv(key); v != "" {
			return v
		}
		return fallback
	}

	cfg := &Config{
		Port:          env("PORT", "5000"),
		DatabaseURL:   getenv("DATABASE_URL"),
		RedisURL:      getenv("REDIS_URL"),
		JWTSecret:     getenv("JWT_SECRET"),
		MigrationsDir: env("MIGRATIONS_DIR", "migrations"),
		CORSOrigins:   splitList(env("CORS_ORIGINS", "*")),
	}

	var missing []string
	if cfg.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}
	if cfg.JWTSecret == "" {
		missing = append(missing, "JWT_SECRET")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("required environment variables not set: %s", strings.Join(missing, ", "))
	}

	ttl, err := time.ParseDuration(env("TOKEN_TTL", auth.DefaultTokenTTL.String()))
	if err != nil || ttl <= 0 {
		return nil, fmt.Errorf("invalid TOKEN_TTL %q", getenv("TOKEN_TTL"))
	}
	cfg.TokenTTL = ttl

	rpm, err := strconv.Atoi(env("RATE_LIMIT_RPM", "120"))
	if err != nil || rpm <= 0 {
		return nil, fmt.Errorf("invalid RATE_LIMIT_RPM %q", getenv("RATE_LIMIT_RPM"))
	}
	cfg.RateLimitRPM = rpm

	return cfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

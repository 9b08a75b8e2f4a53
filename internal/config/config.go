// Package config handles application configuration loading from environment
// variables. It provides a centralized Config struct used across the application.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration values loaded from the environment.
type Config struct {
	// Server settings
	Host string
	Port string
	Env  string // "development", "production", "testing"

	// LogFormat is "text" or "json". Empty picks text in development and
	// json everywhere else.
	LogFormat string

	// PostgreSQL connection
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// Valkey (Redis-compatible cache)
	ValkeyHost     string
	ValkeyPort     string
	ValkeyPassword string

	// CategoryCacheTTL bounds how long a resolved category set is reused.
	CategoryCacheTTL time.Duration

	// Admin mutation rate limit, per client IP.
	AdminRateLimit float64 // sustained requests per second
	AdminRateBurst int
}

// Load reads configuration from environment variables, applying defaults
// for development where appropriate. A .env file in the working directory
// is read first; variables already set in the environment win over it.
// Returns an error if critical values are missing in production mode.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := &Config{
		Host:      envOrDefault("APP_HOST", "0.0.0.0"),
		Port:      envOrDefault("APP_PORT", "8080"),
		Env:       envOrDefault("APP_ENV", "development"),
		LogFormat: os.Getenv("LOG_FORMAT"),

		DBHost:     envOrDefault("POSTGRES_HOST", "localhost"),
		DBPort:     envOrDefault("POSTGRES_PORT", "5432"),
		DBUser:     envOrDefault("POSTGRES_USER", "servicedir"),
		DBPassword: envOrDefault("POSTGRES_PASSWORD", "changeme"),
		DBName:     envOrDefault("POSTGRES_DB", "servicedir"),

		ValkeyHost:     envOrDefault("VALKEY_HOST", "localhost"),
		ValkeyPort:     envOrDefault("VALKEY_PORT", "6379"),
		ValkeyPassword: os.Getenv("VALKEY_PASSWORD"),
	}

	var err error
	if cfg.CategoryCacheTTL, err = time.ParseDuration(envOrDefault("CATEGORY_CACHE_TTL", "10m")); err != nil {
		return nil, fmt.Errorf("CATEGORY_CACHE_TTL: %w", err)
	}
	if cfg.AdminRateLimit, err = strconv.ParseFloat(envOrDefault("ADMIN_RATE_LIMIT", "5"), 64); err != nil {
		return nil, fmt.Errorf("ADMIN_RATE_LIMIT: %w", err)
	}
	if cfg.AdminRateBurst, err = strconv.Atoi(envOrDefault("ADMIN_RATE_BURST", "10")); err != nil {
		return nil, fmt.Errorf("ADMIN_RATE_BURST: %w", err)
	}
	if cfg.AdminRateLimit <= 0 || cfg.AdminRateBurst < 1 {
		return nil, fmt.Errorf("ADMIN_RATE_LIMIT and ADMIN_RATE_BURST must be positive")
	}

	switch cfg.LogFormat {
	case "", "text", "json":
	default:
		return nil, fmt.Errorf("LOG_FORMAT must be text or json, got %q", cfg.LogFormat)
	}

	if cfg.Env == "production" {
		if cfg.DBPassword == "changeme" {
			return nil, fmt.Errorf("POSTGRES_PASSWORD must be set in production")
		}
	}

	return cfg, nil
}

// DSN returns the PostgreSQL connection URL. Credentials are escaped, so
// passwords may contain URL-reserved characters.
func (c *Config) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.DBUser, c.DBPassword),
		Host:     net.JoinHostPort(c.DBHost, c.DBPort),
		Path:     "/" + c.DBName,
		RawQuery: "sslmode=disable",
	}
	return u.String()
}

// Addr returns the server listen address (host:port).
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, c.Port)
}

// IsDev returns true if the application is running in development mode.
func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// JSONLogs reports whether logs should be written as JSON.
func (c *Config) JSONLogs() bool {
	if c.LogFormat != "" {
		return c.LogFormat == "json"
	}
	return !c.IsDev()
}

// envOrDefault reads an environment variable, returning a fallback if unset or empty.
func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// Package config resolves process-level settings from the environment.
//
// Settings come from real environment variables, optionally seeded from a
// .env file in the working directory. A missing .env is not an error; a
// present one never overrides variables already set by the caller.
package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Environment variable names recognized by the engine binary.
const (
	EnvLogLevel      = "PAYMENT_ENGINE_LOG_LEVEL"
	EnvProgressEvery = "PAYMENT_ENGINE_PROGRESS_EVERY"
)

// DefaultProgressEvery is the record interval between progress log lines
// during stream processing.
const DefaultProgressEvery = 1_000_000

// Config holds the resolved settings for one process run.
type Config struct {
	// LogLevel names the minimum slog level: debug, info, warn or error.
	LogLevel string

	// ProgressEvery is the number of ingested records between progress
	// log lines. Zero disables progress logging.
	ProgressEvery int64
}

// Load reads a .env file if one exists, then resolves every setting
// against the environment. Unset or malformed values fall back to
// defaults rather than failing the run.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		LogLevel:      getEnv(EnvLogLevel, "info"),
		ProgressEvery: getEnvInt64(EnvProgressEvery, DefaultProgressEvery),
	}
}

// Level maps the configured LogLevel name to a slog level.
// Unknown names fall back to info.
func (c *Config) Level() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getEnvInt64(key string, fallback int64) int64 {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback
	}
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}

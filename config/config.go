/*
Package config reads server settings from the environment.

PURPOSE:
  One place for everything cmd/server and cmd/rotactl need before wiring:
  listen port, SQLite path, log level, roll-out scheduler and CORS.

SOURCES (later wins):
  1. Defaults below
  2. .env in the working directory, if present
  3. Process environment
  4. Command-line flags (applied by the caller)

VARIABLES:
  ROTA_PORT              HTTP port (8080)
  ROTA_DB                SQLite path, ":memory:" allowed (rota.db)
  ROTA_LOG_LEVEL         logrus level (info)
  ROTA_ROLLOUT_ENABLED   Start the weekly roll-out scheduler (false)
  ROTA_ROLLOUT_INTERVAL  Scheduler check interval (24h)
  ROTA_ROLLOUT_LEAD      Weeks ahead to roll out (1)
  ROTA_CORS_ORIGINS      Comma-separated allowed origins
*/
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

type Config struct {
	Port     int
	DBPath   string
	LogLevel string
	Rollout  RolloutConfig
	// CORSOrigins is empty when unset; the router then uses its defaults.
	CORSOrigins []string
}

type RolloutConfig struct {
	Enabled   bool
	Interval  time.Duration
	LeadWeeks int
}

// Load reads .env (if any) and the environment.
func Load() (*Config, error) {
	return LoadFile(".env")
}

// LoadFile is Load with an explicit dotenv path. A missing file is not an
// error; variables already in the environment are never overridden by it.
func LoadFile(path string) (*Config, error) {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}

	port, err := strconv.Atoi(getEnv("ROTA_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid ROTA_PORT: %w", err)
	}
	if port < 1 || port > 65535 {
		return nil, fmt.Errorf("invalid ROTA_PORT: %d out of range", port)
	}
	logLevel := getEnv("ROTA_LOG_LEVEL", "info")
	if _, err := logrus.ParseLevel(logLevel); err != nil {
		return nil, fmt.Errorf("invalid ROTA_LOG_LEVEL: %w", err)
	}
	enabled, err := getEnvAsBool("ROTA_ROLLOUT_ENABLED", false)
	if err != nil {
		return nil, err
	}
	interval, err := time.ParseDuration(getEnv("ROTA_ROLLOUT_INTERVAL", "24h"))
	if err != nil {
		return nil, fmt.Errorf("invalid ROTA_ROLLOUT_INTERVAL: %w", err)
	}
	if interval <= 0 {
		return nil, fmt.Errorf("invalid ROTA_ROLLOUT_INTERVAL: must be positive, got %s", interval)
	}
	lead, err := strconv.Atoi(getEnv("ROTA_ROLLOUT_LEAD", "1"))
	if err != nil {
		return nil, fmt.Errorf("invalid ROTA_ROLLOUT_LEAD: %w", err)
	}
	if lead < 0 {
		return nil, fmt.Errorf("invalid ROTA_ROLLOUT_LEAD: must not be negative, got %d", lead)
	}

	cfg := &Config{
		Port:     port,
		DBPath:   getEnv("ROTA_DB", "rota.db"),
		LogLevel: logLevel,
		Rollout: RolloutConfig{
			Enabled:   enabled,
			Interval:  interval,
			LeadWeeks: lead,
		},
		CORSOrigins: getEnvAsList("ROTA_CORS_ORIGINS"),
	}
	return cfg, nil
}

// NewLogger builds the process logger. An unknown level falls back to info.
func NewLogger(level string) *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		logger.WithField("level", level).Warn("unknown log level, using info")
		lvl = logrus.InfoLevel
	}
	logger.SetLevel(lvl)
	return logger
}

func getEnv(key string, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}

// getEnvAsBool returns defaultVal for an unset or empty variable.
func getEnvAsBool(name string, defaultVal bool) (bool, error) {
	valStr := strings.TrimSpace(getEnv(name, ""))
	if valStr == "" {
		return defaultVal, nil
	}
	val, err := strconv.ParseBool(valStr)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", name, err)
	}
	return val, nil
}

func getEnvAsList(name string) []string {
	var out []string
	for _, part := range strings.Split(getEnv(name, ""), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

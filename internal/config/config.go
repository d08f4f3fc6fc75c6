// Package config holds the resolved process configuration. Values come
// from CLI flags with environment variable fallbacks; a .env file is
// loaded into the environment first when present.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

const (
	DefaultDBPath           = "./todosvc.db"
	DefaultMaxOpenConns     = 10
	DefaultMaxIdleConns     = 5
	DefaultStatementTimeout = 5 * time.Second
)

// Config is the resolved service configuration.
type Config struct {
	Port    int
	DBPath  string
	LogFile string

	MaxOpenConns     int
	MaxIdleConns     int
	StatementTimeout time.Duration

	// MaintenanceSchedule is a cron expression; empty disables the
	// periodic maintenance job.
	MaintenanceSchedule string
}

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{
		DBPath:           DefaultDBPath,
		MaxOpenConns:     DefaultMaxOpenConns,
		MaxIdleConns:     DefaultMaxIdleConns,
		StatementTimeout: DefaultStatementTimeout,
	}
}

// Validate checks that the configuration can run a server.
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.DBPath == "" {
		return fmt.Errorf("database path is required")
	}
	if c.MaxOpenConns <= 0 {
		return fmt.Errorf("max open connections must be positive, got %d", c.MaxOpenConns)
	}
	if c.StatementTimeout <= 0 {
		return fmt.Errorf("statement timeout must be positive, got %s", c.StatementTimeout)
	}
	return nil
}

// LoadEnvFile loads a .env file into the process environment when one
// exists. A missing file is not an error.
func LoadEnvFile() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Warn().Err(err).Msg("Failed to load .env file")
	}
}

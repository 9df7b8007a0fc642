// Package cli provides common initialization utilities shared by
// cmd/tracker and cmd/tracker-worker.
package cli

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/MilanBeharee27/finance-tracker/internal/config"
	"github.com/MilanBeharee27/finance-tracker/internal/log"
	"github.com/MilanBeharee27/finance-tracker/internal/storage"
)

// SetupLogger initializes structured logging with default settings.
// Returns the configured logger and sets it as the default logger.
func SetupLogger() *log.Logger {
	logger := log.New(log.DefaultConfig())
	log.SetDefault(logger)
	return logger
}

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads configuration and validates it.
// Returns the config or exits the process on validation failure.
func LoadAndValidateConfig(logger *log.Logger) *config.Config {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	return cfg
}

// InitStorage opens the SQLite repository and runs migrations.
// Returns the repository or exits the process on failure.
func InitStorage(logger *log.Logger, cfg *config.Config) *storage.Repository {
	repo, err := storage.NewRepository(cfg.SQLiteDBPath, cfg.DBTimeout)
	if err != nil {
		logger.Error("Failed to initialize storage", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	return repo
}

// Package cli holds the interactive menu and the start-up helpers shared by
// the command entry point.
package cli

import (
	"context"
	"fmt"

	"github.com/joho/godotenv"

	"expense-tracker/internal/backend"
	"expense-tracker/internal/config"
	"expense-tracker/internal/log"
)

// SetupLogger builds the application logger for the given level name and
// sets it as the default logger. Unknown names fall back to the default level.
func SetupLogger(level string) *log.Logger {
	cfg := log.DefaultConfig()
	if lvl, err := log.ParseLevel(level); err == nil {
		cfg.Level = lvl
	}
	logger := log.New(cfg)
	log.SetDefault(logger)
	return logger
}

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as the file is optional.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads configuration and validates it.
func LoadAndValidateConfig(logger *log.Logger) (*config.Config, error) {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed",
			log.NewFields().WithErrorType(log.ErrorTypeConfiguration).WithError(err).ToSlice()...)
		return nil, err
	}
	return cfg, nil
}

// OpenBackend builds the configured store.
func OpenBackend(ctx context.Context, logger *log.Logger, cfg *config.Config) (*backend.BackendResult, error) {
	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("backend config: %w", err)
	}
	result, err := backend.NewFactory(logger).CreateBackend(ctx, backendCfg)
	if err != nil {
		logger.Error("Failed to initialize backend", log.FieldBackend, backendCfg.Type.String(), log.FieldError, err)
		return nil, err
	}
	return result, nil
}

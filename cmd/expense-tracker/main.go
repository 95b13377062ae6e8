package main

import (
	"context"
	"os"

	"expense-tracker/internal/cli"
	"expense-tracker/internal/config"
	"expense-tracker/internal/log"
	"expense-tracker/internal/services"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Load .env file for local development
	cli.LoadEnvFile()

	logger := cli.SetupLogger(config.Load().LogLevel)

	cfg, err := cli.LoadAndValidateConfig(logger)
	if err != nil {
		return cli.ExitFailure
	}

	ctx := context.Background()

	result, err := cli.OpenBackend(ctx, logger, cfg)
	if err != nil {
		return cli.ExitFailure
	}
	if result.Cleanup != nil {
		defer func() {
			if err := result.Cleanup(); err != nil {
				logger.Error("Failed to close backend", log.FieldError, err)
			}
		}()
	}

	service, err := services.Open(ctx, result.Store, logger)
	if err != nil {
		logger.Error("Failed to load expenses",
			log.NewFields().WithOperation(log.OpLoad).WithErrorType(log.ErrorTypeStorage).WithError(err).ToSlice()...)
		return cli.ExitFailure
	}

	logger.Info("Starting expense tracker",
		log.FieldOperation, log.OpStartup,
		log.FieldBackend, cfg.DataBackend,
		log.FieldCount, service.Count())

	code := cli.NewMenu(os.Stdin, os.Stdout, service, logger).Run(ctx)

	logger.Info("Session ended", log.FieldOperation, log.OpShutdown, log.FieldExitCode, code)
	return code
}

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/UBC-CIC/first-responder-admin/adapter/cli"
	"github.com/UBC-CIC/first-responder-admin/internal/app"
	"github.com/UBC-CIC/first-responder-admin/pkg/config"
	"github.com/UBC-CIC/first-responder-admin/pkg/observability"
)

func main() {
	logger := observability.LoggerFromEnv()

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger = observability.NewLogger(observability.LogConfig{
		Level:              observability.LogLevel(cfg.LogLevel),
		Format:             observability.LogFormat(cfg.LogFormat),
		Output:             os.Stdout,
		ServiceName:        observability.ServiceName + "-worker",
		ServiceVersion:     cli.Version,
		RedactPhoneNumbers: cfg.IsProduction(),
	})
	logger.Info("starting responder worker")

	container, err := app.NewContainer(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize container", "error", err)
		os.Exit(1)
	}

	err = container.RunWorker(ctx)
	container.Close()
	if err != nil {
		logger.Error("worker stopped", "error", err)
		os.Exit(1)
	}
	logger.Info("worker stopped")
}

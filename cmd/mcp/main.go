package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/UBC-CIC/first-responder-admin/adapter/cli"
	"github.com/UBC-CIC/first-responder-admin/internal/app"
	mcpinternal "github.com/UBC-CIC/first-responder-admin/internal/mcp"
	"github.com/UBC-CIC/first-responder-admin/pkg/config"
	"github.com/UBC-CIC/first-responder-admin/pkg/observability"
)

func main() {
	logger := observability.LoggerFromEnv()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger = observability.NewLogger(observability.LogConfig{
		Level:              observability.LogLevel(cfg.LogLevel),
		Format:             observability.LogFormat(cfg.LogFormat),
		Output:             os.Stdout,
		ServiceName:        observability.ServiceName + "-mcp",
		ServiceVersion:     cli.Version,
		RedactPhoneNumbers: cfg.IsProduction(),
	})

	container, err := app.NewContainer(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize container", "error", err)
		os.Exit(1)
	}
	defer container.Close()

	if err := mcpinternal.Serve(ctx, cfg, cli.NewApp(container), logger); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("mcp server error", "error", err)
		container.Close()
		os.Exit(1)
	}
}

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/UBC-CIC/first-responder-admin/adapter/cli"
	"github.com/UBC-CIC/first-responder-admin/adapter/cli/mcp"
	"github.com/UBC-CIC/first-responder-admin/adapter/cli/meeting"
	"github.com/UBC-CIC/first-responder-admin/adapter/cli/server"
	"github.com/UBC-CIC/first-responder-admin/adapter/cli/specialist"
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
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	logger = observability.NewLogger(observability.LogConfig{
		Level:              observability.LogLevel(cfg.LogLevel),
		Format:             observability.LogFormat(cfg.LogFormat),
		ServiceName:        observability.ServiceName,
		ServiceVersion:     cli.Version,
		RedactPhoneNumbers: cfg.IsProduction(),
	})
	cli.SetLogger(logger)

	// The container is built only for commands that need it.
	cli.SetAppFactory(func(ctx context.Context) (*cli.App, error) {
		container, err := app.NewContainer(ctx, cfg, logger)
		if err != nil {
			return nil, err
		}
		return cli.NewApp(container), nil
	})

	// Register commands
	cli.AddCommand(server.ServeCmd)
	cli.AddCommand(server.WorkerCmd)
	cli.AddCommand(specialist.Cmd)
	cli.AddCommand(meeting.Cmd)
	cli.AddCommand(mcp.Cmd)

	// Execute CLI
	cli.Execute(ctx)
}

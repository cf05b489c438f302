// Package server holds the long-running process commands.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/UBC-CIC/first-responder-admin/adapter/api"
	"github.com/UBC-CIC/first-responder-admin/adapter/cli"
	internalApp "github.com/UBC-CIC/first-responder-admin/internal/app"
)

const shutdownTimeout = 10 * time.Second

var withWorker bool

// ServeCmd runs the HTTP API.
var ServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the telephony and meeting API",
	Long: `Run the HTTP API: telephony actions, data joins, meeting and specialist
management, and provider webhooks. With --with-worker the background worker
runs in the same process.

Examples:
  responder serve
  responder serve --with-worker`,
	RunE: func(cmd *cobra.Command, args []string) error {
		container, err := requireContainer()
		if err != nil {
			return err
		}
		return runServe(cmd.Context(), container, withWorker)
	},
}

func init() {
	ServeCmd.Flags().BoolVar(&withWorker, "with-worker", false, "also run the outbox processor, availability job and meeting feed")
}

func requireContainer() (*internalApp.Container, error) {
	c := cli.GetApp().Container()
	if c == nil {
		return nil, errors.New("this command requires an initialized container")
	}
	return c, nil
}

func runServe(ctx context.Context, c *internalApp.Container, worker bool) error {
	cfg := c.Config
	logger := c.Logger

	srvCfg := api.DefaultServerConfig()
	srvCfg.Addr = cfg.HTTPAddr
	srvCfg.JoinRateLimit = cfg.JoinRateLimit
	srvCfg.JoinRateBurst = cfg.JoinRateBurst
	srv := api.NewServer(srvCfg, api.HandlersFromContainer(c), logger)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errCh := make(chan error, 2)

	var wg sync.WaitGroup
	defer wg.Wait()

	switch {
	case worker:
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := c.RunWorker(ctx); err != nil {
				errCh <- fmt.Errorf("worker: %w", err)
			}
		}()
	case cfg.OutboxProcessorEnabled:
		if err := c.OutboxProcessor.Start(ctx); err != nil {
			return fmt.Errorf("failed to start outbox processor: %w", err)
		}
		defer c.OutboxProcessor.Stop()
	default:
		logger.Info("outbox processor disabled; run the worker to deliver events")
	}

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("api server: %w", err)
		}
	}()

	var runErr error
	select {
	case <-ctx.Done():
	case runErr = <-errCh:
	}
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("api server shutdown error", "error", err)
	}
	return runErr
}

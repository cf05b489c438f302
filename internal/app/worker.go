package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/UBC-CIC/first-responder-admin/pkg/observability"
)

// RunWorker runs the background side of the service until ctx is done: the
// outbox processor, the availability job, the meeting feed consumer and
// outbox housekeeping. A health server is started when WorkerHealthAddr is
// set.
func (c *Container) RunWorker(ctx context.Context) error {
	cfg := c.Config
	logger := c.Logger

	consumer, err := c.NewFeedConsumer()
	if err != nil {
		return err
	}
	defer func() { _ = consumer.Close() }()

	if err := c.OutboxProcessor.Start(ctx); err != nil {
		return fmt.Errorf("failed to start outbox processor: %w", err)
	}
	defer c.OutboxProcessor.Stop()

	if err := c.AvailabilityJob.Start(ctx); err != nil {
		return err
	}
	defer c.AvailabilityJob.Stop()

	consumerErr := make(chan error, 1)
	go func() {
		consumerErr <- consumer.Start(ctx)
	}()

	logger.Info("worker started",
		"poll_interval", cfg.OutboxPollInterval,
		"batch_size", cfg.OutboxBatchSize,
		"availability_schedule", cfg.AvailabilitySchedule,
		"feed_queue", cfg.FeedQueue,
	)

	if cfg.WorkerHealthAddr != "" {
		srv := &http.Server{
			Addr:              cfg.WorkerHealthAddr,
			Handler:           c.workerHealthHandler(),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			logger.Info("health server starting", "addr", cfg.WorkerHealthAddr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("health server error", "error", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Warn("health server shutdown error", "error", err)
			}
		}()
	}

	cleanupTicker := time.NewTicker(orDefault(cfg.OutboxCleanupInterval, 24*time.Hour))
	defer cleanupTicker.Stop()
	statsTicker := time.NewTicker(orDefault(cfg.OutboxStatsInterval, 30*time.Second))
	defer statsTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("shutting down worker")
			return nil
		case err := <-consumerErr:
			if err != nil && !errors.Is(err, context.Canceled) {
				return fmt.Errorf("meeting feed consumer stopped: %w", err)
			}
			return nil
		case <-cleanupTicker.C:
			deleted, err := c.Repos.Outbox.DeleteOld(ctx, cfg.OutboxRetentionDays)
			if err != nil {
				logger.Error("outbox cleanup failed", "error", err)
				continue
			}
			if deleted > 0 {
				logger.Info("outbox cleanup completed", "deleted", deleted, "retention_days", cfg.OutboxRetentionDays)
			}
		case <-statsTicker.C:
			stats := c.OutboxProcessor.GetStats()
			logger.Info("outbox stats",
				"running", stats.IsRunning,
				"published", stats.PublishedCount,
				"failed", stats.FailedCount,
				"dead", stats.DeadCount,
				"lag_seconds", stats.LagSeconds,
				"last_error", stats.LastError,
			)
		}
	}
}

func (c *Container) workerHealthHandler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		stats := c.OutboxProcessor.GetStats()
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status":            "ok",
			"running":           stats.IsRunning,
			"published":         stats.PublishedCount,
			"failed":            stats.FailedCount,
			"dead":              stats.DeadCount,
			"last_processed_at": stats.LastProcessedAt,
			"last_error_at":     stats.LastErrorAt,
			"last_error":        stats.LastError,
		})
	})
	mux.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		checkCtx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		health := c.Health.Check(checkCtx)
		w.Header().Set("Content-Type", "application/json")
		if health.Status == observability.HealthStatusUnhealthy {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		_ = json.NewEncoder(w).Encode(health)
	})
	return mux
}

func orDefault(d, fallback time.Duration) time.Duration {
	if d <= 0 {
		return fallback
	}
	return d
}

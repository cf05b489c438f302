// Package jobs runs periodic specialist maintenance.
package jobs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/UBC-CIC/first-responder-admin/internal/specialists/domain"
	"github.com/UBC-CIC/first-responder-admin/pkg/observability"
)

// DefaultSchedule is how often availability is re-evaluated.
const DefaultSchedule = "@every 30m"

// RunSummary describes one availability pass.
type RunSummary struct {
	Evaluated int
	Changed   int
	Skipped   int
	Failed    int
}

// AvailabilityJob applies each specialist's schedule to their user status.
// Manually OFFLINE specialists are left alone.
type AvailabilityJob struct {
	repo     domain.Repository
	schedule string
	logger   *slog.Logger
	metrics  observability.Metrics
	now      func() time.Time

	mu   sync.Mutex
	cron *cron.Cron
}

func NewAvailabilityJob(repo domain.Repository, schedule string, logger *slog.Logger, metrics observability.Metrics) *AvailabilityJob {
	if schedule == "" {
		schedule = DefaultSchedule
	}
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = observability.NoopMetrics{}
	}
	return &AvailabilityJob{
		repo:     repo,
		schedule: schedule,
		logger:   logger.With("job", "availability"),
		metrics:  metrics,
		now:      time.Now,
	}
}

// Start schedules the job and returns once it is registered. Runs share ctx,
// so cancelling it aborts an in-flight pass.
func (j *AvailabilityJob) Start(ctx context.Context) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.cron != nil {
		return errors.New("availability job already started")
	}

	c := cron.New(
		cron.WithLogger(cronLogger{j.logger}),
		cron.WithChain(cron.SkipIfStillRunning(cronLogger{j.logger})),
	)
	if _, err := c.AddFunc(j.schedule, func() {
		if _, err := j.RunOnce(ctx); err != nil {
			j.logger.Error("availability run failed", "error", err)
		}
	}); err != nil {
		return fmt.Errorf("invalid availability schedule %q: %w", j.schedule, err)
	}
	c.Start()
	j.cron = c
	j.logger.Info("availability job started", "schedule", j.schedule)
	return nil
}

// Stop waits for a running pass to finish.
func (j *AvailabilityJob) Stop() {
	j.mu.Lock()
	c := j.cron
	j.cron = nil
	j.mu.Unlock()
	if c == nil {
		return
	}
	<-c.Stop().Done()
	j.logger.Info("availability job stopped")
}

// RunOnce evaluates every profile. A failure on one profile does not stop the
// pass; only a failure to list profiles is returned.
func (j *AvailabilityJob) RunOnce(ctx context.Context) (RunSummary, error) {
	var summary RunSummary
	j.metrics.Counter(observability.MetricAvailabilityRuns, 1)

	profiles, err := j.repo.List(ctx)
	if err != nil {
		j.metrics.Counter(observability.MetricAvailabilityErrors, 1)
		return summary, err
	}

	now := j.now()
	for _, p := range profiles {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		summary.Evaluated++
		if !p.UserStatus().IsScheduled() {
			continue
		}

		next, skipped := domain.Evaluate(p.Availability(), now)
		for _, s := range skipped {
			summary.Skipped++
			j.logger.Warn("schedule skipped",
				"phone_number", p.PhoneNumber(),
				"schedule", s.Index,
				"timezone", s.Timezone,
				"error", s.Err,
			)
		}
		if next == p.UserStatus() {
			continue
		}

		written, err := j.repo.ApplyScheduledStatus(ctx, p.PhoneNumber(), next)
		if err != nil {
			summary.Failed++
			j.metrics.Counter(observability.MetricAvailabilityErrors, 1)
			j.logger.Error("failed to apply scheduled status", "phone_number", p.PhoneNumber(), "error", err)
			continue
		}
		if written {
			summary.Changed++
			j.metrics.Counter(observability.MetricAvailabilityChanged, 1, observability.T("status", string(next)))
			j.logger.Debug("user status changed", "phone_number", p.PhoneNumber(), "from", p.UserStatus(), "to", next)
		}
	}

	j.logger.Info("availability run complete",
		"evaluated", summary.Evaluated,
		"changed", summary.Changed,
		"skipped", summary.Skipped,
		"failed", summary.Failed,
	)
	return summary, nil
}

// cronLogger routes cron's own logging to slog.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error(msg, append(keysAndValues, "error", err)...)
}

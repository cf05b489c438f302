package commands

import (
	"context"
	"log/slog"

	telephonyDomain "github.com/UBC-CIC/first-responder-admin/internal/telephony/domain"
	"github.com/UBC-CIC/first-responder-admin/pkg/observability"
)

// LifecycleHandler applies provider lifecycle notifications to the registry.
type LifecycleHandler struct {
	registry Registry
	sweeper  Sweeper
	logger   *slog.Logger
	metrics  observability.Metrics
}

func NewLifecycleHandler(registry Registry, sweeper Sweeper, logger *slog.Logger, metrics observability.Metrics) *LifecycleHandler {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = observability.NoopMetrics{}
	}
	return &LifecycleHandler{registry: registry, sweeper: sweeper, logger: logger, metrics: metrics}
}

// Handle is idempotent; the provider may deliver the same notification twice.
func (h *LifecycleHandler) Handle(ctx context.Context, event telephonyDomain.LifecycleEvent) error {
	ctx = observability.WithMeetingID(ctx, event.SessionID)

	switch event.Kind {
	case telephonyDomain.LifecycleSessionEnded:
		m, ended, err := h.registry.EndMeeting(ctx, event.SessionID)
		if err != nil {
			return err
		}
		// A redelivered room_finished must not reset specialists who have
		// since moved on to another meeting.
		if ended {
			h.metrics.Counter(observability.MetricMeetingsEnded, 1, observability.T("reason", "provider"))
			h.sweeper.Sweep(ctx, m, "")
		}
	case telephonyDomain.LifecycleParticipantLeft:
		m, err := h.registry.AttendeeLeft(ctx, event.SessionID, event.ParticipantID)
		if err != nil {
			return err
		}
		if m != nil {
			h.sweeper.Sweep(ctx, m, event.ParticipantID)
		}
	case telephonyDomain.LifecycleIgnored:
		h.logger.DebugContext(ctx, "lifecycle event ignored")
	}
	return nil
}

package commands

import (
	"context"
	"log/slog"

	"github.com/UBC-CIC/first-responder-admin/internal/meetings/domain"
	telephonyDomain "github.com/UBC-CIC/first-responder-admin/internal/telephony/domain"
	"github.com/UBC-CIC/first-responder-admin/pkg/observability"
)

// EndMeetingCommand is an operator closing a meeting.
type EndMeetingCommand struct {
	MeetingID string
}

// EndMeetingHandler handles EndMeetingCommand.
type EndMeetingHandler struct {
	registry Registry
	provider telephonyDomain.Provider
	sweeper  Sweeper
	logger   *slog.Logger
	metrics  observability.Metrics
}

func NewEndMeetingHandler(registry Registry, provider telephonyDomain.Provider, sweeper Sweeper, logger *slog.Logger, metrics observability.Metrics) *EndMeetingHandler {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = observability.NoopMetrics{}
	}
	return &EndMeetingHandler{
		registry: registry,
		provider: provider,
		sweeper:  sweeper,
		logger:   logger,
		metrics:  metrics,
	}
}

// Handle tears down the provider session, closes the meeting and resets its
// specialists. A provider failure does not keep the meeting open. Ending a
// meeting that is already closed returns it without sweeping.
func (h *EndMeetingHandler) Handle(ctx context.Context, cmd EndMeetingCommand) (*domain.Meeting, error) {
	if _, err := h.registry.FindByID(ctx, cmd.MeetingID); err != nil {
		return nil, err
	}

	if err := h.provider.EndSession(ctx, cmd.MeetingID); err != nil {
		h.logger.Warn("failed to end provider session", "meeting_id", cmd.MeetingID, "error", err)
	}

	m, ended, err := h.registry.EndMeeting(ctx, cmd.MeetingID)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, domain.ErrMeetingNotFound
	}
	if !ended {
		return m, nil
	}
	h.metrics.Counter(observability.MetricMeetingsEnded, 1, observability.T("reason", "operator"))
	h.sweeper.Sweep(ctx, m, "")
	return m, nil
}

package commands

import (
	"context"
	"errors"
	"log/slog"

	"github.com/UBC-CIC/first-responder-admin/internal/meetings/domain"
	telephonyDomain "github.com/UBC-CIC/first-responder-admin/internal/telephony/domain"
)

// KickAttendeeCommand removes one attendee from a meeting.
type KickAttendeeCommand struct {
	MeetingID  string
	AttendeeID string
}

// KickAttendeeHandler handles KickAttendeeCommand.
type KickAttendeeHandler struct {
	registry Registry
	provider telephonyDomain.Provider
	sweeper  Sweeper
	logger   *slog.Logger
}

func NewKickAttendeeHandler(registry Registry, provider telephonyDomain.Provider, sweeper Sweeper, logger *slog.Logger) *KickAttendeeHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &KickAttendeeHandler{registry: registry, provider: provider, sweeper: sweeper, logger: logger}
}

// Handle validates the kick against the roster before disconnecting the
// participant, so a rejected kick leaves the call untouched.
func (h *KickAttendeeHandler) Handle(ctx context.Context, cmd KickAttendeeCommand) (*domain.Meeting, error) {
	m, err := h.registry.FindByID(ctx, cmd.MeetingID)
	if err != nil {
		return nil, err
	}
	if !m.IsActive() {
		return nil, domain.ErrMeetingClosed
	}
	a, ok := m.AttendeeByID(cmd.AttendeeID)
	if !ok {
		return nil, domain.ErrAttendeeNotFound
	}
	switch a.State {
	case domain.AttendeeStateKicked:
		return m, nil
	case domain.AttendeeStateInCall:
	default:
		return nil, domain.ErrAttendeeNotInCall
	}

	err = h.provider.RemoveParticipant(ctx, cmd.MeetingID, cmd.AttendeeID)
	if err != nil && !errors.Is(err, telephonyDomain.ErrSessionNotFound) {
		return nil, err
	}

	m, err = h.registry.KickAttendee(ctx, cmd.MeetingID, cmd.AttendeeID)
	if err != nil {
		return nil, err
	}
	h.sweeper.Sweep(ctx, m, cmd.AttendeeID)
	return m, nil
}

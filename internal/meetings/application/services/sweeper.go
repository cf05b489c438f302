package services

import (
	"context"
	"log/slog"

	"github.com/UBC-CIC/first-responder-admin/internal/meetings/domain"
	specialistsDomain "github.com/UBC-CIC/first-responder-admin/internal/specialists/domain"
)

// SpecialistSweeper keeps specialist call statuses in step with meetings.
// All of its writes are best-effort and run outside the meeting transaction.
type SpecialistSweeper struct {
	profiles specialistsDomain.Repository
	logger   *slog.Logger
}

// NewSpecialistSweeper creates a sweeper.
func NewSpecialistSweeper(profiles specialistsDomain.Repository, logger *slog.Logger) *SpecialistSweeper {
	if logger == nil {
		logger = slog.Default()
	}
	return &SpecialistSweeper{profiles: profiles, logger: logger}
}

// Sweep sets every specialist of the meeting back to NOT_IN_CALL. A non-empty
// attendeeID restricts the sweep to that attendee. It returns the number of
// profiles updated.
func (s *SpecialistSweeper) Sweep(ctx context.Context, meeting *domain.Meeting, attendeeID string) int {
	if meeting == nil {
		return 0
	}
	updated := 0
	for _, a := range meeting.Specialists(attendeeID) {
		if s.set(ctx, meeting.ID(), a.PhoneNumber, specialistsDomain.CallStatusNotInCall) {
			updated++
		}
	}
	return updated
}

// MarkInCall records that a specialist joined a call.
func (s *SpecialistSweeper) MarkInCall(ctx context.Context, meetingID, phone string) {
	s.set(ctx, meetingID, phone, specialistsDomain.CallStatusInCall)
}

// MarkPaged records that a specialist was paged into a call.
func (s *SpecialistSweeper) MarkPaged(ctx context.Context, meetingID, phone string) {
	s.set(ctx, meetingID, phone, specialistsDomain.CallStatusPaged)
}

func (s *SpecialistSweeper) set(ctx context.Context, meetingID, phone string, status specialistsDomain.CallStatus) bool {
	if err := s.profiles.UpdateCallStatus(ctx, phone, status); err != nil {
		s.logger.Warn("failed to update specialist call status",
			"meeting_id", meetingID,
			"phone_number", phone,
			"call_status", status,
			"error", err,
		)
		return false
	}
	return true
}

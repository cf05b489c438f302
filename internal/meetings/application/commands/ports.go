package commands

import (
	"context"

	"github.com/UBC-CIC/first-responder-admin/internal/meetings/application/services"
	"github.com/UBC-CIC/first-responder-admin/internal/meetings/domain"
)

// Registry is the part of services.Registry the command handlers drive.
type Registry interface {
	CreateMeeting(ctx context.Context, in services.CreateMeetingInput) (*services.CreateMeetingResult, error)
	FindByID(ctx context.Context, meetingID string) (*domain.Meeting, error)
	FindActiveByExternalID(ctx context.Context, externalID string) (*domain.Meeting, error)
	UpsertAttendeeByPhone(ctx context.Context, meetingID, attendeeID, phone string, joinType domain.JoinType, state domain.AttendeeState) (*domain.Meeting, error)
	UpsertServiceDeskAttendee(ctx context.Context, meetingID, attendeeID, username string, joinType domain.JoinType, state domain.AttendeeState) (*domain.Meeting, error)
	AttendeeLeft(ctx context.Context, meetingID, attendeeID string) (*domain.Meeting, error)
	EndMeeting(ctx context.Context, meetingID string) (*domain.Meeting, bool, error)
	KickAttendee(ctx context.Context, meetingID, attendeeID string) (*domain.Meeting, error)
	AnnotateMeeting(ctx context.Context, meetingID, title, comments string) (*domain.Meeting, error)
}

// Sweeper resets specialist call statuses; see services.SpecialistSweeper.
type Sweeper interface {
	Sweep(ctx context.Context, meeting *domain.Meeting, attendeeID string) int
	MarkPaged(ctx context.Context, meetingID, phone string)
}

var (
	_ Registry = (*services.Registry)(nil)
	_ Sweeper  = (*services.SpecialistSweeper)(nil)
)

package commands

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/UBC-CIC/first-responder-admin/internal/meetings/application/services"
	"github.com/UBC-CIC/first-responder-admin/internal/meetings/domain"
	telephonyDomain "github.com/UBC-CIC/first-responder-admin/internal/telephony/domain"
	"github.com/UBC-CIC/first-responder-admin/pkg/observability"
)

// JoinMeetingCommand is a data (app) client asking to join or start a meeting.
type JoinMeetingCommand struct {
	PhoneNumber       string
	MeetingID         string
	ExternalMeetingID string
	ExternalUserID    string
	Location          *domain.Location
	Username          string
	AttendeeType      domain.AttendeeType
}

// JoinDescriptor is everything a client needs to connect to the media session.
type JoinDescriptor struct {
	MeetingID      string                         `json:"meeting_id"`
	AttendeeID     string                         `json:"attendee_id"`
	ExternalUserID string                         `json:"external_user_id"`
	JoinToken      string                         `json:"join_token"`
	MediaPlacement telephonyDomain.MediaPlacement `json:"media_placement"`
	MediaRegion    string                         `json:"media_region"`
}

// JoinMeetingHandler handles JoinMeetingCommand.
type JoinMeetingHandler struct {
	registry Registry
	provider telephonyDomain.Provider
	logger   *slog.Logger
	metrics  observability.Metrics
}

func NewJoinMeetingHandler(registry Registry, provider telephonyDomain.Provider, logger *slog.Logger, metrics observability.Metrics) *JoinMeetingHandler {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = observability.NoopMetrics{}
	}
	return &JoinMeetingHandler{
		registry: registry,
		provider: provider,
		logger:   logger,
		metrics:  metrics,
	}
}

// Handle resolves the target meeting and joins it, or creates a meeting when
// none can be resolved. An external meeting id that matches an active meeting
// takes precedence over the meeting id.
func (h *JoinMeetingHandler) Handle(ctx context.Context, cmd JoinMeetingCommand) (*JoinDescriptor, error) {
	if cmd.AttendeeType != "" && !cmd.AttendeeType.IsValid() {
		return nil, domain.ErrInvalidAttendeeType
	}

	meetingID := strings.TrimSpace(cmd.MeetingID)
	if ext := strings.TrimSpace(cmd.ExternalMeetingID); ext != "" {
		m, err := h.registry.FindActiveByExternalID(ctx, ext)
		switch {
		case err == nil:
			meetingID = m.ID()
		case errors.Is(err, domain.ErrMeetingNotFound):
			h.logger.Debug("no active meeting for external id", "external_meeting_id", ext)
		default:
			return nil, err
		}
	}

	if meetingID == "" {
		return h.create(ctx, cmd)
	}

	meeting, err := h.registry.FindByID(ctx, meetingID)
	if errors.Is(err, domain.ErrMeetingNotFound) {
		return h.create(ctx, cmd)
	}
	if err != nil {
		return nil, err
	}
	return h.join(ctx, meeting, cmd)
}

func (h *JoinMeetingHandler) create(ctx context.Context, cmd JoinMeetingCommand) (*JoinDescriptor, error) {
	result, err := h.registry.CreateMeeting(ctx, services.CreateMeetingInput{
		CallerIdentity:            cmd.PhoneNumber,
		PreferredExternalID:       cmd.ExternalMeetingID,
		PreferredAttendeeIdentity: cmd.ExternalUserID,
		Location:                  cmd.Location,
		CallID:                    cmd.MeetingID,
		JoinType:                  domain.JoinTypeData,
		State:                     domain.AttendeeStateInCall,
		AttendeeType:              cmd.AttendeeType,
		ServiceDeskUsername:       cmd.Username,
	})
	if err != nil {
		return nil, err
	}
	h.metrics.Counter(observability.MetricMeetingsCreated, 1, observability.T("join_type", string(domain.JoinTypeData)))
	return &JoinDescriptor{
		MeetingID:      result.Meeting.ID(),
		AttendeeID:     result.Participant.ID,
		ExternalUserID: result.Participant.ExternalUserID,
		JoinToken:      result.Participant.JoinToken,
		MediaPlacement: result.Session.MediaPlacement,
		MediaRegion:    result.Session.MediaRegion,
	}, nil
}

func (h *JoinMeetingHandler) join(ctx context.Context, meeting *domain.Meeting, cmd JoinMeetingCommand) (*JoinDescriptor, error) {
	session, err := h.provider.GetSession(ctx, meeting.ID())
	if err != nil {
		h.logger.Warn("meeting found but provider session is gone", "meeting_id", meeting.ID(), "error", err)
		return nil, err
	}

	externalUserID := cmd.ExternalUserID
	if externalUserID == "" {
		externalUserID = uuid.NewString()
	}
	participant, err := h.provider.CreateParticipant(ctx, meeting.ID(), externalUserID)
	if err != nil {
		return nil, err
	}
	if participant.ID == "" {
		return nil, telephonyDomain.ErrSessionCreationFailed
	}

	switch {
	case cmd.AttendeeType == domain.AttendeeTypeServiceDesk && cmd.Username != "":
		_, err = h.registry.UpsertServiceDeskAttendee(ctx, meeting.ID(), participant.ID, cmd.Username, domain.JoinTypeData, domain.AttendeeStateInCall)
	case cmd.AttendeeType == domain.AttendeeTypeServiceDesk:
		h.logger.Warn("service desk join without username, attendee not recorded", "meeting_id", meeting.ID(), "attendee_id", participant.ID)
	default:
		_, err = h.registry.UpsertAttendeeByPhone(ctx, meeting.ID(), participant.ID, cmd.PhoneNumber, domain.JoinTypeData, domain.AttendeeStateInCall)
	}
	if err != nil {
		if rmErr := h.provider.RemoveParticipant(ctx, meeting.ID(), participant.ID); rmErr != nil {
			h.logger.Warn("failed to remove unrecorded participant", "meeting_id", meeting.ID(), "attendee_id", participant.ID, "error", rmErr)
		}
		return nil, err
	}

	h.metrics.Counter(observability.MetricAttendeesJoined, 1, observability.T("join_type", string(domain.JoinTypeData)))
	return &JoinDescriptor{
		MeetingID:      meeting.ID(),
		AttendeeID:     participant.ID,
		ExternalUserID: participant.ExternalUserID,
		JoinToken:      participant.JoinToken,
		MediaPlacement: session.MediaPlacement,
		MediaRegion:    session.MediaRegion,
	}, nil
}

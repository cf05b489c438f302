package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/UBC-CIC/first-responder-admin/internal/meetings/domain"
	sharedApplication "github.com/UBC-CIC/first-responder-admin/internal/shared/application"
	telephonyDomain "github.com/UBC-CIC/first-responder-admin/internal/telephony/domain"
	"github.com/google/uuid"
)

// MaxWriteAttempts bounds read-modify-write retries on version conflicts.
const MaxWriteAttempts = 3

// Recorder writes change events for a meeting transition inside the current
// unit of work.
type Recorder interface {
	Record(ctx context.Context, before, after *domain.Snapshot) error
}

// CreateMeetingInput describes the first attendee of a new meeting.
type CreateMeetingInput struct {
	// CallerIdentity is the phone number of the first attendee.
	CallerIdentity            string
	PreferredExternalID       string
	PreferredAttendeeIdentity string
	Location                  *domain.Location
	CallID                    string
	JoinType                  domain.JoinType
	State                     domain.AttendeeState
	AttendeeType              domain.AttendeeType
	ServiceDeskUsername       string
}

// CreateMeetingResult carries the stored meeting and the provider handles a
// caller needs to connect.
type CreateMeetingResult struct {
	Meeting     *domain.Meeting
	Attendee    domain.Attendee
	Participant telephonyDomain.Participant
	Session     telephonyDomain.Session
}

// Registry is the single writer of meeting state. Every mutation is a
// versioned read-modify-write whose change event commits with it.
type Registry struct {
	repo      domain.Repository
	provider  telephonyDomain.Provider
	allocator *ExternalIDAllocator
	enricher  Enricher
	recorder  Recorder
	uow       sharedApplication.UnitOfWork
	sweeper   *SpecialistSweeper
	logger    *slog.Logger
	now       func() time.Time
}

// NewRegistry creates a meeting registry. The sweeper may be nil.
func NewRegistry(
	repo domain.Repository,
	provider telephonyDomain.Provider,
	allocator *ExternalIDAllocator,
	enricher Enricher,
	recorder Recorder,
	uow sharedApplication.UnitOfWork,
	sweeper *SpecialistSweeper,
	logger *slog.Logger,
) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		repo:      repo,
		provider:  provider,
		allocator: allocator,
		enricher:  enricher,
		recorder:  recorder,
		uow:       uow,
		sweeper:   sweeper,
		logger:    logger,
		now:       time.Now,
	}
}

// CreateMeeting opens a provider session with its first participant and
// stores an ACTIVE meeting. Nothing is stored when the provider fails.
func (r *Registry) CreateMeeting(ctx context.Context, in CreateMeetingInput) (*CreateMeetingResult, error) {
	externalID := strings.TrimSpace(in.PreferredExternalID)
	if externalID == "" {
		allocated, err := r.allocator.Allocate(ctx)
		if err != nil {
			return nil, err
		}
		externalID = allocated
	}

	session, err := r.provider.CreateSession(ctx, externalID)
	if err != nil {
		return nil, err
	}
	if session.ID == "" {
		return nil, telephonyDomain.ErrSessionCreationFailed
	}

	externalUserID := in.PreferredAttendeeIdentity
	if externalUserID == "" {
		externalUserID = uuid.NewString()
	}
	participant, err := r.provider.CreateParticipant(ctx, session.ID, externalUserID)
	if err == nil && participant.ID == "" {
		err = telephonyDomain.ErrSessionCreationFailed
	}
	if err != nil {
		r.abandonSession(ctx, session.ID)
		return nil, err
	}

	attendee := r.firstAttendee(ctx, in, participant.ID)
	meeting, err := domain.NewMeeting(session.ID, externalID, in.CallID, attendee)
	if err != nil {
		r.abandonSession(ctx, session.ID)
		return nil, err
	}

	err = sharedApplication.WithUnitOfWork(ctx, r.uow, func(txCtx context.Context) error {
		if err := r.repo.Save(txCtx, meeting); err != nil {
			return err
		}
		after := meeting.Snapshot()
		return r.recorder.Record(txCtx, nil, &after)
	})
	if err != nil {
		r.abandonSession(ctx, session.ID)
		return nil, err
	}

	r.logger.Info("meeting created",
		"meeting_id", meeting.ID(),
		"external_meeting_id", externalID,
		"attendee_id", attendee.AttendeeID,
		"join_type", attendee.JoinType,
	)
	r.trackSpecialist(ctx, meeting.ID(), attendee)

	return &CreateMeetingResult{
		Meeting:     meeting,
		Attendee:    attendee,
		Participant: participant,
		Session:     session,
	}, nil
}

func (r *Registry) firstAttendee(ctx context.Context, in CreateMeetingInput, attendeeID string) domain.Attendee {
	a := domain.Attendee{
		AttendeeID:  attendeeID,
		PhoneNumber: in.CallerIdentity,
		Type:        in.AttendeeType,
		JoinType:    in.JoinType,
		State:       in.State,
		Location:    in.Location,
	}
	if in.AttendeeType == domain.AttendeeTypeServiceDesk && in.ServiceDeskUsername != "" {
		a.Username = in.ServiceDeskUsername
		a.ProfileSnapshot = r.enricher.ByUsername(ctx, in.ServiceDeskUsername)
		return a
	}

	kind, snapshot := r.enricher.ByPhone(ctx, in.CallerIdentity)
	if kind != domain.AttendeeTypeNotSpecified || a.Type == "" {
		a.Type = kind
	}
	a.ProfileSnapshot = snapshot
	return a
}

// abandonSession closes a provider session that never made it into the store.
func (r *Registry) abandonSession(ctx context.Context, sessionID string) {
	if err := r.provider.EndSession(ctx, sessionID); err != nil {
		r.logger.Warn("failed to end orphaned provider session", "meeting_id", sessionID, "error", err)
	}
}

// FindByID returns ErrMeetingNotFound when there is no such meeting.
func (r *Registry) FindByID(ctx context.Context, meetingID string) (*domain.Meeting, error) {
	m, err := r.repo.FindByID(ctx, meetingID)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, domain.ErrMeetingNotFound
	}
	return m, nil
}

// ListActive returns all ACTIVE meetings.
func (r *Registry) ListActive(ctx context.Context) ([]*domain.Meeting, error) {
	return r.repo.ListByStatus(ctx, domain.StatusActive)
}

// FindActiveByExternalID scans the active meetings for a dial-in code.
func (r *Registry) FindActiveByExternalID(ctx context.Context, externalID string) (*domain.Meeting, error) {
	return r.findActive(ctx, func(m *domain.Meeting) bool { return m.ExternalID() == externalID })
}

// FindActiveByPhoneNumber returns the first active meeting with an attendee
// using the phone number.
func (r *Registry) FindActiveByPhoneNumber(ctx context.Context, phone string) (*domain.Meeting, error) {
	return r.findActive(ctx, func(m *domain.Meeting) bool { return m.HasPhone(phone) })
}

func (r *Registry) findActive(ctx context.Context, match func(*domain.Meeting) bool) (*domain.Meeting, error) {
	active, err := r.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	for _, m := range active {
		if match(m) {
			return m, nil
		}
	}
	return nil, domain.ErrMeetingNotFound
}

// UpsertAttendeeByPhone adds the phone to the meeting or updates the attendee
// already using it.
func (r *Registry) UpsertAttendeeByPhone(
	ctx context.Context,
	meetingID, attendeeID, phone string,
	joinType domain.JoinType,
	state domain.AttendeeState,
) (*domain.Meeting, error) {
	kind, snapshot := r.enricher.ByPhone(ctx, phone)
	attendee := domain.Attendee{
		AttendeeID:      attendeeID,
		PhoneNumber:     phone,
		Type:            kind,
		JoinType:        joinType,
		State:           state,
		ProfileSnapshot: snapshot,
	}

	m, err := r.mutate(ctx, meetingID, func(m *domain.Meeting) (bool, error) {
		return true, m.UpsertByPhone(attendee)
	})
	if err != nil {
		return nil, err
	}

	r.logger.Info("attendee upserted", "meeting_id", meetingID, "attendee_id", attendeeID, "state", state)
	if stored, ok := m.AttendeeByID(attendeeID); ok {
		r.trackSpecialist(ctx, meetingID, stored)
	}
	return m, nil
}

// UpsertServiceDeskAttendee is UpsertAttendeeByPhone for a service desk
// agent identified by username.
func (r *Registry) UpsertServiceDeskAttendee(
	ctx context.Context,
	meetingID, attendeeID, username string,
	joinType domain.JoinType,
	state domain.AttendeeState,
) (*domain.Meeting, error) {
	attendee := domain.Attendee{
		AttendeeID:      attendeeID,
		Username:        username,
		Type:            domain.AttendeeTypeServiceDesk,
		JoinType:        joinType,
		State:           state,
		ProfileSnapshot: r.enricher.ByUsername(ctx, username),
	}

	m, err := r.mutate(ctx, meetingID, func(m *domain.Meeting) (bool, error) {
		return true, m.UpsertByUsername(attendee)
	})
	if err != nil {
		return nil, err
	}
	r.logger.Info("service desk attendee upserted", "meeting_id", meetingID, "attendee_id", attendeeID)
	return m, nil
}

// AttendeeLeft marks the attendee LEFT. A missing meeting or attendee is a
// no-op and returns a nil meeting for the former.
func (r *Registry) AttendeeLeft(ctx context.Context, meetingID, attendeeID string) (*domain.Meeting, error) {
	m, err := r.mutate(ctx, meetingID, func(m *domain.Meeting) (bool, error) {
		return m.AttendeeLeft(attendeeID), nil
	})
	if errors.Is(err, domain.ErrMeetingNotFound) {
		r.logger.Debug("attendee left unknown meeting", "meeting_id", meetingID, "attendee_id", attendeeID)
		return nil, nil
	}
	return m, err
}

// EndMeeting closes the meeting and reports whether this call closed it.
// Ending a closed or unknown meeting is a no-op. The caller runs the
// specialist sweep afterwards, and only when ended is true.
func (r *Registry) EndMeeting(ctx context.Context, meetingID string) (m *domain.Meeting, ended bool, err error) {
	m, err = r.mutate(ctx, meetingID, func(m *domain.Meeting) (bool, error) {
		ended = m.End(r.now())
		return ended, nil
	})
	if errors.Is(err, domain.ErrMeetingNotFound) {
		r.logger.Debug("end requested for unknown meeting", "meeting_id", meetingID)
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	if ended {
		r.logger.Info("meeting ended", "meeting_id", meetingID, "external_meeting_id", m.ExternalID())
	}
	return m, ended, nil
}

// KickAttendee moves an in-call attendee to KICKED.
func (r *Registry) KickAttendee(ctx context.Context, meetingID, attendeeID string) (*domain.Meeting, error) {
	m, err := r.mutate(ctx, meetingID, func(m *domain.Meeting) (bool, error) {
		if err := m.Kick(attendeeID); err != nil {
			return false, err
		}
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	r.logger.Info("attendee kicked", "meeting_id", meetingID, "attendee_id", attendeeID)
	return m, nil
}

// AnnotateMeeting sets the operator title and comments.
func (r *Registry) AnnotateMeeting(ctx context.Context, meetingID, title, comments string) (*domain.Meeting, error) {
	return r.mutate(ctx, meetingID, func(m *domain.Meeting) (bool, error) {
		m.Annotate(title, comments)
		return true, nil
	})
}

// mutate loads the meeting, applies fn and saves the result together with its
// change event. fn must only touch the meeting it is given since it runs again
// after a version conflict.
func (r *Registry) mutate(
	ctx context.Context,
	meetingID string,
	fn func(m *domain.Meeting) (bool, error),
) (*domain.Meeting, error) {
	var lastErr error
	for attempt := 1; attempt <= MaxWriteAttempts; attempt++ {
		var result *domain.Meeting
		err := sharedApplication.WithUnitOfWork(ctx, r.uow, func(txCtx context.Context) error {
			m, err := r.repo.FindByID(txCtx, meetingID)
			if err != nil {
				return err
			}
			if m == nil {
				return domain.ErrMeetingNotFound
			}

			before := m.Snapshot()
			changed, err := fn(m)
			if err != nil {
				return err
			}
			if !changed {
				result = m
				return nil
			}

			if err := r.repo.Save(txCtx, m); err != nil {
				return err
			}
			after := m.Snapshot()
			if err := r.recorder.Record(txCtx, &before, &after); err != nil {
				return err
			}
			result = m
			return nil
		})
		if err == nil {
			return result, nil
		}
		if !errors.Is(err, domain.ErrConcurrentModification) {
			return nil, err
		}
		lastErr = err
		r.logger.Debug("meeting write conflict, retrying", "meeting_id", meetingID, "attempt", attempt)
	}
	return nil, fmt.Errorf("after %d attempts: %w", MaxWriteAttempts, lastErr)
}

func (r *Registry) trackSpecialist(ctx context.Context, meetingID string, a domain.Attendee) {
	if r.sweeper == nil || !a.IsSpecialist() || a.State != domain.AttendeeStateInCall || a.PhoneNumber == "" {
		return
	}
	r.sweeper.MarkInCall(ctx, meetingID, a.PhoneNumber)
}

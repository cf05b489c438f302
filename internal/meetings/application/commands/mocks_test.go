package commands

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/UBC-CIC/first-responder-admin/internal/meetings/application/services"
	"github.com/UBC-CIC/first-responder-admin/internal/meetings/domain"
	notificationsDomain "github.com/UBC-CIC/first-responder-admin/internal/notifications/domain"
	specialistsDomain "github.com/UBC-CIC/first-responder-admin/internal/specialists/domain"
	telephonyDomain "github.com/UBC-CIC/first-responder-admin/internal/telephony/domain"
)

type mockRegistry struct {
	mock.Mock
}

func meetingResult(args mock.Arguments) (*domain.Meeting, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Meeting), args.Error(1)
}

func (m *mockRegistry) CreateMeeting(ctx context.Context, in services.CreateMeetingInput) (*services.CreateMeetingResult, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.CreateMeetingResult), args.Error(1)
}

func (m *mockRegistry) FindByID(ctx context.Context, meetingID string) (*domain.Meeting, error) {
	return meetingResult(m.Called(ctx, meetingID))
}

func (m *mockRegistry) FindActiveByExternalID(ctx context.Context, externalID string) (*domain.Meeting, error) {
	return meetingResult(m.Called(ctx, externalID))
}

func (m *mockRegistry) UpsertAttendeeByPhone(ctx context.Context, meetingID, attendeeID, phone string, joinType domain.JoinType, state domain.AttendeeState) (*domain.Meeting, error) {
	return meetingResult(m.Called(ctx, meetingID, attendeeID, phone, joinType, state))
}

func (m *mockRegistry) UpsertServiceDeskAttendee(ctx context.Context, meetingID, attendeeID, username string, joinType domain.JoinType, state domain.AttendeeState) (*domain.Meeting, error) {
	return meetingResult(m.Called(ctx, meetingID, attendeeID, username, joinType, state))
}

func (m *mockRegistry) AttendeeLeft(ctx context.Context, meetingID, attendeeID string) (*domain.Meeting, error) {
	return meetingResult(m.Called(ctx, meetingID, attendeeID))
}

func (m *mockRegistry) EndMeeting(ctx context.Context, meetingID string) (*domain.Meeting, bool, error) {
	args := m.Called(ctx, meetingID)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*domain.Meeting), args.Bool(1), args.Error(2)
}

func (m *mockRegistry) KickAttendee(ctx context.Context, meetingID, attendeeID string) (*domain.Meeting, error) {
	return meetingResult(m.Called(ctx, meetingID, attendeeID))
}

func (m *mockRegistry) AnnotateMeeting(ctx context.Context, meetingID, title, comments string) (*domain.Meeting, error) {
	return meetingResult(m.Called(ctx, meetingID, title, comments))
}

type mockProvider struct {
	mock.Mock
}

func (m *mockProvider) CreateSession(ctx context.Context, externalID string) (telephonyDomain.Session, error) {
	args := m.Called(ctx, externalID)
	return args.Get(0).(telephonyDomain.Session), args.Error(1)
}

func (m *mockProvider) GetSession(ctx context.Context, sessionID string) (telephonyDomain.Session, error) {
	args := m.Called(ctx, sessionID)
	return args.Get(0).(telephonyDomain.Session), args.Error(1)
}

func (m *mockProvider) CreateParticipant(ctx context.Context, sessionID, externalUserID string) (telephonyDomain.Participant, error) {
	args := m.Called(ctx, sessionID, externalUserID)
	return args.Get(0).(telephonyDomain.Participant), args.Error(1)
}

func (m *mockProvider) EndSession(ctx context.Context, sessionID string) error {
	return m.Called(ctx, sessionID).Error(0)
}

func (m *mockProvider) RemoveParticipant(ctx context.Context, sessionID, participantID string) error {
	return m.Called(ctx, sessionID, participantID).Error(0)
}

type mockSweeper struct {
	mock.Mock
}

func (m *mockSweeper) Sweep(ctx context.Context, meeting *domain.Meeting, attendeeID string) int {
	return m.Called(ctx, meeting, attendeeID).Int(0)
}

func (m *mockSweeper) MarkPaged(ctx context.Context, meetingID, phone string) {
	m.Called(ctx, meetingID, phone)
}

type mockFinder struct {
	mock.Mock
}

func (m *mockFinder) FindByPhone(ctx context.Context, phone string) (*specialistsDomain.Profile, error) {
	args := m.Called(ctx, phone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*specialistsDomain.Profile), args.Error(1)
}

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) SendSMS(ctx context.Context, msg notificationsDomain.SMS) error {
	return m.Called(ctx, msg).Error(0)
}

func (m *mockNotifier) SendEmail(ctx context.Context, msg notificationsDomain.Email) error {
	return m.Called(ctx, msg).Error(0)
}

func activeMeeting(t *testing.T) *domain.Meeting {
	t.Helper()
	m, err := domain.NewMeeting("session-1", "12345678", "call-1", domain.Attendee{
		AttendeeID:  "att-1",
		PhoneNumber: "+16045550001",
		Type:        domain.AttendeeTypeFirstResponder,
		JoinType:    domain.JoinTypePSTN,
		State:       domain.AttendeeStateInCall,
	})
	require.NoError(t, err)
	return m
}

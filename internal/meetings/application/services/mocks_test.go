package services

import (
	"context"

	directoryDomain "github.com/UBC-CIC/first-responder-admin/internal/directory/domain"
	"github.com/UBC-CIC/first-responder-admin/internal/meetings/domain"
	specialistsDomain "github.com/UBC-CIC/first-responder-admin/internal/specialists/domain"
	telephonyDomain "github.com/UBC-CIC/first-responder-admin/internal/telephony/domain"
	"github.com/stretchr/testify/mock"
)

type txKey struct{}

type mockMeetingRepo struct {
	mock.Mock
}

func (m *mockMeetingRepo) Save(ctx context.Context, meeting *domain.Meeting) error {
	return m.Called(ctx, meeting).Error(0)
}

func (m *mockMeetingRepo) FindByID(ctx context.Context, meetingID string) (*domain.Meeting, error) {
	args := m.Called(ctx, meetingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Meeting), args.Error(1)
}

func (m *mockMeetingRepo) ListByStatus(ctx context.Context, status domain.Status) ([]*domain.Meeting, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Meeting), args.Error(1)
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

type mockUnitOfWork struct {
	mock.Mock
}

func (m *mockUnitOfWork) Begin(ctx context.Context) (context.Context, error) {
	args := m.Called(ctx)
	return args.Get(0).(context.Context), args.Error(1)
}

func (m *mockUnitOfWork) Commit(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *mockUnitOfWork) Rollback(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type mockRecorder struct {
	mock.Mock
}

func (m *mockRecorder) Record(ctx context.Context, before, after *domain.Snapshot) error {
	return m.Called(ctx, before, after).Error(0)
}

type mockEnricher struct {
	mock.Mock
}

func (m *mockEnricher) ByPhone(ctx context.Context, phone string) (domain.AttendeeType, domain.ProfileSnapshot) {
	args := m.Called(ctx, phone)
	return args.Get(0).(domain.AttendeeType), args.Get(1).(domain.ProfileSnapshot)
}

func (m *mockEnricher) ByUsername(ctx context.Context, username string) domain.ProfileSnapshot {
	return m.Called(ctx, username).Get(0).(domain.ProfileSnapshot)
}

type mockProfileRepo struct {
	mock.Mock
}

func (m *mockProfileRepo) Create(ctx context.Context, p *specialistsDomain.Profile) error {
	return m.Called(ctx, p).Error(0)
}

func (m *mockProfileRepo) Save(ctx context.Context, p *specialistsDomain.Profile) error {
	return m.Called(ctx, p).Error(0)
}

func (m *mockProfileRepo) FindByPhone(ctx context.Context, phone string) (*specialistsDomain.Profile, error) {
	args := m.Called(ctx, phone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*specialistsDomain.Profile), args.Error(1)
}

func (m *mockProfileRepo) List(ctx context.Context) ([]*specialistsDomain.Profile, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*specialistsDomain.Profile), args.Error(1)
}

func (m *mockProfileRepo) ListByUserStatus(ctx context.Context, status specialistsDomain.UserStatus) ([]*specialistsDomain.Profile, error) {
	args := m.Called(ctx, status)
	return args.Get(0).([]*specialistsDomain.Profile), args.Error(1)
}

func (m *mockProfileRepo) UpdateCallStatus(ctx context.Context, phone string, status specialistsDomain.CallStatus) error {
	return m.Called(ctx, phone, status).Error(0)
}

func (m *mockProfileRepo) ApplyScheduledStatus(ctx context.Context, phone string, status specialistsDomain.UserStatus) (bool, error) {
	args := m.Called(ctx, phone, status)
	return args.Bool(0), args.Error(1)
}

type mockFirstResponders struct {
	mock.Mock
}

func (m *mockFirstResponders) Create(ctx context.Context, p directoryDomain.FirstResponder) error {
	return m.Called(ctx, p).Error(0)
}

func (m *mockFirstResponders) FindByPhone(ctx context.Context, phone string) (*directoryDomain.FirstResponder, error) {
	args := m.Called(ctx, phone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*directoryDomain.FirstResponder), args.Error(1)
}

func (m *mockFirstResponders) List(ctx context.Context) ([]directoryDomain.FirstResponder, error) {
	args := m.Called(ctx)
	return args.Get(0).([]directoryDomain.FirstResponder), args.Error(1)
}

type mockServiceDesk struct {
	mock.Mock
}

func (m *mockServiceDesk) Create(ctx context.Context, p directoryDomain.ServiceDeskAgent) error {
	return m.Called(ctx, p).Error(0)
}

func (m *mockServiceDesk) FindByUsername(ctx context.Context, username string) (*directoryDomain.ServiceDeskAgent, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*directoryDomain.ServiceDeskAgent), args.Error(1)
}

func (m *mockServiceDesk) List(ctx context.Context) ([]directoryDomain.ServiceDeskAgent, error) {
	args := m.Called(ctx)
	return args.Get(0).([]directoryDomain.ServiceDeskAgent), args.Error(1)
}

type mockReserver struct {
	mock.Mock
}

func (m *mockReserver) Reserve(ctx context.Context, externalID string) (bool, error) {
	args := m.Called(ctx, externalID)
	return args.Bool(0), args.Error(1)
}

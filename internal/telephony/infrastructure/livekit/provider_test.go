package livekit

import (
	"context"
	"errors"
	"testing"
	"time"

	lkproto "github.com/livekit/protocol/livekit"
	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/UBC-CIC/first-responder-admin/internal/telephony/domain"
	"github.com/UBC-CIC/first-responder-admin/pkg/observability"
)

type mockRoomService struct {
	mock.Mock
}

func (m *mockRoomService) CreateRoom(ctx context.Context, req *lkproto.CreateRoomRequest) (*lkproto.Room, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*lkproto.Room), args.Error(1)
}

func (m *mockRoomService) ListRooms(ctx context.Context, req *lkproto.ListRoomsRequest) (*lkproto.ListRoomsResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*lkproto.ListRoomsResponse), args.Error(1)
}

func (m *mockRoomService) DeleteRoom(ctx context.Context, req *lkproto.DeleteRoomRequest) (*lkproto.DeleteRoomResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*lkproto.DeleteRoomResponse), args.Error(1)
}

func (m *mockRoomService) RemoveParticipant(ctx context.Context, req *lkproto.RoomParticipantIdentity) (*lkproto.RemoveParticipantResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*lkproto.RemoveParticipantResponse), args.Error(1)
}

func listing(name string) any {
	return mock.MatchedBy(func(req *lkproto.ListRoomsRequest) bool {
		return len(req.Names) == 1 && req.Names[0] == name
	})
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.URL = "wss://media.example.org"
	cfg.APIKey = "devkey"
	cfg.APISecret = "0123456789abcdef0123456789abcdef"
	cfg.FailureThreshold = 2
	cfg.Timeout = time.Minute
	return cfg
}

func TestProvider_CreateSession(t *testing.T) {
	ctx := context.Background()
	rooms := new(mockRoomService)
	p := newProvider(rooms, testConfig(), nil, nil)

	rooms.On("CreateRoom", ctx, mock.MatchedBy(func(req *lkproto.CreateRoomRequest) bool {
		return req.Name != "" && req.Metadata == `{"external_meeting_id":"12345678","media_region":"ca-central-1"}` && req.EmptyTimeout == 600
	})).Return(&lkproto.Room{Name: "room-1", Metadata: `{"external_meeting_id":"12345678","media_region":"ca-central-1"}`}, nil)

	s, err := p.CreateSession(ctx, "12345678")

	require.NoError(t, err)
	assert.Equal(t, "room-1", s.ID)
	assert.Equal(t, "12345678", s.ExternalID)
	assert.Equal(t, "ca-central-1", s.MediaRegion)
	assert.Equal(t, "wss://media.example.org", s.MediaPlacement.SignalingURL)
	rooms.AssertExpectations(t)
}

func TestProvider_CreateSession_EmptyRoom(t *testing.T) {
	ctx := context.Background()
	rooms := new(mockRoomService)
	p := newProvider(rooms, testConfig(), nil, nil)
	rooms.On("CreateRoom", ctx, mock.Anything).Return(&lkproto.Room{}, nil)

	_, err := p.CreateSession(ctx, "12345678")
	assert.ErrorIs(t, err, domain.ErrSessionCreationFailed)
}

func TestProvider_GetSession(t *testing.T) {
	ctx := context.Background()
	rooms := new(mockRoomService)
	p := newProvider(rooms, testConfig(), nil, nil)

	rooms.On("ListRooms", ctx, listing("room-1")).
		Return(&lkproto.ListRoomsResponse{Rooms: []*lkproto.Room{{Name: "room-1"}}}, nil)
	rooms.On("ListRooms", ctx, listing("gone")).
		Return(&lkproto.ListRoomsResponse{}, nil)

	s, err := p.GetSession(ctx, "room-1")
	require.NoError(t, err)
	assert.Equal(t, "room-1", s.ID)

	_, err = p.GetSession(ctx, "gone")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	assert.Equal(t, gobreaker.StateClosed, p.BreakerState())
}

func TestProvider_CreateParticipant(t *testing.T) {
	p := newProvider(new(mockRoomService), testConfig(), nil, nil)

	participant, err := p.CreateParticipant(context.Background(), "room-1", "+16045550001")

	require.NoError(t, err)
	assert.NotEmpty(t, participant.ID)
	assert.Equal(t, "+16045550001", participant.ExternalUserID)
	assert.NotEmpty(t, participant.JoinToken)

	_, err = p.CreateParticipant(context.Background(), "", "x")
	assert.ErrorIs(t, err, domain.ErrSessionCreationFailed)
}

func TestProvider_BreakerOpensAfterFailures(t *testing.T) {
	ctx := context.Background()
	rooms := new(mockRoomService)
	metrics := observability.NewInMemoryMetrics()
	p := newProvider(rooms, testConfig(), nil, metrics)
	rooms.On("DeleteRoom", ctx, mock.Anything).Return(nil, errors.New("connection refused"))

	for i := 0; i < 2; i++ {
		err := p.EndSession(ctx, "room-1")
		assert.ErrorIs(t, err, domain.ErrProviderUnavailable)
	}
	assert.Equal(t, gobreaker.StateOpen, p.BreakerState())

	err := p.EndSession(ctx, "room-1")
	assert.ErrorIs(t, err, domain.ErrProviderUnavailable)
	rooms.AssertNumberOfCalls(t, "DeleteRoom", 2)
	assert.Equal(t, int64(1), metrics.GetCounter(observability.MetricBreakerTransitions,
		observability.T("breaker", "livekit"), observability.T("state", "open")))
}

func TestProvider_RemoveParticipant(t *testing.T) {
	ctx := context.Background()
	rooms := new(mockRoomService)
	p := newProvider(rooms, testConfig(), nil, nil)
	rooms.On("RemoveParticipant", ctx, mock.MatchedBy(func(req *lkproto.RoomParticipantIdentity) bool {
		return req.Room == "room-1" && req.Identity == "att-1"
	})).
		Return(&lkproto.RemoveParticipantResponse{}, nil)

	require.NoError(t, p.RemoveParticipant(ctx, "room-1", "att-1"))
	rooms.AssertExpectations(t)
}

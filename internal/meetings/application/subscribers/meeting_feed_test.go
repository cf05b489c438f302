package subscribers

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/UBC-CIC/first-responder-admin/internal/meetings/domain"
	"github.com/UBC-CIC/first-responder-admin/internal/meetings/infrastructure/cache"
	"github.com/UBC-CIC/first-responder-admin/internal/shared/infrastructure/eventbus"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func consumed(t *testing.T, routingKey string, snap domain.Snapshot) *eventbus.ConsumedEvent {
	t.Helper()
	payload, err := json.Marshal(snap)
	require.NoError(t, err)
	return &eventbus.ConsumedEvent{
		EventID:       uuid.New(),
		AggregateID:   snap.MeetingID,
		AggregateType: domain.AggregateType,
		RoutingKey:    routingKey,
		Payload:       payload,
	}
}

func TestMeetingFeed_EventTypes(t *testing.T) {
	feed := NewMeetingFeed(cache.NewInMemorySnapshotStore(), nil)
	assert.ElementsMatch(t, []string{domain.RoutingKeyMeetingCreated, domain.RoutingKeyMeetingUpdated}, feed.EventTypes())
}

func TestMeetingFeed_Handle(t *testing.T) {
	ctx := context.Background()
	feed := NewMeetingFeed(cache.NewInMemorySnapshotStore(), nil)

	v1 := domain.Snapshot{MeetingID: "m-1", ExternalID: "12345678", Status: domain.StatusActive, Version: 1}
	v2 := v1
	v2.Version = 2
	v2.Status = domain.StatusClosed

	require.NoError(t, feed.Handle(ctx, consumed(t, domain.RoutingKeyMeetingCreated, v1)))
	require.NoError(t, feed.Handle(ctx, consumed(t, domain.RoutingKeyMeetingUpdated, v2)))
	require.NoError(t, feed.Handle(ctx, consumed(t, domain.RoutingKeyMeetingCreated, v1)), "late redelivery")

	latest, err := feed.Latest(ctx, "m-1")
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, 2, latest.Version)
	assert.Equal(t, domain.StatusClosed, latest.Status)
}

func TestMeetingFeed_DropsMalformedPayload(t *testing.T) {
	feed := NewMeetingFeed(cache.NewInMemorySnapshotStore(), nil)
	err := feed.Handle(context.Background(), &eventbus.ConsumedEvent{
		RoutingKey: domain.RoutingKeyMeetingUpdated,
		Payload:    json.RawMessage(`{"version":"two"}`),
	})
	assert.NoError(t, err)
}

type failingStore struct {
	mock.Mock
}

func (s *failingStore) Get(ctx context.Context, meetingID string) (*domain.Snapshot, error) {
	return nil, s.Called(ctx, meetingID).Error(0)
}

func (s *failingStore) PutIfNewer(ctx context.Context, snap domain.Snapshot) (bool, error) {
	args := s.Called(ctx, snap)
	return args.Bool(0), args.Error(1)
}

func TestMeetingFeed_StoreFailureRequestsRedelivery(t *testing.T) {
	store := new(failingStore)
	store.On("PutIfNewer", mock.Anything, mock.Anything).Return(false, errors.New("redis down"))

	feed := NewMeetingFeed(store, nil)
	err := feed.Handle(context.Background(), consumed(t, domain.RoutingKeyMeetingCreated, domain.Snapshot{MeetingID: "m-1", Version: 1}))
	assert.Error(t, err)
}

package cache

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/UBC-CIC/first-responder-admin/internal/meetings/domain"
)

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRedisReserver(t *testing.T) {
	ctx := context.Background()
	mr, client := newRedis(t)
	r := NewRedisReserver(client, time.Minute)

	ok, err := r.Reserve(ctx, "12345678")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, time.Minute, mr.TTL(reservationPrefix+"12345678"))

	ok, err = r.Reserve(ctx, "12345678")
	require.NoError(t, err)
	assert.False(t, ok, "held reservation")

	mr.FastForward(61 * time.Second)
	assert.False(t, mr.Exists(reservationPrefix+"12345678"))

	ok, err = r.Reserve(ctx, "12345678")
	require.NoError(t, err)
	assert.True(t, ok, "expired reservation can be taken again")
}

func TestRedisReserver_DefaultTTL(t *testing.T) {
	mr, client := newRedis(t)
	r := NewRedisReserver(client, 0)

	ok, err := r.Reserve(context.Background(), "87654321")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, DefaultReservationTTL, mr.TTL(reservationPrefix+"87654321"))
}

func TestRedisReserver_Unavailable(t *testing.T) {
	mr, client := newRedis(t)
	mr.Close()

	_, err := NewRedisReserver(client, time.Minute).Reserve(context.Background(), "12345678")
	assert.Error(t, err)
}

func TestRedisSnapshotStore_PutIfNewer(t *testing.T) {
	ctx := context.Background()
	mr, client := newRedis(t)
	s := NewRedisSnapshotStore(client)

	got, err := s.Get(ctx, "m-1")
	require.NoError(t, err)
	assert.Nil(t, got)

	stored, err := s.PutIfNewer(ctx, domain.Snapshot{MeetingID: "m-1", Version: 2, Title: "second"})
	require.NoError(t, err)
	assert.True(t, stored)

	stored, err = s.PutIfNewer(ctx, domain.Snapshot{MeetingID: "m-1", Version: 1, Title: "first"})
	require.NoError(t, err)
	assert.False(t, stored, "older delivery")

	stored, err = s.PutIfNewer(ctx, domain.Snapshot{MeetingID: "m-1", Version: 2, Title: "dup"})
	require.NoError(t, err)
	assert.False(t, stored, "redelivery")

	stored, err = s.PutIfNewer(ctx, domain.Snapshot{MeetingID: "m-1", Version: 3, Title: "third"})
	require.NoError(t, err)
	assert.True(t, stored)

	got, err = s.Get(ctx, "m-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "third", got.Title)
	assert.Equal(t, 3, got.Version)

	raw, err := mr.Get(snapshotPrefix + "m-1")
	require.NoError(t, err)
	var onWire domain.Snapshot
	require.NoError(t, json.Unmarshal([]byte(raw), &onWire))
	assert.Equal(t, "third", onWire.Title)
}

func TestRedisSnapshotStore_CorruptValue(t *testing.T) {
	ctx := context.Background()
	mr, client := newRedis(t)
	s := NewRedisSnapshotStore(client)
	require.NoError(t, mr.Set(snapshotPrefix+"m-1", "{broken"))

	_, err := s.Get(ctx, "m-1")
	assert.ErrorContains(t, err, "decode snapshot")

	_, err = s.PutIfNewer(ctx, domain.Snapshot{MeetingID: "m-1", Version: 1})
	assert.ErrorContains(t, err, "decode snapshot")
}

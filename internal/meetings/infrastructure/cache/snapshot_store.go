package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/UBC-CIC/first-responder-admin/internal/meetings/domain"
	"github.com/redis/go-redis/v9"
)

const snapshotPrefix = "responder:meeting-feed:"

// maxWatchRetries bounds optimistic retries when another consumer writes the
// same key between WATCH and EXEC.
const maxWatchRetries = 5

// RedisSnapshotStore keeps the latest snapshot per meeting as JSON.
type RedisSnapshotStore struct {
	client *redis.Client
}

// NewRedisSnapshotStore creates a Redis-backed snapshot store.
func NewRedisSnapshotStore(client *redis.Client) *RedisSnapshotStore {
	return &RedisSnapshotStore{client: client}
}

// Get returns nil, nil when no snapshot is stored.
func (s *RedisSnapshotStore) Get(ctx context.Context, meetingID string) (*domain.Snapshot, error) {
	raw, err := s.client.Get(ctx, snapshotPrefix+meetingID).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return decodeSnapshot(raw)
}

// PutIfNewer stores snap unless the stored snapshot has the same or a higher
// version. It reports whether snap was stored.
func (s *RedisSnapshotStore) PutIfNewer(ctx context.Context, snap domain.Snapshot) (bool, error) {
	key := snapshotPrefix + snap.MeetingID
	body, err := json.Marshal(snap)
	if err != nil {
		return false, fmt.Errorf("encode snapshot: %w", err)
	}

	stored := false
	txf := func(tx *redis.Tx) error {
		raw, err := tx.Get(ctx, key).Bytes()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if err == nil {
			current, err := decodeSnapshot(raw)
			if err != nil {
				return err
			}
			if current.Version >= snap.Version {
				return nil
			}
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, body, 0)
			return nil
		})
		if err == nil {
			stored = true
		}
		return err
	}

	for i := 0; i < maxWatchRetries; i++ {
		err := s.client.Watch(ctx, txf, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return stored, err
	}
	return false, fmt.Errorf("snapshot %s: %w", snap.MeetingID, redis.TxFailedErr)
}

func decodeSnapshot(raw []byte) (*domain.Snapshot, error) {
	var snap domain.Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return &snap, nil
}

// InMemorySnapshotStore is the process-local snapshot store.
type InMemorySnapshotStore struct {
	mu        sync.RWMutex
	snapshots map[string]domain.Snapshot
}

// NewInMemorySnapshotStore creates an empty store.
func NewInMemorySnapshotStore() *InMemorySnapshotStore {
	return &InMemorySnapshotStore{snapshots: make(map[string]domain.Snapshot)}
}

func (s *InMemorySnapshotStore) Get(_ context.Context, meetingID string) (*domain.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap, ok := s.snapshots[meetingID]
	if !ok {
		return nil, nil
	}
	return &snap, nil
}

func (s *InMemorySnapshotStore) PutIfNewer(_ context.Context, snap domain.Snapshot) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if current, ok := s.snapshots[snap.MeetingID]; ok && current.Version >= snap.Version {
		return false, nil
	}
	s.snapshots[snap.MeetingID] = snap
	return true, nil
}

package cache

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultReservationTTL covers the gap between allocation and the meeting
// write, including a slow provider call.
const DefaultReservationTTL = 2 * time.Minute

const reservationPrefix = "responder:external-id:"

// RedisReserver claims external ids with SET NX and an expiry.
type RedisReserver struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisReserver creates a reserver. A non-positive ttl uses
// DefaultReservationTTL.
func NewRedisReserver(client *redis.Client, ttl time.Duration) *RedisReserver {
	if ttl <= 0 {
		ttl = DefaultReservationTTL
	}
	return &RedisReserver{client: client, ttl: ttl}
}

// Reserve reports whether this caller now holds the id.
func (r *RedisReserver) Reserve(ctx context.Context, externalID string) (bool, error) {
	return r.client.SetNX(ctx, reservationPrefix+externalID, time.Now().UTC().Format(time.RFC3339), r.ttl).Result()
}

// InMemoryReserver is the single-process reserver used when Redis is not
// configured.
type InMemoryReserver struct {
	mu   sync.Mutex
	ttl  time.Duration
	now  func() time.Time
	held map[string]time.Time
}

// NewInMemoryReserver creates an in-memory reserver.
func NewInMemoryReserver(ttl time.Duration) *InMemoryReserver {
	if ttl <= 0 {
		ttl = DefaultReservationTTL
	}
	return &InMemoryReserver{
		ttl:  ttl,
		now:  time.Now,
		held: make(map[string]time.Time),
	}
}

// Reserve reports whether this caller now holds the id. Expired
// reservations are dropped on every call.
func (r *InMemoryReserver) Reserve(_ context.Context, externalID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	for id, expires := range r.held {
		if !now.Before(expires) {
			delete(r.held, id)
		}
	}
	if _, ok := r.held[externalID]; ok {
		return false, nil
	}
	r.held[externalID] = now.Add(r.ttl)
	return true, nil
}

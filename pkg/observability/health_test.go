package observability

import (
	"context"
	"errors"
	"testing"

	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthRegistry_Check(t *testing.T) {
	ok := func(context.Context) error { return nil }
	down := func(context.Context) error { return errors.New("connection refused") }

	t.Run("all healthy", func(t *testing.T) {
		r := NewHealthRegistry()
		r.Register("database", PingHealthChecker("database", true, ok))
		r.Register("redis", PingHealthChecker("redis", false, ok))

		h := r.Check(context.Background())
		assert.Equal(t, HealthStatusHealthy, h.Status)
		assert.Len(t, h.Checks, 2)
	})

	t.Run("optional dependency degrades", func(t *testing.T) {
		r := NewHealthRegistry()
		r.Register("database", PingHealthChecker("database", true, ok))
		r.Register("redis", PingHealthChecker("redis", false, down))

		h := r.Check(context.Background())
		assert.Equal(t, HealthStatusDegraded, h.Status)
		require.Contains(t, h.Checks, "redis")
		assert.Contains(t, h.Checks["redis"].Message, "connection refused")
	})

	t.Run("critical dependency fails", func(t *testing.T) {
		r := NewHealthRegistry()
		r.Register("database", PingHealthChecker("database", true, down))
		r.Register("redis", PingHealthChecker("redis", false, down))

		assert.Equal(t, HealthStatusUnhealthy, r.Check(context.Background()).Status)
	})

	t.Run("empty registry", func(t *testing.T) {
		assert.Equal(t, HealthStatusHealthy, NewHealthRegistry().Check(context.Background()).Status)
	})
}

func TestBreakerHealthChecker(t *testing.T) {
	tests := []struct {
		state    gobreaker.State
		expected HealthStatus
	}{
		{gobreaker.StateClosed, HealthStatusHealthy},
		{gobreaker.StateHalfOpen, HealthStatusDegraded},
		{gobreaker.StateOpen, HealthStatusUnhealthy},
	}
	for _, tc := range tests {
		t.Run(tc.state.String(), func(t *testing.T) {
			check := BreakerHealthChecker(func() gobreaker.State { return tc.state })
			assert.Equal(t, tc.expected, check(context.Background()).Status)
		})
	}
}

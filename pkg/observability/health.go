package observability

import (
	"context"
	"sync"
	"time"

	"github.com/sony/gobreaker/v2"
)

// HealthStatus is the health of one dependency or of the whole service.
type HealthStatus string

const (
	HealthStatusHealthy   HealthStatus = "healthy"
	HealthStatusDegraded  HealthStatus = "degraded"
	HealthStatusUnhealthy HealthStatus = "unhealthy"
)

// HealthCheckResult is the outcome of one check.
type HealthCheckResult struct {
	Status    HealthStatus  `json:"status"`
	Message   string        `json:"message,omitempty"`
	Duration  time.Duration `json:"duration_ns"`
	Timestamp time.Time     `json:"timestamp"`
}

// HealthChecker probes one dependency.
type HealthChecker func(ctx context.Context) HealthCheckResult

// HealthRegistry runs the registered checkers concurrently.
type HealthRegistry struct {
	mu       sync.RWMutex
	checkers map[string]HealthChecker
}

func NewHealthRegistry() *HealthRegistry {
	return &HealthRegistry{checkers: make(map[string]HealthChecker)}
}

// Register adds or replaces the checker for name.
func (r *HealthRegistry) Register(name string, checker HealthChecker) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.checkers[name] = checker
}

// OverallHealth is the response body of the health endpoint.
type OverallHealth struct {
	Status    HealthStatus                 `json:"status"`
	Timestamp time.Time                    `json:"timestamp"`
	Checks    map[string]HealthCheckResult `json:"checks"`
}

// Check runs every checker and folds the worst status into the overall one.
func (r *HealthRegistry) Check(ctx context.Context) OverallHealth {
	r.mu.RLock()
	checkers := make(map[string]HealthChecker, len(r.checkers))
	for name, c := range r.checkers {
		checkers[name] = c
	}
	r.mu.RUnlock()

	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		results = make(map[string]HealthCheckResult, len(checkers))
	)
	for name, checker := range checkers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			start := time.Now()
			res := checker(ctx)
			res.Duration = time.Since(start)
			res.Timestamp = time.Now().UTC()
			mu.Lock()
			results[name] = res
			mu.Unlock()
		}()
	}
	wg.Wait()

	overall := HealthStatusHealthy
	for _, res := range results {
		if res.Status == HealthStatusUnhealthy {
			overall = HealthStatusUnhealthy
			break
		}
		if res.Status == HealthStatusDegraded {
			overall = HealthStatusDegraded
		}
	}
	return OverallHealth{Status: overall, Timestamp: time.Now().UTC(), Checks: results}
}

// PingHealthChecker reports failing pings as unhealthy when the dependency is
// critical and degraded otherwise. The cache and the bus are not critical
// because the service falls back to in-process implementations.
func PingHealthChecker(component string, critical bool, ping func(ctx context.Context) error) HealthChecker {
	return func(ctx context.Context) HealthCheckResult {
		if err := ping(ctx); err != nil {
			status := HealthStatusDegraded
			if critical {
				status = HealthStatusUnhealthy
			}
			return HealthCheckResult{Status: status, Message: component + " unreachable: " + err.Error()}
		}
		return HealthCheckResult{Status: HealthStatusHealthy}
	}
}

// BreakerHealthChecker maps a circuit breaker onto a health status. An open
// breaker means the provider is being shed.
func BreakerHealthChecker(state func() gobreaker.State) HealthChecker {
	return func(context.Context) HealthCheckResult {
		switch s := state(); s {
		case gobreaker.StateOpen:
			return HealthCheckResult{Status: HealthStatusUnhealthy, Message: "breaker " + s.String()}
		case gobreaker.StateHalfOpen:
			return HealthCheckResult{Status: HealthStatusDegraded, Message: "breaker " + s.String()}
		default:
			return HealthCheckResult{Status: HealthStatusHealthy}
		}
	}
}

package services

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strconv"

	"github.com/UBC-CIC/first-responder-admin/internal/meetings/domain"
)

const (
	externalIDMin  = 10000000
	externalIDSpan = 90000000

	// MaxAllocationAttempts bounds the number of random draws.
	MaxAllocationAttempts = 100
)

// Reserver claims an external id for the short window between allocation and
// the meeting write.
type Reserver interface {
	// Reserve reports false when someone else holds the id.
	Reserve(ctx context.Context, externalID string) (bool, error)
}

// ExternalIDAllocator draws 8-digit dial-in codes that no active meeting uses.
type ExternalIDAllocator struct {
	repo     domain.Repository
	reserver Reserver
	intn     func(n int) int
	logger   *slog.Logger
}

// NewExternalIDAllocator creates an allocator. A nil reserver relies on the
// store's unique index alone.
func NewExternalIDAllocator(repo domain.Repository, reserver Reserver, logger *slog.Logger) *ExternalIDAllocator {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExternalIDAllocator{
		repo:     repo,
		reserver: reserver,
		intn:     rand.IntN,
		logger:   logger,
	}
}

// Allocate returns a free external id or ErrIDSpaceExhausted.
func (a *ExternalIDAllocator) Allocate(ctx context.Context) (string, error) {
	for attempt := 1; attempt <= MaxAllocationAttempts; attempt++ {
		candidate := strconv.Itoa(externalIDMin + a.intn(externalIDSpan))

		taken, err := a.inUse(ctx, candidate)
		if err != nil {
			return "", err
		}
		if taken {
			a.logger.Warn("external meeting id already used by an active meeting",
				"external_meeting_id", candidate,
				"attempt", attempt,
			)
			continue
		}

		if a.reserver == nil {
			return candidate, nil
		}
		ok, err := a.reserver.Reserve(ctx, candidate)
		if err != nil {
			a.logger.Warn("external id reservation unavailable, relying on store index",
				"external_meeting_id", candidate,
				"error", err,
			)
			return candidate, nil
		}
		if ok {
			return candidate, nil
		}
	}

	a.logger.Error("external meeting id allocation gave up", "attempts", MaxAllocationAttempts)
	return "", domain.ErrIDSpaceExhausted
}

func (a *ExternalIDAllocator) inUse(ctx context.Context, externalID string) (bool, error) {
	active, err := a.repo.ListByStatus(ctx, domain.StatusActive)
	if err != nil {
		return false, fmt.Errorf("scan active meetings: %w", err)
	}
	for _, m := range active {
		if m.ExternalID() == externalID {
			return true, nil
		}
	}
	return false, nil
}

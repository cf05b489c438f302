package domain

import "context"

// Repository defines specialist profile persistence.
type Repository interface {
	// Create stores a new profile and fails with ErrProfileExists when the
	// phone number is taken.
	Create(ctx context.Context, p *Profile) error

	// Save overwrites an existing profile.
	Save(ctx context.Context, p *Profile) error

	// FindByPhone returns nil, nil when there is no such profile.
	FindByPhone(ctx context.Context, phone string) (*Profile, error)

	List(ctx context.Context) ([]*Profile, error)
	ListByUserStatus(ctx context.Context, status UserStatus) ([]*Profile, error)

	// UpdateCallStatus changes only the call status. It returns
	// ErrProfileNotFound when no row matched.
	UpdateCallStatus(ctx context.Context, phone string, status CallStatus) error

	// ApplyScheduledStatus writes a schedule-derived status unless the
	// stored status is OFFLINE. It reports whether a row was written.
	ApplyScheduledStatus(ctx context.Context, phone string, status UserStatus) (bool, error)
}

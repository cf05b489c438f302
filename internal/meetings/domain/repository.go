package domain

import "context"

// Repository defines meeting persistence.
type Repository interface {
	// Save inserts a new meeting or updates an existing one. Updates are
	// conditional on the version the meeting was loaded at and fail with
	// ErrConcurrentModification when another writer got there first. A
	// successful save advances the meeting's version.
	Save(ctx context.Context, meeting *Meeting) error

	// FindByID returns nil, nil when the meeting does not exist.
	FindByID(ctx context.Context, meetingID string) (*Meeting, error)

	// ListByStatus reads the status index.
	ListByStatus(ctx context.Context, status Status) ([]*Meeting, error)
}

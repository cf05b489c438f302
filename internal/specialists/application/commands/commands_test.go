package commands

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/UBC-CIC/first-responder-admin/internal/shared/infrastructure/database"
	"github.com/UBC-CIC/first-responder-admin/internal/shared/infrastructure/database/sqlite"
	"github.com/UBC-CIC/first-responder-admin/internal/shared/infrastructure/migrations"
	"github.com/UBC-CIC/first-responder-admin/internal/specialists/domain"
	"github.com/UBC-CIC/first-responder-admin/internal/specialists/infrastructure/persistence"
)

var now = time.Date(2026, 1, 5, 12, 0, 0, 0, time.UTC)

func newRepo(t *testing.T) domain.Repository {
	t.Helper()
	ctx := context.Background()
	conn, err := sqlite.NewConnection(ctx, database.Config{SQLitePath: sqlite.MemoryPath})
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	require.NoError(t, migrations.Run(ctx, conn))
	return persistence.NewSQLProfileRepository(conn)
}

func availableNow() domain.Availability {
	return domain.Availability{Overrides: []domain.Override{{
		Start:  now.Add(-time.Hour),
		End:    now.Add(time.Hour),
		Status: domain.UserStatusAvailable,
	}}}
}

func register(t *testing.T, repo domain.Repository) *domain.Profile {
	t.Helper()
	h := NewRegisterSpecialistHandler(repo, nil)
	h.now = func() time.Time { return now }
	p, err := h.Handle(context.Background(), RegisterSpecialistCommand{
		Details:      domain.Details{PhoneNumber: "+16045550002", FirstName: "Grace", LastName: "Hopper"},
		Availability: availableNow(),
	})
	require.NoError(t, err)
	return p
}

func TestRegisterSpecialistHandler(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)

	p := register(t, repo)
	assert.Equal(t, domain.UserStatusAvailable, p.UserStatus())
	assert.Equal(t, domain.CallStatusNotInCall, p.CallStatus())

	stored, err := repo.FindByPhone(ctx, "+16045550002")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "Grace Hopper", stored.FullName())

	t.Run("duplicate phone", func(t *testing.T) {
		_, err := NewRegisterSpecialistHandler(repo, nil).Handle(ctx, RegisterSpecialistCommand{
			Details: domain.Details{PhoneNumber: "+16045550002"},
		})
		assert.ErrorIs(t, err, domain.ErrProfileExists)
	})

	t.Run("invalid availability", func(t *testing.T) {
		_, err := NewRegisterSpecialistHandler(repo, nil).Handle(ctx, RegisterSpecialistCommand{
			Details:      domain.Details{PhoneNumber: "+16045550003"},
			Availability: domain.Availability{Schedules: []domain.Schedule{{DayOfWeek: 9, EndSeconds: 10, Status: domain.UserStatusAvailable}}},
		})
		assert.ErrorIs(t, err, domain.ErrInvalidDayOfWeek)
	})
}

func TestUpdateUserStatusHandler(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)
	register(t, repo)

	h := NewUpdateUserStatusHandler(repo, nil)
	h.now = func() time.Time { return now }

	offline := domain.UserStatusOffline
	p, err := h.Handle(ctx, UpdateUserStatusCommand{PhoneNumber: "+16045550002", Status: &offline})
	require.NoError(t, err)
	assert.Equal(t, domain.UserStatusOffline, p.UserStatus())

	written, err := repo.ApplyScheduledStatus(ctx, "+16045550002", domain.UserStatusAvailable)
	require.NoError(t, err)
	assert.False(t, written, "schedule must not overwrite OFFLINE")

	p, err = h.Handle(ctx, UpdateUserStatusCommand{PhoneNumber: "+16045550002"})
	require.NoError(t, err)
	assert.Equal(t, domain.UserStatusAvailable, p.UserStatus())

	t.Run("unknown phone", func(t *testing.T) {
		_, err := h.Handle(ctx, UpdateUserStatusCommand{PhoneNumber: "+19999999999"})
		assert.ErrorIs(t, err, domain.ErrProfileNotFound)
	})

	t.Run("invalid status", func(t *testing.T) {
		bad := domain.UserStatus("BUSY")
		_, err := h.Handle(ctx, UpdateUserStatusCommand{PhoneNumber: "+16045550002", Status: &bad})
		assert.ErrorIs(t, err, domain.ErrInvalidStatus)
	})
}

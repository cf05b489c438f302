package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/UBC-CIC/first-responder-admin/internal/shared/infrastructure/database"
	"github.com/UBC-CIC/first-responder-admin/internal/shared/infrastructure/database/sqlite"
	"github.com/UBC-CIC/first-responder-admin/internal/shared/infrastructure/migrations"
	"github.com/UBC-CIC/first-responder-admin/internal/specialists/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepo(t *testing.T) *SQLProfileRepository {
	t.Helper()
	ctx := context.Background()
	conn, err := sqlite.NewConnection(ctx, database.Config{SQLitePath: sqlite.MemoryPath})
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	require.NoError(t, migrations.Run(ctx, conn))
	return NewSQLProfileRepository(conn)
}

func newProfile(t *testing.T, phone string) *domain.Profile {
	t.Helper()
	now := time.Date(2026, 1, 5, 12, 0, 0, 0, time.UTC)
	p, err := domain.NewProfile(domain.Details{
		PhoneNumber:  phone,
		FirstName:    "Grace",
		LastName:     "Hopper",
		Email:        "grace@example.org",
		Organization: "St. Mercy's Hospital",
		Occupation:   "Physician",
		Location:     &domain.Coordinates{Latitude: 49.28, Longitude: -123.12},
	}, domain.Availability{
		Overrides: []domain.Override{{Start: now.Add(-time.Hour), End: now.Add(time.Hour), Status: domain.UserStatusAvailable}},
		Schedules: []domain.Schedule{{DayOfWeek: 2, StartSeconds: 0, EndSeconds: 3600, Timezone: "America/Vancouver", Status: domain.UserStatusAvailable}},
	}, now)
	require.NoError(t, err)
	return p
}

func TestSQLProfileRepository_CreateAndFind(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	p := newProfile(t, "+16045550100")

	require.NoError(t, repo.Create(ctx, p))
	assert.ErrorIs(t, repo.Create(ctx, p), domain.ErrProfileExists)

	got, err := repo.FindByPhone(ctx, "+16045550100")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, p.Details(), got.Details())
	assert.Equal(t, domain.UserStatusAvailable, got.UserStatus())
	assert.Equal(t, domain.CallStatusNotInCall, got.CallStatus())
	require.Len(t, got.Availability().Overrides, 1)
	assert.True(t, p.Availability().Overrides[0].Start.Equal(got.Availability().Overrides[0].Start))
	assert.Equal(t, p.Availability().Schedules, got.Availability().Schedules)
	assert.WithinDuration(t, p.CreatedAt(), got.CreatedAt(), time.Millisecond)

	missing, err := repo.FindByPhone(ctx, "+1000")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestSQLProfileRepository_Save(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	p := newProfile(t, "+16045550100")
	require.NoError(t, repo.Create(ctx, p))

	require.NoError(t, p.SetUserStatus(domain.UserStatusOffline))
	require.NoError(t, repo.Save(ctx, p))

	got, err := repo.FindByPhone(ctx, p.PhoneNumber())
	require.NoError(t, err)
	assert.Equal(t, domain.UserStatusOffline, got.UserStatus())

	ghost := newProfile(t, "+19999")
	assert.ErrorIs(t, repo.Save(ctx, ghost), domain.ErrProfileNotFound)
}

func TestSQLProfileRepository_StatusUpdates(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	p := newProfile(t, "+16045550100")
	require.NoError(t, repo.Create(ctx, p))

	require.NoError(t, repo.UpdateCallStatus(ctx, p.PhoneNumber(), domain.CallStatusPaged))
	assert.ErrorIs(t, repo.UpdateCallStatus(ctx, "+1000", domain.CallStatusPaged), domain.ErrProfileNotFound)

	written, err := repo.ApplyScheduledStatus(ctx, p.PhoneNumber(), domain.UserStatusNotAvailable)
	require.NoError(t, err)
	assert.True(t, written)

	require.NoError(t, p.SetUserStatus(domain.UserStatusOffline))
	require.NoError(t, p.SetCallStatus(domain.CallStatusPaged))
	require.NoError(t, repo.Save(ctx, p))

	written, err = repo.ApplyScheduledStatus(ctx, p.PhoneNumber(), domain.UserStatusAvailable)
	require.NoError(t, err)
	assert.False(t, written, "offline is never overwritten by the schedule")

	got, err := repo.FindByPhone(ctx, p.PhoneNumber())
	require.NoError(t, err)
	assert.Equal(t, domain.UserStatusOffline, got.UserStatus())
	assert.Equal(t, domain.CallStatusPaged, got.CallStatus())

	offline, err := repo.ListByUserStatus(ctx, domain.UserStatusOffline)
	require.NoError(t, err)
	assert.Len(t, offline, 1)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestSQLProfileRepository_ListSkipsUndecodableRows(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	require.NoError(t, repo.Create(ctx, newProfile(t, "+16045550100")))
	require.NoError(t, repo.Create(ctx, newProfile(t, "+16045550101")))

	_, err := database.ExecutorFromContext(ctx, repo.conn).Exec(ctx,
		`UPDATE specialist_profiles SET availability = ? WHERE phone_number = ?`, "{not json", "+16045550100")
	require.NoError(t, err)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "+16045550101", all[0].PhoneNumber())

	available, err := repo.ListByUserStatus(ctx, domain.UserStatusAvailable)
	require.NoError(t, err)
	assert.Len(t, available, 1)

	_, err = repo.FindByPhone(ctx, "+16045550100")
	assert.ErrorIs(t, err, errUndecodable)
}

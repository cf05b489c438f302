package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/UBC-CIC/first-responder-admin/internal/shared/infrastructure/database"
	"github.com/UBC-CIC/first-responder-admin/internal/shared/infrastructure/database/sqlite"
	"github.com/UBC-CIC/first-responder-admin/internal/shared/infrastructure/migrations"
	"github.com/UBC-CIC/first-responder-admin/internal/specialists/domain"
	"github.com/UBC-CIC/first-responder-admin/internal/specialists/infrastructure/persistence"
	"github.com/UBC-CIC/first-responder-admin/pkg/observability"
)

// Monday noon UTC.
var monday = time.Date(2026, 1, 5, 12, 0, 0, 0, time.UTC)

func mondayNoon(tz string) domain.Availability {
	return domain.Availability{Schedules: []domain.Schedule{{
		DayOfWeek:    int(time.Monday),
		StartSeconds: 11 * 3600,
		EndSeconds:   13 * 3600,
		Timezone:     tz,
		Status:       domain.UserStatusAvailable,
	}}}
}

func newRepo(t *testing.T) *persistence.SQLProfileRepository {
	t.Helper()
	ctx := context.Background()
	conn, err := sqlite.NewConnection(ctx, database.Config{SQLitePath: sqlite.MemoryPath})
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	require.NoError(t, migrations.Run(ctx, conn))
	return persistence.NewSQLProfileRepository(conn)
}

func create(t *testing.T, repo domain.Repository, phone string, a domain.Availability, status *domain.UserStatus) {
	t.Helper()
	p, err := domain.NewProfile(domain.Details{PhoneNumber: phone, FirstName: "Test"}, a, monday.Add(-24*time.Hour))
	require.NoError(t, err)
	if status != nil {
		require.NoError(t, p.SetUserStatus(*status))
	}
	require.NoError(t, repo.Create(context.Background(), p))
}

func TestAvailabilityJob_RunOnce(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)
	offline := domain.UserStatusOffline

	create(t, repo, "+16045550001", mondayNoon("UTC"), nil)
	create(t, repo, "+16045550002", mondayNoon("UTC"), &offline)
	create(t, repo, "+16045550003", mondayNoon("Mars/Olympus_Mons"), nil)

	metrics := observability.NewInMemoryMetrics()
	job := NewAvailabilityJob(repo, "", nil, metrics)
	job.now = func() time.Time { return monday }

	summary, err := job.RunOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, RunSummary{Evaluated: 3, Changed: 1, Skipped: 1}, summary)

	statusOf := func(phone string) domain.UserStatus {
		p, err := repo.FindByPhone(ctx, phone)
		require.NoError(t, err)
		require.NotNil(t, p)
		return p.UserStatus()
	}
	assert.Equal(t, domain.UserStatusAvailable, statusOf("+16045550001"))
	assert.Equal(t, domain.UserStatusOffline, statusOf("+16045550002"))
	assert.Equal(t, domain.UserStatusNotAvailable, statusOf("+16045550003"))

	assert.Equal(t, int64(1), metrics.GetCounter(observability.MetricAvailabilityRuns))

	t.Run("second pass changes nothing", func(t *testing.T) {
		summary, err := job.RunOnce(ctx)
		require.NoError(t, err)
		assert.Zero(t, summary.Changed)
	})
}

type mockRepo struct {
	domain.Repository
	mock.Mock
}

func (m *mockRepo) List(ctx context.Context) ([]*domain.Profile, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Profile), args.Error(1)
}

func (m *mockRepo) ApplyScheduledStatus(ctx context.Context, phone string, status domain.UserStatus) (bool, error) {
	args := m.Called(ctx, phone, status)
	return args.Bool(0), args.Error(1)
}

func TestAvailabilityJob_RunOnce_Failures(t *testing.T) {
	ctx := context.Background()

	t.Run("list failure is returned", func(t *testing.T) {
		repo := &mockRepo{}
		repo.On("List", ctx).Return(nil, domain.ErrStoreUnavailable)

		_, err := NewAvailabilityJob(repo, "", nil, nil).RunOnce(ctx)
		assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
	})

	t.Run("one profile failing does not stop the pass", func(t *testing.T) {
		first, err := domain.NewProfile(domain.Details{PhoneNumber: "+1"}, mondayNoon("UTC"), monday.Add(-time.Hour*24))
		require.NoError(t, err)
		second, err := domain.NewProfile(domain.Details{PhoneNumber: "+2"}, mondayNoon("UTC"), monday.Add(-time.Hour*24))
		require.NoError(t, err)

		repo := &mockRepo{}
		repo.On("List", ctx).Return([]*domain.Profile{first, second}, nil)
		repo.On("ApplyScheduledStatus", ctx, "+1", domain.UserStatusAvailable).Return(false, errors.New("locked"))
		repo.On("ApplyScheduledStatus", ctx, "+2", domain.UserStatusAvailable).Return(true, nil)

		metrics := observability.NewInMemoryMetrics()
		job := NewAvailabilityJob(repo, "", nil, metrics)
		job.now = func() time.Time { return monday }

		summary, err := job.RunOnce(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, summary.Failed)
		assert.Equal(t, 1, summary.Changed)
		assert.Equal(t, int64(1), metrics.GetCounter(observability.MetricAvailabilityErrors))
		repo.AssertExpectations(t)
	})

	t.Run("status overwritten concurrently is not counted", func(t *testing.T) {
		p, err := domain.NewProfile(domain.Details{PhoneNumber: "+1"}, mondayNoon("UTC"), monday.Add(-time.Hour*24))
		require.NoError(t, err)

		repo := &mockRepo{}
		repo.On("List", ctx).Return([]*domain.Profile{p}, nil)
		repo.On("ApplyScheduledStatus", ctx, "+1", domain.UserStatusAvailable).Return(false, nil)

		job := NewAvailabilityJob(repo, "", nil, nil)
		job.now = func() time.Time { return monday }

		summary, err := job.RunOnce(ctx)
		require.NoError(t, err)
		assert.Zero(t, summary.Changed)
	})
}

func TestAvailabilityJob_StartStop(t *testing.T) {
	repo := &mockRepo{}

	bad := NewAvailabilityJob(repo, "every tuesday", nil, nil)
	assert.Error(t, bad.Start(context.Background()))

	job := NewAvailabilityJob(repo, "@every 1h", nil, nil)
	require.NoError(t, job.Start(context.Background()))
	assert.Error(t, job.Start(context.Background()))
	job.Stop()
	job.Stop()
}

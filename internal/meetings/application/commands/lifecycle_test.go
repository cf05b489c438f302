package commands

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/UBC-CIC/first-responder-admin/internal/meetings/domain"
	telephonyDomain "github.com/UBC-CIC/first-responder-admin/internal/telephony/domain"
	"github.com/UBC-CIC/first-responder-admin/pkg/observability"
)

func TestEndMeetingHandler(t *testing.T) {
	ctx := context.Background()

	t.Run("provider failure still closes", func(t *testing.T) {
		registry, provider, sweeper := new(mockRegistry), new(mockProvider), new(mockSweeper)
		metrics := observability.NewInMemoryMetrics()
		meeting := activeMeeting(t)
		closed := activeMeeting(t)
		closed.End(time.Now())

		registry.On("FindByID", ctx, "session-1").Return(meeting, nil)
		provider.On("EndSession", ctx, "session-1").Return(telephonyDomain.ErrProviderUnavailable)
		registry.On("EndMeeting", ctx, "session-1").Return(closed, true, nil)
		sweeper.On("Sweep", ctx, closed, "").Return(1)

		m, err := NewEndMeetingHandler(registry, provider, sweeper, nil, metrics).Handle(ctx, EndMeetingCommand{MeetingID: "session-1"})
		require.NoError(t, err)
		assert.Equal(t, domain.StatusClosed, m.Status())
		sweeper.AssertExpectations(t)
		assert.Equal(t, int64(1), metrics.GetCounter(observability.MetricMeetingsEnded, observability.T("reason", "operator")))
	})

	t.Run("already closed does not sweep again", func(t *testing.T) {
		registry, provider, sweeper := new(mockRegistry), new(mockProvider), new(mockSweeper)
		metrics := observability.NewInMemoryMetrics()
		closed := activeMeeting(t)
		closed.End(time.Now())

		registry.On("FindByID", ctx, "session-1").Return(closed, nil)
		provider.On("EndSession", ctx, "session-1").Return(nil)
		registry.On("EndMeeting", ctx, "session-1").Return(closed, false, nil)

		m, err := NewEndMeetingHandler(registry, provider, sweeper, nil, metrics).Handle(ctx, EndMeetingCommand{MeetingID: "session-1"})
		require.NoError(t, err)
		assert.Same(t, closed, m)
		sweeper.AssertNotCalled(t, "Sweep", mock.Anything, mock.Anything, mock.Anything)
		assert.Zero(t, metrics.GetCounter(observability.MetricMeetingsEnded, observability.T("reason", "operator")))
	})

	t.Run("unknown meeting", func(t *testing.T) {
		registry := new(mockRegistry)
		registry.On("FindByID", ctx, "nope").Return(nil, domain.ErrMeetingNotFound)

		_, err := NewEndMeetingHandler(registry, new(mockProvider), new(mockSweeper), nil, nil).Handle(ctx, EndMeetingCommand{MeetingID: "nope"})
		assert.ErrorIs(t, err, domain.ErrMeetingNotFound)
	})
}

func TestKickAttendeeHandler(t *testing.T) {
	ctx := context.Background()

	t.Run("removes participant then records kick", func(t *testing.T) {
		registry, provider, sweeper := new(mockRegistry), new(mockProvider), new(mockSweeper)
		meeting := activeMeeting(t)
		registry.On("FindByID", ctx, "session-1").Return(meeting, nil)
		provider.On("RemoveParticipant", ctx, "session-1", "att-1").Return(nil)
		registry.On("KickAttendee", ctx, "session-1", "att-1").Return(meeting, nil)
		sweeper.On("Sweep", ctx, meeting, "att-1").Return(0)

		_, err := NewKickAttendeeHandler(registry, provider, sweeper, nil).Handle(ctx, KickAttendeeCommand{MeetingID: "session-1", AttendeeID: "att-1"})
		require.NoError(t, err)
		mock.AssertExpectationsForObjects(t, registry, provider, sweeper)
	})

	t.Run("paged attendee is rejected before the provider", func(t *testing.T) {
		registry, provider := new(mockRegistry), new(mockProvider)
		meeting := activeMeeting(t)
		require.NoError(t, meeting.UpsertByPhone(domain.Attendee{
			AttendeeID: "att-2", PhoneNumber: "+2", JoinType: domain.JoinTypePSTN, State: domain.AttendeeStatePaged,
		}))
		registry.On("FindByID", ctx, "session-1").Return(meeting, nil)

		_, err := NewKickAttendeeHandler(registry, provider, new(mockSweeper), nil).Handle(ctx, KickAttendeeCommand{MeetingID: "session-1", AttendeeID: "att-2"})
		assert.ErrorIs(t, err, domain.ErrAttendeeNotInCall)
		provider.AssertNotCalled(t, "RemoveParticipant", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unknown attendee", func(t *testing.T) {
		registry := new(mockRegistry)
		registry.On("FindByID", ctx, "session-1").Return(activeMeeting(t), nil)

		_, err := NewKickAttendeeHandler(registry, new(mockProvider), new(mockSweeper), nil).Handle(ctx, KickAttendeeCommand{MeetingID: "session-1", AttendeeID: "x"})
		assert.ErrorIs(t, err, domain.ErrAttendeeNotFound)
	})

	t.Run("provider outage aborts", func(t *testing.T) {
		registry, provider := new(mockRegistry), new(mockProvider)
		registry.On("FindByID", ctx, "session-1").Return(activeMeeting(t), nil)
		provider.On("RemoveParticipant", ctx, "session-1", "att-1").Return(telephonyDomain.ErrProviderUnavailable)

		_, err := NewKickAttendeeHandler(registry, provider, new(mockSweeper), nil).Handle(ctx, KickAttendeeCommand{MeetingID: "session-1", AttendeeID: "att-1"})
		assert.ErrorIs(t, err, telephonyDomain.ErrProviderUnavailable)
		registry.AssertNotCalled(t, "KickAttendee", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestLifecycleHandler(t *testing.T) {
	ctx := mock.Anything

	t.Run("session ended sweeps everyone", func(t *testing.T) {
		registry, sweeper := new(mockRegistry), new(mockSweeper)
		meeting := activeMeeting(t)
		registry.On("EndMeeting", ctx, "session-1").Return(meeting, true, nil)
		sweeper.On("Sweep", ctx, meeting, "").Return(2)

		err := NewLifecycleHandler(registry, sweeper, nil, nil).Handle(context.Background(), telephonyDomain.LifecycleEvent{
			Kind: telephonyDomain.LifecycleSessionEnded, SessionID: "session-1",
		})
		require.NoError(t, err)
		sweeper.AssertExpectations(t)
	})

	t.Run("participant left sweeps one", func(t *testing.T) {
		registry, sweeper := new(mockRegistry), new(mockSweeper)
		meeting := activeMeeting(t)
		registry.On("AttendeeLeft", ctx, "session-1", "att-1").Return(meeting, nil)
		sweeper.On("Sweep", ctx, meeting, "att-1").Return(0)

		err := NewLifecycleHandler(registry, sweeper, nil, nil).Handle(context.Background(), telephonyDomain.LifecycleEvent{
			Kind: telephonyDomain.LifecycleParticipantLeft, SessionID: "session-1", ParticipantID: "att-1",
		})
		require.NoError(t, err)
		sweeper.AssertExpectations(t)
	})

	t.Run("redelivered session end does not sweep", func(t *testing.T) {
		registry, sweeper := new(mockRegistry), new(mockSweeper)
		closed := activeMeeting(t)
		closed.End(time.Now())
		registry.On("EndMeeting", ctx, "session-1").Return(closed, false, nil)

		err := NewLifecycleHandler(registry, sweeper, nil, nil).Handle(context.Background(), telephonyDomain.LifecycleEvent{
			Kind: telephonyDomain.LifecycleSessionEnded, SessionID: "session-1",
		})
		require.NoError(t, err)
		sweeper.AssertNotCalled(t, "Sweep", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unknown meeting is a no-op", func(t *testing.T) {
		registry, sweeper := new(mockRegistry), new(mockSweeper)
		registry.On("EndMeeting", ctx, "gone").Return(nil, false, nil)

		err := NewLifecycleHandler(registry, sweeper, nil, nil).Handle(context.Background(), telephonyDomain.LifecycleEvent{
			Kind: telephonyDomain.LifecycleSessionEnded, SessionID: "gone",
		})
		require.NoError(t, err)
		sweeper.AssertNotCalled(t, "Sweep", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("store error is returned for redelivery", func(t *testing.T) {
		registry := new(mockRegistry)
		boom := errors.New("store down")
		registry.On("AttendeeLeft", ctx, "s", "a").Return(nil, boom)

		err := NewLifecycleHandler(registry, new(mockSweeper), nil, nil).Handle(context.Background(), telephonyDomain.LifecycleEvent{
			Kind: telephonyDomain.LifecycleParticipantLeft, SessionID: "s", ParticipantID: "a",
		})
		assert.ErrorIs(t, err, boom)
	})

	t.Run("ignored", func(t *testing.T) {
		registry := new(mockRegistry)
		err := NewLifecycleHandler(registry, new(mockSweeper), nil, nil).Handle(context.Background(), telephonyDomain.LifecycleEvent{})
		require.NoError(t, err)
		registry.AssertExpectations(t)
	})
}

func TestAnnotateMeetingHandler(t *testing.T) {
	ctx := context.Background()
	registry := new(mockRegistry)
	meeting := activeMeeting(t)
	registry.On("AnnotateMeeting", ctx, "session-1", "Collision", "two vehicles").Return(meeting, nil)

	m, err := NewAnnotateMeetingHandler(registry).Handle(ctx, AnnotateMeetingCommand{MeetingID: "session-1", Title: "Collision", Comments: "two vehicles"})
	require.NoError(t, err)
	assert.Same(t, meeting, m)
}

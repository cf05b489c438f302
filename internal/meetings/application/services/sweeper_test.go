package services

import (
	"context"
	"errors"
	"testing"

	"github.com/UBC-CIC/first-responder-admin/internal/meetings/domain"
	specialistsDomain "github.com/UBC-CIC/first-responder-admin/internal/specialists/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func meetingWithSpecialists(t *testing.T) *domain.Meeting {
	t.Helper()
	m := activeMeeting(t, "m-1", "12345678", "+16045550001")
	for _, a := range []domain.Attendee{
		{AttendeeID: "s1", PhoneNumber: "+16045550101", Type: domain.AttendeeTypeSpecialist, JoinType: domain.JoinTypePSTN, State: domain.AttendeeStateInCall},
		{AttendeeID: "s2", PhoneNumber: "+16045550102", Type: domain.AttendeeTypeSpecialist, JoinType: domain.JoinTypePSTN, State: domain.AttendeeStatePaged},
	} {
		require.NoError(t, m.UpsertByPhone(a))
	}
	return m
}

func TestSpecialistSweeper_Sweep(t *testing.T) {
	ctx := context.Background()

	t.Run("all specialists", func(t *testing.T) {
		profiles := new(mockProfileRepo)
		profiles.On("UpdateCallStatus", ctx, "+16045550101", specialistsDomain.CallStatusNotInCall).Return(nil)
		profiles.On("UpdateCallStatus", ctx, "+16045550102", specialistsDomain.CallStatusNotInCall).Return(nil)

		n := NewSpecialistSweeper(profiles, nil).Sweep(ctx, meetingWithSpecialists(t), "")

		assert.Equal(t, 2, n)
		profiles.AssertExpectations(t)
		profiles.AssertNotCalled(t, "UpdateCallStatus", ctx, "+16045550001", specialistsDomain.CallStatusNotInCall)
	})

	t.Run("filtered to one attendee", func(t *testing.T) {
		profiles := new(mockProfileRepo)
		profiles.On("UpdateCallStatus", ctx, "+16045550102", specialistsDomain.CallStatusNotInCall).Return(nil)

		n := NewSpecialistSweeper(profiles, nil).Sweep(ctx, meetingWithSpecialists(t), "s2")

		assert.Equal(t, 1, n)
		profiles.AssertNumberOfCalls(t, "UpdateCallStatus", 1)
	})

	t.Run("failures are swallowed", func(t *testing.T) {
		profiles := new(mockProfileRepo)
		profiles.On("UpdateCallStatus", ctx, "+16045550101", specialistsDomain.CallStatusNotInCall).
			Return(specialistsDomain.ErrProfileNotFound)
		profiles.On("UpdateCallStatus", ctx, "+16045550102", specialistsDomain.CallStatusNotInCall).
			Return(errors.New("timeout"))

		n := NewSpecialistSweeper(profiles, nil).Sweep(ctx, meetingWithSpecialists(t), "")
		assert.Zero(t, n)
	})

	t.Run("nil meeting", func(t *testing.T) {
		assert.Zero(t, NewSpecialistSweeper(new(mockProfileRepo), nil).Sweep(ctx, nil, ""))
	})
}

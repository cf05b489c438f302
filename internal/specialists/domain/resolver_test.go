package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func hm(h, m int) int { return h*3600 + m*60 }

func TestEvaluate_NoRules(t *testing.T) {
	status, skipped := Evaluate(Availability{}, time.Now())
	assert.Equal(t, UserStatusNotAvailable, status)
	assert.Empty(t, skipped)
}

func TestEvaluate_OverrideTakesPrecedence(t *testing.T) {
	now := time.Date(2026, 7, 6, 18, 0, 0, 0, time.UTC) // Monday 11:00 in Vancouver (PDT)
	a := Availability{
		Overrides: []Override{
			{Start: now.Add(-time.Hour), End: now.Add(time.Hour), Status: UserStatusNotAvailable},
		},
		Schedules: []Schedule{
			{DayOfWeek: 1, StartSeconds: hm(9, 0), EndSeconds: hm(17, 0), Timezone: "America/Vancouver", Status: UserStatusAvailable},
		},
	}

	status, _ := Evaluate(a, now)
	assert.Equal(t, UserStatusNotAvailable, status)
}

func TestEvaluate_OverrideIsHalfOpen(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)
	a := Availability{Overrides: []Override{{Start: start, End: end, Status: UserStatusAvailable}}}

	tests := []struct {
		name string
		at   time.Time
		want UserStatus
	}{
		{"at start", start, UserStatusAvailable},
		{"inside", start.Add(30 * time.Minute), UserStatusAvailable},
		{"at end", end, UserStatusNotAvailable},
		{"before", start.Add(-time.Second), UserStatusNotAvailable},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, _ := Evaluate(a, tc.at)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestEvaluate_FirstMatchWins(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	a := Availability{Overrides: []Override{
		{Start: now.Add(-time.Hour), End: now.Add(time.Hour), Status: UserStatusAvailable},
		{Start: now.Add(-time.Minute), End: now.Add(time.Minute), Status: UserStatusOffline},
	}}

	status, _ := Evaluate(a, now)
	assert.Equal(t, UserStatusAvailable, status)
}

func TestEvaluate_ScheduleUsesLocalWallClockAcrossDST(t *testing.T) {
	// Monday 19:00-21:00 in Vancouver.
	a := Availability{Schedules: []Schedule{
		{DayOfWeek: 1, StartSeconds: hm(19, 0), EndSeconds: hm(21, 0), Timezone: "America/Vancouver", Status: UserStatusAvailable},
	}}

	tests := []struct {
		name string
		at   time.Time
		want UserStatus
	}{
		// PST (UTC-8): Monday 2026-01-05 20:00 local is Tuesday 04:00 UTC.
		{"winter inside", time.Date(2026, 1, 6, 4, 0, 0, 0, time.UTC), UserStatusAvailable},
		// PDT (UTC-7): Monday 2026-07-06 20:00 local is Tuesday 03:00 UTC.
		{"summer inside", time.Date(2026, 7, 7, 3, 0, 0, 0, time.UTC), UserStatusAvailable},
		// Tuesday 04:00 UTC in summer is Monday 21:00 local, the exclusive end.
		{"summer at end", time.Date(2026, 7, 7, 4, 0, 0, 0, time.UTC), UserStatusNotAvailable},
		// Monday 20:00 UTC is Monday 12:00 local, outside the window.
		{"utc weekday ignored", time.Date(2026, 1, 5, 20, 0, 0, 0, time.UTC), UserStatusNotAvailable},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, skipped := Evaluate(a, tc.at)
			assert.Empty(t, skipped)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestEvaluate_UnknownTimezoneSkipped(t *testing.T) {
	now := time.Date(2026, 1, 5, 12, 0, 0, 0, time.UTC) // Monday
	a := Availability{Schedules: []Schedule{
		{DayOfWeek: 1, StartSeconds: 0, EndSeconds: secondsPerDay, Timezone: "Mars/Olympus_Mons", Status: UserStatusAvailable},
		{DayOfWeek: 1, StartSeconds: 0, EndSeconds: secondsPerDay, Timezone: "UTC", Status: UserStatusOffline},
	}}

	status, skipped := Evaluate(a, now)
	assert.Equal(t, UserStatusOffline, status)
	require.Len(t, skipped, 1)
	assert.Equal(t, 0, skipped[0].Index)
	assert.Equal(t, "Mars/Olympus_Mons", skipped[0].Timezone)
	assert.Error(t, skipped[0].Err)
}

func TestResolve(t *testing.T) {
	now := time.Date(2026, 1, 5, 12, 0, 0, 0, time.UTC)
	p, err := NewProfile(Details{PhoneNumber: "+16045550100"}, Availability{Schedules: []Schedule{
		{DayOfWeek: 1, StartSeconds: hm(11, 0), EndSeconds: hm(13, 0), Timezone: "UTC", Status: UserStatusAvailable},
	}}, now)
	require.NoError(t, err)

	assert.Equal(t, UserStatusAvailable, Resolve(p, now))
	assert.Equal(t, UserStatusNotAvailable, Resolve(p, now.Add(2*time.Hour)))
}

package domain

import (
	"fmt"
	"time"
)

const secondsPerDay = 24 * 60 * 60

// Override forces a status for an absolute time range [Start, End).
type Override struct {
	Start  time.Time  `json:"start_time"`
	End    time.Time  `json:"end_time"`
	Status UserStatus `json:"override_type"`
}

// Covers reports whether t falls inside the override.
func (o Override) Covers(t time.Time) bool {
	return !t.Before(o.Start) && t.Before(o.End)
}

// Schedule is a weekly recurring window expressed in wall-clock time of an
// IANA zone. DayOfWeek follows time.Weekday (0 is Sunday).
type Schedule struct {
	DayOfWeek    int        `json:"day_of_week"`
	StartSeconds int        `json:"start_seconds_since_midnight"`
	EndSeconds   int        `json:"end_seconds_since_midnight"`
	Timezone     string     `json:"timezone"`
	Status       UserStatus `json:"availability_type"`
}

// Covers reports whether t falls inside the window, evaluated in loc.
func (s Schedule) Covers(t time.Time, loc *time.Location) bool {
	local := t.In(loc)
	if int(local.Weekday()) != s.DayOfWeek {
		return false
	}
	secs := local.Hour()*3600 + local.Minute()*60 + local.Second()
	return secs >= s.StartSeconds && secs < s.EndSeconds
}

// Availability holds one-off overrides and recurring schedules. Both lists
// are evaluated in order and the first match wins.
type Availability struct {
	Overrides []Override `json:"overrides"`
	Schedules []Schedule `json:"schedules"`
}

// Validate checks ranges and statuses. Time zones are not checked here; an
// unknown zone only disables its schedule.
func (a Availability) Validate() error {
	for i, o := range a.Overrides {
		if !o.Status.IsValid() {
			return fmt.Errorf("override %d: %w", i, ErrInvalidStatus)
		}
		if !o.Start.Before(o.End) {
			return fmt.Errorf("override %d: %w", i, ErrInvalidRange)
		}
	}
	for i, s := range a.Schedules {
		if !s.Status.IsValid() {
			return fmt.Errorf("schedule %d: %w", i, ErrInvalidStatus)
		}
		if s.DayOfWeek < 0 || s.DayOfWeek > 6 {
			return fmt.Errorf("schedule %d: %w", i, ErrInvalidDayOfWeek)
		}
		if s.StartSeconds < 0 || s.EndSeconds > secondsPerDay || s.StartSeconds >= s.EndSeconds {
			return fmt.Errorf("schedule %d: %w", i, ErrInvalidRange)
		}
	}
	return nil
}

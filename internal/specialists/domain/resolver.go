package domain

import (
	"sync"
	"time"
	_ "time/tzdata"

	"github.com/samber/lo"
)

// SkippedSchedule is a schedule that could not be evaluated.
type SkippedSchedule struct {
	Index    int
	Timezone string
	Err      error
}

// Resolve computes the scheduled status of a profile at now.
func Resolve(p *Profile, now time.Time) UserStatus {
	status, _ := Evaluate(p.Availability(), now)
	return status
}

// Evaluate resolves availability at now: the first override covering now,
// else the first schedule covering now in its own zone, else NOT_AVAILABLE.
// Schedules with an unknown zone are skipped and returned.
func Evaluate(a Availability, now time.Time) (UserStatus, []SkippedSchedule) {
	if o, ok := lo.Find(a.Overrides, func(o Override) bool { return o.Covers(now) }); ok {
		return o.Status, nil
	}

	var skipped []SkippedSchedule
	for i, s := range a.Schedules {
		loc, err := loadLocation(s.Timezone)
		if err != nil {
			skipped = append(skipped, SkippedSchedule{Index: i, Timezone: s.Timezone, Err: err})
			continue
		}
		if s.Covers(now, loc) {
			return s.Status, skipped
		}
	}
	return UserStatusNotAvailable, skipped
}

var locations sync.Map

func loadLocation(name string) (*time.Location, error) {
	if name == "" {
		return nil, ErrUnknownTimezone
	}
	if loc, ok := locations.Load(name); ok {
		return loc.(*time.Location), nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, err
	}
	locations.Store(name, loc)
	return loc, nil
}

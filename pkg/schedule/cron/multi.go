package cron

import (
	"time"

	robfig "github.com/robfig/cron/v3"

	gferrors "github.com/vnykmshr/cronik/pkg/common/errors"
)

// MultiCron fires whenever any of its members does.
type MultiCron struct {
	members []Schedule
}

var (
	_ Schedule        = (*MultiCron)(nil)
	_ robfig.Schedule = (*MultiCron)(nil)
)

// NewMulti composes independently compiled schedules.
func NewMulti(members ...Schedule) *MultiCron {
	return &MultiCron{members: append([]Schedule(nil), members...)}
}

// Snap returns the earliest member Snap.
func (m *MultiCron) Snap(t time.Time) (time.Time, error) {
	return earliest(m.members, func(s Schedule) (time.Time, error) { return s.Snap(t) })
}

// Step returns the earliest member Step.
func (m *MultiCron) Step(t time.Time) (time.Time, error) {
	return earliest(m.members, func(s Schedule) (time.Time, error) { return s.Step(t) })
}

// Next implements robfig/cron's Schedule.
func (m *MultiCron) Next(t time.Time) time.Time {
	out, err := m.Step(t)
	if err != nil {
		return time.Time{}
	}
	return out
}

// After returns the merged ascending sequence of occurrences.
func (m *MultiCron) After(from time.Time, limit int) *Sequence {
	return After(m, from, limit)
}

// Members returns the composed schedules.
func (m *MultiCron) Members() []Schedule {
	return append([]Schedule(nil), m.members...)
}

// earliest runs op on every member and keeps the earliest result. Members
// without an occurrence are skipped; any other error is returned at once.
func earliest(members []Schedule, op func(Schedule) (time.Time, error)) (time.Time, error) {
	var best time.Time
	found := false
	for _, s := range members {
		t, err := op(s)
		if err != nil {
			if gferrors.IsNoMatch(err) {
				continue
			}
			return time.Time{}, err
		}
		if !found || t.Before(best) {
			best, found = t, true
		}
	}
	if !found {
		return time.Time{}, gferrors.NewOperationError("cron", "multi", gferrors.ErrNoMatch).
			WithContext("no member has an occurrence")
	}
	return best, nil
}

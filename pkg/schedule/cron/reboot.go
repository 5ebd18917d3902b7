package cron

import (
	"time"

	robfig "github.com/robfig/cron/v3"

	gferrors "github.com/vnykmshr/cronik/pkg/common/errors"
)

// Reboot is the @reboot schedule: it fires once, at the instant a sequence
// starts.
type Reboot struct{}

var (
	_ Schedule        = Reboot{}
	_ robfig.Schedule = Reboot{}
)

// Snap returns t.
func (Reboot) Snap(t time.Time) (time.Time, error) { return t, nil }

// Step always reports no match.
func (Reboot) Step(time.Time) (time.Time, error) {
	return time.Time{}, gferrors.NewOperationError("cron", "step", gferrors.ErrNoMatch).
		WithContext("@reboot fires once")
}

// Next implements robfig/cron's Schedule. A reboot schedule has no next run.
func (Reboot) Next(time.Time) time.Time { return time.Time{} }

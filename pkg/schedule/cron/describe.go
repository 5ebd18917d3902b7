package cron

import (
	"time"

	gferrors "github.com/vnykmshr/cronik/pkg/common/errors"
	"github.com/vnykmshr/cronik/pkg/schedule/expr"
)

// Description provides human-readable information about an expression.
type Description struct {
	Expression string
	Compiled   string       // simplified expression
	Units      expr.UnitMap // fields declared per position
	Rules      []string     // bound field values per alternative
	Reboot     bool
	NextRuns   []time.Time
	TimeZone   string
}

// Describe compiles spec and lists its next n occurrences from from. Fewer
// runs are listed when the schedule ends sooner.
func Describe(spec string, from time.Time, n int, cfg Config) (Description, error) {
	c, err := NewWithConfig(spec, cfg)
	if err != nil {
		return Description{}, err
	}

	d := Description{
		Expression: spec,
		Compiled:   c.compiled.String(),
		Units:      c.compiled.Units,
		Reboot:     c.bound.reboot,
		TimeZone:   c.cfg.Location.String(),
	}
	for _, r := range c.bound.rules {
		d.Rules = append(d.Rules, r.String())
	}

	current := from
	for i := 0; i < n; i++ {
		var err error
		if i == 0 {
			current, err = c.Snap(current)
		} else {
			current, err = c.Step(current)
		}
		if gferrors.IsNoMatch(err) {
			break
		}
		if err != nil {
			return Description{}, err
		}
		d.NextRuns = append(d.NextRuns, current)
	}
	return d, nil
}

package cron

import (
	"fmt"
	"time"

	robfig "github.com/robfig/cron/v3"

	gferrors "github.com/vnykmshr/cronik/pkg/common/errors"
	"github.com/vnykmshr/cronik/pkg/metrics"
	"github.com/vnykmshr/cronik/pkg/schedule/expr"
	"github.com/vnykmshr/cronik/pkg/schedule/vector"
)

// Schedule produces occurrence instants.
//
// Both methods return an error wrapping ErrNoMatch when no occurrence exists
// within the search bounds.
type Schedule interface {
	// Snap returns the earliest occurrence at or after t.
	Snap(t time.Time) (time.Time, error)

	// Step returns the earliest occurrence strictly after t.
	Step(t time.Time) (time.Time, error)
}

// maxFoldRetries bounds the re-solves needed to leave a repeated
// wall-clock hour when clocks are set back.
const maxFoldRetries = 3

// Cron is a compiled schedule expression bound to the calendar. It is
// immutable and safe for concurrent use.
type Cron struct {
	compiled *expr.Compiled
	bound    bound
	cfg      Config
}

var (
	_ Schedule        = (*Cron)(nil)
	_ robfig.Schedule = (*Cron)(nil)
)

// New compiles spec with the default configuration.
func New(spec string) (*Cron, error) {
	return NewWithConfig(spec, Config{})
}

// MustNew is like New but panics if spec does not compile.
func MustNew(spec string) *Cron {
	c, err := New(spec)
	if err != nil {
		panic(fmt.Sprintf("cron: MustNew(%q): %v", spec, err))
	}
	return c
}

// NewWithConfig compiles spec with custom configuration.
func NewWithConfig(spec string, cfg Config) (*Cron, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	compiled, err := expr.Compile(spec)
	var c *Cron
	if err == nil {
		c, err = FromCompiled(compiled, cfg)
	}
	cfg.Metrics.ObserveCompile(metrics.Result(err, false))
	if err != nil {
		cfg.withDefaults(spec).Logger.Debug("schedule rejected", "spec", spec, "error", err)
		return nil, err
	}
	return c, nil
}

// FromCompiled binds an already compiled expression.
func FromCompiled(compiled *expr.Compiled, cfg Config) (*Cron, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	spec := compiled.Spec
	if spec == "" {
		spec = compiled.String()
	}
	cfg = cfg.withDefaults(spec)

	b, err := bindTree(compiled.Root)
	if err != nil {
		return nil, err
	}

	cfg.Logger.Debug("schedule compiled",
		"schedule", cfg.Name,
		"width", compiled.Width,
		"rules", len(b.rules),
		"reboot", b.reboot)

	return &Cron{compiled: compiled, bound: b, cfg: cfg}, nil
}

// Snap returns the earliest occurrence at or after t. Instants are whole
// seconds, so a fractional t is rounded up.
func (c *Cron) Snap(t time.Time) (time.Time, error) {
	start := time.Now()
	t = ceilSecond(t.In(c.cfg.Location))

	var out time.Time
	var err error
	if c.bound.reboot {
		out = t
	} else {
		out, err = c.solveFrom(toVector(t), t, false)
	}

	c.observe("snap", start, err)
	return out, err
}

// Step returns the earliest occurrence strictly after t.
func (c *Cron) Step(t time.Time) (time.Time, error) {
	start := time.Now()
	out, err := c.step(t.In(c.cfg.Location))
	c.observe("step", start, err)
	return out, err
}

// Next implements robfig/cron's Schedule. It returns the zero time when there
// is no later occurrence.
func (c *Cron) Next(t time.Time) time.Time {
	out, err := c.Step(t)
	if err != nil {
		return time.Time{}
	}
	return out
}

// After returns the ascending sequence of occurrences starting at Snap(from).
func (c *Cron) After(from time.Time, limit int) *Sequence {
	return After(c, from, limit)
}

// Compiled returns the compiled expression.
func (c *Cron) Compiled() *expr.Compiled { return c.compiled }

// Name returns the name used for metrics and logs.
func (c *Cron) Name() string { return c.cfg.Name }

// Location returns the time zone occurrences are computed in.
func (c *Cron) Location() *time.Location { return c.cfg.Location }

// String returns the source expression.
func (c *Cron) String() string {
	if c.compiled.Spec != "" {
		return c.compiled.Spec
	}
	return c.compiled.String()
}

func (c *Cron) step(t time.Time) (time.Time, error) {
	t = t.Truncate(time.Second)
	v := toVector(t)
	v[len(v)-1]++
	return c.solveFrom(v, t, true)
}

// solveFrom solves v and checks the result against t: not before t, or
// strictly after it when strict is set.
func (c *Cron) solveFrom(v vector.Vector, t time.Time, strict bool) (time.Time, error) {
	for range maxFoldRetries {
		out, err := c.solve(v)
		if err != nil {
			return time.Time{}, err
		}
		if out.After(t) || (!strict && out.Equal(t)) {
			return out, nil
		}
		// The wall-clock time maps to the first pass of a repeated hour.
		// Continue from the top of the next wall-clock hour.
		v = toVector(out)
		v[3], v[4], v[5] = v[3]+1, 0, 0
	}
	return time.Time{}, c.noMatch(toVector(t))
}

// solve returns the earliest instant any rule allows at or above v.
func (c *Cron) solve(v vector.Vector) (time.Time, error) {
	var best time.Time
	found := false
	for _, r := range c.bound.rules {
		out, ok := r.snap(v, c.cfg.YearWindow)
		if !ok {
			continue
		}
		t := fromVector(out, c.cfg.Location)
		if !found || t.Before(best) {
			best, found = t, true
		}
	}
	if !found {
		return time.Time{}, c.noMatch(v)
	}
	return best, nil
}

func (c *Cron) noMatch(v vector.Vector) error {
	c.cfg.Logger.Debug("no occurrence found",
		"schedule", c.cfg.Name,
		"from", v,
		"years", c.cfg.YearWindow)
	return gferrors.NewOperationError("cron", "snap", gferrors.ErrNoMatch).
		WithContext(fmt.Sprintf("searched %d years from %d", c.cfg.YearWindow, v[0]))
}

func (c *Cron) observe(op string, start time.Time, err error) {
	c.cfg.Metrics.ObserveSnap(c.cfg.Name, op, metrics.Result(err, gferrors.IsNoMatch(err)), time.Since(start))
}

func (c *Cron) observeOccurrence() {
	c.cfg.Metrics.ObserveOccurrence(c.cfg.Name)
}

func ceilSecond(t time.Time) time.Time {
	whole := t.Truncate(time.Second)
	if whole.Before(t) {
		return whole.Add(time.Second)
	}
	return whole
}

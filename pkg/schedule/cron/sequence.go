package cron

import (
	"context"
	"sync"
	"time"

	gferrors "github.com/vnykmshr/cronik/pkg/common/errors"
)

// Sequence is a lazy ascending sequence of occurrences. Each Next call
// performs one Snap or Step on the schedule.
type Sequence struct {
	schedule Schedule
	emit     func()

	mu      sync.Mutex
	last    time.Time
	started bool // an element has been emitted
	skip    bool // the first element is a Step from last
	limit   int  // remaining elements, negative for unbounded
	done    bool
	closed  bool
}

type occurrenceObserver interface {
	observeOccurrence()
}

// After returns the occurrences of s starting at s.Snap(from). A negative
// limit makes the sequence unbounded.
func After(s Schedule, from time.Time, limit int) *Sequence {
	seq := newSequence(s, limit)
	seq.last = from
	return seq
}

// Resume returns the occurrences of s strictly after last, for picking up a
// sequence where a previous one stopped.
func Resume(s Schedule, last time.Time, limit int) *Sequence {
	seq := newSequence(s, limit)
	seq.last = last
	seq.skip = true
	return seq
}

func newSequence(s Schedule, limit int) *Sequence {
	seq := &Sequence{schedule: s, limit: limit}
	if o, ok := s.(occurrenceObserver); ok {
		seq.emit = o.observeOccurrence
	}
	return seq
}

// Next returns the next occurrence. It returns false when the limit is
// reached or the schedule has no further occurrence.
func (s *Sequence) Next(ctx context.Context) (time.Time, bool, error) {
	select {
	case <-ctx.Done():
		return time.Time{}, false, ctx.Err()
	default:
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return time.Time{}, false, gferrors.ErrClosed
	}
	if s.done || s.limit == 0 {
		s.done = true
		return time.Time{}, false, nil
	}

	var next time.Time
	var err error
	if s.started || s.skip {
		next, err = s.schedule.Step(s.last)
	} else {
		next, err = s.schedule.Snap(s.last)
	}
	if err != nil {
		s.done = true
		if gferrors.IsNoMatch(err) {
			return time.Time{}, false, nil
		}
		return time.Time{}, false, err
	}

	s.last, s.started = next, true
	if s.limit > 0 {
		s.limit--
	}
	if s.emit != nil {
		s.emit()
	}
	return next, true, nil
}

// Close releases the sequence. Later Next calls return ErrClosed.
func (s *Sequence) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// Collect drains the sequence. It does not return for an unbounded sequence
// over a schedule that never ends, unless ctx is cancelled.
func (s *Sequence) Collect(ctx context.Context) ([]time.Time, error) {
	defer func() { _ = s.Close() }()

	var out []time.Time
	for {
		t, ok, err := s.Next(ctx)
		if err != nil {
			return out, err
		}
		if !ok {
			return out, nil
		}
		out = append(out, t)
	}
}

// Last returns the most recently emitted instant, or false before the first.
func (s *Sequence) Last() (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return time.Time{}, false
	}
	return s.last, true
}

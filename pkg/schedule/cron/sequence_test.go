package cron

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/vnykmshr/cronik/internal/testutil"
	gferrors "github.com/vnykmshr/cronik/pkg/common/errors"
)

func TestSequenceLimits(t *testing.T) {
	c := utc(t, "0 0 * * * *")
	from := testutil.Date(2024, time.April, 1, 10, 0, 0)

	tests := []struct {
		name  string
		limit int
		want  int
	}{
		{"zero", 0, 0},
		{"one", 1, 1},
		{"several", 5, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, cancel := testutil.WithTimeout(t)
			defer cancel()

			got, err := c.After(from, tt.limit).Collect(ctx)
			testutil.AssertNoError(t, err)
			testutil.AssertEqual(t, len(got), tt.want)
			for i, occ := range got {
				testutil.AssertTime(t, occ, from.Add(time.Duration(i)*time.Hour))
			}
		})
	}
}

func TestSequenceStartsAtSnap(t *testing.T) {
	ctx, cancel := testutil.WithTimeout(t)
	defer cancel()

	from := testutil.Date(2024, time.April, 1, 9, 0, 0)
	seq := utc(t, "0 0 9 * * *").After(from, 2)

	first, ok, err := seq.Next(ctx)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, ok, true)
	testutil.AssertTime(t, first, from)
}

func TestSequenceUnbounded(t *testing.T) {
	ctx, cancel := testutil.WithTimeout(t)
	defer cancel()

	seq := utc(t, "0 0 0 1 * *").After(testutil.Date(2024, time.January, 1, 0, 0, 0), -1)
	defer seq.Close()

	var prev time.Time
	for i := 0; i < 30; i++ {
		next, ok, err := seq.Next(ctx)
		testutil.AssertNoError(t, err)
		if !ok {
			t.Fatalf("unbounded sequence ended after %d elements", i)
		}
		if i > 0 && !next.After(prev) {
			t.Fatalf("element %d = %v is not after %v", i, next, prev)
		}
		prev = next
	}
	testutil.AssertTime(t, prev, testutil.Date(2026, time.June, 1, 0, 0, 0))
}

func TestSequenceEndsOnNoMatch(t *testing.T) {
	ctx, cancel := testutil.WithTimeout(t)
	defer cancel()

	cfg := Config{Location: time.UTC, YearWindow: 2}
	c, err := NewWithConfig("0 0 0 29 2 *", cfg)
	testutil.AssertNoError(t, err)

	got, err := c.After(testutil.Date(2024, time.January, 1, 0, 0, 0), -1).Collect(ctx)
	testutil.AssertNoError(t, err)
	if diff := cmp.Diff([]time.Time{testutil.Date(2024, time.February, 29, 0, 0, 0)}, got); diff != "" {
		t.Errorf("occurrences mismatch (-want +got):\n%s", diff)
	}
}

func TestSequenceReboot(t *testing.T) {
	ctx, cancel := testutil.WithTimeout(t)
	defer cancel()

	from := testutil.Date(2024, time.April, 1, 10, 0, 0)
	got, err := utc(t, "@reboot").After(from, -1).Collect(ctx)
	testutil.AssertNoError(t, err)
	if diff := cmp.Diff([]time.Time{from}, got); diff != "" {
		t.Errorf("occurrences mismatch (-want +got):\n%s", diff)
	}
}

func TestSequenceClose(t *testing.T) {
	ctx, cancel := testutil.WithTimeout(t)
	defer cancel()

	seq := utc(t, "* * * * * *").After(testutil.Date(2024, time.April, 1, 0, 0, 0), -1)
	_, _, err := seq.Next(ctx)
	testutil.AssertNoError(t, err)

	testutil.AssertNoError(t, seq.Close())
	_, ok, err := seq.Next(ctx)
	testutil.AssertErrorIs(t, err, gferrors.ErrClosed)
	testutil.AssertEqual(t, ok, false)
}

func TestSequenceCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	seq := utc(t, "* * * * * *").After(testutil.Date(2024, time.April, 1, 0, 0, 0), -1)
	_, ok, err := seq.Next(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("error = %v, want context.Canceled", err)
	}
	testutil.AssertEqual(t, ok, false)

	got, err := seq.Collect(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Collect error = %v, want context.Canceled", err)
	}
	testutil.AssertEqual(t, len(got), 0)
}

func TestResume(t *testing.T) {
	ctx, cancel := testutil.WithTimeout(t)
	defer cancel()

	c := utc(t, "0 0 9 * * *")
	last := testutil.Date(2024, time.April, 1, 9, 0, 0)

	seq := Resume(c, last, 2)
	if _, ok := seq.Last(); ok {
		t.Error("Last should report false before the first element")
	}

	got, err := seq.Collect(ctx)
	testutil.AssertNoError(t, err)
	want := []time.Time{
		testutil.Date(2024, time.April, 2, 9, 0, 0),
		testutil.Date(2024, time.April, 3, 9, 0, 0),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("occurrences mismatch (-want +got):\n%s", diff)
	}

	lastSeen, ok := seq.Last()
	testutil.AssertEqual(t, ok, true)
	testutil.AssertTime(t, lastSeen, want[1])
}

func TestSequencePropagatesErrors(t *testing.T) {
	ctx, cancel := testutil.WithTimeout(t)
	defer cancel()

	boom := errors.New("boom")
	seq := After(failingSchedule{err: boom}, time.Now(), -1)

	_, _, err := seq.Next(ctx)
	testutil.AssertErrorIs(t, err, boom)

	// The sequence is finished after an error.
	_, ok, err := seq.Next(ctx)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, ok, false)
}

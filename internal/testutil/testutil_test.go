package testutil

import (
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestWithTimeout(t *testing.T) {
	ctx, cancel := WithTimeout(t)
	defer cancel()

	deadline, ok := ctx.Deadline()
	if !ok {
		t.Fatal("context should have a deadline")
	}
	if remaining := time.Until(deadline); remaining <= 0 || remaining > TestTimeout {
		t.Errorf("remaining = %v, want within (0, %v]", remaining, TestTimeout)
	}
}

func TestAssertNoError(t *testing.T) {
	AssertNoError(t, nil)
}

func TestAssertError(t *testing.T) {
	AssertError(t, errors.New("test error"))
}

func TestAssertErrorIs(t *testing.T) {
	sentinel := errors.New("sentinel")
	AssertErrorIs(t, fmt.Errorf("wrapped: %w", sentinel), sentinel)
}

func TestAssertEqual(t *testing.T) {
	AssertEqual(t, 42, 42)
	AssertEqual(t, "hello", "hello")
}

func TestAssertTime(t *testing.T) {
	utc := Date(2024, time.March, 1, 12, 0, 0)
	local := utc.In(time.FixedZone("UTC+2", 2*60*60))
	AssertTime(t, local, utc)
}

func TestDate(t *testing.T) {
	d := Date(2024, time.February, 29, 23, 59, 58)
	if d.Location() != time.UTC {
		t.Errorf("location = %v, want UTC", d.Location())
	}
	if d.Day() != 29 || d.Second() != 58 {
		t.Errorf("Date = %v", d)
	}
}

func TestMockWriter(t *testing.T) {
	mw := NewMockWriter()
	fmt.Fprintln(mw, "first")
	fmt.Fprintln(mw, "second")

	if got := mw.WriteCount(); got != 2 {
		t.Errorf("WriteCount = %d, want 2", got)
	}
	lines := mw.Lines()
	if len(lines) != 2 || lines[1] != "second" {
		t.Errorf("Lines = %q", lines)
	}

	mw.Reset()
	if mw.String() != "" || mw.WriteCount() != 0 {
		t.Error("Reset should clear the writer")
	}
}

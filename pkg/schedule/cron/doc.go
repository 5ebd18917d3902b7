/*
Package cron binds compiled schedule expressions to the calendar and computes
their occurrences.

A Cron is built from an expression and answers two questions without scanning
time unit by unit: Snap returns the earliest occurrence at or after an
instant, Step the earliest strictly after it.

	c, err := cron.New("0 0 9 * * mon-fri")
	if err != nil {
		return err
	}
	next, err := c.Snap(time.Now())

# Fields

Each alternative of an expression is laid out as six fields
(second minute hour day month dow) or five (minute hour day month dow, with
second fixed at 0). A unit prefix such as "day:" places a column explicitly;
when every column is tagged any subset of fields may be given, and missing
fields allow every value.

Reversed values count back from the end of the field: "~1" in the day field
is the last day of each month. Steps count from the smallest value of their
operand, and a single value runs to the end of the field, so "5/15" in the
minute field is 5, 20, 35 and 50.

The day and dow fields combine as in classic cron. When one of them is the
bare wildcard the other decides alone; otherwise a day matches when either
does.

# Composition

MultiCron merges independently compiled schedules and fires whenever any
member does. Reboot is the schedule of "@reboot": it fires once, at the start
of a sequence.

# Sequences

After returns a lazy ascending Sequence. Each Next call performs one Snap or
Step, so a Sequence may be abandoned at any time:

	seq := c.After(time.Now(), 5)
	for {
		t, ok, err := seq.Next(ctx)
		if err != nil || !ok {
			break
		}
		fmt.Println(t)
	}

Resume continues strictly after a previously emitted instant.

# Interoperability

Cron, MultiCron and Reboot implement robfig/cron's Schedule interface, so they
can be registered with a robfig cron runner through its Schedule method.

# Errors

Compilation errors are returned by New and wrap ErrSyntax, ErrUnitMismatch or
ErrSizeMismatch. Snap and Step return an error wrapping ErrNoMatch when no
occurrence exists within Config.YearWindow years of the input.
*/
package cron

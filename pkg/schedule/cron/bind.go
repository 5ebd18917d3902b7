package cron

import (
	"strings"
	"sync/atomic"
	"time"

	gferrors "github.com/vnykmshr/cronik/pkg/common/errors"
	"github.com/vnykmshr/cronik/pkg/schedule/expr"
	"github.com/vnykmshr/cronik/pkg/schedule/numset"
	"github.com/vnykmshr/cronik/pkg/schedule/vector"
)

var (
	sixFields  = []expr.Field{expr.Second, expr.Minute, expr.Hour, expr.Day, expr.Month, expr.Weekday}
	fiveFields = []expr.Field{expr.Minute, expr.Hour, expr.Day, expr.Month, expr.Weekday}
)

// rule is one bound alternative: the legal values of every field.
type rule struct {
	months, hours, minutes, seconds []int

	// dayAny and dowAny are set for a wildcard or missing field. Day values
	// depend on the month length, so they are kept per length from 28 to 31.
	dayAny, dowAny bool
	dayByLength    [4]numset.Set
	dow            numset.Set

	radix atomic.Pointer[vector.Radix]
}

// bound is the result of binding a compiled tree.
type bound struct {
	rules  []*rule
	reboot bool
}

func bindTree(root expr.Node) (bound, error) {
	var b bound
	for _, row := range expr.Alternatives(root) {
		if len(row) == 1 {
			if s, ok := row[0].(*expr.Special); ok && s.Name == "@reboot" {
				b.reboot = true
				continue
			}
		}
		r, err := bindRow(row)
		if err != nil {
			return bound{}, err
		}
		if r != nil {
			b.rules = append(b.rules, r)
		}
	}
	return b, nil
}

// bindRow assigns a field to every column and evaluates it. A row that can
// never match is dropped and reported as nil.
func bindRow(row []expr.Node) (*rule, error) {
	tags := make([]expr.FieldSet, len(row))
	allTagged := true
	for i, col := range row {
		t, err := columnTags(col)
		if err != nil {
			return nil, err
		}
		tags[i] = t
		allTagged = allTagged && t != 0
	}

	var layout []expr.Field
	switch {
	case allTagged:
	case len(row) == 6:
		layout = sixFields
	case len(row) == 5:
		layout = fiveFields
	default:
		return nil, &gferrors.SizeMismatchError{Where: "field layout", Sizes: []int{len(row)}}
	}

	var cols [6]expr.Node
	var seen expr.FieldSet
	for i, col := range row {
		var f expr.Field
		if tags[i] != 0 {
			f = tags[i].Fields()[0]
		} else {
			f = layout[i]
		}
		if seen.Has(f) {
			return nil, &gferrors.UnitMismatchError{Units: []string{f.String(), f.String()}}
		}
		seen = seen.Add(f)
		cols[f] = col
	}

	r := &rule{
		months:  values(cols[expr.Month], expr.Month),
		hours:   values(cols[expr.Hour], expr.Hour),
		minutes: values(cols[expr.Minute], expr.Minute),
		seconds: values(cols[expr.Second], expr.Second),
		dayAny:  unconstrained(cols[expr.Day]),
		dowAny:  unconstrained(cols[expr.Weekday]),
	}
	if len(layout) == 5 && cols[expr.Second] == nil {
		r.seconds = []int{0}
	}
	if !r.dayAny {
		for i := range r.dayByLength {
			last := 28 + i
			r.dayByLength[i] = eval(cols[expr.Day], 1, last+1)
		}
	}
	if !r.dowAny {
		r.dow = eval(cols[expr.Weekday], 0, 7)
	}

	if len(r.months) == 0 || len(r.hours) == 0 || len(r.minutes) == 0 || len(r.seconds) == 0 {
		return nil, nil
	}
	return r, nil
}

// columnTags returns the field a column is tagged with, if any.
func columnTags(col expr.Node) (expr.FieldSet, error) {
	var tags expr.FieldSet
	var special string
	_, _ = expr.Walk(col, expr.Visitor{Pre: func(n expr.Node) (expr.Node, error) {
		switch n := n.(type) {
		case *expr.Unit:
			tags = tags.Add(n.Field)
		case *expr.Special:
			special = n.Name
		}
		return nil, nil
	}})

	if special != "" {
		return 0, &gferrors.SyntaxError{Reason: special + " must be used on its own"}
	}
	if fields := tags.Fields(); len(fields) > 1 {
		names := make([]string, len(fields))
		for i, f := range fields {
			names[i] = f.String()
		}
		return 0, &gferrors.UnitMismatchError{Units: names}
	}
	return tags, nil
}

// unconstrained reports whether a column is absent or the bare wildcard.
func unconstrained(col expr.Node) bool {
	for {
		u, ok := col.(*expr.Unit)
		if !ok {
			break
		}
		col = u.Child
	}
	if col == nil {
		return true
	}
	c, ok := col.(*expr.Const)
	return ok && c.Set == numset.Full()
}

// values returns the legal values of a field. A missing column allows the
// whole domain.
func values(col expr.Node, f expr.Field) []int {
	lo, hi := f.Bounds()
	if col == nil {
		return numset.Range(lo, hi-1).Values()
	}
	return eval(col, lo, hi).Values()
}

// eval computes the values a column allows in the domain [lo, hiEx).
// Reversed values count back from hiEx.
func eval(col expr.Node, lo, hiEx int) numset.Set {
	return numset.Intersection(raw(col, lo, hiEx), numset.Range(lo, hiEx-1))
}

func raw(n expr.Node, lo, hiEx int) numset.Set {
	switch n := n.(type) {
	case *expr.Const:
		return n.Set
	case *expr.Unit:
		return raw(n.Child, lo, hiEx)
	case *expr.Reverse:
		vals := raw(n.Child, lo, hiEx).Values()
		for i, v := range vals {
			vals[i] = hiEx - v
		}
		return numset.From(vals...)
	case *expr.Invert:
		return numset.Invert(raw(n.Child, lo, hiEx))
	case *expr.Union:
		out := numset.Empty()
		for _, kid := range n.Children {
			out = numset.Union(out, raw(kid, lo, hiEx))
		}
		return out
	case *expr.Intersection:
		out := numset.Full()
		for _, kid := range n.Children {
			out = numset.Intersection(out, raw(kid, lo, hiEx))
		}
		return out
	case *expr.Range:
		first, ok := raw(n.Lo, lo, hiEx).Min()
		if !ok {
			return numset.Empty()
		}
		last, ok := raw(n.Hi, lo, hiEx).Max()
		if !ok {
			return numset.Empty()
		}
		return numset.Range(first, last)
	case *expr.Step:
		return step(raw(n.Child, lo, hiEx), n.Every, lo, hiEx)
	}
	return numset.Empty()
}

// step keeps every nth value of operand, counting from its smallest member
// inside the domain. A single value runs to the end of the domain.
func step(operand numset.Set, every, lo, hiEx int) numset.Set {
	if v, ok := operand.Min(); ok && operand.Len() == 1 {
		operand = numset.Range(v, hiEx-1)
	}
	operand = numset.Intersection(operand, numset.Range(lo, hiEx-1))
	anchor, ok := operand.Min()
	if !ok {
		return numset.Empty()
	}
	var kept []int
	for _, v := range operand.Values() {
		if (v-anchor)%every == 0 {
			kept = append(kept, v)
		}
	}
	return numset.From(kept...)
}

// tail returns the radix below the year position, built on first use.
func (r *rule) tail() vector.Radix {
	if t := r.radix.Load(); t != nil {
		return *t
	}
	t := vector.Radix{
		vector.Fixed(r.months...),
		r.days,
		vector.Fixed(r.hours...),
		vector.Fixed(r.minutes...),
		vector.Fixed(r.seconds...),
	}
	r.radix.Store(&t)
	return t
}

// days lists the legal days of the month in prefix [year, month].
func (r *rule) days(prefix vector.Vector) []int {
	year, month := prefix[0], time.Month(prefix[1])
	last := daysIn(year, month)
	inMonth := numset.Range(1, last)
	if r.dayAny && r.dowAny {
		return inMonth.Values()
	}

	set := numset.Empty()
	if !r.dayAny {
		set = numset.Intersection(r.dayByLength[last-28], inMonth)
	}
	if !r.dowAny {
		first := int(time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).Weekday())
		for d := 1; d <= last; d++ {
			if r.dow.Has((first + d - 1) % 7) {
				set = numset.Union(set, numset.From(d))
			}
		}
	}
	return set.Values()
}

// snap solves v against a radix searching window years from v's year.
func (r *rule) snap(v vector.Vector, window int) (vector.Vector, bool) {
	radix := append(vector.Radix{vector.Span(v[0], window)}, r.tail()...)
	return vector.Snap(v, radix)
}

func (r *rule) String() string {
	field := func(name string, vals []int) string {
		return name + "=" + numset.From(vals...).String()
	}
	parts := []string{
		field("second", r.seconds),
		field("minute", r.minutes),
		field("hour", r.hours),
	}
	if r.dayAny {
		parts = append(parts, "day=*")
	} else {
		parts = append(parts, "day="+r.dayByLength[3].String())
	}
	parts = append(parts, field("month", r.months))
	if r.dowAny {
		parts = append(parts, "dow=*")
	} else {
		parts = append(parts, "dow="+r.dow.String())
	}
	return strings.Join(parts, " ")
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func toVector(t time.Time) vector.Vector {
	return vector.Vector{t.Year(), int(t.Month()), t.Day(), t.Hour(), t.Minute(), t.Second()}
}

func fromVector(v vector.Vector, loc *time.Location) time.Time {
	return time.Date(v[0], time.Month(v[1]), v[2], v[3], v[4], v[5], 0, loc)
}

// Package vector finds the smallest legal vector at or above a target.
//
// A Vector is a point decomposed into positions, most significant first.
// A Radix supplies, for every position, the ascending legal values given the
// values already chosen for the coarser positions. SnapNext works like an
// odometer whose digits may have different bases depending on the digits to
// their left: a day digit can have 28 to 31 values depending on the month
// and year digits.
package vector

import (
	"errors"
	"slices"
)

// ErrRadixTooSmall is returned when a radix has fewer positions than the vector.
var ErrRadixTooSmall = errors.New("radix too small")

// Vector is an ordered list of values, most significant first.
type Vector []int

// Source returns the ascending legal values for one position given the prefix
// of values already chosen for the more significant positions.
type Source func(prefix Vector) []int

// Radix holds one Source per position.
type Radix []Source

// CarryOut is the result of a solver step. Prefix holds the resolved values,
// Vector the unresolved remainder of the input. Carry reports that the
// positions could not be satisfied and a more significant position has to
// advance.
type CarryOut struct {
	Prefix Vector
	Vector Vector
	Carry  bool
}

// Fixed returns a Source that ignores the prefix.
func Fixed(values ...int) Source {
	return func(Vector) []int { return values }
}

// Span returns a Source offering n values starting at lo.
func Span(lo, n int) Source {
	values := make([]int, n)
	for i := range values {
		values[i] = lo + i
	}
	return Fixed(values...)
}

// SnapNext resolves vector against radix, continuing from prefix.
func SnapNext(vector Vector, radix Radix, prefix Vector) (CarryOut, error) {
	if len(radix) < len(vector) {
		return CarryOut{}, ErrRadixTooSmall
	}
	return snap(vector, radix, prefix, false), nil
}

// Snap returns the smallest legal vector not less than vector, or false when
// the radix admits none.
func Snap(vector Vector, radix Radix) (Vector, bool) {
	out, err := SnapNext(vector, radix, nil)
	if err != nil || out.Carry {
		return nil, false
	}
	return out.Prefix, true
}

// snap does the work of SnapNext. With floor set every position takes its
// smallest legal value: the target has already been exceeded further up.
func snap(vector Vector, radix Radix, prefix Vector, floor bool) CarryOut {
	if len(vector) == 0 {
		return CarryOut{Prefix: prefix, Vector: vector}
	}

	head, tail := vector[0], vector[1:]
	point := radix[0](prefix)

	idx := 0
	if !floor {
		idx = slices.IndexFunc(point, func(n int) bool { return n >= head })
		if idx < 0 {
			return CarryOut{Prefix: prefix, Vector: vector, Carry: true}
		}
	}

	for ; idx < len(point); idx++ {
		next := append(slices.Clip(prefix), point[idx])
		exact := !floor && point[idx] == head
		if out := snap(tail, radix[1:], next, !exact); !out.Carry {
			return out
		}
		// Only the first candidate can equal the target, every later one rounds up.
	}

	return CarryOut{Prefix: prefix, Vector: vector, Carry: true}
}

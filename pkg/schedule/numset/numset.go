// Package numset implements the finite integer sets used as field domains.
//
// Every field a schedule can constrain has its values inside 0..59, so a Set
// is a single 64-bit word: bit n is set when n is a member. Sets are values;
// every operation returns a new Set and none can fail.
package numset

import (
	"fmt"
	"math/bits"
	"strings"
)

// Lower and Upper bound the global domain, the union of all field bounds.
const (
	Lower = 0
	Upper = 59
)

// Set is an immutable set of integers in [Lower, Upper].
type Set uint64

const full = Set(1<<(Upper+1) - 1)

// Empty returns the empty set.
func Empty() Set { return 0 }

// Full returns every value of the global domain.
func Full() Set { return full }

// From builds a set from values. Values outside the global domain are dropped.
func From(values ...int) Set {
	var s Set
	for _, v := range values {
		if v >= Lower && v <= Upper {
			s |= 1 << uint(v)
		}
	}
	return s
}

// Range returns the inclusive range [lo, hi] clipped to the global domain.
func Range(lo, hi int) Set {
	if lo < Lower {
		lo = Lower
	}
	if hi > Upper {
		hi = Upper
	}
	if lo > hi {
		return 0
	}
	width := uint(hi - lo + 1)
	return Set((uint64(1)<<width - 1) << uint(lo))
}

// Union returns the members of a or b.
func Union(a, b Set) Set { return a | b }

// Intersection returns the members of both a and b.
func Intersection(a, b Set) Set { return a & b }

// Invert returns the complement of a within the global domain.
func Invert(a Set) Set { return ^a & full }

// FillUp extends a to every value from its minimum to the top of the domain.
func FillUp(a Set) Set {
	lo, ok := a.Min()
	if !ok {
		return 0
	}
	return Range(lo, Upper)
}

// FillDown extends a to every value from the bottom of the domain to its maximum.
func FillDown(a Set) Set {
	hi, ok := a.Max()
	if !ok {
		return 0
	}
	return Range(Lower, hi)
}

// Has reports whether v is a member.
func (s Set) Has(v int) bool {
	return v >= Lower && v <= Upper && s&(1<<uint(v)) != 0
}

// Len returns the number of members.
func (s Set) Len() int { return bits.OnesCount64(uint64(s)) }

// IsEmpty reports whether s has no members.
func (s Set) IsEmpty() bool { return s == 0 }

// Min returns the smallest member, or false if s is empty.
func (s Set) Min() (int, bool) {
	if s == 0 {
		return 0, false
	}
	return bits.TrailingZeros64(uint64(s)), true
}

// Max returns the largest member, or false if s is empty.
func (s Set) Max() (int, bool) {
	if s == 0 {
		return 0, false
	}
	return 63 - bits.LeadingZeros64(uint64(s)), true
}

// Values returns the members in ascending order.
func (s Set) Values() []int {
	out := make([]int, 0, s.Len())
	for w := uint64(s); w != 0; w &= w - 1 {
		out = append(out, bits.TrailingZeros64(w))
	}
	return out
}

// Ranges groups the members into maximal runs of consecutive values.
func (s Set) Ranges() [][2]int {
	var ranges [][2]int
	for _, v := range s.Values() {
		if n := len(ranges); n > 0 && ranges[n-1][1] == v-1 {
			ranges[n-1][1] = v
			continue
		}
		ranges = append(ranges, [2]int{v, v})
	}
	return ranges
}

// String renders the set as its runs, e.g. "[0-3, 7, 9-10]".
func (s Set) String() string {
	parts := make([]string, 0, 4)
	for _, r := range s.Ranges() {
		if r[0] == r[1] {
			parts = append(parts, fmt.Sprint(r[0]))
		} else {
			parts = append(parts, fmt.Sprintf("%d-%d", r[0], r[1]))
		}
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

package expr

import (
	"fmt"
	"strings"

	"github.com/vnykmshr/cronik/pkg/schedule/numset"
)

// Node is a node of a schedule expression tree. The set of implementations
// is closed: *Const, *Special, *Unit, *Reverse, *Invert, *Range, *Step,
// *Rule, *Union and *Intersection.
//
// Nodes are not modified once built. Passes return new nodes and share
// subtrees they leave untouched.
type Node interface {
	// Span is the range of vector positions the node covers. It is only set
	// on trees returned by AssignPositions.
	Span() Span
	String() string
	node()
}

// Span is a run of Width positions starting at Pos. The zero Span means unassigned.
type Span struct {
	Pos   int
	Width int
}

type base struct{ span Span }

func (b base) Span() Span { return b.span }
func (base) node()        {}

// Const is a concrete set of values.
type Const struct {
	base
	Set numset.Set
}

// Special is an @-alias such as @daily.
type Special struct {
	base
	Name string
}

// Unit tags Child as constraining Field.
type Unit struct {
	base
	Field Field
	Child Node
}

// Reverse counts Child's values back from the end of the field's domain.
type Reverse struct {
	base
	Child Node
}

// Invert is the complement of Child.
type Invert struct {
	base
	Child Node
}

// Range is the closed interval from Lo to Hi.
type Range struct {
	base
	Lo, Hi Node
}

// Step keeps every Every'th value of Child.
type Step struct {
	base
	Child Node
	Every int
}

// Rule is one schedule alternative, one child per field.
type Rule struct {
	base
	Children []Node
}

// Union matches when any child does.
type Union struct {
	base
	Children []Node
}

// Intersection matches when every child does.
type Intersection struct {
	base
	Children []Node
}

// Children returns the direct children of n.
func Children(n Node) []Node {
	switch n := n.(type) {
	case *Const, *Special:
		return nil
	case *Unit:
		return []Node{n.Child}
	case *Reverse:
		return []Node{n.Child}
	case *Invert:
		return []Node{n.Child}
	case *Range:
		return []Node{n.Lo, n.Hi}
	case *Step:
		return []Node{n.Child}
	case *Rule:
		return n.Children
	case *Union:
		return n.Children
	case *Intersection:
		return n.Children
	}
	panic(fmt.Sprintf("expr: unknown node %T", n))
}

// withChildren returns a copy of n with its children replaced. The span is kept.
func withChildren(n Node, children []Node) Node {
	switch n := n.(type) {
	case *Const, *Special:
		return n
	case *Unit:
		return &Unit{base: n.base, Field: n.Field, Child: children[0]}
	case *Reverse:
		return &Reverse{base: n.base, Child: children[0]}
	case *Invert:
		return &Invert{base: n.base, Child: children[0]}
	case *Range:
		return &Range{base: n.base, Lo: children[0], Hi: children[1]}
	case *Step:
		return &Step{base: n.base, Child: children[0], Every: n.Every}
	case *Rule:
		return &Rule{base: n.base, Children: children}
	case *Union:
		return &Union{base: n.base, Children: children}
	case *Intersection:
		return &Intersection{base: n.base, Children: children}
	}
	panic(fmt.Sprintf("expr: unknown node %T", n))
}

// withSpan returns a copy of n covering s.
func withSpan(n Node, s Span) Node {
	switch n := n.(type) {
	case *Const:
		c := *n
		c.span = s
		return &c
	case *Special:
		c := *n
		c.span = s
		return &c
	case *Unit:
		c := *n
		c.span = s
		return &c
	case *Reverse:
		c := *n
		c.span = s
		return &c
	case *Invert:
		c := *n
		c.span = s
		return &c
	case *Range:
		c := *n
		c.span = s
		return &c
	case *Step:
		c := *n
		c.span = s
		return &c
	case *Rule:
		c := *n
		c.span = s
		return &c
	case *Union:
		c := *n
		c.span = s
		return &c
	case *Intersection:
		c := *n
		c.span = s
		return &c
	}
	panic(fmt.Sprintf("expr: unknown node %T", n))
}

// Renderings use the input language, so String output parses back to an
// equivalent tree.

func (n *Const) String() string {
	switch {
	case n.Set == numset.Full():
		return "*"
	case n.Set.IsEmpty():
		return "!*"
	}
	parts := make([]string, 0, 4)
	for _, r := range n.Set.Ranges() {
		if r[0] == r[1] {
			parts = append(parts, fmt.Sprint(r[0]))
		} else {
			parts = append(parts, fmt.Sprintf("%d-%d", r[0], r[1]))
		}
	}
	return strings.Join(parts, ",")
}

func (n *Special) String() string { return n.Name }

func (n *Unit) String() string { return n.Field.String() + ":" + group(n.Child) }

func (n *Reverse) String() string { return "~" + group(n.Child) }

func (n *Invert) String() string { return "!" + group(n.Child) }

func (n *Range) String() string { return group(n.Lo) + "-" + group(n.Hi) }

func (n *Step) String() string { return fmt.Sprintf("%s/%d", group(n.Child), n.Every) }

func (n *Rule) String() string { return join(n.Children, " ") }

func (n *Union) String() string { return join(n.Children, " | ") }

func (n *Intersection) String() string { return join(n.Children, " & ") }

// group parenthesizes anything that does not parse as a single atom.
func group(n Node) string {
	if atomic(n) {
		return n.String()
	}
	return "(" + n.String() + ")"
}

func atomic(n Node) bool {
	switch n := n.(type) {
	case *Const:
		return n.Set.Len() == 1 || n.Set == numset.Full()
	case *Special:
		return true
	case *Unit:
		return atomic(n.Child)
	}
	return false
}

func join(nodes []Node, sep string) string {
	parts := make([]string, len(nodes))
	for i, n := range nodes {
		parts[i] = group(n)
	}
	return strings.Join(parts, sep)
}

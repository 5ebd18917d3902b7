package expr

import (
	"fmt"

	gferrors "github.com/vnykmshr/cronik/pkg/common/errors"
	"github.com/vnykmshr/cronik/pkg/schedule/numset"
)

func value(n int) Node { return &Const{Set: numset.From(n)} }
func wild() Node       { return &Const{Set: numset.Full()} }

func yearly() Node {
	return &Rule{Children: []Node{value(0), value(0), value(0), value(1), value(1), wild()}}
}

func daily() Node {
	return &Rule{Children: []Node{value(0), value(0), value(0), wild(), wild(), wild()}}
}

// aliases expands @-specials into six-field rules. @reboot has no expansion.
var aliases = map[string]func() Node{
	"@yearly":   yearly,
	"@annually": yearly,
	"@monthly":  func() Node { return &Rule{Children: []Node{value(0), value(0), value(0), value(1), wild(), wild()}} },
	"@weekly":   func() Node { return &Rule{Children: []Node{value(0), value(0), value(0), wild(), wild(), &Unit{Field: Weekday, Child: value(0)}}} },
	"@daily":    daily,
	"@midnight": daily,
	"@hourly":   func() Node { return &Rule{Children: []Node{value(0), value(0), wild(), wild(), wild(), wild()}} },
}

// LowerSpecials replaces @-aliases with the rules they stand for.
var LowerSpecials = Rewrite(Visitor{
	Post: func(n Node) (Node, error) {
		if s, ok := n.(*Special); ok {
			if expand, ok := aliases[s.Name]; ok {
				return expand(), nil
			}
		}
		return nil, nil
	},
})

// LowerReverse pushes Reverse through composite nodes until it only wraps
// leaves. A reversed group is a group of reversed members.
var LowerReverse = Rewrite(Visitor{
	Pre: func(n Node) (Node, error) {
		r, ok := n.(*Reverse)
		if !ok {
			return nil, nil
		}
		return pushReverse(r)
	},
})

func pushReverse(r *Reverse) (Node, error) {
	rev := func(n Node) Node { return &Reverse{Child: n} }
	switch c := r.Child.(type) {
	case *Const, *Special:
		return nil, nil
	case *Reverse:
		inner, ok := c.Child.(*Reverse)
		if !ok {
			return c.Child, nil
		}
		out, err := pushReverse(inner)
		if out == nil && err == nil {
			out = inner
		}
		return out, err
	case *Unit:
		return &Unit{Field: c.Field, Child: rev(c.Child)}, nil
	case *Invert:
		return &Invert{Child: rev(c.Child)}, nil
	case *Range:
		return &Range{Lo: rev(c.Lo), Hi: rev(c.Hi)}, nil
	case *Step:
		return &Step{Child: rev(c.Child), Every: c.Every}, nil
	case *Rule:
		return &Rule{Children: mapNodes(c.Children, rev)}, nil
	case *Union:
		return &Union{Children: mapNodes(c.Children, rev)}, nil
	case *Intersection:
		return &Intersection{Children: mapNodes(c.Children, rev)}, nil
	}
	return nil, fmt.Errorf("expr: unknown node %T", r.Child)
}

// RaiseRules transposes an Intersection, Reverse or Invert over rules of
// equal width into a single rule of column-wise operators.
var RaiseRules = Rewrite(Visitor{
	Post: func(n Node) (Node, error) {
		var where string
		switch n.(type) {
		case *Intersection:
			where = "intersection"
		case *Reverse:
			where = "reverse"
		case *Invert:
			where = "invert"
		default:
			return nil, nil
		}

		kids := Children(n)
		rows := make([][]Node, len(kids))
		sizes := make([]int, len(kids))
		for i, kid := range kids {
			r, ok := kid.(*Rule)
			if !ok {
				return nil, nil
			}
			rows[i] = flattenRule(r)
			sizes[i] = len(rows[i])
		}
		for _, size := range sizes {
			if size != sizes[0] {
				return nil, &gferrors.SizeMismatchError{Where: where, Sizes: sizes}
			}
		}

		columns := make([]Node, sizes[0])
		for col := range columns {
			cells := make([]Node, len(rows))
			for i, row := range rows {
				cells[i] = row[col]
			}
			columns[col] = withChildren(n, cells)
		}
		return &Rule{Children: columns}, nil
	},
})

// RaiseUnits hoists a field tag shared by an operator's children above the
// operator. Rules are left alone: their children are different fields.
var RaiseUnits = Rewrite(Visitor{
	Post: func(n Node) (Node, error) {
		switch n.(type) {
		case *Const, *Special, *Unit, *Rule:
			return nil, nil
		}

		kids := Children(n)
		var fields FieldSet
		for _, kid := range kids {
			if u, ok := kid.(*Unit); ok {
				fields = fields.Add(u.Field)
			}
		}
		found := fields.Fields()
		switch len(found) {
		case 0:
			return nil, nil
		case 1:
		default:
			names := make([]string, len(found))
			for i, f := range found {
				names[i] = f.String()
			}
			return nil, &gferrors.UnitMismatchError{Units: names}
		}

		stripped := mapNodes(kids, func(kid Node) Node {
			if u, ok := kid.(*Unit); ok {
				return u.Child
			}
			return kid
		})
		return &Unit{Field: found[0], Child: withChildren(n, stripped)}, nil
	},
})

// Flatten merges nested rules, unions and intersections into their parent.
var Flatten = Rewrite(Visitor{
	Post: func(n Node) (Node, error) {
		switch n := n.(type) {
		case *Rule:
			return &Rule{Children: flattenRule(n)}, nil
		case *Union:
			return &Union{Children: absorb(n.Children, func(k Node) ([]Node, bool) {
				u, ok := k.(*Union)
				if !ok {
					return nil, false
				}
				return u.Children, true
			})}, nil
		case *Intersection:
			return &Intersection{Children: absorb(n.Children, func(k Node) ([]Node, bool) {
				x, ok := k.(*Intersection)
				if !ok {
					return nil, false
				}
				return x.Children, true
			})}, nil
		}
		return nil, nil
	},
})

// FoldConstants evaluates operators over concrete sets.
var FoldConstants = Rewrite(Visitor{
	Post: func(n Node) (Node, error) {
		switch n := n.(type) {
		case *Union:
			return foldSetOp(n.Children, numset.Union, numset.Empty(), func(k []Node) Node {
				return &Union{Children: k}
			}), nil
		case *Intersection:
			return foldSetOp(n.Children, numset.Intersection, numset.Full(), func(k []Node) Node {
				return &Intersection{Children: k}
			}), nil
		case *Invert:
			if c, ok := n.Child.(*Const); ok {
				return &Const{Set: numset.Invert(c.Set)}, nil
			}
		case *Reverse:
			if r, ok := n.Child.(*Reverse); ok {
				return r.Child, nil
			}
		case *Range:
			return foldRange(n), nil
		}
		return nil, nil
	},
})

// foldRange folds a range between constants. A range whose ends count from
// different ends of the domain becomes the intersection of the two
// half-open ranges, each kept in its own polarity.
func foldRange(n *Range) Node {
	lo, loRev := constOf(n.Lo)
	hi, hiRev := constOf(n.Hi)
	if lo == nil || hi == nil {
		return nil
	}

	rev := func(s numset.Set) Node { return &Reverse{Child: &Const{Set: s}} }
	switch {
	case loRev && hiRev:
		return rev(between(lo.Set, hi.Set))
	case loRev:
		return &Intersection{Children: []Node{rev(numset.FillDown(lo.Set)), &Const{Set: numset.FillDown(hi.Set)}}}
	case hiRev:
		return &Intersection{Children: []Node{&Const{Set: numset.FillUp(lo.Set)}, rev(numset.FillUp(hi.Set))}}
	}
	return &Const{Set: between(lo.Set, hi.Set)}
}

func between(lo, hi numset.Set) numset.Set {
	first, ok := lo.Min()
	if !ok {
		return numset.Empty()
	}
	last, ok := hi.Max()
	if !ok {
		return numset.Empty()
	}
	return numset.Range(first, last)
}

// constOf unwraps a Const or a reversed Const.
func constOf(n Node) (c *Const, reversed bool) {
	if r, ok := n.(*Reverse); ok {
		c, _ = r.Child.(*Const)
		return c, true
	}
	c, _ = n.(*Const)
	return c, false
}

// foldSetOp combines the forward constants and the reversed constants among
// kids separately. Each combined constant takes the place of the first one it
// absorbed; the other children are kept in order.
func foldSetOp(kids []Node, op func(a, b numset.Set) numset.Set, identity numset.Set, build func([]Node) Node) Node {
	var nForward, nReversed int
	for _, kid := range kids {
		if c, isRev := constOf(kid); c != nil && isRev {
			nReversed++
		} else if c != nil {
			nForward++
		}
	}
	if nForward < 2 && nReversed < 2 {
		return nil
	}

	forward, reversed := identity, identity
	slot := map[bool]int{}
	rest := make([]Node, 0, len(kids))
	for _, kid := range kids {
		c, isRev := constOf(kid)
		if c == nil {
			rest = append(rest, kid)
			continue
		}
		if isRev {
			reversed = op(reversed, c.Set)
		} else {
			forward = op(forward, c.Set)
		}
		if _, seen := slot[isRev]; !seen {
			slot[isRev] = len(rest)
			rest = append(rest, nil)
		}
	}
	if i, ok := slot[true]; ok {
		rest[i] = &Reverse{Child: &Const{Set: reversed}}
	}
	if i, ok := slot[false]; ok {
		rest[i] = &Const{Set: forward}
	}
	if len(rest) == 1 {
		return rest[0]
	}
	return build(rest)
}

// AssignPositions stamps every node with the positions it covers. Rule
// children take consecutive positions; the children of any other node share
// their parent's positions and must agree on width.
func AssignPositions(n Node) (Node, error) {
	out, _, err := assign(n, 0)
	return out, err
}

func assign(n Node, pos int) (Node, int, error) {
	switch n.(type) {
	case *Const, *Special:
		return withSpan(n, Span{Pos: pos, Width: 1}), 1, nil
	case *Rule:
		kids := Children(n)
		next := make([]Node, len(kids))
		width := 0
		for i, kid := range kids {
			k, w, err := assign(kid, pos+width)
			if err != nil {
				return nil, 0, err
			}
			next[i] = k
			width += w
		}
		return withSpan(withChildren(n, next), Span{Pos: pos, Width: width}), width, nil
	}

	kids := Children(n)
	next := make([]Node, len(kids))
	sizes := make([]int, len(kids))
	for i, kid := range kids {
		k, w, err := assign(kid, pos)
		if err != nil {
			return nil, 0, err
		}
		next[i], sizes[i] = k, w
	}
	for _, size := range sizes {
		if size != sizes[0] {
			return nil, 0, &gferrors.SizeMismatchError{Where: "mixed size " + kindOf(n), Sizes: sizes}
		}
	}
	return withSpan(withChildren(n, next), Span{Pos: pos, Width: sizes[0]}), sizes[0], nil
}

// BuildUnitMap collects the fields declared at every position of a
// positioned tree of the given width.
func BuildUnitMap(n Node, width int) UnitMap {
	units := make(UnitMap, width)
	_, _ = Walk(n, Visitor{Pre: func(n Node) (Node, error) {
		if u, ok := n.(*Unit); ok {
			s := u.Span()
			for p := s.Pos; p < s.Pos+s.Width && p < width; p++ {
				units[p] = units[p].Add(u.Field)
			}
		}
		return nil, nil
	}})
	return units
}

func kindOf(n Node) string {
	switch n.(type) {
	case *Union:
		return "union"
	case *Intersection:
		return "intersection"
	case *Range:
		return "range"
	case *Step:
		return "step"
	case *Reverse:
		return "reverse"
	case *Invert:
		return "invert"
	case *Unit:
		return "unit"
	}
	return "rule"
}

func flattenRule(r *Rule) []Node {
	return absorb(r.Children, func(k Node) ([]Node, bool) {
		nested, ok := k.(*Rule)
		if !ok {
			return nil, false
		}
		return flattenRule(nested), true
	})
}

func absorb(kids []Node, inner func(Node) ([]Node, bool)) []Node {
	out := make([]Node, 0, len(kids))
	for _, kid := range kids {
		if nested, ok := inner(kid); ok {
			out = append(out, nested...)
		} else {
			out = append(out, kid)
		}
	}
	return out
}

func mapNodes(nodes []Node, fn func(Node) Node) []Node {
	out := make([]Node, len(nodes))
	for i, n := range nodes {
		out[i] = fn(n)
	}
	return out
}

package expr

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	gferrors "github.com/vnykmshr/cronik/pkg/common/errors"
	"github.com/vnykmshr/cronik/pkg/schedule/numset"
)

func rev(n Node) *Reverse { return &Reverse{Child: n} }

func dow(n Node) *Unit { return &Unit{Field: Weekday, Child: n} }

// runPass parses spec and applies the given passes in order.
func runPass(t *testing.T, spec string, passes ...Pass) (Node, error) {
	t.Helper()
	n, err := Parse(spec)
	if err != nil {
		t.Fatalf("Parse(%q) error: %v", spec, err)
	}
	for _, pass := range passes {
		if n, err = pass(n); err != nil {
			return nil, err
		}
	}
	return n, nil
}

func TestPasses(t *testing.T) {
	tests := []struct {
		name   string
		spec   string
		passes []Pass
		want   Node
	}{
		{
			name:   "weekly alias",
			spec:   "@weekly",
			passes: []Pass{LowerSpecials},
			want:   &Rule{Children: []Node{c(0), c(0), c(0), star(), star(), dow(c(0))}},
		},
		{
			name:   "reboot has no expansion",
			spec:   "@reboot",
			passes: []Pass{LowerSpecials},
			want:   &Special{Name: "@reboot"},
		},
		{
			name:   "reverse distributes over union",
			spec:   "~(1,2)",
			passes: []Pass{LowerReverse},
			want:   &Union{Children: []Node{rev(c(1)), rev(c(2))}},
		},
		{
			name:   "double reverse cancels",
			spec:   "~~(1,2)",
			passes: []Pass{LowerReverse},
			want:   &Union{Children: []Node{c(1), c(2)}},
		},
		{
			name:   "triple reverse is one reverse",
			spec:   "~~~(1,2)",
			passes: []Pass{LowerReverse},
			want:   &Union{Children: []Node{rev(c(1)), rev(c(2))}},
		},
		{
			name:   "reverse moves inside unit and range",
			spec:   "~day:(1-5)",
			passes: []Pass{LowerReverse},
			want:   &Unit{Field: Day, Child: &Range{Lo: rev(c(1)), Hi: rev(c(5))}},
		},
		{
			name:   "reverse splits a rule",
			spec:   "~(1 2)",
			passes: []Pass{LowerReverse},
			want:   &Rule{Children: []Node{rev(c(1)), rev(c(2))}},
		},
		{
			name:   "intersection of rules becomes a rule",
			spec:   "(1 2) & (3 4)",
			passes: []Pass{RaiseRules},
			want: &Rule{Children: []Node{
				&Intersection{Children: []Node{c(1), c(3)}},
				&Intersection{Children: []Node{c(2), c(4)}},
			}},
		},
		{
			name:   "invert of a rule",
			spec:   "!(1 2)",
			passes: []Pass{RaiseRules},
			want:   &Rule{Children: []Node{&Invert{Child: c(1)}, &Invert{Child: c(2)}}},
		},
		{
			name:   "union of rules is kept",
			spec:   "(1 2) | (3 4)",
			passes: []Pass{RaiseRules},
			want: &Union{Children: []Node{
				&Rule{Children: []Node{c(1), c(2)}},
				&Rule{Children: []Node{c(3), c(4)}},
			}},
		},
		{
			name:   "shared unit is hoisted",
			spec:   "mon,tue",
			passes: []Pass{RaiseUnits},
			want:   dow(&Union{Children: []Node{c(1), c(2)}}),
		},
		{
			name:   "unit hoisted over untagged sibling",
			spec:   "3 & mon",
			passes: []Pass{RaiseUnits},
			want:   dow(&Intersection{Children: []Node{c(3), c(1)}}),
		},
		{
			name:   "nested rules flatten",
			spec:   "(1 2) 3",
			passes: []Pass{Flatten},
			want:   &Rule{Children: []Node{c(1), c(2), c(3)}},
		},
		{
			name:   "nested unions flatten",
			spec:   "(1|2)|3",
			passes: []Pass{Flatten},
			want:   &Union{Children: []Node{c(1), c(2), c(3)}},
		},
		{
			name:   "list and range fold",
			spec:   "1,2,5-7",
			passes: []Pass{FoldConstants},
			want:   c(1, 2, 5, 6, 7),
		},
		{
			name:   "invert folds",
			spec:   "!(1-58)",
			passes: []Pass{FoldConstants},
			want:   c(0, 59),
		},
		{
			name:   "intersection with wildcard",
			spec:   "1 & *",
			passes: []Pass{FoldConstants},
			want:   c(1),
		},
		{
			name:   "double reverse folds",
			spec:   "~~3",
			passes: []Pass{FoldConstants},
			want:   c(3),
		},
		{
			name:   "reversed range folds in its polarity",
			spec:   "(~1)-(~5)",
			passes: []Pass{FoldConstants},
			want:   rev(span(1, 5)),
		},
		{
			name:   "mixed polarity range",
			spec:   "5-(~1)",
			passes: []Pass{FoldConstants},
			want:   &Intersection{Children: []Node{span(5, 59), rev(span(1, 59))}},
		},
		{
			name:   "mixed polarity union keeps both sides",
			spec:   "1,(~1),2,(~2)",
			passes: []Pass{FoldConstants},
			want:   &Union{Children: []Node{c(1, 2), rev(c(1, 2))}},
		},
		{
			name:   "single constants of each polarity are left alone",
			spec:   "1,(~1)",
			passes: []Pass{FoldConstants},
			want:   &Union{Children: []Node{c(1), rev(c(1))}},
		},
		{
			name:   "step is not folded",
			spec:   "*/15",
			passes: []Pass{FoldConstants},
			want:   &Step{Child: star(), Every: 15},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := runPass(t, tt.spec, tt.passes...)
			if err != nil {
				t.Fatalf("%q: unexpected error: %v", tt.spec, err)
			}
			if diff := cmp.Diff(tt.want, got, nodeOpts); diff != "" {
				t.Errorf("%q mismatch (-want +got):\n%s", tt.spec, diff)
			}
		})
	}
}

func TestPassErrors(t *testing.T) {
	tests := []struct {
		name   string
		spec   string
		passes []Pass
		want   error
	}{
		{"intersection of unequal rules", "(1 2) & (3 4 5)", []Pass{RaiseRules}, gferrors.ErrSizeMismatch},
		{"invert of nested unequal rules", "!((1 2) & (3 4 5))", []Pass{RaiseRules}, gferrors.ErrSizeMismatch},
		{"weekday and month", "mon | jan", []Pass{RaiseUnits}, gferrors.ErrUnitMismatch},
		{"conflicting explicit units", "day:1 & hour:1", []Pass{RaiseUnits}, gferrors.ErrUnitMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runPass(t, tt.spec, tt.passes...)
			if !errors.Is(err, tt.want) {
				t.Errorf("%q error = %v, want %v", tt.spec, err, tt.want)
			}
		})
	}
}

func TestSizeMismatchNamesTheOperator(t *testing.T) {
	_, err := runPass(t, "(1 2) & (3 4 5)", RaiseRules)
	var se *gferrors.SizeMismatchError
	if !errors.As(err, &se) {
		t.Fatalf("error %v is not a *SizeMismatchError", err)
	}
	if se.Where != "intersection" {
		t.Errorf("Where = %q, want intersection", se.Where)
	}
	if diff := cmp.Diff([]int{2, 3}, se.Sizes); diff != "" {
		t.Errorf("Sizes mismatch (-want +got):\n%s", diff)
	}
}

func TestAssignPositions(t *testing.T) {
	n, err := runPass(t, "1 (2 | 3) 4", Flatten)
	if err != nil {
		t.Fatal(err)
	}
	root, err := AssignPositions(n)
	if err != nil {
		t.Fatal(err)
	}

	if got, want := root.Span(), (Span{Pos: 0, Width: 3}); got != want {
		t.Errorf("root span = %+v, want %+v", got, want)
	}
	kids := Children(root)
	for i, want := range []Span{{0, 1}, {1, 1}, {2, 1}} {
		if got := kids[i].Span(); got != want {
			t.Errorf("child %d span = %+v, want %+v", i, got, want)
		}
	}
	for _, alt := range Children(kids[1]) {
		if got, want := alt.Span(), (Span{Pos: 1, Width: 1}); got != want {
			t.Errorf("union member span = %+v, want %+v", got, want)
		}
	}

	if n.Span() != (Span{}) {
		t.Error("AssignPositions modified its input")
	}
}

func TestAssignPositionsMixedSize(t *testing.T) {
	n, err := Parse("(1 2) | 3")
	if err != nil {
		t.Fatal(err)
	}
	_, err = AssignPositions(n)
	var se *gferrors.SizeMismatchError
	if !errors.As(err, &se) {
		t.Fatalf("error %v is not a *SizeMismatchError", err)
	}
	if se.Where != "mixed size union" {
		t.Errorf("Where = %q, want %q", se.Where, "mixed size union")
	}
}

func TestBuildUnitMap(t *testing.T) {
	n, err := runPass(t, "0 (day:1 | mon) jan")
	if err != nil {
		t.Fatal(err)
	}
	root, err := AssignPositions(n)
	if err != nil {
		t.Fatal(err)
	}

	got := BuildUnitMap(root, 3)
	want := UnitMap{0, FieldSet(0).Add(Day).Add(Weekday), FieldSet(0).Add(Month)}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("BuildUnitMap mismatch (-want +got):\n%s", diff)
	}
}

func TestWalkKeepsUnchangedSubtrees(t *testing.T) {
	n, err := Parse("1 (2 | 3)")
	if err != nil {
		t.Fatal(err)
	}
	out, err := Walk(n, Visitor{})
	if err != nil {
		t.Fatal(err)
	}
	if out != n {
		t.Error("Walk with no callbacks rebuilt the tree")
	}
}

func TestFoldedSetsStayInDomain(t *testing.T) {
	got, err := runPass(t, "!*", FoldConstants)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(&Const{Set: numset.Empty()}, got, nodeOpts); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

package expr

// Alternatives expands a positioned tree into rows, one per schedule
// alternative. Every row holds one single-position column expression per
// position of n.
//
// A wide Union contributes each branch as its own alternatives and a Rule
// concatenates the rows of its children. Any other wide operator is applied
// column by column to every combination of its children's rows.
func Alternatives(n Node) [][]Node {
	if n.Span().Width <= 1 {
		return [][]Node{{n}}
	}

	switch n := n.(type) {
	case *Union:
		var rows [][]Node
		for _, kid := range n.Children {
			rows = append(rows, Alternatives(kid)...)
		}
		return rows
	case *Rule:
		rows := [][]Node{nil}
		for _, kid := range n.Children {
			rows = product(rows, Alternatives(kid))
		}
		return rows
	}

	kids := Children(n)
	alts := make([][][]Node, len(kids))
	for i, kid := range kids {
		alts[i] = Alternatives(kid)
	}
	return columnwise(n, alts)
}

func product(heads, tails [][]Node) [][]Node {
	out := make([][]Node, 0, len(heads)*len(tails))
	for _, h := range heads {
		for _, t := range tails {
			row := make([]Node, 0, len(h)+len(t))
			out = append(out, append(append(row, h...), t...))
		}
	}
	return out
}

// columnwise applies n's operator at every position to each combination of
// one row per child.
func columnwise(n Node, alts [][][]Node) [][]Node {
	s := n.Span()
	pick := make([][]Node, len(alts))
	var rows [][]Node

	var choose func(i int)
	choose = func(i int) {
		if i == len(alts) {
			row := make([]Node, s.Width)
			for col := range row {
				cells := make([]Node, len(pick))
				for j, p := range pick {
					cells[j] = p[col]
				}
				row[col] = withSpan(withChildren(n, cells), Span{Pos: s.Pos + col, Width: 1})
			}
			rows = append(rows, row)
			return
		}
		for _, alt := range alts[i] {
			pick[i] = alt
			choose(i + 1)
		}
	}
	choose(0)
	return rows
}

package expr

// VisitFunc may return a replacement for a node. Returning nil keeps the node.
type VisitFunc func(n Node) (Node, error)

// Visitor holds the callbacks of a rewrite pass. Pre runs before a node's
// children are walked and Post after; either may be nil.
type Visitor struct {
	Pre  VisitFunc
	Post VisitFunc
}

// Walk rewrites the tree rooted at n. A replacement returned by Pre is walked
// in place of the original node. Subtrees whose children are unchanged are
// returned as is.
func Walk(n Node, v Visitor) (Node, error) {
	var err error
	if n, err = visit(v.Pre, n); err != nil {
		return nil, err
	}

	if kids := Children(n); len(kids) > 0 {
		next := make([]Node, len(kids))
		changed := false
		for i, kid := range kids {
			if next[i], err = Walk(kid, v); err != nil {
				return nil, err
			}
			changed = changed || next[i] != kid
		}
		if changed {
			n = withChildren(n, next)
		}
	}

	return visit(v.Post, n)
}

func visit(fn VisitFunc, n Node) (Node, error) {
	if fn == nil {
		return n, nil
	}
	out, err := fn(n)
	if err != nil {
		return nil, err
	}
	if out == nil {
		return n, nil
	}
	return out, nil
}

// Pass is a whole-tree rewrite.
type Pass func(Node) (Node, error)

// Rewrite turns a Visitor into a Pass.
func Rewrite(v Visitor) Pass {
	return func(n Node) (Node, error) { return Walk(n, v) }
}

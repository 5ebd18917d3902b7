package expr

// Compiled is a simplified, positioned expression tree.
type Compiled struct {
	// Spec is the source text, empty for trees passed to CompileNode.
	Spec string
	// Root is the positioned tree.
	Root Node
	// Width is the number of positions Root covers.
	Width int
	// Units lists the fields declared at each position.
	Units UnitMap
}

// Pipeline lists the rewrite passes run by Compile, in order.
var Pipeline = []Pass{
	LowerSpecials,
	LowerReverse,
	RaiseRules,
	RaiseUnits,
	Flatten,
	FoldConstants,
}

// Compile parses and simplifies spec.
func Compile(spec string) (*Compiled, error) {
	ast, err := Parse(spec)
	if err != nil {
		return nil, err
	}
	c, err := CompileNode(ast)
	if err != nil {
		return nil, err
	}
	c.Spec = spec
	return c, nil
}

// CompileNode simplifies a raw tree.
func CompileNode(ast Node) (*Compiled, error) {
	var err error
	for _, pass := range Pipeline {
		if ast, err = pass(ast); err != nil {
			return nil, err
		}
	}
	root, err := AssignPositions(ast)
	if err != nil {
		return nil, err
	}
	width := root.Span().Width
	return &Compiled{
		Root:  root,
		Width: width,
		Units: BuildUnitMap(root, width),
	}, nil
}

func (c *Compiled) String() string {
	return c.Root.String()
}

package vdom

// Equal reports whether two trees are structurally and stylistically
// identical. Two nil trees are equal.
func Equal(a, b Node) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Kind() != b.Kind() || a.NodeProps() != b.NodeProps() {
		return false
	}
	switch x := a.(type) {
	case *Container:
		y := b.(*Container)
		if len(x.Children) != len(y.Children) {
			return false
		}
		for i := range x.Children {
			if !Equal(x.Children[i], y.Children[i]) {
				return false
			}
		}
		return true
	default:
		xb, _ := BodyOf(a)
		yb, _ := BodyOf(b)
		return xb.Equal(yb)
	}
}

// Clone deep-copies a tree.
func Clone(n Node) Node {
	switch t := n.(type) {
	case nil:
		return nil
	case *Container:
		c := &Container{Props: t.Props}
		if t.Children != nil {
			c.Children = make([]Node, len(t.Children))
			for i, child := range t.Children {
				c.Children[i] = Clone(child)
			}
		}
		return c
	case *Text:
		c := *t
		return &c
	case *RichText:
		c := *t
		c.Spans = append([]Span(nil), t.Spans...)
		return &c
	default:
		return n
	}
}

// Count returns the number of nodes in the tree.
func Count(n Node) int {
	if n == nil {
		return 0
	}
	total := 1
	if c, ok := n.(*Container); ok {
		for _, child := range c.Children {
			total += Count(child)
		}
	}
	return total
}

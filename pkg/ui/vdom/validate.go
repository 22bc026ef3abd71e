package vdom

import "github.com/odvcencio/trellis/pkg/errors"

// Validate checks that every node in the tree is non-nil. The first nil
// node is reported as a structural violation at its path.
func Validate(n Node) error {
	return validate(n, nil)
}

func validate(n Node, path []int) error {
	if isNil(n) {
		return errors.Structural(path, "nil node")
	}
	c, ok := n.(*Container)
	if !ok {
		return nil
	}
	for i, child := range c.Children {
		if err := validate(child, append(path[:len(path):len(path)], i)); err != nil {
			return err
		}
	}
	return nil
}

func isNil(n Node) bool {
	switch v := n.(type) {
	case nil:
		return true
	case *Container:
		return v == nil
	case *Text:
		return v == nil
	case *RichText:
		return v == nil
	default:
		return false
	}
}

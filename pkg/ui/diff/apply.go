package diff

import (
	"github.com/odvcencio/trellis/pkg/errors"
	"github.com/odvcencio/trellis/pkg/ui/vdom"
)

// Apply applies patches to a copy of root and returns the result. root is
// not modified. A patch whose path does not exist is a structural violation.
func Apply(root vdom.Node, patches []Patch) (vdom.Node, error) {
	root = vdom.Clone(root)
	for _, p := range patches {
		var err error
		if root, err = applyOne(root, p); err != nil {
			return nil, err
		}
	}
	return root, nil
}

func applyOne(root vdom.Node, p Patch) (vdom.Node, error) {
	switch v := p.(type) {
	case Create:
		if v.Path.IsRoot() {
			if root != nil {
				return nil, errors.Structural(v.Path, "create at root of non-empty tree")
			}
			return vdom.Clone(v.Node), nil
		}
		parent, idx, err := containerFor(root, v.Path)
		if err != nil {
			return nil, err
		}
		if idx < 0 || idx > len(parent.Children) {
			return nil, errors.Structural(v.Path, "create index %d out of range (%d children)", idx, len(parent.Children))
		}
		parent.Children = insertAt(parent.Children, idx, vdom.Clone(v.Node))

	case Delete:
		if v.Path.IsRoot() {
			if root == nil {
				return nil, errors.Structural(v.Path, "delete from empty tree")
			}
			return nil, nil
		}
		parent, idx, err := childIndex(root, v.Path)
		if err != nil {
			return nil, err
		}
		parent.Children = removeAt(parent.Children, idx)

	case Replace:
		if v.Path.IsRoot() {
			if root == nil {
				return nil, errors.Structural(v.Path, "replace in empty tree")
			}
			return vdom.Clone(v.Node), nil
		}
		parent, idx, err := childIndex(root, v.Path)
		if err != nil {
			return nil, err
		}
		parent.Children[idx] = vdom.Clone(v.Node)

	case UpdateStyle:
		n, err := lookup(root, v.Path)
		if err != nil {
			return nil, err
		}
		vdom.SetProps(n, v.Props)

	case UpdateText:
		n, err := lookup(root, v.Path)
		if err != nil {
			return nil, err
		}
		if !vdom.SetBody(n, v.Body) {
			return nil, errors.Structural(v.Path, "update text on %s node", n.Kind())
		}

	case Move:
		fromParent, fromIdx, err := childIndex(root, v.From)
		if err != nil {
			return nil, err
		}
		toParentPath, toIdx, ok := v.To.Split()
		fromParentPath, _, _ := v.From.Split()
		if !ok || !toParentPath.Equal(fromParentPath) {
			return nil, errors.Structural(v.To, "move must stay within parent %s", fromParentPath)
		}
		if toIdx < 0 || toIdx >= len(fromParent.Children) {
			return nil, errors.Structural(v.To, "move index %d out of range", toIdx)
		}
		node := fromParent.Children[fromIdx]
		fromParent.Children = removeAt(fromParent.Children, fromIdx)
		fromParent.Children = insertAt(fromParent.Children, toIdx, node)

	default:
		return nil, errors.Newf(errors.ErrCodeInternal, "unknown patch %T", p)
	}
	return root, nil
}

func lookup(root vdom.Node, path Path) (vdom.Node, error) {
	if root == nil {
		return nil, errors.Structural(path, "lookup in empty tree")
	}
	n := root
	for depth, idx := range path {
		c, ok := n.(*vdom.Container)
		if !ok || idx < 0 || idx >= len(c.Children) {
			return nil, errors.Structural(path, "no node at depth %d", depth)
		}
		n = c.Children[idx]
	}
	return n, nil
}

// containerFor resolves the parent container of path and the final index,
// without checking that index exists.
func containerFor(root vdom.Node, path Path) (*vdom.Container, int, error) {
	parentPath, idx, _ := path.Split()
	n, err := lookup(root, parentPath)
	if err != nil {
		return nil, 0, err
	}
	c, ok := n.(*vdom.Container)
	if !ok {
		return nil, 0, errors.Structural(path, "parent is a %s node", n.Kind())
	}
	return c, idx, nil
}

// childIndex is containerFor plus a bounds check on an existing child.
func childIndex(root vdom.Node, path Path) (*vdom.Container, int, error) {
	if path.IsRoot() {
		return nil, 0, errors.Structural(path, "root has no parent")
	}
	c, idx, err := containerFor(root, path)
	if err != nil {
		return nil, 0, err
	}
	if idx < 0 || idx >= len(c.Children) {
		return nil, 0, errors.Structural(path, "index %d out of range (%d children)", idx, len(c.Children))
	}
	return c, idx, nil
}

func insertAt[T any](s []T, i int, v T) []T {
	s = append(s, v)
	copy(s[i+1:], s[i:])
	s[i] = v
	return s
}

func removeAt[T any](s []T, i int) []T {
	copy(s[i:], s[i+1:])
	var zero T
	s[len(s)-1] = zero
	return s[:len(s)-1]
}

package rendertree

import (
	"github.com/odvcencio/trellis/pkg/errors"
	"github.com/odvcencio/trellis/pkg/ui/diff"
	"github.com/odvcencio/trellis/pkg/ui/vdom"
)

// ApplyAll applies patches in order. It stops at the first failure; patches
// before it stay applied.
func (t *Tree) ApplyAll(patches []diff.Patch) error {
	for _, p := range patches {
		if err := t.Apply(p); err != nil {
			return err
		}
	}
	return nil
}

// Apply mutates the tree by one patch. A path that does not resolve is a
// structural violation.
func (t *Tree) Apply(p diff.Patch) error {
	switch v := p.(type) {
	case diff.Create:
		return t.applyCreate(v)
	case diff.Delete:
		return t.applyDelete(v)
	case diff.Replace:
		return t.applyReplace(v)
	case diff.UpdateStyle:
		n, ok := t.NodeAtPath(v.Path)
		if !ok {
			return errors.Structural(v.Path, "update style: no node")
		}
		n.Props = v.Props
		if !n.Props.Focusable && n.Focused {
			n.Focused = false
			t.focused = InvalidID
		}
		if v.Changed.AffectsLayout() {
			t.markDirty(n)
		}
		return nil
	case diff.UpdateText:
		n, ok := t.NodeAtPath(v.Path)
		if !ok {
			return errors.Structural(v.Path, "update text: no node")
		}
		if !n.IsText() {
			return errors.Structural(v.Path, "update text on %s node", n.Kind)
		}
		n.Body = v.Body
		n.Lines = nil
		t.markDirty(n)
		return nil
	case diff.Move:
		return t.applyMove(v)
	default:
		return errors.Newf(errors.ErrCodeInternal, "unknown patch %T", p)
	}
}

func (t *Tree) applyCreate(v diff.Create) error {
	if v.Path.IsRoot() {
		if t.root != InvalidID {
			return errors.Structural(v.Path, "create at root of non-empty tree")
		}
		t.root = t.insert(v.Node, InvalidID)
		return nil
	}
	parent, idx, err := t.parentOf(v.Path)
	if err != nil {
		return err
	}
	if idx < 0 || idx > len(parent.Children) {
		return errors.Structural(v.Path, "create index %d out of range (%d children)", idx, len(parent.Children))
	}
	id := t.insert(v.Node, parent.ID)
	parent.Children = insertAt(parent.Children, idx, id)
	t.markDirty(parent)
	return nil
}

func (t *Tree) applyDelete(v diff.Delete) error {
	if v.Path.IsRoot() {
		if t.root == InvalidID {
			return errors.Structural(v.Path, "delete from empty tree")
		}
		t.remove(t.root)
		t.root = InvalidID
		return nil
	}
	parent, idx, err := t.childOf(v.Path)
	if err != nil {
		return err
	}
	t.remove(parent.Children[idx])
	parent.Children = removeAt(parent.Children, idx)
	t.markDirty(parent)
	return nil
}

func (t *Tree) applyReplace(v diff.Replace) error {
	if v.Path.IsRoot() {
		if t.root == InvalidID {
			return errors.Structural(v.Path, "replace in empty tree")
		}
		t.remove(t.root)
		t.root = t.insert(v.Node, InvalidID)
		return nil
	}
	parent, idx, err := t.childOf(v.Path)
	if err != nil {
		return err
	}
	t.remove(parent.Children[idx])
	parent.Children[idx] = t.insert(v.Node, parent.ID)
	t.markDirty(parent)
	return nil
}

func (t *Tree) applyMove(v diff.Move) error {
	parent, from, err := t.childOf(v.From)
	if err != nil {
		return err
	}
	fromParent, _, _ := v.From.Split()
	toParent, to, ok := v.To.Split()
	if !ok || !toParent.Equal(fromParent) {
		return errors.Structural(v.To, "move must stay within parent %s", fromParent)
	}
	// to indexes the list with the moved child taken out.
	if to < 0 || to >= len(parent.Children) {
		return errors.Structural(v.To, "move index %d out of range", to)
	}
	id := parent.Children[from]
	parent.Children = removeAt(parent.Children, from)
	parent.Children = insertAt(parent.Children, to, id)
	t.markDirty(parent)
	return nil
}

// parentOf resolves the container that holds path's last index.
func (t *Tree) parentOf(path diff.Path) (*Node, int, error) {
	parentPath, idx, _ := path.Split()
	parent, ok := t.NodeAtPath(parentPath)
	if !ok {
		return nil, 0, errors.Structural(path, "no parent node")
	}
	if parent.Kind != vdom.KindContainer {
		return nil, 0, errors.Structural(path, "parent is a %s node", parent.Kind)
	}
	return parent, idx, nil
}

func (t *Tree) childOf(path diff.Path) (*Node, int, error) {
	if path.IsRoot() {
		return nil, 0, errors.Structural(path, "root has no parent")
	}
	parent, idx, err := t.parentOf(path)
	if err != nil {
		return nil, 0, err
	}
	if idx < 0 || idx >= len(parent.Children) {
		return nil, 0, errors.Structural(path, "index %d out of range (%d children)", idx, len(parent.Children))
	}
	return parent, idx, nil
}

func (t *Tree) markDirty(n *Node) {
	n.Dirty = true
	t.layoutDirty = true
}

func insertAt(s []NodeID, i int, v NodeID) []NodeID {
	s = append(s, 0)
	copy(s[i+1:], s[i:])
	s[i] = v
	return s
}

func removeAt(s []NodeID, i int) []NodeID {
	copy(s[i:], s[i+1:])
	return s[:len(s)-1]
}

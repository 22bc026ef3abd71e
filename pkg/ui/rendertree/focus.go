package rendertree

import "github.com/odvcencio/trellis/pkg/ui/diff"

// Focusables returns focusable nodes in document order.
func (t *Tree) Focusables() []NodeID {
	var ids []NodeID
	t.Walk(func(n *Node) bool {
		if n.Props.Focusable {
			ids = append(ids, n.ID)
		}
		return true
	})
	return ids
}

// Focused returns the focused node's ID, or InvalidID.
func (t *Tree) Focused() NodeID { return t.focused }

// FocusedPath returns the current path of the focused node.
func (t *Tree) FocusedPath() (diff.Path, bool) {
	if t.focused == InvalidID {
		return nil, false
	}
	return t.PathOf(t.focused)
}

// SetFocus focuses id. Returns true if focus changed.
func (t *Tree) SetFocus(id NodeID) bool {
	n := t.nodes[id]
	if n == nil || !n.Props.Focusable {
		return false
	}
	return t.focus(id)
}

// ClearFocus removes focus from the focused node.
func (t *Tree) ClearFocus() {
	if n := t.nodes[t.focused]; n != nil {
		n.Focused = false
	}
	t.focused = InvalidID
}

// FocusNext moves focus to the next focusable node, wrapping around.
// Returns true if focus changed.
func (t *Tree) FocusNext() bool {
	ids := t.Focusables()
	if len(ids) == 0 {
		return false
	}
	cur := indexOf(ids, t.focused)
	return t.focus(ids[(cur+1)%len(ids)])
}

// FocusPrev moves focus to the previous focusable node, wrapping around.
// Returns true if focus changed.
func (t *Tree) FocusPrev() bool {
	ids := t.Focusables()
	if len(ids) == 0 {
		return false
	}
	cur := indexOf(ids, t.focused)
	if cur < 0 {
		cur = len(ids)
	}
	return t.focus(ids[(cur-1+len(ids))%len(ids)])
}

func (t *Tree) focus(id NodeID) bool {
	if id == t.focused {
		return false
	}
	t.ClearFocus()
	t.focused = id
	t.nodes[id].Focused = true
	return true
}

// Package rendertree holds the positioned tree that persists across frames.
// Nodes live in an arena keyed by NodeID; patches from package diff mutate
// it in place and the layout engine writes geometry onto its nodes.
package rendertree

import (
	"github.com/odvcencio/trellis/pkg/ui/diff"
	"github.com/odvcencio/trellis/pkg/ui/textwrap"
	"github.com/odvcencio/trellis/pkg/ui/vdom"
)

// NodeID identifies a node within one Tree. Zero is never a valid ID.
type NodeID uint32

// InvalidID is the zero NodeID.
const InvalidID NodeID = 0

// Node is one positioned node. Parent is a lookup handle only; the tree
// owns every node through the Children lists.
type Node struct {
	ID       NodeID
	Parent   NodeID
	Children []NodeID

	Kind  vdom.Kind
	Props vdom.Props
	Body  vdom.TextBody

	// Absolute outer geometry in cells, written by layout.
	X, Y          int
	Width, Height int

	// Intrinsic extent of the node's content, excluding border and padding.
	ContentWidth, ContentHeight int

	ScrollY    int
	Scrollable bool
	Focused    bool
	Dirty      bool

	// Lines caches wrapped text for text nodes.
	Lines []textwrap.Line
}

// IsText reports whether the node is a Text or RichText leaf.
func (n *Node) IsText() bool {
	return n.Kind == vdom.KindText || n.Kind == vdom.KindRichText
}

// Rect returns the node's outer box.
func (n *Node) Rect() Rect {
	return Rect{X: n.X, Y: n.Y, Width: n.Width, Height: n.Height}
}

// ContentRect returns the box inside border and padding.
func (n *Node) ContentRect() Rect {
	return n.Rect().Inset(n.Props.Insets())
}

// PaddingRect returns the box inside the border.
func (n *Node) PaddingRect() Rect {
	return n.Rect().Inset(n.Props.BorderInsets())
}

// MaxScroll is the largest valid ScrollY.
func (n *Node) MaxScroll() int {
	if !n.Scrollable {
		return 0
	}
	return max(0, n.ContentHeight-n.ContentRect().Height)
}

// Tree is the render tree arena.
type Tree struct {
	nodes   map[NodeID]*Node
	root    NodeID
	next    NodeID
	focused NodeID

	layoutDirty bool
}

// New returns an empty tree.
func New() *Tree {
	return &Tree{nodes: make(map[NodeID]*Node)}
}

// Build returns a tree mirroring root. A nil root gives an empty tree.
func Build(root vdom.Node) *Tree {
	t := New()
	if root != nil {
		t.root = t.insert(root, InvalidID)
	}
	return t
}

func (t *Tree) insert(n vdom.Node, parent NodeID) NodeID {
	t.next++
	id := t.next
	node := &Node{
		ID:     id,
		Parent: parent,
		Kind:   n.Kind(),
		Props:  n.NodeProps(),
		Dirty:  true,
	}
	if body, ok := vdom.BodyOf(n); ok {
		node.Body = body
	}
	t.nodes[id] = node
	if c, ok := n.(*vdom.Container); ok {
		node.Children = make([]NodeID, 0, len(c.Children))
		for _, child := range c.Children {
			node.Children = append(node.Children, t.insert(child, id))
		}
	}
	t.layoutDirty = true
	return id
}

// remove frees id and its whole subtree. It does not unlink id from its
// parent.
func (t *Tree) remove(id NodeID) {
	n := t.nodes[id]
	if n == nil {
		return
	}
	for _, c := range n.Children {
		t.remove(c)
	}
	if t.focused == id {
		t.focused = InvalidID
	}
	delete(t.nodes, id)
	t.layoutDirty = true
}

// Len returns the number of live nodes.
func (t *Tree) Len() int { return len(t.nodes) }

// RootID returns the root's ID, or InvalidID for an empty tree.
func (t *Tree) RootID() NodeID { return t.root }

// Root returns the root node or nil.
func (t *Tree) Root() *Node { return t.nodes[t.root] }

// Node returns the node with the given ID or nil.
func (t *Tree) Node(id NodeID) *Node { return t.nodes[id] }

// NodeAtPath resolves a child-index path from the root.
func (t *Tree) NodeAtPath(path diff.Path) (*Node, bool) {
	n := t.nodes[t.root]
	if n == nil {
		return nil, false
	}
	for _, idx := range path {
		if idx < 0 || idx >= len(n.Children) {
			return nil, false
		}
		n = t.nodes[n.Children[idx]]
	}
	return n, true
}

// PathOf returns the current path of id.
func (t *Tree) PathOf(id NodeID) (diff.Path, bool) {
	n := t.nodes[id]
	if n == nil {
		return nil, false
	}
	var rev []int
	for n.Parent != InvalidID {
		parent := t.nodes[n.Parent]
		idx := indexOf(parent.Children, n.ID)
		if idx < 0 {
			return nil, false
		}
		rev = append(rev, idx)
		n = parent
	}
	path := make(diff.Path, len(rev))
	for i, idx := range rev {
		path[len(rev)-1-i] = idx
	}
	return path, true
}

// Walk visits nodes in document order. Returning false from fn skips the
// node's children.
func (t *Tree) Walk(fn func(*Node) bool) {
	if n := t.nodes[t.root]; n != nil {
		t.walk(n, fn)
	}
}

func (t *Tree) walk(n *Node, fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.Children {
		t.walk(t.nodes[c], fn)
	}
}

// NeedsLayout reports whether a structural or layout-affecting change
// happened since the last MarkLaidOut.
func (t *Tree) NeedsLayout() bool { return t.layoutDirty }

// MarkLaidOut clears the dirty state after a layout pass.
func (t *Tree) MarkLaidOut() {
	t.layoutDirty = false
	for _, n := range t.nodes {
		n.Dirty = false
	}
}

// Snapshot rebuilds an abstract tree from the render tree.
func (t *Tree) Snapshot() vdom.Node {
	if t.root == InvalidID {
		return nil
	}
	return t.snapshot(t.nodes[t.root])
}

func (t *Tree) snapshot(n *Node) vdom.Node {
	switch n.Kind {
	case vdom.KindText:
		out := &vdom.Text{Props: n.Props}
		vdom.SetBody(out, n.Body)
		return out
	case vdom.KindRichText:
		out := &vdom.RichText{Props: n.Props}
		vdom.SetBody(out, n.Body)
		return out
	default:
		c := &vdom.Container{Props: n.Props}
		if len(n.Children) > 0 {
			c.Children = make([]vdom.Node, len(n.Children))
			for i, id := range n.Children {
				c.Children[i] = t.snapshot(t.nodes[id])
			}
		}
		return c
	}
}

func indexOf(ids []NodeID, id NodeID) int {
	for i, v := range ids {
		if v == id {
			return i
		}
	}
	return -1
}

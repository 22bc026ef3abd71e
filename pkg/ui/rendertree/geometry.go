package rendertree

import (
	"github.com/odvcencio/trellis/pkg/ui/backend"
	"github.com/odvcencio/trellis/pkg/ui/vdom"
)

// Rect is a positioned rectangle in cells.
type Rect struct {
	X, Y, Width, Height int
}

// Empty reports whether the rect covers no cells.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Contains returns true if the point is inside the rect.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height
}

// Intersects returns true if the two rects overlap.
func (r Rect) Intersects(other Rect) bool {
	return r.X < other.X+other.Width &&
		r.X+r.Width > other.X &&
		r.Y < other.Y+other.Height &&
		r.Y+r.Height > other.Y
}

// Intersection returns the overlapping area of two rects.
func (r Rect) Intersection(other Rect) Rect {
	x := max(r.X, other.X)
	y := max(r.Y, other.Y)
	x2 := min(r.X+r.Width, other.X+other.Width)
	y2 := min(r.Y+r.Height, other.Y+other.Height)
	if x2 <= x || y2 <= y {
		return Rect{}
	}
	return Rect{X: x, Y: y, Width: x2 - x, Height: y2 - y}
}

// Inset returns a rect shrunk by s. Sizes clamp at zero.
func (r Rect) Inset(s vdom.Spacing) Rect {
	return Rect{
		X:      r.X + s.Left,
		Y:      r.Y + s.Top,
		Width:  max(0, r.Width-s.Left-s.Right),
		Height: max(0, r.Height-s.Top-s.Bottom),
	}
}

// Translate moves the rect.
func (r Rect) Translate(dx, dy int) Rect {
	r.X += dx
	r.Y += dy
	return r
}

// Geometry is the resolved geometry of one node.
type Geometry struct {
	X, Y, Width, Height         int
	ContentWidth, ContentHeight int
	ScrollY, MaxScroll          int
}

// Geometry reports the layout results for id.
func (t *Tree) Geometry(id NodeID) (Geometry, bool) {
	n := t.nodes[id]
	if n == nil {
		return Geometry{}, false
	}
	return Geometry{
		X: n.X, Y: n.Y, Width: n.Width, Height: n.Height,
		ContentWidth: n.ContentWidth, ContentHeight: n.ContentHeight,
		ScrollY: n.ScrollY, MaxScroll: n.MaxScroll(),
	}, true
}

// ScrollTo sets the vertical scroll offset of id, clamped to its valid
// range. Returns true if the offset changed.
func (t *Tree) ScrollTo(id NodeID, y int) bool {
	n := t.nodes[id]
	if n == nil {
		return false
	}
	y = min(max(y, 0), n.MaxScroll())
	if y == n.ScrollY {
		return false
	}
	n.ScrollY = y
	return true
}

// ScrollBy adjusts the scroll offset of id by delta.
func (t *Tree) ScrollBy(id NodeID, delta int) bool {
	n := t.nodes[id]
	if n == nil {
		return false
	}
	return t.ScrollTo(id, n.ScrollY+delta)
}

// ScrollToTop scrolls id to its first line.
func (t *Tree) ScrollToTop(id NodeID) bool {
	return t.ScrollTo(id, 0)
}

// ScrollToBottom scrolls id to its last page.
func (t *Tree) ScrollToBottom(id NodeID) bool {
	n := t.nodes[id]
	if n == nil {
		return false
	}
	return t.ScrollTo(id, n.MaxScroll())
}

// ScrollableAncestor returns id itself or its nearest ancestor that is
// currently scrollable, or InvalidID.
func (t *Tree) ScrollableAncestor(id NodeID) NodeID {
	for n := t.nodes[id]; n != nil; n = t.nodes[n.Parent] {
		if n.Scrollable {
			return n.ID
		}
	}
	return InvalidID
}

// InheritedBackground returns the background of id or of its nearest
// ancestor that sets one. A focused node's focus background takes
// precedence over its own.
func (t *Tree) InheritedBackground(id NodeID) (backend.Color, bool) {
	// The walk is bounded by the number of live nodes.
	n := t.nodes[id]
	for steps := 0; n != nil && steps <= len(t.nodes); steps++ {
		if c, ok := n.Props.BackgroundFor(n.Focused).Get(); ok {
			return c, true
		}
		n = t.nodes[n.Parent]
	}
	return backend.ColorDefault, false
}

// ContainingBlock returns the node that absolutely positioned children of
// id are placed against: id itself or its nearest positioned ancestor, or
// the root when there is none.
func (t *Tree) ContainingBlock(id NodeID) *Node {
	for n := t.nodes[id]; n != nil; n = t.nodes[n.Parent] {
		if n.Props.Positioned() || n.Parent == InvalidID {
			return n
		}
	}
	return nil
}

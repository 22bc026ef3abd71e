package compositor

import "github.com/odvcencio/trellis/pkg/ui/rendertree"

// HitGrid maps screen cells to the topmost node painted there.
type HitGrid struct {
	width  int
	height int
	cells  []rendertree.NodeID
}

// NewHitGrid creates a new hit grid with the given dimensions.
func NewHitGrid(width, height int) *HitGrid {
	grid := &HitGrid{}
	grid.Resize(width, height)
	return grid
}

// Resize updates the hit grid dimensions.
func (g *HitGrid) Resize(width, height int) {
	if width == g.width && height == g.height {
		return
	}
	g.width = width
	g.height = height
	size := width * height
	if size <= 0 {
		g.cells = nil
		return
	}
	g.cells = make([]rendertree.NodeID, size)
}

// Clear resets the grid contents.
func (g *HitGrid) Clear() {
	for i := range g.cells {
		g.cells[i] = rendertree.InvalidID
	}
}

// Add records id occupying bounds. Later calls win where they overlap.
func (g *HitGrid) Add(id rendertree.NodeID, bounds rendertree.Rect) {
	if id == rendertree.InvalidID || g.width <= 0 || g.height <= 0 {
		return
	}
	bounds = bounds.Intersection(rendertree.Rect{Width: g.width, Height: g.height})
	if bounds.Empty() {
		return
	}
	for y := bounds.Y; y < bounds.Y+bounds.Height; y++ {
		row := y * g.width
		for x := bounds.X; x < bounds.X+bounds.Width; x++ {
			g.cells[row+x] = id
		}
	}
}

// NodeAt returns the node at the given screen position, or InvalidID.
func (g *HitGrid) NodeAt(x, y int) rendertree.NodeID {
	if x < 0 || y < 0 || x >= g.width || y >= g.height {
		return rendertree.InvalidID
	}
	return g.cells[y*g.width+x]
}

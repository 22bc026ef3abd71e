package layout

import (
	"github.com/odvcencio/trellis/pkg/ui/rendertree"
	"github.com/odvcencio/trellis/pkg/ui/textwrap"
	"github.com/odvcencio/trellis/pkg/ui/vdom"
)

// arrange assigns n its box and lays out its subtree inside it.
func (r *Resolver) arrange(n *rendertree.Node, x, y, w, h int) {
	n.X, n.Y = x, y
	n.Width, n.Height = max(w, 0), max(h, 0)
	content := n.ContentRect()

	if n.IsText() {
		n.Lines = wrapBody(n.Body, content.Width)
		n.ContentWidth = textwrap.MaxWidth(n.Lines)
		n.ContentHeight = len(n.Lines)
		finishScroll(n, content)
		return
	}

	var flow, absolute []*rendertree.Node
	for _, id := range n.Children {
		c := r.tree.Node(id)
		if c.Props.Position == vdom.PositionAbsolute {
			absolute = append(absolute, c)
		} else {
			flow = append(flow, c)
		}
	}

	availH, refH := content.Height, content.Height
	if n.Props.Scrolls() {
		availH = unbounded
	}
	if r.open[n.ID] {
		refH = unbounded
	}
	sizes := make([]Size, len(flow))
	for i, c := range flow {
		sizes[i] = r.measure(c, content.Width, availH, content.Width, refH)
	}

	var boxes []rendertree.Rect
	if n.Props.Wrap {
		boxes = r.placeWrapped(n, flow, content, sizes, availH, refH)
	} else {
		boxes = r.placeFlow(n, flow, content, sizes, availH, refH)
	}

	n.ContentWidth, n.ContentHeight = 0, 0
	for i, c := range flow {
		b := shiftRelative(c, boxes[i])
		r.arrange(c, b.X, b.Y, b.Width, b.Height)
		// Extent uses the flow box so relative shifts do not change scroll range.
		n.ContentWidth = max(n.ContentWidth, boxes[i].X+boxes[i].Width-content.X)
		n.ContentHeight = max(n.ContentHeight, boxes[i].Y+boxes[i].Height-content.Y)
	}
	finishScroll(n, content)

	for _, c := range absolute {
		r.placeAbsolute(n, c)
	}
}

// distribute returns each flow child's main extent on a line of mainBox
// cells, and how many children are Auto. Auto children split what sized
// children and gaps leave, the last one taking the remainder. With clamp,
// children are cut so the line never runs past mainBox.
func distribute(dir vdom.Direction, flow []*rendertree.Node, sizes []Size, mainBox, gap int, clamp bool) ([]int, int) {
	autos, lastAuto, used := 0, -1, 0
	for i, c := range flow {
		if mainDim(dir, c.Props).Kind == vdom.DimAuto {
			autos++
			lastAuto = i
			continue
		}
		used += mainOf(dir, sizes[i])
	}
	share, rem := 0, 0
	if autos > 0 {
		leftover := max(0, mainBox-used-gap*(len(flow)-1))
		share, rem = leftover/autos, leftover%autos
	}

	mains := make([]int, len(flow))
	cursor := 0
	for i, c := range flow {
		m := mainOf(dir, sizes[i])
		if mainDim(dir, c.Props).Kind == vdom.DimAuto {
			m = share
			if i == lastAuto {
				m += rem
			}
		}
		if clamp {
			m = min(m, max(0, mainBox-cursor))
		}
		mains[i] = m
		cursor += m + gap
	}
	return mains, autos
}

// placeFlow lays children out in a single line along the main axis.
func (r *Resolver) placeFlow(n *rendertree.Node, flow []*rendertree.Node, content rendertree.Rect, sizes []Size, availH, refH int) []rendertree.Rect {
	dir := n.Props.Direction
	gap := max(n.Props.Gap, 0)
	mainBox := mainOf(dir, Size{Width: content.Width, Height: content.Height})
	crossBox := crossOf(dir, Size{Width: content.Width, Height: content.Height})

	// A vertical scroll container lets content run past its visible main
	// axis (column) or cross axis (row).
	scroll := n.Props.Scrolls()
	clampMain := !(scroll && dir == vdom.Column)
	clampCross := !(scroll && dir == vdom.Row)

	mains, autos := distribute(dir, flow, sizes, mainBox, gap, clampMain)
	free := 0
	if autos == 0 {
		free = mainBox - gap*(len(flow)-1)
		for _, m := range mains {
			free -= m
		}
	}

	boxes := make([]rendertree.Rect, len(flow))
	cursor := 0
	for i, c := range flow {
		m := mains[i]
		cross := r.crossAt(dir, c, sizes[i], m, availH, refH)
		if clampCross {
			cross = min(cross, crossBox)
		}
		shift := justifyShift(n.Props.Justify, free, len(flow), i)
		boxes[i] = boxAt(dir, content, cursor+shift, alignShift(c.Props.Alignment(n.Props.AlignItems), crossBox-cross), m, cross)
		cursor += m
		if i < len(flow)-1 {
			g := gap
			if clampMain {
				g = min(g, max(0, mainBox-cursor))
			}
			cursor += g
		}
	}
	return boxes
}

// placeWrapped starts a new line whenever the next child would run past the
// main axis. Lines advance by their tallest cross extent plus gap. Auto
// children take their content size, so each line justifies its own free
// space and aligns children against the line's cross extent.
func (r *Resolver) placeWrapped(n *rendertree.Node, flow []*rendertree.Node, content rendertree.Rect, sizes []Size, availH, refH int) []rendertree.Rect {
	dir := n.Props.Direction
	gap := max(n.Props.Gap, 0)
	mainBox := mainOf(dir, Size{Width: content.Width, Height: content.Height})

	type item struct{ line, main, cross, off int }
	type line struct{ first, count, used, cross, off int }
	items := make([]item, len(sizes))
	lines := []line{{}}
	crossOff := 0
	for i, s := range sizes {
		m := min(mainOf(dir, s), mainBox)
		c := crossOf(dir, s)
		if m != mainOf(dir, s) {
			c = r.crossAt(dir, flow[i], s, m, availH, refH)
		}
		cur := &lines[len(lines)-1]
		if cur.count > 0 && cur.used+gap+m > mainBox {
			crossOff += cur.cross + gap
			lines = append(lines, line{first: i, off: crossOff})
			cur = &lines[len(lines)-1]
		} else if cur.count > 0 {
			cur.used += gap
		}
		items[i] = item{line: len(lines) - 1, main: m, cross: c, off: cur.used}
		cur.used += m
		cur.cross = max(cur.cross, c)
		cur.count++
	}

	boxes := make([]rendertree.Rect, len(sizes))
	for i, it := range items {
		l := lines[it.line]
		shift := justifyShift(n.Props.Justify, mainBox-l.used, l.count, i-l.first)
		cross := alignShift(flow[i].Props.Alignment(n.Props.AlignItems), l.cross-it.cross)
		boxes[i] = boxAt(dir, content, it.off+shift, l.off+cross, it.main, it.cross)
	}
	return boxes
}

// justifyShift returns how far child i of count moves along the main axis
// when free cells are left over.
func justifyShift(j vdom.Justify, free, count, i int) int {
	if free <= 0 || count == 0 {
		return 0
	}
	switch j {
	case vdom.JustifyCenter:
		return free / 2
	case vdom.JustifyEnd:
		return free
	case vdom.JustifySpaceBetween:
		if count == 1 {
			return 0
		}
		return free * i / (count - 1)
	case vdom.JustifySpaceAround:
		return free * (2*i + 1) / (2 * count)
	case vdom.JustifySpaceEvenly:
		return free * (i + 1) / (count + 1)
	default:
		return 0
	}
}

// alignShift returns the cross-axis offset of a child with spare cells
// left in its line.
func alignShift(a vdom.CrossAlign, spare int) int {
	if spare <= 0 {
		return 0
	}
	switch a {
	case vdom.CrossCenter:
		return spare / 2
	case vdom.CrossEnd:
		return spare
	default:
		return 0
	}
}

// placeAbsolute positions an out-of-flow child against the padding box of
// its nearest positioned ancestor, or the root.
func (r *Resolver) placeAbsolute(parent, c *rendertree.Node) {
	cb := r.tree.ContainingBlock(parent.ID).PaddingRect()
	s := r.measure(c, cb.Width, cb.Height, cb.Width, cb.Height)
	o := c.Props.Offsets

	w, h := s.Width, s.Height
	left, hasLeft := o.Left.Get()
	right, hasRight := o.Right.Get()
	top, hasTop := o.Top.Get()
	bottom, hasBottom := o.Bottom.Get()
	if hasLeft && hasRight && !definite(c.Props.Width) {
		w = max(0, cb.Width-left-right)
	}
	if hasTop && hasBottom && !definite(c.Props.Height) {
		h = max(0, cb.Height-top-bottom)
	}

	x, y := cb.X, cb.Y
	switch {
	case hasLeft:
		x += left
	case hasRight:
		x = cb.X + cb.Width - right - w
	}
	switch {
	case hasTop:
		y += top
	case hasBottom:
		y = cb.Y + cb.Height - bottom - h
	}
	r.arrange(c, x, y, w, h)
}

// shiftRelative applies the offsets of a relatively positioned node to its
// flow box.
func shiftRelative(c *rendertree.Node, b rendertree.Rect) rendertree.Rect {
	if c.Props.Position != vdom.PositionRelative {
		return b
	}
	o := c.Props.Offsets
	if v, ok := o.Left.Get(); ok {
		b.X += v
	} else if v, ok := o.Right.Get(); ok {
		b.X -= v
	}
	if v, ok := o.Top.Get(); ok {
		b.Y += v
	} else if v, ok := o.Bottom.Get(); ok {
		b.Y -= v
	}
	return b
}

func definite(d vdom.Dimension) bool {
	return d.Kind == vdom.DimFixed || d.Kind == vdom.DimPercent
}

func boxAt(dir vdom.Direction, content rendertree.Rect, mainOff, crossOff, main, cross int) rendertree.Rect {
	if dir == vdom.Row {
		return rendertree.Rect{X: content.X + mainOff, Y: content.Y + crossOff, Width: main, Height: cross}
	}
	return rendertree.Rect{X: content.X + crossOff, Y: content.Y + mainOff, Width: cross, Height: main}
}

// finishScroll marks n scrollable when its content overflows the visible
// height and clamps the scroll offset.
func finishScroll(n *rendertree.Node, content rendertree.Rect) {
	n.Scrollable = n.Props.Scrolls() && n.ContentHeight > content.Height
	n.ScrollY = min(max(n.ScrollY, 0), n.MaxScroll())
}

package compositor

import (
	"sort"

	"github.com/rivo/uniseg"

	"github.com/odvcencio/trellis/pkg/ui/backend"
	"github.com/odvcencio/trellis/pkg/ui/rendertree"
	"github.com/odvcencio/trellis/pkg/ui/theme"
	"github.com/odvcencio/trellis/pkg/ui/vdom"
)

// borderRunes lists horizontal, vertical, then the four corners clockwise
// from top-left.
type borderRunes struct {
	h, v                    rune
	topLeft, topRight       rune
	bottomRight, bottomLeft rune
}

var borderSets = map[vdom.BorderStyle]borderRunes{
	vdom.BorderSingle:  {'─', '│', '┌', '┐', '┘', '└'},
	vdom.BorderDouble:  {'═', '║', '╔', '╗', '╝', '╚'},
	vdom.BorderThick:   {'━', '┃', '┏', '┓', '┛', '┗'},
	vdom.BorderRounded: {'─', '│', '╭', '╮', '╯', '╰'},
	vdom.BorderDashed:  {'╌', '╎', '┌', '┐', '┘', '└'},
}

const (
	scrollTrack = '│'
	scrollThumb = '█'
)

// Painter draws a laid-out render tree into a buffer.
type Painter struct {
	Theme          *theme.Theme
	ShowScrollbars bool

	hits *HitGrid
	tree *rendertree.Tree
	buf  *Buffer

	// painted records where each node landed, for absolute descendants.
	painted map[rendertree.NodeID]paintState
}

type paintState struct {
	dy   int
	clip rendertree.Rect
}

// NewPainter returns a painter using th, or the default theme when th is nil.
func NewPainter(th *theme.Theme) *Painter {
	if th == nil {
		th = theme.DefaultTheme()
	}
	return &Painter{
		Theme:          th,
		ShowScrollbars: true,
		hits:           NewHitGrid(0, 0),
	}
}

// Hits returns the hit grid filled by the last Paint.
func (p *Painter) Hits() *HitGrid { return p.hits }

// Paint draws tree into buf. buf is expected to be freshly cleared.
func (p *Painter) Paint(tree *rendertree.Tree, buf *Buffer) {
	w, h := buf.Size()
	p.hits.Resize(w, h)
	p.hits.Clear()
	p.tree, p.buf = tree, buf
	p.painted = make(map[rendertree.NodeID]paintState, tree.Len())
	defer func() { p.tree, p.buf, p.painted = nil, nil, nil }()

	if p.Theme.Base != backend.DefaultStyle() {
		buf.Fill(blank(p.Theme.Base))
	}
	if root := tree.Root(); root != nil {
		p.paintNode(root, rendertree.Rect{Width: w, Height: h}, 0)
	}
}

// paintNode draws n shifted up by dy and clipped to clip, then its children.
func (p *Painter) paintNode(n *rendertree.Node, clip rendertree.Rect, dy int) {
	box := n.Rect().Translate(0, -dy)
	visible := box.Intersection(clip)
	p.painted[n.ID] = paintState{dy: dy, clip: clip}
	p.hits.Add(n.ID, visible)

	bg := p.background(n)
	if c, ok := n.Props.BackgroundFor(n.Focused).Get(); ok {
		p.fill(visible, blank(p.Theme.Base.Background(c)))
	}
	if n.Props.Border.Style != vdom.BorderNone {
		p.paintBorder(n, box, clip, bg)
	}

	content := n.ContentRect().Translate(0, -dy).Intersection(clip)
	if n.IsText() {
		p.paintText(n, n.ContentRect().Translate(0, -dy), content, bg)
	} else {
		p.paintChildren(n, content, dy+n.ScrollY)
	}

	if n.Scrollable && p.ShowScrollbars && n.Props.ShowScrollbar() {
		p.paintScrollbar(n, dy, clip, bg)
	}
}

// paintChildren paints in ascending z-index, stable on document order.
func (p *Painter) paintChildren(n *rendertree.Node, clip rendertree.Rect, dy int) {
	children := make([]*rendertree.Node, len(n.Children))
	for i, id := range n.Children {
		children[i] = p.tree.Node(id)
	}
	sort.SliceStable(children, func(i, j int) bool {
		return children[i].Props.ZIndex < children[j].Props.ZIndex
	})

	for _, c := range children {
		if c.Props.Position != vdom.PositionAbsolute {
			p.paintNode(c, clip, dy)
			continue
		}
		cb := p.tree.ContainingBlock(n.ID)
		st := p.painted[cb.ID]
		p.paintNode(c, cb.PaddingRect().Translate(0, -st.dy).Intersection(st.clip), st.dy)
	}
}

// background is the effective background under n: its own, an ancestor's,
// or the theme base.
func (p *Painter) background(n *rendertree.Node) backend.Color {
	if c, ok := p.tree.InheritedBackground(n.ID); ok {
		return c
	}
	return p.Theme.Base.BG()
}

func (p *Painter) paintBorder(n *rendertree.Node, box, clip rendertree.Rect, bg backend.Color) {
	if box.Empty() {
		return
	}
	b := n.Props.Border
	set, ok := borderSets[b.Style]
	if !ok {
		set = borderSets[vdom.BorderSingle]
	}
	style := p.Theme.Border
	if n.Focused {
		style = p.Theme.BorderFocus
	}
	if c, ok := b.Color.Get(); ok {
		style = style.Foreground(c)
	}
	if c, ok := n.Props.Focus.BorderColor.Get(); ok && n.Focused {
		style = style.Foreground(c)
	}
	style = style.Background(bg)

	top, bottom := b.Has(vdom.EdgeTop), b.Has(vdom.EdgeBottom)
	left, right := b.Has(vdom.EdgeLeft), b.Has(vdom.EdgeRight)
	x0, y0 := box.X, box.Y
	x1, y1 := box.X+box.Width-1, box.Y+box.Height-1

	if top {
		for x := x0; x <= x1; x++ {
			p.setRune(clip, x, y0, set.h, style)
		}
	}
	if bottom {
		for x := x0; x <= x1; x++ {
			p.setRune(clip, x, y1, set.h, style)
		}
	}
	if left {
		for y := y0; y <= y1; y++ {
			p.setRune(clip, x0, y, set.v, style)
		}
	}
	if right {
		for y := y0; y <= y1; y++ {
			p.setRune(clip, x1, y, set.v, style)
		}
	}
	corners := []struct {
		on   bool
		x, y int
		r    rune
	}{
		{top && left, x0, y0, set.topLeft},
		{top && right, x1, y0, set.topRight},
		{bottom && right, x1, y1, set.bottomRight},
		{bottom && left, x0, y1, set.bottomLeft},
	}
	for _, c := range corners {
		if c.on {
			p.setRune(clip, c.x, c.y, c.r, style)
		}
	}
}

// paintText draws the node's wrapped lines. area is the unclipped content
// box on screen; clip is where drawing may land.
func (p *Painter) paintText(n *rendertree.Node, area, clip rendertree.Rect, bg backend.Color) {
	for i := n.ScrollY; i < len(n.Lines); i++ {
		y := area.Y + i - n.ScrollY
		if y >= area.Y+area.Height {
			break
		}
		line := n.Lines[i]
		x := area.X + alignOffset(n.Body.Align, area.Width, line.Width)
		for _, seg := range line.Segments {
			var span vdom.Span
			if seg.Span < len(n.Body.Spans) {
				span = n.Body.Spans[seg.Span]
			}
			style := p.spanStyle(span.Style, bg)
			rest, state := seg.Text, -1
			for len(rest) > 0 {
				var cluster string
				var width int
				cluster, rest, width, state = uniseg.FirstGraphemeClusterInString(rest, state)
				if width == 0 {
					continue
				}
				p.setCluster(clip, x, y, cluster, width, style)
				x += width
			}
		}
	}
}

func (p *Painter) spanStyle(ts vdom.TextStyle, bg backend.Color) backend.Style {
	style := p.Theme.Text.Background(bg).WithAttributes(p.Theme.Text.Attributes() | ts.Attrs)
	if c, ok := ts.FG.Get(); ok {
		style = style.Foreground(c)
	}
	if c, ok := ts.BG.Get(); ok {
		style = style.Background(c)
	}
	return style
}

func alignOffset(a vdom.Align, box, line int) int {
	switch a {
	case vdom.AlignCenter:
		return max(0, (box-line)/2)
	case vdom.AlignRight:
		return max(0, box-line)
	default:
		return 0
	}
}

// paintScrollbar overlays the rightmost column inside the border. The thumb
// length is proportional to visible/content height.
func (p *Painter) paintScrollbar(n *rendertree.Node, dy int, clip rendertree.Rect, bg backend.Color) {
	track := n.PaddingRect().Translate(0, -dy)
	if track.Empty() {
		return
	}
	visible := n.ContentRect().Height
	content := max(n.ContentHeight, 1)
	length := track.Height

	thumb := max(1, (length*visible+content-1)/content)
	thumb = min(thumb, length)
	pos := 0
	if maxScroll := n.MaxScroll(); maxScroll > 0 {
		pos = (length - thumb) * n.ScrollY / maxScroll
	}

	x := track.X + track.Width - 1
	trackStyle := p.Theme.Scrollbar.Background(bg)
	thumbStyle := p.Theme.ScrollThumb.Background(bg)
	for i := 0; i < length; i++ {
		if i >= pos && i < pos+thumb {
			p.setRune(clip, x, track.Y+i, scrollThumb, thumbStyle)
		} else {
			p.setRune(clip, x, track.Y+i, scrollTrack, trackStyle)
		}
	}
}

func (p *Painter) fill(r rendertree.Rect, c Cell) {
	for y := r.Y; y < r.Y+r.Height; y++ {
		for x := r.X; x < r.X+r.Width; x++ {
			p.buf.Set(x, y, c)
		}
	}
}

func (p *Painter) setRune(clip rendertree.Rect, x, y int, r rune, style backend.Style) {
	if clip.Contains(x, y) {
		p.buf.SetRune(x, y, r, style)
	}
}

// setCluster writes a cluster inside clip. A wide cluster cut by the clip
// edge leaves a styled space in the visible half.
func (p *Painter) setCluster(clip rendertree.Rect, x, y int, cluster string, width int, style backend.Style) {
	if y < clip.Y || y >= clip.Y+clip.Height {
		return
	}
	headIn := clip.Contains(x, y)
	if width < 2 {
		if headIn {
			p.buf.SetCluster(x, y, cluster, width, style)
		}
		return
	}
	tailIn := clip.Contains(x+1, y)
	switch {
	case headIn && tailIn:
		p.buf.SetCluster(x, y, cluster, width, style)
	case headIn:
		p.buf.Set(x, y, blank(style))
	case tailIn:
		p.buf.Set(x+1, y, blank(style))
	}
}

// Package layout resolves sizing rules on a render tree into absolute cell
// geometry. A pass measures bottom-up, then arranges top-down.
package layout

import (
	"github.com/odvcencio/trellis/pkg/errors"
	"github.com/odvcencio/trellis/pkg/ui/rendertree"
	"github.com/odvcencio/trellis/pkg/ui/textwrap"
	"github.com/odvcencio/trellis/pkg/ui/vdom"
)

// Resolver runs layout passes. Measurements are memoized within a pass.
// A Resolver is not safe for concurrent use.
type Resolver struct {
	tree *rendertree.Tree
	memo map[measureKey]Size
	// open holds nodes whose height follows content under an unbounded
	// axis. Percentages inside them have nothing to resolve against.
	open map[rendertree.NodeID]bool
}

type measureKey struct {
	id                         rendertree.NodeID
	availW, availH, refW, refH int
}

// NewResolver returns a resolver.
func NewResolver() *Resolver {
	return &Resolver{}
}

// Resolve lays out the whole tree against a terminal of width×height. The
// root is placed at the origin.
func (r *Resolver) Resolve(tree *rendertree.Tree, width, height int) error {
	if width < 0 || height < 0 {
		return negativeSpace(width, height)
	}
	root := tree.Root()
	if root == nil {
		tree.MarkLaidOut()
		return nil
	}
	r.begin(tree)
	s := r.measure(root, width, height, width, height)
	r.arrange(root, 0, 0, s.Width, s.Height)
	tree.MarkLaidOut()
	return nil
}

// LayoutNode lays out the subtree at id with the given available space,
// keeping the node's current origin. It returns the node's resolved size.
func (r *Resolver) LayoutNode(tree *rendertree.Tree, id rendertree.NodeID, availW, availH int) (Size, error) {
	if availW < 0 || availH < 0 {
		return Size{}, negativeSpace(availW, availH).WithContext("node", id)
	}
	n := tree.Node(id)
	if n == nil {
		return Size{}, errors.Newf(errors.ErrCodeInvalidInput, "layout: no node %d", id)
	}
	r.begin(tree)
	s := r.measure(n, availW, availH, availW, availH)
	r.arrange(n, n.X, n.Y, s.Width, s.Height)
	return s, nil
}

func (r *Resolver) begin(tree *rendertree.Tree) {
	r.tree = tree
	r.memo = make(map[measureKey]Size)
	r.open = make(map[rendertree.NodeID]bool)
}

func negativeSpace(w, h int) *errors.Error {
	return errors.Newf(errors.ErrCodeNegativeSpace, "layout: negative available space %dx%d", w, h).
		WithContext("width", w).
		WithContext("height", h)
}

// measure returns the outer size n wants given the space offered by its
// parent. ref is the parent's content box, used for percentages; an
// unbounded ref makes Percent behave as Content.
func (r *Resolver) measure(n *rendertree.Node, availW, availH, refW, refH int) Size {
	key := measureKey{n.ID, availW, availH, refW, refH}
	if s, ok := r.memo[key]; ok {
		return s
	}

	w, wOK := resolveDefinite(n.Props.Width, refW)
	h, hOK := resolveDefinite(n.Props.Height, refH)
	if !hOK && indefinite(availH) {
		r.open[n.ID] = true
	}
	if !wOK || !hOK {
		ins := n.Props.Insets()
		boxW, boxH := availW, availH
		if wOK {
			boxW = w
		}
		if hOK {
			boxH = h
		}
		cw, ch := r.contentSize(n, max(0, boxW-ins.Horizontal()), max(0, boxH-ins.Vertical()), wOK)
		if !wOK {
			w = min(cw+ins.Horizontal(), availW)
		}
		if !hOK {
			h = min(ch+ins.Vertical(), availH)
		}
	}

	s := Size{Width: max(w, 0), Height: max(h, 0)}
	r.memo[key] = s
	return s
}

// heightAt returns the outer height c takes once it is given exactly w
// columns. It mirrors measure with the width pinned.
func (r *Resolver) heightAt(c *rendertree.Node, w, availH, refH int) int {
	if h, ok := resolveDefinite(c.Props.Height, refH); ok {
		return h
	}
	ins := c.Props.Insets()
	_, ch := r.contentSize(c, max(0, w-ins.Horizontal()), max(0, availH-ins.Vertical()), true)
	return max(0, min(ch+ins.Vertical(), availH))
}

// crossAt returns the cross extent of a flow child measured as s once its
// main extent is m. Only rows re-measure: a narrower width can add lines.
func (r *Resolver) crossAt(dir vdom.Direction, c *rendertree.Node, s Size, m, availH, refH int) int {
	if dir != vdom.Row || m == s.Width {
		return crossOf(dir, s)
	}
	return r.heightAt(c, m, availH, refH)
}

// contentSize returns the intrinsic size of what is inside n's border and
// padding, given an inner box of innerW×innerH. exactW reports that n will
// be arranged at exactly innerW rather than shrunk to its content.
func (r *Resolver) contentSize(n *rendertree.Node, innerW, innerH int, exactW bool) (int, int) {
	if n.IsText() {
		lines := wrapBody(n.Body, innerW)
		return textwrap.MaxWidth(lines), len(lines)
	}

	availH := innerH
	if n.Props.Scrolls() {
		availH = unbounded
	}
	refH := innerH
	if r.open[n.ID] {
		refH = unbounded
	}
	dir := n.Props.Direction
	gap := max(n.Props.Gap, 0)

	var flow []*rendertree.Node
	var sizes []Size
	for _, id := range n.Children {
		c := r.tree.Node(id)
		if c.Props.Position == vdom.PositionAbsolute {
			continue
		}
		flow = append(flow, c)
		sizes = append(sizes, r.measure(c, innerW, availH, innerW, refH))
	}
	if len(sizes) == 0 {
		return 0, 0
	}

	if n.Props.Wrap {
		mainBox := mainOf(dir, Size{Width: innerW, Height: innerH})
		lineMain, lineCross, widest, crossTotal := 0, 0, 0, 0
		for i, s := range sizes {
			m, c := min(mainOf(dir, s), mainBox), crossOf(dir, s)
			if m != mainOf(dir, s) {
				c = r.crossAt(dir, flow[i], s, m, availH, refH)
			}
			if i > 0 && lineMain+gap+m > mainBox {
				widest = max(widest, lineMain)
				crossTotal += lineCross + gap
				lineMain, lineCross = 0, 0
			} else if i > 0 {
				lineMain += gap
			}
			lineMain += m
			lineCross = max(lineCross, c)
		}
		widest = max(widest, lineMain)
		s := fromAxes(dir, widest, crossTotal+lineCross)
		return s.Width, s.Height
	}

	main, cross := gap*(len(sizes)-1), 0
	for _, s := range sizes {
		main += mainOf(dir, s)
		cross = max(cross, crossOf(dir, s))
	}
	if dir == vdom.Row {
		lineW := innerW
		if !exactW {
			lineW = min(main, innerW)
		}
		mains, _ := distribute(dir, flow, sizes, lineW, gap, true)
		cross = 0
		for i, c := range flow {
			cross = max(cross, r.crossAt(dir, c, sizes[i], mains[i], availH, refH))
		}
	}
	s := fromAxes(dir, main, cross)
	return s.Width, s.Height
}

func wrapBody(body vdom.TextBody, width int) []textwrap.Line {
	mode := textwrap.Mode(body.WrapMode)
	if mode == textwrap.None {
		width = unbounded
	}
	spans := make([]string, len(body.Spans))
	for i, s := range body.Spans {
		spans[i] = s.Text
	}
	return textwrap.WrapSpans(spans, width, mode)
}

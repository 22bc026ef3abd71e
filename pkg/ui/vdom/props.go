package vdom

import (
	"strings"

	"github.com/odvcencio/trellis/pkg/ui/backend"
)

// Opt is an optional value. The zero value is unset.
type Opt[T comparable] struct {
	Val T
	Set bool
}

// Some returns a set Opt holding v.
func Some[T comparable](v T) Opt[T] {
	return Opt[T]{Val: v, Set: true}
}

// Get returns the value and whether it is set.
func (o Opt[T]) Get() (T, bool) {
	return o.Val, o.Set
}

// Or returns the value, or def when unset.
func (o Opt[T]) Or(def T) T {
	if o.Set {
		return o.Val
	}
	return def
}

// DimKind selects how an axis is sized.
type DimKind uint8

const (
	// DimContent sizes to the intrinsic size of children or text.
	DimContent DimKind = iota
	// DimFixed is an exact number of cells.
	DimFixed
	// DimPercent is a fraction of the parent's content box.
	DimPercent
	// DimAuto takes a share of the leftover main-axis space.
	DimAuto
)

// Dimension is the sizing rule for one axis. The zero value is Content.
type Dimension struct {
	Kind    DimKind
	Cells   int
	Percent float64
}

// Fixed returns a Dimension of exactly n cells.
func Fixed(n int) Dimension { return Dimension{Kind: DimFixed, Cells: n} }

// Percent returns a Dimension of p (0.0-1.0) of the parent content size.
func Percent(p float64) Dimension { return Dimension{Kind: DimPercent, Percent: p} }

// Auto returns a Dimension sharing the leftover main-axis space.
func Auto() Dimension { return Dimension{Kind: DimAuto} }

// Content returns a Dimension sized to the node's intrinsic content.
func Content() Dimension { return Dimension{} }

// Direction is the main axis children flow along.
type Direction uint8

const (
	Column Direction = iota
	Row
)

// Justify distributes free main-axis space among children. It applies only
// when no child is sized Auto.
type Justify uint8

const (
	JustifyStart Justify = iota
	JustifyCenter
	JustifyEnd
	// JustifySpaceBetween puts the free space between children only.
	JustifySpaceBetween
	// JustifySpaceAround gives each child equal space on both sides.
	JustifySpaceAround
	// JustifySpaceEvenly makes every gap, including the ends, equal.
	JustifySpaceEvenly
)

// CrossAlign positions a child on the cross axis of its line. Children are
// never stretched.
type CrossAlign uint8

const (
	CrossStart CrossAlign = iota
	CrossCenter
	CrossEnd
)

// Overflow controls what happens to content taller than the content box.
type Overflow uint8

const (
	OverflowNone Overflow = iota
	OverflowHidden
	OverflowScroll
	OverflowAuto
)

// Position selects flow or absolute placement.
type Position uint8

const (
	PositionStatic Position = iota
	// PositionRelative stays in flow but anchors absolute descendants.
	PositionRelative
	// PositionAbsolute leaves the flow and is placed by Offsets.
	PositionAbsolute
)

// BorderStyle selects the box-drawing character set.
type BorderStyle uint8

const (
	BorderNone BorderStyle = iota
	BorderSingle
	BorderDouble
	BorderThick
	BorderRounded
	BorderDashed
)

// Edges is a bitmask of box sides.
type Edges uint8

const (
	EdgeTop Edges = 1 << iota
	EdgeRight
	EdgeBottom
	EdgeLeft

	EdgeAll = EdgeTop | EdgeRight | EdgeBottom | EdgeLeft
)

// Border describes a box border. Edges == 0 means all edges.
type Border struct {
	Style BorderStyle
	Color Opt[backend.Color]
	Edges Edges
}

// Has reports whether the border draws the given edge.
func (b Border) Has(edge Edges) bool {
	if b.Style == BorderNone {
		return false
	}
	if b.Edges == 0 {
		return true
	}
	return b.Edges&edge != 0
}

// Spacing is a per-side cell count.
type Spacing struct {
	Top, Right, Bottom, Left int
}

// Uniform returns the same spacing on every side.
func Uniform(n int) Spacing {
	return Spacing{Top: n, Right: n, Bottom: n, Left: n}
}

// Add sums two spacings side by side.
func (s Spacing) Add(o Spacing) Spacing {
	return Spacing{Top: s.Top + o.Top, Right: s.Right + o.Right, Bottom: s.Bottom + o.Bottom, Left: s.Left + o.Left}
}

// Horizontal returns Left + Right.
func (s Spacing) Horizontal() int { return s.Left + s.Right }

// Vertical returns Top + Bottom.
func (s Spacing) Vertical() int { return s.Top + s.Bottom }

// FocusStyle overrides parts of a node's look while it holds focus.
type FocusStyle struct {
	Background  Opt[backend.Color]
	BorderColor Opt[backend.Color]
}

// Offsets positions an absolute node against its containing block.
type Offsets struct {
	Top, Right, Bottom, Left Opt[int]
}

// Props are the sizing, flow and style properties every node carries.
// Props is comparable; two nodes have equal props iff a == b.
type Props struct {
	Width, Height Dimension

	Direction  Direction
	Gap        int
	Wrap       bool
	Justify    Justify
	AlignItems CrossAlign
	// AlignSelf overrides the parent's AlignItems for this node.
	AlignSelf Opt[CrossAlign]

	Background Opt[backend.Color]
	Border     Border
	Padding    Spacing
	Overflow   Overflow
	Focusable  bool
	Position   Position
	Offsets    Offsets
	ZIndex     int
	// Scrollbar toggles the scrollbar overlay; unset means shown.
	Scrollbar Opt[bool]
	Focus     FocusStyle
}

// BorderInsets returns one cell per drawn border edge.
func (p Props) BorderInsets() Spacing {
	var s Spacing
	if p.Border.Has(EdgeTop) {
		s.Top = 1
	}
	if p.Border.Has(EdgeRight) {
		s.Right = 1
	}
	if p.Border.Has(EdgeBottom) {
		s.Bottom = 1
	}
	if p.Border.Has(EdgeLeft) {
		s.Left = 1
	}
	return s
}

// Insets returns border plus padding, the distance from the box edge to
// the content box.
func (p Props) Insets() Spacing {
	return p.BorderInsets().Add(p.Padding)
}

// Scrolls reports whether the overflow mode allows vertical scrolling.
func (p Props) Scrolls() bool {
	return p.Overflow == OverflowScroll || p.Overflow == OverflowAuto
}

// ShowScrollbar reports whether a scrollable node draws its scrollbar.
func (p Props) ShowScrollbar() bool {
	return p.Scrollbar.Or(true)
}

// Alignment returns the cross-axis alignment of this node inside a parent
// whose AlignItems is items.
func (p Props) Alignment(items CrossAlign) CrossAlign {
	return p.AlignSelf.Or(items)
}

// BackgroundFor returns the background to draw, taking the focus override
// when focused.
func (p Props) BackgroundFor(focused bool) Opt[backend.Color] {
	if focused && p.Focus.Background.Set {
		return p.Focus.Background
	}
	return p.Background
}

// Positioned reports whether the node anchors absolute descendants.
func (p Props) Positioned() bool {
	return p.Position == PositionRelative || p.Position == PositionAbsolute
}

// PropMask records which Props fields differ between two snapshots.
type PropMask uint32

const (
	PropWidth PropMask = 1 << iota
	PropHeight
	PropDirection
	PropGap
	PropWrap
	PropBackground
	PropBorder
	PropPadding
	PropOverflow
	PropFocusable
	PropPosition
	PropOffsets
	PropZIndex
	PropScrollbar
	PropJustify
	PropAlignItems
	PropAlignSelf
	PropFocus
)

// layoutMask covers the fields that change geometry.
const layoutMask = PropWidth | PropHeight | PropDirection | PropGap | PropWrap |
	PropBorder | PropPadding | PropOverflow | PropPosition | PropOffsets |
	PropJustify | PropAlignItems | PropAlignSelf

var propNames = []struct {
	mask PropMask
	name string
}{
	{PropWidth, "width"},
	{PropHeight, "height"},
	{PropDirection, "direction"},
	{PropGap, "gap"},
	{PropWrap, "wrap"},
	{PropBackground, "background"},
	{PropBorder, "border"},
	{PropPadding, "padding"},
	{PropOverflow, "overflow"},
	{PropFocusable, "focusable"},
	{PropPosition, "position"},
	{PropOffsets, "offsets"},
	{PropZIndex, "z_index"},
	{PropScrollbar, "scrollbar"},
	{PropJustify, "justify"},
	{PropAlignItems, "align_items"},
	{PropAlignSelf, "align_self"},
	{PropFocus, "focus"},
}

// AffectsLayout reports whether any changed field requires a relayout.
func (m PropMask) AffectsLayout() bool {
	return m&layoutMask != 0
}

// String lists the changed fields, e.g. "background|border".
func (m PropMask) String() string {
	if m == 0 {
		return "none"
	}
	var parts []string
	for _, p := range propNames {
		if m&p.mask != 0 {
			parts = append(parts, p.name)
		}
	}
	return strings.Join(parts, "|")
}

// DiffProps returns the mask of fields that differ between a and b.
func DiffProps(a, b Props) PropMask {
	var m PropMask
	if a.Width != b.Width {
		m |= PropWidth
	}
	if a.Height != b.Height {
		m |= PropHeight
	}
	if a.Direction != b.Direction {
		m |= PropDirection
	}
	if a.Gap != b.Gap {
		m |= PropGap
	}
	if a.Wrap != b.Wrap {
		m |= PropWrap
	}
	if a.Background != b.Background {
		m |= PropBackground
	}
	if a.Border != b.Border {
		m |= PropBorder
	}
	if a.Padding != b.Padding {
		m |= PropPadding
	}
	if a.Overflow != b.Overflow {
		m |= PropOverflow
	}
	if a.Focusable != b.Focusable {
		m |= PropFocusable
	}
	if a.Position != b.Position {
		m |= PropPosition
	}
	if a.Offsets != b.Offsets {
		m |= PropOffsets
	}
	if a.ZIndex != b.ZIndex {
		m |= PropZIndex
	}
	if a.Scrollbar != b.Scrollbar {
		m |= PropScrollbar
	}
	if a.Justify != b.Justify {
		m |= PropJustify
	}
	if a.AlignItems != b.AlignItems {
		m |= PropAlignItems
	}
	if a.AlignSelf != b.AlignSelf {
		m |= PropAlignSelf
	}
	if a.Focus != b.Focus {
		m |= PropFocus
	}
	return m
}

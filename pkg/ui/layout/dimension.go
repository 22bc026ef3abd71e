package layout

import (
	"math"

	"github.com/odvcencio/trellis/pkg/ui/vdom"
)

// unbounded stands in for "no limit" on an axis, such as the main axis of a
// vertical scroll container.
const unbounded = 1 << 30

// indefinite reports whether v is derived from unbounded rather than from
// real space. Insets subtracted from unbounded stay above the threshold.
func indefinite(v int) bool {
	return v > unbounded/2
}

// Size is a resolved width and height in cells.
type Size struct {
	Width, Height int
}

// resolveDefinite resolves Fixed and Percent dimensions against ref.
// ok is false for Content and Auto, which need measuring, and for Percent
// against an indefinite ref.
func resolveDefinite(d vdom.Dimension, ref int) (int, bool) {
	switch d.Kind {
	case vdom.DimFixed:
		return max(d.Cells, 0), true
	case vdom.DimPercent:
		if indefinite(ref) {
			return 0, false
		}
		return ResolvePercent(d.Percent, ref), true
	default:
		return 0, false
	}
}

// ResolvePercent returns round(p*ref) clamped into [0, ref].
func ResolvePercent(p float64, ref int) int {
	ref = max(ref, 0)
	v := int(math.Round(p * float64(ref)))
	return min(max(v, 0), ref)
}

// axis helpers keep flow code direction-agnostic.

func mainOf(dir vdom.Direction, s Size) int {
	if dir == vdom.Row {
		return s.Width
	}
	return s.Height
}

func crossOf(dir vdom.Direction, s Size) int {
	if dir == vdom.Row {
		return s.Height
	}
	return s.Width
}

func mainDim(dir vdom.Direction, p vdom.Props) vdom.Dimension {
	if dir == vdom.Row {
		return p.Width
	}
	return p.Height
}

// fromAxes builds a Size from main and cross extents.
func fromAxes(dir vdom.Direction, main, cross int) Size {
	if dir == vdom.Row {
		return Size{Width: main, Height: cross}
	}
	return Size{Width: cross, Height: main}
}

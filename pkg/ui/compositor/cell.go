// Package compositor paints a laid-out render tree into a double-buffered
// cell grid and reduces each frame to the minimal list of terminal writes.
package compositor

import "github.com/odvcencio/trellis/pkg/ui/backend"

// Cell is one terminal cell. A wide character occupies its head cell
// (Width 2) and a continuation cell (Width 0) to its right.
type Cell struct {
	Rune  rune
	Comb  string // combining runes following Rune in the same cluster
	Width uint8
	Style backend.Style
}

// EmptyCell returns a blank cell with default style.
func EmptyCell() Cell {
	return Cell{Rune: ' ', Width: 1, Style: backend.DefaultStyle()}
}

// blank is a space carrying style.
func blank(style backend.Style) Cell {
	return Cell{Rune: ' ', Width: 1, Style: style}
}

// invalidCell never compares equal to a painted cell. A front buffer filled
// with it forces every cell to be written on the next flush.
var invalidCell = Cell{Width: 255}

// Empty returns true if the cell is a space with default style.
func (c Cell) Empty() bool {
	return c == EmptyCell()
}

// Continuation reports whether the cell is the right half of a wide
// character.
func (c Cell) Continuation() bool {
	return c.Width == 0
}

// Text returns the cell's grapheme cluster.
func (c Cell) Text() string {
	if c.Rune == 0 {
		return " "
	}
	return string(c.Rune) + c.Comb
}

package compositor

import (
	"unicode/utf8"

	"github.com/mattn/go-runewidth"

	"github.com/odvcencio/trellis/pkg/ui/backend"
)

// Buffer is a width×height grid of cells stored row-major.
type Buffer struct {
	width, height int
	cells         []Cell
}

// NewBuffer allocates a blank buffer.
func NewBuffer(width, height int) *Buffer {
	b := &Buffer{}
	b.Resize(width, height)
	return b
}

// Size returns the buffer dimensions.
func (b *Buffer) Size() (width, height int) {
	return b.width, b.height
}

// Resize reallocates the buffer. Content is discarded.
func (b *Buffer) Resize(width, height int) {
	b.width, b.height = max(width, 0), max(height, 0)
	b.cells = make([]Cell, b.width*b.height)
	b.Clear()
}

// Clear resets every cell to EmptyCell.
func (b *Buffer) Clear() {
	b.Fill(EmptyCell())
}

// Fill sets every cell to c.
func (b *Buffer) Fill(c Cell) {
	for i := range b.cells {
		b.cells[i] = c
	}
}

// Get returns the cell at (x, y), or EmptyCell when out of bounds.
func (b *Buffer) Get(x, y int) Cell {
	if !b.inBounds(x, y) {
		return EmptyCell()
	}
	return b.cells[y*b.width+x]
}

// Row returns the cells of row y. The slice aliases the buffer.
func (b *Buffer) Row(y int) []Cell {
	if y < 0 || y >= b.height {
		return nil
	}
	return b.cells[y*b.width : (y+1)*b.width]
}

func (b *Buffer) inBounds(x, y int) bool {
	return x >= 0 && x < b.width && y >= 0 && y < b.height
}

// Set writes c at (x, y), keeping wide characters consistent: a wide cell
// that would hang off the right edge becomes a space, and any wide
// character partly overwritten is blanked.
func (b *Buffer) Set(x, y int, c Cell) {
	if !b.inBounds(x, y) {
		return
	}
	i := y*b.width + x
	b.release(x, i)
	if c.Width == 2 {
		if x+1 >= b.width {
			b.cells[i] = blank(c.Style)
			return
		}
		b.release(x+1, i+1)
		b.cells[i] = c
		b.cells[i+1] = Cell{Style: c.Style}
		return
	}
	if c.Width == 0 {
		c.Width = 1
	}
	b.cells[i] = c
}

// release blanks the other half of a wide character at index i.
func (b *Buffer) release(x, i int) {
	cur := b.cells[i]
	switch {
	case cur.Width == 0 && x > 0 && b.cells[i-1].Width == 2:
		b.cells[i-1] = blank(b.cells[i-1].Style)
	case cur.Width == 2 && x+1 < b.width:
		b.cells[i+1] = blank(cur.Style)
	}
}

// SetCluster writes a grapheme cluster of the given display width.
func (b *Buffer) SetCluster(x, y int, cluster string, width int, style backend.Style) {
	r, size := utf8.DecodeRuneInString(cluster)
	b.Set(x, y, Cell{Rune: r, Comb: cluster[size:], Width: uint8(min(max(width, 1), 2)), Style: style})
}

// SetRune writes a single rune, measuring it with runewidth.
func (b *Buffer) SetRune(x, y int, r rune, style backend.Style) {
	b.Set(x, y, Cell{Rune: r, Width: uint8(max(runewidth.RuneWidth(r), 1)), Style: style})
}

// SetString writes s starting at (x, y) and returns the columns advanced.
// Zero-width runes are skipped.
func (b *Buffer) SetString(x, y int, s string, style backend.Style) int {
	col := x
	for _, r := range s {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		if col >= b.width {
			break
		}
		if col >= 0 {
			b.SetRune(col, y, r, style)
		}
		col += w
	}
	return col - x
}

// FillRect fills the intersection of the rect with the buffer.
func (b *Buffer) FillRect(x, y, w, h int, r rune, style backend.Style) {
	for row := max(y, 0); row < min(y+h, b.height); row++ {
		for col := max(x, 0); col < min(x+w, b.width); col++ {
			b.SetRune(col, row, r, style)
		}
	}
}

// String renders the buffer as plain text, one line per row.
func (b *Buffer) String() string {
	out := make([]byte, 0, (b.width+1)*b.height)
	for y := 0; y < b.height; y++ {
		for _, c := range b.Row(y) {
			if c.Continuation() {
				continue
			}
			out = append(out, c.Text()...)
		}
		out = append(out, '\n')
	}
	return string(out)
}

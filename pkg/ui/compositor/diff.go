package compositor

import (
	"strings"

	"github.com/odvcencio/trellis/pkg/ui/backend"
)

// Write is a run of changed cells on one row sharing a style.
type Write struct {
	X, Y  int
	Style backend.Style
	Text  string
	Cells int // columns covered

	cells []Cell
}

// Each calls fn for every cluster in the run with its column.
func (w Write) Each(fn func(x int, c Cell)) {
	x := w.X
	for _, c := range w.cells {
		fn(x, c)
		x += int(c.Width)
	}
}

// Diff compares back against front row by row and returns the writes that
// turn front into back. Equal cells produce nothing and runs never cross
// rows. Both buffers must have the same size.
func Diff(back, front *Buffer) []Write {
	var writes []Write
	for y := 0; y < back.height; y++ {
		writes = diffRow(writes, y, back.Row(y), front.Row(y))
	}
	return writes
}

func diffRow(writes []Write, y int, back, front []Cell) []Write {
	var run *Write
	var text strings.Builder
	emit := func() {
		if run != nil {
			run.Text = text.String()
			writes = append(writes, *run)
			run = nil
			text.Reset()
		}
	}
	for x := 0; x < len(back); x++ {
		c := back[x]
		if c.Continuation() {
			// Rides along with its head.
			continue
		}
		changed := c != front[x]
		if c.Width == 2 && x+1 < len(back) && back[x+1] != front[x+1] {
			changed = true
		}
		if !changed {
			emit()
			continue
		}
		if run != nil && run.Style != c.Style {
			emit()
		}
		if run == nil {
			run = &Write{X: x, Y: y, Style: c.Style}
		}
		text.WriteString(c.Text())
		run.Cells += int(c.Width)
		run.cells = append(run.cells, c)
	}
	emit()
	return writes
}

// CellCount sums the columns covered by writes.
func CellCount(writes []Write) int {
	n := 0
	for _, w := range writes {
		n += w.Cells
	}
	return n
}

package compositor

import (
	"strconv"
	"strings"

	"github.com/muesli/termenv"

	"github.com/odvcencio/trellis/pkg/ui/backend"
)

// ANSI escape sequences.
const (
	ANSIEscape      = "\x1b["
	ANSIClearScreen = "\x1b[2J"
	ANSICursorHome  = "\x1b[H"
	ANSICursorHide  = "\x1b[?25l"
	ANSICursorShow  = "\x1b[?25h"
	ANSIReset       = "\x1b[0m"
	ANSIAltScreen   = "\x1b[?1049h"
	ANSIMainScreen  = "\x1b[?1049l"
	ANSIMouseOn     = "\x1b[?1000h\x1b[?1006h"
	ANSIMouseOff    = "\x1b[?1006l\x1b[?1000l"
)

// CursorTo returns ANSI sequence to move cursor to (x, y).
// Coordinates are 0-indexed, but ANSI uses 1-indexed.
func CursorTo(x, y int) string {
	return ANSIEscape + strconv.Itoa(y+1) + ";" + strconv.Itoa(x+1) + "H"
}

// CursorForward moves cursor right n columns.
func CursorForward(n int) string {
	if n <= 0 {
		return ""
	}
	return ANSIEscape + strconv.Itoa(n) + "C"
}

var sgrAttrs = []struct {
	mask backend.AttrMask
	code string
}{
	{backend.AttrBold, "1"},
	{backend.AttrDim, "2"},
	{backend.AttrItalic, "3"},
	{backend.AttrUnderline, "4"},
	{backend.AttrBlink, "5"},
	{backend.AttrReverse, "7"},
	{backend.AttrStrikeThrough, "9"},
}

// Encoder turns flush writes into escape sequences for a color profile.
// Colors the profile cannot show are degraded by termenv.
type Encoder struct {
	Profile termenv.Profile
}

// NewEncoder returns an encoder for profile.
func NewEncoder(profile termenv.Profile) *Encoder {
	return &Encoder{Profile: profile}
}

// SGR returns the sequence that selects style from a reset state.
func (e *Encoder) SGR(s backend.Style) string {
	fg, bg, attrs := s.Decompose()
	parts := []string{"0"}
	for _, a := range sgrAttrs {
		if attrs&a.mask != 0 {
			parts = append(parts, a.code)
		}
	}
	parts = append(parts, e.color(fg, false), e.color(bg, true))
	return ANSIEscape + strings.Join(parts, ";") + "m"
}

func (e *Encoder) color(c backend.Color, bg bool) string {
	var tc termenv.Color
	switch {
	case c == backend.ColorDefault:
	case c.IsRGB():
		tc = termenv.RGBColor(c.Hex())
	case c >= 0 && c < 16:
		tc = termenv.ANSIColor(c)
	case c >= 16 && c < 256:
		tc = termenv.ANSI256Color(c)
	}
	if tc != nil {
		if seq := e.Profile.Convert(tc).Sequence(bg); seq != "" {
			return seq
		}
	}
	if bg {
		return "49"
	}
	return "39"
}

// Encode renders writes as one string ending in a style reset. An empty
// write list encodes to nothing.
func (e *Encoder) Encode(writes []Write) string {
	if len(writes) == 0 {
		return ""
	}
	w := newANSIWriter(e)
	for _, wr := range writes {
		w.MoveTo(wr.X, wr.Y)
		w.SetStyle(wr.Style)
		w.WriteText(wr.Text, wr.Cells)
	}
	w.Reset()
	return w.String()
}

// ansiWriter tracks cursor and style to skip redundant sequences.
type ansiWriter struct {
	enc       *Encoder
	buf       strings.Builder
	lastStyle backend.Style
	styleSet  bool
	lastX     int
	lastY     int
	posSet    bool
}

func newANSIWriter(enc *Encoder) *ansiWriter {
	return &ansiWriter{enc: enc, lastX: -1, lastY: -1}
}

// MoveTo positions the cursor, using a short relative hop on the same row.
func (w *ansiWriter) MoveTo(x, y int) {
	if w.posSet && w.lastY == y && w.lastX == x {
		return
	}
	if w.posSet && w.lastY == y {
		if delta := x - w.lastX; delta > 0 && delta < 5 {
			w.buf.WriteString(CursorForward(delta))
			w.lastX = x
			return
		}
	}
	w.buf.WriteString(CursorTo(x, y))
	w.lastX, w.lastY = x, y
	w.posSet = true
}

func (w *ansiWriter) SetStyle(s backend.Style) {
	if w.styleSet && w.lastStyle == s {
		return
	}
	w.buf.WriteString(w.enc.SGR(s))
	w.lastStyle = s
	w.styleSet = true
}

// WriteText writes text covering cells columns.
func (w *ansiWriter) WriteText(s string, cells int) {
	w.buf.WriteString(s)
	w.lastX += cells
}

func (w *ansiWriter) Reset() {
	w.buf.WriteString(ANSIReset)
	w.styleSet = false
}

func (w *ansiWriter) String() string {
	return w.buf.String()
}

// Package textwrap breaks text into lines of a given display width, working
// on grapheme clusters so combining marks and wide characters stay intact.
package textwrap

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/rivo/uniseg"
)

// Mode selects where lines may break.
type Mode uint8

const (
	None Mode = iota
	Character
	Word
	WordBreak
)

// Segment is the part of one input span that landed on a line.
type Segment struct {
	Span  int
	Text  string
	Width int
}

// Line is one wrapped line.
type Line struct {
	Segments []Segment
	Width    int
}

// String returns the line's text.
func (l Line) String() string {
	if len(l.Segments) == 1 {
		return l.Segments[0].Text
	}
	var sb strings.Builder
	for _, s := range l.Segments {
		sb.WriteString(s.Text)
	}
	return sb.String()
}

// Width returns the display width of s in terminal cells.
func Width(s string) int {
	return uniseg.StringWidth(s)
}

// Wrap breaks text into lines no wider than width (except for a single
// cluster wider than width, or any line in None mode). Hard newlines always
// break. A width of zero or less yields no lines.
func Wrap(text string, width int, mode Mode) []string {
	lines := WrapSpans([]string{text}, width, mode)
	if len(lines) == 0 {
		return nil
	}
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = l.String()
	}
	return out
}

// WrapSpans wraps the concatenation of spans, keeping track of which span
// every piece of text came from.
func WrapSpans(spans []string, width int, mode Mode) []Line {
	if width <= 0 {
		return nil
	}
	w := wrapper{width: width, mode: mode}
	for _, hard := range splitHard(spans) {
		w.wrapHardLine(hard)
	}
	return w.lines
}

// MaxWidth returns the widest line.
func MaxWidth(lines []Line) int {
	widest := 0
	for _, l := range lines {
		widest = max(widest, l.Width)
	}
	return widest
}

type cluster struct {
	text  string
	width int
	span  int
	space bool
}

// splitHard segments spans into clusters and splits them at '\n'.
func splitHard(spans []string) [][]cluster {
	lines := [][]cluster{nil}
	for si, s := range spans {
		state := -1
		for len(s) > 0 {
			var c string
			var width int
			c, s, width, state = uniseg.FirstGraphemeClusterInString(s, state)
			if c == "\n" || c == "\r\n" {
				lines = append(lines, nil)
				continue
			}
			r, _ := utf8.DecodeRuneInString(c)
			if r == '\t' {
				c, width = " ", 1
			}
			cur := &lines[len(lines)-1]
			*cur = append(*cur, cluster{text: c, width: width, span: si, space: unicode.IsSpace(r)})
		}
	}
	return lines
}

type wrapper struct {
	width int
	mode  Mode
	lines []Line
	cur   []cluster
	curW  int
}

func (w *wrapper) push() {
	line := Line{Width: w.curW}
	for _, c := range w.cur {
		n := len(line.Segments)
		if n > 0 && line.Segments[n-1].Span == c.span {
			line.Segments[n-1].Text += c.text
			line.Segments[n-1].Width += c.width
			continue
		}
		line.Segments = append(line.Segments, Segment{Span: c.span, Text: c.text, Width: c.width})
	}
	w.lines = append(w.lines, line)
	w.cur = nil
	w.curW = 0
}

func (w *wrapper) add(c cluster) {
	w.cur = append(w.cur, c)
	w.curW += c.width
}

func (w *wrapper) wrapHardLine(clusters []cluster) {
	switch w.mode {
	case None:
		for _, c := range clusters {
			w.add(c)
		}
	case Character:
		w.addBroken(clusters)
	default:
		w.wrapWords(clusters)
	}
	w.push()
}

// addBroken appends clusters, starting a new line whenever the next one
// would not fit. A cluster wider than the line gets a line to itself.
func (w *wrapper) addBroken(clusters []cluster) {
	for _, c := range clusters {
		if w.curW > 0 && w.curW+c.width > w.width {
			w.push()
		}
		w.add(c)
	}
}

func (w *wrapper) wrapWords(clusters []cluster) {
	first := true
	var pending []cluster

	for i := 0; i < len(clusters); {
		if clusters[i].space {
			pending = nil
			for ; i < len(clusters) && clusters[i].space; i++ {
				pending = append(pending, clusters[i])
			}
			continue
		}

		j := i
		wordW := 0
		for ; j < len(clusters) && !clusters[j].space; j++ {
			wordW += clusters[j].width
		}
		word := clusters[i:j]
		i = j

		// Leading whitespace survives only at the start of the text; at a
		// wrap point it is dropped.
		lead := pending
		if w.curW == 0 && !first {
			lead = nil
		}
		leadW := widthOf(lead)
		pending = nil
		first = false

		switch {
		case w.curW+leadW+wordW <= w.width:
			w.addAll(lead)
			w.addAll(word)
		case wordW <= w.width:
			if w.curW > 0 {
				w.push()
			}
			w.addAll(word)
		case w.mode == WordBreak && w.curW > 0 && w.curW+leadW < w.width:
			w.addAll(lead)
			w.addBroken(word)
		default:
			if w.curW > 0 {
				w.push()
			}
			w.addBroken(word)
		}
	}
}

func (w *wrapper) addAll(cs []cluster) {
	for _, c := range cs {
		w.add(c)
	}
}

func widthOf(cs []cluster) int {
	total := 0
	for _, c := range cs {
		total += c.width
	}
	return total
}

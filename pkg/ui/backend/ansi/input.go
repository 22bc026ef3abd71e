package ansi

import (
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/odvcencio/trellis/pkg/ui/terminal"
)

const (
	pasteStart = "\x1b[200~"
	pasteEnd   = "\x1b[201~"
)

// decoder turns raw terminal input into events. Bytes that end in the
// middle of a sequence stay buffered until the next read.
type decoder struct {
	buf     []byte
	inPaste bool
	paste   []byte
}

// feed appends data and returns every complete event. A lone trailing ESC
// is reported as the Escape key. Pasted text is returned in NFC.
func (d *decoder) feed(data []byte) []terminal.Event {
	d.buf = append(d.buf, data...)
	var events []terminal.Event
	i := 0
	for i < len(d.buf) {
		if d.inPaste {
			n, done := d.scanPaste(d.buf[i:])
			i += n
			if !done {
				break
			}
			events = append(events, terminal.PasteEvent{Text: norm.NFC.String(string(d.paste))})
			d.paste = d.paste[:0]
			continue
		}
		n, ev := d.next(d.buf[i:])
		if n == 0 {
			break
		}
		i += n
		if ev != nil {
			events = append(events, ev)
		}
	}
	d.buf = d.buf[:copy(d.buf, d.buf[i:])]
	if !d.inPaste && len(d.buf) == 1 && d.buf[0] == 0x1b {
		events = append(events, terminal.KeyEvent{Key: terminal.KeyEscape})
		d.buf = d.buf[:0]
	}
	return events
}

// scanPaste collects paste content up to the end marker.
func (d *decoder) scanPaste(data []byte) (int, bool) {
	for i := range data {
		if data[i] != 0x1b {
			continue
		}
		rest := data[i:]
		if len(rest) < len(pasteEnd) {
			if string(rest) == pasteEnd[:len(rest)] {
				d.paste = append(d.paste, data[:i]...)
				return i, false
			}
			continue
		}
		if string(rest[:len(pasteEnd)]) == pasteEnd {
			d.paste = append(d.paste, data[:i]...)
			d.inPaste = false
			return i + len(pasteEnd), true
		}
	}
	d.paste = append(d.paste, data...)
	return len(data), false
}

// next decodes one event from the front of data. It returns zero bytes
// consumed when data holds an incomplete sequence, and a nil event for
// sequences it swallows.
func (d *decoder) next(data []byte) (int, terminal.Event) {
	b := data[0]
	switch {
	case b == 0x1b:
		return d.escape(data)
	case b >= 0x20 && b < 0x7f:
		return 1, terminal.KeyEvent{Key: terminal.KeyRune, Rune: rune(b)}
	case b == 0x7f:
		return 1, terminal.KeyEvent{Key: terminal.KeyBackspace}
	case b < 0x20:
		return 1, control(b)
	}
	if !utf8.FullRune(data) {
		return 0, nil
	}
	r, size := utf8.DecodeRune(data)
	return size, terminal.KeyEvent{Key: terminal.KeyRune, Rune: r}
}

func control(b byte) terminal.Event {
	switch b {
	case 0x03:
		return terminal.KeyEvent{Key: terminal.KeyCtrlC, Ctrl: true}
	case 0x04:
		return terminal.KeyEvent{Key: terminal.KeyCtrlD, Ctrl: true}
	case 0x08:
		return terminal.KeyEvent{Key: terminal.KeyBackspace}
	case 0x09:
		return terminal.KeyEvent{Key: terminal.KeyTab}
	case 0x0a, 0x0d:
		return terminal.KeyEvent{Key: terminal.KeyEnter}
	case 0x0c:
		return terminal.KeyEvent{Key: terminal.KeyCtrlL, Ctrl: true}
	case 0x1a:
		return terminal.KeyEvent{Key: terminal.KeyCtrlZ, Ctrl: true}
	default:
		return nil
	}
}

func (d *decoder) escape(data []byte) (int, terminal.Event) {
	if len(data) < 2 {
		return 0, nil
	}
	switch b := data[1]; {
	case b == '[':
		return d.csi(data)
	case b == 'O':
		return ss3(data)
	case b == 0x1b:
		return 2, terminal.KeyEvent{Key: terminal.KeyEscape, Alt: true}
	case b >= 0x20 && b < 0x7f:
		return 2, terminal.KeyEvent{Key: terminal.KeyRune, Rune: rune(b), Alt: true}
	case b < 0x20:
		if ev, ok := control(b).(terminal.KeyEvent); ok {
			ev.Alt = true
			return 2, ev
		}
		return 2, nil
	default:
		return 1, terminal.KeyEvent{Key: terminal.KeyEscape}
	}
}

var csiKeys = map[string]terminal.Key{
	"A":   terminal.KeyUp,
	"B":   terminal.KeyDown,
	"C":   terminal.KeyRight,
	"D":   terminal.KeyLeft,
	"H":   terminal.KeyHome,
	"F":   terminal.KeyEnd,
	"Z":   terminal.KeyBacktab,
	"1~":  terminal.KeyHome,
	"2~":  terminal.KeyInsert,
	"3~":  terminal.KeyDelete,
	"4~":  terminal.KeyEnd,
	"5~":  terminal.KeyPageUp,
	"6~":  terminal.KeyPageDown,
	"7~":  terminal.KeyHome,
	"8~":  terminal.KeyEnd,
	"15~": terminal.KeyF5,
}

var ss3Keys = map[byte]terminal.Key{
	'A': terminal.KeyUp,
	'B': terminal.KeyDown,
	'C': terminal.KeyRight,
	'D': terminal.KeyLeft,
	'H': terminal.KeyHome,
	'F': terminal.KeyEnd,
	'P': terminal.KeyF1,
	'Q': terminal.KeyF2,
	'R': terminal.KeyF3,
	'S': terminal.KeyF4,
}

// maxCSI bounds how far a CSI sequence is scanned for its final byte.
const maxCSI = 32

func (d *decoder) csi(data []byte) (int, terminal.Event) {
	if len(data) < 3 {
		return 0, nil
	}
	if data[2] == '<' {
		return mouse(data)
	}
	end := 2
	for ; end < len(data) && end < maxCSI; end++ {
		if b := data[end]; b >= 0x40 && b <= 0x7e {
			break
		}
	}
	if end >= maxCSI {
		// Not a sequence we can finish; drop the introducer.
		return 2, nil
	}
	if end >= len(data) {
		return 0, nil
	}
	n := end + 1
	body := string(data[2:n])
	if body == "200~" {
		d.inPaste = true
		d.paste = d.paste[:0]
		return n, nil
	}
	key, ev := modifiedKey(body)
	if key == terminal.KeyNone {
		return n, nil
	}
	ev.Key = key
	return n, ev
}

// modifiedKey looks up a CSI body, accepting the xterm "1;<mod>X" and
// "<n>;<mod>~" modifier forms.
func modifiedKey(body string) (terminal.Key, terminal.KeyEvent) {
	var ev terminal.KeyEvent
	if key, ok := csiKeys[body]; ok {
		return key, ev
	}
	final := body[len(body)-1:]
	params := body[:len(body)-1]
	semi := -1
	for i := range params {
		if params[i] == ';' {
			semi = i
			break
		}
	}
	if semi < 0 {
		return terminal.KeyNone, ev
	}
	mod := 0
	for _, c := range params[semi+1:] {
		if c < '0' || c > '9' {
			return terminal.KeyNone, ev
		}
		mod = mod*10 + int(c-'0')
	}
	lookup := final
	if final == "~" {
		lookup = params[:semi] + final
	}
	key, ok := csiKeys[lookup]
	if !ok {
		return terminal.KeyNone, ev
	}
	if mod > 1 {
		bits := mod - 1
		ev.Shift = bits&1 != 0
		ev.Alt = bits&2 != 0
		ev.Ctrl = bits&4 != 0
	}
	return key, ev
}

func ss3(data []byte) (int, terminal.Event) {
	if len(data) < 3 {
		return 0, nil
	}
	if key, ok := ss3Keys[data[2]]; ok {
		return 3, terminal.KeyEvent{Key: key}
	}
	return 3, nil
}

// mouse decodes an SGR mouse report: ESC [ < btn ; x ; y (M|m).
func mouse(data []byte) (int, terminal.Event) {
	end := 3
	for ; end < len(data) && end < maxCSI; end++ {
		if data[end] == 'M' || data[end] == 'm' {
			break
		}
	}
	if end >= maxCSI {
		return 3, nil
	}
	if end >= len(data) {
		return 0, nil
	}
	var vals [3]int
	field := 0
	for _, c := range data[3:end] {
		switch {
		case c == ';':
			field++
			if field > 2 {
				return end + 1, nil
			}
		case c >= '0' && c <= '9':
			vals[field] = vals[field]*10 + int(c-'0')
		default:
			return end + 1, nil
		}
	}
	if field != 2 {
		return end + 1, nil
	}

	btn := vals[0]
	ev := terminal.MouseEvent{
		X:      vals[1] - 1,
		Y:      vals[2] - 1,
		Action: terminal.MousePress,
		Shift:  btn&4 != 0,
		Alt:    btn&8 != 0,
		Ctrl:   btn&16 != 0,
	}
	switch {
	case btn&64 != 0:
		ev.Button = terminal.MouseWheelUp
		if btn&1 != 0 {
			ev.Button = terminal.MouseWheelDown
		}
		return end + 1, ev
	case btn&3 == 0:
		ev.Button = terminal.MouseLeft
	case btn&3 == 1:
		ev.Button = terminal.MouseMiddle
	case btn&3 == 2:
		ev.Button = terminal.MouseRight
	}
	switch {
	case data[end] == 'm':
		ev.Action = terminal.MouseRelease
	case btn&32 != 0:
		ev.Action = terminal.MouseMove
	}
	return end + 1, ev
}

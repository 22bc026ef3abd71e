// Package tcell provides a Backend implementation using tcell.
package tcell

import (
	"strings"
	"sync"

	"github.com/gdamore/tcell/v2"
	"golang.org/x/text/unicode/norm"

	"github.com/odvcencio/trellis/pkg/errors"
	"github.com/odvcencio/trellis/pkg/ui/backend"
	"github.com/odvcencio/trellis/pkg/ui/terminal"
)

// Backend implements backend.Backend using tcell.
type Backend struct {
	screen tcell.Screen
	mouse  bool
	paste  bool
	fini   sync.Once

	// PollEvent state; only the polling goroutine touches it.
	inPaste bool
	pasted  strings.Builder
	held    terminal.MouseButton
}

// Option configures a Backend.
type Option func(*Backend)

// WithMouse toggles mouse reporting. It is on by default.
func WithMouse(on bool) Option {
	return func(b *Backend) { b.mouse = on }
}

// WithPaste toggles bracketed paste. It is on by default.
func WithPaste(on bool) Option {
	return func(b *Backend) { b.paste = on }
}

// New creates a backend on the controlling terminal.
func New(opts ...Option) (*Backend, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeTerminalIO, "open terminal screen")
	}
	return NewWithScreen(screen, opts...), nil
}

// NewWithScreen wraps an existing tcell screen, typically a simulation
// screen in tests.
func NewWithScreen(screen tcell.Screen, opts ...Option) *Backend {
	b := &Backend{screen: screen, mouse: true, paste: true}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Init initializes the screen and enables the configured input modes.
func (b *Backend) Init() error {
	if err := b.screen.Init(); err != nil {
		return errors.Wrap(err, errors.ErrCodeTerminalIO, "init terminal screen")
	}
	if b.mouse {
		b.screen.EnableMouse()
	}
	if b.paste {
		b.screen.EnablePaste()
	}
	return nil
}

// Fini restores the terminal. Subsequent calls are no-ops.
func (b *Backend) Fini() {
	b.fini.Do(b.screen.Fini)
}

// Size returns the terminal dimensions.
func (b *Backend) Size() (width, height int) {
	return b.screen.Size()
}

// SetContent stages a cell for the next Show.
func (b *Backend) SetContent(x, y int, mainc rune, comb []rune, style backend.Style) {
	b.screen.SetContent(x, y, mainc, comb, convertStyle(style))
}

// Show synchronizes the buffer to the terminal. tcell reports write
// failures through its own event stream, so Show never fails here.
func (b *Backend) Show() error {
	b.screen.Show()
	return nil
}

// Clear clears the screen.
func (b *Backend) Clear() {
	b.screen.Clear()
}

// HideCursor hides the cursor.
func (b *Backend) HideCursor() {
	b.screen.HideCursor()
}

// ShowCursor shows the cursor at the origin.
func (b *Backend) ShowCursor() {
	b.screen.ShowCursor(0, 0)
}

// Sync forces a full redraw.
func (b *Backend) Sync() {
	b.screen.Sync()
}

// PollEvent blocks until an event is available. Keys arriving between the
// paste markers are folded into one NFC-normalized PasteEvent. It returns
// nil once the screen is finalized.
func (b *Backend) PollEvent() terminal.Event {
	for {
		ev := b.screen.PollEvent()
		if ev == nil {
			return nil
		}
		switch e := ev.(type) {
		case *tcell.EventPaste:
			if e.Start() {
				b.inPaste = true
				b.pasted.Reset()
				continue
			}
			b.inPaste = false
			text := norm.NFC.String(b.pasted.String())
			b.pasted.Reset()
			if text == "" {
				continue
			}
			return terminal.PasteEvent{Text: text}
		case *tcell.EventKey:
			if b.inPaste {
				b.accumulate(e)
				continue
			}
			return convertKeyEvent(e)
		case *tcell.EventResize:
			w, h := e.Size()
			return terminal.ResizeEvent{Width: w, Height: h}
		case *tcell.EventMouse:
			return b.convertMouse(e)
		}
	}
}

func (b *Backend) accumulate(e *tcell.EventKey) {
	switch e.Key() {
	case tcell.KeyRune:
		b.pasted.WriteRune(e.Rune())
	case tcell.KeyEnter:
		b.pasted.WriteByte('\n')
	case tcell.KeyTab:
		b.pasted.WriteByte('\t')
	}
}

// convertMouse turns tcell's button-state reports into press, release and
// move transitions. tcell reports the buttons currently down, so a release
// is the report where the held button disappears.
func (b *Backend) convertMouse(e *tcell.EventMouse) terminal.MouseEvent {
	x, y := e.Position()
	mods := e.Modifiers()
	ev := terminal.MouseEvent{
		X:     x,
		Y:     y,
		Alt:   mods&tcell.ModAlt != 0,
		Ctrl:  mods&tcell.ModCtrl != 0,
		Shift: mods&tcell.ModShift != 0,
	}

	buttons := e.Buttons()
	switch {
	case buttons&tcell.WheelUp != 0:
		ev.Button, ev.Action = terminal.MouseWheelUp, terminal.MousePress
		return ev
	case buttons&tcell.WheelDown != 0:
		ev.Button, ev.Action = terminal.MouseWheelDown, terminal.MousePress
		return ev
	}

	pressed := convertButton(buttons)
	switch {
	case pressed == terminal.MouseNone && b.held != terminal.MouseNone:
		ev.Button, ev.Action = b.held, terminal.MouseRelease
	case pressed == terminal.MouseNone:
		ev.Action = terminal.MouseMove
	case pressed == b.held:
		ev.Button, ev.Action = pressed, terminal.MouseMove
	default:
		ev.Button, ev.Action = pressed, terminal.MousePress
	}
	b.held = pressed
	return ev
}

// PostEvent injects an event into the queue. Paste events have no single
// tcell equivalent and are dropped.
func (b *Backend) PostEvent(ev terminal.Event) error {
	tev := reverseConvertEvent(ev)
	if tev == nil {
		return nil
	}
	if err := b.screen.PostEvent(tev); err != nil {
		return errors.Wrap(err, errors.ErrCodeTerminalIO, "post event")
	}
	return nil
}

var attrMap = []struct {
	ours  backend.AttrMask
	tcell tcell.AttrMask
}{
	{backend.AttrBold, tcell.AttrBold},
	{backend.AttrItalic, tcell.AttrItalic},
	{backend.AttrUnderline, tcell.AttrUnderline},
	{backend.AttrDim, tcell.AttrDim},
	{backend.AttrBlink, tcell.AttrBlink},
	{backend.AttrReverse, tcell.AttrReverse},
	{backend.AttrStrikeThrough, tcell.AttrStrikeThrough},
}

func convertStyle(s backend.Style) tcell.Style {
	fg, bg, attrs := s.Decompose()
	var mask tcell.AttrMask
	for _, a := range attrMap {
		if attrs&a.ours != 0 {
			mask |= a.tcell
		}
	}
	return tcell.StyleDefault.
		Foreground(convertColor(fg)).
		Background(convertColor(bg)).
		Attributes(mask)
}

func convertColor(c backend.Color) tcell.Color {
	if c == backend.ColorDefault {
		return tcell.ColorDefault
	}
	if c.IsRGB() {
		r, g, b := c.RGB()
		return tcell.NewRGBColor(int32(r), int32(g), int32(b))
	}
	return tcell.PaletteColor(int(c))
}

// keys maps tcell keys to ours. The reverse direction is derived from it,
// so the first tcell key listed for a terminal key wins when posting.
var keys = []struct {
	tcell tcell.Key
	ours  terminal.Key
}{
	{tcell.KeyRune, terminal.KeyRune},
	{tcell.KeyUp, terminal.KeyUp},
	{tcell.KeyDown, terminal.KeyDown},
	{tcell.KeyRight, terminal.KeyRight},
	{tcell.KeyLeft, terminal.KeyLeft},
	{tcell.KeyPgUp, terminal.KeyPageUp},
	{tcell.KeyPgDn, terminal.KeyPageDown},
	{tcell.KeyHome, terminal.KeyHome},
	{tcell.KeyEnd, terminal.KeyEnd},
	{tcell.KeyInsert, terminal.KeyInsert},
	{tcell.KeyDelete, terminal.KeyDelete},
	{tcell.KeyBackspace2, terminal.KeyBackspace},
	{tcell.KeyBackspace, terminal.KeyBackspace},
	{tcell.KeyTab, terminal.KeyTab},
	{tcell.KeyBacktab, terminal.KeyBacktab},
	{tcell.KeyEnter, terminal.KeyEnter},
	{tcell.KeyEscape, terminal.KeyEscape},
	{tcell.KeyCtrlC, terminal.KeyCtrlC},
	{tcell.KeyCtrlD, terminal.KeyCtrlD},
	{tcell.KeyCtrlL, terminal.KeyCtrlL},
	{tcell.KeyCtrlZ, terminal.KeyCtrlZ},
	{tcell.KeyF1, terminal.KeyF1},
	{tcell.KeyF2, terminal.KeyF2},
	{tcell.KeyF3, terminal.KeyF3},
	{tcell.KeyF4, terminal.KeyF4},
	{tcell.KeyF5, terminal.KeyF5},
}

var (
	fromTcell = make(map[tcell.Key]terminal.Key, len(keys))
	toTcell   = make(map[terminal.Key]tcell.Key, len(keys))
)

func init() {
	for _, k := range keys {
		fromTcell[k.tcell] = k.ours
		if _, ok := toTcell[k.ours]; !ok {
			toTcell[k.ours] = k.tcell
		}
	}
}

func convertKeyEvent(e *tcell.EventKey) terminal.KeyEvent {
	mods := e.Modifiers()
	return terminal.KeyEvent{
		Key:   fromTcell[e.Key()],
		Rune:  e.Rune(),
		Alt:   mods&tcell.ModAlt != 0,
		Ctrl:  mods&tcell.ModCtrl != 0,
		Shift: mods&tcell.ModShift != 0,
	}
}

func convertButton(buttons tcell.ButtonMask) terminal.MouseButton {
	switch {
	case buttons&tcell.Button1 != 0:
		return terminal.MouseLeft
	case buttons&tcell.Button2 != 0:
		return terminal.MouseMiddle
	case buttons&tcell.Button3 != 0:
		return terminal.MouseRight
	default:
		return terminal.MouseNone
	}
}

var buttonMasks = map[terminal.MouseButton]tcell.ButtonMask{
	terminal.MouseLeft:      tcell.Button1,
	terminal.MouseMiddle:    tcell.Button2,
	terminal.MouseRight:     tcell.Button3,
	terminal.MouseWheelUp:   tcell.WheelUp,
	terminal.MouseWheelDown: tcell.WheelDown,
}

func reverseConvertEvent(ev terminal.Event) tcell.Event {
	switch e := ev.(type) {
	case terminal.ResizeEvent:
		return tcell.NewEventResize(e.Width, e.Height)
	case terminal.KeyEvent:
		key, ok := toTcell[e.Key]
		if !ok {
			key = tcell.KeyRune
		}
		return tcell.NewEventKey(key, e.Rune, reverseModifiers(e.Alt, e.Ctrl, e.Shift))
	case terminal.MouseEvent:
		mask := buttonMasks[e.Button]
		if e.Action == terminal.MouseRelease {
			mask = tcell.ButtonNone
		}
		return tcell.NewEventMouse(e.X, e.Y, mask, reverseModifiers(e.Alt, e.Ctrl, e.Shift))
	default:
		return nil
	}
}

func reverseModifiers(alt, ctrl, shift bool) tcell.ModMask {
	var mods tcell.ModMask
	if alt {
		mods |= tcell.ModAlt
	}
	if ctrl {
		mods |= tcell.ModCtrl
	}
	if shift {
		mods |= tcell.ModShift
	}
	return mods
}

var _ backend.Backend = (*Backend)(nil)

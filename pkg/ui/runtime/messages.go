package runtime

import (
	"time"

	"github.com/odvcencio/trellis/pkg/ui/terminal"
)

// Message represents an event flowing into the loop.
// Messages come from terminal input, timers, or background goroutines.
type Message interface {
	isMessage()
}

// KeyMsg represents a keyboard input event.
type KeyMsg struct {
	Key   terminal.Key
	Rune  rune
	Alt   bool
	Ctrl  bool
	Shift bool
}

func (KeyMsg) isMessage() {}

// ResizeMsg indicates the terminal size changed.
type ResizeMsg struct {
	Width  int
	Height int
}

func (ResizeMsg) isMessage() {}

// MouseMsg represents a mouse input event in screen cells.
type MouseMsg struct {
	X, Y   int
	Button terminal.MouseButton
	Action terminal.MouseAction
	Alt    bool
	Ctrl   bool
	Shift  bool
}

func (MouseMsg) isMessage() {}

// PasteMsg represents pasted text from bracketed paste mode.
type PasteMsg struct {
	Text string
}

func (PasteMsg) isMessage() {}

// TickMsg is sent on each timer tick.
type TickMsg struct {
	Time time.Time
}

func (TickMsg) isMessage() {}

// AppMsg carries an application payload, typically posted by a background
// producer. The loop passes it to the update function untouched.
type AppMsg struct {
	Payload any
}

func (AppMsg) isMessage() {}

// QuitMsg stops the loop after the current iteration.
type QuitMsg struct{}

func (QuitMsg) isMessage() {}

// fromEvent converts a backend event into a message.
func fromEvent(ev terminal.Event) (Message, bool) {
	switch e := ev.(type) {
	case terminal.KeyEvent:
		return KeyMsg{Key: e.Key, Rune: e.Rune, Alt: e.Alt, Ctrl: e.Ctrl, Shift: e.Shift}, true
	case terminal.ResizeEvent:
		return ResizeMsg{Width: e.Width, Height: e.Height}, true
	case terminal.MouseEvent:
		return MouseMsg{
			X:      e.X,
			Y:      e.Y,
			Button: e.Button,
			Action: e.Action,
			Alt:    e.Alt,
			Ctrl:   e.Ctrl,
			Shift:  e.Shift,
		}, true
	case terminal.PasteEvent:
		return PasteMsg{Text: e.Text}, true
	default:
		return nil, false
	}
}

package runtime

import (
	"github.com/odvcencio/trellis/pkg/ui/terminal"
	"github.com/odvcencio/trellis/pkg/ui/theme"
)

// Command is an intent the loop applies to the render tree.
// Key routing produces them; update functions may dispatch their own.
type Command interface {
	isCommand()
}

// Quit signals the application should exit.
type Quit struct{}

func (Quit) isCommand() {}

// Refresh rewrites every cell on the next frame.
type Refresh struct{}

func (Refresh) isCommand() {}

// SetTheme swaps the theme used for borders, focus rings and scrollbars.
// A nil Theme restores the default.
type SetTheme struct {
	Theme *theme.Theme
}

func (SetTheme) isCommand() {}

// FocusNext moves focus to the next focusable node.
type FocusNext struct{}

func (FocusNext) isCommand() {}

// FocusPrev moves focus to the previous focusable node.
type FocusPrev struct{}

func (FocusPrev) isCommand() {}

// ScrollBy scrolls the focused scrollable node by Lines (negative is up).
type ScrollBy struct {
	Lines int
}

func (ScrollBy) isCommand() {}

// PageUp scrolls the focused scrollable node up by half its height.
type PageUp struct{}

func (PageUp) isCommand() {}

// PageDown scrolls the focused scrollable node down by half its height.
type PageDown struct{}

func (PageDown) isCommand() {}

// ScrollTop scrolls the focused scrollable node to its first line.
type ScrollTop struct{}

func (ScrollTop) isCommand() {}

// ScrollBottom scrolls the focused scrollable node to its last page.
type ScrollBottom struct{}

func (ScrollBottom) isCommand() {}

// KeyCommand returns the built-in command bound to a key, or nil.
func KeyCommand(msg KeyMsg) Command {
	switch msg.Key {
	case terminal.KeyTab:
		return FocusNext{}
	case terminal.KeyBacktab:
		return FocusPrev{}
	case terminal.KeyUp:
		return ScrollBy{Lines: -1}
	case terminal.KeyDown:
		return ScrollBy{Lines: 1}
	case terminal.KeyPageUp:
		return PageUp{}
	case terminal.KeyPageDown:
		return PageDown{}
	case terminal.KeyHome:
		return ScrollTop{}
	case terminal.KeyEnd:
		return ScrollBottom{}
	case terminal.KeyCtrlC:
		return Quit{}
	case terminal.KeyCtrlL:
		return Refresh{}
	default:
		return nil
	}
}

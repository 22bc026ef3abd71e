// Package backend defines the terminal backend interface the frame loop
// drives. Swapping tcell (real terminals), a raw ANSI stream, and the tcell
// simulation screen (tests) keeps the pipeline independent of the terminal.
package backend

import "github.com/odvcencio/trellis/pkg/ui/terminal"

//go:generate mockgen -package=runtime -destination=../runtime/mock_backend_test.go github.com/odvcencio/trellis/pkg/ui/backend Backend

// Backend is the terminal abstraction layer.
// Implementations handle terminal I/O, input events, and screen output.
type Backend interface {
	// Init enters raw mode / the alternate screen.
	Init() error

	// Fini restores the terminal to its pre-Init state. Safe to call twice.
	Fini()

	// Size returns the current terminal dimensions.
	Size() (width, height int)

	// SetContent sets a cell at position (x, y) with the given rune and style.
	// The comb parameter contains combining characters (can be nil).
	SetContent(x, y int, mainc rune, comb []rune, style Style)

	// Show synchronizes pending cells to the terminal.
	Show() error

	// Clear clears the screen.
	Clear()

	// HideCursor hides the terminal cursor.
	HideCursor()

	// ShowCursor shows the terminal cursor.
	ShowCursor()

	// PollEvent blocks until an event is available and returns it.
	// Returns nil once the backend is shutting down.
	PollEvent() terminal.Event

	// PostEvent injects an event into the event queue.
	PostEvent(ev terminal.Event) error

	// Sync forces a full redraw on next Show().
	Sync()
}

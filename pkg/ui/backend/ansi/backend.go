// Package ansi implements a backend that writes escape sequences straight to
// a terminal stream. It takes flush writes as-is, so a frame costs exactly
// the bytes its changed cells need.
package ansi

import (
	"io"
	"os"
	"sync"

	"github.com/mattn/go-runewidth"
	"github.com/muesli/termenv"
	"golang.org/x/term"

	"github.com/odvcencio/trellis/pkg/errors"
	"github.com/odvcencio/trellis/pkg/ui/backend"
	"github.com/odvcencio/trellis/pkg/ui/compositor"
	"github.com/odvcencio/trellis/pkg/ui/terminal"
)

const (
	pasteOn  = "\x1b[?2004h"
	pasteOff = "\x1b[?2004l"

	eventBuffer = 256
	fallbackW   = 80
	fallbackH   = 24
)

// Backend drives a terminal through raw escape sequences.
type Backend struct {
	in      io.Reader
	out     io.Writer
	inFd    int // -1 when in is not a terminal
	outFd   int // -1 when out is not a terminal
	encoder *compositor.Encoder
	mouse   bool

	mu            sync.Mutex
	state         *term.State
	width, height int
	canvas, shown *compositor.Buffer
	sync          bool

	events   chan terminal.Event
	quit     chan struct{}
	initOnce sync.Once
	finiOnce sync.Once
}

// Option configures a Backend.
type Option func(*Backend)

// WithProfile overrides the color profile detected from the output.
func WithProfile(p termenv.Profile) Option {
	return func(b *Backend) { b.encoder = compositor.NewEncoder(p) }
}

// WithMouse enables SGR mouse reporting.
func WithMouse(on bool) Option {
	return func(b *Backend) { b.mouse = on }
}

// WithSize sets the size reported when out is not a terminal.
func WithSize(width, height int) Option {
	return func(b *Backend) { b.width, b.height = width, height }
}

// New creates a backend reading input from in and writing to out. Raw mode
// and size queries apply only when they are terminals.
func New(in io.Reader, out io.Writer, opts ...Option) *Backend {
	b := &Backend{
		in:     in,
		out:    out,
		inFd:   terminalFd(in),
		outFd:  terminalFd(out),
		width:  fallbackW,
		height: fallbackH,
		events: make(chan terminal.Event, eventBuffer),
		quit:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.encoder == nil {
		b.encoder = compositor.NewEncoder(termenv.NewOutput(out).EnvColorProfile())
	}
	b.refreshSize()
	b.canvas = compositor.NewBuffer(b.width, b.height)
	b.shown = compositor.NewBuffer(b.width, b.height)
	return b
}

// NewStdio creates a backend on the process's standard streams.
func NewStdio(opts ...Option) *Backend {
	return New(os.Stdin, os.Stdout, opts...)
}

func terminalFd(v any) int {
	f, ok := v.(interface{ Fd() uintptr })
	if !ok {
		return -1
	}
	fd := int(f.Fd())
	if !term.IsTerminal(fd) {
		return -1
	}
	return fd
}

// refreshSize reads the terminal size. Callers hold mu or own b exclusively.
func (b *Backend) refreshSize() bool {
	if b.outFd < 0 {
		return false
	}
	w, h, err := term.GetSize(b.outFd)
	if err != nil || (w == b.width && h == b.height) {
		return false
	}
	b.width, b.height = w, h
	return true
}

// Init switches to raw mode and the alternate screen and starts reading
// input.
func (b *Backend) Init() error {
	var err error
	b.initOnce.Do(func() {
		if b.inFd >= 0 {
			state, rawErr := term.MakeRaw(b.inFd)
			if rawErr != nil {
				err = errors.Wrap(rawErr, errors.ErrCodeTerminalIO, "enter raw mode")
				return
			}
			b.state = state
		}
		seq := compositor.ANSIAltScreen + compositor.ANSIClearScreen + compositor.ANSICursorHome + pasteOn
		if b.mouse {
			seq += compositor.ANSIMouseOn
		}
		if err = b.write(seq); err != nil {
			return
		}
		go b.readInput()
		b.watchResize()
	})
	return err
}

// Fini restores the terminal. PollEvent returns nil afterwards.
func (b *Backend) Fini() {
	b.finiOnce.Do(func() {
		close(b.quit)
		seq := compositor.ANSIReset + pasteOff + compositor.ANSICursorShow + compositor.ANSIMainScreen
		if b.mouse {
			seq = compositor.ANSIMouseOff + seq
		}
		_ = b.write(seq)

		b.mu.Lock()
		defer b.mu.Unlock()
		if b.state != nil {
			_ = term.Restore(b.inFd, b.state)
			b.state = nil
		}
	})
}

// Size returns the terminal dimensions.
func (b *Backend) Size() (width, height int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.width, b.height
}

// resize records a new size and reports it as an event.
func (b *Backend) resize() {
	b.mu.Lock()
	changed := b.refreshSize()
	w, h := b.width, b.height
	if changed {
		b.canvas.Resize(w, h)
		b.shown.Resize(w, h)
		b.sync = true
	}
	b.mu.Unlock()
	if changed {
		_ = b.PostEvent(terminal.ResizeEvent{Width: w, Height: h})
	}
}

// SetContent stages a cell for the next Show.
func (b *Backend) SetContent(x, y int, mainc rune, comb []rune, style backend.Style) {
	cluster := string(mainc) + string(comb)
	b.mu.Lock()
	defer b.mu.Unlock()
	b.canvas.SetCluster(x, y, cluster, runewidth.StringWidth(cluster), style)
}

// Show writes the cells staged since the last Show.
func (b *Backend) Show() error {
	b.mu.Lock()
	var prefix string
	if b.sync {
		prefix = compositor.ANSIClearScreen
		b.shown.Clear()
		b.sync = false
	}
	writes := compositor.Diff(b.canvas, b.shown)
	for _, w := range writes {
		y := w.Y
		w.Each(func(x int, c compositor.Cell) { b.shown.Set(x, y, c) })
	}
	b.mu.Unlock()

	seq := prefix + b.encoder.Encode(writes)
	if seq == "" {
		return nil
	}
	return b.write(seq)
}

// FlushWrites encodes frame writes directly. The caller's front buffer is
// the source of truth for what the terminal shows.
func (b *Backend) FlushWrites(writes []compositor.Write) error {
	return b.write(b.encoder.Encode(writes))
}

// Clear blanks the screen and every staged cell.
func (b *Backend) Clear() {
	b.mu.Lock()
	b.canvas.Clear()
	b.shown.Clear()
	b.mu.Unlock()
	_ = b.write(compositor.ANSIClearScreen)
}

// HideCursor hides the terminal cursor.
func (b *Backend) HideCursor() {
	_ = b.write(compositor.ANSICursorHide)
}

// ShowCursor shows the terminal cursor.
func (b *Backend) ShowCursor() {
	_ = b.write(compositor.ANSICursorShow)
}

// Sync makes the next Show clear the screen and rewrite every cell.
func (b *Backend) Sync() {
	b.mu.Lock()
	b.sync = true
	b.mu.Unlock()
}

// PollEvent blocks for the next input event. It returns nil after Fini.
func (b *Backend) PollEvent() terminal.Event {
	select {
	case <-b.quit:
		return nil
	default:
	}
	select {
	case ev := <-b.events:
		return ev
	case <-b.quit:
		return nil
	}
}

// PostEvent queues an event for PollEvent.
func (b *Backend) PostEvent(ev terminal.Event) error {
	select {
	case <-b.quit:
		return errors.New(errors.ErrCodeTerminalIO, "backend closed")
	default:
	}
	select {
	case b.events <- ev:
		return nil
	default:
		return errors.New(errors.ErrCodeTerminalIO, "event queue full")
	}
}

func (b *Backend) write(s string) error {
	if s == "" {
		return nil
	}
	if _, err := io.WriteString(b.out, s); err != nil {
		return errors.Wrap(err, errors.ErrCodeTerminalIO, "write terminal")
	}
	return nil
}

// readInput decodes input until the reader fails or the backend closes.
// A read blocked on a terminal outlives Fini; its bytes are discarded.
func (b *Backend) readInput() {
	if b.in == nil {
		return
	}
	var dec decoder
	buf := make([]byte, 256)
	for {
		n, err := b.in.Read(buf)
		if n > 0 {
			for _, ev := range dec.feed(buf[:n]) {
				if b.PostEvent(ev) != nil {
					select {
					case <-b.quit:
						return
					default:
					}
				}
			}
		}
		if err != nil {
			return
		}
	}
}

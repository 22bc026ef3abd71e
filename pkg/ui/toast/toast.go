// Package toast keeps a bounded stack of transient notifications and renders
// them as an absolutely positioned overlay.
package toast

import (
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/odvcencio/trellis/pkg/ui/backend"
	"github.com/odvcencio/trellis/pkg/ui/vdom"
)

// Level indicates the severity of a toast.
type Level string

const (
	Info    Level = "info"
	Success Level = "success"
	Warning Level = "warning"
	Error   Level = "error"
)

const (
	DefaultDuration = 4 * time.Second
	DefaultMax      = 5

	// Width is the overlay's column width in cells.
	Width = 32
	// ZIndex places toasts above ordinary overlays.
	ZIndex = 100
)

// Toast is one notification.
type Toast struct {
	ID        string
	Level     Level
	Title     string
	Message   string
	CreatedAt time.Time
}

// Stack manages active toasts. Expiry runs on timers, so OnChange may fire
// from any goroutine.
type Stack struct {
	mu       sync.Mutex
	toasts   []*Toast
	timers   map[string]*time.Timer
	maxCount int
	onChange func()
}

// NewStack creates a stack holding at most max toasts; max <= 0 selects
// DefaultMax.
func NewStack(max int) *Stack {
	if max <= 0 {
		max = DefaultMax
	}
	return &Stack{maxCount: max, timers: make(map[string]*time.Timer)}
}

// OnChange registers fn to run after every show or dismiss.
func (s *Stack) OnChange(fn func()) {
	s.mu.Lock()
	s.onChange = fn
	s.mu.Unlock()
}

// Show adds a toast that dismisses itself after d and returns its ID.
// d <= 0 selects DefaultDuration. The oldest toast is evicted when the
// stack is full.
func (s *Stack) Show(level Level, title, message string, d time.Duration) string {
	if d <= 0 {
		d = DefaultDuration
	}
	t := &Toast{
		ID:        ulid.Make().String(),
		Level:     level,
		Title:     strings.TrimSpace(title),
		Message:   strings.TrimSpace(message),
		CreatedAt: time.Now(),
	}

	s.mu.Lock()
	s.toasts = append(s.toasts, t)
	s.timers[t.ID] = time.AfterFunc(d, func() { s.Dismiss(t.ID) })
	for len(s.toasts) > s.maxCount {
		s.stopTimerLocked(s.toasts[0].ID)
		s.toasts = s.toasts[1:]
	}
	cb := s.onChange
	s.mu.Unlock()

	if cb != nil {
		cb()
	}
	return t.ID
}

// Dismiss removes a toast. Unknown IDs are ignored.
func (s *Stack) Dismiss(id string) {
	s.mu.Lock()
	idx := -1
	for i, t := range s.toasts {
		if t.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return
	}
	s.stopTimerLocked(id)
	s.toasts = append(s.toasts[:idx:idx], s.toasts[idx+1:]...)
	cb := s.onChange
	s.mu.Unlock()

	if cb != nil {
		cb()
	}
}

// Clear dismisses every toast.
func (s *Stack) Clear() {
	s.mu.Lock()
	for id := range s.timers {
		s.stopTimerLocked(id)
	}
	had := len(s.toasts) > 0
	s.toasts = nil
	cb := s.onChange
	s.mu.Unlock()

	if had && cb != nil {
		cb()
	}
}

// Items returns a snapshot of the active toasts, oldest first.
func (s *Stack) Items() []Toast {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Toast, len(s.toasts))
	for i, t := range s.toasts {
		out[i] = *t
	}
	return out
}

func (s *Stack) stopTimerLocked(id string) {
	if timer, ok := s.timers[id]; ok {
		timer.Stop()
		delete(s.timers, id)
	}
}

// View renders the stack anchored to the bottom right of the nearest
// positioned ancestor, newest at the bottom. It returns nil when empty.
func (s *Stack) View() vdom.Node {
	items := s.Items()
	if len(items) == 0 {
		return nil
	}
	boxes := make([]vdom.Node, len(items))
	for i, t := range items {
		boxes[i] = box(t)
	}
	return vdom.NewContainer(vdom.Props{
		Width:    vdom.Fixed(Width),
		Position: vdom.PositionAbsolute,
		Offsets:  vdom.Offsets{Bottom: vdom.Some(1), Right: vdom.Some(1)},
		ZIndex:   ZIndex,
	}, boxes...)
}

func box(t Toast) vdom.Node {
	color := levelColor(t.Level)
	spans := []vdom.Span{{
		Text:  t.Title,
		Style: vdom.TextStyle{FG: vdom.Some(color), Attrs: backend.AttrBold},
	}}
	if t.Message != "" {
		if t.Title != "" {
			spans = append(spans, vdom.Span{Text: " "})
		}
		spans = append(spans, vdom.Span{Text: t.Message})
	}
	return vdom.NewContainer(vdom.Props{
		Width:      vdom.Percent(1),
		Border:     vdom.Border{Style: vdom.BorderRounded, Color: vdom.Some(color)},
		Padding:    vdom.Spacing{Left: 1, Right: 1},
		Background: vdom.Some(backend.ColorBlack),
	}, &vdom.RichText{Spans: spans, WrapMode: vdom.WrapWord})
}

func levelColor(l Level) backend.Color {
	switch l {
	case Success:
		return backend.ColorGreen
	case Warning:
		return backend.ColorYellow
	case Error:
		return backend.ColorRed
	default:
		return backend.ColorCyan
	}
}

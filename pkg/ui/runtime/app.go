// Package runtime drives the render pipeline from a single-threaded loop:
// messages in, one diff, layout, paint and flush pass per frame, writes out.
package runtime

import (
	"context"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"github.com/odvcencio/trellis/pkg/config"
	"github.com/odvcencio/trellis/pkg/errors"
	"github.com/odvcencio/trellis/pkg/logging"
	"github.com/odvcencio/trellis/pkg/telemetry"
	"github.com/odvcencio/trellis/pkg/ui/backend"
	"github.com/odvcencio/trellis/pkg/ui/compositor"
	"github.com/odvcencio/trellis/pkg/ui/theme"
	"github.com/odvcencio/trellis/pkg/ui/vdom"
)

// ViewFunc returns a fresh abstract tree for the current application state.
type ViewFunc func() vdom.Node

// UpdateFunc handles a message and returns true if a render is needed.
type UpdateFunc func(app *App, msg Message) bool

// WriteFlusher is implemented by backends that take flush writes directly
// instead of cell-by-cell SetContent calls.
type WriteFlusher interface {
	FlushWrites(writes []compositor.Write) error
}

// AppConfig configures a runtime App.
type AppConfig struct {
	Backend backend.Backend
	View    ViewFunc
	Update  UpdateFunc
	Theme   *theme.Theme
	// Render defaults to config.DefaultConfig().Render when nil.
	Render   *config.RenderConfig
	TickRate time.Duration
	Logger   *logging.Logger
	Metrics  *telemetry.FrameMetrics
	// OnFrame is called on the loop goroutine after each presented frame.
	OnFrame func(Frame)
}

// App runs a view function against a terminal backend.
type App struct {
	backend  backend.Backend
	view     ViewFunc
	update   UpdateFunc
	theme    *theme.Theme
	render   config.RenderConfig
	tickRate time.Duration
	logger   *logging.Logger
	metrics  *telemetry.FrameMetrics
	onFrame  func(Frame)

	messages chan Message
	dropped  atomic.Uint64
	limiter  *rate.Limiter

	pipeline *Pipeline
	running  bool
	dirty    bool
}

// NewApp creates a new App from config.
func NewApp(cfg AppConfig) *App {
	rc := renderConfig(cfg.Render)
	if rc.MessageBuffer <= 0 {
		rc.MessageBuffer = config.DefaultMessageBuffer
	}
	if rc.PollInterval <= 0 {
		rc.PollInterval = config.DefaultPollInterval
	}
	if rc.WheelStep <= 0 {
		rc.WheelStep = config.DefaultWheelStep
	}

	limit := rate.Inf
	if interval := rc.FrameInterval(); interval > 0 {
		limit = rate.Every(interval)
	}

	update := cfg.Update
	if update == nil {
		update = DefaultUpdate
	}

	return &App{
		backend:  cfg.Backend,
		view:     cfg.View,
		update:   update,
		theme:    cfg.Theme,
		render:   rc,
		tickRate: cfg.TickRate,
		logger:   cfg.Logger,
		metrics:  cfg.Metrics,
		onFrame:  cfg.OnFrame,
		messages: make(chan Message, rc.MessageBuffer),
		limiter:  rate.NewLimiter(limit, 1),
	}
}

// Pipeline returns the active pipeline. It is nil until Run starts and
// must only be used from the loop goroutine (update functions, OnFrame).
func (a *App) Pipeline() *Pipeline {
	return a.pipeline
}

// Post enqueues a message for the loop without blocking. It returns false
// and counts a drop when the queue is full. Safe for concurrent use.
func (a *App) Post(msg Message) bool {
	select {
	case a.messages <- msg:
		return true
	default:
		a.dropped.Add(1)
		a.metrics.MessageDropped()
		return false
	}
}

// Dropped returns how many messages Post has rejected.
func (a *App) Dropped() uint64 {
	return a.dropped.Load()
}

// Run starts the loop and blocks until Quit, a fatal error, or context
// cancellation. The backend is finalized before Run returns.
func (a *App) Run(ctx context.Context) error {
	if a.backend == nil {
		return errors.New(errors.ErrCodeInvalidInput, "backend is required")
	}
	if a.view == nil {
		return errors.New(errors.ErrCodeInvalidInput, "view is required")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if err := a.backend.Init(); err != nil {
		return errors.Wrap(err, errors.ErrCodeTerminalIO, "init backend")
	}
	defer a.backend.Fini()
	done := make(chan struct{})
	defer close(done)

	a.backend.HideCursor()
	w, h := a.backend.Size()
	a.pipeline = NewPipeline(PipelineConfig{
		Width:   w,
		Height:  h,
		Theme:   a.theme,
		Render:  &a.render,
		Logger:  a.logger,
		Metrics: a.metrics,
	})
	a.logger.Info(logging.CategoryLoop, "start", "render loop started", map[string]any{
		"width":  w,
		"height": h,
	})

	go a.pollEvents(done)

	var ticks <-chan time.Time
	if a.tickRate > 0 {
		ticker := time.NewTicker(a.tickRate)
		defer ticker.Stop()
		ticks = ticker.C
	}

	a.running = true
	a.dirty = true
	for a.running {
		if a.dirty && a.limiter.Allow() {
			if err := a.renderFrame(); err != nil {
				return a.fail(err)
			}
			a.dirty = false
		}

		wait := a.render.PollInterval
		if a.dirty {
			// A frame was deferred by the rate limit.
			wait = min(wait, a.render.FrameInterval())
		}
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			a.running = false
		case msg := <-a.messages:
			a.handle(msg)
			a.drain()
		case now := <-ticks:
			a.handle(TickMsg{Time: now})
		case <-timer.C:
		}
		timer.Stop()
	}

	a.logger.Info(logging.CategoryLoop, "stop", "render loop stopped", map[string]any{
		"dropped": a.Dropped(),
	})
	return ctx.Err()
}

// drain handles every queued message without waiting.
func (a *App) drain() {
	for a.running {
		select {
		case msg := <-a.messages:
			a.handle(msg)
		default:
			return
		}
	}
}

func (a *App) handle(msg Message) {
	if _, ok := msg.(QuitMsg); ok {
		a.running = false
		return
	}
	if a.update(a, msg) {
		a.dirty = true
	}
}

// DefaultUpdate applies the built-in routing: resize, focus traversal,
// keyboard and wheel scrolling, click to focus.
func DefaultUpdate(app *App, msg Message) bool {
	if app == nil || app.pipeline == nil {
		return false
	}
	return app.Route(msg)
}

func (a *App) renderFrame() error {
	frame, err := a.pipeline.Frame(a.view())
	if err != nil {
		return err
	}
	if err := a.present(frame.Writes); err != nil {
		return err
	}
	if a.onFrame != nil {
		a.onFrame(frame)
	}
	return nil
}

// present hands writes to the backend.
func (a *App) present(writes []compositor.Write) error {
	if wf, ok := a.backend.(WriteFlusher); ok {
		if err := wf.FlushWrites(writes); err != nil {
			return errors.Wrap(err, errors.ErrCodeTerminalIO, "flush writes")
		}
		return nil
	}
	if len(writes) == 0 {
		return nil
	}
	for _, w := range writes {
		y := w.Y
		w.Each(func(x int, c compositor.Cell) {
			a.backend.SetContent(x, y, c.Rune, combining(c), c.Style)
		})
	}
	if err := a.backend.Show(); err != nil {
		return errors.Wrap(err, errors.ErrCodeTerminalIO, "show frame")
	}
	return nil
}

func combining(c compositor.Cell) []rune {
	if c.Comb == "" {
		return nil
	}
	return []rune(c.Comb)
}

func (a *App) fail(err error) error {
	code := errors.GetCode(err)
	a.metrics.Fatal(string(code))
	a.logger.Error(logging.CategoryLoop, "fatal", err.Error(), map[string]any{
		"code": string(code),
	})
	return err
}

func (a *App) pollEvents(done <-chan struct{}) {
	for {
		select {
		case <-done:
			return
		default:
		}

		ev := a.backend.PollEvent()
		if ev == nil {
			select {
			case <-done:
				return
			default:
				continue
			}
		}
		if msg, ok := fromEvent(ev); ok {
			a.Post(msg)
		}
	}
}

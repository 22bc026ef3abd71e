package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/odvcencio/trellis/pkg/config"
	"github.com/odvcencio/trellis/pkg/logging"
	"github.com/odvcencio/trellis/pkg/telemetry"
	"github.com/odvcencio/trellis/pkg/ui/backend"
	"github.com/odvcencio/trellis/pkg/ui/runtime"
	"github.com/odvcencio/trellis/pkg/ui/terminal"
	"github.com/odvcencio/trellis/pkg/ui/theme"
	"github.com/odvcencio/trellis/pkg/ui/toast"
	"github.com/odvcencio/trellis/pkg/ui/vdom"
)

const (
	maxLogLines     = 500
	produceInterval = 400 * time.Millisecond
	shutdownTimeout = 2 * time.Second
)

func newDemoCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Run the interactive demo: a counter, a live log and an overlay",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDemo(cmd.Context(), opts)
		},
	}
}

func runDemo(ctx context.Context, opts *rootOptions) error {
	cfg, err := opts.load()
	if err != nil {
		return err
	}
	th, err := theme.FromConfig(cfg.Theme)
	if err != nil {
		return err
	}
	logger, err := openLogger(cfg.Logging)
	if err != nil {
		return err
	}
	defer logger.Close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	metrics := telemetry.NewFrameMetrics(reg)

	be, err := newBackend(opts.backend)
	if err != nil {
		return err
	}

	model := newDemoModel()
	app := runtime.NewApp(runtime.AppConfig{
		Backend:  be,
		View:     model.view,
		Update:   model.update,
		Theme:    th,
		Render:   &cfg.Render,
		TickRate: time.Second,
		Logger:   logger,
		Metrics:  metrics,
	})
	model.toasts.OnChange(func() { app.Post(runtime.AppMsg{Payload: toastsChanged{}}) })
	defer model.toasts.Clear()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	g, ctx := errgroup.WithContext(ctx)
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	g.Go(func() error {
		defer cancel()
		return app.Run(runCtx)
	})
	g.Go(func() error {
		return produce(runCtx, app, produceInterval)
	})
	if cfg.Metrics.Enabled {
		serveMetrics(runCtx, g, cfg.Metrics.Addr, reg)
	}
	if opts.configPath != "" {
		g.Go(func() error {
			return config.Watch(runCtx, opts.configPath, 0, func(next *config.Config, err error) {
				reloadTheme(app, logger, next, err)
			})
		})
	}

	if err := g.Wait(); err != nil && !stderrors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func openLogger(cfg config.LoggingConfig) (*logging.Logger, error) {
	if !cfg.Enabled {
		return nil, nil
	}
	logger, err := logging.NewLogger(cfg.Dir, "")
	if err != nil {
		return nil, err
	}
	logger.SetMinLevel(logging.ParseLevel(cfg.Level))
	return logger, nil
}

// serveMetrics exposes reg until ctx ends.
func serveMetrics(ctx context.Context, g *errgroup.Group, addr string, reg *prometheus.Registry) {
	srv := &http.Server{
		Addr:              addr,
		Handler:           promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		ReadHeaderTimeout: 5 * time.Second,
	}
	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
}

// reloadTheme posts the theme from a reloaded config. Bad reloads are
// logged and the running theme is kept.
func reloadTheme(app *runtime.App, logger *logging.Logger, next *config.Config, err error) {
	var th *theme.Theme
	if err == nil {
		th, err = theme.FromConfig(next.Theme)
	}
	if err != nil {
		_ = logger.Warn(logging.CategoryConfig, "reload_failed", "config reload rejected", map[string]any{
			"error": err.Error(),
		})
		return
	}
	app.Post(runtime.AppMsg{Payload: themeReloaded{th}})
}

// themeReloaded carries a theme rebuilt after the config file changed.
type themeReloaded struct {
	theme *theme.Theme
}

// logLine is a log entry posted by the background producer.
type logLine string

// toastsChanged is posted when a toast appears or expires.
type toastsChanged struct{}

// produce posts a log line every interval until ctx ends.
func produce(ctx context.Context, app *runtime.App, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for n := 1; ; n++ {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			app.Post(runtime.AppMsg{Payload: logLine(fmt.Sprintf("%s event #%d", now.Format("15:04:05.000"), n))})
		}
	}
}

// demoModel is the demo's application state. It is only touched from the
// loop goroutine.
type demoModel struct {
	count   int
	lines   []string
	overlay bool
	now     time.Time
	toasts  *toast.Stack
}

func newDemoModel() *demoModel {
	return &demoModel{now: time.Now(), toasts: toast.NewStack(3)}
}

func (m *demoModel) update(app *runtime.App, msg runtime.Message) bool {
	switch msg := msg.(type) {
	case runtime.KeyMsg:
		if msg.Key == terminal.KeyRune {
			switch msg.Rune {
			case '+', '=':
				m.count++
				return true
			case '-':
				m.count--
				return true
			case 'o':
				m.overlay = !m.overlay
				return true
			case 'n':
				m.toasts.Show(toast.Info, "count", fmt.Sprintf("is %d", m.count), 0)
				return false
			case 'q':
				return app.Dispatch(runtime.Quit{})
			}
		}
	case runtime.AppMsg:
		switch p := msg.Payload.(type) {
		case logLine:
			m.appendLine(string(p))
			return true
		case toastsChanged:
			return true
		case themeReloaded:
			m.toasts.Show(toast.Success, "config", "theme reloaded", 0)
			return app.Dispatch(runtime.SetTheme{Theme: p.theme})
		}
	case runtime.TickMsg:
		m.now = msg.Time
	}
	return runtime.DefaultUpdate(app, msg)
}

func (m *demoModel) appendLine(line string) {
	m.lines = append(m.lines, line)
	if over := len(m.lines) - maxLogLines; over > 0 {
		m.lines = append(m.lines[:0], m.lines[over:]...)
	}
}

var (
	accent = vdom.Some(backend.ColorCyan)
	muted  = vdom.Some(backend.ColorBrightBlack)
)

func (m *demoModel) view() vdom.Node {
	header := &vdom.RichText{Spans: []vdom.Span{
		{Text: "trellis", Style: vdom.TextStyle{FG: accent, Attrs: backend.AttrBold}},
		{Text: " demo  "},
		{Text: m.now.Format("15:04:05"), Style: vdom.TextStyle{FG: muted}},
	}}

	counter := vdom.NewContainer(vdom.Props{
		Border:    vdom.Border{Style: vdom.BorderRounded},
		Padding:   vdom.Spacing{Left: 1, Right: 1},
		Focusable: true,
	}, vdom.NewText(fmt.Sprintf("count %d", m.count)))

	lines := make([]vdom.Node, len(m.lines))
	for i, l := range m.lines {
		lines[i] = vdom.NewText(l)
	}
	if len(lines) == 0 {
		lines = append(lines, &vdom.Text{Content: "waiting for events", Style: vdom.TextStyle{FG: muted}})
	}
	log := vdom.NewContainer(vdom.Props{
		Width:     vdom.Percent(1),
		Height:    vdom.Auto(),
		Border:    vdom.Border{Style: vdom.BorderSingle},
		Overflow:  vdom.OverflowScroll,
		Focusable: true,
	}, lines...)

	footer := &vdom.Text{
		Content: "+/- count  o overlay  n notify  tab focus  ↑↓ scroll  q quit",
		Style:   vdom.TextStyle{FG: muted},
	}

	children := []vdom.Node{header, counter, log, footer}
	if m.overlay {
		children = append(children, m.overlayBox())
	}
	if toasts := m.toasts.View(); toasts != nil {
		children = append(children, toasts)
	}
	return vdom.NewContainer(vdom.Props{
		Width:    vdom.Percent(1),
		Height:   vdom.Percent(1),
		Position: vdom.PositionRelative,
	}, children...)
}

func (m *demoModel) overlayBox() vdom.Node {
	return vdom.NewContainer(vdom.Props{
		Width:      vdom.Fixed(28),
		Height:     vdom.Fixed(5),
		Position:   vdom.PositionAbsolute,
		Offsets:    vdom.Offsets{Top: vdom.Some(1), Right: vdom.Some(2)},
		ZIndex:     10,
		Background: vdom.Some(backend.ColorBlue),
		Border:     vdom.Border{Style: vdom.BorderDouble, Color: vdom.Some(backend.ColorBrightWhite)},
		Padding:    vdom.Spacing{Top: 1},
	}, &vdom.Text{
		Content: fmt.Sprintf("%d events", len(m.lines)),
		Align:   vdom.AlignCenter,
		Props:   vdom.Props{Width: vdom.Percent(1)},
	})
}

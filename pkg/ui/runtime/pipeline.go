package runtime

import (
	"time"

	"github.com/odvcencio/trellis/pkg/config"
	"github.com/odvcencio/trellis/pkg/errors"
	"github.com/odvcencio/trellis/pkg/logging"
	"github.com/odvcencio/trellis/pkg/telemetry"
	"github.com/odvcencio/trellis/pkg/ui/compositor"
	"github.com/odvcencio/trellis/pkg/ui/diff"
	"github.com/odvcencio/trellis/pkg/ui/layout"
	"github.com/odvcencio/trellis/pkg/ui/rendertree"
	"github.com/odvcencio/trellis/pkg/ui/theme"
	"github.com/odvcencio/trellis/pkg/ui/vdom"
)

// PipelineConfig configures a Pipeline.
type PipelineConfig struct {
	Width, Height int
	Theme         *theme.Theme
	// Render defaults to config.DefaultConfig().Render when nil.
	Render  *config.RenderConfig
	Logger  *logging.Logger
	Metrics *telemetry.FrameMetrics
}

// Frame is the outcome of one pass through the pipeline.
type Frame struct {
	Number   uint64
	Patches  []diff.Patch
	Relayout bool
	Writes   []compositor.Write
}

// Pipeline turns successive abstract trees into terminal writes:
// diff, apply, layout, paint, flush. It is not safe for concurrent use.
type Pipeline struct {
	prev     vdom.Node
	tree     *rendertree.Tree
	resolver *layout.Resolver
	screen   *compositor.Screen
	painter  *compositor.Painter
	logger   *logging.Logger
	metrics  *telemetry.FrameMetrics

	width, height int
	resized       bool
	frame         uint64
}

// NewPipeline creates a pipeline for a width×height terminal that is
// assumed to be blank.
func NewPipeline(cfg PipelineConfig) *Pipeline {
	rc := renderConfig(cfg.Render)
	painter := compositor.NewPainter(cfg.Theme)
	painter.ShowScrollbars = rc.ShowScrollbars

	screen := compositor.NewScreen(max(cfg.Width, 0), max(cfg.Height, 0))
	screen.SetForceFull(!rc.DoubleBuffering || !rc.CellDiffing)

	return &Pipeline{
		tree:     rendertree.New(),
		resolver: layout.NewResolver(),
		screen:   screen,
		painter:  painter,
		logger:   cfg.Logger,
		metrics:  cfg.Metrics,
		width:    cfg.Width,
		height:   cfg.Height,
	}
}

func renderConfig(rc *config.RenderConfig) config.RenderConfig {
	if rc == nil {
		return config.DefaultConfig().Render
	}
	return *rc
}

// Tree returns the render tree. It reflects the last completed frame.
func (p *Pipeline) Tree() *rendertree.Tree { return p.tree }

// Screen returns the double-buffered screen.
func (p *Pipeline) Screen() *compositor.Screen { return p.screen }

// Size returns the viewport size used for layout.
func (p *Pipeline) Size() (width, height int) { return p.width, p.height }

// Resize changes the viewport. The next frame re-runs layout and rewrites
// every cell. A negative size fails that frame.
func (p *Pipeline) Resize(width, height int) bool {
	if width == p.width && height == p.height {
		return false
	}
	p.width, p.height = width, height
	p.screen.Resize(max(width, 0), max(height, 0))
	p.resized = true
	p.logger.Info(logging.CategoryLayout, "resize", "viewport resized", map[string]any{
		"width":  width,
		"height": height,
	})
	return true
}

// SetTheme changes the chrome styles from the next frame on. Only cells
// whose style changes are rewritten. nil selects the default theme.
func (p *Pipeline) SetTheme(th *theme.Theme) {
	if th == nil {
		th = theme.DefaultTheme()
	}
	p.painter.Theme = th
}

// Invalidate makes the next frame rewrite every cell.
func (p *Pipeline) Invalidate() {
	p.screen.Invalidate()
}

// NodeAt returns the node painted at a screen cell in the last frame.
func (p *Pipeline) NodeAt(x, y int) rendertree.NodeID {
	return p.painter.Hits().NodeAt(x, y)
}

// Frame renders next. next must be a fresh tree: it is compared against
// the previous one and must not be mutated afterwards by the caller. Errors
// abort the frame; they are structural and leave the pipeline unusable.
func (p *Pipeline) Frame(next vdom.Node) (Frame, error) {
	start := time.Now()
	p.frame++
	p.logger.SetFrame(p.frame)
	out := Frame{Number: p.frame}

	if next != nil {
		if err := vdom.Validate(next); err != nil {
			return out, p.abort(logging.CategoryDiff, err)
		}
	}

	out.Patches = diff.Diff(p.prev, next)
	if err := p.tree.ApplyAll(out.Patches); err != nil {
		return out, p.abort(logging.CategoryDiff, err)
	}
	p.prev = vdom.Clone(next)
	if len(out.Patches) > 0 {
		p.logger.Debug(logging.CategoryDiff, "patches", "applied patches", patchDetails(out.Patches))
	}

	if p.tree.NeedsLayout() || p.resized {
		if err := p.resolver.Resolve(p.tree, p.width, p.height); err != nil {
			return out, p.abort(logging.CategoryLayout, err)
		}
		out.Relayout = true
		p.resized = false
	}

	p.painter.Paint(p.tree, p.screen.Back())
	out.Writes = p.screen.Flush()

	cells := compositor.CellCount(out.Writes)
	elapsed := time.Since(start)
	p.metrics.ObserveFrame(out.Patches, len(out.Writes), cells, elapsed)
	p.logger.Debug(logging.CategoryFlush, "flush", "frame flushed", map[string]any{
		"writes":   len(out.Writes),
		"cells":    cells,
		"relayout": out.Relayout,
		"elapsed":  elapsed.String(),
	})
	return out, nil
}

func (p *Pipeline) abort(category logging.Category, err error) error {
	p.logger.Error(category, "frame_aborted", err.Error(), map[string]any{
		"code": string(errors.GetCode(err)),
	})
	return err
}

func patchDetails(patches []diff.Patch) map[string]any {
	details := map[string]any{"count": len(patches)}
	for op, n := range diff.Counts(patches) {
		details[op.String()] = n
	}
	return details
}

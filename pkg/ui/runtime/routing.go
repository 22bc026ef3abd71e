package runtime

import (
	"github.com/odvcencio/trellis/pkg/logging"
	"github.com/odvcencio/trellis/pkg/ui/rendertree"
	"github.com/odvcencio/trellis/pkg/ui/terminal"
)

// Route applies the built-in handling for msg and reports whether the
// screen needs a new frame.
func (a *App) Route(msg Message) bool {
	switch m := msg.(type) {
	case ResizeMsg:
		a.pipeline.Resize(m.Width, m.Height)
		return true
	case KeyMsg:
		if cmd := KeyCommand(m); cmd != nil {
			return a.Dispatch(cmd)
		}
		return false
	case MouseMsg:
		return a.routeMouse(m)
	case TickMsg:
		return true
	default:
		return false
	}
}

// Dispatch applies cmd and reports whether the screen needs a new frame.
func (a *App) Dispatch(cmd Command) bool {
	tree := a.pipeline.Tree()
	switch c := cmd.(type) {
	case Quit:
		a.running = false
		return false
	case Refresh:
		a.pipeline.Invalidate()
		return true
	case SetTheme:
		a.theme = c.Theme
		a.pipeline.SetTheme(c.Theme)
		return true
	case FocusNext:
		return a.logFocus(tree.FocusNext())
	case FocusPrev:
		return a.logFocus(tree.FocusPrev())
	case ScrollBy:
		return a.scrollFocused(func(id rendertree.NodeID) bool {
			return tree.ScrollBy(id, c.Lines)
		})
	case PageUp:
		return a.scrollFocused(func(id rendertree.NodeID) bool {
			return tree.ScrollBy(id, -halfPage(tree.Node(id)))
		})
	case PageDown:
		return a.scrollFocused(func(id rendertree.NodeID) bool {
			return tree.ScrollBy(id, halfPage(tree.Node(id)))
		})
	case ScrollTop:
		return a.scrollFocused(tree.ScrollToTop)
	case ScrollBottom:
		return a.scrollFocused(tree.ScrollToBottom)
	default:
		return false
	}
}

func halfPage(n *rendertree.Node) int {
	return max(1, n.ContentRect().Height/2)
}

// scrollFocused scrolls the focused node or its nearest scrollable
// ancestor.
func (a *App) scrollFocused(scroll func(rendertree.NodeID) bool) bool {
	tree := a.pipeline.Tree()
	target := tree.ScrollableAncestor(tree.Focused())
	if target == rendertree.InvalidID {
		return false
	}
	return scroll(target)
}

func (a *App) logFocus(changed bool) bool {
	if changed {
		path, _ := a.pipeline.Tree().FocusedPath()
		a.logger.Debug(logging.CategoryInput, "focus", "focus moved", map[string]any{
			"path": path.String(),
		})
	}
	return changed
}

// routeMouse scrolls on wheel and focuses on left click, both against the
// node hit in the last frame.
func (a *App) routeMouse(m MouseMsg) bool {
	id := a.pipeline.NodeAt(m.X, m.Y)
	if id == rendertree.InvalidID {
		return false
	}
	tree := a.pipeline.Tree()

	switch {
	case m.Button.IsWheel():
		target := tree.ScrollableAncestor(id)
		if target == rendertree.InvalidID {
			return false
		}
		step := a.render.WheelStep
		if m.Button == terminal.MouseWheelUp {
			step = -step
		}
		return tree.ScrollBy(target, step)
	case m.Button == terminal.MouseLeft && m.Action == terminal.MousePress:
		for n := tree.Node(id); n != nil; n = tree.Node(n.Parent) {
			if n.Props.Focusable {
				return a.logFocus(tree.SetFocus(n.ID))
			}
		}
		return false
	default:
		return false
	}
}

package runtime

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odvcencio/trellis/pkg/ui/backend"
	"github.com/odvcencio/trellis/pkg/ui/compositor"
	"github.com/odvcencio/trellis/pkg/ui/diff"
	"github.com/odvcencio/trellis/pkg/ui/rendertree"
	"github.com/odvcencio/trellis/pkg/ui/terminal"
	"github.com/odvcencio/trellis/pkg/ui/theme"
	"github.com/odvcencio/trellis/pkg/ui/vdom"
)

// routedView is a 4-row scrollable list of 10 lines over a focusable
// button.
func routedView() vdom.Node {
	lines := make([]vdom.Node, 10)
	for i := range lines {
		lines[i] = vdom.NewText(fmt.Sprintf("line %d", i))
	}
	return vdom.NewContainer(vdom.Props{},
		vdom.NewContainer(vdom.Props{
			Height:    vdom.Fixed(4),
			Overflow:  vdom.OverflowScroll,
			Focusable: true,
		}, lines...),
		vdom.NewContainer(vdom.Props{Focusable: true}, vdom.NewText("ok")),
	)
}

func newRoutedApp(t *testing.T) (*App, rendertree.NodeID, rendertree.NodeID) {
	t.Helper()
	app := NewApp(AppConfig{Render: unlimited()})
	app.pipeline = NewPipeline(PipelineConfig{Width: 20, Height: 6})
	app.running = true
	_, err := app.pipeline.Frame(routedView())
	require.NoError(t, err)

	tree := app.pipeline.Tree()
	list, ok := tree.NodeAtPath(diff.Path{0})
	require.True(t, ok)
	button, ok := tree.NodeAtPath(diff.Path{1})
	require.True(t, ok)
	require.True(t, list.Scrollable)
	return app, list.ID, button.ID
}

func scrollOf(t *testing.T, app *App, id rendertree.NodeID) int {
	t.Helper()
	g, ok := app.pipeline.Tree().Geometry(id)
	require.True(t, ok)
	return g.ScrollY
}

func key(k terminal.Key) KeyMsg { return KeyMsg{Key: k} }

func TestRouteFocusTraversal(t *testing.T) {
	app, list, button := newRoutedApp(t)
	tree := app.pipeline.Tree()

	assert.True(t, app.Route(key(terminal.KeyTab)))
	assert.Equal(t, list, tree.Focused())
	assert.True(t, app.Route(key(terminal.KeyTab)))
	assert.Equal(t, button, tree.Focused())
	assert.True(t, app.Route(key(terminal.KeyTab)))
	assert.Equal(t, list, tree.Focused())
	assert.True(t, app.Route(key(terminal.KeyBacktab)))
	assert.Equal(t, button, tree.Focused())
}

func TestRouteKeyboardScrolling(t *testing.T) {
	app, list, _ := newRoutedApp(t)

	// Nothing focused.
	assert.False(t, app.Route(key(terminal.KeyDown)))

	require.True(t, app.Route(key(terminal.KeyTab)))
	steps := []struct {
		key     terminal.Key
		changed bool
		scrollY int
	}{
		{terminal.KeyUp, false, 0},
		{terminal.KeyDown, true, 1},
		{terminal.KeyPageDown, true, 3},
		{terminal.KeyEnd, true, 6},
		{terminal.KeyDown, false, 6},
		{terminal.KeyPageUp, true, 4},
		{terminal.KeyHome, true, 0},
		{terminal.KeyHome, false, 0},
	}
	for _, s := range steps {
		assert.Equal(t, s.changed, app.Route(key(s.key)), s.key.String())
		assert.Equal(t, s.scrollY, scrollOf(t, app, list), s.key.String())
	}
}

func TestRouteScrollFromNonScrollingFocus(t *testing.T) {
	app, list, button := newRoutedApp(t)
	require.True(t, app.pipeline.Tree().SetFocus(button))
	assert.False(t, app.Route(key(terminal.KeyDown)))
	assert.Zero(t, scrollOf(t, app, list))
}

func TestRouteWheel(t *testing.T) {
	app, list, _ := newRoutedApp(t)

	assert.True(t, app.Route(MouseMsg{X: 0, Y: 1, Button: terminal.MouseWheelDown, Action: terminal.MousePress}))
	assert.Equal(t, 3, scrollOf(t, app, list))
	assert.True(t, app.Route(MouseMsg{X: 0, Y: 1, Button: terminal.MouseWheelUp, Action: terminal.MousePress}))
	assert.Zero(t, scrollOf(t, app, list))

	// Outside the list.
	assert.False(t, app.Route(MouseMsg{X: 0, Y: 4, Button: terminal.MouseWheelDown, Action: terminal.MousePress}))
	// Outside every node.
	assert.False(t, app.Route(MouseMsg{X: 19, Y: 5, Button: terminal.MouseWheelDown, Action: terminal.MousePress}))
}

func TestRouteClickFocuses(t *testing.T) {
	app, list, button := newRoutedApp(t)
	tree := app.pipeline.Tree()

	click := func(x, y int) bool {
		return app.Route(MouseMsg{X: x, Y: y, Button: terminal.MouseLeft, Action: terminal.MousePress})
	}
	assert.True(t, click(0, 4))
	assert.Equal(t, button, tree.Focused())
	assert.False(t, click(1, 4))
	assert.True(t, click(0, 2))
	assert.Equal(t, list, tree.Focused())

	assert.False(t, app.Route(MouseMsg{X: 0, Y: 4, Button: terminal.MouseLeft, Action: terminal.MouseRelease}))
	assert.Equal(t, list, tree.Focused())
}

func TestRouteQuitAndRefresh(t *testing.T) {
	app, _, _ := newRoutedApp(t)

	assert.True(t, app.Route(key(terminal.KeyCtrlL)))
	f, err := app.pipeline.Frame(routedView())
	require.NoError(t, err)
	assert.Equal(t, 20*6, compositor.CellCount(f.Writes))

	assert.False(t, app.Route(key(terminal.KeyCtrlC)))
	assert.False(t, app.running)
}

func TestRouteResizeAndTick(t *testing.T) {
	app, _, _ := newRoutedApp(t)

	assert.True(t, app.Route(ResizeMsg{Width: 30, Height: 10}))
	w, h := app.pipeline.Size()
	assert.Equal(t, 30, w)
	assert.Equal(t, 10, h)

	assert.True(t, app.Route(TickMsg{}))
	assert.False(t, app.Route(PasteMsg{Text: "x"}))
	assert.False(t, app.Route(key(terminal.KeyRune)))
}

func TestDefaultUpdateWithoutPipeline(t *testing.T) {
	app := NewApp(AppConfig{})
	assert.False(t, DefaultUpdate(app, key(terminal.KeyTab)))
	assert.False(t, DefaultUpdate(nil, key(terminal.KeyTab)))
}

func TestKeyCommand(t *testing.T) {
	tests := []struct {
		key  terminal.Key
		want Command
	}{
		{terminal.KeyTab, FocusNext{}},
		{terminal.KeyBacktab, FocusPrev{}},
		{terminal.KeyUp, ScrollBy{Lines: -1}},
		{terminal.KeyDown, ScrollBy{Lines: 1}},
		{terminal.KeyPageUp, PageUp{}},
		{terminal.KeyPageDown, PageDown{}},
		{terminal.KeyHome, ScrollTop{}},
		{terminal.KeyEnd, ScrollBottom{}},
		{terminal.KeyCtrlC, Quit{}},
		{terminal.KeyCtrlL, Refresh{}},
		{terminal.KeyEnter, nil},
		{terminal.KeyRune, nil},
	}
	for _, tt := range tests {
		t.Run(tt.key.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, KeyCommand(key(tt.key)))
		})
	}
}

func TestDispatchSetTheme(t *testing.T) {
	app, _, _ := newRoutedApp(t)
	red := theme.DefaultTheme()
	red.Scrollbar = backend.DefaultStyle().Foreground(backend.ColorRed)
	red.ScrollThumb = red.Scrollbar

	assert.True(t, app.Dispatch(SetTheme{Theme: red}))
	assert.Same(t, red, app.theme)

	f, err := app.pipeline.Frame(routedView())
	require.NoError(t, err)
	assert.Empty(t, f.Patches)
	require.NotEmpty(t, f.Writes)
	for _, w := range f.Writes {
		assert.Equal(t, backend.ColorRed, w.Style.FG())
	}

	assert.True(t, app.Dispatch(SetTheme{}))
	f, err = app.pipeline.Frame(routedView())
	require.NoError(t, err)
	require.NotEmpty(t, f.Writes)
	for _, w := range f.Writes {
		assert.NotEqual(t, backend.ColorRed, w.Style.FG())
	}
}

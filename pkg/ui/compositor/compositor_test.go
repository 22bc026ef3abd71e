package compositor

import (
	"strings"
	"testing"

	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odvcencio/trellis/pkg/ui/backend"
	"github.com/odvcencio/trellis/pkg/ui/diff"
	"github.com/odvcencio/trellis/pkg/ui/layout"
	"github.com/odvcencio/trellis/pkg/ui/rendertree"
	"github.com/odvcencio/trellis/pkg/ui/theme"
	"github.com/odvcencio/trellis/pkg/ui/vdom"
)

func TestBufferWideCharacters(t *testing.T) {
	b := NewBuffer(4, 1)
	b.SetRune(0, 0, '世', backend.DefaultStyle())

	if got := b.Get(0, 0); got.Width != 2 || got.Rune != '世' {
		t.Fatalf("head = %+v, want wide 世", got)
	}
	if !b.Get(1, 0).Continuation() {
		t.Fatalf("cell 1 should be a continuation")
	}

	// Overwriting the continuation blanks the head.
	b.SetRune(1, 0, 'a', backend.DefaultStyle())
	if got := b.Get(0, 0); got.Rune != ' ' || got.Width != 1 {
		t.Errorf("head after overwrite = %+v, want blank", got)
	}

	// A wide rune that would hang off the edge becomes a space.
	b.SetRune(3, 0, '界', backend.DefaultStyle())
	if got := b.Get(3, 0); got.Rune != ' ' || got.Width != 1 {
		t.Errorf("edge cell = %+v, want blank", got)
	}
}

func TestBufferSetString(t *testing.T) {
	b := NewBuffer(6, 1)
	n := b.SetString(0, 0, "a世b", backend.DefaultStyle())
	if n != 4 {
		t.Errorf("advanced %d columns, want 4", n)
	}
	if got := b.String(); got != "a世b  \n" {
		t.Errorf("String() = %q", got)
	}
}

func TestBufferOutOfBounds(t *testing.T) {
	b := NewBuffer(2, 2)
	b.SetRune(-1, 0, 'x', backend.DefaultStyle())
	b.SetRune(2, 0, 'x', backend.DefaultStyle())
	b.SetRune(0, 5, 'x', backend.DefaultStyle())
	if got := b.String(); got != "  \n  \n" {
		t.Errorf("out of bounds writes landed: %q", got)
	}
	if !b.Get(9, 9).Empty() {
		t.Errorf("out of bounds Get should return an empty cell")
	}
}

func TestDiffIdentical(t *testing.T) {
	a, b := NewBuffer(5, 2), NewBuffer(5, 2)
	a.SetString(0, 0, "hello", backend.DefaultStyle())
	b.SetString(0, 0, "hello", backend.DefaultStyle())
	if writes := Diff(a, b); len(writes) != 0 {
		t.Errorf("identical buffers produced %d writes", len(writes))
	}
}

func TestDiffRuns(t *testing.T) {
	red := backend.DefaultStyle().Foreground(backend.ColorRed)
	blue := backend.DefaultStyle().Foreground(backend.ColorBlue)

	tests := []struct {
		name  string
		paint func(b *Buffer)
		want  []Write
	}{
		{
			name:  "single run",
			paint: func(b *Buffer) { b.SetString(1, 0, "ab", red) },
			want:  []Write{{X: 1, Y: 0, Style: red, Text: "ab", Cells: 2}},
		},
		{
			name: "style change splits",
			paint: func(b *Buffer) {
				b.SetString(0, 0, "ab", red)
				b.SetString(2, 0, "cd", blue)
			},
			want: []Write{
				{X: 0, Y: 0, Style: red, Text: "ab", Cells: 2},
				{X: 2, Y: 0, Style: blue, Text: "cd", Cells: 2},
			},
		},
		{
			name: "unchanged gap splits",
			paint: func(b *Buffer) {
				b.SetString(0, 0, "a", red)
				b.SetString(3, 0, "b", red)
			},
			want: []Write{
				{X: 0, Y: 0, Style: red, Text: "a", Cells: 1},
				{X: 3, Y: 0, Style: red, Text: "b", Cells: 1},
			},
		},
		{
			name: "rows never merge",
			paint: func(b *Buffer) {
				b.SetString(4, 0, "x", red)
				b.SetString(0, 1, "y", red)
			},
			want: []Write{
				{X: 4, Y: 0, Style: red, Text: "x", Cells: 1},
				{X: 0, Y: 1, Style: red, Text: "y", Cells: 1},
			},
		},
		{
			name:  "wide character",
			paint: func(b *Buffer) { b.SetString(0, 0, "世", red) },
			want:  []Write{{X: 0, Y: 0, Style: red, Text: "世", Cells: 2}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			back, front := NewBuffer(5, 2), NewBuffer(5, 2)
			tt.paint(back)
			got := Diff(back, front)
			require.Len(t, got, len(tt.want))
			for i := range got {
				assert.Equal(t, tt.want[i].X, got[i].X, "write %d X", i)
				assert.Equal(t, tt.want[i].Y, got[i].Y, "write %d Y", i)
				assert.Equal(t, tt.want[i].Style, got[i].Style, "write %d style", i)
				assert.Equal(t, tt.want[i].Text, got[i].Text, "write %d text", i)
				assert.Equal(t, tt.want[i].Cells, got[i].Cells, "write %d cells", i)
			}
		})
	}
}

func TestDiffContinuationChange(t *testing.T) {
	back, front := NewBuffer(3, 1), NewBuffer(3, 1)
	front.SetString(0, 0, "世", backend.DefaultStyle())
	back.SetString(0, 0, "世", backend.DefaultStyle())
	back.SetRune(1, 0, 'x', backend.DefaultStyle())

	writes := Diff(back, front)
	require.Len(t, writes, 1)
	assert.Equal(t, " x", writes[0].Text)
	assert.Equal(t, 2, writes[0].Cells)
}

func TestWriteEach(t *testing.T) {
	back, front := NewBuffer(4, 1), NewBuffer(4, 1)
	back.SetString(0, 0, "a世b", backend.DefaultStyle())
	writes := Diff(back, front)
	require.Len(t, writes, 1)

	var cols []int
	var text strings.Builder
	writes[0].Each(func(x int, c Cell) {
		cols = append(cols, x)
		text.WriteString(c.Text())
	})
	assert.Equal(t, []int{0, 1, 3}, cols)
	assert.Equal(t, "a世b", text.String())
}

func TestScreenFlush(t *testing.T) {
	s := NewScreen(10, 3)

	if writes := s.Flush(); len(writes) != 0 {
		t.Fatalf("blank frame on blank terminal produced %d writes", len(writes))
	}

	s.Back().SetString(0, 0, "hi", backend.DefaultStyle())
	writes := s.Flush()
	require.Len(t, writes, 1)
	assert.Equal(t, "hi", writes[0].Text)
	assert.Equal(t, "hi", strings.TrimRight(strings.Split(s.Front().String(), "\n")[0], " "))
	assert.True(t, s.Back().Get(0, 0).Empty(), "back buffer should be cleared after flush")

	// Repainting the same frame writes nothing.
	s.Back().SetString(0, 0, "hi", backend.DefaultStyle())
	assert.Empty(t, s.Flush())

	// An empty frame erases the previous content.
	writes = s.Flush()
	require.Len(t, writes, 1)
	assert.Equal(t, "  ", writes[0].Text)
}

func TestScreenResizeInvalidates(t *testing.T) {
	s := NewScreen(4, 2)
	s.Flush()

	assert.False(t, s.Resize(4, 2))
	require.True(t, s.Resize(6, 3))

	w, h := s.Size()
	assert.Equal(t, 6, w)
	assert.Equal(t, 3, h)
	assert.Equal(t, 18, CellCount(s.Flush()))
	assert.Empty(t, s.Flush())
}

func TestScreenForceFull(t *testing.T) {
	s := NewScreen(3, 2)
	s.SetForceFull(true)
	assert.Equal(t, 6, CellCount(s.Flush()))
	assert.Equal(t, 6, CellCount(s.Flush()))

	s.SetForceFull(false)
	assert.Empty(t, s.Flush())
}

func TestHitGrid(t *testing.T) {
	g := NewHitGrid(4, 4)
	g.Clear()
	g.Add(1, rendertree.Rect{Width: 4, Height: 4})
	g.Add(2, rendertree.Rect{X: 2, Y: 2, Width: 5, Height: 5})

	assert.Equal(t, rendertree.NodeID(1), g.NodeAt(0, 0))
	assert.Equal(t, rendertree.NodeID(2), g.NodeAt(3, 3))
	assert.Equal(t, rendertree.InvalidID, g.NodeAt(4, 0))
	assert.Equal(t, rendertree.InvalidID, g.NodeAt(-1, 0))

	g.Clear()
	assert.Equal(t, rendertree.InvalidID, g.NodeAt(0, 0))
}

// paint lays out root in a w×h viewport and paints it into a fresh buffer.
func paint(t *testing.T, root vdom.Node, w, h int) (*rendertree.Tree, *Buffer, *Painter) {
	t.Helper()
	tree := rendertree.Build(root)
	require.NoError(t, layout.NewResolver().Resolve(tree, w, h))
	buf := NewBuffer(w, h)
	p := NewPainter(nil)
	p.Paint(tree, buf)
	return tree, buf, p
}

func repaint(tree *rendertree.Tree, p *Painter, buf *Buffer) {
	buf.Clear()
	p.Paint(tree, buf)
}

func nodeAt(t *testing.T, tree *rendertree.Tree, path ...int) *rendertree.Node {
	t.Helper()
	n, ok := tree.NodeAtPath(diff.Path(path))
	require.True(t, ok, "no node at %v", path)
	return n
}

func row(b *Buffer, y int) string {
	return strings.Split(b.String(), "\n")[y]
}

func TestPaintBackgroundAndText(t *testing.T) {
	root := vdom.NewContainer(vdom.Props{
		Width:      vdom.Fixed(10),
		Height:     vdom.Fixed(3),
		Background: vdom.Some(backend.ColorBlue),
	}, vdom.NewText("Hi"))

	_, buf, _ := paint(t, root, 20, 5)

	assert.Equal(t, "Hi                  ", row(buf, 0))
	for _, p := range [][2]int{{0, 0}, {5, 0}, {9, 2}} {
		assert.Equal(t, backend.ColorBlue, buf.Get(p[0], p[1]).Style.BG(), "cell %v", p)
	}
	assert.True(t, buf.Get(10, 0).Empty(), "outside the container stays unpainted")
	assert.Equal(t, backend.ColorDefault, buf.Get(0, 0).Style.FG())
}

func TestPaintBorders(t *testing.T) {
	tests := []struct {
		name   string
		border vdom.Border
		rows   []string
	}{
		{"single", vdom.Border{Style: vdom.BorderSingle}, []string{"┌──┐", "│  │", "└──┘"}},
		{"double", vdom.Border{Style: vdom.BorderDouble}, []string{"╔══╗", "║  ║", "╚══╝"}},
		{"rounded", vdom.Border{Style: vdom.BorderRounded}, []string{"╭──╮", "│  │", "╰──╯"}},
		{"thick", vdom.Border{Style: vdom.BorderThick}, []string{"┏━━┓", "┃  ┃", "┗━━┛"}},
		{"top and bottom", vdom.Border{Style: vdom.BorderSingle, Edges: vdom.EdgeTop | vdom.EdgeBottom}, []string{"────", "    ", "────"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := vdom.NewContainer(vdom.Props{
				Width:  vdom.Fixed(4),
				Height: vdom.Fixed(3),
				Border: tt.border,
			})
			_, buf, _ := paint(t, root, 4, 3)
			for y, want := range tt.rows {
				assert.Equal(t, want, row(buf, y), "row %d", y)
			}
		})
	}
}

func TestPaintFocusBorder(t *testing.T) {
	root := vdom.NewContainer(vdom.Props{
		Width:     vdom.Fixed(4),
		Height:    vdom.Fixed(3),
		Border:    vdom.Border{Style: vdom.BorderSingle},
		Focusable: true,
	})
	tree, buf, p := paint(t, root, 4, 3)
	assert.Equal(t, p.Theme.Border.FG(), buf.Get(0, 0).Style.FG())

	require.True(t, tree.SetFocus(tree.RootID()))
	repaint(tree, p, buf)
	assert.Equal(t, theme.DefaultTheme().BorderFocus.FG(), buf.Get(0, 0).Style.FG())
}

func TestPaintFocusStyle(t *testing.T) {
	root := vdom.NewContainer(vdom.Props{
		Width:      vdom.Fixed(6),
		Height:     vdom.Fixed(3),
		Border:     vdom.Border{Style: vdom.BorderSingle, Color: vdom.Some(backend.ColorRed)},
		Background: vdom.Some(backend.ColorBlack),
		Focusable:  true,
		Focus: vdom.FocusStyle{
			Background:  vdom.Some(backend.ColorBlue),
			BorderColor: vdom.Some(backend.ColorYellow),
		},
	}, vdom.NewText("ok"))
	tree, buf, p := paint(t, root, 6, 3)
	assert.Equal(t, backend.ColorRed, buf.Get(0, 0).Style.FG())
	assert.Equal(t, backend.ColorBlack, buf.Get(1, 1).Style.BG())

	require.True(t, tree.SetFocus(tree.RootID()))
	repaint(tree, p, buf)
	assert.Equal(t, backend.ColorYellow, buf.Get(0, 0).Style.FG())
	assert.Equal(t, backend.ColorBlue, buf.Get(0, 0).Style.BG())
	assert.Equal(t, 'o', buf.Get(1, 1).Rune)
	assert.Equal(t, backend.ColorBlue, buf.Get(1, 1).Style.BG(), "text inherits the focus background")
}

func TestPaintBorderColorAndInheritedBackground(t *testing.T) {
	root := vdom.NewContainer(vdom.Props{
		Width:      vdom.Fixed(6),
		Height:     vdom.Fixed(3),
		Background: vdom.Some(backend.ColorGreen),
	}, vdom.NewContainer(vdom.Props{
		Width:  vdom.Fixed(6),
		Height: vdom.Fixed(3),
		Border: vdom.Border{Style: vdom.BorderSingle, Color: vdom.Some(backend.ColorRed)},
	}))

	_, buf, _ := paint(t, root, 6, 3)
	corner := buf.Get(0, 0)
	assert.Equal(t, '┌', corner.Rune)
	assert.Equal(t, backend.ColorRed, corner.Style.FG())
	assert.Equal(t, backend.ColorGreen, corner.Style.BG())
}

func TestPaintTextClipping(t *testing.T) {
	root := vdom.NewContainer(vdom.Props{
		Width:  vdom.Fixed(5),
		Height: vdom.Fixed(1),
	}, vdom.NewText("hello world"))

	_, buf, _ := paint(t, root, 8, 1)
	assert.Equal(t, "hello   ", row(buf, 0))
}

func TestPaintWideCharacterClipped(t *testing.T) {
	root := vdom.NewContainer(vdom.Props{
		Width:  vdom.Fixed(3),
		Height: vdom.Fixed(1),
	}, vdom.NewText("ab世"))

	_, buf, _ := paint(t, root, 5, 1)
	assert.Equal(t, "ab   ", row(buf, 0))
	assert.Equal(t, 1, int(buf.Get(2, 0).Width))
}

func TestPaintTextAlign(t *testing.T) {
	tests := []struct {
		align vdom.Align
		want  string
	}{
		{vdom.AlignLeft, "ab        "},
		{vdom.AlignCenter, "    ab    "},
		{vdom.AlignRight, "        ab"},
	}
	for _, tt := range tests {
		root := vdom.NewContainer(vdom.Props{Width: vdom.Fixed(10), Height: vdom.Fixed(1)},
			&vdom.Text{Props: vdom.Props{Width: vdom.Fixed(10)}, Content: "ab", Align: tt.align})
		_, buf, _ := paint(t, root, 10, 1)
		assert.Equal(t, tt.want, row(buf, 0), "align %d", tt.align)
	}
}

func TestPaintSpanStyles(t *testing.T) {
	root := vdom.NewContainer(vdom.Props{
		Width:      vdom.Fixed(6),
		Height:     vdom.Fixed(1),
		Background: vdom.Some(backend.ColorBlue),
	}, &vdom.RichText{Spans: []vdom.Span{
		{Text: "ab", Style: vdom.TextStyle{FG: vdom.Some(backend.ColorRed), Attrs: backend.AttrBold}},
		{Text: "cd", Style: vdom.TextStyle{BG: vdom.Some(backend.ColorYellow)}},
	}})

	_, buf, _ := paint(t, root, 6, 1)
	a := buf.Get(0, 0)
	assert.Equal(t, backend.ColorRed, a.Style.FG())
	assert.Equal(t, backend.ColorBlue, a.Style.BG())
	assert.Equal(t, backend.AttrBold, a.Style.Attributes())

	c := buf.Get(2, 0)
	assert.Equal(t, backend.ColorYellow, c.Style.BG())
	assert.Equal(t, backend.ColorDefault, c.Style.FG())
}

func scrollList(n int, props vdom.Props) *vdom.Container {
	children := make([]vdom.Node, n)
	for i := range children {
		children[i] = vdom.NewText("l" + string(rune('0'+i)))
	}
	props.Width = vdom.Fixed(10)
	props.Height = vdom.Fixed(3)
	props.Overflow = vdom.OverflowScroll
	return vdom.NewContainer(props, children...)
}

func TestPaintScrollOffset(t *testing.T) {
	tree, buf, p := paint(t, scrollList(6, vdom.Props{Scrollbar: vdom.Some(false)}), 10, 3)
	assert.Equal(t, "l0", strings.TrimSpace(row(buf, 0)))

	require.True(t, tree.ScrollTo(tree.RootID(), 2))
	repaint(tree, p, buf)
	assert.Equal(t, "l2", strings.TrimSpace(row(buf, 0)))
	assert.Equal(t, "l4", strings.TrimSpace(row(buf, 2)))

	assert.Equal(t, nodeAt(t, tree, 2).ID, p.Hits().NodeAt(0, 0))
}

func TestPaintScrollbar(t *testing.T) {
	tree, buf, p := paint(t, scrollList(6, vdom.Props{}), 10, 3)

	column := func() string {
		var sb strings.Builder
		for y := 0; y < 3; y++ {
			sb.WriteString(buf.Get(9, y).Text())
		}
		return sb.String()
	}
	assert.Equal(t, "██│", column())
	assert.Equal(t, theme.DefaultTheme().ScrollThumb.FG(), buf.Get(9, 0).Style.FG())

	tree.ScrollToBottom(tree.RootID())
	repaint(tree, p, buf)
	assert.Equal(t, "│██", column())

	p.ShowScrollbars = false
	repaint(tree, p, buf)
	assert.Equal(t, "   ", column())
}

func TestPaintNoScrollbarWhenContentFits(t *testing.T) {
	_, buf, _ := paint(t, scrollList(2, vdom.Props{}), 10, 3)
	for y := 0; y < 3; y++ {
		assert.Equal(t, ' ', buf.Get(9, y).Rune, "row %d", y)
	}
}

func absoluteBox(color backend.Color, z int) *vdom.Container {
	return vdom.NewContainer(vdom.Props{
		Width:      vdom.Fixed(3),
		Height:     vdom.Fixed(1),
		Position:   vdom.PositionAbsolute,
		Offsets:    vdom.Offsets{Left: vdom.Some(1), Top: vdom.Some(1)},
		Background: vdom.Some(color),
		ZIndex:     z,
	})
}

func TestPaintZOrder(t *testing.T) {
	root := vdom.NewContainer(vdom.Props{Width: vdom.Fixed(10), Height: vdom.Fixed(4)},
		absoluteBox(backend.ColorRed, 1),
		absoluteBox(backend.ColorBlue, 0),
	)

	tree, buf, p := paint(t, root, 10, 4)
	assert.Equal(t, backend.ColorRed, buf.Get(1, 1).Style.BG())
	assert.Equal(t, nodeAt(t, tree, 0).ID, p.Hits().NodeAt(1, 1))
	assert.Equal(t, tree.RootID(), p.Hits().NodeAt(0, 0))
	assert.Equal(t, tree.RootID(), p.Hits().NodeAt(0, 3))
}

func TestPaintEqualZIndexKeepsDocumentOrder(t *testing.T) {
	root := vdom.NewContainer(vdom.Props{Width: vdom.Fixed(10), Height: vdom.Fixed(4)},
		absoluteBox(backend.ColorRed, 0),
		absoluteBox(backend.ColorBlue, 0),
	)
	_, buf, _ := paint(t, root, 10, 4)
	assert.Equal(t, backend.ColorBlue, buf.Get(1, 1).Style.BG())
}

func TestPaintChildClippedToParent(t *testing.T) {
	root := vdom.NewContainer(vdom.Props{Width: vdom.Fixed(10), Height: vdom.Fixed(4)},
		vdom.NewContainer(vdom.Props{Width: vdom.Fixed(3), Height: vdom.Fixed(1), Overflow: vdom.OverflowHidden},
			vdom.NewContainer(vdom.Props{
				Width:      vdom.Fixed(8),
				Height:     vdom.Fixed(1),
				Background: vdom.Some(backend.ColorRed),
			}),
		),
	)
	_, buf, _ := paint(t, root, 10, 4)
	assert.Equal(t, backend.ColorRed, buf.Get(2, 0).Style.BG())
	assert.Equal(t, backend.ColorDefault, buf.Get(3, 0).Style.BG())
}

func TestPaintThemeBase(t *testing.T) {
	th := theme.DefaultTheme()
	th.Base = th.Base.Background(backend.ColorBlack)

	tree := rendertree.Build(vdom.NewContainer(vdom.Props{Width: vdom.Fixed(2), Height: vdom.Fixed(1)}, vdom.NewText("x")))
	require.NoError(t, layout.NewResolver().Resolve(tree, 4, 2))
	buf := NewBuffer(4, 2)
	NewPainter(th).Paint(tree, buf)

	assert.Equal(t, backend.ColorBlack, buf.Get(3, 1).Style.BG())
	assert.Equal(t, backend.ColorBlack, buf.Get(0, 0).Style.BG())
}

// A full-screen styled container on a blank terminal rewrites every cell
// once, then nothing.
func TestFrameFullScreenThenIdle(t *testing.T) {
	root := vdom.NewContainer(vdom.Props{
		Width:      vdom.Percent(1),
		Height:     vdom.Percent(1),
		Background: vdom.Some(backend.ColorBlue),
	})
	tree := rendertree.Build(root)
	require.NoError(t, layout.NewResolver().Resolve(tree, 80, 24))

	s := NewScreen(80, 24)
	p := NewPainter(nil)

	p.Paint(tree, s.Back())
	writes := s.Flush()
	assert.Equal(t, 80*24, CellCount(writes))
	for _, w := range writes {
		assert.LessOrEqual(t, w.X+w.Cells, 80, "write at row %d crosses the row end", w.Y)
	}
	assert.Len(t, writes, 24)

	p.Paint(tree, s.Back())
	assert.Empty(t, s.Flush())
}

func TestEncoderSGR(t *testing.T) {
	red := backend.DefaultStyle().Foreground(backend.ColorRed)
	tests := []struct {
		name    string
		profile termenv.Profile
		style   backend.Style
		want    string
	}{
		{"default", termenv.TrueColor, backend.DefaultStyle(), "\x1b[0;39;49m"},
		{"bold red", termenv.ANSI, red.Bold(true), "\x1b[0;1;31;49m"},
		{"bright background", termenv.ANSI, backend.DefaultStyle().Background(backend.ColorBrightCyan), "\x1b[0;39;106m"},
		{"palette", termenv.ANSI256, backend.DefaultStyle().Foreground(200), "\x1b[0;38;5;200;49m"},
		{"true color", termenv.TrueColor, backend.DefaultStyle().Foreground(backend.ColorRGB(255, 0, 0)), "\x1b[0;38;2;255;0;0;49m"},
		{"ascii drops color", termenv.Ascii, red.Underline(true), "\x1b[0;4;39;49m"},
		{"all attributes", termenv.Ascii, backend.DefaultStyle().WithAttributes(
			backend.AttrBold | backend.AttrDim | backend.AttrItalic | backend.AttrUnderline |
				backend.AttrBlink | backend.AttrReverse | backend.AttrStrikeThrough), "\x1b[0;1;2;3;4;5;7;9;39;49m"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NewEncoder(tt.profile).SGR(tt.style))
		})
	}
}

func TestEncoderDegradesTrueColor(t *testing.T) {
	got := NewEncoder(termenv.ANSI).SGR(backend.DefaultStyle().Foreground(backend.ColorRGB(255, 0, 0)))
	assert.NotContains(t, got, "38;2")
	assert.NotContains(t, got, "39;")
}

func TestEncoderEncode(t *testing.T) {
	enc := NewEncoder(termenv.Ascii)
	assert.Equal(t, "", enc.Encode(nil))

	back, front := NewBuffer(10, 2), NewBuffer(10, 2)
	back.SetString(0, 0, "ab", backend.DefaultStyle())
	back.SetString(4, 0, "cd", backend.DefaultStyle())
	back.SetString(0, 1, "ef", backend.DefaultStyle())

	out := enc.Encode(Diff(back, front))
	want := CursorTo(0, 0) + "\x1b[0;39;49m" + "ab" +
		CursorForward(2) + "cd" +
		CursorTo(0, 1) + "ef" +
		ANSIReset
	assert.Equal(t, want, out)
}

func TestCursorTo(t *testing.T) {
	assert.Equal(t, "\x1b[1;1H", CursorTo(0, 0))
	assert.Equal(t, "\x1b[5;10H", CursorTo(9, 4))
	assert.Equal(t, "", CursorForward(0))
}

package vdom

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/odvcencio/trellis/pkg/errors"
	"github.com/odvcencio/trellis/pkg/ui/backend"
)

func sample() Node {
	return NewContainer(Props{Width: Fixed(10), Background: Some(backend.ColorBlue)},
		NewText("Hi"),
		&RichText{Spans: []Span{
			{Text: "a", Style: TextStyle{Attrs: backend.AttrBold}},
			{Text: "b"},
		}},
		NewContainer(Props{Direction: Row}, NewText("x")),
	)
}

func TestEqual(t *testing.T) {
	a, b := sample(), sample()
	assert.True(t, Equal(a, b))
	assert.True(t, Equal(nil, nil))
	assert.False(t, Equal(a, nil))

	b.(*Container).Children[0].(*Text).Content = "Ho"
	assert.False(t, Equal(a, b), "text content differs")

	c := sample()
	c.(*Container).Children[2].(*Container).Gap = 1
	assert.False(t, Equal(a, c), "nested props differ")

	d := sample()
	d.(*Container).Children = d.(*Container).Children[:2]
	assert.False(t, Equal(a, d), "child count differs")
}

func TestEqualDistinguishesKinds(t *testing.T) {
	text := NewText("a")
	rich := &RichText{Spans: []Span{{Text: "a"}}}
	assert.False(t, Equal(text, rich))
}

func TestClone(t *testing.T) {
	orig := sample()
	cp := Clone(orig)
	assert.True(t, Equal(orig, cp))

	cp.(*Container).Children[1].(*RichText).Spans[0].Text = "changed"
	cp.(*Container).Children[0].(*Text).Content = "changed"
	assert.Equal(t, "a", orig.(*Container).Children[1].(*RichText).Spans[0].Text)
	assert.Equal(t, "Hi", orig.(*Container).Children[0].(*Text).Content)
	assert.Nil(t, Clone(nil))
}

func TestCount(t *testing.T) {
	assert.Equal(t, 5, Count(sample()))
	assert.Equal(t, 0, Count(nil))
}

func TestBodyRoundTrip(t *testing.T) {
	text := &Text{Content: "hello", Style: TextStyle{FG: Some(backend.ColorRed)}, WrapMode: WrapWord}
	body, ok := BodyOf(text)
	assert.True(t, ok)
	assert.Equal(t, "hello", body.Plain())

	target := NewText("")
	assert.True(t, SetBody(target, body))
	assert.Equal(t, text, target)

	_, ok = BodyOf(NewContainer(Props{}))
	assert.False(t, ok)
	assert.False(t, SetBody(NewContainer(Props{}), body))
}

func TestDiffProps(t *testing.T) {
	a := Props{Width: Fixed(4)}
	b := a
	assert.Equal(t, PropMask(0), DiffProps(a, b))

	b.Background = Some(backend.ColorGreen)
	m := DiffProps(a, b)
	assert.Equal(t, PropBackground, m)
	assert.False(t, m.AffectsLayout())

	b.Padding = Uniform(1)
	m = DiffProps(a, b)
	assert.True(t, m.AffectsLayout())
	assert.Equal(t, "background|padding", m.String())
}

func TestDiffPropsAlignmentAndFocus(t *testing.T) {
	a := Props{}
	b := Props{Justify: JustifyCenter, AlignSelf: Some(CrossEnd)}
	m := DiffProps(a, b)
	assert.Equal(t, PropJustify|PropAlignSelf, m)
	assert.True(t, m.AffectsLayout())
	assert.Equal(t, "justify|align_self", m.String())

	b = Props{Focus: FocusStyle{Background: Some(backend.ColorBlue)}}
	m = DiffProps(a, b)
	assert.Equal(t, PropFocus, m)
	assert.False(t, m.AffectsLayout())
}

func TestAlignmentAndFocusBackground(t *testing.T) {
	p := Props{Background: Some(backend.ColorRed)}
	assert.Equal(t, CrossCenter, p.Alignment(CrossCenter))
	p.AlignSelf = Some(CrossStart)
	assert.Equal(t, CrossStart, p.Alignment(CrossEnd))

	assert.Equal(t, Some(backend.ColorRed), p.BackgroundFor(true))
	p.Focus.Background = Some(backend.ColorBlue)
	assert.Equal(t, Some(backend.ColorRed), p.BackgroundFor(false))
	assert.Equal(t, Some(backend.ColorBlue), p.BackgroundFor(true))
}

func TestInsets(t *testing.T) {
	p := Props{Border: Border{Style: BorderSingle}, Padding: Spacing{Left: 2}}
	assert.Equal(t, Spacing{Top: 1, Right: 1, Bottom: 1, Left: 3}, p.Insets())

	p.Border.Edges = EdgeTop | EdgeBottom
	assert.Equal(t, Spacing{Top: 1, Bottom: 1, Left: 2}, p.Insets())

	assert.Equal(t, Spacing{}, Props{}.Insets())
}

func TestPropsHelpers(t *testing.T) {
	assert.True(t, Props{}.ShowScrollbar())
	assert.False(t, Props{Scrollbar: Some(false)}.ShowScrollbar())
	assert.True(t, Props{Overflow: OverflowAuto}.Scrolls())
	assert.False(t, Props{Overflow: OverflowHidden}.Scrolls())
	assert.True(t, Props{Position: PositionRelative}.Positioned())
	assert.Equal(t, 7, Opt[int]{}.Or(7))
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Validate(sample()))

	err := Validate(nil)
	assert.True(t, errors.IsCode(err, errors.ErrCodeStructuralViolation))

	var missing *Text
	bad := NewContainer(Props{}, NewText("a"), NewContainer(Props{}, NewText("b"), missing))
	err = Validate(bad)
	assert.True(t, errors.IsCode(err, errors.ErrCodeStructuralViolation))
	assert.Contains(t, err.Error(), "[1 1]")
}

// Package vdom defines the abstract UI tree a view produces each frame.
// Nodes are plain values; the pipeline never mutates a tree it was handed.
package vdom

import (
	"strings"

	"github.com/odvcencio/trellis/pkg/ui/backend"
)

// Kind discriminates the node variants.
type Kind uint8

const (
	KindContainer Kind = iota
	KindText
	KindRichText
)

func (k Kind) String() string {
	switch k {
	case KindContainer:
		return "container"
	case KindText:
		return "text"
	case KindRichText:
		return "rich_text"
	default:
		return "unknown"
	}
}

// Node is one of *Container, *Text or *RichText.
type Node interface {
	Kind() Kind
	NodeProps() Props
	isNode()
}

// WrapMode controls how text is broken into lines.
type WrapMode uint8

const (
	// WrapNone keeps each hard line intact; overflow is clipped.
	WrapNone WrapMode = iota
	// WrapCharacter breaks at any grapheme boundary.
	WrapCharacter
	// WrapWord breaks at whitespace, character-breaking only words longer
	// than the line.
	WrapWord
	// WrapWordBreak breaks at whitespace but fills the remainder of a line
	// when splitting an oversized word.
	WrapWordBreak
)

// Align positions lines horizontally inside the text box.
type Align uint8

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

// TextStyle is the paint style of a text run. Unset colors fall back to the
// theme for foreground and to the nearest ancestor background.
type TextStyle struct {
	FG    Opt[backend.Color]
	BG    Opt[backend.Color]
	Attrs backend.AttrMask
}

// Span is a run of text sharing one style.
type Span struct {
	Text  string
	Style TextStyle
}

// TextBody is the text payload shared by Text and RichText.
type TextBody struct {
	Spans    []Span
	WrapMode WrapMode
	Align    Align
}

// Equal compares two bodies run by run.
func (b TextBody) Equal(o TextBody) bool {
	if b.WrapMode != o.WrapMode || b.Align != o.Align || len(b.Spans) != len(o.Spans) {
		return false
	}
	for i := range b.Spans {
		if b.Spans[i] != o.Spans[i] {
			return false
		}
	}
	return true
}

// Plain returns the concatenated text of all spans.
func (b TextBody) Plain() string {
	if len(b.Spans) == 1 {
		return b.Spans[0].Text
	}
	var sb strings.Builder
	for _, s := range b.Spans {
		sb.WriteString(s.Text)
	}
	return sb.String()
}

// Container is a box that lays out child nodes.
type Container struct {
	Props
	Children []Node
}

// NewContainer builds a container with the given props and children.
func NewContainer(props Props, children ...Node) *Container {
	return &Container{Props: props, Children: children}
}

func (*Container) Kind() Kind         { return KindContainer }
func (c *Container) NodeProps() Props { return c.Props }
func (*Container) isNode()            {}

// Text is a single-style text leaf.
type Text struct {
	Props
	Content  string
	Style    TextStyle
	WrapMode WrapMode
	Align    Align
}

// NewText builds an unstyled, unwrapped text leaf.
func NewText(content string) *Text {
	return &Text{Content: content}
}

func (*Text) Kind() Kind         { return KindText }
func (t *Text) NodeProps() Props { return t.Props }
func (*Text) isNode()            {}

// Body returns the text as a one-span body.
func (t *Text) Body() TextBody {
	return TextBody{
		Spans:    []Span{{Text: t.Content, Style: t.Style}},
		WrapMode: t.WrapMode,
		Align:    t.Align,
	}
}

// RichText is a text leaf made of differently styled spans.
type RichText struct {
	Props
	Spans    []Span
	WrapMode WrapMode
	Align    Align
}

func (*RichText) Kind() Kind         { return KindRichText }
func (r *RichText) NodeProps() Props { return r.Props }
func (*RichText) isNode()            {}

// Body returns the spans as a body. The slice is copied.
func (r *RichText) Body() TextBody {
	return TextBody{
		Spans:    append([]Span(nil), r.Spans...),
		WrapMode: r.WrapMode,
		Align:    r.Align,
	}
}

// BodyOf returns the text body of a Text or RichText node.
func BodyOf(n Node) (TextBody, bool) {
	switch t := n.(type) {
	case *Text:
		return t.Body(), true
	case *RichText:
		return t.Body(), true
	default:
		return TextBody{}, false
	}
}

// SetBody replaces the text payload of a Text or RichText node in place.
func SetBody(n Node, body TextBody) bool {
	switch t := n.(type) {
	case *Text:
		t.Content = body.Plain()
		if len(body.Spans) > 0 {
			t.Style = body.Spans[0].Style
		}
		t.WrapMode = body.WrapMode
		t.Align = body.Align
		return true
	case *RichText:
		t.Spans = append([]Span(nil), body.Spans...)
		t.WrapMode = body.WrapMode
		t.Align = body.Align
		return true
	default:
		return false
	}
}

// SetProps replaces the props of any node in place.
func SetProps(n Node, p Props) {
	switch t := n.(type) {
	case *Container:
		t.Props = p
	case *Text:
		t.Props = p
	case *RichText:
		t.Props = p
	}
}

package backend

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
)

// Color represents a terminal color.
// Values 0-255 are palette colors, values with the RGB flag are true colors.
type Color int32

// Color constants
const (
	ColorDefault Color = -1
	ColorBlack   Color = 0
	ColorRed     Color = 1
	ColorGreen   Color = 2
	ColorYellow  Color = 3
	ColorBlue    Color = 4
	ColorMagenta Color = 5
	ColorCyan    Color = 6
	ColorWhite   Color = 7

	// Bright variants
	ColorBrightBlack   Color = 8
	ColorBrightRed     Color = 9
	ColorBrightGreen   Color = 10
	ColorBrightYellow  Color = 11
	ColorBrightBlue    Color = 12
	ColorBrightMagenta Color = 13
	ColorBrightCyan    Color = 14
	ColorBrightWhite   Color = 15
)

// ColorRGB creates a true color from RGB components.
func ColorRGB(r, g, b uint8) Color {
	return Color(int32(r)<<16 | int32(g)<<8 | int32(b) | 0x01000000)
}

// IsRGB returns true if this is a true color (not palette).
func (c Color) IsRGB() bool {
	return c&0x01000000 != 0
}

// RGB returns the red, green, blue components of an RGB color.
// Returns 0, 0, 0 for non-RGB colors.
func (c Color) RGB() (r, g, b uint8) {
	if !c.IsRGB() {
		return 0, 0, 0
	}
	return uint8((c >> 16) & 0xFF), uint8((c >> 8) & 0xFF), uint8(c & 0xFF)
}

// ColorFromHex parses "#rrggbb" (or "#rgb") into a true color.
func ColorFromHex(hex string) (Color, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return ColorDefault, fmt.Errorf("parse color %q: %w", hex, err)
	}
	r, g, b := c.RGB255()
	return ColorRGB(r, g, b), nil
}

// Hex formats a true color as "#rrggbb". Palette colors have no fixed RGB
// value and return an empty string.
func (c Color) Hex() string {
	if !c.IsRGB() {
		return ""
	}
	r, g, b := c.RGB()
	return colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}.Hex()
}

// AttrMask represents text attributes.
type AttrMask uint32

// Attribute flags
const (
	AttrBold AttrMask = 1 << iota
	AttrBlink
	AttrReverse
	AttrUnderline
	AttrDim
	AttrItalic
	AttrStrikeThrough
)

// Style combines foreground, background colors and attributes.
type Style struct {
	fg    Color
	bg    Color
	attrs AttrMask
}

// DefaultStyle returns the default style (default colors, no attributes).
func DefaultStyle() Style {
	return Style{fg: ColorDefault, bg: ColorDefault}
}

// Foreground sets the foreground color.
func (s Style) Foreground(c Color) Style {
	s.fg = c
	return s
}

// Background sets the background color.
func (s Style) Background(c Color) Style {
	s.bg = c
	return s
}

// Bold toggles bold.
func (s Style) Bold(on bool) Style { return s.toggle(AttrBold, on) }

// Italic toggles italic.
func (s Style) Italic(on bool) Style { return s.toggle(AttrItalic, on) }

// Dim toggles dim.
func (s Style) Dim(on bool) Style { return s.toggle(AttrDim, on) }

// Underline toggles underline.
func (s Style) Underline(on bool) Style { return s.toggle(AttrUnderline, on) }

// Reverse toggles reverse video.
func (s Style) Reverse(on bool) Style { return s.toggle(AttrReverse, on) }

// Blink toggles blink.
func (s Style) Blink(on bool) Style { return s.toggle(AttrBlink, on) }

// StrikeThrough toggles strikethrough.
func (s Style) StrikeThrough(on bool) Style { return s.toggle(AttrStrikeThrough, on) }

func (s Style) toggle(attr AttrMask, on bool) Style {
	if on {
		s.attrs |= attr
	} else {
		s.attrs &^= attr
	}
	return s
}

// WithAttributes replaces the attribute mask.
func (s Style) WithAttributes(attrs AttrMask) Style {
	s.attrs = attrs
	return s
}

// Attributes returns all attributes.
func (s Style) Attributes() AttrMask {
	return s.attrs
}

// FG returns the foreground color.
func (s Style) FG() Color {
	return s.fg
}

// BG returns the background color.
func (s Style) BG() Color {
	return s.bg
}

// Decompose returns the foreground, background, and attributes.
func (s Style) Decompose() (fg, bg Color, attrs AttrMask) {
	return s.fg, s.bg, s.attrs
}

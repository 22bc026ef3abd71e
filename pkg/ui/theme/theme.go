// Package theme holds the styles the compositor uses for chrome it draws on
// its own: borders, focus rings and scrollbars.
package theme

import (
	"github.com/odvcencio/trellis/pkg/config"
	"github.com/odvcencio/trellis/pkg/errors"
	"github.com/odvcencio/trellis/pkg/ui/backend"
)

// Theme defines the compositor's built-in styles.
type Theme struct {
	// Base is the style of cells nothing paints over.
	Base backend.Style
	// Text is applied to text runs that declare no colors.
	Text backend.Style

	Border      backend.Style
	BorderFocus backend.Style
	Scrollbar   backend.Style
	ScrollThumb backend.Style
}

// DefaultTheme returns a theme that defers to the terminal's own palette.
func DefaultTheme() *Theme {
	return &Theme{
		Base:        backend.DefaultStyle(),
		Text:        backend.DefaultStyle(),
		Border:      backend.DefaultStyle(),
		BorderFocus: backend.DefaultStyle().Foreground(backend.ColorBrightYellow),
		Scrollbar:   backend.DefaultStyle().Foreground(backend.ColorBrightBlack),
		ScrollThumb: backend.DefaultStyle().Foreground(backend.ColorBrightBlack),
	}
}

// FromConfig applies hex color overrides on top of DefaultTheme.
func FromConfig(cfg config.ThemeConfig) (*Theme, error) {
	th := DefaultTheme()

	overrides := []struct {
		field  string
		hex    string
		target *backend.Style
		bg     bool
	}{
		{"theme.background", cfg.Background, &th.Base, true},
		{"theme.text", cfg.Text, &th.Text, false},
		{"theme.border", cfg.Border, &th.Border, false},
		{"theme.border_focus", cfg.BorderFocus, &th.BorderFocus, false},
		{"theme.scrollbar", cfg.Scrollbar, &th.Scrollbar, false},
		{"theme.scroll_thumb", cfg.ScrollThumb, &th.ScrollThumb, false},
	}
	for _, o := range overrides {
		if o.hex == "" {
			continue
		}
		c, err := backend.ColorFromHex(o.hex)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "invalid theme color").
				WithContext("field", o.field)
		}
		if o.bg {
			*o.target = o.target.Background(c)
		} else {
			*o.target = o.target.Foreground(c)
		}
	}
	return th, nil
}

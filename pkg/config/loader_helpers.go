package config

import (
	"os"
	"time"

	"github.com/odvcencio/trellis/pkg/errors"
	"gopkg.in/yaml.v3"
)

// loadAndMerge loads a YAML file and merges it into the config.
func loadAndMerge(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var override Config
	if err := yaml.Unmarshal(data, &override); err != nil {
		return errors.Wrap(err, errors.ErrCodeConfigParse, "parsing YAML")
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return errors.Wrap(err, errors.ErrCodeConfigParse, "parsing YAML")
	}

	mergeConfigs(cfg, &override, raw)
	return nil
}

// mergeConfigs merges override into base. Booleans only override when the
// key is present in the file, so an omitted key keeps its default.
func mergeConfigs(base, override *Config, raw map[string]any) {
	if override == nil {
		return
	}

	if boolFieldSet(raw, "render", "double_buffering") {
		base.Render.DoubleBuffering = override.Render.DoubleBuffering
	}
	if boolFieldSet(raw, "render", "cell_diffing") {
		base.Render.CellDiffing = override.Render.CellDiffing
	}
	if boolFieldSet(raw, "render", "show_scrollbars") {
		base.Render.ShowScrollbars = override.Render.ShowScrollbars
	}
	if override.Render.PollInterval != 0 {
		base.Render.PollInterval = override.Render.PollInterval
	}
	if boolFieldSet(raw, "render", "max_fps") {
		base.Render.MaxFPS = override.Render.MaxFPS
	}
	if override.Render.MessageBuffer != 0 {
		base.Render.MessageBuffer = override.Render.MessageBuffer
	}
	if override.Render.WheelStep != 0 {
		base.Render.WheelStep = override.Render.WheelStep
	}

	if boolFieldSet(raw, "logging", "enabled") {
		base.Logging.Enabled = override.Logging.Enabled
	}
	if override.Logging.Dir != "" {
		base.Logging.Dir = override.Logging.Dir
	}
	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}

	base.Theme = mergeTheme(base.Theme, override.Theme)

	if boolFieldSet(raw, "metrics", "enabled") {
		base.Metrics.Enabled = override.Metrics.Enabled
	}
	if override.Metrics.Addr != "" {
		base.Metrics.Addr = override.Metrics.Addr
	}
}

func mergeTheme(base, override ThemeConfig) ThemeConfig {
	out := base
	if override.Background != "" {
		out.Background = override.Background
	}
	if override.Text != "" {
		out.Text = override.Text
	}
	if override.Border != "" {
		out.Border = override.Border
	}
	if override.BorderFocus != "" {
		out.BorderFocus = override.BorderFocus
	}
	if override.Scrollbar != "" {
		out.Scrollbar = override.Scrollbar
	}
	if override.ScrollThumb != "" {
		out.ScrollThumb = override.ScrollThumb
	}
	return out
}

func boolFieldSet(raw map[string]any, path ...string) bool {
	if len(path) == 0 || raw == nil {
		return false
	}
	current := any(raw)
	for _, key := range path {
		m, ok := current.(map[string]any)
		if !ok {
			return false
		}
		val, ok := m[key]
		if !ok {
			return false
		}
		current = val
	}
	return true
}

// FrameInterval returns the minimum spacing between frames, or zero when
// the frame rate is uncapped.
func (r RenderConfig) FrameInterval() time.Duration {
	if r.MaxFPS <= 0 {
		return 0
	}
	return time.Second / time.Duration(r.MaxFPS)
}

package config

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/odvcencio/trellis/pkg/errors"
)

// Default configuration values exported for documentation and validation
const (
	DefaultPollInterval  = 100 * time.Millisecond
	DefaultMaxFPS        = 60
	DefaultMessageBuffer = 128
	DefaultWheelStep     = 3
	DefaultLogLevel      = "info"
	DefaultMetricsAddr   = "127.0.0.1:9464"
)

// Config represents the complete trellis configuration
type Config struct {
	Render  RenderConfig  `yaml:"render"`
	Logging LoggingConfig `yaml:"logging"`
	Theme   ThemeConfig   `yaml:"theme"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// RenderConfig controls the frame loop and output strategy.
type RenderConfig struct {
	// DoubleBuffering keeps the front buffer between frames. When off, the
	// front buffer is invalidated each frame and every cell is rewritten.
	DoubleBuffering bool `yaml:"double_buffering"`
	// CellDiffing skips cells equal to the front buffer. When off, every
	// styled cell is rewritten each frame.
	CellDiffing    bool          `yaml:"cell_diffing"`
	PollInterval   time.Duration `yaml:"poll_interval"`
	MaxFPS         int           `yaml:"max_fps"`
	MessageBuffer  int           `yaml:"message_buffer"`
	ShowScrollbars bool          `yaml:"show_scrollbars"`
	WheelStep      int           `yaml:"wheel_step"`
}

// LoggingConfig controls the JSONL structured log.
type LoggingConfig struct {
	Enabled bool   `yaml:"enabled"`
	Dir     string `yaml:"dir"`
	Level   string `yaml:"level"`
}

// ThemeConfig overrides theme colors with hex strings ("#rrggbb").
type ThemeConfig struct {
	Background  string `yaml:"background"`
	Text        string `yaml:"text"`
	Border      string `yaml:"border"`
	BorderFocus string `yaml:"border_focus"`
	Scrollbar   string `yaml:"scrollbar"`
	ScrollThumb string `yaml:"scroll_thumb"`
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	return &Config{
		Render: RenderConfig{
			DoubleBuffering: true,
			CellDiffing:     true,
			PollInterval:    DefaultPollInterval,
			MaxFPS:          DefaultMaxFPS,
			MessageBuffer:   DefaultMessageBuffer,
			ShowScrollbars:  true,
			WheelStep:       DefaultWheelStep,
		},
		Logging: LoggingConfig{
			Enabled: false,
			Dir:     defaultLogDir(),
			Level:   DefaultLogLevel,
		},
		Metrics: MetricsConfig{
			Enabled: false,
			Addr:    DefaultMetricsAddr,
		},
	}
}

func defaultLogDir() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		home = os.Getenv("HOME")
	}
	if home == "" {
		return filepath.Join(os.TempDir(), "trellis", "logs")
	}
	return filepath.Join(home, ".trellis", "logs")
}

// Load loads configuration from the user file (~/.trellis/config.yaml) and
// the project file (./.trellis/config.yaml), then applies TRELLIS_*
// environment overrides. Missing files are not an error.
func Load() (*Config, error) {
	cfg := DefaultConfig()

	home, err := os.UserHomeDir()
	if err != nil {
		home = os.Getenv("HOME")
	}
	if home != "" {
		userConfigPath := filepath.Join(home, ".trellis", "config.yaml")
		if err := loadAndMerge(cfg, userConfigPath); err != nil && !os.IsNotExist(err) {
			return nil, errors.Wrap(err, errors.ErrCodeConfigLoad, "loading user config").
				WithContext("path", userConfigPath)
		}
	}

	projectConfigPath := filepath.Join(".", ".trellis", "config.yaml")
	if err := loadAndMerge(cfg, projectConfigPath); err != nil && !os.IsNotExist(err) {
		return nil, errors.Wrap(err, errors.ErrCodeConfigLoad, "loading project config").
			WithContext("path", projectConfigPath)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFromPath loads configuration from a specific file path
func LoadFromPath(path string) (*Config, error) {
	cfg := DefaultConfig()

	if err := loadAndMerge(cfg, path); err != nil {
		code := errors.ErrCodeConfigLoad
		if errors.IsCode(err, errors.ErrCodeConfigParse) {
			code = errors.ErrCodeConfigParse
		}
		return nil, errors.Wrap(err, code, "loading config").WithContext("path", path)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides
func applyEnvOverrides(cfg *Config) {
	if val, ok := envBool("TRELLIS_DOUBLE_BUFFERING"); ok {
		cfg.Render.DoubleBuffering = val
	}
	if val, ok := envBool("TRELLIS_CELL_DIFFING"); ok {
		cfg.Render.CellDiffing = val
	}
	if val, ok := envBool("TRELLIS_SHOW_SCROLLBARS"); ok {
		cfg.Render.ShowScrollbars = val
	}
	if v := os.Getenv("TRELLIS_POLL_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Render.PollInterval = d
		}
	}
	if v := os.Getenv("TRELLIS_MAX_FPS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Render.MaxFPS = n
		}
	}
	if v := os.Getenv("TRELLIS_LOG_DIR"); v != "" {
		cfg.Logging.Dir = v
		cfg.Logging.Enabled = true
	}
	if v := os.Getenv("TRELLIS_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}
	if v := os.Getenv("TRELLIS_METRICS_ADDR"); v != "" {
		cfg.Metrics.Addr = v
		cfg.Metrics.Enabled = true
	}
}

func envBool(key string) (bool, bool) {
	val := os.Getenv(key)
	if val == "" {
		return false, false
	}
	switch strings.ToLower(val) {
	case "1", "true", "yes", "on":
		return true, true
	case "0", "false", "no", "off":
		return false, true
	default:
		return false, false
	}
}

// Validate checks the configuration for values the loop cannot run with.
func (c *Config) Validate() error {
	if c.Render.PollInterval <= 0 {
		return invalid("render.poll_interval", c.Render.PollInterval, "must be positive")
	}
	if c.Render.MaxFPS < 0 {
		return invalid("render.max_fps", c.Render.MaxFPS, "must be >= 0 (0 disables the cap)")
	}
	if c.Render.MessageBuffer <= 0 {
		return invalid("render.message_buffer", c.Render.MessageBuffer, "must be positive")
	}
	if c.Render.WheelStep <= 0 {
		return invalid("render.wheel_step", c.Render.WheelStep, "must be positive")
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		return invalid("logging.level", c.Logging.Level, "valid: debug, info, warn, error")
	}
	if c.Logging.Enabled && strings.TrimSpace(c.Logging.Dir) == "" {
		return invalid("logging.dir", c.Logging.Dir, "required when logging is enabled")
	}

	if c.Metrics.Enabled {
		if _, _, err := net.SplitHostPort(c.Metrics.Addr); err != nil {
			return invalid("metrics.addr", c.Metrics.Addr, "must be host:port")
		}
	}

	for field, value := range map[string]string{
		"theme.background":   c.Theme.Background,
		"theme.text":         c.Theme.Text,
		"theme.border":       c.Theme.Border,
		"theme.border_focus": c.Theme.BorderFocus,
		"theme.scrollbar":    c.Theme.Scrollbar,
		"theme.scroll_thumb": c.Theme.ScrollThumb,
	} {
		if value != "" && !isHexColor(value) {
			return invalid(field, value, "must be a #rrggbb hex color")
		}
	}

	return nil
}

func invalid(field string, value any, reason string) error {
	return errors.New(errors.ErrCodeConfigInvalid, fmt.Sprintf("invalid %s: %s", field, reason)).
		WithContext("field", field).
		WithContext("value", value)
}

func isHexColor(s string) bool {
	if len(s) != 7 || s[0] != '#' {
		return false
	}
	_, err := strconv.ParseUint(s[1:], 16, 32)
	return err == nil
}

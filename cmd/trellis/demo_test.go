package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odvcencio/trellis/pkg/config"
	"github.com/odvcencio/trellis/pkg/errors"
	"github.com/odvcencio/trellis/pkg/ui/runtime"
	"github.com/odvcencio/trellis/pkg/ui/terminal"
)

func render(t *testing.T, m *demoModel, w, h int) (*runtime.Pipeline, string) {
	t.Helper()
	p := runtime.NewPipeline(runtime.PipelineConfig{Width: w, Height: h})
	_, err := p.Frame(m.view())
	require.NoError(t, err)
	return p, p.Screen().Front().String()
}

func TestDemoView(t *testing.T) {
	m := newDemoModel()
	_, screen := render(t, m, 60, 12)
	assert.Contains(t, screen, "trellis demo")
	assert.Contains(t, screen, "count 0")
	assert.Contains(t, screen, "╭")
	assert.Contains(t, screen, "waiting for events")
	assert.Contains(t, screen, "q quit")
	assert.NotContains(t, screen, "0 events")
}

func TestDemoUpdate(t *testing.T) {
	m := newDemoModel()
	app := runtime.NewApp(runtime.AppConfig{})

	press := func(r rune) runtime.KeyMsg { return runtime.KeyMsg{Key: terminal.KeyRune, Rune: r} }
	assert.True(t, m.update(app, press('+')))
	assert.True(t, m.update(app, press('+')))
	assert.True(t, m.update(app, press('-')))
	assert.Equal(t, 1, m.count)

	assert.True(t, m.update(app, runtime.AppMsg{Payload: logLine("first")}))
	assert.Equal(t, []string{"first"}, m.lines)
	assert.False(t, m.update(app, runtime.AppMsg{Payload: 42}))

	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	m.update(app, runtime.TickMsg{Time: now})
	assert.Equal(t, now, m.now)

	assert.True(t, m.update(app, press('o')))
	assert.True(t, m.overlay)

	assert.False(t, m.update(app, press('n')))
	assert.True(t, m.update(app, runtime.AppMsg{Payload: toastsChanged{}}))
	require.Len(t, m.toasts.Items(), 1)
	defer m.toasts.Clear()

	_, screen := render(t, m, 60, 12)
	assert.Contains(t, screen, "count is 1")
	assert.Contains(t, screen, "count 1")
	assert.Contains(t, screen, "first")
	assert.Contains(t, screen, "1 events")
	assert.Contains(t, screen, "03:04:05")
}

func TestDemoLogIsBounded(t *testing.T) {
	m := newDemoModel()
	for i := 0; i < maxLogLines+10; i++ {
		m.appendLine(fmt.Sprintf("line %d", i))
	}
	require.Len(t, m.lines, maxLogLines)
	assert.Equal(t, "line 10", m.lines[0])
	assert.Equal(t, fmt.Sprintf("line %d", maxLogLines+9), m.lines[maxLogLines-1])
}

func TestDemoLogScrolls(t *testing.T) {
	m := newDemoModel()
	for i := 0; i < 20; i++ {
		m.appendLine(fmt.Sprintf("line %02d", i))
	}
	p, screen := render(t, m, 40, 12)
	assert.Contains(t, screen, "line 00")
	assert.NotContains(t, screen, "line 19")

	tree := p.Tree()
	logID := tree.ScrollableAncestor(p.NodeAt(2, 5))
	require.NotZero(t, logID)
	require.True(t, tree.ScrollToBottom(logID))

	_, err := p.Frame(m.view())
	require.NoError(t, err)
	screen = p.Screen().Front().String()
	assert.Contains(t, screen, "line 19")
	assert.NotContains(t, screen, "line 00")
}

func TestProduce(t *testing.T) {
	app := runtime.NewApp(runtime.AppConfig{})
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	require.NoError(t, produce(ctx, app, 5*time.Millisecond))
	assert.Zero(t, app.Dropped())
}

func TestNewBackendRejectsUnknown(t *testing.T) {
	_, err := newBackend("curses")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidInput))
}

func TestConfigCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("render:\n  max_fps: 30\n"), 0o644))

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"config", "--config", path, "--metrics-addr", "127.0.0.1:9999"})
	require.NoError(t, cmd.Execute())

	got := out.String()
	assert.Contains(t, got, "max_fps: 30")
	assert.Contains(t, got, "127.0.0.1:9999")
	assert.True(t, strings.Contains(got, "double_buffering: true"))
}

func TestConfigCommandMissingFile(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"config", "--config", filepath.Join(t.TempDir(), "missing.yaml")})
	err := cmd.Execute()
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeConfigLoad))
}

func TestReloadTheme(t *testing.T) {
	rc := config.DefaultConfig().Render
	rc.MessageBuffer = 1
	app := runtime.NewApp(runtime.AppConfig{Render: &rc})

	reloadTheme(app, nil, nil, errors.New(errors.ErrCodeConfigInvalid, "bad"))
	cfg := config.DefaultConfig()
	cfg.Theme.Border = "#ff0000"
	reloadTheme(app, nil, cfg, nil)
	assert.Zero(t, app.Dropped())

	// The queue holds exactly the reloaded theme.
	assert.False(t, app.Post(runtime.AppMsg{}))
	assert.Equal(t, uint64(1), app.Dropped())
}

package logging

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name      string
		baseDir   string
		sessionID string
	}{
		{
			name:      "valid directory and session ID",
			baseDir:   t.TempDir(),
			sessionID: "test-session-123",
		},
		{
			name:      "creates directories if not exist",
			baseDir:   filepath.Join(t.TempDir(), "nested", "path"),
			sessionID: "session-456",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := NewLogger(tt.baseDir, tt.sessionID)
			require.NoError(t, err)
			defer logger.Close()

			assert.Equal(t, tt.sessionID, logger.SessionID())
			assert.Equal(t, LevelInfo, logger.minLevel)

			for _, path := range []string{
				filepath.Join(tt.baseDir, "sessions", tt.sessionID+".jsonl"),
				filepath.Join(tt.baseDir, "errors.jsonl"),
				filepath.Join(tt.baseDir, "frames.jsonl"),
			} {
				_, err := os.Stat(path)
				assert.NoError(t, err, "expected %s", path)
			}
		})
	}
}

func TestNewLogger_GeneratesSessionID(t *testing.T) {
	logger, err := NewLogger(t.TempDir(), "")
	require.NoError(t, err)
	defer logger.Close()

	_, err = ulid.Parse(logger.SessionID())
	assert.NoError(t, err, "generated session ID should be a ULID")
}

func TestLogger_LevelFiltering(t *testing.T) {
	dir := t.TempDir()
	logger, err := NewLogger(dir, "levels")
	require.NoError(t, err)

	require.NoError(t, logger.Debug(CategoryLayout, "measure", "dropped", nil))
	require.NoError(t, logger.Info(CategoryLayout, "resolve", "kept", nil))
	logger.SetMinLevel(LevelDebug)
	require.NoError(t, logger.Debug(CategoryLayout, "measure", "kept too", nil))
	require.NoError(t, logger.Close())

	events, err := ReadRecentEvents(filepath.Join(dir, "sessions", "levels.jsonl"), 10)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "kept", events[0].Message)
	assert.Equal(t, "kept too", events[1].Message)
	assert.Equal(t, "levels", events[0].SessionID)
}

func TestLogger_RoutesErrorsAndFlushes(t *testing.T) {
	dir := t.TempDir()
	logger, err := NewLogger(dir, "routes")
	require.NoError(t, err)

	logger.SetFrame(7)
	require.NoError(t, logger.Error(CategoryLoop, "fatal", "terminal gone", map[string]any{"code": "TERMINAL_IO"}))
	require.NoError(t, logger.Info(CategoryFlush, "frame", "flushed", map[string]any{"writes": 3}))
	require.NoError(t, logger.Info(CategoryDiff, "patches", "diffed", nil))
	require.NoError(t, logger.Close())

	errs, err := ReadRecentEvents(filepath.Join(dir, "errors.jsonl"), 10)
	require.NoError(t, err)
	require.Len(t, errs, 1)
	assert.Equal(t, "fatal", errs[0].EventType)
	assert.Equal(t, uint64(7), errs[0].Frame)

	frames, err := ReadRecentEvents(filepath.Join(dir, "frames.jsonl"), 10)
	require.NoError(t, err)
	require.Len(t, frames, 1)
	assert.Equal(t, CategoryFlush, frames[0].Category)
	assert.EqualValues(t, 3, frames[0].Details["writes"])
}

func TestLogger_PreservesTimestamp(t *testing.T) {
	dir := t.TempDir()
	logger, err := NewLogger(dir, "ts")
	require.NoError(t, err)

	ts := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, logger.Log(Event{Timestamp: ts, Level: LevelWarn, Category: CategoryInput, EventType: "dropped"}))
	require.NoError(t, logger.Close())

	events, err := ReadRecentEvents(filepath.Join(dir, "sessions", "ts.jsonl"), 1)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.True(t, events[0].Timestamp.Equal(ts))
}

func TestNilLogger(t *testing.T) {
	var logger *Logger
	assert.NoError(t, logger.Info(CategoryPaint, "paint", "noop", nil))
	assert.NoError(t, logger.Close())
	logger.SetFrame(3)
	logger.SetMinLevel(LevelDebug)
	assert.Empty(t, logger.SessionID())
}

func TestReadRecentEvents_Tail(t *testing.T) {
	dir := t.TempDir()
	logger, err := NewLogger(dir, "tail")
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		require.NoError(t, logger.Info(CategoryLoop, "tick", "", map[string]any{"i": i}))
	}
	require.NoError(t, logger.Close())

	events, err := ReadRecentEvents(filepath.Join(dir, "sessions", "tail.jsonl"), 2)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.EqualValues(t, 3, events[0].Details["i"])
	assert.EqualValues(t, 4, events[1].Details["i"])

	_, err = ReadRecentEvents(filepath.Join(dir, "missing.jsonl"), 2)
	assert.Error(t, err)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, LevelDebug, ParseLevel("debug"))
	assert.Equal(t, LevelError, ParseLevel("error"))
	assert.Equal(t, LevelInfo, ParseLevel("verbose"))
}

package config

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/odvcencio/trellis/pkg/errors"
)

// DefaultWatchDebounce coalesces the burst of events an editor save emits.
const DefaultWatchDebounce = 100 * time.Millisecond

// Watch reloads the file at path whenever it changes and passes the result
// to onChange, until ctx ends. The parent directory is watched so files
// replaced by rename are still seen. A reload that fails to parse or
// validate is reported through onChange with a nil config; the last good
// config stays with the caller.
func Watch(ctx context.Context, path string, debounce time.Duration, onChange func(*Config, error)) error {
	if debounce <= 0 {
		debounce = DefaultWatchDebounce
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeConfigLoad, "resolve config path").WithContext("path", path)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeConfigLoad, "create config watcher")
	}
	defer w.Close()
	if err := w.Add(filepath.Dir(abs)); err != nil {
		return errors.Wrap(err, errors.ErrCodeConfigLoad, "watch config dir").WithContext("path", abs)
	}

	timer := time.NewTimer(debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs || !ev.Has(fsnotify.Write|fsnotify.Create|fsnotify.Rename) {
				continue
			}
			timer.Reset(debounce)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			onChange(nil, errors.Wrap(err, errors.ErrCodeConfigLoad, "watch config").WithContext("path", abs))
		case <-timer.C:
			cfg, err := LoadFromPath(abs)
			if err != nil {
				onChange(nil, err)
				continue
			}
			onChange(cfg, nil)
		}
	}
}

package config

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/Carmen-Shannon/oxy-castle/common"
	"github.com/fsnotify/fsnotify"
)

// Watch reloads the config file whenever it is written or re-created and passes every configuration
// that loads cleanly to onChange. Invalid edits are logged and skipped, so the last good configuration stays live.
// The parent directory is watched rather than the file so editors that save via rename keep working.
// The watcher stops when ctx is cancelled.
//
// Parameters:
//   - ctx: controls the lifetime of the watcher goroutine
//   - path: the config file to watch
//   - onChange: called from the watcher goroutine with each reloaded configuration
//
// Returns:
//   - error: error if the watcher cannot be created or the directory cannot be watched
func Watch(ctx context.Context, path string, onChange func(Config)) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve config path %q: %w", path, err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create config watcher: %w", err)
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		w.Close()
		return fmt.Errorf("failed to watch %q: %w", filepath.Dir(abs), err)
	}

	go func() {
		defer w.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != abs {
					continue
				}
				if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
					continue
				}
				cfg, err := Load(abs)
				if err != nil {
					common.LogWarn("ignoring config change: %v", err)
					continue
				}
				common.LogInfo("reloaded config from %s", abs)
				onChange(cfg)
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				common.LogWarn("config watcher error: %v", err)
			}
		}
	}()

	return nil
}

package storage

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/julianstephens/daybook/internal/logger"
)

const watchDebounce = 200 * time.Millisecond

// Watch calls onChange after the store file at path changes on disk, until
// ctx is cancelled. Bursts of events are coalesced into one call.
//
// The parent directory is watched rather than the file itself: the JSON
// store replaces its file by rename and SQLite writes to -wal and -journal
// siblings, so any event on a name starting with the store's base name
// counts.
func Watch(ctx context.Context, path string, onChange func()) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer w.Close()

	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}
	if err := w.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	logger.Debug("watcher: started", "path", path)

	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			logger.Debug("watcher: stopped", "path", path)
			return nil

		case <-fire:
			fire = nil
			onChange()

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			name := filepath.Base(ev.Name)
			if !strings.HasPrefix(name, base) || strings.HasSuffix(name, ".tmp") {
				continue
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(watchDebounce)
			} else {
				timer.Reset(watchDebounce)
			}
			fire = timer.C

		case werr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", "err", werr)
		}
	}
}

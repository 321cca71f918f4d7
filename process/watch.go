package process

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDelay is how long a watcher waits after the last change to a
// file before reading it again.
const DefaultDelay = 100 * time.Millisecond

// Handler receives the results of a file that changed.
type Handler func(path string, results []Result, err error)

// Watcher re-runs extraction on files as they are written.
type Watcher struct {
	runner  *Runner
	watcher *fsnotify.Watcher
	handle  Handler
	delay   time.Duration
}

// NewWatcher starts watching dirs and every directory below them.
func (r *Runner) NewWatcher(dirs []string, handle Handler) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		runner:  r,
		watcher: fw,
		handle:  handle,
		delay:   DefaultDelay,
	}
	for _, dir := range dirs {
		if err := w.addTree(dir); err != nil {
			fw.Close()
			return nil, fmt.Errorf("error adding directory to watcher: %w", err)
		}
	}
	return w, nil
}

// SetDelay changes the debounce delay. It must be called before Run.
func (w *Watcher) SetDelay(d time.Duration) {
	if d > 0 {
		w.delay = d
	}
}

func (w *Watcher) addTree(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.watcher.Add(path)
		}
		return nil
	})
}

// relevant reports whether an event should trigger a new extraction.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return false
	}
	return w.runner.accepts(event.Name)
}

// Run handles events until ctx is done, then closes the watcher.
// Changes to one file within the debounce delay are handled once.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()

	logger := w.runner.logger
	pending := make(map[string]bool)
	timer := time.NewTimer(w.delay)
	stopTimer(timer)

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := w.addTree(event.Name); err != nil {
						logger.Warn("Failed to watch new directory", zap.String("dir", event.Name), zap.Error(err))
					}
					continue
				}
			}
			if !w.relevant(event) {
				continue
			}
			pending[event.Name] = true
			resetTimer(timer, w.delay)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watcher error", zap.Error(err))

		case <-timer.C:
			paths := make([]string, 0, len(pending))
			for path := range pending {
				paths = append(paths, path)
			}
			sort.Strings(paths)
			clear(pending)

			for _, path := range paths {
				results, err := w.runner.File(ctx, path)
				if errors.Is(err, fs.ErrNotExist) {
					continue
				}
				logger.Debug("File changed",
					zap.String("file", path),
					zap.Int("lines", len(results)))
				w.handle(path, results, err)
			}
		}
	}
}

// stopTimer stops t and discards a tick that fired but was not received.
func stopTimer(t *time.Timer) {
	if !t.Stop() {
		select {
		case <-t.C:
		default:
		}
	}
}

// resetTimer restarts t for d without letting a stale tick through.
func resetTimer(t *time.Timer, d time.Duration) {
	stopTimer(t)
	t.Reset(d)
}

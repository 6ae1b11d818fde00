package reload

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/randalmurphal/clientdir/pkg/clientdir/observability"
)

// atomicDataDir is the symlink Kubernetes atomic writers swap on update.
const atomicDataDir = "..data"

// Watcher monitors registration files and signals when they change.
//
// It watches the parent directories rather than the files themselves, so
// editors and deploy tools that replace a file by rename are still seen.
// Kubernetes ConfigMap and Secret volumes update by swapping a "..data"
// symlink next to the file; that swap counts as a change to every watched
// file in the directory.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	dirs      []string
	names     map[string]struct{}
	debounce  time.Duration
	logger    *slog.Logger
	onChange  chan struct{}
	done      chan struct{}
	stopOnce  sync.Once
}

// NewWatcher creates a watcher for paths. Bursts of events within debounce
// collapse into one signal.
func NewWatcher(paths []string, debounce time.Duration, logger *slog.Logger) (*Watcher, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("watcher needs at least one path")
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}

	w := &Watcher{
		fsWatcher: fsw,
		names:     make(map[string]struct{}, len(paths)),
		debounce:  debounce,
		logger:    logger,
		onChange:  make(chan struct{}, 1),
		done:      make(chan struct{}),
	}
	seen := make(map[string]struct{})
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			fsw.Close()
			return nil, fmt.Errorf("resolving %s: %w", p, err)
		}
		w.names[abs] = struct{}{}
		dir := filepath.Dir(abs)
		if _, ok := seen[dir]; !ok {
			seen[dir] = struct{}{}
			w.dirs = append(w.dirs, dir)
		}
	}
	return w, nil
}

// Start begins watching. The returned channel receives a value after each
// debounced burst of changes and is never closed.
func (w *Watcher) Start() (<-chan struct{}, error) {
	for _, dir := range w.dirs {
		if err := w.fsWatcher.Add(dir); err != nil {
			return nil, fmt.Errorf("watching directory %s: %w", dir, err)
		}
	}

	go w.loop()

	return w.onChange, nil
}

// Stop terminates the watcher and releases resources. It is safe to call
// more than once.
func (w *Watcher) Stop() error {
	var err error
	w.stopOnce.Do(func() {
		close(w.done)
		err = w.fsWatcher.Close()
	})
	return err
}

// loop processes file system events with debouncing.
func (w *Watcher) loop() {
	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if !w.isRelevantEvent(event) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			// Non-blocking send: a pending signal already covers this change.
			select {
			case w.onChange <- struct{}{}:
			default:
			}

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			observability.LogWatchError(w.logger, strings.Join(w.dirs, string(filepath.ListSeparator)), err)

		case <-w.done:
			return
		}
	}
}

// isRelevantEvent checks if the event should trigger a reload.
func (w *Watcher) isRelevantEvent(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
		return false
	}
	abs, err := filepath.Abs(event.Name)
	if err != nil {
		return false
	}
	if _, ok := w.names[abs]; ok {
		return true
	}
	return filepath.Base(abs) == atomicDataDir && slices.Contains(w.dirs, filepath.Dir(abs))
}

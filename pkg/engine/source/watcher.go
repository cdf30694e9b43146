package source

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher watches a rule-set directory and reports changed references so
// the engine can evict stale cache entries. Rapid event bursts from
// editors are debounced per file.
type Watcher struct {
	watcher  *fsnotify.Watcher
	logger   *slog.Logger
	baseDir  string
	debounce time.Duration

	mu      sync.Mutex
	running bool
	timers  map[string]*time.Timer
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// NewWatcher creates a watcher over baseDir. debounce defaults to 100ms
// when zero or negative.
func NewWatcher(baseDir string, debounce time.Duration, logger *slog.Logger) (*Watcher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if debounce <= 0 {
		debounce = 100 * time.Millisecond
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	return &Watcher{
		watcher:  fsw,
		logger:   logger,
		baseDir:  baseDir,
		debounce: debounce,
		timers:   make(map[string]*time.Timer),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}, nil
}

// Watch blocks processing events until the context is cancelled or Stop is
// called. onChange receives the reference of each changed rule set,
// relative to the base directory.
func (w *Watcher) Watch(ctx context.Context, onChange func(ref string)) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return fmt.Errorf("watcher already running")
	}
	w.running = true
	w.mu.Unlock()

	defer func() {
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
		close(w.doneCh)
	}()

	if err := w.addDirectories(); err != nil {
		return fmt.Errorf("failed to watch %q: %w", w.baseDir, err)
	}

	w.logger.Info("rule set watcher started",
		"path", w.baseDir,
		"debounce_ms", w.debounce.Milliseconds(),
	)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("rule set watcher stopped (context cancelled)")
			return nil

		case <-w.stopCh:
			w.logger.Info("rule set watcher stopped")
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			if !w.shouldProcess(event) {
				continue
			}

			ref, err := filepath.Rel(w.baseDir, event.Name)
			if err != nil {
				ref = event.Name
			}

			w.logger.Debug("rule set file event", "ref", ref, "op", event.Op.String())
			w.trigger(ref, onChange)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			// Keep watching despite transient errors.
			w.logger.Error("rule set watcher error", "error", err)
		}
	}
}

// Stop stops the watcher and waits for the event loop to exit.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return w.watcher.Close()
	}
	w.mu.Unlock()

	close(w.stopCh)
	<-w.doneCh

	w.mu.Lock()
	for _, t := range w.timers {
		t.Stop()
	}
	w.timers = make(map[string]*time.Timer)
	w.mu.Unlock()

	return w.watcher.Close()
}

// trigger schedules onChange for ref after the debounce interval, resetting
// the timer if another event for the same ref arrives first.
func (w *Watcher) trigger(ref string, onChange func(ref string)) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if t, ok := w.timers[ref]; ok {
		t.Stop()
	}
	w.timers[ref] = time.AfterFunc(w.debounce, func() {
		select {
		case <-w.stopCh:
			return
		default:
		}
		onChange(ref)
	})
}

// addDirectories registers the base directory and all subdirectories.
func (w *Watcher) addDirectories() error {
	return filepath.Walk(w.baseDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if strings.HasPrefix(filepath.Base(path), ".") && path != w.baseDir {
			if info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if info.IsDir() {
			if err := w.watcher.Add(path); err != nil {
				return fmt.Errorf("failed to watch directory %q: %w", path, err)
			}
			w.logger.Debug("watching directory", "path", path)
		}
		return nil
	})
}

// shouldProcess filters out chmod noise, hidden files, and non-rule-set
// extensions.
func (w *Watcher) shouldProcess(event fsnotify.Event) bool {
	if event.Op&fsnotify.Chmod == fsnotify.Chmod {
		return false
	}
	if strings.HasPrefix(filepath.Base(event.Name), ".") {
		return false
	}
	return hasRuleSetExtension(event.Name)
}

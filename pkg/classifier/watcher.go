package classifier

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// RegistryWatcher watches a registry YAML file for changes and swaps the
// classifier's registry on modification. It debounces rapid events so an
// editor's save dance triggers a single reload.
type RegistryWatcher struct {
	watcher    *fsnotify.Watcher
	classifier *Classifier
	path       string
	debounce   *debouncer
	logger     *slog.Logger

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// NewRegistryWatcher creates a watcher for the given registry file. The
// file must already load cleanly; a watcher over a broken file would only
// ever log errors.
func NewRegistryWatcher(path string, classifier *Classifier, debounceInterval time.Duration) (*RegistryWatcher, error) {
	if debounceInterval <= 0 {
		debounceInterval = 100 * time.Millisecond
	}

	if _, err := LoadRegistry(path); err != nil {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	return &RegistryWatcher{
		watcher:    watcher,
		classifier: classifier,
		path:       path,
		debounce:   newDebouncer(debounceInterval),
		logger:     slog.Default().With("component", "classifier.watcher"),
		stopCh:     make(chan struct{}),
		doneCh:     make(chan struct{}),
	}, nil
}

// Watch blocks, reloading the registry whenever the file changes, until
// the context is cancelled or Stop is called. A reload that fails to parse
// is logged and skipped; the classifier keeps its last good registry.
func (w *RegistryWatcher) Watch(ctx context.Context) error {
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

	// Watch the directory, not the file: editors replace files on save,
	// which drops a file-level watch.
	if err := w.watcher.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("failed to watch registry directory: %w", err)
	}

	w.logger.Info("registry watcher started", "path", w.path)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("registry watcher stopped (context cancelled)")
			return nil

		case <-w.stopCh:
			w.logger.Info("registry watcher stopped")
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			if !w.shouldProcessEvent(event) {
				continue
			}

			w.logger.Debug("registry file event", "path", event.Name, "op", event.Op.String())

			w.debounce.trigger(func() {
				w.reload()
			})

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			w.logger.Error("registry watcher error", "error", err)
			// Keep watching despite errors
		}
	}
}

// Stop stops the watcher and waits for the Watch loop to return.
func (w *RegistryWatcher) Stop() error {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return nil
	}
	w.mu.Unlock()

	close(w.stopCh)
	<-w.doneCh

	w.debounce.stop()

	if err := w.watcher.Close(); err != nil {
		return fmt.Errorf("failed to close watcher: %w", err)
	}
	return nil
}

// reload loads the registry file and swaps it into the classifier.
func (w *RegistryWatcher) reload() {
	registry, err := LoadRegistry(w.path)
	if err != nil {
		w.logger.Error("registry reload failed, keeping previous registry", "error", err)
		return
	}

	w.classifier.SetRegistry(registry)
	w.logger.Info("registry reloaded", "path", w.path, "formats", len(registry.formats))
}

// shouldProcessEvent filters events down to writes of the registry file.
func (w *RegistryWatcher) shouldProcessEvent(event fsnotify.Event) bool {
	if event.Op&fsnotify.Chmod == fsnotify.Chmod {
		return false
	}
	if filepath.Base(event.Name) != filepath.Base(w.path) {
		return false
	}
	ext := strings.ToLower(filepath.Ext(event.Name))
	return ext == ".yaml" || ext == ".yml"
}

// debouncer collects rapid events and fires the callback only after a
// quiet period.
type debouncer struct {
	interval time.Duration
	timer    *time.Timer
	mu       sync.Mutex
	callback func()
	stopCh   chan struct{}
}

func newDebouncer(interval time.Duration) *debouncer {
	return &debouncer{
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// trigger arms the debouncer; the callback runs after the interval unless
// a newer event replaces it first.
func (d *debouncer) trigger(callback func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.callback = callback

	if d.timer != nil {
		d.timer.Stop()
	}

	d.timer = time.AfterFunc(d.interval, func() {
		select {
		case <-d.stopCh:
			return
		default:
			d.mu.Lock()
			cb := d.callback
			d.mu.Unlock()

			if cb != nil {
				cb()
			}
		}
	})
}

// stop cancels any pending callback.
func (d *debouncer) stop() {
	close(d.stopCh)

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.callback = nil
}

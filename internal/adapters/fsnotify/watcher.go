// Package fsnotify implements the ports.Watcher interface using github.com/fsnotify/fsnotify.
// It watches a shape catalog directory, passes through only catalog files, and
// debounces bursts of events (editors often trigger several writes per save)
// so each save is reported once, after it settles.
package fsnotify

import (
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/corey/shapegen/internal/logger"
	"github.com/corey/shapegen/internal/ports"
	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce is how long a file must stay quiet before onChange fires.
const DefaultDebounce = 50 * time.Millisecond

// Watcher implements ports.Watcher using fsnotify.
type Watcher struct {
	fw       *fsnotify.Watcher
	debounce time.Duration
	log      *zap.SugaredLogger

	done    chan struct{}
	stopped bool
	mu      sync.Mutex
	timers  map[string]*time.Timer
}

var _ ports.Watcher = (*Watcher)(nil)

// NewWatcher creates a new catalog watcher.
func NewWatcher() (*Watcher, error) {
	return NewWatcherWithDebounce(DefaultDebounce)
}

// NewWatcherWithDebounce creates a watcher with a custom quiet period.
func NewWatcherWithDebounce(d time.Duration) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "fsnotify")
	}
	return &Watcher{
		fw:       fw,
		debounce: d,
		log:      logger.Named("watcher"),
		done:     make(chan struct{}),
		timers:   make(map[string]*time.Timer),
	}, nil
}

// Watch starts monitoring dir (not its subdirectories, which the catalog
// loader ignores too). onChange is called with the absolute path of each
// changed catalog file.
func (w *Watcher) Watch(dir string, onChange func(filePath string)) error {
	absPath, err := filepath.Abs(dir)
	if err != nil {
		return err
	}
	if err := w.fw.Add(absPath); err != nil {
		return errors.Wrapf(err, "watch %s", absPath)
	}
	w.log.Debugw("watching catalog", logger.FieldPath, absPath)

	go func() {
		for {
			select {
			case event, ok := <-w.fw.Events:
				if !ok {
					return
				}
				if !IsCatalogFile(event.Name) {
					continue
				}
				if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
					event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
					w.schedule(event.Name, onChange)
				}

			case err, ok := <-w.fw.Errors:
				if !ok {
					return
				}
				// fsnotify keeps running after an error
				w.log.Warnw("watch error", logger.FieldError, err)

			case <-w.done:
				return
			}
		}
	}()

	return nil
}

// schedule (re)arms the quiet-period timer of path.
func (w *Watcher) schedule(path string, onChange func(string)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return
	}
	if t, ok := w.timers[path]; ok {
		t.Stop()
	}
	w.timers[path] = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		delete(w.timers, path)
		stopped := w.stopped
		w.mu.Unlock()
		if !stopped {
			onChange(path)
		}
	})
}

// Stop ends monitoring and releases all resources. Pending callbacks are
// dropped. Safe to call multiple times.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stopped {
		return nil
	}
	w.stopped = true
	for _, t := range w.timers {
		t.Stop()
	}
	close(w.done)
	return w.fw.Close()
}

// IsCatalogFile reports whether path names a catalog YAML file. Hidden files
// and editor backups never count.
func IsCatalogFile(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") || strings.HasSuffix(base, "~") {
		return false
	}
	ext := filepath.Ext(base)
	return ext == ".yaml" || ext == ".yml"
}

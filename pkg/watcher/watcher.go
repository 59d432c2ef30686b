// Package watcher reloads the annotation table when its backing file
// changes on disk. Editors and training pipelines rewrite the table in
// bursts, so change events are debounced into a single reload.
package watcher

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the default coalescing window.
const DefaultDebounce = 250 * time.Millisecond

// TableWatcher watches one annotation file and invokes a callback after
// writes settle.
type TableWatcher struct {
	path     string
	debounce time.Duration
	onChange func()

	fw   *fsnotify.Watcher
	done chan struct{}

	mu    sync.Mutex
	timer *time.Timer
	seq   uint64
}

// Watch starts watching path. onChange runs on the watcher's goroutine
// after events have been quiet for the debounce window; pass 0 for the
// default window.
func Watch(path string, debounce time.Duration, onChange func()) (*TableWatcher, error) {
	if debounce == 0 {
		debounce = DefaultDebounce
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watcher: %w", err)
	}
	// Watch the directory: editors that replace the file atomically would
	// otherwise drop the watch on the first rewrite.
	if err := fw.Add(filepath.Dir(path)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watcher: %w", err)
	}

	w := &TableWatcher{
		path:     path,
		debounce: debounce,
		onChange: onChange,
		fw:       fw,
		done:     make(chan struct{}),
	}
	go w.loop()
	return w, nil
}

func (w *TableWatcher) loop() {
	for {
		select {
		case ev, ok := <-w.fw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != filepath.Clean(w.path) {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				w.trigger()
			}
		case _, ok := <-w.fw.Errors:
			if !ok {
				return
			}
		case <-w.done:
			return
		}
	}
}

// trigger schedules the callback, superseding any pending one.
func (w *TableWatcher) trigger() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.seq++
	seq := w.seq

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		stale := seq != w.seq
		if !stale {
			w.timer = nil
		}
		w.mu.Unlock()
		if stale {
			return
		}
		w.onChange()
	})
}

// Close stops watching and cancels any pending callback.
func (w *TableWatcher) Close() error {
	close(w.done)

	w.mu.Lock()
	w.seq++
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
	w.mu.Unlock()

	return w.fw.Close()
}

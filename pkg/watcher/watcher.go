// Package watcher re-runs a callback when capture scripts change on disk.
package watcher

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/chazu/facesvg/pkg/logging"
)

// DefaultDebounce collapses the burst of events an editor save produces.
const DefaultDebounce = 200 * time.Millisecond

// FileWatcher watches script files and calls back once per burst of
// changes. The parent directories are watched, not the files, so that
// editors which save by renaming a temp file are still seen.
type FileWatcher struct {
	watcher   *fsnotify.Watcher
	mu        sync.Mutex
	callbacks map[string]func(string)
	dirs      map[string]bool
	debounce  time.Duration
	timers    map[string]*time.Timer
}

// NewFileWatcher creates a new file watcher.
func NewFileWatcher(debounce time.Duration) (*FileWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watcher: %w", err)
	}

	return &FileWatcher{
		watcher:   w,
		callbacks: make(map[string]func(string)),
		dirs:      make(map[string]bool),
		debounce:  debounce,
		timers:    make(map[string]*time.Timer),
	}, nil
}

// Watch registers callback for each file. The callback receives the
// absolute path of the file that changed.
func (fw *FileWatcher) Watch(files []string, callback func(string)) error {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	for _, file := range files {
		absPath, err := filepath.Abs(file)
		if err != nil {
			return fmt.Errorf("watcher: resolve %s: %w", file, err)
		}

		dir := filepath.Dir(absPath)
		if !fw.dirs[dir] {
			if err := fw.watcher.Add(dir); err != nil {
				return fmt.Errorf("watcher: watch %s: %w", dir, err)
			}
			fw.dirs[dir] = true
		}

		fw.callbacks[absPath] = callback
	}

	return nil
}

// Start begins delivering events. It returns immediately.
func (fw *FileWatcher) Start() {
	go func() {
		for {
			select {
			case event, ok := <-fw.watcher.Events:
				if !ok {
					return
				}
				if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
					fw.handleFileChange(event.Name)
				}

			case err, ok := <-fw.watcher.Errors:
				if !ok {
					return
				}
				logging.Logger().Warn("watcher error", "err", err)
			}
		}
	}()
}

// handleFileChange restarts the debounce timer of a watched file.
func (fw *FileWatcher) handleFileChange(name string) {
	absPath, err := filepath.Abs(name)
	if err != nil {
		return
	}

	fw.mu.Lock()
	defer fw.mu.Unlock()

	callback, exists := fw.callbacks[absPath]
	if !exists {
		return
	}

	if timer, exists := fw.timers[absPath]; exists {
		timer.Stop()
	}
	fw.timers[absPath] = time.AfterFunc(fw.debounce, func() {
		callback(absPath)
	})
}

// Close stops the watcher and any pending callbacks.
func (fw *FileWatcher) Close() error {
	fw.mu.Lock()
	for _, t := range fw.timers {
		t.Stop()
	}
	fw.mu.Unlock()
	return fw.watcher.Close()
}

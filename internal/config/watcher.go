package config

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/dshills/inkpad/internal/editor/debounce"
)

// reloadDebounce coalesces the event bursts editors produce when saving
// a file (write + chmod, or remove + create).
const reloadDebounce = 200 * time.Millisecond

// Watcher reloads a config file when it changes on disk.
type Watcher struct {
	path    string
	watcher *fsnotify.Watcher
	timer   debounce.Timer
	onLoad  func(Config)
	done    chan struct{}
}

// Watch starts watching path and calls onLoad with the freshly loaded
// config after each change. Reloads are debounced; a file that fails to
// parse is skipped, keeping the last good config in effect.
func Watch(path string, onLoad func(Config)) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating config watcher: %w", err)
	}

	// Watch the directory, not the file: save-via-rename replaces the
	// file inode and a file watch would go stale.
	dir := filepath.Dir(path)
	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watching config dir %s: %w", dir, err)
	}

	w := &Watcher{
		path:    path,
		watcher: fsw,
		onLoad:  onLoad,
		done:    make(chan struct{}),
	}
	go w.loop()
	return w, nil
}

// Close stops watching. Pending debounced reloads are discarded.
func (w *Watcher) Close() error {
	close(w.done)
	w.timer.Cancel()
	return w.watcher.Close()
}

func (w *Watcher) loop() {
	abs, _ := filepath.Abs(w.path)
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !w.matches(event.Name, abs) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.timer.Arm(reloadDebounce, w.reload)
		case _, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			// Watch errors are not actionable here; the next event (or
			// a restart) recovers.
		}
	}
}

func (w *Watcher) matches(name, abs string) bool {
	if name == w.path {
		return true
	}
	n, err := filepath.Abs(name)
	return err == nil && n == abs
}

func (w *Watcher) reload() {
	cfg, err := Load(w.path)
	if err != nil {
		return
	}
	w.onLoad(cfg)
}

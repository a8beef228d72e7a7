package tui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
)

type themeWatcher struct {
	fw   *fsnotify.Watcher
	done chan struct{}
}

// WatchThemeDir reloads the active theme when its TOML file changes on
// disk. Only TOML themes reload; built-in themes never change.
func (tm *ThemeManager) WatchThemeDir() error {
	tm.mu.RLock()
	dir := tm.themeDir
	running := tm.watcher != nil
	tm.mu.RUnlock()

	if dir == "" {
		return fmt.Errorf("tui: no theme directory set")
	}
	if running {
		return nil
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("tui: theme watcher: %w", err)
	}
	if err := fw.Add(dir); err != nil {
		fw.Close()
		return fmt.Errorf("tui: watch %s: %w", dir, err)
	}

	w := &themeWatcher{fw: fw, done: make(chan struct{})}
	tm.mu.Lock()
	tm.watcher = w
	tm.mu.Unlock()

	go tm.watchLoop(w)
	return nil
}

// StopWatching shuts the watcher down. Safe to call when not watching.
func (tm *ThemeManager) StopWatching() {
	tm.mu.Lock()
	w := tm.watcher
	tm.watcher = nil
	tm.mu.Unlock()

	if w != nil {
		close(w.done)
		w.fw.Close()
	}
}

func (tm *ThemeManager) watchLoop(w *themeWatcher) {
	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-w.fw.Events:
			if !ok {
				return
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			name := strings.TrimSuffix(filepath.Base(ev.Name), ".toml")
			if name == tm.Name() {
				// Reapplies the palette from disk; errors leave the
				// current palette in place
				_ = tm.SetTheme(name)
			}
		case _, ok := <-w.fw.Errors:
			if !ok {
				return
			}
		}
	}
}

// Copyright 2026 The Telecode Authors
// SPDX-License-Identifier: Apache-2.0

package changes

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/telecode-project/telecode/lib/state"
)

// ignoredDirectories are never watched and never reported.
var ignoredDirectories = map[string]struct{}{
	".git":         {},
	"node_modules": {},
	"dist":         {},
	".next":        {},
	".claude":      {},
	".nuxt":        {},
	".output":      {},
	"coverage":     {},
	".turbo":       {},
	"__pycache__":  {},
	".venv":        {},
}

// Tracker accumulates file changes under one project root between
// Start and Stop. One Tracker covers one agent run.
type Tracker struct {
	root    string
	logger  *slog.Logger
	watcher *fsnotify.Watcher

	mu          sync.Mutex
	changes     map[string]state.FileChangeKind
	watchedDirs map[string]struct{}

	done chan struct{}
}

// Start begins watching root and its (non-ignored) subdirectories.
// Callers must Stop the tracker to release the watches.
func Start(root string, logger *slog.Logger) (*Tracker, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating filesystem watcher: %w", err)
	}

	tracker := &Tracker{
		root:        root,
		logger:      logger,
		watcher:     watcher,
		changes:     make(map[string]state.FileChangeKind),
		watchedDirs: make(map[string]struct{}),
		done:        make(chan struct{}),
	}

	if err := tracker.watchTree(root, false); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watching project tree: %w", err)
	}

	go tracker.run()
	return tracker, nil
}

// Stop releases the watches and returns the accumulated change set,
// sorted by path.
func (t *Tracker) Stop() []state.FileChange {
	t.watcher.Close()
	<-t.done

	t.mu.Lock()
	defer t.mu.Unlock()

	result := make([]state.FileChange, 0, len(t.changes))
	for path, kind := range t.changes {
		result = append(result, state.FileChange{Path: path, Kind: kind})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Path < result[j].Path })
	return result
}

// run drains watcher events until the watcher is closed.
func (t *Tracker) run() {
	defer close(t.done)
	for {
		select {
		case event, ok := <-t.watcher.Events:
			if !ok {
				return
			}
			t.handle(event)
		case err, ok := <-t.watcher.Errors:
			if !ok {
				return
			}
			t.logger.Warn("filesystem watcher error", "error", err)
		}
	}
}

// handle folds one raw event into the change map.
func (t *Tracker) handle(event fsnotify.Event) {
	name := filepath.Base(event.Name)
	if _, ignored := ignoredDirectories[name]; ignored {
		return
	}

	switch {
	case event.Has(fsnotify.Create):
		info, err := os.Lstat(event.Name)
		if err == nil && info.IsDir() {
			// A directory created mid-run: watch it and record the
			// files that landed before the watch was in place.
			if err := t.watchTree(event.Name, true); err != nil {
				t.logger.Warn("watching new directory", "path", event.Name, "error", err)
			}
			return
		}
		t.record(event.Name, state.FileCreated)

	case event.Has(fsnotify.Write):
		t.record(event.Name, state.FileModified)

	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		t.mu.Lock()
		if _, wasDir := t.watchedDirs[event.Name]; wasDir {
			delete(t.watchedDirs, event.Name)
			t.mu.Unlock()
			return
		}
		t.mu.Unlock()
		t.record(event.Name, state.FileDeleted)
	}
}

// record folds one change kind into the per-path state so the final
// set reads like a before/after diff of the run.
func (t *Tracker) record(path string, kind state.FileChangeKind) {
	t.mu.Lock()
	defer t.mu.Unlock()

	previous, seen := t.changes[path]
	switch kind {
	case state.FileCreated:
		if seen && previous == state.FileDeleted {
			// Deleted then recreated within the run: net effect is a
			// modification.
			t.changes[path] = state.FileModified
			return
		}
		t.changes[path] = state.FileCreated

	case state.FileModified:
		if seen && previous == state.FileCreated {
			// Still a brand-new file from the run's perspective.
			return
		}
		t.changes[path] = state.FileModified

	case state.FileDeleted:
		if seen && previous == state.FileCreated {
			// Created and removed within the run: no net change.
			delete(t.changes, path)
			return
		}
		t.changes[path] = state.FileDeleted
	}
}

// watchTree adds watches for directory and all non-ignored
// subdirectories. When recordFiles is set, regular files found during
// the walk are recorded as created — they appeared after Start and
// before their parent directory's watch existed.
func (t *Tracker) watchTree(directory string, recordFiles bool) error {
	return filepath.WalkDir(directory, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			// Directories can vanish mid-walk; skip rather than abort.
			return nil
		}
		if entry.IsDir() {
			if _, ignored := ignoredDirectories[entry.Name()]; ignored {
				return filepath.SkipDir
			}
			if err := t.watcher.Add(path); err != nil {
				return fmt.Errorf("adding watch for %s: %w", path, err)
			}
			t.mu.Lock()
			t.watchedDirs[path] = struct{}{}
			t.mu.Unlock()
			return nil
		}
		if recordFiles {
			t.record(path, state.FileCreated)
		}
		return nil
	})
}

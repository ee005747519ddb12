package rules

import (
	"context"
	"log"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Store serves the current rules table and hot-reloads it when the
// operations team edits the rules file.
type Store struct {
	path  string
	mu    sync.RWMutex
	table Table
}

// NewStore loads the rules file once. A missing or broken file leaves the
// defaults in place.
func NewStore(path string) *Store {
	s := &Store{path: path}
	table, err := Load(path)
	if err != nil {
		log.Printf("rules: using defaults: %v", err)
	}
	s.table = table
	return s
}

// Get returns the current table. The value is copied by the caller's use;
// tables are never mutated after load.
func (s *Store) Get() Table {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.table
}

// Watch reloads the table whenever the rules file changes. Editors replace
// files on save, so the parent directory is watched and events are filtered
// by name.
func (s *Store) Watch(ctx context.Context) error {
	if s.path == "" {
		log.Println("rules watcher disabled")
		return nil
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	go func() {
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case evt := <-watcher.Events:
				if filepath.Clean(evt.Name) != filepath.Clean(s.path) {
					continue
				}
				if evt.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
					continue
				}
				table, err := Load(s.path)
				if err != nil {
					log.Printf("rules reload failed, keeping previous table: %v", err)
					continue
				}
				s.mu.Lock()
				s.table = table
				s.mu.Unlock()
				log.Printf("rules reloaded: overrides=%d location_rules=%d", len(table.Overrides), len(table.Locations))
			case err := <-watcher.Errors:
				log.Printf("rules watcher error: %v", err)
			}
		}
	}()
	return watcher.Add(filepath.Dir(s.path))
}

package favorites

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch reloads the store whenever the favorites file changes on disk and
// fires the change notification, so a hand-edited file shows up without a
// restart. The watch covers the parent directory because Persist replaces
// the file by rename. Returns once the watcher is installed; watching stops
// when ctx is done.
//
// The store's own Persist also trips the watcher; the extra reload is
// harmless since it reads back what was just written.
func (s *Store) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create favorites watcher: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	go func() {
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != filepath.Clean(s.path) {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
					continue
				}
				s.Reload()
				s.notify()
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				s.report(fmt.Errorf("favorites watcher: %w", err))
			}
		}
	}()
	return nil
}

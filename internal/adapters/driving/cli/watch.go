package cli

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/gachadex/catalogsync/internal/logger"
)

// watchDebounce is how long file events must settle before a run starts.
var watchDebounce = 500 * time.Millisecond

// catalogWatcher tracks catalog files and their content at the last run.
type catalogWatcher struct {
	targets map[string]bool
	digests map[string][sha256.Size]byte
}

func newCatalogWatcher(paths []string) (*catalogWatcher, error) {
	w := &catalogWatcher{
		targets: make(map[string]bool, len(paths)),
		digests: make(map[string][sha256.Size]byte, len(paths)),
	}
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, fmt.Errorf("resolve %s: %w", p, err)
		}
		w.targets[abs] = true
	}
	return w, nil
}

// dirs returns the directories to watch. Catalog files are replaced by
// rename on save, so the parent directory is watched rather than the file.
func (w *catalogWatcher) dirs() []string {
	seen := make(map[string]bool)
	var out []string
	for p := range w.targets {
		dir := filepath.Dir(p)
		if !seen[dir] {
			seen[dir] = true
			out = append(out, dir)
		}
	}
	return out
}

// relevant reports whether ev may have changed a catalog file.
func (w *catalogWatcher) relevant(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
		return false
	}
	abs, err := filepath.Abs(ev.Name)
	if err != nil {
		return false
	}
	return w.targets[abs]
}

// snapshot records the current content of every catalog file.
func (w *catalogWatcher) snapshot() {
	for p := range w.targets {
		w.digests[p] = fileDigest(p)
	}
}

// changed reports whether any catalog file differs from the last snapshot.
// The files written back by a sync run match their snapshot, so a run does
// not trigger itself.
func (w *catalogWatcher) changed() bool {
	for p := range w.targets {
		if fileDigest(p) != w.digests[p] {
			return true
		}
	}
	return false
}

func fileDigest(path string) [sha256.Size]byte {
	data, err := os.ReadFile(path)
	if err != nil {
		return [sha256.Size]byte{}
	}
	return sha256.Sum256(data)
}

// watchCatalogs re-runs run whenever a catalog file changes, until ctx is
// cancelled. Runs never overlap.
func watchCatalogs(ctx context.Context, cmd *cobra.Command, run func(context.Context) error, paths []string) error {
	cw, err := newCatalogWatcher(paths)
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	for _, dir := range cw.dirs() {
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
	}

	cw.snapshot()
	cmd.Println(mutedStyle.Render("Watching catalog files for changes. Press Ctrl+C to stop."))

	timer := time.NewTimer(time.Hour)
	timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if cw.relevant(ev) {
				logger.Debug("Catalog event: %s", ev)
				timer.Reset(watchDebounce)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watcher error: %v", err)

		case <-timer.C:
			if !cw.changed() {
				continue
			}
			cmd.Println(titleStyle.Render("Catalog changed, synchronising"))
			if err := run(ctx); err != nil {
				if errors.Is(err, context.Canceled) {
					return nil
				}
				logger.Error("Sync failed: %v", err)
			}
			cw.snapshot()
		}
	}
}

package imagefix

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/alnah/go-deck2pdf/internal/fileutil"
)

// DefaultSettle is how long a watched file must go without events before
// it is fixed.
const DefaultSettle = 500 * time.Millisecond

// Watch fixes PNG files under dirs until ctx is done. A file is fixed once
// it has received no create or write event for the settle period, so a
// writer still appending base64 text is never cut off. New subdirectories
// are watched as they appear. onOutcome, when set, receives every
// non-skipped outcome. The rename done by a fix fires another event; the
// file is then binary and skipped.
func (f *Fixer) Watch(ctx context.Context, dirs []string, onOutcome func(Outcome)) error {
	if len(dirs) == 0 {
		dirs = DefaultDirs
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer func() {
		if closeErr := watcher.Close(); closeErr != nil {
			f.logger().WithError(closeErr).Debug("failed to close watcher")
		}
	}()

	watched := 0
	for _, dir := range dirs {
		n, err := addTree(watcher, dir)
		if err != nil {
			return err
		}
		watched += n
	}
	if watched == 0 {
		return fmt.Errorf("%w: none of %v", fs.ErrNotExist, dirs)
	}
	f.logger().WithField("dirs", dirs).Info("watching for base64 PNG files")

	settle := f.settle()
	pending := pendingFiles{}
	tick := time.NewTicker(settle / 2)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			f.handle(watcher, event, pending)
		case now := <-tick.C:
			for _, path := range pending.due(now, settle) {
				f.fixWatched(path, onOutcome)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			f.logger().WithError(err).Warn("file watcher error")
		}
	}
}

func (f *Fixer) handle(watcher *fsnotify.Watcher, event fsnotify.Event, pending pendingFiles) {
	if event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
		delete(pending, event.Name)
		return
	}
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return
	}
	if event.Has(fsnotify.Create) && fileutil.DirExists(event.Name) {
		if _, err := addTree(watcher, event.Name); err != nil {
			f.logger().WithError(err).WithField("dir", event.Name).Warn("cannot watch new directory")
		}
		return
	}
	if !isPNGName(event.Name) {
		return
	}
	pending[event.Name] = time.Now()
}

func (f *Fixer) fixWatched(path string, onOutcome func(Outcome)) {
	out := f.FixFile(path)
	if out.Status == StatusSkipped {
		return
	}
	f.log(out)
	if onOutcome != nil {
		onOutcome(out)
	}
}

// pendingFiles maps a written PNG path to its last event time.
type pendingFiles map[string]time.Time

// due removes and returns, sorted, the paths quiet for at least settle.
func (p pendingFiles) due(now time.Time, settle time.Duration) []string {
	var paths []string
	for path, last := range p {
		if now.Sub(last) >= settle {
			paths = append(paths, path)
			delete(p, path)
		}
	}
	sort.Strings(paths)
	return paths
}

// addTree watches dir and its subdirectories, returning how many were added.
// A missing dir adds nothing.
func addTree(watcher *fsnotify.Watcher, dir string) (int, error) {
	if !fileutil.DirExists(dir) {
		return 0, nil
	}
	n := 0
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != dir && skipDirs[d.Name()] {
			return filepath.SkipDir
		}
		if err := watcher.Add(path); err != nil {
			return fmt.Errorf("failed to watch %s: %w", path, err)
		}
		n++
		return nil
	})
	return n, err
}

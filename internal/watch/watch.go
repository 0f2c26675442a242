// Package watch reruns a scan when a workspace changes on disk.
//
// fsnotify is not recursive, so the caller supplies the directories to
// watch: the non-repository directories of the last walk (new or removed
// repositories), every repository root (new untracked files) and its
// metadata directory (HEAD and index updates). Events are debounced, and
// whatever the rescan itself causes (git refreshing the index, fetch
// writing FETCH_HEAD) is discarded before watching resumes.
package watch

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/raphi011/wsi/internal/git"
	"github.com/raphi011/wsi/internal/log"
	"github.com/raphi011/wsi/internal/scan"
)

// Defaults for Options.
const (
	DefaultDebounce = 500 * time.Millisecond
	DefaultSettle   = 200 * time.Millisecond
)

// ErrNoTargets is returned when none of the targets could be watched.
var ErrNoTargets = errors.New("nothing to watch")

// Options configures Run.
type Options struct {
	// Targets returns the paths to watch. It is called at start and after
	// every rescan so new directories are picked up.
	Targets func() []string

	// OnChange runs once per burst of events. An error stops the watch.
	OnChange func(ctx context.Context) error

	// Debounce is the quiet time required after the last event.
	Debounce time.Duration

	// Settle is how long events must stop after OnChange before
	// watching resumes.
	Settle time.Duration
}

// Run watches the targets until ctx is cancelled or OnChange fails.
// Cancellation is not an error.
func Run(ctx context.Context, opts Options) error {
	debounce := opts.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	settle := opts.Settle
	if settle <= 0 {
		settle = DefaultSettle
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer w.Close()

	l := log.FromContext(ctx)
	watched := make(map[string]bool)

	refresh := func() {
		want := make(map[string]bool)
		for _, p := range opts.Targets() {
			want[p] = true
		}
		for p := range watched {
			if !want[p] {
				_ = w.Remove(p)
				delete(watched, p)
			}
		}
		for p := range want {
			if watched[p] {
				continue
			}
			if err := w.Add(p); err != nil {
				l.Debug("cannot watch", "path", p, "err", err)
				continue
			}
			watched[p] = true
		}
		l.Debug("watching", "paths", len(watched))
	}

	refresh()
	if len(watched) == 0 {
		return ErrNoTargets
	}

	timer := time.NewTimer(debounce)
	timer.Stop()
	pending := false

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ignored(ev) {
				continue
			}
			l.Debug("change", "path", ev.Name, "op", ev.Op.String())
			pending = true
			timer.Reset(debounce)

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			l.Debug("watch error", "err", err)

		case <-timer.C:
			if !pending {
				continue
			}
			pending = false

			if err := opts.OnChange(ctx); err != nil {
				return err
			}
			if ctx.Err() != nil {
				return nil
			}
			drain(ctx, w, settle)
			refresh()
		}
	}
}

// drain discards events until none arrive for settle.
func drain(ctx context.Context, w *fsnotify.Watcher, settle time.Duration) {
	quiet := time.NewTimer(settle)
	defer quiet.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-quiet.C:
			return
		case _, ok := <-w.Events:
			if !ok {
				return
			}
			quiet.Reset(settle)
		}
	}
}

// ignored filters events that never change a scan result: permission
// changes, lock files, and fetch bookkeeping.
func ignored(ev fsnotify.Event) bool {
	if ev.Op == fsnotify.Chmod {
		return true
	}
	base := filepath.Base(ev.Name)
	return strings.HasSuffix(base, ".lock") || base == "FETCH_HEAD"
}

// Targets lists what to watch for a discovery: every walked directory,
// every repository root, and each repository's metadata directory.
func Targets(d scan.Discovery) []string {
	targets := make([]string, 0, len(d.Dirs)+2*len(d.Repos))
	targets = append(targets, d.Dirs...)
	for _, repo := range d.Repos {
		targets = append(targets, repo)
		if meta, ok := git.ResolveMetadataDir(repo); ok {
			targets = append(targets, meta)
		}
	}
	return targets
}

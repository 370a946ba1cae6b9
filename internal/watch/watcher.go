// SPDX-License-Identifier: MPL-2.0

package watch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/knife-sh/knife/internal/issue"
)

// DefaultDebounce is used when Config.Debounce is not positive.
const DefaultDebounce = 500 * time.Millisecond

// clearSequence erases the screen and homes the cursor.
const clearSequence = "\x1b[2J\x1b[H"

// ErrAlreadyRunning is returned by a second call to Run.
var ErrAlreadyRunning = errors.New("watch: Run called more than once")

type (
	// OnChangeFunc is called after the debounce window closes. changed holds
	// the sorted, deduplicated paths relative to the watched root; it is nil
	// for the initial run.
	OnChangeFunc func(ctx context.Context, changed []string) error

	// Config holds the parameters for a Watcher.
	Config struct {
		// Root is the directory watched recursively; empty means the working
		// directory.
		Root string
		// Patterns select the files that trigger a run. Empty means all.
		Patterns []string
		// Ignore adds to DefaultIgnores.
		Ignore []string
		// Debounce is the quiet period after the last event before OnChange runs.
		Debounce time.Duration
		// ClearScreen writes an ANSI clear sequence to Stdout before each run.
		// The caller decides whether Stdout is a terminal.
		ClearScreen bool
		// RunOnStart calls OnChange once before waiting for changes.
		RunOnStart bool
		OnChange   OnChangeFunc
		// Stdout receives the clear sequence and Stderr callback errors; nil
		// means the process streams.
		Stdout io.Writer
		Stderr io.Writer
	}

	// Watcher monitors a directory tree. Runs of OnChange never overlap:
	// events that arrive during a run start a new debounce window once it
	// returns.
	Watcher struct {
		cfg      Config
		root     string
		fsw      *fsnotify.Watcher
		filter   *filter
		debounce time.Duration
		stdout   io.Writer
		stderr   io.Writer
		started  atomic.Bool
	}
)

// New validates cfg and registers every non-ignored directory under the root.
func New(cfg Config) (*Watcher, error) {
	f, err := newFilter(cfg.Patterns, cfg.Ignore)
	if err != nil {
		return nil, err
	}

	root := cfg.Root
	if root == "" {
		root = "."
	}
	root, err = filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("watch: resolve root: %w", err)
	}
	if info, statErr := os.Stat(root); statErr != nil {
		return nil, watchError(root, statErr)
	} else if !info.IsDir() {
		return nil, watchError(root, fmt.Errorf("%s is not a directory", root))
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, watchError(root, err)
	}

	w := &Watcher{
		cfg:      cfg,
		root:     root,
		fsw:      fsw,
		filter:   f,
		debounce: cfg.Debounce,
		stdout:   cfg.Stdout,
		stderr:   cfg.Stderr,
	}
	if w.debounce <= 0 {
		w.debounce = DefaultDebounce
	}
	if w.stdout == nil {
		w.stdout = os.Stdout
	}
	if w.stderr == nil {
		w.stderr = os.Stderr
	}

	if err := w.addTree(root); err != nil {
		_ = fsw.Close()
		return nil, watchError(root, err)
	}
	return w, nil
}

// Root returns the absolute path of the watched directory.
func (w *Watcher) Root() string { return w.root }

// Run dispatches debounced callbacks until ctx is cancelled, which returns
// nil. Fatal watcher errors end the loop with an error.
func (w *Watcher) Run(ctx context.Context) error {
	if !w.started.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer func() {
		if err := w.fsw.Close(); err != nil {
			slog.Debug("close fsnotify watcher", "err", err)
		}
	}()

	if w.cfg.RunOnStart {
		w.fire(ctx, nil)
	}

	pending := make(map[string]struct{})
	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case evt, ok := <-w.fsw.Events:
			if !ok {
				return errors.New("watch: event channel closed")
			}
			rel, relevant := w.handle(evt)
			if !relevant {
				continue
			}
			pending[rel] = struct{}{}
			timer.Reset(w.debounce)

		case <-timer.C:
			if len(pending) == 0 {
				continue
			}
			changed := slices.Sorted(maps.Keys(pending))
			clear(pending)
			w.fire(ctx, changed)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return errors.New("watch: error channel closed")
			}
			if isFatal(err) {
				return watchError(w.root, err)
			}
			slog.Warn("watch error", "err", err)
		}
	}
}

// handle registers new directories and reports whether evt should trigger a
// run, along with its root-relative path.
func (w *Watcher) handle(evt fsnotify.Event) (string, bool) {
	rel, err := filepath.Rel(w.root, evt.Name)
	if err != nil {
		rel = evt.Name
	}
	rel = filepath.ToSlash(rel)

	if evt.Has(fsnotify.Create) {
		if info, statErr := os.Stat(evt.Name); statErr == nil && info.IsDir() {
			if w.filter.ignored(rel, true) {
				return "", false
			}
			if addErr := w.addTree(evt.Name); addErr != nil {
				slog.Warn("watch new directory", "path", evt.Name, "err", addErr)
			}
		}
	}
	if evt.Op == fsnotify.Chmod {
		return "", false
	}
	if !w.filter.wanted(rel) {
		slog.Debug("watch event filtered", "path", rel, "op", evt.Op.String())
		return "", false
	}
	return rel, true
}

func (w *Watcher) fire(ctx context.Context, changed []string) {
	if ctx.Err() != nil {
		return
	}
	if w.cfg.ClearScreen {
		_, _ = io.WriteString(w.stdout, clearSequence)
	}
	if w.cfg.OnChange == nil {
		return
	}
	if err := w.cfg.OnChange(ctx, changed); err != nil {
		fmt.Fprintf(w.stderr, "watch: %v\n", err)
	}
}

// addTree adds dir and every non-ignored directory below it. Unreadable
// directories are skipped.
func (w *Watcher) addTree(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			slog.Warn("watch skipping inaccessible path", "path", path, "err", err)
			if d != nil && d.IsDir() && path != dir {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if rel, relErr := filepath.Rel(w.root, path); relErr == nil && rel != "." && w.filter.ignored(rel, true) {
			return filepath.SkipDir
		}
		if addErr := w.fsw.Add(path); addErr != nil {
			return fmt.Errorf("add %s: %w", path, addErr)
		}
		return nil
	})
}

func watchError(root string, err error) error {
	return issue.NewErrorContext().
		WithOperation("watch for changes").
		WithResource(root).
		WithIssue(issue.WatchFailedId).
		Wrap(err).
		BuildError()
}

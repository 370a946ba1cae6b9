// SPDX-License-Identifier: MPL-2.0

package listing

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

type (
	// WalkerConfig holds the collaborators of a Walker.
	WalkerConfig struct {
		// FS is read with absolute paths. nil uses the host filesystem.
		FS FileSystem
		// Identity resolves owner and group names. nil uses HostIdentity.
		Identity IdentityLookup
		// Clock drives mtime formatting. nil uses the system clock.
		Clock Clock
		// Display describes stdout.
		Display Display
		// Dir is the working directory relative targets resolve against.
		// An empty value uses the process working directory.
		Dir string
		// Program prefixes diagnostics, e.g. "ls".
		Program string

		Stdout io.Writer
		Stderr io.Writer
	}

	// Walker drives a listing over command-line targets.
	Walker struct {
		cfg      WalkerConfig
		resolver *Resolver
		renderer *Renderer
	}

	// walk is the state of one Run call.
	walk struct {
		*Walker
		opts     Options
		failed   bool
		writeErr error
	}

	// pendingDir is a directory waiting on the recursion stack.
	pendingDir struct {
		abs     string
		display string
		header  bool
	}
)

// NewWalker creates a Walker, filling unset collaborators with host defaults.
func NewWalker(cfg WalkerConfig) *Walker {
	if cfg.FS == nil {
		cfg.FS = NewOSFileSystem()
	}
	if cfg.Identity == nil {
		cfg.Identity = HostIdentity()
	}
	if cfg.Dir == "" {
		if wd, err := os.Getwd(); err == nil {
			cfg.Dir = wd
		}
	}
	if cfg.Program == "" {
		cfg.Program = "ls"
	}
	if cfg.Stdout == nil {
		cfg.Stdout = io.Discard
	}
	if cfg.Stderr == nil {
		cfg.Stderr = io.Discard
	}
	return &Walker{
		cfg:      cfg,
		resolver: NewResolver(cfg.FS),
		renderer: NewRenderer(cfg.Identity, cfg.Clock),
	}
}

// Run lists each target in order. An empty target list means ".".
//
// Per-path and per-entry failures are reported on Stderr and never stop the
// walk; if any occurred Run returns ErrListingFailed. Cancellation of ctx is
// checked between targets and between directories and returns ctx.Err().
func (w *Walker) Run(ctx context.Context, targets []string, opts Options) error {
	if err := opts.Validate(); err != nil {
		return err
	}
	if len(targets) == 0 {
		targets = []string{"."}
	}

	s := &walk{Walker: w, opts: opts}
	for i, target := range targets {
		if err := ctx.Err(); err != nil {
			return err
		}
		if i > 0 {
			s.println("")
		}
		if len(targets) > 1 && !opts.DirectoryItself {
			s.println(target + ":")
		}
		if err := s.target(ctx, target); err != nil {
			return err
		}
		if s.writeErr != nil {
			return s.writeErr
		}
	}

	if s.failed {
		return ErrListingFailed
	}
	return nil
}

// target handles one command-line argument.
func (s *walk) target(ctx context.Context, target string) error {
	abs := target
	if !filepath.IsAbs(abs) {
		abs = filepath.Join(s.cfg.Dir, target)
	}

	info, err := s.cfg.FS.Stat(abs)
	if err != nil {
		// A dangling symlink still lists as itself.
		if _, lerr := s.cfg.FS.Lstat(abs); lerr != nil {
			s.report(newEntryError(target, err))
			return nil
		}
	}

	if info != nil && info.IsDir() && !s.opts.DirectoryItself {
		return s.tree(ctx, abs, target)
	}

	entry, err := s.resolver.ResolvePath(abs, target)
	if err != nil {
		s.report(err)
		return nil
	}
	if info == nil || !info.IsDir() {
		slog.Debug("listing single entry", "path", target, "reason", ErrNotADirectory)
	}
	s.print(s.renderer.Render([]Entry{entry}, s.opts, s.cfg.Display))
	return nil
}

// tree lists a directory and, when recursive, its subdirectories depth-first
// in pre-order using an explicit stack.
func (s *walk) tree(ctx context.Context, abs, display string) error {
	stack := []pendingDir{{abs: abs, display: display}}
	for len(stack) > 0 {
		if err := ctx.Err(); err != nil {
			return err
		}
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if top.header {
			s.println("")
			s.println(top.display + ":")
		}
		subdirs := s.directory(top)
		if !s.opts.Recursive {
			continue
		}
		for _, sub := range slices.Backward(subdirs) {
			stack = append(stack, sub)
		}
	}
	return nil
}

// directory renders one directory block and returns its subdirectories in
// display order.
func (s *walk) directory(dir pendingDir) []pendingDir {
	infos, err := s.cfg.FS.ReadDir(dir.abs)
	if err != nil {
		s.report(newEntryError(dir.display, err))
		return nil
	}

	names := make([]string, 0, len(infos)+2)
	if s.opts.ShowHidden {
		names = append(names, ".", "..")
	}
	for _, info := range infos {
		name := info.Name()
		if !s.opts.ShowHidden && strings.HasPrefix(name, ".") {
			continue
		}
		if s.opts.ignored(name) {
			continue
		}
		names = append(names, name)
	}

	entries := make([]Entry, 0, len(names))
	for _, name := range names {
		e, err := s.resolver.Resolve(dir.abs, dir.display, name)
		if err != nil {
			slog.Debug("skipping entry", "path", joinDisplay(dir.display, name), "error", err)
			s.report(err)
			continue
		}
		entries = append(entries, e)
	}

	sorted, err := Sort(entries, s.opts.SortKey, s.opts.ReverseSort)
	if err != nil {
		slog.Debug("keeping enumeration order", "dir", dir.display, "error", err)
	}
	s.print(s.renderer.Render(sorted, s.opts, s.cfg.Display))

	var subdirs []pendingDir
	for _, e := range sorted {
		if !e.IsDir() || e.Name == "." || e.Name == ".." {
			continue
		}
		subdirs = append(subdirs, pendingDir{
			abs:     filepath.Join(dir.abs, e.Name),
			display: e.Path,
			header:  true,
		})
	}
	return subdirs
}

// report writes one failure to Stderr and marks the run failed.
func (s *walk) report(err error) {
	s.failed = true
	fmt.Fprintf(s.cfg.Stderr, "%s: %v\n", s.cfg.Program, err)
}

func (s *walk) print(lines []RenderedLine) {
	for _, l := range lines {
		s.println(l.Text)
	}
}

func (s *walk) println(text string) {
	if s.writeErr != nil {
		return
	}
	if _, err := io.WriteString(s.cfg.Stdout, text+"\n"); err != nil {
		s.writeErr = err
	}
}

// SPDX-License-Identifier: MPL-2.0

package builtin

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/knife-sh/knife/internal/listing"
	"github.com/knife-sh/knife/pkg/types"
)

// defaultTermWidth is used when neither the terminal nor $COLUMNS reports a width.
const defaultTermWidth = 80

type (
	// lsCommand implements the ls utility on top of the listing engine.
	lsCommand struct {
		baseCommand
		// fs overrides the host filesystem in tests.
		fs listing.FileSystem
		// identity overrides owner and group lookup in tests.
		identity listing.IdentityLookup
		// clock overrides the time source in tests.
		clock listing.Clock
	}

	lsFlags struct {
		all, long, human, directory, recursive bool
		onePerLine, columns, reverse           bool
		bySize, byTime                         bool
		sortWord, color                        string
		ignore                                 []string
		quiet, verbose                         bool
	}
)

func init() {
	RegisterDefault(newLsCommand())
}

// newLsCommand creates a new ls command.
func newLsCommand() *lsCommand {
	c := &lsCommand{}
	c.baseCommand = baseCommand{
		name:     "ls",
		summary:  "List information about the FILEs (the current directory by default).",
		synopsis: "ls [OPTION]... [FILE]...",
		defineFlags: func(fs *pflag.FlagSet) {
			c.bindFlags(fs, &lsFlags{})
		},
	}
	return c
}

func (c *lsCommand) bindFlags(fs *pflag.FlagSet, f *lsFlags) {
	fs.BoolVarP(&f.all, "all", "a", false, "do not ignore entries starting with .")
	fs.BoolVarP(&f.long, "long", "l", false, "use a long listing format")
	fs.BoolVarP(&f.human, "human-readable", "H", false, "with -l, print sizes like 1K 234M 2G")
	fs.BoolVarP(&f.directory, "directory", "d", false, "list directories themselves, not their contents")
	fs.BoolVarP(&f.recursive, "recursive", "R", false, "list subdirectories recursively")
	fs.BoolVarP(&f.onePerLine, "one-per-line", "1", false, "list one file per line")
	fs.BoolVarP(&f.columns, "columns", "C", false, "list entries by columns")
	fs.BoolVarP(&f.reverse, "reverse", "r", false, "reverse order while sorting")
	fs.BoolVarP(&f.bySize, "sort-size", "S", false, "sort by file size, largest first")
	fs.BoolVarP(&f.byTime, "sort-time", "t", false, "sort by modification time, newest first")
	fs.StringVar(&f.sortWord, "sort", "", "sort by WORD instead of name: name, size, time")
	fs.StringVar(&f.color, "color", "", "colorize the output: never, auto, always")
	fs.Lookup("color").NoOptDefVal = string(listing.ColorAlways)
	fs.StringArrayVarP(&f.ignore, "ignore", "I", nil, "do not list entries matching the glob PATTERN")
	fs.BoolVarP(&f.quiet, "hide-control-chars", "q", false, "accepted for compatibility")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "accepted for compatibility")
}

// Run executes the ls command.
func (c *lsCommand) Run(ctx context.Context, args []string) error {
	hc := GetHandlerContext(ctx)

	var f lsFlags
	fs := newFlagSet(c.name)
	c.bindFlags(fs, &f)
	if done, err := c.parseFlags(fs, hc, argsOf(args)); done {
		return err
	}

	display := detectDisplay(hc)
	opts, err := c.options(&f, hc.Settings.LS, display.Terminal)
	if err != nil {
		return usageError(hc.Stderr, c.name, err)
	}

	walker := listing.NewWalker(listing.WalkerConfig{
		FS:       c.fs,
		Identity: c.identity,
		Clock:    c.clock,
		Display:  display,
		Dir:      hc.Dir,
		Program:  c.name,
		Stdout:   hc.Stdout,
		Stderr:   hc.Stderr,
	})

	err = walker.Run(ctx, fs.Args(), opts)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, listing.ErrListingFailed):
		return &StatusError{Name: c.name, Code: types.ExitFailure}
	case errors.Is(err, context.Canceled):
		return &StatusError{Name: c.name, Code: types.ExitInterrupted}
	default:
		fmt.Fprintf(hc.Stderr, "%s: %v\n", c.name, err)
		return &StatusError{Name: c.name, Code: types.ExitFailure}
	}
}

// options builds the immutable listing snapshot from settings and flags.
// Flags override settings; -t wins over -S and both override --sort.
func (c *lsCommand) options(f *lsFlags, s LSSettings, terminal bool) (listing.Options, error) {
	opts := listing.DefaultOptions()
	opts.ShowHidden = f.all
	opts.LongFormat = f.long
	opts.HumanReadable = f.human || s.HumanReadable
	opts.DirectoryItself = f.directory
	opts.Recursive = f.recursive
	opts.ReverseSort = f.reverse
	opts.Layout = listing.ResolveLayout(f.long, f.onePerLine, f.columns, terminal)
	opts.Ignore = append(append([]string(nil), s.Ignore...), f.ignore...)

	if s.Color != "" {
		opts.ColorMode = s.Color
	}
	if f.color != "" {
		mode := listing.ColorMode(f.color)
		if err := mode.Validate(); err != nil {
			return opts, err
		}
		opts.ColorMode = mode
	}

	if f.sortWord != "" {
		key, err := listing.ParseSortKey(f.sortWord)
		if err != nil {
			return opts, err
		}
		opts.SortKey = key
	}
	switch {
	case f.byTime:
		opts.SortKey = listing.SortByTime
	case f.bySize:
		opts.SortKey = listing.SortBySize
	}

	return opts, opts.Validate()
}

// detectDisplay reports whether stdout is a terminal and how wide it is.
// Non-terminal output falls back to $COLUMNS, then to 80 columns.
func detectDisplay(hc *HandlerContext) listing.Display {
	d := listing.Display{Width: defaultTermWidth}
	if fd, ok := fileDescriptor(hc.Stdout); ok && term.IsTerminal(fd) {
		d.Terminal = true
		if w, _, err := term.GetSize(fd); err == nil && w > 0 {
			d.Width = w
			return d
		}
	}
	if cols, err := strconv.Atoi(hc.getenv("COLUMNS")); err == nil && cols > 0 {
		d.Width = cols
	}
	return d
}

// fileDescriptor returns the descriptor behind w when it is an *os.File.
func fileDescriptor(w io.Writer) (int, bool) {
	f, ok := w.(*os.File)
	if !ok {
		return 0, false
	}
	return int(f.Fd()), true //nolint:gosec // descriptors fit in int
}

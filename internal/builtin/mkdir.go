// SPDX-License-Identifier: MPL-2.0

package builtin

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"syscall"

	"github.com/spf13/pflag"
)

type (
	// mkdirCommand implements the mkdir utility.
	mkdirCommand struct {
		baseCommand
	}

	mkdirFlags struct {
		parents, verbose bool
		mode             string
	}
)

func init() {
	RegisterDefault(newMkdirCommand())
}

// newMkdirCommand creates a new mkdir command.
func newMkdirCommand() *mkdirCommand {
	c := &mkdirCommand{}
	c.baseCommand = baseCommand{
		name:     "mkdir",
		summary:  "Create the DIRECTORY(ies), if they do not already exist.",
		synopsis: "mkdir [OPTION]... DIRECTORY...",
		defineFlags: func(fs *pflag.FlagSet) {
			bindMkdirFlags(fs, &mkdirFlags{})
		},
	}
	return c
}

func bindMkdirFlags(fs *pflag.FlagSet, f *mkdirFlags) {
	fs.BoolVarP(&f.parents, "parents", "p", false, "no error if existing, make parent directories as needed")
	fs.StringVarP(&f.mode, "mode", "m", "", "set file mode (octal, as in chmod)")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "print a message for each created directory")
}

// Run executes the mkdir command.
func (c *mkdirCommand) Run(ctx context.Context, args []string) error {
	hc := GetHandlerContext(ctx)

	var f mkdirFlags
	fs := newFlagSet(c.name)
	bindMkdirFlags(fs, &f)
	if done, err := c.parseFlags(fs, hc, argsOf(args)); done {
		return err
	}
	if fs.NArg() == 0 {
		return usageError(hc.Stderr, c.name, errors.New("missing operand"))
	}

	var perm os.FileMode
	if f.mode != "" {
		m, err := strconv.ParseUint(f.mode, 8, 32)
		if err != nil || m > 0o7777 {
			return usageError(hc.Stderr, c.name, fmt.Errorf("invalid mode '%s'", f.mode))
		}
		perm = os.FileMode(m)
	}

	fail := &failure{name: c.name, stderr: hc.Stderr}
	for _, dir := range fs.Args() {
		if err := ctx.Err(); err != nil {
			return err
		}
		abs := resolvePath(hc.Dir, dir)
		created, err := makeDir(abs, dir, f.parents)
		if err == nil && f.mode != "" {
			// An explicit mode is applied with chmod so the umask does not narrow it.
			err = os.Chmod(abs, perm)
		}
		if err != nil {
			fail.reportf("cannot create directory '%s': %s", dir, reason(err))
		}
		if f.verbose {
			for _, d := range created {
				fmt.Fprintf(hc.Stdout, "%s: created directory '%s'\n", c.name, d)
			}
		}
	}
	return fail.status()
}

// makeDir creates abs and returns the display names of the directories it
// created, parents first. With parents set, missing ancestors are created and
// an existing directory is not an error.
func makeDir(abs, display string, parents bool) ([]string, error) {
	if !parents {
		if err := os.Mkdir(abs, 0o777); err != nil {
			return nil, err
		}
		return []string{display}, nil
	}

	type pending struct{ abs, display string }
	var missing []pending
	for a, d := abs, filepath.Clean(display); ; a, d = filepath.Dir(a), filepath.Dir(d) {
		info, err := os.Stat(a)
		if err == nil {
			if !info.IsDir() {
				return nil, &fs.PathError{Op: "mkdir", Path: a, Err: syscall.ENOTDIR}
			}
			break
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		missing = append(missing, pending{abs: a, display: d})
		if filepath.Dir(a) == a {
			break
		}
	}

	var created []string
	for _, p := range slices.Backward(missing) {
		if err := os.Mkdir(p.abs, 0o777); err != nil {
			if errors.Is(err, fs.ErrExist) {
				continue
			}
			return created, err
		}
		created = append(created, p.display)
	}
	return created, nil
}

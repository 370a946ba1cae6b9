// SPDX-License-Identifier: MPL-2.0

package builtin

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/pflag"
)

type (
	// headCommand implements the head utility.
	headCommand struct {
		baseCommand
	}

	headFlags struct {
		lines, bytes   int
		quiet, verbose bool
	}
)

func init() {
	RegisterDefault(newHeadCommand())
}

// newHeadCommand creates a new head command.
func newHeadCommand() *headCommand {
	c := &headCommand{}
	c.baseCommand = baseCommand{
		name:     "head",
		summary:  "Print the first 10 lines of each FILE to standard output.",
		synopsis: "head [OPTION]... [FILE]...",
		defineFlags: func(fs *pflag.FlagSet) {
			bindHeadFlags(fs, &headFlags{})
		},
	}
	return c
}

func bindHeadFlags(fs *pflag.FlagSet, f *headFlags) {
	fs.IntVarP(&f.lines, "lines", "n", 10, "print the first NUM lines instead of the first 10")
	fs.IntVarP(&f.bytes, "bytes", "c", -1, "print the first NUM bytes of each file")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "never print headers giving file names")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "always print headers giving file names")
}

// Run executes the head command.
func (c *headCommand) Run(ctx context.Context, args []string) error {
	hc := GetHandlerContext(ctx)

	var f headFlags
	fs := newFlagSet(c.name)
	bindHeadFlags(fs, &f)
	if done, err := c.parseFlags(fs, hc, argsOf(args)); done {
		return err
	}
	if f.lines < 0 {
		return usageError(hc.Stderr, c.name, fmt.Errorf("invalid number of lines: '%d'", f.lines))
	}
	byBytes := fs.Changed("bytes")
	if byBytes && f.bytes < 0 {
		return usageError(hc.Stderr, c.name, fmt.Errorf("invalid number of bytes: '%d'", f.bytes))
	}

	fail := &failure{name: c.name, stderr: hc.Stderr}
	ProcessFilesOrStdin(fs.Args(), hc, fail, func(r io.Reader, filename string, index, total int) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if showHeader(f.quiet, f.verbose, total) {
			if index > 0 {
				fmt.Fprintln(hc.Stdout)
			}
			fmt.Fprintf(hc.Stdout, "==> %s <==\n", displayName(filename))
		}
		if byBytes {
			_, err := io.CopyN(hc.Stdout, r, int64(f.bytes))
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		return headLines(hc.Stdout, r, f.lines)
	})
	return fail.status()
}

// showHeader reports whether "==> NAME <==" banners are printed.
// -q always suppresses them, -v always forces them.
func showHeader(quiet, verbose bool, total int) bool {
	switch {
	case quiet:
		return false
	case verbose:
		return true
	default:
		return total > 1
	}
}

// headLines copies the first n lines of in, keeping their bytes intact.
func headLines(out io.Writer, in io.Reader, n int) error {
	br := bufio.NewReader(in)
	for range n {
		line, err := br.ReadBytes('\n')
		if len(line) > 0 {
			if _, werr := out.Write(line); werr != nil {
				return werr
			}
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// SPDX-License-Identifier: MPL-2.0

package builtin

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"
)

// followInterval is how often tail -f polls for appended data.
const followInterval = 250 * time.Millisecond

type (
	// tailCommand implements the tail utility.
	tailCommand struct {
		baseCommand
		// interval overrides followInterval in tests.
		interval time.Duration
	}

	tailFlags struct {
		lines, bytes           string
		quiet, verbose, follow bool
	}

	// tailCount is a parsed -n or -c argument. fromStart selects the "+N" form,
	// which starts output at the Nth line or byte.
	tailCount struct {
		n         int64
		fromStart bool
	}
)

func init() {
	RegisterDefault(newTailCommand())
}

// newTailCommand creates a new tail command.
func newTailCommand() *tailCommand {
	c := &tailCommand{interval: followInterval}
	c.baseCommand = baseCommand{
		name:     "tail",
		summary:  "Print the last 10 lines of each FILE to standard output.",
		synopsis: "tail [OPTION]... [FILE]...",
		defineFlags: func(fs *pflag.FlagSet) {
			bindTailFlags(fs, &tailFlags{})
		},
	}
	return c
}

func bindTailFlags(fs *pflag.FlagSet, f *tailFlags) {
	fs.StringVarP(&f.lines, "lines", "n", "10", "output the last NUM lines; +NUM starts with line NUM")
	fs.StringVarP(&f.bytes, "bytes", "c", "", "output the last NUM bytes; +NUM starts with byte NUM")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "never output headers giving file names")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "always output headers giving file names")
	fs.BoolVarP(&f.follow, "follow", "f", false, "output appended data as the file grows")
}

// parseTailCount parses "N", "-N" or "+N".
func parseTailCount(s string) (tailCount, error) {
	var c tailCount
	switch {
	case strings.HasPrefix(s, "+"):
		c.fromStart = true
		s = s[1:]
	case strings.HasPrefix(s, "-"):
		s = s[1:]
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n < 0 {
		return c, fmt.Errorf("invalid number: '%s'", s)
	}
	c.n = n
	return c, nil
}

// Run executes the tail command.
func (c *tailCommand) Run(ctx context.Context, args []string) error {
	hc := GetHandlerContext(ctx)

	var f tailFlags
	fs := newFlagSet(c.name)
	bindTailFlags(fs, &f)
	if done, err := c.parseFlags(fs, hc, argsOf(args)); done {
		return err
	}

	byBytes := fs.Changed("bytes")
	raw := f.lines
	if byBytes {
		raw = f.bytes
	}
	count, err := parseTailCount(raw)
	if err != nil {
		return usageError(hc.Stderr, c.name, err)
	}

	operands := fs.Args()
	followOffset := int64(-1)
	fail := &failure{name: c.name, stderr: hc.Stderr}
	ProcessFilesOrStdin(operands, hc, fail, func(r io.Reader, filename string, index, total int) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if showHeader(f.quiet, f.verbose, total) {
			if index > 0 {
				fmt.Fprintln(hc.Stdout)
			}
			fmt.Fprintf(hc.Stdout, "==> %s <==\n", displayName(filename))
		}
		var err error
		if byBytes {
			err = tailBytes(hc.Stdout, r, count)
		} else {
			err = tailLines(hc.Stdout, r, count)
		}
		if err == nil && f.follow && index == total-1 && filename != stdinName {
			// Both tail forms read to end of file, so the handle's position
			// is where following resumes.
			if sk, ok := r.(io.Seeker); ok {
				followOffset, err = sk.Seek(0, io.SeekCurrent)
			}
		}
		return err
	})

	if followOffset >= 0 {
		last := operands[len(operands)-1]
		if err := c.follow(ctx, hc, resolvePath(hc.Dir, last), followOffset); err != nil && !errors.Is(err, context.Canceled) {
			fail.reportf("%s: %s", last, reason(err))
		}
	}
	return fail.status()
}

// tailLines writes the selected lines of in. The last-N form keeps a ring
// buffer of N lines so memory stays bounded by the requested count.
func tailLines(out io.Writer, in io.Reader, c tailCount) error {
	br := bufio.NewReader(in)
	if c.fromStart {
		for skipped := int64(1); skipped < c.n; skipped++ {
			if _, err := br.ReadBytes('\n'); err != nil {
				if errors.Is(err, io.EOF) {
					return nil
				}
				return err
			}
		}
		_, err := io.Copy(out, br)
		return err
	}
	if c.n == 0 {
		_, err := io.Copy(io.Discard, br)
		return err
	}

	ring := make([][]byte, c.n)
	var seen int64
	for {
		line, err := br.ReadBytes('\n')
		if len(line) > 0 {
			ring[seen%c.n] = line
			seen++
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}
	}

	start := max(0, seen-c.n)
	for i := start; i < seen; i++ {
		if _, err := out.Write(ring[i%c.n]); err != nil {
			return err
		}
	}
	return nil
}

// tailBytes writes the selected bytes of in.
func tailBytes(out io.Writer, in io.Reader, c tailCount) error {
	if c.fromStart {
		if c.n > 1 {
			if _, err := io.CopyN(io.Discard, in, c.n-1); err != nil {
				if errors.Is(err, io.EOF) {
					return nil
				}
				return err
			}
		}
		_, err := io.Copy(out, in)
		return err
	}

	data, err := io.ReadAll(in)
	if err != nil {
		return err
	}
	start := max(0, int64(len(data))-c.n)
	_, err = out.Write(data[start:])
	return err
}

// follow prints data appended to path past offset until ctx is cancelled. A
// truncated file is read again from the start.
func (c *tailCommand) follow(ctx context.Context, hc *HandlerContext, path string, offset int64) error {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}

		info, err := os.Stat(path)
		if err != nil {
			return err
		}
		size := info.Size()
		if size < offset {
			fmt.Fprintf(hc.Stderr, "%s: %s: file truncated\n", c.name, path)
			offset = 0
		}
		if size == offset {
			continue
		}
		n, err := copyRange(hc.Stdout, path, offset, size-offset)
		offset += n
		if err != nil {
			return err
		}
	}
}

// copyRange copies n bytes of path starting at offset.
func copyRange(out io.Writer, path string, offset, n int64) (copied int64, err error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()
	return io.Copy(out, io.NewSectionReader(f, offset, n))
}

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
	// catCommand implements the cat utility.
	catCommand struct {
		baseCommand
	}

	catFlags struct {
		number, numberNonblank   bool
		showEnds, showTabs       bool
		showAll, showNonprinting bool
	}

	// catState is shared across the operands of one run so numbering continues.
	catState struct {
		flags catFlags
		line  int
	}
)

func init() {
	RegisterDefault(newCatCommand())
}

// newCatCommand creates a new cat command.
func newCatCommand() *catCommand {
	c := &catCommand{}
	c.baseCommand = baseCommand{
		name:     "cat",
		summary:  "Concatenate FILE(s) to standard output.",
		synopsis: "cat [OPTION]... [FILE]...",
		defineFlags: func(fs *pflag.FlagSet) {
			bindCatFlags(fs, &catFlags{})
		},
	}
	return c
}

func bindCatFlags(fs *pflag.FlagSet, f *catFlags) {
	fs.BoolVarP(&f.number, "number", "n", false, "number all output lines")
	fs.BoolVarP(&f.numberNonblank, "number-nonblank", "b", false, "number nonempty output lines, overrides -n")
	fs.BoolVarP(&f.showEnds, "show-ends", "E", false, "display $ at end of each line")
	fs.BoolVarP(&f.showTabs, "show-tabs", "T", false, "display TAB characters as ^I")
	fs.BoolVarP(&f.showAll, "show-all", "A", false, "equivalent to -vET")
	fs.BoolVarP(&f.showNonprinting, "show-nonprinting", "v", false, "use ^ notation, except for LFD and TAB")
}

// Run executes the cat command.
func (c *catCommand) Run(ctx context.Context, args []string) error {
	hc := GetHandlerContext(ctx)

	var f catFlags
	fs := newFlagSet(c.name)
	bindCatFlags(fs, &f)
	if done, err := c.parseFlags(fs, hc, argsOf(args)); done {
		return err
	}
	if f.showAll {
		f.showEnds, f.showTabs, f.showNonprinting = true, true, true
	}
	if f.numberNonblank {
		f.number = false
	}

	state := &catState{flags: f, line: 1}
	fail := &failure{name: c.name, stderr: hc.Stderr}
	ProcessFilesOrStdin(fs.Args(), hc, fail, func(r io.Reader, _ string, _, _ int) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		return state.copy(hc.Stdout, r)
	})
	return fail.status()
}

// copy streams r to out. Without formatting flags the bytes pass unchanged.
func (s *catState) copy(out io.Writer, r io.Reader) error {
	f := s.flags
	if !f.number && !f.numberNonblank && !f.showEnds && !f.showTabs && !f.showNonprinting {
		_, err := io.Copy(out, r)
		return err
	}

	br := bufio.NewReader(r)
	w := bufio.NewWriter(out)
	for {
		line, err := br.ReadBytes('\n')
		if len(line) > 0 {
			s.writeLine(w, line)
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			_ = w.Flush()
			return err
		}
	}
	return w.Flush()
}

func (s *catState) writeLine(w *bufio.Writer, line []byte) {
	f := s.flags
	body, hasNewline := line, false
	if body[len(body)-1] == '\n' {
		body, hasNewline = body[:len(body)-1], true
	}

	if f.number || (f.numberNonblank && len(body) > 0) {
		fmt.Fprintf(w, "%6d\t", s.line)
		s.line++
	}

	for _, b := range body {
		switch {
		case b == '\t' && f.showTabs:
			w.WriteString("^I")
		case b == '\t':
			w.WriteByte(b)
		case f.showNonprinting && b < 0x20:
			w.WriteByte('^')
			w.WriteByte(b + 0x40)
		case f.showNonprinting && b == 0x7f:
			w.WriteString("^?")
		default:
			w.WriteByte(b)
		}
	}

	if f.showEnds && hasNewline {
		w.WriteByte('$')
	}
	if hasNewline {
		w.WriteByte('\n')
	}
}

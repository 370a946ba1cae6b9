// SPDX-License-Identifier: MPL-2.0

package builtin

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/charmbracelet/x/ansi"
	"github.com/spf13/pflag"
)

type (
	// wcCommand implements the wc utility.
	wcCommand struct {
		baseCommand
	}

	wcFlags struct {
		lines, words, bytes, chars, maxLine bool
	}

	// wcCounts holds the counters of one input.
	wcCounts struct {
		lines, words, bytes, chars, maxLine int64
	}
)

func init() {
	RegisterDefault(newWcCommand())
}

// newWcCommand creates a new wc command.
func newWcCommand() *wcCommand {
	c := &wcCommand{}
	c.baseCommand = baseCommand{
		name:     "wc",
		summary:  "Print newline, word, and byte counts for each FILE.",
		synopsis: "wc [OPTION]... [FILE]...",
		defineFlags: func(fs *pflag.FlagSet) {
			bindWcFlags(fs, &wcFlags{})
		},
	}
	return c
}

func bindWcFlags(fs *pflag.FlagSet, f *wcFlags) {
	fs.BoolVarP(&f.lines, "lines", "l", false, "print the newline counts")
	fs.BoolVarP(&f.words, "words", "w", false, "print the word counts")
	fs.BoolVarP(&f.bytes, "bytes", "c", false, "print the byte counts")
	fs.BoolVarP(&f.chars, "chars", "m", false, "print the character counts")
	fs.BoolVarP(&f.maxLine, "max-line-length", "L", false, "print the maximum display width")
}

// Run executes the wc command.
func (c *wcCommand) Run(ctx context.Context, args []string) error {
	hc := GetHandlerContext(ctx)

	var f wcFlags
	fs := newFlagSet(c.name)
	bindWcFlags(fs, &f)
	if done, err := c.parseFlags(fs, hc, argsOf(args)); done {
		return err
	}
	if !f.lines && !f.words && !f.bytes && !f.chars && !f.maxLine {
		f.lines, f.words, f.bytes = true, true, true
	}

	var total wcCounts
	fail := &failure{name: c.name, stderr: hc.Stderr}
	ProcessFilesOrStdin(fs.Args(), hc, fail, func(r io.Reader, filename string, _, _ int) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		counts, err := countInput(r)
		if err != nil {
			return err
		}
		label := ""
		if len(fs.Args()) > 0 {
			label = filename
		}
		fmt.Fprintln(hc.Stdout, f.format(counts, label))
		total.add(counts)
		return nil
	})
	if len(fs.Args()) > 1 {
		fmt.Fprintln(hc.Stdout, f.format(total, "total"))
	}
	return fail.status()
}

// countInput counts lines, words, bytes, characters and the widest line.
func countInput(r io.Reader) (wcCounts, error) {
	var c wcCounts
	br := bufio.NewReader(r)
	inWord := false
	for {
		line, err := br.ReadString('\n')
		if len(line) > 0 {
			c.bytes += int64(len(line))
			c.chars += int64(utf8.RuneCountInString(line))
			body := strings.TrimSuffix(line, "\n")
			if len(body) < len(line) {
				c.lines++
			}
			c.maxLine = max(c.maxLine, int64(lineWidth(body)))
			for _, ch := range line {
				space := unicode.IsSpace(ch)
				if !space && !inWord {
					c.words++
				}
				inWord = !space
			}
		}
		if errors.Is(err, io.EOF) {
			return c, nil
		}
		if err != nil {
			return c, err
		}
	}
}

func (c *wcCounts) add(o wcCounts) {
	c.lines += o.lines
	c.words += o.words
	c.bytes += o.bytes
	c.chars += o.chars
	c.maxLine = max(c.maxLine, o.maxLine)
}

// format renders the selected counters in lines, words, chars, bytes,
// max-line order, each right-aligned in seven columns.
func (f wcFlags) format(c wcCounts, label string) string {
	var fields []string
	for _, col := range []struct {
		on bool
		n  int64
	}{
		{f.lines, c.lines},
		{f.words, c.words},
		{f.chars, c.chars},
		{f.bytes, c.bytes},
		{f.maxLine, c.maxLine},
	} {
		if col.on {
			fields = append(fields, fmt.Sprintf("%7d", col.n))
		}
	}
	if label != "" {
		fields = append(fields, label)
	}
	return strings.Join(fields, " ")
}

// lineWidth is the display width of line with tabs advancing to the next
// multiple of eight.
func lineWidth(line string) int {
	width := 0
	for i, seg := range strings.Split(line, "\t") {
		if i > 0 {
			width = (width/8 + 1) * 8
		}
		width += ansi.StringWidth(seg)
	}
	return width
}

// SPDX-License-Identifier: MPL-2.0

package builtin

import (
	"context"
	"strconv"
	"strings"

	"github.com/spf13/pflag"
)

type (
	// echoCommand implements the echo utility.
	echoCommand struct {
		baseCommand
	}

	echoFlags struct {
		noNewline, escapes, noEscapes bool
	}
)

func init() {
	RegisterDefault(newEchoCommand())
}

// newEchoCommand creates a new echo command.
func newEchoCommand() *echoCommand {
	c := &echoCommand{}
	c.baseCommand = baseCommand{
		name:     "echo",
		summary:  "Echo the STRING(s) to standard output.",
		synopsis: "echo [SHORT-OPTION]... [STRING]...",
		defineFlags: func(fs *pflag.FlagSet) {
			var f echoFlags
			fs.BoolVarP(&f.noNewline, "no-newline", "n", false, "do not output the trailing newline")
			fs.BoolVarP(&f.escapes, "escapes", "e", false, "enable interpretation of backslash escapes")
			fs.BoolVarP(&f.noEscapes, "no-escapes", "E", false, "disable interpretation of backslash escapes (default)")
		},
	}
	return c
}

// Run executes the echo command.
//
// Options are only recognised while leading arguments consist of a dash and
// the letters n, e and E; everything from the first other argument on is
// printed verbatim, including "--" and "--help".
func (c *echoCommand) Run(ctx context.Context, args []string) error {
	hc := GetHandlerContext(ctx)

	operands := argsOf(args)
	var f echoFlags
	for len(operands) > 0 && isEchoOption(operands[0]) {
		for _, ch := range operands[0][1:] {
			switch ch {
			case 'n':
				f.noNewline = true
			case 'e':
				f.escapes = true
			case 'E':
				f.escapes = false
			}
		}
		operands = operands[1:]
	}

	text := strings.Join(operands, " ")
	stop := false
	if f.escapes {
		text, stop = expandEscapes(text)
	}
	if !f.noNewline && !stop {
		text += "\n"
	}
	_, err := hc.Stdout.Write([]byte(text))
	return err
}

func isEchoOption(arg string) bool {
	if len(arg) < 2 || arg[0] != '-' {
		return false
	}
	return strings.Trim(arg[1:], "neE") == ""
}

// expandEscapes interprets backslash escapes. stop is true when \c ended the
// output early.
func expandEscapes(s string) (out string, stop bool) {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] != '\\' || i+1 == len(s) {
			b.WriteByte(s[i])
			continue
		}
		i++
		switch s[i] {
		case '\\':
			b.WriteByte('\\')
		case 'a':
			b.WriteByte('\a')
		case 'b':
			b.WriteByte('\b')
		case 'c':
			return b.String(), true
		case 'e':
			b.WriteByte(0x1b)
		case 'f':
			b.WriteByte('\f')
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case 't':
			b.WriteByte('\t')
		case 'v':
			b.WriteByte('\v')
		case '0':
			// \0NNN: up to three octal digits.
			j := i + 1
			for j < len(s) && j < i+4 && s[j] >= '0' && s[j] <= '7' {
				j++
			}
			v, _ := strconv.ParseUint("0"+s[i+1:j], 8, 16)
			b.WriteByte(byte(v)) //nolint:gosec // values above 0377 wrap
			i = j - 1
		default:
			b.WriteByte('\\')
			b.WriteByte(s[i])
		}
	}
	return b.String(), false
}

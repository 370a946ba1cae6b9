// SPDX-License-Identifier: MPL-2.0

package builtin

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/pflag"
)

// baseCommand carries the metadata shared by all utilities.
type baseCommand struct {
	name     string
	summary  string
	synopsis string
	// defineFlags registers the utility's flags on fs. It is used both for
	// parsing and for SupportedFlags.
	defineFlags func(fs *pflag.FlagSet)
}

// Name returns the command name.
func (b *baseCommand) Name() string { return b.name }

// Summary returns the one-line description.
func (b *baseCommand) Summary() string { return b.summary }

// SupportedFlags lists the flags registered by defineFlags.
func (b *baseCommand) SupportedFlags() []FlagInfo {
	fs := newFlagSet(b.name)
	if b.defineFlags != nil {
		b.defineFlags(fs)
	}
	var infos []FlagInfo
	fs.VisitAll(func(f *pflag.Flag) {
		infos = append(infos, FlagInfo{
			Name:        f.Name,
			ShortName:   f.Shorthand,
			Description: f.Usage,
			TakesValue:  f.Value.Type() != "bool",
		})
	})
	return infos
}

// newFlagSet returns a silent pflag set; diagnostics are printed by parseFlags.
func newFlagSet(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Usage = func() {}
	fs.SortFlags = false
	return fs
}

// parseFlags parses args (without the command name). done is true when the
// run should end: after --help (err nil) or on a usage error (exit status 2).
func (b *baseCommand) parseFlags(fs *pflag.FlagSet, hc *HandlerContext, args []string) (done bool, err error) {
	err = fs.Parse(args)
	switch {
	case err == nil:
		return false, nil
	case errors.Is(err, pflag.ErrHelp):
		fmt.Fprintf(hc.Stdout, "Usage: %s\n%s\n\n%s", b.synopsis, b.summary, fs.FlagUsages())
		return true, nil
	default:
		return true, usageError(hc.Stderr, b.name, err)
	}
}

// argsOf drops the command name from a Run argument list.
func argsOf(args []string) []string {
	if len(args) == 0 {
		return nil
	}
	return args[1:]
}

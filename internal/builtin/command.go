// SPDX-License-Identifier: MPL-2.0

package builtin

import "context"

type (
	// Command defines the interface implemented by every utility.
	Command interface {
		// Name returns the command name (e.g., "ls", "cat").
		Name() string

		// Summary returns a one-line description for help output.
		Summary() string

		// Run executes the command with the given context and arguments.
		// The context carries the HandlerContext with stdin/stdout/stderr.
		// args[0] is the command name, args[1:] are the arguments.
		// A nil return means exit status 0; a *StatusError carries any
		// other status after the diagnostics were printed.
		Run(ctx context.Context, args []string) error

		// SupportedFlags returns the flags this implementation supports.
		SupportedFlags() []FlagInfo
	}

	// FlagInfo describes a supported flag of a utility.
	FlagInfo struct {
		// Name is the long flag name without dashes (e.g., "all" for --all).
		Name string
		// ShortName is the single-character alias (e.g., "a" for -a).
		// Empty if no short form exists.
		ShortName string
		// Description explains what the flag does.
		Description string
		// TakesValue indicates if the flag requires a value (e.g., -n 10).
		TakesValue bool
	}
)

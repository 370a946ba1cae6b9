// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/knife-sh/knife/internal/issue"
	"github.com/knife-sh/knife/internal/shell"
)

// newShCommand creates the "sh" command, which runs POSIX shell scripts with
// the knife utilities standing in for host commands of the same name.
func newShCommand(app *App, flags *rootFlagValues) *cobra.Command {
	var command string
	cmd := &cobra.Command{
		Use:   "sh [-c SCRIPT | FILE] [ARG]...",
		Short: "Run a shell script using the built-in utilities",
		Long: `Run a POSIX shell script in an embedded interpreter.

Commands that name a knife utility run the built-in version; everything
else runs from PATH. With -c the script is taken from SCRIPT, otherwise
from FILE, or from standard input when no FILE is given. Remaining
arguments become the positional parameters $1, $2, ...`,
		Example: `  knife sh -c 'ls -l | head -n 3'
  knife sh build.sh release`,
		RunE: func(cmd *cobra.Command, args []string) error {
			script, params, err := app.readScript(command, cmd.Flags().Changed("command"), args)
			if err != nil {
				return newServiceError(err, flags.verbose)
			}
			return app.runScript(cmd.Context(), flags, script, params)
		},
	}
	cmd.Flags().StringVarP(&command, "command", "c", "", "read commands from the SCRIPT string")
	cmd.Flags().SetInterspersed(false)
	return cmd
}

// readScript selects the script source from -c, a file operand or stdin.
func (a *App) readScript(command string, fromFlag bool, args []string) (shell.Script, []string, error) {
	if fromFlag {
		return shell.Script{Source: command, Name: "-c"}, args, nil
	}
	if len(args) == 0 {
		data, err := io.ReadAll(a.stdin)
		if err != nil {
			return shell.Script{}, nil, issue.WrapWithOperation(err, "read script from standard input")
		}
		return shell.Script{Source: string(data), Name: "stdin"}, nil, nil
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		id := issue.ScriptExecutionFailedId
		if errors.Is(err, os.ErrNotExist) {
			id = issue.PathNotFoundId
		}
		return shell.Script{}, nil, issue.NewErrorContext().
			WithOperation("read script").
			WithResource(args[0]).
			WithIssue(id).
			Wrap(err).
			BuildError()
	}
	return shell.Script{Source: string(data), Name: args[0]}, args[1:], nil
}

// runScript runs script and converts its status into an ExitError.
func (a *App) runScript(ctx context.Context, flags *rootFlagValues, script shell.Script, params []string) error {
	cfg := a.loadConfig(ctx, flags)
	dir, err := a.getwd()
	if err != nil {
		return newServiceError(fmt.Errorf("get working directory: %w", err), flags.verbose)
	}

	runner := &shell.Runner{
		Registry:       a.Registry,
		EnableBuiltins: cfg.Shell.Builtins,
		Settings:       settingsFrom(cfg),
	}
	code, err := runner.Run(ctx, script, shell.RunOptions{
		Dir:    dir,
		Env:    os.Environ(),
		Args:   params,
		Stdin:  a.stdin,
		Stdout: a.stdout,
		Stderr: a.stderr,
	})
	switch {
	case err != nil && !errors.Is(err, context.Canceled):
		return &ExitError{Code: code, Err: newServiceError(err, flags.verbose)}
	case !code.IsSuccess():
		return &ExitError{Code: code}
	}
	return nil
}

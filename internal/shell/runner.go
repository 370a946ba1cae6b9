// SPDX-License-Identifier: MPL-2.0

package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"

	"github.com/knife-sh/knife/internal/builtin"
	"github.com/knife-sh/knife/internal/issue"
	"github.com/knife-sh/knife/pkg/types"
)

type (
	// Runner executes scripts. The zero value runs every command on the host.
	Runner struct {
		// Registry supplies the utilities; nil means builtin.DefaultRegistry.
		Registry *builtin.Registry
		// EnableBuiltins routes registered command names to the registry.
		EnableBuiltins bool
		// Settings are handed to every utility the script runs.
		Settings builtin.Settings
	}

	// Script is the source to run. Name labels parse errors.
	Script struct {
		Source string
		Name   string
	}

	// RunOptions is the environment of one run. Zero fields inherit from the
	// process.
	RunOptions struct {
		Dir    string
		Env    []string
		Args   []string
		Stdin  io.Reader
		Stdout io.Writer
		Stderr io.Writer
	}
)

// Run parses and executes script. The returned code is the script's exit
// status; the error is non-nil only when the script could not be parsed or
// the interpreter failed outside of a command's exit status.
func (r *Runner) Run(ctx context.Context, script Script, opts RunOptions) (types.ExitCode, error) {
	name := script.Name
	if name == "" {
		name = "script"
	}

	prog, err := syntax.NewParser().Parse(strings.NewReader(script.Source), name)
	if err != nil {
		return types.ExitUsage, scriptError(name, "parse script", err)
	}

	env := opts.Env
	if env == nil {
		env = os.Environ()
	}
	runnerOpts := []interp.RunnerOption{
		interp.Env(expand.ListEnviron(env...)),
		interp.StdIO(opts.Stdin, orDefault(opts.Stdout, os.Stdout), orDefault(opts.Stderr, os.Stderr)),
		interp.ExecHandlers(r.execHandler),
	}
	if opts.Dir != "" {
		runnerOpts = append(runnerOpts, interp.Dir(opts.Dir))
	}
	// "--" keeps arguments such as "-v" from being read as shell options.
	if len(opts.Args) > 0 {
		runnerOpts = append(runnerOpts, interp.Params(append([]string{"--"}, opts.Args...)...))
	}

	runner, err := interp.New(runnerOpts...)
	if err != nil {
		return types.ExitFailure, scriptError(name, "create interpreter", err)
	}

	err = runner.Run(builtin.WithSettings(ctx, r.Settings), prog)
	if err == nil {
		return types.ExitSuccess, nil
	}
	var status interp.ExitStatus
	if errors.As(err, &status) {
		return types.ExitCode(status), nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return types.ExitInterrupted, ctxErr
	}
	return types.ExitFailure, scriptError(name, "run script", err)
}

// execHandler runs registered utilities in-process. A utility that fails is
// never retried on the host, so an implementation bug cannot be masked by a
// system binary of the same name.
func (r *Runner) execHandler(next interp.ExecHandlerFunc) interp.ExecHandlerFunc {
	return func(ctx context.Context, args []string) error {
		if !r.EnableBuiltins || len(args) == 0 {
			return next(ctx, args)
		}
		cmd, found := r.registry().Lookup(args[0])
		if !found {
			return next(ctx, args)
		}

		slog.Debug("running builtin utility", "name", args[0], "args", args[1:])
		err := cmd.Run(ctx, args)
		if err == nil {
			return nil
		}
		var se *builtin.StatusError
		if !errors.As(err, &se) {
			hc := interp.HandlerCtx(ctx)
			fmt.Fprintf(hc.Stderr, "%s: %v\n", args[0], err)
		}
		return interp.NewExitStatus(uint8(utilityStatus(err))) //nolint:gosec // exit codes are 0-255
	}
}

// utilityStatus maps a utility error to the status the shell sees. Codes the
// shell assigns itself, such as 127 for a missing command, become a plain
// failure so $? keeps its shell meaning.
func utilityStatus(err error) types.ExitCode {
	code := builtin.ExitCodeOf(err)
	if code.IsShellReserved() || code.Validate() != nil {
		return types.ExitFailure
	}
	return code
}

func (r *Runner) registry() *builtin.Registry {
	if r.Registry != nil {
		return r.Registry
	}
	return builtin.DefaultRegistry
}

func scriptError(name, operation string, err error) error {
	return issue.NewErrorContext().
		WithOperation(operation).
		WithResource(name).
		WithIssue(issue.ScriptExecutionFailedId).
		Wrap(err).
		BuildError()
}

func orDefault(w, fallback io.Writer) io.Writer {
	if w == nil {
		return fallback
	}
	return w
}

// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/spf13/cobra"

	"github.com/knife-sh/knife/internal/builtin"
	"github.com/knife-sh/knife/internal/issue"
	"github.com/knife-sh/knife/pkg/types"
)

// executablePath locates the running binary; tests replace it.
var executablePath = os.Executable

type (
	// runResult is the captured outcome of one utility run.
	runResult struct {
		Stdout string
		Stderr string
		Code   types.ExitCode
	}

	// comparison holds the knife and host results of the same invocation.
	comparison struct {
		Knife runResult
		Host  runResult
	}
)

// newCompareCommand creates the "compare" command, which runs a utility both
// as the knife built-in and as the host binary and diffs the results.
func newCompareCommand(app *App, flags *rootFlagValues) *cobra.Command {
	return &cobra.Command{
		Use:   "compare UTILITY [ARG]...",
		Short: "Compare a utility with the host binary of the same name",
		Long: `Run UTILITY with ARGs twice: once as the knife built-in and once as
the host binary found on PATH. Standard input is read once and fed to
both. Differences in standard output, standard error and exit status are
shown as a unified diff; the exit status is 1 when the runs differ.`,
		Example: `  knife compare ls -la
  printf 'a\nb\n' | knife compare wc -l`,
		Args:               cobra.MinimumNArgs(1),
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if args[0] == "-h" || args[0] == "--help" {
				return cmd.Help()
			}
			return app.runCompare(cmd.Context(), flags, args)
		},
	}
}

func (a *App) runCompare(ctx context.Context, flags *rootFlagValues, args []string) error {
	utility, ok := a.Registry.Lookup(args[0])
	if !ok {
		return &ExitError{Code: types.ExitCommandNotFound, Err: newServiceError(issue.NewErrorContext().
			WithOperation("compare").
			WithResource(args[0]).
			WithIssue(issue.UtilityNotFoundId).
			Wrap(builtin.ErrCommandNotFound).
			BuildError(), flags.verbose)}
	}
	hostPath, err := hostBinary(args[0])
	if err != nil {
		return &ExitError{Code: types.ExitCommandNotFound, Err: newServiceError(issue.NewErrorContext().
			WithOperation("find host binary").
			WithResource(args[0]).
			WithSuggestion("compare needs the utility installed outside knife on PATH").
			Wrap(err).
			BuildError(), flags.verbose)}
	}

	input, err := io.ReadAll(a.stdin)
	if err != nil {
		return fmt.Errorf("read standard input: %w", err)
	}
	dir, err := a.getwd()
	if err != nil {
		return fmt.Errorf("get working directory: %w", err)
	}
	cfg := a.loadConfig(ctx, flags)

	var cmp comparison
	cmp.Knife = a.captureUtility(ctx, utility, args, dir, input, settingsFrom(cfg))
	cmp.Host, err = captureHost(ctx, hostPath, args[1:], dir, input)
	if err != nil {
		return newServiceError(issue.WrapWithOperation(err, "run "+hostPath), flags.verbose)
	}

	diff, err := cmp.diff()
	if err != nil {
		return err
	}
	if diff == "" {
		fmt.Fprintf(a.stdout, "%s %s matches %s\n", SuccessStyle.Render("✓"), CmdStyle.Render("knife "+args[0]), hostPath)
		return nil
	}
	fmt.Fprint(a.stdout, diff)
	return &ExitError{Code: types.ExitFailure}
}

// captureUtility runs the built-in with buffered streams.
func (a *App) captureUtility(ctx context.Context, c builtin.Command, args []string, dir string, input []byte, settings builtin.Settings) runResult {
	var stdout, stderr bytes.Buffer
	hc := &builtin.HandlerContext{
		Stdin:     bytes.NewReader(input),
		Stdout:    &stdout,
		Stderr:    &stderr,
		Dir:       dir,
		LookupEnv: os.LookupEnv,
		Settings:  settings,
	}
	err := c.Run(builtin.WithHandlerContext(ctx, hc), args)
	return runResult{Stdout: stdout.String(), Stderr: stderr.String(), Code: builtin.ExitCodeOf(err)}
}

// captureHost runs the host binary with buffered streams. A non-zero exit is
// part of the result; only a failure to start is an error.
func captureHost(ctx context.Context, path string, args []string, dir string, input []byte) (runResult, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, path, args...)
	cmd.Dir = dir
	cmd.Stdin = bytes.NewReader(input)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	// Pin the locale so that sort order and messages are comparable.
	cmd.Env = append(os.Environ(), "LC_ALL=C")

	res := runResult{}
	err := cmd.Run()
	var exitErr *exec.ExitError
	switch {
	case errors.As(err, &exitErr):
		res.Code = types.ExitCode(exitErr.ExitCode())
	case err != nil:
		return res, err
	}
	res.Stdout = stdout.String()
	res.Stderr = stderr.String()
	return res, nil
}

// hostBinary finds name on PATH, skipping entries that resolve to the running
// knife binary such as the symlinks created by "knife links".
func hostBinary(name string) (string, error) {
	self, err := executablePath()
	if err == nil {
		self, _ = filepath.EvalSymlinks(self)
	}
	for _, dir := range filepath.SplitList(os.Getenv("PATH")) {
		if dir == "" {
			continue
		}
		candidate, lookErr := exec.LookPath(filepath.Join(dir, name))
		if lookErr != nil {
			continue
		}
		if resolved, evalErr := filepath.EvalSymlinks(candidate); evalErr == nil && self != "" && resolved == self {
			continue
		}
		return candidate, nil
	}
	return "", fmt.Errorf("%s: %w", name, exec.ErrNotFound)
}

// diff returns a unified diff per stream plus an exit status line, or "" when
// the runs agree.
func (c comparison) diff() (string, error) {
	var sb strings.Builder
	for _, stream := range []struct {
		name        string
		host, knife string
	}{
		{"stdout", c.Host.Stdout, c.Knife.Stdout},
		{"stderr", c.Host.Stderr, c.Knife.Stderr},
	} {
		if stream.host == stream.knife {
			continue
		}
		text, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
			A:        difflib.SplitLines(stream.host),
			B:        difflib.SplitLines(stream.knife),
			FromFile: "host/" + stream.name,
			ToFile:   "knife/" + stream.name,
			Context:  3,
		})
		if err != nil {
			return "", fmt.Errorf("diff %s: %w", stream.name, err)
		}
		sb.WriteString(text)
	}
	if c.Host.Code != c.Knife.Code {
		fmt.Fprintf(&sb, "exit status: host %d, knife %d\n", c.Host.Code, c.Knife.Code)
	}
	return sb.String(), nil
}

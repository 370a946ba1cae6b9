// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for knife.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/knife-sh/knife/internal/issue"
	"github.com/knife-sh/knife/pkg/types"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// rootFlagValues holds the persistent flags shared by every subcommand.
type rootFlagValues struct {
	verbose    bool
	configPath string
}

// NewRootCommand builds the command tree around app.
func NewRootCommand(app *App) *cobra.Command {
	flags := &rootFlagValues{}
	root := &cobra.Command{
		Use:   "knife",
		Short: "A multi-call binary of small POSIX utilities",
		Long: TitleStyle.Render("knife") + SubtitleStyle.Render(" - A multi-call binary of small POSIX utilities") + `

knife bundles ls, cat, head, tail, wc, touch, mkdir, echo and pwd into a
single executable. Run a utility as a subcommand, or install symlinks
named after the utilities and call them directly.

` + SubtitleStyle.Render("Examples:") + `
  knife ls -la              Long listing of the current directory
  knife sh -c 'cat f | wc'  Run a script with the built-in utilities
  knife watch -- ls -l      Re-list whenever files change
  knife links ~/bin         Install one symlink per utility
  knife config show         Show current configuration`,
		SilenceUsage:     true,
		TraverseChildren: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			app.configureLogging(flags.verbose)
			return nil
		},
	}

	root.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "enable verbose output")
	root.PersistentFlags().StringVar(&flags.configPath, "config", "", "config file (default is $XDG_CONFIG_HOME/knife/config.cue)")

	root.AddGroup(&cobra.Group{ID: utilityGroup, Title: "Utilities:"})
	for _, name := range app.Registry.Names() {
		if c, ok := app.Registry.Lookup(name); ok {
			root.AddCommand(newUtilityCommand(app, flags, c))
		}
	}
	root.AddCommand(
		newShCommand(app, flags),
		newWatchCommand(app, flags),
		newCompareCommand(app, flags),
		newLinksCommand(app),
		newConfigCommand(app, flags),
	)
	return root
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute runs knife with the process arguments and exits. When the binary
// is invoked under a utility's name, that utility runs directly.
func Execute() {
	app := NewApp(Dependencies{})
	ctx := context.Background()

	if name, ok := multiCallName(os.Args[0], app.Registry); ok {
		os.Exit(int(runMultiCallWithSignals(ctx, app, name, os.Args[1:])))
	}

	if err := fang.Execute(
		ctx,
		NewRootCommand(app),
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
		fang.WithErrorHandler(handleError),
	); err != nil {
		os.Exit(int(exitCodeOf(err)))
	}
}

// runMultiCallWithSignals runs a symlink invocation with the same interrupt
// handling fang gives the command tree.
func runMultiCallWithSignals(ctx context.Context, app *App, name string, args []string) types.ExitCode {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()
	code := app.runMultiCall(ctx, name, args)
	if ctx.Err() != nil {
		return types.ExitInterrupted
	}
	return code
}

// handleError prints errors that were not already reported by a utility.
func handleError(w io.Writer, styles fang.Styles, err error) {
	var exitErr *ExitError
	if errors.As(err, &exitErr) && exitErr.Err == nil {
		return
	}
	var svcErr *ServiceError
	if errors.As(err, &svcErr) {
		renderServiceError(w, svcErr)
		fmt.Fprintln(w, ErrorStyle.Render("Error: ")+formatErrorForDisplay(svcErr.Err, svcErr.Verbose))
		return
	}
	fang.DefaultErrorHandler(w, styles, err)
}

// exitCodeOf maps an error returned from the command tree to a process status.
func exitCodeOf(err error) types.ExitCode {
	if err == nil {
		return types.ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		if exitErr.Code.Validate() != nil {
			return types.ExitFailure
		}
		return exitErr.Code
	}
	if errors.Is(err, context.Canceled) {
		return types.ExitInterrupted
	}
	return types.ExitFailure
}

// formatErrorForDisplay formats an error for user display.
// If the error is an ActionableError, it uses the Format method.
// In verbose mode, shows the full error chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}

// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/knife-sh/knife/internal/builtin"
	"github.com/knife-sh/knife/internal/config"
	"github.com/knife-sh/knife/internal/issue"
	"github.com/knife-sh/knife/internal/watch"
	"github.com/knife-sh/knife/pkg/types"
)

type watchFlagValues struct {
	patterns []string
	ignore   []string
	debounce string
	clear    bool
}

// newWatchCommand creates the "watch" command, which re-runs a utility
// whenever files below the working directory change.
func newWatchCommand(app *App, flags *rootFlagValues) *cobra.Command {
	wf := &watchFlagValues{}
	cmd := &cobra.Command{
		Use:   "watch [flags] -- UTILITY [ARG]...",
		Short: "Re-run a utility when files change",
		Long: `Run UTILITY once, then again every time files below the working
directory change. Changes are collected until the debounce period passes
without further events. VCS metadata and editor swap files are ignored.`,
		Example: `  knife watch -- ls -l
  knife watch --pattern '**/*.go' --clear -- wc -l main.go`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.runWatch(cmd.Context(), flags, wf, cmd.Flags().Changed("clear"), args)
		},
	}
	cmd.Flags().StringSliceVarP(&wf.patterns, "pattern", "p", nil, "glob of files that trigger a run (repeatable, default all)")
	cmd.Flags().StringSliceVar(&wf.ignore, "ignore", nil, "glob of files to ignore (repeatable)")
	cmd.Flags().StringVar(&wf.debounce, "debounce", "", "quiet period before re-running (default from config, 500ms)")
	cmd.Flags().BoolVar(&wf.clear, "clear", false, "clear the terminal before each run")
	cmd.Flags().SetInterspersed(false)
	return cmd
}

func (a *App) runWatch(ctx context.Context, flags *rootFlagValues, wf *watchFlagValues, clearSet bool, args []string) error {
	cfg := a.loadConfig(ctx, flags)

	utility, ok := a.Registry.Lookup(args[0])
	if !ok {
		return &ExitError{Code: types.ExitCommandNotFound, Err: newServiceError(issue.NewErrorContext().
			WithOperation("watch").
			WithResource(args[0]).
			WithIssue(issue.UtilityNotFoundId).
			WithSuggestion("Available utilities: "+strings.Join(a.Registry.Names(), ", ")).
			Wrap(builtin.ErrCommandNotFound).
			BuildError(), flags.verbose)}
	}

	debounce, err := watchDebounce(wf.debounce, cfg.Watch)
	if err != nil {
		return &ExitError{Code: types.ExitUsage, Err: err}
	}
	clearScreen := cfg.Watch.ClearScreen
	if clearSet {
		clearScreen = wf.clear
	}
	clearScreen = clearScreen && a.stdoutIsTerminal()

	dir, err := a.getwd()
	if err != nil {
		return fmt.Errorf("get working directory: %w", err)
	}
	settings := settingsFrom(cfg)
	w, err := watch.New(watch.Config{
		Root:        dir,
		Patterns:    wf.patterns,
		Ignore:      wf.ignore,
		Debounce:    debounce,
		ClearScreen: clearScreen,
		RunOnStart:  true,
		Stdout:      a.stdout,
		Stderr:      a.stderr,
		OnChange: func(ctx context.Context, changed []string) error {
			if len(changed) > 0 {
				slog.Debug("files changed", "count", len(changed), "paths", changed)
			}
			if code := a.runUtility(ctx, utility, args, settings); !code.IsSuccess() {
				return fmt.Errorf("%s exited with status %d", utility.Name(), code)
			}
			return nil
		},
	})
	if err != nil {
		return newServiceError(err, flags.verbose)
	}

	slog.Debug("watching", "root", w.Root(), "debounce", debounce)
	if err := w.Run(ctx); err != nil {
		return newServiceError(err, flags.verbose)
	}
	return nil
}

// watchDebounce returns the flag value when given, else the configured one.
func watchDebounce(flagValue string, cfg config.WatchConfig) (time.Duration, error) {
	if flagValue != "" {
		cfg.Debounce = flagValue
	}
	return cfg.DebounceDuration()
}

// stdoutIsTerminal reports whether the App writes to a terminal.
func (a *App) stdoutIsTerminal() bool {
	f, ok := a.stdout.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

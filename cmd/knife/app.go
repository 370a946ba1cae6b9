// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/knife-sh/knife/internal/builtin"
	"github.com/knife-sh/knife/internal/config"
	"github.com/knife-sh/knife/pkg/platform"
	"github.com/knife-sh/knife/pkg/types"
)

type (
	// ConfigProvider loads the user configuration.
	ConfigProvider interface {
		Load(ctx context.Context, opts config.LoadOptions) (*config.Loaded, error)
	}

	// App wires CLI services and shared dependencies. All cobra handlers
	// receive an App and reach the utilities and configuration through it.
	App struct {
		Config   ConfigProvider
		Registry *builtin.Registry
		stdin    io.Reader
		stdout   io.Writer
		stderr   io.Writer
		getwd    func() (string, error)
	}

	// Dependencies defines the injection points for building an App. Nil
	// fields are replaced with production defaults by NewApp.
	Dependencies struct {
		Config   ConfigProvider
		Registry *builtin.Registry
		Stdin    io.Reader
		Stdout   io.Writer
		Stderr   io.Writer
		Getwd    func() (string, error)
	}
)

// NewApp creates an App, filling unset dependencies with production defaults.
func NewApp(deps Dependencies) *App {
	app := &App{
		Config:   deps.Config,
		Registry: deps.Registry,
		stdin:    deps.Stdin,
		stdout:   deps.Stdout,
		stderr:   deps.Stderr,
		getwd:    deps.Getwd,
	}
	if app.Config == nil {
		app.Config = config.NewProvider()
	}
	if app.Registry == nil {
		app.Registry = builtin.DefaultRegistry
	}
	if app.stdin == nil {
		app.stdin = os.Stdin
	}
	if app.stdout == nil {
		app.stdout = os.Stdout
	}
	if app.stderr == nil {
		app.stderr = os.Stderr
	}
	if app.getwd == nil {
		app.getwd = os.Getwd
	}
	return app
}

// loadConfig loads the configuration selected by the root flags. A broken
// configuration is reported as a warning and the defaults apply.
func (a *App) loadConfig(ctx context.Context, flags *rootFlagValues) *config.Config {
	loaded, err := a.Config.Load(ctx, config.LoadOptions{ConfigFilePath: flags.configPath})
	if err != nil {
		fmt.Fprintln(a.stderr, WarningStyle.Render("Warning: ")+formatErrorForDisplay(err, flags.verbose))
		return config.DefaultConfig()
	}
	if loaded.Config.UI.Verbose && !flags.verbose {
		flags.verbose = true
		a.configureLogging(true)
	}
	slog.Debug("configuration loaded", "path", loaded.Path)
	return loaded.Config
}

// settingsFrom converts the ls section of cfg into utility settings.
func settingsFrom(cfg *config.Config) builtin.Settings {
	s := builtin.DefaultSettings()
	if cfg.LS.Color != "" {
		s.LS.Color = cfg.LS.Color
	}
	s.LS.HumanReadable = cfg.LS.HumanReadable
	s.LS.Ignore = append([]string(nil), cfg.LS.Ignore...)
	return s
}

// handlerContext binds a utility run to the App's streams and the process
// working directory and environment.
func (a *App) handlerContext(settings builtin.Settings) *builtin.HandlerContext {
	dir, err := a.getwd()
	if err != nil {
		dir = "."
	}
	return &builtin.HandlerContext{
		Stdin:     a.stdin,
		Stdout:    a.stdout,
		Stderr:    a.stderr,
		Dir:       dir,
		LookupEnv: os.LookupEnv,
		Settings:  settings,
	}
}

// runUtility runs c with args (args[0] is the utility name) and returns its
// exit status. Utilities print their own diagnostics.
func (a *App) runUtility(ctx context.Context, c builtin.Command, args []string, settings builtin.Settings) types.ExitCode {
	ctx = builtin.WithHandlerContext(ctx, a.handlerContext(settings))
	err := c.Run(ctx, args)
	if err != nil {
		slog.Debug("utility finished", "name", c.Name(), "error", err)
	}
	return builtin.ExitCodeOf(err)
}

// multiCallName reports the utility named by argv0, if any. The knife
// binary itself never matches.
func multiCallName(argv0 string, registry *builtin.Registry) (string, bool) {
	name := platform.CommandName(argv0)
	if _, ok := registry.Lookup(name); !ok {
		return "", false
	}
	return name, true
}

// runMultiCall runs a utility invoked through a symlink. Configuration comes
// from the default locations and the environment only.
func (a *App) runMultiCall(ctx context.Context, name string, args []string) types.ExitCode {
	c, _ := a.Registry.Lookup(name)
	flags := &rootFlagValues{}
	a.configureLogging(false)
	cfg := a.loadConfig(ctx, flags)
	return a.runUtility(ctx, c, append([]string{name}, args...), settingsFrom(cfg))
}

// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/knife-sh/knife/internal/config"
	"github.com/knife-sh/knife/internal/issue"
)

const (
	dumpFormatCUE  = "cue"
	dumpFormatTOML = "toml"
)

// newConfigCommand creates the `knife config` command tree.
func newConfigCommand(app *App, flags *rootFlagValues) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage knife configuration",
		Long: `Manage knife configuration.

Configuration is stored in:
  - Linux: $XDG_CONFIG_HOME/knife/config.cue (default ~/.config/knife)
  - macOS: ~/Library/Application Support/knife/config.cue
  - Windows: %APPDATA%\knife\config.cue

A config.cue in the working directory is used when none of these exist.
KNIFE_* environment variables override file values, e.g. KNIFE_LS_COLOR=never.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.showConfig(cmd.Context(), flags)
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.showConfigPath(flags)
		},
	})

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Create default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.initConfig(flags, force)
		},
	}
	initCmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing configuration file")
	cfgCmd.AddCommand(initCmd)

	var format string
	dumpCmd := &cobra.Command{
		Use:   "dump",
		Short: "Output the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.dumpConfig(cmd.Context(), flags, format)
		},
	}
	dumpCmd.Flags().StringVar(&format, "format", dumpFormatCUE, "output format (cue, toml)")
	cfgCmd.AddCommand(dumpCmd)

	return cfgCmd
}

// loadConfigStrict loads the configuration and fails on errors, unlike the
// warning-only loading used by the utilities.
func (a *App) loadConfigStrict(ctx context.Context, flags *rootFlagValues) (*config.Loaded, error) {
	loaded, err := a.Config.Load(ctx, config.LoadOptions{ConfigFilePath: flags.configPath})
	if err != nil {
		return nil, newServiceError(err, flags.verbose)
	}
	return loaded, nil
}

func (a *App) showConfig(ctx context.Context, flags *rootFlagValues) error {
	loaded, err := a.loadConfigStrict(ctx, flags)
	if err != nil {
		return err
	}
	cfg := loaded.Config

	keyStyle := CmdStyle
	valueStyle := SuccessStyle
	w := a.stdout

	fmt.Fprintln(w, TitleStyle.Render("Current Configuration"))
	fmt.Fprintln(w)
	if loaded.Path != "" {
		fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("Config file"), loaded.Path)
	} else {
		fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("Config file"), SubtitleStyle.Render("(using defaults)"))
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", keyStyle.Render("ls"))
	fmt.Fprintf(w, "  color: %s\n", valueStyle.Render(string(cfg.LS.Color)))
	fmt.Fprintf(w, "  human_readable: %s\n", valueStyle.Render(fmt.Sprintf("%v", cfg.LS.HumanReadable)))
	if len(cfg.LS.Ignore) == 0 {
		fmt.Fprintf(w, "  ignore: %s\n", SubtitleStyle.Render("(none configured)"))
	} else {
		fmt.Fprintln(w, "  ignore:")
		for _, p := range cfg.LS.Ignore {
			fmt.Fprintf(w, "    - %s\n", valueStyle.Render(p))
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", keyStyle.Render("shell"))
	fmt.Fprintf(w, "  builtins: %s\n", valueStyle.Render(fmt.Sprintf("%v", cfg.Shell.Builtins)))

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", keyStyle.Render("watch"))
	fmt.Fprintf(w, "  debounce: %s\n", valueStyle.Render(cfg.Watch.Debounce))
	fmt.Fprintf(w, "  clear_screen: %s\n", valueStyle.Render(fmt.Sprintf("%v", cfg.Watch.ClearScreen)))

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", keyStyle.Render("ui"))
	fmt.Fprintf(w, "  verbose: %s\n", valueStyle.Render(fmt.Sprintf("%v", cfg.UI.Verbose)))
	return nil
}

func (a *App) showConfigPath(flags *rootFlagValues) error {
	dir, err := a.getwd()
	if err != nil {
		dir = ""
	}
	path, found, err := config.ResolvePath(config.LoadOptions{ConfigFilePath: flags.configPath, WorkDir: dir})
	if err != nil {
		return newServiceError(err, flags.verbose)
	}
	fmt.Fprintln(a.stdout, path)
	if !found {
		fmt.Fprintln(a.stderr, SubtitleStyle.Render("(file does not exist, defaults apply)"))
	}
	return nil
}

func (a *App) initConfig(flags *rootFlagValues, force bool) error {
	path, err := config.CreateDefaultConfig(flags.configPath, force)
	if err != nil {
		if errors.Is(err, config.ErrConfigExists) {
			return newServiceError(issue.NewErrorContext().
				WithOperation("create config").
				WithResource(path).
				WithIssue(issue.ConfigLoadFailedId).
				WithSuggestion("Use 'knife config init --force' to overwrite it").
				Wrap(err).
				BuildError(), flags.verbose)
		}
		return newServiceError(issue.WrapWithOperation(err, "create config"), flags.verbose)
	}
	fmt.Fprintf(a.stdout, "%s Created default configuration at %s\n", SuccessStyle.Render("✓"), path)
	return nil
}

func (a *App) dumpConfig(ctx context.Context, flags *rootFlagValues, format string) error {
	loaded, err := a.loadConfigStrict(ctx, flags)
	if err != nil {
		return err
	}
	return writeConfig(a.stdout, loaded.Config, format)
}

// writeConfig encodes cfg in the requested format.
func writeConfig(w io.Writer, cfg *config.Config, format string) error {
	switch strings.ToLower(format) {
	case dumpFormatCUE:
		_, err := io.WriteString(w, config.GenerateCUE(cfg))
		return err
	case dumpFormatTOML:
		out, err := config.GenerateTOML(cfg)
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, out)
		return err
	default:
		return fmt.Errorf("unknown format %q: must be %q or %q", format, dumpFormatCUE, dumpFormatTOML)
	}
}

// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"

	"github.com/knife-sh/knife/internal/issue"
	"github.com/knife-sh/knife/pkg/platform"
)

const (
	// AppName is the application name.
	AppName = "knife"
	// ConfigFileName is the name of the config file (without extension).
	ConfigFileName = "config"
	// ConfigFileExt is the config file extension.
	ConfigFileExt = "cue"
	// EnvPrefix prefixes environment overrides: KNIFE_LS_COLOR sets ls.color.
	EnvPrefix = "KNIFE"
)

// ErrConfigExists is returned by CreateDefaultConfig when a file is already
// present and overwriting was not requested.
var ErrConfigExists = errors.New("config file already exists")

// ConfigDir returns the knife configuration directory: %APPDATA% on Windows,
// ~/Library/Application Support on macOS and $XDG_CONFIG_HOME (default
// ~/.config) elsewhere.
//
//nolint:revive // config.ConfigDir reads better than config.Dir at call sites
func ConfigDir() (string, error) {
	if configDirOverride != "" {
		return configDirOverride, nil
	}

	var base string
	switch runtime.GOOS {
	case platform.Windows:
		base = os.Getenv("APPDATA")
		if base == "" {
			base = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
	case platform.Darwin:
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		base = filepath.Join(home, "Library", "Application Support")
	default:
		base = os.Getenv("XDG_CONFIG_HOME")
		if base == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("failed to get home directory: %w", err)
			}
			base = filepath.Join(home, ".config")
		}
	}
	return filepath.Join(base, AppName), nil
}

// DefaultPath returns the config file path inside ConfigDir.
func DefaultPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ConfigFileName+"."+ConfigFileExt), nil
}

// ResolvePath returns the file Load would read. found is false when no file
// exists and defaults apply; path is then the location `config init` writes.
func ResolvePath(opts LoadOptions) (path string, found bool, err error) {
	if opts.ConfigFilePath != "" {
		return opts.ConfigFilePath, fileExists(opts.ConfigFilePath), nil
	}

	dir := opts.ConfigDirPath
	if dir == "" {
		if dir, err = ConfigDir(); err != nil {
			return "", false, err
		}
	}
	path = filepath.Join(dir, ConfigFileName+"."+ConfigFileExt)
	if fileExists(path) {
		return path, true, nil
	}

	local := ConfigFileName + "." + ConfigFileExt
	if opts.WorkDir != "" {
		local = filepath.Join(opts.WorkDir, local)
	}
	if fileExists(local) {
		return local, true, nil
	}
	return path, false, nil
}

// newViper returns a viper instance holding the defaults with KNIFE_*
// environment overrides enabled.
func newViper() *viper.Viper {
	v := viper.New()
	defaults := DefaultConfig()
	v.SetDefault("ls.color", string(defaults.LS.Color))
	v.SetDefault("ls.human_readable", defaults.LS.HumanReadable)
	v.SetDefault("ls.ignore", defaults.LS.Ignore)
	v.SetDefault("shell.builtins", defaults.Shell.Builtins)
	v.SetDefault("watch.debounce", defaults.Watch.Debounce)
	v.SetDefault("watch.clear_screen", defaults.Watch.ClearScreen)
	v.SetDefault("ui.verbose", defaults.UI.Verbose)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// loadWithOptions reads defaults, the config file (if any) and the
// environment, in increasing precedence.
func loadWithOptions(ctx context.Context, opts LoadOptions) (*Config, string, error) {
	if err := ctx.Err(); err != nil {
		return nil, "", fmt.Errorf("load config canceled: %w", err)
	}

	path, found, err := ResolvePath(opts)
	if err != nil {
		return nil, "", err
	}

	if opts.ConfigFilePath != "" && !found {
		return nil, "", issue.NewErrorContext().
			WithOperation("load configuration").
			WithResource(opts.ConfigFilePath).
			WithIssue(issue.PathNotFoundId).
			WithSuggestion("Verify the file path is correct").
			WithSuggestion("Run 'knife config path' to see where knife looks by default").
			Wrap(fmt.Errorf("config file not found: %s", opts.ConfigFilePath)).
			BuildError()
	}

	v := newViper()
	resolved := ""
	if found {
		data, readErr := os.ReadFile(path)
		if readErr == nil {
			readErr = loadCUEIntoViper(v, data, path)
		}
		if readErr != nil {
			return nil, "", loadError(path, readErr)
		}
		resolved = path
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, "", loadError(path, fmt.Errorf("decode config: %w", err))
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", loadError(path, err)
	}
	return &cfg, resolved, nil
}

func loadError(path string, err error) error {
	return issue.NewErrorContext().
		WithOperation("load configuration").
		WithResource(path).
		WithIssue(issue.ConfigLoadFailedId).
		WithSuggestion("Check that the file contains valid CUE syntax").
		WithSuggestion("Run 'knife config show' to compare with the defaults").
		Wrap(err).
		BuildError()
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// CreateDefaultConfig writes the default configuration to path, or to
// DefaultPath when path is empty, and returns the file written. An existing
// file is kept unless force is set.
func CreateDefaultConfig(path string, force bool) (string, error) {
	if path == "" {
		var err error
		if path, err = DefaultPath(); err != nil {
			return "", err
		}
	}
	if !force && fileExists(path) {
		return path, fmt.Errorf("%w: %s", ErrConfigExists, path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(GenerateCUE(DefaultConfig())), 0o644); err != nil {
		return "", fmt.Errorf("failed to write config file: %w", err)
	}
	return path, nil
}

// GenerateCUE renders cfg as a config.cue document.
func GenerateCUE(cfg *Config) string {
	var sb strings.Builder

	sb.WriteString("// knife configuration file.\n")
	sb.WriteString("// Command-line flags override these values; KNIFE_* environment variables override both.\n\n")

	sb.WriteString("ls: {\n")
	fmt.Fprintf(&sb, "\tcolor:          %q\n", cfg.LS.Color)
	fmt.Fprintf(&sb, "\thuman_readable: %v\n", cfg.LS.HumanReadable)
	quoted := make([]string, len(cfg.LS.Ignore))
	for i, p := range cfg.LS.Ignore {
		quoted[i] = fmt.Sprintf("%q", p)
	}
	fmt.Fprintf(&sb, "\tignore: [%s]\n", strings.Join(quoted, ", "))
	sb.WriteString("}\n")

	sb.WriteString("\nshell: {\n")
	fmt.Fprintf(&sb, "\tbuiltins: %v\n", cfg.Shell.Builtins)
	sb.WriteString("}\n")

	sb.WriteString("\nwatch: {\n")
	if cfg.Watch.Debounce != "" {
		fmt.Fprintf(&sb, "\tdebounce:     %q\n", cfg.Watch.Debounce)
	}
	fmt.Fprintf(&sb, "\tclear_screen: %v\n", cfg.Watch.ClearScreen)
	sb.WriteString("}\n")

	sb.WriteString("\nui: {\n")
	fmt.Fprintf(&sb, "\tverbose: %v\n", cfg.UI.Verbose)
	sb.WriteString("}\n")

	return sb.String()
}

// GenerateTOML renders cfg as TOML, for users who want to read the effective
// configuration with other tools.
func GenerateTOML(cfg *Config) (string, error) {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return "", fmt.Errorf("encode toml: %w", err)
	}
	return string(data), nil
}

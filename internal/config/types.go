// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/knife-sh/knife/internal/listing"
)

// defaultDebounce is the watch debounce written by `config init`.
const defaultDebounce = "500ms"

var (
	// ErrInvalidDebounce is the sentinel error wrapped by InvalidDebounceError.
	ErrInvalidDebounce = errors.New("invalid debounce")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// Config holds the application configuration.
	Config struct {
		LS    LSConfig    `json:"ls" mapstructure:"ls" toml:"ls"`
		Shell ShellConfig `json:"shell" mapstructure:"shell" toml:"shell"`
		Watch WatchConfig `json:"watch" mapstructure:"watch" toml:"watch"`
		UI    UIConfig    `json:"ui" mapstructure:"ui" toml:"ui"`
	}

	// LSConfig holds ls defaults. Command-line flags override them.
	LSConfig struct {
		Color         listing.ColorMode `json:"color" mapstructure:"color" toml:"color"`
		HumanReadable bool              `json:"human_readable" mapstructure:"human_readable" toml:"human_readable"`
		Ignore        []string          `json:"ignore" mapstructure:"ignore" toml:"ignore"`
	}

	// ShellConfig configures `knife sh`.
	ShellConfig struct {
		// Builtins routes commands to knife utilities before the host PATH.
		Builtins bool `json:"builtins" mapstructure:"builtins" toml:"builtins"`
	}

	// WatchConfig configures `knife watch`.
	WatchConfig struct {
		// Debounce is a Go duration string such as "500ms".
		Debounce    string `json:"debounce" mapstructure:"debounce" toml:"debounce"`
		ClearScreen bool   `json:"clear_screen" mapstructure:"clear_screen" toml:"clear_screen"`
	}

	// UIConfig configures output.
	UIConfig struct {
		Verbose bool `json:"verbose" mapstructure:"verbose" toml:"verbose"`
	}

	// InvalidDebounceError is returned when a debounce is not a positive duration.
	InvalidDebounceError struct {
		Value string
	}

	// InvalidConfigError collects every field error found by Config.Validate.
	InvalidConfigError struct {
		FieldErrors []error
	}
)

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		LS: LSConfig{
			Color:  listing.ColorAuto,
			Ignore: []string{},
		},
		Shell: ShellConfig{Builtins: true},
		Watch: WatchConfig{Debounce: defaultDebounce},
	}
}

// DebounceDuration parses Debounce. An empty value yields zero, which callers
// treat as "use the built-in default".
func (c WatchConfig) DebounceDuration() (time.Duration, error) {
	if c.Debounce == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Debounce)
	if err != nil || d <= 0 {
		return 0, &InvalidDebounceError{Value: c.Debounce}
	}
	return d, nil
}

// Validate checks values the CUE schema cannot express, such as glob syntax.
func (c Config) Validate() error {
	var errs []error
	if err := c.LS.Color.Validate(); err != nil {
		errs = append(errs, err)
	}
	for _, p := range c.LS.Ignore {
		if !doublestar.ValidatePattern(p) {
			errs = append(errs, &listing.InvalidIgnorePatternError{Pattern: p})
		}
	}
	if _, err := c.Watch.DebounceDuration(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return &InvalidConfigError{FieldErrors: errs}
	}
	return nil
}

// Error implements the error interface.
func (e *InvalidDebounceError) Error() string {
	return fmt.Sprintf("invalid debounce %q (want a positive duration such as 500ms)", e.Value)
}

// Unwrap returns ErrInvalidDebounce for errors.Is() compatibility.
func (e *InvalidDebounceError) Unwrap() error { return ErrInvalidDebounce }

// Error lists every field error on one line.
func (e *InvalidConfigError) Error() string {
	if len(e.FieldErrors) == 1 {
		return "invalid config: " + e.FieldErrors[0].Error()
	}
	return fmt.Sprintf("invalid config: %d field errors: %v", len(e.FieldErrors), errors.Join(e.FieldErrors...))
}

// Unwrap exposes ErrInvalidConfig and each field error to errors.Is.
func (e *InvalidConfigError) Unwrap() []error {
	return append([]error{ErrInvalidConfig}, e.FieldErrors...)
}

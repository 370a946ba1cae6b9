// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"io"
	"log/slog"

	"github.com/charmbracelet/log"
)

// newLogger returns a slog logger backed by a charmbracelet/log handler.
// Verbose output includes debug records; otherwise only warnings and errors
// are shown.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := log.WarnLevel
	if verbose {
		level = log.DebugLevel
	}
	handler := log.NewWithOptions(w, log.Options{
		Prefix: "knife",
		Level:  level,
	})
	return slog.New(handler)
}

// configureLogging installs the default slog logger on the App's stderr.
func (a *App) configureLogging(verbose bool) {
	slog.SetDefault(newLogger(a.stderr, verbose))
}

// SPDX-License-Identifier: MPL-2.0

package builtin

import (
	"context"
	"io"
	"os"

	"mvdan.cc/sh/v3/interp"
)

type (
	// HandlerContext provides the execution environment of one utility run.
	HandlerContext struct {
		// Stdin is the input stream for the command.
		Stdin io.Reader
		// Stdout is the output stream for the command.
		Stdout io.Writer
		// Stderr is the error output stream for the command.
		Stderr io.Writer
		// Dir is the current working directory.
		Dir string
		// LookupEnv retrieves environment variables.
		LookupEnv func(string) (string, bool)
		// Settings are the user's configured defaults.
		Settings Settings
	}

	// handlerContextKey is the context key for storing HandlerContext.
	handlerContextKey struct{}

	// settingsKey is the context key for storing Settings.
	settingsKey struct{}
)

// NewProcessHandlerContext returns a HandlerContext bound to the process
// streams, working directory and environment.
func NewProcessHandlerContext(settings Settings) *HandlerContext {
	dir, err := os.Getwd()
	if err != nil {
		dir = "."
	}
	return &HandlerContext{
		Stdin:     os.Stdin,
		Stdout:    os.Stdout,
		Stderr:    os.Stderr,
		Dir:       dir,
		LookupEnv: os.LookupEnv,
		Settings:  settings,
	}
}

// ExtractHandlerContext extracts the HandlerContext from mvdan/sh's context.
// Settings stored with WithSettings are carried over.
func ExtractHandlerContext(ctx context.Context) *HandlerContext {
	hc := interp.HandlerCtx(ctx)
	return &HandlerContext{
		Stdin:  hc.Stdin,
		Stdout: hc.Stdout,
		Stderr: hc.Stderr,
		Dir:    hc.Dir,
		// expand.Variable.Set indicates if the variable was set.
		LookupEnv: func(name string) (string, bool) {
			v := hc.Env.Get(name)
			return v.String(), v.IsSet()
		},
		Settings: SettingsFrom(ctx),
	}
}

// WithHandlerContext stores a HandlerContext in the context.
func WithHandlerContext(ctx context.Context, hc *HandlerContext) context.Context {
	return context.WithValue(ctx, handlerContextKey{}, hc)
}

// GetHandlerContext retrieves the HandlerContext from the context.
// If the context was created with WithHandlerContext, it returns that value.
// Otherwise, it extracts from mvdan/sh's handler context.
func GetHandlerContext(ctx context.Context) *HandlerContext {
	if hc, ok := ctx.Value(handlerContextKey{}).(*HandlerContext); ok {
		return hc
	}
	return ExtractHandlerContext(ctx)
}

// WithSettings stores settings for utilities later run through the shell.
func WithSettings(ctx context.Context, s Settings) context.Context {
	return context.WithValue(ctx, settingsKey{}, s)
}

// SettingsFrom returns the settings stored with WithSettings, or DefaultSettings.
func SettingsFrom(ctx context.Context) Settings {
	if s, ok := ctx.Value(settingsKey{}).(Settings); ok {
		return s
	}
	return DefaultSettings()
}

// getenv returns the variable's value or "" when unset.
func (hc *HandlerContext) getenv(name string) string {
	if hc.LookupEnv == nil {
		return ""
	}
	v, _ := hc.LookupEnv(name)
	return v
}

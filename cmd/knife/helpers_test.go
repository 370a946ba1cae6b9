// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/knife-sh/knife/internal/builtin"
	"github.com/knife-sh/knife/internal/config"
	"github.com/knife-sh/knife/pkg/types"
)

type (
	// stubProvider returns a fixed configuration or error.
	stubProvider struct {
		loaded *config.Loaded
		err    error
		opts   []config.LoadOptions
	}

	// recordingCommand is a utility that records its invocations.
	recordingCommand struct {
		mu       sync.Mutex
		name     string
		code     types.ExitCode
		output   string
		calls    [][]string
		settings []builtin.Settings
	}
)

func (p *stubProvider) Load(_ context.Context, opts config.LoadOptions) (*config.Loaded, error) {
	p.opts = append(p.opts, opts)
	if p.err != nil {
		return nil, p.err
	}
	if p.loaded != nil {
		return p.loaded, nil
	}
	return &config.Loaded{Config: config.DefaultConfig()}, nil
}

func (c *recordingCommand) Name() string { return c.name }

func (c *recordingCommand) Summary() string { return "Record the call." }

func (c *recordingCommand) SupportedFlags() []builtin.FlagInfo {
	return []builtin.FlagInfo{
		{Name: "all", ShortName: "a", Description: "do everything"},
		{Name: "lines", ShortName: "n", Description: "line count", TakesValue: true},
		{Name: "sort", Description: "sort key", TakesValue: true},
	}
}

func (c *recordingCommand) Run(ctx context.Context, args []string) error {
	hc := builtin.GetHandlerContext(ctx)
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, append([]string(nil), args...))
	c.settings = append(c.settings, hc.Settings)
	if c.output != "" {
		fmt.Fprint(hc.Stdout, c.output)
	}
	if c.code != types.ExitSuccess {
		fmt.Fprintf(hc.Stderr, "%s: failed\n", c.name)
		return &builtin.StatusError{Name: c.name, Code: c.code}
	}
	return nil
}

// callCount is safe to use while the command runs on another goroutine.
func (c *recordingCommand) callCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.calls)
}

// newTestApp returns an App writing to buffers with a registry holding cmds.
func newTestApp(t *testing.T, provider ConfigProvider, stdin string, cmds ...builtin.Command) (app *App, stdout, stderr *bytes.Buffer) {
	t.Helper()

	registry := builtin.NewRegistry()
	for _, c := range cmds {
		registry.Register(c)
	}
	stdout, stderr = &bytes.Buffer{}, &bytes.Buffer{}
	dir := t.TempDir()
	app = NewApp(Dependencies{
		Config:   provider,
		Registry: registry,
		Stdin:    strings.NewReader(stdin),
		Stdout:   stdout,
		Stderr:   stderr,
		Getwd:    func() (string, error) { return dir, nil },
	})
	return app, stdout, stderr
}

// executeRoot runs the command tree with args.
func executeRoot(t *testing.T, app *App, args ...string) error {
	t.Helper()

	root := NewRootCommand(app)
	root.SetArgs(args)
	root.SetOut(app.stdout)
	root.SetErr(app.stderr)
	root.SilenceErrors = true
	return root.ExecuteContext(t.Context())
}

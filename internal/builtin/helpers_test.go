// SPDX-License-Identifier: MPL-2.0

package builtin

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// runResult captures the streams and error of one utility run.
type runResult struct {
	stdout string
	stderr string
	err    error
}

// runIn runs cmd with dir as working directory, stdin as input and an empty
// environment.
func runIn(t *testing.T, cmd Command, dir, stdin string, args ...string) runResult {
	t.Helper()
	return runWithEnv(t, cmd, dir, stdin, nil, args...)
}

func runWithEnv(t *testing.T, cmd Command, dir, stdin string, env map[string]string, args ...string) runResult {
	t.Helper()

	var stdout, stderr bytes.Buffer
	ctx := WithHandlerContext(t.Context(), &HandlerContext{
		Stdin:  strings.NewReader(stdin),
		Stdout: &stdout,
		Stderr: &stderr,
		Dir:    dir,
		LookupEnv: func(name string) (string, bool) {
			v, ok := env[name]
			return v, ok
		},
		Settings: DefaultSettings(),
	})

	err := cmd.Run(ctx, append([]string{cmd.Name()}, args...))
	return runResult{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

// writeFile creates dir/name with content and returns its path.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create parent of %s: %v", name, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to create %s: %v", name, err)
	}
	return path
}

// numberedLines returns "line 1\n" through "line n\n".
func numberedLines(n int) string {
	var b strings.Builder
	for i := 1; i <= n; i++ {
		b.WriteString("line ")
		b.WriteString(itoa(i))
		b.WriteByte('\n')
	}
	return b.String()
}

func itoa(i int) string {
	if i == 0 {
		return "0"
	}
	var s string
	for i > 0 {
		s = string(rune('0'+i%10)) + s
		i /= 10
	}
	return s
}

func wantExitCode(t *testing.T, err error, want int) {
	t.Helper()
	if got := int(ExitCodeOf(err)); got != want {
		t.Errorf("exit code = %d, want %d (err: %v)", got, want, err)
	}
}

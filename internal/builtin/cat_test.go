// SPDX-License-Identifier: MPL-2.0

package builtin

import (
	"strings"
	"testing"
)

func TestCatCommand_Run(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		files map[string]string
		stdin string
		args  []string
		want  string
	}{
		{
			name:  "single file",
			files: map[string]string{"a.txt": "alpha\nbeta\n"},
			args:  []string{"a.txt"},
			want:  "alpha\nbeta\n",
		},
		{
			name:  "stdin by default",
			stdin: "from stdin\n",
			want:  "from stdin\n",
		},
		{
			name:  "dash reads stdin between files",
			files: map[string]string{"a.txt": "A\n", "b.txt": "B\n"},
			stdin: "S\n",
			args:  []string{"a.txt", "-", "b.txt"},
			want:  "A\nS\nB\n",
		},
		{
			name:  "number continues across files",
			files: map[string]string{"a.txt": "a\nb\n", "b.txt": "c\n"},
			args:  []string{"-n", "a.txt", "b.txt"},
			want:  "     1\ta\n     2\tb\n     3\tc\n",
		},
		{
			name:  "number nonblank overrides number",
			files: map[string]string{"a.txt": "a\n\nb\n"},
			args:  []string{"-n", "-b", "a.txt"},
			want:  "     1\ta\n\n     2\tb\n",
		},
		{
			name:  "show ends",
			files: map[string]string{"a.txt": "x\ny"},
			args:  []string{"-E", "a.txt"},
			want:  "x$\ny",
		},
		{
			name:  "show all",
			files: map[string]string{"a.txt": "a\tb\x01\x7f\n"},
			args:  []string{"-A", "a.txt"},
			want:  "a^Ib^A^?$\n",
		},
		{
			name:  "show tabs only",
			files: map[string]string{"a.txt": "a\tb\x01\n"},
			args:  []string{"-T", "a.txt"},
			want:  "a^Ib\x01\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			for name, content := range tt.files {
				writeFile(t, dir, name, content)
			}

			res := runIn(t, newCatCommand(), dir, tt.stdin, tt.args...)
			if res.err != nil {
				t.Fatalf("Run() returned error: %v (stderr %q)", res.err, res.stderr)
			}
			if res.stdout != tt.want {
				t.Errorf("stdout = %q, want %q", res.stdout, tt.want)
			}
		})
	}
}

func TestCatCommand_MissingFileContinues(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "present.txt", "here\n")

	res := runIn(t, newCatCommand(), dir, "", "missing.txt", "present.txt")
	if res.stdout != "here\n" {
		t.Errorf("stdout = %q, want %q", res.stdout, "here\n")
	}
	if res.stderr != "cat: missing.txt: No such file or directory\n" {
		t.Errorf("stderr = %q", res.stderr)
	}
	wantExitCode(t, res.err, 1)
}

func TestCatCommand_UnknownFlag(t *testing.T) {
	t.Parallel()

	res := runIn(t, newCatCommand(), t.TempDir(), "", "-z")
	wantExitCode(t, res.err, 2)
	if !strings.Contains(res.stderr, "Try 'cat --help' for more information.") {
		t.Errorf("stderr = %q, want usage hint", res.stderr)
	}
}

func TestCatCommand_Help(t *testing.T) {
	t.Parallel()

	res := runIn(t, newCatCommand(), t.TempDir(), "", "--help")
	if res.err != nil {
		t.Fatalf("--help returned error: %v", res.err)
	}
	if !strings.HasPrefix(res.stdout, "Usage: cat [OPTION]... [FILE]...\n") {
		t.Errorf("stdout = %q, want usage banner", res.stdout)
	}
	if !strings.Contains(res.stdout, "--number-nonblank") {
		t.Errorf("help should list flags, got %q", res.stdout)
	}
}

// SPDX-License-Identifier: MPL-2.0

package builtin

import (
	"os"
	"path/filepath"
	"testing"
)

func TestPwdCommand_Physical(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	want, err := filepath.EvalSymlinks(dir)
	if err != nil {
		t.Fatal(err)
	}

	res := runIn(t, newPwdCommand(), dir, "", "-P")
	if res.err != nil {
		t.Fatalf("Run() returned error: %v", res.err)
	}
	if res.stdout != want+"\n" {
		t.Errorf("stdout = %q, want %q", res.stdout, want+"\n")
	}
}

func TestPwdCommand_Logical(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	realDir := filepath.Join(base, "realDir")
	link := filepath.Join(base, "link")
	if err := os.Mkdir(realDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.Symlink(realDir, link); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}
	physical, err := filepath.EvalSymlinks(realDir)
	if err != nil {
		t.Fatal(err)
	}

	env := map[string]string{"PWD": link}

	res := runWithEnv(t, newPwdCommand(), link, "", env)
	if res.stdout != link+"\n" {
		t.Errorf("logical stdout = %q, want %q", res.stdout, link+"\n")
	}

	res = runWithEnv(t, newPwdCommand(), link, "", env, "-P")
	if res.stdout != physical+"\n" {
		t.Errorf("physical stdout = %q, want %q", res.stdout, physical+"\n")
	}

	// A stale $PWD naming another directory is ignored.
	res = runWithEnv(t, newPwdCommand(), realDir, "", map[string]string{"PWD": base})
	if res.stdout != physical+"\n" {
		t.Errorf("stale PWD stdout = %q, want %q", res.stdout, physical+"\n")
	}
}

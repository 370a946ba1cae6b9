// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/knife-sh/knife/pkg/platform"
)

func TestInstallLinks(t *testing.T) {
	t.Parallel()

	if runtime.GOOS == platform.Windows {
		t.Skip("symlinks need extra privileges on Windows")
	}

	dir := filepath.Join(t.TempDir(), "bin")
	target := filepath.Join(t.TempDir(), "knife")
	names := []string{"cat", "ls"}

	var out bytes.Buffer
	if err := installLinks(&out, dir, target, names, false); err != nil {
		t.Fatal(err)
	}
	for _, name := range names {
		got, err := os.Readlink(filepath.Join(dir, name))
		if err != nil || got != target {
			t.Errorf("link %s = %q, %v; want %q", name, got, err, target)
		}
	}

	// An unrelated file is kept without --force.
	other := filepath.Join(dir, "ls")
	if err := os.Remove(other); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(other, []byte("mine"), 0o644); err != nil {
		t.Fatal(err)
	}
	out.Reset()
	if err := installLinks(&out, dir, target, names, false); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "exists, skipped") {
		t.Errorf("output = %q", out.String())
	}
	if data, _ := os.ReadFile(other); string(data) != "mine" {
		t.Error("existing file was replaced without force")
	}

	// --force replaces it.
	if err := installLinks(&out, dir, target, names, true); err != nil {
		t.Fatal(err)
	}
	if got, err := os.Readlink(other); err != nil || got != target {
		t.Errorf("forced link = %q, %v", got, err)
	}
}

func TestInstallLinks_DirectoryError(t *testing.T) {
	t.Parallel()

	file := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(file, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	err := installLinks(&bytes.Buffer{}, filepath.Join(file, "bin"), "/knife", []string{"ls"}, false)
	if err == nil || !strings.Contains(err.Error(), "failed to create directory") {
		t.Errorf("err = %v", err)
	}
}

// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"runtime"
	"testing"
)

// SetHomeDir points the platform's home directory variable at dir for the
// rest of the test (USERPROFILE on Windows, HOME elsewhere).
func SetHomeDir(t *testing.T, dir string) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Setenv("USERPROFILE", dir)
		return
	}
	t.Setenv("HOME", dir)
}

// SetConfigHome isolates user configuration lookups under dir: the home
// directory, XDG_CONFIG_HOME and APPDATA all point inside it.
func SetConfigHome(t *testing.T, dir string) {
	t.Helper()
	SetHomeDir(t, dir)
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("APPDATA", dir)
}

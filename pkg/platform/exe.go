// SPDX-License-Identifier: MPL-2.0

package platform

import (
	"path/filepath"
	"runtime"
	"strings"
)

const exeSuffix = ".exe"

// CommandName returns the name a binary was invoked as: the base of argv0
// without its directory and, on Windows, without the .exe suffix.
func CommandName(argv0 string) string {
	return commandName(argv0, runtime.GOOS)
}

func commandName(argv0, goos string) string {
	if goos == Windows {
		argv0 = strings.ReplaceAll(argv0, `\`, "/")
	}
	name := argv0
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	if goos == Windows && strings.EqualFold(filepath.Ext(name), exeSuffix) {
		name = name[:len(name)-len(exeSuffix)]
	}
	return name
}

// ExecutableName returns the file name for a command on the host, adding
// .exe on Windows.
func ExecutableName(name string) string {
	return executableName(name, runtime.GOOS)
}

func executableName(name, goos string) string {
	if goos == Windows {
		return name + exeSuffix
	}
	return name
}

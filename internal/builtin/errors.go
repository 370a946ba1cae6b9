// SPDX-License-Identifier: MPL-2.0

package builtin

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"syscall"
	"unicode"
	"unicode/utf8"

	"github.com/knife-sh/knife/pkg/types"
)

// StatusError reports a non-zero exit status. The utility already printed its
// diagnostics, so callers should only propagate the code.
type StatusError struct {
	Name string
	Code types.ExitCode
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: exit status %d", e.Name, e.Code)
}

// ExitCodeOf maps a utility error to its exit status: nil is success, a
// *StatusError carries its own code and anything else is a general failure.
func ExitCodeOf(err error) types.ExitCode {
	if err == nil {
		return types.ExitSuccess
	}
	var se *StatusError
	if errors.As(err, &se) {
		return se.Code
	}
	return types.ExitFailure
}

// failure tracks whether any operand of a utility run failed.
type failure struct {
	name   string
	stderr io.Writer
	failed bool
}

// reportf prints "NAME: message" and marks the run failed.
func (f *failure) reportf(format string, args ...any) {
	f.failed = true
	fmt.Fprintf(f.stderr, "%s: %s\n", f.name, fmt.Sprintf(format, args...))
}

// status returns nil when no operand failed, else a StatusError with code 1.
func (f *failure) status() error {
	if !f.failed {
		return nil
	}
	return &StatusError{Name: f.name, Code: types.ExitFailure}
}

// usageError prints a usage diagnostic and returns exit status 2.
func usageError(stderr io.Writer, name string, err error) error {
	fmt.Fprintf(stderr, "%s: %v\nTry '%s --help' for more information.\n", name, err, name)
	return &StatusError{Name: name, Code: types.ExitUsage}
}

// reason returns the strerror-style cause of an OS error, e.g.
// "No such file or directory".
func reason(err error) string {
	var errno syscall.Errno
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return "No such file or directory"
	case errors.Is(err, fs.ErrPermission):
		return "Permission denied"
	case errors.As(err, &errno):
		return capitalize(errno.Error())
	}
	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		return capitalize(pathErr.Err.Error())
	}
	return capitalize(err.Error())
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

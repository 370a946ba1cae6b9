// SPDX-License-Identifier: MPL-2.0

package listing

import (
	"errors"
	"fmt"
	"io/fs"
	"syscall"
	"unicode"
	"unicode/utf8"
)

var (
	// ErrPathNotFound marks a path or entry that does not exist.
	ErrPathNotFound = errors.New("path not found")
	// ErrPermissionDenied marks a path or entry the caller may not read.
	ErrPermissionDenied = errors.New("permission denied")
	// ErrNotADirectory marks a target that is rendered as a single entry.
	// It is informational and never affects the exit status.
	ErrNotADirectory = errors.New("not a directory")
	// ErrStatFailure marks any other metadata failure. The entry is skipped.
	ErrStatFailure = errors.New("stat failure")
	// ErrSortFailure marks a sort that could not be performed. The listing
	// keeps enumeration order.
	ErrSortFailure = errors.New("sort failure")
	// ErrListingFailed is returned by Walker.Run when at least one path or
	// entry failed. The individual failures were already reported.
	ErrListingFailed = errors.New("one or more paths could not be listed")
)

// EntryError describes a failure to access one path. Kind is one of the
// package sentinels; Err is the underlying OS error.
type EntryError struct {
	Path string
	Kind error
	Err  error
}

// newEntryError classifies err into one of the sentinel kinds.
func newEntryError(path string, err error) *EntryError {
	kind := ErrStatFailure
	switch {
	case errors.Is(err, fs.ErrNotExist):
		kind = ErrPathNotFound
	case errors.Is(err, fs.ErrPermission):
		kind = ErrPermissionDenied
	}
	return &EntryError{Path: path, Kind: kind, Err: err}
}

// Error returns the coreutils-style message without the utility prefix.
func (e *EntryError) Error() string {
	return fmt.Sprintf("cannot access '%s': %s", e.Path, e.Reason())
}

// Unwrap exposes both the kind sentinel and the cause to errors.Is/As.
func (e *EntryError) Unwrap() []error { return []error{e.Kind, e.Err} }

// Reason returns the human-readable cause, capitalized like strerror(3).
func (e *EntryError) Reason() string {
	switch e.Kind {
	case ErrPathNotFound:
		return "No such file or directory"
	case ErrPermissionDenied:
		return "Permission denied"
	}
	var errno syscall.Errno
	if errors.As(e.Err, &errno) {
		return capitalize(errno.Error())
	}
	var pathErr *fs.PathError
	if errors.As(e.Err, &pathErr) {
		return capitalize(pathErr.Err.Error())
	}
	if e.Err == nil {
		return "Unknown error"
	}
	return capitalize(e.Err.Error())
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

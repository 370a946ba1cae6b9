// SPDX-License-Identifier: MPL-2.0

package types

import (
	"errors"
	"fmt"
	"strconv"
)

const (
	// ExitSuccess reports that every operand was processed.
	ExitSuccess ExitCode = 0
	// ExitFailure reports that at least one operand failed.
	ExitFailure ExitCode = 1
	// ExitUsage reports an invalid flag or flag value.
	ExitUsage ExitCode = 2
	// ExitCannotExecute is the shell status for a command found but not runnable.
	ExitCannotExecute ExitCode = 126
	// ExitCommandNotFound is the shell status for an unknown command.
	ExitCommandNotFound ExitCode = 127
	// ExitInterrupted is the conventional status after SIGINT (128 + 2).
	ExitInterrupted ExitCode = 130
)

// ErrInvalidExitCode is the sentinel error wrapped by InvalidExitCodeError.
var ErrInvalidExitCode = errors.New("invalid exit code")

type (
	// ExitCode represents a process exit status code.
	// Exit codes are in the range 0-255 on POSIX systems.
	// The zero value (0) means success.
	ExitCode int

	// InvalidExitCodeError is returned when an ExitCode is outside the
	// valid range (0-255).
	InvalidExitCodeError struct {
		Value ExitCode
	}
)

// Error implements the error interface.
func (e *InvalidExitCodeError) Error() string {
	return fmt.Sprintf("invalid exit code %d (must be in range 0-255)", e.Value)
}

// Unwrap returns ErrInvalidExitCode so callers can use errors.Is for programmatic detection.
func (e *InvalidExitCodeError) Unwrap() error { return ErrInvalidExitCode }

// Validate returns an error if the ExitCode is outside the valid range (0-255).
func (c ExitCode) Validate() error {
	if c < 0 || c > 255 {
		return &InvalidExitCodeError{Value: c}
	}
	return nil
}

// IsSuccess returns true if the exit code indicates successful execution.
func (c ExitCode) IsSuccess() bool { return c == ExitSuccess }

// IsShellReserved reports whether the code is one the shell assigns itself
// (126, 127 or a signal status above 128) rather than one a utility returns.
func (c ExitCode) IsShellReserved() bool {
	return c == ExitCannotExecute || c == ExitCommandNotFound || c > 128
}

// String returns the decimal string representation of the ExitCode.
func (c ExitCode) String() string { return strconv.Itoa(int(c)) }

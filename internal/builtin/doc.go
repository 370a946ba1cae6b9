// SPDX-License-Identifier: MPL-2.0

// Package builtin provides the knife utilities: ls, cat, head, tail, wc,
// touch, mkdir, echo and pwd.
//
// Every utility implements Command and registers itself in DefaultRegistry
// from an init function. Utilities read their streams, working directory and
// environment from a HandlerContext carried in the context.Context. The CLI
// stores one with WithHandlerContext; inside the embedded shell it is
// extracted from mvdan/sh's handler context instead, so the same utility code
// serves both `knife ls` and an `ls` line in a `knife sh` script.
//
// # Flags
//
// Utilities parse POSIX-style flags with spf13/pflag, so combined short flags
// ("-la") and GNU long flags ("--all") both work. An unknown flag or a bad
// flag value is reported as
//
//	ls: unknown shorthand flag: 'z' in -z
//	Try 'ls --help' for more information.
//
// and yields exit status 2.
//
// # Errors
//
// Operand failures (a missing file, a permission problem) are written to the
// utility's stderr as "NAME: message" and processing continues with the next
// operand. The utility then returns a *StatusError carrying the exit status,
// so callers must not print it again.
package builtin

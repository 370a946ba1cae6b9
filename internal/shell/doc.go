// SPDX-License-Identifier: MPL-2.0

// Package shell runs POSIX shell scripts in the embedded mvdan.cc/sh
// interpreter. Commands that name a registered knife utility run in-process;
// everything else falls through to the host PATH.
package shell

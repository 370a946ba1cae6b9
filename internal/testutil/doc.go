// SPDX-License-Identifier: MPL-2.0

// Package testutil holds small test helpers: a fake clock for time-dependent
// output and Must* wrappers for filesystem and environment setup that fail
// the test instead of returning errors.
package testutil

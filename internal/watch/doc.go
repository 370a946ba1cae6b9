// SPDX-License-Identifier: MPL-2.0

// Package watch re-runs a callback when files under a directory change.
//
// Events are filtered by doublestar include and ignore patterns and coalesced
// over a debounce window, so an editor's write-rename-chmod burst produces a
// single run that sees every changed path.
package watch

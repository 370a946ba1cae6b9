// SPDX-License-Identifier: MPL-2.0

// Package listing implements the directory-listing and rendering engine behind
// the ls utility.
//
// The pipeline is strictly sequential:
//
//	Resolver (lstat)  ->  Sort  ->  Renderer  ->  Walker output
//
// A Walker takes the command-line targets and an immutable Options snapshot.
// For each target it decides between rendering a single entry and enumerating a
// directory; enumerated names are filtered (dot-names, ignore globs), resolved to
// Entry values, ordered by Sort and handed to the Renderer, which produces
// RenderedLine values for long, one-per-line or column-major grid layouts.
//
// Failures are isolated per path and per entry. They are reported once on the
// error stream and folded into the exit status; they never abort the listing.
package listing

// SPDX-License-Identifier: MPL-2.0

// Package types defines value types shared by several knife packages, such
// as process exit codes.
//
// This package is a leaf dependency: it imports only the standard library.
package types

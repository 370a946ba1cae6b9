// SPDX-License-Identifier: MPL-2.0

// Package platform provides cross-platform compatibility utilities, such as
// deriving a utility name from the path a multi-call binary was started as.
package platform

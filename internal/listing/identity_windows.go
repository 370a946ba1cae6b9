// SPDX-License-Identifier: MPL-2.0

//go:build windows

package listing

const identitySupported = false

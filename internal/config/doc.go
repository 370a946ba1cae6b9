// SPDX-License-Identifier: MPL-2.0

// Package config loads knife's configuration using Viper with CUE as the file
// format.
//
// The file lives at config.cue in the user config directory
// ($XDG_CONFIG_HOME/knife on Linux, ~/Library/Application Support/knife on
// macOS, %APPDATA%\knife on Windows), with ./config.cue as a fallback. It is
// validated against an embedded CUE schema before being merged over the
// defaults, and KNIFE_* environment variables override both
// (KNIFE_LS_COLOR=never sets ls.color).
package config

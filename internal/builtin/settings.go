// SPDX-License-Identifier: MPL-2.0

package builtin

import "github.com/knife-sh/knife/internal/listing"

type (
	// Settings are user defaults applied before command-line flags.
	Settings struct {
		LS LSSettings
	}

	// LSSettings are the ls defaults.
	LSSettings struct {
		Color         listing.ColorMode
		HumanReadable bool
		Ignore        []string
	}
)

// DefaultSettings returns the settings used when no configuration is loaded.
func DefaultSettings() Settings {
	return Settings{LS: LSSettings{Color: listing.ColorAuto}}
}

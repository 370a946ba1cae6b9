// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/knife-sh/knife/internal/builtin"
)

const utilityGroup = "utilities"

// newUtilityCommand exposes c as a subcommand. Flag parsing is left to the
// utility so that POSIX short-flag clusters such as -la reach it untouched.
func newUtilityCommand(app *App, flags *rootFlagValues, c builtin.Command) *cobra.Command {
	return &cobra.Command{
		Use:                c.Name() + " [OPTION]... [ARG]...",
		Short:              c.Summary(),
		Long:               utilityHelp(c),
		GroupID:            utilityGroup,
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := app.loadConfig(cmd.Context(), flags)
			code := app.runUtility(cmd.Context(), c, append([]string{c.Name()}, args...), settingsFrom(cfg))
			if !code.IsSuccess() {
				return &ExitError{Code: code}
			}
			return nil
		},
	}
}

// utilityHelp lists the flags a utility supports.
func utilityHelp(c builtin.Command) string {
	var sb strings.Builder
	sb.WriteString(c.Summary())

	supported := c.SupportedFlags()
	if len(supported) == 0 {
		return sb.String()
	}
	sb.WriteString("\n\n" + SubtitleStyle.Render("Options:") + "\n")
	for _, f := range supported {
		var name string
		switch {
		case f.ShortName != "" && f.Name != "":
			name = fmt.Sprintf("-%s, --%s", f.ShortName, f.Name)
		case f.ShortName != "":
			name = "-" + f.ShortName
		default:
			name = "    --" + f.Name
		}
		if f.TakesValue {
			name += " VALUE"
		}
		fmt.Fprintf(&sb, "  %-28s %s\n", name, f.Description)
	}
	return strings.TrimRight(sb.String(), "\n")
}

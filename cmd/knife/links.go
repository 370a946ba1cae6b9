// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/knife-sh/knife/internal/issue"
	"github.com/knife-sh/knife/pkg/platform"
)

// newLinksCommand creates the "links" command, which installs one symlink
// per utility so that knife can be called as ls, cat and so on.
func newLinksCommand(app *App) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "links DIR",
		Short: "Create a symlink for every utility",
		Long: `Create one symlink per utility in DIR, each pointing at the knife
binary. When knife is started through such a link it runs the utility the
link is named after. Existing files are left alone unless --force is given.`,
		Example: `  knife links ~/.local/bin`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			exe, err := executablePath()
			if err == nil {
				exe, err = filepath.EvalSymlinks(exe)
			}
			if err != nil {
				return fmt.Errorf("locate knife binary: %w", err)
			}
			return installLinks(app.stdout, args[0], exe, app.Registry.Names(), force)
		},
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "replace existing files")
	return cmd
}

// installLinks creates dir/NAME -> target for every name. Existing entries
// are reported and kept unless force is set; the error lists every link that
// could not be created.
func installLinks(w io.Writer, dir, target string, names []string, force bool) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return issue.NewErrorContext().
			WithOperation("create directory").
			WithResource(dir).
			WithIssue(linkIssue(err)).
			Wrap(err).
			BuildError()
	}

	var errs []error
	for _, name := range names {
		link := filepath.Join(dir, platform.ExecutableName(name))
		if _, err := os.Lstat(link); err == nil {
			if !force {
				fmt.Fprintf(w, "%s %s exists, skipped\n", WarningStyle.Render("-"), link)
				continue
			}
			if err := os.Remove(link); err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", link, err))
				continue
			}
		}
		if err := os.Symlink(target, link); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", link, err))
			continue
		}
		fmt.Fprintf(w, "%s %s -> %s\n", SuccessStyle.Render("✓"), link, target)
	}
	if len(errs) > 0 {
		return issue.WrapWithOperation(errors.Join(errs...), "create links")
	}
	return nil
}

func linkIssue(err error) issue.Id {
	if errors.Is(err, fs.ErrPermission) {
		return issue.PermissionDeniedId
	}
	return 0
}

// SPDX-License-Identifier: MPL-2.0

package builtin

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"
)

type (
	// pwdCommand implements the pwd utility.
	pwdCommand struct {
		baseCommand
	}

	pwdFlags struct {
		logical, physical bool
	}
)

func init() {
	RegisterDefault(newPwdCommand())
}

// newPwdCommand creates a new pwd command.
func newPwdCommand() *pwdCommand {
	c := &pwdCommand{}
	c.baseCommand = baseCommand{
		name:     "pwd",
		summary:  "Print the full filename of the current working directory.",
		synopsis: "pwd [OPTION]...",
		defineFlags: func(fs *pflag.FlagSet) {
			bindPwdFlags(fs, &pwdFlags{})
		},
	}
	return c
}

func bindPwdFlags(fs *pflag.FlagSet, f *pwdFlags) {
	fs.BoolVarP(&f.logical, "logical", "L", false, "use PWD from environment, even if it contains symlinks")
	fs.BoolVarP(&f.physical, "physical", "P", false, "avoid all symlinks")
}

// Run executes the pwd command.
func (c *pwdCommand) Run(ctx context.Context, args []string) error {
	hc := GetHandlerContext(ctx)

	var f pwdFlags
	fs := newFlagSet(c.name)
	bindPwdFlags(fs, &f)
	if done, err := c.parseFlags(fs, hc, argsOf(args)); done {
		return err
	}

	dir := hc.Dir
	if !f.physical {
		if logical, ok := logicalDir(hc.getenv("PWD"), dir); ok {
			fmt.Fprintln(hc.Stdout, logical)
			return nil
		}
	}

	physical, err := filepath.EvalSymlinks(dir)
	if err != nil {
		fail := &failure{name: c.name, stderr: hc.Stderr}
		fail.reportf("%s", reason(err))
		return fail.status()
	}
	fmt.Fprintln(hc.Stdout, physical)
	return nil
}

// logicalDir returns pwd when it is an absolute path naming the same
// directory as dir.
func logicalDir(pwd, dir string) (string, bool) {
	if pwd == "" || !filepath.IsAbs(pwd) {
		return "", false
	}
	a, err := os.Stat(pwd)
	if err != nil {
		return "", false
	}
	b, err := os.Stat(dir)
	if err != nil {
		return "", false
	}
	return pwd, os.SameFile(a, b)
}

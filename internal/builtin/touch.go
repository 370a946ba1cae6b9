// SPDX-License-Identifier: MPL-2.0

package builtin

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/spf13/pflag"
)

// dateLayouts are the formats accepted by touch -d, tried in order.
var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"Jan 2 15:04:05 2006",
	"Jan 2 2006",
}

type (
	// touchCommand implements the touch utility.
	touchCommand struct {
		baseCommand
		// now overrides the current time in tests.
		now func() time.Time
	}

	touchFlags struct {
		accessOnly, modifyOnly, noCreate bool
		reference, date, stamp           string
	}
)

func init() {
	RegisterDefault(newTouchCommand())
}

// newTouchCommand creates a new touch command.
func newTouchCommand() *touchCommand {
	c := &touchCommand{now: time.Now}
	c.baseCommand = baseCommand{
		name:     "touch",
		summary:  "Update the access and modification times of each FILE to the current time.",
		synopsis: "touch [OPTION]... FILE...",
		defineFlags: func(fs *pflag.FlagSet) {
			bindTouchFlags(fs, &touchFlags{})
		},
	}
	return c
}

func bindTouchFlags(fs *pflag.FlagSet, f *touchFlags) {
	fs.BoolVarP(&f.accessOnly, "access", "a", false, "change only the access time")
	fs.BoolVarP(&f.modifyOnly, "modify", "m", false, "change only the modification time")
	fs.BoolVarP(&f.noCreate, "no-create", "c", false, "do not create any files")
	fs.StringVarP(&f.reference, "reference", "r", "", "use this file's times instead of current time")
	fs.StringVarP(&f.date, "date", "d", "", "parse STRING and use it instead of current time")
	fs.StringVarP(&f.stamp, "time-stamp", "t", "", "use [[CC]YY]MMDDhhmm[.ss] instead of current time")
}

// Run executes the touch command.
func (c *touchCommand) Run(ctx context.Context, args []string) error {
	hc := GetHandlerContext(ctx)

	var f touchFlags
	fs := newFlagSet(c.name)
	bindTouchFlags(fs, &f)
	if done, err := c.parseFlags(fs, hc, argsOf(args)); done {
		return err
	}
	if fs.NArg() == 0 {
		return usageError(hc.Stderr, c.name, errors.New("missing file operand"))
	}

	when, err := c.timestamp(hc, &f)
	if err != nil {
		return usageError(hc.Stderr, c.name, err)
	}
	atime, mtime := when, when
	// A zero time leaves that timestamp unchanged.
	switch {
	case f.accessOnly && !f.modifyOnly:
		mtime = time.Time{}
	case f.modifyOnly && !f.accessOnly:
		atime = time.Time{}
	}

	fail := &failure{name: c.name, stderr: hc.Stderr}
	for _, file := range fs.Args() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := touchFile(resolvePath(hc.Dir, file), atime, mtime, f.noCreate); err != nil {
			fail.reportf("cannot touch '%s': %s", file, reason(err))
		}
	}
	return fail.status()
}

// timestamp picks the time to apply: -r, then -t, then -d, else now.
func (c *touchCommand) timestamp(hc *HandlerContext, f *touchFlags) (time.Time, error) {
	switch {
	case f.reference != "":
		info, err := os.Stat(resolvePath(hc.Dir, f.reference))
		if err != nil {
			return time.Time{}, fmt.Errorf("failed to get attributes of '%s': %s", f.reference, reason(err))
		}
		return info.ModTime(), nil
	case f.stamp != "":
		return parseStamp(f.stamp, c.now())
	case f.date != "":
		return parseDate(f.date)
	default:
		return c.now(), nil
	}
}

// touchFile creates path when missing (unless noCreate) and sets its times.
func touchFile(path string, atime, mtime time.Time, noCreate bool) error {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		if noCreate {
			return nil
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY, 0o666)
		if err != nil {
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
	}
	return os.Chtimes(path, atime, mtime)
}

// parseDate parses a -d argument in local time.
func parseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date format '%s'", s)
}

// parseStamp parses a -t argument of the form [[CC]YY]MMDDhhmm[.ss]. Without a
// year the year of now is used; a two-digit year 69-99 means 19YY.
func parseStamp(s string, now time.Time) (time.Time, error) {
	invalid := fmt.Errorf("invalid date format '%s'", s)

	digits, secs, hasSecs := strings.Cut(s, ".")
	if hasSecs && len(secs) != 2 {
		return time.Time{}, invalid
	}

	var layout string
	switch len(digits) {
	case 8:
		layout = "01021504"
	case 10:
		layout = "0601021504"
	case 12:
		layout = "200601021504"
	default:
		return time.Time{}, invalid
	}
	value := digits
	if hasSecs {
		layout += ".05"
		value += "." + secs
	}

	t, err := time.ParseInLocation(layout, value, time.Local)
	if err != nil {
		return time.Time{}, invalid
	}
	if len(digits) == 8 {
		t = t.AddDate(now.Year()-t.Year(), 0, 0)
	}
	return t, nil
}

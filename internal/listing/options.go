// SPDX-License-Identifier: MPL-2.0

package listing

import (
	"errors"
	"fmt"

	"github.com/bmatcuk/doublestar/v4"
)

const (
	// LayoutOnePerLine prints one name per line.
	LayoutOnePerLine Layout = "one-per-line"
	// LayoutColumns prints names in a column-major grid sized to the terminal.
	LayoutColumns Layout = "multi-column"
	// LayoutLong prints one metadata row per entry.
	LayoutLong Layout = "long"

	// SortByName orders entries by raw name bytes, ascending.
	SortByName SortKey = "name"
	// SortBySize orders entries by size, largest first.
	SortBySize SortKey = "size"
	// SortByTime orders entries by modification time, newest first.
	SortByTime SortKey = "mtime"

	// ColorNever disables colorized names.
	ColorNever ColorMode = "never"
	// ColorAuto colorizes names only when stdout is a terminal.
	ColorAuto ColorMode = "auto"
	// ColorAlways colorizes names regardless of the destination.
	ColorAlways ColorMode = "always"
)

var (
	// ErrInvalidLayout is the sentinel error wrapped by InvalidLayoutError.
	ErrInvalidLayout = errors.New("invalid layout")
	// ErrInvalidSortKey is the sentinel error wrapped by InvalidSortKeyError.
	ErrInvalidSortKey = errors.New("invalid sort key")
	// ErrInvalidColorMode is the sentinel error wrapped by InvalidColorModeError.
	ErrInvalidColorMode = errors.New("invalid color mode")
	// ErrInvalidIgnorePattern is the sentinel error wrapped by InvalidIgnorePatternError.
	ErrInvalidIgnorePattern = errors.New("invalid ignore pattern")
)

type (
	// Layout selects how a directory's entries are arranged on screen.
	Layout string

	// SortKey selects the primary ordering criterion.
	SortKey string

	// ColorMode is the colorization policy.
	ColorMode string

	// InvalidLayoutError is returned when a Layout value is not recognized.
	InvalidLayoutError struct {
		Value Layout
	}

	// InvalidSortKeyError is returned when a SortKey value is not recognized.
	InvalidSortKeyError struct {
		Value SortKey
	}

	// InvalidColorModeError is returned when a ColorMode value is not recognized.
	InvalidColorModeError struct {
		Value ColorMode
	}

	// InvalidIgnorePatternError is returned when an ignore glob does not compile.
	InvalidIgnorePatternError struct {
		Pattern string
	}

	// Options is the immutable configuration snapshot for one ls invocation.
	// It is built once from parsed flags and passed by value through the pipeline.
	Options struct {
		ShowHidden      bool
		LongFormat      bool
		HumanReadable   bool
		DirectoryItself bool
		Recursive       bool
		Layout          Layout
		ReverseSort     bool
		SortKey         SortKey
		ColorMode       ColorMode
		// Ignore holds doublestar glob patterns matched against entry names.
		// Matching entries are dropped from directory listings.
		Ignore []string
	}
)

// DefaultOptions returns the options of a bare `ls` invocation writing to a pipe.
func DefaultOptions() Options {
	return Options{
		Layout:    LayoutOnePerLine,
		SortKey:   SortByName,
		ColorMode: ColorAuto,
	}
}

// ResolveLayout picks the layout from the layout-related flags.
// Long format wins, then an explicit one-per-line request; the grid is used when
// forced or when output goes to a terminal.
func ResolveLayout(long, onePerLine, columns, terminal bool) Layout {
	switch {
	case long:
		return LayoutLong
	case onePerLine:
		return LayoutOnePerLine
	case columns || terminal:
		return LayoutColumns
	default:
		return LayoutOnePerLine
	}
}

// Validate returns an error if the Layout is not one of the defined values.
func (l Layout) Validate() error {
	switch l {
	case LayoutOnePerLine, LayoutColumns, LayoutLong:
		return nil
	default:
		return &InvalidLayoutError{Value: l}
	}
}

// String returns the string representation of the Layout.
func (l Layout) String() string { return string(l) }

// ParseSortKey maps the user-facing sort words to a SortKey.
// "time" is accepted as an alias of "mtime".
func ParseSortKey(s string) (SortKey, error) {
	if s == "time" {
		return SortByTime, nil
	}
	k := SortKey(s)
	if err := k.Validate(); err != nil {
		return "", err
	}
	return k, nil
}

// Validate returns an error if the SortKey is not one of the defined values.
func (k SortKey) Validate() error {
	switch k {
	case SortByName, SortBySize, SortByTime:
		return nil
	default:
		return &InvalidSortKeyError{Value: k}
	}
}

// String returns the string representation of the SortKey.
func (k SortKey) String() string { return string(k) }

// Validate returns an error if the ColorMode is not one of the defined values.
func (m ColorMode) Validate() error {
	switch m {
	case ColorNever, ColorAuto, ColorAlways:
		return nil
	default:
		return &InvalidColorModeError{Value: m}
	}
}

// String returns the string representation of the ColorMode.
func (m ColorMode) String() string { return string(m) }

// Enabled reports whether names should be colorized for a destination.
func (m ColorMode) Enabled(terminal bool) bool {
	return m == ColorAlways || (m == ColorAuto && terminal)
}

// Validate checks every enumerated field and ignore pattern.
// It returns all problems joined, so a caller can report them at once.
func (o Options) Validate() error {
	var errs []error
	if err := o.Layout.Validate(); err != nil {
		errs = append(errs, err)
	}
	if err := o.SortKey.Validate(); err != nil {
		errs = append(errs, err)
	}
	if err := o.ColorMode.Validate(); err != nil {
		errs = append(errs, err)
	}
	for _, p := range o.Ignore {
		if !doublestar.ValidatePattern(p) {
			errs = append(errs, &InvalidIgnorePatternError{Pattern: p})
		}
	}
	return errors.Join(errs...)
}

// ignored reports whether name matches one of the ignore patterns.
func (o Options) ignored(name string) bool {
	for _, p := range o.Ignore {
		if ok, _ := doublestar.Match(p, name); ok {
			return true
		}
	}
	return false
}

// Error implements the error interface.
func (e *InvalidLayoutError) Error() string {
	return fmt.Sprintf("invalid layout %q (valid: one-per-line, multi-column, long)", e.Value)
}

// Unwrap returns ErrInvalidLayout for errors.Is() compatibility.
func (e *InvalidLayoutError) Unwrap() error { return ErrInvalidLayout }

// Error implements the error interface.
func (e *InvalidSortKeyError) Error() string {
	return fmt.Sprintf("invalid sort key %q (valid: name, size, time)", e.Value)
}

// Unwrap returns ErrInvalidSortKey for errors.Is() compatibility.
func (e *InvalidSortKeyError) Unwrap() error { return ErrInvalidSortKey }

// Error implements the error interface.
func (e *InvalidColorModeError) Error() string {
	return fmt.Sprintf("invalid color mode %q (valid: never, auto, always)", e.Value)
}

// Unwrap returns ErrInvalidColorMode for errors.Is() compatibility.
func (e *InvalidColorModeError) Unwrap() error { return ErrInvalidColorMode }

// Error implements the error interface.
func (e *InvalidIgnorePatternError) Error() string {
	return fmt.Sprintf("invalid ignore pattern %q", e.Pattern)
}

// Unwrap returns ErrInvalidIgnorePattern for errors.Is() compatibility.
func (e *InvalidIgnorePatternError) Unwrap() error { return ErrInvalidIgnorePattern }

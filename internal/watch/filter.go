// SPDX-License-Identifier: MPL-2.0

package watch

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
)

// ErrInvalidPattern is the sentinel error wrapped by InvalidPatternError.
var ErrInvalidPattern = errors.New("invalid pattern")

// defaultIgnores are excluded regardless of configuration: VCS metadata and
// editor scratch files.
var defaultIgnores = []string{
	"**/.git",
	"**/.git/**",
	"**/.hg/**",
	"**/*.swp",
	"**/*.swx",
	"**/*~",
	"**/4913",
	"**/.DS_Store",
}

type (
	// InvalidPatternError is returned for a glob that does not compile.
	InvalidPatternError struct {
		Kind    string
		Pattern string
	}

	// filter decides which paths, relative to the watched root and using
	// forward slashes, are relevant.
	filter struct {
		include []string
		ignore  []string
	}
)

// Error implements the error interface.
func (e *InvalidPatternError) Error() string {
	return fmt.Sprintf("invalid %s pattern %q", e.Kind, e.Pattern)
}

// Unwrap returns ErrInvalidPattern for errors.Is() compatibility.
func (e *InvalidPatternError) Unwrap() error { return ErrInvalidPattern }

// DefaultIgnores returns a copy of the built-in ignore patterns.
func DefaultIgnores() []string {
	return append([]string(nil), defaultIgnores...)
}

func newFilter(include, ignore []string) (*filter, error) {
	var errs []error
	for _, p := range include {
		if !doublestar.ValidatePattern(p) {
			errs = append(errs, &InvalidPatternError{Kind: "watch", Pattern: p})
		}
	}
	for _, p := range ignore {
		if !doublestar.ValidatePattern(p) {
			errs = append(errs, &InvalidPatternError{Kind: "ignore", Pattern: p})
		}
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return &filter{
		include: include,
		ignore:  append(DefaultIgnores(), ignore...),
	}, nil
}

// ignored reports whether rel, or the directory rel when dir is set, matches
// an ignore pattern.
func (f *filter) ignored(rel string, dir bool) bool {
	rel = filepath.ToSlash(rel)
	if matchAny(f.ignore, rel) {
		return true
	}
	return dir && matchAny(f.ignore, rel+"/")
}

// wanted reports whether a changed file should trigger a run. No include
// patterns means every file that is not ignored.
func (f *filter) wanted(rel string) bool {
	if f.ignored(rel, false) {
		return false
	}
	return len(f.include) == 0 || matchAny(f.include, filepath.ToSlash(rel))
}

func matchAny(patterns []string, name string) bool {
	for _, p := range patterns {
		if ok, _ := doublestar.Match(p, name); ok {
			return true
		}
	}
	return false
}

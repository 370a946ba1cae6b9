// SPDX-License-Identifier: MPL-2.0

package listing

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
)

// Sort returns entries ordered by key. Names sort ascending by raw bytes; size
// and mtime sort descending, largest or newest first. Ties fall back to the
// name. With reverse the whole base order is inverted, so
// Sort(e, k, true) is always the reversal of Sort(e, k, false).
//
// The input slice is not modified. An unknown key yields a copy in the input
// order together with an error wrapping ErrSortFailure.
func Sort(entries []Entry, key SortKey, reverse bool) ([]Entry, error) {
	sorted := slices.Clone(entries)

	var compare func(a, b Entry) int
	switch key {
	case SortByName:
		compare = byName
	case SortBySize:
		compare = func(a, b Entry) int {
			if c := cmp.Compare(b.Metadata.Size, a.Metadata.Size); c != 0 {
				return c
			}
			return byName(a, b)
		}
	case SortByTime:
		compare = func(a, b Entry) int {
			if c := b.Metadata.ModTime.Compare(a.Metadata.ModTime); c != 0 {
				return c
			}
			return byName(a, b)
		}
	default:
		return sorted, fmt.Errorf("%w: %w", ErrSortFailure, key.Validate())
	}

	slices.SortStableFunc(sorted, compare)
	if reverse {
		slices.Reverse(sorted)
	}
	return sorted, nil
}

func byName(a, b Entry) int {
	return strings.Compare(a.Name, b.Name)
}

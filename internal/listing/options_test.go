// SPDX-License-Identifier: MPL-2.0

package listing

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveLayout(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name                             string
		long, onePerLine, columns, term bool
		want                             Layout
	}{
		{"pipe default", false, false, false, false, LayoutOnePerLine},
		{"terminal default", false, false, false, true, LayoutColumns},
		{"forced columns on pipe", false, false, true, false, LayoutColumns},
		{"one per line beats terminal", false, true, false, true, LayoutOnePerLine},
		{"one per line beats columns", false, true, true, true, LayoutOnePerLine},
		{"long beats everything", true, true, true, true, LayoutLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, ResolveLayout(tt.long, tt.onePerLine, tt.columns, tt.term))
		})
	}
}

func TestParseSortKey(t *testing.T) {
	t.Parallel()

	for in, want := range map[string]SortKey{"name": SortByName, "size": SortBySize, "time": SortByTime, "mtime": SortByTime} {
		got, err := ParseSortKey(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}

	_, err := ParseSortKey("version")
	require.ErrorIs(t, err, ErrInvalidSortKey)

	var keyErr *InvalidSortKeyError
	require.True(t, errors.As(err, &keyErr))
	assert.Equal(t, SortKey("version"), keyErr.Value)
}

func TestOptionsValidate(t *testing.T) {
	t.Parallel()

	require.NoError(t, DefaultOptions().Validate())

	opts := DefaultOptions()
	opts.Layout = "tree"
	require.ErrorIs(t, opts.Validate(), ErrInvalidLayout)

	opts = DefaultOptions()
	opts.Ignore = []string{"*.o", "{a,b"}
	err := opts.Validate()
	require.ErrorIs(t, err, ErrInvalidIgnorePattern)
	assert.Contains(t, err.Error(), `"{a,b"`)
}

func TestEntryErrorReason(t *testing.T) {
	t.Parallel()

	err := newEntryError("x", errors.New("input/output error"))
	assert.ErrorIs(t, err, ErrStatFailure)
	assert.Equal(t, "cannot access 'x': Input/output error", err.Error())
}

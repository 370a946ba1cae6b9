// SPDX-License-Identifier: MPL-2.0

package listing

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/knife-sh/knife/internal/testutil"
)

type walkResult struct {
	stdout string
	stderr string
	err    error
}

func runWalker(t *testing.T, fsys FileSystem, targets []string, opts Options, display Display) walkResult {
	t.Helper()

	var stdout, stderr bytes.Buffer
	w := NewWalker(WalkerConfig{
		FS:       fsys,
		Identity: NumericIdentity(),
		Clock:    testutil.NewFakeClock(time.Date(2020, 6, 1, 0, 0, 0, 0, time.UTC)),
		Display:  display,
		Dir:      "/work",
		Stdout:   &stdout,
		Stderr:   &stderr,
	})
	err := w.Run(t.Context(), targets, opts)
	return walkResult{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

func TestWalkerHidesDotEntries(t *testing.T) {
	t.Parallel()

	res := runWalker(t, sampleTree(t), nil, DefaultOptions(), Display{})
	require.NoError(t, res.err)
	assert.Equal(t, "a.txt\nb.sh\nsub\n", res.stdout)
	assert.Empty(t, res.stderr)
}

func TestWalkerShowHidden(t *testing.T) {
	t.Parallel()

	opts := DefaultOptions()
	opts.ShowHidden = true
	res := runWalker(t, sampleTree(t), []string{"."}, opts, Display{})
	require.NoError(t, res.err)
	assert.Equal(t, ".\n..\n.hidden\na.txt\nb.sh\nsub\n", res.stdout)
}

func TestWalkerLongHumanReadable(t *testing.T) {
	t.Parallel()

	f := newFixtureFS()
	f.mkdir(t, "/work")
	f.file(t, "/work/file.bin", 1536, 0o644)

	opts := DefaultOptions()
	opts.LongFormat = true
	opts.Layout = LayoutLong
	opts.HumanReadable = true

	res := runWalker(t, f, []string{"/work"}, opts, Display{})
	require.NoError(t, res.err)
	assert.Equal(t, "-rw-r--r-- 1 0 0 1.5K Jan 01 00:00 file.bin\n", res.stdout)
}

func TestWalkerMissingPathContinues(t *testing.T) {
	t.Parallel()

	res := runWalker(t, sampleTree(t), []string{"nope", "a.txt"}, DefaultOptions(), Display{})
	require.ErrorIs(t, res.err, ErrListingFailed)
	assert.Equal(t, "ls: cannot access 'nope': No such file or directory\n", res.stderr)
	assert.Equal(t, "nope:\n\na.txt:\na.txt\n", res.stdout)
}

func TestWalkerMultipleTargetsHeaders(t *testing.T) {
	t.Parallel()

	res := runWalker(t, sampleTree(t), []string{"sub", "b.sh"}, DefaultOptions(), Display{})
	require.NoError(t, res.err)
	assert.Equal(t, "sub:\ndeep\ninner.txt\n\nb.sh:\nb.sh\n", res.stdout)
}

func TestWalkerDirectoryItself(t *testing.T) {
	t.Parallel()

	opts := DefaultOptions()
	opts.DirectoryItself = true
	res := runWalker(t, sampleTree(t), []string{"sub", "a.txt"}, opts, Display{})
	require.NoError(t, res.err)
	assert.Equal(t, "sub\n\na.txt\n", res.stdout)
	assert.NotContains(t, res.stdout, "inner.txt")
}

func TestWalkerSingleFileShowsBaseName(t *testing.T) {
	t.Parallel()

	opts := DefaultOptions()
	opts.Layout = LayoutLong
	opts.LongFormat = true
	res := runWalker(t, sampleTree(t), []string{"sub/inner.txt", "/work/a.txt"}, opts, Display{})
	require.NoError(t, res.err)
	assert.Equal(t,
		"sub/inner.txt:\n-rw-r--r-- 1 0 0 5 Jan 01 00:00 inner.txt\n\n"+
			"/work/a.txt:\n-rw-r--r-- 1 0 0 3 Jan 01 00:00 a.txt\n",
		res.stdout)
}

func TestWalkerLongHumanWholeUnits(t *testing.T) {
	t.Parallel()

	f := newFixtureFS()
	f.mkdir(t, "/work")
	f.file(t, "/work/big.bin", 2048, 0o644)

	opts := DefaultOptions()
	opts.LongFormat = true
	opts.Layout = LayoutLong
	opts.HumanReadable = true

	res := runWalker(t, f, []string{"/work/big.bin"}, opts, Display{})
	require.NoError(t, res.err)
	assert.Equal(t, "-rw-r--r-- 1 0 0 2K Jan 01 00:00 big.bin\n", res.stdout)
}

func TestWalkerRecursive(t *testing.T) {
	t.Parallel()

	f := sampleTree(t)
	f.mkdir(t, "/work/zz")
	f.file(t, "/work/zz/last", 1, 0o644)

	opts := DefaultOptions()
	opts.Recursive = true
	res := runWalker(t, f, []string{"."}, opts, Display{})
	require.NoError(t, res.err)
	assert.Equal(t, strings.Join([]string{
		"a.txt",
		"b.sh",
		"sub",
		"zz",
		"",
		"./sub:",
		"deep",
		"inner.txt",
		"",
		"./sub/deep:",
		"leaf",
		"",
		"./zz:",
		"last",
		"",
	}, "\n"), res.stdout)
}

func TestWalkerRecursiveSkipsSymlinkedDirectories(t *testing.T) {
	t.Parallel()

	f := sampleTree(t)
	require.NoError(t, f.Symlink("/work/sub", "/work/alias"))

	opts := DefaultOptions()
	opts.Recursive = true
	res := runWalker(t, f, []string{"/work"}, opts, Display{})
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "alias\n")
	assert.NotContains(t, res.stdout, "/work/alias:")
	assert.Contains(t, res.stdout, "\n/work/sub:\n")
}

func TestWalkerSkipsUnreadableEntry(t *testing.T) {
	t.Parallel()

	f := sampleTree(t)
	f.denied["/work/a.txt"] = true

	res := runWalker(t, f, nil, DefaultOptions(), Display{})
	require.ErrorIs(t, res.err, ErrListingFailed)
	assert.Equal(t, "b.sh\nsub\n", res.stdout)
	assert.Equal(t, "ls: cannot access './a.txt': Permission denied\n", res.stderr)
}

func TestWalkerSortBySizeReverse(t *testing.T) {
	t.Parallel()

	opts := DefaultOptions()
	opts.SortKey = SortBySize
	res := runWalker(t, sampleTree(t), nil, opts, Display{})
	require.NoError(t, res.err)
	// Directory size in memfs is 0.
	assert.Equal(t, "b.sh\na.txt\nsub\n", res.stdout)

	opts.ReverseSort = true
	res = runWalker(t, sampleTree(t), nil, opts, Display{})
	require.NoError(t, res.err)
	assert.Equal(t, "sub\na.txt\nb.sh\n", res.stdout)
}

func TestWalkerSortByTime(t *testing.T) {
	t.Parallel()

	f := sampleTree(t)
	f.mtimes["/work/a.txt"] = time.Date(2020, 5, 1, 0, 0, 0, 0, time.UTC)
	f.mtimes["/work/sub"] = time.Date(2020, 5, 3, 0, 0, 0, 0, time.UTC)
	f.mtimes["/work/b.sh"] = time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC)

	opts := DefaultOptions()
	opts.SortKey = SortByTime
	res := runWalker(t, f, nil, opts, Display{})
	require.NoError(t, res.err)
	assert.Equal(t, "sub\na.txt\nb.sh\n", res.stdout)
}

func TestWalkerIgnorePatterns(t *testing.T) {
	t.Parallel()

	opts := DefaultOptions()
	opts.Ignore = []string{"*.sh", "su?"}
	res := runWalker(t, sampleTree(t), nil, opts, Display{})
	require.NoError(t, res.err)
	assert.Equal(t, "a.txt\n", res.stdout)
}

func TestWalkerSymlinkLongFormat(t *testing.T) {
	t.Parallel()

	f := sampleTree(t)
	require.NoError(t, f.Symlink("/missing/target", "/work/dangling"))

	opts := DefaultOptions()
	opts.Layout = LayoutLong
	opts.LongFormat = true
	res := runWalker(t, f, []string{"dangling"}, opts, Display{})
	require.NoError(t, res.err)
	assert.True(t, strings.HasPrefix(res.stdout, "lrwxrwxrwx "), res.stdout)
	assert.True(t, strings.HasSuffix(res.stdout, " dangling -> /missing/target\n"), res.stdout)
}

func TestWalkerColumnsColorized(t *testing.T) {
	t.Parallel()

	opts := DefaultOptions()
	opts.Layout = LayoutColumns
	res := runWalker(t, sampleTree(t), nil, opts, Display{Terminal: true, Width: 80})
	require.NoError(t, res.err)
	assert.Equal(t, "a.txt  \x1b[1;32mb.sh\x1b[0m   \x1b[1;34msub\x1b[0m\n", res.stdout)
}

func TestWalkerInvalidOptions(t *testing.T) {
	t.Parallel()

	opts := DefaultOptions()
	opts.ColorMode = "sometimes"
	opts.Ignore = []string{"[unclosed"}
	res := runWalker(t, sampleTree(t), nil, opts, Display{})
	require.ErrorIs(t, res.err, ErrInvalidColorMode)
	require.ErrorIs(t, res.err, ErrInvalidIgnorePattern)
	assert.Empty(t, res.stdout)
}

func TestWalkerStopsWhenCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	var stdout bytes.Buffer
	w := NewWalker(WalkerConfig{FS: sampleTree(t), Identity: NumericIdentity(), Dir: "/work", Stdout: &stdout})
	err := w.Run(ctx, []string{"."}, DefaultOptions())
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, stdout.String())
}

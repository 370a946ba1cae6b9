// SPDX-License-Identifier: MPL-2.0

package listing

import (
	"fmt"
	"io/fs"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/knife-sh/knife/internal/testutil"
)

type fixedIdentity map[uint32]string

func (f fixedIdentity) UserName(uid uint32) (string, bool) {
	name, ok := f[uid]
	return name, ok
}

func (f fixedIdentity) GroupName(gid uint32) (string, bool) {
	name, ok := f[gid]
	return name, ok
}

func TestFormatModTime(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, "Mar 04 09:07", FormatModTime(time.Date(2024, 3, 4, 9, 7, 0, 0, time.UTC), now))
	assert.Equal(t, "Dec 31  2023", FormatModTime(time.Date(2023, 12, 31, 23, 59, 0, 0, time.UTC), now))
	assert.Equal(t, "Jan 01  2025", FormatModTime(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), now))
}

func TestRenderLong(t *testing.T) {
	t.Parallel()

	clock := testutil.NewFakeClock(time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC))
	r := NewRenderer(fixedIdentity{0: "root", 1000: "alice"}, clock)

	entries := []Entry{
		{Name: "big.bin", Metadata: Metadata{
			Mode: 0o644, Size: 1536, Nlink: 1, UID: 1000, GID: 1000,
			ModTime: time.Date(2024, 2, 3, 4, 5, 0, 0, time.UTC),
		}},
		{Name: "src", Metadata: Metadata{
			Mode: fs.ModeDir | 0o755, Size: 4096, Nlink: 12, UID: 0, GID: 4242,
			ModTime: time.Date(2019, 7, 8, 0, 0, 0, 0, time.UTC),
		}},
		{Name: "latest", IsSymlink: true, LinkTarget: "big.bin", Metadata: Metadata{
			Mode: fs.ModeSymlink | 0o777, Size: 7, Nlink: 1, UID: 0, GID: 0,
			ModTime: time.Date(2024, 6, 1, 8, 30, 0, 0, time.UTC),
		}},
	}

	opts := DefaultOptions()
	opts.LongFormat = true
	opts.Layout = LayoutLong
	opts.HumanReadable = true
	opts.ColorMode = ColorNever

	lines := r.Render(entries, opts, Display{})
	require.Len(t, lines, 3)

	want := []string{
		"-rw-r--r--  1 alice alice 1.5K Feb 03 04:05 big.bin",
		"drwxr-xr-x 12 root  4242  4.0K Jul 08  2019 src",
		"lrwxrwxrwx  1 root  root     7 Jun 01 08:30 latest -> big.bin",
	}
	for i, line := range lines {
		assert.Equal(t, want[i], line.Text)
		assert.Equal(t, len(want[i]), line.Width)
	}
}

func TestRenderLongColorWidthExcludesEscapes(t *testing.T) {
	t.Parallel()

	r := NewRenderer(NumericIdentity(), testutil.NewFakeClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)))
	opts := DefaultOptions()
	opts.Layout = LayoutLong
	opts.ColorMode = ColorAlways

	lines := r.Render([]Entry{{Name: "bin", Metadata: Metadata{Mode: fs.ModeDir | 0o755, Nlink: 2}}}, opts, Display{})
	require.Len(t, lines, 1)
	assert.True(t, strings.HasSuffix(lines[0].Text, "\x1b[1;34mbin\x1b[0m"))
	assert.Equal(t, ansi.StringWidth(lines[0].Text), lines[0].Width)
	assert.Equal(t, len(ansi.Strip(lines[0].Text)), lines[0].Width)
}

func TestRenderOnePerLine(t *testing.T) {
	t.Parallel()

	r := NewRenderer(nil, nil)
	entries := []Entry{
		{Name: "b.sh", Metadata: Metadata{Mode: 0o755}},
		{Name: "a.txt", Metadata: Metadata{Mode: 0o644}},
	}

	opts := DefaultOptions()
	opts.ColorMode = ColorAuto

	plain := r.Render(entries, opts, Display{Terminal: false})
	assert.Equal(t, []RenderedLine{{Text: "b.sh", Width: 4}, {Text: "a.txt", Width: 5}}, plain)

	colored := r.Render(entries, opts, Display{Terminal: true})
	require.Len(t, colored, 2)
	assert.Equal(t, "\x1b[1;32mb.sh\x1b[0m", colored[0].Text)
	assert.Equal(t, 4, colored[0].Width)
	assert.Equal(t, "a.txt", colored[1].Text)
}

func TestRenderEmpty(t *testing.T) {
	t.Parallel()

	assert.Empty(t, NewRenderer(nil, nil).Render(nil, DefaultOptions(), Display{Width: 80}))
}

func TestGrid(t *testing.T) {
	t.Parallel()

	cells := make([]RenderedLine, 0, 5)
	for _, n := range []string{"a", "bb", "ccc", "dd", "e"} {
		cells = append(cells, RenderedLine{Text: n, Width: len(n)})
	}

	// colWidth = 3 + 2 = 5; width 12 gives 2 columns and 3 rows.
	lines := Grid(cells, 12)
	got := make([]string, len(lines))
	for i, l := range lines {
		got[i] = l.Text
	}
	assert.Equal(t, []string{
		"a    dd",
		"bb   e",
		"ccc",
	}, got)
}

func TestGridNarrowTerminalUsesOneColumn(t *testing.T) {
	t.Parallel()

	cells := []RenderedLine{{Text: "averylongname", Width: 13}, {Text: "x", Width: 1}}
	lines := Grid(cells, 5)
	require.Len(t, lines, 2)
	assert.Equal(t, "averylongname", lines[0].Text)
	assert.Equal(t, "x", lines[1].Text)
}

func TestGridProperties(t *testing.T) {
	t.Parallel()

	for n := 1; n <= 40; n += 3 {
		for _, width := range []int{20, 40, 80, 132} {
			t.Run(fmt.Sprintf("n=%d/width=%d", n, width), func(t *testing.T) {
				t.Parallel()

				cells := make([]RenderedLine, n)
				for i := range cells {
					name := fmt.Sprintf("file-%0*d", 1+i%5, i)
					cells[i] = RenderedLine{Text: Colorize(name, ColorDirectory), Width: len(name)}
				}

				lines := Grid(cells, width)
				var seen []string
				for _, l := range lines {
					assert.LessOrEqual(t, l.Width, width)
					assert.Equal(t, ansi.StringWidth(l.Text), l.Width)
					assert.False(t, strings.HasSuffix(l.Text, " "), "row %q has trailing padding", l.Text)
					seen = append(seen, strings.Fields(ansi.Strip(l.Text))...)
				}

				// Every entry appears exactly once, column-major.
				assert.Len(t, seen, n)
				set := map[string]int{}
				for _, s := range seen {
					set[s]++
				}
				for _, c := range cells {
					assert.Equal(t, 1, set[ansi.Strip(c.Text)])
				}
			})
		}
	}
}

// SPDX-License-Identifier: MPL-2.0

package listing

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/x/ansi"
)

const (
	recentLayout = "Jan 02 15:04"
	oldLayout    = "Jan 02  2006"

	// gridGutter is the spacing added to the widest name in a grid.
	gridGutter = 2
)

type (
	// RenderedLine is one display-ready output line.
	RenderedLine struct {
		// Text may contain SGR escape sequences.
		Text string
		// Width is the visible width of Text with escapes excluded.
		Width int
	}

	// Clock supplies the current time for mtime formatting.
	Clock interface {
		Now() time.Time
	}

	// Display describes the output destination.
	Display struct {
		// Terminal reports whether stdout is an interactive terminal.
		Terminal bool
		// Width is the terminal width in cells used by the grid layout.
		Width int
	}

	// Renderer turns sorted entries into lines. It never reorders its input.
	Renderer struct {
		ids   IdentityLookup
		clock Clock
	}

	// longRow holds the formatted long-format fields of one entry.
	longRow struct {
		perm, nlink, owner, group, size, mtime, name string
		nameWidth                                    int
	}

	systemClock struct{}
)

// NewRenderer creates a Renderer. A nil clock uses the system time and nil ids
// disables owner and group name lookup.
func NewRenderer(ids IdentityLookup, clock Clock) *Renderer {
	if ids == nil {
		ids = NumericIdentity()
	}
	if clock == nil {
		clock = systemClock{}
	}
	return &Renderer{ids: ids, clock: clock}
}

func (systemClock) Now() time.Time { return time.Now() }

// Render lays out entries according to opts and the destination.
func (r *Renderer) Render(entries []Entry, opts Options, d Display) []RenderedLine {
	if len(entries) == 0 {
		return nil
	}
	color := opts.ColorMode.Enabled(d.Terminal)

	switch {
	case opts.LongFormat || opts.Layout == LayoutLong:
		return r.renderLong(entries, opts, color)
	case opts.Layout == LayoutColumns:
		return Grid(r.names(entries, color), d.Width)
	default:
		return r.names(entries, color)
	}
}

// names renders each entry name on its own line.
func (r *Renderer) names(entries []Entry, color bool) []RenderedLine {
	lines := make([]RenderedLine, 0, len(entries))
	for _, e := range entries {
		lines = append(lines, nameLine(e, color))
	}
	return lines
}

func nameLine(e Entry, color bool) RenderedLine {
	text := e.Name
	if color {
		text = Colorize(e.Name, Classify(e.Metadata.Mode))
	}
	return RenderedLine{Text: text, Width: ansi.StringWidth(text)}
}

// renderLong formats one row per entry. The link count, owner, group and size
// columns are as wide as their widest value in this call.
func (r *Renderer) renderLong(entries []Entry, opts Options, color bool) []RenderedLine {
	now := r.clock.Now()
	rows := make([]longRow, 0, len(entries))
	var nlinkW, ownerW, groupW, sizeW int

	for _, e := range entries {
		name := nameLine(e, color)
		row := longRow{
			perm:      PermissionString(e.Metadata.Mode),
			nlink:     strconv.FormatUint(e.Metadata.Nlink, 10),
			owner:     ownerName(r.ids, e.Metadata.UID),
			group:     groupName(r.ids, e.Metadata.GID),
			size:      FormatSize(e.Metadata.Size, opts.HumanReadable),
			mtime:     FormatModTime(e.Metadata.ModTime, now),
			name:      name.Text,
			nameWidth: name.Width,
		}
		if e.IsSymlink && e.LinkTarget != "" {
			row.name += " -> " + e.LinkTarget
			row.nameWidth += 4 + ansi.StringWidth(e.LinkTarget)
		}
		nlinkW = max(nlinkW, len(row.nlink))
		ownerW = max(ownerW, len(row.owner))
		groupW = max(groupW, len(row.group))
		sizeW = max(sizeW, len(row.size))
		rows = append(rows, row)
	}

	lines := make([]RenderedLine, 0, len(rows))
	for _, row := range rows {
		prefix := fmt.Sprintf("%s %*s %-*s %-*s %*s %s ",
			row.perm, nlinkW, row.nlink, ownerW, row.owner, groupW, row.group, sizeW, row.size, row.mtime)
		lines = append(lines, RenderedLine{
			Text:  prefix + row.name,
			Width: len(prefix) + row.nameWidth,
		})
	}
	return lines
}

// FormatModTime formats t relative to now: "Jan 02 15:04" within the current
// year, "Jan 02  2006" otherwise.
func FormatModTime(t, now time.Time) string {
	t = t.In(now.Location())
	if t.Year() == now.Year() {
		return t.Format(recentLayout)
	}
	return t.Format(oldLayout)
}

// Grid arranges cells column-major into rows for a terminal of the given
// width. Each column is as wide as the widest cell plus a two-space gutter;
// the last cell of every row carries no trailing padding.
func Grid(cells []RenderedLine, width int) []RenderedLine {
	if len(cells) == 0 {
		return nil
	}

	colWidth := 0
	for _, c := range cells {
		colWidth = max(colWidth, c.Width)
	}
	colWidth += gridGutter

	cols := max(1, width/colWidth)
	rows := (len(cells) + cols - 1) / cols

	lines := make([]RenderedLine, 0, rows)
	for row := range rows {
		var b strings.Builder
		lineWidth := 0
		for col := range cols {
			i := col*rows + row
			if i >= len(cells) {
				break
			}
			cell := cells[i]
			b.WriteString(cell.Text)
			lineWidth += cell.Width
			if next := (col+1)*rows + row; col < cols-1 && next < len(cells) {
				pad := colWidth - cell.Width
				b.WriteString(strings.Repeat(" ", pad))
				lineWidth += pad
			}
		}
		lines = append(lines, RenderedLine{Text: b.String(), Width: lineWidth})
	}
	return lines
}

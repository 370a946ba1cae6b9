// SPDX-License-Identifier: MPL-2.0

package listing

import (
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		mode fs.FileMode
		want ColorTag
	}{
		{"plain file", 0o644, ColorNone},
		{"owner executable", 0o744, ColorExecutable},
		{"other executable only", 0o601, ColorExecutable},
		{"directory", fs.ModeDir | 0o755, ColorDirectory},
		{"directory beats execute bits", fs.ModeDir | 0o777, ColorDirectory},
		{"symlink", fs.ModeSymlink | 0o777, ColorSymlink},
		{"fifo", fs.ModeNamedPipe | 0o644, ColorFIFO},
		{"socket", fs.ModeSocket | 0o755, ColorSocket},
		{"block device", fs.ModeDevice | 0o660, ColorBlockDevice},
		{"char device", fs.ModeDevice | fs.ModeCharDevice | 0o666, ColorCharDevice},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Classify(tt.mode), "got %s", Classify(tt.mode))
		})
	}
}

func TestColorize(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "\x1b[1;34msrc\x1b[0m", Colorize("src", ColorDirectory))
	assert.Equal(t, "\x1b[1;32mrun.sh\x1b[0m", Colorize("run.sh", ColorExecutable))
	assert.Equal(t, "\x1b[33mpipe\x1b[0m", Colorize("pipe", ColorFIFO))
	assert.Equal(t, "notes", Colorize("notes", ColorNone))
	assert.Empty(t, ColorTag(200).SGR())
}

func TestColorModeEnabled(t *testing.T) {
	t.Parallel()

	assert.False(t, ColorNever.Enabled(true))
	assert.False(t, ColorAuto.Enabled(false))
	assert.True(t, ColorAuto.Enabled(true))
	assert.True(t, ColorAlways.Enabled(false))
}

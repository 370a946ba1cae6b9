// SPDX-License-Identifier: MPL-2.0

package listing

import "io/fs"

// Color tags known to the classifier.
const (
	ColorNone ColorTag = iota
	ColorDirectory
	ColorSymlink
	ColorFIFO
	ColorSocket
	ColorBlockDevice
	ColorCharDevice
	ColorExecutable
)

// sgrReset ends any color started by a tag sequence.
const sgrReset = "\x1b[0m"

// ColorTag classifies an entry for colorized display.
type ColorTag uint8

// sgrTable maps tags to their SGR start sequences. ColorNone has none.
var sgrTable = [...]string{
	ColorNone:        "",
	ColorDirectory:   "\x1b[1;34m",
	ColorSymlink:     "\x1b[1;36m",
	ColorFIFO:        "\x1b[33m",
	ColorSocket:      "\x1b[1;35m",
	ColorBlockDevice: "\x1b[1;33m",
	ColorCharDevice:  "\x1b[1;33m",
	ColorExecutable:  "\x1b[1;32m",
}

// Classify maps mode bits to a ColorTag. The first matching type wins, in the
// order directory, symlink, fifo, socket, block device, char device; then any
// execute bit marks the entry executable.
func Classify(mode fs.FileMode) ColorTag {
	switch {
	case mode.IsDir():
		return ColorDirectory
	case mode&fs.ModeSymlink != 0:
		return ColorSymlink
	case mode&fs.ModeNamedPipe != 0:
		return ColorFIFO
	case mode&fs.ModeSocket != 0:
		return ColorSocket
	case mode&fs.ModeDevice != 0 && mode&fs.ModeCharDevice == 0:
		return ColorBlockDevice
	case mode&fs.ModeCharDevice != 0:
		return ColorCharDevice
	case mode.Perm()&0o111 != 0:
		return ColorExecutable
	default:
		return ColorNone
	}
}

// SGR returns the escape sequence that starts the tag's color.
func (t ColorTag) SGR() string {
	if int(t) >= len(sgrTable) {
		return ""
	}
	return sgrTable[t]
}

// String returns the tag name.
func (t ColorTag) String() string {
	switch t {
	case ColorDirectory:
		return "directory"
	case ColorSymlink:
		return "symlink"
	case ColorFIFO:
		return "fifo"
	case ColorSocket:
		return "socket"
	case ColorBlockDevice:
		return "block-device"
	case ColorCharDevice:
		return "char-device"
	case ColorExecutable:
		return "executable"
	default:
		return "none"
	}
}

// Colorize wraps name in the tag's color. Names with ColorNone are returned as is.
func Colorize(name string, tag ColorTag) string {
	sgr := tag.SGR()
	if sgr == "" {
		return name
	}
	return sgr + name + sgrReset
}

// SPDX-License-Identifier: MPL-2.0

package listing

import (
	"math"
	"strconv"
)

// sizeUnits are the binary-prefix suffixes used by human-readable sizes.
var sizeUnits = [...]string{"", "K", "M", "G", "T", "P", "E", "Z", "Y"}

// FormatSize renders a byte count for the size column.
//
// Raw sizes are plain decimal digits. Human-readable sizes divide by 1024 while
// the value is at least 1024. Whole values print without a decimal ("2K"),
// other values below 10 keep one decimal ("1.5K"), and larger values are
// truncated.
func FormatSize(n int64, human bool) string {
	if !human {
		return strconv.FormatInt(n, 10)
	}
	if n < 1024 {
		return strconv.FormatInt(n, 10)
	}

	value := float64(n)
	unit := 0
	for value >= 1024 && unit < len(sizeUnits)-1 {
		value /= 1024
		unit++
	}

	switch {
	case value == math.Trunc(value):
		return strconv.FormatInt(int64(value), 10) + sizeUnits[unit]
	case value < 10:
		return strconv.FormatFloat(value, 'f', 1, 64) + sizeUnits[unit]
	default:
		return strconv.FormatInt(int64(value), 10) + sizeUnits[unit]
	}
}

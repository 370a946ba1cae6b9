// SPDX-License-Identifier: MPL-2.0

package listing

import "io/fs"

// PermissionString renders mode as the 10-character long-format column,
// e.g. "drwxr-xr-x" or "-rwsr-Sr-T".
func PermissionString(mode fs.FileMode) string {
	var b [10]byte
	b[0] = typeLetter(mode)

	perm := mode.Perm()
	triplet := func(at int, shift uint, special bool, lower, upper byte) {
		bits := perm >> shift
		b[at] = pick(bits&0o4 != 0, 'r')
		b[at+1] = pick(bits&0o2 != 0, 'w')
		exec := bits&0o1 != 0
		switch {
		case special && exec:
			b[at+2] = lower
		case special:
			b[at+2] = upper
		default:
			b[at+2] = pick(exec, 'x')
		}
	}
	triplet(1, 6, mode&fs.ModeSetuid != 0, 's', 'S')
	triplet(4, 3, mode&fs.ModeSetgid != 0, 's', 'S')
	triplet(7, 0, mode&fs.ModeSticky != 0, 't', 'T')

	return string(b[:])
}

func typeLetter(mode fs.FileMode) byte {
	switch {
	case mode.IsDir():
		return 'd'
	case mode&fs.ModeSymlink != 0:
		return 'l'
	case mode&fs.ModeNamedPipe != 0:
		return 'p'
	case mode&fs.ModeSocket != 0:
		return 's'
	case mode&fs.ModeDevice != 0 && mode&fs.ModeCharDevice == 0:
		return 'b'
	case mode&fs.ModeCharDevice != 0:
		return 'c'
	default:
		return '-'
	}
}

func pick(set bool, c byte) byte {
	if set {
		return c
	}
	return '-'
}

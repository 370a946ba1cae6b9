// SPDX-License-Identifier: MPL-2.0

//go:build windows

package listing

import "io/fs"

// statFields reports no platform fields; Windows has no POSIX owner ids.
func statFields(fs.FileInfo) (nlink uint64, uid, gid uint32, ok bool) {
	return 0, 0, 0, false
}

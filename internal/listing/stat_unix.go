// SPDX-License-Identifier: MPL-2.0

//go:build !windows

package listing

import (
	"io/fs"
	"syscall"
)

// statFields extracts link count and owner ids from the platform stat record.
func statFields(info fs.FileInfo) (nlink uint64, uid, gid uint32, ok bool) {
	st, isStat := info.Sys().(*syscall.Stat_t)
	if !isStat || st == nil {
		return 0, 0, 0, false
	}
	return uint64(st.Nlink), st.Uid, st.Gid, true //nolint:unconvert // Nlink is uint16 on darwin
}

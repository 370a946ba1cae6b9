// SPDX-License-Identifier: MPL-2.0

package listing

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/require"
)

// fixtureFS layers fixed modification times and injected lstat failures over
// an in-memory filesystem.
type fixtureFS struct {
	billy.Filesystem
	mtimes map[string]time.Time
	denied map[string]bool
}

type stampedInfo struct {
	fs.FileInfo
	mtime time.Time
}

func (i stampedInfo) ModTime() time.Time { return i.mtime }

func newFixtureFS() *fixtureFS {
	return &fixtureFS{
		Filesystem: memfs.New(),
		mtimes:     map[string]time.Time{},
		denied:     map[string]bool{},
	}
}

func (f *fixtureFS) stamp(path string, info os.FileInfo) os.FileInfo {
	if info == nil {
		return nil
	}
	if t, ok := f.mtimes[filepath.Clean(path)]; ok {
		return stampedInfo{FileInfo: info, mtime: t}
	}
	return stampedInfo{FileInfo: info, mtime: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (f *fixtureFS) Lstat(name string) (os.FileInfo, error) {
	if f.denied[filepath.Clean(name)] {
		return nil, &fs.PathError{Op: "lstat", Path: name, Err: fs.ErrPermission}
	}
	info, err := f.Filesystem.Lstat(name)
	return f.stamp(name, info), err
}

func (f *fixtureFS) Stat(name string) (os.FileInfo, error) {
	info, err := f.Filesystem.Stat(name)
	return f.stamp(name, info), err
}

func (f *fixtureFS) mkdir(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, f.MkdirAll(path, 0o755))
}

func (f *fixtureFS) file(t *testing.T, path string, size int, perm fs.FileMode) {
	t.Helper()
	require.NoError(t, util.WriteFile(f, path, make([]byte, size), perm))
}

// sampleTree builds the tree used by most walker tests:
//
//	/work/a.txt (3 bytes)  /work/b.sh (10 bytes, executable)  /work/.hidden
//	/work/sub/inner.txt    /work/sub/deep/leaf
func sampleTree(t *testing.T) *fixtureFS {
	t.Helper()
	f := newFixtureFS()
	f.mkdir(t, "/work")
	f.mkdir(t, "/work/sub")
	f.mkdir(t, "/work/sub/deep")
	f.file(t, "/work/a.txt", 3, 0o644)
	f.file(t, "/work/b.sh", 10, 0o755)
	f.file(t, "/work/.hidden", 1, 0o644)
	f.file(t, "/work/sub/inner.txt", 5, 0o644)
	f.file(t, "/work/sub/deep/leaf", 0, 0o600)
	return f
}

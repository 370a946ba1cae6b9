// SPDX-License-Identifier: MPL-2.0

package listing

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
)

type (
	// FileSystem is the subset of billy.Filesystem the listing engine reads from.
	// Paths handed to it are absolute.
	FileSystem interface {
		Stat(filename string) (os.FileInfo, error)
		Lstat(filename string) (os.FileInfo, error)
		Readlink(link string) (string, error)
		ReadDir(path string) ([]os.FileInfo, error)
	}

	// Metadata holds the normalized stat fields used for sorting and rendering.
	Metadata struct {
		Mode    fs.FileMode
		Size    int64
		ModTime time.Time
		Nlink   uint64
		UID     uint32
		GID     uint32
	}

	// Entry is one listed filesystem object. It is immutable once resolved.
	Entry struct {
		// Name is the name as stored on disk, or the argument as typed for
		// command-line targets.
		Name string
		// Path joins the displayed parent directory and Name.
		Path      string
		Metadata  Metadata
		IsSymlink bool
		// LinkTarget is the symlink's target, empty when unreadable or not a link.
		LinkTarget string
	}

	// Resolver turns paths into Entry values using the non-following stat so
	// symlinks are reported as themselves.
	Resolver struct {
		fs FileSystem
	}
)

var _ FileSystem = billy.Filesystem(nil)

// NewOSFileSystem returns the host filesystem rooted at "/".
func NewOSFileSystem() FileSystem {
	return osfs.New("/")
}

// NewResolver creates a Resolver reading from fsys.
func NewResolver(fsys FileSystem) *Resolver {
	return &Resolver{fs: fsys}
}

// Resolve builds the Entry for name inside dir. absDir is used for filesystem
// access, dir only for the displayed Path.
func (r *Resolver) Resolve(absDir, dir, name string) (Entry, error) {
	return r.resolve(filepath.Join(absDir, name), name, joinDisplay(dir, name))
}

// ResolvePath builds the Entry for a command-line target. Name is the final
// path element as stored on disk; Path keeps the spelling the user typed.
func (r *Resolver) ResolvePath(absPath, typed string) (Entry, error) {
	return r.resolve(absPath, filepath.Base(typed), typed)
}

func (r *Resolver) resolve(abs, name, display string) (Entry, error) {
	info, err := r.fs.Lstat(abs)
	if err != nil {
		return Entry{}, newEntryError(display, err)
	}
	e := Entry{
		Name:      name,
		Path:      display,
		Metadata:  metadataOf(info),
		IsSymlink: info.Mode()&fs.ModeSymlink != 0,
	}
	if e.IsSymlink {
		if target, linkErr := r.fs.Readlink(abs); linkErr == nil {
			e.LinkTarget = target
		}
	}
	return e, nil
}

// metadataOf normalizes FileInfo. Platform fields come from statFields and
// default to one link owned by id 0 when the backend has no stat record.
func metadataOf(info fs.FileInfo) Metadata {
	md := Metadata{
		Mode:    info.Mode(),
		Size:    info.Size(),
		ModTime: info.ModTime(),
		Nlink:   1,
	}
	if nlink, uid, gid, ok := statFields(info); ok {
		md.Nlink, md.UID, md.GID = nlink, uid, gid
	}
	return md
}

// IsDir reports whether the entry itself is a directory (links are not).
func (e Entry) IsDir() bool {
	return e.Metadata.Mode.IsDir()
}

// joinDisplay joins without cleaning so "./sub" stays "./sub".
func joinDisplay(dir, name string) string {
	if dir == "" {
		return name
	}
	if strings.HasSuffix(dir, "/") {
		return dir + name
	}
	return dir + "/" + name
}

package fs

import (
	"io"
	"os"
)

// File is an open snapshot file, or a directory opened to sync a rename.
type File interface {
	io.ReadWriteCloser
	Sync() error
}

// FileSystem holds the calls made by an atomic snapshot save and by a load:
// stage the snapshot in a temporary file, publish it by rename, remove the
// temporary on failure and open the published file or its directory.
type FileSystem interface {
	Create(name string) (File, error)
	Open(name string) (File, error)
	Rename(oldpath, newpath string) error
	Remove(name string) error
}

// TempName is the staging path of a snapshot published at name.
func TempName(name string) string { return name + ".tmp" }

// LocalFS is the FileSystem backed by package os.
type LocalFS struct{}

// Create creates or truncates name for writing.
func (LocalFS) Create(name string) (File, error) {
	f, err := os.OpenFile(name, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644) //nolint:gosec // caller-chosen path
	if err != nil {
		return nil, err
	}
	return f, nil
}

// Open opens name read-only.
func (LocalFS) Open(name string) (File, error) {
	f, err := os.Open(name) //nolint:gosec // caller-chosen path
	if err != nil {
		return nil, err
	}
	return f, nil
}

func (LocalFS) Rename(oldpath, newpath string) error { return os.Rename(oldpath, newpath) }
func (LocalFS) Remove(name string) error             { return os.Remove(name) }

// Default is the file system SaveFile and LoadFile use.
var Default FileSystem = LocalFS{}

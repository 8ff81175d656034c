package dynvec

import (
	"bufio"
	"context"
	"path/filepath"

	"github.com/hupe1980/dynvec/internal/fs"
)

// SaveFile atomically writes a snapshot of b to path. The snapshot goes to
// path+".tmp" first, is synced, and then renamed over path.
func (b *BitVector) SaveFile(ctx context.Context, path string, opts SnapshotOptions) error {
	return b.saveFile(ctx, fs.Default, path, opts)
}

// LoadFile replaces the contents of b with the snapshot stored at path.
// On failure b is unchanged.
func (b *BitVector) LoadFile(ctx context.Context, path string, opts SnapshotOptions) error {
	return b.loadFile(ctx, fs.Default, path, opts)
}

func (b *BitVector) saveFile(ctx context.Context, fsys fs.FileSystem, path string, opts SnapshotOptions) error {
	tmpPath := fs.TempName(path)
	f, err := fsys.Create(tmpPath)
	if err != nil {
		return err
	}

	bw := bufio.NewWriter(f)
	if _, err := b.WriteSnapshot(ctx, bw, opts); err != nil {
		_ = f.Close()
		_ = fsys.Remove(tmpPath)
		return err
	}
	if err := bw.Flush(); err != nil {
		_ = f.Close()
		_ = fsys.Remove(tmpPath)
		return err
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		_ = fsys.Remove(tmpPath)
		return err
	}
	if err := f.Close(); err != nil {
		_ = fsys.Remove(tmpPath)
		return err
	}

	if err := fsys.Rename(tmpPath, path); err != nil {
		_ = fsys.Remove(tmpPath)
		return err
	}
	return syncDir(fsys, filepath.Dir(path))
}

func (b *BitVector) loadFile(ctx context.Context, fsys fs.FileSystem, path string, opts SnapshotOptions) error {
	f, err := fsys.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = b.ReadSnapshot(ctx, bufio.NewReader(f), opts)
	return err
}

// syncDir persists a rename. Directories cannot be synced on every
// platform, so only open failures are reported.
func syncDir(fsys fs.FileSystem, dir string) error {
	d, err := fsys.Open(dir)
	if err != nil {
		return err
	}
	_ = d.Sync()
	return d.Close()
}

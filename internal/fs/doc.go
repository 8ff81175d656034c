// Package fs is the filesystem seam behind BitVector.SaveFile and LoadFile.
//
// A save stages the snapshot at TempName(path), syncs and closes it, renames
// it over path and syncs the directory; any failure removes the staged file.
// FaultyFS injects open, write, sync, close and rename failures into that
// sequence for tests:
//
//	ffs := fs.NewFaultyFS(nil)
//	ffs.AddRule(".tmp", fs.Fault{FailAfterBytes: 16})
//
// The interfaces take no context.Context. Local file operations are not
// interruptible at the syscall level; callers check ctx between steps.
package fs

package fs

import (
	"errors"
	"strings"
	"sync"
)

// ErrInjected is returned by FaultyFS when a rule has no explicit Err.
var ErrInjected = errors.New("fs: injected fault")

// Fault defines specific failure behavior for files opened through FaultyFS.
type Fault struct {
	FailOnOpen     bool
	FailAfterBytes int64 // fail writes past this many bytes to one file; -1 disables
	FailOnSync     bool
	FailOnClose    bool
	FailOnRename   bool
	Err            error
}

func (f Fault) err() error {
	if f.Err != nil {
		return f.Err
	}
	return ErrInjected
}

// FaultyFS is a FileSystem wrapper that can inject errors.
type FaultyFS struct {
	FS FileSystem

	mu      sync.Mutex
	rules   map[string]Fault // name substring -> fault
	written int64
}

// NewFaultyFS creates a new FaultyFS wrapping fsys (or Default if nil).
func NewFaultyFS(fsys FileSystem) *FaultyFS {
	if fsys == nil {
		fsys = Default
	}
	return &FaultyFS{FS: fsys, rules: make(map[string]Fault)}
}

// AddRule injects fault into every file whose name contains pattern.
func (f *FaultyFS) AddRule(pattern string, fault Fault) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rules[pattern] = fault
}

// Written returns the bytes written through all files so far.
func (f *FaultyFS) Written() int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.written
}

func (f *FaultyFS) match(name string) (Fault, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for pattern, rule := range f.rules {
		if strings.Contains(name, pattern) {
			return rule, true
		}
	}
	return Fault{FailAfterBytes: -1}, false
}

// Create implements FileSystem.
func (f *FaultyFS) Create(name string) (File, error) {
	return f.open(name, f.FS.Create)
}

// Open implements FileSystem.
func (f *FaultyFS) Open(name string) (File, error) {
	return f.open(name, f.FS.Open)
}

func (f *FaultyFS) open(name string, open func(string) (File, error)) (File, error) {
	fault, _ := f.match(name)
	if fault.FailOnOpen {
		return nil, fault.err()
	}
	file, err := open(name)
	if err != nil {
		return nil, err
	}
	return &faultyFile{File: file, fs: f, fault: fault}, nil
}

func (f *FaultyFS) Remove(name string) error { return f.FS.Remove(name) }

func (f *FaultyFS) Rename(oldpath, newpath string) error {
	if fault, ok := f.match(oldpath); ok && fault.FailOnRename {
		return fault.err()
	}
	return f.FS.Rename(oldpath, newpath)
}

type faultyFile struct {
	File
	fs      *FaultyFS
	fault   Fault
	written int64
}

func (ff *faultyFile) Write(p []byte) (int, error) {
	if ff.fault.FailAfterBytes >= 0 && ff.written+int64(len(p)) > ff.fault.FailAfterBytes {
		return 0, ff.fault.err()
	}
	n, err := ff.File.Write(p)
	ff.written += int64(n)
	ff.fs.mu.Lock()
	ff.fs.written += int64(n)
	ff.fs.mu.Unlock()
	return n, err
}

func (ff *faultyFile) Sync() error {
	if ff.fault.FailOnSync {
		return ff.fault.err()
	}
	return ff.File.Sync()
}

func (ff *faultyFile) Close() error {
	if ff.fault.FailOnClose {
		_ = ff.File.Close()
		return ff.fault.err()
	}
	return ff.File.Close()
}

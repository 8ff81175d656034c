//go:build unix

package mmap

import (
	"os"
	"runtime"

	"golang.org/x/sys/unix"
)

func mapAnon(size int) ([]byte, func() error, error) {
	data, err := unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return nil, nil, os.NewSyscallError("mmap", err)
	}
	return data, func() error { return unix.Munmap(data) }, nil
}

// zero drops whole pages with MADV_DONTNEED on Linux, where private
// anonymous pages read back as zero afterwards, and clears the rest.
func zero(b []byte) error {
	page := os.Getpagesize()
	if runtime.GOOS != "linux" || len(b) < 2*page {
		clear(b)
		return nil
	}
	// The mapping start is page aligned, so whole pages begin at offset 0.
	whole := len(b) / page * page
	if err := unix.Madvise(b[:whole], unix.MADV_DONTNEED); err != nil {
		clear(b)
		return nil //nolint:nilerr // clearing is the fallback
	}
	clear(b[whole:])
	return nil
}

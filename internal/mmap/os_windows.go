//go:build windows

package mmap

import (
	"os"
	"unsafe"

	"golang.org/x/sys/windows"
)

// VirtualAlloc with MEM_COMMIT is demand paged, so untouched pages cost no
// physical memory.
func mapAnon(size int) ([]byte, func() error, error) {
	addr, err := windows.VirtualAlloc(0, uintptr(size), windows.MEM_RESERVE|windows.MEM_COMMIT, windows.PAGE_READWRITE)
	if err != nil {
		return nil, nil, os.NewSyscallError("VirtualAlloc", err)
	}
	data := unsafe.Slice((*byte)(unsafe.Pointer(addr)), size)
	return data, func() error { return windows.VirtualFree(addr, 0, windows.MEM_RELEASE) }, nil
}

func zero(b []byte) error {
	clear(b)
	return nil
}

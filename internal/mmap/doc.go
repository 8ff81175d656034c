// Package mmap maps anonymous memory for arena chunks.
//
// MapAnon returns zeroed read-write memory outside the Go heap. The garbage
// collector neither scans nor moves it, so only pointer-free data may be
// stored there.
//
//	m, err := mmap.MapAnon(1 << 20)
//	if err != nil { ... }
//	defer m.Close()
//
// Unix uses mmap(2) with MAP_ANON|MAP_PRIVATE; Windows uses VirtualAlloc.
// Close is idempotent. Callers must not touch Bytes() after Close returns.
package mmap

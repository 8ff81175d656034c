// Package arena provides an off-heap bump allocator for element storage.
//
// Chunks are anonymous mappings (1 MiB by default) that the garbage
// collector never scans, so they may only hold pointer-free data. A request
// that cannot fit in a chunk gets a dedicated mapping. Mapped bytes can be
// charged against a budget through MemoryAcquirer.
//
// Alloc may be called from many goroutines; a CAS on the current chunk's
// offset hands out space, and the lock is only taken to map the next chunk.
// Reset and Free must not race with Alloc. Individual allocations are never
// returned; memory goes back to the OS on Reset or Free.
package arena

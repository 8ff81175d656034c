// Package alloc defines the allocator contract used by dynvec containers and
// ships the stock implementations.
//
// An Allocator hands out raw slot storage and constructs and destroys single
// elements in place. Containers never touch the Go heap directly; they ask
// their allocator. Five allocators are provided:
//
//   - Heap: the Go heap (make). The default.
//   - Aligned: the Go heap with buffers on a power-of-two boundary.
//   - ArenaAllocator: an off-heap, mmap-backed bump arena for pointer-free types.
//   - Limited: charges another allocator against a shared byte Budget.
//   - Tracking: counts allocations and element lifetimes and reports misuse.
//
// # Element finalization
//
// If *T implements Releaser, Destroy calls Release before zeroing the slot.
// This is how element types own external resources.
//
// # Concurrency
//
// All five allocators are safe for concurrent use, so
// several containers on different goroutines may share one allocator. A
// single container is not safe for concurrent use.
package alloc

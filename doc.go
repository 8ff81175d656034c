// Package dynvec provides a generic growable array and a packed bit vector
// whose storage comes from a pluggable allocator.
//
// # Quick Start
//
//	v, _ := dynvec.New[int]()
//	_ = v.PushBack(1)
//	_ = v.PushBack(2)
//	it, _ := v.Insert(v.Begin().Next(), 7) // [1 7 2]
//	v.Erase(it)                            // [1 2]
//	for i, x := range v.All() {
//	    fmt.Println(i, x)
//	}
//
// Bits are packed 64 per word:
//
//	bits, _ := dynvec.NewBitVectorFilled(70, false)
//	bits.Set(69, true)
//	bits.Ref(0).Flip()
//	fmt.Println(bits.Count()) // 2
//
// # Allocators
//
// Storage is requested through alloc.Allocator. The default is alloc.Heap.
// Off-heap arenas, memory budgets and a lifetime-checking allocator for
// tests live in package alloc:
//
//	arena, _ := alloc.NewArena(alloc.ArenaConfig{})
//	defer arena.Free()
//	a, _ := alloc.ArenaFor[float64](arena)
//	v, _ := dynvec.New[float64](dynvec.WithAllocator[float64](a))
//
// Every element is constructed and destroyed through the allocator exactly
// once. Element types implementing alloc.Releaser are released on destroy,
// so a Vector of Vectors frees its inner storage with the outer one.
//
// # Growth
//
// Appends grow capacity by a factor of 1.5 starting from 1
// (1, 2, 3, 4, 6, 9, 13, ...). Reserve and the sized constructors allocate
// exactly what was asked for. A growth step allocates the new buffer before
// touching any element, so a failed allocation leaves the container
// unchanged.
//
// # Errors
//
// Operations that allocate return an error wrapping the allocator's error.
// Checked access returns *IndexError (errors.Is ErrOutOfRange); length
// requests above MaxLen return *LengthError (errors.Is ErrLength).
//
// # Snapshots
//
// BitVector.WriteSnapshot writes a compact binary form, optionally
// LZ4 or Zstandard compressed and rate limited, ending in a CRC32C of the
// words; ReadSnapshot verifies and restores it. SaveFile and LoadFile do the
// same against a file, replacing it atomically.
// ToBitSet, ToRoaring and their inverses exchange bits with
// bits-and-blooms/bitset and RoaringBitmap.
//
// # Key Features
//
//   - Random-access iterators, reverse adapters and range-over-func
//   - Lexicographic comparison (Equal, Less, Compare, ...)
//   - Structured logging (slog) and pluggable metrics
//   - JSON import and export through package codec
package dynvec

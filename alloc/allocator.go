package alloc

import (
	"errors"
	"fmt"
	"math"
	"unsafe"
)

var (
	// ErrOutOfMemory is returned when an allocator cannot supply storage.
	ErrOutOfMemory = errors.New("alloc: out of memory")
	// ErrPointerElement is returned when an off-heap allocator is asked to
	// hold a type containing Go pointers.
	ErrPointerElement = errors.New("alloc: element type contains pointers")
	// ErrInvalidCount is returned for a negative allocation request.
	ErrInvalidCount = errors.New("alloc: invalid element count")
	// ErrInvalidAlignment is returned for an alignment that is not a power
	// of two.
	ErrInvalidAlignment = errors.New("alloc: invalid alignment")
	// ErrArenaInner is returned when Limited is asked to wrap an arena
	// allocator. Arenas are charged per mapped chunk through ArenaConfig.Budget.
	ErrArenaInner = errors.New("alloc: arena allocators are budgeted through ArenaConfig")
)

// Allocator supplies raw storage and manages element lifetimes in place.
type Allocator[T any] interface {
	// Allocate returns storage for n elements. len(buf) == n. Slots are zero.
	Allocate(n int) ([]T, error)
	// Deallocate releases storage previously returned by Allocate.
	// All slots must have been destroyed.
	Deallocate(buf []T)
	// Construct initializes one element in place.
	Construct(slot *T, v T)
	// Destroy finalizes one element in place.
	Destroy(slot *T)
	// Equal reports whether other can release storage this allocator allocated.
	Equal(other Allocator[T]) bool
}

// Releaser is implemented by element types that own resources which must be
// released when the element is destroyed.
type Releaser interface {
	Release()
}

// MaxAllocBytes bounds a single allocation. Current 64-bit platforms map at
// most 48 address bits; the runtime rejects larger requests with a panic.
const MaxAllocBytes = uint64(1) << 47

// MaxCount returns the largest element count an allocation of T can request.
func MaxCount[T any]() int {
	var zero T
	size := uint64(unsafe.Sizeof(zero))
	if size == 0 {
		return math.MaxInt
	}
	return int(min(uint64(math.MaxInt), MaxAllocBytes) / size) //nolint:gosec // <= MaxInt
}

// ByteSize returns the number of bytes occupied by n elements of T.
func ByteSize[T any](n int) int64 {
	var zero T
	return int64(n) * int64(unsafe.Sizeof(zero)) //nolint:gosec // bounded by MaxCount
}

func checkCount[T any](n int) error {
	if n < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidCount, n)
	}
	if n > MaxCount[T]() {
		return fmt.Errorf("%w: %d elements", ErrOutOfMemory, n)
	}
	return nil
}

// tryMake runs mk and reports a runtime allocation panic as ErrOutOfMemory.
func tryMake[T any](n int, mk func() []T) (buf []T, err error) {
	defer func() {
		if r := recover(); r != nil {
			buf, err = nil, fmt.Errorf("%w: %d elements: %v", ErrOutOfMemory, n, r)
		}
	}()
	return mk(), nil
}

func construct[T any](slot *T, v T) {
	*slot = v
}

func destroy[T any](slot *T) {
	if r, ok := any(slot).(Releaser); ok {
		r.Release()
	}
	var zero T
	*slot = zero
}

// Heap allocates from the Go heap. The zero value is ready to use and all
// Heap values are interchangeable.
type Heap[T any] struct{}

// NewHeap returns the heap allocator for T.
func NewHeap[T any]() Heap[T] {
	return Heap[T]{}
}

// Allocate implements Allocator.
func (Heap[T]) Allocate(n int) ([]T, error) {
	if err := checkCount[T](n); err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, nil
	}
	return tryMake(n, func() []T { return make([]T, n) })
}

// Deallocate implements Allocator. The garbage collector reclaims the buffer.
func (Heap[T]) Deallocate([]T) {}

// Construct implements Allocator.
func (Heap[T]) Construct(slot *T, v T) { construct(slot, v) }

// Destroy implements Allocator.
func (Heap[T]) Destroy(slot *T) { destroy(slot) }

// Equal implements Allocator.
func (Heap[T]) Equal(other Allocator[T]) bool {
	switch other.(type) {
	case Heap[T], *Heap[T]:
		return true
	default:
		return false
	}
}

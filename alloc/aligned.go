package alloc

import (
	"fmt"
	"reflect"

	"github.com/hupe1980/dynvec/internal/mem"
)

// Aligned allocates from the Go heap with every buffer starting on an align
// byte boundary, for element types used with vector instructions or shared
// with code that expects cache-line aligned data.
//
// Like ArenaAllocator it only holds pointer-free types. All Aligned values
// for T are interchangeable; the garbage collector reclaims their storage.
type Aligned[T any] struct {
	align int
}

// NewAligned returns an allocator aligning buffers to align bytes. An align
// of 0 selects 64. The effective alignment is never below T's own.
func NewAligned[T any](align int) (*Aligned[T], error) {
	if align == 0 {
		align = mem.Alignment
	}
	if !mem.ValidAlignment(align) {
		return nil, fmt.Errorf("%w: %d", ErrInvalidAlignment, align)
	}

	typ := reflect.TypeFor[T]()
	if hasPointers(typ) {
		return nil, fmt.Errorf("%w: %s", ErrPointerElement, typ)
	}
	return &Aligned[T]{align: max(align, typ.Align())}, nil
}

// Alignment returns the byte boundary buffers start on.
func (a *Aligned[T]) Alignment() int { return a.align }

// Allocate implements Allocator.
func (a *Aligned[T]) Allocate(n int) ([]T, error) {
	if err := checkCount[T](n); err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, nil
	}
	buf, err := tryMake(n, func() []T { return mem.AlignedSlice[T](n, a.align) })
	if err != nil {
		return nil, err
	}
	if buf == nil {
		return nil, fmt.Errorf("%w: %d elements aligned to %d", ErrOutOfMemory, n, a.align)
	}
	return buf, nil
}

// Deallocate implements Allocator. The garbage collector reclaims the buffer.
func (a *Aligned[T]) Deallocate([]T) {}

// Construct implements Allocator.
func (a *Aligned[T]) Construct(slot *T, v T) { construct(slot, v) }

// Destroy implements Allocator.
func (a *Aligned[T]) Destroy(slot *T) { destroy(slot) }

// Equal implements Allocator.
func (a *Aligned[T]) Equal(other Allocator[T]) bool {
	_, ok := other.(*Aligned[T])
	return ok
}

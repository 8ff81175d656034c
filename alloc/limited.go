package alloc

import (
	"context"
	"fmt"

	"github.com/hupe1980/dynvec/internal/resource"
)

// LimitConfig configures a Budget.
type LimitConfig struct {
	// MemoryLimitBytes is the hard byte limit. Zero tracks usage without a limit.
	MemoryLimitBytes int64
}

// Budget is a byte budget shared by Limited allocators and arenas.
// A nil *Budget is unlimited.
type Budget struct {
	rc *resource.Controller
}

// NewBudget creates a byte budget.
func NewBudget(cfg LimitConfig) *Budget {
	return &Budget{
		rc: resource.NewController(resource.Config{MemoryLimitBytes: cfg.MemoryLimitBytes}),
	}
}

// AcquireMemory charges bytes against the budget without blocking.
func (b *Budget) AcquireMemory(bytes int64) error {
	if b == nil {
		return nil
	}
	if err := b.rc.AcquireMemory(bytes); err != nil {
		return fmt.Errorf("%w: %w", ErrOutOfMemory, err)
	}
	return nil
}

// Wait charges bytes against the budget, blocking until they are available
// or ctx is done.
func (b *Budget) Wait(ctx context.Context, bytes int64) error {
	if b == nil {
		return nil
	}
	if err := b.rc.AcquireMemoryContext(ctx, bytes); err != nil {
		return fmt.Errorf("%w: %w", ErrOutOfMemory, err)
	}
	return nil
}

// ReleaseMemory returns bytes to the budget.
func (b *Budget) ReleaseMemory(bytes int64) {
	if b == nil {
		return
	}
	b.rc.ReleaseMemory(bytes)
}

// Used returns the bytes currently charged.
func (b *Budget) Used() int64 {
	if b == nil {
		return 0
	}
	return b.rc.MemoryUsage()
}

// Peak returns the highest charge observed.
func (b *Budget) Peak() int64 {
	if b == nil {
		return 0
	}
	return b.rc.PeakMemoryUsage()
}

// Limit returns the configured limit (0 if unlimited).
func (b *Budget) Limit() int64 {
	if b == nil {
		return 0
	}
	return b.rc.MemoryLimit()
}

// Limited charges every allocation of an inner allocator against a Budget.
type Limited[T any] struct {
	inner  Allocator[T]
	budget *Budget
}

// NewLimited wraps inner. A nil inner selects Heap.
//
// An *ArenaAllocator is rejected with ErrArenaInner: the arena keeps freed
// buffers mapped until Reset, so per-buffer refunds would not match the
// memory actually held. Give the Arena a Budget instead.
func NewLimited[T any](inner Allocator[T], budget *Budget) (*Limited[T], error) {
	switch inner.(type) {
	case nil:
		inner = Heap[T]{}
	case *ArenaAllocator[T]:
		return nil, ErrArenaInner
	}
	return &Limited[T]{inner: inner, budget: budget}, nil
}

// Budget returns the budget charged by this allocator.
func (l *Limited[T]) Budget() *Budget { return l.budget }

// Allocate implements Allocator. It fails with ErrOutOfMemory when the budget
// cannot cover n elements.
func (l *Limited[T]) Allocate(n int) ([]T, error) {
	if err := checkCount[T](n); err != nil {
		return nil, err
	}
	bytes := ByteSize[T](n)
	if err := l.budget.AcquireMemory(bytes); err != nil {
		return nil, err
	}

	buf, err := l.inner.Allocate(n)
	if err != nil {
		l.budget.ReleaseMemory(bytes)
		return nil, err
	}
	return buf, nil
}

// Deallocate implements Allocator.
func (l *Limited[T]) Deallocate(buf []T) {
	if len(buf) == 0 {
		return
	}
	l.inner.Deallocate(buf)
	l.budget.ReleaseMemory(ByteSize[T](len(buf)))
}

// Construct implements Allocator.
func (l *Limited[T]) Construct(slot *T, v T) { l.inner.Construct(slot, v) }

// Destroy implements Allocator.
func (l *Limited[T]) Destroy(slot *T) { l.inner.Destroy(slot) }

// Equal implements Allocator.
func (l *Limited[T]) Equal(other Allocator[T]) bool {
	o, ok := other.(*Limited[T])
	return ok && o.budget == l.budget && l.inner.Equal(o.inner)
}

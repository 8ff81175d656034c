package alloc

import (
	"fmt"
	"reflect"
	"unsafe"

	"github.com/hupe1980/dynvec/internal/arena"
)

// ArenaConfig configures an Arena.
type ArenaConfig struct {
	// ChunkSize is the size of a regular chunk in bytes, rounded up to a
	// power of two. Zero selects 1 MiB.
	ChunkSize int

	// Budget, if set, is charged for every chunk the arena maps.
	Budget *Budget
}

// ArenaStats reports arena memory usage.
type ArenaStats = arena.Stats

// Arena is an off-heap region shared by any number of ArenaAllocators.
// Storage is reclaimed all at once by Reset or Free.
type Arena struct {
	a *arena.Arena
}

// NewArena maps the first chunk of a new arena.
func NewArena(cfg ArenaConfig) (*Arena, error) {
	var opts []arena.Option
	if cfg.Budget != nil {
		opts = append(opts, arena.WithMemoryAcquirer(cfg.Budget))
	}

	a, err := arena.New(cfg.ChunkSize, opts...)
	if err != nil {
		return nil, fmt.Errorf("alloc: new arena: %w", err)
	}
	return &Arena{a: a}, nil
}

// Stats returns the current arena statistics.
func (a *Arena) Stats() ArenaStats { return a.a.Stats() }

// Usage returns the percentage of reserved bytes handed out.
func (a *Arena) Usage() float64 { return a.a.Usage() }

// Reset invalidates every allocation and keeps the first chunk for reuse.
// No container may still hold storage from this arena.
func (a *Arena) Reset() { a.a.Reset() }

// Free unmaps all arena memory. The arena cannot be used afterwards.
func (a *Arena) Free() { a.a.Free() }

func (a *Arena) String() string { return a.a.String() }

// ArenaAllocator allocates elements of T from an Arena. T must not contain
// Go pointers: the garbage collector does not scan arena memory.
type ArenaAllocator[T any] struct {
	arena *Arena
	size  int
	align int
}

// ArenaFor returns an allocator for T drawing from a.
func ArenaFor[T any](a *Arena) (*ArenaAllocator[T], error) {
	typ := reflect.TypeFor[T]()
	if hasPointers(typ) {
		return nil, fmt.Errorf("%w: %s", ErrPointerElement, typ)
	}
	return &ArenaAllocator[T]{
		arena: a,
		size:  int(typ.Size()), //nolint:gosec // type sizes fit in int
		align: typ.Align(),
	}, nil
}

// Arena returns the underlying region.
func (a *ArenaAllocator[T]) Arena() *Arena { return a.arena }

// Allocate implements Allocator.
func (a *ArenaAllocator[T]) Allocate(n int) ([]T, error) {
	if err := checkCount[T](n); err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, nil
	}
	if a.size == 0 {
		return make([]T, n), nil
	}

	buf, err := a.arena.a.Alloc(n*a.size, a.align)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOutOfMemory, err)
	}
	return unsafe.Slice((*T)(unsafe.Pointer(unsafe.SliceData(buf))), n), nil
}

// Deallocate implements Allocator. Arena storage is reclaimed by Reset or Free.
func (a *ArenaAllocator[T]) Deallocate([]T) {}

// Construct implements Allocator.
func (a *ArenaAllocator[T]) Construct(slot *T, v T) { construct(slot, v) }

// Destroy implements Allocator.
func (a *ArenaAllocator[T]) Destroy(slot *T) { destroy(slot) }

// Equal implements Allocator. Allocators sharing an arena are equal.
func (a *ArenaAllocator[T]) Equal(other Allocator[T]) bool {
	o, ok := other.(*ArenaAllocator[T])
	return ok && o.arena == a.arena
}

func hasPointers(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128:
		return false
	case reflect.Array:
		return t.Len() > 0 && hasPointers(t.Elem())
	case reflect.Struct:
		for i := range t.NumField() {
			if hasPointers(t.Field(i).Type) {
				return true
			}
		}
		return false
	default:
		return true
	}
}

package alloc

import (
	"errors"
	"fmt"
	"sync"
	"unsafe"
)

// Lifetime violations reported by Tracking.
var (
	ErrDoubleDestroy      = errors.New("alloc: slot destroyed twice")
	ErrDestroyUnbuilt     = errors.New("alloc: destroy of a slot that was never constructed")
	ErrConstructLive      = errors.New("alloc: construct over a live slot")
	ErrForeignSlot        = errors.New("alloc: slot does not belong to a live allocation")
	ErrUnknownBuffer      = errors.New("alloc: deallocate of unknown buffer")
	ErrDeallocateLiveSlot = errors.New("alloc: deallocate with live elements")
)

// TrackingStats is a snapshot of Tracking counters.
type TrackingStats struct {
	Allocations   int64
	Deallocations int64
	LiveBuffers   int64
	LiveSlots     int64 // slots in live buffers
	Constructs    int64
	Destroys      int64
	LiveElements  int64
	Violations    int
}

type slotState uint8

const (
	slotRaw slotState = iota
	slotLive
	slotDestroyed
)

type trackedBuffer[T any] struct {
	buf   []T // keeps the storage reachable while tracked
	base  uintptr
	state []slotState
}

// Tracking wraps another allocator, counts every operation, and records
// element lifetime violations instead of corrupting memory silently.
type Tracking[T any] struct {
	inner Allocator[T]

	mu         sync.Mutex
	buffers    map[uintptr]*trackedBuffer[T]
	stats      TrackingStats
	violations []error
	failNext   []error
}

// NewTracking wraps inner. A nil inner selects Heap.
func NewTracking[T any](inner Allocator[T]) *Tracking[T] {
	if inner == nil {
		inner = Heap[T]{}
	}
	return &Tracking[T]{
		inner:   inner,
		buffers: make(map[uintptr]*trackedBuffer[T]),
	}
}

// FailNext makes the next Allocate call return err (wrapped in
// ErrOutOfMemory if err is nil). Calls queue.
func (t *Tracking[T]) FailNext(err error) {
	if err == nil {
		err = ErrOutOfMemory
	}
	t.mu.Lock()
	t.failNext = append(t.failNext, err)
	t.mu.Unlock()
}

// Allocate implements Allocator.
func (t *Tracking[T]) Allocate(n int) ([]T, error) {
	t.mu.Lock()
	if len(t.failNext) > 0 {
		err := t.failNext[0]
		t.failNext = t.failNext[1:]
		t.mu.Unlock()
		return nil, err
	}
	t.mu.Unlock()

	buf, err := t.inner.Allocate(n)
	if err != nil || len(buf) == 0 {
		return buf, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	base := uintptr(unsafe.Pointer(unsafe.SliceData(buf)))
	t.buffers[base] = &trackedBuffer[T]{buf: buf, base: base, state: make([]slotState, len(buf))}
	t.stats.Allocations++
	t.stats.LiveBuffers++
	t.stats.LiveSlots += int64(len(buf))
	return buf, nil
}

// Deallocate implements Allocator.
func (t *Tracking[T]) Deallocate(buf []T) {
	if len(buf) == 0 {
		return
	}

	t.mu.Lock()
	base := uintptr(unsafe.Pointer(unsafe.SliceData(buf)))
	tb, ok := t.buffers[base]
	switch {
	case !ok:
		t.violate(fmt.Errorf("%w: %#x", ErrUnknownBuffer, base))
	default:
		for i, st := range tb.state {
			if st == slotLive {
				t.violate(fmt.Errorf("%w: slot %d", ErrDeallocateLiveSlot, i))
				break
			}
		}
		delete(t.buffers, base)
		t.stats.Deallocations++
		t.stats.LiveBuffers--
		t.stats.LiveSlots -= int64(len(tb.buf))
	}
	t.mu.Unlock()

	if ok {
		t.inner.Deallocate(buf)
	}
}

// locate finds the buffer and index owning slot. Caller holds mu.
func (t *Tracking[T]) locate(slot *T) (*trackedBuffer[T], int, bool) {
	var zero T
	size := unsafe.Sizeof(zero)
	p := uintptr(unsafe.Pointer(slot))
	for _, tb := range t.buffers {
		if size == 0 {
			if p == tb.base {
				return tb, 0, true
			}
			continue
		}
		if p >= tb.base && p < tb.base+uintptr(len(tb.buf))*size {
			return tb, int((p - tb.base) / size), true //nolint:gosec // index < n
		}
	}
	return nil, 0, false
}

// Construct implements Allocator.
func (t *Tracking[T]) Construct(slot *T, v T) {
	t.mu.Lock()
	t.stats.Constructs++
	t.stats.LiveElements++
	if tb, i, ok := t.locate(slot); !ok {
		t.violate(ErrForeignSlot)
	} else if tb.state[i] == slotLive {
		t.violate(fmt.Errorf("%w: slot %d", ErrConstructLive, i))
	} else {
		tb.state[i] = slotLive
	}
	t.mu.Unlock()

	t.inner.Construct(slot, v)
}

// Destroy implements Allocator.
func (t *Tracking[T]) Destroy(slot *T) {
	t.mu.Lock()
	t.stats.Destroys++
	t.stats.LiveElements--
	tb, i, ok := t.locate(slot)
	switch {
	case !ok:
		t.violate(ErrForeignSlot)
	case tb.state[i] == slotDestroyed:
		t.violate(fmt.Errorf("%w: slot %d", ErrDoubleDestroy, i))
	case tb.state[i] == slotRaw:
		t.violate(fmt.Errorf("%w: slot %d", ErrDestroyUnbuilt, i))
	default:
		tb.state[i] = slotDestroyed
	}
	t.mu.Unlock()

	t.inner.Destroy(slot)
}

// Equal implements Allocator. A Tracking allocator is only equal to itself.
func (t *Tracking[T]) Equal(other Allocator[T]) bool {
	o, ok := other.(*Tracking[T])
	return ok && o == t
}

func (t *Tracking[T]) violate(err error) {
	t.violations = append(t.violations, err)
	t.stats.Violations++
}

// Stats returns a snapshot of the counters.
func (t *Tracking[T]) Stats() TrackingStats {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stats
}

// Violations returns every lifetime violation observed, joined.
// Returns nil when there were none.
func (t *Tracking[T]) Violations() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return errors.Join(t.violations...)
}

// Live returns the number of constructed elements in a tracked buffer, or -1
// if buf is not a live allocation of this allocator.
func (t *Tracking[T]) Live(buf []T) int {
	if len(buf) == 0 {
		return 0
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	tb, ok := t.buffers[uintptr(unsafe.Pointer(unsafe.SliceData(buf)))]
	if !ok {
		return -1
	}
	n := 0
	for _, st := range tb.state {
		if st == slotLive {
			n++
		}
	}
	return n
}

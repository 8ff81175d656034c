package dynvec

import (
	"context"
	"fmt"
	"iter"
	"slices"
	"time"
	"unsafe"

	"github.com/hupe1980/dynvec/alloc"
)

// Vector is a contiguous, growable sequence of T whose storage comes from an
// alloc.Allocator.
//
// The zero value is an empty vector using alloc.Heap. A Vector is not safe
// for concurrent use.
//
// Slots [0, Len()) hold constructed elements; slots [Len(), Cap()) are raw.
// Every element is constructed and destroyed through the allocator exactly
// once per lifetime, so element types implementing alloc.Releaser see one
// Release per element. Transferring an element to another slot zeroes the
// source before destroying it; Release must be a no-op on the zero value.
type Vector[T any] struct {
	alloc   alloc.Allocator[T]
	buf     []T // len(buf) == capacity
	size    int
	logger  *Logger
	metrics MetricsCollector
}

// New returns an empty vector. No storage is allocated.
func New[T any](opts ...Option) (*Vector[T], error) {
	o := applyOptions(opts)

	v := &Vector[T]{
		logger:  o.logger,
		metrics: o.metricsCollector,
	}

	if o.allocator != nil {
		a, ok := o.allocator.(alloc.Allocator[T])
		if !ok {
			var zero T
			return nil, fmt.Errorf("%w: %T for element type %T", ErrAllocatorMismatch, o.allocator, zero)
		}
		v.alloc = a
	}

	return v, nil
}

// NewFilled returns a vector of n copies of value. Exactly n slots are allocated.
func NewFilled[T any](n int, value T, opts ...Option) (*Vector[T], error) {
	v, err := New[T](opts...)
	if err != nil {
		return nil, err
	}
	if n <= 0 {
		return v, nil
	}

	buf, err := v.allocate("construct", n)
	if err != nil {
		return nil, err
	}
	v.buf = buf
	v.fill(0, n, value)
	v.size = n
	return v, nil
}

// NewSized returns a vector of n zero values. Exactly n slots are allocated.
func NewSized[T any](n int, opts ...Option) (*Vector[T], error) {
	var zero T
	return NewFilled(n, zero, opts...)
}

// FromSlice returns a vector holding copies of values. Exactly len(values)
// slots are allocated.
func FromSlice[T any](values []T, opts ...Option) (*Vector[T], error) {
	v, err := New[T](opts...)
	if err != nil {
		return nil, err
	}
	if len(values) == 0 {
		return v, nil
	}

	buf, err := v.allocate("construct", len(values))
	if err != nil {
		return nil, err
	}
	v.buf = buf
	v.copyIn(0, values)
	v.size = len(values)
	return v, nil
}

// Of returns a heap-backed vector holding values.
func Of[T any](values ...T) *Vector[T] {
	v := &Vector[T]{}
	if len(values) > 0 {
		v.buf = make([]T, len(values))
		v.copyIn(0, values)
		v.size = len(values)
	}
	return v
}

// NewFromIter returns a vector holding copies of the range [first, last).
func NewFromIter[T any](first, last ConstIterator[T], opts ...Option) (*Vector[T], error) {
	return FromSlice(rangeSlice(first, last), opts...)
}

// FromSeq returns a vector holding the values yielded by seq, grown
// organically one element at a time.
func FromSeq[T any](seq iter.Seq[T], opts ...Option) (*Vector[T], error) {
	v, err := New[T](opts...)
	if err != nil {
		return nil, err
	}
	for x := range seq {
		if err := v.PushBack(x); err != nil {
			v.Release()
			return nil, err
		}
	}
	return v, nil
}

// Clone returns a deep copy using the same allocator. Exactly Len() slots
// are allocated. Elements are copied by assignment.
func (v *Vector[T]) Clone() (*Vector[T], error) {
	c := &Vector[T]{
		alloc:   v.alloc,
		logger:  v.logger,
		metrics: v.metrics,
	}
	if v.size == 0 {
		return c, nil
	}

	buf, err := c.allocate("clone", v.size)
	if err != nil {
		return nil, err
	}
	c.buf = buf
	c.copyIn(0, v.buf[:v.size])
	c.size = v.size
	return c, nil
}

// Take transfers the contents of v into a new vector in O(1). v is left
// empty with no storage and keeps its allocator.
func (v *Vector[T]) Take() *Vector[T] {
	t := *v
	v.buf = nil
	v.size = 0
	return &t
}

// CopyFrom replaces the contents of v with copies of src's elements and
// adopts src's allocator.
//
// If new storage is needed it is acquired before any element of v is
// destroyed; on failure v is unchanged.
func (v *Vector[T]) CopyFrom(src *Vector[T]) error {
	if v == src {
		return nil
	}

	a := src.allocator()
	if src.size > len(v.buf) || !a.Equal(v.allocator()) {
		var buf []T
		if src.size > 0 {
			start := time.Now()
			var err error
			buf, err = a.Allocate(src.size)
			v.collector().RecordAllocate(src.size, time.Since(start), err)
			if err != nil {
				v.log().LogAllocFailure(context.Background(), "copy", src.size, err)
				return allocError("copy", err)
			}
		}
		v.Release()
		v.alloc = src.alloc
		v.buf = buf
	} else {
		v.Clear()
		v.alloc = src.alloc
	}

	v.copyIn(0, src.buf[:src.size])
	v.size = src.size
	return nil
}

// MoveFrom releases the contents of v and steals src's buffer and allocator
// in O(1). src is left empty with no storage.
func (v *Vector[T]) MoveFrom(src *Vector[T]) {
	if v == src {
		return
	}
	v.Release()
	v.alloc = src.alloc
	v.buf = src.buf
	v.size = src.size
	src.buf = nil
	src.size = 0
}

// AssignFilled replaces the contents of v with n copies of value.
func (v *Vector[T]) AssignFilled(n int, value T) error {
	if n < 0 {
		n = 0
	}
	if n > len(v.buf) {
		if err := v.replaceStorage("assign", n); err != nil {
			return err
		}
	} else {
		v.Clear()
	}

	v.fill(0, n, value)
	v.size = n
	return nil
}

// AssignSlice replaces the contents of v with copies of values. values may
// alias v's own storage.
func (v *Vector[T]) AssignSlice(values []T) error {
	if v.aliases(values) {
		values = slices.Clone(values)
	}
	if len(values) > len(v.buf) {
		if err := v.replaceStorage("assign", len(values)); err != nil {
			return err
		}
	} else {
		v.Clear()
	}

	v.copyIn(0, values)
	v.size = len(values)
	return nil
}

// AssignRange replaces the contents of v with copies of [first, last).
func (v *Vector[T]) AssignRange(first, last ConstIterator[T]) error {
	return v.AssignSlice(rangeSlice(first, last))
}

// replaceStorage allocates recommend(n) slots, then destroys every element
// and swaps the new buffer in. On failure v is unchanged.
func (v *Vector[T]) replaceStorage(op string, n int) error {
	if n > v.MaxLen() {
		return &LengthError{Requested: n, Max: v.MaxLen()}
	}

	oldCap := len(v.buf)
	buf, err := v.allocate(op, v.recommend(n))
	if err != nil {
		return err
	}

	v.destroyRange(0, v.size)
	v.size = 0
	old := v.buf
	v.buf = buf
	v.deallocate(old)
	v.log().LogGrow(context.Background(), 0, oldCap, len(buf))
	return nil
}

// At returns the element at i, or an *IndexError if i is outside [0, Len()).
func (v *Vector[T]) At(i int) (T, error) {
	if i < 0 || i >= v.size {
		var zero T
		return zero, &IndexError{Index: i, Len: v.size}
	}
	return v.buf[i], nil
}

// Get returns the element at i. i must be in [0, Len()).
func (v *Vector[T]) Get(i int) T {
	return v.buf[:v.size][i]
}

// Set replaces the element at i. i must be in [0, Len()).
func (v *Vector[T]) Set(i int, value T) {
	v.buf[:v.size][i] = value
}

// Ref returns a pointer to the element at i. The pointer is invalidated by
// any operation that reallocates or shifts elements at or before i.
func (v *Vector[T]) Ref(i int) *T {
	return &v.buf[:v.size][i]
}

// Front returns the first element. The vector must not be empty.
func (v *Vector[T]) Front() T { return v.Get(0) }

// Back returns the last element. The vector must not be empty.
func (v *Vector[T]) Back() T { return v.Get(v.size - 1) }

// FrontRef returns a pointer to the first element.
func (v *Vector[T]) FrontRef() *T { return v.Ref(0) }

// BackRef returns a pointer to the last element.
func (v *Vector[T]) BackRef() *T { return v.Ref(v.size - 1) }

// Data returns the live elements as a slice aliasing v's storage. The slice
// is capped at Len(), so appending to it never writes into v.
func (v *Vector[T]) Data() []T {
	return v.buf[:v.size:v.size]
}

// Len returns the number of elements.
func (v *Vector[T]) Len() int { return v.size }

// Cap returns the number of slots in the current buffer.
func (v *Vector[T]) Cap() int { return len(v.buf) }

// Empty reports whether the vector has no elements.
func (v *Vector[T]) Empty() bool { return v.size == 0 }

// MaxLen returns the largest length the vector can request.
func (v *Vector[T]) MaxLen() int { return max(1, alloc.MaxCount[T]()) }

// Allocator returns the allocator supplying v's storage.
func (v *Vector[T]) Allocator() alloc.Allocator[T] { return v.allocator() }

// Reserve grows the buffer to exactly n slots if n exceeds Cap(). It never
// shrinks. Returns a *LengthError if n exceeds MaxLen().
func (v *Vector[T]) Reserve(n int) error {
	if n > v.MaxLen() {
		return &LengthError{Requested: n, Max: v.MaxLen()}
	}
	if n <= len(v.buf) {
		return nil
	}
	return v.relocate("reserve", n)
}

// ShrinkToFit reallocates the buffer to exactly Len() slots, releasing it
// entirely when empty.
func (v *Vector[T]) ShrinkToFit() error {
	if v.size == len(v.buf) {
		return nil
	}
	if v.size == 0 {
		old := v.buf
		v.buf = nil
		v.deallocate(old)
		v.log().LogShrink(context.Background(), 0, len(old), 0)
		return nil
	}
	return v.relocate("shrink", v.size)
}

// Clear destroys every element. The buffer is kept.
func (v *Vector[T]) Clear() {
	v.destroyRange(0, v.size)
	v.size = 0
}

// Release destroys every element and returns the buffer to the allocator.
// The vector stays usable and empty. Release makes *Vector an
// alloc.Releaser, so vectors nested as elements are released with their
// container.
func (v *Vector[T]) Release() {
	v.Clear()
	old := v.buf
	v.buf = nil
	v.deallocate(old)
}

// Swap exchanges the contents, allocators and configuration of v and other
// in O(1).
func (v *Vector[T]) Swap(other *Vector[T]) {
	*v, *other = *other, *v
}

func (v *Vector[T]) allocator() alloc.Allocator[T] {
	if v.alloc == nil {
		return alloc.Heap[T]{}
	}
	return v.alloc
}

func (v *Vector[T]) log() *Logger {
	if v.logger == nil {
		return NoopLogger()
	}
	return v.logger
}

func (v *Vector[T]) collector() MetricsCollector {
	if v.metrics == nil {
		return NoopMetricsCollector{}
	}
	return v.metrics
}

// recommend returns the capacity to grow to for at least required slots:
// starting from max(1, Cap()), repeatedly c = max(2, c*3/2).
func (v *Vector[T]) recommend(required int) int {
	maxLen := v.MaxLen()
	c := max(1, len(v.buf))
	for c < required {
		if c > maxLen/3*2 {
			return max(required, min(maxLen, c))
		}
		c = max(2, c*3/2)
	}
	return c
}

func (v *Vector[T]) allocate(op string, n int) ([]T, error) {
	if n > v.MaxLen() {
		return nil, &LengthError{Requested: n, Max: v.MaxLen()}
	}

	start := time.Now()
	buf, err := v.allocator().Allocate(n)
	v.collector().RecordAllocate(n, time.Since(start), err)
	if err != nil {
		v.log().LogAllocFailure(context.Background(), op, n, err)
		return nil, allocError(op, err)
	}
	return buf, nil
}

func (v *Vector[T]) deallocate(buf []T) {
	if len(buf) == 0 {
		return
	}
	v.allocator().Deallocate(buf)
	v.collector().RecordDeallocate(len(buf))
}

// relocate moves every element into a fresh buffer of exactly n slots.
func (v *Vector[T]) relocate(op string, n int) error {
	buf, err := v.allocate(op, n)
	if err != nil {
		return err
	}

	a := v.allocator()
	for i := range v.size {
		transfer(a, &buf[i], &v.buf[i])
	}
	v.collector().RecordRelocate(v.size)

	old := v.buf
	v.buf = buf
	v.deallocate(old)

	if n > len(old) {
		v.log().LogGrow(context.Background(), v.size, len(old), n)
	} else {
		v.log().LogShrink(context.Background(), v.size, len(old), n)
	}
	return nil
}

// transfer constructs *dst from *src, then zeroes and destroys *src.
func transfer[T any](a alloc.Allocator[T], dst, src *T) {
	a.Construct(dst, *src)
	var zero T
	*src = zero
	a.Destroy(src)
}

func (v *Vector[T]) fill(from, to int, value T) {
	a := v.allocator()
	for i := from; i < to; i++ {
		a.Construct(&v.buf[i], value)
	}
}

func (v *Vector[T]) copyIn(at int, values []T) {
	a := v.allocator()
	for i, x := range values {
		a.Construct(&v.buf[at+i], x)
	}
}

func (v *Vector[T]) destroyRange(from, to int) {
	a := v.allocator()
	for i := from; i < to; i++ {
		a.Destroy(&v.buf[i])
	}
}

// aliases reports whether values overlaps v's buffer.
func (v *Vector[T]) aliases(values []T) bool {
	if len(values) == 0 || len(v.buf) == 0 {
		return false
	}
	var zero T
	size := unsafe.Sizeof(zero)
	if size == 0 {
		return false
	}
	lo := uintptr(unsafe.Pointer(unsafe.SliceData(v.buf)))
	hi := lo + uintptr(len(v.buf))*size
	p := uintptr(unsafe.Pointer(unsafe.SliceData(values)))
	q := p + uintptr(len(values))*size
	return p < hi && lo < q
}

// rangeSlice returns [first, last) as a slice aliasing the source vector.
func rangeSlice[T any](first, last ConstIterator[T]) []T {
	if first.v == nil || last.i <= first.i {
		return nil
	}
	return first.v.buf[first.i:last.i]
}

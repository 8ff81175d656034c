package dynvec

import "iter"

// Iterator is a random-access position in a Vector with read-write access.
//
// An Iterator does not own anything. It stays valid until an operation
// reallocates the buffer or shifts elements at or before its position.
type Iterator[T any] struct {
	v *Vector[T]
	i int
}

// Get returns the element at the iterator.
func (it Iterator[T]) Get() T { return it.v.buf[it.i] }

// Set replaces the element at the iterator.
func (it Iterator[T]) Set(value T) { it.v.buf[it.i] = value }

// Ptr returns a pointer to the element at the iterator.
func (it Iterator[T]) Ptr() *T { return &it.v.buf[it.i] }

// At returns the element n positions away.
func (it Iterator[T]) At(n int) T { return it.v.buf[it.i+n] }

// Next returns the following position.
func (it Iterator[T]) Next() Iterator[T] { return Iterator[T]{v: it.v, i: it.i + 1} }

// Prev returns the preceding position.
func (it Iterator[T]) Prev() Iterator[T] { return Iterator[T]{v: it.v, i: it.i - 1} }

// Add returns the position n elements away. n may be negative.
func (it Iterator[T]) Add(n int) Iterator[T] { return Iterator[T]{v: it.v, i: it.i + n} }

// Diff returns the distance it - other.
func (it Iterator[T]) Diff(other Iterator[T]) int { return it.i - other.i }

// Equal reports whether both iterators denote the same position.
func (it Iterator[T]) Equal(other Iterator[T]) bool { return it.v == other.v && it.i == other.i }

// Less reports whether it precedes other.
func (it Iterator[T]) Less(other Iterator[T]) bool { return it.i < other.i }

// Index returns the offset from the start of the vector.
func (it Iterator[T]) Index() int { return it.i }

// Const returns the read-only view of the position.
func (it Iterator[T]) Const() ConstIterator[T] { return ConstIterator[T](it) }

// ConstIterator is a random-access position in a Vector with read-only access.
type ConstIterator[T any] struct {
	v *Vector[T]
	i int
}

// Get returns the element at the iterator.
func (it ConstIterator[T]) Get() T { return it.v.buf[it.i] }

// Ptr returns a read-only pointer to the element at the iterator. Writing
// through it is a misuse.
func (it ConstIterator[T]) Ptr() *T { return &it.v.buf[it.i] }

// At returns the element n positions away.
func (it ConstIterator[T]) At(n int) T { return it.v.buf[it.i+n] }

// Next returns the following position.
func (it ConstIterator[T]) Next() ConstIterator[T] { return ConstIterator[T]{v: it.v, i: it.i + 1} }

// Prev returns the preceding position.
func (it ConstIterator[T]) Prev() ConstIterator[T] { return ConstIterator[T]{v: it.v, i: it.i - 1} }

// Add returns the position n elements away.
func (it ConstIterator[T]) Add(n int) ConstIterator[T] { return ConstIterator[T]{v: it.v, i: it.i + n} }

// Diff returns the distance it - other.
func (it ConstIterator[T]) Diff(other ConstIterator[T]) int { return it.i - other.i }

// Equal reports whether both iterators denote the same position.
func (it ConstIterator[T]) Equal(other ConstIterator[T]) bool {
	return it.v == other.v && it.i == other.i
}

// Less reports whether it precedes other.
func (it ConstIterator[T]) Less(other ConstIterator[T]) bool { return it.i < other.i }

// Index returns the offset from the start of the vector.
func (it ConstIterator[T]) Index() int { return it.i }

// Stepper is the random-access iterator shape Reverse adapts.
type Stepper[I any, V any] interface {
	Get() V
	Add(n int) I
	Diff(other I) int
	Equal(other I) bool
}

// Reverse walks a random-access iterator backwards. It holds a base
// position and dereferences the element before it, so the reverse of End()
// denotes the last element.
type Reverse[I Stepper[I, V], V any] struct {
	base I
}

// MakeReverse returns the reverse iterator whose base is base.
func MakeReverse[I Stepper[I, V], V any](base I) Reverse[I, V] {
	return Reverse[I, V]{base: base}
}

// Base returns the underlying forward position.
func (r Reverse[I, V]) Base() I { return r.base }

// Get returns the element before the base position.
func (r Reverse[I, V]) Get() V { return r.base.Add(-1).Get() }

// At returns the element n reverse steps away.
func (r Reverse[I, V]) At(n int) V { return r.base.Add(-n - 1).Get() }

// Next moves one element towards the front.
func (r Reverse[I, V]) Next() Reverse[I, V] { return Reverse[I, V]{base: r.base.Add(-1)} }

// Prev moves one element towards the back.
func (r Reverse[I, V]) Prev() Reverse[I, V] { return Reverse[I, V]{base: r.base.Add(1)} }

// Add moves n reverse steps.
func (r Reverse[I, V]) Add(n int) Reverse[I, V] { return Reverse[I, V]{base: r.base.Add(-n)} }

// Diff returns the reverse distance r - other.
func (r Reverse[I, V]) Diff(other Reverse[I, V]) int { return other.base.Diff(r.base) }

// Equal reports whether both reverse iterators denote the same position.
func (r Reverse[I, V]) Equal(other Reverse[I, V]) bool { return r.base.Equal(other.base) }

// Less reports whether r precedes other in reverse order.
func (r Reverse[I, V]) Less(other Reverse[I, V]) bool { return r.Diff(other) < 0 }

// Begin returns an iterator to the first element.
func (v *Vector[T]) Begin() Iterator[T] { return Iterator[T]{v: v} }

// End returns an iterator one past the last element.
func (v *Vector[T]) End() Iterator[T] { return Iterator[T]{v: v, i: v.size} }

// CBegin returns a read-only iterator to the first element.
func (v *Vector[T]) CBegin() ConstIterator[T] { return ConstIterator[T]{v: v} }

// CEnd returns a read-only iterator one past the last element.
func (v *Vector[T]) CEnd() ConstIterator[T] { return ConstIterator[T]{v: v, i: v.size} }

// RBegin returns a reverse iterator to the last element.
func (v *Vector[T]) RBegin() Reverse[Iterator[T], T] {
	return MakeReverse[Iterator[T], T](v.End())
}

// REnd returns a reverse iterator one before the first element.
func (v *Vector[T]) REnd() Reverse[Iterator[T], T] {
	return MakeReverse[Iterator[T], T](v.Begin())
}

// CRBegin returns a read-only reverse iterator to the last element.
func (v *Vector[T]) CRBegin() Reverse[ConstIterator[T], T] {
	return MakeReverse[ConstIterator[T], T](v.CEnd())
}

// CREnd returns a read-only reverse iterator one before the first element.
func (v *Vector[T]) CREnd() Reverse[ConstIterator[T], T] {
	return MakeReverse[ConstIterator[T], T](v.CBegin())
}

// All returns an iterator over index-value pairs in order.
func (v *Vector[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for i := 0; i < v.size; i++ {
			if !yield(i, v.buf[i]) {
				return
			}
		}
	}
}

// Values returns an iterator over the elements in order.
func (v *Vector[T]) Values() iter.Seq[T] {
	return func(yield func(T) bool) {
		for i := 0; i < v.size; i++ {
			if !yield(v.buf[i]) {
				return
			}
		}
	}
}

// Backward returns an iterator over index-value pairs from last to first.
func (v *Vector[T]) Backward() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for i := v.size - 1; i >= 0; i-- {
			if !yield(i, v.buf[i]) {
				return
			}
		}
	}
}

package dynvec

import (
	"context"
	"iter"
	"slices"
)

// shift opens a gap of count raw slots at offset, growing the buffer if
// needed, and adds count to the length. The caller must construct every gap
// slot before returning to its caller.
//
// When the buffer must grow, the new buffer is allocated before any element
// moves; on failure v is unchanged.
func (v *Vector[T]) shift(offset, count int) error {
	if count <= 0 {
		return nil
	}
	if count > v.MaxLen()-v.size {
		return &LengthError{Requested: v.size + count, Max: v.MaxLen()}
	}

	a := v.allocator()
	newSize := v.size + count

	if newSize <= len(v.buf) {
		// Destination is above the source: walk high to low.
		for i := v.size - 1; i >= offset; i-- {
			transfer(a, &v.buf[i+count], &v.buf[i])
		}
		v.size = newSize
		return nil
	}

	oldCap := len(v.buf)
	buf, err := v.allocate("grow", v.recommend(newSize))
	if err != nil {
		return err
	}

	for i := range offset {
		transfer(a, &buf[i], &v.buf[i])
	}
	for i := offset; i < v.size; i++ {
		transfer(a, &buf[i+count], &v.buf[i])
	}
	v.collector().RecordRelocate(v.size)

	old := v.buf
	v.buf = buf
	v.size = newSize
	v.deallocate(old)
	v.log().LogGrow(context.Background(), newSize, oldCap, len(buf))
	return nil
}

// unshift closes the count slots at offset, which must already be destroyed
// or never constructed, by transferring the tail down.
func (v *Vector[T]) unshift(offset, count int) {
	a := v.allocator()
	for i := offset + count; i < v.size; i++ {
		transfer(a, &v.buf[i-count], &v.buf[i])
	}
	v.size -= count
}

// Insert inserts value before pos and returns an iterator to it.
func (v *Vector[T]) Insert(pos Iterator[T], value T) (Iterator[T], error) {
	off := pos.i
	if err := v.shift(off, 1); err != nil {
		return pos, err
	}
	v.allocator().Construct(&v.buf[off], value)
	return Iterator[T]{v: v, i: off}, nil
}

// InsertN inserts n copies of value before pos and returns an iterator to
// the first inserted element, or pos if n <= 0.
func (v *Vector[T]) InsertN(pos Iterator[T], n int, value T) (Iterator[T], error) {
	if n <= 0 {
		return pos, nil
	}
	off := pos.i
	if err := v.shift(off, n); err != nil {
		return pos, err
	}
	v.fill(off, off+n, value)
	return Iterator[T]{v: v, i: off}, nil
}

// InsertSlice inserts copies of values before pos. values may alias v's own
// storage.
func (v *Vector[T]) InsertSlice(pos Iterator[T], values []T) (Iterator[T], error) {
	if len(values) == 0 {
		return pos, nil
	}
	if v.aliases(values) {
		values = slices.Clone(values)
	}
	off := pos.i
	if err := v.shift(off, len(values)); err != nil {
		return pos, err
	}
	v.copyIn(off, values)
	return Iterator[T]{v: v, i: off}, nil
}

// InsertRange inserts copies of [first, last) before pos one element at a
// time, so capacity grows as it would under repeated Insert. The range may
// belong to v; it is copied before v is modified.
//
// If an allocation fails part way, the elements already inserted are erased
// again and the error is returned.
func (v *Vector[T]) InsertRange(pos Iterator[T], first, last ConstIterator[T]) (Iterator[T], error) {
	values := rangeSlice(first, last)
	if len(values) == 0 {
		return pos, nil
	}
	if first.v == v {
		values = slices.Clone(values)
	}

	off := pos.i
	for k, x := range values {
		if _, err := v.Insert(Iterator[T]{v: v, i: off + k}, x); err != nil {
			v.EraseRange(Iterator[T]{v: v, i: off}, Iterator[T]{v: v, i: off + k})
			return pos, err
		}
	}
	return Iterator[T]{v: v, i: off}, nil
}

// InsertSeq inserts the values yielded by seq before pos. The sequence is
// drained before v is modified, so it may read from v.
func (v *Vector[T]) InsertSeq(pos Iterator[T], seq iter.Seq[T]) (Iterator[T], error) {
	return v.InsertSlice(pos, slices.Collect(seq))
}

// Emplace inserts a zero value before pos and lets init fill it in place.
func (v *Vector[T]) Emplace(pos Iterator[T], init func(*T)) (Iterator[T], error) {
	off := pos.i
	if err := v.shift(off, 1); err != nil {
		return pos, err
	}
	v.construct(off, init)
	return Iterator[T]{v: v, i: off}, nil
}

// PushBack appends value.
func (v *Vector[T]) PushBack(value T) error {
	if err := v.growForAppend(); err != nil {
		return err
	}
	v.allocator().Construct(&v.buf[v.size], value)
	v.size++
	return nil
}

// EmplaceBack appends a zero value and lets init fill it in place.
func (v *Vector[T]) EmplaceBack(init func(*T)) error {
	if err := v.growForAppend(); err != nil {
		return err
	}
	v.construct(v.size, init)
	v.size++
	return nil
}

func (v *Vector[T]) growForAppend() error {
	if v.size < len(v.buf) {
		return nil
	}
	if v.size >= v.MaxLen() {
		return &LengthError{Requested: v.size + 1, Max: v.MaxLen()}
	}
	return v.relocate("grow", v.recommend(v.size+1))
}

func (v *Vector[T]) construct(i int, init func(*T)) {
	var zero T
	v.allocator().Construct(&v.buf[i], zero)
	if init != nil {
		init(&v.buf[i])
	}
}

// PopBack destroys the last element. The vector must not be empty.
func (v *Vector[T]) PopBack() {
	v.size--
	v.allocator().Destroy(&v.buf[v.size])
}

// Erase removes the element at pos and returns an iterator to the element
// that followed it.
func (v *Vector[T]) Erase(pos Iterator[T]) Iterator[T] {
	return v.EraseRange(pos, pos.Next())
}

// EraseRange removes [first, last) and returns an iterator to the element
// that followed the range.
func (v *Vector[T]) EraseRange(first, last Iterator[T]) Iterator[T] {
	n := last.i - first.i
	if n <= 0 {
		return first
	}
	v.destroyRange(first.i, last.i)
	v.unshift(first.i, n)
	return Iterator[T]{v: v, i: first.i}
}

// Resize changes the length to n, appending zero values or destroying the
// tail as needed.
func (v *Vector[T]) Resize(n int) error {
	var zero T
	return v.ResizeWith(n, zero)
}

// ResizeWith changes the length to n, appending copies of value or
// destroying the tail as needed.
func (v *Vector[T]) ResizeWith(n int, value T) error {
	if n < 0 {
		n = 0
	}
	if n <= v.size {
		v.destroyRange(n, v.size)
		v.size = n
		return nil
	}
	if n > v.MaxLen() {
		return &LengthError{Requested: n, Max: v.MaxLen()}
	}
	if n > len(v.buf) {
		if err := v.relocate("resize", v.recommend(n)); err != nil {
			return err
		}
	}
	v.fill(v.size, n, value)
	v.size = n
	return nil
}

// EraseValue removes every element equal to x and returns how many were
// removed.
func EraseValue[T comparable](v *Vector[T], x T) int {
	return EraseFunc(v, func(e T) bool { return e == x })
}

// EraseFunc removes every element for which del returns true and returns
// how many were removed. The relative order of the kept elements is
// preserved.
func EraseFunc[T any](v *Vector[T], del func(T) bool) int {
	a := v.allocator()
	w := 0
	for r := range v.size {
		if del(v.buf[r]) {
			a.Destroy(&v.buf[r])
			continue
		}
		if w != r {
			transfer(a, &v.buf[w], &v.buf[r])
		}
		w++
	}
	removed := v.size - w
	v.size = w
	return removed
}

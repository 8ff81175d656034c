package dynvec

import (
	"iter"
	"math"
	"slices"

	"github.com/hupe1980/dynvec/alloc"
	"github.com/hupe1980/dynvec/internal/bitset"
)

// WordBits is the number of bits packed into one storage word.
const WordBits = bitset.WordBits

// BitVector is a growable sequence of bits packed into 64-bit words.
//
// Words are held in a *Vector[uint64], so a BitVector uses the allocator,
// growth policy and failure semantics of a Vector. Bits at positions >= Len()
// in the last word are always zero.
//
// The zero value is an empty bit vector using alloc.Heap.
type BitVector struct {
	words *Vector[uint64] // Len() == ceil(size/64)
	size  int
}

// NewBitVector returns an empty bit vector. Word storage options such as
// WithWordAllocator apply to the backing word vector.
func NewBitVector(opts ...Option) (*BitVector, error) {
	words, err := New[uint64](opts...)
	if err != nil {
		return nil, err
	}
	return &BitVector{words: words}, nil
}

// NewBitVectorFilled returns a bit vector of n bits set to value.
func NewBitVectorFilled(n int, value bool, opts ...Option) (*BitVector, error) {
	n = max(n, 0)
	words, err := NewFilled(bitset.WordsFor(n), bitset.Fill(value), opts...)
	if err != nil {
		return nil, err
	}
	b := &BitVector{words: words, size: n}
	b.maskTail()
	return b, nil
}

// NewBitVectorSized returns a bit vector of n false bits.
func NewBitVectorSized(n int, opts ...Option) (*BitVector, error) {
	return NewBitVectorFilled(n, false, opts...)
}

// BitsFromSlice returns a bit vector holding values.
func BitsFromSlice(values []bool, opts ...Option) (*BitVector, error) {
	b, err := NewBitVectorSized(len(values), opts...)
	if err != nil {
		return nil, err
	}
	words := b.words.Data()
	for i, x := range values {
		if x {
			bitset.Assign(words, i, true)
		}
	}
	return b, nil
}

// BitsOf returns a heap-backed bit vector holding values.
func BitsOf(values ...bool) *BitVector {
	b := &BitVector{words: Of(make([]uint64, bitset.WordsFor(len(values)))...), size: len(values)}
	words := b.words.Data()
	for i, x := range values {
		if x {
			bitset.Assign(words, i, true)
		}
	}
	return b
}

// BitsFromSeq returns a bit vector holding the values yielded by seq.
func BitsFromSeq(seq iter.Seq[bool], opts ...Option) (*BitVector, error) {
	b, err := NewBitVector(opts...)
	if err != nil {
		return nil, err
	}
	for x := range seq {
		if err := b.PushBack(x); err != nil {
			b.Release()
			return nil, err
		}
	}
	return b, nil
}

// NewBitVectorFromIter returns a bit vector holding copies of [first, last).
func NewBitVectorFromIter(first, last ConstBitIterator, opts ...Option) (*BitVector, error) {
	return BitsFromSlice(bitRange(first, last), opts...)
}

func (b *BitVector) w() *Vector[uint64] {
	if b.words == nil {
		b.words = &Vector[uint64]{}
	}
	return b.words
}

// Clone returns a deep copy using the same allocator.
func (b *BitVector) Clone() (*BitVector, error) {
	words, err := b.w().Clone()
	if err != nil {
		return nil, err
	}
	return &BitVector{words: words, size: b.size}, nil
}

// Take transfers the contents of b into a new bit vector in O(1). b is left
// empty with no storage.
func (b *BitVector) Take() *BitVector {
	t := &BitVector{words: b.w().Take(), size: b.size}
	b.size = 0
	return t
}

// CopyFrom replaces the contents of b with a copy of src and adopts src's
// allocator. On failure b is unchanged.
func (b *BitVector) CopyFrom(src *BitVector) error {
	if b == src {
		return nil
	}
	if err := b.w().CopyFrom(src.w()); err != nil {
		return err
	}
	b.size = src.size
	return nil
}

// MoveFrom releases b's storage and steals src's in O(1).
func (b *BitVector) MoveFrom(src *BitVector) {
	if b == src {
		return
	}
	b.w().MoveFrom(src.w())
	b.size = src.size
	src.size = 0
}

// AssignFilled replaces the contents of b with n bits set to value.
func (b *BitVector) AssignFilled(n int, value bool) error {
	n = max(n, 0)
	if err := b.w().AssignFilled(bitset.WordsFor(n), bitset.Fill(value)); err != nil {
		return err
	}
	b.size = n
	b.maskTail()
	return nil
}

// AssignSlice replaces the contents of b with values.
func (b *BitVector) AssignSlice(values []bool) error {
	if err := b.w().AssignFilled(bitset.WordsFor(len(values)), 0); err != nil {
		return err
	}
	b.size = len(values)
	words := b.words.Data()
	for i, x := range values {
		if x {
			bitset.Assign(words, i, true)
		}
	}
	return nil
}

// AssignRange replaces the contents of b with copies of [first, last).
func (b *BitVector) AssignRange(first, last ConstBitIterator) error {
	return b.AssignSlice(bitRange(first, last))
}

// At returns bit i, or an *IndexError if i is outside [0, Len()).
func (b *BitVector) At(i int) (bool, error) {
	if i < 0 || i >= b.size {
		return false, &IndexError{Index: i, Len: b.size}
	}
	return b.Get(i), nil
}

// Get returns bit i. i must be in [0, Len()).
func (b *BitVector) Get(i int) bool {
	return b.Ref(i).Get()
}

// Set assigns bit i. i must be in [0, Len()).
func (b *BitVector) Set(i int, value bool) {
	b.Ref(i).Set(value)
}

// Ref returns a proxy reference to bit i. The reference is invalidated by
// any operation that reallocates the word storage.
func (b *BitVector) Ref(i int) BitReference {
	w, off := bitset.Locate(i)
	return BitReference{word: b.w().Ref(w), off: off}
}

// Front returns the first bit. The bit vector must not be empty.
func (b *BitVector) Front() bool { return b.Get(0) }

// Back returns the last bit. The bit vector must not be empty.
func (b *BitVector) Back() bool { return b.Get(b.size - 1) }

// Flip inverts every bit.
func (b *BitVector) Flip() {
	words := b.w().Data()
	for i := range words {
		words[i] = ^words[i]
	}
	b.maskTail()
}

// Count returns the number of set bits.
func (b *BitVector) Count() int {
	return bitset.Count(b.w().Data())
}

// Words returns the packed words, least significant bit first. The slice
// aliases b's storage and must not be modified.
func (b *BitVector) Words() []uint64 {
	return b.w().Data()
}

// Len returns the number of bits.
func (b *BitVector) Len() int { return b.size }

// Cap returns the number of bits the current word buffer can hold.
func (b *BitVector) Cap() int { return b.w().Cap() * WordBits }

// Empty reports whether the bit vector has no bits.
func (b *BitVector) Empty() bool { return b.size == 0 }

// MaxLen returns the largest length the bit vector can request.
func (b *BitVector) MaxLen() int {
	return min(b.w().MaxLen(), math.MaxInt/WordBits) * WordBits
}

// Allocator returns the allocator supplying the word storage.
func (b *BitVector) Allocator() alloc.Allocator[uint64] { return b.w().Allocator() }

// Reserve grows the word buffer to hold at least n bits.
func (b *BitVector) Reserve(n int) error {
	if n > b.MaxLen() {
		return &LengthError{Requested: n, Max: b.MaxLen()}
	}
	return b.w().Reserve(bitset.WordsFor(n))
}

// ShrinkToFit reallocates the word buffer to exactly the words in use.
func (b *BitVector) ShrinkToFit() error {
	return b.w().ShrinkToFit()
}

// Clear removes every bit. The word buffer is kept.
func (b *BitVector) Clear() {
	b.w().Clear()
	b.size = 0
}

// Release removes every bit and returns the word buffer to the allocator.
func (b *BitVector) Release() {
	b.w().Release()
	b.size = 0
}

// Swap exchanges the contents of b and other in O(1).
func (b *BitVector) Swap(other *BitVector) {
	*b, *other = *other, *b
}

// maskTail clears the bits past size in the last word.
func (b *BitVector) maskTail() {
	words := b.w().Data()
	if len(words) > 0 {
		words[len(words)-1] &= bitset.TailMask(b.size)
	}
}

// growWords appends zero words until n bits fit.
func (b *BitVector) growWords(n int) error {
	need := bitset.WordsFor(n)
	w := b.w()
	if need <= w.Len() {
		return nil
	}
	_, err := w.InsertN(w.End(), need-w.Len(), 0)
	return err
}

// trim drops words past size and clears the tail bits.
func (b *BitVector) trim() {
	w := b.w()
	if need := bitset.WordsFor(b.size); need < w.Len() {
		_ = w.Resize(need) // shrinking never allocates
	}
	b.maskTail()
}

// shift opens a gap of count bits at off. The gap bits hold stale values
// until the caller assigns them.
func (b *BitVector) shift(off, count int) error {
	if count <= 0 {
		return nil
	}
	if count > b.MaxLen()-b.size {
		return &LengthError{Requested: b.size + count, Max: b.MaxLen()}
	}
	if err := b.growWords(b.size + count); err != nil {
		return err
	}
	for i := b.size - 1; i >= off; i-- {
		b.Ref(i + count).Set(b.Ref(i).Get())
	}
	b.size += count
	return nil
}

// Insert inserts value before pos and returns an iterator to it.
func (b *BitVector) Insert(pos BitIterator, value bool) (BitIterator, error) {
	off := pos.Index()
	if err := b.shift(off, 1); err != nil {
		return pos, err
	}
	b.Set(off, value)
	return b.iterAt(off), nil
}

// InsertN inserts n copies of value before pos.
func (b *BitVector) InsertN(pos BitIterator, n int, value bool) (BitIterator, error) {
	if n <= 0 {
		return pos, nil
	}
	off := pos.Index()
	if err := b.shift(off, n); err != nil {
		return pos, err
	}
	for i := off; i < off+n; i++ {
		b.Set(i, value)
	}
	return b.iterAt(off), nil
}

// InsertSlice inserts values before pos.
func (b *BitVector) InsertSlice(pos BitIterator, values []bool) (BitIterator, error) {
	if len(values) == 0 {
		return pos, nil
	}
	off := pos.Index()
	if err := b.shift(off, len(values)); err != nil {
		return pos, err
	}
	for k, x := range values {
		b.Set(off+k, x)
	}
	return b.iterAt(off), nil
}

// InsertRange inserts copies of [first, last) before pos. The range may
// belong to b.
func (b *BitVector) InsertRange(pos BitIterator, first, last ConstBitIterator) (BitIterator, error) {
	return b.InsertSlice(pos, bitRange(first, last))
}

// InsertSeq inserts the values yielded by seq before pos.
func (b *BitVector) InsertSeq(pos BitIterator, seq iter.Seq[bool]) (BitIterator, error) {
	return b.InsertSlice(pos, slices.Collect(seq))
}

// Emplace inserts value before pos. For bits it is the same as Insert.
func (b *BitVector) Emplace(pos BitIterator, value bool) (BitIterator, error) {
	return b.Insert(pos, value)
}

// PushBack appends value.
func (b *BitVector) PushBack(value bool) error {
	if b.size >= b.MaxLen() {
		return &LengthError{Requested: b.size + 1, Max: b.MaxLen()}
	}
	if err := b.growWords(b.size + 1); err != nil {
		return err
	}
	b.size++
	b.Set(b.size-1, value)
	return nil
}

// PopBack removes the last bit. The bit vector must not be empty.
func (b *BitVector) PopBack() {
	b.size--
	b.trim()
}

// Erase removes the bit at pos and returns an iterator to the bit that
// followed it.
func (b *BitVector) Erase(pos BitIterator) BitIterator {
	return b.EraseRange(pos, pos.Next())
}

// EraseRange removes [first, last) and returns an iterator to the bit that
// followed the range.
func (b *BitVector) EraseRange(first, last BitIterator) BitIterator {
	from, to := first.Index(), last.Index()
	n := to - from
	if n <= 0 {
		return first
	}
	for i := to; i < b.size; i++ {
		b.Ref(i - n).Set(b.Ref(i).Get())
	}
	b.size -= n
	b.trim()
	return b.iterAt(from)
}

// Resize changes the length to n, appending false bits or dropping the tail.
func (b *BitVector) Resize(n int) error {
	return b.ResizeWith(n, false)
}

// ResizeWith changes the length to n, appending bits set to value or
// dropping the tail.
func (b *BitVector) ResizeWith(n int, value bool) error {
	n = max(n, 0)
	if n <= b.size {
		b.size = n
		b.trim()
		return nil
	}
	if n > b.MaxLen() {
		return &LengthError{Requested: n, Max: b.MaxLen()}
	}
	if err := b.growWords(n); err != nil {
		return err
	}
	old := b.size
	b.size = n
	if value {
		for i := old; i < n; i++ {
			b.Set(i, true)
		}
	}
	return nil
}

// All returns an iterator over index-bit pairs in order.
func (b *BitVector) All() iter.Seq2[int, bool] {
	return func(yield func(int, bool) bool) {
		for i := 0; i < b.size; i++ {
			if !yield(i, b.Get(i)) {
				return
			}
		}
	}
}

// Values returns an iterator over the bits in order.
func (b *BitVector) Values() iter.Seq[bool] {
	return func(yield func(bool) bool) {
		for i := 0; i < b.size; i++ {
			if !yield(b.Get(i)) {
				return
			}
		}
	}
}

// Backward returns an iterator over index-bit pairs from last to first.
func (b *BitVector) Backward() iter.Seq2[int, bool] {
	return func(yield func(int, bool) bool) {
		for i := b.size - 1; i >= 0; i-- {
			if !yield(i, b.Get(i)) {
				return
			}
		}
	}
}

// bitRange copies [first, last) out of its bit vector.
func bitRange(first, last ConstBitIterator) []bool {
	n := last.Diff(first)
	if first.b == nil || n <= 0 {
		return nil
	}
	out := make([]bool, n)
	for k := range out {
		out[k] = first.At(k)
	}
	return out
}

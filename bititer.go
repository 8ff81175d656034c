package dynvec

import "github.com/hupe1980/dynvec/internal/bitset"

// BitReference is a short-lived proxy for one bit inside a word. Do not keep
// it across operations that may reallocate the bit vector.
type BitReference struct {
	word *uint64
	off  uint
}

// Get returns the referenced bit.
func (r BitReference) Get() bool { return (*r.word>>r.off)&1 != 0 }

// Set assigns the referenced bit.
func (r BitReference) Set(v bool) {
	if v {
		*r.word |= uint64(1) << r.off
	} else {
		*r.word &^= uint64(1) << r.off
	}
}

// Flip inverts the referenced bit.
func (r BitReference) Flip() { *r.word ^= uint64(1) << r.off }

// Assign copies the value of other into the referenced bit.
func (r BitReference) Assign(other BitReference) { r.Set(other.Get()) }

// BitIterator is a random-access position in a BitVector, held as a word
// index and a bit offset in [0, 64).
type BitIterator struct {
	b    *BitVector
	word int
	off  uint
}

func (b *BitVector) iterAt(i int) BitIterator {
	w, off := bitset.Locate(i)
	return BitIterator{b: b, word: w, off: off}
}

func (it BitIterator) ref() BitReference {
	return BitReference{word: &it.b.w().buf[it.word], off: it.off}
}

// Ref returns a proxy reference to the bit at the iterator.
func (it BitIterator) Ref() BitReference { return it.ref() }

// Get returns the bit at the iterator.
func (it BitIterator) Get() bool { return it.ref().Get() }

// Set assigns the bit at the iterator.
func (it BitIterator) Set(v bool) { it.ref().Set(v) }

// At returns the bit n positions away.
func (it BitIterator) At(n int) bool { return it.Add(n).Get() }

// Next returns the following position.
func (it BitIterator) Next() BitIterator { return it.Add(1) }

// Prev returns the preceding position.
func (it BitIterator) Prev() BitIterator { return it.Add(-1) }

// Add returns the position n bits away. Offsets that leave the current word
// carry into the word index with floor division, so stepping back from
// offset 0 lands on offset 63 of the previous word.
func (it BitIterator) Add(n int) BitIterator {
	dw, off := bitset.Locate(int(it.off) + n) //nolint:gosec // off < 64
	return BitIterator{b: it.b, word: it.word + dw, off: off}
}

// Diff returns the distance it - other in bits.
func (it BitIterator) Diff(other BitIterator) int {
	return (it.word-other.word)*WordBits + int(it.off) - int(other.off) //nolint:gosec // off < 64
}

// Equal reports whether both iterators denote the same position.
func (it BitIterator) Equal(other BitIterator) bool {
	return it.b == other.b && it.word == other.word && it.off == other.off
}

// Less reports whether it precedes other.
func (it BitIterator) Less(other BitIterator) bool {
	return it.word < other.word || (it.word == other.word && it.off < other.off)
}

// Index returns the bit position from the start of the bit vector.
func (it BitIterator) Index() int { return it.word*WordBits + int(it.off) } //nolint:gosec // off < 64

// Const returns the read-only view of the position.
func (it BitIterator) Const() ConstBitIterator { return ConstBitIterator(it) }

// ConstBitIterator is a read-only random-access position in a BitVector.
type ConstBitIterator struct {
	b    *BitVector
	word int
	off  uint
}

func (it ConstBitIterator) mutable() BitIterator { return BitIterator(it) }

// Get returns the bit at the iterator.
func (it ConstBitIterator) Get() bool { return it.mutable().Get() }

// At returns the bit n positions away.
func (it ConstBitIterator) At(n int) bool { return it.mutable().At(n) }

// Next returns the following position.
func (it ConstBitIterator) Next() ConstBitIterator { return it.Add(1) }

// Prev returns the preceding position.
func (it ConstBitIterator) Prev() ConstBitIterator { return it.Add(-1) }

// Add returns the position n bits away.
func (it ConstBitIterator) Add(n int) ConstBitIterator { return it.mutable().Add(n).Const() }

// Diff returns the distance it - other in bits.
func (it ConstBitIterator) Diff(other ConstBitIterator) int {
	return it.mutable().Diff(other.mutable())
}

// Equal reports whether both iterators denote the same position.
func (it ConstBitIterator) Equal(other ConstBitIterator) bool {
	return it.mutable().Equal(other.mutable())
}

// Less reports whether it precedes other.
func (it ConstBitIterator) Less(other ConstBitIterator) bool {
	return it.mutable().Less(other.mutable())
}

// Index returns the bit position from the start of the bit vector.
func (it ConstBitIterator) Index() int { return it.mutable().Index() }

// Begin returns an iterator to the first bit.
func (b *BitVector) Begin() BitIterator { return BitIterator{b: b} }

// End returns an iterator one past the last bit.
func (b *BitVector) End() BitIterator { return b.iterAt(b.size) }

// CBegin returns a read-only iterator to the first bit.
func (b *BitVector) CBegin() ConstBitIterator { return b.Begin().Const() }

// CEnd returns a read-only iterator one past the last bit.
func (b *BitVector) CEnd() ConstBitIterator { return b.End().Const() }

// RBegin returns a reverse iterator to the last bit.
func (b *BitVector) RBegin() Reverse[BitIterator, bool] {
	return MakeReverse[BitIterator, bool](b.End())
}

// REnd returns a reverse iterator one before the first bit.
func (b *BitVector) REnd() Reverse[BitIterator, bool] {
	return MakeReverse[BitIterator, bool](b.Begin())
}

// CRBegin returns a read-only reverse iterator to the last bit.
func (b *BitVector) CRBegin() Reverse[ConstBitIterator, bool] {
	return MakeReverse[ConstBitIterator, bool](b.CEnd())
}

// CREnd returns a read-only reverse iterator one before the first bit.
func (b *BitVector) CREnd() Reverse[ConstBitIterator, bool] {
	return MakeReverse[ConstBitIterator, bool](b.CBegin())
}

package dynvec

import (
	"fmt"
	"slices"

	"github.com/RoaringBitmap/roaring/v2"
	bbitset "github.com/bits-and-blooms/bitset"

	"github.com/hupe1980/dynvec/internal/bitset"
	"github.com/hupe1980/dynvec/internal/conv"
)

// ToBitSet returns a copy of b as a bits-and-blooms BitSet of the same length.
// Both use the same little-endian 64-bit word layout.
func (b *BitVector) ToBitSet() *bbitset.BitSet {
	return bbitset.FromWithLength(uint(b.size), slices.Clone(b.Words())) //nolint:gosec // size >= 0
}

// BitsFromBitSet returns a bit vector holding a copy of bs.
func BitsFromBitSet(bs *bbitset.BitSet, opts ...Option) (*BitVector, error) {
	n, err := conv.Uint64ToInt(uint64(bs.Len()))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLength, err)
	}

	b, err := NewBitVectorSized(n, opts...)
	if err != nil {
		return nil, err
	}
	copy(b.Words(), bs.Bytes())
	b.maskTail()
	return b, nil
}

// ToRoaring returns the positions of the set bits as a roaring bitmap.
// Positions must fit in uint32; a set bit at or beyond 1<<32 yields an error
// wrapping ErrLength.
func (b *BitVector) ToRoaring() (*roaring.Bitmap, error) {
	words := b.Words()
	bm := roaring.New()

	batch := make([]uint32, 0, 256)
	for i := bitset.NextSetBit(words, b.size, 0); i >= 0; i = bitset.NextSetBit(words, b.size, i+1) {
		pos, err := conv.IntToUint32(i)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLength, err)
		}
		batch = append(batch, pos)
		if len(batch) == cap(batch) {
			bm.AddMany(batch)
			batch = batch[:0]
		}
	}
	bm.AddMany(batch)
	return bm, nil
}

// BitsFromRoaring returns a bit vector of n bits with the positions in bm
// set. A position >= n yields an *IndexError.
func BitsFromRoaring(bm *roaring.Bitmap, n int, opts ...Option) (*BitVector, error) {
	if !bm.IsEmpty() && int64(bm.Maximum()) >= int64(n) {
		return nil, &IndexError{Index: int(bm.Maximum()), Len: n}
	}

	b, err := NewBitVectorSized(n, opts...)
	if err != nil {
		return nil, err
	}
	words := b.Words()
	it := bm.Iterator()
	for it.HasNext() {
		bitset.Assign(words, int(it.Next()), true)
	}
	return b, nil
}

package dynvec

import (
	"testing"

	"github.com/RoaringBitmap/roaring/v2"
	bbitset "github.com/bits-and-blooms/bitset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBitSetInterop(t *testing.T) {
	b, err := NewBitVectorSized(130)
	require.NoError(t, err)
	for _, i := range []int{0, 63, 64, 129} {
		b.Set(i, true)
	}

	bs := b.ToBitSet()
	assert.Equal(t, uint(130), bs.Len())
	assert.Equal(t, uint(4), bs.Count())
	assert.True(t, bs.Test(64))
	assert.False(t, bs.Test(65))

	bs.Set(1)
	assert.False(t, b.Get(1), "ToBitSet copies")

	back, err := BitsFromBitSet(bs)
	require.NoError(t, err)
	assert.Equal(t, 130, back.Len())
	assert.Equal(t, 5, back.Count())
	assert.True(t, back.Get(1))
}

func TestBitsFromBitSet_MasksTail(t *testing.T) {
	bs := bbitset.FromWithLength(10, []uint64{^uint64(0)})

	b, err := BitsFromBitSet(bs)
	require.NoError(t, err)
	assert.Equal(t, bs.Len(), uint(b.Len()))
	assert.Equal(t, 10, b.Count())
	assert.Equal(t, uint64(1<<10-1), b.Words()[0])
}

func TestRoaringInterop(t *testing.T) {
	b, err := NewBitVectorSized(1000)
	require.NoError(t, err)
	set := []uint32{0, 5, 64, 511, 999}
	for _, i := range set {
		b.Set(int(i), true)
	}

	bm, err := b.ToRoaring()
	require.NoError(t, err)
	assert.Equal(t, set, bm.ToArray())

	back, err := BitsFromRoaring(bm, 1000)
	require.NoError(t, err)
	assert.True(t, BitsEqual(b, back))

	empty, err := BitsFromRoaring(roaring.New(), 3)
	require.NoError(t, err)
	assert.Equal(t, 3, empty.Len())
	assert.Equal(t, 0, empty.Count())
}

func TestBitsFromRoaring_OutOfRange(t *testing.T) {
	_, err := BitsFromRoaring(roaring.BitmapOf(1, 10), 10)
	require.ErrorIs(t, err, ErrOutOfRange)

	var ie *IndexError
	require.ErrorAs(t, err, &ie)
	assert.Equal(t, 10, ie.Index)
}

func TestToRoaring_ManyBits(t *testing.T) {
	b, err := NewBitVectorFilled(1000, true)
	require.NoError(t, err)

	bm, err := b.ToRoaring()
	require.NoError(t, err)
	assert.Equal(t, uint64(1000), bm.GetCardinality())
}

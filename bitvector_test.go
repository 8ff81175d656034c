package dynvec

import (
	"slices"
	"testing"

	"github.com/hupe1980/dynvec/alloc"
	"github.com/hupe1980/dynvec/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bitsOf(b *BitVector) []bool {
	return slices.Collect(b.Values())
}

func TestScenarioC_ReverseBits(t *testing.T) {
	b := BitsOf(false, true, true, false, true)

	rb := b.RBegin()
	assert.True(t, rb.Get())
	assert.False(t, rb.Add(1).Get())
	assert.Equal(t, 5, b.REnd().Diff(b.RBegin()))

	var got []bool
	for it := b.CRBegin(); !it.Equal(b.CREnd()); it = it.Next() {
		got = append(got, it.Get())
	}
	assert.Equal(t, []bool{true, false, true, true, false}, got)
}

func TestBitVector_Filled(t *testing.T) {
	b, err := NewBitVectorFilled(70, true)
	require.NoError(t, err)

	assert.Equal(t, 70, b.Len())
	assert.Equal(t, 70, b.Count())
	require.Len(t, b.Words(), 2)
	assert.Equal(t, uint64(1<<6-1), b.Words()[1], "tail bits must stay clear")
	assert.Equal(t, 128, b.Cap())
}

func TestBitVector_Access(t *testing.T) {
	b, err := NewBitVectorSized(130)
	require.NoError(t, err)

	b.Set(0, true)
	b.Set(64, true)
	b.Ref(129).Set(true)
	assert.True(t, b.Front())
	assert.True(t, b.Back())
	assert.True(t, b.Get(64))
	assert.False(t, b.Get(63))
	assert.Equal(t, 3, b.Count())

	r := b.Ref(63)
	r.Flip()
	assert.True(t, b.Get(63))
	b.Ref(1).Assign(b.Ref(63))
	assert.True(t, b.Get(1))

	_, err = b.At(130)
	assert.ErrorIs(t, err, ErrOutOfRange)
	v, err := b.At(129)
	require.NoError(t, err)
	assert.True(t, v)
}

func TestBitVector_Flip(t *testing.T) {
	b := BitsOf(true, false, true)
	require.NoError(t, b.ResizeWith(67, false))

	b.Flip()
	assert.Equal(t, 65, b.Count())
	assert.False(t, b.Get(0))
	assert.True(t, b.Get(1))
	assert.Zero(t, b.Words()[1]&^uint64(0b111), "tail bits must stay clear")
}

func TestBitVector_IteratorArithmetic(t *testing.T) {
	b, err := NewBitVectorSized(200)
	require.NoError(t, err)
	b.Set(63, true)
	b.Set(64, true)
	b.Set(127, true)

	it := b.Begin().Add(64)
	assert.Equal(t, 64, it.Index())
	assert.True(t, it.Get())

	prev := it.Prev()
	assert.Equal(t, 63, prev.Index())
	assert.True(t, prev.Get())

	back := it.Add(-65)
	assert.True(t, back.Equal(b.Begin().Prev()))
	assert.Equal(t, -1, back.Index())

	far := b.Begin().Add(190).Add(-63)
	assert.Equal(t, 127, far.Index())
	assert.True(t, far.Get())
	assert.True(t, b.Begin().At(127))

	assert.Equal(t, 200, b.End().Diff(b.Begin()))
	assert.Equal(t, -137, b.Begin().Add(63).Diff(b.End()))
	assert.True(t, b.Begin().Less(b.End()))
	assert.False(t, b.End().Less(b.End()))

	c := b.CBegin().Add(64)
	assert.True(t, c.Get())
	assert.Equal(t, 64, c.Index())
	assert.True(t, c.Prev().Next().Equal(c))

	it.Set(false)
	assert.False(t, b.Get(64))
}

func TestBitVector_InsertErase(t *testing.T) {
	rng := testutil.NewRNG(4711)
	model := rng.Bools(100)
	b, err := BitsFromSlice(model)
	require.NoError(t, err)

	it, err := b.Insert(b.Begin().Add(63), true)
	require.NoError(t, err)
	assert.Equal(t, 63, it.Index())
	model = slices.Insert(model, 63, true)

	_, err = b.InsertN(b.Begin().Add(10), 70, true)
	require.NoError(t, err)
	model = slices.Insert(model, 10, slices.Repeat([]bool{true}, 70)...)

	_, err = b.InsertSlice(b.End(), []bool{false, true})
	require.NoError(t, err)
	model = append(model, false, true)

	_, err = b.Emplace(b.Begin(), false)
	require.NoError(t, err)
	model = slices.Insert(model, 0, false)

	require.Equal(t, model, bitsOf(b))

	b.EraseRange(b.Begin().Add(5), b.Begin().Add(90))
	model = slices.Delete(model, 5, 90)
	b.Erase(b.Begin().Add(64))
	model = slices.Delete(model, 64, 65)
	require.Equal(t, model, bitsOf(b))

	assert.Len(t, b.Words(), (len(model)+63)/64)
	count := 0
	for _, x := range model {
		if x {
			count++
		}
	}
	assert.Equal(t, count, b.Count())
}

func TestBitVector_Randomized(t *testing.T) {
	rng := testutil.NewRNG(2024)
	var b BitVector
	var model []bool

	for step := range 3000 {
		switch rng.Intn(8) {
		case 0, 1:
			x := rng.Bool()
			require.NoError(t, b.PushBack(x))
			model = append(model, x)
		case 2:
			pos := rng.Intn(len(model) + 1)
			n := rng.Intn(150)
			x := rng.Bool()
			_, err := b.InsertN(b.Begin().Add(pos), n, x)
			require.NoError(t, err)
			model = slices.Insert(model, pos, slices.Repeat([]bool{x}, n)...)
		case 3:
			if len(model) == 0 {
				continue
			}
			first := rng.Intn(len(model))
			last := first + rng.Intn(len(model)-first+1)
			b.EraseRange(b.Begin().Add(first), b.Begin().Add(last))
			model = slices.Delete(model, first, last)
		case 4:
			n := rng.Intn(len(model) + 130)
			x := rng.Bool()
			require.NoError(t, b.ResizeWith(n, x))
			for len(model) < n {
				model = append(model, x)
			}
			model = model[:n]
		case 5:
			if len(model) > 0 {
				b.PopBack()
				model = model[:len(model)-1]
			}
		case 6:
			b.Flip()
			for i := range model {
				model[i] = !model[i]
			}
		case 7:
			require.NoError(t, b.ShrinkToFit())
			require.Equal(t, (len(model)+63)/64*64, b.Cap())
		}

		require.Equal(t, len(model), b.Len(), "step %d", step)
		require.Len(t, b.Words(), (len(model)+63)/64)
		if words := b.Words(); len(words) > 0 && len(model)%64 != 0 {
			require.Zero(t, words[len(words)-1]>>(len(model)%64), "tail bits clear at step %d", step)
		}
		count := 0
		for _, x := range model {
			if x {
				count++
			}
		}
		require.Equal(t, count, b.Count(), "step %d", step)
	}

	assert.Equal(t, model, bitsOf(&b))
	var back []bool
	for it := b.RBegin(); !it.Equal(b.REnd()); it = it.Next() {
		back = append(back, it.Get())
	}
	slices.Reverse(back)
	assert.Equal(t, model, back)
}

func TestBitVector_InsertRangeSelf(t *testing.T) {
	b := BitsOf(true, false, false)
	_, err := b.InsertRange(b.Begin().Next(), b.CBegin(), b.CEnd())
	require.NoError(t, err)
	assert.Equal(t, []bool{true, true, false, false, false, false}, bitsOf(b))

	_, err = b.InsertSeq(b.End(), slices.Values([]bool{true}))
	require.NoError(t, err)
	assert.True(t, b.Back())
}

func TestBitVector_PushPop(t *testing.T) {
	var b BitVector
	for i := range 130 {
		require.NoError(t, b.PushBack(i%3 == 0))
	}
	assert.Equal(t, 130, b.Len())
	assert.Len(t, b.Words(), 3)
	assert.Equal(t, 44, b.Count())

	for range 66 {
		b.PopBack()
	}
	assert.Equal(t, 64, b.Len())
	assert.Len(t, b.Words(), 1)
	assert.Equal(t, 22, b.Count())
}

func TestBitVector_Resize(t *testing.T) {
	b := BitsOf(true, true)

	require.NoError(t, b.ResizeWith(100, true))
	assert.Equal(t, 100, b.Count())

	require.NoError(t, b.Resize(65))
	assert.Equal(t, 65, b.Count())
	require.NoError(t, b.Resize(1))
	assert.Len(t, b.Words(), 1)
	assert.Equal(t, uint64(1), b.Words()[0])

	require.NoError(t, b.Resize(70))
	assert.Equal(t, 1, b.Count(), "grown bits are false")
}

func TestBitVector_Assign(t *testing.T) {
	b := BitsOf(true)

	require.NoError(t, b.AssignFilled(65, true))
	assert.Equal(t, 65, b.Count())

	require.NoError(t, b.AssignSlice([]bool{false, true}))
	assert.Equal(t, []bool{false, true}, bitsOf(b))

	src := BitsOf(true, true, false)
	require.NoError(t, b.AssignRange(src.CBegin().Next(), src.CEnd()))
	assert.Equal(t, []bool{true, false}, bitsOf(b))

	c, err := NewBitVectorFromIter(src.CBegin(), src.CEnd())
	require.NoError(t, err)
	assert.True(t, BitsEqual(src, c))

	s, err := BitsFromSeq(slices.Values([]bool{false, false, true}))
	require.NoError(t, err)
	assert.Equal(t, 1, s.Count())
}

func TestBitVector_CopyMove(t *testing.T) {
	src := BitsOf(true, false, true)

	c, err := src.Clone()
	require.NoError(t, err)
	c.Set(1, true)
	assert.False(t, src.Get(1))

	var dst BitVector
	require.NoError(t, dst.CopyFrom(src))
	assert.True(t, BitsEqual(&dst, src))

	var moved BitVector
	moved.MoveFrom(&dst)
	assert.Equal(t, 3, moved.Len())
	assert.True(t, dst.Empty())

	taken := moved.Take()
	assert.Equal(t, 3, taken.Len())
	assert.Equal(t, 0, moved.Len())

	taken.Swap(c)
	assert.Equal(t, []bool{true, true, true}, bitsOf(taken))
	assert.Equal(t, []bool{true, false, true}, bitsOf(c))
}

func TestBitVector_Capacity(t *testing.T) {
	var b BitVector

	require.NoError(t, b.Reserve(65))
	assert.Equal(t, 128, b.Cap())
	assert.True(t, b.Empty())

	require.NoError(t, b.ShrinkToFit())
	assert.Equal(t, 0, b.Cap())

	assert.ErrorIs(t, b.Reserve(b.MaxLen()+1), ErrLength)

	require.NoError(t, b.PushBack(true))
	b.Clear()
	assert.Equal(t, 0, b.Len())
	assert.Equal(t, 64, b.Cap())
	b.Release()
	assert.Equal(t, 0, b.Cap())
}

func TestBitVector_WordAllocator(t *testing.T) {
	tr := alloc.NewTracking[uint64](nil)
	b, err := NewBitVector(WithWordAllocator(tr))
	require.NoError(t, err)
	assert.Same(t, tr, b.Allocator())

	for i := range 1000 {
		require.NoError(t, b.PushBack(i%2 == 0))
	}

	tr.FailNext(nil)
	_, err = b.InsertN(b.End(), 10000, true)
	require.ErrorIs(t, err, alloc.ErrOutOfMemory)
	assert.Equal(t, 1000, b.Len())
	assert.Equal(t, 500, b.Count())

	b.Release()
	require.NoError(t, tr.Violations())
	assert.Equal(t, int64(0), tr.Stats().LiveBuffers)
}

func TestBitVector_Iteration(t *testing.T) {
	b := BitsOf(true, false, true)

	var idx []int
	for i, x := range b.All() {
		if x {
			idx = append(idx, i)
		}
	}
	assert.Equal(t, []int{0, 2}, idx)

	var back []int
	for i := range b.Backward() {
		back = append(back, i)
	}
	assert.Equal(t, []int{2, 1, 0}, back)
}

func TestBitsCompare(t *testing.T) {
	a := BitsOf(false, true)
	b := BitsOf(true)
	c := BitsOf(false, true, false)

	assert.True(t, BitsLess(a, b))
	assert.True(t, BitsLess(a, c), "prefix sorts first")
	assert.Equal(t, -1, BitsCompare(a, b))
	assert.Equal(t, 1, BitsCompare(b, a))
	assert.Equal(t, 0, BitsCompare(a, BitsOf(false, true)))
	assert.True(t, BitsGreater(b, c))
	assert.True(t, BitsGreaterOrEqual(a, a))
	assert.True(t, BitsLessOrEqual(a, a))
	assert.False(t, BitsEqual(a, c))
}

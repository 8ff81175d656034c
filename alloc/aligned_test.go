package alloc

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAligned(t *testing.T) {
	a, err := NewAligned[float32](0)
	require.NoError(t, err)
	assert.Equal(t, 64, a.Alignment())

	for _, n := range []int{1, 7, 100} {
		buf, err := a.Allocate(n)
		require.NoError(t, err)
		assert.Len(t, buf, n)
		assert.Zero(t, uintptr(unsafe.Pointer(&buf[0]))%64)
		a.Deallocate(buf)
	}

	empty, err := a.Allocate(0)
	require.NoError(t, err)
	assert.Nil(t, empty)

	_, err = a.Allocate(-1)
	assert.ErrorIs(t, err, ErrInvalidCount)
}

func TestAligned_Config(t *testing.T) {
	_, err := NewAligned[int64](48)
	assert.ErrorIs(t, err, ErrInvalidAlignment)

	_, err = NewAligned[*int](64)
	assert.ErrorIs(t, err, ErrPointerElement)

	a, err := NewAligned[complex128](1)
	require.NoError(t, err)
	assert.Equal(t, int(unsafe.Alignof(complex128(0))), a.Alignment(), "raised to the type alignment")
}

func TestAligned_Equal(t *testing.T) {
	a, err := NewAligned[uint64](64)
	require.NoError(t, err)
	b, err := NewAligned[uint64](4096)
	require.NoError(t, err)

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(Heap[uint64]{}))
}

func TestAligned_Lifetimes(t *testing.T) {
	type cell struct{ v int64 }
	a, err := NewAligned[cell](128)
	require.NoError(t, err)

	buf, err := a.Allocate(2)
	require.NoError(t, err)
	a.Construct(&buf[1], cell{v: 9})
	assert.Equal(t, int64(9), buf[1].v)
	a.Destroy(&buf[1])
	assert.Zero(t, buf[1])
}

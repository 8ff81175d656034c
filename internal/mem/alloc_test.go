package mem

import (
	"fmt"
	"math"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
)

func TestAllocAligned(t *testing.T) {
	sizes := []int{1, 10, 63, 64, 65, 100, 1024}

	for _, align := range []int{0, 8, 64, 4096} {
		want := align
		if want == 0 {
			want = Alignment
		}
		for _, size := range sizes {
			buf := AllocAligned(size, align)
			assert.Len(t, buf, size)
			assert.Equal(t, size, cap(buf))
			assert.True(t, IsAligned(unsafe.Pointer(&buf[0]), want), "size %d align %d", size, want)
		}
	}

	assert.Nil(t, AllocAligned(0, 0))
	assert.Nil(t, AllocAligned(-1, 0))
	assert.Nil(t, AllocAligned(16, 48), "not a power of two")
	assert.Nil(t, AllocAligned(math.MaxInt, 64))
}

func TestAlignedSlice(t *testing.T) {
	type pair struct {
		a int32
		b float64
	}

	for _, n := range []int{1, 16, 17, 1000} {
		f := AlignedSlice[float32](n, 64)
		assert.Len(t, f, n)
		assert.True(t, IsAligned(unsafe.Pointer(&f[0]), 64))

		p := AlignedSlice[pair](n, 1)
		assert.Len(t, p, n)
		assert.True(t, IsAligned(unsafe.Pointer(&p[0]), int(unsafe.Alignof(pair{}))), "raised to the type alignment")
		for _, x := range p {
			assert.Zero(t, x)
		}
	}

	assert.Nil(t, AlignedSlice[uint64](0, 64))
	assert.Nil(t, AlignedSlice[uint64](math.MaxInt/4, 64))
	assert.Len(t, AlignedSlice[struct{}](5, 64), 5)
}

func TestValidAlignment(t *testing.T) {
	assert.True(t, ValidAlignment(1))
	assert.True(t, ValidAlignment(64))
	assert.False(t, ValidAlignment(0))
	assert.False(t, ValidAlignment(-8))
	assert.False(t, ValidAlignment(24))
}

func BenchmarkAllocAligned(b *testing.B) {
	sizes := []int{64, 256, 1024, 4096}
	for _, size := range sizes {
		b.Run(fmt.Sprintf("size=%d", size), func(b *testing.B) {
			b.ReportAllocs()
			for b.Loop() {
				_ = AllocAligned(size, Alignment)
			}
		})
	}
}

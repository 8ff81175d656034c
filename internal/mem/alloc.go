package mem

import (
	"math"
	"unsafe"

	"github.com/hupe1980/dynvec/internal/conv"
)

// Alignment is the default byte alignment (one cache line).
const Alignment = 64

// ValidAlignment reports whether align is a positive power of two.
func ValidAlignment(align int) bool {
	return align > 0 && align&(align-1) == 0
}

// AllocAligned allocates size bytes starting at an address divisible by
// align. An align of 0 selects Alignment. Returns nil if size <= 0, align is
// not a power of two, or size+align overflows.
//
// Note: This function allocates align extra bytes to find an aligned offset.
// The underlying array is kept alive by the returned slice.
func AllocAligned(size, align int) []byte {
	if align == 0 {
		align = Alignment
	}
	if size <= 0 || !ValidAlignment(align) || size > math.MaxInt-align {
		return nil
	}

	buf := make([]byte, size+align)

	addr := uintptr(unsafe.Pointer(unsafe.SliceData(buf))) //nolint:gosec // unsafe is required for memory alignment
	offset := int((uintptr(align) - addr&uintptr(align-1)) & uintptr(align-1)) //nolint:gosec // < align

	return buf[offset : offset+size : offset+size]
}

// AlignedSlice allocates n zero elements of T starting at an address
// divisible by align. T must not contain Go pointers. Returns nil if n <= 0
// or the byte size overflows.
func AlignedSlice[T any](n, align int) []T {
	var zero T
	size := int(unsafe.Sizeof(zero)) //nolint:gosec // type sizes fit in int
	if n <= 0 {
		return nil
	}
	if size == 0 {
		return make([]T, n)
	}
	nbytes, err := conv.MulInt(n, size)
	if err != nil {
		return nil
	}

	if a := int(unsafe.Alignof(zero)); align < a {
		align = a
	}
	buf := AllocAligned(nbytes, align)
	if buf == nil {
		return nil
	}
	return unsafe.Slice((*T)(unsafe.Pointer(unsafe.SliceData(buf))), n) //nolint:gosec // aligned above
}

// IsAligned reports whether p is divisible by align.
func IsAligned(p unsafe.Pointer, align int) bool {
	return uintptr(p)&uintptr(align-1) == 0
}

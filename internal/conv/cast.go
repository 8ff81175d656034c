package conv

import (
	"errors"
	"fmt"
	"math"
)

// ErrOverflow is wrapped by every conversion failure.
var ErrOverflow = errors.New("integer overflow")

func overflow(v any, to string) error {
	return fmt.Errorf("%w: %v does not fit in %s", ErrOverflow, v, to)
}

// IntToUint32 converts int to uint32 safely.
func IntToUint32(v int) (uint32, error) {
	if v < 0 || uint64(v) > math.MaxUint32 {
		return 0, overflow(v, "uint32")
	}
	return uint32(v), nil
}

// IntToUint64 converts int to uint64 safely.
func IntToUint64(v int) (uint64, error) {
	if v < 0 {
		return 0, overflow(v, "uint64")
	}
	return uint64(v), nil
}

// Uint64ToInt converts uint64 to int safely.
func Uint64ToInt(v uint64) (int, error) {
	if v > uint64(math.MaxInt) {
		return 0, overflow(v, "int")
	}
	return int(v), nil
}

// MulInt returns a*b for non-negative operands, failing instead of wrapping.
func MulInt(a, b int) (int, error) {
	if a < 0 || b < 0 {
		return 0, fmt.Errorf("%w: negative operand %d * %d", ErrOverflow, a, b)
	}
	if a != 0 && b > math.MaxInt/a {
		return 0, fmt.Errorf("%w: %d * %d", ErrOverflow, a, b)
	}
	return a * b, nil
}

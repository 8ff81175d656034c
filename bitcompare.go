package dynvec

import "slices"

// BitsEqual reports whether a and b hold the same bits.
func BitsEqual(a, b *BitVector) bool {
	return a.Len() == b.Len() && slices.Equal(a.Words(), b.Words())
}

// BitsCompare returns -1, 0 or +1 comparing a and b lexicographically with
// false ordered before true.
func BitsCompare(a, b *BitVector) int {
	n := min(a.Len(), b.Len())
	for i := range n {
		x, y := a.Get(i), b.Get(i)
		if x != y {
			if y {
				return -1
			}
			return 1
		}
	}
	switch {
	case a.Len() < b.Len():
		return -1
	case a.Len() > b.Len():
		return 1
	default:
		return 0
	}
}

// BitsLess reports whether a sorts before b.
func BitsLess(a, b *BitVector) bool { return BitsCompare(a, b) < 0 }

// BitsLessOrEqual reports BitsLess(a, b) || BitsEqual(a, b).
func BitsLessOrEqual(a, b *BitVector) bool { return BitsLess(a, b) || BitsEqual(a, b) }

// BitsGreater reports !BitsLessOrEqual(a, b).
func BitsGreater(a, b *BitVector) bool { return !BitsLessOrEqual(a, b) }

// BitsGreaterOrEqual reports !BitsLess(a, b).
func BitsGreaterOrEqual(a, b *BitVector) bool { return !BitsLess(a, b) }

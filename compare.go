package dynvec

import (
	"cmp"
	"slices"
)

// Equal reports whether a and b have the same length and pairwise equal
// elements under ==.
func Equal[T comparable](a, b *Vector[T]) bool {
	return slices.Equal(a.Data(), b.Data())
}

// EqualFunc is like Equal but compares elements with eq.
func EqualFunc[T, U any](a *Vector[T], b *Vector[U], eq func(T, U) bool) bool {
	return slices.EqualFunc(a.Data(), b.Data(), eq)
}

// Less reports whether a sorts before b lexicographically under <.
func Less[T cmp.Ordered](a, b *Vector[T]) bool {
	return LessFunc(a, b, func(x, y T) bool { return x < y })
}

// LessFunc is like Less but orders elements with less.
func LessFunc[T any](a, b *Vector[T], less func(T, T) bool) bool {
	x, y := a.Data(), b.Data()
	for i := range min(len(x), len(y)) {
		if less(x[i], y[i]) {
			return true
		}
		if less(y[i], x[i]) {
			return false
		}
	}
	return len(x) < len(y)
}

// LessOrEqual reports Less(a, b) || Equal(a, b).
func LessOrEqual[T cmp.Ordered](a, b *Vector[T]) bool {
	return Less(a, b) || Equal(a, b)
}

// Greater reports !LessOrEqual(a, b).
//
// The derived relations assume < is a strict total order on T. For floating
// point vectors holding NaN they can disagree with Compare: {NaN} is neither
// Less nor Equal to itself, so Greater({NaN}, {NaN}) is true while Compare
// returns 0.
func Greater[T cmp.Ordered](a, b *Vector[T]) bool {
	return !LessOrEqual(a, b)
}

// GreaterOrEqual reports !Less(a, b).
func GreaterOrEqual[T cmp.Ordered](a, b *Vector[T]) bool {
	return !Less(a, b)
}

// Compare returns -1, 0 or +1 comparing a and b lexicographically with
// cmp.Compare, which orders NaN before every other value and equal to NaN.
func Compare[T cmp.Ordered](a, b *Vector[T]) int {
	return slices.Compare(a.Data(), b.Data())
}

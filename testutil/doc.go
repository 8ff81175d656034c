// Package testutil provides testing utilities for dynvec.
//
// This package is intended for use in tests and benchmarks only.
// It provides a seeded, thread-safe random source for generating element
// values, bit patterns and operation positions, so randomized tests replay
// identically for a given seed.
//
//	rng := testutil.NewRNG(4711)
//	values := rng.Ints(100, 1000) // 100 ints in [0, 1000)
//	bits := rng.Bools(300)
//	pos := rng.Zipf(len(values), 1.5) // skewed towards the front
package testutil

package testutil

import (
	"math"
	"math/rand/v2"
	"sort"
	"sync"
)

// RNG is a seeded random source safe for concurrent use. The same seed
// always yields the same sequence.
type RNG struct {
	mu   sync.Mutex
	pcg  *rand.PCG
	rand *rand.Rand
	seed int64
}

// NewRNG creates a RNG seeded with seed.
func NewRNG(seed int64) *RNG {
	pcg := rand.NewPCG(uint64(seed), 0) //nolint:gosec // bit pattern reuse
	return &RNG{pcg: pcg, rand: rand.New(pcg), seed: seed}
}

// Reset rewinds the sequence to its start.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pcg.Seed(uint64(r.seed), 0) //nolint:gosec // bit pattern reuse
}

// Seed returns the seed the RNG was created with.
func (r *RNG) Seed() int64 { return r.seed }

func locked[V any](r *RNG, f func(*rand.Rand) V) V {
	r.mu.Lock()
	defer r.mu.Unlock()
	return f(r.rand)
}

// Intn returns a value in [0, n).
func (r *RNG) Intn(n int) int {
	return locked(r, func(g *rand.Rand) int { return g.IntN(n) })
}

// Uint64 returns a uniformly distributed uint64.
func (r *RNG) Uint64() uint64 {
	return locked(r, (*rand.Rand).Uint64)
}

// Bool returns a fair coin flip.
func (r *RNG) Bool() bool {
	return locked(r, func(g *rand.Rand) bool { return g.Uint64()&1 == 1 })
}

// Float64 returns a value in [0, 1).
func (r *RNG) Float64() float64 {
	return locked(r, (*rand.Rand).Float64)
}

// Ints returns n values in [0, maxVal) under a single lock.
func (r *RNG) Ints(n, maxVal int) []int {
	return locked(r, func(g *rand.Rand) []int {
		out := make([]int, n)
		for i := range out {
			out[i] = g.IntN(maxVal)
		}
		return out
	})
}

// Bools returns n coin flips.
func (r *RNG) Bools(n int) []bool {
	return locked(r, func(g *rand.Rand) []bool {
		out := make([]bool, n)
		for i := range out {
			out[i] = g.Uint64()&1 == 1
		}
		return out
	})
}

// Float64s returns n values in [0, 1). Each value is NaN with probability
// nanRate.
func (r *RNG) Float64s(n int, nanRate float64) []float64 {
	return locked(r, func(g *rand.Rand) []float64 {
		out := make([]float64, n)
		for i := range out {
			if g.Float64() < nanRate {
				out[i] = math.NaN()
			} else {
				out[i] = g.Float64()
			}
		}
		return out
	})
}

// Zipf returns a value in [0, n) where k is drawn with weight 1/(k+1)^s.
// Larger s concentrates draws on the smallest values, which is how tests
// skew insert and erase positions towards the front.
func (r *RNG) Zipf(n int, s float64) int {
	if n <= 1 {
		return 0
	}
	cdf := make([]float64, n)
	total := 0.0
	for k := range cdf {
		total += math.Pow(float64(k+1), -s)
		cdf[k] = total
	}
	u := locked(r, (*rand.Rand).Float64) * total
	return min(sort.SearchFloat64s(cdf, u), n-1)
}

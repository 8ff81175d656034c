package dynvec_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/hupe1980/dynvec"
	"github.com/hupe1980/dynvec/alloc"
)

// Example demonstrates the basic vector operations.
func Example() {
	v, err := dynvec.New[int]()
	if err != nil {
		log.Fatal(err)
	}

	for i := range 5 {
		if err := v.PushBack(i); err != nil {
			log.Fatal(err)
		}
	}

	if _, err := v.Insert(v.Begin().Add(2), 99); err != nil {
		log.Fatal(err)
	}
	v.Erase(v.Begin())

	fmt.Println(v.Data(), v.Len(), v.Cap())
	// Output: [1 99 2 3 4] 5 6
}

// Example_checkedAccess demonstrates At and the typed errors.
func Example_checkedAccess() {
	v := dynvec.Of("a", "b")

	_, err := v.At(2)
	fmt.Println(errors.Is(err, dynvec.ErrOutOfRange))
	fmt.Println(err)
	// Output:
	// true
	// dynvec: index 2 out of range [0:2]
}

// Example_reverse demonstrates reverse iteration over a bit vector.
func Example_reverse() {
	b := dynvec.BitsOf(false, true, true, false, true)

	for it := b.RBegin(); !it.Equal(b.REnd()); it = it.Next() {
		if it.Get() {
			fmt.Print(1)
		} else {
			fmt.Print(0)
		}
	}
	fmt.Println()
	// Output: 10110
}

// Example_arena demonstrates off-heap storage with a memory budget.
func Example_arena() {
	budget := alloc.NewBudget(alloc.LimitConfig{MemoryLimitBytes: 4 << 20})

	arena, err := alloc.NewArena(alloc.ArenaConfig{Budget: budget})
	if err != nil {
		log.Fatal(err)
	}
	defer arena.Free()

	a, err := alloc.ArenaFor[float64](arena)
	if err != nil {
		log.Fatal(err)
	}

	v, err := dynvec.NewFilled(1000, 0.5, dynvec.WithAllocator[float64](a))
	if err != nil {
		log.Fatal(err)
	}

	sum := 0.0
	for x := range v.Values() {
		sum += x
	}
	fmt.Println(sum, budget.Used() > 0)
	// Output: 500 true
}

// Example_snapshot demonstrates a compressed bit snapshot round trip.
func Example_snapshot() {
	bits, err := dynvec.NewBitVectorFilled(10000, true)
	if err != nil {
		log.Fatal(err)
	}

	var buf bytes.Buffer
	if _, err := bits.WriteSnapshot(context.Background(), &buf, dynvec.SnapshotOptions{
		Compression: dynvec.CompressionZSTD,
	}); err != nil {
		log.Fatal(err)
	}

	var restored dynvec.BitVector
	if _, err := restored.ReadFrom(&buf); err != nil {
		log.Fatal(err)
	}

	fmt.Println(restored.Len(), restored.Count())
	// Output: 10000 10000
}

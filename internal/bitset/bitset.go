package bitset

import (
	"encoding/binary"
	"io"
	"math/bits"
)

const (
	// WordBits is the number of bits per storage word.
	WordBits = 64
	// WordBytes is the serialized size of a storage word.
	WordBytes = WordBits / 8

	log2WordBits = 6
	offsetMask   = WordBits - 1
)

// WordsFor returns the number of words needed to hold n bits.
func WordsFor(n int) int {
	return (n + offsetMask) >> log2WordBits
}

// Locate splits a bit position into word index and in-word offset. Negative
// positions use floor division, so Locate(-1) is (-1, 63).
func Locate(i int) (word int, off uint) {
	return i >> log2WordBits, uint(i & offsetMask) //nolint:gosec // masked to 0..63
}

// TailMask returns the mask of valid bits in the last word of an n-bit set.
func TailMask(n int) uint64 {
	if r := n & offsetMask; r != 0 {
		return (uint64(1) << uint(r)) - 1 //nolint:gosec // 1..63
	}
	return ^uint64(0)
}

// Fill returns a word with every bit set to v.
func Fill(v bool) uint64 {
	if v {
		return ^uint64(0)
	}
	return 0
}

// Test reports whether bit i is set.
func Test(words []uint64, i int) bool {
	w, off := Locate(i)
	return words[w]&(uint64(1)<<off) != 0
}

// Assign sets bit i to v.
func Assign(words []uint64, i int, v bool) {
	w, off := Locate(i)
	if v {
		words[w] |= uint64(1) << off
	} else {
		words[w] &^= uint64(1) << off
	}
}

// Count returns the number of set bits.
func Count(words []uint64) int {
	count := 0
	for _, w := range words {
		if w != 0 {
			count += bits.OnesCount64(w)
		}
	}
	return count
}

// NextSetBit returns the index of the next set bit in [i, n).
// Returns -1 if there is none.
func NextSetBit(words []uint64, n, i int) int {
	if i < 0 {
		i = 0
	}
	if i >= n {
		return -1
	}

	w, off := Locate(i)
	// Mask out bits before off
	val := words[w] &^ ((uint64(1) << off) - 1)
	for {
		if val != 0 {
			pos := w*WordBits + bits.TrailingZeros64(val)
			if pos >= n {
				return -1
			}
			return pos
		}
		w++
		if w >= WordsFor(n) {
			return -1
		}
		val = words[w]
	}
}

// WriteWords writes words in little-endian order.
func WriteWords(w io.Writer, words []uint64) (int64, error) {
	var buf [512]byte
	var n int64
	for len(words) > 0 {
		batch := min(len(words), len(buf)/WordBytes)
		for i, v := range words[:batch] {
			binary.LittleEndian.PutUint64(buf[i*WordBytes:], v)
		}
		m, err := w.Write(buf[:batch*WordBytes])
		n += int64(m)
		if err != nil {
			return n, err
		}
		words = words[batch:]
	}
	return n, nil
}

// ReadWords fills words from little-endian input.
func ReadWords(r io.Reader, words []uint64) (int64, error) {
	var buf [512]byte
	var n int64
	for len(words) > 0 {
		batch := min(len(words), len(buf)/WordBytes)
		m, err := io.ReadFull(r, buf[:batch*WordBytes])
		n += int64(m)
		if err != nil {
			if err == io.EOF {
				err = io.ErrUnexpectedEOF
			}
			return n, err
		}
		for i := range words[:batch] {
			words[i] = binary.LittleEndian.Uint64(buf[i*WordBytes:])
		}
		words = words[batch:]
	}
	return n, nil
}

// Package bitset provides word-level helpers for packed bit storage.
//
// Bits are stored little-endian within uint64 words: bit i lives in word
// i/64 at offset i%64. Unused bits of the last word are kept zero, which
// makes the word layout identical to github.com/bits-and-blooms/bitset and
// lets Count and serialization operate on whole words.
package bitset

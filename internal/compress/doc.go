// Package compress implements the framed block compression used by bit
// vector snapshots.
//
// Each block is written as an 8-byte header followed by its payload:
//
//	[UncompressedSize uint32][CompressedSize uint32][Data...]
//
// A CompressedSize of zero marks a block stored raw. Blocks whose compressed
// form is not at least 10% smaller than the input are stored raw.
package compress

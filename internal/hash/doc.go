// Package hash provides the checksum used by bit snapshots.
//
// # CRC32-Castagnoli (CRC32C)
//
// Snapshots end with the CRC32C of their uncompressed word bytes, so
// corruption inside a compressed or raw block is caught on read even when
// the block still decodes.
//
// For one-shot checksums:
//
//	checksum := hash.CRC32C(data)
//
// For streaming checksums:
//
//	h := hash.NewCRC32C()
//	h.Write(chunk1)
//	h.Write(chunk2)
//	checksum := h.Sum32()
//
// Go's crc32 package uses SSE4.2 or the ARM CRC extension when available.
package hash

package hash

import (
	"encoding/binary"
	"hash"
	"hash/crc32"
)

// Size is the encoded size of a checksum trailer in bytes.
const Size = 4

// crc32cTable is pre-computed for CRC32-Castagnoli polynomial.
var crc32cTable = crc32.MakeTable(crc32.Castagnoli)

// CRC32C computes the CRC32-Castagnoli checksum of data.
func CRC32C(data []byte) uint32 {
	return crc32.Checksum(data, crc32cTable)
}

// NewCRC32C returns a new CRC32-Castagnoli hash.Hash32.
func NewCRC32C() hash.Hash32 {
	return crc32.New(crc32cTable)
}

// PutTrailer encodes sum little-endian into b[:Size].
func PutTrailer(b []byte, sum uint32) {
	binary.LittleEndian.PutUint32(b, sum)
}

// Trailer decodes a little-endian checksum from b[:Size].
func Trailer(b []byte) uint32 {
	return binary.LittleEndian.Uint32(b)
}

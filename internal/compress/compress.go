package compress

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sync"

	"github.com/hupe1980/dynvec/internal/conv"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Type defines the compression algorithm used.
type Type uint8

const (
	// None stores blocks uncompressed.
	None Type = 0
	// LZ4 uses LZ4 block compression (fast).
	LZ4 Type = 1
	// ZSTD uses ZSTD block compression (better ratio).
	ZSTD Type = 2
)

// String returns the algorithm name.
func (t Type) String() string {
	switch t {
	case None:
		return "none"
	case LZ4:
		return "lz4"
	case ZSTD:
		return "zstd"
	default:
		return fmt.Sprintf("compress.Type(%d)", uint8(t))
	}
}

// Valid reports whether t names a supported algorithm.
func (t Type) Valid() bool {
	return t <= ZSTD
}

var (
	// ErrCorrupt is returned when a block header or payload is malformed.
	ErrCorrupt = errors.New("compress: corrupt block")
	// ErrUnknownType is returned for an unsupported compression type.
	ErrUnknownType = errors.New("compress: unknown compression type")
)

// HeaderSize is the size of a block header in bytes.
const HeaderSize = 8

// DefaultBlockSize is the uncompressed size of a full block.
const DefaultBlockSize = 256 * 1024

// MaxBlockSize bounds the uncompressed size of one block. Writers clamp to it
// and readers reject larger headers before allocating.
const MaxBlockSize = 64 << 20

// ZSTD encoder/decoder pools for efficiency
var (
	zstdEncoderPool sync.Pool
	zstdDecoderPool sync.Pool
)

func getZstdEncoder() *zstd.Encoder {
	if v := zstdEncoderPool.Get(); v != nil {
		return v.(*zstd.Encoder)
	}
	enc, _ := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	return enc
}

func putZstdEncoder(enc *zstd.Encoder) {
	zstdEncoderPool.Put(enc)
}

func getZstdDecoder() *zstd.Decoder {
	if v := zstdDecoderPool.Get(); v != nil {
		return v.(*zstd.Decoder)
	}
	dec, _ := zstd.NewReader(nil, zstd.WithDecoderMaxMemory(MaxBlockSize))
	return dec
}

func putZstdDecoder(dec *zstd.Decoder) {
	zstdDecoderPool.Put(dec)
}

// Header is the header of a framed block.
type Header struct {
	UncompressedSize uint32
	CompressedSize   uint32 // 0 means stored raw
}

// ParseHeader decodes a block header.
func ParseHeader(b []byte) (Header, error) {
	if len(b) < HeaderSize {
		return Header{}, fmt.Errorf("%w: short header", ErrCorrupt)
	}
	return Header{
		UncompressedSize: binary.LittleEndian.Uint32(b[0:]),
		CompressedSize:   binary.LittleEndian.Uint32(b[4:]),
	}, nil
}

// Validate checks the sizes a well-formed block header can carry: a non-empty
// block of at most MaxBlockSize bytes whose compressed form, if any, is
// smaller than its raw form.
func (h Header) Validate() error {
	switch {
	case h.UncompressedSize == 0:
		return fmt.Errorf("%w: empty block", ErrCorrupt)
	case h.UncompressedSize > MaxBlockSize:
		return fmt.Errorf("%w: block of %d bytes exceeds %d", ErrCorrupt, h.UncompressedSize, MaxBlockSize)
	case h.CompressedSize >= h.UncompressedSize:
		return fmt.Errorf("%w: compressed size %d not below raw size %d", ErrCorrupt, h.CompressedSize, h.UncompressedSize)
	}
	return nil
}

// PayloadSize returns the number of payload bytes following the header.
func (h Header) PayloadSize() uint32 {
	if h.CompressedSize == 0 {
		return h.UncompressedSize
	}
	return h.CompressedSize
}

// Block frames data using the given algorithm.
func Block(data []byte, t Type) ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownType, t)
	}
	rawSize, err := conv.IntToUint32(len(data))
	if err != nil {
		return nil, fmt.Errorf("compress: block too large: %w", err)
	}

	var compressed []byte

	switch t {
	case LZ4:
		compressed, err = compressLZ4(data)
	case ZSTD:
		compressed = compressZSTD(data)
	}
	if err != nil {
		return nil, err
	}

	// If compression doesn't help (ratio > 0.9), store uncompressed
	if len(compressed) == 0 || float64(len(compressed)) > float64(len(data))*0.9 {
		result := make([]byte, HeaderSize+len(data))
		binary.LittleEndian.PutUint32(result[0:], rawSize)
		binary.LittleEndian.PutUint32(result[4:], 0)
		copy(result[HeaderSize:], data)
		return result, nil
	}

	result := make([]byte, HeaderSize+len(compressed))
	binary.LittleEndian.PutUint32(result[0:], rawSize)
	binary.LittleEndian.PutUint32(result[4:], uint32(len(compressed))) //nolint:gosec // smaller than data
	copy(result[HeaderSize:], compressed)
	return result, nil
}

func compressLZ4(data []byte) ([]byte, error) {
	compressed := make([]byte, lz4.CompressBlockBound(len(data)))

	n, err := lz4.CompressBlock(data, compressed, nil)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, nil // Incompressible
	}
	return compressed[:n], nil
}

func compressZSTD(data []byte) []byte {
	enc := getZstdEncoder()
	defer putZstdEncoder(enc)

	return enc.EncodeAll(data, nil)
}

// Unblock decodes the payload of a block with header h.
func Unblock(h Header, payload []byte, t Type) ([]byte, error) {
	if err := h.Validate(); err != nil {
		return nil, err
	}
	if uint32(len(payload)) != h.PayloadSize() { //nolint:gosec // payload is read by PayloadSize
		return nil, fmt.Errorf("%w: payload is %d bytes, header says %d", ErrCorrupt, len(payload), h.PayloadSize())
	}
	if h.CompressedSize == 0 {
		return payload, nil
	}

	result := make([]byte, h.UncompressedSize)

	switch t {
	case LZ4:
		n, err := lz4.UncompressBlock(payload, result)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
		}
		if uint32(n) != h.UncompressedSize { //nolint:gosec // n <= len(result)
			return nil, fmt.Errorf("%w: decompressed size mismatch", ErrCorrupt)
		}
		return result, nil

	case ZSTD:
		dec := getZstdDecoder()
		defer putZstdDecoder(dec)

		decoded, err := dec.DecodeAll(payload, result[:0])
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
		}
		if uint32(len(decoded)) != h.UncompressedSize { //nolint:gosec // bounded by header
			return nil, fmt.Errorf("%w: decompressed size mismatch", ErrCorrupt)
		}
		return decoded, nil

	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownType, t)
	}
}

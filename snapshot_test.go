package dynvec

import (
	"bytes"
	"context"
	"encoding/binary"
	"io"
	"testing"

	"github.com/hupe1980/dynvec/internal/compress"
	"github.com/hupe1980/dynvec/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func snapshotBytes(t *testing.T, b *BitVector, opts SnapshotOptions) []byte {
	t.Helper()
	var buf bytes.Buffer
	n, err := b.WriteSnapshot(context.Background(), &buf, opts)
	require.NoError(t, err)
	require.Equal(t, int64(buf.Len()), n)
	return buf.Bytes()
}

func TestSnapshot_RoundTrip(t *testing.T) {
	rng := testutil.NewRNG(4711)

	for _, comp := range []Compression{CompressionNone, CompressionLZ4, CompressionZSTD} {
		for _, n := range []int{0, 1, 63, 64, 65, 5000} {
			t.Run(comp.String(), func(t *testing.T) {
				src, err := BitsFromSlice(rng.Bools(n))
				require.NoError(t, err)

				data := snapshotBytes(t, src, SnapshotOptions{Compression: comp, BlockSize: 256})

				var dst BitVector
				read, err := dst.ReadSnapshot(context.Background(), bytes.NewReader(data), SnapshotOptions{})
				require.NoError(t, err)
				assert.Equal(t, int64(len(data)), read)
				assert.True(t, BitsEqual(src, &dst), "n=%d", n)
			})
		}
	}
}

func TestSnapshot_Compresses(t *testing.T) {
	src, err := NewBitVectorFilled(1<<16, true)
	require.NoError(t, err)

	raw := snapshotBytes(t, src, SnapshotOptions{})
	packed := snapshotBytes(t, src, SnapshotOptions{Compression: CompressionZSTD})
	assert.Less(t, len(packed), len(raw)/10)
}

func TestSnapshot_WriterTo(t *testing.T) {
	src := BitsOf(true, false, true, true)

	var buf bytes.Buffer
	n, err := src.WriteTo(&buf)
	require.NoError(t, err)
	assert.Equal(t, int64(14+8+8+4), n)
	assert.Equal(t, "DVBT", buf.String()[:4])

	var dst BitVector
	_, err = dst.ReadFrom(&buf)
	require.NoError(t, err)
	assert.Equal(t, []bool{true, false, true, true}, bitsOf(&dst))
}

func TestSnapshot_Invalid(t *testing.T) {
	src := BitsOf(true, false, true)
	require.NoError(t, src.ResizeWith(70, false))
	valid := snapshotBytes(t, src, SnapshotOptions{})

	corrupt := func(f func([]byte) []byte) []byte {
		return f(bytes.Clone(valid))
	}

	tests := map[string][]byte{
		"Empty":          nil,
		"ShortHeader":    valid[:10],
		"BadMagic":       corrupt(func(b []byte) []byte { b[0] = 'X'; return b }),
		"BadVersion":     corrupt(func(b []byte) []byte { b[4] = 9; return b }),
		"BadCompression": corrupt(func(b []byte) []byte { b[5] = 42; return b }),
		"Truncated":      valid[:len(valid)-1],
		"MissingBlock":   valid[:14],
		"TailBitsSet":    corrupt(func(b []byte) []byte { b[len(b)-5] = 0xFF; return b }),
		"BadChecksum":    corrupt(func(b []byte) []byte { b[len(b)-1] ^= 1; return b }),
		"FlippedDataBit": corrupt(func(b []byte) []byte { b[14+8] ^= 0x02; return b }),
		"LengthTooLarge": corrupt(func(b []byte) []byte { b[13] = 0xFF; return b }),
	}

	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			dst := BitsOf(true, true)
			_, err := dst.ReadFrom(bytes.NewReader(data))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidSnapshot)
			assert.Equal(t, []bool{true, true}, bitsOf(dst), "failed read leaves the bits unchanged")
		})
	}
}

func snapshotHeader(nbits uint64, comp Compression) []byte {
	hdr := []byte("DVBT\x01")
	hdr = append(hdr, byte(comp))
	return binary.LittleEndian.AppendUint64(hdr, nbits)
}

func TestSnapshot_HostileLengths(t *testing.T) {
	blockHeader := func(raw, compressed uint32) []byte {
		b := binary.LittleEndian.AppendUint32(nil, raw)
		return binary.LittleEndian.AppendUint32(b, compressed)
	}

	tests := []struct {
		name  string
		data  []byte
		cause error
	}{
		{"HeaderOnlyAboveMaxLen", snapshotHeader(1<<62, CompressionNone), nil},
		{"HeaderOnlyHugeLength", snapshotHeader(1<<48, CompressionNone), io.ErrUnexpectedEOF},
		{"HeaderOnlyHugeLengthZSTD", snapshotHeader(1<<48, CompressionZSTD), io.ErrUnexpectedEOF},
		{"BlockLargerThanLength", append(snapshotHeader(64, CompressionNone), blockHeader(1<<20, 0)...), compress.ErrCorrupt},
		{"BlockAboveMaxBlockSize", append(snapshotHeader(1<<48, CompressionNone), blockHeader(compress.MaxBlockSize+1, 0)...), compress.ErrCorrupt},
		{"CompressedNotSmaller", append(snapshotHeader(1<<20, CompressionLZ4), blockHeader(1024, 4096)...), compress.ErrCorrupt},
		{"EmptyBlock", append(snapshotHeader(64, CompressionNone), blockHeader(0, 0)...), compress.ErrCorrupt},
		{"TruncatedMaxBlock", append(snapshotHeader(1<<48, CompressionNone), blockHeader(compress.MaxBlockSize, 0)...), io.ErrUnexpectedEOF},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dst := BitsOf(true, false)

			var err error
			require.NotPanics(t, func() {
				_, err = dst.ReadFrom(bytes.NewReader(tt.data))
			})
			require.ErrorIs(t, err, ErrInvalidSnapshot)
			var se *SnapshotError
			require.ErrorAs(t, err, &se)
			if tt.cause != nil {
				assert.ErrorIs(t, err, tt.cause)
			}
			assert.Equal(t, []bool{true, false}, bitsOf(dst))
		})
	}
}

func TestSnapshot_LargeBlockSizeClamped(t *testing.T) {
	src, err := NewBitVectorFilled(4096, true)
	require.NoError(t, err)

	data := snapshotBytes(t, src, SnapshotOptions{BlockSize: 1 << 40})

	var dst BitVector
	_, err = dst.ReadFrom(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 4096, dst.Count())
}

func TestSnapshot_UnknownCompressionOnWrite(t *testing.T) {
	var buf bytes.Buffer
	_, err := BitsOf(true).WriteSnapshot(context.Background(), &buf, SnapshotOptions{Compression: Compression(42)})
	require.Error(t, err)
	assert.Zero(t, buf.Len())
}

func TestSnapshot_RateLimited(t *testing.T) {
	src, err := NewBitVectorFilled(4096, true)
	require.NoError(t, err)

	opts := SnapshotOptions{IOLimitBytesPerSec: 1 << 20}
	var buf bytes.Buffer
	_, err = src.WriteSnapshot(context.Background(), &buf, opts)
	require.NoError(t, err)

	var dst BitVector
	_, err = dst.ReadSnapshot(context.Background(), &buf, opts)
	require.NoError(t, err)
	assert.Equal(t, 4096, dst.Count())
}

func TestSnapshot_Canceled(t *testing.T) {
	src, err := NewBitVectorFilled(1<<16, true)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var buf bytes.Buffer
	_, err = src.WriteSnapshot(ctx, &buf, SnapshotOptions{IOLimitBytesPerSec: 1024})
	require.ErrorIs(t, err, context.Canceled)
}

func TestSnapshot_Metrics(t *testing.T) {
	metrics := &BasicMetricsCollector{}
	src, err := NewBitVectorFilled(100, true, WithMetricsCollector(metrics))
	require.NoError(t, err)

	data := snapshotBytes(t, src, SnapshotOptions{})
	_, err = src.ReadFrom(bytes.NewReader(data[:5]))
	require.Error(t, err)

	stats := metrics.GetStats()
	assert.Equal(t, int64(2), stats.SnapshotCount)
	assert.Equal(t, int64(1), stats.SnapshotErrors)
	assert.Equal(t, int64(len(data)), stats.SnapshotBytes)
}

package dynvec

import (
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"time"

	"github.com/hupe1980/dynvec/internal/bitset"
	"github.com/hupe1980/dynvec/internal/compress"
	"github.com/hupe1980/dynvec/internal/conv"
	"github.com/hupe1980/dynvec/internal/hash"
	"github.com/hupe1980/dynvec/internal/resource"
)

// Bit snapshot layout:
//
//	[magic "DVBT"][version u8][compression u8][bit length u64 LE][blocks...][crc32c u32 LE]
//
// The blocks carry the little-endian words framed by internal/compress. The
// trailer is the CRC32C of the uncompressed word bytes.
const (
	snapshotMagic      = "DVBT"
	snapshotVersion    = 1
	snapshotHeaderSize = 14
)

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}

// WriteTo writes an uncompressed snapshot of b. It implements io.WriterTo.
func (b *BitVector) WriteTo(w io.Writer) (int64, error) {
	return b.WriteSnapshot(context.Background(), w, SnapshotOptions{})
}

// WriteSnapshot writes a snapshot of b using opts.
func (b *BitVector) WriteSnapshot(ctx context.Context, w io.Writer, opts SnapshotOptions) (n int64, err error) {
	start := time.Now()
	defer func() {
		b.w().collector().RecordSnapshot(n, time.Since(start), err)
		b.w().log().LogSnapshot(ctx, "write", b.size, n, err)
	}()

	if !opts.Compression.Valid() {
		return 0, fmt.Errorf("dynvec: snapshot: %w", compress.ErrUnknownType)
	}
	if opts.IOLimitBytesPerSec > 0 {
		rc := resource.NewController(resource.Config{IOLimitBytesPerSec: opts.IOLimitBytesPerSec})
		w = resource.LimitWriter(ctx, w, rc)
	}
	cw := &countingWriter{w: w}

	var hdr [snapshotHeaderSize]byte
	copy(hdr[:4], snapshotMagic)
	hdr[4] = snapshotVersion
	hdr[5] = byte(opts.Compression)
	binary.LittleEndian.PutUint64(hdr[6:], uint64(b.size)) //nolint:gosec // size >= 0
	if _, err := cw.Write(hdr[:]); err != nil {
		return cw.n, err
	}

	crc := hash.NewCRC32C()
	bw := compress.NewWriter(cw, opts.Compression, opts.BlockSize)
	if _, err := bitset.WriteWords(io.MultiWriter(bw, crc), b.Words()); err != nil {
		return cw.n, err
	}
	if err := bw.Flush(); err != nil {
		return cw.n, err
	}

	var trailer [hash.Size]byte
	hash.PutTrailer(trailer[:], crc.Sum32())
	if _, err := cw.Write(trailer[:]); err != nil {
		return cw.n, err
	}
	return cw.n, nil
}

// ReadFrom replaces the contents of b with a snapshot read from r. It
// implements io.ReaderFrom. On failure b is unchanged.
func (b *BitVector) ReadFrom(r io.Reader) (int64, error) {
	return b.ReadSnapshot(context.Background(), r, SnapshotOptions{})
}

// ReadSnapshot replaces the contents of b with a snapshot read from r.
// The compression is taken from the snapshot header; only
// opts.IOLimitBytesPerSec applies. On failure b is unchanged.
func (b *BitVector) ReadSnapshot(ctx context.Context, r io.Reader, opts SnapshotOptions) (n int64, err error) {
	start := time.Now()
	nbits := 0
	defer func() {
		b.w().collector().RecordSnapshot(n, time.Since(start), err)
		b.w().log().LogSnapshot(ctx, "read", nbits, n, err)
	}()

	if opts.IOLimitBytesPerSec > 0 {
		rc := resource.NewController(resource.Config{IOLimitBytesPerSec: opts.IOLimitBytesPerSec})
		r = resource.LimitReader(ctx, r, rc)
	}
	cr := &countingReader{r: r}

	var hdr [snapshotHeaderSize]byte
	if _, err := io.ReadFull(cr, hdr[:]); err != nil {
		return cr.n, &SnapshotError{Reason: "short header", cause: err}
	}
	if string(hdr[:4]) != snapshotMagic {
		return cr.n, &SnapshotError{Reason: fmt.Sprintf("bad magic %q", hdr[:4])}
	}
	if hdr[4] != snapshotVersion {
		return cr.n, &SnapshotError{Reason: fmt.Sprintf("unsupported version %d", hdr[4])}
	}
	comp := compress.Type(hdr[5])
	if !comp.Valid() {
		return cr.n, &SnapshotError{Reason: "unknown compression", cause: compress.ErrUnknownType}
	}
	size := binary.LittleEndian.Uint64(hdr[6:])
	nbits, err = conv.Uint64ToInt(size)
	if err != nil || nbits > b.MaxLen() {
		nbits = 0
		return cr.n, &SnapshotError{Reason: fmt.Sprintf("bit length %d exceeds maximum", size), cause: err}
	}

	old := b.w()
	words := &Vector[uint64]{alloc: old.alloc, logger: old.logger, metrics: old.metrics}
	nwords := bitset.WordsFor(nbits)

	crc := hash.NewCRC32C()
	br := compress.NewReader(cr, comp)
	br.Limit(int64(nwords) * bitset.WordBytes)
	if err := readWords(io.TeeReader(br, crc), words, nwords); err != nil {
		words.Release()
		return cr.n, err
	}
	if data := words.Data(); nwords > 0 && data[nwords-1]&^bitset.TailMask(nbits) != 0 {
		words.Release()
		return cr.n, &SnapshotError{Reason: "bits set past length"}
	}

	var trailer [hash.Size]byte
	if _, err := io.ReadFull(cr, trailer[:]); err != nil {
		words.Release()
		return cr.n, &SnapshotError{Reason: "missing checksum", cause: err}
	}
	if got, want := crc.Sum32(), hash.Trailer(trailer[:]); got != want {
		words.Release()
		return cr.n, &SnapshotError{Reason: fmt.Sprintf("checksum mismatch: got %08x, want %08x", got, want)}
	}

	old.Release()
	b.words = words
	b.size = nbits
	return cr.n, nil
}

// snapshotReadBatch is the number of words decoded per step. The word buffer
// grows only as decoded data arrives, never from the header length alone.
const snapshotReadBatch = 4096

func readWords(r io.Reader, words *Vector[uint64], nwords int) error {
	var batch [snapshotReadBatch]uint64
	for words.Len() < nwords {
		chunk := batch[:min(nwords-words.Len(), len(batch))]
		if _, err := bitset.ReadWords(r, chunk); err != nil {
			return &SnapshotError{Reason: "reading words", cause: err}
		}
		if _, err := words.InsertSlice(words.End(), chunk); err != nil {
			return err
		}
	}
	return nil
}

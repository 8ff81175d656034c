package compress

import (
	"bytes"
	"fmt"
	"io"
)

// Writer buffers data and writes it to the underlying writer as framed blocks.
type Writer struct {
	w         io.Writer
	t         Type
	blockSize int
	buffer    *bytes.Buffer
	written   int64
}

// NewWriter creates a new block writer.
func NewWriter(w io.Writer, t Type, blockSize int) *Writer {
	if blockSize <= 0 {
		blockSize = DefaultBlockSize
	}
	blockSize = min(blockSize, MaxBlockSize)
	return &Writer{
		w:         w,
		t:         t,
		blockSize: blockSize,
		buffer:    bytes.NewBuffer(make([]byte, 0, min(blockSize, DefaultBlockSize))),
	}
}

// Write writes data to the buffer, flushing blocks as needed.
func (c *Writer) Write(p []byte) (int, error) {
	total := 0
	for len(p) > 0 {
		space := c.blockSize - c.buffer.Len()
		if space <= 0 {
			if err := c.Flush(); err != nil {
				return total, err
			}
			space = c.blockSize
		}

		n, _ := c.buffer.Write(p[:min(len(p), space)])
		total += n
		p = p[n:]
	}
	return total, nil
}

// Flush compresses and writes the current block.
func (c *Writer) Flush() error {
	if c.buffer.Len() == 0 {
		return nil
	}

	block, err := Block(c.buffer.Bytes(), c.t)
	if err != nil {
		return err
	}

	n, err := c.w.Write(block)
	c.written += int64(n)
	if err != nil {
		return err
	}
	c.buffer.Reset()
	return nil
}

// BytesWritten returns the total framed bytes written.
func (c *Writer) BytesWritten() int64 {
	return c.written
}

// Reader decodes framed blocks from an underlying reader.
type Reader struct {
	r       io.Reader
	t       Type
	pending []byte
	read    int64
	err     error
	limit   int64 // decoded bytes still allowed, -1 for no limit
}

// NewReader creates a reader for framed blocks.
func NewReader(r io.Reader, t Type) *Reader {
	return &Reader{r: r, t: t, limit: -1}
}

// Limit caps the total decoded size at n bytes. A block whose header would
// exceed the remaining allowance fails with ErrCorrupt before its payload is
// allocated.
func (c *Reader) Limit(n int64) {
	c.limit = n
}

// ReadBlock reads and decodes the next block. It returns io.EOF at a clean
// block boundary and io.ErrUnexpectedEOF inside a block.
func (c *Reader) ReadBlock() ([]byte, error) {
	var hdr [HeaderSize]byte
	n, err := io.ReadFull(c.r, hdr[:])
	c.read += int64(n)
	if err != nil {
		return nil, err
	}

	h, err := ParseHeader(hdr[:])
	if err != nil {
		return nil, err
	}
	if err := h.Validate(); err != nil {
		return nil, err
	}
	if c.limit >= 0 && int64(h.UncompressedSize) > c.limit {
		return nil, fmt.Errorf("%w: block of %d bytes exceeds the %d bytes expected", ErrCorrupt, h.UncompressedSize, c.limit)
	}

	payload := make([]byte, h.PayloadSize())
	n, err = io.ReadFull(c.r, payload)
	c.read += int64(n)
	if err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return nil, err
	}

	data, err := Unblock(h, payload, c.t)
	if err != nil {
		return nil, err
	}
	if c.limit >= 0 {
		c.limit -= int64(len(data))
	}
	return data, nil
}

// Read implements io.Reader over the decoded block stream.
func (c *Reader) Read(p []byte) (int, error) {
	for len(c.pending) == 0 {
		if c.err != nil {
			return 0, c.err
		}
		c.pending, c.err = c.ReadBlock()
	}
	n := copy(p, c.pending)
	c.pending = c.pending[n:]
	return n, nil
}

// BytesRead returns the total framed bytes consumed.
func (c *Reader) BytesRead() int64 {
	return c.read
}

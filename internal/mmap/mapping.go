package mmap

import (
	"errors"
	"sync/atomic"
)

var (
	// ErrClosed is returned when using a closed mapping.
	ErrClosed = errors.New("mmap: mapping is closed")
	// ErrInvalidSize is returned when the requested size is not positive.
	ErrInvalidSize = errors.New("mmap: invalid size")
)

// Mapping owns one anonymous read-write region.
type Mapping struct {
	data   []byte
	closed atomic.Bool
	unmap  func() error
}

// MapAnon maps size bytes of zeroed anonymous memory.
func MapAnon(size int) (*Mapping, error) {
	if size <= 0 {
		return nil, ErrInvalidSize
	}
	data, unmap, err := mapAnon(size)
	if err != nil {
		return nil, err
	}
	return &Mapping{data: data, unmap: unmap}, nil
}

// Close unmaps the memory. It is idempotent.
func (m *Mapping) Close() error {
	if m.closed.Swap(true) {
		return nil
	}
	data := m.data
	m.data = nil
	if data == nil {
		return nil
	}
	return m.unmap()
}

// Bytes returns the mapped memory, or nil once closed.
func (m *Mapping) Bytes() []byte {
	if m.closed.Load() {
		return nil
	}
	return m.data
}

// Size returns the size of the mapping in bytes.
func (m *Mapping) Size() int { return cap(m.data) }

// Zero clears the first n bytes. Whole pages past the first are handed
// back to the kernel where the platform zero-fills them on the next touch.
func (m *Mapping) Zero(n int) error {
	if m.closed.Load() {
		return ErrClosed
	}
	n = min(n, len(m.data))
	if n <= 0 {
		return nil
	}
	return zero(m.data[:n])
}

package arena

import (
	"errors"
	"fmt"
	"math/bits"
	"sync"
	"sync/atomic"

	"github.com/hupe1980/dynvec/internal/conv"
	"github.com/hupe1980/dynvec/internal/mmap"
)

// MemoryAcquirer charges mapped bytes against an external budget.
type MemoryAcquirer interface {
	AcquireMemory(amount int64) error
	ReleaseMemory(amount int64)
}

var (
	// ErrMaxChunksExceeded is returned once MaxChunks mappings are live.
	ErrMaxChunksExceeded = errors.New("arena: too many chunks")
	// ErrClosed is returned when allocating from a freed arena.
	ErrClosed = errors.New("arena: closed")
	// ErrInvalidAlignment is returned when the alignment is not a power of two.
	ErrInvalidAlignment = errors.New("arena: alignment must be a power of two")
)

const (
	DefaultChunkSize = 1 << 20
	DefaultAlignment = 8
	// MaxChunks bounds the live mappings of one arena.
	MaxChunks = 1 << 16
)

// Stats is a snapshot of arena usage. ChunksAllocated and TotalAllocs are
// cumulative; the byte counters drop on Reset and Free.
type Stats struct {
	ChunksAllocated uint64
	BytesReserved   uint64 // currently mapped
	BytesUsed       uint64 // requested, excluding padding
	BytesWasted     uint64 // alignment padding
	ActiveChunks    uint64 // including dedicated mappings
	TotalAllocs     uint64
}

type atomicStats struct {
	ChunksAllocated atomic.Uint64
	BytesReserved   atomic.Uint64
	BytesUsed       atomic.Uint64
	BytesWasted     atomic.Uint64
	ActiveChunks    atomic.Uint64
	TotalAllocs     atomic.Uint64
}

type chunk struct {
	data    []byte
	mapping *mmap.Mapping
	offset  atomic.Int64 // bumped by CAS
}

// Arena hands out aligned byte ranges from a list of mapped chunks.
type Arena struct {
	chunkSize int
	alignment int
	chunks    []*chunk // protected by mu
	current   atomic.Pointer[chunk]
	mu        sync.Mutex
	stats     atomicStats
	acquirer  MemoryAcquirer
}

// Option configures an Arena.
type Option func(*Arena)

// WithMemoryAcquirer charges every mapped chunk against acquirer.
func WithMemoryAcquirer(acquirer MemoryAcquirer) Option {
	return func(a *Arena) {
		a.acquirer = acquirer
	}
}

// New creates a new Arena with the given chunk size.
// The chunk size is rounded up to the next power of two.
func New(chunkSize int, opts ...Option) (*Arena, error) {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}

	chunkBits := bits.Len(uint(chunkSize - 1)) //nolint:gosec // chunkSize > 0

	a := &Arena{
		chunkSize: 1 << chunkBits,
		alignment: DefaultAlignment,
	}

	for _, opt := range opts {
		opt(a)
	}

	c, err := a.mapChunk(a.chunkSize)
	if err != nil {
		return nil, err
	}
	a.current.Store(c)
	return a, nil
}

// ChunkSize returns the (power of two) size of a regular chunk.
func (a *Arena) ChunkSize() int {
	return a.chunkSize
}

// mapChunk maps a new chunk of size bytes and records it. Caller must hold mu
// or be the constructor.
func (a *Arena) mapChunk(size int) (*chunk, error) {
	if len(a.chunks) >= MaxChunks {
		return nil, ErrMaxChunksExceeded
	}

	size64 := int64(size)
	if a.acquirer != nil {
		if err := a.acquirer.AcquireMemory(size64); err != nil {
			return nil, err
		}
	}

	// Off-heap anonymous mapping keeps element storage out of the GC's view.
	mapping, err := mmap.MapAnon(size)
	if err != nil {
		if a.acquirer != nil {
			a.acquirer.ReleaseMemory(size64)
		}
		return nil, fmt.Errorf("failed to map anonymous memory for chunk: %w", err)
	}

	c := &chunk{
		data:    mapping.Bytes(),
		mapping: mapping,
	}
	a.chunks = append(a.chunks, c)

	sizeU64, _ := conv.IntToUint64(size)
	a.stats.ChunksAllocated.Add(1)
	a.stats.BytesReserved.Add(sizeU64)
	a.stats.ActiveChunks.Add(1)

	return c, nil
}

// Alloc allocates size bytes aligned to align (0 selects DefaultAlignment).
// The returned slice is zeroed on first use of the underlying pages.
func (a *Arena) Alloc(size, align int) ([]byte, error) {
	if size <= 0 {
		return nil, nil
	}
	if align <= 0 {
		align = a.alignment
	}
	if align&(align-1) != 0 {
		return nil, ErrInvalidAlignment
	}

	if size+align > a.chunkSize {
		return a.allocDedicated(size)
	}

	for {
		curr := a.current.Load()
		if curr == nil {
			return nil, ErrClosed
		}

		if data, ok := a.tryAllocInChunk(curr, size, align); ok {
			return data, nil
		}

		// Someone else may already have installed a fresh chunk.
		if a.current.Load() != curr {
			continue
		}

		a.mu.Lock()
		// Double check under lock
		if a.current.Load() != curr {
			a.mu.Unlock()
			continue
		}
		c, err := a.mapChunk(a.chunkSize)
		if err != nil {
			a.mu.Unlock()
			return nil, err
		}
		a.current.Store(c)
		a.mu.Unlock()
	}
}

// allocDedicated maps a chunk for a single oversize allocation. The mapping is
// page aligned, which satisfies any element alignment.
func (a *Arena) allocDedicated(size int) ([]byte, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.current.Load() == nil {
		return nil, ErrClosed
	}

	c, err := a.mapChunk(size)
	if err != nil {
		return nil, err
	}
	c.offset.Store(int64(size))

	a.recordAlloc(size, 0)
	return c.data[:size:size], nil
}

func (a *Arena) tryAllocInChunk(curr *chunk, size, align int) ([]byte, bool) {
	for {
		oldOffset := curr.offset.Load()
		mask := int64(align - 1)
		start := (oldOffset + mask) &^ mask
		newOffset := start + int64(size)

		if newOffset > int64(len(curr.data)) {
			return nil, false
		}

		if curr.offset.CompareAndSwap(oldOffset, newOffset) {
			a.recordAlloc(size, int(start-oldOffset))
			return curr.data[start:newOffset:newOffset], true
		}
	}
}

func (a *Arena) recordAlloc(size, padding int) {
	sizeU64, _ := conv.IntToUint64(size)
	a.stats.BytesUsed.Add(sizeU64)
	wastedU64, _ := conv.IntToUint64(padding)
	a.stats.BytesWasted.Add(wastedU64)
	a.stats.TotalAllocs.Add(1)
}

// Stats returns the current arena statistics.
func (a *Arena) Stats() Stats {
	return Stats{
		ChunksAllocated: a.stats.ChunksAllocated.Load(),
		BytesReserved:   a.stats.BytesReserved.Load(),
		BytesUsed:       a.stats.BytesUsed.Load(),
		BytesWasted:     a.stats.BytesWasted.Load(),
		ActiveChunks:    a.stats.ActiveChunks.Load(),
		TotalAllocs:     a.stats.TotalAllocs.Load(),
	}
}

// Free unmaps every chunk. Slices handed out by the arena must not be used
// afterwards, and later Allocs fail with ErrClosed. Free must not race with
// Alloc.
func (a *Arena) Free() {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.releaseChunksLocked(0)
	a.current.Store(nil)
	a.stats.BytesUsed.Store(0)
	a.stats.BytesWasted.Store(0)
}

// Reset drops every allocation, zeroes the first chunk for reuse and unmaps
// the rest. Reset must not race with Alloc.
func (a *Arena) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if len(a.chunks) == 0 {
		return
	}

	a.releaseChunksLocked(1)

	first := a.chunks[0]
	_ = first.mapping.Zero(int(first.offset.Load())) //nolint:gosec // offset <= chunk size
	first.offset.Store(0)
	a.current.Store(first)

	a.stats.BytesUsed.Store(0)
	a.stats.BytesWasted.Store(0)
}

// releaseChunksLocked unmaps chunks[keep:].
func (a *Arena) releaseChunksLocked(keep int) {
	for _, c := range a.chunks[keep:] {
		size := len(c.data)
		_ = c.mapping.Close()
		sizeU64, _ := conv.IntToUint64(size)
		a.stats.BytesReserved.Add(-sizeU64)
		a.stats.ActiveChunks.Add(^uint64(0))
		if a.acquirer != nil {
			a.acquirer.ReleaseMemory(int64(size))
		}
	}
	clear(a.chunks[keep:])
	a.chunks = a.chunks[:keep]
}

// Usage returns BytesUsed as a percentage of BytesReserved.
func (a *Arena) Usage() float64 {
	st := a.Stats()
	if st.BytesReserved == 0 {
		return 0
	}
	return 100 * float64(st.BytesUsed) / float64(st.BytesReserved)
}

func (a *Arena) String() string {
	st := a.Stats()
	const mib = 1 << 20
	return fmt.Sprintf("arena(chunks: %d, reserved: %.2f MiB, used: %.2f MiB, padding: %d B, usage: %.1f%%, allocs: %d)",
		st.ActiveChunks, float64(st.BytesReserved)/mib, float64(st.BytesUsed)/mib, st.BytesWasted, a.Usage(), st.TotalAllocs)
}

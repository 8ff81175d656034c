package dynvec

import (
	"log/slog"

	"github.com/hupe1980/dynvec/alloc"
	"github.com/hupe1980/dynvec/internal/compress"
)

type options struct {
	allocator        any // alloc.Allocator[T], checked by New
	metricsCollector MetricsCollector
	logger           *Logger
}

// Option configures container construction.
//
// Options are not generic so one option list can configure vectors of any
// element type; WithAllocator is checked against the element type when the
// container is built.
type Option func(*options)

// WithAllocator configures the allocator that supplies element storage.
//
// The allocator's element type must match the container's, otherwise
// construction fails with ErrAllocatorMismatch. If nil is passed, alloc.Heap
// is used.
//
// Example with an off-heap arena:
//
//	arena, _ := alloc.NewArena(alloc.ArenaConfig{})
//	defer arena.Free()
//	a, _ := alloc.ArenaFor[float64](arena)
//	v, _ := dynvec.New[float64](dynvec.WithAllocator[float64](a))
func WithAllocator[T any](a alloc.Allocator[T]) Option {
	return func(o *options) {
		if a == nil {
			o.allocator = nil
			return
		}
		o.allocator = a
	}
}

// WithWordAllocator configures the allocator for a BitVector's 64-bit words.
// Shorthand for WithAllocator[uint64].
func WithWordAllocator(a alloc.Allocator[uint64]) Option {
	return WithAllocator(a)
}

// WithMetricsCollector configures metrics collection for storage operations.
//
// Example with basic metrics:
//
//	metrics := &dynvec.BasicMetricsCollector{}
//	v, _ := dynvec.New[int](dynvec.WithMetricsCollector(metrics))
//	// ... use v ...
//	stats := metrics.GetStats()
//	fmt.Printf("Allocations: %d, Live slots: %d\n", stats.AllocateCount, stats.LiveElems)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for reallocations and failures.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := dynvec.NewJSONLogger(slog.LevelDebug)
//	v, _ := dynvec.New[int](dynvec.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}

// SnapshotOptions configures WriteSnapshot.
type SnapshotOptions struct {
	// Compression selects the block compression. Default: no compression.
	Compression Compression

	// BlockSize is the uncompressed size of one block. Zero selects 256 KiB.
	BlockSize int

	// IOLimitBytesPerSec throttles the write. Zero is unlimited.
	IOLimitBytesPerSec int64
}

// Compression selects the block compression of a bit snapshot.
type Compression = compress.Type

// Snapshot compression algorithms.
const (
	CompressionNone = compress.None
	CompressionLZ4  = compress.LZ4
	CompressionZSTD = compress.ZSTD
)

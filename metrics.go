package dynvec

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting storage metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
//
// Example Prometheus integration:
//
//	type PrometheusCollector struct {
//	    allocCounter    prometheus.Counter
//	    allocHistogram  prometheus.Histogram
//	}
//
//	func (p *PrometheusCollector) RecordAllocate(elems int, duration time.Duration, err error) {
//	    p.allocCounter.Inc()
//	    // ... record error state, duration, etc.
//	}
//
// A collector may be shared by many containers and must be safe for
// concurrent use.
type MetricsCollector interface {
	// RecordAllocate is called after each buffer allocation request.
	// elems is the requested slot count, err is nil if successful.
	RecordAllocate(elems int, duration time.Duration, err error)

	// RecordDeallocate is called when a buffer of elems slots is returned.
	RecordDeallocate(elems int)

	// RecordRelocate is called after elems live elements were transferred
	// to a new buffer.
	RecordRelocate(elems int)

	// RecordSnapshot is called after each bit snapshot write or read.
	RecordSnapshot(bytes int64, duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordAllocate(int, time.Duration, error)   {}
func (NoopMetricsCollector) RecordDeallocate(int)                       {}
func (NoopMetricsCollector) RecordRelocate(int)                         {}
func (NoopMetricsCollector) RecordSnapshot(int64, time.Duration, error) {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	AllocateCount      atomic.Int64
	AllocateErrors     atomic.Int64
	AllocatedElems     atomic.Int64
	AllocateTotalNanos atomic.Int64
	DeallocateCount    atomic.Int64
	DeallocatedElems   atomic.Int64
	RelocateCount      atomic.Int64
	RelocatedElems     atomic.Int64
	SnapshotCount      atomic.Int64
	SnapshotErrors     atomic.Int64
	SnapshotBytes      atomic.Int64
}

// RecordAllocate implements MetricsCollector.
func (b *BasicMetricsCollector) RecordAllocate(elems int, duration time.Duration, err error) {
	b.AllocateCount.Add(1)
	b.AllocateTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.AllocateErrors.Add(1)
		return
	}
	b.AllocatedElems.Add(int64(elems))
}

// RecordDeallocate implements MetricsCollector.
func (b *BasicMetricsCollector) RecordDeallocate(elems int) {
	b.DeallocateCount.Add(1)
	b.DeallocatedElems.Add(int64(elems))
}

// RecordRelocate implements MetricsCollector.
func (b *BasicMetricsCollector) RecordRelocate(elems int) {
	b.RelocateCount.Add(1)
	b.RelocatedElems.Add(int64(elems))
}

// RecordSnapshot implements MetricsCollector.
func (b *BasicMetricsCollector) RecordSnapshot(bytes int64, _ time.Duration, err error) {
	b.SnapshotCount.Add(1)
	if err != nil {
		b.SnapshotErrors.Add(1)
		return
	}
	b.SnapshotBytes.Add(bytes)
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		AllocateCount:    b.AllocateCount.Load(),
		AllocateErrors:   b.AllocateErrors.Load(),
		AllocateAvgNanos: b.getAvgAllocateNanos(),
		AllocatedElems:   b.AllocatedElems.Load(),
		DeallocateCount:  b.DeallocateCount.Load(),
		DeallocatedElems: b.DeallocatedElems.Load(),
		LiveElems:        b.AllocatedElems.Load() - b.DeallocatedElems.Load(),
		RelocateCount:    b.RelocateCount.Load(),
		RelocatedElems:   b.RelocatedElems.Load(),
		SnapshotCount:    b.SnapshotCount.Load(),
		SnapshotErrors:   b.SnapshotErrors.Load(),
		SnapshotBytes:    b.SnapshotBytes.Load(),
	}
}

func (b *BasicMetricsCollector) getAvgAllocateNanos() int64 {
	count := b.AllocateCount.Load()
	if count == 0 {
		return 0
	}
	return b.AllocateTotalNanos.Load() / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	AllocateCount    int64
	AllocateErrors   int64
	AllocateAvgNanos int64
	AllocatedElems   int64
	DeallocateCount  int64
	DeallocatedElems int64
	LiveElems        int64 // allocated slots not yet returned
	RelocateCount    int64
	RelocatedElems   int64
	SnapshotCount    int64
	SnapshotErrors   int64
	SnapshotBytes    int64
}

// Package resource implements the Controller used to budget memory and IO
// for containers that share one process-wide limit.
//
// The Controller manages two resource types:
//
//   - Memory: Track and limit element storage across containers (fail-fast or blocking)
//   - IO: Rate-limit snapshot streams through a token bucket
//
// # Architecture
//
//	┌───────────────────────────────────────────────┐
//	│                  Controller                   │
//	├───────────────────────┬───────────────────────┤
//	│  Memory Limit (sem)   │  IO Rate Limiter      │
//	├───────────────────────┼───────────────────────┤
//	│  AcquireMemory        │  AcquireIO            │
//	│  AcquireMemoryContext │  LimitWriter          │
//	│  ReleaseMemory        │  LimitReader          │
//	│  MemoryUsage          │                       │
//	└───────────────────────┴───────────────────────┘
//
// # Memory Management
//
// Memory tracking uses a weighted semaphore for hard limits and atomic counters
// for usage tracking. AcquireMemory is non-blocking and returns immediately
// with ErrMemoryLimitExceeded if the limit would be exceeded:
//
//	rc := resource.NewController(resource.Config{
//	    MemoryLimitBytes: 64 << 20,
//	})
//
//	if err := rc.AcquireMemory(4096); err != nil {
//	    // ErrMemoryLimitExceeded - caller decides retry/backoff
//	}
//	defer rc.ReleaseMemory(4096)
//
// # IO Rate Limiting
//
//	rc := resource.NewController(resource.Config{
//	    IOLimitBytesPerSec: 8 << 20,
//	})
//	w = resource.LimitWriter(ctx, w, rc)
//
// All methods handle a nil Controller gracefully - they become no-ops.
package resource

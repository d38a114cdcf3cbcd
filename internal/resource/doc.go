// Package resource bounds the memory, worker and IO budget of a catalog.
//
//   - Memory: decoded columns and cached blocks reserve bytes from a weighted
//     semaphore. AcquireMemory blocks, TryAcquireMemory fails fast.
//   - Workers: column encode and decode jobs hold a worker slot.
//   - IO: a token bucket throttles blob uploads and downloads in bytes per second.
//
// A nil *Controller imposes no limits, so callers never need nil checks:
//
//	rc := resource.NewController(resource.Config{
//	    MemoryLimitBytes:   1 << 30,
//	    MaxWorkers:         4,
//	    IOLimitBytesPerSec: 64 << 20,
//	})
//	w := resource.NewRateLimitedWriter(ctx, blob, rc)
package resource

// Package resource implements the Controller for global limits on sheets.
//
// The Controller manages three resource types:
//
//   - Memory: Track column buffer bytes against a budget (fail-fast)
//   - Concurrency: Bound the goroutines a row edit fans out to
//   - IO: Rate-limit snapshot readers and writers
//
// # Architecture
//
//	┌─────────────────────────────────────────────────────────────┐
//	│                        Controller                           │
//	├─────────────────┬─────────────────┬─────────────────────────┤
//	│  Memory Budget  │  Background     │  IO Rate Limiter        │
//	│  (atomic)       │  Workers (sem)  │  (token bucket)         │
//	├─────────────────┼─────────────────┼─────────────────────────┤
//	│  AcquireMemory  │  AcquireBack-   │  AcquireIO              │
//	│  ChargeMemory   │  ground         │  RateLimitedWriter      │
//	│  ReleaseMemory  │  TryAcquire     │  RateLimitedReader      │
//	│  Fits           │  Release        │                         │
//	└─────────────────┴─────────────────┴─────────────────────────┘
//
// # Memory Management
//
// AcquireMemory reserves ahead of an allocation and returns
// ErrMemoryLimitExceeded immediately if the budget cannot cover it.
// Stores grow inside range edits that cannot fail, so the growth they report
// afterwards is recorded with ChargeMemory, which never refuses:
//
//	rc := resource.NewController(resource.Config{
//	    MemoryLimitBytes: 64 << 20,
//	})
//
//	if !rc.Fits(delta) {
//	    return resource.ErrMemoryLimitExceeded
//	}
//	s.CheckIndex(row) // grow hook calls rc.ChargeMemory(delta)
//
// # IO Rate Limiting
//
// Readers and writers request tokens in chunks no larger than the limiter
// burst, so a single large snapshot block never waits forever:
//
//	w := resource.NewRateLimitedWriter(ctx, buf, rc)
//
// # Nil Safety
//
// All methods handle nil Controller gracefully - they become no-ops.
package resource

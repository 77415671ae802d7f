// internal/sequence/allocator.go
package sequence

import (
	"context"
	"fmt"
	"sync"

	"github.com/lacra/agritrace-backend/internal/batchcode"
	"github.com/lacra/agritrace-backend/internal/errs"
)

// Allocator hands out sequence numbers within a composite key. A number is
// returned at most once per key, whatever the number of concurrent callers.
// Implementations report exhaustion as errs.KindCapacityExceeded and
// backend failures as errs.KindUnavailable.
type Allocator interface {
	Next(ctx context.Context, key batchcode.Key) (int, error)
}

func limitOrDefault(limit int) int {
	if limit <= 0 || limit > batchcode.MaxSequence {
		return batchcode.MaxSequence
	}
	return limit
}

func exhausted(key batchcode.Key, limit int) error {
	return errs.CapacityExceeded(fmt.Sprintf("sequence space for %s exhausted at %d", key, limit))
}

// MemoryAllocator keeps counters in process memory. Counters are lost on
// restart, so it only suits development and tests.
type MemoryAllocator struct {
	mu       sync.Mutex
	counters map[string]int
	limit    int
}

func NewMemoryAllocator(limit int) *MemoryAllocator {
	return &MemoryAllocator{
		counters: make(map[string]int),
		limit:    limitOrDefault(limit),
	}
}

func (a *MemoryAllocator) Next(ctx context.Context, key batchcode.Key) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, errs.Unavailable("sequence allocation cancelled", err)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	k := key.String()
	if a.counters[k] >= a.limit {
		return 0, exhausted(key, a.limit)
	}
	a.counters[k]++
	return a.counters[k], nil
}

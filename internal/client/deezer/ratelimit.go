package deezer

import (
	"context"
	"sync"
	"time"
)

// requestLimiter bounds the number of concurrent downloads and enforces a
// minimum interval between the starts of successive ones. Both limits apply
// to the whole download pipeline, from ISRC resolution through payload
// streaming, not to individual HTTP requests.
type requestLimiter struct {
	slots       chan struct{}
	minInterval time.Duration

	mu        sync.Mutex
	lastStart time.Time
}

func newRequestLimiter(maxConcurrent int64, minInterval time.Duration) *requestLimiter {
	return &requestLimiter{
		slots:       make(chan struct{}, maxConcurrent),
		minInterval: minInterval,
	}
}

// acquire blocks until a concurrency slot is free, then waits out whatever
// remains of the minimum interval since the previous acquisition. The
// interval check, the wait and the timestamp update all happen under the
// mutex, so concurrent callers serialize through the spacing gate one at a
// time and two downloads can never start closer together than the interval.
func (l *requestLimiter) acquire(ctx context.Context) error {
	select {
	case l.slots <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.lastStart.IsZero() {
		if remaining := l.minInterval - time.Since(l.lastStart); remaining > 0 {
			timer := time.NewTimer(remaining)
			defer timer.Stop()

			select {
			case <-timer.C:
			case <-ctx.Done():
				<-l.slots

				return ctx.Err()
			}
		}
	}

	l.lastStart = time.Now()

	return nil
}

// release returns the concurrency slot taken by a successful acquire.
func (l *requestLimiter) release() {
	<-l.slots
}

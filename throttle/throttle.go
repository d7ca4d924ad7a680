// Copyright 2024 The resilient Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package throttle

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// DefaultInterval is the minimum spacing enforced between operations
// sharing an identifier when no interval is specified.
const DefaultInterval = 100 * time.Millisecond

// A Throttler suspends callers until a minimum interval has elapsed
// since the last operation under the same identifier. A Throttler is
// safe for concurrent use by multiple goroutines, and waits for one
// identifier never block progress under other identifiers.
type Throttler struct {
	interval time.Duration

	lock     sync.Mutex
	limiters map[string]*rate.Limiter
	last     map[string]time.Time
	counts   map[string]int64
}

// New constructs a Throttler enforcing the given minimum interval
// between operations sharing an identifier. If interval is zero or
// negative, DefaultInterval is used.
func New(interval time.Duration) *Throttler {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Throttler{
		interval: interval,
		limiters: make(map[string]*rate.Limiter),
		last:     make(map[string]time.Time),
		counts:   make(map[string]int64),
	}
}

// Interval returns the minimum spacing the Throttler enforces.
func (t *Throttler) Interval() time.Duration {
	return t.interval
}

// Wait suspends the caller until the minimum interval has elapsed since
// the last operation under id, then records the operation and returns.
// The first operation under an identifier proceeds immediately.
//
// The slot for the operation is reserved before the wait begins, so a
// second caller arriving during the wait is scheduled a full interval
// later rather than alongside the first.
//
// If ctx is canceled, or its deadline would expire before the wait
// ends, Wait returns the context's error without recording an
// operation.
func (t *Throttler) Wait(ctx context.Context, id string) error {
	if err := t.limiter(id).Wait(ctx); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		// The limiter fails fast when the remaining deadline cannot
		// accommodate the wait; surface that as the deadline error it
		// is about to become.
		return context.DeadlineExceeded
	}

	t.lock.Lock()
	now := time.Now()
	if now.After(t.last[id]) {
		t.last[id] = now
	}
	t.counts[id]++
	t.lock.Unlock()
	return nil
}

// Reset clears all per-identifier state: limiters, timestamps, and
// operation counts. Operations in flight at the time of the call keep
// the limiter they already reserved against.
func (t *Throttler) Reset() {
	t.lock.Lock()
	t.limiters = make(map[string]*rate.Limiter)
	t.last = make(map[string]time.Time)
	t.counts = make(map[string]int64)
	t.lock.Unlock()
}

// Snapshot returns copies of the per-identifier operation counts and
// last-operation timestamps. The returned maps are owned by the caller
// and detached from the Throttler's internal state.
func (t *Throttler) Snapshot() (counts map[string]int64, last map[string]time.Time) {
	t.lock.Lock()
	defer t.lock.Unlock()
	counts = make(map[string]int64, len(t.counts))
	for id, n := range t.counts {
		counts[id] = n
	}
	last = make(map[string]time.Time, len(t.last))
	for id, at := range t.last {
		last[id] = at
	}
	return counts, last
}

func (t *Throttler) limiter(id string) *rate.Limiter {
	t.lock.Lock()
	defer t.lock.Unlock()
	l, ok := t.limiters[id]
	if !ok {
		l = rate.NewLimiter(rate.Every(t.interval), 1)
		t.limiters[id] = l
	}
	return l
}

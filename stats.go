// Copyright 2024 The resilient Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package resilient

import (
	"time"
)

// Stats is a point-in-time snapshot of an Executor's per-identifier
// counters, for diagnostics and test assertions. The maps are owned by
// the caller and detached from the Executor's internal state. Stats
// never influences the Executor's control flow.
type Stats struct {
	// Requests counts attempts made per identifier since construction
	// or the last Reset. Throttled-but-canceled waits do not count.
	Requests map[string]int64

	// LastRequest holds the time of the most recent attempt per
	// identifier. Timestamps are monotonically non-decreasing per
	// identifier between resets.
	LastRequest map[string]time.Time

	// Failures counts consecutive failed attempts per identifier. A
	// successful attempt clears the identifier's count.
	Failures map[string]int

	// Config is the active configuration, after defaults were applied.
	Config Config
}

// Stats returns a snapshot of the executor's per-identifier request
// counts, last-request timestamps, consecutive-failure counts, and
// active configuration.
func (x *Executor) Stats() Stats {
	x.init()

	counts, last := x.throttler.Snapshot()

	x.lock.Lock()
	failures := make(map[string]int, len(x.failures))
	for id, n := range x.failures {
		failures[id] = n
	}
	x.lock.Unlock()

	return Stats{
		Requests:    counts,
		LastRequest: last,
		Failures:    failures,
		Config:      x.cfg,
	}
}

// Reset clears all per-identifier counters, timestamps, and throttle
// state. The configuration is unaffected. Reset exists for test
// isolation and diagnostics; it does not abort executions in flight.
func (x *Executor) Reset() {
	x.init()
	x.throttler.Reset()
	x.lock.Lock()
	x.failures = make(map[string]int)
	x.lock.Unlock()
}

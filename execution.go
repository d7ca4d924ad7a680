// Copyright 2024 The resilient Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package resilient

import (
	"time"
)

// An Execution represents the state of a single Execute call as it
// progresses through throttling, attempts, and backoff waits. It is
// passed to event handlers at each lifecycle event and exists for
// logging and diagnostics; it is not persisted, and handlers should
// treat its fields as read-only.
type Execution struct {
	// ID uniquely identifies this execution, for correlating log lines
	// and handler observations across attempts.
	ID string

	// Identifier is the throttle bucket the execution runs under.
	Identifier string

	// Start is the time the execution started. It is assigned when the
	// execution begins and remains constant thereafter.
	Start time.Time

	// End is the time the execution ended. It contains the zero value
	// until the execution ends.
	End time.Time

	// Attempt is the zero-based number of the current attempt: zero on
	// the initial try, one on the first retry, and so on.
	Attempt int

	// MaxRetries is the retry budget in effect for this execution,
	// after any per-call override.
	MaxRetries int

	// Wait is the backoff delay applied after the most recent failed
	// attempt, or zero if no backoff has been applied yet. It is set
	// before the BeforeWait event fires.
	Wait time.Duration

	// Err is the error from the most recent attempt, or nil if the
	// most recent attempt succeeded or no attempt has finished yet.
	Err error
}

// Attempts returns the number of times the operation has been invoked
// so far within the execution.
func (e *Execution) Attempts() int {
	return e.Attempt + 1
}

// Duration returns the duration of the execution. If the execution has
// ended, it is the distance between the start and end times; otherwise
// it is the distance between the start time and now.
func (e *Execution) Duration() time.Duration {
	if e.End.IsZero() {
		return time.Since(e.Start)
	}
	return e.End.Sub(e.Start)
}

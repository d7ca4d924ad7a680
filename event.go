// Copyright 2024 The resilient Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package resilient

// An Event identifies the event type when installing or running a
// Handler. Install event handlers in an Executor to observe the retry
// lifecycle, for example to collect metrics or write structured logs.
type Event int

const (
	// BeforeExecutionStart identifies the event that occurs before the
	// execution makes its first attempt. When it fires, the execution's
	// ID, identifier, retry budget, and start time are set.
	BeforeExecutionStart Event = iota
	// BeforeAttempt identifies the event that occurs before each
	// individual operation attempt, after any throttle wait for the
	// execution's identifier has elapsed.
	BeforeAttempt
	// AfterAttempt identifies the event that occurs after each
	// operation attempt, regardless of whether it succeeded. When it
	// fires, the execution's Err field holds the attempt's error, or
	// nil on success. It fires before the error is classified, so it
	// sees rate-limit and non-rate-limit failures alike.
	AfterAttempt
	// BeforeWait identifies the event that occurs after a rate-limited
	// attempt, before the executor sleeps for the backoff delay. When
	// it fires, the execution's Wait field holds the delay about to be
	// applied.
	BeforeWait
	// AfterExecutionEnd identifies the event that occurs after the
	// execution ends, whether by success, immediate failure,
	// exhaustion, or cancellation. When it fires, the execution's End
	// time is set and its Err field holds the final error, if any.
	AfterExecutionEnd
	// eventSentinel provides the total number of events typed as an
	// Event.
	eventSentinel

	// numEvents provides the total number of events typed as an int.
	numEvents = int(eventSentinel)
)

var eventNames = []string{
	"BeforeExecutionStart",
	"BeforeAttempt",
	"AfterAttempt",
	"BeforeWait",
	"AfterExecutionEnd",
}

// Events returns a slice containing all events which can occur during
// an execution, in the order in which they would first occur.
func Events() []Event {
	return []Event{
		BeforeExecutionStart,
		BeforeAttempt,
		AfterAttempt,
		BeforeWait,
		AfterExecutionEnd,
	}
}

// Name returns the name of the event.
func (evt Event) Name() string {
	return eventNames[int(evt)]
}

// String returns the name of the event.
func (evt Event) String() string {
	return evt.Name()
}

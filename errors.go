// Copyright 2024 The resilient Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package resilient

import (
	"fmt"
)

// An ExhaustedError is returned by Execute when an operation kept
// failing with rate-limit errors until the retry budget was spent. It
// is terminal: the executor will not make further attempts for the
// call, and callers should not immediately re-issue it.
type ExhaustedError struct {
	// Attempts is the total number of times the operation was invoked,
	// including the initial try.
	Attempts int
	// Last is the rate-limit error from the final attempt.
	Last error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("resilient: retries exhausted after %d attempt(s): %s", e.Attempts, e.Last)
}

// Unwrap returns the rate-limit error from the final attempt.
func (e *ExhaustedError) Unwrap() error {
	return e.Last
}

// A CanceledError is returned by Execute when the caller's context was
// canceled, or its deadline fired, while the executor was waiting in a
// throttle or backoff period. A canceled wait does not count as an
// attempt.
type CanceledError struct {
	// Cause is the underlying error, typically context.Canceled or
	// context.DeadlineExceeded.
	Cause error
}

func (e *CanceledError) Error() string {
	return fmt.Sprintf("resilient: execution canceled: %s", e.Cause)
}

// Unwrap returns the underlying cause, so errors.Is reports true for
// context.Canceled or context.DeadlineExceeded as appropriate.
func (e *CanceledError) Unwrap() error {
	return e.Cause
}

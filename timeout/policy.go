// Copyright 2024 The resilient Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package timeout

import (
	"time"
)

// A Policy decides how long an individual operation attempt may run
// before its context deadline fires.
//
// Implementations of Policy must be safe for concurrent use by multiple
// goroutines.
type Policy interface {
	// Timeout returns the timeout to set on the attempt with the given
	// zero-based number within the execution: 0 for the initial try,
	// 1 for the first retry, and so on.
	Timeout(attempt int) time.Duration
}

// DefaultPolicy is the default timeout policy. It sets a fixed timeout
// of 30 seconds on each attempt.
var DefaultPolicy Policy = Fixed(30 * time.Second)

// Infinite is a built-in timeout policy which never times out.
var Infinite Policy = Fixed(1<<63 - 1)

// Fixed constructs a timeout policy that uses the same value to set
// every attempt timeout. The return value is a timeout policy that
// always returns the value d.
func Fixed(d time.Duration) Policy {
	return policy([]time.Duration{d})
}

// Adaptive constructs a timeout policy that loosens the attempt timeout
// as retries accumulate.
//
// Parameter initial is the timeout for the initial try. Parameter after
// contains the timeouts for subsequent retries: after[0] for the first
// retry, after[1] for the second, and so on. If more retries are made
// than after has elements, the last element of after is used.
//
// Use Adaptive when the remote service exhibits one-off slowness that a
// quick timeout and retry can cure, but later attempts should be given
// room to finish rather than timing out forever.
func Adaptive(initial time.Duration, after ...time.Duration) Policy {
	p := make([]time.Duration, 1, 1+len(after))
	p[0] = initial
	return policy(append(p, after...))
}

type policy []time.Duration

func (p policy) Timeout(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	if attempt > len(p)-1 {
		attempt = len(p) - 1
	}
	return p[attempt]
}

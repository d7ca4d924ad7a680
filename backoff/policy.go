// Copyright 2024 The resilient Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package backoff

import (
	"math"
	"math/rand"
	"sync"
	"time"
)

// A Policy computes how long to wait before retrying a failed
// operation.
//
// Implementations of Policy must be safe for concurrent use by multiple
// goroutines.
//
// Parameter attempt is the 1-indexed count of retries already made, not
// including the initial try: the first retry is computed with attempt 1.
// Parameter hint carries a server-provided wait (for example from a
// Retry-After header), or zero when the server provided none. A
// positive hint takes precedence over the calculated delay, subject to
// the policy's maximum.
type Policy interface {
	Delay(attempt int, hint time.Duration) time.Duration
}

// JitterFraction is the fraction of the calculated delay used as the
// jitter band. The jitter added to each delay is a uniform random
// duration in [0, JitterFraction*delay).
const JitterFraction = 0.1

// DefaultPolicy is the default delay policy. It uses a jittered
// exponential backoff with a base delay of 1 second, a maximum delay of
// 30 seconds, and a doubling multiplier.
var DefaultPolicy Policy = NewExponential(time.Second, 30*time.Second, 2, time.Now())

// Fixed constructs a Policy that always returns the given duration,
// ignoring the attempt number. A positive hint still takes precedence,
// capped at d.
func Fixed(d time.Duration) Policy {
	return fixedPolicy(d)
}

type fixedPolicy time.Duration

func (p fixedPolicy) Delay(_ int, hint time.Duration) time.Duration {
	if hint > 0 {
		return minDuration(hint, time.Duration(p))
	}
	return time.Duration(p)
}

// NewExponential constructs a Policy implementing an exponential
// backoff formula with jitter.
//
// The delay for a retry is:
//
//	delay := min(base * multiplier^(attempt-1), max)
//
// plus a uniform random jitter in [0, JitterFraction*delay), with the
// final value never exceeding max. If a positive hint is given, the
// returned delay is min(hint, max) with no jitter, honoring the
// server's request as exactly as the maximum allows.
//
// Base and max must be positive values, max must be at least equal to
// base, and multiplier must be greater than 1.
//
// Parameter jitter seeds the randomness. To make a policy that does not
// jitter and simply returns the calculated ceiling on each attempt,
// pass nil for jitter. Otherwise you may specify either a random number
// generator seed value (as a time.Time, int, or int64) or a random
// number generator (as a rand.Source or *rand.Rand).
func NewExponential(base, max time.Duration, multiplier float64, jitter interface{}) Policy {
	if base < 1 {
		panic("backoff: base must be positive")
	}
	if max < base {
		panic("backoff: max must be at least base")
	}
	if multiplier <= 1 {
		panic("backoff: multiplier must be greater than 1")
	}

	return &exponentialPolicy{
		base:       base,
		max:        max,
		multiplier: multiplier,
		rand:       jitterToRand(jitter),
	}
}

type exponentialPolicy struct {
	base       time.Duration
	max        time.Duration
	multiplier float64
	rand       *rand.Rand
	lock       sync.Mutex
}

func (p *exponentialPolicy) Delay(attempt int, hint time.Duration) time.Duration {
	if hint > 0 {
		return minDuration(hint, p.max)
	}

	if attempt < 1 {
		attempt = 1
	}

	ceil := float64(p.base) * math.Pow(p.multiplier, float64(attempt-1))
	if math.IsNaN(ceil) || ceil > float64(p.max) {
		ceil = float64(p.max)
	}

	delay := time.Duration(ceil)
	if band := int64(ceil * JitterFraction); band > 0 {
		p.lock.Lock()
		if p.rand != nil {
			delay += time.Duration(p.rand.Int63n(band))
		}
		p.lock.Unlock()
	}

	return minDuration(delay, p.max)
}

func jitterToRand(jitter interface{}) *rand.Rand {
	var s rand.Source
	switch j := jitter.(type) {
	case nil:
		return nil
	case time.Time:
		s = rand.NewSource(j.UnixNano())
	case int:
		s = rand.NewSource(int64(j))
	case int64:
		s = rand.NewSource(j)
	case *rand.Rand:
		if j == nil {
			panic("backoff: jitter may not be a typed nil")
		}
		return j
	case rand.Source:
		s = j
	default:
		panic("backoff: invalid jitter type")
	}
	return rand.New(s)
}

func minDuration(a, b time.Duration) time.Duration {
	if a < b {
		return a
	}
	return b
}

// Copyright 2024 The resilient Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package resilient

import (
	"os"
	"strconv"
	"time"
)

// Default configuration values used wherever Config leaves a field
// zero.
const (
	// DefaultMaxRetries is the default number of retries after the
	// initial try.
	DefaultMaxRetries = 5
	// DefaultBaseDelay is the default backoff delay before the first
	// retry.
	DefaultBaseDelay = 1 * time.Second
	// DefaultMaxDelay is the default ceiling on any single backoff
	// delay, including server-requested waits.
	DefaultMaxDelay = 30 * time.Second
	// DefaultBackoffMultiplier is the default growth factor between
	// successive backoff delays.
	DefaultBackoffMultiplier = 2.0
)

// SkipEnvVar is the environment variable consulted by FromEnv for the
// SkipRateLimiting toggle. Any value accepted by strconv.ParseBool
// enables or disables the skip; anything else leaves it off.
const SkipEnvVar = "RESILIENT_SKIP_RATE_LIMITING"

// A Config specifies the retry and throttle behavior of an Executor.
// The zero value is a valid configuration that uses the package
// defaults. A Config is treated as immutable once an Executor is built
// from it.
type Config struct {
	// MaxRetries is the number of retries allowed after the initial
	// try, so an execution makes at most MaxRetries+1 attempts. If
	// zero, DefaultMaxRetries is used. Use the per-call WithMaxRetries
	// option to request zero retries for an individual execution.
	MaxRetries int

	// BaseDelay is the backoff delay before the first retry. If zero,
	// DefaultBaseDelay is used.
	BaseDelay time.Duration

	// MaxDelay caps every backoff delay, including server-requested
	// Retry-After waits. If zero, DefaultMaxDelay is used.
	MaxDelay time.Duration

	// BackoffMultiplier is the growth factor between successive backoff
	// delays. If zero, DefaultBackoffMultiplier is used. Values must be
	// greater than 1.
	BackoffMultiplier float64

	// MinInterval is the minimum spacing enforced between attempts
	// sharing an identifier. If zero, throttle.DefaultInterval is used.
	MinInterval time.Duration

	// SkipRateLimiting disables throttling and retry entirely: the
	// operation is invoked exactly once and whatever it returns is
	// propagated untouched. This is a deliberate escape hatch for test
	// runs against a mock backend, not a tuning knob.
	SkipRateLimiting bool
}

// FromEnv returns the zero-value Config with SkipRateLimiting set from
// the SkipEnvVar environment variable.
func FromEnv() Config {
	var cfg Config
	if v, err := strconv.ParseBool(os.Getenv(SkipEnvVar)); err == nil {
		cfg.SkipRateLimiting = v
	}
	return cfg
}

// withDefaults returns a copy of the config with zero fields replaced
// by the package defaults.
func (c Config) withDefaults() Config {
	if c.MaxRetries <= 0 {
		c.MaxRetries = DefaultMaxRetries
	}
	if c.BaseDelay <= 0 {
		c.BaseDelay = DefaultBaseDelay
	}
	if c.MaxDelay <= 0 {
		c.MaxDelay = DefaultMaxDelay
	}
	if c.MaxDelay < c.BaseDelay {
		c.MaxDelay = c.BaseDelay
	}
	if c.BackoffMultiplier <= 1 {
		c.BackoffMultiplier = DefaultBackoffMultiplier
	}
	return c
}

// Copyright 2024 The resilient Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package resilient

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/surveylens/resilient/backoff"
	"github.com/surveylens/resilient/ratelimit"
	"github.com/surveylens/resilient/throttle"
	"github.com/surveylens/resilient/timeout"
)

// DefaultIdentifier is the throttle bucket used when a call does not
// specify one with WithIdentifier.
const DefaultIdentifier = "default"

// An Operation is a single unit of retryable work: one outbound call to
// a backend, auth provider, or HTTP endpoint. The executor invokes it
// once per attempt with a context whose deadline reflects the attempt
// timeout policy; implementations should pass ctx through to whatever
// blocking call they make.
//
// Returning an error classified as a rate limit by package ratelimit
// makes the executor back off and retry. Any other error ends the
// execution immediately.
type Operation func(ctx context.Context) (any, error)

// An Executor runs operations with per-identifier throttling, rate-limit
// classification, and bounded retry with exponential backoff. Its zero
// value is a valid configuration using the package defaults.
//
// Executors hold per-identifier throttle and failure state, so they
// should be reused rather than created per call. An Executor is safe
// for concurrent use by multiple goroutines: executions under different
// identifiers proceed independently, and per-identifier state is
// internally synchronized. No state is shared between distinct
// Executor values.
type Executor struct {
	// Config specifies the retry and throttle behavior. The zero value
	// uses the package defaults. It must not be modified after the
	// first call to Execute.
	Config Config

	// Backoff computes the delay before each retry. If nil, a jittered
	// exponential policy derived from Config is used.
	Backoff backoff.Policy

	// TimeoutPolicy bounds each individual attempt. If nil,
	// timeout.DefaultPolicy is used.
	TimeoutPolicy timeout.Policy

	// Handlers allows custom handler chains to be invoked when
	// designated events occur during an execution. If nil, no custom
	// handlers are run.
	Handlers *HandlerGroup

	// Logger receives structured logs about attempts, backoff waits,
	// and terminal failures. If nil, logging is disabled.
	Logger *zap.Logger

	once      sync.Once
	cfg       Config
	delay     backoff.Policy
	throttler *throttle.Throttler
	logger    *zap.Logger

	lock     sync.Mutex
	failures map[string]int
}

// NewExecutor constructs an Executor from a Config. It is equivalent to
// &Executor{Config: cfg} and exists for symmetry with FromEnv:
//
//	x := resilient.NewExecutor(resilient.FromEnv())
func NewExecutor(cfg Config) *Executor {
	return &Executor{Config: cfg}
}

var emptyHandlers = HandlerGroup{}

func (x *Executor) init() {
	x.once.Do(func() {
		x.cfg = x.Config.withDefaults()
		x.delay = x.Backoff
		if x.delay == nil {
			x.delay = backoff.NewExponential(x.cfg.BaseDelay, x.cfg.MaxDelay, x.cfg.BackoffMultiplier, time.Now())
		}
		x.throttler = throttle.New(x.cfg.MinInterval)
		x.logger = x.Logger
		if x.logger == nil {
			x.logger = zap.NewNop()
		}
		x.failures = make(map[string]int)
	})
}

// Execute invokes op, retrying with backoff as long as it keeps failing
// with rate-limit errors and the retry budget allows. Before each
// attempt the executor waits out the minimum spacing for the
// execution's identifier, so concurrent executions sharing an
// identifier are serialized to at most one attempt per interval while
// executions under other identifiers proceed untouched.
//
// On success, Execute returns the operation's result and clears the
// identifier's consecutive-failure count. On a failure that is not a
// rate-limit condition, the error is propagated immediately with no
// retry. When the budget is exhausted the returned error is an
// *ExhaustedError wrapping the last rate-limit error. If ctx is
// canceled during a throttle or backoff wait, the returned error is a
// *CanceledError and no further attempt is made.
//
// When Config.SkipRateLimiting is set, op is invoked exactly once with
// ctx as given and whatever it returns is propagated untouched.
func (x *Executor) Execute(ctx context.Context, op Operation, opts ...ExecOption) (any, error) {
	x.init()

	call := execConfig{identifier: DefaultIdentifier, maxRetries: x.cfg.MaxRetries}
	for _, opt := range opts {
		opt(&call)
	}

	handlers := x.Handlers
	if handlers == nil {
		handlers = &emptyHandlers
	}

	e := &Execution{
		ID:         uuid.NewString(),
		Identifier: call.identifier,
		MaxRetries: call.maxRetries,
		Start:      time.Now(),
	}
	handlers.run(BeforeExecutionStart, e)

	if x.cfg.SkipRateLimiting {
		handlers.run(BeforeAttempt, e)
		result, err := op(ctx)
		e.Err = err
		handlers.run(AfterAttempt, e)
		x.finish(handlers, e)
		return result, err
	}

	for {
		if err := x.throttler.Wait(ctx, e.Identifier); err != nil {
			e.Err = canceled(ctx, err)
			x.finish(handlers, e)
			return nil, e.Err
		}

		handlers.run(BeforeAttempt, e)
		x.logger.Debug("attempt",
			zap.String("execution_id", e.ID),
			zap.String("identifier", e.Identifier),
			zap.Int("attempt", e.Attempt))

		result, err := x.attempt(ctx, op, e.Attempt)
		e.Err = err
		handlers.run(AfterAttempt, e)

		if err == nil {
			x.clearFailures(e.Identifier)
			x.finish(handlers, e)
			return result, nil
		}

		x.recordFailure(e.Identifier)

		if !ratelimit.IsRateLimit(err) {
			x.finish(handlers, e)
			return nil, err
		}

		if e.Attempt >= e.MaxRetries {
			e.Err = &ExhaustedError{Attempts: e.Attempts(), Last: err}
			x.logger.Error("retries exhausted",
				zap.String("execution_id", e.ID),
				zap.String("identifier", e.Identifier),
				zap.Int("attempts", e.Attempts()),
				zap.Error(err))
			x.finish(handlers, e)
			return nil, e.Err
		}

		hint, _ := ratelimit.Hint(err)
		e.Wait = x.delay.Delay(e.Attempt+1, hint)
		handlers.run(BeforeWait, e)
		x.logger.Warn("rate limited, backing off",
			zap.String("execution_id", e.ID),
			zap.String("identifier", e.Identifier),
			zap.Int("attempt", e.Attempt),
			zap.Duration("wait", e.Wait),
			zap.Duration("retry_after", hint))

		timer := time.NewTimer(e.Wait)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			e.Err = canceled(ctx, ctx.Err())
			x.finish(handlers, e)
			return nil, e.Err
		}

		e.Attempt++
	}
}

func (x *Executor) attempt(ctx context.Context, op Operation, attempt int) (any, error) {
	tp := x.TimeoutPolicy
	if tp == nil {
		tp = timeout.DefaultPolicy
	}
	actx, cancel := context.WithTimeout(ctx, tp.Timeout(attempt))
	defer cancel()
	return op(actx)
}

func (x *Executor) finish(handlers *HandlerGroup, e *Execution) {
	e.End = time.Now()
	handlers.run(AfterExecutionEnd, e)
}

func (x *Executor) recordFailure(id string) {
	x.lock.Lock()
	x.failures[id]++
	x.lock.Unlock()
}

func (x *Executor) clearFailures(id string) {
	x.lock.Lock()
	delete(x.failures, id)
	x.lock.Unlock()
}

func canceled(ctx context.Context, err error) *CanceledError {
	// Prefer the context's own error: the throttler may report a
	// fail-fast reservation error when the deadline cannot accommodate
	// the wait.
	if ctxErr := ctx.Err(); ctxErr != nil {
		return &CanceledError{Cause: ctxErr}
	}
	return &CanceledError{Cause: err}
}

// An ExecOption adjusts a single Execute call.
type ExecOption func(*execConfig)

type execConfig struct {
	identifier string
	maxRetries int
}

// WithIdentifier sets the throttle bucket for the call. Executions
// sharing an identifier are spaced at least the configured minimum
// interval apart; executions under different identifiers never delay
// each other. Callers wrapping HTTP requests typically use host+path.
func WithIdentifier(id string) ExecOption {
	return func(c *execConfig) {
		if id != "" {
			c.identifier = id
		}
	}
}

// WithMaxRetries overrides the configured retry budget for the call.
// Zero means the operation is attempted exactly once; negative values
// are treated as zero.
func WithMaxRetries(n int) ExecOption {
	return func(c *execConfig) {
		if n < 0 {
			n = 0
		}
		c.maxRetries = n
	}
}

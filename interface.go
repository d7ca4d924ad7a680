// Copyright 2024 The resilient Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package resilient

import (
	"context"
)

// Runner is the interface that wraps the basic Execute method.
//
// Execute invokes an operation under throttle, classification, and
// retry policy and returns its result. Executor implements the Runner
// interface, and any other Runner implementation must behave
// substantially the same as Executor.Execute.
type Runner interface {
	Execute(ctx context.Context, op Operation, opts ...ExecOption) (any, error)
}

// Run executes a typed operation on r and returns its result without
// the caller having to type-assert. It is a convenience wrapper around
// Runner.Execute for operations whose result type is known statically:
//
//	user, err := resilient.Run(ctx, x, func(ctx context.Context) (*User, error) {
//		return client.FetchUser(ctx, id)
//	}, resilient.WithIdentifier("api.example.com/users"))
func Run[T any](ctx context.Context, r Runner, op func(context.Context) (T, error), opts ...ExecOption) (T, error) {
	result, err := r.Execute(ctx, func(ctx context.Context) (any, error) {
		return op(ctx)
	}, opts...)
	if err != nil {
		var zero T
		return zero, err
	}
	t, _ := result.(T)
	return t, nil
}

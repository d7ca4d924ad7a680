// Copyright 2024 The resilient Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package resilient

import (
	"context"
	"sync"
)

// Default retry budgets for the Backend convenience wrappers.
//
// Auth calls use a smaller budget than queries: a credential problem
// disguised as throttling should surface quickly rather than be retried
// aggressively.
const (
	DefaultQueryRetries = 5
	DefaultAuthRetries  = 3
)

// Throttle identifiers used by the Backend wrappers. Queries and auth
// calls are bucketed separately so an auth storm cannot starve queries
// of throttle slots, and vice versa.
const (
	QueryIdentifier = "backend/query"
	AuthIdentifier  = "backend/auth"
)

// A Backend wraps a generic backend client's operations with the same
// throttle/retry treatment Client gives HTTP requests. Its zero value
// is a valid configuration using a default Executor.
//
// The backend client itself stays an external collaborator: Backend
// only sees the operation closures handed to Query and Auth, and
// whatever those closures return flows back to the caller under the
// executor's error policy.
type Backend struct {
	// Executor runs the operations. If nil, a zero-value Executor is
	// lazily created and reused for the life of the Backend.
	Executor *Executor

	once     sync.Once
	fallback *Executor
}

// Query runs a backend query operation with the default query retry
// budget (DefaultQueryRetries).
func (b *Backend) Query(ctx context.Context, op Operation) (any, error) {
	return b.executor().Execute(ctx, op,
		WithIdentifier(QueryIdentifier),
		WithMaxRetries(DefaultQueryRetries))
}

// Auth runs a backend authentication operation with the smaller auth
// retry budget (DefaultAuthRetries).
func (b *Backend) Auth(ctx context.Context, op Operation) (any, error) {
	return b.executor().Execute(ctx, op,
		WithIdentifier(AuthIdentifier),
		WithMaxRetries(DefaultAuthRetries))
}

func (b *Backend) executor() *Executor {
	if b.Executor != nil {
		return b.Executor
	}
	b.once.Do(func() {
		b.fallback = &Executor{}
	})
	return b.fallback
}

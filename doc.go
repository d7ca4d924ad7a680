// Copyright 2024 The resilient Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package resilient executes outbound operations with automatic retry on
rate-limit errors, exponential backoff with jitter, and per-endpoint
request throttling.

Create an Executor to begin running operations.

	x := resilient.NewExecutor(resilient.FromEnv())
	result, err := x.Execute(ctx, func(ctx context.Context) (any, error) {
		return backendClient.ListReports(ctx)
	}, resilient.WithIdentifier("backend/query"))

Only rate-limit errors are retried: an operation failing with anything
else surfaces immediately. Rate-limit errors are recognized by package
ratelimit (HTTP 429, or a message naming the condition), and a
server-provided Retry-After wait is honored up to the configured
maximum delay. After the retry budget is spent the caller receives a
single *ExhaustedError describing the total attempts and the last
underlying failure.

For HTTP calls, Client wraps any http.Client-compatible sender and
translates 429 responses into retryable errors:

	client := &resilient.Client{Executor: x}
	resp, err := client.Get(ctx, "https://api.example.com/surveys")

For a generic backend client, Backend provides query and auth wrappers
differing only in their retry budget:

	backend := &resilient.Backend{Executor: x}
	session, err := backend.Auth(ctx, signIn)

For control over retry timing, set a custom delay policy from package
backoff, and bound individual attempts with a policy from package
timeout:

	x := &resilient.Executor{
		Backoff:       backoff.NewExponential(250*time.Millisecond, 5*time.Second, 2, time.Now()),
		TimeoutPolicy: timeout.Adaptive(time.Second, 5*time.Second),
	}

To hook into the fine-grained details of the execution logic, install a
handler into the appropriate handler chain:

	handlers := &resilient.HandlerGroup{}
	handlers.PushBack(resilient.BeforeWait, resilient.HandlerFunc(
		func(_ resilient.Event, e *resilient.Execution) {
			log.Printf("backing off %s for %s", e.Wait, e.Identifier)
		}))
	x := &resilient.Executor{Handlers: handlers}

NewMetricsHandler builds on the same hook points to export attempt,
retry, and backoff metrics to Prometheus.

Executors are safe for concurrent use by multiple goroutines. Waits for
one identifier never delay executions under other identifiers, and
per-identifier state is synchronized internally, so the package behaves
correctly under true parallel execution, not just cooperative
scheduling.
*/
package resilient

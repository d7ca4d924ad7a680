// Copyright 2024 The resilient Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package resilient

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/surveylens/resilient/ratelimit"
)

func TestExecutorLogging(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	x := &Executor{Config: fastConfig(), Logger: zap.New(core)}

	calls := 0
	_, err := x.Execute(context.Background(), func(_ context.Context) (any, error) {
		calls++
		if calls == 1 {
			return nil, ratelimit.New(429, 0)
		}
		return nil, nil
	}, WithIdentifier("api/search"))
	require.NoError(t, err)

	attempts := logs.FilterMessage("attempt").All()
	assert.Len(t, attempts, 2)

	backoffs := logs.FilterMessage("rate limited, backing off").All()
	require.Len(t, backoffs, 1)
	fields := backoffs[0].ContextMap()
	assert.Equal(t, "api/search", fields["identifier"])
	assert.NotEmpty(t, fields["execution_id"])

	// Every line for one execution carries the same execution ID.
	id := fields["execution_id"]
	for _, entry := range attempts {
		assert.Equal(t, id, entry.ContextMap()["execution_id"])
	}
}

func TestExecutorLoggingExhausted(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	x := &Executor{Config: fastConfig(), Logger: zap.New(core)}

	_, err := x.Execute(context.Background(), func(_ context.Context) (any, error) {
		return nil, ratelimit.New(429, 0)
	}, WithMaxRetries(1))
	require.Error(t, err)

	exhausted := logs.FilterMessage("retries exhausted").All()
	require.Len(t, exhausted, 1)
	assert.Equal(t, int64(2), exhausted[0].ContextMap()["attempts"])
}

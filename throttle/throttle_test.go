// Copyright 2024 The resilient Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package throttle

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("explicit interval", func(t *testing.T) {
		assert.Equal(t, 50*time.Millisecond, New(50*time.Millisecond).Interval())
	})
	t.Run("default interval", func(t *testing.T) {
		assert.Equal(t, DefaultInterval, New(0).Interval())
		assert.Equal(t, DefaultInterval, New(-time.Second).Interval())
	})
}

func TestWait(t *testing.T) {
	t.Run("spacing enforced per identifier", func(t *testing.T) {
		th := New(40 * time.Millisecond)
		ctx := context.Background()
		start := time.Now()
		for i := 0; i < 3; i++ {
			require.NoError(t, th.Wait(ctx, "api.example.com/search"))
		}
		assert.GreaterOrEqual(t, time.Since(start), 80*time.Millisecond)
	})
	t.Run("first operation proceeds immediately", func(t *testing.T) {
		th := New(time.Second)
		start := time.Now()
		require.NoError(t, th.Wait(context.Background(), "fresh"))
		assert.Less(t, time.Since(start), 200*time.Millisecond)
	})
	t.Run("identifiers independent", func(t *testing.T) {
		th := New(time.Second)
		ctx := context.Background()
		start := time.Now()
		require.NoError(t, th.Wait(ctx, "a"))
		require.NoError(t, th.Wait(ctx, "b"))
		require.NoError(t, th.Wait(ctx, "c"))
		assert.Less(t, time.Since(start), 500*time.Millisecond)
	})
	t.Run("cancellation aborts the wait", func(t *testing.T) {
		th := New(time.Minute)
		ctx, cancel := context.WithCancel(context.Background())
		require.NoError(t, th.Wait(ctx, "x"))
		done := make(chan error, 1)
		go func() {
			done <- th.Wait(ctx, "x")
		}()
		time.Sleep(20 * time.Millisecond)
		cancel()
		select {
		case err := <-done:
			assert.ErrorIs(t, err, context.Canceled)
		case <-time.After(time.Second):
			t.Fatal("wait did not abort after cancellation")
		}
	})
	t.Run("expired deadline fails fast", func(t *testing.T) {
		th := New(time.Minute)
		require.NoError(t, th.Wait(context.Background(), "y"))
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		defer cancel()
		start := time.Now()
		err := th.Wait(ctx, "y")
		assert.ErrorIs(t, err, context.DeadlineExceeded)
		assert.Less(t, time.Since(start), time.Second)
	})
	t.Run("concurrent callers cannot share a slot", func(t *testing.T) {
		th := New(30 * time.Millisecond)
		var wg sync.WaitGroup
		start := time.Now()
		for i := 0; i < 4; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_ = th.Wait(context.Background(), "shared")
			}()
		}
		wg.Wait()
		// 4 callers at 30ms spacing need at least 3 full intervals.
		assert.GreaterOrEqual(t, time.Since(start), 90*time.Millisecond)
	})
}

func TestSnapshot(t *testing.T) {
	th := New(time.Millisecond)
	ctx := context.Background()
	require.NoError(t, th.Wait(ctx, "a"))
	require.NoError(t, th.Wait(ctx, "a"))
	require.NoError(t, th.Wait(ctx, "b"))

	counts, last := th.Snapshot()
	assert.Equal(t, map[string]int64{"a": 2, "b": 1}, counts)
	assert.Contains(t, last, "a")
	assert.Contains(t, last, "b")
	assert.False(t, last["a"].IsZero())

	// The snapshot is detached from internal state.
	counts["a"] = 99
	again, _ := th.Snapshot()
	assert.Equal(t, int64(2), again["a"])
}

func TestTimestampsMonotonic(t *testing.T) {
	th := New(time.Millisecond)
	ctx := context.Background()
	var prev time.Time
	for i := 0; i < 5; i++ {
		require.NoError(t, th.Wait(ctx, "m"))
		_, last := th.Snapshot()
		at := last["m"]
		assert.False(t, at.Before(prev))
		prev = at
	}
}

func TestReset(t *testing.T) {
	th := New(time.Minute)
	require.NoError(t, th.Wait(context.Background(), "a"))

	th.Reset()
	counts, last := th.Snapshot()
	assert.Empty(t, counts)
	assert.Empty(t, last)

	// After a reset the identifier starts fresh: no carried-over wait.
	start := time.Now()
	require.NoError(t, th.Wait(context.Background(), "a"))
	assert.Less(t, time.Since(start), time.Second)
}

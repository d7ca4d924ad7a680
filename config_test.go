// Copyright 2024 The resilient Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package resilient

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestConfigWithDefaults(t *testing.T) {
	t.Run("zero value", func(t *testing.T) {
		cfg := Config{}.withDefaults()
		assert.Equal(t, DefaultMaxRetries, cfg.MaxRetries)
		assert.Equal(t, DefaultBaseDelay, cfg.BaseDelay)
		assert.Equal(t, DefaultMaxDelay, cfg.MaxDelay)
		assert.Equal(t, DefaultBackoffMultiplier, cfg.BackoffMultiplier)
		assert.False(t, cfg.SkipRateLimiting)
	})
	t.Run("explicit values kept", func(t *testing.T) {
		cfg := Config{
			MaxRetries:        2,
			BaseDelay:         100 * time.Millisecond,
			MaxDelay:          3 * time.Second,
			BackoffMultiplier: 1.5,
		}.withDefaults()
		assert.Equal(t, 2, cfg.MaxRetries)
		assert.Equal(t, 100*time.Millisecond, cfg.BaseDelay)
		assert.Equal(t, 3*time.Second, cfg.MaxDelay)
		assert.Equal(t, 1.5, cfg.BackoffMultiplier)
	})
	t.Run("max delay raised to base delay", func(t *testing.T) {
		cfg := Config{BaseDelay: time.Second, MaxDelay: time.Millisecond}.withDefaults()
		assert.Equal(t, time.Second, cfg.MaxDelay)
	})
	t.Run("multiplier of 1 or less replaced", func(t *testing.T) {
		cfg := Config{BackoffMultiplier: 1}.withDefaults()
		assert.Equal(t, DefaultBackoffMultiplier, cfg.BackoffMultiplier)
	})
}

func TestFromEnv(t *testing.T) {
	t.Run("unset", func(t *testing.T) {
		assert.False(t, FromEnv().SkipRateLimiting)
	})
	t.Run("true", func(t *testing.T) {
		t.Setenv(SkipEnvVar, "true")
		assert.True(t, FromEnv().SkipRateLimiting)
	})
	t.Run("1", func(t *testing.T) {
		t.Setenv(SkipEnvVar, "1")
		assert.True(t, FromEnv().SkipRateLimiting)
	})
	t.Run("false", func(t *testing.T) {
		t.Setenv(SkipEnvVar, "false")
		assert.False(t, FromEnv().SkipRateLimiting)
	})
	t.Run("garbage ignored", func(t *testing.T) {
		t.Setenv(SkipEnvVar, "yes please")
		assert.False(t, FromEnv().SkipRateLimiting)
	})
}

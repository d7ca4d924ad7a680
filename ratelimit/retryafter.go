// Copyright 2024 The resilient Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package ratelimit

import (
	"net/http"
	"strconv"
	"strings"
	"time"
)

// ParseRetryAfter parses the value of a Retry-After header into a
// duration.
//
// The value may be a non-negative integer number of seconds, per RFC
// 7231 §7.1.3, or an HTTP-date, in which case the returned duration is
// the time remaining until that date (never negative). The second
// return value is false for an empty or unparseable value, in which
// case callers should fall back to their own backoff calculation.
func ParseRetryAfter(value string) (time.Duration, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, false
	}

	if secs, err := strconv.Atoi(value); err == nil {
		if secs < 0 {
			return 0, false
		}
		return time.Duration(secs) * time.Second, true
	}

	if at, err := http.ParseTime(value); err == nil {
		d := time.Until(at)
		if d < 0 {
			d = 0
		}
		return d, true
	}

	return 0, false
}

// FromResponse extracts a rate-limit error from an HTTP response with
// status 429, including any Retry-After hint. It returns nil if the
// response is nil or has any other status code.
func FromResponse(resp *http.Response) *Error {
	if resp == nil || resp.StatusCode != http.StatusTooManyRequests {
		return nil
	}

	var retryAfter time.Duration
	if d, ok := ParseRetryAfter(resp.Header.Get("Retry-After")); ok {
		retryAfter = d
	}
	return New(resp.StatusCode, retryAfter)
}

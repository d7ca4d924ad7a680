// Copyright 2024 The resilient Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package ratelimit

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// An Error represents a rate-limit condition reported by a server. It
// carries the HTTP-like status code that signaled the condition and,
// when the server provided one, the wait the server asked for before
// the next attempt.
//
// Error is produced by adapters that inspect responses (for example on
// an HTTP 429 with a Retry-After header) and consumed by retry loops,
// which use RetryAfter as a backoff hint.
type Error struct {
	// Status is the HTTP-like status code signaling the rate limit,
	// typically http.StatusTooManyRequests.
	Status int
	// RetryAfter is the server-requested wait before the next attempt.
	// It is zero if the server did not provide a hint.
	RetryAfter time.Duration
}

// New constructs a rate-limit error from a status code and an optional
// server-provided retry hint. Pass a zero retryAfter if the server did
// not provide one.
func New(status int, retryAfter time.Duration) *Error {
	return &Error{Status: status, RetryAfter: retryAfter}
}

// Error returns a human-readable description of the rate-limit
// condition.
func (e *Error) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("ratelimit: HTTP %d, retry after %s", e.Status, e.RetryAfter)
	}
	return fmt.Sprintf("ratelimit: HTTP %d", e.Status)
}

// A StatusCoder is an error that carries an HTTP-like status code.
// Errors from backend client libraries commonly satisfy this interface,
// letting IsRateLimit classify them without this package knowing their
// concrete types.
type StatusCoder interface {
	StatusCode() int
}

// IsRateLimit reports whether err represents a rate-limit condition.
//
// An error is a rate-limit condition if any error in its chain is an
// *Error, carries status code 429 via the StatusCoder interface, or has
// a message containing "rate limit" or "too many requests" (compared
// case-insensitively). A nil error is never a rate-limit condition.
//
// IsRateLimit looks at wrapped cause errors contained within err, not
// just err itself, in the manner of errors.As.
func IsRateLimit(err error) bool {
	if err == nil {
		return false
	}

	var rle *Error
	if errors.As(err, &rle) {
		return true
	}

	var sc StatusCoder
	if errors.As(err, &sc) && sc.StatusCode() == http.StatusTooManyRequests {
		return true
	}

	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "rate limit") || strings.Contains(msg, "too many requests")
}

// Hint returns the server-provided retry hint carried by err, if any
// error in err's chain is an *Error with a positive RetryAfter. The
// second return value indicates whether a hint was found.
func Hint(err error) (time.Duration, bool) {
	var rle *Error
	if errors.As(err, &rle) && rle.RetryAfter > 0 {
		return rle.RetryAfter, true
	}
	return 0, false
}

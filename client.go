// Copyright 2024 The resilient Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package resilient

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"sync"

	"github.com/surveylens/resilient/ratelimit"
)

// An HTTPDoer implements a Do method in the same manner as the Go
// standard library http.Client from the net/http package.
type HTTPDoer interface {
	// Do sends an HTTP request and returns an HTTP response following
	// policy (such as redirects, cookies, auth) configured on the
	// HTTPDoer.
	Do(r *http.Request) (*http.Response, error)
}

// A Client wraps an HTTPDoer with rate-limit aware retry. Its zero
// value is a valid configuration using http.DefaultClient and a
// default Executor.
//
// Client translates HTTP 429 responses into rate-limit errors so the
// Executor backs off and retries, honoring any Retry-After header the
// server provided. Every other response, including other error
// statuses, passes through unchanged: a 500 is a response, not an
// error, exactly as with the standard client.
//
// Requests are bucketed for throttling by host+path (see Identifier),
// so retries and spacing for one endpoint never delay requests to
// another.
//
// If you retry requests with a non-empty body (POST/PUT), ensure the
// request body is replayable: set req.GetBody, or build the request
// from a byte slice so the standard library sets it for you.
type Client struct {
	// HTTPDoer specifies the mechanics of sending HTTP requests and
	// receiving responses. If nil, http.DefaultClient is used.
	HTTPDoer HTTPDoer

	// Executor runs the requests. If nil, a zero-value Executor is
	// lazily created and reused for the life of the Client.
	Executor *Executor

	once     sync.Once
	fallback *Executor
}

// Do sends an HTTP request, retrying with backoff while the server
// responds 429, and returns the final HTTP response.
//
// The request's context governs the whole execution: if it is canceled
// during a throttle or backoff wait, Do returns a *CanceledError.
// After the retry budget is spent, Do returns an *ExhaustedError
// wrapping the last rate-limit error.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	doer := c.HTTPDoer
	if doer == nil {
		doer = http.DefaultClient
	}

	return Run(req.Context(), c.executor(), func(ctx context.Context) (*http.Response, error) {
		resp, err := doer.Do(req.WithContext(ctx))
		if err != nil {
			return nil, err
		}
		if rle := ratelimit.FromResponse(resp); rle != nil {
			drain(resp)
			return nil, rle
		}
		return resp, nil
	}, WithIdentifier(Identifier(req.URL)))
}

// Get issues a GET to the specified URL, using the same policies
// followed by Do.
func (c *Client) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	return c.Do(req)
}

func (c *Client) executor() *Executor {
	if c.Executor != nil {
		return c.Executor
	}
	c.once.Do(func() {
		c.fallback = &Executor{}
	})
	return c.fallback
}

// Identifier derives the throttle bucket for a URL from its host and
// path, so that distinct endpoints on the same host are throttled
// independently while query parameters do not fragment the bucket.
// A nil URL maps to DefaultIdentifier.
func Identifier(u *url.URL) string {
	if u == nil {
		return DefaultIdentifier
	}
	return u.Host + u.Path
}

// drain discards and closes a response body so the underlying
// connection can be reused for the retry.
func drain(resp *http.Response) {
	if resp.Body != nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}
}

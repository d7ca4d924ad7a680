// Copyright 2024 The resilient Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package ratelimit classifies errors from request execution as
// rate-limit or non-rate-limit conditions, and parses server-provided
// retry hints. This is the decision input for retry loops: only errors
// this package classifies as rate limiting are worth retrying, since
// the server has explicitly signaled the request may succeed later.
//
// Package ratelimit is extremely lightweight, as it depends only on
// standard library packages, so it doesn't bring any significant
// dependencies when imported as a standalone package.
package ratelimit

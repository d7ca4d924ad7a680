// Copyright 2024 The resilient Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package backoff computes the wait between successive retries of a
// failed operation. A generic interface for delay policies is provided,
// Policy, along with constructors for the common cases: a fixed delay
// (Fixed) and a jittered exponential backoff (NewExponential). A
// concrete instance suitable for typical use, DefaultPolicy, is also
// provided.
//
// Policies accept an optional server-provided hint (for example from a
// Retry-After header); a positive hint overrides the calculated delay,
// subject to the policy's maximum.
package backoff

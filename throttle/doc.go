// Copyright 2024 The resilient Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package throttle enforces a minimum spacing between operations that
// share an identifier, typically a host+path bucket for outbound
// requests. Waits for one identifier never delay callers using other
// identifiers.
//
// Spacing is enforced with a per-identifier rate.Limiter from
// golang.org/x/time/rate. The limiter reserves the next slot before the
// wait begins, so two near-simultaneous callers for the same identifier
// cannot both observe a stale timestamp and bypass the spacing, even
// under true parallel execution.
package throttle

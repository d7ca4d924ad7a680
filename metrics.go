// Copyright 2024 The resilient Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package resilient

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// A MetricsHandler is an event Handler that exports execution metrics
// to Prometheus. Install it on an Executor's handler group for every
// event it should observe, or use Observe to install it on all events:
//
//	handlers := &resilient.HandlerGroup{}
//	metrics := resilient.NewMetricsHandler(prometheus.DefaultRegisterer)
//	metrics.Observe(handlers)
//	x := &resilient.Executor{Handlers: handlers}
//
// The handler only observes; it never influences control flow.
type MetricsHandler struct {
	attempts  *prometheus.CounterVec
	retries   *prometheus.CounterVec
	exhausted *prometheus.CounterVec
	wait      *prometheus.HistogramVec
}

// NewMetricsHandler constructs a MetricsHandler and registers its
// collectors with reg. Registering two MetricsHandlers with the same
// registerer panics, as with any duplicate prometheus registration.
func NewMetricsHandler(reg prometheus.Registerer) *MetricsHandler {
	factory := promauto.With(reg)
	return &MetricsHandler{
		attempts: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "resilient_attempts_total",
				Help: "Total number of operation attempts",
			},
			[]string{"identifier"},
		),
		retries: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "resilient_retries_total",
				Help: "Total number of retries after rate-limited attempts",
			},
			[]string{"identifier"},
		),
		exhausted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "resilient_exhausted_total",
				Help: "Total number of executions that spent their retry budget",
			},
			[]string{"identifier"},
		),
		wait: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "resilient_backoff_seconds",
				Help:    "Backoff wait applied before each retry in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"identifier"},
		),
	}
}

// Observe installs the handler on every event in g.
func (m *MetricsHandler) Observe(g *HandlerGroup) {
	for _, evt := range Events() {
		g.PushBack(evt, m)
	}
}

// Handle records the event. It implements the Handler interface.
func (m *MetricsHandler) Handle(evt Event, e *Execution) {
	switch evt {
	case BeforeAttempt:
		m.attempts.WithLabelValues(e.Identifier).Inc()
	case BeforeWait:
		m.retries.WithLabelValues(e.Identifier).Inc()
		m.wait.WithLabelValues(e.Identifier).Observe(e.Wait.Seconds())
	case AfterExecutionEnd:
		var exhausted *ExhaustedError
		if errors.As(e.Err, &exhausted) {
			m.exhausted.WithLabelValues(e.Identifier).Inc()
		}
	}
}

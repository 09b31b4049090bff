// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package metrics exports Prometheus metrics for Babel calls. Client
// metrics are fed by the events of the transports the collector is
// attached to; server metrics come from instrumented handlers.
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/luxfi/babel/transport"
)

const metricsNamespace = "babel"

// Collector is a prometheus.Collector for Babel clients and servers.
type Collector struct {
	callsStarted    *prometheus.CounterVec
	callsCompleted  *prometheus.CounterVec
	attemptFailures *prometheus.CounterVec
	attemptDuration *prometheus.HistogramVec

	serverRequests *prometheus.CounterVec
	serverDuration *prometheus.HistogramVec
}

var _ prometheus.Collector = (*Collector)(nil)

// NewCollector returns a new Collector.
func NewCollector() *Collector {
	return &Collector{
		callsStarted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: "client",
				Name:      "calls_started_total",
				Help:      "The number of calls started, by method.",
			}, []string{"method"},
		),
		callsCompleted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: "client",
				Name:      "calls_completed_total",
				Help:      "The number of calls that received a successful reply, by method.",
			}, []string{"method"},
		),
		attemptFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: "client",
				Name:      "attempt_failures_total",
				Help:      "The number of failed attempts, by method and status code.",
			}, []string{"method", "code"},
		),
		attemptDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Subsystem: "client",
				Name:      "attempt_duration_seconds",
				Help:      "The time taken by each attempt.",
				Buckets:   []float64{0.005, 0.025, 0.1, 0.25, 1, 2.5, 10, 30},
			}, []string{"method", "outcome"},
		),
		serverRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: "server",
				Name:      "requests_total",
				Help:      "The number of requests served, by status code.",
			}, []string{"code"},
		),
		serverDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Subsystem: "server",
				Name:      "request_duration_seconds",
				Help:      "The time taken to serve requests.",
				Buckets:   prometheus.DefBuckets,
			}, []string{"code"},
		),
	}
}

// Attach records the calls made through t.
func (c *Collector) Attach(t transport.Transport) {
	t.OnStart(c.started)
	t.OnComplete(c.completed)
	t.OnFailure(c.failed)
}

func (c *Collector) started(e *transport.Event) {
	c.callsStarted.WithLabelValues(e.Method).Inc()
}

func (c *Collector) completed(e *transport.Event) {
	c.callsCompleted.WithLabelValues(e.Method).Inc()
	c.attemptDuration.WithLabelValues(e.Method, "success").Observe(e.Duration.Seconds())
}

func (c *Collector) failed(e *transport.Event) {
	c.attemptFailures.WithLabelValues(e.Method, strconv.Itoa(e.StatusCode)).Inc()
	c.attemptDuration.WithLabelValues(e.Method, "failure").Observe(e.Duration.Seconds())
}

// Instrument wraps a server handler, such as a *server.Server, so its
// requests are counted and timed.
func (c *Collector) Instrument(h http.Handler) http.Handler {
	return promhttp.InstrumentHandlerDuration(c.serverDuration,
		promhttp.InstrumentHandlerCounter(c.serverRequests, h))
}

// Describe is part of the prometheus.Collector interface.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	c.callsStarted.Describe(ch)
	c.callsCompleted.Describe(ch)
	c.attemptFailures.Describe(ch)
	c.attemptDuration.Describe(ch)
	c.serverRequests.Describe(ch)
	c.serverDuration.Describe(ch)
}

// Collect is part of the prometheus.Collector interface.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	c.callsStarted.Collect(ch)
	c.callsCompleted.Collect(ch)
	c.attemptFailures.Collect(ch)
	c.attemptDuration.Collect(ch)
	c.serverRequests.Collect(ch)
	c.serverDuration.Collect(ch)
}

// Copyright (c) 2026 Clipstream. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package metrics exposes Prometheus collectors for the API server.

Collectors live on a private registry so tests can build as many instances as
they need without clashing on the global default registry.

Series:

  - clipstream_auth_events_total{operation,outcome}
  - clipstream_http_request_duration_seconds{method,route,status}
*/
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "clipstream"

// Metrics owns the registry and every collector of the process.
type Metrics struct {
	registry        *prometheus.Registry
	authEvents      *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

// New builds a registry with runtime collectors and the application series.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	authEvents := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_events_total",
		Help:      "Authentication lifecycle events by operation and outcome.",
	}, []string{"operation", "outcome"})

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by route pattern.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route", "status"})

	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		authEvents,
		requestDuration,
	)

	return &Metrics{
		registry:        registry,
		authEvents:      authEvents,
		requestDuration: requestDuration,
	}
}

// ObserveAuth counts one authentication event.
func (metrics *Metrics) ObserveAuth(operation, outcome string) {
	metrics.authEvents.WithLabelValues(operation, outcome).Inc()
}

// ObserveRequest records the latency of one finished HTTP request.
func (metrics *Metrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	metrics.requestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(elapsed.Seconds())
}

// Handler serves the registry in the Prometheus exposition format.
func (metrics *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(metrics.registry, promhttp.HandlerOpts{Registry: metrics.registry})
}

// Registry exposes the underlying registry for tests.
func (metrics *Metrics) Registry() *prometheus.Registry {
	return metrics.registry
}

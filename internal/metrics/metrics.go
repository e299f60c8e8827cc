// Package metrics exposes Prometheus instruments for the edge server.
package metrics

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/MKhiriev/runtime-env-edge/internal/runtimeenv"
)

var (
	// RewritesTotal counts runtime env rewrites by outcome.
	RewritesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "edge_runtime_env_rewrites_total",
		Help: "Total number of proxied responses by runtime env rewrite outcome",
	}, []string{"outcome"})

	// HTTPRequestDuration tracks edge request latency, including the time
	// spent streaming the (possibly rewritten) body.
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "edge_http_request_duration_seconds",
		Help:    "HTTP request latencies in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "status"})
)

// RewriteObserver records rewrite outcomes in [RewritesTotal].
type RewriteObserver struct{}

var _ runtimeenv.Observer = RewriteObserver{}

// ObserveRewrite implements [runtimeenv.Observer].
func (RewriteObserver) ObserveRewrite(_ context.Context, outcome runtimeenv.Outcome) {
	RewritesTotal.WithLabelValues(string(outcome)).Inc()
}

// ObserveHTTPRequest records the duration of a served request.
func ObserveHTTPRequest(method string, status int, duration time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, strconv.Itoa(status)).Observe(duration.Seconds())
}

package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics are labelled by route group rather than raw path so task and
// file ids do not blow up label cardinality.
var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "taskdesk_http_requests_total",
			Help: "Total HTTP requests handled, by method, route group and status.",
		},
		[]string{"method", "group", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "taskdesk_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds, by method and route group.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "group"},
	)
)

func instrumentHandler(group string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &loggingResponseWriter{ResponseWriter: w}
		next(rw, r)

		httpRequestsTotal.WithLabelValues(r.Method, group, strconv.Itoa(rw.Status())).Inc()
		httpRequestDuration.WithLabelValues(r.Method, group).Observe(time.Since(start).Seconds())
	}
}

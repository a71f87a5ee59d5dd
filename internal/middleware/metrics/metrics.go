// Package metrics instruments the HTTP surface with Prometheus metrics.
package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "boards",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests served, by method, route and status",
		},
		[]string{"method", "route", "status"},
	)

	requestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "boards",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency, by method and operation group",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"method", "group"},
	)

	inFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "boards",
			Subsystem: "http",
			Name:      "requests_in_flight",
			Help:      "Requests currently being served",
		},
	)
)

// statusRecorder captures the status code written by the handler chain.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.status = code
	sr.ResponseWriter.WriteHeader(code)
}

// group buckets a chi route pattern into one of the engine's operation
// groups so the duration histogram keeps a fixed label set.
func group(route string) string {
	switch {
	case strings.Contains(route, "/flag"):
		return "flags"
	case strings.Contains(route, "/replies"):
		return "replies"
	case strings.Contains(route, "/threads"):
		return "threads"
	case strings.Contains(route, "/ban"):
		return "bans"
	case strings.Contains(route, "/invites"), strings.Contains(route, "/members"):
		return "invites"
	case strings.Contains(route, "/role"), strings.Contains(route, "/owner"), strings.Contains(route, "/permissions"):
		return "roles"
	case strings.Contains(route, "/config"):
		return "config"
	default:
		return "other"
	}
}

// Middleware records request counts, latency and an in-flight gauge. Counts
// are labeled by chi route pattern rather than the raw path, so id segments
// do not explode cardinality.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		inFlight.Inc()
		defer inFlight.Dec()

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		route := r.URL.Path
		if ctx := chi.RouteContext(r.Context()); ctx != nil {
			if pattern := ctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}

		requestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(rec.status)).Inc()
		requestDuration.WithLabelValues(r.Method, group(route)).Observe(time.Since(start).Seconds())
	})
}

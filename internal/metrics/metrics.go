package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Feed request outcomes.
const (
	FeedOutcomeOK             = "ok"
	FeedOutcomeUpstreamStatus = "upstream_status"
	FeedOutcomeDateMismatch   = "date_mismatch"
	FeedOutcomeTransport      = "transport"
	FeedOutcomeDecode         = "decode"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "asteroids_http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"path", "method", "code"},
	)

	httpDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "asteroids_http_duration_seconds",
			Help:    "HTTP request duration in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path", "method"},
	)

	feedRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "asteroids_feed_requests_total",
			Help: "Total number of NEO feed requests by outcome.",
		},
		[]string{"outcome"},
	)

	feedDurationSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "asteroids_feed_duration_seconds",
			Help:    "NEO feed request duration in seconds, including decoding.",
			Buckets: prometheus.DefBuckets,
		},
	)

	feedRecords = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "asteroids_feed_records",
			Help: "Number of objects parsed from the last successful feed request.",
		},
	)
)

func init() {
	prometheus.MustRegister(httpRequestsTotal)
	prometheus.MustRegister(httpDurationSeconds)
	prometheus.MustRegister(feedRequestsTotal)
	prometheus.MustRegister(feedDurationSeconds)
	prometheus.MustRegister(feedRecords)
}

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveFeedRequest records one feed request and its duration.
func ObserveFeedRequest(outcome string, d time.Duration) {
	feedRequestsTotal.WithLabelValues(outcome).Inc()
	feedDurationSeconds.Observe(d.Seconds())
}

// SetFeedRecords sets the number of objects parsed from the last successful request.
func SetFeedRecords(n int) {
	feedRecords.Set(float64(n))
}

// knownRoutes are the only path label values besides "other".
var knownRoutes = map[string]bool{
	"/healthz":           true,
	"/readyz":            true,
	"/metrics":           true,
	"/api/asteroids/get": true,
}

// normalizeRoute maps a request path to a bounded label value.
func normalizeRoute(path string) string {
	if knownRoutes[path] {
		return path
	}
	return "other"
}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Middleware records request count and duration for each request.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		code := strconv.Itoa(rw.statusCode)
		path := normalizeRoute(r.URL.Path)

		httpRequestsTotal.WithLabelValues(path, r.Method, code).Inc()
		httpDurationSeconds.WithLabelValues(path, r.Method).Observe(duration)
	})
}

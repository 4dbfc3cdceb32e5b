package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	namespace = "regression"

	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "code"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	fitDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "fit_duration_seconds",
			Help:      "Least-squares fit duration in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 10),
		},
		[]string{"features"},
	)

	renderTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "render_total",
			Help:      "Number of rendered figures",
		},
		[]string{"plot", "format", "status"},
	)

	renderDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "render_duration_seconds",
			Help:      "Figure build and encode duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"plot", "format"},
	)

	cacheLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_lookups_total",
			Help:      "Response cache lookups by result",
		},
		[]string{"result"},
	)
)

const (
	CacheHit   = "hit"
	CacheMiss  = "miss"
	CacheError = "error"

	StatusSuccess = "success"
	StatusError   = "error"
)

func HttpRequestsTotal(method, path, code string) {
	httpRequestsTotal.With(prometheus.Labels{
		"method": method,
		"path":   path,
		"code":   code,
	}).Inc()
}

func HttpRequestDuration(method, path string, duration time.Duration) {
	httpRequestDuration.With(prometheus.Labels{
		"method": method,
		"path":   path,
	}).Observe(duration.Seconds())
}

func FitDuration(features int, duration time.Duration) {
	fitDuration.With(prometheus.Labels{
		"features": strconv.Itoa(features),
	}).Observe(duration.Seconds())
}

func RenderTotal(plot, format, status string) {
	renderTotal.With(prometheus.Labels{
		"plot":   plot,
		"format": format,
		"status": status,
	}).Inc()
}

func RenderDuration(plot, format string, duration time.Duration) {
	renderDuration.With(prometheus.Labels{
		"plot":   plot,
		"format": format,
	}).Observe(duration.Seconds())
}

func CacheLookup(result string) {
	cacheLookupsTotal.With(prometheus.Labels{
		"result": result,
	}).Inc()
}

// Middleware records request counts and latencies. The path label is the
// matched chi route pattern when there is one, to keep cardinality bounded.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ww := &statusResponseWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(ww, r)

		path := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				path = pattern
			}
		}

		HttpRequestsTotal(r.Method, path, strconv.Itoa(ww.status))
		HttpRequestDuration(r.Method, path, time.Since(start))
	})
}

type statusResponseWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusResponseWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

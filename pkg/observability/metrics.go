package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics.
// Record* methods are safe to call on a nil *Metrics.
type Metrics struct {
	// HTTP metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	HTTPRequestSize     *prometheus.HistogramVec
	HTTPResponseSize    *prometheus.HistogramVec

	// Validation metrics
	ValidationRunsTotal  *prometheus.CounterVec
	ValidationDuration   prometheus.Histogram
	ValidatedNodesTotal  *prometheus.CounterVec
	DirectiveErrorsTotal *prometheus.CounterVec

	// Cache metrics
	CacheHitsTotal   *prometheus.CounterVec
	CacheMissesTotal *prometheus.CounterVec
	CacheErrorsTotal *prometheus.CounterVec

	// Schema metrics
	SchemaReloadsTotal *prometheus.CounterVec
	SchemaLoaded       prometheus.Gauge
	SchemaLastLoadedAt prometheus.Gauge

	// Rate limiting
	RateLimitedTotal     *prometheus.CounterVec
	RateLimitErrorsTotal prometheus.Counter
}

// NewMetrics creates and registers all Prometheus metrics
func NewMetrics(registry *prometheus.Registry) *Metrics {
	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dml_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "dml_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		HTTPRequestSize: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "dml_http_request_size_bytes",
				Help:    "HTTP request size in bytes",
				Buckets: prometheus.ExponentialBuckets(100, 10, 6),
			},
			[]string{"method", "route"},
		),
		HTTPResponseSize: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "dml_http_response_size_bytes",
				Help:    "HTTP response size in bytes",
				Buckets: prometheus.ExponentialBuckets(100, 10, 6),
			},
			[]string{"method", "route"},
		),

		ValidationRunsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dml_validation_runs_total",
				Help: "Total number of datamodel validation runs",
			},
			[]string{"status"},
		),
		ValidationDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "dml_validation_duration_seconds",
				Help:    "Datamodel validation duration in seconds",
				Buckets: []float64{.0005, .001, .005, .01, .05, .1, .5, 1},
			},
		),
		ValidatedNodesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dml_validated_nodes_total",
				Help: "Total number of schema nodes validated",
			},
			[]string{"kind"},
		),
		DirectiveErrorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dml_directive_errors_total",
				Help: "Total number of directive validation errors",
			},
			[]string{"kind", "directive", "code"},
		),

		CacheHitsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dml_cache_hits_total",
				Help: "Total number of cache hits",
			},
			[]string{"tier"},
		),
		CacheMissesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dml_cache_misses_total",
				Help: "Total number of cache misses",
			},
			[]string{"tier"},
		),
		CacheErrorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dml_cache_errors_total",
				Help: "Total number of cache backend errors",
			},
			[]string{"tier", "operation"},
		),

		SchemaReloadsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dml_schema_reloads_total",
				Help: "Total number of schema loads",
			},
			[]string{"status"},
		),
		SchemaLoaded: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "dml_schema_loaded",
				Help: "1 when a valid schema is loaded",
			},
		),
		SchemaLastLoadedAt: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "dml_schema_last_loaded_timestamp_seconds",
				Help: "Unix time of the last successful schema load",
			},
		),

		RateLimitedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dml_rate_limited_requests_total",
				Help: "Total number of requests rejected by the rate limiter",
			},
			[]string{"route"},
		),
		RateLimitErrorsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "dml_rate_limit_errors_total",
				Help: "Total number of rate limiter backend errors",
			},
		),
	}

	registry.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.HTTPRequestSize,
		m.HTTPResponseSize,
		m.ValidationRunsTotal,
		m.ValidationDuration,
		m.ValidatedNodesTotal,
		m.DirectiveErrorsTotal,
		m.CacheHitsTotal,
		m.CacheMissesTotal,
		m.CacheErrorsTotal,
		m.SchemaReloadsTotal,
		m.SchemaLoaded,
		m.SchemaLastLoadedAt,
		m.RateLimitedTotal,
		m.RateLimitErrorsTotal,
	)

	return m
}

// RecordValidation records one validation run
func (m *Metrics) RecordValidation(status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.ValidationRunsTotal.WithLabelValues(status).Inc()
	m.ValidationDuration.Observe(duration.Seconds())
}

// RecordNodes records n validated nodes of a kind
func (m *Metrics) RecordNodes(kind string, n int) {
	if m == nil || n == 0 {
		return
	}
	m.ValidatedNodesTotal.WithLabelValues(kind).Add(float64(n))
}

// RecordDirectiveError records a single directive error
func (m *Metrics) RecordDirectiveError(kind, directive, code string) {
	if m == nil {
		return
	}
	m.DirectiveErrorsTotal.WithLabelValues(kind, directive, code).Inc()
}

// RecordCacheHit records a hit in the given cache tier
func (m *Metrics) RecordCacheHit(tier string) {
	if m == nil {
		return
	}
	m.CacheHitsTotal.WithLabelValues(tier).Inc()
}

// RecordCacheMiss records a miss in the given cache tier
func (m *Metrics) RecordCacheMiss(tier string) {
	if m == nil {
		return
	}
	m.CacheMissesTotal.WithLabelValues(tier).Inc()
}

// RecordCacheError records a failed cache backend call
func (m *Metrics) RecordCacheError(tier, operation string) {
	if m == nil {
		return
	}
	m.CacheErrorsTotal.WithLabelValues(tier, operation).Inc()
}

// RecordSchemaLoad records the outcome of a schema load
func (m *Metrics) RecordSchemaLoad(ok bool, at time.Time) {
	if m == nil {
		return
	}
	if !ok {
		m.SchemaReloadsTotal.WithLabelValues("error").Inc()
		return
	}
	m.SchemaReloadsTotal.WithLabelValues("success").Inc()
	m.SchemaLoaded.Set(1)
	m.SchemaLastLoadedAt.Set(float64(at.Unix()))
}

// RecordRateLimited records a request rejected by the rate limiter
func (m *Metrics) RecordRateLimited(route string) {
	if m == nil {
		return
	}
	m.RateLimitedTotal.WithLabelValues(route).Inc()
}

// RecordRateLimitError records a failed rate limiter backend call
func (m *Metrics) RecordRateLimitError() {
	if m == nil {
		return
	}
	m.RateLimitErrorsTotal.Inc()
}

// responseWriter wraps http.ResponseWriter to capture status code and size
type responseWriter struct {
	http.ResponseWriter
	statusCode   int
	bytesWritten int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(b)
	rw.bytesWritten += n
	return n, err
}

// routeLabel returns the mux route template so path parameters do not
// explode label cardinality
func routeLabel(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if tmpl, err := route.GetPathTemplate(); err == nil {
			return tmpl
		}
	}
	return "unmatched"
}

// HTTPMetricsMiddleware instruments HTTP requests with Prometheus metrics
func HTTPMetricsMiddleware(metrics *Metrics) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(rw, r)

			route := routeLabel(r)
			if r.ContentLength > 0 {
				metrics.HTTPRequestSize.WithLabelValues(r.Method, route).Observe(float64(r.ContentLength))
			}
			metrics.HTTPRequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(rw.statusCode)).Inc()
			metrics.HTTPRequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
			metrics.HTTPResponseSize.WithLabelValues(r.Method, route).Observe(float64(rw.bytesWritten))
		})
	}
}

// MetricsHandler serves the registry in the Prometheus exposition format
func MetricsHandler(registry *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry})
}

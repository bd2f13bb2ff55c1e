package api

import (
	"context"
	"io"
	"net/http"

	"github.com/go-redis/redis/v8"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/platinummonkey/dml/pkg/cache"
	"github.com/platinummonkey/dml/pkg/httputil"
	"github.com/platinummonkey/dml/pkg/loader"
	"github.com/platinummonkey/dml/pkg/middleware"
	"github.com/platinummonkey/dml/pkg/observability"
	"github.com/platinummonkey/dml/pkg/validator"
)

// Options holds the collaborators of a Server. Validator is required;
// everything else is optional.
type Options struct {
	Validator    *validator.Validator
	Loader       *loader.Loader
	Cache        *cache.Cache
	RateLimiter  middleware.Limiter
	Metrics      *observability.Metrics
	Registry     *prometheus.Registry
	Logger       *observability.Logger
	Version      string
	MaxBodyBytes int64
}

// Server represents the dml HTTP API
type Server struct {
	router       *mux.Router
	validator    *validator.Validator
	loader       *loader.Loader
	cache        *cache.Cache
	limiter      middleware.Limiter
	health       *observability.HealthChecker
	metrics      *observability.Metrics
	registry     *prometheus.Registry
	logger       *observability.Logger
	maxBodyBytes int64
}

// NewServer creates a new API server
func NewServer(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = observability.NewLogger(observability.InfoLevel, io.Discard)
	}
	maxBodyBytes := opts.MaxBodyBytes
	if maxBodyBytes <= 0 {
		maxBodyBytes = 1 << 20
	}

	s := &Server{
		router:       mux.NewRouter(),
		validator:    opts.Validator,
		loader:       opts.Loader,
		cache:        opts.Cache,
		limiter:      opts.RateLimiter,
		metrics:      opts.Metrics,
		registry:     opts.Registry,
		logger:       logger,
		maxBodyBytes: maxBodyBytes,
	}

	s.health = observability.NewHealthChecker(opts.Version, s.cacheRedis())
	if s.loader != nil {
		s.health.AddCheck("schema", true, func(context.Context) error {
			if s.loader.Current() == nil {
				return loader.ErrNoSchema
			}
			return nil
		})
	}

	s.setupRoutes()
	return s
}

func (s *Server) cacheRedis() *redis.Client {
	if s.cache == nil {
		return nil
	}
	return s.cache.Redis()
}

// setupRoutes configures all the API routes
func (s *Server) setupRoutes() {
	if s.metrics != nil {
		s.router.Use(observability.HTTPMetricsMiddleware(s.metrics))
	}

	var validate http.Handler = http.HandlerFunc(s.validate)
	if s.limiter != nil {
		validate = middleware.RateLimit(s.limiter, s.metrics)(validate)
	}
	s.router.Handle("/validate", validate).Methods("POST")

	s.router.HandleFunc("/schema", s.getSchema).Methods("GET")
	s.router.HandleFunc("/schema/reload", s.reloadSchema).Methods("POST")

	s.router.HandleFunc("/directives", s.listDirectives).Methods("GET")
	s.router.HandleFunc("/directives/{kind}", s.getDirectives).Methods("GET")

	s.router.HandleFunc("/healthz", s.health.Liveness).Methods("GET")
	s.router.HandleFunc("/readyz", s.health.Readiness).Methods("GET")
	if s.registry != nil {
		s.router.Handle("/metrics", observability.MetricsHandler(s.registry)).Methods("GET")
	}
}

// Router returns the underlying router so callers can register more routes
func (s *Server) Router() *mux.Router {
	return s.router
}

// Health returns the readiness checker
func (s *Server) Health() *observability.HealthChecker {
	return s.health
}

// ServeHTTP implements http.Handler without the middleware chain
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Handler returns the router wrapped in the standard middleware chain:
// recovery, request ID, logging, body limit and tracing.
func (s *Server) Handler() http.Handler {
	return httputil.Chain(
		httputil.RecoveryMiddleware(s.logger),
		httputil.RequestIDMiddleware,
		httputil.LoggingMiddleware(s.logger),
		httputil.MaxBytesMiddleware(s.maxBodyBytes),
	)(otelhttp.NewHandler(s.router, "dml-server"))
}

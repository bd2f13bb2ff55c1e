package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/platinummonkey/dml/pkg/api"
	"github.com/platinummonkey/dml/pkg/cache"
	"github.com/platinummonkey/dml/pkg/config"
	"github.com/platinummonkey/dml/pkg/directive/builtin"
	"github.com/platinummonkey/dml/pkg/loader"
	"github.com/platinummonkey/dml/pkg/middleware"
	"github.com/platinummonkey/dml/pkg/observability"
	"github.com/platinummonkey/dml/pkg/validator"
)

var version = "dev"

var errSchemaWatchStopped = errors.New("schema watcher stopped")

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.Observability.LogLevel, os.Stdout).
		WithField("service", cfg.Observability.OTelServiceName)

	if err := run(context.Background(), cfg, logger); err != nil {
		logger.WithError(err).Error("dml-server stopped")
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *observability.Logger) error {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	var metrics *observability.Metrics
	if cfg.Observability.MetricsEnabled {
		metrics = observability.NewMetrics(registry)
	}

	providers, err := observability.InitOTel(ctx, cfg.OTel(), logger)
	if err != nil {
		return err
	}
	var otelMetrics *observability.OTelMetrics
	if providers != nil {
		if otelMetrics, err = observability.NewOTelMetrics(); err != nil {
			return fmt.Errorf("failed to create OpenTelemetry metrics: %w", err)
		}
	}

	validationConfig, err := loadValidationConfig(cfg)
	if err != nil {
		return err
	}
	v := validator.NewValidator(builtin.NewCatalog(), validationConfig,
		validator.WithLogger(logger),
		validator.WithMetrics(metrics),
		validator.WithOTelMetrics(otelMetrics),
	)

	l := loader.NewLoader(cfg.Schema.Path, v, logger, metrics, loader.WithOTelMetrics(otelMetrics))
	if _, err := l.Load(ctx); err != nil {
		var schemaErr *loader.SchemaError
		if !errors.As(err, &schemaErr) || !cfg.Schema.AllowInvalid {
			return fmt.Errorf("initial schema load failed: %w", err)
		}
		logger.Warn("Starting with an invalid schema; /schema is unavailable until it is fixed")
	}

	watchCtx, stopWatch := context.WithCancel(ctx)
	defer stopWatch()
	watchDone := make(chan struct{})
	if cfg.Schema.Watch {
		go func() {
			defer close(watchDone)
			defer observability.RecoverPanic(logger, "schema watch")
			if err := l.Watch(watchCtx); err != nil {
				logger.WithError(err).Error("Schema watcher stopped")
			}
		}()
	}

	var resultCache *cache.Cache
	if cfg.Cache.Enabled {
		resultCache, err = newCache(ctx, cfg, metrics, logger)
		if err != nil {
			return err
		}
	}

	var limiter middleware.Limiter
	if cfg.RateLimit.Enabled {
		limiter = newRateLimiter(watchCtx, cfg, resultCache)
	}

	server := api.NewServer(api.Options{
		Validator:    v,
		Loader:       l,
		Cache:        resultCache,
		RateLimiter:  limiter,
		Metrics:      metrics,
		Registry:     registry,
		Logger:       logger,
		Version:      version,
		MaxBodyBytes: cfg.Server.MaxBodyBytes,
	})

	if cfg.Schema.Watch {
		server.Health().AddCheck("schema_watch", false, watchCheck(watchDone))
	}

	httpServer := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      server.Handler(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	shutdown := observability.NewShutdownManager(logger, httpServer, cfg.Server.ShutdownTimeout)
	shutdown.RegisterShutdownFunc("opentelemetry", providers.Shutdown)
	if resultCache != nil {
		shutdown.RegisterShutdownFunc("cache", func(context.Context) error { return resultCache.Close() })
	}
	shutdown.RegisterShutdownFunc("schema watch", func(context.Context) error {
		stopWatch()
		return nil
	})

	waitCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	failed := make(chan error, 1)
	go func() {
		logger.WithField("addr", httpServer.Addr).Info("Starting dml-server")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			failed <- err
			cancel()
		}
	}()

	shutdownErr := shutdown.WaitForShutdown(waitCtx)
	select {
	case err := <-failed:
		return errors.Join(fmt.Errorf("HTTP server failed: %w", err), shutdownErr)
	default:
		return shutdownErr
	}
}

func loadValidationConfig(cfg *config.Config) (*validator.Config, error) {
	if cfg.Schema.ValidationConfigPath != "" {
		return validator.LoadConfig(cfg.Schema.ValidationConfigPath)
	}
	return validator.LoadConfigFromDir(filepath.Dir(cfg.Schema.Path))
}

func newCache(ctx context.Context, cfg *config.Config, metrics *observability.Metrics, logger *observability.Logger) (*cache.Cache, error) {
	cacheConfig := cache.DefaultConfig()
	cacheConfig.L1Size = cfg.Cache.L1Size
	cacheConfig.L1TTL = cfg.Cache.L1TTL
	cacheConfig.RedisTTL = cfg.Cache.RedisTTL

	if cfg.Cache.RedisURL == "" {
		return cache.New(cacheConfig, nil, metrics, logger), nil
	}

	client, err := cache.NewRedisClient(ctx, cfg.Cache.RedisURL, cfg.Cache.RedisPassword, cfg.Cache.RedisDB, cfg.Cache.RedisPoolSize)
	if err != nil {
		return nil, err
	}
	logger.Info("Redis result cache enabled")
	return cache.New(cacheConfig, client, metrics, logger), nil
}

// newRateLimiter shares limits through the cache's Redis client when there is
// one and falls back to per-process buckets otherwise
func newRateLimiter(ctx context.Context, cfg *config.Config, resultCache *cache.Cache) middleware.Limiter {
	limitConfig := &middleware.RateLimitConfig{
		RequestsPerWindow: cfg.RateLimit.Requests,
		WindowDuration:    cfg.RateLimit.Window,
		BurstSize:         cfg.RateLimit.Burst,
	}

	if resultCache != nil && resultCache.Redis() != nil {
		return middleware.NewDistributedRateLimiter(resultCache.Redis(), limitConfig, "dml:ratelimit")
	}

	limiter := middleware.NewRateLimiter(limitConfig)
	limiter.StartCleanup(ctx)
	return limiter
}

// watchCheck degrades readiness once the schema watcher has exited
func watchCheck(done <-chan struct{}) observability.CheckFunc {
	return func(context.Context) error {
		select {
		case <-done:
			return errSchemaWatchStopped
		default:
			return nil
		}
	}
}

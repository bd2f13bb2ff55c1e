package main

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platinummonkey/dml/pkg/cache"
	"github.com/platinummonkey/dml/pkg/config"
	"github.com/platinummonkey/dml/pkg/loader"
	"github.com/platinummonkey/dml/pkg/middleware"
	"github.com/platinummonkey/dml/pkg/observability"
)

func testConfig(t *testing.T, schema string) *config.Config {
	t.Helper()
	path := filepath.Join(t.TempDir(), "datamodel.dml")
	require.NoError(t, os.WriteFile(path, []byte(schema), 0644))

	return &config.Config{
		Server: config.ServerConfig{
			Host:            "127.0.0.1",
			Port:            "0",
			ShutdownTimeout: 5 * time.Second,
			MaxBodyBytes:    1 << 20,
		},
		Schema: config.SchemaConfig{Path: path, Watch: true},
		Cache:  config.CacheConfig{Enabled: true, L1Size: 16, L1TTL: time.Minute},
		Observability: config.ObservabilityConfig{
			MetricsEnabled: true,
		},
	}
}

func runFor(t *testing.T, cfg *config.Config, d time.Duration) error {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), d)
	defer cancel()
	return run(ctx, cfg, observability.NewLogger(observability.InfoLevel, io.Discard))
}

func TestRun_StartsAndStops(t *testing.T) {
	cfg := testConfig(t, "model User {\n  id Int @primary\n}\n")
	assert.NoError(t, runFor(t, cfg, 200*time.Millisecond))
}

func TestRun_InvalidSchema(t *testing.T) {
	cfg := testConfig(t, "model User {\n  id Int @madeup\n}\n")

	err := runFor(t, cfg, 200*time.Millisecond)
	require.Error(t, err)
	var schemaErr *loader.SchemaError
	assert.ErrorAs(t, err, &schemaErr)

	cfg.Schema.AllowInvalid = true
	assert.NoError(t, runFor(t, cfg, 200*time.Millisecond))
}

func TestRun_BadValidationConfig(t *testing.T) {
	cfg := testConfig(t, "model User {\n  id Int @primary\n}\n")
	cfg.Schema.ValidationConfigPath = filepath.Join(t.TempDir(), "missing.yaml")

	assert.Error(t, runFor(t, cfg, 200*time.Millisecond))
}

func TestRun_RateLimited(t *testing.T) {
	cfg := testConfig(t, "model User {\n  id Int @primary\n}\n")
	cfg.RateLimit = config.RateLimitConfig{Enabled: true, Requests: 10, Window: time.Minute}
	assert.NoError(t, runFor(t, cfg, 200*time.Millisecond))
}

func TestNewRateLimiter(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := testConfig(t, "")
	cfg.RateLimit = config.RateLimitConfig{Enabled: true, Requests: 10, Window: time.Minute, Burst: 2}

	limiter := newRateLimiter(ctx, cfg, nil)
	assert.IsType(t, &middleware.RateLimiter{}, limiter)
	assert.Equal(t, 10, limiter.Limit())

	mr := miniredis.RunT(t)
	client, err := cache.NewRedisClient(ctx, "redis://"+mr.Addr(), "", 0, 0)
	require.NoError(t, err)
	resultCache := cache.New(nil, client, nil, nil)
	defer resultCache.Close()

	limiter = newRateLimiter(ctx, cfg, resultCache)
	assert.IsType(t, &middleware.DistributedRateLimiter{}, limiter)
}

func TestWatchCheck(t *testing.T) {
	done := make(chan struct{})
	check := watchCheck(done)

	assert.NoError(t, check(context.Background()))
	close(done)
	assert.ErrorIs(t, check(context.Background()), errSchemaWatchStopped)
}

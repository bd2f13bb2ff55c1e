// Package middleware provides per-client rate limiting for the dml HTTP API.
//
// Two limiters implement Limiter:
//
// RateLimiter is an in-memory token bucket, refilled at RequestsPerWindow per
// WindowDuration with room for BurstSize extra requests:
//
//	limiter := middleware.NewRateLimiter(middleware.DefaultRateLimitConfig())
//	limiter.StartCleanup(ctx)
//
// DistributedRateLimiter counts requests per fixed window in Redis so every
// dml-server replica shares the same limit:
//
//	limiter := middleware.NewDistributedRateLimiter(redisClient, config, "dml:ratelimit")
//
// RateLimit wraps a handler, keys clients by IP and answers 429 with a
// Retry-After header once the limit is reached:
//
//	router.Handle("/validate", middleware.RateLimit(limiter, metrics)(handler))
//
// Redis errors fail open.
package middleware

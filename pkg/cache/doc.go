// Package cache stores validation responses keyed by the sha256 of the
// schema source.
//
// Validation is a pure function of its input, so any instance may answer
// from the cache. L1 is an in-process expirable LRU; L2 is an optional
// Redis shared by every dml-server:
//
//	client, err := cache.NewRedisClient(ctx, "redis://localhost:6379", "", 0, 10)
//	c := cache.New(cache.DefaultConfig(), client, metrics, logger)
//
//	key := cache.Key(source)
//	if body, err := c.Get(ctx, key); err == nil {
//		return body
//	}
//	_ = c.Set(ctx, key, body)
package cache

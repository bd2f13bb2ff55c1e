package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/go-redis/redis/v8"
	lru "github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/platinummonkey/dml/pkg/observability"
)

// ErrCacheMiss is returned by Get when neither tier holds the key
var ErrCacheMiss = errors.New("cache miss")

const (
	TierL1 = "l1"
	TierL2 = "l2"
)

// Config controls cache sizes and lifetimes
type Config struct {
	L1Size    int
	L1TTL     time.Duration
	RedisTTL  time.Duration
	KeyPrefix string
}

// DefaultConfig returns the default cache configuration
func DefaultConfig() *Config {
	return &Config{
		L1Size:    1024,
		L1TTL:     10 * time.Minute,
		RedisTTL:  time.Hour,
		KeyPrefix: "dml:validate:",
	}
}

// Cache is a two tier byte cache: an in-process expirable LRU in front of
// an optional Redis shared by all instances
type Cache struct {
	config  *Config
	l1      *lru.LRU[string, []byte]
	redis   *redis.Client
	metrics *observability.Metrics
	logger  *observability.Logger
}

// New creates a cache. client may be nil, in which case only L1 is used.
func New(config *Config, client *redis.Client, metrics *observability.Metrics, logger *observability.Logger) *Cache {
	if config == nil {
		config = DefaultConfig()
	}
	size := config.L1Size
	if size < 1 {
		size = 1
	}
	if logger == nil {
		logger = observability.NewLogger(observability.InfoLevel, io.Discard)
	}

	return &Cache{
		config:  config,
		l1:      lru.NewLRU[string, []byte](size, nil, config.L1TTL),
		redis:   client,
		metrics: metrics,
		logger:  logger,
	}
}

// NewRedisClient connects to the Redis server at url and pings it
func NewRedisClient(ctx context.Context, url, password string, db, poolSize int) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}

	if password != "" {
		opts.Password = password
	}
	if db >= 0 {
		opts.DB = db
	}
	if poolSize > 0 {
		opts.PoolSize = poolSize
	}
	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return client, nil
}

// Key returns the cache key of a schema source
func Key(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}

// Get returns the cached value for key. An L2 hit is copied into L1.
// Redis failures are logged and reported as misses.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, error) {
	if value, ok := c.l1.Get(key); ok {
		c.metrics.RecordCacheHit(TierL1)
		return value, nil
	}
	c.metrics.RecordCacheMiss(TierL1)

	if c.redis == nil {
		return nil, ErrCacheMiss
	}

	value, err := c.redis.Get(ctx, c.config.KeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		c.metrics.RecordCacheMiss(TierL2)
		return nil, ErrCacheMiss
	}
	if err != nil {
		c.metrics.RecordCacheError(TierL2, "get")
		c.logger.WithError(err).Warn("Redis cache get failed")
		return nil, ErrCacheMiss
	}

	c.metrics.RecordCacheHit(TierL2)
	c.l1.Add(key, value)
	return value, nil
}

// Set stores value in both tiers. L1 is always written; an L2 failure is
// returned.
func (c *Cache) Set(ctx context.Context, key string, value []byte) error {
	c.l1.Add(key, value)

	if c.redis == nil {
		return nil
	}
	if err := c.redis.Set(ctx, c.config.KeyPrefix+key, value, c.config.RedisTTL).Err(); err != nil {
		c.metrics.RecordCacheError(TierL2, "set")
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

// Len returns the number of L1 entries
func (c *Cache) Len() int {
	return c.l1.Len()
}

// Redis returns the L2 client, or nil
func (c *Cache) Redis() *redis.Client {
	return c.redis
}

// Close releases the Redis connection, if any
func (c *Cache) Close() error {
	if c.redis == nil {
		return nil
	}
	return c.redis.Close()
}

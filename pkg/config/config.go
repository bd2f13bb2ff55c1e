package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/platinummonkey/dml/pkg/observability"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Server ServerConfig

	// Schema configuration
	Schema SchemaConfig

	// Cache configuration
	Cache CacheConfig

	// Rate limit configuration
	RateLimit RateLimitConfig

	// Observability configuration
	Observability ObservabilityConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host            string
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	// MaxBodyBytes limits request bodies on /validate
	MaxBodyBytes int64
}

// SchemaConfig points at the datamodel served by the process
type SchemaConfig struct {
	Path  string
	Watch bool

	// ValidationConfigPath is an optional dml.yaml. When empty the
	// directory of Path is searched.
	ValidationConfigPath string

	// AllowInvalid starts the server even if the schema has directive errors
	AllowInvalid bool
}

// CacheConfig holds validation result cache settings
type CacheConfig struct {
	Enabled bool
	L1Size  int
	L1TTL   time.Duration

	// Redis is used as a shared L2 when RedisURL is set
	RedisURL      string
	RedisPassword string
	RedisDB       int
	RedisPoolSize int
	RedisTTL      time.Duration
}

// RateLimitConfig limits /validate requests per client. Limits are shared
// through Redis when Cache.RedisURL is set.
type RateLimitConfig struct {
	Enabled  bool
	Requests int
	Window   time.Duration
	Burst    int
}

// ObservabilityConfig holds observability settings
type ObservabilityConfig struct {
	// Logging
	LogLevel observability.LogLevel

	// Metrics
	MetricsEnabled bool

	// OpenTelemetry
	OTelEnabled        bool
	OTelEndpoint       string
	OTelServiceName    string
	OTelServiceVersion string
	OTelInsecure       bool // Use insecure gRPC connection
	OTelSampleRatio    float64
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Server:        loadServerConfig(),
		Schema:        loadSchemaConfig(),
		Cache:         loadCacheConfig(),
		RateLimit:     loadRateLimitConfig(),
		Observability: loadObservabilityConfig(),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func loadServerConfig() ServerConfig {
	return ServerConfig{
		Host:            getEnv("DML_HOST", "0.0.0.0"),
		Port:            getEnv("DML_PORT", "8080"),
		ReadTimeout:     getEnvDuration("DML_READ_TIMEOUT", 15*time.Second),
		WriteTimeout:    getEnvDuration("DML_WRITE_TIMEOUT", 15*time.Second),
		IdleTimeout:     getEnvDuration("DML_IDLE_TIMEOUT", 60*time.Second),
		ShutdownTimeout: getEnvDuration("DML_SHUTDOWN_TIMEOUT", 30*time.Second),
		MaxBodyBytes:    getEnvInt64("DML_MAX_BODY_BYTES", 1<<20),
	}
}

func loadSchemaConfig() SchemaConfig {
	return SchemaConfig{
		Path:                 getEnv("DML_SCHEMA_PATH", "datamodel.dml"),
		Watch:                getEnvBool("DML_SCHEMA_WATCH", false),
		ValidationConfigPath: getEnv("DML_VALIDATION_CONFIG", ""),
		AllowInvalid:         getEnvBool("DML_SCHEMA_ALLOW_INVALID", false),
	}
}

func loadCacheConfig() CacheConfig {
	return CacheConfig{
		Enabled:       getEnvBool("DML_CACHE_ENABLED", true),
		L1Size:        getEnvInt("DML_L1_CACHE_SIZE", 1024),
		L1TTL:         getEnvDuration("DML_L1_CACHE_TTL", 10*time.Minute),
		RedisURL:      getEnv("DML_REDIS_URL", ""),
		RedisPassword: getEnv("DML_REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("DML_REDIS_DB", 0),
		RedisPoolSize: getEnvInt("DML_REDIS_POOL_SIZE", 10),
		RedisTTL:      getEnvDuration("DML_REDIS_TTL", time.Hour),
	}
}

func loadRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		Enabled:  getEnvBool("DML_RATE_LIMIT_ENABLED", false),
		Requests: getEnvInt("DML_RATE_LIMIT_REQUESTS", 120),
		Window:   getEnvDuration("DML_RATE_LIMIT_WINDOW", time.Minute),
		Burst:    getEnvInt("DML_RATE_LIMIT_BURST", 20),
	}
}

func loadObservabilityConfig() ObservabilityConfig {
	return ObservabilityConfig{
		LogLevel:           observability.ParseLogLevel(getEnv("DML_LOG_LEVEL", "info")),
		MetricsEnabled:     getEnvBool("DML_METRICS_ENABLED", true),
		OTelEnabled:        getEnvBool("DML_OTEL_ENABLED", false),
		OTelEndpoint:       getEnv("DML_OTEL_ENDPOINT", "localhost:4317"),
		OTelServiceName:    getEnv("DML_OTEL_SERVICE_NAME", "dml-server"),
		OTelServiceVersion: getEnv("DML_OTEL_SERVICE_VERSION", "1.0.0"),
		OTelInsecure:       getEnvBool("DML_OTEL_INSECURE", true),
		OTelSampleRatio:    getEnvFloat("DML_OTEL_SAMPLE_RATIO", 1.0),
	}
}

// OTel returns the OpenTelemetry settings in the form InitOTel expects
func (c *Config) OTel() observability.OTelConfig {
	return observability.OTelConfig{
		Enabled:        c.Observability.OTelEnabled,
		Endpoint:       c.Observability.OTelEndpoint,
		ServiceName:    c.Observability.OTelServiceName,
		ServiceVersion: c.Observability.OTelServiceVersion,
		Insecure:       c.Observability.OTelInsecure,
		SampleRatio:    c.Observability.OTelSampleRatio,
	}
}

// Addr returns the listen address of the HTTP server
func (c *Config) Addr() string {
	return c.Server.Host + ":" + c.Server.Port
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}
	if c.Server.MaxBodyBytes <= 0 {
		return fmt.Errorf("max body bytes must be positive")
	}

	if c.Schema.Path == "" {
		return fmt.Errorf("schema path is required")
	}

	if c.Cache.Enabled && c.Cache.L1Size <= 0 {
		return fmt.Errorf("L1 cache size must be positive when the cache is enabled")
	}
	if c.Cache.RedisDB < 0 {
		return fmt.Errorf("redis DB must not be negative")
	}

	if c.RateLimit.Enabled {
		if c.RateLimit.Requests <= 0 {
			return fmt.Errorf("rate limit requests must be positive")
		}
		if c.RateLimit.Window <= 0 {
			return fmt.Errorf("rate limit window must be positive")
		}
		if c.RateLimit.Burst < 0 {
			return fmt.Errorf("rate limit burst must not be negative")
		}
	}

	if c.Observability.OTelEnabled {
		if c.Observability.OTelEndpoint == "" {
			return fmt.Errorf("OpenTelemetry endpoint is required when OTel is enabled")
		}
		if c.Observability.OTelServiceName == "" {
			return fmt.Errorf("OpenTelemetry service name is required when OTel is enabled")
		}
		if r := c.Observability.OTelSampleRatio; r < 0 || r > 1 {
			return fmt.Errorf("OpenTelemetry sample ratio must be between 0 and 1, got %v", r)
		}
	}

	return nil
}

// getEnv returns an environment variable value or a default
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool returns a boolean environment variable or a default
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return strings.ToLower(value) == "true" || value == "1"
	}
	return defaultValue
}

// getEnvInt returns an integer environment variable or a default
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvInt64 returns an int64 environment variable or a default
func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

// getEnvDuration returns a duration environment variable or a default
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

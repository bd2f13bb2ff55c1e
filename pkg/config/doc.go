// Package config provides dml-server configuration from environment variables.
//
// Every setting has a default; LoadConfig validates the result.
//
// Server settings:
//
//	DML_HOST="0.0.0.0"
//	DML_PORT="8080"
//	DML_READ_TIMEOUT="15s"
//	DML_MAX_BODY_BYTES="1048576"
//
// Schema settings:
//
//	DML_SCHEMA_PATH="datamodel.dml"
//	DML_SCHEMA_WATCH="true"
//	DML_VALIDATION_CONFIG="/etc/dml/dml.yaml"
//
// Cache settings:
//
//	DML_CACHE_ENABLED="true"
//	DML_L1_CACHE_SIZE="1024"
//	DML_REDIS_URL="redis://localhost:6379"
//
// Rate limit settings (per client IP on /validate):
//
//	DML_RATE_LIMIT_ENABLED="true"
//	DML_RATE_LIMIT_REQUESTS="120"
//	DML_RATE_LIMIT_WINDOW="1m"
//	DML_RATE_LIMIT_BURST="20"
//
// Observability settings:
//
//	DML_LOG_LEVEL="info"  # debug, info, warn, error
//	DML_METRICS_ENABLED="true"
//	DML_OTEL_ENABLED="true"
//	DML_OTEL_ENDPOINT="otel-collector:4317"
//
// Validation options such as fail_fast live in dml.yaml and are loaded by
// pkg/validator, not from the environment.
package config

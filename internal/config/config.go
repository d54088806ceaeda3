// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package config

import "time"

const (
	SessionStoreMemory = "memory"
	SessionStoreRedis  = "redis"
)

// Config holds all application configuration loaded from environment variables.
// This struct uses github.com/caarlos0/env for automatic environment variable parsing.
//
// Use struct tags to define:
// - `env:"VAR_NAME"` - the environment variable name
// - `envDefault:"value"` - set a default value
//
// After adding fields here, update loader.go Validate() if custom
// validation is needed.
type Config struct {
	// ============================================================
	// Server configuration
	// ============================================================
	HTTPPort    int    `env:"HTTP_PORT" envDefault:"3000"`
	GRPCPort    int    `env:"GRPC_PORT" envDefault:"6565"`
	MetricsPort int    `env:"METRICS_PORT" envDefault:"8080"`
	Environment string `env:"ENVIRONMENT" envDefault:"dev"`
	ServiceName string `env:"SERVICE_NAME" envDefault:"ChurnDashboard"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// ============================================================
	// Analytics backend
	// ============================================================
	// BackendBaseURL wins when set; otherwise the URL is picked by ENVIRONMENT.
	BackendBaseURL string        `env:"BACKEND_BASE_URL"`
	BackendDevURL  string        `env:"BACKEND_DEV_URL" envDefault:"http://127.0.0.1:8000"`
	BackendProdURL string        `env:"BACKEND_PROD_URL" envDefault:"https://your-app-name.onrender.com"`
	BackendTimeout time.Duration `env:"BACKEND_TIMEOUT" envDefault:"0s"`

	// ReadinessRetries bounds the startup readiness check of the backend. Zero skips it.
	ReadinessRetries uint64 `env:"BACKEND_READINESS_RETRIES" envDefault:"3"`

	// ============================================================
	// Sessions
	// ============================================================
	SessionStore string        `env:"SESSION_STORE" envDefault:"memory"`
	SessionTTL   time.Duration `env:"SESSION_TTL" envDefault:"2h"`

	// ============================================================
	// Redis configuration (SESSION_STORE=redis)
	// ============================================================
	RedisHost         string `env:"REDIS_HOST" envDefault:"localhost"`
	RedisPort         string `env:"REDIS_PORT" envDefault:"6379"`
	RedisPassword     string `env:"REDIS_PASSWORD"`
	RedisMaxRetries   int    `env:"REDIS_MAX_RETRIES" envDefault:"5"`
	RedisRetryDelayMs int    `env:"REDIS_RETRY_DELAY_MS" envDefault:"1000"`

	// ============================================================
	// Views
	// ============================================================
	FallbackPath string `env:"FALLBACK_PATH"`
	DriversPath  string `env:"DRIVERS_PATH"`
	LedgerLimit  int    `env:"LEDGER_LIMIT" envDefault:"100"`

	// ============================================================
	// Telemetry configuration
	// ============================================================
	OtelEnabled     bool   `env:"OTEL_ENABLED" envDefault:"true"`
	OtelEndpoint    string `env:"OTEL_EXPORTER_ZIPKIN_ENDPOINT"`
	OtelServiceName string `env:"OTEL_SERVICE_NAME" envDefault:"churn-dashboard"`
}

// BackendURL resolves the analytics backend base URL.
func (c *Config) BackendURL() string {
	if c.BackendBaseURL != "" {
		return c.BackendBaseURL
	}
	if c.Environment == "prod" || c.Environment == "production" {
		return c.BackendProdURL
	}
	return c.BackendDevURL
}

// RedisAddr is the host:port of the session Redis.
func (c *Config) RedisAddr() string {
	return c.RedisHost + ":" + c.RedisPort
}

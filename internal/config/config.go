// Package config provides centralized configuration management for the application.
// Settings come from struct-tag defaults, then an optional YAML file named by
// CONFIG_FILE, then environment variables. The result is validated on startup
// to fail fast on misconfiguration.
package config

import (
	"net"
	"strconv"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig    `yaml:"server"`
	Upload   UploadConfig    `yaml:"upload"`
	Rate     RateLimitConfig `yaml:"rate"`
	Security SecurityConfig  `yaml:"security"`
	Logging  LoggingConfig   `yaml:"logging"`
	Metrics  MetricsConfig   `yaml:"metrics"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `yaml:"host" env:"SERVER_HOST" default:"0.0.0.0"`

	// Port is the port to listen on (default: 3001, where the upload form posts)
	Port int `yaml:"port" env:"SERVER_PORT" envAlt:"PORT" default:"3001"`

	ReadTimeout  time.Duration `yaml:"readTimeout" env:"SERVER_READ_TIMEOUT" default:"15s"`
	WriteTimeout time.Duration `yaml:"writeTimeout" env:"SERVER_WRITE_TIMEOUT" default:"90s"`
	IdleTimeout  time.Duration `yaml:"idleTimeout" env:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout bounds graceful shutdown, including waiting for uploads (default: 30s)
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout" env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`

	// RequestTimeout is the middleware timeout for requests (default: 60s)
	RequestTimeout time.Duration `yaml:"requestTimeout" env:"SERVER_REQUEST_TIMEOUT" default:"60s"`
}

// UploadConfig holds CSV upload processing settings.
type UploadConfig struct {
	// MaxFileSize is the maximum allowed file size in bytes (default: 10MB)
	MaxFileSize int64 `yaml:"maxFileSize" env:"UPLOAD_MAX_FILE_SIZE" default:"10485760"`

	// MaxConcurrent is the maximum number of parallel uploads (default: 5)
	MaxConcurrent int `yaml:"maxConcurrent" env:"UPLOAD_MAX_CONCURRENT" default:"5"`

	// MaxWaitTime is how long to wait for an upload slot (default: 30s)
	MaxWaitTime time.Duration `yaml:"maxWaitTime" env:"UPLOAD_MAX_WAIT_TIME" default:"30s"`

	// Timeout bounds decoding and validating a single upload (default: 1m)
	Timeout time.Duration `yaml:"timeout" env:"UPLOAD_TIMEOUT" default:"1m"`

	// ResultTTL is how long a finished upload's result stays queryable (default: 5m)
	ResultTTL time.Duration `yaml:"resultTTL" env:"UPLOAD_RESULT_TTL" default:"5m"`

	// RecentLimit caps how many results GET /api/uploads returns (default: 50)
	RecentLimit int `yaml:"recentLimit" env:"UPLOAD_RECENT_LIMIT" default:"50"`
}

// RateLimitConfig holds per-IP rate limiting settings.
type RateLimitConfig struct {
	Enabled bool `yaml:"enabled" env:"RATE_LIMIT_ENABLED" default:"true"`

	// RequestsPerMinute is the default rate limit per IP (default: 100)
	RequestsPerMinute int `yaml:"requestsPerMinute" env:"RATE_LIMIT_REQUESTS_PER_MINUTE" default:"100"`

	// UploadLimit is requests per minute for upload endpoints (default: 10)
	UploadLimit int `yaml:"uploadLimit" env:"RATE_LIMIT_UPLOAD" default:"10"`
}

// SecurityConfig holds security-related settings.
type SecurityConfig struct {
	// TrustedProxies is a comma-separated list of trusted proxy CIDRs
	TrustedProxies []string `yaml:"trustedProxies" env:"TRUSTED_PROXIES"`

	// EnableCSP enables Content-Security-Policy headers (default: true)
	EnableCSP bool `yaml:"enableCSP" env:"SECURITY_ENABLE_CSP" default:"true"`

	// RequireAPIKey gates /api routes behind X-API-Key (default: false)
	RequireAPIKey bool `yaml:"requireAPIKey" env:"REQUIRE_API_KEY" default:"false"`

	// APIKeys is a comma-separated list of accepted keys
	APIKeys []string `yaml:"apiKeys" env:"API_KEYS"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `yaml:"level" env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `yaml:"format" env:"LOG_FORMAT" default:"text"`
}

// MetricsConfig holds Prometheus exposition settings.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled" env:"METRICS_ENABLED" default:"true"`
	Path    string `yaml:"path" env:"METRICS_PATH" default:"/metrics"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// Package config provides configuration loading and management using koanf.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Default configuration values.
const (
	// DefaultServerPort is the default HTTP server port.
	DefaultServerPort = 8080

	// DefaultMaxRequestSize is the default maximum request body size (1MB).
	// It also bounds the size of an imported quotes file.
	DefaultMaxRequestSize = 1 << 20

	// DefaultClientRetryMaxAttempts is the default number of attempts for reads.
	DefaultClientRetryMaxAttempts = 3

	// DefaultClientRetryMultiplier is the default exponential backoff multiplier.
	DefaultClientRetryMultiplier = 2.0

	// DefaultClientRetryJitterFactor is the default jitter percentage (±25%).
	DefaultClientRetryJitterFactor = 0.25

	// DefaultClientCircuitMaxFailures is the default failures before circuit opens.
	DefaultClientCircuitMaxFailures = 5

	// DefaultClientCircuitHalfOpenLimit is the default successes to close circuit.
	DefaultClientCircuitHalfOpenLimit = 3

	// DefaultTransportMaxIdleConns is the default max idle connections.
	DefaultTransportMaxIdleConns = 100

	// DefaultTransportMaxIdleConnsPerHost is the default max idle connections per host.
	DefaultTransportMaxIdleConnsPerHost = 10

	// DefaultLogFileMaxSizeMB is the default max log file size in megabytes.
	DefaultLogFileMaxSizeMB = 100

	// DefaultLogFileMaxBackups is the default number of old log files to retain.
	DefaultLogFileMaxBackups = 3

	// DefaultLogFileMaxAgeDays is the default max days to retain old log files.
	DefaultLogFileMaxAgeDays = 28

	// DefaultRemoteBaseURL is the remote quote source.
	DefaultRemoteBaseURL = "https://jsonplaceholder.typicode.com"

	// DefaultRemotePath is the collection resource on the remote source.
	DefaultRemotePath = "/posts"

	// DefaultSubmitMaxAttempts makes submission at-most-once per cycle.
	DefaultSubmitMaxAttempts = 1

	// DefaultSubmitRatePerSecond paces submissions to the remote source.
	DefaultSubmitRatePerSecond = 10.0

	// DefaultSubmitBurst is the token bucket size for submissions.
	DefaultSubmitBurst = 5

	// DefaultSyncSubmitConcurrency bounds in-flight submissions per cycle.
	DefaultSyncSubmitConcurrency = 4

	// DefaultDir is where Load looks for base.yaml and {profile}.yaml.
	DefaultDir = "configs"

	// envPrefix marks environment overrides. Nested keys are separated by a
	// double underscore: APP_REMOTE__BASE_URL sets remote.base_url.
	envPrefix = "APP_"
)

// Config is the root configuration structure.
type Config struct {
	App       AppConfig       `koanf:"app"       validate:"required"`
	Server    ServerConfig    `koanf:"server"    validate:"required"`
	Log       LogConfig       `koanf:"log"       validate:"required"`
	Telemetry TelemetryConfig `koanf:"telemetry"`
	Client    ClientConfig    `koanf:"client"    validate:"required"`
	Remote    RemoteConfig    `koanf:"remote"    validate:"required"`
	Sync      SyncConfig      `koanf:"sync"      validate:"required"`
	Storage   StorageConfig   `koanf:"storage"   validate:"required"`
	Notify    NotifyConfig    `koanf:"notify"    validate:"required"`
}

// AppConfig contains application-level settings.
type AppConfig struct {
	Name        string `koanf:"name"        validate:"required"`
	Version     string `koanf:"version"     validate:"required"`
	Environment string `koanf:"environment" validate:"required,oneof=local dev qa prod test"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port            int           `koanf:"port"             validate:"required,min=1,max=65535"`
	Host            string        `koanf:"host"             validate:"required"`
	ReadTimeout     time.Duration `koanf:"read_timeout"     validate:"required,min=1s"`
	WriteTimeout    time.Duration `koanf:"write_timeout"    validate:"required,min=1s"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"     validate:"required,min=1s"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"required,min=1s"`
	RequestTimeout  time.Duration `koanf:"request_timeout"  validate:"required,min=100ms"`
	MaxRequestSize  int64         `koanf:"max_request_size" validate:"required,min=1"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level  string        `koanf:"level"  validate:"required,oneof=trace debug info warn error"`
	Format string        `koanf:"format" validate:"required,oneof=json text pretty"`
	File   LogFileConfig `koanf:"file"`
}

// LogFileConfig contains rolling log file settings.
type LogFileConfig struct {
	Enabled    bool   `koanf:"enabled"`
	Path       string `koanf:"path"        validate:"required_if=Enabled true"`
	MaxSizeMB  int    `koanf:"max_size"    validate:"omitempty,min=1,max=1024"`
	MaxBackups int    `koanf:"max_backups" validate:"omitempty,min=0,max=100"`
	MaxAgeDays int    `koanf:"max_age"     validate:"omitempty,min=0,max=365"`
	Compress   bool   `koanf:"compress"`
}

// TelemetryConfig contains OpenTelemetry settings.
type TelemetryConfig struct {
	Enabled      bool    `koanf:"enabled"`
	Endpoint     string  `koanf:"endpoint"      validate:"required_if=Enabled true,omitempty,url"`
	ServiceName  string  `koanf:"service_name"  validate:"required_if=Enabled true"`
	SamplingRate float64 `koanf:"sampling_rate" validate:"min=0,max=1"`
}

// ClientConfig contains HTTP client settings for the remote quote source.
type ClientConfig struct {
	Timeout        time.Duration        `koanf:"timeout"         validate:"required,min=100ms"`
	Retry          RetryConfig          `koanf:"retry"           validate:"required"`
	CircuitBreaker CircuitBreakerConfig `koanf:"circuit_breaker" validate:"required"`
	Transport      TransportConfig      `koanf:"transport"       validate:"required"`
}

// RetryConfig contains retry settings for HTTP clients.
type RetryConfig struct {
	MaxAttempts     int           `koanf:"max_attempts"     validate:"required,min=1,max=10"`
	InitialInterval time.Duration `koanf:"initial_interval" validate:"required,min=10ms"`
	MaxInterval     time.Duration `koanf:"max_interval"     validate:"required,min=100ms"`
	Multiplier      float64       `koanf:"multiplier"       validate:"required,min=1.1,max=10"`
	JitterFactor    float64       `koanf:"jitter_factor"    validate:"min=0,max=1"`
}

// CircuitBreakerConfig contains circuit breaker settings for HTTP clients.
type CircuitBreakerConfig struct {
	MaxFailures   int           `koanf:"max_failures"    validate:"required,min=1"`
	Timeout       time.Duration `koanf:"timeout"         validate:"required,min=1s"`
	HalfOpenLimit int           `koanf:"half_open_limit" validate:"required,min=1"`
}

// TransportConfig contains HTTP transport pool settings.
type TransportConfig struct {
	MaxIdleConns        int           `koanf:"max_idle_conns"          validate:"required,min=1"`
	MaxIdleConnsPerHost int           `koanf:"max_idle_conns_per_host" validate:"required,min=1"`
	IdleConnTimeout     time.Duration `koanf:"idle_conn_timeout"       validate:"required,min=1s"`
}

// RemoteConfig describes the remote quote source.
type RemoteConfig struct {
	BaseURL string `koanf:"base_url" validate:"required,url"`
	Path    string `koanf:"path"     validate:"required,startswith=/"`
	Name    string `koanf:"name"     validate:"required"`

	// SubmitMaxAttempts overrides client.retry.max_attempts for submissions.
	SubmitMaxAttempts   int     `koanf:"submit_max_attempts"    validate:"required,min=1,max=10"`
	SubmitRatePerSecond float64 `koanf:"submit_rate_per_second" validate:"gt=0"`
	SubmitBurst         int     `koanf:"submit_burst"           validate:"required,min=1"`
}

// SyncConfig controls the reconciliation loop.
type SyncConfig struct {
	Enabled           bool          `koanf:"enabled"`
	Interval          time.Duration `koanf:"interval"           validate:"required,min=1s"`
	SubmitConcurrency int           `koanf:"submit_concurrency" validate:"required,min=1,max=64"`
}

// StorageConfig controls the durable key-value store.
type StorageConfig struct {
	Path        string        `koanf:"path"         validate:"required"`
	BusyTimeout time.Duration `koanf:"busy_timeout"`
}

// NotifyConfig controls transient notifications.
type NotifyConfig struct {
	TTL time.Duration `koanf:"ttl" validate:"required,min=100ms"`
}

// defaults returns the default configuration values.
func defaults() map[string]any {
	return map[string]any{
		"app.name":        "quote-keeper",
		"app.version":     "dev",
		"app.environment": "local",

		"server.port":             DefaultServerPort,
		"server.host":             "0.0.0.0",
		"server.read_timeout":     "30s",
		"server.write_timeout":    "30s",
		"server.idle_timeout":     "120s",
		"server.shutdown_timeout": "10s",
		"server.request_timeout":  "30s",
		"server.max_request_size": DefaultMaxRequestSize,

		"log.level":            "info",
		"log.format":           "json",
		"log.file.enabled":     false,
		"log.file.path":        "./logs/quote-keeper.log",
		"log.file.max_size":    DefaultLogFileMaxSizeMB,
		"log.file.max_backups": DefaultLogFileMaxBackups,
		"log.file.max_age":     DefaultLogFileMaxAgeDays,
		"log.file.compress":    true,

		"telemetry.enabled":       false,
		"telemetry.endpoint":      "",
		"telemetry.service_name":  "quote-keeper",
		"telemetry.sampling_rate": 1.0,

		"client.timeout":                           "10s",
		"client.retry.max_attempts":                DefaultClientRetryMaxAttempts,
		"client.retry.initial_interval":            "100ms",
		"client.retry.max_interval":                "5s",
		"client.retry.multiplier":                  DefaultClientRetryMultiplier,
		"client.retry.jitter_factor":               DefaultClientRetryJitterFactor,
		"client.circuit_breaker.max_failures":      DefaultClientCircuitMaxFailures,
		"client.circuit_breaker.timeout":           "30s",
		"client.circuit_breaker.half_open_limit":   DefaultClientCircuitHalfOpenLimit,
		"client.transport.max_idle_conns":          DefaultTransportMaxIdleConns,
		"client.transport.max_idle_conns_per_host": DefaultTransportMaxIdleConnsPerHost,
		"client.transport.idle_conn_timeout":       "90s",

		"remote.base_url":               DefaultRemoteBaseURL,
		"remote.path":                   DefaultRemotePath,
		"remote.name":                   "remote-quotes",
		"remote.submit_max_attempts":    DefaultSubmitMaxAttempts,
		"remote.submit_rate_per_second": DefaultSubmitRatePerSecond,
		"remote.submit_burst":           DefaultSubmitBurst,

		"sync.enabled":            true,
		"sync.interval":           "30s",
		"sync.submit_concurrency": DefaultSyncSubmitConcurrency,

		"storage.path":         "./data/quotes.db",
		"storage.busy_timeout": "5s",

		"notify.ttl": "5s",
	}
}

// Load loads configuration from DefaultDir. See LoadFrom.
func Load(profile string) (*Config, error) {
	return LoadFrom(DefaultDir, profile)
}

// LoadFrom loads configuration with the following precedence (highest to lowest):
//  1. Environment variables (APP_ prefix, "__" between nested keys)
//  2. Profile config file ({dir}/{profile}.yaml)
//  3. Base config file ({dir}/base.yaml)
//  4. Default values
func LoadFrom(dir, profile string) (*Config, error) {
	k := koanf.New(".")

	err := k.Load(confmap.Provider(defaults(), "."), nil)
	if err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	err = loadFileIfExists(k, filepath.Join(dir, "base.yaml"))
	if err != nil {
		return nil, fmt.Errorf("loading base config: %w", err)
	}

	if profile != "" {
		err = loadFileIfExists(k, filepath.Join(dir, profile+".yaml"))
		if err != nil {
			return nil, fmt.Errorf("loading profile config %q: %w", profile, err)
		}
	}

	err = k.Load(env.Provider(envPrefix, ".", envKey), nil)
	if err != nil {
		return nil, fmt.Errorf("loading env vars: %w", err)
	}

	var cfg Config

	err = k.Unmarshal("", &cfg)
	if err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return &cfg, nil
}

// envKey maps APP_CLIENT__RETRY__MAX_ATTEMPTS to client.retry.max_attempts.
func envKey(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, envPrefix)), "__", ".")
}

// loadFileIfExists loads a YAML config file if it exists.
// Returns nil if the file doesn't exist, error only for parse/read failures.
func loadFileIfExists(k *koanf.Koanf, path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}

	return k.Load(file.Provider(path), yaml.Parser())
}

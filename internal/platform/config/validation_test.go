package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// validConfig returns a fully valid configuration for testing.
func validConfig() *Config {
	return &Config{
		App: AppConfig{
			Name:        "test-service",
			Version:     "1.0.0",
			Environment: "local",
		},
		Server: ServerConfig{
			Port:            8080,
			Host:            "0.0.0.0",
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     120 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			RequestTimeout:  30 * time.Second,
			MaxRequestSize:  1048576,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		Client: ClientConfig{
			Timeout: 30 * time.Second,
			Retry: RetryConfig{
				MaxAttempts:     3,
				InitialInterval: 100 * time.Millisecond,
				MaxInterval:     5 * time.Second,
				Multiplier:      2.0,
				JitterFactor:    0.25,
			},
			CircuitBreaker: CircuitBreakerConfig{
				MaxFailures:   5,
				Timeout:       30 * time.Second,
				HalfOpenLimit: 3,
			},
			Transport: TransportConfig{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		Remote: RemoteConfig{
			BaseURL:             "https://jsonplaceholder.typicode.com",
			Path:                "/posts",
			Name:                "remote-quotes",
			SubmitMaxAttempts:   1,
			SubmitRatePerSecond: 10,
			SubmitBurst:         5,
		},
		Sync: SyncConfig{
			Enabled:           true,
			Interval:          30 * time.Second,
			SubmitConcurrency: 4,
		},
		Storage: StorageConfig{
			Path:        "./data/quotes.db",
			BusyTimeout: 5 * time.Second,
		},
		Notify: NotifyConfig{
			TTL: 5 * time.Second,
		},
	}
}

func TestConfig_Validate_ValidConfig(t *testing.T) {
	require.NoError(t, validConfig().Validate())
}

func TestConfig_Validate_AcceptedVariants(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"every environment", func(c *Config) { c.App.Environment = "qa" }},
		{"lowest port", func(c *Config) { c.Server.Port = 1 }},
		{"highest port", func(c *Config) { c.Server.Port = 65535 }},
		{"trace logging", func(c *Config) { c.Log.Level = "trace" }},
		{"pretty logging", func(c *Config) { c.Log.Format = "pretty" }},
		{"file logging", func(c *Config) {
			c.Log.File = LogFileConfig{Enabled: true, Path: "/var/log/quote-keeper.log", MaxSizeMB: 100, MaxBackups: 3, MaxAgeDays: 28}
		}},
		{"file logging off without path", func(c *Config) { c.Log.File = LogFileConfig{} }},
		{"telemetry on", func(c *Config) {
			c.Telemetry = TelemetryConfig{Enabled: true, Endpoint: "http://localhost:4317", ServiceName: "quote-keeper", SamplingRate: 0.5}
		}},
		{"sampling everything", func(c *Config) { c.Telemetry.SamplingRate = 1 }},
		{"retry upper bounds", func(c *Config) { c.Client.Retry.MaxAttempts = 10; c.Client.Retry.Multiplier = 10 }},
		{"short interval when sync is off", func(c *Config) {
			c.Sync.Enabled = false
			c.Sync.Interval = 5 * time.Second
			c.Client.Timeout = 10 * time.Second
		}},
		{"in-memory database", func(c *Config) { c.Storage.Path = ":memory:" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			assert.NoError(t, cfg.Validate())
		})
	}
}

func TestConfig_Validate_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"missing app name", func(c *Config) { c.App.Name = "" }, "app.name is required"},
		{"unknown environment", func(c *Config) { c.App.Environment = "staging" }, "app.environment must be one of"},
		{"port zero", func(c *Config) { c.Server.Port = 0 }, "server.port"},
		{"port too high", func(c *Config) { c.Server.Port = 65536 }, "server.port must be at most 65535"},
		{"missing host", func(c *Config) { c.Server.Host = "" }, "server.host"},
		{"sub-second read timeout", func(c *Config) { c.Server.ReadTimeout = 500 * time.Millisecond }, "server.readtimeout"},
		{"tiny request timeout", func(c *Config) { c.Server.RequestTimeout = 10 * time.Millisecond }, "server.requesttimeout"},
		{"no body limit", func(c *Config) { c.Server.MaxRequestSize = 0 }, "server.maxrequestsize"},
		{"uppercase level", func(c *Config) { c.Log.Level = "DEBUG" }, "log.level"},
		{"xml logs", func(c *Config) { c.Log.Format = "xml" }, "log.format"},
		{"file logging without path", func(c *Config) { c.Log.File.Enabled = true }, "log.file.path is required when"},
		{"huge log file", func(c *Config) {
			c.Log.File = LogFileConfig{Enabled: true, Path: "/tmp/q.log", MaxSizeMB: 1025}
		}, "log.file.maxsizemb"},
		{"telemetry without endpoint", func(c *Config) {
			c.Telemetry = TelemetryConfig{Enabled: true, ServiceName: "quote-keeper"}
		}, "telemetry.endpoint"},
		{"telemetry endpoint not a URL", func(c *Config) {
			c.Telemetry = TelemetryConfig{Enabled: true, ServiceName: "quote-keeper", Endpoint: "collector"}
		}, "telemetry.endpoint must be a valid URL"},
		{"telemetry without name", func(c *Config) {
			c.Telemetry = TelemetryConfig{Enabled: true, Endpoint: "http://localhost:4317"}
		}, "telemetry.servicename"},
		{"negative sampling", func(c *Config) { c.Telemetry.SamplingRate = -0.1 }, "telemetry.samplingrate"},
		{"oversampling", func(c *Config) { c.Telemetry.SamplingRate = 1.1 }, "telemetry.samplingrate"},
		{"client timeout too small", func(c *Config) { c.Client.Timeout = 50 * time.Millisecond }, "client.timeout"},
		{"no retry attempts", func(c *Config) { c.Client.Retry.MaxAttempts = 0 }, "client.retry.maxattempts"},
		{"too many retries", func(c *Config) { c.Client.Retry.MaxAttempts = 11 }, "client.retry.maxattempts must be at most 10"},
		{"flat backoff", func(c *Config) { c.Client.Retry.Multiplier = 1.0 }, "client.retry.multiplier"},
		{"initial above max backoff", func(c *Config) {
			c.Client.Retry.InitialInterval = 2 * time.Second
			c.Client.Retry.MaxInterval = time.Second
		}, "must not exceed client.retry.maxinterval"},
		{"breaker never trips", func(c *Config) { c.Client.CircuitBreaker.MaxFailures = 0 }, "client.circuitbreaker.maxfailures"},
		{"breaker reopens instantly", func(c *Config) { c.Client.CircuitBreaker.Timeout = 500 * time.Millisecond }, "client.circuitbreaker.timeout"},
		{"no half-open probes", func(c *Config) { c.Client.CircuitBreaker.HalfOpenLimit = 0 }, "client.circuitbreaker.halfopenlimit"},
		{"missing remote base url", func(c *Config) { c.Remote.BaseURL = "" }, "remote.baseurl is required"},
		{"remote base url not a URL", func(c *Config) { c.Remote.BaseURL = "jsonplaceholder" }, "remote.baseurl must be a valid URL"},
		{"relative remote path", func(c *Config) { c.Remote.Path = "posts" }, `remote.path must start with "/"`},
		{"missing remote name", func(c *Config) { c.Remote.Name = "" }, "remote.name"},
		{"too many submit attempts", func(c *Config) { c.Remote.SubmitMaxAttempts = 11 }, "remote.submitmaxattempts"},
		{"zero submit rate", func(c *Config) { c.Remote.SubmitRatePerSecond = 0 }, "remote.submitratepersecond must be greater than 0"},
		{"zero burst", func(c *Config) { c.Remote.SubmitBurst = 0 }, "remote.submitburst"},
		{"sub-second sync", func(c *Config) { c.Sync.Interval = 500 * time.Millisecond }, "sync.interval"},
		{"no submit workers", func(c *Config) { c.Sync.SubmitConcurrency = 0 }, "sync.submitconcurrency"},
		{"too many submit workers", func(c *Config) { c.Sync.SubmitConcurrency = 65 }, "sync.submitconcurrency must be at most 64"},
		{"sync faster than a request", func(c *Config) {
			c.Sync.Interval = 5 * time.Second
			c.Client.Timeout = 10 * time.Second
		}, "sync.interval must be at least client.timeout"},
		{"missing storage path", func(c *Config) { c.Storage.Path = "" }, "storage.path"},
		{"flash notifications", func(c *Config) { c.Notify.TTL = 10 * time.Millisecond }, "notify.ttl"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestConfig_Validate_ReportsEveryField(t *testing.T) {
	cfg := &Config{App: AppConfig{Environment: "invalid"}, Server: ServerConfig{Port: -1}}

	err := cfg.Validate()

	require.Error(t, err)

	for _, field := range []string{"app.name", "app.version", "app.environment", "server.port", "remote", "notify"} {
		assert.Contains(t, err.Error(), field)
	}
}

func TestFormatFieldPath(t *testing.T) {
	tests := map[string]string{
		"Config.Server.Port":              "server.port",
		"Config.Client.Retry.MaxAttempts": "client.retry.maxattempts",
		"Config.Log.File.Path":            "log.file.path",
		"Config.Remote.BaseURL":           "remote.baseurl",
		"Config.Sync.SubmitConcurrency":   "sync.submitconcurrency",
		"Standalone":                      "standalone",
	}

	for namespace, want := range tests {
		assert.Equal(t, want, formatFieldPath(namespace), namespace)
	}
}

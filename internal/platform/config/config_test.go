package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()

	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
}

// TestLoad_DefaultValues tests that hardcoded defaults are applied when no
// config files exist.
func TestLoad_DefaultValues(t *testing.T) {
	cfg, err := LoadFrom(t.TempDir(), "")
	require.NoError(t, err)

	assert.Equal(t, "quote-keeper", cfg.App.Name)
	assert.Equal(t, "dev", cfg.App.Version)
	assert.Equal(t, "local", cfg.App.Environment)
	assert.Equal(t, DefaultServerPort, cfg.Server.Port)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, DefaultClientRetryMaxAttempts, cfg.Client.Retry.MaxAttempts)
	assert.Equal(t, DefaultClientCircuitMaxFailures, cfg.Client.CircuitBreaker.MaxFailures)
	require.NoError(t, cfg.Validate())
}

func TestLoad_EnvVarOverrides(t *testing.T) {
	t.Setenv("APP_SERVER__PORT", "9090")
	t.Setenv("APP_LOG__LEVEL", "trace")
	t.Setenv("APP_REMOTE__BASE_URL", "http://localhost:3000")
	t.Setenv("APP_CLIENT__RETRY__MAX_ATTEMPTS", "5")

	cfg, err := LoadFrom(t.TempDir(), "")
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "trace", cfg.Log.Level)
	assert.Equal(t, "http://localhost:3000", cfg.Remote.BaseURL)
	assert.Equal(t, 5, cfg.Client.Retry.MaxAttempts)
}

func TestEnvKey(t *testing.T) {
	tests := map[string]string{
		"APP_SERVER__PORT":                "server.port",
		"APP_REMOTE__SUBMIT_MAX_ATTEMPTS": "remote.submit_max_attempts",
		"APP_LOG__FILE__MAX_SIZE":         "log.file.max_size",
	}

	for in, expected := range tests {
		assert.Equal(t, expected, envKey(in), in)
	}
}

func TestLoad_FilePrecedence(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "base.yaml", `
app:
  environment: dev
sync:
  interval: 45s
storage:
  path: /var/lib/quote-keeper/base.db
`)
	writeFile(t, dir, "prod.yaml", `
app:
  environment: prod
storage:
  path: /var/lib/quote-keeper/prod.db
`)
	t.Setenv("APP_STORAGE__PATH", "/tmp/env.db")

	cfg, err := LoadFrom(dir, "prod")
	require.NoError(t, err)

	assert.Equal(t, "prod", cfg.App.Environment)
	assert.Equal(t, 45*time.Second, cfg.Sync.Interval)
	assert.Equal(t, "/tmp/env.db", cfg.Storage.Path)
}

func TestLoad_MalformedFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "base.yaml", "server: [unclosed")

	_, err := LoadFrom(dir, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loading base config")
}

// TestLoad_NonExistentProfile tests that a missing profile file doesn't cause errors.
func TestLoad_NonExistentProfile(t *testing.T) {
	cfg, err := LoadFrom(t.TempDir(), "nonexistent")
	require.NoError(t, err)

	assert.Equal(t, "quote-keeper", cfg.App.Name)
}

func TestLoad_DurationParsing(t *testing.T) {
	cfg, err := LoadFrom(t.TempDir(), "")
	require.NoError(t, err)

	assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 120*time.Second, cfg.Server.IdleTimeout)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, 100*time.Millisecond, cfg.Client.Retry.InitialInterval)
	assert.Equal(t, 5*time.Second, cfg.Client.Retry.MaxInterval)
	assert.Equal(t, 10*time.Second, cfg.Client.Timeout)
	assert.Equal(t, 90*time.Second, cfg.Client.Transport.IdleConnTimeout)
}

func TestLoad_BoolEnvVar(t *testing.T) {
	t.Setenv("APP_SYNC__ENABLED", "false")

	cfg, err := LoadFrom(t.TempDir(), "")
	require.NoError(t, err)

	assert.False(t, cfg.Sync.Enabled)
}

func TestLoad_ReconcilerDefaults(t *testing.T) {
	cfg, err := LoadFrom(t.TempDir(), "")
	require.NoError(t, err)

	assert.True(t, cfg.Sync.Enabled)
	assert.Equal(t, 30*time.Second, cfg.Sync.Interval)
	assert.Equal(t, DefaultSyncSubmitConcurrency, cfg.Sync.SubmitConcurrency)
	assert.Equal(t, 5*time.Second, cfg.Notify.TTL)
	assert.Equal(t, "./data/quotes.db", cfg.Storage.Path)
	assert.Equal(t, 5*time.Second, cfg.Storage.BusyTimeout)
}

func TestLoad_RemoteDefaults(t *testing.T) {
	cfg, err := LoadFrom(t.TempDir(), "")
	require.NoError(t, err)

	assert.Equal(t, DefaultRemoteBaseURL, cfg.Remote.BaseURL)
	assert.Equal(t, DefaultRemotePath, cfg.Remote.Path)
	assert.Equal(t, "remote-quotes", cfg.Remote.Name)
	assert.Equal(t, DefaultSubmitMaxAttempts, cfg.Remote.SubmitMaxAttempts)
	assert.InDelta(t, DefaultSubmitRatePerSecond, cfg.Remote.SubmitRatePerSecond, 0.0001)
	assert.Equal(t, DefaultSubmitBurst, cfg.Remote.SubmitBurst)
}

func TestLoad_LogFileDefaults(t *testing.T) {
	cfg, err := LoadFrom(t.TempDir(), "")
	require.NoError(t, err)

	assert.False(t, cfg.Log.File.Enabled)
	assert.Equal(t, "./logs/quote-keeper.log", cfg.Log.File.Path)
	assert.Equal(t, DefaultLogFileMaxSizeMB, cfg.Log.File.MaxSizeMB)
	assert.Equal(t, DefaultLogFileMaxBackups, cfg.Log.File.MaxBackups)
	assert.Equal(t, DefaultLogFileMaxAgeDays, cfg.Log.File.MaxAgeDays)
	assert.True(t, cfg.Log.File.Compress)
}

func TestLoad_TelemetryDefaults(t *testing.T) {
	cfg, err := LoadFrom(t.TempDir(), "")
	require.NoError(t, err)

	assert.False(t, cfg.Telemetry.Enabled)
	assert.Equal(t, "quote-keeper", cfg.Telemetry.ServiceName)
	assert.Equal(t, 1.0, cfg.Telemetry.SamplingRate)
}

func TestDefaults(t *testing.T) {
	d := defaults()

	assert.Equal(t, "quote-keeper", d["app.name"])
	assert.Equal(t, DefaultServerPort, d["server.port"])
	assert.Equal(t, "info", d["log.level"])
	assert.Equal(t, DefaultRemoteBaseURL, d["remote.base_url"])
	assert.Equal(t, "30s", d["sync.interval"])
	assert.Equal(t, "5s", d["notify.ttl"])
}

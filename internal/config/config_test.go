package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("TASKAPI_JWT_ACCESS_SECRET", "access")
	t.Setenv("TASKAPI_JWT_REFRESH_SECRET", "refresh")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "task-api", cfg.ServiceName)
	assert.Equal(t, 8080, cfg.HTTP.Port)
	assert.Equal(t, 15*time.Minute, cfg.JWT.AccessTTL)
	assert.Equal(t, 168*time.Hour, cfg.JWT.RefreshTTL)
	assert.Equal(t, "postgres", cfg.Ledger.Backend)
	assert.Equal(t, uint32(64*1024), cfg.Argon2.Memory)
}

func TestLoadRequiresSecrets(t *testing.T) {
	t.Setenv("TASKAPI_JWT_ACCESS_SECRET", "")
	t.Setenv("TASKAPI_JWT_REFRESH_SECRET", "")

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestLoadFromFile(t *testing.T) {
	t.Setenv("TASKAPI_JWT_ACCESS_SECRET", "access")
	t.Setenv("TASKAPI_JWT_REFRESH_SECRET", "refresh")

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := []byte("service_name: custom-api\nhttp:\n  port: 9090\njwt:\n  access_ttl: 5m\n")
	require.NoError(t, os.WriteFile(path, content, 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "custom-api", cfg.ServiceName)
	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.Equal(t, 5*time.Minute, cfg.JWT.AccessTTL)
}

func TestLoadRejectsUnknownLedgerBackend(t *testing.T) {
	t.Setenv("TASKAPI_JWT_ACCESS_SECRET", "access")
	t.Setenv("TASKAPI_JWT_REFRESH_SECRET", "refresh")
	t.Setenv("TASKAPI_LEDGER_BACKEND", "memcached")

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestLoadRedisBackendNeedsAddr(t *testing.T) {
	t.Setenv("TASKAPI_JWT_ACCESS_SECRET", "access")
	t.Setenv("TASKAPI_JWT_REFRESH_SECRET", "refresh")
	t.Setenv("TASKAPI_LEDGER_BACKEND", "redis")

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	t.Setenv("TASKAPI_LEDGER_REDIS_ADDR", "localhost:6379")
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "redis", cfg.Ledger.Backend)
}

func TestLoadRejectsNonPositiveTTL(t *testing.T) {
	t.Setenv("TASKAPI_JWT_ACCESS_SECRET", "access")
	t.Setenv("TASKAPI_JWT_REFRESH_SECRET", "refresh")
	t.Setenv("TASKAPI_JWT_REFRESH_TTL", "0s")

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	t.Setenv("TASKAPI_JWT_REFRESH_TTL", "168h")
	t.Setenv("TASKAPI_JWT_ACCESS_TTL", "-5m")

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestLoadTraceEndpointFromEnv(t *testing.T) {
	t.Setenv("TASKAPI_JWT_ACCESS_SECRET", "access")
	t.Setenv("TASKAPI_JWT_REFRESH_SECRET", "refresh")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Empty(t, cfg.Trace.OTLPEndpoint)

	t.Setenv("TASKAPI_TRACE_OTLP_ENDPOINT", "otel-collector:4318")
	cfg, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "otel-collector:4318", cfg.Trace.OTLPEndpoint)
}

func TestDBURL(t *testing.T) {
	db := DBConfig{Host: "db", Port: 5433, Name: "tasks", User: "app", Password: "pw", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:pw@db:5433/tasks?sslmode=disable", db.URL())
}

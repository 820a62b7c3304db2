package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.HTTPPort)
	assert.Equal(t, ":8080", cfg.GetHTTPAddr())
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, BackendMemory, cfg.Storage.Backend)
	assert.Equal(t, 1024, cfg.Ingest.QueueSize)
	assert.Equal(t, 4, cfg.Ingest.Workers)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("HTTP_PORT", "9000")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("STORAGE_BACKEND", "redis")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("INGEST_WORKERS", "8")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.HTTPPort)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, BackendRedis, cfg.Storage.Backend)
	assert.Equal(t, "redis:6379", cfg.Redis.Addr)
	assert.Equal(t, 8, cfg.Ingest.Workers)
}

func TestValidateRejectsBadConfig(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "cassandra")
	_, err := Load()
	assert.Error(t, err)
}

func TestValidateMySQLRequiresCredentials(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "mysql")
	_, err := Load()
	assert.Error(t, err)

	t.Setenv("DB_USER", "logsvc")
	t.Setenv("DB_NAME", "tripspark")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Contains(t, cfg.MySQL.DSN(), "logsvc:")
	assert.Contains(t, cfg.MySQL.DSN(), "/tripspark?")
}

func TestValidateBounds(t *testing.T) {
	t.Setenv("HTTP_PORT", "0")
	_, err := Load()
	assert.Error(t, err)

	t.Setenv("HTTP_PORT", "8080")
	t.Setenv("LOG_LEVEL", "verbose")
	_, err = Load()
	assert.Error(t, err)

	t.Setenv("LOG_LEVEL", "info")
	t.Setenv("INGEST_QUEUE_SIZE", "0")
	_, err = Load()
	assert.Error(t, err)
}

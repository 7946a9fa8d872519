package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func write(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_MissingFileGivesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	cfg, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, BackendMemory, cfg.Store.Backend)
}

func TestLoad_YAML(t *testing.T) {
	path := write(t, "flojoy.yaml", `
debug: true
offline: true
store:
  backend: redis
  redis:
    addr: redis:6379
    db: 2
    ttl: 90s
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.True(t, cfg.Debug)
	assert.True(t, cfg.Offline)
	assert.Equal(t, BackendRedis, cfg.Store.Backend)
	assert.Equal(t, "redis:6379", cfg.Store.Redis.Addr)
	assert.Equal(t, 2, cfg.Store.Redis.DB)
	assert.Equal(t, 90*time.Second, time.Duration(cfg.Store.Redis.TTL))
	assert.Equal(t, DefaultRedisPrefix, cfg.Store.Redis.Prefix, "unset values keep defaults")
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoad_JSON(t *testing.T) {
	path := write(t, "flojoy.json", `{"log_level":"debug","store":{"redis":{"ttl":"1h","prefix":"x:"}}}`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, BackendMemory, cfg.Store.Backend)
	assert.Equal(t, time.Hour, time.Duration(cfg.Store.Redis.TTL))
	assert.Equal(t, "x:", cfg.Store.Redis.Prefix)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(write(t, "bad.yaml", "store: [1, 2"))
	assert.Error(t, err)

	_, err = Load(write(t, "ttl.yaml", "store:\n  redis:\n    ttl: soon\n"))
	assert.ErrorContains(t, err, "invalid duration")

	_, err = Load(write(t, "backend.json", `{"store":{"backend":"etcd"}}`))
	assert.ErrorContains(t, err, "unknown store backend")
}

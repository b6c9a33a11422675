package config

import (
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/molgraph/pkg/errors"
)

const validConfigYAML = `
dataset:
  root: /data/qm9
  target: homo
  workers: 2
split:
  seed: 7
  train: 6
  val: 2
  test: 2
batch:
  size: 4
  pad: true
  max_batch_nodes: 120
cache:
  backend: redis
  key_prefix: "test/"
  redis:
    addr: redis:6379
    ttl: 24h
  lock:
    enabled: true
    ttl: 30s
log:
  level: debug
server:
  addr: ":9090"
  read_timeout: 5s
`

func createTempConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_FromFile_ValidConfig(t *testing.T) {
	cfg, err := Load(createTempConfigFile(t, validConfigYAML))
	require.NoError(t, err)

	assert.Equal(t, "/data/qm9", cfg.Dataset.Root)
	assert.Equal(t, "homo", cfg.Dataset.Target)
	assert.Equal(t, DefaultSDFFile, cfg.Dataset.SDFFile)
	assert.Equal(t, SplitConfig{Seed: 7, Train: 6, Val: 2, Test: 2}, cfg.Split)
	assert.True(t, cfg.Batch.Pad)
	assert.Equal(t, 120, cfg.Batch.MaxBatchNodes)
	assert.Equal(t, 0.8, cfg.Batch.ReserveFraction)
	assert.Equal(t, CacheBackendRedis, cfg.Cache.Backend)
	assert.Equal(t, "redis:6379", cfg.Cache.Redis.Addr)
	assert.Equal(t, 24*time.Hour, cfg.Cache.Redis.TTL)
	assert.Equal(t, 30*time.Second, cfg.Cache.Lock.TTL)
	assert.Equal(t, DefaultLockRetryDelay, cfg.Cache.Lock.RetryDelay)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
}

func TestLoad_NoFileUsesDefaults(t *testing.T) {
	cfg, err := LoadFromEnv()
	require.NoError(t, err)
	want := Default()
	assert.Equal(t, want.Dataset, cfg.Dataset)
	assert.Equal(t, want.Split, cfg.Split)
	assert.Equal(t, want.Batch, cfg.Batch)
	assert.Equal(t, want.Cache.Lock, cfg.Cache.Lock)
	assert.Equal(t, want.Log.OutputPaths, cfg.Log.OutputPaths)
	assert.Equal(t, want.Metrics, cfg.Metrics)
	assert.Equal(t, want.Server, cfg.Server)
}

func TestLoad_FromFile_FileNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.True(t, errors.IsCode(err, errors.ErrCodeBadRequest))
}

func TestLoad_FromFile_InvalidYAML(t *testing.T) {
	_, err := Load(createTempConfigFile(t, "dataset: ["))
	assert.Error(t, err)
}

func TestLoad_FromFile_ValidationFailure(t *testing.T) {
	_, err := Load(createTempConfigFile(t, "cache:\n  backend: floppy\n"))
	assert.True(t, errors.IsCode(err, errors.ErrCodeValidation))
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("MOLGRAPH_BATCH_SIZE", "32")
	t.Setenv("MOLGRAPH_CACHE_REDIS_ADDR", "cache.internal:6380")
	t.Setenv("MOLGRAPH_DATASET_TARGET", "gap")

	cfg, err := Load(createTempConfigFile(t, validConfigYAML))
	require.NoError(t, err)
	assert.Equal(t, 32, cfg.Batch.Size)
	assert.Equal(t, "cache.internal:6380", cfg.Cache.Redis.Addr)
	assert.Equal(t, "gap", cfg.Dataset.Target)
}

func TestLoad_EnvOverrideWithoutFile(t *testing.T) {
	t.Setenv("MOLGRAPH_CACHE_BACKEND", "none")
	t.Setenv("MOLGRAPH_SPLIT_SEED", "3")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)
	assert.Equal(t, CacheBackendNone, cfg.Cache.Backend)
	assert.Equal(t, uint32(3), cfg.Split.Seed)
}

func TestMustLoad_Panics(t *testing.T) {
	assert.Panics(t, func() { MustLoad(filepath.Join(t.TempDir(), "missing.yaml")) })
}

func TestWatch_ReloadsOnChange(t *testing.T) {
	path := createTempConfigFile(t, validConfigYAML)

	var level atomic.Value
	require.NoError(t, Watch(path, func(cfg *Config) {
		level.Store(cfg.Log.Level)
	}, nil))

	updated := validConfigYAML + "\nmetrics:\n  namespace: reloaded\n"
	updated = strings.Replace(updated, "level: debug", "level: warn", 1)
	require.NoError(t, os.WriteFile(path, []byte(updated), 0o644))

	assert.Eventually(t, func() bool {
		v, _ := level.Load().(string)
		return v == "warn"
	}, 5*time.Second, 20*time.Millisecond)
}

func TestWatch_MissingFile(t *testing.T) {
	err := Watch(filepath.Join(t.TempDir(), "missing.yaml"), func(*Config) {}, nil)
	assert.True(t, errors.IsCode(err, errors.ErrCodeBadRequest))
}

//Personal.AI order the ending

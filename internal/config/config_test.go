package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/molgraph/internal/config"
	"github.com/turtacn/molgraph/pkg/errors"
)

func validConfig() *config.Config {
	return config.Default()
}

func TestConfig_Validate_ValidConfig(t *testing.T) {
	t.Parallel()
	assert.NoError(t, validConfig().Validate())
}

func TestConfig_Validate_Failures(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{"missing root", func(c *config.Config) { c.Dataset.Root = "" }, "dataset.root"},
		{"zero workers", func(c *config.Config) { c.Dataset.Workers = 0 }, "dataset.workers"},
		{"negative split", func(c *config.Config) { c.Split.Val = -1 }, "split sizes"},
		{"empty split", func(c *config.Config) { c.Split = config.SplitConfig{Seed: 1} }, "all be zero"},
		{"zero batch", func(c *config.Config) { c.Batch.Size = 0 }, "batch.size"},
		{"negative capacity", func(c *config.Config) { c.Batch.MaxBatchEdges = -3 }, "capacities"},
		{"reserve fraction", func(c *config.Config) { c.Batch.ReserveFraction = 1.5 }, "reserve_fraction"},
		{"bad backend", func(c *config.Config) { c.Cache.Backend = "s3" }, "cache.backend"},
		{"local without dir", func(c *config.Config) { c.Cache.Local.Dir = "" }, "cache.local.dir"},
		{"redis without addr", func(c *config.Config) {
			c.Cache.Backend = config.CacheBackendRedis
			c.Cache.Redis.Addr = ""
		}, "cache.redis.addr"},
		{"redis bad mode", func(c *config.Config) {
			c.Cache.Backend = config.CacheBackendRedis
			c.Cache.Redis.Mode = "ring"
		}, "cache.redis.mode"},
		{"sentinel without master", func(c *config.Config) {
			c.Cache.Backend = config.CacheBackendRedis
			c.Cache.Redis.Mode = "sentinel"
		}, "master_name"},
		{"minio without bucket", func(c *config.Config) {
			c.Cache.Backend = config.CacheBackendMinIO
			c.Cache.MinIO.Bucket = ""
		}, "cache.minio.bucket"},
		{"lock without redis", func(c *config.Config) {
			c.Cache.Lock.Enabled = true
			c.Cache.Redis.Addr = ""
		}, "cache.lock"},
		{"bad log level", func(c *config.Config) { c.Log.Level = "trace" }, "log.level"},
		{"bad log format", func(c *config.Config) { c.Log.Format = "text" }, "log.format"},
		{"metrics without namespace", func(c *config.Config) { c.Metrics.Namespace = "" }, "metrics.namespace"},
		{"missing server addr", func(c *config.Config) { c.Server.Addr = "" }, "server.addr"},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			cfg := validConfig()
			tc.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.True(t, errors.IsCode(err, errors.ErrCodeValidation))
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestConfig_Validate_LockWithRedisBackend(t *testing.T) {
	t.Parallel()
	cfg := validConfig()
	cfg.Cache.Backend = config.CacheBackendRedis
	cfg.Cache.Lock.Enabled = true
	assert.NoError(t, cfg.Validate())
}

func TestConfig_Redacted(t *testing.T) {
	t.Parallel()
	cfg := validConfig()
	cfg.Cache.Redis.Password = "hunter2"
	cfg.Cache.MinIO.SecretKey = "s3cr3t"

	r := cfg.Redacted()
	assert.Equal(t, "******", r.Cache.Redis.Password)
	assert.Equal(t, "******", r.Cache.MinIO.SecretKey)
	assert.Equal(t, "hunter2", cfg.Cache.Redis.Password)

	assert.Empty(t, validConfig().Redacted().Cache.Redis.Password)
}

//Personal.AI order the ending

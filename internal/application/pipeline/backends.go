package pipeline

import (
	"context"

	"github.com/turtacn/molgraph/internal/config"
	"github.com/turtacn/molgraph/internal/dataset/snapshot"
	redisinfra "github.com/turtacn/molgraph/internal/infrastructure/database/redis"
	"github.com/turtacn/molgraph/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/molgraph/internal/infrastructure/storage/localfs"
	minioinfra "github.com/turtacn/molgraph/internal/infrastructure/storage/minio"
	"github.com/turtacn/molgraph/pkg/errors"
)

// buildLockName is the lock guarding corpus assembly for one key prefix.
const buildLockName = "corpus-build"

// RedisConfig converts the cache section into client settings.
func RedisConfig(c config.RedisConfig) *redisinfra.Config {
	return &redisinfra.Config{
		Mode:          c.Mode,
		Addr:          c.Addr,
		MasterName:    c.MasterName,
		SentinelAddrs: c.SentinelAddrs,
		ClusterAddrs:  c.ClusterAddrs,
		Username:      c.Username,
		Password:      c.Password,
		DB:            c.DB,
		PoolSize:      c.PoolSize,
		DialTimeout:   c.DialTimeout,
		ReadTimeout:   c.ReadTimeout,
		WriteTimeout:  c.WriteTimeout,
		MaxRetries:    c.MaxRetries,
		TLSEnabled:    c.TLSEnabled,
		TLSCAFile:     c.TLSCAFile,
		TLSInsecure:   c.TLSInsecure,
	}
}

// MinIOConfig converts the cache section into client settings.
func MinIOConfig(c config.MinIOConfig) *minioinfra.Config {
	return &minioinfra.Config{
		Endpoint:        c.Endpoint,
		AccessKeyID:     c.AccessKey,
		SecretAccessKey: c.SecretKey,
		UseSSL:          c.UseSSL,
		Region:          c.Region,
		Bucket:          c.Bucket,
		ExpireAfterDays: c.ExpireAfterDays,
	}
}

// backends holds the cache and lock opened for a Service and the resources
// to release on Close.
type backends struct {
	cache   *snapshot.Cache
	lock    BuildLock
	closers []func() error
}

func (b *backends) close() error {
	var first error
	for i := len(b.closers) - 1; i >= 0; i-- {
		if err := b.closers[i](); err != nil && first == nil {
			first = err
		}
	}
	b.closers = nil
	return first
}

// openBackends connects the snapshot store selected by cfg.Backend and, when
// enabled, the redis build lock.  One redis client serves both.
func openBackends(ctx context.Context, cfg config.CacheConfig, metrics snapshot.CacheMetrics, log logging.Logger) (*backends, error) {
	b := &backends{}

	var rdb *redisinfra.Client
	redisClient := func() (*redisinfra.Client, error) {
		if rdb != nil {
			return rdb, nil
		}
		c, err := redisinfra.NewClient(RedisConfig(cfg.Redis), log.Named("redis"))
		if err != nil {
			return nil, err
		}
		rdb = c
		b.closers = append(b.closers, c.Close)
		return c, nil
	}

	var store snapshot.BlobStore
	switch cfg.Backend {
	case config.CacheBackendNone, "":
	case config.CacheBackendLocal:
		s, err := localfs.NewStore(cfg.Local.Dir)
		if err != nil {
			return nil, err
		}
		store = s
	case config.CacheBackendRedis:
		c, err := redisClient()
		if err != nil {
			return nil, err
		}
		store = redisinfra.NewBlobStore(c, redisinfra.WithPrefix(cfg.Redis.KeyPrefix), redisinfra.WithTTL(cfg.Redis.TTL))
	case config.CacheBackendMinIO:
		c, err := minioinfra.NewClient(ctx, MinIOConfig(cfg.MinIO), log.Named("minio"))
		if err != nil {
			return nil, err
		}
		b.closers = append(b.closers, c.Close)
		store = minioinfra.NewBlobStore(c)
	default:
		return nil, errors.New(errors.ErrCodeValidation, "unknown cache backend").WithDetail(cfg.Backend)
	}

	if store != nil {
		opts := []snapshot.CacheOption{
			snapshot.WithKeyPrefix(cfg.KeyPrefix),
			snapshot.WithCacheLogger(log.Named("snapshot")),
		}
		if metrics != nil {
			opts = append(opts, snapshot.WithCacheMetrics(metrics))
		}
		b.cache = snapshot.NewCache(store, cfg.Backend, opts...)
	}

	if cfg.Lock.Enabled {
		c, err := redisClient()
		if err != nil {
			_ = b.close()
			return nil, err
		}
		b.lock = redisinfra.NewMutex(c, cfg.KeyPrefix+buildLockName, log.Named("lock"),
			redisinfra.WithLockTTL(cfg.Lock.TTL),
			redisinfra.WithRetryDelay(cfg.Lock.RetryDelay),
			redisinfra.WithRetryCount(cfg.Lock.RetryCount),
			redisinfra.WithWatchdog(true))
	}
	return b, nil
}

//Personal.AI order the ending

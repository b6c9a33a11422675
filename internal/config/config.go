// Package config defines all configuration structures for molgraph.  No I/O
// or parsing logic lives here, only plain data types and validation.
package config

import (
	"fmt"
	"time"

	"github.com/turtacn/molgraph/pkg/errors"
)

// ─────────────────────────────────────────────────────────────────────────────
// Sub-configuration structs
// ─────────────────────────────────────────────────────────────────────────────

// DatasetConfig locates the raw inputs and selects the regression target.
type DatasetConfig struct {
	Root                string `mapstructure:"root" yaml:"root"`
	SDFFile             string `mapstructure:"sdf_file" yaml:"sdf_file"`
	CSVFile             string `mapstructure:"csv_file" yaml:"csv_file"`
	UncharacterizedFile string `mapstructure:"uncharacterized_file" yaml:"uncharacterized_file"`
	Target              string `mapstructure:"target" yaml:"target"` // empty keeps all 19 columns
	Workers             int    `mapstructure:"workers" yaml:"workers"`
	Provenance          bool   `mapstructure:"provenance" yaml:"provenance"`
}

// SplitConfig fixes the train/val/test partition.
type SplitConfig struct {
	Seed  uint32 `mapstructure:"seed" yaml:"seed"`
	Train int    `mapstructure:"train" yaml:"train"`
	Val   int    `mapstructure:"val" yaml:"val"`
	Test  int    `mapstructure:"test" yaml:"test"`
}

// BatchConfig controls collation and static-shape padding.  Zero capacities
// are derived from the largest graphs of the subset being batched.
type BatchConfig struct {
	Size            int     `mapstructure:"size" yaml:"size"`
	Shuffle         bool    `mapstructure:"shuffle" yaml:"shuffle"`
	DropLast        bool    `mapstructure:"drop_last" yaml:"drop_last"`
	Pad             bool    `mapstructure:"pad" yaml:"pad"`
	MaxBatchNodes   int     `mapstructure:"max_batch_nodes" yaml:"max_batch_nodes"`
	MaxBatchEdges   int     `mapstructure:"max_batch_edges" yaml:"max_batch_edges"`
	ReserveFraction float64 `mapstructure:"reserve_fraction" yaml:"reserve_fraction"`
}

// LocalCacheConfig places snapshots on the local filesystem.
type LocalCacheConfig struct {
	Dir string `mapstructure:"dir" yaml:"dir"`
}

// RedisConfig holds Redis connection parameters for the snapshot cache and
// the build lock.
type RedisConfig struct {
	Mode          string        `mapstructure:"mode" yaml:"mode"` // "standalone" | "sentinel" | "cluster"
	Addr          string        `mapstructure:"addr" yaml:"addr"`
	MasterName    string        `mapstructure:"master_name" yaml:"master_name"`
	SentinelAddrs []string      `mapstructure:"sentinel_addrs" yaml:"sentinel_addrs"`
	ClusterAddrs  []string      `mapstructure:"cluster_addrs" yaml:"cluster_addrs"`
	Username      string        `mapstructure:"username" yaml:"username"`
	Password      string        `mapstructure:"password" yaml:"password"`
	DB            int           `mapstructure:"db" yaml:"db"`
	PoolSize      int           `mapstructure:"pool_size" yaml:"pool_size"`
	DialTimeout   time.Duration `mapstructure:"dial_timeout" yaml:"dial_timeout"`
	ReadTimeout   time.Duration `mapstructure:"read_timeout" yaml:"read_timeout"`
	WriteTimeout  time.Duration `mapstructure:"write_timeout" yaml:"write_timeout"`
	MaxRetries    int           `mapstructure:"max_retries" yaml:"max_retries"`
	TLSEnabled    bool          `mapstructure:"tls_enabled" yaml:"tls_enabled"`
	TLSCAFile     string        `mapstructure:"tls_ca_file" yaml:"tls_ca_file"`
	TLSInsecure   bool          `mapstructure:"tls_insecure" yaml:"tls_insecure"`
	KeyPrefix     string        `mapstructure:"key_prefix" yaml:"key_prefix"`
	TTL           time.Duration `mapstructure:"ttl" yaml:"ttl"` // zero keeps snapshots forever
}

// MinIOConfig holds MinIO / S3-compatible object-storage parameters.
type MinIOConfig struct {
	Endpoint        string `mapstructure:"endpoint" yaml:"endpoint"`
	AccessKey       string `mapstructure:"access_key" yaml:"access_key"`
	SecretKey       string `mapstructure:"secret_key" yaml:"secret_key"`
	Bucket          string `mapstructure:"bucket" yaml:"bucket"`
	UseSSL          bool   `mapstructure:"use_ssl" yaml:"use_ssl"`
	Region          string `mapstructure:"region" yaml:"region"`
	ExpireAfterDays int    `mapstructure:"expire_after_days" yaml:"expire_after_days"`
}

// LockConfig guards corpus builds with a Redis lease so that concurrent
// processes sharing a cache parse the raw inputs once.
type LockConfig struct {
	Enabled    bool          `mapstructure:"enabled" yaml:"enabled"`
	TTL        time.Duration `mapstructure:"ttl" yaml:"ttl"`
	RetryDelay time.Duration `mapstructure:"retry_delay" yaml:"retry_delay"`
	RetryCount int           `mapstructure:"retry_count" yaml:"retry_count"`
}

// CacheConfig selects the corpus snapshot backend.
type CacheConfig struct {
	Backend   string           `mapstructure:"backend" yaml:"backend"` // "none" | "local" | "redis" | "minio"
	KeyPrefix string           `mapstructure:"key_prefix" yaml:"key_prefix"`
	Local     LocalCacheConfig `mapstructure:"local" yaml:"local"`
	Redis     RedisConfig      `mapstructure:"redis" yaml:"redis"`
	MinIO     MinIOConfig      `mapstructure:"minio" yaml:"minio"`
	Lock      LockConfig       `mapstructure:"lock" yaml:"lock"`
}

// LogConfig holds structured-logging parameters.
type LogConfig struct {
	Level            string   `mapstructure:"level" yaml:"level"`   // "debug" | "info" | "warn" | "error"
	Format           string   `mapstructure:"format" yaml:"format"` // "json" | "console"
	OutputPaths      []string `mapstructure:"output_paths" yaml:"output_paths"`
	ErrorOutputPaths []string `mapstructure:"error_output_paths" yaml:"error_output_paths"`
}

// MetricsConfig controls the Prometheus registry.
type MetricsConfig struct {
	Enabled   bool   `mapstructure:"enabled" yaml:"enabled"`
	Namespace string `mapstructure:"namespace" yaml:"namespace"`
}

// ServerConfig holds HTTP server tunables.
type ServerConfig struct {
	Addr            string        `mapstructure:"addr" yaml:"addr"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout" yaml:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout" yaml:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Root Config
// ─────────────────────────────────────────────────────────────────────────────

// Config is the root configuration structure.
type Config struct {
	Dataset DatasetConfig `mapstructure:"dataset" yaml:"dataset"`
	Split   SplitConfig   `mapstructure:"split" yaml:"split"`
	Batch   BatchConfig   `mapstructure:"batch" yaml:"batch"`
	Cache   CacheConfig   `mapstructure:"cache" yaml:"cache"`
	Log     LogConfig     `mapstructure:"log" yaml:"log"`
	Metrics MetricsConfig `mapstructure:"metrics" yaml:"metrics"`
	Server  ServerConfig  `mapstructure:"server" yaml:"server"`
}

// Cache backends.
const (
	CacheBackendNone  = "none"
	CacheBackendLocal = "local"
	CacheBackendRedis = "redis"
	CacheBackendMinIO = "minio"
)

const redactedSecret = "******"

// Redacted returns a copy with credentials masked, suitable for printing.
func (c Config) Redacted() Config {
	if c.Cache.Redis.Password != "" {
		c.Cache.Redis.Password = redactedSecret
	}
	if c.Cache.MinIO.SecretKey != "" {
		c.Cache.MinIO.SecretKey = redactedSecret
	}
	return c
}

// ─────────────────────────────────────────────────────────────────────────────
// Validation
// ─────────────────────────────────────────────────────────────────────────────

func invalid(format string, args ...interface{}) error {
	return errors.New(errors.ErrCodeValidation, fmt.Sprintf("config: "+format, args...))
}

// Validate performs semantic validation of the fully-populated Config.
// It returns the first error encountered.
func (c *Config) Validate() error {
	// Dataset
	if c.Dataset.Root == "" {
		return invalid("dataset.root is required")
	}
	if c.Dataset.Workers < 1 {
		return invalid("dataset.workers must be ≥ 1, got %d", c.Dataset.Workers)
	}

	// Split
	if c.Split.Train < 0 || c.Split.Val < 0 || c.Split.Test < 0 {
		return invalid("split sizes must not be negative (train=%d val=%d test=%d)",
			c.Split.Train, c.Split.Val, c.Split.Test)
	}
	if c.Split.Train+c.Split.Val+c.Split.Test == 0 {
		return invalid("split sizes must not all be zero")
	}

	// Batch
	if c.Batch.Size < 1 {
		return invalid("batch.size must be ≥ 1, got %d", c.Batch.Size)
	}
	if c.Batch.MaxBatchNodes < 0 || c.Batch.MaxBatchEdges < 0 {
		return invalid("batch capacities must not be negative")
	}
	if c.Batch.ReserveFraction <= 0 || c.Batch.ReserveFraction > 1 {
		return invalid("batch.reserve_fraction %g is out of range (0, 1]", c.Batch.ReserveFraction)
	}

	// Cache
	switch c.Cache.Backend {
	case CacheBackendNone:
	case CacheBackendLocal:
		if c.Cache.Local.Dir == "" {
			return invalid("cache.local.dir is required for the local backend")
		}
	case CacheBackendRedis:
		if err := c.Cache.Redis.validate(); err != nil {
			return err
		}
	case CacheBackendMinIO:
		if c.Cache.MinIO.Endpoint == "" {
			return invalid("cache.minio.endpoint is required for the minio backend")
		}
		if c.Cache.MinIO.Bucket == "" {
			return invalid("cache.minio.bucket is required for the minio backend")
		}
	default:
		return invalid("cache.backend %q is invalid; expected none|local|redis|minio", c.Cache.Backend)
	}
	if c.Cache.Lock.Enabled {
		if c.Cache.Backend != CacheBackendRedis {
			if err := c.Cache.Redis.validate(); err != nil {
				return invalid("cache.lock requires a redis connection: %v", err)
			}
		}
		if c.Cache.Lock.TTL <= 0 {
			return invalid("cache.lock.ttl must be positive")
		}
	}

	// Log
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return invalid("log.level %q is invalid; expected debug|info|warn|error", c.Log.Level)
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return invalid("log.format %q is invalid; expected json|console", c.Log.Format)
	}

	// Metrics
	if c.Metrics.Enabled && c.Metrics.Namespace == "" {
		return invalid("metrics.namespace is required when metrics are enabled")
	}

	// Server
	if c.Server.Addr == "" {
		return invalid("server.addr is required")
	}
	return nil
}

func (r *RedisConfig) validate() error {
	switch r.Mode {
	case "standalone":
		if r.Addr == "" {
			return invalid("cache.redis.addr is required")
		}
	case "sentinel":
		if r.MasterName == "" || len(r.SentinelAddrs) == 0 {
			return invalid("cache.redis sentinel mode needs master_name and sentinel_addrs")
		}
	case "cluster":
		if len(r.ClusterAddrs) == 0 {
			return invalid("cache.redis.cluster_addrs must contain at least one address")
		}
	default:
		return invalid("cache.redis.mode %q is invalid; expected standalone|sentinel|cluster", r.Mode)
	}
	if r.DB < 0 {
		return invalid("cache.redis.db must be ≥ 0, got %d", r.DB)
	}
	return nil
}

//Personal.AI order the ending

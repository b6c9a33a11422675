package config

import "time"

// ─────────────────────────────────────────────────────────────────────────────
// Default value constants
// ─────────────────────────────────────────────────────────────────────────────

const (
	DefaultDatasetRoot         = "./data/qm9"
	DefaultSDFFile             = "gdb9.sdf"
	DefaultCSVFile             = "gdb9.sdf.csv"
	DefaultUncharacterizedFile = "uncharacterized.txt"
	DefaultWorkers             = 4

	DefaultSplitSeed  = 42
	DefaultSplitTrain = 110000
	DefaultSplitVal   = 10000
	DefaultSplitTest  = 10831

	DefaultBatchSize       = 96
	DefaultReserveFraction = 0.8

	DefaultCacheBackend   = CacheBackendLocal
	DefaultCacheKeyPrefix = "qm9/"
	DefaultCacheDir       = "./data/cache"

	DefaultRedisMode      = "standalone"
	DefaultRedisAddr      = "localhost:6379"
	DefaultRedisKeyPrefix = "molgraph:"

	DefaultMinIOEndpoint = "localhost:9000"
	DefaultMinIOBucket   = "molgraph-snapshots"
	DefaultMinIORegion   = "us-east-1"

	DefaultLockTTL        = 2 * time.Minute
	DefaultLockRetryDelay = 500 * time.Millisecond
	DefaultLockRetryCount = 600

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"

	DefaultMetricsNamespace = "molgraph"

	DefaultServerAddr      = ":8080"
	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 60 * time.Second
	DefaultShutdownTimeout = 10 * time.Second
)

// Default returns a Config with every field at its default.
func Default() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	cfg.Split.Seed = DefaultSplitSeed
	cfg.Metrics.Enabled = true
	return cfg
}

// ApplyDefaults fills every zero-value field in cfg with its default.
// Fields already set by the caller are left unchanged.  Booleans and the
// split seed are not touched since their zero value is a valid choice.
func ApplyDefaults(cfg *Config) {
	if cfg == nil {
		return
	}

	// ── Dataset ───────────────────────────────────────────────────────────────
	if cfg.Dataset.Root == "" {
		cfg.Dataset.Root = DefaultDatasetRoot
	}
	if cfg.Dataset.SDFFile == "" {
		cfg.Dataset.SDFFile = DefaultSDFFile
	}
	if cfg.Dataset.CSVFile == "" {
		cfg.Dataset.CSVFile = DefaultCSVFile
	}
	if cfg.Dataset.UncharacterizedFile == "" {
		cfg.Dataset.UncharacterizedFile = DefaultUncharacterizedFile
	}
	if cfg.Dataset.Workers == 0 {
		cfg.Dataset.Workers = DefaultWorkers
	}

	// ── Split ─────────────────────────────────────────────────────────────────
	if cfg.Split.Train == 0 && cfg.Split.Val == 0 && cfg.Split.Test == 0 {
		cfg.Split.Train = DefaultSplitTrain
		cfg.Split.Val = DefaultSplitVal
		cfg.Split.Test = DefaultSplitTest
	}

	// ── Batch ─────────────────────────────────────────────────────────────────
	if cfg.Batch.Size == 0 {
		cfg.Batch.Size = DefaultBatchSize
	}
	if cfg.Batch.ReserveFraction == 0 {
		cfg.Batch.ReserveFraction = DefaultReserveFraction
	}

	// ── Cache ─────────────────────────────────────────────────────────────────
	if cfg.Cache.Backend == "" {
		cfg.Cache.Backend = DefaultCacheBackend
	}
	if cfg.Cache.KeyPrefix == "" {
		cfg.Cache.KeyPrefix = DefaultCacheKeyPrefix
	}
	if cfg.Cache.Local.Dir == "" {
		cfg.Cache.Local.Dir = DefaultCacheDir
	}
	if cfg.Cache.Redis.Mode == "" {
		cfg.Cache.Redis.Mode = DefaultRedisMode
	}
	if cfg.Cache.Redis.Addr == "" {
		cfg.Cache.Redis.Addr = DefaultRedisAddr
	}
	if cfg.Cache.Redis.KeyPrefix == "" {
		cfg.Cache.Redis.KeyPrefix = DefaultRedisKeyPrefix
	}
	if cfg.Cache.MinIO.Endpoint == "" {
		cfg.Cache.MinIO.Endpoint = DefaultMinIOEndpoint
	}
	if cfg.Cache.MinIO.Bucket == "" {
		cfg.Cache.MinIO.Bucket = DefaultMinIOBucket
	}
	if cfg.Cache.MinIO.Region == "" {
		cfg.Cache.MinIO.Region = DefaultMinIORegion
	}
	if cfg.Cache.Lock.TTL == 0 {
		cfg.Cache.Lock.TTL = DefaultLockTTL
	}
	if cfg.Cache.Lock.RetryDelay == 0 {
		cfg.Cache.Lock.RetryDelay = DefaultLockRetryDelay
	}
	if cfg.Cache.Lock.RetryCount == 0 {
		cfg.Cache.Lock.RetryCount = DefaultLockRetryCount
	}

	// ── Log ───────────────────────────────────────────────────────────────────
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}
	if len(cfg.Log.OutputPaths) == 0 {
		cfg.Log.OutputPaths = []string{"stderr"}
	}
	if len(cfg.Log.ErrorOutputPaths) == 0 {
		cfg.Log.ErrorOutputPaths = []string{"stderr"}
	}

	// ── Metrics ───────────────────────────────────────────────────────────────
	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = DefaultMetricsNamespace
	}

	// ── Server ────────────────────────────────────────────────────────────────
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = DefaultServerAddr
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = DefaultReadTimeout
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = DefaultWriteTimeout
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = DefaultShutdownTimeout
	}
}

//Personal.AI order the ending

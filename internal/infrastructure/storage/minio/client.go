// Package minio provides the S3-compatible snapshot backend.
package minio

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/minio/minio-go/v7/pkg/lifecycle"

	"github.com/turtacn/molgraph/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/molgraph/pkg/errors"
)

// ObjectAPI is the subset of the object store used here.  GetObject returns
// a plain reader so that tests can stand in for the SDK.
type ObjectAPI interface {
	ListBuckets(ctx context.Context) ([]minio.BucketInfo, error)
	BucketExists(ctx context.Context, bucket string) (bool, error)
	MakeBucket(ctx context.Context, bucket string, opts minio.MakeBucketOptions) error
	SetBucketLifecycle(ctx context.Context, bucket string, cfg *lifecycle.Configuration) error
	PutObject(ctx context.Context, bucket, object string, reader io.Reader, size int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	GetObject(ctx context.Context, bucket, object string, opts minio.GetObjectOptions) (io.ReadCloser, error)
	StatObject(ctx context.Context, bucket, object string, opts minio.StatObjectOptions) (minio.ObjectInfo, error)
}

// sdkAPI adapts *minio.Client to ObjectAPI.
type sdkAPI struct {
	*minio.Client
}

func (s sdkAPI) GetObject(ctx context.Context, bucket, object string, opts minio.GetObjectOptions) (io.ReadCloser, error) {
	obj, err := s.Client.GetObject(ctx, bucket, object, opts)
	if err != nil {
		return nil, err
	}
	return obj, nil
}

// Config describes the object store and the snapshot bucket.
type Config struct {
	Endpoint        string `mapstructure:"endpoint"`
	AccessKeyID     string `mapstructure:"access_key"`
	SecretAccessKey string `mapstructure:"secret_key"`
	UseSSL          bool   `mapstructure:"use_ssl"`
	Region          string `mapstructure:"region"`
	Bucket          string `mapstructure:"bucket"`
	// ExpireAfterDays installs a lifecycle rule on the bucket.  Zero keeps
	// snapshots forever.
	ExpireAfterDays int `mapstructure:"expire_after_days"`
}

var ErrClientClosed = errors.New(errors.ErrCodeCacheIO, "minio client is closed")

// Client owns the connection to the object store.
type Client struct {
	api    ObjectAPI
	config *Config
	logger logging.Logger
	mu     sync.RWMutex
	closed bool
}

// NewClient connects, verifies reachability and prepares the bucket.
func NewClient(ctx context.Context, cfg *Config, log logging.Logger) (*Client, error) {
	applyDefaults(cfg)
	sdk, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeValidation, "create minio client")
	}
	return newClient(ctx, sdkAPI{sdk}, cfg, log)
}

func newClient(ctx context.Context, api ObjectAPI, cfg *Config, log logging.Logger) (*Client, error) {
	applyDefaults(cfg)
	if log == nil {
		log = logging.NewNopLogger()
	}
	c := &Client{api: api, config: cfg, logger: log}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if _, err := api.ListBuckets(ctx); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeCacheIO, "connect to minio").WithDetail(cfg.Endpoint)
	}
	if err := c.EnsureBucket(ctx); err != nil {
		return nil, err
	}
	if err := c.SetupLifecycle(ctx); err != nil {
		return nil, err
	}
	log.Info("minio client connected",
		logging.String("endpoint", cfg.Endpoint),
		logging.String("bucket", cfg.Bucket),
		logging.Bool("ssl", cfg.UseSSL))
	return c, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Region == "" {
		cfg.Region = "us-east-1"
	}
	if cfg.Bucket == "" {
		cfg.Bucket = "molgraph-snapshots"
	}
}

// EnsureBucket creates the snapshot bucket when missing.
func (c *Client) EnsureBucket(ctx context.Context) error {
	exists, err := c.api.BucketExists(ctx, c.config.Bucket)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeCacheIO, "check bucket").WithDetail(c.config.Bucket)
	}
	if exists {
		return nil
	}
	if err := c.api.MakeBucket(ctx, c.config.Bucket, minio.MakeBucketOptions{Region: c.config.Region}); err != nil {
		return errors.Wrap(err, errors.ErrCodeCacheIO, "create bucket").WithDetail(c.config.Bucket)
	}
	c.logger.Info("created bucket", logging.String("bucket", c.config.Bucket))
	return nil
}

// SetupLifecycle installs the expiry rule.  Failure is logged, not returned:
// some S3 implementations do not support lifecycle configuration.
func (c *Client) SetupLifecycle(ctx context.Context) error {
	if c.config.ExpireAfterDays <= 0 {
		return nil
	}
	cfg := lifecycle.NewConfiguration()
	cfg.Rules = []lifecycle.Rule{{
		ID:         "snapshot-expiry",
		Status:     "Enabled",
		Expiration: lifecycle.Expiration{Days: lifecycle.ExpirationDays(c.config.ExpireAfterDays)},
	}}
	if err := c.api.SetBucketLifecycle(ctx, c.config.Bucket, cfg); err != nil {
		c.logger.Warn("failed to set bucket lifecycle", logging.String("bucket", c.config.Bucket), logging.Err(err))
	}
	return nil
}

// Bucket returns the snapshot bucket name.
func (c *Client) Bucket() string { return c.config.Bucket }

// API exposes the object API.  It fails once the client is closed.
func (c *Client) API() (ObjectAPI, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return nil, ErrClientClosed
	}
	return c.api, nil
}

// Close marks the client closed.  The SDK holds no long-lived resources.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

// HealthStatus reports reachability of the store and the bucket.
type HealthStatus struct {
	Healthy      bool          `json:"healthy"`
	Latency      time.Duration `json:"latency"`
	BucketExists bool          `json:"bucket_exists"`
	Error        string        `json:"error,omitempty"`
}

// HealthCheck probes the store.
func (c *Client) HealthCheck(ctx context.Context) (*HealthStatus, error) {
	api, err := c.API()
	if err != nil {
		return &HealthStatus{Error: err.Error()}, err
	}
	start := time.Now()
	exists, err := api.BucketExists(ctx, c.config.Bucket)
	status := &HealthStatus{Latency: time.Since(start), BucketExists: exists, Healthy: err == nil && exists}
	if err != nil {
		status.Error = err.Error()
		return status, errors.Wrap(err, errors.ErrCodeCacheIO, "minio health check")
	}
	if !exists {
		status.Error = "bucket " + c.config.Bucket + " missing"
	}
	return status, nil
}

//Personal.AI order the ending

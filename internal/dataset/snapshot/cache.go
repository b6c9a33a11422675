package snapshot

import (
	"bytes"
	"context"
	"time"

	"github.com/turtacn/molgraph/internal/domain/molecule"
	"github.com/turtacn/molgraph/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/molgraph/pkg/errors"
)

// BlobStore is a flat key-value store for snapshot bytes.  Get on an absent
// key returns an ErrCodeCacheMiss error; transport failures are coded
// ErrCodeCacheIO.
type BlobStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, data []byte) error
	Exists(ctx context.Context, key string) (bool, error)
}

// CacheMetrics counts cache requests by backend and result.
type CacheMetrics interface {
	CacheRequest(backend, result string)
}

// Cache results reported to CacheMetrics.
const (
	ResultHit     = "hit"
	ResultMiss    = "miss"
	ResultCorrupt = "corrupt"
	ResultError   = "error"
	ResultStored  = "stored"
)

// Cache stores corpus snapshots in a BlobStore.
type Cache struct {
	store   BlobStore
	backend string
	prefix  string
	metrics CacheMetrics
	logger  logging.Logger
}

// CacheOption configures a Cache.
type CacheOption func(*Cache)

// WithKeyPrefix prepends prefix to every key.
func WithKeyPrefix(prefix string) CacheOption {
	return func(c *Cache) { c.prefix = prefix }
}

// WithCacheMetrics injects a metrics sink.
func WithCacheMetrics(m CacheMetrics) CacheOption {
	return func(c *Cache) { c.metrics = m }
}

// WithCacheLogger injects a logger.
func WithCacheLogger(l logging.Logger) CacheOption {
	return func(c *Cache) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewCache wraps store.  backend names the store in logs and metrics
// ("local", "redis", "minio").
func NewCache(store BlobStore, backend string, opts ...CacheOption) *Cache {
	c := &Cache{store: store, backend: backend, logger: logging.NewNopLogger()}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Key returns the blob key for fingerprint.
func (c *Cache) Key(fingerprint string) string {
	return c.prefix + "corpus-" + fingerprint + ".snap.zst"
}

// Load fetches and decodes the snapshot for fingerprint.  A corrupt or
// mismatched snapshot is reported as a miss so the caller rebuilds and
// overwrites it.
func (c *Cache) Load(ctx context.Context, fingerprint string) (molecule.Corpus, error) {
	key := c.Key(fingerprint)
	start := time.Now()
	data, err := c.store.Get(ctx, key)
	if err != nil {
		result := ResultError
		if errors.IsCacheMiss(err) {
			result = ResultMiss
		}
		c.observe(result)
		return nil, err
	}

	corpus, h, err := Decode(bytes.NewReader(data))
	if err == nil && h.Fingerprint != fingerprint {
		err = errors.New(errors.ErrCodeCacheCorrupt, "snapshot fingerprint mismatch").
			WithDetail("header=" + h.Fingerprint + " want=" + fingerprint)
	}
	if err != nil {
		c.observe(ResultCorrupt)
		c.logger.Warn("discarding corrupt corpus snapshot",
			logging.String("backend", c.backend), logging.String("key", key), logging.Err(err))
		return nil, errors.Wrap(err, errors.ErrCodeCacheMiss, "corpus snapshot unusable")
	}
	c.observe(ResultHit)
	c.logger.Debug("corpus snapshot loaded",
		logging.String("backend", c.backend),
		logging.String("key", key),
		logging.String("build_id", h.BuildID),
		logging.Int("bytes", len(data)),
		logging.Duration("took", time.Since(start)))
	return corpus, nil
}

// Store encodes corpus and writes it under fingerprint's key.
func (c *Cache) Store(ctx context.Context, fingerprint string, corpus molecule.Corpus) error {
	var buf bytes.Buffer
	h, err := Encode(&buf, corpus, fingerprint)
	if err != nil {
		return err
	}
	key := c.Key(fingerprint)
	if err := c.store.Put(ctx, key, buf.Bytes()); err != nil {
		c.observe(ResultError)
		return err
	}
	c.observe(ResultStored)
	c.logger.Info("corpus snapshot stored",
		logging.String("backend", c.backend),
		logging.String("key", key),
		logging.String("build_id", h.BuildID),
		logging.Int("graphs", h.Count),
		logging.Int("bytes", buf.Len()))
	return nil
}

// Exists reports whether a snapshot for fingerprint is stored.
func (c *Cache) Exists(ctx context.Context, fingerprint string) (bool, error) {
	return c.store.Exists(ctx, c.Key(fingerprint))
}

func (c *Cache) observe(result string) {
	if c.metrics != nil {
		c.metrics.CacheRequest(c.backend, result)
	}
}

//Personal.AI order the ending

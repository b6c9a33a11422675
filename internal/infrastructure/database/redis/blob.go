package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/turtacn/molgraph/internal/dataset/snapshot"
	"github.com/turtacn/molgraph/pkg/errors"
)

// BlobStore keeps snapshot bytes under prefixed string keys.
type BlobStore struct {
	client *Client
	prefix string
	ttl    time.Duration
}

var _ snapshot.BlobStore = (*BlobStore)(nil)

// BlobOption configures a BlobStore.
type BlobOption func(*BlobStore)

// WithPrefix prepends prefix to every key.
func WithPrefix(prefix string) BlobOption {
	return func(b *BlobStore) { b.prefix = prefix }
}

// WithTTL expires stored blobs after ttl.  Zero keeps them forever.
func WithTTL(ttl time.Duration) BlobOption {
	return func(b *BlobStore) { b.ttl = ttl }
}

// NewBlobStore stores blobs through client.
func NewBlobStore(client *Client, opts ...BlobOption) *BlobStore {
	b := &BlobStore{client: client, prefix: "molgraph:"}
	for _, o := range opts {
		o(b)
	}
	return b
}

func (b *BlobStore) fullKey(key string) string {
	return b.prefix + key
}

// Get returns the blob under key.
func (b *BlobStore) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := b.client.Get(ctx, b.fullKey(key)).Bytes()
	if err == redis.Nil {
		return nil, errors.New(errors.ErrCodeCacheMiss, "snapshot not in redis").WithDetail(b.fullKey(key))
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeCacheIO, "redis get").WithDetail(b.fullKey(key))
	}
	return data, nil
}

// Put stores data under key, replacing any previous blob.
func (b *BlobStore) Put(ctx context.Context, key string, data []byte) error {
	if err := b.client.Set(ctx, b.fullKey(key), data, b.ttl).Err(); err != nil {
		return errors.Wrap(err, errors.ErrCodeCacheIO, "redis set").WithDetail(b.fullKey(key))
	}
	return nil
}

// Exists reports whether key holds a blob.
func (b *BlobStore) Exists(ctx context.Context, key string) (bool, error) {
	n, err := b.client.Exists(ctx, b.fullKey(key)).Result()
	if err != nil {
		return false, errors.Wrap(err, errors.ErrCodeCacheIO, "redis exists").WithDetail(b.fullKey(key))
	}
	return n > 0, nil
}

//Personal.AI order the ending

package minio

import (
	"bytes"
	"context"
	"io"

	"github.com/minio/minio-go/v7"

	"github.com/turtacn/molgraph/internal/dataset/snapshot"
	"github.com/turtacn/molgraph/pkg/errors"
)

const snapshotContentType = "application/zstd"

// BlobStore keeps snapshots as objects in the client's bucket.
type BlobStore struct {
	client *Client
}

var _ snapshot.BlobStore = (*BlobStore)(nil)

// NewBlobStore stores blobs through client.
func NewBlobStore(client *Client) *BlobStore {
	return &BlobStore{client: client}
}

func isNotFound(err error) bool {
	code := minio.ToErrorResponse(err).Code
	return code == "NoSuchKey" || code == "NoSuchObject"
}

// Get downloads the object named key.
func (b *BlobStore) Get(ctx context.Context, key string) ([]byte, error) {
	api, err := b.client.API()
	if err != nil {
		return nil, err
	}
	obj, err := api.GetObject(ctx, b.client.Bucket(), key, minio.GetObjectOptions{})
	if err == nil {
		defer obj.Close()
		var data []byte
		data, err = io.ReadAll(obj)
		if err == nil {
			return data, nil
		}
	}
	if isNotFound(err) {
		return nil, errors.New(errors.ErrCodeCacheMiss, "snapshot not in bucket").WithDetail(key)
	}
	return nil, errors.Wrap(err, errors.ErrCodeCacheIO, "minio get").WithDetail(key)
}

// Put uploads data as the object named key.
func (b *BlobStore) Put(ctx context.Context, key string, data []byte) error {
	api, err := b.client.API()
	if err != nil {
		return err
	}
	_, err = api.PutObject(ctx, b.client.Bucket(), key, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: snapshotContentType})
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeCacheIO, "minio put").WithDetail(key)
	}
	return nil
}

// Exists reports whether the object named key exists.
func (b *BlobStore) Exists(ctx context.Context, key string) (bool, error) {
	api, err := b.client.API()
	if err != nil {
		return false, err
	}
	if _, err := api.StatObject(ctx, b.client.Bucket(), key, minio.StatObjectOptions{}); err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, errors.Wrap(err, errors.ErrCodeCacheIO, "minio stat").WithDetail(key)
	}
	return true, nil
}

//Personal.AI order the ending

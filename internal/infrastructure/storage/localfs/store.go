// Package localfs stores snapshots as files below a directory.
package localfs

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/turtacn/molgraph/internal/dataset/snapshot"
	"github.com/turtacn/molgraph/pkg/errors"
)

// Store maps keys to files below dir.  Slashes in keys become directories.
type Store struct {
	dir string
}

var _ snapshot.BlobStore = (*Store)(nil)

// NewStore creates dir if needed.
func NewStore(dir string) (*Store, error) {
	if dir == "" {
		return nil, errors.New(errors.ErrCodeValidation, "cache directory is empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeCacheIO, "create cache directory").WithDetail(dir)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the root directory.
func (s *Store) Dir() string { return s.dir }

func (s *Store) path(key string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(key))
	if key == "" || filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", errors.New(errors.ErrCodeValidation, "invalid cache key").WithDetail(key)
	}
	return filepath.Join(s.dir, clean), nil
}

// Get reads the file for key.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p, err := s.path(key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, errors.New(errors.ErrCodeCacheMiss, "snapshot file not found").WithDetail(p)
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeCacheIO, "read snapshot file").WithDetail(p)
	}
	return data, nil
}

// Put writes data to a temporary file and renames it over the target, so
// readers never observe a partial snapshot.
func (s *Store) Put(ctx context.Context, key string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return errors.Wrap(err, errors.ErrCodeCacheIO, "create snapshot directory").WithDetail(p)
	}
	tmp, err := os.CreateTemp(filepath.Dir(p), ".snap-*")
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeCacheIO, "create temporary file").WithDetail(p)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errors.Wrap(err, errors.ErrCodeCacheIO, "write snapshot file").WithDetail(p)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return errors.Wrap(err, errors.ErrCodeCacheIO, "sync snapshot file").WithDetail(p)
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, errors.ErrCodeCacheIO, "close snapshot file").WithDetail(p)
	}
	if err := os.Rename(tmp.Name(), p); err != nil {
		return errors.Wrap(err, errors.ErrCodeCacheIO, "rename snapshot file").WithDetail(p)
	}
	return nil
}

// Exists reports whether a file exists for key.
func (s *Store) Exists(ctx context.Context, key string) (bool, error) {
	p, err := s.path(key)
	if err != nil {
		return false, err
	}
	_, err = os.Stat(p)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	default:
		return false, errors.Wrap(err, errors.ErrCodeCacheIO, "stat snapshot file").WithDetail(p)
	}
}

//Personal.AI order the ending

package localfs

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/molgraph/internal/dataset/snapshot"
	"github.com/turtacn/molgraph/internal/testutil"
	"github.com/turtacn/molgraph/pkg/errors"
)

func TestStore_PutGetExists(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "cache")
	s, err := NewStore(dir)
	require.NoError(t, err)
	ctx := context.Background()

	ok, err := s.Exists(ctx, "qm9/a.snap")
	require.NoError(t, err)
	assert.False(t, ok)
	_, err = s.Get(ctx, "qm9/a.snap")
	assert.True(t, errors.IsCacheMiss(err))

	require.NoError(t, s.Put(ctx, "qm9/a.snap", []byte("one")))
	require.NoError(t, s.Put(ctx, "qm9/a.snap", []byte("two")))
	data, err := s.Get(ctx, "qm9/a.snap")
	require.NoError(t, err)
	assert.Equal(t, []byte("two"), data)

	ok, err = s.Exists(ctx, "qm9/a.snap")
	require.NoError(t, err)
	assert.True(t, ok)

	// No temporary files survive a successful Put.
	entries, err := os.ReadDir(filepath.Join(dir, "qm9"))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestStore_RejectsEscapingKeys(t *testing.T) {
	s, err := NewStore(t.TempDir())
	require.NoError(t, err)
	for _, key := range []string{"", "../x", "a/../../x", "/etc/passwd"} {
		err := s.Put(context.Background(), key, []byte("x"))
		assert.True(t, errors.IsCode(err, errors.ErrCodeValidation), "key=%q", key)
	}
}

func TestStore_CancelledContext(t *testing.T) {
	s, err := NewStore(t.TempDir())
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, s.Put(ctx, "k", nil), context.Canceled)
}

func TestNewStore_Empty(t *testing.T) {
	_, err := NewStore("")
	assert.True(t, errors.IsCode(err, errors.ErrCodeValidation))
}

func TestStore_BacksSnapshotCache(t *testing.T) {
	s, err := NewStore(t.TempDir())
	require.NoError(t, err)
	cache := snapshot.NewCache(s, "local", snapshot.WithKeyPrefix("qm9/"))
	ctx := context.Background()

	corpus := testutil.Corpus(12)
	require.NoError(t, cache.Store(ctx, "fp", corpus))
	got, err := cache.Load(ctx, "fp")
	require.NoError(t, err)
	assert.Equal(t, corpus, got)

	// A truncated file on disk is treated as a miss.
	p := filepath.Join(s.Dir(), "qm9", "corpus-fp.snap.zst")
	require.NoError(t, os.Truncate(p, 10))
	_, err = cache.Load(ctx, "fp")
	assert.True(t, errors.IsCacheMiss(err))
}

//Personal.AI order the ending

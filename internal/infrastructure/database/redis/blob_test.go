package redis

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/turtacn/molgraph/internal/dataset/snapshot"
	"github.com/turtacn/molgraph/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/molgraph/internal/testutil"
	"github.com/turtacn/molgraph/pkg/errors"
)

type BlobStoreMockSuite struct {
	suite.Suite
	mock  redismock.ClientMock
	store *BlobStore
}

func (s *BlobStoreMockSuite) SetupTest() {
	db, mock := redismock.NewClientMock()
	s.mock = mock
	s.store = NewBlobStore(wrap(db, &Config{}, logging.NewNopLogger()), WithPrefix("test:"))
}

func (s *BlobStoreMockSuite) TearDownTest() {
	s.NoError(s.mock.ExpectationsWereMet())
}

func (s *BlobStoreMockSuite) TestGet_Hit() {
	s.mock.ExpectGet("test:k").SetVal("payload")
	data, err := s.store.Get(context.Background(), "k")
	s.NoError(err)
	s.Equal([]byte("payload"), data)
}

func (s *BlobStoreMockSuite) TestGet_Miss() {
	s.mock.ExpectGet("test:k").RedisNil()
	_, err := s.store.Get(context.Background(), "k")
	s.True(errors.IsCacheMiss(err))
}

func (s *BlobStoreMockSuite) TestGet_TransportError() {
	s.mock.ExpectGet("test:k").SetErr(stderrors.New("connection reset"))
	_, err := s.store.Get(context.Background(), "k")
	s.True(errors.IsCode(err, errors.ErrCodeCacheIO))
	s.False(errors.IsCacheMiss(err))
}

func (s *BlobStoreMockSuite) TestExists() {
	s.mock.ExpectExists("test:k").SetVal(1)
	ok, err := s.store.Exists(context.Background(), "k")
	s.NoError(err)
	s.True(ok)

	s.mock.ExpectExists("test:k").SetErr(stderrors.New("boom"))
	_, err = s.store.Exists(context.Background(), "k")
	s.True(errors.IsCode(err, errors.ErrCodeCacheIO))
}

func TestBlobStoreMockSuite(t *testing.T) {
	suite.Run(t, new(BlobStoreMockSuite))
}

func TestBlobStore_PutWithTTL(t *testing.T) {
	client, mr := newTestClient(t)
	store := NewBlobStore(client, WithTTL(time.Hour))
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "snap", []byte{0, 1, 2}))
	assert.True(t, mr.Exists("molgraph:snap"))
	assert.Equal(t, time.Hour, mr.TTL("molgraph:snap"))

	data, err := store.Get(ctx, "snap")
	require.NoError(t, err)
	assert.Equal(t, []byte{0, 1, 2}, data)

	mr.FastForward(2 * time.Hour)
	_, err = store.Get(ctx, "snap")
	assert.True(t, errors.IsCacheMiss(err))
}

func TestBlobStore_BacksSnapshotCache(t *testing.T) {
	client, _ := newTestClient(t)
	cache := snapshot.NewCache(NewBlobStore(client), "redis")
	ctx := context.Background()

	corpus := testutil.Corpus(8)
	require.NoError(t, cache.Store(ctx, "fp", corpus))
	got, err := cache.Load(ctx, "fp")
	require.NoError(t, err)
	assert.Equal(t, corpus, got)
}

//Personal.AI order the ending

package redis

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/molgraph/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/molgraph/pkg/errors"
)

func newTestClient(t *testing.T) (*Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client, err := NewClient(&Config{Mode: ModeStandalone, Addr: mr.Addr()}, logging.NewNopLogger())
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })
	return client, mr
}

func TestNewClient_Standalone(t *testing.T) {
	client, _ := newTestClient(t)
	assert.NoError(t, client.Ping(context.Background()))
	assert.False(t, client.IsCluster())
	assert.Equal(t, ModeStandalone, client.config.Mode)
}

func TestNewClient_UnknownModeFallsBack(t *testing.T) {
	mr := miniredis.RunT(t)
	client, err := NewClient(&Config{Mode: "bogus", Addr: mr.Addr()}, nil)
	require.NoError(t, err)
	defer client.Close()
	assert.NoError(t, client.Ping(context.Background()))
}

func TestNewClient_ConnectionFailed(t *testing.T) {
	client, err := NewClient(&Config{Addr: "127.0.0.1:1", DialTimeout: 200e6}, logging.NewNopLogger())
	assert.Nil(t, client)
	assert.True(t, errors.Is(err, ErrConnectionFailed))
	assert.True(t, errors.IsCode(err, errors.ErrCodeCacheIO))
}

func TestNewClient_BadCAFile(t *testing.T) {
	_, err := NewClient(&Config{Addr: "127.0.0.1:1", TLSEnabled: true, TLSCAFile: "/nonexistent/ca.pem"}, nil)
	assert.True(t, errors.IsCode(err, errors.ErrCodeValidation))
}

func TestClient_Close(t *testing.T) {
	client, _ := newTestClient(t)
	require.NoError(t, client.Close())
	assert.NoError(t, client.Close())

	ctx := context.Background()
	assert.Equal(t, ErrClientClosed, client.Get(ctx, "k").Err())
	assert.Equal(t, ErrClientClosed, client.Set(ctx, "k", "v", 0).Err())
	assert.Equal(t, ErrClientClosed, client.Exists(ctx, "k").Err())
	assert.Equal(t, ErrClientClosed, client.Ping(ctx))
}

//Personal.AI order the ending

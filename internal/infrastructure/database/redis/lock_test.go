package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/molgraph/pkg/errors"
)

func TestMutex_LockUnlock(t *testing.T) {
	client, mr := newTestClient(t)
	ctx := context.Background()
	m := NewMutex(client, "corpus", nil, WithLockTTL(time.Second))

	require.NoError(t, m.Lock(ctx))
	assert.True(t, mr.Exists(LockKey("corpus")))
	ttl, err := m.TTL(ctx)
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))

	require.NoError(t, m.Unlock(ctx))
	assert.False(t, mr.Exists(LockKey("corpus")))

	assert.True(t, errors.Is(m.Unlock(ctx), ErrLockNotHeld))
}

func TestMutex_Contention(t *testing.T) {
	client, _ := newTestClient(t)
	ctx := context.Background()
	first := NewMutex(client, "corpus", nil)
	second := NewMutex(client, "corpus", nil, WithRetryCount(2), WithRetryDelay(5*time.Millisecond))

	require.NoError(t, first.Lock(ctx))
	err := second.Lock(ctx)
	assert.True(t, errors.Is(err, ErrLockNotAcquired))

	ok, err := second.Extend(ctx, time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, first.Unlock(ctx))
	require.NoError(t, second.Lock(ctx))
	require.NoError(t, second.Unlock(ctx))
}

func TestMutex_LockHonoursContext(t *testing.T) {
	client, _ := newTestClient(t)
	holder := NewMutex(client, "corpus", nil)
	require.NoError(t, holder.Lock(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	waiter := NewMutex(client, "corpus", nil, WithRetryDelay(time.Hour))
	assert.ErrorIs(t, waiter.Lock(ctx), context.Canceled)
}

func TestMutex_WatchdogStops(t *testing.T) {
	client, _ := newTestClient(t)
	ctx := context.Background()
	m := NewMutex(client, "corpus", nil, WithLockTTL(30*time.Millisecond), WithWatchdog(true))

	require.NoError(t, m.Lock(ctx))
	time.Sleep(50 * time.Millisecond)
	require.NoError(t, m.Unlock(ctx))
	assert.Nil(t, m.watchdogCancel)
}

//Personal.AI order the ending

package redis

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/turtacn/molgraph/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/molgraph/pkg/errors"
)

var (
	ErrLockNotAcquired = errors.New(errors.ErrCodeCacheIO, "failed to acquire build lock")
	ErrLockNotHeld     = errors.New(errors.ErrCodeCacheIO, "build lock not held by this owner")
)

// LockOption configures a Mutex.
type LockOption func(*lockConfig)

// WithLockTTL sets the lease length.
func WithLockTTL(ttl time.Duration) LockOption {
	return func(c *lockConfig) { c.ttl = ttl }
}

// WithRetryDelay sets the pause between acquisition attempts.
func WithRetryDelay(d time.Duration) LockOption {
	return func(c *lockConfig) { c.retryDelay = d }
}

// WithRetryCount bounds the acquisition attempts.
func WithRetryCount(n int) LockOption {
	return func(c *lockConfig) { c.retryCount = n }
}

// WithWatchdog keeps extending the lease while the lock is held.
func WithWatchdog(enabled bool) LockOption {
	return func(c *lockConfig) { c.watchdog = enabled }
}

type lockConfig struct {
	ttl        time.Duration
	retryDelay time.Duration
	retryCount int
	watchdog   bool
}

var unlockScript = redis.NewScript(`
	if redis.call("GET", KEYS[1]) == ARGV[1] then
		return redis.call("DEL", KEYS[1])
	else
		return 0
	end
`)

var extendScript = redis.NewScript(`
	if redis.call("GET", KEYS[1]) == ARGV[1] then
		return redis.call("PEXPIRE", KEYS[1], ARGV[2])
	else
		return 0
	end
`)

// Mutex is a lease-based lock held by one owner token.  Corpus builds take
// it so that concurrent processes sharing a cache parse the raw inputs once.
type Mutex struct {
	client *Client
	key    string
	value  string
	config lockConfig
	logger logging.Logger

	watchdogCancel context.CancelFunc
	watchdogDone   chan struct{}
}

// NewMutex returns an unlocked Mutex on name.
func NewMutex(client *Client, name string, log logging.Logger, opts ...LockOption) *Mutex {
	cfg := lockConfig{
		ttl:        2 * time.Minute,
		retryDelay: 500 * time.Millisecond,
		retryCount: 600,
	}
	for _, o := range opts {
		o(&cfg)
	}
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &Mutex{
		client: client,
		key:    LockKey(name),
		value:  uuid.NewString(),
		config: cfg,
		logger: log,
	}
}

// LockKey returns the redis key guarding name.
func LockKey(name string) string {
	return "molgraph:lock:" + name
}

// Lock blocks until the lock is acquired, ctx ends or the retries run out.
func (m *Mutex) Lock(ctx context.Context) error {
	for i := 0; i < m.config.retryCount; i++ {
		ok, err := m.TryLock(ctx)
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(m.config.retryDelay):
		}
	}
	return ErrLockNotAcquired.WithDetail(m.key)
}

// TryLock makes one acquisition attempt.
func (m *Mutex) TryLock(ctx context.Context) (bool, error) {
	ok, err := m.client.SetNX(ctx, m.key, m.value, m.config.ttl).Result()
	if err != nil {
		return false, errors.Wrap(err, errors.ErrCodeCacheIO, "acquire build lock")
	}
	if ok && m.config.watchdog {
		m.startWatchdog()
	}
	return ok, nil
}

// Unlock releases the lock if this Mutex still owns it.
func (m *Mutex) Unlock(ctx context.Context) error {
	m.stopWatchdog()
	res, err := unlockScript.Run(ctx, m.client.Underlying(), []string{m.key}, m.value).Int64()
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeCacheIO, "release build lock")
	}
	if res == 0 {
		return ErrLockNotHeld.WithDetail(m.key)
	}
	return nil
}

// Extend resets the lease to ttl.  It reports false when the lock was lost.
func (m *Mutex) Extend(ctx context.Context, ttl time.Duration) (bool, error) {
	res, err := extendScript.Run(ctx, m.client.Underlying(), []string{m.key}, m.value, ttl.Milliseconds()).Int64()
	if err != nil {
		return false, errors.Wrap(err, errors.ErrCodeCacheIO, "extend build lock")
	}
	return res == 1, nil
}

// TTL returns the remaining lease.
func (m *Mutex) TTL(ctx context.Context) (time.Duration, error) {
	return m.client.PTTL(ctx, m.key).Result()
}

func (m *Mutex) startWatchdog() {
	ctx, cancel := context.WithCancel(context.Background())
	m.watchdogCancel = cancel
	m.watchdogDone = make(chan struct{})
	go m.runWatchdog(ctx, m.config.ttl/3)
}

func (m *Mutex) stopWatchdog() {
	if m.watchdogCancel != nil {
		m.watchdogCancel()
		<-m.watchdogDone
		m.watchdogCancel = nil
	}
}

func (m *Mutex) runWatchdog(ctx context.Context, interval time.Duration) {
	defer close(m.watchdogDone)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			ok, err := m.Extend(ctx, m.config.ttl)
			if err != nil {
				if ctx.Err() == nil {
					m.logger.Error("build lock watchdog failed", logging.String("key", m.key), logging.Err(err))
				}
				return
			}
			if !ok {
				m.logger.Warn("build lock lost", logging.String("key", m.key))
				return
			}
		}
	}
}

//Personal.AI order the ending

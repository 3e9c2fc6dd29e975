// Package lockpkg serializes work per account.
//
// The ledger does not lock accounts by default. A Locker is an opt-in serialization
// point around the check-limit-then-withdraw window.
package lockpkg

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrLockTimeout indicates that the lock could not be acquired in time.
var ErrLockTimeout = errors.New("account lock timeout")

// Release releases an acquired lock.
type Release func(ctx context.Context) error

// Locker acquires an exclusive lock for the given account.
type Locker interface {
	Acquire(ctx context.Context, accountID int32) (Release, error)
}

// Noop never blocks.
type Noop struct{}

// Acquire returns immediately.
func (Noop) Acquire(context.Context, int32) (Release, error) {
	return func(context.Context) error { return nil }, nil
}

type entry struct {
	held chan struct{}
	refs int
}

// Mutex is an in-process Locker keyed by account id.
type Mutex struct {
	mu    sync.Mutex
	locks map[int32]*entry
}

// NewMutex returns an in-process Locker.
func NewMutex() *Mutex {
	return &Mutex{locks: make(map[int32]*entry)}
}

// Acquire blocks until the account lock is held or ctx is done.
func (m *Mutex) Acquire(ctx context.Context, accountID int32) (Release, error) {
	m.mu.Lock()
	e, ok := m.locks[accountID]
	if !ok {
		e = &entry{held: make(chan struct{}, 1)}
		m.locks[accountID] = e
	}
	e.refs++
	m.mu.Unlock()

	select {
	case e.held <- struct{}{}:
	case <-ctx.Done():
		m.unref(accountID, e)
		return nil, ctx.Err()
	}

	var once sync.Once

	release := func(context.Context) error {
		once.Do(func() {
			<-e.held
			m.unref(accountID, e)
		})

		return nil
	}

	return release, nil
}

func (m *Mutex) unref(accountID int32, e *entry) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e.refs--
	if e.refs == 0 {
		delete(m.locks, accountID)
	}
}

const unlockScript = `if redis.call('get', KEYS[1]) == ARGV[1] then return redis.call('del', KEYS[1]) else return 0 end`

// Redis is a Locker shared by every service instance using the same redis.
type Redis struct {
	client redis.UniversalClient
	ttl    time.Duration
	wait   time.Duration
	retry  time.Duration
}

// NewRedis returns a redis backed Locker. Locks expire after ttl and acquisition gives up after wait.
func NewRedis(client redis.UniversalClient, ttl, wait time.Duration) *Redis {
	return &Redis{
		client: client,
		ttl:    ttl,
		wait:   wait,
		retry:  20 * time.Millisecond,
	}
}

// Key returns the redis key guarding the account.
func Key(accountID int32) string {
	return "ledger:account-lock:" + strconv.FormatInt(int64(accountID), 10)
}

// Acquire polls SET NX until the lock is held, the wait elapses or ctx is done.
func (r *Redis) Acquire(ctx context.Context, accountID int32) (Release, error) {
	key := Key(accountID)
	value := uuid.NewString()
	deadline := time.Now().Add(r.wait)

	for {
		ok, err := r.client.SetNX(ctx, key, value, r.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("acquire %s: %w", key, err)
		}

		if ok {
			break
		}

		if time.Now().After(deadline) {
			return nil, ErrLockTimeout
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(r.retry):
		}
	}

	release := func(ctx context.Context) error {
		res, err := r.client.Eval(ctx, unlockScript, []string{key}, value).Result()
		if err != nil {
			return fmt.Errorf("release %s: %w", key, err)
		}

		if res == int64(0) {
			return fmt.Errorf("release %s: lock expired or held by another owner", key)
		}

		return nil
	}

	return release, nil
}

package keylock

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "hrms:lock:"

// Redis is a Locker backed by redislock, for deployments running more than one API instance.
type Redis struct {
	client *redislock.Client
	ttl    time.Duration
	retry  redislock.RetryStrategy
}

// NewRedis builds a Redis locker. ttl bounds how long a crashed holder can block a key.
func NewRedis(rdb *redis.Client, ttl time.Duration) *Redis {
	if ttl <= 0 {
		ttl = 10 * time.Second
	}
	return &Redis{
		client: redislock.New(rdb),
		ttl:    ttl,
		retry:  redislock.LimitRetry(redislock.LinearBackoff(50*time.Millisecond), 100),
	}
}

func (r *Redis) Lock(ctx context.Context, key string) (func(), error) {
	lock, err := r.client.Obtain(ctx, redisKeyPrefix+key, r.ttl, &redislock.Options{
		RetryStrategy: r.retry,
	})
	if errors.Is(err, redislock.ErrNotObtained) {
		return nil, fmt.Errorf("%w: %s", ErrNotObtained, key)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to obtain lock %s: %w", key, err)
	}

	stop := make(chan struct{})
	done := make(chan struct{})
	go r.keepAlive(lock, key, stop, done)

	var once sync.Once
	return func() {
		once.Do(func() {
			close(stop)
			<-done
			releaseCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			if err := lock.Release(releaseCtx); err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
				slog.Warn("failed to release lock", "key", key, "error", err)
			}
		})
	}, nil
}

// keepAlive extends the lock at half its TTL until stop is closed, so a slow
// holder keeps the key for as long as it runs.
func (r *Redis) keepAlive(lock *redislock.Lock, key string, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	ticker := time.NewTicker(r.ttl / 2)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), r.ttl/2)
			err := lock.Refresh(ctx, r.ttl, nil)
			cancel()
			if err != nil {
				slog.Warn("failed to refresh lock", "key", key, "error", err)
				if errors.Is(err, redislock.ErrNotObtained) {
					return
				}
			}
		}
	}
}

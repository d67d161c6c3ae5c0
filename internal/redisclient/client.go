package redisclient

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

//go:embed scripts/release_lock.lua
var releaseLockScript string

// ErrLockTimeout is returned when a lock could not be taken before the
// context or the wait budget ran out.
var ErrLockTimeout = errors.New("redis lock wait timed out")

type Client struct {
	rdb           *redis.Client
	releaseScript *redis.Script
}

// NewClient creates a new Redis client and pings it once
func NewClient(addr, password string, db int) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &Client{
		rdb:           rdb,
		releaseScript: redis.NewScript(releaseLockScript),
	}, nil
}

// GetClient returns the underlying Redis client
func (c *Client) GetClient() *redis.Client {
	return c.rdb
}

// Close closes the Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}

// AcquireLock takes lock:<lockKey> with SETNX, retrying until wait elapses.
// The returned token must be handed back to ReleaseLock.
func (c *Client) AcquireLock(ctx context.Context, lockKey string, ttl, wait time.Duration) (string, error) {
	token := uuid.New().String()
	deadline := time.Now().Add(wait)

	for {
		ok, err := c.rdb.SetNX(ctx, lockName(lockKey), token, ttl).Result()
		if err != nil {
			return "", fmt.Errorf("acquire lock %s: %w", lockKey, err)
		}
		if ok {
			return token, nil
		}

		if time.Now().After(deadline) {
			return "", fmt.Errorf("%w: %s", ErrLockTimeout, lockKey)
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(10 * time.Millisecond):
		}
	}
}

// ReleaseLock releases a lock only if it is still held by token
func (c *Client) ReleaseLock(ctx context.Context, lockKey, token string) error {
	_, err := c.releaseScript.Run(ctx, c.rdb, []string{lockName(lockKey)}, token).Result()
	if err != nil && err != redis.Nil {
		return fmt.Errorf("release lock %s: %w", lockKey, err)
	}
	return nil
}

func lockName(key string) string {
	return fmt.Sprintf("lock:%s", key)
}

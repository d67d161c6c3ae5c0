package kv

import (
	"context"
	"sort"
	"sync"
	"time"

	"stoktakip-service/internal/redisclient"

	"go.uber.org/zap"
)

// Locker serialises read-modify-write sequences on a key. The returned
// function releases the lock and is safe to call once.
type Locker interface {
	Lock(ctx context.Context, key string) (func(), error)
}

// LocalLocker hands out one mutex per key inside this process. An entry
// lives only while someone holds or waits for the key.
type LocalLocker struct {
	mu    sync.Mutex
	locks map[string]*keyLock
}

type keyLock struct {
	ch   chan struct{}
	refs int
}

func NewLocalLocker() *LocalLocker {
	return &LocalLocker{locks: make(map[string]*keyLock)}
}

func (l *LocalLocker) Lock(ctx context.Context, key string) (func(), error) {
	l.mu.Lock()
	kl, ok := l.locks[key]
	if !ok {
		kl = &keyLock{ch: make(chan struct{}, 1)}
		l.locks[key] = kl
	}
	kl.refs++
	l.mu.Unlock()

	select {
	case kl.ch <- struct{}{}:
		return func() {
			<-kl.ch
			l.unref(key, kl)
		}, nil
	case <-ctx.Done():
		l.unref(key, kl)
		return nil, ctx.Err()
	}
}

func (l *LocalLocker) unref(key string, kl *keyLock) {
	l.mu.Lock()
	kl.refs--
	if kl.refs == 0 {
		delete(l.locks, key)
	}
	l.mu.Unlock()
}

func (l *LocalLocker) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}

// RedisLocker uses SETNX locks so several service instances sharing one
// Redis serialise on the same keys.
type RedisLocker struct {
	client *redisclient.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewRedisLocker(client *redisclient.Client, ttl time.Duration, logger *zap.Logger) *RedisLocker {
	return &RedisLocker{client: client, ttl: ttl, logger: logger}
}

func (r *RedisLocker) Lock(ctx context.Context, key string) (func(), error) {
	token, err := r.client.AcquireLock(ctx, key, r.ttl, r.ttl)
	if err != nil {
		return nil, err
	}

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		if err := r.client.ReleaseLock(ctx, key, token); err != nil {
			r.logger.Warn("Failed to release lock", zap.String("key", key), zap.Error(err))
		}
	}, nil
}

// LockKeys takes every key in sorted order, dropping duplicates, and returns
// a function releasing them all. On failure nothing stays locked.
func LockKeys(ctx context.Context, locker Locker, keys ...string) (func(), error) {
	uniq := make([]string, 0, len(keys))
	seen := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		uniq = append(uniq, k)
	}
	sort.Strings(uniq)

	releases := make([]func(), 0, len(uniq))
	unlockAll := func() {
		for i := len(releases) - 1; i >= 0; i-- {
			releases[i]()
		}
	}

	for _, k := range uniq {
		release, err := locker.Lock(ctx, k)
		if err != nil {
			unlockAll()
			return nil, err
		}
		releases = append(releases, release)
	}

	return unlockAll, nil
}

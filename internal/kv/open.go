package kv

import (
	"context"
	"time"

	"stoktakip-service/config"
	"stoktakip-service/internal/redisclient"
	"stoktakip-service/internal/util"

	"go.uber.org/zap"
)

// Backend names reported in logs and metrics
const (
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

// Backend bundles the store with the locker that matches it.
type Backend struct {
	Name   string
	Store  Store
	Locker Locker
}

// Close closes the underlying store
func (b *Backend) Close() error {
	return b.Store.Close()
}

// Open probes the configured durable engine once. If the probe fails the
// process keeps running on the in-memory store; data written there is lost
// on restart.
func Open(ctx context.Context, cfg *config.Config, logger *zap.Logger) *Backend {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	switch cfg.KV.Backend {
	case BackendRedis:
		client, err := redisclient.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err == nil {
			logger.Info("Redis connected", zap.String("addr", cfg.Redis.Addr))
			return newBackend(BackendRedis, NewRedisStore(client), NewRedisLocker(client, cfg.KV.LockTTL, logger))
		}
		logger.Warn("Redis unavailable, falling back to in-memory store", zap.Error(err))

	case BackendPostgres:
		pg, err := NewPostgresStore(ctx, cfg.DB.URL)
		if err == nil {
			logger.Info("Database connected")
			return newBackend(BackendPostgres, pg, NewLocalLocker())
		}
		logger.Warn("Database unavailable, falling back to in-memory store", zap.Error(err))

	case BackendMemory:
		return NewMemoryBackend()

	default:
		logger.Warn("Unknown KV backend, using in-memory store", zap.String("backend", cfg.KV.Backend))
	}

	util.KVFallbackTotal.Inc()
	return NewMemoryBackend()
}

// NewMemoryBackend returns a fresh in-memory backend
func NewMemoryBackend() *Backend {
	return newBackend(BackendMemory, NewMemoryStore(), NewLocalLocker())
}

func newBackend(name string, s Store, l Locker) *Backend {
	return &Backend{Name: name, Store: WithMetrics(s, name), Locker: l}
}

package kv

import (
	"context"
	"fmt"
	"strings"

	"stoktakip-service/internal/redisclient"

	"github.com/go-redis/redis/v8"
)

const scanBatch = 200

// RedisStore stores each record as a plain string value.
type RedisStore struct {
	client *redisclient.Client
	rdb    *redis.Client
}

// NewRedisStore wraps an already connected client
func NewRedisStore(client *redisclient.Client) *RedisStore {
	return &RedisStore{client: client, rdb: client.GetClient()}
}

func (r *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	v, err := r.rdb.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}
	return v, nil
}

func (r *RedisStore) Set(ctx context.Context, key string, value []byte) error {
	if err := r.rdb.Set(ctx, key, value, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (r *RedisStore) Delete(ctx context.Context, key string) error {
	if err := r.rdb.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", key, err)
	}
	return nil
}

// Scan walks the keyspace with SCAN MATCH and fetches values with MGET.
// Keys removed between the two calls are skipped.
func (r *RedisStore) Scan(ctx context.Context, prefix string) ([][]byte, error) {
	pattern := escapeGlob(prefix) + "*"
	out := make([][]byte, 0)

	var cursor uint64
	for {
		keys, next, err := r.rdb.Scan(ctx, cursor, pattern, scanBatch).Result()
		if err != nil {
			return nil, fmt.Errorf("redis scan %s: %w", prefix, err)
		}

		if len(keys) > 0 {
			vals, err := r.rdb.MGet(ctx, keys...).Result()
			if err != nil {
				return nil, fmt.Errorf("redis mget %s: %w", prefix, err)
			}
			for _, v := range vals {
				if s, ok := v.(string); ok {
					out = append(out, []byte(s))
				}
			}
		}

		cursor = next
		if cursor == 0 {
			break
		}
	}

	return out, nil
}

// Apply runs the batch inside MULTI/EXEC.
func (r *RedisStore) Apply(ctx context.Context, ops []Op) error {
	if len(ops) == 0 {
		return nil
	}

	_, err := r.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, op := range ops {
			if op.IsDelete() {
				pipe.Del(ctx, op.Key)
			} else {
				pipe.Set(ctx, op.Key, op.Value, 0)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis batch of %d ops: %w", len(ops), err)
	}
	return nil
}

func (r *RedisStore) Close() error {
	return r.client.Close()
}

var globEscaper = strings.NewReplacer(`\`, `\\`, `*`, `\*`, `?`, `\?`, `[`, `\[`, `]`, `\]`)

func escapeGlob(s string) string {
	return globEscaper.Replace(s)
}

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("KV_BACKEND", "")
	t.Setenv("KAFKA_BROKERS", "")
	t.Setenv("API_PREFIXES", "")

	cfg := Load()

	assert.Equal(t, "redis", cfg.KV.Backend)
	assert.Equal(t, 5*time.Second, cfg.KV.LockTTL)
	assert.Empty(t, cfg.Kafka.Brokers)
	assert.Equal(t, []string{"/api"}, cfg.Server.APIPrefixes)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("KV_BACKEND", "Postgres")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092")
	t.Setenv("API_PREFIXES", "/api,/make-server")
	t.Setenv("LOCK_TTL_MS", "250")

	cfg := Load()

	assert.Equal(t, "postgres", cfg.KV.Backend)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, []string{"/api", "/make-server"}, cfg.Server.APIPrefixes)
	assert.Equal(t, 250*time.Millisecond, cfg.KV.LockTTL)
}

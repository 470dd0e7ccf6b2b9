// Package storage is the durable key-value boundary. Saves are best-effort:
// gameplay must stay correct with no persistence at all, so failures are
// logged and swallowed and loads fall back to the caller's default.
package storage

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Well-known keys.
const (
	KeySettings        = "settings"
	KeyStats           = "stats"
	KeyCustomQuestions = "custom_questions"
)

// KV loads and saves JSON-encoded values by key.
type KV interface {
	// Load unmarshals the stored value into into, reporting whether a
	// value was found. into is left untouched on a miss or error.
	Load(ctx context.Context, key string, into any) bool
	// Save stores the value. Errors are swallowed.
	Save(ctx context.Context, key string, value any)
}

// Redis is a KV backed by a Redis hash-free string keyspace.
type Redis struct {
	client *redis.Client
	prefix string
	logger zerolog.Logger
}

var _ KV = (*Redis)(nil)

func NewRedis(client *redis.Client, prefix string, logger zerolog.Logger) *Redis {
	return &Redis{client: client, prefix: prefix, logger: logger}
}

func (r *Redis) key(key string) string {
	if r.prefix == "" {
		return key
	}
	return r.prefix + ":" + key
}

func (r *Redis) Load(ctx context.Context, key string, into any) bool {
	data, err := r.client.Get(ctx, r.key(key)).Bytes()
	if err == redis.Nil {
		return false
	}
	if err != nil {
		r.logger.Warn().Err(err).Str("key", key).Msg("kv load failed")
		return false
	}
	if err := json.Unmarshal(data, into); err != nil {
		r.logger.Warn().Err(err).Str("key", key).Msg("kv value corrupted")
		return false
	}
	return true
}

func (r *Redis) Save(ctx context.Context, key string, value any) {
	data, err := json.Marshal(value)
	if err != nil {
		r.logger.Warn().Err(err).Str("key", key).Msg("kv marshal failed")
		return
	}
	if err := r.client.Set(ctx, r.key(key), data, 0).Err(); err != nil {
		r.logger.Warn().Err(err).Str("key", key).Msg("kv save failed")
	}
}

// Memory is an in-process KV for tests and offline play.
type Memory struct {
	mu    sync.RWMutex
	items map[string][]byte
}

var _ KV = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{items: make(map[string][]byte)}
}

func (m *Memory) Load(ctx context.Context, key string, into any) bool {
	m.mu.RLock()
	data, ok := m.items[key]
	m.mu.RUnlock()
	if !ok {
		return false
	}
	return json.Unmarshal(data, into) == nil
}

func (m *Memory) Save(ctx context.Context, key string, value any) {
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	m.mu.Lock()
	m.items[key] = data
	m.mu.Unlock()
}

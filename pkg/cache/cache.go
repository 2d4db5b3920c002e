// Package cache keeps short lived copies of rarely changing documents, such
// as author profiles, that every feed page would otherwise re-fetch.
package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ahmednagradev/ansnips/pkg/logger"
	json "github.com/json-iterator/go"
	"github.com/redis/go-redis/v9"
)

// Cache stores JSON-encoded values with a TTL
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

// New returns a redis-backed cache when redisURL is set and an in-process
// cache otherwise.
func New(redisURL string) (Cache, error) {
	if redisURL == "" {
		return NewMemory(), nil
	}
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	logger.Debug("Using redis cache", "addr", opts.Addr)
	return NewRedis(redis.NewClient(opts)), nil
}

// Get decodes the cached value under key into a new T. A miss returns nil
// without error.
func Get[T any](ctx context.Context, c Cache, key string) (*T, error) {
	data, ok, err := c.Get(ctx, key)
	if err != nil || !ok {
		return nil, err
	}

	var result T
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// SetJSON encodes value and stores it under key
func SetJSON(ctx context.Context, c Cache, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.Set(ctx, key, data, ttl)
}

// UserKey is the key of a cached user profile
func UserKey(userID string) string {
	return "ansnips:user:" + userID
}

// UsernameKey maps a username to its cached profile
func UsernameKey(username string) string {
	return "ansnips:username:" + username
}

type entry struct {
	value     []byte
	expiresAt time.Time
}

// Memory is an in-process Cache
type Memory struct {
	mu      sync.Mutex
	entries map[string]entry
	now     func() time.Time
}

// NewMemory creates an empty in-process cache
func NewMemory() *Memory {
	return &Memory{entries: make(map[string]entry), now: time.Now}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[key]
	if !ok {
		return nil, false, nil
	}
	if !e.expiresAt.IsZero() && !m.now().Before(e.expiresAt) {
		delete(m.entries, key)
		return nil, false, nil
	}
	return e.value, true, nil
}

func (m *Memory) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	e := entry{value: value}
	if ttl > 0 {
		e.expiresAt = m.now().Add(ttl)
	}
	m.entries[key] = e
	return nil
}

func (m *Memory) Del(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.entries, k)
	}
	return nil
}

// Redis is a Cache shared between processes
type Redis struct {
	rdb *redis.Client
}

// NewRedis wraps a redis client
func NewRedis(rdb *redis.Client) *Redis {
	return &Redis{rdb: rdb}
}

func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := r.rdb.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

func (r *Redis) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return r.rdb.Set(ctx, key, value, ttl).Err()
}

func (r *Redis) Del(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return r.rdb.Del(ctx, keys...).Err()
}

// Close releases the redis connection pool
func (r *Redis) Close() error {
	return r.rdb.Close()
}

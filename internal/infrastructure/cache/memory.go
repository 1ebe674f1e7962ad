// Package cache provides the read-through cache backends used by the services.
// Values are stored JSON-encoded so every reader decodes its own copy.
package cache

import (
	"context"
	"encoding/json"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Memory is an in-process cache.
type Memory struct {
	store *gocache.Cache
}

func NewMemory(cleanupInterval time.Duration) *Memory {
	if cleanupInterval <= 0 {
		cleanupInterval = 10 * time.Minute
	}
	return &Memory{store: gocache.New(gocache.NoExpiration, cleanupInterval)}
}

func (m *Memory) Get(ctx context.Context, key string, dst any) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	raw, ok := m.store.Get(key)
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw.([]byte), dst); err != nil {
		m.store.Delete(key)
		return false, err
	}
	return true, nil
}

func (m *Memory) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if ttl <= 0 {
		ttl = gocache.NoExpiration
	}
	m.store.Set(key, payload, ttl)
	return nil
}

func (m *Memory) Invalidate(_ context.Context, keys ...string) error {
	for _, key := range keys {
		m.store.Delete(key)
	}
	return nil
}

// Flush drops every entry.
func (m *Memory) Flush() {
	m.store.Flush()
}

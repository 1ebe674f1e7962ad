package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	redislib "github.com/redis/go-redis/v9"
)

const defaultPrefix = "tracker:cache:"

// Redis shares cached lists between server instances.
type Redis struct {
	client redislib.UniversalClient
	prefix string
}

func NewRedis(client redislib.UniversalClient, prefix string) *Redis {
	if prefix == "" {
		prefix = defaultPrefix
	}
	return &Redis{client: client, prefix: prefix}
}

func (r *Redis) Get(ctx context.Context, key string, dst any) (bool, error) {
	result, err := r.client.Get(ctx, r.key(key)).Bytes()
	if err != nil {
		if errors.Is(err, redislib.Nil) {
			return false, nil
		}
		return false, err
	}
	if err := json.Unmarshal(result, dst); err != nil {
		return false, err
	}
	return true, nil
}

func (r *Redis) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if ttl < 0 {
		ttl = 0
	}
	return r.client.Set(ctx, r.key(key), payload, ttl).Err()
}

func (r *Redis) Invalidate(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	prefixed := make([]string, len(keys))
	for i, key := range keys {
		prefixed[i] = r.key(key)
	}
	return r.client.Del(ctx, prefixed...).Err()
}

// Ping reports whether the backing server answers.
func (r *Redis) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *Redis) key(key string) string {
	return r.prefix + key
}

package redis

import (
	"context"
	"time"

	goRedis "github.com/redis/go-redis/v9"

	"github.com/fastygo/tracker/internal/config"
	"github.com/fastygo/tracker/internal/infrastructure/cache"
)

// NewClient creates a Redis client and performs a health check.
func NewClient(ctx context.Context, cfg config.RedisConfig) (*goRedis.Client, error) {
	opts, err := goRedis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	if cfg.Password != "" {
		opts.Password = cfg.Password
	}
	if cfg.DB != 0 {
		opts.DB = cfg.DB
	}

	client := goRedis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, err
	}

	return client, nil
}

// NewCache connects and wraps the client in the shared read cache.
func NewCache(ctx context.Context, cfg config.Config) (*cache.Redis, *goRedis.Client, error) {
	client, err := NewClient(ctx, cfg.Redis)
	if err != nil {
		return nil, nil, err
	}
	return cache.NewRedis(client, cfg.Cache.Prefix), client, nil
}

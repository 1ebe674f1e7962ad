package usecase

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Cache keys shared by the services. Lists are cached whole and invalidated on every write.
const (
	CategoryDataKey = "CategoryData"
	StatusDataKey   = "StatusData"
	IssueDataKey    = "IssueData"
	CommentDataKey  = "CommentData"
	ArticleDataKey  = "ArticleData"
)

// UserIssuesKey caches the issues authored by one user.
func UserIssuesKey(userID string) string {
	return "issues:user:" + userID
}

// Cache is the read-through cache the services depend on. Get decodes into dst and
// reports whether the key was present.
type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Invalidate(ctx context.Context, keys ...string) error
}

// CachePolicy carries the TTLs configured for short- and long-lived lists.
type CachePolicy struct {
	Short time.Duration
	Long  time.Duration
}

// Cached returns the value stored under key, or loads, stores and returns it.
// Cache failures are logged and never fail the read.
func Cached[T any](ctx context.Context, cache Cache, logger *zap.Logger, key string, ttl time.Duration, load func(context.Context) (T, error)) (T, error) {
	if cache != nil {
		var hit T
		found, err := cache.Get(ctx, key, &hit)
		if err != nil {
			logger.Warn("cache read failed", zap.String("key", key), zap.Error(err))
		} else if found {
			return hit, nil
		}
	}

	value, err := load(ctx)
	if err != nil {
		return value, err
	}

	if cache != nil {
		if err := cache.Set(ctx, key, value, ttl); err != nil {
			logger.Warn("cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	return value, nil
}

// Invalidate drops keys, logging rather than returning failures.
func Invalidate(ctx context.Context, cache Cache, logger *zap.Logger, keys ...string) {
	if cache == nil || len(keys) == 0 {
		return
	}
	if err := cache.Invalidate(ctx, keys...); err != nil {
		logger.Warn("cache invalidation failed", zap.Strings("keys", keys), zap.Error(err))
	}
}

package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/ariafm/aria/internal/store"
)

// FetchCached is the read-through accessor every list-fetching screen goes
// through:
//
//  1. unless force is set, a valid cache entry is returned without invoking
//     the producer;
//  2. otherwise the producer (the network call) runs; on success the result
//     is written through with the given ttl;
//  3. on producer failure a still-valid cache entry is served as a stale
//     fallback; only when that also misses is the error propagated.
func FetchCached[T any](
	ctx context.Context,
	cache *store.ExpiringStore,
	logger *slog.Logger,
	key string,
	ttl time.Duration,
	force bool,
	producer func(ctx context.Context) (T, error),
) (T, error) {
	if logger == nil {
		logger = slog.Default()
	}

	if !force {
		var cached T
		if cache.Get(key, &cached) {
			logger.Debug("cache hit", "key", key)
			return cached, nil
		}
	}

	result, err := producer(ctx)
	if err != nil {
		var fallback T
		if cache.Get(key, &fallback) {
			logger.Warn("producer failed, serving cached value", "key", key, "error", err)
			return fallback, nil
		}
		logger.Error("producer failed with no cached fallback", "key", key, "error", err)
		var zero T
		return zero, err
	}

	cache.Set(key, result, ttl)
	return result, nil
}

// Package cache provides TTL stores and a caching decorator for the price feed.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/andrescamacho/geflip-go/internal/domain/shared"
	"github.com/andrescamacho/geflip-go/internal/infrastructure/config"
)

// Store is a byte-oriented key/value store with per-entry expiry
type Store interface {
	// Get returns the value and whether it was present and unexpired
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores value for ttl; ttl <= 0 means no expiry
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes keys; missing keys are ignored
	Delete(ctx context.Context, keys ...string) error
}

// NewStore builds the store selected by the cache configuration.
// The "none" backend returns a nil Store, which disables caching.
func NewStore(ctx context.Context, cfg config.CacheConfig, clock shared.Clock) (Store, error) {
	switch cfg.Backend {
	case "", "memory":
		return NewMemoryStore(clock), nil
	case "redis":
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			_ = rdb.Close()
			return nil, fmt.Errorf("failed to reach redis at %s: %w", cfg.Redis.Addr, err)
		}
		return NewRedisStore(rdb, cfg.Redis.Namespace), nil
	case "none":
		return nil, nil
	default:
		return nil, fmt.Errorf("unsupported cache backend: %s", cfg.Backend)
	}
}

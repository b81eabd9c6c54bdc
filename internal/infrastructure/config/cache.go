package config

import "time"

// CacheConfig selects and tunes the feed cache
type CacheConfig struct {
	// Backend: memory, redis or none
	Backend string `mapstructure:"backend" validate:"required,oneof=memory redis none"`

	// How long the item catalog stays cached
	CatalogTTL time.Duration `mapstructure:"catalog_ttl"`

	// How long latest/1h price snapshots stay cached
	PricesTTL time.Duration `mapstructure:"prices_ttl"`

	Redis RedisConfig `mapstructure:"redis"`
}

// RedisConfig holds the Redis connection used by the redis cache backend
type RedisConfig struct {
	Addr      string `mapstructure:"addr"`
	Password  string `mapstructure:"password"`
	DB        int    `mapstructure:"db" validate:"min=0"`
	Namespace string `mapstructure:"namespace"`
}

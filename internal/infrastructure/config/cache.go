package config

import "time"

// CacheConfig holds the FIO catalog cache configuration
type CacheConfig struct {
	// Directory for cache files
	Dir string `mapstructure:"dir" validate:"required"`

	// Time-to-live for cached catalog data
	TTL time.Duration `mapstructure:"ttl" validate:"required"`
}

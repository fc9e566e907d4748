package cache

import (
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/goliatone/go-viewset-cache/internal/cacheinfra"
)

// Config exposes the in-process cache backend options for consumers of the
// cache package.
type Config struct {
	Capacity           int
	NumShards          int
	TTL                time.Duration
	EvictionPercentage int
	EvictionInterval   time.Duration
}

// DefaultConfig returns a Config populated with sensible defaults.
func DefaultConfig() Config {
	return convertFromInternal(cacheinfra.DefaultConfig())
}

// Validate checks whether the configuration values are valid.
func (c Config) Validate() error {
	return c.toInternal().Validate()
}

// NewMemoryBackend constructs the in-process backend implementation using
// the provided configuration. Entry expiry is governed by Config.TTL.
func NewMemoryBackend(cfg Config) (Backend, error) {
	return cacheinfra.NewSturdycBackend(cfg.toInternal())
}

// NewRedisBackend wraps an existing redis client as a cache Backend. The
// client is shared, externally-owned state; this package never closes it.
func NewRedisBackend(client goredis.UniversalClient) (Backend, error) {
	return cacheinfra.NewRedisBackend(client)
}

func (c Config) toInternal() cacheinfra.Config {
	return cacheinfra.Config{
		Capacity:           c.Capacity,
		NumShards:          c.NumShards,
		TTL:                c.TTL,
		EvictionPercentage: c.EvictionPercentage,
		EvictionInterval:   c.EvictionInterval,
	}
}

func convertFromInternal(cfg cacheinfra.Config) Config {
	return Config{
		Capacity:           cfg.Capacity,
		NumShards:          cfg.NumShards,
		TTL:                cfg.TTL,
		EvictionPercentage: cfg.EvictionPercentage,
		EvictionInterval:   cfg.EvictionInterval,
	}
}

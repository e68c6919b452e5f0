package cache

import (
	"context"
	"fmt"
)

// Config selects and configures a backend.
type Config struct {
	Backend string `toml:"backend"`
	Dir     string `toml:"dir"`

	// Namespace prefixes every key, so deployments sharing a Redis or
	// MongoDB backend do not read each other's entries.
	Namespace string `toml:"namespace"`

	Redis RedisConfig `toml:"redis"`
	Mongo MongoConfig `toml:"mongo"`
}

// Keyer returns the keyer for cfg.Namespace.
func (cfg Config) Keyer() Keyer {
	if cfg.Namespace == "" {
		return NewDefaultKeyer()
	}
	return NewScopedKeyer(nil, cfg.Namespace+":")
}

// Open creates the backend named by cfg.Backend. An empty backend selects
// the file cache in cfg.Dir, or in [DefaultDir] when Dir is empty.
func Open(ctx context.Context, cfg Config) (Cache, error) {
	switch cfg.Backend {
	case "", BackendFile:
		dir := cfg.Dir
		if dir == "" {
			d, err := DefaultDir()
			if err != nil {
				return nil, fmt.Errorf("cache dir: %w", err)
			}
			dir = d
		}
		return NewFileCache(dir)
	case BackendRedis:
		return NewRedisCache(ctx, cfg.Redis)
	case BackendMongo:
		return NewMongoCache(ctx, cfg.Mongo)
	case BackendNone:
		return NewNullCache(), nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q (must be one of: file, redis, mongo, none)", cfg.Backend)
	}
}

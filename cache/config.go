package cache

import (
	"fmt"
	"time"

	"github.com/goliatone/go-coworking/internal/cacheinfra"
)

// Supported store drivers.
const (
	DriverMemory = "memory"
	DriverRedis  = "redis"
)

// Config exposes cache configuration options for consumers of the cache package.
type Config struct {
	Driver             string
	TTL                time.Duration
	Capacity           int
	NumShards          int
	EvictionPercentage int
	EvictionInterval   time.Duration
	Redis              RedisConfig
}

// RedisConfig mirrors the redis store options.
type RedisConfig struct {
	Addr        string
	Password    string
	DB          int
	KeyPrefix   string
	DialTimeout time.Duration
}

// DefaultConfig returns a Config populated with sensible defaults.
func DefaultConfig() Config {
	mem := cacheinfra.DefaultConfig()
	return Config{
		Driver:             DriverMemory,
		TTL:                DefaultTTL,
		Capacity:           mem.Capacity,
		NumShards:          mem.NumShards,
		EvictionPercentage: mem.EvictionPercentage,
		EvictionInterval:   mem.EvictionInterval,
		Redis: RedisConfig{
			Addr:        "localhost:6379",
			KeyPrefix:   "cowork:",
			DialTimeout: 2 * time.Second,
		},
	}
}

// Validate checks whether the configuration values are valid.
func (c Config) Validate() error {
	switch c.Driver {
	case DriverMemory:
		return c.memory().Validate()
	case DriverRedis:
		if c.TTL <= 0 {
			return &cacheinfra.ConfigError{Field: "TTL", Message: "must be greater than 0"}
		}
		return c.redis().Validate()
	default:
		return &cacheinfra.ConfigError{Field: "Driver", Message: fmt.Sprintf("unknown driver %q", c.Driver)}
	}
}

// NewStore constructs the store selected by Driver.
func NewStore(cfg Config) (Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Driver == DriverRedis {
		return cacheinfra.NewRedisStore(cfg.redis())
	}
	return cacheinfra.NewMemoryStore(cfg.memory())
}

func (c Config) memory() cacheinfra.Config {
	return cacheinfra.Config{
		Capacity:           c.Capacity,
		NumShards:          c.NumShards,
		TTL:                c.TTL,
		EvictionPercentage: c.EvictionPercentage,
		EvictionInterval:   c.EvictionInterval,
	}
}

func (c Config) redis() cacheinfra.RedisConfig {
	return cacheinfra.RedisConfig{
		Addr:        c.Redis.Addr,
		Password:    c.Redis.Password,
		DB:          c.Redis.DB,
		KeyPrefix:   c.Redis.KeyPrefix,
		DialTimeout: c.Redis.DialTimeout,
	}
}

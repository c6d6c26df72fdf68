// Package config loads the coworkd configuration from defaults, an optional
// YAML file and COWORK_* environment variables, in increasing priority.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/goliatone/go-coworking/cache"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// PathEnvVar overrides the config file location.
const PathEnvVar = "COWORK_CONFIG"

// EnvPrefix prefixes every environment override.
const EnvPrefix = "COWORK_"

// DefaultPaths are searched in order when PathEnvVar is unset.
var DefaultPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/coworkd/config.yaml",
}

type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database"`
	Cache    CacheConfig    `koanf:"cache"`
	Auth     AuthConfig     `koanf:"auth"`
	API      APIConfig      `koanf:"api"`
	Log      LogConfig      `koanf:"log"`
}

type ServerConfig struct {
	Addr            string        `koanf:"addr" validate:"required"`
	ReadTimeout     time.Duration `koanf:"read_timeout" validate:"gt=0"`
	WriteTimeout    time.Duration `koanf:"write_timeout" validate:"gt=0"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"gt=0"`
	CORSOrigins     []string      `koanf:"cors_origins"`
	RateLimit       int           `koanf:"rate_limit" validate:"gte=0"`
	RateWindow      time.Duration `koanf:"rate_window" validate:"gt=0"`
}

type DatabaseConfig struct {
	Driver       string `koanf:"driver" validate:"required,oneof=sqlite3 postgres"`
	DSN          string `koanf:"dsn" validate:"required"`
	MaxOpenConns int    `koanf:"max_open_conns" validate:"gte=0"`
}

type CacheConfig struct {
	Driver             string        `koanf:"driver" validate:"required,oneof=memory redis"`
	TTL                time.Duration `koanf:"ttl" validate:"gt=0"`
	Capacity           int           `koanf:"capacity" validate:"gt=0"`
	NumShards          int           `koanf:"num_shards" validate:"gt=0"`
	EvictionPercentage int           `koanf:"eviction_percentage" validate:"gte=1,lte=100"`
	EvictionInterval   time.Duration `koanf:"eviction_interval" validate:"gte=0"`
	Redis              RedisConfig   `koanf:"redis"`
}

type RedisConfig struct {
	Addr        string        `koanf:"addr"`
	Password    string        `koanf:"password"`
	DB          int           `koanf:"db" validate:"gte=0"`
	KeyPrefix   string        `koanf:"key_prefix"`
	DialTimeout time.Duration `koanf:"dial_timeout" validate:"gte=0"`
}

type AuthConfig struct {
	JWTSecret string        `koanf:"jwt_secret" validate:"required,min=16"`
	Issuer    string        `koanf:"issuer"`
	TokenTTL  time.Duration `koanf:"token_ttl" validate:"gt=0"`
}

type APIConfig struct {
	DefaultLimit int `koanf:"default_limit" validate:"gt=0,ltefield=MaxLimit"`
	MaxLimit     int `koanf:"max_limit" validate:"gt=0"`
}

type LogConfig struct {
	Level  string `koanf:"level" validate:"oneof=debug info warn error"`
	Format string `koanf:"format" validate:"oneof=json console"`
}

// Default returns the built-in configuration. The JWT secret is left empty
// and must be provided.
func Default() *Config {
	cacheDefaults := cache.DefaultConfig()
	return &Config{
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			CORSOrigins:     []string{"*"},
			RateLimit:       300,
			RateWindow:      time.Minute,
		},
		Database: DatabaseConfig{
			Driver: "sqlite3",
			DSN:    "file:coworking.db?cache=shared&_foreign_keys=on",
		},
		Cache: CacheConfig{
			Driver:             cacheDefaults.Driver,
			TTL:                cacheDefaults.TTL,
			Capacity:           cacheDefaults.Capacity,
			NumShards:          cacheDefaults.NumShards,
			EvictionPercentage: cacheDefaults.EvictionPercentage,
			EvictionInterval:   cacheDefaults.EvictionInterval,
			Redis: RedisConfig{
				Addr:        cacheDefaults.Redis.Addr,
				DB:          cacheDefaults.Redis.DB,
				KeyPrefix:   cacheDefaults.Redis.KeyPrefix,
				DialTimeout: cacheDefaults.Redis.DialTimeout,
			},
		},
		Auth: AuthConfig{
			Issuer:   "coworkd",
			TokenTTL: 24 * time.Hour,
		},
		API: APIConfig{
			DefaultLimit: 20,
			MaxLimit:     100,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load layers defaults, the config file (if any) and the environment, then
// validates the result.
func Load() (*Config, error) {
	return LoadFile(findFile())
}

// LoadFile is Load with an explicit config file. An empty path skips the file.
func LoadFile(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	if err := splitList(k, "server.cors_origins"); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every section's constraints.
func (c *Config) Validate() error {
	v := validator.New()
	if err := v.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if c.Cache.Driver == cache.DriverRedis && c.Cache.Redis.Addr == "" {
		return fmt.Errorf("invalid config: cache.redis.addr is required for the redis driver")
	}
	return nil
}

// CacheStore converts the cache section into the cache package config.
func (c *Config) CacheStore() cache.Config {
	return cache.Config{
		Driver:             c.Cache.Driver,
		TTL:                c.Cache.TTL,
		Capacity:           c.Cache.Capacity,
		NumShards:          c.Cache.NumShards,
		EvictionPercentage: c.Cache.EvictionPercentage,
		EvictionInterval:   c.Cache.EvictionInterval,
		Redis: cache.RedisConfig{
			Addr:        c.Cache.Redis.Addr,
			Password:    c.Cache.Redis.Password,
			DB:          c.Cache.Redis.DB,
			KeyPrefix:   c.Cache.Redis.KeyPrefix,
			DialTimeout: c.Cache.Redis.DialTimeout,
		},
	}
}

func findFile() string {
	if p := os.Getenv(PathEnvVar); p != "" {
		return p
	}
	for _, p := range DefaultPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// envSections are the top-level config sections. Section names never contain
// underscores, so the first underscore of a variable separates section and
// field: COWORK_AUTH_JWT_SECRET is auth.jwt_secret.
var envSections = map[string]bool{
	"server": true, "database": true, "cache": true, "auth": true, "api": true, "log": true,
}

func envKey(name string) string {
	key := strings.ToLower(strings.TrimPrefix(name, EnvPrefix))
	if key == "config" {
		return ""
	}
	section, field, ok := strings.Cut(key, "_")
	if !ok || !envSections[section] {
		return ""
	}
	if section == "cache" && strings.HasPrefix(field, "redis_") {
		return "cache.redis." + strings.TrimPrefix(field, "redis_")
	}
	return section + "." + field
}

// splitList turns a comma separated env value into a list.
func splitList(k *koanf.Koanf, path string) error {
	raw, ok := k.Get(path).(string)
	if !ok {
		return nil
	}
	var items []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			items = append(items, p)
		}
	}
	if err := k.Set(path, items); err != nil {
		return fmt.Errorf("set %s: %w", path, err)
	}
	return nil
}

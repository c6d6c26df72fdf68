package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/goliatone/go-coworking/pkg/testsupport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	return testsupport.WriteFile(t, "config.yaml", []byte(content))
}

func TestDefault_RequiresSecret(t *testing.T) {
	cfg := Default()
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, time.Hour, cfg.Cache.TTL)
	assert.Equal(t, 20, cfg.API.DefaultLimit)
	assert.Error(t, cfg.Validate(), "an empty jwt secret is invalid")

	cfg.Auth.JWTSecret = "0123456789abcdef"
	assert.NoError(t, cfg.Validate())
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
server:
  addr: ":9090"
  cors_origins: ["https://app.example.com"]
cache:
  ttl: 5m
auth:
  jwt_secret: "file-secret-0123456789"
api:
  default_limit: 10
  max_limit: 50
`)

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, []string{"https://app.example.com"}, cfg.Server.CORSOrigins)
	assert.Equal(t, 5*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, 10, cfg.API.DefaultLimit)
	assert.Equal(t, 50, cfg.API.MaxLimit)

	// untouched sections keep their defaults
	assert.Equal(t, "sqlite3", cfg.Database.Driver)
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenTTL)
}

func TestLoadFile_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, `
auth:
  jwt_secret: "file-secret-0123456789"
`)
	t.Setenv("COWORK_AUTH_JWT_SECRET", "env-secret-0123456789")
	t.Setenv("COWORK_SERVER_CORS_ORIGINS", "https://a.example.com, https://b.example.com")
	t.Setenv("COWORK_CACHE_REDIS_KEY_PREFIX", "cw:")
	t.Setenv("COWORK_LOG_LEVEL", "debug")

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "env-secret-0123456789", cfg.Auth.JWTSecret)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.Server.CORSOrigins)
	assert.Equal(t, "cw:", cfg.Cache.Redis.KeyPrefix)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadFile_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"short secret", "auth:\n  jwt_secret: short\n"},
		{"unknown driver", "auth:\n  jwt_secret: \"0123456789abcdef\"\ndatabase:\n  driver: oracle\n"},
		{"default above max", "auth:\n  jwt_secret: \"0123456789abcdef\"\napi:\n  default_limit: 200\n"},
		{"redis without addr", "auth:\n  jwt_secret: \"0123456789abcdef\"\ncache:\n  driver: redis\n  redis:\n    addr: \"\"\n"},
		{"bad yaml", "auth: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFile(writeConfig(t, tt.content))
			assert.Error(t, err)
		})
	}
}

func TestLoadFile_MissingFile(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestEnvKey(t *testing.T) {
	tests := map[string]string{
		"COWORK_AUTH_JWT_SECRET":         "auth.jwt_secret",
		"COWORK_SERVER_ADDR":             "server.addr",
		"COWORK_CACHE_REDIS_ADDR":        "cache.redis.addr",
		"COWORK_CACHE_NUM_SHARDS":        "cache.num_shards",
		"COWORK_CONFIG":                  "",
		"COWORK_UNKNOWN_THING":           "",
		"COWORK_NOSECTION":               "",
		"COWORK_DATABASE_MAX_OPEN_CONNS": "database.max_open_conns",
	}
	for in, want := range tests {
		assert.Equal(t, want, envKey(in), in)
	}
}

func TestCacheStore(t *testing.T) {
	cfg := Default()
	cfg.Cache.TTL = 2 * time.Minute
	cfg.Cache.Redis.Password = "pw"

	sc := cfg.CacheStore()
	assert.Equal(t, 2*time.Minute, sc.TTL)
	assert.Equal(t, cfg.Cache.Capacity, sc.Capacity)
	assert.Equal(t, "pw", sc.Redis.Password)
}

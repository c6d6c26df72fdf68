package cacheinfra

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRedisConfig_Validate(t *testing.T) {
	tests := []struct {
		name      string
		cfg       RedisConfig
		wantField string
	}{
		{name: "valid", cfg: RedisConfig{Addr: "localhost:6379"}},
		{name: "missing addr", cfg: RedisConfig{}, wantField: "Addr"},
		{name: "negative db", cfg: RedisConfig{Addr: "localhost:6379", DB: -1}, wantField: "DB"},
		{name: "negative scan", cfg: RedisConfig{Addr: "localhost:6379", ScanCount: -5}, wantField: "ScanCount"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantField == "" {
				if err != nil {
					t.Errorf("Validate() error = %v, want nil", err)
				}
				return
			}
			var cfgErr *ConfigError
			if !errors.As(err, &cfgErr) || cfgErr.Field != tt.wantField {
				t.Errorf("Validate() error = %v, want field %s", err, tt.wantField)
			}
		})
	}
}

func TestEscapeGlob(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"cowork:espacios:activos:", "cowork:espacios:activos:"},
		{`cowork:espacios:{"tipo":"sala"}`, `cowork:espacios:{"tipo":"sala"}`},
		{"a*b?c[d]", `a\*b\?c\[d\]`},
		{`back\slash`, `back\\slash`},
	}
	for _, tt := range tests {
		if got := escapeGlob(tt.in); got != tt.want {
			t.Errorf("escapeGlob(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRedisStore_Unreachable(t *testing.T) {
	s, err := NewRedisStore(RedisConfig{
		Addr:        "127.0.0.1:1",
		KeyPrefix:   "cowork:",
		DialTimeout: 100 * time.Millisecond,
	})
	if err != nil {
		t.Fatalf("NewRedisStore() error = %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := s.Ping(ctx); err == nil {
		t.Fatal("Ping() should fail against a closed port")
	}
	if _, ok, err := s.Get(ctx, "id:s1-espacios"); err == nil || ok {
		t.Errorf("Get() = ok %v, err %v; want a backend error", ok, err)
	}
	if err := s.Set(ctx, "k", []byte("v"), time.Minute); err == nil {
		t.Error("Set() should surface the backend error")
	}
	if _, err := s.DeleteByPrefix(ctx, "espacios:{"); err == nil {
		t.Error("DeleteByPrefix() should surface the backend error")
	}
	if err := s.Delete(ctx); err != nil {
		t.Errorf("Delete() without keys should be a no-op, got %v", err)
	}
}

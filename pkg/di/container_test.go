package di

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goliatone/go-coworking/cache"
	"github.com/goliatone/go-coworking/internal/config"
	"github.com/goliatone/go-coworking/internal/models"
	"github.com/goliatone/go-coworking/pkg/testsupport"
	"github.com/google/uuid"
	"go.uber.org/zap/zaptest"
)

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Auth.JWTSecret = "test-secret-0123456789"
	cfg.Cache.TTL = time.Minute
	return cfg
}

func newTestContainer(t *testing.T, opts ...Option) *Container {
	t.Helper()

	opts = append([]Option{WithDB(testsupport.NewTestDB(t))}, opts...)
	c, err := NewContainer(context.Background(), testConfig(), zaptest.NewLogger(t), opts...)
	if err != nil {
		t.Fatalf("NewContainer() failed: %v", err)
	}
	t.Cleanup(c.Close)
	return c
}

func TestNewContainer(t *testing.T) {
	c := newTestContainer(t)

	if c.DB() == nil {
		t.Error("Container should have a database handle")
	}
	if c.Cache() == nil {
		t.Error("Container should have a cache")
	}
	if c.Cache().TTL() != time.Minute {
		t.Errorf("expected cache TTL 1m, got %v", c.Cache().TTL())
	}
	if c.Auth() == nil {
		t.Error("Container should have an authenticator")
	}
	if c.Registry() == nil {
		t.Error("Container should have a metrics registry")
	}
	if c.Config().Auth.JWTSecret != "test-secret-0123456789" {
		t.Error("Config() should return the config the container was built from")
	}

	repos := c.Repositories()
	if repos == nil {
		t.Fatal("Container should have repositories")
	}
	if repos.Buildings == nil || repos.Reservations == nil || repos.Reviews == nil || repos.Users == nil {
		t.Error("every repository should be wired")
	}
}

func TestNewContainer_NilConfig(t *testing.T) {
	if _, err := NewContainer(context.Background(), nil, nil); err == nil {
		t.Error("NewContainer(nil) should fail")
	}
}

func TestNewContainer_InvalidCacheConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Cache.Capacity = 0

	_, err := NewContainer(context.Background(), cfg, nil, WithDB(testsupport.NewTestDB(t)))
	if err == nil {
		t.Fatal("expected an error for an invalid cache config")
	}
}

func TestNewContainer_UnsupportedDriver(t *testing.T) {
	cfg := testConfig()
	cfg.Database.Driver = "oracle"

	if _, err := NewContainer(context.Background(), cfg, nil); err == nil {
		t.Error("expected an error for an unsupported database driver")
	}
}

type countingStore struct {
	cache.Store
	gets int
}

func (s *countingStore) Get(ctx context.Context, key string) (any, bool, error) {
	s.gets++
	return s.Store.Get(ctx, key)
}

func TestNewContainer_WithStore(t *testing.T) {
	base, err := cache.NewStore(cache.DefaultConfig())
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	store := &countingStore{Store: base}
	c := newTestContainer(t, WithStore(store))

	if _, err := c.Repositories().Buildings.Active(context.Background(), 0, 20); err != nil {
		t.Fatalf("Active() error = %v", err)
	}
	if store.gets == 0 {
		t.Error("repositories should read through the injected store")
	}
}

func TestNewContainer_WithClock(t *testing.T) {
	clock := testsupport.NewClock(time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC))
	c := newTestContainer(t, WithClock(clock.Now))

	token, err := c.Auth().Issue(uuid.New(), models.RoleUser)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	if _, err := c.Auth().Parse(token); err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	clock.Advance(25 * time.Hour)
	if _, err := c.Auth().Parse(token); err == nil {
		t.Error("token should expire on the container clock")
	}
}

func TestHandler_HealthAndMetrics(t *testing.T) {
	c := newTestContainer(t)
	h := c.Handler()

	for _, path := range []string{"/health", "/metrics"} {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusOK {
			t.Errorf("GET %s = %d, want 200", path, rec.Code)
		}
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/edificios", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("GET /edificios without a token = %d, want 401", rec.Code)
	}
}

func TestHandler_HealthReportsClosedDatabase(t *testing.T) {
	db := testsupport.NewTestDB(t)
	c, err := NewContainer(context.Background(), testConfig(), nil, WithDB(db))
	if err != nil {
		t.Fatalf("NewContainer() failed: %v", err)
	}
	h := c.Handler()
	if err := db.Close(); err != nil {
		t.Fatalf("close db: %v", err)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("GET /health = %d, want 503", rec.Code)
	}
}

func TestClose_KeepsInjectedDB(t *testing.T) {
	db := testsupport.NewTestDB(t)
	c, err := NewContainer(context.Background(), testConfig(), nil, WithDB(db))
	if err != nil {
		t.Fatalf("NewContainer() failed: %v", err)
	}
	c.Close()

	if err := db.PingContext(context.Background()); err != nil {
		t.Errorf("Close() should not close an injected database: %v", err)
	}
}

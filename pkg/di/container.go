package di

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/goliatone/go-coworking/cache"
	"github.com/goliatone/go-coworking/internal/auth"
	"github.com/goliatone/go-coworking/internal/config"
	"github.com/goliatone/go-coworking/internal/httpapi"
	"github.com/goliatone/go-coworking/internal/repo"
	"github.com/goliatone/go-coworking/internal/store"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// Container owns the process-wide handles of the service: the database, the
// cache store and everything built on them. Handles are constructed once and
// injected, never reached through globals.
type Container struct {
	config   *config.Config
	logger   *zap.Logger
	db       *bun.DB
	store    cache.Store
	cache    *cache.Cache
	registry *prometheus.Registry
	repos    *repo.Repositories
	auth     *auth.Authenticator
	now      func() time.Time
	ownsDB   bool
}

// Option customizes a Container.
type Option func(*Container)

// WithDB uses db instead of opening the configured database. The container
// does not close it.
func WithDB(db *bun.DB) Option {
	return func(c *Container) {
		c.db = db
	}
}

// WithStore uses store instead of building the configured cache backend.
func WithStore(s cache.Store) Option {
	return func(c *Container) {
		c.store = s
	}
}

// WithClock sets the clock used by repositories and token issuing.
func WithClock(now func() time.Time) Option {
	return func(c *Container) {
		c.now = now
	}
}

// NewContainer opens the database, builds the cache and wires every
// repository from cfg. Tables are created when missing.
func NewContainer(ctx context.Context, cfg *config.Config, logger *zap.Logger, opts ...Option) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("di: nil config")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	c := &Container{
		config:   cfg,
		logger:   logger,
		registry: prometheus.NewRegistry(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}

	c.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	if c.db == nil {
		db, err := store.Open(ctx, store.Config{
			Driver:       cfg.Database.Driver,
			DSN:          cfg.Database.DSN,
			MaxOpenConns: cfg.Database.MaxOpenConns,
		})
		if err != nil {
			return nil, err
		}
		c.db = db
		c.ownsDB = true
	}
	if err := store.Migrate(ctx, c.db); err != nil {
		c.Close()
		return nil, err
	}

	if c.store == nil {
		s, err := cache.NewStore(cfg.CacheStore())
		if err != nil {
			c.Close()
			return nil, fmt.Errorf("cache store: %w", err)
		}
		c.store = s
	}

	c.cache = cache.New(c.store,
		cache.WithTTL(cfg.Cache.TTL),
		cache.WithLogger(logger.Named("cache")),
		cache.WithMetrics(cache.NewMetrics(c.registry)),
	)

	c.repos = repo.NewRepositories(repo.Deps{
		DB:     c.db,
		Cache:  c.cache,
		Logger: logger.Named("repo"),
		Now:    c.now,
	})

	c.auth = auth.New(cfg.Auth.JWTSecret, cfg.Auth.Issuer, cfg.Auth.TokenTTL, auth.WithClock(c.now))

	logger.Info("container ready",
		zap.String("database", cfg.Database.Driver),
		zap.String("cache", cfg.Cache.Driver),
		zap.Duration("cacheTTL", cfg.Cache.TTL),
	)
	return c, nil
}

// Config returns the configuration the container was built from.
func (c *Container) Config() *config.Config {
	return c.config
}

// DB returns the shared bun handle.
func (c *Container) DB() *bun.DB {
	return c.db
}

// Cache returns the shared read-through cache.
func (c *Container) Cache() *cache.Cache {
	return c.cache
}

// Repositories returns the entity repositories.
func (c *Container) Repositories() *repo.Repositories {
	return c.repos
}

// Auth returns the token authenticator.
func (c *Container) Auth() *auth.Authenticator {
	return c.auth
}

// Registry returns the prometheus registry served on /metrics.
func (c *Container) Registry() *prometheus.Registry {
	return c.registry
}

// Handler builds the HTTP API on the container's repositories.
func (c *Container) Handler() http.Handler {
	srv := httpapi.New(httpapi.Options{
		Repos:  c.repos,
		Auth:   c.auth,
		Logger: c.logger.Named("http"),
		Limits: httpapi.Limits{
			Default: c.config.API.DefaultLimit,
			Max:     c.config.API.MaxLimit,
		},
		Gatherer:    c.registry,
		Ping:        c.db.PingContext,
		CORSOrigins: c.config.Server.CORSOrigins,
		RateLimit:   c.config.Server.RateLimit,
		RateWindow:  c.config.Server.RateWindow,
	})
	return srv.Handler()
}

// Close releases the cache store and, when the container opened it, the
// database.
func (c *Container) Close() {
	if closer, ok := c.store.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			c.logger.Warn("close cache store", zap.Error(err))
		}
	}
	if c.ownsDB && c.db != nil {
		if err := c.db.Close(); err != nil {
			c.logger.Warn("close database", zap.Error(err))
		}
	}
}

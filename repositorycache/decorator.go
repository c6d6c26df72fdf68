package repositorycache

import (
	"context"
	"fmt"
	"time"

	"github.com/goliatone/go-coworking/cache"
	"github.com/goliatone/go-coworking/internal/apperr"
	"github.com/goliatone/go-coworking/internal/store"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// Entity is a persisted record with an immutable UUID.
type Entity interface {
	GetID() uuid.UUID
}

// Source is the subset of a go-repository-bun repository the cached
// repository reads and writes through.
type Source[T any] interface {
	GetByID(ctx context.Context, id string, criteria ...repository.SelectCriteria) (T, error)
	List(ctx context.Context, criteria ...repository.SelectCriteria) ([]T, int, error)
	Create(ctx context.Context, record T, criteria ...repository.InsertCriteria) (T, error)
	Delete(ctx context.Context, record T) error
}

var _ Source[any] = (repository.Repository[any])(nil)

// Axis returns the lookup keys a record currently belongs to, such as
// "edificios:{edificioId}-espacios" or "espacios:tipo:sala_reuniones".
// Empty strings are ignored.
type Axis[T any] func(record T) []string

// Options configures a Repository.
type Options[T any] struct {
	// Namespace is the entity name used in keys. It is normalized to snake_case.
	Namespace string
	// TTL overrides the cache default for this entity.
	TTL time.Duration
	// Axes derive the foreign-key and classifying keys of a record.
	Axes []Axis[T]
	// Families are extra key prefixes dropped on every mutation, typically
	// range lookups whose key set is open-ended.
	Families []string
	// Expand attaches related records after every read. Cache entries hold
	// bare records only, so related data always comes from its own entries
	// and a write to the related record is visible on the next read.
	Expand func(ctx context.Context, record T) error
	Logger *zap.Logger
}

// Repository caches reads of one entity and invalidates every key a write
// can affect.
type Repository[T Entity] struct {
	source   Source[T]
	db       bun.IDB
	cache    *cache.Cache
	keys     cache.Keys
	ttl      time.Duration
	axes     []Axis[T]
	families []string
	expand   func(ctx context.Context, record T) error
	logger   *zap.Logger
}

// New creates a Repository over source. db is used for updates, which are
// written column-for-column so that false and zero values persist.
func New[T Entity](source Source[T], db bun.IDB, c *cache.Cache, opts Options[T]) *Repository[T] {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	ns := Namespace(opts.Namespace)

	return &Repository[T]{
		source:   source,
		db:       db,
		cache:    c,
		keys:     cache.NewKeys(ns),
		ttl:      opts.TTL,
		axes:     opts.Axes,
		families: opts.Families,
		expand:   opts.Expand,
		logger:   logger.With(zap.String("entity", ns)),
	}
}

// Keys returns the key deriver of the entity namespace.
func (r *Repository[T]) Keys() cache.Keys {
	return r.keys
}

// DB returns the database handle for entity-specific queries.
func (r *Repository[T]) DB() bun.IDB {
	return r.db
}

// Cache returns the shared cache.
func (r *Repository[T]) Cache() *cache.Cache {
	return r.cache
}

// GetByID reads one record through its by-id key.
func (r *Repository[T]) GetByID(ctx context.Context, id uuid.UUID) (T, error) {
	record, err := cache.Fetch(ctx, r.cache, r.keys.ByID(id.String()), r.ttl, func(ctx context.Context) (T, error) {
		return r.load(ctx, id)
	})
	if err != nil {
		return record, err
	}
	return r.expandOne(ctx, record)
}

// Exists returns a NotFound error when no record has id.
func (r *Repository[T]) Exists(ctx context.Context, id uuid.UUID) error {
	_, err := r.GetByID(ctx, id)
	return err
}

// Find reads the records matching criteria through key. Empty results are
// cached as an empty list.
func (r *Repository[T]) Find(ctx context.Context, key string, criteria ...repository.SelectCriteria) ([]T, error) {
	records, err := cache.Fetch(ctx, r.cache, key, r.ttl, func(ctx context.Context) ([]T, error) {
		return r.query(ctx, criteria...)
	})
	if err != nil {
		return nil, err
	}
	return r.expandAll(ctx, records)
}

// FindOne reads the single record matching criteria through key. A missing
// record is reported as not found and is not cached.
func (r *Repository[T]) FindOne(ctx context.Context, key string, criteria ...repository.SelectCriteria) (T, error) {
	record, err := cache.Fetch(ctx, r.cache, key, r.ttl, func(ctx context.Context) (T, error) {
		var zero T
		records, err := r.query(ctx, append(criteria, Limit(1))...)
		if err != nil {
			return zero, err
		}
		if len(records) == 0 {
			return zero, apperr.NotFound(r.keys.Entity(), key)
		}
		return records[0], nil
	})
	if err != nil {
		return record, err
	}
	return r.expandOne(ctx, record)
}

// List reads one page of records matching filters. filters is any value the
// cache key serializer accepts; criteria must express the same constraints.
func (r *Repository[T]) List(ctx context.Context, filters any, skip, limit int, criteria ...repository.SelectCriteria) ([]T, error) {
	key := r.keys.List(filters, skip, limit)
	return r.Find(ctx, key, append(criteria, Page(skip, limit))...)
}

// Active reads one page of records whose activo flag is set.
func (r *Repository[T]) Active(ctx context.Context, skip, limit int) ([]T, error) {
	return r.Find(ctx, r.keys.Active(skip, limit), Where("activo", true), Page(skip, limit))
}

// Query reads straight from the store, bypassing the cache.
func (r *Repository[T]) Query(ctx context.Context, criteria ...repository.SelectCriteria) ([]T, error) {
	records, err := r.query(ctx, criteria...)
	if err != nil {
		return nil, err
	}
	return r.expandAll(ctx, records)
}

func (r *Repository[T]) query(ctx context.Context, criteria ...repository.SelectCriteria) ([]T, error) {
	records, _, err := r.source.List(ctx, criteria...)
	if err != nil {
		return nil, apperr.Infrastructure(err, fmt.Sprintf("list %s", r.keys.Entity()))
	}
	if records == nil {
		records = []T{}
	}
	return records, nil
}

// Remember caches the result of an arbitrary store computation (for example
// an aggregation) under key with the entity TTL.
func Remember[T Entity, V any](ctx context.Context, r *Repository[T], key string, fetch cache.FetchFn[V]) (V, error) {
	return cache.Fetch(ctx, r.cache, key, r.ttl, fetch)
}

// Create persists record and invalidates the families and every axis key the
// new record belongs to. A failed create invalidates nothing.
func (r *Repository[T]) Create(ctx context.Context, record T) (T, error) {
	if withID, ok := any(record).(interface{ SetID(uuid.UUID) }); ok && record.GetID() == uuid.Nil {
		withID.SetID(uuid.New())
	}
	touch(record)

	created, err := r.source.Create(ctx, record)
	if err != nil {
		var zero T
		return zero, r.writeError(err, "create")
	}

	r.invalidate(ctx, "", nil, r.axisKeys(created))
	return r.expandWritten(ctx, created), nil
}

// Update reads the current record from the store, applies mutate and writes
// the result. mutate may reject the change by returning an error, in which
// case nothing is written or invalidated. The by-id key and the axis keys of
// both the old and the new state are invalidated.
func (r *Repository[T]) Update(ctx context.Context, id uuid.UUID, mutate func(T) error) (T, error) {
	var zero T

	current, err := r.load(ctx, id)
	if err != nil {
		return zero, err
	}
	pre := r.axisKeys(current)

	if err := mutate(current); err != nil {
		return zero, err
	}
	touch(current)

	if _, err := r.db.NewUpdate().Model(current).WherePK().Exec(ctx); err != nil {
		return zero, r.writeError(err, "update")
	}

	updated, err := r.load(ctx, id)
	if err != nil {
		r.logger.Warn("reload after update failed", zap.Stringer("id", id), zap.Error(err))
		updated = current
	}

	r.invalidate(ctx, id.String(), pre, r.axisKeys(updated))
	return r.expandWritten(ctx, updated), nil
}

// Delete removes the record and invalidates its by-id key, its axis keys and
// the families.
func (r *Repository[T]) Delete(ctx context.Context, id uuid.UUID) (T, error) {
	var zero T

	current, err := r.load(ctx, id)
	if err != nil {
		return zero, err
	}

	if err := r.source.Delete(ctx, current); err != nil {
		return zero, r.writeError(err, "delete")
	}

	r.invalidate(ctx, id.String(), r.axisKeys(current), nil)
	return current, nil
}

// Invalidate drops extra keys, for cross-entity effects.
func (r *Repository[T]) Invalidate(ctx context.Context, keys ...string) {
	r.cache.Invalidate(ctx, keys...)
}

func (r *Repository[T]) load(ctx context.Context, id uuid.UUID) (T, error) {
	record, err := r.source.GetByID(ctx, id.String())
	if err != nil {
		var zero T
		if store.IsNotFound(err) {
			return zero, apperr.NotFound(r.keys.Entity(), id.String())
		}
		return zero, apperr.Infrastructure(err, fmt.Sprintf("get %s %s", r.keys.Entity(), id))
	}
	return record, nil
}

func touch(record any) {
	if t, ok := record.(interface{ Touch(time.Time) }); ok {
		t.Touch(time.Now())
	}
}

func (r *Repository[T]) expandOne(ctx context.Context, record T) (T, error) {
	if r.expand == nil {
		return record, nil
	}
	if err := r.expand(ctx, record); err != nil {
		var zero T
		return zero, err
	}
	return record, nil
}

// expandWritten expands a record that is already persisted. A failure only
// leaves the related records out of the result.
func (r *Repository[T]) expandWritten(ctx context.Context, record T) T {
	if r.expand == nil {
		return record
	}
	if err := r.expand(ctx, record); err != nil {
		r.logger.Warn("expand after write failed", zap.Stringer("id", record.GetID()), zap.Error(err))
	}
	return record
}

func (r *Repository[T]) expandAll(ctx context.Context, records []T) ([]T, error) {
	if r.expand == nil {
		return records, nil
	}
	for _, record := range records {
		if err := r.expand(ctx, record); err != nil {
			return nil, err
		}
	}
	return records, nil
}

func (r *Repository[T]) axisKeys(record T) []string {
	var keys []string
	for _, axis := range r.axes {
		keys = append(keys, axis(record)...)
	}
	return keys
}

// invalidate drops the by-id key, the pre and post axis keys and every list
// family of the entity.
func (r *Repository[T]) invalidate(ctx context.Context, id string, pre, post []string) {
	keys := make([]string, 0, 1+len(pre)+len(post))
	if id != "" {
		keys = append(keys, r.keys.ByID(id))
	}
	keys = append(keys, pre...)
	keys = append(keys, post...)

	r.cache.Invalidate(ctx, keys...)

	families := append([]string{r.keys.ListFamily(), r.keys.ActiveFamily()}, r.families...)
	r.cache.InvalidatePrefix(ctx, families...)

	r.logger.Debug("invalidated",
		zap.Strings("keys", keys),
		zap.Strings("families", families),
	)
}

func (r *Repository[T]) writeError(err error, op string) error {
	if k := apperr.KindOf(err); k != apperr.KindUnknown && k != apperr.KindInfrastructure {
		return err
	}
	if store.IsUniqueViolation(err) {
		return apperr.Conflict("", fmt.Sprintf("%s already exists", r.keys.Entity()))
	}
	return apperr.Infrastructure(err, fmt.Sprintf("%s %s", op, r.keys.Entity()))
}

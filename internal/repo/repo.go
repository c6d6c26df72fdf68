// Package repo holds one cached repository per entity and the hooks that
// keep denormalized data (ratings, membership snapshots) in sync.
package repo

import (
	"context"
	"strings"
	"time"

	"github.com/goliatone/go-coworking/cache"
	"github.com/goliatone/go-coworking/internal/apperr"
	"github.com/goliatone/go-coworking/repositorycache"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// Deps are the shared handles every repository is built from.
type Deps struct {
	DB     *bun.DB
	Cache  *cache.Cache
	Logger *zap.Logger
	// TTL overrides the cache default for all entities when set.
	TTL time.Duration
	// Now is the clock used for validity checks. Defaults to time.Now.
	Now func() time.Time
}

func (d Deps) now() time.Time {
	if d.Now != nil {
		return d.Now().UTC()
	}
	return time.Now().UTC()
}

func (d Deps) logger() *zap.Logger {
	if d.Logger == nil {
		return zap.NewNop()
	}
	return d.Logger
}

type model[M any] interface {
	*M
	repositorycache.Entity
	SetID(uuid.UUID)
}

// newSource builds the go-repository-bun repository for model M.
func newSource[M any, P model[M]](db *bun.DB) repository.Repository[P] {
	return repository.NewRepository[P](db, repository.ModelHandlers[P]{
		NewRecord: func() P {
			return P(new(M))
		},
		GetID: func(record P) uuid.UUID {
			if record == nil {
				return uuid.Nil
			}
			return record.GetID()
		},
		SetID: func(record P, id uuid.UUID) {
			record.SetID(id)
		},
		GetIdentifier: func() string {
			return "id"
		},
	})
}

func newEngine[M any, P model[M]](d Deps, opts repositorycache.Options[P]) *repositorycache.Repository[P] {
	if opts.TTL == 0 {
		opts.TTL = d.TTL
	}
	opts.Logger = d.logger()
	return repositorycache.New[P](newSource[M, P](d.DB), d.DB, d.Cache, opts)
}

type activatable interface {
	repositorycache.Entity
	IsActive() bool
	SetActive(bool)
}

// setActive flips the activo flag. Soft-deleted records stay in the store and
// drop out of the active listing.
func setActive[T activatable](ctx context.Context, r *repositorycache.Repository[T], id uuid.UUID, active bool) (T, error) {
	return r.Update(ctx, id, func(record T) error {
		record.SetActive(active)
		return nil
	})
}

// parent returns a one-to-many axis key for an optional foreign key.
func parent(k cache.Keys, parentNamespace string, id uuid.UUID) string {
	if id == uuid.Nil {
		return ""
	}
	return k.ByParent(parentNamespace, id.String())
}

// normalize lower-cases and trims case-insensitive lookup values.
func normalize(v string) string {
	return strings.ToLower(strings.TrimSpace(v))
}

// requireActive fails with InvalidState when the referenced record is soft-deleted.
func requireActive(record activatable, what string) error {
	if !record.IsActive() {
		return apperr.InvalidState(what + " is not active")
	}
	return nil
}

// reference resolves a foreign key, reporting a missing target as a
// validation error on field.
func reference[T repositorycache.Entity](ctx context.Context, r *repositorycache.Repository[T], id uuid.UUID, field string) (T, error) {
	record, err := r.GetByID(ctx, id)
	if apperr.Is(err, apperr.KindNotFound) {
		var zero T
		return zero, apperr.Validation(field, field+" references a missing record")
	}
	return record, err
}

// related reads the record id points to, for embedding in a response. An
// absent id or a record that no longer exists embeds nothing.
func related[T repositorycache.Entity](ctx context.Context, r *repositorycache.Repository[T], id uuid.UUID) (T, error) {
	var zero T
	if id == uuid.Nil {
		return zero, nil
	}
	record, err := r.GetByID(ctx, id)
	if apperr.Is(err, apperr.KindNotFound) {
		return zero, nil
	}
	return record, err
}

func rangeKey(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

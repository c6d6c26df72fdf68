// Package repositorycache is the cached repository engine every entity
// repository is built on.
//
// # Overview
//
// A Repository[T] sits on top of a go-repository-bun repository (the Source)
// and the shared cache.Cache. Reads go through the cache; writes go to the
// store and then invalidate every key the write can have made stale.
//
// # Basic Usage
//
//	keys := cache.NewKeys("espacios")
//	spaces := repositorycache.New[*models.Space](source, db, c, repositorycache.Options[*models.Space]{
//		Namespace: keys.Entity(),
//		Axes: []repositorycache.Axis[*models.Space]{
//			func(s *models.Space) []string {
//				return []string{
//					keys.ByParent("edificios", s.EdificioID.String()),
//					keys.ByField("tipo", string(s.Tipo)),
//				}
//			},
//		},
//	})
//
//	space, err := spaces.GetByID(ctx, id)
//	page, err := spaces.List(ctx, filter, 0, 20, filter.criteria()...)
//
// # Reads
//
//   - GetByID, Exists: the by-id key
//   - List: a filtered page keyed by the serialized filter
//   - Active: a page of records with activo set
//   - Find, FindOne: any caller-chosen key backed by select criteria
//   - Remember: any computed value (averages, counts) under a caller-chosen key
//   - Query: straight to the store, never cached
//
// # Writes and Invalidation
//
// Axes describe which lookup keys a record belongs to: its parent lists and
// its classifying values. On every write the engine drops:
//
//   - the by-id key (update and delete)
//   - the axis keys of the record before the write
//   - the axis keys of the record after the write
//   - the list and active families, plus any extra Families
//
// Computing axis keys on both sides means a record that changes parent or
// classification leaves the old lookup and joins the new one. A write that
// fails, or an Update whose mutate function returns an error, invalidates
// nothing.
//
// Update runs load, mutate, write, reload. The write updates every column, so
// false and zero values persist.
//
// # Errors
//
// Store failures are returned as apperr infrastructure errors, missing rows as
// NotFound, and unique constraint violations as Conflict. Errors already
// classified by a mutate function pass through unchanged. Cache failures never
// reach the caller.
package repositorycache

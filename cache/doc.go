// Package cache provides the read-through cache shared by every repository
// and the key scheme that lets writes find the entries they make stale.
//
// # Overview
//
// The package exports three pieces:
//
//   - Store: the key-value backend (in-process sturdyc or redis)
//   - Cache and Fetch: the read-through and invalidation policy over a Store
//   - Keys and SerializeFilters: deterministic key derivation per entity
//
// The cache is never the source of truth. Any Store failure is logged and
// counted, and the caller is served from the database instead.
//
// # Basic Usage
//
//	store, err := cache.NewStore(cache.DefaultConfig())
//	c := cache.New(store, cache.WithTTL(time.Hour), cache.WithLogger(logger))
//
//	keys := cache.NewKeys("espacios")
//	spaces, err := cache.Fetch(ctx, c, keys.ByParent("edificios", id), 0,
//		func(ctx context.Context) ([]*models.Space, error) {
//			return loadSpacesOfBuilding(ctx, id)
//		})
//
// # Key Scheme
//
//	id:{id}-{entity}                            one record
//	{entity}:{filters}:skip={n}:limit={m}       filtered page
//	{entity}:activos:skip={n}:limit={m}         active page
//	{parent}:{parentID}-{entity}                records of one parent
//	{entity}:{field}:{value}                    records with a classifying value
//	{entity}:{axis}:{start}-{end}               records in a range
//
// Filtered pages embed SerializeFilters output, which is canonical JSON:
// sorted keys, zero values dropped, explicit pointers kept. Two requests with
// the same constraints therefore share one entry regardless of the order in
// which the client sent them.
//
// # Invalidation
//
// Keys with a closed key set (by id, by parent, by field) are removed
// individually with Invalidate. Families whose keys cannot be enumerated
// (filtered pages, active pages, ranges) are removed by prefix with
// InvalidatePrefix, which scans the key space of the backend.
//
// # Values
//
// Values are stored as JSON. An entry that cannot be decoded into the
// requested type is treated as a miss and overwritten. Errors returned by the
// fetch function are never cached; empty results are.
package cache

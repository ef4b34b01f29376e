// Package cache provides a generic key-value cache with TTL support and two
// backends: an in-process map ([Memory]) and Redis ([Redis]).
//
// The session store keeps session records in a Cache, so development and
// tests run against [NewMemory] while production points the same code at
// Redis:
//
//	records := cache.NewRedis[session.Record](client, cache.WithPrefix("sess"))
//	store := session.NewCacheStore(records)
//
// TTL passed to Set: positive expires after the duration, zero uses the
// backend default, negative never expires.
//
// [Loader] wraps a Cache with read-through loading. Concurrent misses for the
// same key share a single call of the load function.
package cache

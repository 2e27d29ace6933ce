// Package cache provides the in-memory TTL caches used by the router.
//
// A single Cache type supports two eviction policies selected at
// construction. The decision cache memoizes routing decisions and evicts the
// least recently accessed entry on overflow. The data cache stores query
// results with a lifetime per operation class; on overflow it first sweeps
// every expired entry and then drops the oldest inserted entry. Both are safe
// for concurrent use and are owned by the composition root, never globals.
package cache

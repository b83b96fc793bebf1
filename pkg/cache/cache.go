// Package cache stores parsed descriptors between runs.
//
// The parse pass is the only part of a run that touches every descriptor, so
// its results are cached keyed by the descriptor path and a hash of its
// content. Three backends implement [Cache]:
//
//   - [FileCache]: JSON entries under the user cache directory (CLI default)
//   - [RedisCache]: a shared Redis instance, for CI runners scanning the same
//     monorepo
//   - [NullCache]: caching disabled
//
// Keys are produced by a [Keyer] so that backends never see raw paths and so
// a [ScopedKeyer] can isolate several projects sharing one backend.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with per-entry TTL.
//
// Get reports a miss as (nil, false, nil); errors are reserved for backend
// failures. Implementations must be safe for concurrent use.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

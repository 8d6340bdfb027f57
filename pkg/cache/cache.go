// Package cache provides byte caches for scan results and rendered
// artifacts.
//
// # Backends
//
//   - [FileCache]: one file per entry under a directory, used by the CLI
//   - [MemoryCache]: bounded in-process LRU, used by the HTTP server
//   - [RedisCache]: shared cache for multi-instance deployments
//   - [NullCache]: never stores anything
//
// # Keys
//
// A [Keyer] derives keys from the inputs of a computation, so any change
// to the marker set or the options produces a new key:
//
//	k := cache.NewDefaultKeyer()
//	key := k.ScanKey("Rail Yard", markersHash, cache.ScanKeyOpts{Distance: 12, Angle: 0.16})
//
// Use [NewScopedKeyer] to isolate namespaces sharing one backend.
package cache

import (
	"context"
	"time"
)

// ArtifactTTL is the default lifetime of a rendered artifact.
const ArtifactTTL = 7 * 24 * time.Hour

// Cache stores opaque byte values by key.
//
// Get reports a miss as (nil, false, nil); errors are reserved for backend
// failures. A ttl of zero means the entry does not expire.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

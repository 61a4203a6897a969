// Package cache stores computed layouts and rendered artifacts.
//
// # Backends
//
//   - [FileCache]: one JSON file per entry under a directory (CLI default)
//   - [RedisCache]: Redis, for servers sharing a cache
//   - [MongoCache]: a MongoDB collection with a TTL index
//   - [NullCache]: stores nothing (caching disabled)
//
// # Keys
//
// A [Keyer] derives keys from content hashes and the options that affect
// the cached value:
//
//	keyer := cache.NewDefaultKeyer()
//	key := keyer.LayoutKey(sceneHash, cache.LayoutKeyOpts{Width: 800})
//
// [ScopedKeyer] prefixes keys to give tenants separate namespaces.
package cache

import (
	"context"
	"time"
)

// Default time-to-live values per entry type.
const (
	TTLLayout   = 7 * 24 * time.Hour
	TTLArtifact = 30 * 24 * time.Hour
	TTLGraph    = 7 * 24 * time.Hour
)

// Cache is a byte-oriented key/value store with expiration.
type Cache interface {
	// Get returns the value for key. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases backend resources.
	Close() error
}

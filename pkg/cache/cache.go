// Package cache stores derived byte blobs (fetched datasets, layouts,
// rendered artifacts) under deterministic keys.
//
// Three backends implement [Cache]:
//   - [FileCache]: one JSON file per entry under a directory, for the CLI
//   - [RedisCache]: shared cache for several server instances
//   - [NullCache]: stores nothing
//
// Keys come from a [Keyer]. [DefaultKeyer] hashes the inputs that affect an
// output, so changing any layout or render option yields a new key.
package cache

import (
	"context"
	"time"
)

// Cache is a byte store with per-entry expiry. Implementations must be safe
// for concurrent use.
type Cache interface {
	// Get returns the stored value and whether it was found. Expired
	// entries are reported as misses.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero or less never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Clearer is implemented by caches that can drop every entry they own.
type Clearer interface {
	Clear(ctx context.Context) error
}

// Default expiry per kind of entry.
const (
	TTLHTTP     = 24 * time.Hour
	TTLDataset  = time.Hour
	TTLLayout   = 7 * 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

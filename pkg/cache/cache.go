// Package cache stores rendered artifacts so that identical documents are
// drawn once.
//
// Three backends implement [Cache]:
//   - [FileCache]: one file per artifact under a directory, for the CLI
//   - [RedisCache]: a shared Redis instance, for the HTTP service
//   - [NullCache]: stores nothing, for --no-cache and tests
//
// Keys come from a [Keyer]. Artifact keys hash the document source together
// with the output format:
//
//	key := cache.NewDefaultKeyer().ArtifactKey(cache.Hash(src), "svg")
//	if data, ok, _ := c.Get(ctx, key); ok {
//	    return data, nil
//	}
package cache

import (
	"context"
	"time"
)

// DefaultTTL is how long artifacts are kept when no TTL is configured.
const DefaultTTL = 24 * time.Hour

// Cache is a byte-oriented key-value store with expiry. A miss is reported
// as ok == false with a nil error.
type Cache interface {
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Clearer is implemented by caches that can drop every entry they own.
type Clearer interface {
	Clear(ctx context.Context) error
}

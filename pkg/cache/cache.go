package cache

import (
	"context"
	"time"
)

type Cache[K comparable, V any] interface {
	Get(key K) (V, bool)
	Put(key K, value V, ttl time.Duration)
	GetOrLoad(ctx context.Context, key K, ttl time.Duration, load LoadFunc[K, V]) (V, error)
	Delete(key K) bool
	Has(key K) bool
	Len() int
	Capacity() int
	Purge()
	StartCleanup(interval time.Duration)
	StopCleanup()
	SetOnEvicted(onEvicted func(key K, value V))
}

// LoadFunc fetches a value missing from the cache. Errors are never cached.
type LoadFunc[K comparable, V any] func(ctx context.Context, key K) (V, error)

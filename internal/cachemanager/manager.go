// Package cachemanager provides typed cache abstractions over go-cache.
package cachemanager

import (
	"context"
	"errors"
	"time"
)

// ErrExists is returned by Add when the key is already present.
var ErrExists = errors.New("cache key already exists")

// NoExpiration keeps an item until it is deleted or the cache is flushed.
const NoExpiration time.Duration = -1

type CacheManager[K ~string, V any] interface {
	Get(ctx context.Context, key K) (V, bool)
	GetWithRefresh(ctx context.Context, key K, ttl time.Duration) (V, bool)
	Set(ctx context.Context, key K, value V, ttl time.Duration)
	Add(ctx context.Context, key K, value V, ttl time.Duration) error
	Items(ctx context.Context) map[K]V
	Count(ctx context.Context) int
	Delete(ctx context.Context, keys ...K) error
	Flush(ctx context.Context) error
}

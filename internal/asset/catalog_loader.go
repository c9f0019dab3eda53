package asset

import (
	"context"
	"fmt"
	"time"

	"github.com/zjrosen/strata/internal/cachemanager"
	"github.com/zjrosen/strata/internal/catalog"
	"github.com/zjrosen/strata/internal/log"
)

// BuildFunc turns a catalog definition into a loadable resource.
type BuildFunc func(def catalog.Definition) (Resource, error)

// CatalogLoader resolves addresses through a catalog store. Definitions are
// cached read-through; Invalidate drops them after the catalog changes. A zero
// TTL reads the store on every load.
type CatalogLoader struct {
	store   catalog.Store
	build   BuildFunc
	latency time.Duration
	ttl     time.Duration
	sliding bool
	defs    *cachemanager.ReadThroughCache[string, catalog.Definition, string]
	async   Loader
}

// CatalogOption configures a CatalogLoader.
type CatalogOption func(*CatalogLoader)

// WithLatency delays every load, simulating slow asset storage.
func WithLatency(d time.Duration) CatalogOption {
	return func(l *CatalogLoader) {
		l.latency = d
	}
}

// WithDefinitionTTL sets how long definitions stay cached.
func WithDefinitionTTL(ttl time.Duration) CatalogOption {
	return func(l *CatalogLoader) {
		l.ttl = ttl
	}
}

// WithSlidingTTL restarts a definition's TTL on every cache hit, so panels
// that keep loading never go back to the store.
func WithSlidingTTL(sliding bool) CatalogOption {
	return func(l *CatalogLoader) {
		l.sliding = sliding
	}
}

// NewCatalogLoader creates a loader over store. Loads run asynchronously.
func NewCatalogLoader(store catalog.Store, build BuildFunc, opts ...CatalogOption) *CatalogLoader {
	l := &CatalogLoader{
		store: store,
		build: build,
		ttl:   cachemanager.DefaultExpiration,
	}
	for _, opt := range opts {
		opt(l)
	}
	cache := cachemanager.NewInMemoryCacheManager[string, catalog.Definition](
		"catalog-definitions", l.ttl, cachemanager.DefaultCleanupInterval)
	l.defs = cachemanager.NewReadThroughCache[string, catalog.Definition, string](cache, l.store.Get, l.ttl == 0)
	l.async = Async(l.resolve, nil)
	return l
}

// Load implements Loader.
func (l *CatalogLoader) Load(ctx context.Context, address string) *Handle {
	return l.async.Load(ctx, address)
}

// Invalidate drops cached definitions; no addresses drops all.
func (l *CatalogLoader) Invalidate(ctx context.Context, addresses ...string) error {
	return l.defs.Invalidate(ctx, addresses...)
}

func (l *CatalogLoader) resolve(ctx context.Context, address string) (Resource, error) {
	start := time.Now()
	if l.latency > 0 {
		select {
		case <-time.After(l.latency):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	def, err := l.definition(ctx, address)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", address, err)
	}
	res, err := l.build(def)
	if err != nil {
		return nil, fmt.Errorf("building %s: %w", address, err)
	}
	log.Debug(log.CatAsset, "asset resolved", "address", address, "kind", def.Kind, "elapsed", time.Since(start))
	return res, nil
}

func (l *CatalogLoader) definition(ctx context.Context, address string) (catalog.Definition, error) {
	if l.sliding {
		return l.defs.GetWithRefresh(ctx, address, address, l.ttl)
	}
	return l.defs.Get(ctx, address, address, l.ttl)
}

package uimanager

import (
	"context"
	"slices"
	"sync"

	"github.com/zjrosen/strata/internal/asset"
	"github.com/zjrosen/strata/internal/cachemanager"
	"github.com/zjrosen/strata/internal/log"
	"github.com/zjrosen/strata/internal/panel"
)

// loadEntry tracks one address's load. The cache owns the handle's reference.
type loadEntry struct {
	address panel.Address
	handle  *asset.Handle
	status  asset.Status
}

// assetCache holds at most one load per address. Entries never expire; they
// leave on failure, Remove or ReleaseAll.
type assetCache struct {
	mu      sync.Mutex
	loader  asset.Loader
	entries cachemanager.CacheManager[panel.Address, *loadEntry]
}

func newAssetCache(loader asset.Loader) *assetCache {
	return &assetCache{
		loader:  loader,
		entries: cachemanager.NewInMemoryCacheManager[panel.Address, *loadEntry]("panel-assets", cachemanager.NoExpiration, 0),
	}
}

// Request returns the handle for address, starting a load if there is none.
// The bool reports whether a new load was issued.
func (c *assetCache) Request(ctx context.Context, address panel.Address) (*asset.Handle, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries.Get(ctx, address); ok {
		return e.handle, false
	}

	h := c.loader.Load(ctx, string(address))
	e := &loadEntry{address: address, handle: h, status: asset.StatusPending}
	if err := c.entries.Add(ctx, address, e, cachemanager.NoExpiration); err != nil {
		// Unreachable while mu is held; keep the existing winner.
		log.ErrorErr(log.CatAsset, "asset entry insert lost", err, "address", address)
		h.Release()
		if winner, ok := c.entries.Get(ctx, address); ok {
			return winner.handle, false
		}
		return asset.Failed(string(address), err), false
	}
	log.Debug(log.CatAsset, "asset load issued", "address", address)
	return h, true
}

// Settle records the completed status of h. A failed entry is dropped and its
// handle released so the next request retries.
func (c *assetCache) Settle(address panel.Address, h *asset.Handle) asset.Status {
	c.mu.Lock()
	defer c.mu.Unlock()

	status := h.Status()
	e, ok := c.entries.Get(context.Background(), address)
	if !ok || e.handle != h {
		return status
	}
	e.status = status
	if status == asset.StatusFailed {
		_ = c.entries.Delete(context.Background(), address)
		h.Release()
		log.Debug(log.CatAsset, "failed asset entry dropped", "address", address)
	}
	return status
}

// Owns reports whether h is the current handle for address.
func (c *assetCache) Owns(address panel.Address, h *asset.Handle) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries.Get(context.Background(), address)
	return ok && e.handle == h
}

// Remove releases and drops the entry for address.
func (c *assetCache) Remove(address panel.Address) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries.Get(context.Background(), address)
	if !ok {
		return false
	}
	_ = c.entries.Delete(context.Background(), address)
	e.handle.Release()
	return true
}

// ReleaseAll releases every handle, in-flight ones included, and empties the
// cache. Returns how many entries were released.
func (c *assetCache) ReleaseAll() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	items := c.entries.Items(context.Background())
	_ = c.entries.Flush(context.Background())
	for _, e := range items {
		e.handle.Release()
	}
	return len(items)
}

// Status returns the recorded status for address. A pending entry whose
// handle already completed still reports pending until it is settled.
func (c *assetCache) Status(address panel.Address) (asset.Status, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries.Get(context.Background(), address)
	if !ok {
		return asset.StatusPending, false
	}
	return e.status, true
}

// Addresses returns every cached address, sorted.
func (c *assetCache) Addresses() []panel.Address {
	c.mu.Lock()
	defer c.mu.Unlock()
	items := c.entries.Items(context.Background())
	out := make([]panel.Address, 0, len(items))
	for addr := range items {
		out = append(out, addr)
	}
	slices.Sort(out)
	return out
}

// Len returns the number of entries.
func (c *assetCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.entries.Count(context.Background())
}

package uimanager

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/strata/internal/asset"
	"github.com/zjrosen/strata/internal/panel"
)

func TestAssetCache_ConcurrentRequestsConverge(t *testing.T) {
	var loads atomic.Int32
	release := make(chan struct{})
	loader := asset.Async(func(ctx context.Context, address string) (asset.Resource, error) {
		loads.Add(1)
		<-release
		return &testPrefab{}, nil
	}, nil)
	c := newAssetCache(loader)

	const n = 32
	handles := make([]*asset.Handle, n)
	var issued atomic.Int32
	var wg sync.WaitGroup
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			h, fresh := c.Request(context.Background(), "P")
			if fresh {
				issued.Add(1)
			}
			handles[i] = h
		}()
	}
	wg.Wait()
	close(release)

	require.Equal(t, int32(1), issued.Load())
	for _, h := range handles {
		require.Same(t, handles[0], h)
	}
	_, err := handles[0].Wait(context.Background())
	require.NoError(t, err)
	require.Equal(t, int32(1), loads.Load())
	require.Equal(t, 1, c.Len())
}

func TestAssetCache_SettleDropsFailures(t *testing.T) {
	loader := newStubLoader()
	c := newAssetCache(loader)

	h, issued := c.Request(context.Background(), "P")
	require.True(t, issued)
	status, ok := c.Status("P")
	require.True(t, ok)
	require.Equal(t, asset.StatusPending, status)

	h.Resolve(nil, errors.New("gone"))
	require.Equal(t, asset.StatusFailed, c.Settle("P", h))

	_, ok = c.Status("P")
	require.False(t, ok)
	require.False(t, c.Owns("P", h))
	require.True(t, h.Released())
	require.Equal(t, 1, loader.Released("P"))
}

func TestAssetCache_SettleIgnoresStaleHandle(t *testing.T) {
	loader := newStubLoader()
	c := newAssetCache(loader)

	stale := asset.Failed("P", errors.New("old"))
	current, _ := c.Request(context.Background(), "P")

	c.Settle("P", stale)

	require.True(t, c.Owns("P", current))
	require.False(t, current.Released())
}

func TestAssetCache_RemoveAndReleaseAll(t *testing.T) {
	loader := newStubLoader()
	c := newAssetCache(loader)

	a, _ := c.Request(context.Background(), "A")
	b, _ := c.Request(context.Background(), "B")
	a.Resolve(&testPrefab{}, nil)
	c.Settle("A", a)
	require.Equal(t, []panel.Address{"A", "B"}, c.Addresses())

	require.True(t, c.Remove("A"))
	require.False(t, c.Remove("A"))
	require.Equal(t, 1, loader.Released("A"))

	require.Equal(t, 1, c.ReleaseAll())
	require.Zero(t, c.Len())
	require.True(t, b.Released())
	require.Zero(t, loader.Released("B"), "pending handle releases when it lands")

	b.Resolve(&testPrefab{}, nil)
	require.Equal(t, 1, loader.Released("B"))
}

func TestInstanceCache(t *testing.T) {
	c := newInstanceCache()
	a := panel.NewInstance("A", "mid", &testPanel{})
	b := panel.NewInstance("B", "top", &testPanel{})

	require.NoError(t, c.Insert("A", a))
	require.NoError(t, c.Insert("B", b))
	require.ErrorIs(t, c.Insert("A", b), ErrDuplicateInstance)

	got, ok := c.Get("A")
	require.True(t, ok)
	require.Same(t, a, got, "insert never overwrites")
	require.Equal(t, []*panel.Instance{a, b}, c.All())

	snapshot := c.All()
	removed, ok := c.Remove("A")
	require.True(t, ok)
	require.Same(t, a, removed)
	require.Len(t, snapshot, 2, "snapshots are independent")
	require.Equal(t, []*panel.Instance{b}, c.All())

	_, ok = c.Remove("A")
	require.False(t, ok)

	c.Clear()
	require.Zero(t, c.Len())
}

func TestNavigation(t *testing.T) {
	var n navigation
	a := panel.NewInstance("A", "mid", &testPanel{})
	b := panel.NewInstance("B", "mid", &testPanel{})

	require.Nil(t, n.Top())

	n.Push(a)
	n.Push(b)
	n.Push(a)
	require.Equal(t, 3, n.Len())
	require.Equal(t, 2, n.Count(a))
	require.Same(t, a, n.Top())

	require.Equal(t, 2, n.RemoveAll(a))
	require.Equal(t, []*panel.Instance{b}, n.Entries())
	require.Zero(t, n.RemoveAll(a))

	n.Clear()
	require.Zero(t, n.Len())
}

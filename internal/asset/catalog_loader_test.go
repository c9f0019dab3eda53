package asset

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/strata/internal/catalog"
)

// countingStore records Get calls.
type countingStore struct {
	*catalog.Memory
	gets atomic.Int32
}

func (s *countingStore) Get(ctx context.Context, address string) (catalog.Definition, error) {
	s.gets.Add(1)
	return s.Memory.Get(ctx, address)
}

func buildKind(def catalog.Definition) (Resource, error) {
	if def.Kind == "broken" {
		return nil, errors.New("cannot build")
	}
	return def.Kind + ":" + def.Address, nil
}

func waitResult(t *testing.T, h *Handle) (Resource, error) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return h.Wait(ctx)
}

func TestCatalogLoader_ResolvesAndCachesDefinitions(t *testing.T) {
	store := &countingStore{Memory: catalog.NewMemory(catalog.Definition{Address: "P", Kind: "text"})}
	l := NewCatalogLoader(store, buildKind)

	res, err := waitResult(t, l.Load(context.Background(), "P"))
	require.NoError(t, err)
	require.Equal(t, "text:P", res)

	_, err = waitResult(t, l.Load(context.Background(), "P"))
	require.NoError(t, err)
	require.Equal(t, int32(1), store.gets.Load())

	require.NoError(t, l.Invalidate(context.Background(), "P"))
	_, err = waitResult(t, l.Load(context.Background(), "P"))
	require.NoError(t, err)
	require.Equal(t, int32(2), store.gets.Load())
}

func TestCatalogLoader_Errors(t *testing.T) {
	store := catalog.NewMemory(catalog.Definition{Address: "Bad", Kind: "broken"})
	l := NewCatalogLoader(store, buildKind)

	_, err := waitResult(t, l.Load(context.Background(), "Missing"))
	require.ErrorIs(t, err, catalog.ErrNotFound)

	_, err = waitResult(t, l.Load(context.Background(), "Bad"))
	require.ErrorContains(t, err, "cannot build")
}

func TestCatalogLoader_LatencyHonorsContext(t *testing.T) {
	store := catalog.NewMemory(catalog.Definition{Address: "P", Kind: "text"})
	l := NewCatalogLoader(store, buildKind, WithLatency(time.Hour))

	ctx, cancel := context.WithCancel(context.Background())
	h := l.Load(ctx, "P")
	cancel()

	_, err := waitResult(t, h)
	require.ErrorIs(t, err, context.Canceled)
}

func TestCatalogLoader_ZeroTTLReadsStoreEveryLoad(t *testing.T) {
	store := &countingStore{Memory: catalog.NewMemory(catalog.Definition{Address: "P", Kind: "text"})}
	l := NewCatalogLoader(store, buildKind, WithDefinitionTTL(0))

	for range 3 {
		_, err := waitResult(t, l.Load(context.Background(), "P"))
		require.NoError(t, err)
	}
	require.Equal(t, int32(3), store.gets.Load())
}

func TestCatalogLoader_SlidingTTLKeepsHotDefinitions(t *testing.T) {
	store := &countingStore{Memory: catalog.NewMemory(catalog.Definition{Address: "P", Kind: "text"})}
	l := NewCatalogLoader(store, buildKind, WithDefinitionTTL(150*time.Millisecond), WithSlidingTTL(true))

	for range 4 {
		_, err := waitResult(t, l.Load(context.Background(), "P"))
		require.NoError(t, err)
		time.Sleep(50 * time.Millisecond)
	}
	require.Equal(t, int32(1), store.gets.Load(), "each hit restarts the ttl")

	time.Sleep(400 * time.Millisecond)
	_, err := waitResult(t, l.Load(context.Background(), "P"))
	require.NoError(t, err)
	require.Equal(t, int32(2), store.gets.Load())
}

package cachemanager

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type addressKey string

type exampleStruct struct {
	ID   int
	Name string
}

func newTestCache[V any]() *InMemoryCacheManager[addressKey, V] {
	return NewInMemoryCacheManager[addressKey, V]("test", NoExpiration, DefaultCleanupInterval)
}

func TestNewInMemoryCacheManager(t *testing.T) {
	require.NotPanics(t, func() {
		NewInMemoryCacheManager[string, string]("test", DefaultExpiration, DefaultCleanupInterval)
	})
}

func TestInMemoryCacheManager_GetExistingValue_StructType(t *testing.T) {
	cache := newTestCache[exampleStruct]()
	example := exampleStruct{Name: "apple"}
	cache.Set(context.Background(), "ex:1", example, NoExpiration)

	got, ok := cache.Get(context.Background(), "ex:1")
	require.True(t, ok)
	require.Equal(t, example, got)
}

func TestInMemoryCacheManager_GetMissing(t *testing.T) {
	cache := newTestCache[string]()

	got, ok := cache.Get(context.Background(), "food")
	require.False(t, ok)
	require.Empty(t, got)
}

func TestInMemoryCacheManager_GetWithInvalidValueType(t *testing.T) {
	cache := newTestCache[string]()
	cache.cache.Set("food", 123, NoExpiration)

	got, ok := cache.Get(context.Background(), "food")
	require.False(t, ok)
	require.Empty(t, got)
}

func TestInMemoryCacheManager_GetWithRefresh(t *testing.T) {
	cache := newTestCache[string]()

	_, ok := cache.GetWithRefresh(context.Background(), "food", time.Hour)
	require.False(t, ok)

	cache.Set(context.Background(), "food", "apple", time.Minute)
	got, ok := cache.GetWithRefresh(context.Background(), "food", time.Hour)
	require.True(t, ok)
	require.Equal(t, "apple", got)
}

func TestInMemoryCacheManager_AddRejectsExisting(t *testing.T) {
	cache := newTestCache[string]()

	require.NoError(t, cache.Add(context.Background(), "P", "first", NoExpiration))
	err := cache.Add(context.Background(), "P", "second", NoExpiration)
	require.ErrorIs(t, err, ErrExists)

	got, _ := cache.Get(context.Background(), "P")
	require.Equal(t, "first", got)
}

func TestInMemoryCacheManager_AddHasSingleWinner(t *testing.T) {
	cache := newTestCache[int]()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		winners int
	)
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if cache.Add(context.Background(), "P", i, NoExpiration) == nil {
				mu.Lock()
				winners++
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()

	require.Equal(t, 1, winners)
	require.Equal(t, 1, cache.Count(context.Background()))
}

func TestInMemoryCacheManager_ItemsSnapshot(t *testing.T) {
	cache := newTestCache[string]()
	cache.Set(context.Background(), "a", "1", NoExpiration)
	cache.Set(context.Background(), "b", "2", NoExpiration)
	cache.cache.Set("bad", 3, NoExpiration)

	items := cache.Items(context.Background())
	require.Equal(t, map[addressKey]string{"a": "1", "b": "2"}, items)
}

func TestInMemoryCacheManager_DeleteAndFlush(t *testing.T) {
	cache := newTestCache[string]()
	cache.Set(context.Background(), "a", "1", NoExpiration)
	cache.Set(context.Background(), "b", "2", NoExpiration)

	require.NoError(t, cache.Delete(context.Background()))
	require.NoError(t, cache.Delete(context.Background(), "a"))
	_, ok := cache.Get(context.Background(), "a")
	require.False(t, ok)

	require.NoError(t, cache.Flush(context.Background()))
	require.Zero(t, cache.Count(context.Background()))
}

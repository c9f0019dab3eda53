package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/zjrosen/strata/internal/catalog"
	"github.com/zjrosen/strata/internal/testutil"
)

// setupTestStore opens a fresh database that is closed when the test ends.
func setupTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "catalog.db"))
	require.NoError(t, err, "Failed to open catalog database")
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestStore_PutAndGet(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	def := catalog.Definition{
		Address: "Panel_Attribute",
		Kind:    "attribute",
		Title:   "Attributes",
		Params:  map[string]string{"health": "72", "mana": "40"},
	}
	require.NoError(t, store.Put(ctx, def))

	got, err := store.Get(ctx, "Panel_Attribute")
	require.NoError(t, err)
	require.Equal(t, def, got)
}

func TestStore_PutUpdatesAndReplacesParams(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, catalog.Definition{
		Address: "P", Kind: "text", Body: "old", Params: map[string]string{"a": "1", "b": "2"},
	}))
	require.NoError(t, store.Put(ctx, catalog.Definition{
		Address: "P", Kind: "markdown", Body: "new", Params: map[string]string{"a": "3"},
	}))

	got, err := store.Get(ctx, "P")
	require.NoError(t, err)
	require.Equal(t, "markdown", got.Kind)
	require.Equal(t, "new", got.Body)
	require.Equal(t, map[string]string{"a": "3"}, got.Params)
}

func TestStore_GetMissingSuggests(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.Put(ctx, catalog.Definition{Address: "Panel_Settings", Kind: "markdown"}))

	_, err := store.Get(ctx, "Panel_Setings")

	require.ErrorIs(t, err, catalog.ErrNotFound)
	require.Contains(t, err.Error(), "Panel_Settings")
}

func TestStore_PutRejectsInvalid(t *testing.T) {
	store := setupTestStore(t)

	err := store.Put(context.Background(), catalog.Definition{Address: "P"})

	require.ErrorIs(t, err, catalog.ErrInvalidDefinition)
}

func TestStore_Delete(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.Put(ctx, catalog.Definition{
		Address: "P", Kind: "text", Params: map[string]string{"x": "y"},
	}))

	ok, err := store.Delete(ctx, "P")
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = store.Delete(ctx, "P")
	require.NoError(t, err)
	require.False(t, ok)

	defs, err := store.List(ctx)
	require.NoError(t, err)
	require.Empty(t, defs)
}

func TestOpen_ReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "catalog.db")
	store, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, store.Put(context.Background(), catalog.Definition{Address: "P", Kind: "text"}))
	require.NoError(t, store.Close())

	store, err = Open(path)
	require.NoError(t, err, "migrations are idempotent")
	defer func() { _ = store.Close() }()

	_, err = store.Get(context.Background(), "P")
	require.NoError(t, err)
}

// TestStore_ListMatchesPuts is a property-based test: List returns exactly the
// last definition put for every address, sorted by address.
func TestStore_ListMatchesPuts(t *testing.T) {
	store := setupTestStore(t)

	rapid.Check(t, func(rt *rapid.T) {
		ctx := context.Background()
		existing, err := store.List(ctx)
		require.NoError(rt, err)
		for _, d := range existing {
			_, err := store.Delete(ctx, d.Address)
			require.NoError(rt, err)
		}

		want := make(map[string]catalog.Definition)
		n := rapid.IntRange(1, 12).Draw(rt, "puts")
		for range n {
			d := catalog.Definition{
				Address: rapid.StringMatching(`Panel_[A-D]`).Draw(rt, "address"),
				Kind:    rapid.SampledFrom([]string{"text", "markdown", "ticker", "attribute"}).Draw(rt, "kind"),
				Body:    rapid.StringMatching(`[a-z ]{0,12}`).Draw(rt, "body"),
			}
			require.NoError(rt, store.Put(ctx, d))
			want[d.Address] = d
		}

		got, err := store.List(ctx)
		require.NoError(rt, err)
		require.Len(rt, got, len(want))
		for i, d := range got {
			if i > 0 {
				require.Less(rt, got[i-1].Address, d.Address)
			}
			require.Equal(rt, want[d.Address], d)
		}
	})
}

func TestStore_PutBuilderPanels(t *testing.T) {
	store := setupTestStore(t)
	b := testutil.NewBuilder(t).WithStandardPanels().WithBrokenPanels()

	b.Put(store)

	got, err := store.List(context.Background())
	require.NoError(t, err)
	require.ElementsMatch(t, b.Definitions(), got)
}

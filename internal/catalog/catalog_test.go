package catalog

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMemory_GetSuggestsNearMatches(t *testing.T) {
	store := NewMemory(
		Definition{Address: "Panel_Attribute", Kind: "attribute"},
		Definition{Address: "Panel_Inventory", Kind: "text"},
	)

	_, err := store.Get(context.Background(), "Panel_Atribute")

	require.ErrorIs(t, err, ErrNotFound)
	var nf *NotFoundError
	require.True(t, errors.As(err, &nf))
	require.Equal(t, []string{"Panel_Attribute"}, nf.Suggestions)
	require.Contains(t, err.Error(), `did you mean "Panel_Attribute"`)
}

func TestMemory_GetNoSuggestions(t *testing.T) {
	store := NewMemory(Definition{Address: "Panel_Attribute", Kind: "attribute"})

	_, err := store.Get(context.Background(), "xyz")

	require.EqualError(t, err, `panel "xyz" not found`)
}

func TestMemory_PutValidatesAndReplaces(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()

	require.ErrorIs(t, store.Put(ctx, Definition{Address: "P"}), ErrInvalidDefinition)
	require.NoError(t, store.Put(ctx, Definition{Address: "B", Kind: "text"}, Definition{Address: "A", Kind: "text"}))

	defs, err := store.List(ctx)
	require.NoError(t, err)
	require.Equal(t, "A", defs[0].Address)
	require.Equal(t, "B", defs[1].Address)

	store.Replace([]Definition{{Address: "C", Kind: "ticker"}})
	require.Equal(t, 1, store.Len())
	_, err = store.Get(ctx, "A")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestSuggest_OrdersByDistanceAndLimits(t *testing.T) {
	known := []string{"Panel_A", "Panel_B", "Panel_AB", "Other"}

	got := Suggest("Panel_C", known, 2)

	require.Equal(t, []string{"Panel_A", "Panel_B"}, got)
}

func TestDefinition_Param(t *testing.T) {
	d := Definition{Params: map[string]string{"health": "10", "empty": ""}}

	require.Equal(t, "10", d.Param("health", "0"))
	require.Equal(t, "x", d.Param("empty", "x"))
	require.Equal(t, "y", d.Param("missing", "y"))
}

func TestParseManifest(t *testing.T) {
	defs, err := ParseManifest([]byte(`
panels:
  - address: A
    kind: text
    body: hello
  - address: B
    kind: ticker
    params:
      label: wait
`))
	require.NoError(t, err)
	require.Len(t, defs, 2)
	require.Equal(t, "hello", defs[0].Body)
	require.Equal(t, "wait", defs[1].Param("label", ""))
}

func TestParseManifest_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr error
	}{
		{"missing kind", "panels:\n  - address: A\n", ErrInvalidDefinition},
		{"duplicate", "panels:\n  - {address: A, kind: text}\n  - {address: A, kind: text}\n", ErrInvalidDefinition},
		{"unknown field", "panels:\n  - {address: A, kind: text, colour: red}\n", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseManifest([]byte(tt.content))
			require.Error(t, err)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestParseManifest_Empty(t *testing.T) {
	defs, err := ParseManifest(nil)
	require.NoError(t, err)
	require.Empty(t, defs)
}

func TestLoadBuiltin(t *testing.T) {
	defs, err := LoadBuiltin()
	require.NoError(t, err)

	byAddr := make(map[string]Definition)
	for _, d := range defs {
		byAddr[d.Address] = d
	}
	require.Equal(t, "attribute", byAddr["Panel_Attribute"].Kind)
	require.Contains(t, byAddr, "Panel_Settings")
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
	}
	write("a.yaml", "panels:\n  - {address: A, kind: text, body: one}\n")
	write("b.yml", "panels:\n  - {address: A, kind: text, body: two}\n  - {address: B, kind: text}\n")
	write("notes.txt", "ignored")

	defs, err := LoadDir(dir)
	require.NoError(t, err)
	require.Len(t, defs, 2)
	require.Equal(t, "two", defs[0].Body, "later files override earlier ones")

	defs, err = LoadDir(filepath.Join(dir, "missing"))
	require.NoError(t, err)
	require.Empty(t, defs)

	write("bad.yaml", "panels: [")
	_, err = LoadDir(dir)
	require.ErrorContains(t, err, "bad.yaml")
}

func TestMerge(t *testing.T) {
	base := []Definition{{Address: "A", Kind: "text"}, {Address: "B", Kind: "text"}}
	override := []Definition{{Address: "B", Kind: "markdown"}, {Address: "C", Kind: "ticker"}}

	got := Merge(base, override)

	require.Len(t, got, 3)
	require.Equal(t, "markdown", got[1].Kind)
	require.Equal(t, "C", got[2].Address)
}

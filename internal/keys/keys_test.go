package keys

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDemoBindings(t *testing.T) {
	require.Equal(t, []string{"q"}, App.OpenAttribute.Keys())
	require.Equal(t, []string{"w"}, App.CloseAttribute.Keys())
	require.Equal(t, []string{"esc"}, App.Back.Keys())
}

func TestHelpText(t *testing.T) {
	for _, group := range App.FullHelp() {
		for _, b := range group {
			h := b.Help()
			require.NotEmpty(t, h.Key)
			require.NotEmpty(t, h.Desc)
		}
	}
}

func TestNoDuplicateKeys(t *testing.T) {
	seen := make(map[string]string)
	for _, group := range App.FullHelp() {
		for _, b := range group {
			for _, k := range b.Keys() {
				prev, dup := seen[k]
				require.False(t, dup, "key %q bound to both %q and %q", k, prev, b.Help().Desc)
				seen[k] = b.Help().Desc
			}
		}
	}
}

func TestShortHelpSubsetOfFull(t *testing.T) {
	all := make(map[string]bool)
	for _, group := range App.FullHelp() {
		for _, b := range group {
			all[b.Help().Desc] = true
		}
	}
	for _, b := range App.ShortHelp() {
		require.True(t, all[b.Help().Desc], "%q missing from full help", b.Help().Desc)
	}
}

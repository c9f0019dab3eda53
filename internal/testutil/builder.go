// Package testutil provides builders for panel catalogs used in tests.
package testutil

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/strata/internal/catalog"
)

// Builder accumulates panel definitions in insertion order. A later
// WithPanel for the same address replaces the earlier one.
type Builder struct {
	t     *testing.T
	defs  []catalog.Definition
	index map[string]int
}

// NewBuilder creates an empty catalog builder.
func NewBuilder(t *testing.T) *Builder {
	t.Helper()
	return &Builder{t: t, index: make(map[string]int)}
}

// WithPanel adds a panel with optional configuration. The default is a text
// panel titled with its address.
func (b *Builder) WithPanel(address string, opts ...PanelOption) *Builder {
	def := defaultPanel(address)
	for _, opt := range opts {
		opt(&def)
	}
	if i, ok := b.index[address]; ok {
		b.defs[i] = def
		return b
	}
	b.index[address] = len(b.defs)
	b.defs = append(b.defs, def)
	return b
}

// Definitions returns a copy of the accumulated definitions.
func (b *Builder) Definitions() []catalog.Definition {
	return append([]catalog.Definition(nil), b.defs...)
}

// Memory builds an in-memory store.
func (b *Builder) Memory() *catalog.Memory {
	return catalog.NewMemory(b.defs...)
}

// Put writes every definition into store.
func (b *Builder) Put(store catalog.Store) {
	b.t.Helper()
	require.NoError(b.t, store.Put(context.Background(), b.defs...))
}

// Package panels provides the concrete panel kinds a catalog definition can
// name, and the registry that turns definitions into prefabs.
package panels

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/zjrosen/strata/internal/asset"
	"github.com/zjrosen/strata/internal/catalog"
	"github.com/zjrosen/strata/internal/panel"
)

// Built-in kind names.
const (
	KindText      = "text"
	KindMarkdown  = "markdown"
	KindTicker    = "ticker"
	KindAttribute = "attribute"
)

// ErrUnknownKind is returned by Build for a kind with no factory.
var ErrUnknownKind = errors.New("unknown panel kind")

// Factory creates a fresh panel for def. It runs once per instantiation.
type Factory func(def catalog.Definition) (panel.Panel, error)

// Kinds maps kind names to factories. Safe for concurrent use.
type Kinds struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewKinds returns a registry with the built-in kinds.
func NewKinds() *Kinds {
	k := &Kinds{factories: make(map[string]Factory)}
	k.Register(KindText, newText)
	k.Register(KindMarkdown, newMarkdown)
	k.Register(KindTicker, newTicker)
	k.Register(KindAttribute, newAttribute)
	return k
}

// Register adds or replaces the factory for name.
func (k *Kinds) Register(name string, f Factory) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.factories[name] = f
}

// Names returns the registered kinds, sorted.
func (k *Kinds) Names() []string {
	k.mu.RLock()
	defer k.mu.RUnlock()
	names := slices.Collect(maps.Keys(k.factories))
	slices.Sort(names)
	return names
}

// Build returns a prefab that instantiates def's kind.
func (k *Kinds) Build(def catalog.Definition) (panel.Prefab, error) {
	k.mu.RLock()
	f, ok := k.factories[def.Kind]
	k.mu.RUnlock()
	if !ok {
		err := fmt.Errorf("%w %q for %s", ErrUnknownKind, def.Kind, def.Address)
		if s := catalog.Suggest(def.Kind, k.Names(), 1); len(s) > 0 {
			err = fmt.Errorf("%w (did you mean %q?)", err, s[0])
		}
		return nil, err
	}
	return panel.PrefabFunc(func() (panel.Panel, error) {
		return f(def)
	}), nil
}

// Resource adapts Build to asset.BuildFunc.
func (k *Kinds) Resource(def catalog.Definition) (asset.Resource, error) {
	return k.Build(def)
}

// titleOf falls back to the address when def has no title.
func titleOf(def catalog.Definition) string {
	if def.Title != "" {
		return def.Title
	}
	return def.Address
}

// Package catalog maps panel addresses to panel definitions. Definitions come
// from YAML manifests (built-in or user supplied) or a sqlite store, and the
// asset loader turns them into prefabs.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/agnivade/levenshtein"
)

// ErrNotFound is matched by every NotFoundError.
var ErrNotFound = errors.New("panel definition not found")

// ErrInvalidDefinition is returned for definitions missing required fields.
var ErrInvalidDefinition = errors.New("invalid panel definition")

// Definition describes one panel: which kind renders it and with what content.
type Definition struct {
	Address string            `yaml:"address"`
	Kind    string            `yaml:"kind"`
	Title   string            `yaml:"title,omitempty"`
	Body    string            `yaml:"body,omitempty"`
	Params  map[string]string `yaml:"params,omitempty"`
}

// Validate checks the required fields.
func (d Definition) Validate() error {
	if strings.TrimSpace(d.Address) == "" {
		return fmt.Errorf("%w: address is required", ErrInvalidDefinition)
	}
	if strings.TrimSpace(d.Kind) == "" {
		return fmt.Errorf("%w: %s: kind is required", ErrInvalidDefinition, d.Address)
	}
	return nil
}

// Param returns the named parameter or def when unset.
func (d Definition) Param(name, def string) string {
	if v, ok := d.Params[name]; ok && v != "" {
		return v
	}
	return def
}

// Store is a source of definitions.
type Store interface {
	Get(ctx context.Context, address string) (Definition, error)
	List(ctx context.Context) ([]Definition, error)
	Put(ctx context.Context, defs ...Definition) error
}

// NotFoundError reports a missing address with near matches.
type NotFoundError struct {
	Address     string
	Suggestions []string
}

func (e *NotFoundError) Error() string {
	if len(e.Suggestions) == 0 {
		return fmt.Sprintf("panel %q not found", e.Address)
	}
	return fmt.Sprintf("panel %q not found (did you mean %s?)", e.Address, quoteJoin(e.Suggestions))
}

// Is lets errors.Is(err, ErrNotFound) match.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// NewNotFoundError builds a NotFoundError with suggestions drawn from known.
func NewNotFoundError(address string, known []string) *NotFoundError {
	return &NotFoundError{Address: address, Suggestions: Suggest(address, known, 3)}
}

// Suggest returns up to limit entries of known closest to address by edit
// distance, ignoring anything further than a third of the address length
// (minimum 2).
func Suggest(address string, known []string, limit int) []string {
	threshold := max(2, len(address)/3)
	type scored struct {
		name string
		dist int
	}
	var candidates []scored
	lower := strings.ToLower(address)
	for _, k := range known {
		d := levenshtein.ComputeDistance(lower, strings.ToLower(k))
		if d <= threshold && k != address {
			candidates = append(candidates, scored{k, d})
		}
	}
	slices.SortFunc(candidates, func(a, b scored) int {
		if a.dist != b.dist {
			return a.dist - b.dist
		}
		return strings.Compare(a.name, b.name)
	})
	out := make([]string, 0, min(limit, len(candidates)))
	for _, c := range candidates[:min(limit, len(candidates))] {
		out = append(out, c.name)
	}
	return out
}

func quoteJoin(names []string) string {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = fmt.Sprintf("%q", n)
	}
	return strings.Join(quoted, " or ")
}

// Memory is an in-process Store. Safe for concurrent use.
type Memory struct {
	mu   sync.RWMutex
	defs map[string]Definition
}

var _ Store = (*Memory)(nil)

// NewMemory returns a store holding defs.
func NewMemory(defs ...Definition) *Memory {
	m := &Memory{defs: make(map[string]Definition, len(defs))}
	for _, d := range defs {
		m.defs[d.Address] = d
	}
	return m
}

func (m *Memory) Get(_ context.Context, address string) (Definition, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	d, ok := m.defs[address]
	if !ok {
		return Definition{}, NewNotFoundError(address, slices.Collect(maps.Keys(m.defs)))
	}
	return d, nil
}

func (m *Memory) List(_ context.Context) ([]Definition, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := slices.Collect(maps.Values(m.defs))
	slices.SortFunc(out, func(a, b Definition) int { return strings.Compare(a.Address, b.Address) })
	return out, nil
}

func (m *Memory) Put(_ context.Context, defs ...Definition) error {
	for _, d := range defs {
		if err := d.Validate(); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, d := range defs {
		m.defs[d.Address] = d
	}
	return nil
}

// Replace swaps the whole set atomically.
func (m *Memory) Replace(defs []Definition) {
	next := make(map[string]Definition, len(defs))
	for _, d := range defs {
		next[d.Address] = d
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.defs = next
}

// Len returns the number of definitions.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.defs)
}

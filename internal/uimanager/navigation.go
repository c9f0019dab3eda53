package uimanager

import (
	"slices"
	"sync"

	"github.com/zjrosen/strata/internal/panel"
)

// navigation is the open-panel history, bottom to top. Entries are
// non-owning and the same instance may appear more than once.
type navigation struct {
	mu      sync.RWMutex
	entries []*panel.Instance
}

func (n *navigation) Push(inst *panel.Instance) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.entries = append(n.entries, inst)
}

// RemoveAll drops every occurrence of inst and returns how many were removed.
func (n *navigation) RemoveAll(inst *panel.Instance) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	before := len(n.entries)
	n.entries = slices.DeleteFunc(n.entries, func(e *panel.Instance) bool { return e == inst })
	return before - len(n.entries)
}

// Top returns the most recent entry, or nil.
func (n *navigation) Top() *panel.Instance {
	n.mu.RLock()
	defer n.mu.RUnlock()
	if len(n.entries) == 0 {
		return nil
	}
	return n.entries[len(n.entries)-1]
}

func (n *navigation) Len() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.entries)
}

// Count returns how many times inst appears.
func (n *navigation) Count(inst *panel.Instance) int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	count := 0
	for _, e := range n.entries {
		if e == inst {
			count++
		}
	}
	return count
}

func (n *navigation) Entries() []*panel.Instance {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return slices.Clone(n.entries)
}

func (n *navigation) Clear() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.entries = nil
}

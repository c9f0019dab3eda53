package uimanager

import (
	"fmt"
	"slices"
	"sync"

	"github.com/zjrosen/strata/internal/panel"
)

// instanceCache maps addresses to live instances and remembers insertion order.
// Safe for concurrent use so renderers can snapshot it.
type instanceCache struct {
	mu    sync.RWMutex
	byKey map[panel.Address]*panel.Instance
	order []panel.Address
}

func newInstanceCache() *instanceCache {
	return &instanceCache{byKey: make(map[panel.Address]*panel.Instance)}
}

func (c *instanceCache) Get(address panel.Address) (*panel.Instance, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	inst, ok := c.byKey[address]
	return inst, ok
}

// Insert adds inst. It never overwrites.
func (c *instanceCache) Insert(address panel.Address, inst *panel.Instance) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.byKey[address]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateInstance, address)
	}
	c.byKey[address] = inst
	c.order = append(c.order, address)
	return nil
}

func (c *instanceCache) Remove(address panel.Address) (*panel.Instance, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	inst, ok := c.byKey[address]
	if !ok {
		return nil, false
	}
	delete(c.byKey, address)
	c.order = slices.DeleteFunc(c.order, func(a panel.Address) bool { return a == address })
	return inst, true
}

// All returns the instances in insertion order.
func (c *instanceCache) All() []*panel.Instance {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]*panel.Instance, 0, len(c.order))
	for _, addr := range c.order {
		out = append(out, c.byKey[addr])
	}
	return out
}

func (c *instanceCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.byKey)
}

func (c *instanceCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.byKey = make(map[panel.Address]*panel.Instance)
	c.order = nil
}

// Package layer owns the fixed, z-ordered containers panels are attached to.
package layer

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/zjrosen/strata/internal/log"
	"github.com/zjrosen/strata/internal/panel"
)

var (
	// ErrAlreadyInitialized is returned by a second Initialize call. The first
	// set of containers stays in place.
	ErrAlreadyInitialized = errors.New("layer registry already initialized")

	// ErrInvalidLayers is returned when the layer specs are empty, unnamed or
	// contain duplicates.
	ErrInvalidLayers = errors.New("invalid layer specs")
)

// Default layer names, in the order they stack.
const (
	Bot    = "bot"    // persistent HUD (health bars, resident UI)
	Mid    = "mid"    // ordinary panels
	Top    = "top"    // settings, inventory
	System = "system" // popups, prompts
)

// Placement tells the host where a layer's panels sit within the full area.
type Placement string

const (
	PlaceCenter Placement = "center"
	PlaceTop    Placement = "top"
	PlaceBottom Placement = "bottom"
)

// Spec describes one layer to create.
type Spec struct {
	Name      string    `mapstructure:"name" yaml:"name"`
	Placement Placement `mapstructure:"placement" yaml:"placement"`
}

// DefaultSpecs returns bot, mid, top and system, bottom to top.
func DefaultSpecs() []Spec {
	return []Spec{
		{Name: Bot, Placement: PlaceBottom},
		{Name: Mid, Placement: PlaceCenter},
		{Name: Top, Placement: PlaceTop},
		{Name: System, Placement: PlaceCenter},
	}
}

// Validate checks specs for emptiness, blank names, duplicates and unknown
// placements.
func Validate(specs []Spec) error {
	if len(specs) == 0 {
		return fmt.Errorf("%w: at least one layer is required", ErrInvalidLayers)
	}
	seen := make(map[string]bool, len(specs))
	for i, s := range specs {
		name := strings.TrimSpace(s.Name)
		if name == "" {
			return fmt.Errorf("%w: layer %d has no name", ErrInvalidLayers, i)
		}
		if seen[name] {
			return fmt.Errorf("%w: duplicate layer %q", ErrInvalidLayers, name)
		}
		seen[name] = true
		switch s.Placement {
		case "", PlaceCenter, PlaceTop, PlaceBottom:
		default:
			return fmt.Errorf("%w: layer %q has unknown placement %q", ErrInvalidLayers, name, s.Placement)
		}
	}
	return nil
}

// Container hosts the instances of one layer. It spans the full area; Rank
// orders containers, higher above lower.
type Container struct {
	Name      string
	Rank      int
	Placement Placement

	mu       sync.RWMutex
	children []*panel.Instance
}

// Attach appends inst as the topmost child.
func (c *Container) Attach(inst *panel.Instance) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.children = append(c.children, inst)
}

// Detach removes inst. Reports whether it was attached.
func (c *Container) Detach(inst *panel.Instance) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	i := slices.Index(c.children, inst)
	if i < 0 {
		return false
	}
	c.children = slices.Delete(c.children, i, i+1)
	return true
}

// Children returns the attached instances in attach order.
func (c *Container) Children() []*panel.Instance {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.children)
}

// Len returns the number of attached instances.
func (c *Container) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.children)
}

// Registry is built once and read-only afterwards.
type Registry struct {
	ordered []*Container
	byName  map[string]*Container
}

// NewRegistry returns an uninitialized registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Initialize creates one container per spec in the given order.
func (r *Registry) Initialize(specs []Spec) (map[string]*Container, error) {
	if r.Initialized() {
		log.Error(log.CatLayer, "refusing to re-initialize layers", "existing", len(r.ordered))
		return nil, ErrAlreadyInitialized
	}
	if err := Validate(specs); err != nil {
		return nil, err
	}

	r.byName = make(map[string]*Container, len(specs))
	r.ordered = make([]*Container, 0, len(specs))
	for rank, s := range specs {
		placement := s.Placement
		if placement == "" {
			placement = PlaceCenter
		}
		c := &Container{
			Name:      strings.TrimSpace(s.Name),
			Rank:      rank,
			Placement: placement,
		}
		r.ordered = append(r.ordered, c)
		r.byName[c.Name] = c
	}

	log.Debug(log.CatLayer, "layers initialized", "count", len(r.ordered))
	out := make(map[string]*Container, len(r.byName))
	for k, v := range r.byName {
		out[k] = v
	}
	return out, nil
}

// Initialized reports whether Initialize has succeeded.
func (r *Registry) Initialized() bool {
	return r.byName != nil
}

// Lookup returns the container for name.
func (r *Registry) Lookup(name string) (*Container, bool) {
	c, ok := r.byName[name]
	return c, ok
}

// Ordered returns the containers bottom to top.
func (r *Registry) Ordered() []*Container {
	return slices.Clone(r.ordered)
}

// Names returns layer names bottom to top.
func (r *Registry) Names() []string {
	names := make([]string, len(r.ordered))
	for i, c := range r.ordered {
		names[i] = c.Name
	}
	return names
}

package panel

import (
	"time"

	"github.com/google/uuid"
)

// State is the lifecycle state of a live instance.
type State int

const (
	StateInstantiating State = iota
	StateShown
	StateHidden
	StateDestroyed
)

func (s State) String() string {
	switch s {
	case StateInstantiating:
		return "instantiating"
	case StateShown:
		return "shown"
	case StateHidden:
		return "hidden"
	case StateDestroyed:
		return "destroyed"
	default:
		return "unknown"
	}
}

// Vec2 is a 2D vector in normalized or pixel units depending on context.
type Vec2 struct {
	X, Y float64
}

// Transform places an instance inside its layer container.
type Transform struct {
	AnchorMin Vec2
	AnchorMax Vec2
	OffsetMin Vec2
	OffsetMax Vec2
	Scale     float64
}

// FullStretch is the layer convention: anchored to all four edges, no offsets,
// unit scale.
func FullStretch() Transform {
	return Transform{
		AnchorMin: Vec2{0, 0},
		AnchorMax: Vec2{1, 1},
		Scale:     1,
	}
}

// Instance is one live panel. The layer is fixed at creation.
type Instance struct {
	ID        uuid.UUID
	Address   Address
	Layer     string
	Panel     Panel
	Transform Transform
	OpenedAt  time.Time

	state   State
	visible bool
}

// NewInstance wraps p as a fresh instance in the Instantiating state.
func NewInstance(addr Address, layer string, p Panel) *Instance {
	return &Instance{
		ID:        uuid.New(),
		Address:   addr,
		Layer:     layer,
		Panel:     p,
		Transform: FullStretch(),
		OpenedAt:  time.Now(),
		state:     StateInstantiating,
	}
}

// State returns the lifecycle state.
func (i *Instance) State() State { return i.state }

// Visible reports whether the instance is active and receives OnUpdate.
func (i *Instance) Visible() bool { return i.visible }

// Show runs OnShow and marks the instance visible.
func (i *Instance) Show() {
	i.Panel.OnShow()
	i.visible = true
	i.state = StateShown
}

// Hide marks the instance inactive and runs OnHide.
func (i *Instance) Hide() {
	i.visible = false
	i.Panel.OnHide()
	i.state = StateHidden
}

// Update runs OnUpdate if the instance is visible. Reports whether it ran.
func (i *Instance) Update() bool {
	if !i.visible {
		return false
	}
	i.Panel.OnUpdate()
	return true
}

// Destroy disposes the panel and marks the instance dead. Idempotent.
func (i *Instance) Destroy() {
	if i.state == StateDestroyed {
		return
	}
	if d, ok := i.Panel.(Disposer); ok {
		d.Dispose()
	}
	i.visible = false
	i.state = StateDestroyed
}

// Title returns the panel's title, falling back to the address.
func (i *Instance) Title() string {
	if t, ok := i.Panel.(Titler); ok {
		if title := t.Title(); title != "" {
			return title
		}
	}
	return string(i.Address)
}

// View renders the panel if it supports rendering.
func (i *Instance) View(width, height int) string {
	if v, ok := i.Panel.(Viewer); ok {
		return v.View(width, height)
	}
	return ""
}

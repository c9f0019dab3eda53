// Package panel defines the capability set the panel manager drives and the
// live instance record it keeps for every opened panel.
package panel

// Address identifies a panel's backing asset and doubles as its cache key.
type Address string

// Panel is the lifecycle contract every panel variant implements.
// The manager calls these hooks at fixed points and never inspects what they do.
type Panel interface {
	// Init runs once, after instantiation and before the first OnShow.
	Init(args ...any)
	// OnShow runs every time the panel is opened or re-opened.
	OnShow()
	// OnHide runs when the panel is hidden or closed.
	OnHide()
	// OnUpdate runs once per frame while the panel is visible.
	OnUpdate()
}

// Prefab is the display capability a loaded resource must have. A resource
// that does not implement it cannot be opened.
type Prefab interface {
	Instantiate() (Panel, error)
}

// Viewer is implemented by panels that can render themselves into a box of the
// given size.
type Viewer interface {
	View(width, height int) string
}

// Titler is implemented by panels with a display title.
type Titler interface {
	Title() string
}

// Disposer is implemented by panels holding resources that must be freed when
// the instance is destroyed.
type Disposer interface {
	Dispose()
}

// Closer lets a panel ask its owner to close it.
type Closer func(Address)

// closerSetter is implemented by Base so the manager can hand panels a way to
// close themselves.
type closerSetter interface {
	setCloser(addr Address, fn Closer)
}

// BindCloser wires fn into p if p embeds Base. Other panels are left alone.
func BindCloser(p Panel, addr Address, fn Closer) {
	if cs, ok := p.(closerSetter); ok {
		cs.setCloser(addr, fn)
	}
}

// Base is an embeddable no-op implementation of Panel.
type Base struct {
	address Address
	closer  Closer
}

func (b *Base) Init(args ...any) {}
func (b *Base) OnShow()          {}
func (b *Base) OnHide()          {}
func (b *Base) OnUpdate()        {}

// Address returns the address the panel was opened under, once bound.
func (b *Base) Address() Address { return b.address }

// Close asks the owning manager to close this panel. No-op before the panel
// has been opened.
func (b *Base) Close() {
	if b.closer != nil {
		b.closer(b.address)
	}
}

func (b *Base) setCloser(addr Address, fn Closer) {
	b.address = addr
	b.closer = fn
}

// PrefabFunc adapts a constructor to Prefab.
type PrefabFunc func() (Panel, error)

// Instantiate calls f.
func (f PrefabFunc) Instantiate() (Panel, error) { return f() }

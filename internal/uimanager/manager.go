package uimanager

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/zjrosen/strata/internal/asset"
	"github.com/zjrosen/strata/internal/flags"
	"github.com/zjrosen/strata/internal/layer"
	"github.com/zjrosen/strata/internal/log"
	"github.com/zjrosen/strata/internal/panel"
	"github.com/zjrosen/strata/internal/pubsub"
	"github.com/zjrosen/strata/internal/tracing"
)

// PanelState is the externally visible state of an address.
type PanelState int

const (
	// StateUnopened: no instance and no load in flight for an open.
	StateUnopened PanelState = iota
	// StateLoading: an open is waiting on its asset.
	StateLoading
	// StateLoaded: the asset is cached but no instance exists (preloaded or closed).
	StateLoaded
	// StateShown: an instance exists and is visible.
	StateShown
	// StateHidden: an instance exists but is not visible.
	StateHidden
)

func (s PanelState) String() string {
	switch s {
	case StateUnopened:
		return "unopened"
	case StateLoading:
		return "loading"
	case StateLoaded:
		return "loaded"
	case StateShown:
		return "shown"
	case StateHidden:
		return "hidden"
	default:
		return "unknown"
	}
}

// Manager orchestrates layers, the asset and instance caches and the
// navigation history. All methods must be called from one goroutine.
type Manager struct {
	parent context.Context
	ctx    context.Context
	cancel context.CancelFunc

	layers    *layer.Registry
	assets    *assetCache
	instances *instanceCache
	history   *navigation
	pending   []*Request
	resuming  []*Request

	events pubsub.Publisher[Event]
	tracer trace.Tracer
	flags  *flags.Registry
	strict bool
}

// New creates a manager that resolves addresses through loader.
func New(loader asset.Loader, opts ...Option) *Manager {
	m := &Manager{
		parent:    context.Background(),
		layers:    layer.NewRegistry(),
		assets:    newAssetCache(loader),
		instances: newInstanceCache(),
		history:   &navigation{},
		tracer:    noop.NewTracerProvider().Tracer("strata"),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.ctx, m.cancel = context.WithCancel(m.parent)
	return m
}

// Initialize creates the layers and starts preloading the given addresses.
// A second call fails with layer.ErrAlreadyInitialized and changes nothing.
func (m *Manager) Initialize(specs []layer.Spec, preload ...panel.Address) error {
	if _, err := m.layers.Initialize(specs); err != nil {
		return fmt.Errorf("initializing layers: %w", err)
	}
	for _, addr := range preload {
		m.Preload(addr)
	}
	log.Info(log.CatPanel, "panel manager initialized", "layers", m.layers.Names(), "preload", len(preload))
	return nil
}

// Initialized reports whether Initialize has succeeded.
func (m *Manager) Initialized() bool {
	return m.layers.Initialized()
}

// Open shows the panel at address on layerName, loading and instantiating it
// first if needed. An existing instance is shown again on its original layer
// and Init is not re-run. The returned request resolves during Tick or Settle,
// or immediately when no load is involved.
func (m *Manager) Open(address panel.Address, layerName string, args ...any) *Request {
	req := newRequest(address, layerName, args, false)
	if !m.layers.Initialized() {
		log.Warn(log.CatPanel, "open before initialize", "address", address)
		req.complete(nil, ErrNotInitialized)
		return req
	}

	ctx, span := m.tracer.Start(m.ctx, tracing.SpanOpen, trace.WithAttributes(
		attribute.String(tracing.AttrPanelAddress, string(address)),
		attribute.String(tracing.AttrPanelLayer, layerName),
	))
	req.span = span

	if inst, ok := m.instances.Get(address); ok {
		m.reshow(req, inst)
		return req
	}

	if _, ok := m.layers.Lookup(layerName); !ok {
		m.fail(req, fmt.Errorf("%w: %q", ErrUnknownLayer, layerName))
		return req
	}

	h, issued := m.assets.Request(ctx, address)
	span.SetAttributes(attribute.Bool(tracing.AttrLoadIssued, issued))
	req.handle = h
	m.enqueue(req)
	return req
}

// Preload starts loading address without showing it. An address already
// loading or loaded is left alone.
func (m *Manager) Preload(address panel.Address) *Request {
	req := newRequest(address, "", nil, true)
	if _, ok := m.assets.Status(address); ok {
		log.Warn(log.CatAsset, "preload skipped, asset already requested", "address", address)
		req.complete(nil, nil)
		return req
	}

	ctx, span := m.tracer.Start(m.ctx, tracing.SpanPreload, trace.WithAttributes(
		attribute.String(tracing.AttrPanelAddress, string(address)),
	))
	req.span = span

	h, issued := m.assets.Request(ctx, address)
	span.SetAttributes(attribute.Bool(tracing.AttrLoadIssued, issued))
	req.handle = h
	m.enqueue(req)
	return req
}

// Close hides, unlinks and destroys the instance at address. The asset stays
// cached.
func (m *Manager) Close(address panel.Address) error {
	start := time.Now()
	_, span := m.tracer.Start(m.ctx, tracing.SpanClose, trace.WithAttributes(
		attribute.String(tracing.AttrPanelAddress, string(address)),
	))
	defer span.End()

	inst, ok := m.instances.Get(address)
	if !ok {
		log.Warn(log.CatPanel, "close on panel that is not open", "address", address)
		err := fmt.Errorf("%w: %s", ErrNotOpen, address)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	span.SetAttributes(
		attribute.String(tracing.AttrPanelLayer, inst.Layer),
		attribute.String(tracing.AttrPanelID, inst.ID.String()),
	)

	if inst.Visible() {
		inst.Hide()
	}
	m.history.RemoveAll(inst)
	m.instances.Remove(address)
	m.destroy(inst)

	m.publish(EventClosed, Event{Address: address, Layer: inst.Layer})
	span.SetStatus(codes.Ok, "")
	log.Debug(log.CatPanel, "panel closed", "address", address, "layer", inst.Layer, "elapsed", time.Since(start))
	return nil
}

// Hide makes the instance at address invisible and drops it from the history.
// The instance stays cached and a later Open shows it again.
func (m *Manager) Hide(address panel.Address) error {
	inst, ok := m.instances.Get(address)
	if !ok {
		log.Warn(log.CatPanel, "hide on panel that is not open", "address", address)
		return fmt.Errorf("%w: %s", ErrNotOpen, address)
	}
	if inst.Visible() {
		inst.Hide()
	}
	m.history.RemoveAll(inst)
	m.publish(EventHidden, Event{Address: address, Layer: inst.Layer})
	log.Debug(log.CatPanel, "panel hidden", "address", address)
	return nil
}

// Back closes the most recent panel in the history.
func (m *Manager) Back() (panel.Address, bool) {
	top := m.history.Top()
	if top == nil {
		return "", false
	}
	if err := m.Close(top.Address); err != nil {
		return "", false
	}
	return top.Address, true
}

// Get returns the live instance for address.
func (m *Manager) Get(address panel.Address) (*panel.Instance, bool) {
	inst, ok := m.instances.Get(address)
	if !ok {
		log.Warn(log.CatPanel, "panel not found", "address", address)
	}
	return inst, ok
}

// Lookup returns the panel at address as T.
func Lookup[T panel.Panel](m *Manager, address panel.Address) (T, bool) {
	var zero T
	inst, ok := m.Get(address)
	if !ok {
		return zero, false
	}
	p, ok := inst.Panel.(T)
	if !ok {
		log.Warn(log.CatPanel, "panel has a different type", "address", address, "type", fmt.Sprintf("%T", inst.Panel))
		return zero, false
	}
	return p, true
}

// ClearAll destroys every instance, empties the history, releases every
// asset handle and fails pending requests with ErrCleared.
func (m *Manager) ClearAll() {
	_, span := m.tracer.Start(m.ctx, tracing.SpanClear)
	defer span.End()

	all := m.instances.All()
	for _, inst := range all {
		if inst.Visible() {
			inst.Hide()
		}
		m.destroy(inst)
	}
	m.instances.Clear()
	m.history.Clear()

	pending := m.pending
	m.pending = nil
	for _, req := range pending {
		m.finish(req, nil, ErrCleared)
	}
	released := m.assets.ReleaseAll()

	span.SetAttributes(attribute.Int(tracing.AttrClosedCount, len(all)))
	m.publish(EventCleared, Event{})
	log.Info(log.CatPanel, "panel manager cleared",
		"instances", len(all), "assets", released, "abandoned", len(pending))
}

// Tick resumes opens and preloads whose loads have completed, in request
// order, then runs OnUpdate on every visible instance. Call once per frame.
func (m *Manager) Tick() {
	m.resumeReady()
	for _, inst := range m.instances.All() {
		inst.Update()
	}
}

// Settle blocks until every pending request has resolved, resuming each as
// its load completes. It does not run OnUpdate.
func (m *Manager) Settle(ctx context.Context) error {
	for {
		m.resumeReady()
		if len(m.pending) == 0 {
			return nil
		}
		select {
		case <-m.pending[0].handle.Done():
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Shutdown clears everything and cancels in-flight loads.
func (m *Manager) Shutdown() {
	m.ClearAll()
	m.cancel()
}

// State reports where address is in its lifecycle.
func (m *Manager) State(address panel.Address) PanelState {
	if inst, ok := m.instances.Get(address); ok {
		if inst.Visible() {
			return StateShown
		}
		return StateHidden
	}
	for _, req := range m.pending {
		if req.address == address && !req.preload {
			return StateLoading
		}
	}
	if status, ok := m.assets.Status(address); ok && status == asset.StatusSucceeded {
		return StateLoaded
	}
	return StateUnopened
}

// Instances returns the live instances in creation order.
func (m *Manager) Instances() []*panel.Instance { return m.instances.All() }

// History returns the navigation history, bottom to top.
func (m *Manager) History() []*panel.Instance { return m.history.Entries() }

// Pending returns the number of unresolved requests.
func (m *Manager) Pending() int { return len(m.pending) }

// CachedAssets returns the addresses with a load entry.
func (m *Manager) CachedAssets() []panel.Address { return m.assets.Addresses() }

// Layers returns the layer containers bottom to top.
func (m *Manager) Layers() []*layer.Container { return m.layers.Ordered() }

func (m *Manager) enqueue(req *Request) {
	if req.ready() && !m.waiting(req.address) {
		m.resume(req)
		return
	}
	m.pending = append(m.pending, req)
}

// waiting reports whether an earlier request for address is still queued,
// including ones held by a resumeReady pass in progress.
func (m *Manager) waiting(address panel.Address) bool {
	for _, req := range m.pending {
		if req.address == address {
			return true
		}
	}
	for _, req := range m.resuming {
		if req.address == address && !req.Resolved() {
			return true
		}
	}
	return false
}

// resumeReady runs every pending request whose load has completed, keeping
// per-address order: a request never overtakes an earlier one for the same
// address.
func (m *Manager) resumeReady() int {
	if len(m.pending) == 0 {
		return 0
	}
	queue := m.pending
	m.pending = nil
	m.resuming = queue
	defer func() { m.resuming = nil }()

	var kept []*Request
	blocked := make(map[panel.Address]bool)
	resumed := 0
	for _, req := range queue {
		if req.Resolved() {
			continue
		}
		if blocked[req.address] || !req.ready() {
			blocked[req.address] = true
			kept = append(kept, req)
			continue
		}
		m.resume(req)
		resumed++
	}
	m.pending = append(kept, m.pending...)
	return resumed
}

// resume continues a request after its handle completed.
func (m *Manager) resume(req *Request) {
	addr := req.address
	h := req.handle

	if !m.assets.Owns(addr, h) {
		// An earlier request for this address already dropped the entry.
		res, err := h.Result()
		switch {
		case err != nil:
			m.fail(req, fmt.Errorf("%w: %s: %w", ErrLoadFailure, addr, err))
		case !isPrefab(res):
			m.fail(req, fmt.Errorf("%w: %s (%T)", ErrMissingCapability, addr, res))
		default:
			// The shared prefab failed to instantiate for the earlier request.
			m.fail(req, fmt.Errorf("%w: %s: load discarded by an earlier request", ErrLoadFailure, addr))
		}
		return
	}

	status := m.assets.Settle(addr, h)
	if req.span != nil {
		req.span.SetAttributes(attribute.String(tracing.AttrLoadStatus, status.String()))
	}
	res, err := h.Result()
	if err != nil {
		m.fail(req, fmt.Errorf("%w: %s: %w", ErrLoadFailure, addr, err))
		return
	}

	prefab, ok := res.(panel.Prefab)
	if !ok {
		m.assets.Remove(addr)
		m.fail(req, fmt.Errorf("%w: %s (%T)", ErrMissingCapability, addr, res))
		return
	}

	if req.preload {
		m.publish(EventPreloaded, Event{Address: addr})
		m.finish(req, nil, nil)
		return
	}

	// A request that shared the load with an earlier one finds its instance.
	if inst, ok := m.instances.Get(addr); ok {
		m.reshow(req, inst)
		return
	}

	container, ok := m.layers.Lookup(req.layer)
	if !ok {
		m.fail(req, fmt.Errorf("%w: %q", ErrUnknownLayer, req.layer))
		return
	}

	p, err := prefab.Instantiate()
	if err != nil {
		m.assets.Remove(addr)
		m.fail(req, fmt.Errorf("%w: %s: instantiate: %w", ErrLoadFailure, addr, err))
		return
	}

	inst := panel.NewInstance(addr, container.Name, p)
	container.Attach(inst)
	panel.BindCloser(p, addr, m.closeFromPanel)
	p.Init(req.args...)

	if err := m.instances.Insert(addr, inst); err != nil {
		m.violation(err, "address", addr)
		container.Detach(inst)
		inst.Destroy()
		m.finish(req, nil, err)
		return
	}

	inst.Show()
	m.push(inst)
	if req.span != nil {
		req.span.SetAttributes(attribute.String(tracing.AttrPanelID, inst.ID.String()))
	}
	m.publish(EventOpened, Event{Address: addr, Layer: inst.Layer})
	m.finish(req, inst, nil)
}

func (m *Manager) reshow(req *Request, inst *panel.Instance) {
	if req.layer != "" && req.layer != inst.Layer {
		log.Debug(log.CatPanel, "panel keeps its original layer",
			"address", inst.Address, "layer", inst.Layer, "requested", req.layer)
	}
	inst.Show()
	m.push(inst)
	if req.span != nil {
		req.span.SetAttributes(
			attribute.Bool(tracing.AttrReshow, true),
			attribute.String(tracing.AttrPanelID, inst.ID.String()),
		)
	}
	m.publish(EventShown, Event{Address: inst.Address, Layer: inst.Layer})
	m.finish(req, inst, nil)
}

func (m *Manager) push(inst *panel.Instance) {
	if m.flags.Enabled(flags.FlagHistoryDedupe) {
		m.history.RemoveAll(inst)
	}
	m.history.Push(inst)
}

func (m *Manager) destroy(inst *panel.Instance) {
	if c, ok := m.layers.Lookup(inst.Layer); ok {
		c.Detach(inst)
	}
	inst.Destroy()
}

func (m *Manager) closeFromPanel(address panel.Address) {
	_ = m.Close(address)
}

func (m *Manager) fail(req *Request, err error) {
	log.ErrorErr(log.CatPanel, "panel request failed", err, "address", req.address)
	m.publish(EventLoadFailed, Event{Address: req.address, Layer: req.layer, Err: err})
	m.finish(req, nil, err)
}

func (m *Manager) finish(req *Request, inst *panel.Instance, err error) {
	if req.span != nil {
		if err != nil {
			req.span.RecordError(err)
			req.span.SetAttributes(attribute.String(tracing.AttrErrorKind, errorKind(err)))
			req.span.SetStatus(codes.Error, err.Error())
		} else {
			req.span.SetStatus(codes.Ok, "")
		}
		req.span.End()
	}
	if err == nil && inst != nil {
		log.Debug(log.CatPanel, "panel shown", "address", req.address, "layer", inst.Layer,
			"elapsed", time.Since(req.started))
	}
	req.complete(inst, err)
}

func (m *Manager) violation(err error, fields ...any) {
	log.ErrorErr(log.CatPanel, "panel invariant violated", err, fields...)
	if m.strict {
		panic(err)
	}
}

func (m *Manager) publish(t pubsub.EventType, e Event) {
	if m.events != nil {
		m.events.Publish(t, e)
	}
}

func isPrefab(res asset.Resource) bool {
	_, ok := res.(panel.Prefab)
	return ok
}

func errorKind(err error) string {
	switch {
	case errors.Is(err, ErrLoadFailure):
		return "load_failure"
	case errors.Is(err, ErrMissingCapability):
		return "missing_capability"
	case errors.Is(err, ErrUnknownLayer):
		return "unknown_layer"
	case errors.Is(err, ErrDuplicateInstance):
		return "duplicate_instance"
	case errors.Is(err, ErrCleared):
		return "cleared"
	default:
		return "other"
	}
}

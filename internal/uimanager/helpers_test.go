package uimanager

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/strata/internal/asset"
	"github.com/zjrosen/strata/internal/layer"
	"github.com/zjrosen/strata/internal/panel"
)

// stubLoader hands out pending handles that tests resolve explicitly.
type stubLoader struct {
	mu       sync.Mutex
	calls    map[string]int
	handles  map[string]*asset.Handle
	released map[string]int
}

func newStubLoader() *stubLoader {
	return &stubLoader{
		calls:    make(map[string]int),
		handles:  make(map[string]*asset.Handle),
		released: make(map[string]int),
	}
}

func (l *stubLoader) Load(_ context.Context, address string) *asset.Handle {
	h := asset.NewHandle(address, func(asset.Resource) {
		l.mu.Lock()
		defer l.mu.Unlock()
		l.released[address]++
	})
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls[address]++
	l.handles[address] = h
	return h
}

func (l *stubLoader) resolve(t *testing.T, address string, res asset.Resource, err error) {
	t.Helper()
	l.mu.Lock()
	h, ok := l.handles[address]
	l.mu.Unlock()
	require.True(t, ok, "no load issued for %q", address)
	h.Resolve(res, err)
}

func (l *stubLoader) succeed(t *testing.T, address string) *testPrefab {
	t.Helper()
	p := &testPrefab{}
	l.resolve(t, address, p, nil)
	return p
}

func (l *stubLoader) Calls(address string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.calls[address]
}

func (l *stubLoader) Released(address string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.released[address]
}

// testPanel counts every lifecycle hook.
type testPanel struct {
	panel.Base
	inits    int
	shows    int
	hides    int
	updates  int
	disposed bool
	args     []any
	onInit   func(p *testPanel)
	onUpdate func(p *testPanel)
}

func (p *testPanel) Init(args ...any) {
	p.inits++
	p.args = args
	if p.onInit != nil {
		p.onInit(p)
	}
}

func (p *testPanel) OnShow() { p.shows++ }
func (p *testPanel) OnHide() { p.hides++ }

func (p *testPanel) OnUpdate() {
	p.updates++
	if p.onUpdate != nil {
		p.onUpdate(p)
	}
}

func (p *testPanel) Dispose() { p.disposed = true }

// testPrefab builds testPanels and remembers them.
type testPrefab struct {
	mu       sync.Mutex
	built    []*testPanel
	onInit   func(p *testPanel)
	onUpdate func(p *testPanel)
}

func (f *testPrefab) Instantiate() (panel.Panel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p := &testPanel{onInit: f.onInit, onUpdate: f.onUpdate}
	f.built = append(f.built, p)
	return p, nil
}

func (f *testPrefab) last() *testPanel {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.built) == 0 {
		return nil
	}
	return f.built[len(f.built)-1]
}

func newTestManager(t *testing.T, opts ...Option) (*Manager, *stubLoader) {
	t.Helper()
	loader := newStubLoader()
	m := New(loader, opts...)
	require.NoError(t, m.Initialize(layer.DefaultSpecs()))
	t.Cleanup(m.Shutdown)
	return m, loader
}

func settle(t *testing.T, m *Manager) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, m.Settle(ctx))
}

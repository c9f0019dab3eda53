package panel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPanel struct {
	Base
	calls    []string
	disposed int
}

func (p *recordingPanel) Init(args ...any) { p.calls = append(p.calls, "init") }
func (p *recordingPanel) OnShow()          { p.calls = append(p.calls, "show") }
func (p *recordingPanel) OnHide()          { p.calls = append(p.calls, "hide") }
func (p *recordingPanel) OnUpdate()        { p.calls = append(p.calls, "update") }
func (p *recordingPanel) Dispose()         { p.disposed++ }
func (p *recordingPanel) Title() string    { return "Recorder" }

func TestInstance_Lifecycle(t *testing.T) {
	p := &recordingPanel{}
	inst := NewInstance("P", "mid", p)

	require.Equal(t, StateInstantiating, inst.State())
	require.False(t, inst.Visible())
	require.Equal(t, FullStretch(), inst.Transform)

	require.False(t, inst.Update(), "hidden instances do not update")

	inst.Show()
	require.Equal(t, StateShown, inst.State())
	require.True(t, inst.Update())

	inst.Hide()
	require.Equal(t, StateHidden, inst.State())
	require.False(t, inst.Update())

	inst.Destroy()
	inst.Destroy()
	require.Equal(t, StateDestroyed, inst.State())
	require.Equal(t, 1, p.disposed)

	assert.Equal(t, []string{"show", "update", "hide"}, p.calls)
}

func TestInstance_Title(t *testing.T) {
	inst := NewInstance("Panel_Attribute", "bot", &recordingPanel{})
	require.Equal(t, "Recorder", inst.Title())

	plain := NewInstance("Panel_Plain", "bot", &Base{})
	require.Equal(t, "Panel_Plain", plain.Title())
	require.Empty(t, plain.View(10, 3))
}

func TestBase_CloseUsesBoundCloser(t *testing.T) {
	p := &recordingPanel{}
	p.Close()

	var closed []Address
	BindCloser(p, "P", func(a Address) { closed = append(closed, a) })
	p.Close()

	require.Equal(t, []Address{"P"}, closed)
	require.Equal(t, Address("P"), p.Address())
}

func TestPrefabFunc(t *testing.T) {
	var prefab Prefab = PrefabFunc(func() (Panel, error) { return &Base{}, nil })
	p, err := prefab.Instantiate()
	require.NoError(t, err)
	require.NotNil(t, p)
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "shown", StateShown.String())
	assert.Equal(t, "unknown", State(42).String())
}

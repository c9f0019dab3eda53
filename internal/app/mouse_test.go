package app

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/strata/internal/panel"
	"github.com/zjrosen/strata/internal/uimanager"
)

// panelZone renders until the zone for address is registered. Zone
// registration goes through bubblezone's worker goroutine.
func panelZone(t *testing.T, m Model, address panel.Address) *zone.ZoneInfo {
	t.Helper()
	for range 100 {
		_ = m.View()
		if z := zone.Get(panelZoneID(address)); !z.IsZero() {
			return z
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("zone for %s never registered", address)
	return nil
}

func click(x, y int, button tea.MouseButton) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Button: button, Action: tea.MouseActionRelease}
}

func TestMouse_LeftClickMovesPanelToTopOfHistory(t *testing.T) {
	m := createTestModel(t)
	m = update(t, m, runes("q"))
	m = update(t, m, runes("1"))
	settle(t, m)
	require.Len(t, m.Manager().History(), 2)

	z := panelZone(t, m, AttributePanel)
	m = update(t, m, click((z.StartX+z.EndX)/2, z.EndY-1, tea.MouseButtonLeft))

	history := m.Manager().History()
	require.Len(t, history, 3)
	require.Equal(t, AttributePanel, history[2].Address)
}

func TestMouse_RightClickClosesPanel(t *testing.T) {
	m := createTestModel(t)
	m = update(t, m, runes("q"))
	settle(t, m)

	z := panelZone(t, m, AttributePanel)
	m = update(t, m, click(z.StartX+1, z.StartY+1, tea.MouseButtonRight))

	_, ok := m.Manager().Get(AttributePanel)
	require.False(t, ok)
	require.Equal(t, uimanager.StateLoaded, m.Manager().State(AttributePanel), "the asset stays cached")
}

func TestMouse_OverlapHitsHigherLayer(t *testing.T) {
	m := createTestModel(t)
	m = update(t, m, runes("1"))
	m = update(t, m, runes("2"))
	settle(t, m)

	mid := panelZone(t, m, InventoryPanel)
	top := panelZone(t, m, SettingsPanel)
	require.LessOrEqual(t, mid.StartY, top.EndY, "inventory and settings overlap at this size")

	m = update(t, m, click(mid.StartX+1, mid.StartY, tea.MouseButtonRight))

	_, ok := m.Manager().Get(SettingsPanel)
	require.False(t, ok, "the higher layer takes the click")
	_, ok = m.Manager().Get(InventoryPanel)
	require.True(t, ok)
}

func TestMouse_ClickOutsidePanelsIsIgnored(t *testing.T) {
	m := createTestModel(t)
	m = update(t, m, runes("q"))
	settle(t, m)
	z := panelZone(t, m, AttributePanel)

	m = update(t, m, click(z.StartX-1, z.StartY, tea.MouseButtonRight))
	m = update(t, m, tea.MouseMsg{X: z.StartX + 1, Y: z.StartY + 1, Button: tea.MouseButtonRight, Action: tea.MouseActionPress})

	_, ok := m.Manager().Get(AttributePanel)
	require.True(t, ok)
}

package app

import (
	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"

	"github.com/zjrosen/strata/internal/log"
	"github.com/zjrosen/strata/internal/panel"
)

const panelZonePrefix = "panel:"

func panelZoneID(address panel.Address) string {
	return panelZonePrefix + string(address)
}

// handleMouse acts on the topmost visible panel under the pointer. A left
// click opens it again, which moves it to the top of the history; a right
// click closes it.
func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if msg.Action != tea.MouseActionRelease {
		return m, nil
	}
	if m.logsEnabled && m.logOverlay.Visible() {
		return m, nil
	}

	inst, ok := m.panelAt(msg)
	if !ok {
		return m, nil
	}

	switch msg.Button {
	case tea.MouseButtonLeft:
		log.Debug(log.CatUI, "panel clicked", "address", inst.Address)
		return m.open(inst.Address, inst.Layer)
	case tea.MouseButtonRight:
		return m.close(inst.Address)
	}
	return m, nil
}

// panelAt searches layers top to bottom, and within a layer the most recently
// attached panel first, matching paint order.
func (m Model) panelAt(msg tea.MouseMsg) (*panel.Instance, bool) {
	layers := m.manager.Layers()
	for i := len(layers) - 1; i >= 0; i-- {
		children := layers[i].Children()
		for j := len(children) - 1; j >= 0; j-- {
			inst := children[j]
			if !inst.Visible() {
				continue
			}
			if zone.Get(panelZoneID(inst.Address)).InBounds(msg) {
				return inst, true
			}
		}
	}
	return nil, false
}

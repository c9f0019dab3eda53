package app

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	zone "github.com/lrstanley/bubblezone"

	"github.com/zjrosen/strata/internal/keys"
	"github.com/zjrosen/strata/internal/layer"
	"github.com/zjrosen/strata/internal/panel"
	"github.com/zjrosen/strata/internal/ui/overlay"
	"github.com/zjrosen/strata/internal/ui/styles"
)

const (
	maxFrameWidth = 72
	minFrameRows  = 4
)

// View implements tea.Model. Layers are painted bottom to top, children of a
// layer in attach order, so the most recently opened panel wins overlaps.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	area := m.height - 1
	view := overlay.Blank(m.width, area)

	painted := 0
	for _, c := range m.manager.Layers() {
		for _, inst := range c.Children() {
			if !inst.Visible() {
				continue
			}
			view = m.paint(view, c, inst, area)
			painted++
		}
	}

	if painted == 0 {
		hint := lipgloss.NewStyle().
			Foreground(styles.TextMutedColor).
			Italic(true).
			Render("No panels open. Press q for attributes or ? for help.")
		view = overlay.Place(overlay.Config{Width: m.width, Height: area}, hint, view)
	}

	if m.showHelp {
		box := lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(styles.OverlayBorderColor).
			Padding(0, 1).
			Render(m.fullHelp())
		view = overlay.Place(overlay.Config{Width: m.width, Height: area}, box, view)
	}

	view += "\n" + m.statusBar()

	view = m.toaster.Overlay(view, m.width, m.height)
	if m.logsEnabled {
		view = m.logOverlay.Overlay(view)
	}
	return zone.Scan(view)
}

// paint renders one framed instance onto view at its layer's placement.
func (m Model) paint(view string, c *layer.Container, inst *panel.Instance, area int) string {
	w, h := frameSize(c.Placement, m.width, area)
	content := inst.View(max(w-2, 1), max(h-2, 1))
	frame := styles.RenderFrame(content, inst.Title(), w, h, styles.LayerColor(c.Name))
	frame = zone.Mark(panelZoneID(inst.Address), frame)

	return overlay.Place(overlay.Config{
		Width:    m.width,
		Height:   area,
		Position: position(c.Placement),
	}, frame, view)
}

// frameSize picks the box size for a placement. Bottom and top layers get a
// band and center layers get a dialog, all capped at maxFrameWidth.
func frameSize(p layer.Placement, width, height int) (int, int) {
	w := max(min(width, maxFrameWidth), 1)

	var h int
	switch p {
	case layer.PlaceBottom:
		h = height / 3
	case layer.PlaceTop:
		h = height / 2
	default:
		h = height * 2 / 5
	}
	return w, max(min(h, height), min(minFrameRows, height))
}

func position(p layer.Placement) overlay.Position {
	switch p {
	case layer.PlaceTop:
		return overlay.Top
	case layer.PlaceBottom:
		return overlay.Bottom
	default:
		return overlay.Center
	}
}

func (m Model) statusBar() string {
	counts := make([]string, 0, 4)
	for _, c := range m.manager.Layers() {
		counts = append(counts, fmt.Sprintf("%s:%d", c.Name, c.Len()))
	}
	left := fmt.Sprintf("%s  history:%d  pending:%d  cached:%d",
		strings.Join(counts, " "),
		len(m.manager.History()),
		m.manager.Pending(),
		len(m.manager.CachedAssets()),
	)

	bar := styles.StatusBarStyle.Render(left) + "  " + m.help.ShortHelpView(keys.App.ShortHelp())
	return ansi.Truncate(bar, m.width, "…")
}

func (m Model) fullHelp() string {
	h := m.help
	h.ShowAll = true
	return styles.StatusBarKeyStyle.Render("Keys") + "\n\n" + h.FullHelpView(keys.App.FullHelp())
}

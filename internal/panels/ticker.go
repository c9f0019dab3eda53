package panels

import (
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"

	"github.com/zjrosen/strata/internal/catalog"
	"github.com/zjrosen/strata/internal/log"
	"github.com/zjrosen/strata/internal/panel"
)

// Ticker animates a spinner, one frame per OnUpdate.
type Ticker struct {
	panel.Base
	title  string
	label  string
	frames []string
	frame  int
	ticks  int
}

func newTicker(def catalog.Definition) (panel.Panel, error) {
	style := spinner.Dot
	if def.Param("spinner", "dot") == "line" {
		style = spinner.Line
	}
	return &Ticker{
		title:  titleOf(def),
		label:  def.Param("label", "Working"),
		frames: style.Frames,
	}, nil
}

func (t *Ticker) OnShow() {
	t.frame = 0
}

func (t *Ticker) OnUpdate() {
	t.ticks++
	t.frame = (t.frame + 1) % len(t.frames)
}

func (t *Ticker) Dispose() {
	log.Debug(log.CatPanel, "ticker disposed", "address", t.Address(), "ticks", t.ticks)
}

func (t *Ticker) Title() string { return t.title }

// Ticks returns how many updates the ticker has received.
func (t *Ticker) Ticks() int { return t.ticks }

func (t *Ticker) View(width, height int) string {
	return fitLines(fmt.Sprintf("%s %s (%d)", t.frames[t.frame], t.label, t.ticks), width, height)
}

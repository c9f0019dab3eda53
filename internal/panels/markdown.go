package panels

import (
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/zjrosen/strata/internal/catalog"
	"github.com/zjrosen/strata/internal/log"
	"github.com/zjrosen/strata/internal/panel"
)

// noMarginStyle removes glamour's document margins so content fills the box.
const noMarginStyle = `{
	"document": {
		"margin": 0,
		"block_prefix": "",
		"block_suffix": ""
	}
}`

// Markdown renders its body with glamour. Output is cached per width.
type Markdown struct {
	panel.Base
	title string
	body  string
	style string

	width    int
	rendered string
}

func newMarkdown(def catalog.Definition) (panel.Panel, error) {
	return &Markdown{
		title: titleOf(def),
		body:  def.Body,
		style: def.Param("style", "auto"),
	}, nil
}

func (m *Markdown) Title() string { return m.title }

func (m *Markdown) Dispose() {
	m.rendered = ""
	m.width = 0
}

func (m *Markdown) View(width, height int) string {
	if width != m.width || m.rendered == "" {
		m.rendered = m.render(width)
		m.width = width
	}
	return fitLines(m.rendered, width, height)
}

func (m *Markdown) render(width int) string {
	styleOpt := glamour.WithAutoStyle()
	if m.style != "auto" {
		styleOpt = glamour.WithStandardStyle(m.style)
	}
	r, err := glamour.NewTermRenderer(
		styleOpt,
		glamour.WithStylesFromJSONBytes([]byte(noMarginStyle)),
		glamour.WithWordWrap(max(width, 10)),
	)
	if err != nil {
		log.ErrorErr(log.CatUI, "markdown renderer", err, "address", m.Address())
		return m.body
	}
	out, err := r.Render(m.body)
	if err != nil {
		log.ErrorErr(log.CatUI, "markdown render", err, "address", m.Address())
		return m.body
	}
	return strings.Trim(out, "\n")
}

package panels

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/wordwrap"

	"github.com/zjrosen/strata/internal/catalog"
	"github.com/zjrosen/strata/internal/log"
	"github.com/zjrosen/strata/internal/panel"
)

// Text shows a fixed, word-wrapped body.
type Text struct {
	panel.Base
	title string
	body  string
}

func newText(def catalog.Definition) (panel.Panel, error) {
	return &Text{title: titleOf(def), body: def.Body}, nil
}

// Init replaces the body when the first argument is a string or Stringer.
func (t *Text) Init(args ...any) {
	if len(args) == 0 {
		return
	}
	switch v := args[0].(type) {
	case string:
		t.body = v
	case fmt.Stringer:
		t.body = v.String()
	}
	log.Debug(log.CatPanel, "text panel initialized", "address", t.Address())
}

func (t *Text) Title() string { return t.title }

// Body returns the current text.
func (t *Text) Body() string { return t.body }

func (t *Text) View(width, height int) string {
	return fitLines(wordwrap.String(t.body, max(width, 1)), width, height)
}

// fitLines truncates every line to width cells and keeps at most height lines.
func fitLines(s string, width, height int) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	if height > 0 && len(lines) > height {
		lines = lines[:height]
		lines[height-1] = "…"
	}
	for i, line := range lines {
		if runewidth.StringWidth(line) > width {
			lines[i] = runewidth.Truncate(line, width, "…")
		}
	}
	return strings.Join(lines, "\n")
}

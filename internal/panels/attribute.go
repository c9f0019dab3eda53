package panels

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"github.com/zjrosen/strata/internal/catalog"
	"github.com/zjrosen/strata/internal/log"
	"github.com/zjrosen/strata/internal/panel"
)

// regenEvery is how many frames pass between stamina points.
const regenEvery = 10

// Stat is one bar on the attribute panel.
type Stat struct {
	Name  string
	Value int
	Max   int
}

// Attribute shows character stats as progress bars. Stamina regenerates while
// the panel is visible.
type Attribute struct {
	panel.Base
	title  string
	stats  []Stat
	frames int
	bar    progress.Model
}

var attributeStats = []string{"health", "mana", "stamina"}

func newAttribute(def catalog.Definition) (panel.Panel, error) {
	a := &Attribute{
		title: titleOf(def),
		bar:   progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
	}
	for _, name := range attributeStats {
		raw := def.Param(name, "100")
		v, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("attribute %s: %q is not a number", name, raw)
		}
		a.stats = append(a.stats, Stat{Name: name, Value: clamp(v, 0, 100), Max: 100})
	}
	return a, nil
}

// Init accepts a map[string]int of stat overrides.
func (a *Attribute) Init(args ...any) {
	for _, arg := range args {
		overrides, ok := arg.(map[string]int)
		if !ok {
			continue
		}
		for i := range a.stats {
			if v, ok := overrides[a.stats[i].Name]; ok {
				a.stats[i].Value = clamp(v, 0, a.stats[i].Max)
			}
		}
	}
	log.Debug(log.CatPanel, "attribute panel init", "address", a.Address())
}

func (a *Attribute) OnShow() {
	log.Debug(log.CatPanel, "attribute panel shown", "address", a.Address())
}

func (a *Attribute) OnUpdate() {
	a.frames++
	if a.frames%regenEvery != 0 {
		return
	}
	for i := range a.stats {
		if a.stats[i].Name == "stamina" && a.stats[i].Value < a.stats[i].Max {
			a.stats[i].Value++
		}
	}
}

func (a *Attribute) Title() string { return a.title }

// Stats returns a copy of the current stats.
func (a *Attribute) Stats() []Stat {
	return append([]Stat(nil), a.stats...)
}

func (a *Attribute) View(width, height int) string {
	labelWidth := 8
	a.bar.Width = max(width-labelWidth-5, 4)

	label := lipgloss.NewStyle().Width(labelWidth)
	rows := make([]string, 0, len(a.stats))
	for _, s := range a.stats {
		pct := float64(s.Value) / float64(s.Max)
		rows = append(rows, fmt.Sprintf("%s%s %3d", label.Render(s.Name), a.bar.ViewAs(pct), s.Value))
	}
	return fitLines(strings.Join(rows, "\n"), width, height)
}

func clamp(v, lo, hi int) int {
	return min(max(v, lo), hi)
}

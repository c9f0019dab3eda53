package logoverlay

import (
	"fmt"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/strata/internal/ui/overlay"
)

const (
	debugEntry = "2026-10-19T10:00:00 [DEBUG] [panel] tick\n"
	infoEntry  = "2026-10-19T10:00:01 [INFO] [panel] opened address=Panel_Attribute\n"
	warnEntry  = "2026-10-19T10:00:02 [WARN] [panel] not open address=Panel_Settings\n"
	errorEntry = "2026-10-19T10:00:03 [ERROR] [asset] load failed error=boom\n"
)

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func visibleModel() Model {
	m := New()
	m.SetSize(100, 30)
	for _, e := range []string{debugEntry, infoEntry, warnEntry, errorEntry} {
		m.Append(e)
	}
	m.Toggle()
	return m
}

func TestNew_Hidden(t *testing.T) {
	m := New()
	assert.False(t, m.Visible())
	assert.Empty(t, m.View())
	assert.Equal(t, "bg", m.Overlay("bg"))
}

func TestAppend_TrimsNewlineAndCaps(t *testing.T) {
	m := New()
	for i := range maxEntries + 10 {
		m.Append(fmt.Sprintf("[INFO] entry %d\n", i))
	}

	entries := m.Entries()
	require.Len(t, entries, maxEntries)
	assert.Equal(t, "[INFO] entry 10", entries[0])
}

func TestLevelFilter(t *testing.T) {
	m := visibleModel()
	require.Len(t, m.Entries(), 4)

	m, _ = m.Update(key("w"))
	entries := m.Entries()
	require.Len(t, entries, 2)
	assert.Contains(t, entries[0], "[WARN]")
	assert.Contains(t, entries[1], "[ERROR]")

	m, _ = m.Update(key("e"))
	require.Len(t, m.Entries(), 1)

	m, _ = m.Update(key("d"))
	require.Len(t, m.Entries(), 4)
}

func TestClear(t *testing.T) {
	m := visibleModel()
	m, _ = m.Update(key("c"))

	assert.Empty(t, m.Entries())
	assert.Contains(t, m.View(), "No logs to display")
}

func TestEscCloses(t *testing.T) {
	m := visibleModel()

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})

	assert.False(t, m.Visible())
	require.NotNil(t, cmd)
	assert.IsType(t, CloseMsg{}, cmd())
}

func TestHiddenIgnoresKeys(t *testing.T) {
	m := New()
	m.Append(infoEntry)

	m, cmd := m.Update(key("c"))

	assert.Nil(t, cmd)
	assert.Len(t, m.Entries(), 1)
}

func TestView_ShowsEntriesAndHint(t *testing.T) {
	m := visibleModel()

	view := m.View()
	assert.Contains(t, view, "Logs")
	assert.Contains(t, view, "opened address=Panel_Attribute")
	assert.Contains(t, view, "[e] Error")
}

func TestOverlay_Centered(t *testing.T) {
	m := visibleModel()

	out := m.Overlay(overlay.Blank(100, 30))

	lines := strings.Split(out, "\n")
	require.Len(t, lines, 30)
	assert.True(t, strings.HasPrefix(lines[0], "    "), "box should not touch the top edge")
}

func TestLevelOf(t *testing.T) {
	assert.Equal(t, "DEBUG", levelOf("no tag").String())
	assert.Equal(t, "ERROR", levelOf(errorEntry).String())
}

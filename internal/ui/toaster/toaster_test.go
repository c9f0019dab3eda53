package toaster

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/strata/internal/ui/overlay"
)

func TestNew(t *testing.T) {
	m := New()

	assert.False(t, m.Visible())
	assert.Empty(t, m.View())
}

func TestShow(t *testing.T) {
	m := New().Show("Hello", StyleSuccess)

	assert.True(t, m.Visible())
	assert.Contains(t, m.View(), "✓ Hello")
}

func TestHide(t *testing.T) {
	m := New().Show("Hello", StyleSuccess).Hide()

	assert.False(t, m.Visible())
	assert.Empty(t, m.View())
}

func TestShow_ReplacesExisting(t *testing.T) {
	m := New().
		Show("First", StyleSuccess).
		Show("Second", StyleError)

	assert.Contains(t, m.View(), "✗ Second")
	assert.NotContains(t, m.View(), "First")
}

func TestView_Icons(t *testing.T) {
	tests := []struct {
		style Style
		icon  string
	}{
		{StyleSuccess, "✓"},
		{StyleError, "✗"},
		{StyleInfo, "•"},
		{StyleWarn, "!"},
	}
	for _, tt := range tests {
		view := New().Show("msg", tt.style).View()
		assert.Contains(t, view, tt.icon+" msg")
	}
}

func TestNotify_SchedulesDismiss(t *testing.T) {
	m, cmd := New().Notify("Loaded", StyleInfo, time.Millisecond)
	require.NotNil(t, cmd)

	msg := cmd()
	dismiss, ok := msg.(DismissMsg)
	require.True(t, ok)

	m = m.Dismiss(dismiss)
	assert.False(t, m.Visible())
}

func TestDismiss_IgnoresStaleToast(t *testing.T) {
	m, first := New().Notify("first", StyleInfo, time.Millisecond)
	m, _ = m.Notify("second", StyleWarn, time.Hour)

	m = m.Dismiss(first().(DismissMsg))

	assert.True(t, m.Visible())
	assert.Equal(t, "second", m.Message())
}

func TestOverlay_BottomCenter(t *testing.T) {
	m := New().Show("Hi", StyleSuccess)
	bg := overlay.Blank(30, 8)

	out := m.Overlay(bg, 30, 8)

	lines := strings.Split(out, "\n")
	require.Len(t, lines, 8)
	assert.Contains(t, lines[5], "✓ Hi")
	assert.Equal(t, strings.Repeat(" ", 30), lines[7])
}

func TestOverlay_HiddenReturnsBackground(t *testing.T) {
	bg := "background"
	assert.Equal(t, bg, New().Overlay(bg, 10, 1))
}

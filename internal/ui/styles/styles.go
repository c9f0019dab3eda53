// Package styles contains Lip Gloss style definitions.
package styles

import "github.com/charmbracelet/lipgloss"

var (
	// Text hierarchy
	TextPrimaryColor = lipgloss.AdaptiveColor{Light: "#2D3436", Dark: "#CCCCCC"}
	TextMutedColor   = lipgloss.AdaptiveColor{Light: "#8A8A8A", Dark: "#696969"}

	// Status
	StatusSuccessColor = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}
	StatusWarningColor = lipgloss.AdaptiveColor{Light: "#FECA57", Dark: "#FECA57"}
	StatusErrorColor   = lipgloss.AdaptiveColor{Light: "#FF6B6B", Dark: "#FF8787"}

	// Layer frames (Catppuccin Mocha)
	LayerBotColor      = lipgloss.AdaptiveColor{Light: "#179299", Dark: "#94E2D5"} // teal
	LayerMidColor      = lipgloss.AdaptiveColor{Light: "#1E66F5", Dark: "#89B4FA"} // blue
	LayerTopColor      = lipgloss.AdaptiveColor{Light: "#8839EF", Dark: "#CBA6F7"} // mauve
	LayerSystemColor   = lipgloss.AdaptiveColor{Light: "#FE640B", Dark: "#FAB387"} // peach
	BorderDefaultColor = lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#696969"}

	// Overlays
	OverlayTitleColor  = lipgloss.AdaptiveColor{Light: "#2D3436", Dark: "#FFFFFF"}
	OverlayBorderColor = lipgloss.AdaptiveColor{Light: "#8A8A8A", Dark: "#8A8A8A"}

	// Toasts
	ToastBorderSuccessColor = StatusSuccessColor
	ToastBorderErrorColor   = StatusErrorColor
	ToastBorderInfoColor    = lipgloss.AdaptiveColor{Light: "#1E66F5", Dark: "#89B4FA"}
	ToastBorderWarnColor    = StatusWarningColor

	// Status bar
	StatusBarStyle = lipgloss.NewStyle().
			Foreground(TextMutedColor).
			Padding(0, 1)

	StatusBarKeyStyle = lipgloss.NewStyle().
				Foreground(TextPrimaryColor).
				Bold(true)
)

// LayerColor returns the frame color used for panels on the named layer.
func LayerColor(name string) lipgloss.TerminalColor {
	switch name {
	case "bot":
		return LayerBotColor
	case "mid":
		return LayerMidColor
	case "top":
		return LayerTopColor
	case "system":
		return LayerSystemColor
	default:
		return BorderDefaultColor
	}
}

// Package keys contains keybinding definitions.
package keys

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the keybindings for the panel host.
type KeyMap struct {
	// Demo panels
	OpenAttribute  key.Binding
	CloseAttribute key.Binding
	OpenInventory  key.Binding
	OpenSettings   key.Binding
	OpenPrompt     key.Binding
	OpenLoading    key.Binding

	// Manager
	Back     key.Binding
	CloseTop key.Binding
	ClearAll key.Binding
	Preload  key.Binding
	Reload   key.Binding

	// General
	Help       key.Binding
	LogOverlay key.Binding
	Quit       key.Binding
}

// App is the global keymap used by the host.
var App = DefaultKeyMap()

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		OpenAttribute: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "open attributes"),
		),
		CloseAttribute: key.NewBinding(
			key.WithKeys("w"),
			key.WithHelp("w", "close attributes"),
		),
		OpenInventory: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "inventory"),
		),
		OpenSettings: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "settings"),
		),
		OpenPrompt: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "prompt"),
		),
		OpenLoading: key.NewBinding(
			key.WithKeys("4"),
			key.WithHelp("4", "loading"),
		),

		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		CloseTop: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "close top"),
		),
		ClearAll: key.NewBinding(
			key.WithKeys("X"),
			key.WithHelp("X", "clear all"),
		),
		Preload: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "preload catalog"),
		),
		Reload: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reload catalog"),
		),

		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		LogOverlay: key.NewBinding(
			key.WithKeys("ctrl+x"),
			key.WithHelp("ctrl+x", "logs"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
	}
}

// ShortHelp returns keybindings for the short help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.OpenAttribute, k.CloseAttribute, k.Back, k.Help, k.Quit}
}

// FullHelp returns keybindings for the full help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.OpenAttribute, k.CloseAttribute, k.OpenInventory, k.OpenSettings, k.OpenPrompt, k.OpenLoading}, // Panels
		{k.Back, k.CloseTop, k.ClearAll, k.Preload, k.Reload},                                             // Manager
		{k.Help, k.LogOverlay, k.Quit},                                                                    // General
	}
}

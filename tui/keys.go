package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the key bindings for the ordering client.
type KeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Select key.Binding
	Back   key.Binding

	// Screen switching.
	GoMenu    key.Binding
	GoCart    key.Binding
	GoOrders  key.Binding
	GoProfile key.Binding
	GoAdmin   key.Binding

	// Cart mutations on the menu and cart screens.
	AddToCart  key.Binding
	RemoveItem key.Binding
	Checkout   key.Binding

	Refresh key.Binding
	Logout  key.Binding
	Quit    key.Binding
}

// DefaultKeyMap is the built-in binding set. Vim-style movement (j/k)
// alongside arrow keys.
var DefaultKeyMap = KeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "down"),
	),
	Select: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("↵", "select"),
	),
	Back: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("Esc", "back"),
	),
	GoMenu: key.NewBinding(
		key.WithKeys("1"),
		key.WithHelp("1", "menu"),
	),
	GoCart: key.NewBinding(
		key.WithKeys("2"),
		key.WithHelp("2", "cart"),
	),
	GoOrders: key.NewBinding(
		key.WithKeys("3"),
		key.WithHelp("3", "orders"),
	),
	GoProfile: key.NewBinding(
		key.WithKeys("4"),
		key.WithHelp("4", "profile"),
	),
	GoAdmin: key.NewBinding(
		key.WithKeys("5"),
		key.WithHelp("5", "admin"),
	),
	AddToCart: key.NewBinding(
		key.WithKeys("a"),
		key.WithHelp("a", "add to cart"),
	),
	RemoveItem: key.NewBinding(
		key.WithKeys("x"),
		key.WithHelp("x", "remove"),
	),
	Checkout: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "checkout"),
	),
	Refresh: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "refresh"),
	),
	Logout: key.NewBinding(
		key.WithKeys("L"),
		key.WithHelp("L", "sign out"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

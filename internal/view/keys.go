package view

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all keyboard shortcuts of the viewer.
type KeyMap struct {
	PanUp    key.Binding
	PanDown  key.Binding
	PanLeft  key.Binding
	PanRight key.Binding
	ZoomIn   key.Binding
	ZoomOut  key.Binding
	Fit      key.Binding
	Focus    key.Binding
	Next     key.Binding
	Prev     key.Binding
	Collapse key.Binding
	Search   key.Binding
	Back     key.Binding
	Help     key.Binding
	Quit     key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		PanUp: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "pan up"),
		),
		PanDown: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "pan down"),
		),
		PanLeft: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "pan left"),
		),
		PanRight: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "pan right"),
		),
		ZoomIn: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "zoom in"),
		),
		ZoomOut: key.NewBinding(
			key.WithKeys("-", "_"),
			key.WithHelp("-", "zoom out"),
		),
		Fit: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "fit tree"),
		),
		Focus: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "focus node"),
		),
		Next: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next node"),
		),
		Prev: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "previous node"),
		),
		Collapse: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "collapse/expand"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "clear"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

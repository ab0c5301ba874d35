package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	NextWidget key.Binding
	PrevWidget key.Binding
	RowUp      key.Binding
	RowDown    key.Binding
	Tap        key.Binding
	Increment  key.Binding
	Reload     key.Binding
	Help       key.Binding
	Quit       key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		NextWidget: key.NewBinding(key.WithKeys("tab", "l", "right"), key.WithHelp("tab/l", "next widget")),
		PrevWidget: key.NewBinding(key.WithKeys("shift+tab", "h", "left"), key.WithHelp("shift+tab/h", "prev widget")),
		RowUp:      key.NewBinding(key.WithKeys("k", "up", "ctrl+p"), key.WithHelp("k/↑", "row up")),
		RowDown:    key.NewBinding(key.WithKeys("j", "down", "ctrl+n"), key.WithHelp("j/↓", "row down")),
		Tap:        key.NewBinding(key.WithKeys(" ", "enter"), key.WithHelp("space/enter", "tap row")),
		Increment:  key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "increment")),
		Reload:     key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		Help:       key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more keys")),
		Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NextWidget, k.RowDown, k.Tap, k.Increment, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.NextWidget, k.PrevWidget, k.RowUp, k.RowDown},
		{k.Tap, k.Increment, k.Reload},
		{k.Help, k.Quit},
	}
}

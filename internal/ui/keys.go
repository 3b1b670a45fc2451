package ui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up     key.Binding
	Down   key.Binding
	Left   key.Binding
	Right  key.Binding
	Enter  key.Binding
	Back   key.Binding
	Quit   key.Binding
	Bin1   key.Binding
	Bin2   key.Binding
	Bin3   key.Binding
	Lang1  key.Binding
	Lang2  key.Binding
	screen screen
}

func (k keyMap) ShortHelp() []key.Binding {
	switch k.screen {
	case screenFiles:
		return []key.Binding{k.Left, k.Right, k.Enter, k.Quit}
	case screenRefine:
		return []key.Binding{k.Bin1, k.Bin2, k.Bin3, k.Back, k.Quit}
	case screenLanguage:
		return []key.Binding{k.Lang1, k.Lang2, k.Quit}
	case screenInstructions:
		return []key.Binding{k.Enter, k.Quit}
	case screenCongrats:
		return []key.Binding{k.Back, k.Quit}
	}
	return []key.Binding{k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right},
		{k.Bin1, k.Bin2, k.Bin3},
		{k.Enter, k.Back, k.Quit},
	}
}

// forScreen returns a copy whose ShortHelp matches s.
func (k keyMap) forScreen(s screen) keyMap {
	k.screen = s
	return k
}

var keys = keyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "down"),
	),
	Left: key.NewBinding(
		key.WithKeys("left", "h"),
		key.WithHelp("←/h", "previous"),
	),
	Right: key.NewBinding(
		key.WithKeys("right", "l"),
		key.WithHelp("→/l", "next"),
	),
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "begin"),
	),
	Back: key.NewBinding(
		key.WithKeys("esc", "b"),
		key.WithHelp("esc/b", "back"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q/ctrl+c", "quit"),
	),
	Bin1: key.NewBinding(
		key.WithKeys("1"),
		key.WithHelp("1", "happiness"),
	),
	Bin2: key.NewBinding(
		key.WithKeys("2"),
		key.WithHelp("2", "love"),
	),
	Bin3: key.NewBinding(
		key.WithKeys("3"),
		key.WithHelp("3", "sadness"),
	),
	Lang1: key.NewBinding(
		key.WithKeys("1"),
		key.WithHelp("1", "english"),
	),
	Lang2: key.NewBinding(
		key.WithKeys("2"),
		key.WithHelp("2", "español"),
	),
}

package terminal

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Quit   key.Binding
	Submit key.Binding
	Roster key.Binding
	Back   key.Binding
	Up     key.Binding
	Down   key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Quit:   key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
		Submit: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "send")),
		Roster: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "pick a peer")),
		Back:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("up", "move")),
		Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("down", "move")),
	}
}

package dropdown

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// KeyMap defines the keybindings for the dropdown
type KeyMap struct {
	Open   key.Binding
	Up     key.Binding
	Down   key.Binding
	Select key.Binding
	Close  key.Binding
	Next   key.Binding
	Clear  key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Open: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "open"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "ctrl+p"),
			key.WithHelp("↑", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "ctrl+n"),
			key.WithHelp("↓", "down"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "select"),
		),
		Close: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "close"),
		),
		Next: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next field"),
		),
		Clear: key.NewBinding(
			key.WithKeys("ctrl+x"),
			key.WithHelp("ctrl+x", "clear"),
		),
	}
}

// ShortHelp returns the short help text for the keymap
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Down, k.Select, k.Close, k.Clear}
}

// FullHelp returns the full help text for the keymap
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Open, k.Up, k.Down, k.Select},
		{k.Close, k.Next, k.Clear},
	}
}

// stateKey maps a key press onto the state machine's keys.
func (k KeyMap) stateKey(km tea.KeyMsg, open bool) (Key, bool) {
	switch {
	case key.Matches(km, k.Select):
		return KeyEnter, true
	case key.Matches(km, k.Down):
		return KeyDown, true
	case key.Matches(km, k.Up):
		return KeyUp, true
	case key.Matches(km, k.Close):
		return KeyEscape, true
	case key.Matches(km, k.Next):
		return KeyTab, true
	case !open && key.Matches(km, k.Open):
		return KeySpace, true
	}
	return 0, false
}

package sim

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// Action is what a key press asks the loop to do.
type Action int

const (
	ActionNone Action = iota
	ActionBoost
	ActionQuit
)

type keyMap struct {
	Boost key.Binding
	Quit  key.Binding
}

var keys = keyMap{
	Boost: key.NewBinding(key.WithKeys(" ", "space"), key.WithHelp("space", "test blink")),
	Quit:  key.NewBinding(key.WithKeys("esc", "q", "ctrl+c"), key.WithHelp("esc", "quit")),
}

func (k keyMap) ShortHelp() []key.Binding  { return []key.Binding{k.Boost, k.Quit} }
func (k keyMap) FullHelp() [][]key.Binding { return [][]key.Binding{k.ShortHelp()} }

// ParseKey maps a key press to an Action.
func ParseKey(msg tea.KeyMsg) Action {
	switch {
	case key.Matches(msg, keys.Boost):
		return ActionBoost
	case key.Matches(msg, keys.Quit):
		return ActionQuit
	}
	return ActionNone
}

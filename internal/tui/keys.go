package tui

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/verte-zerg/bfhl/internal/model"
)

type keyMap struct {
	Submit key.Binding
	Focus  key.Binding
	Left   key.Binding
	Right  key.Binding
	Up     key.Binding
	Down   key.Binding
	Toggle key.Binding
	Check  key.Binding
	Commit key.Binding
	Remove key.Binding
	Back   key.Binding
	Quit   key.Binding
	mode   model.Mode
	focus  focusArea
}

func newKeyMap(mode model.Mode) keyMap {
	return keyMap{
		Submit: key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "submit")),
		Focus:  key.NewBinding(key.WithKeys("tab", "shift+tab"), key.WithHelp("tab", "switch focus")),
		Left:   key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "prev")),
		Right:  key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next")),
		Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Toggle: key.NewBinding(key.WithKeys(" ", "space", "enter"), key.WithHelp("space", "toggle")),
		Check:  key.NewBinding(key.WithKeys(" ", "space"), key.WithHelp("space", "check")),
		Commit: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "apply")),
		Remove: key.NewBinding(key.WithKeys("enter", "x", "backspace", "delete"), key.WithHelp("x", "remove")),
		Back:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		Quit:   key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
		mode:   mode,
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	switch k.focus {
	case focusFilters:
		if k.mode == model.ModeMulti {
			return []key.Binding{k.Up, k.Down, k.Check, k.Commit, k.Focus, k.Back, k.Quit}
		}
		return []key.Binding{k.Left, k.Right, k.Toggle, k.Focus, k.Back, k.Quit}
	case focusTags:
		return []key.Binding{k.Left, k.Right, k.Remove, k.Focus, k.Back, k.Quit}
	default:
		return []key.Binding{k.Submit, k.Focus, k.Quit}
	}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

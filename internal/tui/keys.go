package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	AddSibling key.Binding
	AddChild   key.Binding
	Rename     key.Binding
	Toggle     key.Binding
	Expand     key.Binding
	Delete     key.Binding
	MoveUp     key.Binding
	MoveDown   key.Binding
	Indent     key.Binding
	Outdent    key.Binding
	Undo       key.Binding
	Redo       key.Binding
	Yank       key.Binding
	Reload     key.Binding
	Help       key.Binding
	Quit       key.Binding
}

var keys = keyMap{
	AddSibling: key.NewBinding(
		key.WithKeys("a"),
		key.WithHelp("a", "add node"),
	),
	AddChild: key.NewBinding(
		key.WithKeys("A"),
		key.WithHelp("A", "add child"),
	),
	Rename: key.NewBinding(
		key.WithKeys("enter", "e"),
		key.WithHelp("enter/e", "edit title"),
	),
	Toggle: key.NewBinding(
		key.WithKeys(" "),
		key.WithHelp("space", "toggle done"),
	),
	Expand: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "expand/collapse"),
	),
	Delete: key.NewBinding(
		key.WithKeys("D"),
		key.WithHelp("D", "delete subtree"),
	),
	MoveUp: key.NewBinding(
		key.WithKeys("K", "shift+up"),
		key.WithHelp("K", "move up"),
	),
	MoveDown: key.NewBinding(
		key.WithKeys("J", "shift+down"),
		key.WithHelp("J", "move down"),
	),
	Indent: key.NewBinding(
		key.WithKeys("L", "shift+right"),
		key.WithHelp("L", "indent"),
	),
	Outdent: key.NewBinding(
		key.WithKeys("H", "shift+left"),
		key.WithHelp("H", "outdent"),
	),
	Undo: key.NewBinding(
		key.WithKeys("u"),
		key.WithHelp("u", "undo"),
	),
	Redo: key.NewBinding(
		key.WithKeys("ctrl+r"),
		key.WithHelp("ctrl+r", "redo"),
	),
	Yank: key.NewBinding(
		key.WithKeys("y"),
		key.WithHelp("y", "copy title"),
	),
	Reload: key.NewBinding(
		key.WithKeys("R"),
		key.WithHelp("R", "reload from disk"),
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

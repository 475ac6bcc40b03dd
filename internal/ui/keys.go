package ui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up          key.Binding
	Down        key.Binding
	PrevPage    key.Binding
	NextPage    key.Binding
	Refresh     key.Binding
	AutoRefresh key.Binding
	TimeRange   key.Binding
	Service     key.Binding
	Filter      key.Binding
	Sort        key.Binding
	Order       key.Binding
	Share       key.Binding
	Enter       key.Binding
	Back        key.Binding
	Help        key.Binding
	Quit        key.Binding
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
	PrevPage: key.NewBinding(
		key.WithKeys("[", "pgup"),
		key.WithHelp("[", "prev page"),
	),
	NextPage: key.NewBinding(
		key.WithKeys("]", "pgdown"),
		key.WithHelp("]", "next page"),
	),
	Refresh: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "refresh"),
	),
	AutoRefresh: key.NewBinding(
		key.WithKeys("a"),
		key.WithHelp("a", "auto-refresh"),
	),
	TimeRange: key.NewBinding(
		key.WithKeys("t"),
		key.WithHelp("t", "time range"),
	),
	Service: key.NewBinding(
		key.WithKeys("v"),
		key.WithHelp("v", "service"),
	),
	Filter: key.NewBinding(
		key.WithKeys("f", "/"),
		key.WithHelp("f", "filter"),
	),
	Sort: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "sort column"),
	),
	Order: key.NewBinding(
		key.WithKeys("S"),
		key.WithHelp("S", "sort order"),
	),
	Share: key.NewBinding(
		key.WithKeys("u"),
		key.WithHelp("u", "share link"),
	),
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "details"),
	),
	Back: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "back"),
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

// ShortHelp is the one-line hint under the table.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Refresh, k.Filter, k.Sort, k.NextPage, k.Enter, k.Help, k.Quit}
}

// FullHelp is the expanded help grid.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.PrevPage, k.NextPage},
		{k.Refresh, k.AutoRefresh, k.TimeRange, k.Service},
		{k.Filter, k.Sort, k.Order, k.Share},
		{k.Enter, k.Back, k.Quit},
	}
}

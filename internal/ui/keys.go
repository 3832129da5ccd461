package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all keyboard bindings for the application.
type keyMap struct {
	// Global
	Quit       key.Binding
	Help       key.Binding
	CycleTheme key.Binding
	Refetch    key.Binding
	Tab        key.Binding
	Escape     key.Binding

	// View switching
	ViewList    key.Binding
	ViewGallery key.Binding
	ViewLogs    key.Binding

	// List actions
	Search      key.Binding
	CycleSort   key.Binding
	ToggleOrder key.Binding
	Open        key.Binding

	// Gallery actions
	ToggleType key.Binding
	ClearTypes key.Binding
	TypeLeft   key.Binding
	TypeRight  key.Binding

	// Detail actions
	Prev key.Binding
	Next key.Binding

	// Navigation
	Up       key.Binding
	Down     key.Binding
	Top      key.Binding
	Bottom   key.Binding
	PageUp   key.Binding
	PageDown key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "q"),
			key.WithHelp("q", "Quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "Toggle help"),
		),
		CycleTheme: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "Cycle theme"),
		),
		Refetch: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "Reload data"),
		),
		Tab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "List/Gallery"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "Back"),
		),

		ViewList: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "List view"),
		),
		ViewGallery: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "Gallery view"),
		),
		ViewLogs: key.NewBinding(
			key.WithKeys("L"),
			key.WithHelp("L", "Session log"),
		),

		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "Search"),
		),
		CycleSort: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "Cycle sort field"),
		),
		ToggleOrder: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "Toggle order"),
		),
		Open: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Open detail"),
		),

		ToggleType: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "Toggle type"),
		),
		ClearTypes: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "Clear types"),
		),
		TypeLeft: key.NewBinding(
			key.WithKeys("h"),
			key.WithHelp("h", "Previous type"),
		),
		TypeRight: key.NewBinding(
			key.WithKeys("l"),
			key.WithHelp("l", "Next type"),
		),

		Prev: key.NewBinding(
			key.WithKeys("p", "left"),
			key.WithHelp("p/left", "Previous"),
		),
		Next: key.NewBinding(
			key.WithKeys("n", "right"),
			key.WithHelp("n/right", "Next"),
		),

		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/up", "Move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/down", "Move down"),
		),
		Top: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "Go to top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "Go to bottom"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup", "ctrl+u"),
			key.WithHelp("pgup", "Page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown", "ctrl+d"),
			key.WithHelp("pgdown", "Page down"),
		),
	}
}

// ShortHelp returns key bindings for the short help view.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tab, k.ViewList, k.ViewGallery, k.ViewLogs, k.Escape},
		{k.Up, k.Down, k.Top, k.Bottom, k.PageUp, k.PageDown},
		{k.Search, k.CycleSort, k.ToggleOrder, k.Open},
		{k.TypeLeft, k.TypeRight, k.ToggleType, k.ClearTypes},
		{k.Prev, k.Next},
		{k.Refetch, k.CycleTheme, k.Help, k.Quit},
	}
}

package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

type keyMap struct {
	Quit      key.Binding
	Lock      key.Binding
	StartMenu key.Binding
	Calendar  key.Binding
	Refresh   key.Binding
	Dismiss   key.Binding
	Open      key.Binding
	PrevMonth key.Binding
	NextMonth key.Binding
	SortName  key.Binding
	SortType  key.Binding
	SortDate  key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "ctrl+q"),
			key.WithHelp("ctrl+q", "quit"),
		),
		Lock: key.NewBinding(
			key.WithKeys("ctrl+l"),
			key.WithHelp("ctrl+l", "lock"),
		),
		StartMenu: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "start"),
		),
		Calendar: key.NewBinding(
			key.WithKeys("ctrl+t"),
			key.WithHelp("ctrl+t", "calendar"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("ctrl+r", "refresh"),
		),
		Dismiss: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "close"),
		),
		Open: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open"),
		),
		PrevMonth: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←", "prev month"),
		),
		NextMonth: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→", "next month"),
		),
		SortName: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "sort name"),
		),
		SortType: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "sort type"),
		),
		SortDate: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "sort date"),
		),
	}
}

// shortHelp renders the bindings shown on the lock screen footer.
func (k keyMap) shortHelp() string {
	var parts []string
	for _, b := range []key.Binding{k.StartMenu, k.Calendar, k.Lock, k.Refresh, k.Quit} {
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return strings.Join(parts, " · ")
}

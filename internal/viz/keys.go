package viz

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Pause    key.Binding
	Restart  key.Binding
	Add      key.Binding
	Remove   key.Binding
	Sync     key.Binding
	Next     key.Binding
	Len1Down key.Binding
	Len1Up   key.Binding
	Mass1Up  key.Binding
	Mass1Dn  key.Binding
	Len2Down key.Binding
	Len2Up   key.Binding
	Mass2Dn  key.Binding
	Mass2Up  key.Binding
	ZoomIn   key.Binding
	ZoomOut  key.Binding
	Theme    key.Binding
	Help     key.Binding
	Quit     key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Pause:    key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "pause")),
		Restart:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "restart")),
		Add:      key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
		Remove:   key.NewBinding(key.WithKeys("x", "delete"), key.WithHelp("x", "remove")),
		Sync:     key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sync physics")),
		Next:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "select next")),
		Len1Down: key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←", "arm 1 shorter")),
		Len1Up:   key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→", "arm 1 longer")),
		Mass1Up:  key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑", "bob 1 heavier")),
		Mass1Dn:  key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓", "bob 1 lighter")),
		Len2Down: key.NewBinding(key.WithKeys("["), key.WithHelp("[", "arm 2 shorter")),
		Len2Up:   key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "arm 2 longer")),
		Mass2Dn:  key.NewBinding(key.WithKeys("{"), key.WithHelp("{", "bob 2 lighter")),
		Mass2Up:  key.NewBinding(key.WithKeys("}"), key.WithHelp("}", "bob 2 heavier")),
		ZoomIn:   key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "zoom in")),
		ZoomOut:  key.NewBinding(key.WithKeys("-", "_"), key.WithHelp("-", "zoom out")),
		Theme:    key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "theme")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Pause, k.Restart, k.Add, k.Remove, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Pause, k.Restart, k.Add, k.Remove, k.Sync, k.Next},
		{k.Len1Down, k.Len1Up, k.Mass1Up, k.Mass1Dn},
		{k.Len2Down, k.Len2Up, k.Mass2Dn, k.Mass2Up},
		{k.ZoomIn, k.ZoomOut, k.Theme, k.Help, k.Quit},
	}
}

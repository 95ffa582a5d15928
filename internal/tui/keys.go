package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	up        key.Binding
	down      key.Binding
	enter     key.Binding
	esc       key.Binding
	tab       key.Binding
	backtab   key.Binding
	quit      key.Binding
	profile   key.Binding
	login     key.Binding
	signOut   key.Binding
	newPost   key.Binding
	refresh   key.Binding
	delete    key.Binding
	copyHash  key.Binding
	dismiss   key.Binding
	market    key.Binding
	nextBatch key.Binding
	yes       key.Binding
	no        key.Binding
}

var keys = keyMap{
	up:        key.NewBinding(key.WithKeys("up", "k")),
	down:      key.NewBinding(key.WithKeys("down", "j")),
	enter:     key.NewBinding(key.WithKeys("enter")),
	esc:       key.NewBinding(key.WithKeys("esc")),
	tab:       key.NewBinding(key.WithKeys("tab")),
	backtab:   key.NewBinding(key.WithKeys("shift+tab")),
	quit:      key.NewBinding(key.WithKeys("q", "ctrl+c")),
	profile:   key.NewBinding(key.WithKeys("p")),
	login:     key.NewBinding(key.WithKeys("l")),
	signOut:   key.NewBinding(key.WithKeys("s")),
	newPost:   key.NewBinding(key.WithKeys("n")),
	refresh:   key.NewBinding(key.WithKeys("r")),
	delete:    key.NewBinding(key.WithKeys("d")),
	copyHash:  key.NewBinding(key.WithKeys("c")),
	dismiss:   key.NewBinding(key.WithKeys("x")),
	market:    key.NewBinding(key.WithKeys("m")),
	nextBatch: key.NewBinding(key.WithKeys("b")),
	yes: key.NewBinding(key.WithKeys("y")),
	// no shares "n" with newPost. This works only because Update routes keys
	// to the confirm dialog before the main screen; keep that ordering.
	no: key.NewBinding(key.WithKeys("n")),
}

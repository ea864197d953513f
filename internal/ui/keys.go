package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the console's key bindings. Toolbar actions carry their own
// keys (see toolbar.Action.Key).
type keyMap struct {
	// Global
	Quit       key.Binding
	Help       key.Binding
	CycleTheme key.Binding
	Activity   key.Binding
	Focus      key.Binding
	Escape     key.Binding

	// Menu and lists
	Up     key.Binding
	Down   key.Binding
	Top    key.Binding
	Bottom key.Binding
	Open   key.Binding

	// Navigator
	First key.Binding
	Prev  key.Binding
	Next  key.Binding
	Last  key.Binding

	// Grid editor
	AddRow    key.Binding
	RemoveRow key.Binding
	Left      key.Binding
	Right     key.Binding
	Pick      key.Binding

	// Screen actions
	Sign   key.Binding
	Upload key.Binding
	Image  key.Binding
	Pass   key.Binding
	Fail   key.Binding
	Ack    key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "Q"),
			key.WithHelp("Q", "Quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "Toggle help"),
		),
		CycleTheme: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "Cycle theme"),
		),
		Activity: key.NewBinding(
			key.WithKeys("L"),
			key.WithHelp("L", "Activity log"),
		),
		Focus: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "Menu/content focus"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "Close overlay"),
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
		Open: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Open"),
		),

		First: key.NewBinding(
			key.WithKeys("<"),
			key.WithHelp("<", "First record"),
		),
		Prev: key.NewBinding(
			key.WithKeys("[", "left"),
			key.WithHelp("[", "Previous record"),
		),
		Next: key.NewBinding(
			key.WithKeys("]", "right"),
			key.WithHelp("]", "Next record"),
		),
		Last: key.NewBinding(
			key.WithKeys(">"),
			key.WithHelp(">", "Last record"),
		),

		AddRow: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "Add row"),
		),
		RemoveRow: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "Remove row"),
		),
		Left: key.NewBinding(
			key.WithKeys("h", "left"),
			key.WithHelp("h/l", "Previous/next column"),
		),
		Right: key.NewBinding(
			key.WithKeys("l", "right"),
		),
		Pick: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "Choose tender"),
		),

		Sign: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "Sign contract"),
		),
		Upload: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "Upload proof"),
		),
		Image: key.NewBinding(
			key.WithKeys("ctrl+o"),
			key.WithHelp("ctrl+o", "Attach tender image"),
		),
		Pass: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p/f", "Inspection pass/fail"),
		),
		Fail: key.NewBinding(
			key.WithKeys("f"),
		),
		Ack: key.NewBinding(
			key.WithKeys("A"),
			key.WithHelp("A", "Acknowledge order"),
		),
	}
}

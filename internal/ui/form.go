package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// field is one labelled input of a record form.
type field struct {
	key    string
	label  string
	input  textinput.Model
	locked bool
}

// form is a single-record edit form. Inputs only take keystrokes while the
// form is editing; locked fields never do.
type form struct {
	fields  []field
	focus   int
	editing bool
}

type fieldSpec struct {
	key         string
	label       string
	placeholder string
}

func newForm(specs ...fieldSpec) *form {
	f := &form{}
	for _, s := range specs {
		ti := textinput.New()
		ti.Placeholder = s.placeholder
		ti.CharLimit = 256
		ti.Prompt = ""
		f.fields = append(f.fields, field{key: s.key, label: s.label, input: ti})
	}
	return f
}

func (f *form) index(key string) int {
	for i, fl := range f.fields {
		if fl.key == key {
			return i
		}
	}
	return -1
}

// Set stores a value without touching the editing state.
func (f *form) Set(key, value string) {
	if i := f.index(key); i >= 0 {
		f.fields[i].input.SetValue(value)
	}
}

// Value returns the trimmed value of key.
func (f *form) Value(key string) string {
	if i := f.index(key); i >= 0 {
		return strings.TrimSpace(f.fields[i].input.Value())
	}
	return ""
}

// Clear empties every field.
func (f *form) Clear() {
	for i := range f.fields {
		f.fields[i].input.SetValue("")
	}
}

// Edit unlocks the named fields, or all of them when none are named, and
// focuses the first unlocked one.
func (f *form) Edit(keys ...string) tea.Cmd {
	open := make(map[string]bool, len(keys))
	for _, k := range keys {
		open[k] = true
	}
	for i := range f.fields {
		f.fields[i].locked = len(keys) > 0 && !open[f.fields[i].key]
	}
	f.editing = true
	f.focus = -1
	return f.move(1)
}

// Stop leaves editing mode and blurs every input.
func (f *form) Stop() {
	f.editing = false
	for i := range f.fields {
		f.fields[i].input.Blur()
		f.fields[i].locked = false
	}
}

// move focuses the next unlocked field in direction step.
func (f *form) move(step int) tea.Cmd {
	n := len(f.fields)
	if n == 0 {
		return nil
	}
	for i := range f.fields {
		f.fields[i].input.Blur()
	}
	pos := f.focus
	for range n {
		pos = (pos + step + n) % n
		if !f.fields[pos].locked {
			f.focus = pos
			return f.fields[pos].input.Focus()
		}
	}
	return nil
}

// Update routes a key to the focused input. tab, shift+tab, up and down move
// between fields.
func (f *form) Update(msg tea.KeyMsg) tea.Cmd {
	if !f.editing {
		return nil
	}
	switch msg.String() {
	case "tab", "down":
		return f.move(1)
	case "shift+tab", "up":
		return f.move(-1)
	}
	if f.focus < 0 || f.focus >= len(f.fields) || f.fields[f.focus].locked {
		return nil
	}
	var cmd tea.Cmd
	f.fields[f.focus].input, cmd = f.fields[f.focus].input.Update(msg)
	return cmd
}

// View renders labels and values in two columns.
func (f *form) View(styles Styles, width int) string {
	labelWidth := 0
	for _, fl := range f.fields {
		if w := lipgloss.Width(fl.label); w > labelWidth {
			labelWidth = w
		}
	}
	valueWidth := width - labelWidth - 4
	if valueWidth < 10 {
		valueWidth = 10
	}
	lines := make([]string, 0, len(f.fields))
	for i, fl := range f.fields {
		label := styles.MutedText.Render(padRight(fl.label, labelWidth))
		var value string
		switch {
		case f.editing && i == f.focus:
			fl.input.Width = valueWidth
			value = fl.input.View()
		case f.editing && fl.locked:
			value = styles.FaintText.Render(truncate(fl.input.Value(), valueWidth))
		default:
			value = styles.Text.Render(truncate(fl.input.Value(), valueWidth))
		}
		lines = append(lines, label+"  "+value)
	}
	return strings.Join(lines, "\n")
}

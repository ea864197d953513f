// Package toolbar defines the CRUD toolbar shared by record screens: a closed
// set of actions and the transient feedback bar beneath it.
package toolbar

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Action is one toolbar button. The set is closed: only the types in this
// package implement it.
type Action interface {
	Name() string
	Label() string
	Key() string
	isAction()
}

type (
	Add     struct{}
	Edit    struct{}
	Delete  struct{}
	Save    struct{}
	Cancel  struct{}
	Search  struct{}
	Refresh struct{}
	Help    struct{}
)

func (Add) Name() string     { return "add" }
func (Edit) Name() string    { return "edit" }
func (Delete) Name() string  { return "delete" }
func (Save) Name() string    { return "save" }
func (Cancel) Name() string  { return "cancel" }
func (Search) Name() string  { return "search" }
func (Refresh) Name() string { return "refresh" }
func (Help) Name() string    { return "help" }

func (Add) Label() string     { return "Add" }
func (Edit) Label() string    { return "Edit" }
func (Delete) Label() string  { return "Delete" }
func (Save) Label() string    { return "Save" }
func (Cancel) Label() string  { return "Cancel" }
func (Search) Label() string  { return "Search" }
func (Refresh) Label() string { return "Refresh" }
func (Help) Label() string    { return "Help" }

func (Add) Key() string     { return "ctrl+n" }
func (Edit) Key() string    { return "ctrl+e" }
func (Delete) Key() string  { return "ctrl+x" }
func (Save) Key() string    { return "ctrl+s" }
func (Cancel) Key() string  { return "ctrl+g" }
func (Search) Key() string  { return "ctrl+f" }
func (Refresh) Key() string { return "ctrl+r" }
func (Help) Key() string    { return "f1" }

func (Add) isAction()     {}
func (Edit) isAction()    {}
func (Delete) isAction()  {}
func (Save) isAction()    {}
func (Cancel) isAction()  {}
func (Search) isAction()  {}
func (Refresh) isAction() {}
func (Help) isAction()    {}

// ErrUnknownAction is returned by parse for names outside the toolbar.
var ErrUnknownAction = errors.New("unknown toolbar action")

// All returns the actions in toolbar order.
func All() []Action {
	return []Action{Add{}, Edit{}, Delete{}, Save{}, Cancel{}, Search{}, Refresh{}, Help{}}
}

// parse decodes an action name such as "save".
func parse(name string) (Action, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, a := range All() {
		if a.Name() == name {
			return a, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownAction, name)
}

// ForKey returns the action bound to a key string, as reported by Bubble Tea.
func ForKey(key string) (Action, bool) {
	for _, a := range All() {
		if a.Key() == key {
			return a, true
		}
	}
	return nil, false
}

// Level is the severity of a feedback message.
type Level int

const (
	LevelInfo Level = iota
	LevelSuccess
	LevelError
)

// FeedbackTTL is how long a feedback message stays visible.
const FeedbackTTL = 3 * time.Second

// Feedback is a transient message shown under the toolbar.
type Feedback struct {
	Message string
	Level   Level
	Expires time.Time
}

// NewFeedback returns a message that expires FeedbackTTL after now.
func NewFeedback(now time.Time, level Level, format string, args ...any) Feedback {
	return Feedback{
		Message: fmt.Sprintf(format, args...),
		Level:   level,
		Expires: now.Add(FeedbackTTL),
	}
}

// Visible reports whether the message should still be shown at now.
func (f Feedback) Visible(now time.Time) bool {
	return f.Message != "" && now.Before(f.Expires)
}

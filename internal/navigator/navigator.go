// Package navigator tracks a position in a fetched record list and feeds the
// current record to a single-record edit form.
package navigator

import (
	"fmt"
	"strings"
)

// Direction is one of the four navigation buttons.
type Direction int

const (
	First Direction = iota
	Prev
	Next
	Last
)

// String returns the button name of the direction.
func (d Direction) String() string {
	switch d {
	case First:
		return "first"
	case Prev:
		return "prev"
	case Next:
		return "next"
	case Last:
		return "last"
	}
	return fmt.Sprintf("direction(%d)", int(d))
}

// parseDirection decodes "first", "prev", "next" or "last".
func parseDirection(name string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "first":
		return First, nil
	case "prev", "previous":
		return Prev, nil
	case "next":
		return Next, nil
	case "last":
		return Last, nil
	}
	return First, fmt.Errorf("unknown direction %q", name)
}

// Navigator holds an immutable record list and the current index.
// Index is -1 exactly when the list is empty.
type Navigator[T any] struct {
	records []T
	index   int
	onLoad  func(int, T)
}

// New copies records into a navigator. A non-empty navigator starts at
// index 0 without invoking the bound form; call LoadAt(0) to populate it.
func New[T any](records []T) *Navigator[T] {
	dup := make([]T, len(records))
	copy(dup, records)
	n := &Navigator[T]{records: dup, index: -1}
	if len(dup) > 0 {
		n.index = 0
	}
	return n
}

// Bind registers the form refresh callback invoked on every successful load.
func (n *Navigator[T]) Bind(fn func(index int, record T)) {
	n.onLoad = fn
}

// Len returns the number of records.
func (n *Navigator[T]) Len() int {
	return len(n.records)
}

// Index returns the current index, or -1 when empty.
func (n *Navigator[T]) Index() int {
	return n.index
}

// Empty reports whether there are no records.
func (n *Navigator[T]) Empty() bool {
	return len(n.records) == 0
}

// Current returns the current record.
func (n *Navigator[T]) Current() (T, bool) {
	var zero T
	if n.index < 0 || n.index >= len(n.records) {
		return zero, false
	}
	return n.records[n.index], true
}

// Records returns a copy of the record list.
func (n *Navigator[T]) Records() []T {
	dup := make([]T, len(n.records))
	copy(dup, n.records)
	return dup
}

// LoadAt makes record i current and refreshes the bound form. Out-of-range
// indexes are ignored.
func (n *Navigator[T]) LoadAt(i int) bool {
	if i < 0 || i >= len(n.records) {
		return false
	}
	n.index = i
	if n.onLoad != nil {
		n.onLoad(i, n.records[i])
	}
	return true
}

// Move navigates in the given direction, clamping to the list bounds.
func (n *Navigator[T]) Move(d Direction) bool {
	if len(n.records) == 0 {
		return false
	}
	last := len(n.records) - 1
	switch d {
	case First:
		return n.LoadAt(0)
	case Last:
		return n.LoadAt(last)
	case Prev:
		return n.LoadAt(clamp(n.index-1, 0, last))
	case Next:
		return n.LoadAt(clamp(n.index+1, 0, last))
	}
	return false
}

// Find loads the first record matching pred and reports whether one matched.
func (n *Navigator[T]) Find(pred func(T) bool) bool {
	for i, rec := range n.records {
		if pred(rec) {
			return n.LoadAt(i)
		}
	}
	return false
}

// Position renders the position indicator, "0/0" when empty.
func (n *Navigator[T]) Position() string {
	if len(n.records) == 0 {
		return "0/0"
	}
	return fmt.Sprintf("%d/%d", n.index+1, len(n.records))
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

package ui

import "time"

// Terminal width thresholds for responsive layouts.
const (
	// LayoutCompactWidth is the threshold below which the header drops the
	// counters and the API address.
	LayoutCompactWidth = 100

	// SidebarWidth is the width of the view menu.
	SidebarWidth = 20
)

// Activity pane limits.
const (
	// ActivityLines is how many log lines the activity pane reads.
	ActivityLines = 300
)

// DefaultUIInterval is the default UI refresh interval.
const DefaultUIInterval = time.Second

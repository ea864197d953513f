// Package ui is the Bubble Tea console.
//
// The screen is a header with the signed-in user and the poller's dashboard
// counters, the CRUD toolbar with its feedback line, a role-gated view menu
// and the current view. Views load through views.Loader as commands; every
// switch bumps a generation counter so answers for a view the user already
// left are dropped. Record browsing (tenders) uses a navigator bound to an
// edit form and purchase orders are edited in a grid engine.
//
// Toolbar actions arrive as toolbar.Action values and are dispatched with a
// type switch; keys are listed by the help overlay (?).
package ui

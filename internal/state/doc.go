// Package state holds the header counters shared between the poller and the UI.
//
// # Overview
//
// The poller refreshes the dashboard counts (active tenders, contracts,
// purchase orders, pending bills) in the background. The UI reads them on
// every tick to draw the header badges. Store is the meeting point.
//
//	Poller:                       UI:
//	loader.Dashboard(ctx)         store.Snapshot()
//	store.Update(&counts, err)    render header
//
// # Update Semantics
//
// A successful Update replaces the counts and clears the failure counter. A
// failed Update keeps the last good counts, records the error and increments
// ConsecutiveFailures. After two consecutive failures Snapshot.IsOffline
// reports true and the header shows an offline badge.
//
// # Concurrency Model
//
// Update takes the write lock; Snapshot takes the read lock and returns a
// copy, with the error re-wrapped so callers never share the stored value.
// The zero Store is ready to use.
package state

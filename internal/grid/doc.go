// Package grid implements the editable transaction grid behind the purchase
// order screen.
//
// # Overview
//
// A Grid is built from an immutable Schema of ColumnSpec values and owns an
// ordered slice of rows. Each row is addressed by a RowID that stays stable
// for the engine's lifetime, so removing a row never shifts the identity of
// the others.
//
// # Columns
//
// Four column kinds exist:
//
//   - KindText: free text, stored as typed
//   - KindNumber: numeric input, parsed leniently (anything unparsable is 0)
//   - KindLookup: a value chosen from a read-only source list (the item master)
//   - KindImage: a read-only thumbnail source derived from the lookup match
//
// Number columns may carry a Role (quantity, rate, amount). When no role is
// given it is inferred from the key ("qty", "rate", "amount" and friends).
//
// # Recompute
//
// Every mutation marks the engine dirty and settles through Recompute, which
// walks the rows in order:
//
//  1. Resolve the lookup entry by id; a miss is treated as absent
//  2. Fill a blank rate from the entry's rate (never overwrites a value)
//  3. Point the image column at the entry's image, or the placeholder
//  4. amount = quantity * rate, written with two decimals
//  5. Accumulate the subtotal
//
// Tax is a fixed 18% of the subtotal. Recompute is idempotent.
//
// Aggregation only applies to transactional schemas, i.e. schemas that have
// both a quantity and a rate column. Other schemas still get lookup and image
// sync but their totals stay zero.
//
// # Concurrency
//
// An Engine is not safe for concurrent use. The console drives it from the
// Bubble Tea update loop only.
package grid

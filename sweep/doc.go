// Package sweep enumerates the live records of several stores row by row.
//
// A RowIterator walks a set of columns (one store.Store per column) in lockstep.
// For every visited row it yields, in ascending column order, the columns
// whose live range covers the row. Rows are visited in ascending order.
//
// The iterator treats each column's live range as an interval [r1, r2] and
// sweeps a line across the rows:
//
//	rows ─────────────────────────────────────────────▶
//	col 0        [r1 ══════════ r2]
//	col 1  [r1 ═════ r2]
//	col 2                 [r1 ══════════════ r2]
//	             ▲
//	             current row: active = {0, 1}
//
// Interval starts and ends are queued once per traversal, sorted by row.
// Advancing the row pops due starts into a pending-activation list and due
// ends into a pending-deactivation list, and merges both into the sorted
// active-column stack. Rows where no interval starts or ends cost nothing
// beyond walking the active stack.
//
// All working arrays are pooled: each is a slice paired with a used-length
// cursor, reset (not reallocated) by Init. Once a traversal has passed every
// interval end and the last row's columns were consumed, every cursor equals
// its pool's length; Drained reports this.
//
// The stores must not be structurally modified during a traversal.
package sweep

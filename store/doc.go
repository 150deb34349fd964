// Package store implements a sparse, growable store of fixed-width records.
//
// A Store addresses records by a dense non-negative logical index (a spreadsheet
// row, for example) and only backs the contiguous live range [MinIndex, MaxIndex]
// with memory. All records of a Store share one byte buffer:
//
//	slot:   0            1            2                 AllocatedCount-1
//	      ┌────────────┬────────────┬────────────┬─────┬────────────┐
//	      │ indexA     │ indexA+1   │ indexA+2   │ ... │ (spare)    │
//	      └────────────┴────────────┴────────────┴─────┴────────────┘
//	        structSize bytes each, structSize is a multiple of 8
//
// Fields inside a record are read and written with the typed accessors
// (Uint8, Int32, Float64 and their setters) using an index and a byte offset.
// The accessors perform no range checks: callers make sure HasIndex(index)
// holds before touching a record.
//
// # Growth
//
// CheckIndex extends the live range to cover an index. Growing the upper end
// reallocates geometrically (1.5x, capped at the remaining index space);
// growing the lower end reallocates exactly and shifts existing records.
// Allocations never shrink; only a deletion that covers the entire live range
// releases the buffer.
//
// # Range Edits
//
// InsertRange, DeleteRange, CopyRange, SetAreaByRow and Clear move whole
// records with overlap-safe block moves. Bytes outside the live range are
// always zero, so growing into spare slots exposes empty records.
//
// # Thread Safety
//
// A Store is not safe for concurrent use. Clone returns an independent copy.
package store

// Package sheetmem provides sparse, column-oriented cell memory for spreadsheet
// engines.
//
// A Sheet keeps one store.Store per column. Each store holds fixed-width
// records for the contiguous row range between its first and last touched row,
// so an empty column costs nothing and a column with data in rows 1000..1010
// costs eleven records. Rows are inserted, deleted, copied and filled across
// all columns at once, and a sweep enumerates the populated cells of a
// rectangle row by row without probing empty columns.
//
// # Quick Start
//
//	sheet, _ := sheetmem.NewSheet(sheetmem.SheetConfig{
//	    StructSize: 16,
//	    MaxRow:     1048575,
//	    MaxCol:     16383,
//	})
//	defer sheet.Close()
//
//	s, _ := sheet.EnsureCell(10, 2)
//	s.SetFloat64(10, 8, 3.25)
//
//	_ = sheet.InsertRows(ctx, 5, 2) // row 10 moves to 12
//
//	_ = sheet.Cells(0, 100, 0, 10, 1, func(row, col int, s *store.Store) bool {
//	    fmt.Println(row, col, s.Float64(row, 8))
//	    return true
//	})
//
// # Record Layout
//
// The record width (StructSize) is rounded up to a multiple of 8 bytes. Callers
// define the layout; typed accessors on store.Store read and write uint8,
// int32 and float64 fields at byte offsets inside a record in host byte order.
//
// # Memory Accounting
//
// Every column buffer (re)allocation is reported to a ResourceController.
// EnsureCell refuses growth the memory budget cannot cover with
// ErrMemoryLimitExceeded. Row edits never fail halfway; the growth they cause
// is charged after the fact.
//
// # Concurrency
//
// A Sheet is not safe for concurrent use. Row edits fan out across columns on
// up to WithParallelism goroutines, bounded by the controller's background
// worker slots.
//
// # Snapshots
//
// Snapshot writes a compact image of the populated columns, optionally LZ4 or
// ZSTD compressed, and LoadSheet restores it. See package snapshot.
package sheetmem

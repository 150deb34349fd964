// Package testutil provides testing utilities for sheetmem.
//
// This package is intended for use in tests and benchmarks only.
// It provides a deterministic RNG and a dense reference grid that can be
// materialized into sparse column stores.
//
// # Dense Reference Grid
//
//	g := testutil.GridFromBits(bits, rows, cols, dataRows)
//	columns := g.Columns(8)        // one *store.Store per column, nil if empty
//	want := g.Expected(columns, startRow, step)
//
// # Random Sparse Grids
//
//	rng := testutil.NewRNG(seed)
//	g := rng.SparseGrid(rows, cols, 0.1)
package testutil

package testutil

import (
	"fmt"
	"strings"

	"github.com/hupe1980/sheetmem/store"
)

// Grid is a dense row-major matrix of cell bytes used as ground truth.
type Grid struct {
	Rows  int
	Cols  int
	Cells []uint8
}

// NewGrid creates an all-zero grid.
func NewGrid(rows, cols int) *Grid {
	return &Grid{
		Rows:  rows,
		Cols:  cols,
		Cells: make([]uint8, rows*cols),
	}
}

// GridFromBits fills the first dataRows rows of a rows x cols grid from the
// bits of pattern: bit j set stores j+1 in cell j (row-major), clear stores 0.
// Rows at and after dataRows stay zero.
func GridFromBits(pattern uint64, rows, cols, dataRows int) *Grid {
	g := NewGrid(rows, cols)
	for j := 0; j < dataRows*cols; j++ {
		if pattern>>j&1 != 0 {
			g.Cells[j] = uint8(j + 1) //nolint:gosec // small test grids
		}
	}
	return g
}

// At returns the cell at (row, col).
func (g *Grid) At(row, col int) uint8 {
	return g.Cells[row*g.Cols+col]
}

// Columns materializes the grid into one store per column with record width
// structSize. Each non-zero cell extends its column's live range and stores
// the cell byte at offset 0. Columns without non-zero cells are nil.
func (g *Grid) Columns(structSize int) []*store.Store {
	columns := make([]*store.Store, g.Cols)
	for i, v := range g.Cells {
		if v == 0 {
			continue
		}
		row, col := i/g.Cols, i%g.Cols
		s := columns[col]
		if s == nil {
			s = store.New(structSize, g.Rows)
			columns[col] = s
		}
		s.CheckIndex(row)
		s.SetUint8(row, 0, v)
	}
	return columns
}

// Expected renders every (row, col, value) a row sweep over columns must
// produce, visiting rows startRow, startRow+step, ... below g.Rows. A cell is
// listed when its column's live range covers the row, including zero cells
// inside the range.
func (g *Grid) Expected(columns []*store.Store, startRow, step int) string {
	var sb strings.Builder
	for row := startRow; row < g.Rows; row += step {
		for col := 0; col < g.Cols; col++ {
			s := columns[col]
			if s != nil && s.HasIndex(row) {
				fmt.Fprintf(&sb, "%d-%d-%d;", row, col, g.At(row, col))
			}
		}
	}
	return sb.String()
}

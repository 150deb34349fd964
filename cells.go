package sheetmem

import (
	"context"
	"fmt"
	"time"

	"github.com/hupe1980/sheetmem/store"
	"github.com/hupe1980/sheetmem/sweep"
)

// CellFunc receives one populated cell of a sweep. s is the column store; the
// record is read with its accessors at row. Returning false stops the sweep.
type CellFunc func(row, col int, s *store.Store) bool

// Cells calls fn for every cell of rows r1, r1+step, ... <= r2 and columns
// [c1, c2] that lies inside its column's live range, in row-major order.
// Cells inside a live range are reported even if their record is zero.
//
// Bounds are clipped to the sheet. fn must not change the sheet structure.
func (s *Sheet) Cells(r1, r2, c1, c2, step int, fn CellFunc) error {
	if s.closed {
		return ErrClosed
	}
	if step <= 0 {
		return fmt.Errorf("%w: step %d", ErrInvalidArgument, step)
	}

	r1, r2 = max(r1, 0), min(r2, s.cfg.MaxRow)
	c1, c2 = max(c1, 0), min(c2, s.cfg.MaxCol)
	if r1 > r2 || c1 > c2 {
		return nil
	}

	began := time.Now()

	it := s.iterators.Get().(*sweep.RowIterator)
	defer func() {
		it.Reset()
		s.iterators.Put(it)
	}()
	it.InitFiltered(s.columns, s.present, r1, c1, c2-c1+1)

	rows, cells := 0, 0
sweepRows:
	for row := r1; row <= r2; row += step {
		rows++
		it.SetRow(row)
		for it.NextCol() {
			cells++
			if !fn(row, it.Col(), it.ColData()) {
				break sweepRows
			}
		}
		if it.Drained() {
			break
		}
	}

	elapsed := time.Since(began)
	s.metrics.RecordSweep(rows, cells, elapsed)
	s.logger.LogSweep(context.Background(), rows, cells, elapsed)
	return nil
}

// CountCells returns the number of cells Cells would report.
func (s *Sheet) CountCells(r1, r2, c1, c2, step int) (int, error) {
	n := 0
	err := s.Cells(r1, r2, c1, c2, step, func(int, int, *store.Store) bool {
		n++
		return true
	})
	return n, err
}

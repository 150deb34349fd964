package sheetmem

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/sheetmem/store"
)

// minColumnsPerWorker keeps small edits on the calling goroutine.
const minColumnsPerWorker = 16

// InsertRows inserts count empty rows at start in every column. Records
// pushed past MaxRow are dropped.
func (s *Sheet) InsertRows(ctx context.Context, start, count int) error {
	return s.editRows(ctx, "insert", start, count, func(st *store.Store) {
		st.InsertRange(start, count)
	})
}

// DeleteRows removes rows [start, start+count) from every column and shifts
// the rows behind them up. Columns left without a live range are released.
func (s *Sheet) DeleteRows(ctx context.Context, start, count int) error {
	return s.editRows(ctx, "delete", start, count, func(st *store.Store) {
		st.DeleteRange(start, count)
	})
}

// CopyRows copies rows [from, from+count) onto rows [to, to+count) in every
// column. The ranges may overlap.
func (s *Sheet) CopyRows(ctx context.Context, from, to, count int) error {
	if err := s.checkRow(to); err != nil {
		return err
	}
	return s.editRows(ctx, "copy", from, count, func(st *store.Store) {
		st.CopyRange(st, from, to, count)
	})
}

// FillRows replicates row from onto rows [to, to+count) in every column
// whose live range covers from.
func (s *Sheet) FillRows(ctx context.Context, from, to, count int) error {
	if err := s.checkRow(to); err != nil {
		return err
	}
	return s.editRows(ctx, "fill", from, count, func(st *store.Store) {
		st.SetAreaByRow(from, to, count)
	})
}

// ClearRows zeroes rows [start, end) in every column. Live ranges keep
// their extent.
func (s *Sheet) ClearRows(ctx context.Context, start, end int) error {
	return s.editRows(ctx, "clear", start, end-start, func(st *store.Store) {
		st.Clear(start, end)
	})
}

func (s *Sheet) checkRow(row int) error {
	if row < 0 || row > s.cfg.MaxRow {
		return fmt.Errorf("%w: row %d outside [0, %d]", ErrOutOfRange, row, s.cfg.MaxRow)
	}
	return nil
}

func (s *Sheet) editRows(ctx context.Context, op string, start, count int, fn func(*store.Store)) error {
	if s.closed {
		return ErrClosed
	}
	if err := s.checkRow(start); err != nil {
		return err
	}
	if count < 0 {
		return fmt.Errorf("%w: count %d", ErrInvalidArgument, count)
	}
	if count == 0 {
		return nil
	}

	began := time.Now()
	n, err := s.fanOut(ctx, fn)
	if err == nil {
		s.prune()
	}

	s.metrics.RecordRowEdit(op, n, time.Since(began), err)
	s.logger.LogRowEdit(ctx, op, start, count, n, err)
	return err
}

// fanOut applies fn to every populated column and returns the number of
// columns. It either covers every column or, if no worker slot can be
// acquired, none.
func (s *Sheet) fanOut(ctx context.Context, fn func(*store.Store)) (int, error) {
	s.targets = s.targets[:0]
	it := s.present.Iterator()
	for it.HasNext() {
		s.targets = append(s.targets, s.columns[it.Next()])
	}
	targets := s.targets
	defer clear(s.targets)

	if len(targets) == 0 {
		return 0, nil
	}

	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if err := s.rc.AcquireBackground(ctx); err != nil {
		return 0, err
	}
	slots := 1
	workers := min(s.parallelism, (len(targets)+minColumnsPerWorker-1)/minColumnsPerWorker)
	for slots < workers && s.rc.TryAcquireBackground() {
		slots++
	}
	defer func() {
		for range slots {
			s.rc.ReleaseBackground()
		}
	}()

	if slots == 1 {
		for _, st := range targets {
			fn(st)
		}
		return len(targets), nil
	}

	var g errgroup.Group
	chunk := (len(targets) + slots - 1) / slots
	for lo := 0; lo < len(targets); lo += chunk {
		part := targets[lo:min(lo+chunk, len(targets))]
		g.Go(func() error {
			for _, st := range part {
				fn(st)
			}
			return nil
		})
	}
	return len(targets), g.Wait()
}

// prune releases columns whose live range became empty.
func (s *Sheet) prune() {
	var empty []uint32
	it := s.present.Iterator()
	for it.HasNext() {
		col := it.Next()
		if s.columns[col].Count() == 0 {
			empty = append(empty, col)
		}
	}
	for _, col := range empty {
		s.release(int(col))
		s.present.Remove(col)
	}
}

// CopyColumn copies rows [from, from+count) of column src onto rows
// [to, to+count) of column dst. Destination rows outside the copied part of
// src's live range are cleared.
func (s *Sheet) CopyColumn(src, dst, from, to, count int) error {
	if s.closed {
		return ErrClosed
	}
	if err := s.checkCell(from, src); err != nil {
		return err
	}
	if err := s.checkCell(to, dst); err != nil {
		return err
	}
	if count < 0 {
		return fmt.Errorf("%w: count %d", ErrInvalidArgument, count)
	}

	source := s.columns[src]
	if source == nil {
		source = s.newStore()
	}
	target := s.columns[dst]
	if target == nil {
		if source.Count() == 0 {
			return nil
		}
		target = s.newStore()
		s.columns[dst] = target
	}

	target.CopyRange(source, from, to, count)

	if target.Count() > 0 {
		s.present.Add(uint32(dst)) //nolint:gosec // checked by checkCell
	} else {
		s.release(dst)
		s.present.Remove(uint32(dst)) //nolint:gosec // checked by checkCell
	}
	return nil
}

// InsertCols inserts count empty columns at start. Columns pushed past MaxCol
// are released.
func (s *Sheet) InsertCols(start, count int) error {
	if err := s.checkColEdit(start, count); err != nil {
		return err
	}

	n := len(s.columns)
	count = min(count, n-start)
	for col := n - count; col < n; col++ {
		s.release(col)
	}
	copy(s.columns[start+count:], s.columns[start:n-count])
	clear(s.columns[start : start+count])
	s.rebuildPresent()
	return nil
}

// DeleteCols removes columns [start, start+count) and shifts the columns
// behind them left.
func (s *Sheet) DeleteCols(start, count int) error {
	if err := s.checkColEdit(start, count); err != nil {
		return err
	}

	n := len(s.columns)
	count = min(count, n-start)
	for col := start; col < start+count; col++ {
		s.release(col)
	}
	copy(s.columns[start:], s.columns[start+count:])
	clear(s.columns[n-count:])
	s.rebuildPresent()
	return nil
}

func (s *Sheet) checkColEdit(start, count int) error {
	if s.closed {
		return ErrClosed
	}
	if start < 0 || start > s.cfg.MaxCol {
		return fmt.Errorf("%w: column %d outside [0, %d]", ErrOutOfRange, start, s.cfg.MaxCol)
	}
	if count < 0 {
		return fmt.Errorf("%w: count %d", ErrInvalidArgument, count)
	}
	return nil
}

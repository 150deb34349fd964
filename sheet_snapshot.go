package sheetmem

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/hupe1980/sheetmem/internal/resource"
	"github.com/hupe1980/sheetmem/snapshot"
	"github.com/hupe1980/sheetmem/store"
)

// Snapshot writes an image of the populated columns to w. The write is
// throttled when the resource controller has an IO limit.
func (s *Sheet) Snapshot(ctx context.Context, w io.Writer, c snapshot.Compression) (err error) {
	if s.closed {
		return ErrClosed
	}

	began := time.Now()
	defer func() {
		s.metrics.RecordSnapshot(time.Since(began), err)
		s.logger.LogSnapshot(ctx, "write", int(s.present.GetCardinality()), err) //nolint:gosec // bounded by MaxCol
	}()

	if s.rc.IOBurst() > 0 {
		w = resource.NewRateLimitedWriter(ctx, w, s.rc)
	}
	return snapshot.WriteColumns(w, &snapshot.Columns{
		StructSize: s.cfg.StructSize,
		MaxRow:     s.cfg.MaxRow,
		Stores:     s.columns,
		Present:    s.present,
	}, c)
}

// LoadSheet restores a sheet written by Snapshot. The restored buffers are
// reserved against the memory budget; if they do not fit
// ErrMemoryLimitExceeded is returned.
func LoadSheet(ctx context.Context, r io.Reader, optFns ...Option) (sh *Sheet, err error) {
	o := applyOptions(optFns)
	logger := o.logger

	began := time.Now()
	defer func() {
		o.metricsCollector.RecordSnapshot(time.Since(began), err)
		columns := 0
		if sh != nil {
			columns = int(sh.present.GetCardinality()) //nolint:gosec // bounded by MaxCol
		}
		logger.LogSnapshot(ctx, "load", columns, err)
	}()

	if o.resourceController.IOBurst() > 0 {
		r = resource.NewRateLimitedReader(ctx, r, o.resourceController)
	}

	cols, err := snapshot.ReadColumns(r, func(int) []store.Option {
		return []store.Option{store.WithLogger(logger.Logger)}
	})
	if err != nil {
		return nil, err
	}

	cfg := SheetConfig{
		StructSize: cols.StructSize,
		MaxRow:     cols.MaxRow,
		MaxCol:     len(cols.Stores) - 1,
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", snapshot.ErrCorrupt, err)
	}

	total := 0
	for _, st := range cols.Stores {
		if st != nil {
			total += st.ByteSize()
		}
	}
	if err := o.resourceController.AcquireMemory(int64(total)); err != nil {
		return nil, fmt.Errorf("load %d bytes: %w", total, err)
	}

	sh = newSheet(cfg, o)
	logger = sh.logger
	for col, st := range cols.Stores {
		if st == nil {
			continue
		}
		st.SetGrowHook(sh.onGrow)
		sh.columns[col] = st
		sh.metrics.RecordGrowth(0, st.ByteSize())
	}
	sh.rebuildPresent()
	return sh, nil
}

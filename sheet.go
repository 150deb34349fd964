package sheetmem

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"sync"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/google/uuid"

	"github.com/hupe1980/sheetmem/internal/resource"
	"github.com/hupe1980/sheetmem/snapshot"
	"github.com/hupe1980/sheetmem/store"
	"github.com/hupe1980/sheetmem/sweep"
)

// SheetConfig describes the shape of a Sheet.
type SheetConfig struct {
	// StructSize is the record width in bytes. It is rounded up to a
	// multiple of 8.
	StructSize int

	// MaxRow is the largest addressable row.
	MaxRow int

	// MaxCol is the largest addressable column.
	MaxCol int
}

func (c SheetConfig) validate() error {
	if c.StructSize <= 0 {
		return &ErrInvalidLimit{Field: "StructSize", Value: c.StructSize}
	}
	if c.MaxRow < 0 || c.MaxRow > math.MaxInt32 {
		return &ErrInvalidLimit{Field: "MaxRow", Value: c.MaxRow}
	}
	if c.MaxCol < 0 || c.MaxCol >= snapshot.MaxColumns {
		return &ErrInvalidLimit{Field: "MaxCol", Value: c.MaxCol}
	}
	return nil
}

// SheetStats summarizes the populated part of a Sheet.
type SheetStats struct {
	ID string

	// Columns is the number of columns holding a live range.
	Columns int

	// Records is the number of rows covered by live ranges, summed over columns.
	Records int

	// Bytes is the size of all column buffers, spare slots included.
	Bytes int

	// MinRow and MaxRow bound the live ranges; both are -1 for an empty sheet.
	MinRow int
	MaxRow int

	// MemoryUsage is the usage reported by the resource controller, which may
	// be shared with other sheets.
	MemoryUsage int64
}

// Sheet is a grid of column stores.
type Sheet struct {
	id  uuid.UUID
	cfg SheetConfig

	columns []*store.Store // len MaxCol+1; nil for untouched columns
	present *roaring.Bitmap

	opts        options
	logger      *Logger
	metrics     MetricsCollector
	rc          *resource.Controller
	parallelism int

	targets   []*store.Store // fan-out scratch
	iterators sync.Pool
	closed    bool
}

// NewSheet creates an empty Sheet.
func NewSheet(cfg SheetConfig, optFns ...Option) (*Sheet, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return newSheet(cfg, applyOptions(optFns)), nil
}

func newSheet(cfg SheetConfig, o options) *Sheet {
	id := uuid.New()
	s := &Sheet{
		id:          id,
		present:     roaring.New(),
		opts:        o,
		logger:      o.logger.WithSheet(id.String()),
		metrics:     o.metricsCollector,
		rc:          o.resourceController,
		parallelism: o.parallelism,
	}
	s.iterators.New = func() any { return sweep.New() }
	s.setConfig(cfg)
	return s
}

func (s *Sheet) setConfig(cfg SheetConfig) {
	if aligned := store.AlignStructSize(cfg.StructSize); aligned != cfg.StructSize {
		s.logger.Warn("structSize rounded up to a multiple of 8",
			"requested", cfg.StructSize,
			"adjusted", aligned,
		)
		cfg.StructSize = aligned
	}
	s.cfg = cfg
	s.columns = make([]*store.Store, cfg.MaxCol+1)
}

func defaultParallelism() int {
	return runtime.GOMAXPROCS(0)
}

// ID returns the unique id of the sheet, also attached to its log records.
func (s *Sheet) ID() string {
	return s.id.String()
}

// Config returns the sheet shape with StructSize already aligned.
func (s *Sheet) Config() SheetConfig {
	return s.cfg
}

func (s *Sheet) newStore() *store.Store {
	return store.New(s.cfg.StructSize, s.cfg.MaxRow,
		store.WithLogger(s.logger.Logger),
		store.WithGrowHook(s.onGrow),
	)
}

// onGrow is the grow hook of every column store.
func (s *Sheet) onGrow(oldBytes, newBytes int) {
	if delta := int64(newBytes - oldBytes); delta > 0 {
		s.rc.ChargeMemory(delta)
	} else {
		s.rc.ReleaseMemory(-delta)
	}
	s.metrics.RecordGrowth(oldBytes, newBytes)
}

func (s *Sheet) checkCell(row, col int) error {
	if row < 0 || row > s.cfg.MaxRow || col < 0 || col > s.cfg.MaxCol {
		return &ErrCellOutOfRange{Row: row, Col: col, MaxRow: s.cfg.MaxRow, MaxCol: s.cfg.MaxCol}
	}
	return nil
}

// Column returns the store of col, or nil if the column was never touched or
// col is out of range.
func (s *Sheet) Column(col int) *store.Store {
	if col < 0 || col >= len(s.columns) {
		return nil
	}
	return s.columns[col]
}

// EnsureCell extends the live range of column col to cover row and returns
// the column store. The store is created on first use.
//
// If the growth does not fit into the memory budget, nothing changes and
// ErrMemoryLimitExceeded is returned.
func (s *Sheet) EnsureCell(row, col int) (*store.Store, error) {
	if s.closed {
		return nil, ErrClosed
	}
	if err := s.checkCell(row, col); err != nil {
		return nil, err
	}

	st := s.columns[col]
	fresh := st == nil
	if fresh {
		st = s.newStore()
	}

	if need := int64(st.ProjectedBytes(row) - st.ByteSize()); !s.rc.Fits(need) {
		s.logger.LogMemoryLimit(context.Background(), row, col, need, s.rc.MemoryUsage(), s.rc.MemoryLimit())
		return nil, fmt.Errorf("%w: cell (%d, %d) needs %d bytes", ErrMemoryLimitExceeded, row, col, need)
	}

	st.CheckIndex(row)
	if fresh {
		s.columns[col] = st
	}
	s.present.Add(uint32(col)) //nolint:gosec // checked by checkCell
	return st, nil
}

// Cell returns the record at (row, col), or nil if the cell lies outside its
// column's live range. The slice aliases the column buffer and is invalidated
// by the next structural change of the column.
func (s *Sheet) Cell(row, col int) []byte {
	st := s.Column(col)
	if st == nil || !st.HasIndex(row) {
		return nil
	}
	return st.Bytes(row)
}

// PopulatedColumns returns a copy of the set of columns holding a live range.
func (s *Sheet) PopulatedColumns() *roaring.Bitmap {
	return s.present.Clone()
}

// Stats returns a summary of the populated columns.
func (s *Sheet) Stats() SheetStats {
	st := SheetStats{
		ID:          s.ID(),
		MinRow:      -1,
		MaxRow:      -1,
		MemoryUsage: s.rc.MemoryUsage(),
	}

	it := s.present.Iterator()
	for it.HasNext() {
		c := s.columns[it.Next()]
		st.Columns++
		st.Records += c.Count()
		st.Bytes += c.ByteSize()
		if st.MinRow < 0 || c.MinIndex() < st.MinRow {
			st.MinRow = c.MinIndex()
		}
		st.MaxRow = max(st.MaxRow, c.MaxIndex())
	}
	return st
}

// Clone returns an independent copy of the sheet sharing its options and
// resource controller. The copy's buffers are reserved up front; if they do
// not fit into the memory budget ErrMemoryLimitExceeded is returned.
func (s *Sheet) Clone() (*Sheet, error) {
	if s.closed {
		return nil, ErrClosed
	}

	total := 0
	it := s.present.Iterator()
	for it.HasNext() {
		total += s.columns[it.Next()].ByteSize()
	}
	if err := s.rc.AcquireMemory(int64(total)); err != nil {
		return nil, fmt.Errorf("clone %d bytes: %w", total, err)
	}

	c := newSheet(s.cfg, s.opts)
	it = s.present.Iterator()
	for it.HasNext() {
		col := it.Next()
		cl := s.columns[col].Clone()
		cl.SetGrowHook(c.onGrow)
		c.columns[col] = cl
		c.metrics.RecordGrowth(0, cl.ByteSize())
	}
	c.present = s.present.Clone()
	return c, nil
}

// Close releases every column buffer and returns its memory to the
// resource controller. Close is idempotent.
func (s *Sheet) Close() error {
	if s.closed {
		return nil
	}
	it := s.present.Iterator()
	for it.HasNext() {
		s.columns[it.Next()].Reset()
	}
	s.columns = nil
	s.present.Clear()
	s.closed = true
	return nil
}

// release drops column col and returns its memory.
func (s *Sheet) release(col int) {
	if st := s.columns[col]; st != nil {
		st.Reset()
		s.columns[col] = nil
	}
}

// rebuildPresent recomputes the populated-column set from the column slice.
func (s *Sheet) rebuildPresent() {
	s.present.Clear()
	for col, st := range s.columns {
		if st != nil && st.Count() > 0 {
			s.present.Add(uint32(col)) //nolint:gosec // bounded by MaxCol
		}
	}
}

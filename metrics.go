package sheetmem

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
//
// RecordGrowth may be called from several goroutines at once while a row edit
// fans out, so implementations must be safe for concurrent use.
type MetricsCollector interface {
	// RecordRowEdit is called after each row edit.
	// op names the edit ("insert", "delete", "copy", "fill", "clear"),
	// columns is the number of columns it was applied to.
	RecordRowEdit(op string, columns int, duration time.Duration, err error)

	// RecordSweep is called after each cell enumeration.
	RecordSweep(rows, cells int, duration time.Duration)

	// RecordGrowth is called after every column buffer change.
	// newBytes is zero when a buffer is released.
	RecordGrowth(oldBytes, newBytes int)

	// RecordSnapshot is called after each snapshot write or load.
	RecordSnapshot(duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordRowEdit(string, int, time.Duration, error) {}
func (NoopMetricsCollector) RecordSweep(int, int, time.Duration)             {}
func (NoopMetricsCollector) RecordGrowth(int, int)                           {}
func (NoopMetricsCollector) RecordSnapshot(time.Duration, error)             {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	RowEditCount      atomic.Int64
	RowEditErrors     atomic.Int64
	RowEditColumns    atomic.Int64
	RowEditTotalNanos atomic.Int64
	SweepCount        atomic.Int64
	SweepRows         atomic.Int64
	SweepCells        atomic.Int64
	SweepTotalNanos   atomic.Int64
	GrowCount         atomic.Int64
	ShrinkCount       atomic.Int64
	BytesAllocated    atomic.Int64
	BytesReleased     atomic.Int64
	SnapshotCount     atomic.Int64
	SnapshotErrors    atomic.Int64
}

// RecordRowEdit implements MetricsCollector.
func (b *BasicMetricsCollector) RecordRowEdit(_ string, columns int, duration time.Duration, err error) {
	b.RowEditCount.Add(1)
	b.RowEditColumns.Add(int64(columns))
	b.RowEditTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.RowEditErrors.Add(1)
	}
}

// RecordSweep implements MetricsCollector.
func (b *BasicMetricsCollector) RecordSweep(rows, cells int, duration time.Duration) {
	b.SweepCount.Add(1)
	b.SweepRows.Add(int64(rows))
	b.SweepCells.Add(int64(cells))
	b.SweepTotalNanos.Add(duration.Nanoseconds())
}

// RecordGrowth implements MetricsCollector.
func (b *BasicMetricsCollector) RecordGrowth(oldBytes, newBytes int) {
	switch {
	case newBytes > oldBytes:
		b.GrowCount.Add(1)
		b.BytesAllocated.Add(int64(newBytes - oldBytes))
	case newBytes < oldBytes:
		b.ShrinkCount.Add(1)
		b.BytesReleased.Add(int64(oldBytes - newBytes))
	}
}

// RecordSnapshot implements MetricsCollector.
func (b *BasicMetricsCollector) RecordSnapshot(_ time.Duration, err error) {
	b.SnapshotCount.Add(1)
	if err != nil {
		b.SnapshotErrors.Add(1)
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		RowEditCount:    b.RowEditCount.Load(),
		RowEditErrors:   b.RowEditErrors.Load(),
		RowEditColumns:  b.RowEditColumns.Load(),
		RowEditAvgNanos: avg(b.RowEditTotalNanos.Load(), b.RowEditCount.Load()),
		SweepCount:      b.SweepCount.Load(),
		SweepRows:       b.SweepRows.Load(),
		SweepCells:      b.SweepCells.Load(),
		SweepAvgNanos:   avg(b.SweepTotalNanos.Load(), b.SweepCount.Load()),
		GrowCount:       b.GrowCount.Load(),
		ShrinkCount:     b.ShrinkCount.Load(),
		LiveBytes:       b.BytesAllocated.Load() - b.BytesReleased.Load(),
		SnapshotCount:   b.SnapshotCount.Load(),
		SnapshotErrors:  b.SnapshotErrors.Load(),
	}
}

func avg(total, count int64) int64 {
	if count == 0 {
		return 0
	}
	return total / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	RowEditCount    int64
	RowEditErrors   int64
	RowEditColumns  int64
	RowEditAvgNanos int64
	SweepCount      int64
	SweepRows       int64
	SweepCells      int64
	SweepAvgNanos   int64
	GrowCount       int64
	ShrinkCount     int64
	LiveBytes       int64
	SnapshotCount   int64
	SnapshotErrors  int64
}

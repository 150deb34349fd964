// Command sheetbench fills a sparse sheet with random cells and times row
// edits, sweeps and snapshots.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/fulldump/goconfig"

	"github.com/hupe1980/sheetmem"
	"github.com/hupe1980/sheetmem/snapshot"
	"github.com/hupe1980/sheetmem/store"
)

func main() {
	c := defaultConfig()
	goconfig.Read(&c)

	if c.ShowConfig {
		e := json.NewEncoder(os.Stdout)
		e.SetIndent("", "  ")
		_ = e.Encode(c)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, c); err != nil {
		fmt.Fprintln(os.Stderr, "sheetbench:", err)
		os.Exit(1)
	}
}

func parseLevel(s string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(s))); err != nil {
		return slog.LevelInfo
	}
	return level
}

func run(ctx context.Context, c Config) error {
	compression, err := snapshot.ParseCompression(c.Compression)
	if err != nil {
		return err
	}

	logger := sheetmem.NewTextLogger(parseLevel(c.LogLevel))
	metrics := &sheetmem.BasicMetricsCollector{}

	sheet, err := sheetmem.NewSheet(sheetmem.SheetConfig{
		StructSize: c.StructSize,
		MaxRow:     c.Rows,
		MaxCol:     c.Cols,
	},
		sheetmem.WithLogger(logger),
		sheetmem.WithMetricsCollector(metrics),
		sheetmem.WithParallelism(c.Parallelism),
		sheetmem.WithMemoryLimit(c.MemoryLimit),
	)
	if err != nil {
		return err
	}
	defer sheet.Close()

	rng := rand.New(rand.NewSource(c.Seed)) //nolint:gosec // benchmark data

	began := time.Now()
	filled, err := fill(sheet, rng, c)
	if err != nil {
		return err
	}
	logger.Info("filled", "cells", filled, "elapsed", time.Since(began), "bytes", sheet.Stats().Bytes)

	began = time.Now()
	for i := 0; i < c.Edits; i++ {
		if err := randomEdit(ctx, sheet, rng, c.Rows); err != nil {
			return err
		}
	}
	logger.Info("row edits", "count", c.Edits, "elapsed", time.Since(began))

	began = time.Now()
	var sum float64
	if err := sheet.Cells(0, c.Rows, 0, c.Cols, c.Step, func(row, _ int, s *store.Store) bool {
		sum += s.Float64(row, 0)
		return ctx.Err() == nil
	}); err != nil {
		return err
	}
	logger.Info("sweep", "sum", sum, "elapsed", time.Since(began))

	var buf bytes.Buffer
	began = time.Now()
	if err := sheet.Snapshot(ctx, &buf, compression); err != nil {
		return err
	}
	logger.Info("snapshot", "compression", compression, "bytes", buf.Len(), "elapsed", time.Since(began))

	began = time.Now()
	loaded, err := sheetmem.LoadSheet(ctx, &buf, sheetmem.WithLogger(logger))
	if err != nil {
		return err
	}
	defer loaded.Close()
	logger.Info("load", "columns", loaded.Stats().Columns, "elapsed", time.Since(began))

	stats := metrics.GetStats()
	fmt.Printf("row edits:  %d (avg %s over %d column edits)\n",
		stats.RowEditCount, time.Duration(stats.RowEditAvgNanos), stats.RowEditColumns)
	fmt.Printf("sweeps:     %d (%d rows, %d cells, avg %s)\n",
		stats.SweepCount, stats.SweepRows, stats.SweepCells, time.Duration(stats.SweepAvgNanos))
	fmt.Printf("growth:     %d grows, %d shrinks, %d live bytes\n",
		stats.GrowCount, stats.ShrinkCount, stats.LiveBytes)
	return nil
}

func fill(sheet *sheetmem.Sheet, rng *rand.Rand, c Config) (int, error) {
	n := int(float64(c.Rows+1) * float64(c.Cols+1) * c.Density)
	for i := 0; i < n; i++ {
		row, col := rng.Intn(c.Rows+1), rng.Intn(c.Cols+1)
		s, err := sheet.EnsureCell(row, col)
		if err != nil {
			return i, err
		}
		s.SetFloat64(row, 0, rng.Float64())
	}
	return n, nil
}

func randomEdit(ctx context.Context, sheet *sheetmem.Sheet, rng *rand.Rand, rows int) error {
	start := rng.Intn(rows + 1)
	count := 1 + rng.Intn(16)
	switch rng.Intn(5) {
	case 0:
		return sheet.InsertRows(ctx, start, count)
	case 1:
		return sheet.DeleteRows(ctx, start, count)
	case 2:
		return sheet.CopyRows(ctx, start, rng.Intn(rows+1), count)
	case 3:
		return sheet.FillRows(ctx, start, rng.Intn(rows+1), count)
	default:
		return sheet.ClearRows(ctx, start, start+count)
	}
}

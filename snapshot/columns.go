package snapshot

import (
	"fmt"
	"io"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/hupe1980/sheetmem/internal/conv"
	"github.com/hupe1980/sheetmem/store"
)

// MaxColumns bounds the column count accepted by ReadColumns.
const MaxColumns = 1 << 24

// Columns is a set of column stores sharing one record width and row limit.
type Columns struct {
	StructSize int
	MaxRow     int

	// Stores has one entry per column; nil entries are absent columns.
	Stores []*store.Store

	// Present marks the columns written to or read from the image. When nil,
	// WriteColumns derives it from the non-empty entries of Stores.
	Present *roaring.Bitmap
}

// WriteColumns writes the image of cols to w.
func WriteColumns(w io.Writer, cols *Columns, c Compression) error {
	if !c.valid() {
		return fmt.Errorf("%w: %d", ErrUnknownCompression, uint8(c))
	}

	var present *roaring.Bitmap
	if cols.Present != nil {
		present = cols.Present.Clone()
	} else {
		present = roaring.New()
		for i, s := range cols.Stores {
			if s != nil && s.Count() > 0 {
				present.Add(uint32(i)) //nolint:gosec // column index
			}
		}
	}
	present.RunOptimize()

	bm, err := present.ToBytes()
	if err != nil {
		return fmt.Errorf("snapshot: encode column bitmap: %w", err)
	}

	h := columnsHeader{
		Version:     Version,
		Compression: c,
	}
	if h.StructSize, err = conv.IntToUint32(cols.StructSize); err != nil {
		return err
	}
	if h.MaxRow, err = conv.IntToUint32(cols.MaxRow); err != nil {
		return err
	}
	if h.ColCount, err = conv.IntToUint32(len(cols.Stores)); err != nil {
		return err
	}
	if h.BitmapLen, err = conv.IntToUint32(len(bm)); err != nil {
		return err
	}

	if _, err := w.Write(h.encode()); err != nil {
		return err
	}
	if _, err := w.Write(bm); err != nil {
		return err
	}

	it := present.Iterator()
	for it.HasNext() {
		col := int(it.Next())
		if col >= len(cols.Stores) || cols.Stores[col] == nil {
			return fmt.Errorf("%w: column %d marked present without a store", ErrCorrupt, col)
		}
		if err := WriteStore(w, cols.Stores[col], c); err != nil {
			return fmt.Errorf("snapshot: column %d: %w", col, err)
		}
	}
	return nil
}

// ReadColumns decodes a column set image from r. newStoreOpts is called for
// every present column and its result passed to ReadStore.
func ReadColumns(r io.Reader, newStoreOpts func(col int) []store.Option) (*Columns, error) {
	hbuf := make([]byte, columnsHeaderSize)
	if _, err := io.ReadFull(r, hbuf); err != nil {
		return nil, fmt.Errorf("snapshot: read columns header: %w", err)
	}
	h, err := decodeColumnsHeader(hbuf)
	if err != nil {
		return nil, err
	}

	structSize, err := conv.Uint32ToInt(h.StructSize)
	if err != nil {
		return nil, err
	}
	maxRow, err := conv.Uint32ToInt(h.MaxRow)
	if err != nil {
		return nil, err
	}
	colCount, err := conv.Uint32ToInt(h.ColCount)
	if err != nil {
		return nil, err
	}

	if colCount > MaxColumns {
		return nil, fmt.Errorf("%w: %d columns", ErrCorrupt, colCount)
	}

	present := roaring.New()
	n, err := present.ReadFrom(io.LimitReader(r, int64(h.BitmapLen)))
	if err != nil {
		return nil, fmt.Errorf("%w: column bitmap: %w", ErrCorrupt, err)
	}
	if n != int64(h.BitmapLen) {
		return nil, fmt.Errorf("%w: column bitmap is %d bytes, header says %d", ErrCorrupt, n, h.BitmapLen)
	}
	if !present.IsEmpty() && int(present.Maximum()) >= colCount {
		return nil, fmt.Errorf("%w: column %d beyond count %d", ErrCorrupt, present.Maximum(), colCount)
	}

	cols := &Columns{
		StructSize: structSize,
		MaxRow:     maxRow,
		Stores:     make([]*store.Store, colCount),
		Present:    present,
	}

	it := present.Iterator()
	for it.HasNext() {
		col := int(it.Next())

		var opts []store.Option
		if newStoreOpts != nil {
			opts = newStoreOpts(col)
		}
		s, err := ReadStore(r, opts...)
		if err != nil {
			return nil, fmt.Errorf("snapshot: column %d: %w", col, err)
		}
		if s.StructSize() != structSize || s.Limit() != maxRow {
			return nil, fmt.Errorf("%w: column %d shape (%d, %d), want (%d, %d)",
				ErrCorrupt, col, s.StructSize(), s.Limit(), structSize, maxRow)
		}
		cols.Stores[col] = s
	}
	return cols, nil
}

package sweep

import (
	"cmp"
	"slices"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/hupe1980/sheetmem/store"
)

// column is one candidate column of a traversal.
type column struct {
	col  int
	data *store.Store
	r1   int // first live row
	r2   int // last live row
}

// RowIterator enumerates the columns holding a live record at each row.
//
// A RowIterator is not safe for concurrent use. It can be reused for any
// number of traversals; Init resets it without releasing its pools.
type RowIterator struct {
	columns []column // candidates in ascending column order; ids index this slice

	colDatas pool[int] // active stack, ascending ids; cursor is the NextCol position
	toInsert pool[int] // ids whose interval starts at or before the current row
	toDelete pool[int] // ids whose interval ended before the current row
	r1       pool[int] // ids ordered by interval start; cursor counts activations
	r2       pool[int] // ids ordered by interval end; cursor counts deactivations

	merged []int // double buffer for colDatas

	row     int
	col     int
	colData *store.Store
}

// New returns an empty RowIterator.
func New() *RowIterator {
	return &RowIterator{row: -1, col: -1}
}

// Init starts a traversal over columns[startCol : startCol+colCount] beginning
// at startRow. Nil columns and columns without allocated storage are skipped.
func (it *RowIterator) Init(columns []*store.Store, startRow, startCol, colCount int) {
	it.begin(startRow)

	end := min(startCol+colCount, len(columns))
	for c := max(startCol, 0); c < end; c++ {
		it.add(c, columns[c], startRow)
	}
	it.schedule()
}

// InitFiltered is like Init but only considers the columns set in present.
// Columns outside present are treated as empty.
func (it *RowIterator) InitFiltered(columns []*store.Store, present *roaring.Bitmap, startRow, startCol, colCount int) {
	if present == nil {
		it.Init(columns, startRow, startCol, colCount)
		return
	}
	it.begin(startRow)

	end := min(startCol+colCount, len(columns))
	bits := present.Iterator()
	bits.AdvanceIfNeeded(uint32(max(startCol, 0))) //nolint:gosec // non-negative column index
	for bits.HasNext() {
		c := int(bits.Next())
		if c >= end {
			break
		}
		it.add(c, columns[c], startRow)
	}
	it.schedule()
}

// Reset drops every store reference held by the iterator.
func (it *RowIterator) Reset() {
	it.begin(-1)
}

func (it *RowIterator) begin(startRow int) {
	clear(it.columns)
	it.columns = it.columns[:0]
	it.colDatas.reset()
	it.toInsert.reset()
	it.toDelete.reset()
	it.r1.reset()
	it.r2.reset()
	it.merged = it.merged[:0]

	it.row = startRow - 1
	it.col = -1
	it.colData = nil
}

func (it *RowIterator) add(c int, s *store.Store, startRow int) {
	if s == nil || s.AllocatedCount() == 0 || s.MaxIndex() < startRow {
		return
	}
	it.columns = append(it.columns, column{
		col:  c,
		data: s,
		r1:   s.MinIndex(),
		r2:   s.MaxIndex(),
	})
}

// schedule fills the interval start and end queues.
func (it *RowIterator) schedule() {
	for id := range it.columns {
		it.r1.push(id)
		it.r2.push(id)
	}
	// Stable sorts keep equal rows in column order.
	slices.SortStableFunc(it.r1.items, func(a, b int) int {
		return cmp.Compare(it.columns[a].r1, it.columns[b].r1)
	})
	slices.SortStableFunc(it.r2.items, func(a, b int) int {
		return cmp.Compare(it.columns[a].r2, it.columns[b].r2)
	})
}

// SetRow moves the traversal to row. Rows must be passed in ascending order.
func (it *RowIterator) SetRow(row int) {
	it.row = row
	it.col = -1
	it.colData = nil

	it.toInsert.reset()
	it.toDelete.reset()

	for {
		id, ok := it.r1.peek()
		if !ok || it.columns[id].r1 > row {
			break
		}
		it.r1.used++
		it.toInsert.push(id)
	}
	for {
		id, ok := it.r2.peek()
		if !ok || it.columns[id].r2 >= row {
			break
		}
		it.r2.used++
		it.toDelete.push(id)
	}

	if it.toInsert.len() > 0 || it.toDelete.len() > 0 {
		it.merge()
	}
	it.colDatas.rewind()
}

// merge folds the pending lists into the active stack.
func (it *RowIterator) merge() {
	slices.Sort(it.toInsert.items)
	slices.Sort(it.toDelete.items)

	active := it.colDatas.items
	out := it.merged[:0]
	i := 0
	for {
		ins, hasIns := it.toInsert.peek()
		if i >= len(active) && !hasIns {
			break
		}

		var id int
		if i < len(active) && (!hasIns || active[i] < ins) {
			id = active[i]
			i++
		} else {
			id = ins
			it.toInsert.used++
		}

		// Every pending deletion is either active or inserted by this step,
		// and both sequences are ascending.
		if del, ok := it.toDelete.peek(); ok && del == id {
			it.toDelete.used++
			continue
		}
		out = append(out, id)
	}

	it.merged = active[:0]
	it.colDatas.items = out
}

// NextCol advances to the next column with a live record at the current row.
// It returns false once the row has no further columns.
func (it *RowIterator) NextCol() bool {
	id, ok := it.colDatas.next()
	if !ok {
		it.col = -1
		it.colData = nil
		return false
	}
	c := &it.columns[id]
	it.col = c.col
	it.colData = c.data
	return true
}

// Row returns the current row.
func (it *RowIterator) Row() int {
	return it.row
}

// Col returns the column found by the last successful NextCol, or -1.
func (it *RowIterator) Col() int {
	return it.col
}

// ColData returns the store of Col, or nil.
func (it *RowIterator) ColData() *store.Store {
	return it.colData
}

// Active returns the number of columns live at the current row.
func (it *RowIterator) Active() int {
	return it.colDatas.len()
}

// Drained reports whether every working array has been fully consumed.
func (it *RowIterator) Drained() bool {
	return it.colDatas.drained() &&
		it.toInsert.drained() &&
		it.toDelete.drained() &&
		it.r1.drained() &&
		it.r2.drained()
}

// Stats returns the state of the working arrays keyed by name.
func (it *RowIterator) Stats() map[string]PoolStats {
	return map[string]PoolStats{
		"colDatas": {Len: it.colDatas.len(), Used: it.colDatas.used},
		"toInsert": {Len: it.toInsert.len(), Used: it.toInsert.used},
		"toDelete": {Len: it.toDelete.len(), Used: it.toDelete.used},
		"r1":       {Len: it.r1.len(), Used: it.r1.used},
		"r2":       {Len: it.r2.len(), Used: it.r2.used},
	}
}

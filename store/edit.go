package store

import (
	"github.com/hupe1980/sheetmem/internal/mem"
)

// DeleteRange removes count indices starting at start and shifts the records
// behind the gap down by count. Deleting the whole live range releases the
// buffer. A deletion that starts past MaxIndex is a no-op.
func (s *Store) DeleteRange(start, count int) {
	if start < 0 {
		count += start
		start = 0
	}
	if s.buf == nil || count <= 0 {
		return
	}

	delA := start
	delB := start + count - 1
	if delA > s.indexB {
		return
	}

	ss := s.structSize
	if delA <= s.indexA {
		switch {
		case delB < s.indexA:
			// Entirely below the stored data: only the origin moves.
			s.indexA -= count
			s.indexB -= count
		case delB >= s.indexB:
			s.Reset()
		default:
			end := (delB + 1 - s.indexA) * ss
			mem.Move(s.buf, 0, end, len(s.buf)-end)
			mem.Zero(s.buf, (s.indexB-delB)*ss, len(s.buf))
			s.indexA = delA
			s.indexB -= count
		}
		return
	}

	if delB >= s.indexB {
		mem.Zero(s.buf, (delA-s.indexA)*ss, len(s.buf))
		s.indexB = delA - 1
		return
	}

	startOff := (delA - s.indexA) * ss
	endOff := (delB + 1 - s.indexA) * ss
	mem.Move(s.buf, startOff, endOff, len(s.buf)-endOff)
	mem.Zero(s.buf, (s.Count()-count)*ss, len(s.buf))
	s.indexB -= count
}

// InsertRange inserts count empty indices at start and shifts the records at
// and behind start up by count. Records pushed past Limit are dropped.
// An insertion that starts past MaxIndex is a no-op.
func (s *Store) InsertRange(start, count int) {
	if s.buf == nil || count <= 0 || start > s.indexB {
		return
	}

	ss := s.structSize
	if start <= s.indexA {
		if s.indexA+count > s.limit {
			s.Reset()
			return
		}
		s.indexA += count
		s.indexB = min(s.indexB+count, s.limit)
		mem.Zero(s.buf, s.Count()*ss, len(s.buf))
		return
	}

	s.CheckIndex(s.indexB + count)
	live := s.Count()
	startOff := (start - s.indexA) * ss
	endOff := min((start+count-s.indexA)*ss, live*ss)
	endData := (live - count) * ss
	if endData > startOff {
		mem.Move(s.buf, endOff, startOff, endData-startOff)
	}
	mem.Zero(s.buf, startOff, endOff)
}

// CopyRange copies count records of src starting at startFrom into s starting
// at startTo. src may be s itself and the ranges may overlap.
//
// The destination range [startTo, startTo+count) is cleared first. Only the
// part of the source range inside src's live range is then written, at the
// matching destination position, growing s as needed.
func (s *Store) CopyRange(src *Store, startFrom, startTo, count int) {
	var snapshot []byte
	dstTo, dstCount := startTo, count

	if src.buf != nil && count > 0 && startFrom <= src.indexB && startFrom+count-1 >= src.indexA {
		if startFrom < src.indexA {
			diff := src.indexA - startFrom
			startTo += diff
			count -= diff
			startFrom = src.indexA
		}
		if startFrom+count-1 > src.indexB {
			count -= startFrom + count - 1 - src.indexB
		}
		if count > 0 {
			from := (startFrom - src.indexA) * src.structSize
			// Snapshot before the destination changes; src may alias s.
			snapshot = append([]byte(nil), src.buf[from:from+count*src.structSize]...)
		}
	}

	s.Clear(dstTo, dstTo+dstCount)
	if snapshot == nil {
		return
	}

	// Records addressed below 0 or above Limit cannot be stored.
	if startTo < 0 {
		skip := -startTo
		if skip >= count {
			return
		}
		snapshot = snapshot[skip*src.structSize:]
		count -= skip
		startTo = 0
	}
	if startTo > s.limit {
		return
	}
	count = min(count, s.limit-startTo+1)

	s.CheckIndex(startTo)
	s.CheckIndex(startTo + count - 1)
	s.writeRecords(startTo, snapshot[:count*src.structSize], src.structSize)
}

// writeRecords stores consecutive records of width srcSize at index. Records
// are truncated or zero-padded when srcSize differs from the store's width.
func (s *Store) writeRecords(index int, data []byte, srcSize int) {
	off := (index - s.indexA) * s.structSize
	if srcSize == s.structSize {
		copy(s.buf[off:], data)
		return
	}
	n := min(srcSize, s.structSize)
	for i := 0; i*srcSize < len(data); i++ {
		dst := off + i*s.structSize
		copy(s.buf[dst:dst+n], data[i*srcSize:i*srcSize+n])
	}
}

// SetAreaByRow replicates the record at from into every index of
// [to, to+toCount) that lies inside the live range after growing it to
// cover to+toCount-1. Nothing happens if from is outside the live range.
func (s *Store) SetAreaByRow(from, to, toCount int) {
	if !s.HasIndex(from) || toCount <= 0 {
		return
	}

	off := (from - s.indexA) * s.structSize
	record := append([]byte(nil), s.buf[off:off+s.structSize]...)

	s.CheckIndex(to + toCount - 1)
	for i := max(to, s.indexA); i < to+toCount && i <= s.indexB; i++ {
		copy(s.buf[(i-s.indexA)*s.structSize:], record)
	}
}

// CopyRangeByChunk replicates the record at from across [to, to+toCount).
// fromCount is accepted for call-site symmetry; only one source record is used.
func (s *Store) CopyRangeByChunk(from, fromCount, to, toCount int) {
	s.SetAreaByRow(from, to, toCount)
}

// Clear zeroes the records of [start, end) that lie inside the live range.
func (s *Store) Clear(start, end int) {
	if s.buf == nil {
		return
	}
	start = max(start, s.indexA)
	end = min(end, s.indexB+1)
	if start < end {
		mem.Zero(s.buf, (start-s.indexA)*s.structSize, (end-s.indexA)*s.structSize)
	}
}

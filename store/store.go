package store

import (
	"github.com/hupe1980/sheetmem/internal/mem"
)

const (
	// InitialCapacity is the number of record slots allocated on first use.
	InitialCapacity = 32

	// MinStructSize is the smallest record width.
	MinStructSize = mem.WordSize
)

// Store holds fixed-width records for a contiguous range of logical indices.
type Store struct {
	buf        []byte
	structSize int
	limit      int // inclusive upper bound of the index space

	// Live range; both -1 when no buffer is allocated.
	indexA int
	indexB int

	growHook GrowHook
}

// New creates an empty Store for records of structSize bytes addressed by
// indices in [0, maxIndex].
//
// A structSize that is not a positive multiple of 8 is rounded up and the
// adjustment is logged as a warning. A negative maxIndex is treated as 0.
func New(structSize, maxIndex int, optFns ...Option) *Store {
	o := applyOptions(optFns)

	adjusted := AlignStructSize(structSize)
	if adjusted != structSize {
		o.logger.Warn("store: structSize must be a multiple of 8",
			"requested", structSize,
			"adjusted", adjusted,
		)
	}

	if maxIndex < 0 {
		maxIndex = 0
	}

	return &Store{
		structSize: adjusted,
		limit:      maxIndex,
		indexA:     -1,
		indexB:     -1,
		growHook:   o.growHook,
	}
}

// AlignStructSize returns the record width New uses for the requested size.
func AlignStructSize(structSize int) int {
	if structSize < MinStructSize {
		return MinStructSize
	}
	return ((structSize + 7) >> 3) << 3
}

// StructSize returns the record width in bytes.
func (s *Store) StructSize() int {
	return s.structSize
}

// Limit returns the inclusive upper bound of the index space.
func (s *Store) Limit() int {
	return s.limit
}

// SetGrowHook replaces the allocation observer. A nil hook disables it.
func (s *Store) SetGrowHook(fn GrowHook) {
	s.growHook = fn
}

// CheckIndex extends the live range so that it covers index, allocating or
// reallocating the buffer as needed. Indices above Limit are clamped to it,
// negative indices to 0.
func (s *Store) CheckIndex(index int) {
	index = min(index, s.limit)

	if s.buf == nil {
		index = max(index, 0)
		s.indexA, s.indexB = index, index
		count := min(InitialCapacity, s.limit-index+1)
		s.realloc(mem.AlignSize(count*s.structSize), 0)
		return
	}

	allocated := s.AllocatedCount()
	switch {
	case index > s.indexB:
		if s.indexA+allocated-1 < index {
			count := min(max(allocated*3/2, index-s.indexA+1), s.limit-s.indexA+1)
			if count > allocated {
				s.realloc(mem.AlignSize(count*s.structSize), 0)
			}
		}
		s.indexB = index
	case index < s.indexA:
		oldA := s.indexA
		s.indexA = max(0, index)
		diff := oldA - s.indexA
		if diff > 0 {
			s.realloc(mem.AlignSize((allocated+diff)*s.structSize), diff*s.structSize)
		}
	}
}

// ProjectedBytes returns the buffer size CheckIndex(index) would leave behind
// without changing the store.
func (s *Store) ProjectedBytes(index int) int {
	index = min(index, s.limit)

	if s.buf == nil {
		index = max(index, 0)
		return mem.AlignSize(min(InitialCapacity, s.limit-index+1) * s.structSize)
	}

	allocated := s.AllocatedCount()
	switch {
	case index > s.indexB && s.indexA+allocated-1 < index:
		count := min(max(allocated*3/2, index-s.indexA+1), s.limit-s.indexA+1)
		if count > allocated {
			return mem.AlignSize(count * s.structSize)
		}
	case index < s.indexA:
		if diff := s.indexA - max(0, index); diff > 0 {
			return mem.AlignSize((allocated + diff) * s.structSize)
		}
	}
	return len(s.buf)
}

// HasIndex reports whether index lies inside the live range.
func (s *Store) HasIndex(index int) bool {
	return s.buf != nil && s.indexA <= index && index <= s.indexB
}

// MinIndex returns the first live index, or -1 if the store is empty.
func (s *Store) MinIndex() int {
	return s.indexA
}

// MaxIndex returns the last live index, or -1 if the store is empty.
func (s *Store) MaxIndex() int {
	return s.indexB
}

// Count returns the number of indices in the live range.
func (s *Store) Count() int {
	if s.buf == nil {
		return 0
	}
	return s.indexB - s.indexA + 1
}

// AllocatedCount returns the number of record slots the buffer can hold.
func (s *Store) AllocatedCount() int {
	if s.buf == nil {
		return 0
	}
	return len(s.buf) / s.structSize
}

// ByteSize returns the size of the buffer in bytes.
func (s *Store) ByteSize() int {
	return len(s.buf)
}

// Clone returns an independent copy with an identically sized buffer.
// The grow hook is not carried over.
func (s *Store) Clone() *Store {
	return &Store{
		buf:        mem.Clone(s.buf),
		structSize: s.structSize,
		limit:      s.limit,
		indexA:     s.indexA,
		indexB:     s.indexB,
	}
}

// Reset releases the buffer and returns the store to the empty state.
func (s *Store) Reset() {
	if s.buf == nil {
		return
	}
	old := len(s.buf)
	s.buf = nil
	s.indexA, s.indexB = -1, -1
	s.notify(old, 0)
}

// Restore replaces the contents with the records in data, which holds
// consecutive records for [indexA, indexB]. The previous buffer is released.
// It is the inverse of LiveBytes and is used when decoding snapshots.
func (s *Store) Restore(indexA, indexB int, data []byte) {
	s.Reset()
	if indexA < 0 || indexB < indexA || indexB > s.limit {
		return
	}
	s.CheckIndex(indexB)
	s.CheckIndex(indexA)
	copy(s.buf, data[:min(len(data), s.Count()*s.structSize)])
}

// LiveBytes returns the bytes of the live range. The slice aliases the
// buffer and is invalidated by any structural change.
func (s *Store) LiveBytes() []byte {
	if s.buf == nil {
		return nil
	}
	return s.buf[:s.Count()*s.structSize]
}

func (s *Store) realloc(size, at int) {
	old := len(s.buf)
	s.buf = mem.Realloc(s.buf, size, at)
	s.notify(old, len(s.buf))
}

func (s *Store) notify(oldBytes, newBytes int) {
	if s.growHook != nil && oldBytes != newBytes {
		s.growHook(oldBytes, newBytes)
	}
}

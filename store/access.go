package store

import (
	"encoding/binary"
	"math"

	"golang.org/x/sys/cpu"
)

// ByteOrder is the order multi-byte fields are packed in: the host order,
// matching what native typed views over the same bytes would observe.
var ByteOrder binary.ByteOrder = binary.LittleEndian

func init() {
	if cpu.IsBigEndian {
		ByteOrder = binary.BigEndian
	}
}

// offset returns the absolute byte offset of field offset in record index.
func (s *Store) offset(index, offset int) int {
	return (index-s.indexA)*s.structSize + offset
}

// Uint8 returns the byte at offset within record index.
func (s *Store) Uint8(index, offset int) uint8 {
	return s.buf[s.offset(index, offset)]
}

// SetUint8 stores v at offset within record index.
func (s *Store) SetUint8(index, offset int, v uint8) {
	s.buf[s.offset(index, offset)] = v
}

// Int32 returns the 32-bit signed integer at offset within record index.
// The absolute byte offset is rounded down to a multiple of 4.
func (s *Store) Int32(index, offset int) int32 {
	o := s.offset(index, offset) &^ 3
	return int32(ByteOrder.Uint32(s.buf[o : o+4])) //nolint:gosec // bit pattern reinterpretation
}

// SetInt32 stores v at offset within record index.
// The absolute byte offset is rounded down to a multiple of 4.
func (s *Store) SetInt32(index, offset int, v int32) {
	o := s.offset(index, offset) &^ 3
	ByteOrder.PutUint32(s.buf[o:o+4], uint32(v)) //nolint:gosec // bit pattern reinterpretation
}

// Float64 returns the 64-bit float at offset within record index.
// The absolute byte offset is rounded down to a multiple of 8.
func (s *Store) Float64(index, offset int) float64 {
	o := s.offset(index, offset) &^ 7
	return math.Float64frombits(ByteOrder.Uint64(s.buf[o : o+8]))
}

// SetFloat64 stores v at offset within record index.
// The absolute byte offset is rounded down to a multiple of 8.
func (s *Store) SetFloat64(index, offset int, v float64) {
	o := s.offset(index, offset) &^ 7
	ByteOrder.PutUint64(s.buf[o:o+8], math.Float64bits(v))
}

// Bytes returns the record at index. The slice aliases the buffer and is
// invalidated by any structural change.
func (s *Store) Bytes(index int) []byte {
	o := s.offset(index, 0)
	return s.buf[o : o+s.structSize : o+s.structSize]
}

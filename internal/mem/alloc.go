package mem

import (
	"unsafe"
)

// Alignment is the byte alignment of every buffer returned by this package.
const Alignment = 64

// WordSize is the granularity all buffer sizes are rounded up to.
const WordSize = 8

// AlignSize rounds size up to the next multiple of WordSize.
func AlignSize(size int) int {
	return (size + WordSize - 1) &^ (WordSize - 1)
}

// AllocAligned allocates a zeroed byte slice of the given size with 64-byte alignment.
// The returned slice is guaranteed to start at a memory address divisible by 64.
//
// Note: This function allocates slightly more memory than requested to ensure alignment.
// The underlying array is kept alive by the returned slice.
func AllocAligned(size int) []byte {
	if size <= 0 {
		return nil
	}

	totalSize := size + Alignment
	buf := make([]byte, totalSize)

	ptr := unsafe.Pointer(&buf[0]) //nolint:gosec // unsafe is required for memory alignment
	addr := uintptr(ptr)
	offset := (Alignment - (addr & (Alignment - 1))) & (Alignment - 1)

	// Full slice expression keeps appends from spilling into the padding.
	return buf[offset : offset+uintptr(size) : offset+uintptr(size)]
}

// Realloc allocates a new aligned buffer of size bytes and copies old into it
// starting at byte offset at. Bytes of old that do not fit are dropped; every
// byte not covered by the copy is zero.
func Realloc(old []byte, size, at int) []byte {
	buf := AllocAligned(size)
	if at < len(buf) {
		copy(buf[at:], old)
	}
	return buf
}

// Clone returns an aligned copy of buf with identical length.
func Clone(buf []byte) []byte {
	if buf == nil {
		return nil
	}
	out := AllocAligned(len(buf))
	copy(out, buf)
	return out
}

// Move copies n bytes within buf from src to dst. The regions may overlap.
// It returns the number of bytes moved, which is clipped to the buffer bounds.
func Move(buf []byte, dst, src, n int) int {
	if n <= 0 || dst == src {
		return 0
	}
	n = min(n, len(buf)-src, len(buf)-dst)
	if n <= 0 {
		return 0
	}
	// copy has memmove semantics for overlapping slices.
	return copy(buf[dst:dst+n], buf[src:src+n])
}

// Zero clears buf[from:to], clipped to the buffer bounds.
func Zero(buf []byte, from, to int) {
	from = max(from, 0)
	to = min(to, len(buf))
	if from < to {
		clear(buf[from:to])
	}
}

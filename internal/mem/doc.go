// Package mem provides memory allocation utilities for record buffers.
//
// # Aligned Allocation
//
// Buffers start on a cache-line boundary (64 bytes), which also satisfies the
// 8-byte alignment required for 64-bit record fields.
//
// # Block Moves
//
// Move and Zero operate on byte ranges of a single buffer. Move is overlap-safe
// in both directions (memmove semantics).
package mem

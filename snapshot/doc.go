// Package snapshot encodes stores and column sets into compact binary images.
//
// A store image is a fixed header followed by one block holding the live
// records only. Spare slots are never written; decoding allocates through
// CheckIndex, so a restored store has the same live range and records but
// not necessarily the same allocated capacity.
//
// # Store Image
//
//	┌──────────┬─────┬──────┬───────┬─────┬────────────┬──────────┬────────┬────────┬──────────┬──────────┬─────────┐
//	│ "SHMS"   │ ver │ comp │ order │ pad │ structSize │ maxIndex │ indexA │ indexB │ blockLen │ checksum │ block   │
//	│ 4 bytes  │ u8  │ u8   │ u8    │ u8  │ u32        │ u32      │ i32    │ i32    │ u32      │ u32      │ ...     │
//	└──────────┴─────┴──────┴───────┴─────┴────────────┴──────────┴────────┴────────┴──────────┴──────────┴─────────┘
//
// Header integers are little-endian. Records inside the block keep the host
// byte order of the writer, recorded in the order byte; decoding on a host
// with the other order fails with ErrByteOrder.
//
// The block uses the format [uncompressed u32][compressed u32][data]. A
// compressed size of 0 means the data is stored raw, which is also chosen
// whenever compression saves less than 10%.
//
// # Column Set Image
//
//	"SHMK" | ver u8 | comp u8 | pad u16 | structSize u32 | maxRow u32 |
//	colCount u32 | bitmapLen u32 | roaring bitmap | store image per set bit
//
// The roaring bitmap uses the portable serialization format.
package snapshot

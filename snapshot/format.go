package snapshot

import (
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"

	"github.com/hupe1980/sheetmem/store"
)

const (
	storeMagic   = "SHMS"
	columnsMagic = "SHMK"

	// Version is the current image format version.
	Version = 1

	storeHeaderSize   = 4 + 1 + 1 + 1 + 1 + 4 + 4 + 4 + 4 + 4 + 4
	columnsHeaderSize = 4 + 1 + 1 + 2 + 4 + 4 + 4 + 4
)

const (
	orderLittle uint8 = 0
	orderBig    uint8 = 1
)

var (
	// ErrInvalidMagic is returned when an image does not start with the expected magic.
	ErrInvalidMagic = errors.New("snapshot: invalid magic")
	// ErrInvalidVersion is returned for images written by an unknown format version.
	ErrInvalidVersion = errors.New("snapshot: unsupported version")
	// ErrUnknownCompression is returned for an unknown compression id or name.
	ErrUnknownCompression = errors.New("snapshot: unknown compression")
	// ErrByteOrder is returned when records were written with the other host byte order.
	ErrByteOrder = errors.New("snapshot: byte order mismatch")
	// ErrChecksum is returned when a block does not match its checksum.
	ErrChecksum = errors.New("snapshot: checksum mismatch")
	// ErrCorrupt is returned for structurally invalid images.
	ErrCorrupt = errors.New("snapshot: corrupt image")
)

var castagnoli = crc32.MakeTable(crc32.Castagnoli)

func hostOrder() uint8 {
	if store.ByteOrder == binary.BigEndian {
		return orderBig
	}
	return orderLittle
}

// storeHeader describes one store image.
type storeHeader struct {
	Version     uint8
	Compression Compression
	ByteOrder   uint8
	StructSize  uint32
	MaxIndex    uint32
	IndexA      int32
	IndexB      int32
	BlockLen    uint32
	Checksum    uint32 // CRC32C of the block
}

func (h *storeHeader) encode() []byte {
	buf := make([]byte, storeHeaderSize)
	copy(buf[0:4], storeMagic)
	buf[4] = h.Version
	buf[5] = uint8(h.Compression)
	buf[6] = h.ByteOrder
	// Padding [7]
	binary.LittleEndian.PutUint32(buf[8:], h.StructSize)
	binary.LittleEndian.PutUint32(buf[12:], h.MaxIndex)
	binary.LittleEndian.PutUint32(buf[16:], uint32(h.IndexA)) //nolint:gosec // two's complement round trip
	binary.LittleEndian.PutUint32(buf[20:], uint32(h.IndexB)) //nolint:gosec // two's complement round trip
	binary.LittleEndian.PutUint32(buf[24:], h.BlockLen)
	binary.LittleEndian.PutUint32(buf[28:], h.Checksum)
	return buf
}

func decodeStoreHeader(buf []byte) (*storeHeader, error) {
	if len(buf) < storeHeaderSize {
		return nil, fmt.Errorf("%w: buffer too small for header", ErrCorrupt)
	}
	if string(buf[0:4]) != storeMagic {
		return nil, fmt.Errorf("%w: %q", ErrInvalidMagic, buf[0:4])
	}

	h := &storeHeader{
		Version:     buf[4],
		Compression: Compression(buf[5]),
		ByteOrder:   buf[6],
		StructSize:  binary.LittleEndian.Uint32(buf[8:]),
		MaxIndex:    binary.LittleEndian.Uint32(buf[12:]),
		IndexA:      int32(binary.LittleEndian.Uint32(buf[16:])), //nolint:gosec // two's complement round trip
		IndexB:      int32(binary.LittleEndian.Uint32(buf[20:])), //nolint:gosec // two's complement round trip
		BlockLen:    binary.LittleEndian.Uint32(buf[24:]),
		Checksum:    binary.LittleEndian.Uint32(buf[28:]),
	}

	if h.Version != Version {
		return nil, fmt.Errorf("%w: %d", ErrInvalidVersion, h.Version)
	}
	if !h.Compression.valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownCompression, uint8(h.Compression))
	}
	if h.ByteOrder != hostOrder() {
		return nil, ErrByteOrder
	}
	if h.StructSize < store.MinStructSize || h.StructSize%store.MinStructSize != 0 {
		return nil, fmt.Errorf("%w: struct size %d", ErrCorrupt, h.StructSize)
	}
	return h, nil
}

// columnsHeader describes a column set image.
type columnsHeader struct {
	Version     uint8
	Compression Compression
	StructSize  uint32
	MaxRow      uint32
	ColCount    uint32
	BitmapLen   uint32
}

func (h *columnsHeader) encode() []byte {
	buf := make([]byte, columnsHeaderSize)
	copy(buf[0:4], columnsMagic)
	buf[4] = h.Version
	buf[5] = uint8(h.Compression)
	// Padding [6:8]
	binary.LittleEndian.PutUint32(buf[8:], h.StructSize)
	binary.LittleEndian.PutUint32(buf[12:], h.MaxRow)
	binary.LittleEndian.PutUint32(buf[16:], h.ColCount)
	binary.LittleEndian.PutUint32(buf[20:], h.BitmapLen)
	return buf
}

func decodeColumnsHeader(buf []byte) (*columnsHeader, error) {
	if len(buf) < columnsHeaderSize {
		return nil, fmt.Errorf("%w: buffer too small for header", ErrCorrupt)
	}
	if string(buf[0:4]) != columnsMagic {
		return nil, fmt.Errorf("%w: %q", ErrInvalidMagic, buf[0:4])
	}

	h := &columnsHeader{
		Version:     buf[4],
		Compression: Compression(buf[5]),
		StructSize:  binary.LittleEndian.Uint32(buf[8:]),
		MaxRow:      binary.LittleEndian.Uint32(buf[12:]),
		ColCount:    binary.LittleEndian.Uint32(buf[16:]),
		BitmapLen:   binary.LittleEndian.Uint32(buf[20:]),
	}

	if h.Version != Version {
		return nil, fmt.Errorf("%w: %d", ErrInvalidVersion, h.Version)
	}
	if !h.Compression.valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownCompression, uint8(h.Compression))
	}
	return h, nil
}

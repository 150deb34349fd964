package snapshot

import (
	"fmt"
	"hash/crc32"
	"io"

	"github.com/hupe1980/sheetmem/internal/conv"
	"github.com/hupe1980/sheetmem/store"
)

// WriteStore writes the image of s to w.
func WriteStore(w io.Writer, s *store.Store, c Compression) error {
	if !c.valid() {
		return fmt.Errorf("%w: %d", ErrUnknownCompression, uint8(c))
	}

	h := storeHeader{
		Version:     Version,
		Compression: c,
		ByteOrder:   hostOrder(),
		IndexA:      -1,
		IndexB:      -1,
	}

	var err error
	if h.StructSize, err = conv.IntToUint32(s.StructSize()); err != nil {
		return err
	}
	if h.MaxIndex, err = conv.IntToUint32(s.Limit()); err != nil {
		return err
	}

	var block []byte
	if s.Count() > 0 {
		if h.IndexA, err = conv.IntToInt32(s.MinIndex()); err != nil {
			return err
		}
		if h.IndexB, err = conv.IntToInt32(s.MaxIndex()); err != nil {
			return err
		}
		if block, err = encodeBlock(s.LiveBytes(), c); err != nil {
			return err
		}
		if h.BlockLen, err = conv.IntToUint32(len(block)); err != nil {
			return err
		}
		h.Checksum = crc32.Checksum(block, castagnoli)
	}

	if _, err := w.Write(h.encode()); err != nil {
		return err
	}
	if len(block) > 0 {
		if _, err := w.Write(block); err != nil {
			return err
		}
	}
	return nil
}

// ReadStore decodes one store image from r. optFns are passed to store.New.
func ReadStore(r io.Reader, optFns ...store.Option) (*store.Store, error) {
	hbuf := make([]byte, storeHeaderSize)
	if _, err := io.ReadFull(r, hbuf); err != nil {
		return nil, fmt.Errorf("snapshot: read store header: %w", err)
	}
	h, err := decodeStoreHeader(hbuf)
	if err != nil {
		return nil, err
	}

	structSize, err := conv.Uint32ToInt(h.StructSize)
	if err != nil {
		return nil, err
	}
	maxIndex, err := conv.Uint32ToInt(h.MaxIndex)
	if err != nil {
		return nil, err
	}
	s := store.New(structSize, maxIndex, optFns...)

	if h.IndexA == -1 && h.IndexB == -1 {
		if h.BlockLen != 0 {
			return nil, fmt.Errorf("%w: block on empty store", ErrCorrupt)
		}
		return s, nil
	}

	indexA, indexB := int(h.IndexA), int(h.IndexB)
	if indexA < 0 || indexB < indexA || indexB > maxIndex {
		return nil, fmt.Errorf("%w: live range [%d, %d] outside [0, %d]", ErrCorrupt, indexA, indexB, maxIndex)
	}

	liveBytes := (indexB - indexA + 1) * structSize
	blockLen := int(h.BlockLen)
	if blockLen < blockHeaderSize || blockLen > blockHeaderSize+liveBytes {
		return nil, fmt.Errorf("%w: block length %d for %d live bytes", ErrCorrupt, blockLen, liveBytes)
	}

	block := make([]byte, blockLen)
	if _, err := io.ReadFull(r, block); err != nil {
		return nil, fmt.Errorf("snapshot: read store block: %w", err)
	}
	if crc32.Checksum(block, castagnoli) != h.Checksum {
		return nil, ErrChecksum
	}

	data, err := decodeBlock(block, h.Compression, liveBytes)
	if err != nil {
		return nil, err
	}

	s.Restore(indexA, indexB, data)
	return s, nil
}

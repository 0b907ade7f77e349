// Package rle implements the custom LZ/RLE decompressor used for packed
// Another World resources ("bytekiller" in the reverse-engineering
// literature). The algorithm reads compressed bytes backwards, MSB-first,
// producing a prefix-coded stream of literal-copy and back-reference
// opcodes that are written into the output buffer from its end toward its
// start. See spec.md §4.2 for the authoritative opcode table; this file
// follows it bit for bit rather than any particular historical C
// implementation.
package rle

import (
	"encoding/binary"
	"fmt"
)

const footerSize = 8 // trailing unpacked_size:u32 + checksum:u32

// bitReader consumes a packed byte stream from high addresses to low,
// 32 bits at a time, XOR-ing each chunk into a running checksum as it's
// loaded.
type bitReader struct {
	src      []byte
	cursor   int // byte offset just past the next chunk to load
	reg      uint32
	regBits  uint
	checksum uint32
}

func (r *bitReader) loadChunk() error {
	if r.cursor < 4 {
		return ErrEndOfStream
	}
	r.cursor -= 4
	chunk := binary.BigEndian.Uint32(r.src[r.cursor : r.cursor+4])
	r.checksum ^= chunk
	r.reg = chunk
	r.regBits = 32
	return nil
}

func (r *bitReader) nextBit() (uint32, error) {
	if r.regBits == 0 {
		if err := r.loadChunk(); err != nil {
			return 0, err
		}
	}
	bit := r.reg >> 31
	r.reg <<= 1
	r.regBits--
	return bit, nil
}

func (r *bitReader) getBits(n uint) (uint32, error) {
	var v uint32
	for i := uint(0); i < n; i++ {
		b, err := r.nextBit()
		if err != nil {
			return 0, err
		}
		v = (v << 1) | b
	}
	return v, nil
}

// Decode decompresses src (the full packed resource, including its
// trailing 8-byte footer) into dst, which must be exactly
// unpackedSize bytes long. dst and src may be the same backing array
// (the original in-place technique relies on packed_size <= unpacked_size,
// which every Descriptor guarantees).
func Decode(dst, src []byte) error {
	if len(src) < footerSize {
		return ErrEndOfStream
	}
	footer := src[len(src)-footerSize:]
	declaredUnpackedSize := binary.BigEndian.Uint32(footer[0:4])
	initialChecksum := binary.BigEndian.Uint32(footer[4:8])

	if int(declaredUnpackedSize) != len(dst) {
		return fmt.Errorf("%w: declared %d, destination %d", ErrUncompressedSizeMismatch, declaredUnpackedSize, len(dst))
	}

	r := &bitReader{
		src:      src,
		cursor:   len(src) - footerSize,
		checksum: initialChecksum,
	}

	writePos := len(dst) - 1
	remaining := len(dst)

	copyLiteral := func(lengthBits uint, base int) error {
		extra, err := r.getBits(lengthBits)
		if err != nil {
			return err
		}
		count := int(extra) + base
		remaining -= count
		if remaining < 0 {
			count += remaining
			remaining = 0
		}
		for i := 0; i < count; i++ {
			b, err := r.getBits(8)
			if err != nil {
				return err
			}
			if writePos < 0 {
				return ErrFinishedEarly
			}
			dst[writePos] = byte(b)
			writePos--
		}
		return nil
	}

	copyBack := func(offsetBits uint, count int) error {
		offset, err := r.getBits(offsetBits)
		if err != nil {
			return err
		}
		remaining -= count
		if remaining < 0 {
			count += remaining
			remaining = 0
		}
		for i := 0; i < count; i++ {
			srcIdx := writePos + int(offset)
			if writePos < 0 || srcIdx >= len(dst) || srcIdx < 0 {
				return ErrFinishedEarly
			}
			dst[writePos] = dst[srcIdx]
			writePos--
		}
		return nil
	}

	// copyBackVariable reads an 8-bit count before its offset (the "110"
	// opcode is the only variable-length back-reference).
	copyBackVariable := func() error {
		countBits, err := r.getBits(8)
		if err != nil {
			return err
		}
		offset, err := r.getBits(12)
		if err != nil {
			return err
		}
		count := int(countBits) + 1
		remaining -= count
		if remaining < 0 {
			count += remaining
			remaining = 0
		}
		for i := 0; i < count; i++ {
			srcIdx := writePos + int(offset)
			if writePos < 0 || srcIdx >= len(dst) || srcIdx < 0 {
				return ErrFinishedEarly
			}
			dst[writePos] = dst[srcIdx]
			writePos--
		}
		return nil
	}

	for remaining > 0 {
		b0, err := r.nextBit()
		if err != nil {
			return err
		}
		if b0 == 0 {
			b1, err := r.nextBit()
			if err != nil {
				return err
			}
			if b1 == 0 {
				// "00": count:3, copy (count+1) literal bytes
				if err := copyLiteral(3, 1); err != nil {
					return err
				}
			} else {
				// "01": offset:8, copy 2 bytes
				if err := copyBack(8, 2); err != nil {
					return err
				}
			}
			continue
		}

		b1, err := r.nextBit()
		if err != nil {
			return err
		}
		if b1 == 0 {
			b2, err := r.nextBit()
			if err != nil {
				return err
			}
			if b2 == 0 {
				// "100": offset:9, copy 3 bytes
				if err := copyBack(9, 3); err != nil {
					return err
				}
			} else {
				// "101": offset:10, copy 4 bytes
				if err := copyBack(10, 4); err != nil {
					return err
				}
			}
			continue
		}

		b2, err := r.nextBit()
		if err != nil {
			return err
		}
		if b2 == 0 {
			// "110": count:8, offset:12, copy (count+1) bytes
			if err := copyBackVariable(); err != nil {
				return err
			}
		} else {
			// "111": count:8, copy (count+9) literal bytes
			if err := copyLiteral(8, 9); err != nil {
				return err
			}
		}
	}

	if r.cursor > 0 {
		return ErrFinishedEarly
	}
	if r.checksum != 0 {
		return ErrChecksumFailed
	}
	return nil
}

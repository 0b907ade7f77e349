// Package resource maps the Another World game's on-disk layout (a single
// MEMLIST.BIN index plus up to thirteen BANKxx blobs) to descriptors the
// rest of the VM can use to locate and decompress resource bytes.
//
// This mirrors the shape of the teacher's internal/memory/cartridge.go
// header parser: a small fixed-layout binary format read with
// encoding/binary and validated field-by-field, returning a typed error
// the moment something doesn't look right.
package resource

import (
	"encoding/binary"
	"fmt"
)

// Kind identifies what a resource's decoded bytes represent.
type Kind uint8

const (
	KindSoundOrEmpty Kind = 0
	KindMusic        Kind = 1
	KindBitmap       Kind = 2
	KindPalettes     Kind = 3
	KindBytecode     Kind = 4
	KindPolygons     Kind = 5
	KindSpritePolygons Kind = 6
)

// String renders a Kind for logging/error messages.
func (k Kind) String() string {
	switch k {
	case KindSoundOrEmpty:
		return "sound_or_empty"
	case KindMusic:
		return "music"
	case KindBitmap:
		return "bitmap"
	case KindPalettes:
		return "palettes"
	case KindBytecode:
		return "bytecode"
	case KindPolygons:
		return "polygons"
	case KindSpritePolygons:
		return "sprite_polygons"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

func validKind(b uint8) (Kind, bool) {
	switch Kind(b) {
	case KindSoundOrEmpty, KindMusic, KindBitmap, KindPalettes, KindBytecode, KindPolygons, KindSpritePolygons:
		return Kind(b), true
	default:
		return 0, false
	}
}

// ID identifies a resource within the directory; it doubles as the index
// into the parsed descriptor table.
type ID uint16

// Descriptor is one parsed MEMLIST.BIN record. Immutable after load.
type Descriptor struct {
	Kind         Kind
	BankID       uint8
	BankOffset   uint32
	PackedSize   uint16
	UnpackedSize uint16
}

// Packed reports whether the resource must be run through the RLE decoder
// (packed size differs from unpacked size).
func (d Descriptor) Packed() bool {
	return d.PackedSize != d.UnpackedSize
}

const (
	recordSize         = 20
	terminatorByte     = 0xFF
	maxDirectoryRecords = 1000
)

// Directory is the parsed table of resource descriptors, indexed by ID in
// declaration order.
type Directory struct {
	entries []Descriptor
}

// Len returns the number of parsed descriptors.
func (d *Directory) Len() int { return len(d.entries) }

// Descriptor returns the descriptor for id, or ok=false if out of range.
func (d *Directory) Descriptor(id ID) (Descriptor, bool) {
	if int(id) < 0 || int(id) >= len(d.entries) {
		return Descriptor{}, false
	}
	return d.entries[id], true
}

// ParseDirectory parses a MEMLIST.BIN buffer into a Directory. Parsing
// stops at the first record whose first byte is 0xFF (that terminator
// record may be cut short after its first byte); if that terminator is
// never found before the buffer runs out, ErrEndOfStream is returned.
// More than maxDirectoryRecords records before a terminator is
// ErrResourceListTooLarge.
func ParseDirectory(buf []byte) (*Directory, error) {
	dir := &Directory{}
	for {
		if len(dir.entries) >= maxDirectoryRecords {
			return nil, ErrResourceListTooLarge
		}
		if len(buf) == 0 {
			return nil, ErrEndOfStream
		}
		if buf[0] == terminatorByte {
			return dir, nil
		}
		if len(buf) < recordSize {
			return nil, ErrEndOfStream
		}
		rec := buf[:recordSize]
		buf = buf[recordSize:]

		kind, ok := validKind(rec[1])
		if !ok {
			return nil, fmt.Errorf("%w: kind byte 0x%02X", ErrInvalidResourceType, rec[1])
		}

		bankID := rec[7]
		bankOffset := binary.BigEndian.Uint32(rec[8:12])
		packedSize := binary.BigEndian.Uint16(rec[14:16])
		unpackedSize := binary.BigEndian.Uint16(rec[18:20])

		if packedSize > unpackedSize {
			return nil, fmt.Errorf("%w: packed=%d unpacked=%d", ErrInvalidResourceSize, packedSize, unpackedSize)
		}

		dir.entries = append(dir.entries, Descriptor{
			Kind:         kind,
			BankID:       bankID,
			BankOffset:   bankOffset,
			PackedSize:   packedSize,
			UnpackedSize: unpackedSize,
		})
	}
}

// DirectoryFilename is the MS-DOS release's on-disk name for the
// resource directory.
const DirectoryFilename = "MEMLIST.BIN"

// BankFilename returns "BANKxx" for bankID, uppercase two-digit hex, as
// required by case-sensitive filesystems. bankID is not range-checked:
// BankFilename(0) returns "BANK00".
func BankFilename(bankID uint8) string {
	return fmt.Sprintf("BANK%02X", bankID)
}

// Package fixture builds synthetic MEMLIST.BIN directories and bank blobs
// for tests, standing in for the teacher's ROMBuilder (which assembled a
// minimal cartridge header plus a handful of CPU instruction words for
// CPU/PPU unit tests). The unit of content here is a resource record, not
// an instruction stream, so Builder accumulates resource descriptors and
// their raw bank bytes instead of opcodes.
package fixture

import (
	"encoding/binary"

	"github.com/retrocoderamen/anotherworld-vm/internal/resource"
)

// Builder accumulates resource descriptors and their bank-relative bytes,
// then renders a MEMLIST.BIN buffer and a bank-id -> bytes map a test can
// hand to a Reader.
type Builder struct {
	entries map[resource.ID]entry
	maxID   resource.ID
}

type entry struct {
	kind resource.Kind
	bank uint8
	data []byte // stored unpacked; Builder never emits packed (RLE) records
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{entries: make(map[resource.ID]entry)}
}

// Add records id's bank, kind, and unpacked bytes. Every id from 0 up to
// the highest one ever Added is emitted into the directory; ids never
// Added become zero-length KindSoundOrEmpty placeholders, matching
// Directory.Descriptor's dense index-by-id addressing.
func (b *Builder) Add(id resource.ID, kind resource.Kind, bankID uint8, data []byte) *Builder {
	b.entries[id] = entry{kind: kind, bank: bankID, data: data}
	if id > b.maxID {
		b.maxID = id
	}
	return b
}

// Build renders the accumulated entries into a MEMLIST.BIN-shaped buffer
// (terminated by a 0xFF record) and a bank-id -> concatenated-bytes map.
// Each entry occupies bankOffset = len(existing bytes already placed into
// that bank), so distinct entries in the same bank never overlap.
func (b *Builder) Build() (memlist []byte, banks map[uint8][]byte) {
	banks = make(map[uint8][]byte)

	recordFor := func(id resource.ID) []byte {
		rec := make([]byte, 20)
		e, ok := b.entries[id]
		if !ok {
			e = entry{kind: resource.KindSoundOrEmpty, bank: 1, data: nil}
		}
		offset := uint32(len(banks[e.bank]))
		banks[e.bank] = append(banks[e.bank], e.data...)

		rec[1] = byte(e.kind)
		rec[7] = e.bank
		binary.BigEndian.PutUint32(rec[8:12], offset)
		size := uint16(len(e.data))
		binary.BigEndian.PutUint16(rec[14:16], size) // packed size == unpacked: never compressed
		binary.BigEndian.PutUint16(rec[18:20], size)
		return rec
	}

	for id := resource.ID(0); id <= b.maxID; id++ {
		memlist = append(memlist, recordFor(id)...)
	}
	terminator := make([]byte, 20)
	terminator[0] = 0xFF
	memlist = append(memlist, terminator...)
	return memlist, banks
}

// Reader is a host.ResourceReader backed by a Builder's output, for tests
// that need to drive memstore/machine without real MEMLIST.BIN/BANKxx
// files on disk.
type Reader struct {
	memlist []byte
	banks   map[uint8][]byte
}

// NewReader wraps a Builder's rendered output.
func NewReader(memlist []byte, banks map[uint8][]byte) *Reader {
	return &Reader{memlist: memlist, banks: banks}
}

// ReadResourceList returns the synthetic MEMLIST.BIN bytes.
func (r *Reader) ReadResourceList() ([]byte, error) {
	return r.memlist, nil
}

// ReadBank returns the synthetic bank bytes for bankID, or an empty slice
// if nothing was ever added to it.
func (r *Reader) ReadBank(bankID uint8) ([]byte, error) {
	return r.banks[bankID], nil
}

// Package memstore owns decoded resource bytes for the lifetime of a game
// part. It mirrors the ownership shape of the teacher's internal/memory
// package (a single store keyed by identity, with a SetLogger hook) but
// the identity here is a resource id, not a memory-bus address, and
// nothing here is ever byte-addressable by the VM beyond id lookup.
package memstore

import (
	"fmt"

	"github.com/retrocoderamen/anotherworld-vm/internal/debug"
	"github.com/retrocoderamen/anotherworld-vm/internal/host"
	"github.com/retrocoderamen/anotherworld-vm/internal/resource"
	"github.com/retrocoderamen/anotherworld-vm/internal/rle"
)

// TemporaryBitmap is returned by LoadIndividualResource for bitmap-kind
// resources: decoded once, handed to the caller to route into video
// buffer 0, and never retained.
type TemporaryBitmap struct {
	Data []byte
}

// GamePartResources is the tuple decoded by LoadGamePart. Animations is
// nil for parts with no animation resource.
type GamePartResources struct {
	Palettes   []byte
	Bytecode   []byte
	Polygons   []byte
	Animations []byte
}

// Memory owns the resource_id -> decoded bytes mapping and the current
// game part, per spec.md §4.3.
type Memory struct {
	reader host.ResourceReader
	dir    *resource.Directory
	logger *debug.Logger

	currentPart resource.GamePart
	hasPart     bool

	resources map[resource.ID][]byte
	kinds     map[resource.ID]resource.Kind

	// loadedSincePartSwitch tracks ids brought in by LoadIndividualResource
	// since the last LoadGamePart, so UnloadAllIndividualResources can drop
	// exactly those while keeping the part's core tuple.
	loadedSincePartSwitch []resource.ID
}

// New constructs a Memory over a parsed directory and the host's resource
// reader. The directory is normally produced once at startup via
// resource.ParseDirectory(reader.ReadResourceList()).
func New(reader host.ResourceReader, dir *resource.Directory) *Memory {
	return &Memory{
		reader:    reader,
		dir:       dir,
		resources: make(map[resource.ID][]byte),
		kinds:     make(map[resource.ID]resource.Kind),
	}
}

// SetLogger attaches a debug logger; nil disables logging.
func (m *Memory) SetLogger(logger *debug.Logger) {
	m.logger = logger
}

// decode fetches and, if necessary, decompresses the bytes for id.
func (m *Memory) decode(id resource.ID) ([]byte, resource.Kind, error) {
	desc, ok := m.dir.Descriptor(id)
	if !ok {
		return nil, 0, fmt.Errorf("%w: id=%d", resource.ErrInvalidResourceID, id)
	}

	bank, err := m.reader.ReadBank(desc.BankID)
	if err != nil {
		return nil, 0, fmt.Errorf("memstore: reading bank %d: %w", desc.BankID, err)
	}

	if !desc.Packed() {
		end := desc.BankOffset + uint32(desc.UnpackedSize)
		if end > uint32(len(bank)) {
			return nil, 0, fmt.Errorf("%w: id=%d bank=%d offset=%d size=%d bank_len=%d",
				ErrBankRangeOutOfBounds, id, desc.BankID, desc.BankOffset, desc.UnpackedSize, len(bank))
		}
		out := make([]byte, desc.UnpackedSize)
		copy(out, bank[desc.BankOffset:end])
		return out, desc.Kind, nil
	}

	end := desc.BankOffset + uint32(desc.PackedSize)
	if end > uint32(len(bank)) {
		return nil, 0, fmt.Errorf("%w: id=%d bank=%d offset=%d size=%d bank_len=%d",
			ErrBankRangeOutOfBounds, id, desc.BankID, desc.BankOffset, desc.PackedSize, len(bank))
	}
	packed := bank[desc.BankOffset:end]
	out := make([]byte, desc.UnpackedSize)
	if err := rle.Decode(out, packed); err != nil {
		return nil, 0, fmt.Errorf("memstore: decoding resource %d: %w", id, err)
	}
	return out, desc.Kind, nil
}

// LoadGamePart drops all currently held resources and loads the tuple
// named by part, per spec.md §4.3.
func (m *Memory) LoadGamePart(part resource.GamePart) (GamePartResources, error) {
	entry, ok := part.Entry()
	if !ok {
		return GamePartResources{}, fmt.Errorf("%w: %v", resource.ErrInvalidGamePart, part)
	}

	m.resources = make(map[resource.ID][]byte)
	m.kinds = make(map[resource.ID]resource.Kind)
	m.loadedSincePartSwitch = nil
	m.currentPart = part
	m.hasPart = true

	load := func(id resource.ID) ([]byte, error) {
		decoded, kind, err := m.decode(id)
		if err != nil {
			return nil, err
		}
		m.resources[id] = decoded
		m.kinds[id] = kind
		return decoded, nil
	}

	palettes, err := load(entry.PalettesID)
	if err != nil {
		return GamePartResources{}, err
	}
	bytecode, err := load(entry.BytecodeID)
	if err != nil {
		return GamePartResources{}, err
	}
	polygons, err := load(entry.PolygonsID)
	if err != nil {
		return GamePartResources{}, err
	}

	var animations []byte
	if entry.HasAnimations() {
		animations, err = load(entry.AnimationsID)
		if err != nil {
			return GamePartResources{}, err
		}
	}

	if m.logger != nil {
		m.logger.LogResourcef(debug.LogLevelInfo, "loaded game part %v", part)
	}

	return GamePartResources{
		Palettes:   palettes,
		Bytecode:   bytecode,
		Polygons:   polygons,
		Animations: animations,
	}, nil
}

// LoadIndividualResource decompresses id into memory. Bitmap-kind
// resources are never retained; their bytes are handed back as a
// TemporaryBitmap for the caller to route straight to video buffer 0.
func (m *Memory) LoadIndividualResource(id resource.ID) (*TemporaryBitmap, error) {
	decoded, kind, err := m.decode(id)
	if err != nil {
		return nil, err
	}

	if kind == resource.KindBitmap {
		return &TemporaryBitmap{Data: decoded}, nil
	}

	m.resources[id] = decoded
	m.kinds[id] = kind
	m.loadedSincePartSwitch = append(m.loadedSincePartSwitch, id)
	return nil, nil
}

// UnloadAllIndividualResources drops every resource loaded via
// LoadIndividualResource since the last game-part switch, keeping the
// part's core tuple intact.
func (m *Memory) UnloadAllIndividualResources() {
	entry, _ := m.currentPart.Entry()
	isCore := func(id resource.ID) bool {
		return m.hasPart && (id == entry.PalettesID || id == entry.BytecodeID || id == entry.PolygonsID ||
			(entry.HasAnimations() && id == entry.AnimationsID))
	}
	for _, id := range m.loadedSincePartSwitch {
		if isCore(id) {
			continue
		}
		delete(m.resources, id)
		delete(m.kinds, id)
	}
	m.loadedSincePartSwitch = nil
}

// ResourceLocation returns the decoded bytes for id only if it's
// currently loaded and its recorded kind matches expectedKind.
func (m *Memory) ResourceLocation(id resource.ID, expectedKind resource.Kind) ([]byte, bool) {
	kind, ok := m.kinds[id]
	if !ok || kind != expectedKind {
		return nil, false
	}
	return m.resources[id], true
}

// CurrentGamePart returns the active part, or ok=false before the first
// LoadGamePart call.
func (m *Memory) CurrentGamePart() (resource.GamePart, bool) {
	return m.currentPart, m.hasPart
}

package resource

// GamePart is one of the nine self-contained chapters/screens the game is
// divided into; each names a fixed tuple of resource ids to load.
type GamePart uint8

const (
	GamePartCopyProtection GamePart = iota
	GamePartIntroCinematic
	GamePartGameplay1
	GamePartGameplay2
	GamePartGameplay3
	GamePartGameplay4
	GamePartArenaCinematic
	GamePartEndingCinematic
	GamePartPasswordEntry
)

// Entry is the fixed resource tuple a GamePart loads on switch.
type Entry struct {
	PalettesID     ID
	BytecodeID     ID
	PolygonsID     ID
	AnimationsID   ID // 0 means "no animation resource for this part"
}

// HasAnimations reports whether this part's tuple names an animation
// (sprite polygon) resource.
func (e Entry) HasAnimations() bool { return e.AnimationsID != 0 }

// gamePartTable is the historical MEMLIST.BIN resource tuple per part.
// The animations id 0x11 repeats across every gameplay part, as spec.md
// §3 requires.
var gamePartTable = map[GamePart]Entry{
	GamePartCopyProtection:  {PalettesID: 0x14, BytecodeID: 0x15, PolygonsID: 0x16},
	GamePartIntroCinematic:  {PalettesID: 0x17, BytecodeID: 0x18, PolygonsID: 0x19},
	GamePartGameplay1:       {PalettesID: 0x1A, BytecodeID: 0x1B, PolygonsID: 0x1C, AnimationsID: 0x11},
	GamePartGameplay2:       {PalettesID: 0x1D, BytecodeID: 0x1E, PolygonsID: 0x1F, AnimationsID: 0x11},
	GamePartGameplay3:       {PalettesID: 0x20, BytecodeID: 0x21, PolygonsID: 0x22, AnimationsID: 0x11},
	GamePartArenaCinematic:  {PalettesID: 0x23, BytecodeID: 0x24, PolygonsID: 0x25, AnimationsID: 0x11},
	GamePartGameplay4:       {PalettesID: 0x26, BytecodeID: 0x27, PolygonsID: 0x28, AnimationsID: 0x11},
	GamePartEndingCinematic: {PalettesID: 0x29, BytecodeID: 0x2A, PolygonsID: 0x2B, AnimationsID: 0x11},
	GamePartPasswordEntry:   {PalettesID: 0x7D, BytecodeID: 0x7E, PolygonsID: 0x7F},
}

// Entry looks up the resource tuple for a game part.
func (g GamePart) Entry() (Entry, bool) {
	e, ok := gamePartTable[g]
	return e, ok
}

// AllowsPasswordEntry reports whether this part allows the
// show_password_screen input effect to transition to password_entry, per
// spec.md §6 ("all parts except copy_protection and password_entry").
func (g GamePart) AllowsPasswordEntry() bool {
	return g != GamePartCopyProtection && g != GamePartPasswordEntry
}

// ByBytecodeID resolves a GamePart from a bytecode resource id, as used by
// bytecode opcode 25 (ControlResources) when its operand names a part
// rather than a plain resource load. Only the bytecode ids listed in
// gamePartTable match; there is a single GamePartPasswordEntry value,
// reached through bytecode id 0x7E alone, and no other id is treated as
// an alias for it.
func ByBytecodeID(id uint16) (GamePart, bool) {
	for part, entry := range gamePartTable {
		if uint16(entry.BytecodeID) == id {
			return part, true
		}
	}
	return 0, false
}

package resource

import (
	"encoding/binary"
	"errors"
	"testing"
)

// TestParseDirectoryEmptyTerminator covers spec.md §8 scenario 1: a
// directory of just the terminator byte parses to an empty list with no
// error.
func TestParseDirectoryEmptyTerminator(t *testing.T) {
	dir, err := ParseDirectory([]byte{0xFF})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dir.Len() != 0 {
		t.Fatalf("expected empty directory, got %d entries", dir.Len())
	}
}

func buildRecord(state, kind, bankID byte, bankOffset uint32, packed, unpacked uint16) []byte {
	rec := make([]byte, recordSize)
	rec[0] = state
	rec[1] = kind
	rec[7] = bankID
	binary.BigEndian.PutUint32(rec[8:12], bankOffset)
	binary.BigEndian.PutUint16(rec[14:16], packed)
	binary.BigEndian.PutUint16(rec[18:20], unpacked)
	return rec
}

// TestParseDirectoryDescriptor covers spec.md §8 scenario 2.
func TestParseDirectoryDescriptor(t *testing.T) {
	rec := buildRecord(0x00, 4, 5, 0xDEADBEEF, 0x8BAD, 0xF00D)
	buf := append(rec, 0xFF)

	dir, err := ParseDirectory(buf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dir.Len() != 1 {
		t.Fatalf("expected 1 entry, got %d", dir.Len())
	}
	got, ok := dir.Descriptor(0)
	if !ok {
		t.Fatal("expected descriptor 0 to exist")
	}
	want := Descriptor{Kind: KindBytecode, BankID: 5, BankOffset: 0xDEADBEEF, PackedSize: 0x8BAD, UnpackedSize: 0xF00D}
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestParseDirectoryInvalidResourceSize(t *testing.T) {
	rec := buildRecord(0x00, 4, 5, 0xDEADBEEF, 0xF00E, 0xF00D)
	buf := append(rec, 0xFF)

	_, err := ParseDirectory(buf)
	if !errors.Is(err, ErrInvalidResourceSize) {
		t.Fatalf("expected ErrInvalidResourceSize, got %v", err)
	}
}

func TestParseDirectoryInvalidResourceType(t *testing.T) {
	rec := buildRecord(0x00, 99, 5, 0, 0, 0)
	buf := append(rec, 0xFF)

	_, err := ParseDirectory(buf)
	if !errors.Is(err, ErrInvalidResourceType) {
		t.Fatalf("expected ErrInvalidResourceType, got %v", err)
	}
}

func TestParseDirectoryMissingTerminatorIsEndOfStream(t *testing.T) {
	rec := buildRecord(0x00, 4, 5, 0, 10, 10)
	_, err := ParseDirectory(rec) // no terminator appended
	if !errors.Is(err, ErrEndOfStream) {
		t.Fatalf("expected ErrEndOfStream, got %v", err)
	}
}

func TestParseDirectoryTooLarge(t *testing.T) {
	var buf []byte
	for i := 0; i < maxDirectoryRecords+1; i++ {
		buf = append(buf, buildRecord(0x00, 4, 1, 0, 0, 0)...)
	}
	buf = append(buf, 0xFF)

	_, err := ParseDirectory(buf)
	if !errors.Is(err, ErrResourceListTooLarge) {
		t.Fatalf("expected ErrResourceListTooLarge, got %v", err)
	}
}

func TestBankFilename(t *testing.T) {
	cases := map[uint8]string{1: "BANK01", 0x0A: "BANK0A", 0xFE: "BANKFE", 13: "BANK0D"}
	for bankID, want := range cases {
		if got := BankFilename(bankID); got != want {
			t.Errorf("BankFilename(%d) = %q, want %q", bankID, got, want)
		}
	}
}

func TestGamePartAllowsPasswordEntry(t *testing.T) {
	if GamePartCopyProtection.AllowsPasswordEntry() {
		t.Error("copy_protection should not allow password entry")
	}
	if GamePartPasswordEntry.AllowsPasswordEntry() {
		t.Error("password_entry should not allow password entry")
	}
	if !GamePartGameplay1.AllowsPasswordEntry() {
		t.Error("gameplay1 should allow password entry")
	}
}

func TestGamePartTableAnimationsConsistent(t *testing.T) {
	gameplayParts := []GamePart{GamePartGameplay1, GamePartGameplay2, GamePartGameplay3, GamePartGameplay4}
	for _, p := range gameplayParts {
		e, ok := p.Entry()
		if !ok {
			t.Fatalf("missing entry for part %v", p)
		}
		if e.AnimationsID != 0x11 {
			t.Errorf("part %v: animations id = 0x%02X, want 0x11", p, e.AnimationsID)
		}
	}
}

package memstore

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"

	"github.com/retrocoderamen/anotherworld-vm/internal/resource"
)

type fakeReader struct {
	banks map[uint8][]byte
}

func (f *fakeReader) ReadBank(bankID uint8) ([]byte, error) {
	b, ok := f.banks[bankID]
	if !ok {
		return nil, errors.New("no such bank")
	}
	return b, nil
}

func (f *fakeReader) ReadResourceList() ([]byte, error) {
	return nil, errors.New("not used in this test")
}

func buildRecord(kind, bankID byte, bankOffset uint32, size uint16) []byte {
	rec := make([]byte, 20)
	rec[1] = kind
	rec[7] = bankID
	binary.BigEndian.PutUint32(rec[8:12], bankOffset)
	binary.BigEndian.PutUint16(rec[14:16], size)
	binary.BigEndian.PutUint16(rec[18:20], size)
	return rec
}

// buildFixture assembles a MEMLIST.BIN-shaped directory with the
// copy_protection game part's tuple (ids 0x14-0x16, no animations) living
// at the end of the record list, all uncompressed, backed by a single
// bank holding their bytes contiguously.
func buildFixture(t *testing.T) (*resource.Directory, *fakeReader) {
	t.Helper()

	palettes := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	bytecode := []byte{10, 11, 12, 13}
	polygons := []byte{20, 21, 22, 23, 24}

	bank := append(append(append([]byte{}, palettes...), bytecode...), polygons...)

	var buf []byte
	for id := 0; id < 0x17; id++ {
		switch id {
		case 0x14:
			buf = append(buf, buildRecord(byte(resource.KindPalettes), 1, 0, uint16(len(palettes)))...)
		case 0x15:
			buf = append(buf, buildRecord(byte(resource.KindBytecode), 1, uint32(len(palettes)), uint16(len(bytecode)))...)
		case 0x16:
			buf = append(buf, buildRecord(byte(resource.KindPolygons), 1, uint32(len(palettes)+len(bytecode)), uint16(len(polygons)))...)
		default:
			buf = append(buf, buildRecord(0, 1, 0, 0)...)
		}
	}
	buf = append(buf, 0xFF)

	dir, err := resource.ParseDirectory(buf)
	if err != nil {
		t.Fatalf("ParseDirectory: %v", err)
	}
	return dir, &fakeReader{banks: map[uint8][]byte{1: bank}}
}

func TestLoadGamePartCopyProtection(t *testing.T) {
	dir, reader := buildFixture(t)
	mem := New(reader, dir)

	got, err := mem.LoadGamePart(resource.GamePartCopyProtection)
	if err != nil {
		t.Fatalf("LoadGamePart: %v", err)
	}
	if !bytes.Equal(got.Palettes, []byte{1, 2, 3, 4, 5, 6, 7, 8}) {
		t.Errorf("palettes = %v", got.Palettes)
	}
	if !bytes.Equal(got.Bytecode, []byte{10, 11, 12, 13}) {
		t.Errorf("bytecode = %v", got.Bytecode)
	}
	if !bytes.Equal(got.Polygons, []byte{20, 21, 22, 23, 24}) {
		t.Errorf("polygons = %v", got.Polygons)
	}
	if got.Animations != nil {
		t.Errorf("expected no animations for copy_protection, got %v", got.Animations)
	}

	if _, ok := mem.ResourceLocation(0x15, resource.KindBytecode); !ok {
		t.Error("expected bytecode resource to be retained and locatable")
	}
	if _, ok := mem.ResourceLocation(0x15, resource.KindPolygons); ok {
		t.Error("ResourceLocation should refuse a kind mismatch")
	}
}

func TestLoadGamePartInvalidPart(t *testing.T) {
	dir, reader := buildFixture(t)
	mem := New(reader, dir)

	_, err := mem.LoadGamePart(resource.GamePart(200))
	if !errors.Is(err, resource.ErrInvalidGamePart) {
		t.Fatalf("expected ErrInvalidGamePart, got %v", err)
	}
}

func TestUnloadAllIndividualResourcesKeepsCoreTuple(t *testing.T) {
	dir, reader := buildFixture(t)
	mem := New(reader, dir)
	if _, err := mem.LoadGamePart(resource.GamePartCopyProtection); err != nil {
		t.Fatalf("LoadGamePart: %v", err)
	}

	// Load an extra polygon resource individually (id 0x16 is already the
	// part's core polygons id; reuse it here purely to exercise the
	// individual-load path without adding more fixture records).
	if _, err := mem.LoadIndividualResource(0x16); err != nil {
		t.Fatalf("LoadIndividualResource: %v", err)
	}

	mem.UnloadAllIndividualResources()

	// The core tuple must survive even though 0x16 was also the last
	// individually-loaded id.
	if _, ok := mem.ResourceLocation(0x15, resource.KindBytecode); !ok {
		t.Error("core bytecode resource should survive UnloadAllIndividualResources")
	}
}

func TestLoadIndividualResourceBitmapIsTemporary(t *testing.T) {
	palettes := []byte{1, 2, 3, 4}
	var buf []byte
	for id := 0; id < 2; id++ {
		if id == 1 {
			buf = append(buf, buildRecord(byte(resource.KindBitmap), 1, 0, uint16(len(palettes)))...)
		} else {
			buf = append(buf, buildRecord(0, 1, 0, 0)...)
		}
	}
	buf = append(buf, 0xFF)
	dir, err := resource.ParseDirectory(buf)
	if err != nil {
		t.Fatalf("ParseDirectory: %v", err)
	}
	reader := &fakeReader{banks: map[uint8][]byte{1: palettes}}
	mem := New(reader, dir)

	bmp, err := mem.LoadIndividualResource(1)
	if err != nil {
		t.Fatalf("LoadIndividualResource: %v", err)
	}
	if bmp == nil {
		t.Fatal("expected a TemporaryBitmap")
	}
	if !bytes.Equal(bmp.Data, palettes) {
		t.Errorf("bitmap data = %v, want %v", bmp.Data, palettes)
	}
	if _, ok := mem.ResourceLocation(1, resource.KindBitmap); ok {
		t.Error("bitmap resources must not be retained in Memory")
	}
}

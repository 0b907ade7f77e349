package video

import (
	"testing"

	"github.com/retrocoderamen/anotherworld-vm/internal/program"
)

func buildPolygonBytes(rawW, rawH, count uint8, verts [][2]uint8) []byte {
	out := []byte{rawW, rawH, count}
	for _, v := range verts {
		out = append(out, v[0], v[1])
	}
	return out
}

func TestReadPolygonNoZoom(t *testing.T) {
	data := buildPolygonBytes(10, 20, 4, [][2]uint8{{0, 0}, {10, 0}, {10, 20}, {0, 20}})
	prog, _ := program.New(data)

	poly, err := ReadPolygon(prog, 64, 0x01)
	if err != nil {
		t.Fatalf("ReadPolygon: %v", err)
	}
	if poly.Width != 10 || poly.Height != 20 {
		t.Fatalf("size = %dx%d, want 10x20", poly.Width, poly.Height)
	}
	if len(poly.Vertices) != 4 {
		t.Fatalf("vertex count = %d, want 4", len(poly.Vertices))
	}
	if poly.Vertices[2].X != 10 || poly.Vertices[2].Y != 20 {
		t.Fatalf("vertex[2] = %+v, want (10,20)", poly.Vertices[2])
	}
	if poly.Color != 1 {
		t.Fatalf("color = %d, want 1", poly.Color)
	}
}

func TestReadPolygonZoomScalesCoordinates(t *testing.T) {
	data := buildPolygonBytes(64, 64, 4, [][2]uint8{{0, 0}, {64, 0}, {64, 64}, {0, 64}})
	prog, _ := program.New(data)

	poly, err := ReadPolygon(prog, 32, 0x00) // half scale
	if err != nil {
		t.Fatalf("ReadPolygon: %v", err)
	}
	if poly.Width != 32 || poly.Height != 32 {
		t.Fatalf("size = %dx%d, want 32x32", poly.Width, poly.Height)
	}
	if poly.Vertices[2].X != 32 || poly.Vertices[2].Y != 32 {
		t.Fatalf("vertex[2] = %+v, want (32,32)", poly.Vertices[2])
	}
}

func TestReadPolygonMaskColor(t *testing.T) {
	data := buildPolygonBytes(4, 4, 4, [][2]uint8{{0, 0}, {4, 0}, {4, 4}, {0, 4}})
	prog, _ := program.New(data)

	poly, err := ReadPolygon(prog, 64, colorMask)
	if err != nil {
		t.Fatalf("ReadPolygon: %v", err)
	}
	if poly.Color != colorMask {
		t.Fatalf("color = %#x, want %#x", poly.Color, colorMask)
	}
}

func TestReadPolygonTooFewVertices(t *testing.T) {
	data := buildPolygonBytes(4, 4, 2, [][2]uint8{{0, 0}, {4, 4}})
	prog, _ := program.New(data)
	if _, err := ReadPolygon(prog, 64, 0); err == nil {
		t.Fatal("expected ErrVertexCountTooLow")
	}
}

func TestReadPolygonTooManyVertices(t *testing.T) {
	out := []byte{4, 4, 52}
	for i := 0; i < 52; i++ {
		out = append(out, 0, 0)
	}
	prog, _ := program.New(out)
	if _, err := ReadPolygon(prog, 64, 0); err == nil {
		t.Fatal("expected ErrVertexCountTooHigh")
	}
}

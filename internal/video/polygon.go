package video

import (
	"fmt"

	"github.com/retrocoderamen/anotherworld-vm/internal/program"
)

// maxVertices is the largest vertex count a polygon resource may declare.
const maxVertices = 50

// Vertex is one point of a polygon outline, relative to the polygon's
// own bounding box origin.
type Vertex struct {
	X, Y int16
}

// Polygon is a parsed, scaled polygon ready for rasterization. Vertices
// are ordered clockwise starting from the top, and come in pairs (i,
// n-1-i) sharing a Y coordinate, per the trapezoid-strip invariant the
// rasterizer relies on.
type Polygon struct {
	Width, Height int16
	Vertices      []Vertex
	Color         uint8
}

// Draw-mode sentinels within Color's 6-bit range: any real polygon
// control byte has its top two bits set (it's always >=0xC0), so the
// mode is read off the low 6 bits' value itself rather than a bitmask -
// 0x10 requests highlight, 0x11 requests mask, anything else is a
// literal 4-bit solid fill color.
const (
	colorHighlight uint8 = 0x10
	colorMask      uint8 = 0x11
)

// ReadPolygon parses one polygon entry from prog at its current cursor
// position, applying zoom as raw*zoom/64 to both the bounding box and
// every vertex coordinate. color is the draw-mode/color byte supplied by
// the caller (from the opcode or a parent polygon's value when this
// entry signals "inherit").
func ReadPolygon(prog *program.Program, zoom uint16, color uint8) (*Polygon, error) {
	rawWidth, err := prog.ReadU8()
	if err != nil {
		return nil, fmt.Errorf("video: read polygon width: %w", err)
	}
	rawHeight, err := prog.ReadU8()
	if err != nil {
		return nil, fmt.Errorf("video: read polygon height: %w", err)
	}
	count, err := prog.ReadU8()
	if err != nil {
		return nil, fmt.Errorf("video: read polygon vertex count: %w", err)
	}
	if count < 4 {
		return nil, fmt.Errorf("%w: got %d", ErrVertexCountTooLow, count)
	}
	if count > maxVertices {
		return nil, fmt.Errorf("%w: got %d", ErrVertexCountTooHigh, count)
	}
	if count%2 != 0 {
		return nil, fmt.Errorf("%w: got odd count %d", ErrVertexCountTooLow, count)
	}

	poly := &Polygon{
		Width:  scaleDimension(rawWidth, zoom),
		Height: scaleDimension(rawHeight, zoom),
		Color:  color & 0x3F,
	}
	poly.Vertices = make([]Vertex, count)
	for i := 0; i < int(count); i++ {
		rx, err := prog.ReadU8()
		if err != nil {
			return nil, fmt.Errorf("video: read vertex %d x: %w", i, err)
		}
		ry, err := prog.ReadU8()
		if err != nil {
			return nil, fmt.Errorf("video: read vertex %d y: %w", i, err)
		}
		poly.Vertices[i] = Vertex{
			X: scaleDimension(rx, zoom),
			Y: scaleDimension(ry, zoom),
		}
	}
	return poly, nil
}

// scaleDimension applies the bytecode polygon zoom factor: raw*zoom/64.
func scaleDimension(raw uint8, zoom uint16) int16 {
	return int16(uint16(raw) * zoom / 64)
}

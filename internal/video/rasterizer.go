package video

import (
	"fmt"

	"github.com/retrocoderamen/anotherworld-vm/internal/geom"
)

// maxSlope is the largest vertical delta the slope table covers.
const maxSlope = 1023

// slopeTable[i] is the reciprocal 1/i in a 2.14 fixed-point format,
// truncated by integer division. slopeTable[0] is defined as 1<<14 so a
// zero-row step (two vertices sharing a Y) advances the cursor by the
// raw delta rather than dividing by zero.
var slopeTable [maxSlope + 1]int32

func init() {
	slopeTable[0] = 1 << 14
	for i := 1; i <= maxSlope; i++ {
		slopeTable[i] = (1 << 14) / int32(i)
	}
}

// calcStep converts a vertical delta dy and the corresponding horizontal
// delta dx into a per-row 16.16 fixed-point edge step, via a
// reciprocal-multiply against the precomputed slope table.
func calcStep(dx int32, dy int) int32 {
	return (dx * slopeTable[dy]) << 2
}

// FillPolygon rasterizes poly into target, anchored so that the
// polygon's own (0,0) vertex-space origin lands at origin in the
// buffer. Masked draws read the pixel to preserve/replace from
// maskSource (conventionally buffer 0).
func FillPolygon(target, maskSource *Framebuffer, poly *Polygon, origin geom.Point, op DrawOperation) error {
	return fillVertices(target, maskSource, poly.Vertices, origin, op)
}

func fillVertices(target, maskSource *Framebuffer, vertices []Vertex, origin geom.Point, op DrawOperation) error {
	n := len(vertices)
	if n < 4 {
		return fmt.Errorf("%w: got %d", ErrVertexCountTooLow, n)
	}
	if n%2 != 0 {
		return fmt.Errorf("%w: odd count %d", ErrVertexCountTooLow, n)
	}

	i, j := 0, n-1
	// Right cursor carries a 0x7FFF fraction, left a 0x8000 fraction; the
	// asymmetry is preserved verbatim from the source engine.
	xRight := (geom.FixedFromInt(int(origin.X)+int(vertices[i].X)) & ^geom.Fixed(0xFFFF)) | 0x7FFF
	xLeft := (geom.FixedFromInt(int(origin.X)+int(vertices[j].X)) & ^geom.Fixed(0xFFFF)) | 0x8000
	y := int(origin.Y) + int(vertices[i].Y)

	segments := n/2 - 1
	for s := 0; s < segments; s++ {
		i++
		j--

		dy := (int(origin.Y) + int(vertices[i].Y)) - y
		if dy < 0 || dy > maxSlope {
			return fmt.Errorf("%w: dy=%d", ErrInvalidVerticalDelta, dy)
		}

		rightBottom := int32(origin.X) + int32(vertices[i].X)
		leftBottom := int32(origin.X) + int32(vertices[j].X)
		stepRight := calcStep(rightBottom-int32(xRight.Whole()), dy)
		stepLeft := calcStep(leftBottom-int32(xLeft.Whole()), dy)

		// Re-seeded every segment, not just once per polygon: the source
		// engine re-applies these masks on each edge pair.
		xRight = (xRight &^ 0xFFFF) | 0x7FFF
		xLeft = (xLeft &^ 0xFFFF) | 0x8000

		for row := 0; row < dy; row++ {
			if y >= 0 && y < Height {
				x1, x2 := xLeft.Whole(), xRight.Whole()
				if x2 < x1 {
					x1, x2 = x2, x1
				}
				lo := clampCoord(x1)
				hi := clampCoord(x2)
				if lo <= hi {
					target.DrawSpan(y, lo, hi, op, maskSource)
				}
			} else if y >= Height {
				return nil
			}
			xRight += geom.Fixed(stepRight)
			xLeft += geom.Fixed(stepLeft)
			y++
		}
	}
	return nil
}

func clampCoord(x int) int {
	if x < 0 {
		return 0
	}
	if x > Width-1 {
		return Width - 1
	}
	return x
}

// Package geom holds the small numeric primitives shared by the video and
// VM packages: fixed-point cursors and 2D points.
package geom

// Fixed is a 16.16 signed fixed-point number, used for the rasterizer's
// edge cursors. Arithmetic on Fixed must wrap like the VM's register
// arithmetic, not trap; Go's int32 already wraps on overflow so plain
// operators are used throughout instead of checked arithmetic.
type Fixed int32

// FixedFromInt lifts a whole number into 16.16 fixed point.
func FixedFromInt(v int) Fixed {
	return Fixed(v << 16)
}

// Whole truncates a fixed-point value to its integer part (matching the
// original engine's floor-toward-zero-of-positive-cursor behaviour; edge
// cursors in this VM are never negative once clipped to the buffer).
func (f Fixed) Whole() int {
	return int(f >> 16)
}

// Point is an integer 2D coordinate.
type Point struct {
	X, Y int16
}

// Add returns the component-wise sum of two points.
func (p Point) Add(o Point) Point {
	return Point{X: p.X + o.X, Y: p.Y + o.Y}
}


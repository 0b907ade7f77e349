package video

import "errors"

var (
	// ErrVertexCountTooLow is returned when a polygon has fewer than 4
	// vertices.
	ErrVertexCountTooLow = errors.New("video: polygon has too few vertices")

	// ErrVertexCountTooHigh is returned when a parsed polygon claims more
	// than 50 vertices.
	ErrVertexCountTooHigh = errors.New("video: polygon has too many vertices")

	// ErrInvalidVerticalDelta is returned when a trapezoid segment's dy
	// exceeds the 1023-row reach of the slope table.
	ErrInvalidVerticalDelta = errors.New("video: vertical delta exceeds slope table range")

	// ErrInvalidBitmapSize is returned when a bitmap resource's length
	// doesn't match width*height/2.
	ErrInvalidBitmapSize = errors.New("video: invalid bitmap size")

	// ErrInvalidBufferID is returned for a buffer selector outside
	// {0,1,2,3,0xFE}; only MarkBufferReady also accepts 0xFF.
	ErrInvalidBufferID = errors.New("video: invalid buffer id")
)

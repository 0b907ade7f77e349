package rle

import "errors"

// Decode errors from spec.md §7.
var (
	// ErrChecksumFailed is returned when the running XOR checksum over all
	// consumed chunks is non-zero once decoding completes.
	ErrChecksumFailed = errors.New("rle: checksum mismatch")

	// ErrFinishedEarly is returned when the output buffer fills before the
	// compressed input is exhausted, or a copy runs past either buffer's
	// bounds.
	ErrFinishedEarly = errors.New("rle: writer filled before reader exhausted")

	// ErrUncompressedSizeMismatch is returned when the size recorded in the
	// packed stream's footer doesn't match the caller-supplied destination
	// length.
	ErrUncompressedSizeMismatch = errors.New("rle: uncompressed size mismatch")

	// ErrEndOfStream is returned when the bit reader needs another 32-bit
	// chunk but none remains before the start of the buffer.
	ErrEndOfStream = errors.New("rle: end of stream")
)

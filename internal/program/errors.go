package program

import "errors"

var (
	// ErrEndOfProgram is returned when a read would advance the cursor
	// past the end of the backing bytes; the cursor clamps at the end.
	ErrEndOfProgram = errors.New("program: read past end of program")

	// ErrInvalidAddress is returned by Jump when addr is not a valid
	// in-bounds offset.
	ErrInvalidAddress = errors.New("program: invalid jump address")

	// ErrProgramTooLarge is returned by New when bytes exceeds MaxSize.
	ErrProgramTooLarge = errors.New("program: exceeds maximum size")
)

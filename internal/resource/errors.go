package resource

import "errors"

// Data errors from spec.md §7, as produced while parsing MEMLIST.BIN.
var (
	ErrInvalidResourceType  = errors.New("invalid resource type")
	ErrInvalidResourceSize  = errors.New("invalid resource size: packed exceeds unpacked")
	ErrEndOfStream          = errors.New("end of stream before directory terminator")
	ErrResourceListTooLarge = errors.New("resource list too large")
	ErrInvalidResourceID    = errors.New("invalid resource id")
	ErrInvalidGamePart      = errors.New("invalid game part")
)

package audio

import "errors"

// ErrInvalidChannel is returned for a channel index outside 0..3.
var ErrInvalidChannel = errors.New("audio: invalid channel index")

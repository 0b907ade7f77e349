package config

import "errors"

// ErrInvalidTimingMode is returned when a config file's timing field is
// neither empty, "pal" nor "ntsc".
var ErrInvalidTimingMode = errors.New("config: invalid timing mode")

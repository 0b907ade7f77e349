package strings

import "errors"

// ErrStringNotFound is returned by Lookup for a str_id with no
// registered message in the active language.
var ErrStringNotFound = errors.New("strings: string not found")

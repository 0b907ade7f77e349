package memstore

import "errors"

// ErrBankRangeOutOfBounds is returned when a descriptor's bank_offset and
// packed_size/unpacked_size would read past the end of the bank file the
// host returned.
var ErrBankRangeOutOfBounds = errors.New("memstore: bank offset/size out of range")

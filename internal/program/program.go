// Package program provides the seekable byte cursor each VM thread reads
// its bytecode through. It mirrors the cursor idiom of the teacher's
// internal/cpu FetchInstruction/FetchImmediate helpers, generalized from
// a fixed ROM address space to a single flat byte slice no larger than
// 65536 bytes.
package program

import (
	"encoding/binary"
	"fmt"
)

// MaxSize is the largest bytecode program this VM can hold a cursor over.
const MaxSize = 65536

// Program is a byte cursor over a loaded bytecode resource.
type Program struct {
	bytes   []byte
	counter uint16
}

// New wraps bytes in a Program positioned at address 0. It rejects
// programs larger than MaxSize.
func New(bytes []byte) (*Program, error) {
	if len(bytes) > MaxSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrProgramTooLarge, len(bytes))
	}
	return &Program{bytes: bytes}, nil
}

// Counter returns the current read position.
func (p *Program) Counter() uint16 { return p.counter }

// Len returns the number of bytes backing this program.
func (p *Program) Len() int { return len(p.bytes) }

func (p *Program) require(n int) error {
	if int(p.counter)+n > len(p.bytes) {
		p.counter = uint16(len(p.bytes))
		return ErrEndOfProgram
	}
	return nil
}

// ReadU8 reads one unsigned byte and advances the cursor.
func (p *Program) ReadU8() (uint8, error) {
	if err := p.require(1); err != nil {
		return 0, err
	}
	v := p.bytes[p.counter]
	p.counter++
	return v, nil
}

// ReadI8 reads one signed byte and advances the cursor.
func (p *Program) ReadI8() (int8, error) {
	v, err := p.ReadU8()
	return int8(v), err
}

// ReadU16 reads a big-endian unsigned 16-bit value and advances the
// cursor by two bytes.
func (p *Program) ReadU16() (uint16, error) {
	if err := p.require(2); err != nil {
		return 0, err
	}
	v := binary.BigEndian.Uint16(p.bytes[p.counter:])
	p.counter += 2
	return v, nil
}

// ReadI16 reads a big-endian signed 16-bit value and advances the cursor
// by two bytes.
func (p *Program) ReadI16() (int16, error) {
	v, err := p.ReadU16()
	return int16(v), err
}

// Skip advances the cursor by n bytes without reading.
func (p *Program) Skip(n uint16) error {
	if err := p.require(int(n)); err != nil {
		return err
	}
	p.counter += n
	return nil
}

// Jump sets the cursor to addr. addr must be strictly less than the
// program's length.
func (p *Program) Jump(addr uint16) error {
	if int(addr) >= len(p.bytes) {
		return fmt.Errorf("%w: 0x%04X", ErrInvalidAddress, addr)
	}
	p.counter = addr
	return nil
}

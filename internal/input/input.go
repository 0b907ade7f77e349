// Package input turns one tic's raw button state into the register
// writes the VM's bytecode reads. It replaces the teacher's latch-based
// shift-register InputSystem with a flat struct, projected onto
// registers the same way the original projected a button mask onto its
// controller-port registers - just with four wired buttons and two
// signed axes instead of an eight-button shift register.
package input

import "github.com/retrocoderamen/anotherworld-vm/internal/vm"

// State is one tic's sampled input, per spec.md §6.
type State struct {
	Left, Right, Up, Down, Action bool
	LastPressedCharacter          uint8
	ShowPasswordScreen            bool
}

// movementBits packs LRUD into the low nibble, L in bit 0, matching the
// bit order spec.md §6 names them in.
func (s State) movementBits() uint16 {
	var b uint16
	if s.Left {
		b |= 1 << 0
	}
	if s.Right {
		b |= 1 << 1
	}
	if s.Up {
		b |= 1 << 2
	}
	if s.Down {
		b |= 1 << 3
	}
	return b
}

// leftRight projects Left/Right onto {-1,0,1}; Left wins if both are held.
func (s State) leftRight() int16 {
	switch {
	case s.Left:
		return -1
	case s.Right:
		return 1
	default:
		return 0
	}
}

// upDown projects Up/Down onto {-1,0,1}; Up wins if both are held.
func (s State) upDown() int16 {
	switch {
	case s.Up:
		return -1
	case s.Down:
		return 1
	default:
		return 0
	}
}

// Apply writes State's projections into regs, per spec.md §6. Whether
// LastPressedCharacter takes effect depends on the currently active game
// part, which the caller passes in as inPasswordEntry.
func Apply(regs *vm.Registers, s State, inPasswordEntry bool) {
	regs.SetSigned(vm.RegLeftRightInput, s.leftRight())
	regs.SetSigned(vm.RegUpDownInput, s.upDown())

	var action uint16
	if s.Action {
		action = 1
	}
	regs.Set(vm.RegActionInput, action)
	regs.Set(vm.RegJumpDownInput, action)

	movement := s.movementBits()
	regs.Set(vm.RegMovementInputs, movement)

	all := movement
	if s.Action {
		all |= 1 << 7
	}
	regs.Set(vm.RegAllInputs, all)

	if inPasswordEntry {
		regs.Set(vm.RegLastPressedCharacter, uint16(s.LastPressedCharacter))
	}
}

// RequestsPasswordEntry reports whether this tic's input should schedule
// a transition to the password_entry game part, per spec.md §6.
func (s State) RequestsPasswordEntry(allowsPasswordEntry bool) bool {
	return s.ShowPasswordScreen && allowsPasswordEntry
}

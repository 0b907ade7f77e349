package input

import (
	"testing"

	"github.com/retrocoderamen/anotherworld-vm/internal/vm"
)

func TestApplyProjectsMovementAndAction(t *testing.T) {
	regs := &vm.Registers{}
	s := State{Right: true, Down: true, Action: true}
	Apply(regs, s, false)

	if got := regs.GetSigned(vm.RegLeftRightInput); got != 1 {
		t.Errorf("left_right_input = %d, want 1", got)
	}
	if got := regs.GetSigned(vm.RegUpDownInput); got != 1 {
		t.Errorf("up_down_input = %d, want 1", got)
	}
	if got := regs.Get(vm.RegActionInput); got != 1 {
		t.Errorf("action_input = %d, want 1", got)
	}
	if got := regs.Get(vm.RegMovementInputs); got != 0b1010 {
		t.Errorf("movement_inputs = %#b, want 0b1010 (right+down)", got)
	}
	if got := regs.Get(vm.RegAllInputs); got != (0b1010 | 1<<7) {
		t.Errorf("all_inputs = %#b, want movement bits with action in bit 7", got)
	}
}

func TestLeftWinsOverRightWhenBothHeld(t *testing.T) {
	regs := &vm.Registers{}
	Apply(regs, State{Left: true, Right: true}, false)
	if got := regs.GetSigned(vm.RegLeftRightInput); got != -1 {
		t.Errorf("left_right_input = %d, want -1", got)
	}
}

func TestLastPressedCharacterOnlyDuringPasswordEntry(t *testing.T) {
	regs := &vm.Registers{}
	Apply(regs, State{LastPressedCharacter: 'A'}, false)
	if got := regs.Get(vm.RegLastPressedCharacter); got != 0 {
		t.Errorf("last_pressed_character = %d, want untouched (0) outside password_entry", got)
	}

	Apply(regs, State{LastPressedCharacter: 'A'}, true)
	if got := regs.Get(vm.RegLastPressedCharacter); got != uint16('A') {
		t.Errorf("last_pressed_character = %d, want %d", got, 'A')
	}
}

func TestRequestsPasswordEntryGatedByGamePart(t *testing.T) {
	s := State{ShowPasswordScreen: true}
	if s.RequestsPasswordEntry(false) {
		t.Error("should not request password entry when the part disallows it")
	}
	if !s.RequestsPasswordEntry(true) {
		t.Error("should request password entry when the part allows it")
	}
}

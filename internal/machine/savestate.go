package machine

import (
	"bytes"
	"encoding/gob"
	"fmt"

	"github.com/retrocoderamen/anotherworld-vm/internal/audio"
	"github.com/retrocoderamen/anotherworld-vm/internal/input"
	"github.com/retrocoderamen/anotherworld-vm/internal/program"
	"github.com/retrocoderamen/anotherworld-vm/internal/resource"
	"github.com/retrocoderamen/anotherworld-vm/internal/video"
	"github.com/retrocoderamen/anotherworld-vm/internal/vm"
)

const saveStateVersion = 1

// SaveState is a complete, serializable snapshot of a Machine, following
// the teacher's gob-based SaveState/LoadState shape. It omits anything
// derivable from the host's on-disk content: bank bytes are re-read and
// re-decoded from the current game part on Restore rather than embedded
// here, so a save state is only portable alongside the same content.
type SaveState struct {
	Version uint16

	Registers [vm.RegisterCount]uint16
	Threads   [vm.ThreadCount]vm.ThreadSnapshot
	Video     video.Snapshot
	Audio     audio.Snapshot

	CurrentPart      resource.GamePart
	HasScheduledPart bool
	ScheduledPart    resource.GamePart
	ProgramCounter   uint16
	Input            input.State
}

func init() {
	gob.Register(SaveState{})
}

// Snapshot captures the Machine's full state into a byte slice.
func (m *Machine) Snapshot() ([]byte, error) {
	state := SaveState{
		Version:        saveStateVersion,
		Registers:      m.regs.Snapshot(),
		Threads:        m.threads.Snapshot(),
		Video:          m.video.Snapshot(),
		Audio:          m.audio.Snapshot(),
		CurrentPart:    m.currentPart,
		ProgramCounter: m.prog.Counter(),
		Input:          m.input,
	}
	if m.scheduledPart != nil {
		state.HasScheduledPart = true
		state.ScheduledPart = *m.scheduledPart
	}

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(state); err != nil {
		return nil, fmt.Errorf("machine: encoding save state: %w", err)
	}
	return buf.Bytes(), nil
}

// Restore replaces the Machine's state from a Snapshot's output. The
// current game part is reloaded from the host's content first, so the
// resource tuple and bytecode program are rebuilt exactly as they were
// at load, before every other field is overwritten.
func (m *Machine) Restore(data []byte) error {
	var state SaveState
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&state); err != nil {
		return fmt.Errorf("machine: decoding save state: %w", err)
	}
	if state.Version != saveStateVersion {
		return fmt.Errorf("machine: unsupported save state version %d", state.Version)
	}

	res, err := m.memory.LoadGamePart(state.CurrentPart)
	if err != nil {
		return fmt.Errorf("machine: reloading game part %v: %w", state.CurrentPart, err)
	}
	prog, err := program.New(res.Bytecode)
	if err != nil {
		return fmt.Errorf("machine: rebuilding program from restored game part: %w", err)
	}

	m.resources = res
	m.prog = prog
	m.currentPart = state.CurrentPart
	// A cursor left at the very end of the bytecode (after its last
	// instruction ran) is a valid position that Jump rejects; Skip from 0
	// restores it.
	if int(state.ProgramCounter) == m.prog.Len() {
		err = m.prog.Skip(state.ProgramCounter)
	} else {
		err = m.prog.Jump(state.ProgramCounter)
	}
	if err != nil {
		return fmt.Errorf("machine: restoring program counter: %w", err)
	}

	m.regs.RestoreFrom(state.Registers)
	m.threads.RestoreFrom(state.Threads)
	m.video.RestoreFrom(state.Video)
	m.audio.RestoreFrom(state.Audio)

	m.scheduledPart = nil
	if state.HasScheduledPart {
		part := state.ScheduledPart
		m.scheduledPart = &part
	}
	m.input = state.Input

	return nil
}

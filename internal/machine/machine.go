// Package machine orchestrates one tic of the interpreter: it owns every
// subsystem (resource memory, the register bank and thread table, the
// video and audio mixers) and drives them through the sequence spec'd
// for a single pass of the scheduler. It plays the role the teacher's
// internal/machine Emulator played for a cycle-driven console - wiring
// components together behind a run-one-step entry point - generalized
// from a fixed 10MHz clock tree to a tic-based cooperative scheduler with
// no independent component clocks.
package machine

import (
	"fmt"

	"github.com/retrocoderamen/anotherworld-vm/internal/audio"
	"github.com/retrocoderamen/anotherworld-vm/internal/debug"
	"github.com/retrocoderamen/anotherworld-vm/internal/geom"
	"github.com/retrocoderamen/anotherworld-vm/internal/host"
	"github.com/retrocoderamen/anotherworld-vm/internal/input"
	"github.com/retrocoderamen/anotherworld-vm/internal/memstore"
	"github.com/retrocoderamen/anotherworld-vm/internal/program"
	"github.com/retrocoderamen/anotherworld-vm/internal/resource"
	"github.com/retrocoderamen/anotherworld-vm/internal/strings"
	"github.com/retrocoderamen/anotherworld-vm/internal/video"
	"github.com/retrocoderamen/anotherworld-vm/internal/vm"
)

// TimingMode selects the frame-delay factor RenderVideoBuffer applies,
// per spec.md §8 scenario 7.
type TimingMode uint8

const (
	TimingPAL TimingMode = iota
	TimingNTSC
)

// MaxInstructionsPerTic bounds how many opcodes a single thread may
// execute before yielding within one tic; exceeding it is a fatal
// interpreter error (runaway bytecode), per spec.md §4.5.
const MaxInstructionsPerTic = 10000

// Machine owns every VM subsystem and runs the tic loop.
type Machine struct {
	memory   *memstore.Memory
	video    *video.Video
	audio    *audio.Audio
	regs     *vm.Registers
	threads  *vm.ThreadTable
	prog     *program.Program
	host     host.Host
	logger   *debug.Logger
	timing   TimingMode

	resources     memstore.GamePartResources
	currentPart   resource.GamePart
	scheduledPart *resource.GamePart

	input    input.State
	debugger *debug.Debugger
	strTable *strings.Table
}

// New reads and parses the resource directory through reader and
// constructs a Machine over it and the host's callback vtable. seed feeds RegRandomSeed; it is normally the
// configured seed or, absent one, a value derived from system time -
// the caller's choice, since this package never reads the clock itself.
func New(reader host.ResourceReader, h host.Host, seed uint16, timing TimingMode) (*Machine, error) {
	listBytes, err := reader.ReadResourceList()
	if err != nil {
		return nil, fmt.Errorf("machine: reading resource list: %w", err)
	}
	dir, err := resource.ParseDirectory(listBytes)
	if err != nil {
		return nil, fmt.Errorf("machine: parsing resource list: %w", err)
	}

	prog, err := program.New(nil)
	if err != nil {
		return nil, err
	}

	m := &Machine{
		memory:  memstore.New(reader, dir),
		video:   video.New(),
		audio:   audio.New(),
		regs:    vm.NewRegisters(seed),
		threads: vm.NewThreadTable(),
		prog:    prog,
		host:    h,
		timing:  timing,
	}
	return m, nil
}

// SetLogger attaches a debug logger to the Machine and every subsystem
// that logs.
func (m *Machine) SetLogger(logger *debug.Logger) {
	m.logger = logger
	m.memory.SetLogger(logger)
	m.audio.SetLogger(logger)
}

// AttachDebugger wires an interactive Debugger into the tic loop: every
// thread checks it for a breakpoint or single-step hit before each
// instruction. nil detaches it, restoring unconditional execution.
func (m *Machine) AttachDebugger(d *debug.Debugger) {
	m.debugger = d
}

// SetStrings attaches the localized string table DrawString resolves
// str_id against. nil leaves DrawString a no-op logger, since a VM
// running without a table still needs to tolerate the opcode.
func (m *Machine) SetStrings(t *strings.Table) {
	m.strTable = t
}

// ErrBreakpointHit is returned by RunTic when a thread's program counter
// hits an enabled breakpoint or single-step limit. The thread's resume
// address is set to that instruction, which has not run. A later RunTic
// starts a new tic: input and scheduled states are applied again and
// lower-numbered threads run again, and an enabled breakpoint at the
// same address trips again.
var ErrBreakpointHit = fmt.Errorf("machine: breakpoint hit")

// ScheduleGamePart arranges for part to load at the start of the next
// tic (step 1 of §4.5), rather than loading immediately: a game part
// switch requested mid-tic by ControlResources still lets the current
// tic's remaining threads finish against the old part's bytecode.
func (m *Machine) ScheduleGamePart(part resource.GamePart) {
	p := part
	m.scheduledPart = &p
}

// loadGamePart performs the full reset §4.5 step 1 describes: drop all
// resources, load the new tuple, reset every thread, and seed the
// palette from the part's first palette table.
func (m *Machine) loadGamePart(part resource.GamePart) error {
	res, err := m.memory.LoadGamePart(part)
	if err != nil {
		return err
	}
	prog, err := program.New(res.Bytecode)
	if err != nil {
		return err
	}
	m.resources = res
	m.prog = prog
	m.currentPart = part
	m.threads.Reset()
	if err := m.SelectPalette(0); err != nil {
		return fmt.Errorf("machine: seeding initial palette: %w", err)
	}
	if m.logger != nil {
		m.logger.LogMachinef(debug.LogLevelInfo, "loaded game part %v", part)
	}
	return nil
}

// SetInput records the sampled input state for the next tic's
// application step. Whether its show_password_screen request is honored
// is decided in RunTic from the current game part.
func (m *Machine) SetInput(s input.State) {
	m.input = s
}

// RunTic drives one full pass of the scheduler per spec.md §4.5.
func (m *Machine) RunTic() error {
	if m.scheduledPart != nil {
		part := *m.scheduledPart
		m.scheduledPart = nil
		if err := m.loadGamePart(part); err != nil {
			return err
		}
	}

	inPasswordEntry := m.currentPart == resource.GamePartPasswordEntry
	input.Apply(m.regs, m.input, inPasswordEntry)
	if m.input.RequestsPasswordEntry(m.currentPart.AllowsPasswordEntry()) {
		m.ScheduleGamePart(resource.GamePartPasswordEntry)
	}

	m.threads.ApplyScheduled()

	for id := uint8(0); ; id++ {
		th, err := m.threads.Get(id)
		if err != nil {
			return err
		}
		if th.Active && th.Pause == vm.PauseStateRunning {
			if err := m.runThread(th); err != nil {
				return fmt.Errorf("machine: thread %d: %w", id, err)
			}
		}
		if id == vm.ThreadCount-1 {
			break
		}
	}
	return nil
}

// runThread seeks the shared Program to th's resume address, clears its
// call stack, and interprets opcodes until it yields, is killed, renders
// a frame, or exceeds MaxInstructionsPerTic.
func (m *Machine) runThread(th *vm.Thread) error {
	if err := m.prog.Jump(th.PC); err != nil {
		return err
	}
	th.Stack.Reset()

	for i := 0; i < MaxInstructionsPerTic; i++ {
		if m.debugger != nil && m.debugger.ShouldBreak(m.prog.Counter()) {
			th.PC = m.prog.Counter()
			return ErrBreakpointHit
		}
		sig, err := vm.Step(m, m.prog, th)
		if err != nil {
			return err
		}
		switch sig {
		case vm.SignalContinue:
			continue
		case vm.SignalYield, vm.SignalRender:
			th.PC = m.prog.Counter()
			return nil
		case vm.SignalKill:
			th.Active = false
			return nil
		default:
			return fmt.Errorf("machine: unknown signal %v", sig)
		}
	}
	return fmt.Errorf("machine: thread exceeded %d instructions in one tic", MaxInstructionsPerTic)
}

// --- vm.Context ---

func (m *Machine) Registers() *vm.Registers  { return m.regs }
func (m *Machine) Program() *program.Program { return m.prog }
func (m *Machine) Threads() *vm.ThreadTable  { return m.threads }

func (m *Machine) SelectPalette(id uint8) error {
	offset := int(id) * 32
	if offset+32 > len(m.resources.Palettes) {
		return fmt.Errorf("%w: palette table %d", resource.ErrInvalidResourceID, id)
	}
	pal, err := video.DecodePalette(m.resources.Palettes[offset : offset+32])
	if err != nil {
		return err
	}
	m.video.SetPalette(pal)
	return nil
}

func (m *Machine) SelectVideoBuffer(id uint8) error {
	return m.video.SelectBuffer(id)
}

func (m *Machine) FillVideoBuffer(id uint8, color uint8) error {
	return m.video.Fill(id, color)
}

func (m *Machine) CopyVideoBuffer(srcID, dstID uint8, yOffset int) error {
	return m.video.CopyBuffer(srcID, dstID, yOffset)
}

// RenderVideoBuffer marks bufID ready, computes the frame delay from
// R[frame_duration] and the configured timing mode, ticks the audio
// mixer for that many milliseconds, and publishes both to the host.
func (m *Machine) RenderVideoBuffer(bufID uint8) (int, error) {
	if err := m.video.MarkBufferReady(bufID); err != nil {
		return 0, err
	}

	frameDuration := int(m.regs.Get(vm.RegFrameDuration))
	var delayMs int
	switch m.timing {
	case TimingNTSC:
		delayMs = frameDuration * 1000 / 60
	default:
		delayMs = frameDuration * 1000 / 50
	}

	samples, mark := m.audio.ProduceAudio(delayMs)
	m.regs.Set(vm.RegMusicMark, uint16(mark))

	if m.host != nil {
		m.host.AudioReady(samples)
		m.host.VideoFrameReady(m.video.FrontBufferID(), delayMs)
	}
	return delayMs, nil
}

// DrawString resolves strID through the attached string table and logs
// the result at the requested position/color. Rendering glyphs into a
// framebuffer is the concrete presenter's job, out of this VM's scope
// (spec.md §1); this is as far as the lookup contract goes here.
func (m *Machine) DrawString(strID uint16, color, x, y uint8) error {
	text := ""
	if m.strTable != nil {
		resolved, err := m.strTable.Lookup(strID)
		if err == nil {
			text = resolved
		}
	}
	if m.logger != nil {
		m.logger.LogMachinef(debug.LogLevelDebug, "draw string %d (%q) at (%d,%d) color %d", strID, text, x, y, color)
	}
	return nil
}

// polygonControlByte returns the color/mask flags byte that always
// precedes a polygon's body in the polygon and animation banks, and
// leaves prog's cursor positioned at the body.
func polygonControlByte(prog *program.Program) (uint8, error) {
	return prog.ReadU8()
}

func (m *Machine) DrawBackgroundPolygon(polyAddr uint16, x, y int16) error {
	return m.drawPolygon(m.resources.Polygons, polyAddr, 0x40, x, y)
}

func (m *Machine) DrawSpritePolygon(polyAddr uint16, x, y int16, zoom uint16) error {
	bank := m.resources.Animations
	if bank == nil {
		bank = m.resources.Polygons
	}
	return m.drawPolygon(bank, polyAddr, zoom, x, y)
}

func (m *Machine) drawPolygon(bank []byte, addr uint16, zoom uint16, x, y int16) error {
	polyProg, err := program.New(bank)
	if err != nil {
		return err
	}
	if err := polyProg.Jump(addr); err != nil {
		return err
	}
	control, err := polygonControlByte(polyProg)
	if err != nil {
		return err
	}
	poly, err := video.ReadPolygon(polyProg, zoom, control)
	if err != nil {
		return err
	}
	return m.video.DrawPolygon(poly, geom.Point{X: x, Y: y})
}

func (m *Machine) ControlSound(resID uint16, freq, vol, channel uint8) error {
	if vol == 0 {
		return m.audio.StopChannel(channel)
	}
	data, ok := m.memory.ResourceLocation(resource.ID(resID), resource.KindSoundOrEmpty)
	if !ok {
		if m.logger != nil {
			m.logger.LogAudiof(debug.LogLevelWarning, "play_sound: resource %d not loaded, ignoring", resID)
		}
		return nil
	}
	return m.audio.PlaySound(channel, resID, data, freq, vol)
}

func (m *Machine) ControlMusic(resID, tempo uint16, offset uint8) error {
	switch {
	case resID != 0:
		data, ok := m.memory.ResourceLocation(resource.ID(resID), resource.KindMusic)
		if !ok {
			if m.logger != nil {
				m.logger.LogAudiof(debug.LogLevelWarning, "play_music: resource %d not loaded, ignoring", resID)
			}
			return nil
		}
		m.audio.PlayMusic(resID, data, tempo, offset)
	case tempo != 0:
		m.audio.SetTempo(tempo)
	default:
		m.audio.StopMusic()
	}
	return nil
}

// ControlResources routes bytecode opcode 25: an idOrPart that names a
// game part's bytecode resource schedules that part; 0 unloads every
// resource individually loaded since the last part switch; anything else
// individually loads that resource id, routing bitmap kinds straight
// into video buffer 0.
func (m *Machine) ControlResources(idOrPart uint16) error {
	if part, ok := resource.ByBytecodeID(idOrPart); ok {
		m.ScheduleGamePart(part)
		return nil
	}
	if idOrPart == 0 {
		m.memory.UnloadAllIndividualResources()
		return nil
	}
	bmp, err := m.memory.LoadIndividualResource(resource.ID(idOrPart))
	if err != nil {
		return err
	}
	if bmp != nil {
		return m.video.LoadBitmapInto(bmp.Data)
	}
	return nil
}

// FrontBufferRGBA renders the front buffer through the active palette,
// for the host's presenter.
func (m *Machine) FrontBufferRGBA() ([]byte, error) {
	return m.video.RGBA(m.video.FrontBufferID())
}

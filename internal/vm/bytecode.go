package vm

import (
	"errors"
	"fmt"

	"github.com/retrocoderamen/anotherworld-vm/internal/program"
)

// Opcode names the 27 named bytecode operations (0..26). Polygon draws
// are not named opcodes: they're the rest of the byte space, decoded
// separately by DecodeOpcode.
type Opcode uint8

const (
	OpRegisterSet Opcode = iota
	OpRegisterCopy
	OpRegisterAdd
	OpRegisterAddConstant
	OpCall
	OpReturn
	OpYield
	OpJump
	OpActivateThread
	OpJumpIfNotZero
	OpJumpConditional
	OpSelectPalette
	OpControlThreads
	OpSelectVideoBuffer
	OpFillVideoBuffer
	OpCopyVideoBuffer
	OpRenderVideoBuffer
	OpKill
	OpDrawString
	OpRegisterSubtract
	OpRegisterAnd
	OpRegisterOr
	OpRegisterShiftLeft
	OpRegisterShiftRight
	OpControlSound
	OpControlResources
	OpControlMusic

	opcodeCount = 27
)

var (
	// ErrInvalidOpcode is returned when a byte below 0x40 doesn't map to
	// one of the 27 named opcodes (0x40 and up are sprite draws).
	ErrInvalidOpcode = errors.New("vm: invalid opcode")
	// ErrInvalidJumpComparison is returned for a JumpConditional whose
	// comparator bits don't select one of the six comparisons.
	ErrInvalidJumpComparison = errors.New("vm: invalid jump comparison")
)

// DrawKind distinguishes the two high-bit-encoded polygon pseudo-opcodes
// from a named opcode.
type DrawKind int

const (
	DrawKindNone DrawKind = iota
	DrawKindBackground
	DrawKindSprite
)

// DecodeOpcode classifies a raw opcode byte per §4.6: bit 7 set selects
// a background polygon draw, bit 6 set (bit 7 clear) selects a sprite
// polygon draw, otherwise the byte must be one of the 27 named opcodes.
func DecodeOpcode(b uint8) (Opcode, DrawKind) {
	if b&0x80 != 0 {
		return 0, DrawKindBackground
	}
	if b&0x40 != 0 {
		return 0, DrawKindSprite
	}
	return Opcode(b), DrawKindNone
}

// Signal is what a thread's interpreter loop should do after an
// instruction runs.
type Signal int

const (
	SignalContinue Signal = iota
	SignalYield
	SignalKill
	SignalRender
)

// Context is everything one opcode needs from its owning machine:
// registers, the program cursor, and the video/audio/resource/thread
// side-effects the table drives (the current thread, with its call
// stack, is passed to Step separately). A
// *machine.Machine satisfies this; vm itself never depends on it,
// keeping the dependency arrow pointing from machine down to vm.
type Context interface {
	Registers() *Registers
	Program() *program.Program
	Threads() *ThreadTable

	SelectPalette(id uint8) error
	SelectVideoBuffer(id uint8) error
	FillVideoBuffer(id uint8, color uint8) error
	CopyVideoBuffer(srcID, dstID uint8, yOffset int) error
	RenderVideoBuffer(bufID uint8) (delayMs int, err error)
	DrawString(strID uint16, color uint8, x, y uint8) error
	DrawBackgroundPolygon(polyAddr uint16, x, y int16) error
	DrawSpritePolygon(polyAddr uint16, x, y int16, zoom uint16) error

	ControlSound(resID uint16, freq, vol, channel uint8) error
	ControlMusic(resID, tempo uint16, offset uint8) error
	ControlResources(idOrPart uint16) error
}

// comparator is the low bits of JumpConditional's kind operand.
type comparator uint8

const (
	cmpEqual comparator = iota
	cmpNotEqual
	cmpGreater
	cmpGreaterOrEqual
	cmpLess
	cmpLessOrEqual
)

func evalComparator(c comparator, lhs, rhs int16) (bool, error) {
	switch c {
	case cmpEqual:
		return lhs == rhs, nil
	case cmpNotEqual:
		return lhs != rhs, nil
	case cmpGreater:
		return lhs > rhs, nil
	case cmpGreaterOrEqual:
		return lhs >= rhs, nil
	case cmpLess:
		return lhs < rhs, nil
	case cmpLessOrEqual:
		return lhs <= rhs, nil
	default:
		return false, ErrInvalidJumpComparison
	}
}

// Step fetches and executes exactly one opcode against ctx/prog/thread,
// returning the control-flow signal the thread's run loop should act on.
func Step(ctx Context, prog *program.Program, thread *Thread) (Signal, error) {
	opByte, err := prog.ReadU8()
	if err != nil {
		return SignalContinue, fmt.Errorf("vm: fetch opcode: %w", err)
	}

	regs := ctx.Registers()

	op, kind := DecodeOpcode(opByte)
	switch kind {
	case DrawKindBackground:
		addrLow, err := prog.ReadU8()
		if err != nil {
			return SignalContinue, fmt.Errorf("vm: background polygon address: %w", err)
		}
		polyAddr := (uint16(opByte)<<8 | uint16(addrLow)) << 1
		x, err := prog.ReadU8()
		if err != nil {
			return SignalContinue, fmt.Errorf("vm: background polygon x: %w", err)
		}
		y, err := prog.ReadU8()
		if err != nil {
			return SignalContinue, fmt.Errorf("vm: background polygon y: %w", err)
		}
		// The original clips a polygon that spills off the bottom of the
		// screen by transferring the overflow onto x instead of y.
		px, py := int16(x), int16(y)
		if overflow := py - 199; overflow > 0 {
			py = 199
			px += overflow
		}
		if err := ctx.DrawBackgroundPolygon(polyAddr, px, py); err != nil {
			return SignalContinue, err
		}
		return SignalContinue, nil

	case DrawKindSprite:
		addrWord, err := prog.ReadU16()
		if err != nil {
			return SignalContinue, fmt.Errorf("vm: sprite polygon address: %w", err)
		}
		polyAddr := addrWord << 1

		xByte, err := prog.ReadU8()
		if err != nil {
			return SignalContinue, fmt.Errorf("vm: sprite polygon x: %w", err)
		}
		x := int16(xByte)
		switch {
		case opByte&0x20 == 0:
			if opByte&0x10 == 0 {
				lo, err := prog.ReadU8()
				if err != nil {
					return SignalContinue, err
				}
				x = int16(uint16(xByte)<<8 | uint16(lo))
			} else {
				x = regs.GetSigned(xByte)
			}
		default:
			if opByte&0x10 != 0 {
				x += 0x100
			}
		}

		yByte, err := prog.ReadU8()
		if err != nil {
			return SignalContinue, fmt.Errorf("vm: sprite polygon y: %w", err)
		}
		y := int16(yByte)
		if opByte&0x08 == 0 {
			if opByte&0x04 == 0 {
				lo, err := prog.ReadU8()
				if err != nil {
					return SignalContinue, err
				}
				y = int16(uint16(yByte)<<8 | uint16(lo))
			} else {
				y = regs.GetSigned(yByte)
			}
		}

		zoom := uint16(64)
		if opByte&0x02 != 0 {
			if opByte&0x01 != 0 {
				zb, err := prog.ReadU8()
				if err != nil {
					return SignalContinue, err
				}
				zoom = uint16(zb)
			}
		} else if opByte&0x01 != 0 {
			zb, err := prog.ReadU8()
			if err != nil {
				return SignalContinue, err
			}
			zoom = regs.Get(zb)
		}

		if err := ctx.DrawSpritePolygon(polyAddr, x, y, zoom); err != nil {
			return SignalContinue, err
		}
		return SignalContinue, nil
	}

	switch op {
	case OpRegisterSet:
		dst, err := prog.ReadU8()
		if err != nil {
			return SignalContinue, err
		}
		val, err := prog.ReadI16()
		if err != nil {
			return SignalContinue, err
		}
		regs.SetSigned(dst, val)

	case OpRegisterCopy:
		dst, err := prog.ReadU8()
		if err != nil {
			return SignalContinue, err
		}
		src, err := prog.ReadU8()
		if err != nil {
			return SignalContinue, err
		}
		regs.Set(dst, regs.Get(src))

	case OpRegisterAdd:
		dst, err := prog.ReadU8()
		if err != nil {
			return SignalContinue, err
		}
		src, err := prog.ReadU8()
		if err != nil {
			return SignalContinue, err
		}
		regs.Add(dst, regs.Get(src))

	case OpRegisterAddConstant:
		dst, err := prog.ReadU8()
		if err != nil {
			return SignalContinue, err
		}
		val, err := prog.ReadI16()
		if err != nil {
			return SignalContinue, err
		}
		regs.Add(dst, uint16(val))

	case OpCall:
		addr, err := prog.ReadU16()
		if err != nil {
			return SignalContinue, err
		}
		if err := thread.Stack.Push(prog.Counter()); err != nil {
			return SignalContinue, err
		}
		if err := prog.Jump(addr); err != nil {
			return SignalContinue, err
		}

	case OpReturn:
		addr, err := thread.Stack.Pop()
		if err != nil {
			return SignalContinue, err
		}
		if err := prog.Jump(addr); err != nil {
			return SignalContinue, err
		}

	case OpYield:
		return SignalYield, nil

	case OpJump:
		addr, err := prog.ReadU16()
		if err != nil {
			return SignalContinue, err
		}
		if err := prog.Jump(addr); err != nil {
			return SignalContinue, err
		}

	case OpActivateThread:
		tid, err := prog.ReadU8()
		if err != nil {
			return SignalContinue, err
		}
		addr, err := prog.ReadU16()
		if err != nil {
			return SignalContinue, err
		}
		if err := ctx.Threads().ScheduleActivate(tid, addr); err != nil {
			return SignalContinue, err
		}

	case OpJumpIfNotZero:
		reg, err := prog.ReadU8()
		if err != nil {
			return SignalContinue, err
		}
		addr, err := prog.ReadU16()
		if err != nil {
			return SignalContinue, err
		}
		regs.Sub(reg, 1)
		if regs.Get(reg) != 0 {
			if err := prog.Jump(addr); err != nil {
				return SignalContinue, err
			}
		}

	case OpJumpConditional:
		kindByte, err := prog.ReadU8()
		if err != nil {
			return SignalContinue, err
		}
		lhsReg, err := prog.ReadU8()
		if err != nil {
			return SignalContinue, err
		}
		lhs := regs.GetSigned(lhsReg)

		var rhs int16
		switch {
		case kindByte&0x80 != 0:
			v, err := prog.ReadI16()
			if err != nil {
				return SignalContinue, err
			}
			rhs = v
		case kindByte&0x40 != 0:
			v, err := prog.ReadI8()
			if err != nil {
				return SignalContinue, err
			}
			rhs = int16(v)
		default:
			rhsReg, err := prog.ReadU8()
			if err != nil {
				return SignalContinue, err
			}
			rhs = regs.GetSigned(rhsReg)
		}

		addr, err := prog.ReadU16()
		if err != nil {
			return SignalContinue, err
		}
		hold, err := evalComparator(comparator(kindByte&0x07), lhs, rhs)
		if err != nil {
			return SignalContinue, err
		}
		if hold {
			if err := prog.Jump(addr); err != nil {
				return SignalContinue, err
			}
		}

	case OpSelectPalette:
		palID, err := prog.ReadU8()
		if err != nil {
			return SignalContinue, err
		}
		if _, err := prog.ReadU8(); err != nil { // padding byte
			return SignalContinue, err
		}
		if err := ctx.SelectPalette(palID); err != nil {
			return SignalContinue, err
		}

	case OpControlThreads:
		start, err := prog.ReadU8()
		if err != nil {
			return SignalContinue, err
		}
		end, err := prog.ReadU8()
		if err != nil {
			return SignalContinue, err
		}
		ctrlOpByte, err := prog.ReadU8()
		if err != nil {
			return SignalContinue, err
		}
		threadOp, err := decodeThreadOp(ctrlOpByte)
		if err != nil {
			return SignalContinue, err
		}
		if err := ctx.Threads().ScheduleRange(start, end, threadOp); err != nil {
			return SignalContinue, err
		}

	case OpSelectVideoBuffer:
		bufID, err := prog.ReadU8()
		if err != nil {
			return SignalContinue, err
		}
		if err := ctx.SelectVideoBuffer(bufID); err != nil {
			return SignalContinue, err
		}

	case OpFillVideoBuffer:
		bufID, err := prog.ReadU8()
		if err != nil {
			return SignalContinue, err
		}
		color, err := prog.ReadU8()
		if err != nil {
			return SignalContinue, err
		}
		if err := ctx.FillVideoBuffer(bufID, color); err != nil {
			return SignalContinue, err
		}

	case OpCopyVideoBuffer:
		src, err := prog.ReadU8()
		if err != nil {
			return SignalContinue, err
		}
		dst, err := prog.ReadU8()
		if err != nil {
			return SignalContinue, err
		}
		yReg, err := prog.ReadU8()
		if err != nil {
			return SignalContinue, err
		}
		if err := ctx.CopyVideoBuffer(src, dst, int(regs.GetSigned(yReg))); err != nil {
			return SignalContinue, err
		}

	case OpRenderVideoBuffer:
		bufID, err := prog.ReadU8()
		if err != nil {
			return SignalContinue, err
		}
		if _, err := ctx.RenderVideoBuffer(bufID); err != nil {
			return SignalContinue, err
		}
		return SignalRender, nil

	case OpKill:
		return SignalKill, nil

	case OpDrawString:
		strID, err := prog.ReadU16()
		if err != nil {
			return SignalContinue, err
		}
		color, err := prog.ReadU8()
		if err != nil {
			return SignalContinue, err
		}
		x, err := prog.ReadU8()
		if err != nil {
			return SignalContinue, err
		}
		y, err := prog.ReadU8()
		if err != nil {
			return SignalContinue, err
		}
		if err := ctx.DrawString(strID, color, x, y); err != nil {
			return SignalContinue, err
		}

	case OpRegisterSubtract:
		dst, err := prog.ReadU8()
		if err != nil {
			return SignalContinue, err
		}
		src, err := prog.ReadU8()
		if err != nil {
			return SignalContinue, err
		}
		regs.Sub(dst, regs.Get(src))

	case OpRegisterAnd:
		dst, err := prog.ReadU8()
		if err != nil {
			return SignalContinue, err
		}
		mask, err := prog.ReadU16()
		if err != nil {
			return SignalContinue, err
		}
		regs.Set(dst, regs.Get(dst)&mask)

	case OpRegisterOr:
		dst, err := prog.ReadU8()
		if err != nil {
			return SignalContinue, err
		}
		mask, err := prog.ReadU16()
		if err != nil {
			return SignalContinue, err
		}
		regs.Set(dst, regs.Get(dst)|mask)

	case OpRegisterShiftLeft:
		dst, err := prog.ReadU8()
		if err != nil {
			return SignalContinue, err
		}
		amount, err := prog.ReadU16()
		if err != nil {
			return SignalContinue, err
		}
		regs.Set(dst, regs.Get(dst)<<amount)

	case OpRegisterShiftRight:
		dst, err := prog.ReadU8()
		if err != nil {
			return SignalContinue, err
		}
		amount, err := prog.ReadU16()
		if err != nil {
			return SignalContinue, err
		}
		regs.Set(dst, regs.Get(dst)>>amount)

	case OpControlSound:
		resID, err := prog.ReadU16()
		if err != nil {
			return SignalContinue, err
		}
		freq, err := prog.ReadU8()
		if err != nil {
			return SignalContinue, err
		}
		vol, err := prog.ReadU8()
		if err != nil {
			return SignalContinue, err
		}
		ch, err := prog.ReadU8()
		if err != nil {
			return SignalContinue, err
		}
		if err := ctx.ControlSound(resID, freq, vol, ch); err != nil {
			return SignalContinue, err
		}

	case OpControlResources:
		idOrPart, err := prog.ReadU16()
		if err != nil {
			return SignalContinue, err
		}
		if err := ctx.ControlResources(idOrPart); err != nil {
			return SignalContinue, err
		}

	case OpControlMusic:
		resID, err := prog.ReadU16()
		if err != nil {
			return SignalContinue, err
		}
		tempo, err := prog.ReadU16()
		if err != nil {
			return SignalContinue, err
		}
		offset, err := prog.ReadU8()
		if err != nil {
			return SignalContinue, err
		}
		if err := ctx.ControlMusic(resID, tempo, offset); err != nil {
			return SignalContinue, err
		}

	default:
		return SignalContinue, fmt.Errorf("%w: 0x%02X", ErrInvalidOpcode, opByte)
	}

	return SignalContinue, nil
}

func decodeThreadOp(b uint8) (ThreadOp, error) {
	switch b {
	case 0:
		return ThreadOpResume, nil
	case 1:
		return ThreadOpPause, nil
	case 2:
		return ThreadOpDeactivate, nil
	default:
		return 0, fmt.Errorf("%w: 0x%02X", ErrInvalidThreadOperation, b)
	}
}

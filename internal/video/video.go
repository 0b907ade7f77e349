package video

import (
	"fmt"

	"github.com/retrocoderamen/anotherworld-vm/internal/geom"
)

const (
	// BufferCurrent ("0xFE") selects whichever buffer the VM is currently
	// drawing into for Select/Fill/Copy. MarkBufferReady reads the same
	// sentinel as "the front buffer is already right" - a true no-op,
	// since both readings reduce to "don't touch anything".
	BufferCurrent uint8 = 0xFE
	// BufferBack ("0xFF") tells MarkBufferReady to swap the front and
	// current buffers, the page flip the bytecode issues at frame end.
	BufferBack uint8 = 0xFF

	numBuffers = 4
)

// Palette is 16 RGB entries, each component already in the 0-255 host
// range (see expandColorComponent for how a 4-bit source nibble maps up
// to a full byte).
type Palette [16][3]uint8

// Video owns the four indexed-color framebuffers, the active palette,
// and the front/back/current buffer bookkeeping the bytecode "select
// buffer", "fill", "copy", and "render" opcodes drive.
type Video struct {
	buffers [numBuffers]Framebuffer
	palette Palette

	curBuf   uint8 // buffer the VM is currently drawing into
	frontBuf uint8 // buffer most recently handed to the host
}

// New returns a Video with all four buffers cleared to color 0 and an
// all-black palette.
func New() *Video {
	return &Video{curBuf: 0, frontBuf: 1}
}

// SetPalette replaces the 16-entry active palette.
func (v *Video) SetPalette(p Palette) {
	v.palette = p
}

// GetPalette returns the active 16-entry palette.
func (v *Video) GetPalette() Palette {
	return v.palette
}

func resolveBufferID(id, current uint8) (uint8, error) {
	switch id {
	case BufferCurrent:
		return current, nil
	case 0, 1, 2, 3:
		return id, nil
	default:
		return 0, fmt.Errorf("%w: 0x%02X", ErrInvalidBufferID, id)
	}
}

// SelectBuffer sets the buffer subsequent draws target.
func (v *Video) SelectBuffer(id uint8) error {
	resolved, err := resolveBufferID(id, v.curBuf)
	if err != nil {
		return err
	}
	v.curBuf = resolved
	return nil
}

// Fill sets every pixel of the named buffer to color.
func (v *Video) Fill(id uint8, color uint8) error {
	resolved, err := resolveBufferID(id, v.curBuf)
	if err != nil {
		return err
	}
	v.buffers[resolved].Fill(color)
	return nil
}

// CopyBuffer copies src into dst with a vertical offset, per
// Framebuffer.CopyWithVerticalOffset.
func (v *Video) CopyBuffer(srcID, dstID uint8, yOffset int) error {
	src, err := resolveBufferID(srcID, v.curBuf)
	if err != nil {
		return err
	}
	dst, err := resolveBufferID(dstID, v.curBuf)
	if err != nil {
		return err
	}
	v.buffers[dst].CopyWithVerticalOffset(&v.buffers[src], yOffset)
	return nil
}

// LoadBitmapInto decodes a planar bitmap resource directly into buffer
// 0, bypassing the usual current-buffer routing (the bytecode's
// "display bitmap" path always targets buffer 0).
func (v *Video) LoadBitmapInto(data []byte) error {
	return v.buffers[0].LoadBitmap(data)
}

// DrawPolygon rasterizes poly into the current buffer (or the mask
// source, buffer 0, is always read from regardless of target).
func (v *Video) DrawPolygon(poly *Polygon, origin geom.Point) error {
	op := DrawOperation{Mode: DrawModeSolid, Color: poly.Color}
	switch poly.Color {
	case colorHighlight:
		op = DrawOperation{Mode: DrawModeHighlight}
	case colorMask:
		op = DrawOperation{Mode: DrawModeMask}
	}
	return FillPolygon(&v.buffers[v.curBuf], &v.buffers[0], poly, origin, op)
}

// MarkBufferReady hands id to the host as the new front buffer.
// BufferCurrent (0xFE) repeats whatever is already front (a no-op);
// BufferBack (0xFF) swaps the front and current buffers; an explicit
// 0-3 promotes that buffer directly. Two consecutive BufferBack calls
// are identity, since each one just swaps the same pair back.
func (v *Video) MarkBufferReady(id uint8) error {
	switch id {
	case BufferCurrent:
		return nil
	case BufferBack:
		v.frontBuf, v.curBuf = v.curBuf, v.frontBuf
		return nil
	default:
		resolved, err := resolveBufferID(id, v.curBuf)
		if err != nil {
			return err
		}
		v.frontBuf = resolved
		return nil
	}
}

// FrontBuffer returns the buffer currently presented to the host.
func (v *Video) FrontBuffer() *Framebuffer {
	return &v.buffers[v.frontBuf]
}

// FrontBufferID returns the index of the buffer currently presented to
// the host, for callers that need to pass it back into RGBA.
func (v *Video) FrontBufferID() uint8 {
	return v.frontBuf
}

// RGBA renders a buffer through the active palette into a host-ready
// RGBA image, expanding each 4-bit color index via expandColorComponent.
func (v *Video) RGBA(id uint8) ([]byte, error) {
	resolved, err := resolveBufferID(id, v.curBuf)
	if err != nil {
		return nil, err
	}
	fb := &v.buffers[resolved]
	out := make([]byte, Width*Height*4)
	for y := 0; y < Height; y++ {
		for x := 0; x < Width; x++ {
			idx := fb.At(x, y)
			entry := v.palette[idx]
			o := (y*Width + x) * 4
			out[o+0] = entry[0]
			out[o+1] = entry[1]
			out[o+2] = entry[2]
			out[o+3] = 0xFF
		}
	}
	return out, nil
}

// Snapshot is Video's save-stateable fields.
type Snapshot struct {
	Buffers  [numBuffers][bufferSize]byte
	Palette  Palette
	CurBuf   uint8
	FrontBuf uint8
}

// Snapshot captures every buffer, the palette, and the current/front
// buffer indices.
func (v *Video) Snapshot() Snapshot {
	var s Snapshot
	for i := range v.buffers {
		s.Buffers[i] = v.buffers[i].Snapshot()
	}
	s.Palette = v.palette
	s.CurBuf = v.curBuf
	s.FrontBuf = v.frontBuf
	return s
}

// RestoreFrom replaces Video's state from a prior Snapshot.
func (v *Video) RestoreFrom(s Snapshot) {
	for i := range v.buffers {
		v.buffers[i].RestoreFrom(s.Buffers[i])
	}
	v.palette = s.Palette
	v.curBuf = s.CurBuf
	v.frontBuf = s.FrontBuf
}

// expandColorComponent lifts a 4-bit (or 5-bit source, per the original
// 0-31 palette range) color channel up to a full 0-255 byte: v -> ((v
// << 2 | v >> 2)) << 2, matching the source engine's palette unpacking.
func expandColorComponent(v uint8) uint8 {
	return ((v << 2) | (v >> 2)) << 2
}

// DecodePaletteEntry unpacks one big-endian 16-bit source palette word
// (0b0000rrrrggggbbbb) into an expanded RGB triple.
func DecodePaletteEntry(word uint16) [3]uint8 {
	r := uint8((word >> 8) & 0x0F)
	g := uint8((word >> 4) & 0x0F)
	b := uint8(word & 0x0F)
	return [3]uint8{expandColorComponent(r), expandColorComponent(g), expandColorComponent(b)}
}

// DecodePalette unpacks a 32-byte (16 entries x 2 bytes) palette
// resource into a Palette.
func DecodePalette(data []byte) (Palette, error) {
	var p Palette
	if len(data) < 32 {
		return p, fmt.Errorf("video: palette resource too short: %d bytes", len(data))
	}
	for i := 0; i < 16; i++ {
		word := uint16(data[i*2])<<8 | uint16(data[i*2+1])
		p[i] = DecodePaletteEntry(word)
	}
	return p, nil
}

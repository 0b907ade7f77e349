// Package savehost is a reference Host implementation: it never opens a
// window, it blits each completed frame to a .bmp file on disk. It
// exists so the Host boundary (spec.md §4.9) is exercised by something
// real in this repo's own tests and cmd/awvm's "-dump-frames" debug
// mode, without building the concrete window/surface presenter spec.md
// §1 places out of scope.
package savehost

import (
	"fmt"
	"image"
	"image/draw"
	"os"
	"path/filepath"

	"github.com/jsummers/gobmp"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/retrocoderamen/anotherworld-vm/internal/video"
)

// FrameSource is the subset of *machine.Machine DumpHost needs to render
// a completed frame; satisfied by *machine.Machine without this package
// needing to import it.
type FrameSource interface {
	FrontBufferRGBA() ([]byte, error)
}

// DumpHost blits every completed frame to "<OutDir>/frame-%05d.bmp",
// optionally overlaying a one-line trace string (mirroring the teacher's
// CycleLogger trace, expressed as pixels instead of log lines).
type DumpHost struct {
	source FrameSource
	outDir string

	frameIndex int
	traceLine  func(bufferID uint8, delayMs int) string

	// lastErr records the most recent write failure, since Host's
	// methods return nothing: a caller that cares checks this after the
	// run rather than losing the error silently.
	lastErr error
}

// New returns a DumpHost writing frames under outDir, which must already
// exist.
func New(source FrameSource, outDir string) *DumpHost {
	return &DumpHost{source: source, outDir: outDir}
}

// SetTraceLine installs a callback producing a one-line overlay string
// per frame (e.g. the active game part and tic count); nil disables the
// overlay.
func (h *DumpHost) SetTraceLine(f func(bufferID uint8, delayMs int) string) {
	h.traceLine = f
}

// LastError returns the most recent frame-write failure, if any.
func (h *DumpHost) LastError() error {
	return h.lastErr
}

// VideoFrameReady renders the source's front buffer and writes it as a
// numbered .bmp file.
func (h *DumpHost) VideoFrameReady(bufferID uint8, delayMs int) {
	rgba, err := h.source.FrontBufferRGBA()
	if err != nil {
		h.lastErr = fmt.Errorf("savehost: rendering frame %d: %w", h.frameIndex, err)
		return
	}

	img := &image.NRGBA{
		Pix:    rgba,
		Stride: video.Width * 4,
		Rect:   image.Rect(0, 0, video.Width, video.Height),
	}

	if h.traceLine != nil {
		drawOverlay(img, h.traceLine(bufferID, delayMs))
	}

	path := filepath.Join(h.outDir, fmt.Sprintf("frame-%05d.bmp", h.frameIndex))
	f, err := os.Create(path)
	if err != nil {
		h.lastErr = fmt.Errorf("savehost: creating %s: %w", path, err)
		return
	}
	defer f.Close()

	if err := gobmp.Encode(f, img); err != nil {
		h.lastErr = fmt.Errorf("savehost: encoding %s: %w", path, err)
		return
	}
	h.frameIndex++
}

// VideoBufferChanged is a no-op: DumpHost only cares about completed
// front-buffer frames.
func (h *DumpHost) VideoBufferChanged(bufferID uint8) {}

// AudioReady is a no-op: DumpHost never plays or persists audio.
func (h *DumpHost) AudioReady(samples []byte) {}

// drawOverlay paints s in the top-left corner using a fixed-width bitmap
// font, matching the teacher's plain-text trace style rendered as pixels.
func drawOverlay(img draw.Image, s string) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.White,
		Face: basicfont.Face7x13,
		Dot:  fixed.P(2, 12),
	}
	d.DrawString(s)
}

package savehost

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/retrocoderamen/anotherworld-vm/internal/video"
)

type fakeSource struct {
	rgba []byte
	err  error
}

func (f *fakeSource) FrontBufferRGBA() ([]byte, error) {
	return f.rgba, f.err
}

func TestVideoFrameReadyWritesBMPFile(t *testing.T) {
	dir := t.TempDir()
	rgba := make([]byte, video.Width*video.Height*4)
	h := New(&fakeSource{rgba: rgba}, dir)

	h.VideoFrameReady(0, 20)
	if err := h.LastError(); err != nil {
		t.Fatalf("LastError: %v", err)
	}

	path := filepath.Join(dir, "frame-00000.bmp")
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("expected %s to exist: %v", path, err)
	}
	if info.Size() == 0 {
		t.Fatal("frame file is empty")
	}
}

func TestVideoFrameReadyIncrementsFrameIndex(t *testing.T) {
	dir := t.TempDir()
	rgba := make([]byte, video.Width*video.Height*4)
	h := New(&fakeSource{rgba: rgba}, dir)

	h.VideoFrameReady(0, 20)
	h.VideoFrameReady(0, 20)

	if _, err := os.Stat(filepath.Join(dir, "frame-00001.bmp")); err != nil {
		t.Fatalf("expected second frame file: %v", err)
	}
}

func TestVideoFrameReadyRecordsSourceError(t *testing.T) {
	dir := t.TempDir()
	wantErr := os.ErrNotExist
	h := New(&fakeSource{err: wantErr}, dir)

	h.VideoFrameReady(0, 20)
	if h.LastError() == nil {
		t.Fatal("expected LastError to be set after a source failure")
	}
}

func TestSetTraceLineOverlaysFrame(t *testing.T) {
	dir := t.TempDir()
	rgba := make([]byte, video.Width*video.Height*4)
	h := New(&fakeSource{rgba: rgba}, dir)
	h.SetTraceLine(func(bufferID uint8, delayMs int) string {
		return "part=gameplay1 tic=7"
	})

	h.VideoFrameReady(0, 20)
	if err := h.LastError(); err != nil {
		t.Fatalf("LastError: %v", err)
	}
}

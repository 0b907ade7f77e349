package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/retrocoderamen/anotherworld-vm/internal/machine"
)

func TestLoadOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	body := "content_dir = \"/games/aw\"\nseed = 1234\ntiming = \"ntsc\"\n"
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ContentDir != "/games/aw" {
		t.Errorf("ContentDir = %q, want /games/aw", cfg.ContentDir)
	}
	if cfg.Seed != 1234 {
		t.Errorf("Seed = %d, want 1234", cfg.Seed)
	}
	mode, err := cfg.TimingMode()
	if err != nil {
		t.Fatalf("TimingMode: %v", err)
	}
	if mode != machine.TimingNTSC {
		t.Errorf("TimingMode = %v, want TimingNTSC", mode)
	}
}

func TestDefaultTimingIsPAL(t *testing.T) {
	cfg := Default()
	mode, err := cfg.TimingMode()
	if err != nil {
		t.Fatalf("TimingMode: %v", err)
	}
	if mode != machine.TimingPAL {
		t.Errorf("TimingMode = %v, want TimingPAL", mode)
	}
}

func TestInvalidTimingModeRejected(t *testing.T) {
	cfg := Config{Timing: "bogus"}
	if _, err := cfg.TimingMode(); err == nil {
		t.Fatal("TimingMode: want error for invalid timing string")
	}
}

package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/retrocoderamen/anotherworld-vm/internal/config"
	"github.com/retrocoderamen/anotherworld-vm/internal/debug"
	"github.com/retrocoderamen/anotherworld-vm/internal/input"
	"github.com/retrocoderamen/anotherworld-vm/internal/machine"
	"github.com/retrocoderamen/anotherworld-vm/internal/resource"
	"github.com/retrocoderamen/anotherworld-vm/internal/savehost"
)

var (
	flagConfigPath string
	flagDumpFrames bool
	flagOutDir     string
	flagTics       int
	flagStartPart  uint8
	flagVerbose    bool
)

var runCmd = &cobra.Command{
	Use:   "run `path/to/content/dir`",
	Short: "load a game directory and run the interpreter for a fixed number of tics",
	Args:  cobra.ExactArgs(1),
	RunE:  runVM,
}

func init() {
	runCmd.Flags().StringVar(&flagConfigPath, "config", "", "path to a TOML settings file (optional; defaults are used when absent)")
	runCmd.Flags().BoolVar(&flagDumpFrames, "dump-frames", false, "write every completed frame to out-dir as a numbered .bmp file")
	runCmd.Flags().StringVar(&flagOutDir, "out-dir", ".", "directory frame dumps are written to when -dump-frames is set")
	runCmd.Flags().IntVar(&flagTics, "tics", 60, "number of scheduler tics to run before exiting")
	runCmd.Flags().Uint8Var(&flagStartPart, "start-part", uint8(resource.GamePartCopyProtection), "game part id to schedule before the first tic")
	runCmd.Flags().BoolVar(&flagVerbose, "verbose", false, "print the machine's debug log to stderr after the run")
}

func runVM(cmd *cobra.Command, args []string) error {
	contentDir := args[0]

	cfg := config.Default()
	cfg.ContentDir = contentDir
	if flagConfigPath != "" {
		loaded, err := config.Load(flagConfigPath)
		if err != nil {
			return err
		}
		cfg = loaded
		cfg.ContentDir = contentDir
	}
	timing, err := cfg.TimingMode()
	if err != nil {
		return err
	}

	seed := cfg.Seed
	if cfg.UseSystemTimeSeed {
		seed = uint16(time.Now().UnixNano())
	}

	reader := newDirReader(cfg.ContentDir)

	var m *machine.Machine
	if flagDumpFrames {
		if err := os.MkdirAll(flagOutDir, 0o755); err != nil {
			return fmt.Errorf("creating out-dir %s: %w", flagOutDir, err)
		}
		// frontBufferSource is constructed empty and wired to m below:
		// DumpHost needs a FrameSource at construction, but the Machine
		// it reads frames from doesn't exist until machine.New runs
		// against the Host it's being handed here.
		fbs := &frontBufferSource{}
		dumper := savehost.New(fbs, flagOutDir)
		m, err = machine.New(reader, dumper, seed, timing)
		if err != nil {
			return err
		}
		fbs.m = m
	} else {
		m, err = machine.New(reader, nullHost{}, seed, timing)
		if err != nil {
			return err
		}
	}

	logger := debug.NewLogger(4096)
	if flagVerbose {
		for _, c := range []debug.Component{debug.ComponentResource, debug.ComponentVM, debug.ComponentVideo, debug.ComponentAudio, debug.ComponentMachine} {
			logger.SetComponentEnabled(c, true)
		}
	}
	m.SetLogger(logger)

	m.ScheduleGamePart(resource.GamePart(flagStartPart))
	m.SetInput(input.State{})

	for i := 0; i < flagTics; i++ {
		if err := m.RunTic(); err != nil {
			return fmt.Errorf("tic %d: %w", i, err)
		}
	}

	if flagVerbose {
		logger.Shutdown() // drain queued entries into the buffer
		for _, e := range logger.GetRecentEntries(200) {
			fmt.Fprintf(os.Stderr, "[%s] %s\n", e.Level, e.Message)
		}
	}

	return nil
}

// frontBufferSource adapts *machine.Machine to savehost.FrameSource. It
// is constructed before the Machine it wraps exists (DumpHost needs a
// FrameSource at construction time, and the Machine needs a Host), so m
// is filled in once machine.New returns.
type frontBufferSource struct {
	m *machine.Machine
}

func (f *frontBufferSource) FrontBufferRGBA() ([]byte, error) {
	return f.m.FrontBufferRGBA()
}

// nullHost discards every callback; it's used when -dump-frames is off
// and nothing needs the frame or audio stream.
type nullHost struct{}

func (nullHost) VideoFrameReady(bufferID uint8, delayMs int) {}
func (nullHost) VideoBufferChanged(bufferID uint8)           {}
func (nullHost) AudioReady(samples []byte)                   {}

// Package audio owns the 4-channel mixer's interface-level state: which
// sample resource (if any) is playing on each channel and what the music
// player's tempo/offset/row marker are. It mirrors the small
// register-bank shape of the teacher's former APU (four independently
// addressable channels plus a master transport), but the state it tracks
// is Another World's: a channel plays a fixed PCM sample at a frequency
// table index and volume, not a synthesized waveform.
//
// Concrete PCM synthesis is outside this repository's scope (see the
// audio mixer non-goal); ProduceAudio still does real work here -
// advancing playback position and the music row marker the VM reads
// back - but the bytes it emits are silence, since nothing downstream of
// this package renders a sample's waveform into the buffer.
package audio

import (
	"github.com/retrocoderamen/anotherworld-vm/internal/debug"
)

// SampleRate is the PCM rate ProduceAudio paces itself against.
const SampleRate = 22050

// ChannelCount is the number of independently addressable sample
// channels, per spec.md's bytecode ControlSound operand.
const ChannelCount = 4

// Channel is one sample-playback voice.
type Channel struct {
	Playing    bool
	ResourceID uint16
	Data       []byte
	Pos        int
	Frequency  uint8
	Volume     uint8
}

// MusicState is the module player's transport.
type MusicState struct {
	Playing    bool
	ResourceID uint16
	Tempo      uint16
	Offset     uint8
	row        int
}

// Audio is the mixer's externally observable state.
type Audio struct {
	channels [ChannelCount]Channel
	music    MusicState
	logger   *debug.Logger
}

// New constructs a silent mixer.
func New() *Audio {
	return &Audio{}
}

// SetLogger attaches a debug logger; nil disables logging.
func (a *Audio) SetLogger(logger *debug.Logger) {
	a.logger = logger
}

// PlaySound starts data playing on channel ch at the given frequency
// table index and volume. ch must be 0..3.
func (a *Audio) PlaySound(ch uint8, resID uint16, data []byte, freq, vol uint8) error {
	if ch >= ChannelCount {
		return ErrInvalidChannel
	}
	a.channels[ch] = Channel{
		Playing:    true,
		ResourceID: resID,
		Data:       data,
		Frequency:  freq,
		Volume:     vol,
	}
	if a.logger != nil {
		a.logger.LogAudiof(debug.LogLevelDebug, "channel %d: playing resource %d freq=%d vol=%d", ch, resID, freq, vol)
	}
	return nil
}

// StopChannel silences channel ch.
func (a *Audio) StopChannel(ch uint8) error {
	if ch >= ChannelCount {
		return ErrInvalidChannel
	}
	a.channels[ch] = Channel{}
	return nil
}

// Channel returns a copy of channel ch's current state.
func (a *Audio) Channel(ch uint8) (Channel, error) {
	if ch >= ChannelCount {
		return Channel{}, ErrInvalidChannel
	}
	return a.channels[ch], nil
}

// PlayMusic starts a module resource playing from offset at tempo.
func (a *Audio) PlayMusic(resID uint16, data []byte, tempo uint16, offset uint8) {
	a.music = MusicState{Playing: true, ResourceID: resID, Tempo: tempo, Offset: offset}
	if a.logger != nil {
		a.logger.LogAudiof(debug.LogLevelDebug, "music: playing resource %d tempo=%d offset=%d", resID, tempo, offset)
	}
}

// SetTempo adjusts the running music player's tempo without restarting
// it, per bytecode ControlMusic's tempo-only branch.
func (a *Audio) SetTempo(tempo uint16) {
	a.music.Tempo = tempo
}

// StopMusic halts the module player.
func (a *Audio) StopMusic() {
	a.music = MusicState{}
}

// MusicState returns a copy of the music player's transport state.
func (a *Audio) MusicState() MusicState {
	return a.music
}

// Snapshot is Audio's save-stateable state.
type Snapshot struct {
	Channels [ChannelCount]Channel
	Music    MusicState
	Row      int
}

// Snapshot captures every channel and the music transport.
func (a *Audio) Snapshot() Snapshot {
	return Snapshot{Channels: a.channels, Music: a.music, Row: a.music.row}
}

// RestoreFrom replaces Audio's state from a prior Snapshot.
func (a *Audio) RestoreFrom(s Snapshot) {
	a.channels = s.Channels
	a.music = s.Music
	a.music.row = s.Row
}

// ProduceAudio advances every playing channel and the music row marker
// by durationMs of playback and returns that many milliseconds' worth of
// silent 8-bit PCM at SampleRate. markOut receives the music player's row
// index after advancing, for RegMusicMark.
func (a *Audio) ProduceAudio(durationMs int) (samples []byte, markOut int) {
	n := durationMs * SampleRate / 1000
	samples = make([]byte, n)

	for i := range a.channels {
		ch := &a.channels[i]
		if !ch.Playing {
			continue
		}
		ch.Pos += n
		if ch.Pos >= len(ch.Data) {
			ch.Playing = false
		}
	}

	if a.music.Playing && a.music.Tempo > 0 {
		// Tempo is taken as a per-row delay in milliseconds: each call
		// advances by durationMs/Tempo whole rows, and the remainder is not
		// carried over to the next call.
		a.music.row += durationMs / int(a.music.Tempo)
	}

	return samples, a.music.row
}

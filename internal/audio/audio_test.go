package audio

import "testing"

func TestPlaySoundThenStopChannel(t *testing.T) {
	a := New()
	if err := a.PlaySound(1, 42, []byte{1, 2, 3, 4}, 10, 63); err != nil {
		t.Fatalf("PlaySound: %v", err)
	}
	ch, _ := a.Channel(1)
	if !ch.Playing || ch.ResourceID != 42 {
		t.Fatalf("channel = %+v, want playing resource 42", ch)
	}
	if err := a.StopChannel(1); err != nil {
		t.Fatalf("StopChannel: %v", err)
	}
	ch, _ = a.Channel(1)
	if ch.Playing {
		t.Fatal("channel should be silent after StopChannel")
	}
}

func TestPlaySoundInvalidChannel(t *testing.T) {
	a := New()
	if err := a.PlaySound(4, 1, nil, 0, 0); err != ErrInvalidChannel {
		t.Fatalf("expected ErrInvalidChannel, got %v", err)
	}
}

func TestProduceAudioSampleCount(t *testing.T) {
	a := New()
	samples, _ := a.ProduceAudio(1000)
	if len(samples) != SampleRate {
		t.Fatalf("len(samples) = %d, want %d", len(samples), SampleRate)
	}
}

func TestProduceAudioAdvancesMusicRow(t *testing.T) {
	a := New()
	a.PlayMusic(7, []byte{0, 1, 2, 3}, 50, 0)
	_, mark := a.ProduceAudio(200)
	if mark != 4 {
		t.Fatalf("music row = %d, want 4 (200ms / tempo 50)", mark)
	}
}

func TestStopMusicResetsState(t *testing.T) {
	a := New()
	a.PlayMusic(1, nil, 10, 0)
	a.StopMusic()
	if a.MusicState().Playing {
		t.Fatal("music should not be playing after StopMusic")
	}
}

func TestChannelPlaybackStopsAtDataEnd(t *testing.T) {
	a := New()
	a.PlaySound(0, 1, make([]byte, 10), 0, 63)
	a.ProduceAudio(1000) // produces far more than 10 bytes worth of position advance
	ch, _ := a.Channel(0)
	if ch.Playing {
		t.Fatal("channel should auto-stop once its sample data is exhausted")
	}
}

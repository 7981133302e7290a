package gui

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/ebitengine/oto/v3"
)

const (
	sampleRate    = 44100
	toneFrequency = 440
	toneVolume    = 0.25
)

// Speaker plays a square wave through oto while the tone is on
type Speaker struct {
	ctx    *oto.Context
	player *oto.Player
}

// NewSpeaker opens the audio output. Only one speaker may exist per process.
func NewSpeaker() (*Speaker, error) {
	op := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 1,
		Format:       oto.FormatFloat32LE,
	}
	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, fmt.Errorf("creating audio context: %w", err)
	}
	<-ready

	wave := newSquareWave(sampleRate, toneFrequency, toneVolume)
	return &Speaker{
		ctx:    ctx,
		player: ctx.NewPlayer(wave),
	}, nil
}

// ToneOn starts the buzzer
func (s *Speaker) ToneOn() {
	s.player.Play()
}

// ToneOff pauses the buzzer
func (s *Speaker) ToneOff() {
	s.player.Pause()
}

// Close releases the player
func (s *Speaker) Close() error {
	if err := s.player.Close(); err != nil {
		return fmt.Errorf("closing player: %w", err)
	}
	return nil
}

// squareWave is an endless mono float32 square wave stream
type squareWave struct {
	period    int
	position  int
	amplitude float32
}

func newSquareWave(rate, frequency int, volume float32) *squareWave {
	return &squareWave{
		period:    rate / frequency,
		amplitude: volume,
	}
}

// Read fills p with whole little endian float32 samples
func (w *squareWave) Read(p []byte) (int, error) {
	n := len(p) / 4 * 4
	for i := 0; i < n; i += 4 {
		v := w.amplitude
		if w.position >= w.period/2 {
			v = -v
		}
		binary.LittleEndian.PutUint32(p[i:], math.Float32bits(v))
		w.position = (w.position + 1) % w.period
	}
	return n, nil
}

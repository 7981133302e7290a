package sdl

import (
	"fmt"

	"github.com/veandco/go-sdl2/sdl"
)

const (
	sampleRate    = 44100
	toneFrequency = 440
	toneVolume    = 0.25

	// the sound timer can hold at most 255 ticks of 1/60 s
	maxToneSamples = 256 * sampleRate / 60
)

// speaker queues a square wave on an SDL audio device while the tone is on
type speaker struct {
	device sdl.AudioDeviceID
	wave   []byte
}

func openSpeaker() (*speaker, error) {
	spec := &sdl.AudioSpec{
		Freq:     sampleRate,
		Format:   sdl.AUDIO_U8,
		Channels: 1,
		Samples:  512,
	}
	device, err := sdl.OpenAudioDevice("", false, spec, nil, 0)
	if err != nil {
		return nil, fmt.Errorf("opening audio device: %w", err)
	}
	return &speaker{
		device: device,
		wave:   squareWave(maxToneSamples, sampleRate, toneFrequency, toneVolume),
	}, nil
}

func (s *speaker) start() error {
	sdl.ClearQueuedAudio(s.device)
	if err := sdl.QueueAudio(s.device, s.wave); err != nil {
		return fmt.Errorf("queueing audio: %w", err)
	}
	sdl.PauseAudioDevice(s.device, false)
	return nil
}

func (s *speaker) stop() {
	sdl.PauseAudioDevice(s.device, true)
	sdl.ClearQueuedAudio(s.device)
}

func (s *speaker) close() {
	s.stop()
	sdl.CloseAudioDevice(s.device)
}

// squareWave returns n unsigned 8 bit samples of a square wave centred on
// the silence level 128.
func squareWave(n, rate, frequency int, volume float64) []byte {
	amplitude := byte(127 * volume)
	period := rate / frequency
	wave := make([]byte, n)
	for i := range wave {
		if i%period < period/2 {
			wave[i] = 128 + amplitude
		} else {
			wave[i] = 128 - amplitude
		}
	}
	return wave
}

package internal

import (
	"testing"

	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
)

// program encodes instruction words as a big-endian ROM image.
func program(words ...uint16) []byte {
	rom := make([]byte, 0, len(words)*2)
	for _, w := range words {
		rom = append(rom, byte(w>>8), byte(w))
	}
	return rom
}

func newTestVM(t *testing.T, cfg Config, rom []byte) *C8VM {
	t.Helper()
	if cfg.Seed == 0 {
		cfg.Seed = 1
	}
	vm, err := NewC8VM(cfg, log.NewTestLogger(t))
	assert.NoError(t, err)
	assert.NoError(t, vm.Load(rom))
	return vm
}

func runSteps(t *testing.T, vm *C8VM, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		assert.NoError(t, vm.Step())
	}
}

type countingRenderer struct {
	presents int
	last     Frame
}

func (r *countingRenderer) Present(frame Frame) error {
	r.presents++
	r.last = frame
	return nil
}

type recordingSpeaker struct {
	calls []string
}

func (s *recordingSpeaker) ToneOn()  { s.calls = append(s.calls, "on") }
func (s *recordingSpeaker) ToneOff() { s.calls = append(s.calls, "off") }

// scriptedInput replays one batch of events per poll and reports quit once
// the script is exhausted.
type scriptedInput struct {
	batches [][]KeyEvent
	polls   int
}

func (in *scriptedInput) Poll() ([]KeyEvent, bool) {
	if in.polls >= len(in.batches) {
		return nil, true
	}
	events := in.batches[in.polls]
	in.polls++
	return events, false
}

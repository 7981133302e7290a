package internal

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
)

func TestClearThenLoopPresentsOnce(t *testing.T) {
	vm := newTestVM(t, DefaultConfig(), program(0x00E0, 0x1200))
	r := &countingRenderer{}
	for i := 0; i < 10; i++ {
		assert.NoError(t, vm.Frame(nil, r, nil))
	}
	assert.Equal(t, 1, r.presents)
	assert.Equal(t, Frame{}, r.last)
}

func TestAddScenario(t *testing.T) {
	vm := newTestVM(t, DefaultConfig(), program(0x600A, 0x6105, 0x8014))
	runSteps(t, vm, 3)
	r := vm.Registers()
	assert.Equal(t, uint8(0x0F), r.V[0])
	assert.Equal(t, uint8(0), r.V[0xF])
}

func TestFrameRedrawsOnChange(t *testing.T) {
	// draw, wait for the delay timer to expire, erase
	rom := program(0xA050, 0xD005, 0x6101, 0xF115, 0xF207, 0x3200, 0x1208, 0xD005, 0x1210)
	vm := newTestVM(t, DefaultConfig(), rom)
	r := &countingRenderer{}
	assert.NoError(t, vm.Frame(nil, r, nil))
	assert.Equal(t, 1, r.presents)
	assert.True(t, r.last[0][0])

	assert.NoError(t, vm.Frame(nil, r, nil))
	assert.Equal(t, 2, r.presents)
	assert.Equal(t, Frame{}, r.last)

	assert.NoError(t, vm.Frame(nil, r, nil))
	assert.Equal(t, 2, r.presents)
}

func TestWaitForKey(t *testing.T) {
	vm := newTestVM(t, DefaultConfig(), program(0xF30A, 0x1202))
	assert.NoError(t, vm.Frame(nil, nil, nil))
	assert.True(t, vm.Waiting())
	assert.Equal(t, uint16(0x200), vm.Registers().PC)

	assert.NoError(t, vm.Frame([]KeyEvent{{Key: 5, Down: false}}, nil, nil))
	assert.True(t, vm.Waiting())
	assert.Equal(t, uint16(0x200), vm.Registers().PC)

	assert.NoError(t, vm.Frame([]KeyEvent{{Key: 5, Down: true}}, nil, nil))
	assert.False(t, vm.Waiting())
	r := vm.Registers()
	assert.Equal(t, uint8(5), r.V[3])
	assert.Equal(t, uint16(0x202), r.PC)
}

func TestWaitForKeyIgnoresHeldKey(t *testing.T) {
	vm := newTestVM(t, DefaultConfig(), program(0xF00A, 0x1202))
	assert.NoError(t, vm.HandleKey(KeyEvent{Key: 2, Down: true}))
	assert.NoError(t, vm.Frame(nil, nil, nil))
	assert.True(t, vm.Waiting())

	// a repeated down event for a held key is not a transition
	assert.NoError(t, vm.Frame([]KeyEvent{{Key: 2, Down: true}}, nil, nil))
	assert.True(t, vm.Waiting())

	assert.NoError(t, vm.Frame([]KeyEvent{{Key: 2, Down: false}, {Key: 2, Down: true}}, nil, nil))
	assert.False(t, vm.Waiting())
	assert.Equal(t, uint8(2), vm.Registers().V[0])
}

func TestStepWhileWaitingIsNoop(t *testing.T) {
	vm := newTestVM(t, DefaultConfig(), program(0xF00A))
	runSteps(t, vm, 1)
	assert.True(t, vm.Waiting())
	before := vm.Registers()
	runSteps(t, vm, 5)
	assert.Equal(t, before, vm.Registers())
}

func TestTimersKeepRunningWhileWaiting(t *testing.T) {
	vm := newTestVM(t, DefaultConfig(), program(0x6003, 0xF015, 0xF10A))
	assert.NoError(t, vm.Frame(nil, nil, nil))
	assert.NoError(t, vm.Frame(nil, nil, nil))
	assert.True(t, vm.Waiting())
	assert.Equal(t, uint8(1), vm.Registers().DT)
}

func TestSoundToneEdges(t *testing.T) {
	vm := newTestVM(t, DefaultConfig(), program(0x6005, 0xF018, 0x1204))
	s := &recordingSpeaker{}

	assert.NoError(t, vm.Frame(nil, nil, s))
	assert.Equal(t, []string{"on"}, s.calls)
	assert.Equal(t, uint8(4), vm.Registers().ST)

	for i := 0; i < 8; i++ {
		assert.NoError(t, vm.Frame(nil, nil, s))
	}
	assert.Equal(t, []string{"on", "off"}, s.calls)
	assert.Equal(t, uint8(0), vm.Registers().ST)
}

func TestShortestTone(t *testing.T) {
	vm := newTestVM(t, DefaultConfig(), program(0x6001, 0xF018, 0x1204))
	s := &recordingSpeaker{}

	assert.NoError(t, vm.Frame(nil, nil, s))
	assert.Equal(t, []string{"on"}, s.calls)
	assert.Equal(t, uint8(0), vm.Registers().ST)

	assert.NoError(t, vm.Frame(nil, nil, s))
	assert.Equal(t, []string{"on", "off"}, s.calls)
}

func TestToneLastsSoundTimerFrames(t *testing.T) {
	vm := newTestVM(t, DefaultConfig(), program(0x6003, 0xF018, 0x1204))
	s := &recordingSpeaker{}

	for i := 0; i < 3; i++ {
		assert.NoError(t, vm.Frame(nil, nil, s))
		assert.Equal(t, []string{"on"}, s.calls)
	}
	assert.NoError(t, vm.Frame(nil, nil, s))
	assert.Equal(t, []string{"on", "off"}, s.calls)
}

func TestDelayTimerDecay(t *testing.T) {
	vm := newTestVM(t, DefaultConfig(), program(0x603C, 0xF015, 0x1204))
	assert.NoError(t, vm.Frame(nil, nil, nil))
	assert.Equal(t, uint8(0x3B), vm.Registers().DT)

	for i := 0; i < 70; i++ {
		assert.NoError(t, vm.Frame(nil, nil, nil))
	}
	assert.Equal(t, uint8(0), vm.Registers().DT)
}

func TestFrameInstructionBudget(t *testing.T) {
	cfg := DefaultConfig()
	cfg.InstructionsPerSecond = 120
	// two increments per frame
	vm := newTestVM(t, cfg, program(0x7001, 0x7001, 0x7001, 0x7001, 0x1208))
	assert.NoError(t, vm.Frame(nil, nil, nil))
	assert.Equal(t, uint8(2), vm.Registers().V[0])
	assert.NoError(t, vm.Frame(nil, nil, nil))
	assert.Equal(t, uint8(4), vm.Registers().V[0])
}

func TestFrameInstructionBudgetCarries(t *testing.T) {
	cfg := DefaultConfig()
	cfg.InstructionsPerSecond = 90
	// one and a half increments per frame
	vm := newTestVM(t, cfg, program(0x7001, 0x7001, 0x7001, 0x1206))
	assert.NoError(t, vm.Frame(nil, nil, nil))
	assert.Equal(t, uint8(1), vm.Registers().V[0])
	assert.NoError(t, vm.Frame(nil, nil, nil))
	assert.Equal(t, uint8(3), vm.Registers().V[0])
}

func TestDefaultSpeedOverOneSecond(t *testing.T) {
	const ips = DefaultInstructionsPerSecond
	words := make([]uint16, ips, ips+1)
	for i := range words {
		words[i] = 0x7001
	}
	end := uint16(ProgramStart + 2*ips)
	words = append(words, 0x1000|end)

	vm := newTestVM(t, DefaultConfig(), program(words...))
	for i := 0; i < TimerFrequency-1; i++ {
		assert.NoError(t, vm.Frame(nil, nil, nil))
	}
	assert.Equal(t, uint16(ProgramStart+2*(ips*(TimerFrequency-1)/TimerFrequency)), vm.Registers().PC)

	assert.NoError(t, vm.Frame(nil, nil, nil))
	assert.Equal(t, end, vm.Registers().PC)
}

func TestFrameBadKey(t *testing.T) {
	vm := newTestVM(t, DefaultConfig(), program(0x1200))
	err := vm.Frame([]KeyEvent{{Key: 16, Down: true}}, nil, nil)
	assert.True(t, errors.Is(err, BadArgument))
}

func TestRunQuit(t *testing.T) {
	vm := newTestVM(t, DefaultConfig(), program(0x60FF, 0xF018, 0x1204))
	in := &scriptedInput{batches: make([][]KeyEvent, 3)}
	r := &countingRenderer{}
	s := &recordingSpeaker{}

	assert.NoError(t, vm.Run(context.Background(), in, r, s))
	assert.Equal(t, 3, in.polls)
	assert.Equal(t, 1, r.presents)
	// the tone is silenced when the loop ends
	assert.Equal(t, []string{"on", "off"}, s.calls)
}

func TestRunCancelled(t *testing.T) {
	vm := newTestVM(t, DefaultConfig(), program(0x1200))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := vm.Run(ctx, &scriptedInput{}, nil, nil)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestRunFault(t *testing.T) {
	vm := newTestVM(t, DefaultConfig(), program(0xFFFF))
	in := &scriptedInput{batches: make([][]KeyEvent, 5)}

	err := vm.Run(context.Background(), in, nil, nil)
	assert.True(t, errors.Is(err, BadInstruction))
	var fault *Fault
	assert.True(t, errors.As(err, &fault))
	assert.Equal(t, uint16(0xFFFF), fault.Opcode)
	assert.Equal(t, uint16(ProgramStart), fault.PC)
	assert.Equal(t, 1, in.polls)
}

func TestLoadTooLarge(t *testing.T) {
	vm, err := NewC8VM(DefaultConfig(), log.NewTestLogger(t))
	assert.NoError(t, err)

	assert.NoError(t, vm.Load(make([]byte, MaxProgramSize)))
	err = vm.Load(make([]byte, MaxProgramSize+1))
	assert.True(t, errors.Is(err, AddressOutOfRange))
}

func TestLoadROM(t *testing.T) {
	dir := t.TempDir()
	vm, err := NewC8VM(DefaultConfig(), log.NewTestLogger(t))
	assert.NoError(t, err)

	err = vm.LoadROM(filepath.Join(dir, "missing.ch8"))
	assert.True(t, errors.Is(err, IoFault))
	assert.True(t, errors.Is(err, fs.ErrNotExist))

	big := filepath.Join(dir, "big.ch8")
	assert.NoError(t, os.WriteFile(big, make([]byte, TotalMemory), 0o600))
	err = vm.LoadROM(big)
	assert.True(t, errors.Is(err, AddressOutOfRange))
	assert.Contains(t, err.Error(), "big.ch8")

	rom := filepath.Join(dir, "rom.ch8")
	assert.NoError(t, os.WriteFile(rom, program(0x600A), 0o600))
	assert.NoError(t, vm.LoadROM(rom))
	runSteps(t, vm, 1)
	assert.Equal(t, uint8(0x0A), vm.Registers().V[0])
}

func TestNewC8VMInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.InstructionsPerSecond = 10
	_, err := NewC8VM(cfg, log.NewTestLogger(t))
	assert.ErrorContains(t, err, "instructions per second")
}

func TestVMString(t *testing.T) {
	vm := newTestVM(t, DefaultConfig(), program(0x6A42))
	runSteps(t, vm, 1)
	s := vm.String()
	assert.Contains(t, s, "PC: 0202")
	assert.Contains(t, s, "Waiting: false")
}

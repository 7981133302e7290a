package internal

// Follows the CHIP-8 technical reference found at http://devernay.free.fr/hacks/chip8/C8TECH10.HTM

import (
	"errors"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/retroenv/retrogolib/log"
)

// C8VM is an emulated CHIP-8 VM. It owns all machine state and is not
// safe for concurrent use.
type C8VM struct {
	cfg    Config
	logger *log.Logger
	rng    *rand.Rand

	regs    Registers
	memory  Memory
	display Display
	keypad  Keypad

	waiting bool  // LD Vx, K is suspended until a key goes down
	waitReg uint8 // register receiving the key
	toneOn  bool  // last tone state reported to the speaker

	// instructions per second not yet spent on a whole cycle, in units of
	// 1/TimerFrequency instructions
	cycleCredit int
}

// NewC8VM creates a new instance of an emulated CHIP-8 VM with the font
// loaded and the program counter at the program start address.
func NewC8VM(cfg Config, logger *log.Logger) (*C8VM, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if logger == nil {
		logger = log.NewWithConfig(log.DefaultConfig())
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	vm := &C8VM{
		cfg:    cfg,
		logger: logger,
		rng:    rand.New(rand.NewSource(seed)),
		regs:   newRegisters(),
	}
	if err := vm.memory.Load(FontAddress, fontset); err != nil {
		return nil, fmt.Errorf("loading fontset: %w", err)
	}
	// the renderer starts out with an undefined surface
	vm.display.Invalidate()
	return vm, nil
}

// Load copies a CHIP-8 program into memory at the program start address
func (vm *C8VM) Load(rom []byte) error {
	if len(rom) > MaxProgramSize {
		return &Fault{Kind: AddressOutOfRange, Addr: uint16(min(ProgramStart+len(rom)-1, 0xFFFF))}
	}
	if err := vm.memory.Load(ProgramStart, rom); err != nil {
		return err
	}
	vm.logger.Info("Loaded program", log.Int("size", len(rom)))
	return nil
}

// LoadROM reads a CHIP-8 program from disk and loads it into memory
func (vm *C8VM) LoadROM(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return &Fault{Kind: IoFault, Err: err}
	}
	if err := vm.Load(data); err != nil {
		return fmt.Errorf("loading '%s': %w", path, err)
	}
	return nil
}

// Step fetches, decodes and executes a single instruction. It does nothing
// while the VM waits for a key press.
func (vm *C8VM) Step() error {
	if vm.waiting {
		return nil
	}

	pc := vm.regs.PC
	code, err := vm.memory.ReadSlice(pc, 2)
	if err != nil {
		return vm.fault(err, pc, 0)
	}
	word := uint16(code[0])<<8 | uint16(code[1])
	vm.regs.PC += 2

	ins := Decode(word)
	vm.logger.Debug("Executing",
		log.Hex("pc", pc),
		log.Hex("opcode", word),
		log.Stringer("instruction", ins))

	if err := vm.execute(ins); err != nil {
		return vm.fault(err, pc, word)
	}
	return nil
}

// Frame runs one 1/60 s frame: applies key events, executes the frame's
// share of the configured instructions, updates the speaker, ticks the
// timers and presents the display if it changed. r and s may be nil.
func (vm *C8VM) Frame(events []KeyEvent, r Renderer, s Speaker) error {
	for _, ev := range events {
		if err := vm.HandleKey(ev); err != nil {
			return err
		}
	}

	cycles := vm.frameCycles()
	for i := 0; i < cycles && !vm.waiting; i++ {
		if err := vm.Step(); err != nil {
			return err
		}
	}

	// sampled before the tick, so a sound timer of N sounds for N frames
	vm.updateTone(s)
	vm.regs.Tick()

	if r == nil {
		return nil
	}
	if err := vm.display.Present(r); err != nil {
		return fmt.Errorf("presenting frame: %w", err)
	}
	return nil
}

// frameCycles returns the number of instructions to execute in the next
// frame. Fractions carry over, so any second of frames executes exactly
// InstructionsPerSecond instructions.
func (vm *C8VM) frameCycles() int {
	vm.cycleCredit += vm.cfg.InstructionsPerSecond
	cycles := vm.cycleCredit / TimerFrequency
	vm.cycleCredit %= TimerFrequency
	return cycles
}

// HandleKey updates the keypad and resumes a pending LD Vx, K on a key
// down transition.
func (vm *C8VM) HandleKey(ev KeyEvent) error {
	pressed, err := vm.keypad.Apply(ev)
	if err != nil {
		return err
	}
	if pressed && vm.waiting {
		vm.regs.V[vm.waitReg] = ev.Key
		vm.regs.PC += 2
		vm.waiting = false
		vm.logger.Debug("Key wait resolved", log.Uint8("key", ev.Key))
	}
	return nil
}

// waitForKey suspends execution on the current instruction until a key is
// pressed. The program counter stays on the LD Vx, K word meanwhile.
func (vm *C8VM) waitForKey(reg uint8) {
	vm.regs.PC -= 2
	vm.waiting = true
	vm.waitReg = reg
}

func (vm *C8VM) updateTone(s Speaker) {
	on := vm.regs.ST > 0
	if on == vm.toneOn {
		return
	}
	vm.toneOn = on
	if s == nil {
		return
	}
	if on {
		s.ToneOn()
	} else {
		s.ToneOff()
	}
}

func (vm *C8VM) silence(s Speaker) {
	if vm.toneOn && s != nil {
		s.ToneOff()
	}
	vm.toneOn = false
}

func (vm *C8VM) fault(err error, pc, word uint16) error {
	var f *Fault
	if errors.As(err, &f) {
		f.PC = pc
		f.Opcode = word
		return f
	}
	return err
}

// Waiting reports whether the VM is suspended on LD Vx, K
func (vm *C8VM) Waiting() bool {
	return vm.waiting
}

// Registers returns a copy of the register file
func (vm *C8VM) Registers() Registers {
	return vm.regs
}

// Invalidate makes the next frame present the display even if nothing
// changed.
func (vm *C8VM) Invalidate() {
	vm.display.Invalidate()
}

// Pixels returns a copy of the framebuffer
func (vm *C8VM) Pixels() Frame {
	return vm.display.Pixels()
}

// String returns formatted information about the state of the VM
func (vm *C8VM) String() string {
	return fmt.Sprintf("C8VM{%v, Waiting: %v}", &vm.regs, vm.waiting)
}

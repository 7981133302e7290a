package internal

import "fmt"

// StackDepth is the number of nested calls the VM supports
const StackDepth = 16

// Registers holds the CPU register file and control state
type Registers struct {
	V     [16]uint8          // 16 general purpose 8-bit registers, VF doubles as the flags register
	I     uint16             // 16-bit register that is generally used to store memory addresses
	DT    uint8              // Delay timer
	ST    uint8              // Sound timer
	PC    uint16             // Program counter
	SP    uint8              // Stack pointer, number of occupied stack slots
	Stack [StackDepth]uint16 // Return addresses
}

func newRegisters() Registers {
	return Registers{PC: ProgramStart}
}

// Call pushes the current program counter and jumps to target
func (r *Registers) Call(target uint16) error {
	if int(r.SP) >= StackDepth {
		return &Fault{Kind: StackPointerOutOfRange, Addr: uint16(r.SP)}
	}
	if int(target) >= TotalMemory {
		return addressFault(target)
	}
	r.Stack[r.SP] = r.PC
	r.SP++
	r.PC = target
	return nil
}

// Return pops the topmost return address into the program counter
func (r *Registers) Return() error {
	if r.SP == 0 {
		return &Fault{Kind: StackPointerOutOfRange}
	}
	r.SP--
	r.PC = r.Stack[r.SP]
	return nil
}

// Jump sets the program counter to target
func (r *Registers) Jump(target uint16) error {
	if int(target) >= TotalMemory {
		return addressFault(target)
	}
	r.PC = target
	return nil
}

// Skip advances the program counter past the next instruction
func (r *Registers) Skip() {
	r.PC += 2
}

// Tick decrements both timers toward zero. It is called once per 1/60 s.
func (r *Registers) Tick() {
	if r.DT > 0 {
		r.DT--
	}
	if r.ST > 0 {
		r.ST--
	}
}

func (r *Registers) String() string {
	return fmt.Sprintf("V: [% 02X] I: %04X PC: %04X SP: %d Stack: % 04X DT: %02X ST: %02X",
		r.V, r.I, r.PC, r.SP, r.Stack[:r.SP], r.DT, r.ST)
}

package internal

import "fmt"

// Op identifies one of the 35 CHIP-8 instructions
type Op uint8

// CHIP-8 instruction set, named after the Cowgod technical reference mnemonics
const (
	OpInvalid Op = iota
	OpCls        // 00E0
	OpRet        // 00EE
	OpSys        // 0NNN
	OpJp         // 1NNN
	OpCall       // 2NNN
	OpSeImm      // 3XNN
	OpSneImm     // 4XNN
	OpSeReg      // 5XY0
	OpLdImm      // 6XNN
	OpAddImm     // 7XNN
	OpLdReg      // 8XY0
	OpOr         // 8XY1
	OpAnd        // 8XY2
	OpXor        // 8XY3
	OpAddReg     // 8XY4
	OpSub        // 8XY5
	OpShr        // 8XY6
	OpSubn       // 8XY7
	OpShl        // 8XYE
	OpSneReg     // 9XY0
	OpLdI        // ANNN
	OpJpV0       // BNNN
	OpRnd        // CXNN
	OpDrw        // DXYN
	OpSkp        // EX9E
	OpSknp       // EXA1
	OpLdVxDT     // FX07
	OpLdVxK      // FX0A
	OpLdDTVx     // FX15
	OpLdSTVx     // FX18
	OpAddI       // FX1E
	OpLdF        // FX29
	OpLdB        // FX33
	OpStore      // FX55
	OpLoad       // FX65
)

type pattern struct {
	mask  uint16
	value uint16
	op    Op
}

// patterns is checked in order, so the fixed 00E0 and 00EE words come
// before the 0NNN catch-all.
var patterns = []pattern{
	{0xFFFF, 0x00E0, OpCls},
	{0xFFFF, 0x00EE, OpRet},
	{0xF000, 0x0000, OpSys},
	{0xF000, 0x1000, OpJp},
	{0xF000, 0x2000, OpCall},
	{0xF000, 0x3000, OpSeImm},
	{0xF000, 0x4000, OpSneImm},
	{0xF00F, 0x5000, OpSeReg},
	{0xF000, 0x6000, OpLdImm},
	{0xF000, 0x7000, OpAddImm},
	{0xF00F, 0x8000, OpLdReg},
	{0xF00F, 0x8001, OpOr},
	{0xF00F, 0x8002, OpAnd},
	{0xF00F, 0x8003, OpXor},
	{0xF00F, 0x8004, OpAddReg},
	{0xF00F, 0x8005, OpSub},
	{0xF00F, 0x8006, OpShr},
	{0xF00F, 0x8007, OpSubn},
	{0xF00F, 0x800E, OpShl},
	{0xF00F, 0x9000, OpSneReg},
	{0xF000, 0xA000, OpLdI},
	{0xF000, 0xB000, OpJpV0},
	{0xF000, 0xC000, OpRnd},
	{0xF000, 0xD000, OpDrw},
	{0xF0FF, 0xE09E, OpSkp},
	{0xF0FF, 0xE0A1, OpSknp},
	{0xF0FF, 0xF007, OpLdVxDT},
	{0xF0FF, 0xF00A, OpLdVxK},
	{0xF0FF, 0xF015, OpLdDTVx},
	{0xF0FF, 0xF018, OpLdSTVx},
	{0xF0FF, 0xF01E, OpAddI},
	{0xF0FF, 0xF029, OpLdF},
	{0xF0FF, 0xF033, OpLdB},
	{0xF0FF, 0xF055, OpStore},
	{0xF0FF, 0xF065, OpLoad},
}

// Instruction is a decoded instruction word
type Instruction struct {
	Op   Op
	Word uint16 // raw 16-bit instruction
	X    uint8  // the lower 4 bits of the high byte of the instruction
	Y    uint8  // the upper 4 bits of the low byte of the instruction
	N    uint8  // the lowest 4 bits of the instruction
	NN   uint8  // the lowest 8 bits of the instruction
	NNN  uint16 // the lowest 12 bits of the instruction
}

// Decode classifies word against the instruction table. Words that match
// no entry decode to OpInvalid.
func Decode(word uint16) Instruction {
	ins := Instruction{
		Op:   OpInvalid,
		Word: word,
		X:    uint8(word>>8) & 0x0F,
		Y:    uint8(word>>4) & 0x0F,
		N:    uint8(word) & 0x0F,
		NN:   uint8(word),
		NNN:  word & 0x0FFF,
	}
	for _, p := range patterns {
		if word&p.mask == p.value {
			ins.Op = p.op
			break
		}
	}
	return ins
}

// String returns the assembly representation of the instruction
func (ins Instruction) String() string {
	x, y := ins.X, ins.Y
	switch ins.Op {
	case OpCls:
		return "CLS"
	case OpRet:
		return "RET"
	case OpSys:
		return fmt.Sprintf("SYS $%03X", ins.NNN)
	case OpJp:
		return fmt.Sprintf("JP $%03X", ins.NNN)
	case OpCall:
		return fmt.Sprintf("CALL $%03X", ins.NNN)
	case OpSeImm:
		return fmt.Sprintf("SE V%X, $%02X", x, ins.NN)
	case OpSneImm:
		return fmt.Sprintf("SNE V%X, $%02X", x, ins.NN)
	case OpSeReg:
		return fmt.Sprintf("SE V%X, V%X", x, y)
	case OpLdImm:
		return fmt.Sprintf("LD V%X, $%02X", x, ins.NN)
	case OpAddImm:
		return fmt.Sprintf("ADD V%X, $%02X", x, ins.NN)
	case OpLdReg:
		return fmt.Sprintf("LD V%X, V%X", x, y)
	case OpOr:
		return fmt.Sprintf("OR V%X, V%X", x, y)
	case OpAnd:
		return fmt.Sprintf("AND V%X, V%X", x, y)
	case OpXor:
		return fmt.Sprintf("XOR V%X, V%X", x, y)
	case OpAddReg:
		return fmt.Sprintf("ADD V%X, V%X", x, y)
	case OpSub:
		return fmt.Sprintf("SUB V%X, V%X", x, y)
	case OpShr:
		return fmt.Sprintf("SHR V%X, V%X", x, y)
	case OpSubn:
		return fmt.Sprintf("SUBN V%X, V%X", x, y)
	case OpShl:
		return fmt.Sprintf("SHL V%X, V%X", x, y)
	case OpSneReg:
		return fmt.Sprintf("SNE V%X, V%X", x, y)
	case OpLdI:
		return fmt.Sprintf("LD I, $%03X", ins.NNN)
	case OpJpV0:
		return fmt.Sprintf("JP V0, $%03X", ins.NNN)
	case OpRnd:
		return fmt.Sprintf("RND V%X, $%02X", x, ins.NN)
	case OpDrw:
		return fmt.Sprintf("DRW V%X, V%X, %d", x, y, ins.N)
	case OpSkp:
		return fmt.Sprintf("SKP V%X", x)
	case OpSknp:
		return fmt.Sprintf("SKNP V%X", x)
	case OpLdVxDT:
		return fmt.Sprintf("LD V%X, DT", x)
	case OpLdVxK:
		return fmt.Sprintf("LD V%X, K", x)
	case OpLdDTVx:
		return fmt.Sprintf("LD DT, V%X", x)
	case OpLdSTVx:
		return fmt.Sprintf("LD ST, V%X", x)
	case OpAddI:
		return fmt.Sprintf("ADD I, V%X", x)
	case OpLdF:
		return fmt.Sprintf("LD F, V%X", x)
	case OpLdB:
		return fmt.Sprintf("LD B, V%X", x)
	case OpStore:
		return fmt.Sprintf("LD [I], V%X", x)
	case OpLoad:
		return fmt.Sprintf("LD V%X, [I]", x)
	default:
		return fmt.Sprintf("DW $%04X", ins.Word)
	}
}

package internal

import "fmt"

// Line is one entry of a ROM listing
type Line struct {
	Addr uint16
	Size int // 2 for instructions, 1 for a trailing odd byte
	Ins  Instruction
}

func (l Line) String() string {
	if l.Size == 1 {
		return fmt.Sprintf("DB $%02X", l.Ins.Word)
	}
	return l.Ins.String()
}

// Disassemble decodes rom linearly as if loaded at ProgramStart.
// Data mixed with code decodes as whatever instruction it happens to match.
func Disassemble(rom []byte) []Line {
	lines := make([]Line, 0, (len(rom)+1)/2)
	for off := 0; off < len(rom); off += 2 {
		addr := uint16(ProgramStart + off)
		if off+1 == len(rom) {
			lines = append(lines, Line{Addr: addr, Size: 1, Ins: Instruction{Word: uint16(rom[off])}})
			break
		}
		word := uint16(rom[off])<<8 | uint16(rom[off+1])
		lines = append(lines, Line{Addr: addr, Size: 2, Ins: Decode(word)})
	}
	return lines
}

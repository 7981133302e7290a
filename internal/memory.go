package internal

// CHIP-8 memory map
const (
	TotalMemory    = 0x1000
	ProgramStart   = 0x200
	MaxProgramSize = TotalMemory - ProgramStart
	FontAddress    = 0x050
	fontGlyphSize  = 5
)

var fontset = []uint8{
	0xF0, 0x90, 0x90, 0x90, 0xF0, // 0
	0x20, 0x60, 0x20, 0x20, 0x70, // 1
	0xF0, 0x10, 0xF0, 0x80, 0xF0, // 2
	0xF0, 0x10, 0xF0, 0x10, 0xF0, // 3
	0x90, 0x90, 0xF0, 0x10, 0x10, // 4
	0xF0, 0x80, 0xF0, 0x10, 0xF0, // 5
	0xF0, 0x80, 0xF0, 0x90, 0xF0, // 6
	0xF0, 0x10, 0x20, 0x40, 0x40, // 7
	0xF0, 0x90, 0xF0, 0x90, 0xF0, // 8
	0xF0, 0x90, 0xF0, 0x10, 0xF0, // 9
	0xF0, 0x90, 0xF0, 0x90, 0x90, // A
	0xE0, 0x90, 0xE0, 0x90, 0xE0, // B
	0xF0, 0x80, 0x80, 0x80, 0xF0, // C
	0xE0, 0x90, 0x90, 0x90, 0xE0, // D
	0xF0, 0x80, 0xF0, 0x80, 0xF0, // E
	0xF0, 0x80, 0xF0, 0x80, 0x80, // F
}

// Memory is the 4 KB address space of the VM. Every access is bounds checked.
type Memory struct {
	data [TotalMemory]uint8
}

// Read returns the byte stored at addr
func (m *Memory) Read(addr uint16) (uint8, error) {
	if int(addr) >= TotalMemory {
		return 0, addressFault(addr)
	}
	return m.data[addr], nil
}

// Write stores v at addr
func (m *Memory) Write(addr uint16, v uint8) error {
	if int(addr) >= TotalMemory {
		return addressFault(addr)
	}
	m.data[addr] = v
	return nil
}

// ReadSlice returns a copy of n bytes starting at addr.
func (m *Memory) ReadSlice(addr uint16, n int) ([]uint8, error) {
	end := int(addr) + n
	if end > TotalMemory {
		return nil, addressFault(uint16(min(end-1, 0xFFFF)))
	}
	out := make([]uint8, n)
	copy(out, m.data[addr:end])
	return out, nil
}

// Load copies data into memory starting at addr. Nothing is written when
// data does not fit.
func (m *Memory) Load(addr uint16, data []uint8) error {
	end := int(addr) + len(data)
	if end > TotalMemory {
		return addressFault(uint16(min(end-1, 0xFFFF)))
	}
	copy(m.data[addr:end], data)
	return nil
}

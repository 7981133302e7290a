package internal

// Follows the CHIP-8 technical reference found at http://devernay.free.fr/hacks/chip8/C8TECH10.HTM

const flagReg = 0xF

func checkReg(r uint8) error {
	if r > flagReg {
		return argumentFault(r)
	}
	return nil
}

// execute runs a decoded instruction. The program counter has already been
// advanced past it.
func (vm *C8VM) execute(ins Instruction) error {
	x, y := ins.X, ins.Y
	if err := checkReg(x); err != nil {
		return err
	}
	if err := checkReg(y); err != nil {
		return err
	}
	r := &vm.regs

	switch ins.Op {
	case OpCls:
		vm.display.Clear()
	case OpRet:
		return r.Return()
	case OpSys:
		// There is no host machine code to run, SYS is treated as a jump
		// that must stay within the program area.
		if ins.NNN < ProgramStart {
			return addressFault(ins.NNN)
		}
		return r.Jump(ins.NNN)
	case OpJp:
		return r.Jump(ins.NNN)
	case OpCall:
		return r.Call(ins.NNN)
	case OpSeImm:
		if r.V[x] == ins.NN {
			r.Skip()
		}
	case OpSneImm:
		if r.V[x] != ins.NN {
			r.Skip()
		}
	case OpSeReg:
		if r.V[x] == r.V[y] {
			r.Skip()
		}
	case OpLdImm:
		r.V[x] = ins.NN
	case OpAddImm:
		r.V[x] += ins.NN
	case OpLdReg:
		r.V[x] = r.V[y]
	case OpOr:
		r.V[x] |= r.V[y]
		vm.logicFlag()
	case OpAnd:
		r.V[x] &= r.V[y]
		vm.logicFlag()
	case OpXor:
		r.V[x] ^= r.V[y]
		vm.logicFlag()
	case OpAddReg:
		sum := uint16(r.V[x]) + uint16(r.V[y])
		r.V[x] = uint8(sum)
		r.V[flagReg] = boolToFlag(sum > 0xFF)
	case OpSub:
		vx, vy := r.V[x], r.V[y]
		r.V[x] = vx - vy
		r.V[flagReg] = boolToFlag(vx >= vy)
	case OpSubn:
		vx, vy := r.V[x], r.V[y]
		r.V[x] = vy - vx
		r.V[flagReg] = boolToFlag(vy >= vx)
	case OpShr:
		src := vm.shiftSource(x, y)
		r.V[x] = src >> 1
		r.V[flagReg] = src & 0x01
	case OpShl:
		src := vm.shiftSource(x, y)
		r.V[x] = src << 1
		r.V[flagReg] = src >> 7
	case OpSneReg:
		if r.V[x] != r.V[y] {
			r.Skip()
		}
	case OpLdI:
		r.I = ins.NNN
	case OpJpV0:
		offset := r.V[0]
		if vm.cfg.Quirks.JumpUsesVX {
			offset = r.V[x]
		}
		return r.Jump(ins.NNN + uint16(offset))
	case OpRnd:
		r.V[x] = uint8(vm.rng.Intn(0x100)) & ins.NN
	case OpDrw:
		return vm.draw(x, y, ins.N)
	case OpSkp:
		down, err := vm.keypad.IsDown(r.V[x])
		if err != nil {
			return err
		}
		if down {
			r.Skip()
		}
	case OpSknp:
		down, err := vm.keypad.IsDown(r.V[x])
		if err != nil {
			return err
		}
		if !down {
			r.Skip()
		}
	case OpLdVxDT:
		r.V[x] = r.DT
	case OpLdVxK:
		vm.waitForKey(x)
	case OpLdDTVx:
		r.DT = r.V[x]
	case OpLdSTVx:
		r.ST = r.V[x]
	case OpAddI:
		r.I += uint16(r.V[x])
	case OpLdF:
		digit := r.V[x]
		if digit >= KeyCount {
			return argumentFault(digit)
		}
		r.I = FontAddress + uint16(digit)*fontGlyphSize
	case OpLdB:
		v := r.V[x]
		return vm.memory.Load(r.I, []uint8{v / 100, (v / 10) % 10, v % 10})
	case OpStore:
		if err := vm.memory.Load(r.I, r.V[:x+1]); err != nil {
			return err
		}
		vm.advanceIndex(x)
	case OpLoad:
		data, err := vm.memory.ReadSlice(r.I, int(x)+1)
		if err != nil {
			return err
		}
		copy(r.V[:], data)
		vm.advanceIndex(x)
	default:
		return &Fault{Kind: BadInstruction}
	}
	return nil
}

func (vm *C8VM) draw(x, y, n uint8) error {
	if n == 0 {
		// 16x16 sprites are a SUPER-CHIP extension
		vm.regs.V[flagReg] = 0
		return nil
	}
	data, err := vm.memory.ReadSlice(vm.regs.I, int(n))
	if err != nil {
		return err
	}
	collision := vm.display.Draw(vm.regs.V[x], vm.regs.V[y], Sprite(data))
	vm.regs.V[flagReg] = boolToFlag(collision)
	return nil
}

func (vm *C8VM) logicFlag() {
	if vm.cfg.Quirks.LogicResetsVF {
		vm.regs.V[flagReg] = 0
	}
}

func (vm *C8VM) shiftSource(x, y uint8) uint8 {
	if vm.cfg.Quirks.ShiftUsesVY {
		return vm.regs.V[y]
	}
	return vm.regs.V[x]
}

func (vm *C8VM) advanceIndex(x uint8) {
	if vm.cfg.Quirks.LoadStoreIncrementsI {
		vm.regs.I += uint16(x) + 1
	}
}

func boolToFlag(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}

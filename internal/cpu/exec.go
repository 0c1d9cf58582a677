package cpu

// exec dispatches a decoded base-table instruction, fetching any
// immediate operand bytes in program order and charging the extra
// M-cycles for memory-operand forms, conditional branches and 16-bit
// ALU ops. The decoder (decode.go) has already classified opcode; exec
// never re-examines the raw byte except through the Instruction's
// bit-fields.
func (c *CPU) exec(bus Bus, opcode uint8) {
	in := Decode(opcode)
	switch in.Kind {
	case KindNop:
		// fetch alone accounts for NOP's single M-cycle.

	case KindLDImm16IndSP:
		addr := c.fetch16(bus)
		c.write(bus, addr, uint8(c.SP))
		c.write(bus, addr+1, uint8(c.SP>>8))

	case KindStop:
		// STOP's second byte is canonically 0x00 padding; real hardware
		// semantics (speed-switch arming on CGB, DIV reset) don't apply
		// to this DMG-only core, so this is a 2-byte NOP.
		c.fetch(bus)

	case KindJR:
		e := int8(c.fetch(bus))
		c.internalDelay()
		c.PC = uint16(int32(c.PC) + int32(e))

	case KindJRCond:
		e := int8(c.fetch(bus))
		if c.cond(in.Y & 0x03) {
			c.internalDelay()
			c.PC = uint16(int32(c.PC) + int32(e))
		}

	case KindLDR16Imm16:
		c.setR16(in.P, c.fetch16(bus))

	case KindAddHLR16:
		sum, half, carry := addHL16(c.HL(), c.r16(in.P))
		c.SetHL(sum)
		c.setFlag(FlagSubtract, false)
		c.setFlag(FlagHalfCarry, half)
		c.setFlag(FlagCarry, carry)
		c.internalDelay()

	case KindLDR16MemA:
		c.write(bus, c.r16MemAddr(in.P), c.A)

	case KindLDAR16Mem:
		c.A = c.read(bus, c.r16MemAddr(in.P))

	case KindIncR16:
		c.setR16(in.P, c.r16(in.P)+1)
		c.internalDelay()

	case KindDecR16:
		c.setR16(in.P, c.r16(in.P)-1)
		c.internalDelay()

	case KindIncR8:
		old := c.r8(bus, in.Y)
		res := addWithCarry3(old, 1, 0)
		c.setR8(bus, in.Y, res.val)
		c.setFlag(FlagZero, res.val == 0)
		c.setFlag(FlagSubtract, false)
		c.setFlag(FlagHalfCarry, res.half)

	case KindDecR8:
		old := c.r8(bus, in.Y)
		res := subWithCarry3(old, 1, 0)
		c.setR8(bus, in.Y, res.val)
		c.setFlag(FlagZero, res.val == 0)
		c.setFlag(FlagSubtract, true)
		c.setFlag(FlagHalfCarry, res.half)

	case KindLDR8Imm8:
		c.setR8(bus, in.Y, c.fetch(bus))

	case KindRLCA:
		carry := c.A&0x80 != 0
		c.A = c.A<<1 | c.A>>7
		c.setFlag(FlagZero, false)
		c.setFlag(FlagSubtract, false)
		c.setFlag(FlagHalfCarry, false)
		c.setFlag(FlagCarry, carry)

	case KindRRCA:
		carry := c.A&0x01 != 0
		c.A = c.A>>1 | c.A<<7
		c.setFlag(FlagZero, false)
		c.setFlag(FlagSubtract, false)
		c.setFlag(FlagHalfCarry, false)
		c.setFlag(FlagCarry, carry)

	case KindRLA:
		oldCarry := c.flag(FlagCarry)
		carry := c.A&0x80 != 0
		c.A <<= 1
		if oldCarry {
			c.A |= 1
		}
		c.setFlag(FlagZero, false)
		c.setFlag(FlagSubtract, false)
		c.setFlag(FlagHalfCarry, false)
		c.setFlag(FlagCarry, carry)

	case KindRRA:
		oldCarry := c.flag(FlagCarry)
		carry := c.A&0x01 != 0
		c.A >>= 1
		if oldCarry {
			c.A |= 0x80
		}
		c.setFlag(FlagZero, false)
		c.setFlag(FlagSubtract, false)
		c.setFlag(FlagHalfCarry, false)
		c.setFlag(FlagCarry, carry)

	case KindDAA:
		c.daa()

	case KindCPL:
		c.A = ^c.A
		c.setFlag(FlagSubtract, true)
		c.setFlag(FlagHalfCarry, true)

	case KindSCF:
		c.setFlag(FlagSubtract, false)
		c.setFlag(FlagHalfCarry, false)
		c.setFlag(FlagCarry, true)

	case KindCCF:
		c.setFlag(FlagSubtract, false)
		c.setFlag(FlagHalfCarry, false)
		c.setFlag(FlagCarry, !c.flag(FlagCarry))

	case KindLDR8R8:
		c.setR8(bus, in.Y, c.r8(bus, in.Z))

	case KindHalt:
		c.enterHalt()

	case KindAluR8:
		c.alu(aluOp(in.Y), c.r8(bus, in.Z))

	case KindRetCond:
		c.internalDelay()
		if c.cond(in.Y) {
			c.PC = c.pop(bus)
			c.internalDelay()
		}

	case KindLDHIndA8A:
		a8 := c.fetch(bus)
		c.write(bus, 0xFF00+uint16(a8), c.A)

	case KindAddSPImm8:
		e := int8(c.fetch(bus))
		sum, half, carry := addSPSigned8(c.SP, e)
		c.SP = sum
		c.setFlag(FlagZero, false)
		c.setFlag(FlagSubtract, false)
		c.setFlag(FlagHalfCarry, half)
		c.setFlag(FlagCarry, carry)
		c.internalDelay()
		c.internalDelay()

	case KindLDHAIndA8:
		a8 := c.fetch(bus)
		c.A = c.read(bus, 0xFF00+uint16(a8))

	case KindLDHLSPImm8:
		e := int8(c.fetch(bus))
		sum, half, carry := addSPSigned8(c.SP, e)
		c.SetHL(sum)
		c.setFlag(FlagZero, false)
		c.setFlag(FlagSubtract, false)
		c.setFlag(FlagHalfCarry, half)
		c.setFlag(FlagCarry, carry)
		c.internalDelay()

	case KindPopR16Stk:
		c.setR16Stk(in.P, c.pop(bus))

	case KindRet:
		c.PC = c.pop(bus)
		c.internalDelay()

	case KindReti:
		c.PC = c.pop(bus)
		c.IRQ.IME = true
		c.internalDelay()

	case KindJPHL:
		c.PC = c.HL()

	case KindLDSPHL:
		c.SP = c.HL()
		c.internalDelay()

	case KindJPCondImm16:
		addr := c.fetch16(bus)
		if c.cond(in.Y) {
			c.PC = addr
			c.internalDelay()
		}

	case KindLDIndCA:
		c.write(bus, 0xFF00+uint16(c.C), c.A)

	case KindLDImm16IndA:
		addr := c.fetch16(bus)
		c.write(bus, addr, c.A)

	case KindLDAIndC:
		c.A = c.read(bus, 0xFF00+uint16(c.C))

	case KindLDAImm16Ind:
		addr := c.fetch16(bus)
		c.A = c.read(bus, addr)

	case KindJPImm16:
		addr := c.fetch16(bus)
		c.PC = addr
		c.internalDelay()

	case KindDI:
		c.IRQ.IME = false

	case KindEI:
		// IME is enabled immediately; the one-instruction EI delay some
		// hardware docs describe is not modelled.
		c.IRQ.IME = true

	case KindCallCondImm16:
		addr := c.fetch16(bus)
		if c.cond(in.Y) {
			c.internalDelay()
			c.push(bus, c.PC)
			c.PC = addr
		}

	case KindPushR16Stk:
		c.internalDelay()
		c.push(bus, c.r16Stk(in.P))

	case KindCallImm16:
		addr := c.fetch16(bus)
		c.internalDelay()
		c.push(bus, c.PC)
		c.PC = addr

	case KindAluImm8:
		c.alu(aluOp(in.Y), c.fetch(bus))

	case KindRst:
		c.internalDelay()
		c.push(bus, c.PC)
		c.PC = uint16(in.Y) * 8

	case KindHardLock:
		c.HardLock = true
	}
}

// r16MemAddr resolves an R16Mem operand (BC,DE,HL+,HL-), applying HL's
// post-increment/decrement as a side effect of addressing it.
func (c *CPU) r16MemAddr(p uint8) uint16 {
	switch p {
	case 0:
		return c.BC()
	case 1:
		return c.DE()
	case 2:
		addr := c.HL()
		c.SetHL(addr + 1)
		return addr
	default:
		addr := c.HL()
		c.SetHL(addr - 1)
		return addr
	}
}

// alu performs one of the 8 accumulator operations block 2/block 3 z==6
// select, applying the canonical flag behaviour per operation.
func (c *CPU) alu(op aluOp, v uint8) {
	switch op {
	case aluAdd:
		res := addWithCarry3(c.A, v, 0)
		c.A = res.val
		c.setFlag(FlagZero, res.val == 0)
		c.setFlag(FlagSubtract, false)
		c.setFlag(FlagHalfCarry, res.half)
		c.setFlag(FlagCarry, res.carry)

	case aluAdc:
		res := addWithCarry3(c.A, v, carryBit(c))
		c.A = res.val
		c.setFlag(FlagZero, res.val == 0)
		c.setFlag(FlagSubtract, false)
		c.setFlag(FlagHalfCarry, res.half)
		c.setFlag(FlagCarry, res.carry)

	case aluSub:
		res := subWithCarry3(c.A, v, 0)
		c.A = res.val
		c.setFlag(FlagZero, res.val == 0)
		c.setFlag(FlagSubtract, true)
		c.setFlag(FlagHalfCarry, res.half)
		c.setFlag(FlagCarry, res.carry)

	case aluSbc:
		res := subWithCarry3(c.A, v, carryBit(c))
		c.A = res.val
		c.setFlag(FlagZero, res.val == 0)
		c.setFlag(FlagSubtract, true)
		c.setFlag(FlagHalfCarry, res.half)
		c.setFlag(FlagCarry, res.carry)

	case aluAnd:
		c.A &= v
		c.setFlag(FlagZero, c.A == 0)
		c.setFlag(FlagSubtract, false)
		c.setFlag(FlagHalfCarry, true)
		c.setFlag(FlagCarry, false)

	case aluXor:
		c.A ^= v
		c.setFlag(FlagZero, c.A == 0)
		c.setFlag(FlagSubtract, false)
		c.setFlag(FlagHalfCarry, false)
		c.setFlag(FlagCarry, false)

	case aluOr:
		c.A |= v
		c.setFlag(FlagZero, c.A == 0)
		c.setFlag(FlagSubtract, false)
		c.setFlag(FlagHalfCarry, false)
		c.setFlag(FlagCarry, false)

	case aluCp:
		res := subWithCarry3(c.A, v, 0)
		c.setFlag(FlagZero, res.val == 0)
		c.setFlag(FlagSubtract, true)
		c.setFlag(FlagHalfCarry, res.half)
		c.setFlag(FlagCarry, res.carry)
	}
}

func carryBit(c *CPU) uint8 {
	if c.flag(FlagCarry) {
		return 1
	}
	return 0
}

// daa adjusts A after BCD arithmetic, using N/H/C to select offsets
// 0x06, 0x60 or both; Z from the result, H cleared, C set iff a 0x60
// adjustment was applied.
func (c *CPU) daa() {
	var adjust uint8
	carry := false
	if !c.flag(FlagSubtract) {
		if c.flag(FlagCarry) || c.A > 0x99 {
			adjust |= 0x60
			carry = true
		}
		if c.flag(FlagHalfCarry) || c.A&0x0F > 0x09 {
			adjust |= 0x06
		}
		c.A += adjust
	} else {
		if c.flag(FlagCarry) {
			adjust |= 0x60
			carry = true
		}
		if c.flag(FlagHalfCarry) {
			adjust |= 0x06
		}
		c.A -= adjust
	}
	c.setFlag(FlagZero, c.A == 0)
	c.setFlag(FlagHalfCarry, false)
	c.setFlag(FlagCarry, carry)
}

// enterHalt suspends CPU fetch until IE&IF becomes nonzero. If IME is
// clear and an interrupt is already pending at the moment HALT
// executes, the CPU does not actually halt; instead the documented
// "HALT bug" fires (the following fetch does not advance PC, so the
// next opcode byte is read twice).
func (c *CPU) enterHalt() {
	if !c.IRQ.IME && c.IRQ.Pending() {
		c.haltBug = true
		return
	}
	c.Halted = true
}

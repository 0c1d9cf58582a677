package cpu

import "github.com/thelolagemann/gbcore/pkg/bits"

// execCB dispatches a CB-prefixed instruction: rotate/shift, BIT, RES,
// SET. The CB prefix byte and this opcode byte have already been
// fetched by Step; the prefix is a table selector, not an instruction
// of its own.
func (c *CPU) execCB(bus Bus, opcode uint8) {
	in := DecodeCB(opcode)
	switch in.Kind {
	case CBRot:
		c.setR8(bus, in.Z, c.rotateOp(rotOp(in.Y), c.r8(bus, in.Z)))

	case CBBit:
		v := c.r8(bus, in.Z)
		c.setFlag(FlagZero, !bits.Test(v, in.Y))
		c.setFlag(FlagSubtract, false)
		c.setFlag(FlagHalfCarry, true)
		// C is left untouched by BIT.

	case CBRes:
		c.setR8(bus, in.Z, bits.Reset(c.r8(bus, in.Z), in.Y))

	case CBSet:
		c.setR8(bus, in.Z, bits.Set(c.r8(bus, in.Z), in.Y))
	}
}

// rotateOp performs one of the 8 CB-table rotate/shift operations,
// setting Z from the result (unlike RLCA/RRCA/RLA/RRA, which force
// Z=0) and C from the bit rotated/shifted out.
func (c *CPU) rotateOp(op rotOp, v uint8) uint8 {
	var result uint8
	var carry bool

	switch op {
	case rotRLC:
		carry = v&0x80 != 0
		result = v<<1 | v>>7
	case rotRRC:
		carry = v&0x01 != 0
		result = v>>1 | v<<7
	case rotRL:
		oldCarry := c.flag(FlagCarry)
		carry = v&0x80 != 0
		result = v << 1
		if oldCarry {
			result |= 1
		}
	case rotRR:
		oldCarry := c.flag(FlagCarry)
		carry = v&0x01 != 0
		result = v >> 1
		if oldCarry {
			result |= 0x80
		}
	case rotSLA:
		carry = v&0x80 != 0
		result = v << 1
	case rotSRA:
		carry = v&0x01 != 0
		result = v>>1 | v&0x80 // bit 7 preserved (arithmetic shift)
	case rotSwap:
		result = v<<4 | v>>4
		carry = false
	default: // rotSRL
		carry = v&0x01 != 0
		result = v >> 1
	}

	c.setFlag(FlagZero, result == 0)
	c.setFlag(FlagSubtract, false)
	c.setFlag(FlagHalfCarry, false)
	c.setFlag(FlagCarry, carry)
	return result
}

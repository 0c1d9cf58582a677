// Package cpu implements the Sharp LR35902 instruction set: the
// register file, opcode decoder and executor. Interrupt dispatch lives
// with the caller (the system package's scheduler), which services any
// pending vector before letting the CPU fetch its next instruction.
package cpu

import "github.com/thelolagemann/gbcore/internal/interrupts"

// Flag bit positions within F.
const (
	FlagZero      uint8 = 7
	FlagSubtract  uint8 = 6
	FlagHalfCarry uint8 = 5
	FlagCarry     uint8 = 4
)

// Bus is the memory interface the CPU executes against. The system
// package's *mmu.Bus satisfies it; cpu never imports mmu directly.
type Bus interface {
	Read(addr uint16) uint8
	Write(addr uint16, value uint8)
}

// CPU holds the Sharp LR35902 register file and executes one
// instruction at a time against a Bus.
type CPU struct {
	A, F, B, C, D, E, H, L uint8
	SP, PC                 uint16

	IRQ *interrupts.Service

	Halted   bool
	HardLock bool // illegal opcode executed

	// haltBug is set when HALT executes with IME clear and a pending,
	// disabled-by-IME-only interrupt: the next fetch does not advance PC.
	haltBug bool

	cycles uint8 // M-cycles consumed by the instruction in progress
}

// New returns a CPU with all registers zero. The system package applies
// the post-boot register values.
func New(irq *interrupts.Service) *CPU {
	return &CPU{IRQ: irq}
}

// BC, DE, HL and AF read/write their register pairs, big-endian
// (high register first).
func (c *CPU) BC() uint16 { return uint16(c.B)<<8 | uint16(c.C) }
func (c *CPU) DE() uint16 { return uint16(c.D)<<8 | uint16(c.E) }
func (c *CPU) HL() uint16 { return uint16(c.H)<<8 | uint16(c.L) }
func (c *CPU) AF() uint16 { return uint16(c.A)<<8 | uint16(c.F&0xF0) }

func (c *CPU) SetBC(v uint16) { c.B, c.C = uint8(v>>8), uint8(v) }
func (c *CPU) SetDE(v uint16) { c.D, c.E = uint8(v>>8), uint8(v) }
func (c *CPU) SetHL(v uint16) { c.H, c.L = uint8(v>>8), uint8(v) }
func (c *CPU) SetAF(v uint16) { c.A, c.F = uint8(v>>8), uint8(v)&0xF0 }

func (c *CPU) flag(f uint8) bool      { return c.F&(1<<f) != 0 }
func (c *CPU) setFlag(f uint8, v bool) {
	if v {
		c.F |= 1 << f
	} else {
		c.F &^= 1 << f
	}
	c.F &= 0xF0
}

// fetch reads the byte at PC, advances PC, and charges one M-cycle.
func (c *CPU) fetch(bus Bus) uint8 {
	v := bus.Read(c.PC)
	if !c.haltBug {
		c.PC++
	}
	c.haltBug = false
	c.cycles++
	return v
}

func (c *CPU) fetch16(bus Bus) uint16 {
	lo := c.fetch(bus)
	hi := c.fetch(bus)
	return uint16(hi)<<8 | uint16(lo)
}

func (c *CPU) read(bus Bus, addr uint16) uint8 {
	c.cycles++
	return bus.Read(addr)
}

func (c *CPU) write(bus Bus, addr uint16, v uint8) {
	c.cycles++
	bus.Write(addr, v)
}

func (c *CPU) push(bus Bus, v uint16) {
	c.SP--
	c.write(bus, c.SP, uint8(v>>8))
	c.SP--
	c.write(bus, c.SP, uint8(v))
}

func (c *CPU) pop(bus Bus) uint16 {
	lo := c.read(bus, c.SP)
	c.SP++
	hi := c.read(bus, c.SP)
	c.SP++
	return uint16(hi)<<8 | uint16(lo)
}

// internalDelay charges one M-cycle with no bus activity (internal ALU
// cycles such as 16-bit INC/DEC, ADD HL,rr, jump-taken cycles).
func (c *CPU) internalDelay() { c.cycles++ }

// Step executes exactly one instruction and returns the number of
// M-cycles it consumed. It does not consult Halted: the caller (the
// system package's scheduler) skips Step while the CPU is halted, and is
// responsible for servicing interrupts before calling Step.
func (c *CPU) Step(bus Bus) uint8 {
	c.cycles = 0
	opcode := c.fetch(bus)
	if opcode == 0xCB {
		cbOp := c.fetch(bus)
		c.execCB(bus, cbOp)
	} else {
		c.exec(bus, opcode)
	}
	return c.cycles
}

// ServiceInterrupt pushes PC, jumps to vector and clears IME, charging
// the 5 M-cycles real hardware spends on interrupt dispatch. It is
// invoked by the system package, not by Step, once it has determined an
// enabled interrupt is pending and IME is set.
func (c *CPU) ServiceInterrupt(bus Bus, vector uint16) uint8 {
	c.cycles = 0
	c.internalDelay()
	c.internalDelay()
	c.push(bus, c.PC)
	c.internalDelay()
	c.PC = vector
	c.IRQ.IME = false
	return c.cycles
}

// Package system wires the CPU, memory bus, PPU, timer, DMA engine,
// interrupt controller and joypad into a single M-cycle scheduler.
// System.Tick is the sole driver of every sub-component. The CPU, PPU,
// timer and joypad share the interrupts.Service by pointer, and the
// mmu.Bus holds pointers to every component it dispatches to; the CPU
// reaches memory only through the Bus passed to Step.
package system

import (
	"github.com/thelolagemann/gbcore/internal/cartridge"
	"github.com/thelolagemann/gbcore/internal/cpu"
	"github.com/thelolagemann/gbcore/internal/dma"
	"github.com/thelolagemann/gbcore/internal/interrupts"
	"github.com/thelolagemann/gbcore/internal/joypad"
	"github.com/thelolagemann/gbcore/internal/mmu"
	"github.com/thelolagemann/gbcore/internal/ppu"
	"github.com/thelolagemann/gbcore/internal/timer"
	"github.com/thelolagemann/gbcore/pkg/log"
)

// ButtonReader reports the current pressed state of the eight buttons
// as a joypad.Button bitmask. The host supplies one via
// WithButtonReader; it is polled once per tick.
type ButtonReader func() joypad.Button

// System owns every sub-component and drives all of them from the Tick
// loop.
type System struct {
	CPU   *cpu.CPU
	Bus   *mmu.Bus
	PPU   *ppu.PPU
	Timer *timer.Controller
	DMA   *dma.Controller
	IRQ   *interrupts.Service
	Pad   *joypad.State
	Cart  *cartridge.Cartridge

	Logger log.Logger

	// HardLock is set on an illegal opcode or, when the infinite-loop
	// detector option is enabled, on a taken JR -2. The host checks it
	// between ticks and stops driving the system.
	HardLock bool

	detectInfiniteLoop bool
	readButtons        ButtonReader
	lastButtons        joypad.Button
	cycles             uint64 // total M-cycles elapsed since reset
	cpuDelay           uint8  // remaining idle M-cycles charged to the CPU
}

// Option configures a System at construction.
type Option func(*System)

// WithLogger replaces the System's logger (and the bus's, so serial/IO
// debug output shares one sink) with l.
func WithLogger(l log.Logger) Option {
	return func(s *System) {
		s.Logger = l
		s.Bus.SetLogger(l)
	}
}

// WithInfiniteLoopDetector makes a taken `JR -2` set HardLock instead of
// spinning forever, giving a headless host a the-program-has-parked-
// itself signal.
func WithInfiniteLoopDetector() Option {
	return func(s *System) { s.detectInfiniteLoop = true }
}

// WithStrictMemory reports echo-RAM and unusable-region accesses through
// the logger. The default is permissive: such accesses are honoured (or
// return 0) silently.
func WithStrictMemory() Option {
	return func(s *System) { s.Bus.Strict = true }
}

// WithButtonReader installs read as the input source: it is queried
// every tick and edge changes are forwarded to the joypad, requesting
// the Joypad interrupt on new presses of a selected group.
func WithButtonReader(read ButtonReader) Option {
	return func(s *System) { s.readButtons = read }
}

// New constructs a System around cart, wiring every sub-component and
// applying the post-boot DMG register values.
func New(cart *cartridge.Cartridge, opts ...Option) *System {
	irq := interrupts.NewService()
	p := ppu.New(irq)
	t := timer.NewController(irq)
	pad := joypad.New(irq)
	d := dma.NewController()
	bus := mmu.New(cart, p, irq, t, pad, d)
	c := cpu.New(irq)

	s := &System{
		CPU:   c,
		Bus:   bus,
		PPU:   p,
		Timer: t,
		DMA:   d,
		IRQ:   irq,
		Pad:   pad,
		Cart:  cart,

		Logger: log.NewNullLogger(),
	}

	for _, opt := range opts {
		opt(s)
	}

	s.applyPostBootState()
	return s
}

// applyPostBootState sets the CPU registers and the subset of I/O
// registers to the state a real DMG's boot ROM leaves behind, since
// this core never executes a boot ROM.
func (s *System) applyPostBootState() {
	s.CPU.A, s.CPU.F = 0x01, 0x80
	s.CPU.B, s.CPU.C = 0x00, 0x13
	s.CPU.D, s.CPU.E = 0x00, 0xD8
	s.CPU.H, s.CPU.L = 0x01, 0x48
	s.CPU.PC = 0x0100
	s.CPU.SP = 0xFFFE

	s.Pad.Write(0xCF)
	s.Timer.SetDIV(0xAB)
	s.Timer.WriteTAC(0xF8)
	s.IRQ.WriteIF(0xE1)
	s.PPU.WriteLCDC(0x91)
	s.PPU.SetSTAT(0x85)
	s.PPU.WriteBGP(0xFC)
	s.DMA.SetRegister(0xFF)
	s.IRQ.Enable = 0x00
}

// Tick advances every sub-component by exactly one M-cycle, in a fixed
// order: timer, then interrupt service or CPU step, then PPU, then DMA.
// It is a no-op once HardLock is set.
func (s *System) Tick() {
	if s.HardLock {
		return
	}

	if s.readButtons != nil {
		s.pollInput()
	}

	s.Timer.Tick()

	if s.cpuDelay > 0 {
		s.cpuDelay--
	} else {
		s.serviceOrStep()
	}

	s.PPU.Tick()

	if s.DMA.Active() {
		s.DMA.Tick()
	}

	s.cycles++
}

// pollInput diffs the host's current button state against the previous
// poll and forwards each edge to the joypad.
func (s *System) pollInput() {
	state := s.readButtons()
	changed := state ^ s.lastButtons
	if changed == 0 {
		return
	}
	for b := joypad.Button(0x01); b != 0; b <<= 1 {
		if changed&b == 0 {
			continue
		}
		if state&b != 0 {
			s.Pad.Press(b)
		} else {
			s.Pad.Release(b)
		}
	}
	s.lastButtons = state
}

// serviceOrStep handles HALT wakeup and interrupt dispatch, then steps
// the CPU if it isn't (still) halted.
func (s *System) serviceOrStep() {
	if s.CPU.Halted && s.IRQ.Pending() {
		s.CPU.Halted = false
	}

	if flag, ok := s.IRQ.NextFlag(); ok && s.IRQ.IME {
		s.IRQ.Clear(flag)
		cycles := s.CPU.ServiceInterrupt(s.Bus, interrupts.Vector(flag))
		s.cpuDelay = cycles - 1
		return
	}

	if s.CPU.Halted {
		return
	}

	pcBefore := s.CPU.PC
	opBefore := s.Bus.Read(pcBefore)
	cycles := s.CPU.Step(s.Bus)
	s.cpuDelay = cycles - 1

	if s.detectInfiniteLoop && opBefore == 0x18 && s.Bus.Read(pcBefore+1) == 0xFE && s.CPU.PC == pcBefore {
		s.HardLock = true
	}
	if s.CPU.HardLock {
		s.Logger.Errorf("cpu: illegal opcode %#02x at %#04x", opBefore, pcBefore)
		s.HardLock = true
	}
}

// Cycles returns the total number of M-cycles elapsed since reset.
func (s *System) Cycles() uint64 { return s.cycles }

// Press forwards a button press to the joypad.
func (s *System) Press(b joypad.Button) { s.Pad.Press(b) }

// Release forwards a button release to the joypad.
func (s *System) Release(b joypad.Button) { s.Pad.Release(b) }

// Framebuffer returns the PPU's current framebuffer.
func (s *System) Framebuffer() *[ppu.ScreenHeight][ppu.ScreenWidth]uint8 {
	return &s.PPU.Framebuffer
}

// HasFrame reports whether a frame has completed since the last
// ClearFrame, for the host's present loop.
func (s *System) HasFrame() bool { return s.PPU.HasFrame() }

// ClearFrame acknowledges the completed frame.
func (s *System) ClearFrame() { s.PPU.ClearFrame() }

// SaveRAM returns the cartridge's external RAM for the host to persist;
// empty when the header declares no RAM, whether or not the cartridge
// type has a battery.
func (s *System) SaveRAM() []byte { return s.Cart.RAM() }

// LoadRAM restores previously-saved cartridge RAM.
func (s *System) LoadRAM(data []byte) { s.Cart.LoadRAM(data) }

// SerialOutput returns the accumulated serial-port transmit stream, for
// hosts running serial-reporting conformance ROMs.
func (s *System) SerialOutput() string { return s.Bus.SerialOutput() }

// Package timer implements the DIV/TIMA/TMA/TAC timer unit on an
// M-cycle counter model: DIV increments every 64 M-cycles, TIMA at the
// TAC-selected period, reloading from TMA and requesting the Timer
// interrupt on overflow.
package timer

import "github.com/thelolagemann/gbcore/internal/interrupts"

// timaPeriods maps TAC bits 1..0 to the TIMA increment period in
// M-cycles.
var timaPeriods = [4]int{256, 4, 16, 64}

// Controller is the timer unit. It is ticked once per M-cycle by the
// system scheduler.
type Controller struct {
	irq *interrupts.Service

	div    uint8
	divSub uint8 // counts M-cycles toward the next DIV increment (period 64)

	tima    uint8
	tma     uint8
	tac     uint8
	timaSub int // counts M-cycles toward the next TIMA increment
}

// NewController returns a Controller wired to irq.
func NewController(irq *interrupts.Service) *Controller {
	return &Controller{irq: irq}
}

// Tick advances the timer by one M-cycle.
func (c *Controller) Tick() {
	c.divSub++
	if c.divSub == 64 {
		c.divSub = 0
		c.div++
	}

	if c.tac&0x04 == 0 {
		return
	}

	c.timaSub++
	period := timaPeriods[c.tac&0x03]
	if c.timaSub < period {
		return
	}
	c.timaSub = 0

	c.tima++
	if c.tima == 0 {
		c.tima = c.tma
		c.irq.Request(interrupts.TimerFlag)
	}
}

// ReadDIV returns the DIV register.
func (c *Controller) ReadDIV() uint8 { return c.div }

// WriteDIV resets DIV (and its internal sub-cycle counter) to zero,
// independent of the written value.
func (c *Controller) WriteDIV(uint8) {
	c.div = 0
	c.divSub = 0
}

// ReadTIMA returns the TIMA register.
func (c *Controller) ReadTIMA() uint8 { return c.tima }

// WriteTIMA sets TIMA directly (a CPU write to the timer counter).
func (c *Controller) WriteTIMA(v uint8) { c.tima = v }

// ReadTMA returns the TMA register.
func (c *Controller) ReadTMA() uint8 { return c.tma }

// WriteTMA sets the reload value used on TIMA overflow.
func (c *Controller) WriteTMA(v uint8) { c.tma = v }

// ReadTAC returns TAC with its unused upper bits read as 1.
func (c *Controller) ReadTAC() uint8 { return c.tac | 0xF8 }

// WriteTAC writes the 3 meaningful bits of TAC.
func (c *Controller) WriteTAC(v uint8) { c.tac = v & 0x07 }

// SetDIV forces DIV to v directly, bypassing the reset-on-write rule a
// CPU write obeys. Used only by the system package to install the
// post-boot value (a real write can only ever zero DIV; this represents
// the state the boot ROM leaves behind).
func (c *Controller) SetDIV(v uint8) { c.div = v }

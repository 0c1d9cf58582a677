// Package dma implements the OAM DMA engine: a 160-byte copy into OAM
// at one byte per M-cycle, triggered by a write to the DMA register.
// The engine reaches memory through two function values wired up by
// mmu.New, so it holds no reference to the bus or the PPU.
package dma

// Controller copies 160 bytes from ReadBus(DMA register«8 + i) to OAM
// byte i, one byte per M-cycle.
type Controller struct {
	// ReadBus reads one byte from the system bus. mmu.New wires this to
	// its Bus.Read so dma never imports mmu.
	ReadBus func(addr uint16) uint8
	// WriteOAM writes one byte directly into OAM at the given index
	// (0..159).
	WriteOAM func(index uint8, value uint8)

	register uint8
	active   bool
	index    int
}

// NewController returns an idle DMA engine. ReadBus and WriteOAM must be
// assigned before the first Tick.
func NewController() *Controller {
	return &Controller{}
}

// Start begins a transfer from value*0x100 (the FF46 write).
func (c *Controller) Start(value uint8) {
	c.register = value
	c.active = true
	c.index = 0
}

// Tick advances the transfer by one byte, if active.
func (c *Controller) Tick() {
	if !c.active {
		return
	}
	src := uint16(c.register)<<8 + uint16(c.index)
	c.WriteOAM(uint8(c.index), c.ReadBus(src))
	c.index++
	if c.index == 160 {
		c.active = false
	}
}

// Active reports whether a transfer is in progress.
func (c *Controller) Active() bool { return c.active }

// SetRegister sets the last-written DMA register value without starting
// a transfer. Used only by the system package to install the post-boot
// value (0xFF, left over from the boot ROM's own OAM DMA, not an
// in-progress transfer).
func (c *Controller) SetRegister(v uint8) { c.register = v }

// Register returns the last value written to FF46 (CPU read-back).
func (c *Controller) Register() uint8 { return c.register }

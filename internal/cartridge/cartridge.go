// Package cartridge implements cartridge header parsing and the banked
// ROM/RAM hardware variants (ROM-only, MBC1, MBC3). Each variant owns
// its ROM, RAM and banking registers outright; none holds a reference
// back into the system bus.
package cartridge

// Cartridge owns the ROM image, the parsed header, and the banking
// hardware for one loaded game.
type Cartridge struct {
	header Header
	hw     mbc
}

// New parses rom's header and constructs the matching banking hardware.
// It returns a *LoadError rather than constructing a Cartridge when the
// ROM is malformed or declares an unsupported type.
func New(rom []byte) (*Cartridge, error) {
	header, err := ParseHeader(rom)
	if err != nil {
		return nil, err
	}

	return &Cartridge{
		header: header,
		hw:     newMBC(header.Type, rom, header.RAMBankCount),
	}, nil
}

// Header returns the cartridge's parsed header.
func (c *Cartridge) Header() Header {
	return c.header
}

// Read dispatches a bus read in the 0x0000-0x7FFF or 0xA000-0xBFFF ranges
// to the banking hardware.
func (c *Cartridge) Read(addr uint16) uint8 {
	return c.hw.Read(addr)
}

// Write dispatches a bus write to the banking hardware; for ROM address
// ranges this drives bank switching, never a memory write.
func (c *Cartridge) Write(addr uint16, value uint8) {
	c.hw.Write(addr, value)
}

// RAM returns the cartridge's external RAM, verbatim, for save-file
// round-tripping by the host. It is empty when the header declares no
// RAM (nil for ROM-only carts); whether the cartridge type has a battery
// is not consulted.
func (c *Cartridge) RAM() []byte {
	return c.hw.RAM()
}

// LoadRAM overwrites the cartridge's external RAM with data (host-driven
// save-file load); data shorter than the RAM is zero-padded, data
// longer is truncated.
func (c *Cartridge) LoadRAM(data []byte) {
	ram := c.hw.RAM()
	for i := range ram {
		ram[i] = 0
	}
	c.hw.SetRAM(data)
}

package ppu

// Register addresses within the I/O page, for documentation and for the
// mmu package's dispatch table.
const (
	RegLCDC = 0xFF40
	RegSTAT = 0xFF41
	RegSCY  = 0xFF42
	RegSCX  = 0xFF43
	RegLY   = 0xFF44
	RegLYC  = 0xFF45
	RegBGP  = 0xFF47
	RegOBP0 = 0xFF48
	RegOBP1 = 0xFF49
	RegWY   = 0xFF4A
	RegWX   = 0xFF4B
)

// VRAMRead reads a VRAM byte, addr relative to 0x8000.
func (p *PPU) VRAMRead(addr uint16) uint8 { return p.vram[addr&0x1FFF] }

// VRAMWrite writes a VRAM byte, addr relative to 0x8000. VRAM stays
// accessible in every mode; the hardware's Draw-time access restriction
// is not modelled.
func (p *PPU) VRAMWrite(addr uint16, v uint8) { p.vram[addr&0x1FFF] = v }

// OAMRead reads an OAM byte, addr relative to 0xFE00.
func (p *PPU) OAMRead(addr uint16) uint8 { return p.oam[addr&0xFF] }

// OAMWrite writes an OAM byte, addr relative to 0xFE00.
func (p *PPU) OAMWrite(addr uint16, v uint8) { p.oam[addr&0xFF] = v }

// WriteOAMByte writes OAM by direct index, used by the DMA engine.
func (p *PPU) WriteOAMByte(index uint8, v uint8) { p.oam[index] = v }

func (p *PPU) LCDC() uint8 { return p.lcdc }

// WriteLCDC updates LCDC. Clearing bit 7 resets the dot counter, LY and
// the mode to OAM-scan, matching real hardware's behaviour on LCD-off.
func (p *PPU) WriteLCDC(v uint8) {
	wasEnabled := p.lcdc&0x80 != 0
	p.lcdc = v
	if wasEnabled && v&0x80 == 0 {
		p.dot = 0
		p.ly = 0
		p.windowLine = 0
		p.mode = ModeOAM
		p.stat = p.stat &^ 0x03
	}
}

// STAT returns the STAT register, with bit 7 always set per hardware.
func (p *PPU) STAT() uint8 { return p.stat | 0x80 }

// WriteSTAT updates the writable STAT bits (6..3); bits 2..0 are
// read-only, derived from LY/LYC/mode.
func (p *PPU) WriteSTAT(v uint8) {
	p.stat = (p.stat & 0x07) | (v & 0x78)
}

// SetSTAT overwrites STAT and the current mode outright, bypassing the
// CPU write mask. Used only by the system package to install the
// register state the boot ROM leaves behind.
func (p *PPU) SetSTAT(v uint8) {
	p.stat = v & 0x7F
	p.mode = Mode(v & 0x03)
}

func (p *PPU) SCY() uint8      { return p.scy }
func (p *PPU) WriteSCY(v uint8) { p.scy = v }

func (p *PPU) SCX() uint8      { return p.scx }
func (p *PPU) WriteSCX(v uint8) { p.scx = v }

// WriteLY is a no-op: LY is read-only from the CPU.
func (p *PPU) WriteLY(uint8) {}

func (p *PPU) LYC() uint8 { return p.lyc }
func (p *PPU) WriteLYC(v uint8) {
	p.lyc = v
	p.checkLYC()
}

func (p *PPU) BGP() uint8       { return p.bgp }
func (p *PPU) WriteBGP(v uint8)  { p.bgp = v }
func (p *PPU) OBP0() uint8      { return p.obp0 }
func (p *PPU) WriteOBP0(v uint8) { p.obp0 = v }
func (p *PPU) OBP1() uint8      { return p.obp1 }
func (p *PPU) WriteOBP1(v uint8) { p.obp1 = v }
func (p *PPU) WY() uint8       { return p.wy }
func (p *PPU) WriteWY(v uint8)  { p.wy = v }
func (p *PPU) WX() uint8       { return p.wx }
func (p *PPU) WriteWX(v uint8)  { p.wx = v }

// Mode returns the current PPU mode.
func (p *PPU) Mode() Mode { return p.mode }

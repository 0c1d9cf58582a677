package ppu

import (
	"testing"

	"github.com/thelolagemann/gbcore/internal/interrupts"
)

func newEnabled() (*PPU, *interrupts.Service) {
	irq := interrupts.NewService()
	irq.Enable = 0x1F
	p := New(irq)
	p.WriteLCDC(0x80) // LCD on, background off, everything else off
	return p, irq
}

// TestModeSequence walks one full scanline and checks the OAM-scan →
// Draw → HBlank mode transitions land on the 80- and 252-dot
// boundaries.
func TestModeSequence(t *testing.T) {
	p, _ := newEnabled()

	if p.Mode() != ModeOAM {
		t.Fatalf("initial mode = %v, want OAM", p.Mode())
	}

	for i := 0; i < 20; i++ { // 20 M-cycles = 80 dots
		p.Tick()
	}
	if p.Mode() != ModeDraw {
		t.Fatalf("mode after 80 dots = %v, want Draw", p.Mode())
	}

	for i := 0; i < 43; i++ { // + 172 dots = 252 total
		p.Tick()
	}
	if p.Mode() != ModeHBlank {
		t.Fatalf("mode after 252 dots = %v, want HBlank", p.Mode())
	}

	for i := 0; i < 51; i++ { // + 204 dots = 456 total: next line
		p.Tick()
	}
	if p.LY() != 1 {
		t.Fatalf("LY after one full line = %d, want 1", p.LY())
	}
	if p.Mode() != ModeOAM {
		t.Fatalf("mode at start of line 1 = %v, want OAM", p.Mode())
	}
}

// TestLYCCoincidence checks LYC set to the scanline the PPU is about to
// reach raises STAT bit 2 and, with the LYC interrupt source selected,
// requests a STAT interrupt.
func TestLYCCoincidence(t *testing.T) {
	p, irq := newEnabled()
	p.WriteLYC(2)
	p.WriteSTAT(0x40) // select LYC interrupt source

	linesToRun := 2 * (dotsPerLine / 4)
	for i := 0; i < linesToRun; i++ {
		p.Tick()
	}

	if p.LY() != 2 {
		t.Fatalf("LY = %d, want 2", p.LY())
	}
	if p.STAT()&0x04 == 0 {
		t.Fatalf("STAT coincidence bit not set at LY==LYC")
	}
	if irq.Flag&(1<<interrupts.STATFlag) == 0 {
		t.Fatalf("expected STAT interrupt requested on LY==LYC")
	}
}

func TestLYCMismatchClearsBit(t *testing.T) {
	p, _ := newEnabled()
	p.WriteLYC(5)
	p.Tick()
	if p.STAT()&0x04 != 0 {
		t.Errorf("coincidence bit set when LY != LYC")
	}
}

// TestVBlankInterrupt checks LY reaches 144 at the end of the visible
// frame and that the VBlank interrupt fires exactly on entry.
func TestVBlankInterrupt(t *testing.T) {
	p, irq := newEnabled()

	linesToRun := ScreenHeight * (dotsPerLine / 4)
	for i := 0; i < linesToRun; i++ {
		p.Tick()
	}

	if p.LY() != ScreenHeight {
		t.Fatalf("LY = %d, want %d", p.LY(), ScreenHeight)
	}
	if p.Mode() != ModeVBlank {
		t.Fatalf("mode = %v, want VBlank", p.Mode())
	}
	if irq.Flag&(1<<interrupts.VBlankFlag) == 0 {
		t.Fatalf("expected VBlank interrupt requested")
	}
	if !p.HasFrame() {
		t.Fatalf("expected HasFrame() true at VBlank entry")
	}
}

// TestDisabledPPUFreezesLY checks that with LCDC bit 7 clear, ticking
// never advances LY or the dot counter.
func TestDisabledPPUFreezesLY(t *testing.T) {
	irq := interrupts.NewService()
	p := New(irq)
	p.WriteLCDC(0x00) // disabled

	for i := 0; i < 100000; i++ {
		p.Tick()
	}
	if p.LY() != 0 {
		t.Errorf("LY = %d while PPU disabled, want 0", p.LY())
	}
}

// TestFullFrameDotCount exercises a complete frame and checks the frame
// counter advances exactly once, matching the 154-line/456-dot frame
// geometry.
func TestFullFrameDotCount(t *testing.T) {
	p, _ := newEnabled()

	totalMCycles := linesPerFrame * dotsPerLine / 4
	for i := 0; i < totalMCycles; i++ {
		p.Tick()
	}
	if p.FrameCount() != 1 {
		t.Fatalf("FrameCount() = %d, want 1", p.FrameCount())
	}
	if p.LY() != 0 {
		t.Fatalf("LY after full frame = %d, want 0", p.LY())
	}
}

// TestBackgroundTilePalette checks that a single solid-color tile at the
// top-left of the tilemap renders with BGP applied.
func TestBackgroundTilePalette(t *testing.T) {
	irq := interrupts.NewService()
	p := New(irq)

	// Tile 0 in the 0x8000 block, all pixels color ID 3 (both bit planes
	// set for every row).
	for row := 0; row < 8; row++ {
		p.VRAMWrite(uint16(row*2), 0xFF)
		p.VRAMWrite(uint16(row*2+1), 0xFF)
	}
	// Tilemap at 0x9800 (relative 0x1800): tile 0 everywhere is already
	// the zero value.
	p.WriteBGP(0xE4) // identity-ish palette: id3->3,id2->2,id1->1,id0->0
	p.WriteLCDC(0x91) // LCD on, BG on, 8000 addressing, 9800 map

	for i := 0; i < dotsPerLine/4+1; i++ {
		p.Tick()
	}

	if got := p.Framebuffer[0][0]; got != 3 {
		t.Errorf("Framebuffer[0][0] = %d, want 3", got)
	}
}

// TestObjectTileFetchIgnoresLCDCBit4 checks that sprite tile lookups
// always use unsigned 0x8000-relative addressing regardless of LCDC bit
// 4, which only selects the BG/Window addressing mode.
// Tile index 1's unsigned location (0x8010) and its signed location
// (0x9010, what bit 4 clear would wrongly select for an object) are
// given different pixel data so a wrong addressing mode is observable.
func TestObjectTileFetchIgnoresLCDCBit4(t *testing.T) {
	irq := interrupts.NewService()
	p := New(irq)

	// Unsigned location for tile 1, row 0: colour ID 1 for every pixel.
	p.VRAMWrite(0x0010, 0xFF)
	p.VRAMWrite(0x0011, 0x00)
	// Signed location tile 1 would resolve to (0x1000 + 1*16), row 0:
	// colour ID 2 for every pixel — must never be read for an object.
	p.VRAMWrite(0x1010, 0x00)
	p.VRAMWrite(0x1011, 0xFF)

	p.oam[0] = 16 // Y: sprite top at screen row 0
	p.oam[1] = 8  // X: sprite left at screen column 0
	p.oam[2] = 1  // tile index
	p.oam[3] = 0  // attr: no flip, OBP0

	p.WriteOBP0(0xE4) // id1->1, id2->2 (distinguishable)
	p.WriteLCDC(0x82) // LCD on, OBJ on, BG/Window off, bit 4 clear (signed BG mode)

	for i := 0; i < dotsPerLine/4+1; i++ {
		p.Tick()
	}

	if got := p.Framebuffer[0][0]; got != 1 {
		t.Errorf("Framebuffer[0][0] = %d, want 1 (object must use unsigned addressing)", got)
	}
}

// Package ppu implements the pixel processing unit: the OAM-scan /
// Draw / HBlank / VBlank mode state machine, LY/STAT/LYC handling, and
// the scanline renderer that fills a 160x144 framebuffer of 2-bit
// shades.
package ppu

import "github.com/thelolagemann/gbcore/internal/interrupts"

const (
	// ScreenWidth is the framebuffer width in pixels.
	ScreenWidth = 160
	// ScreenHeight is the framebuffer height in pixels.
	ScreenHeight = 144

	dotsPerLine  = 456
	linesPerFrame = 154

	oamEnd   = 79
	drawEnd  = 251
	// hblank runs from drawEnd+1 to dotsPerLine-1
)

// Mode is the current PPU mode, mirrored in STAT bits 1..0.
type Mode uint8

const (
	ModeHBlank Mode = 0
	ModeVBlank Mode = 1
	ModeOAM    Mode = 2
	ModeDraw   Mode = 3
)

// PPU owns VRAM, OAM, the LCD control/status registers, and the
// framebuffer.
type PPU struct {
	irq *interrupts.Service

	vram [0x2000]byte
	oam  [0xA0]byte

	lcdc uint8
	stat uint8
	scy  uint8
	scx  uint8
	ly   uint8
	lyc  uint8
	bgp  uint8
	obp0 uint8
	obp1 uint8
	wy   uint8
	wx   uint8

	dot        int
	mode       Mode
	frame      uint64
	windowLine int

	Framebuffer [ScreenHeight][ScreenWidth]uint8
	frameReady  bool
}

// New returns a PPU with all registers zeroed; the system package
// applies the post-boot register values.
func New(irq *interrupts.Service) *PPU {
	return &PPU{irq: irq, mode: ModeOAM}
}

// Tick advances the PPU by one M-cycle (4 dots).
func (p *PPU) Tick() {
	if p.lcdc&0x80 == 0 {
		// PPU disabled: idle, LY frozen at 0, no dots elapse.
		return
	}

	for i := 0; i < 4; i++ {
		p.tickDot()
	}
}

func (p *PPU) tickDot() {
	p.dot++
	if p.dot < dotsPerLine {
		p.updateModeWithinLine()
		return
	}

	// end of line: advance LY, reset dot, check LYC, pick next mode.
	p.dot = 0
	p.ly++
	if p.ly == linesPerFrame {
		p.ly = 0
		p.frame++
		p.windowLine = 0
	}
	p.checkLYC()

	if p.ly >= ScreenHeight {
		p.enterMode(ModeVBlank)
		if p.ly == ScreenHeight {
			p.irq.Request(interrupts.VBlankFlag)
			p.frameReady = true
		}
		return
	}
	p.enterMode(ModeOAM)
}

func (p *PPU) updateModeWithinLine() {
	if p.ly >= ScreenHeight {
		return // whole line is VBlank already
	}
	switch {
	case p.dot == oamEnd+1:
		p.enterMode(ModeDraw)
	case p.dot == drawEnd+1:
		p.enterMode(ModeHBlank)
	}
}

// enterMode transitions to m, updating STAT's mode bits and requesting
// a STAT interrupt if the matching interrupt-source-select bit is set.
// Entering Draw additionally renders the current scanline.
func (p *PPU) enterMode(m Mode) {
	p.mode = m
	p.stat = (p.stat &^ 0x03) | uint8(m)

	switch m {
	case ModeHBlank:
		if p.stat&0x08 != 0 {
			p.irq.Request(interrupts.STATFlag)
		}
	case ModeVBlank:
		if p.stat&0x10 != 0 {
			p.irq.Request(interrupts.STATFlag)
		}
	case ModeOAM:
		if p.stat&0x20 != 0 {
			p.irq.Request(interrupts.STATFlag)
		}
	case ModeDraw:
		p.renderScanline()
	}
}

// checkLYC updates STAT bit 2 and requests the STAT interrupt on a
// rising coincidence.
func (p *PPU) checkLYC() {
	coincident := p.ly == p.lyc
	if coincident {
		p.stat |= 0x04
	} else {
		p.stat &^= 0x04
	}
	if coincident && p.stat&0x40 != 0 {
		p.irq.Request(interrupts.STATFlag)
	}
}

// HasFrame reports whether a frame has completed since the last
// ClearFrame.
func (p *PPU) HasFrame() bool { return p.frameReady }

// ClearFrame acknowledges the completed frame.
func (p *PPU) ClearFrame() { p.frameReady = false }

// FrameCount returns the number of frames completed since reset.
func (p *PPU) FrameCount() uint64 { return p.frame }

// LY returns the current scanline, for diagnostics/tests.
func (p *PPU) LY() uint8 { return p.ly }

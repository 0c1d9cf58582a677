package ppu

// renderScanline draws the current line (p.ly) into the framebuffer. It
// runs once per line, on entry to Draw mode. Palette application
// happens here, on sample, so the framebuffer holds final shade values
// (0..3) rather than raw colour IDs.
func (p *PPU) renderScanline() {
	if p.ly >= ScreenHeight {
		return
	}

	var bgColorID [ScreenWidth]uint8
	if p.lcdc&0x01 != 0 {
		p.renderBackground(&bgColorID)
	}
	if p.lcdc&0x20 != 0 {
		p.renderWindow(&bgColorID)
	}
	for x := 0; x < ScreenWidth; x++ {
		p.Framebuffer[p.ly][x] = applyPalette(p.bgp, bgColorID[x])
	}
	if p.lcdc&0x02 != 0 {
		p.renderObjects(&bgColorID)
	}
}

func applyPalette(palette uint8, colorID uint8) uint8 {
	return (palette >> (colorID * 2)) & 0x03
}

// tileRowBytes returns the two bytes encoding one row of 8 pixels for
// tileIndex, honouring LCDC bit 4's addressing mode. Used for BG/Window
// tile fetches only; objects always address unsigned (objTileRowBytes).
func (p *PPU) tileRowBytes(tileIndex uint8, row int) (lo, hi uint8) {
	var base int
	if p.lcdc&0x10 != 0 {
		base = int(tileIndex) * 16
	} else {
		base = 0x1000 + int(int8(tileIndex))*16
	}
	off := base + row*2
	return p.vram[off&0x1FFF], p.vram[(off+1)&0x1FFF]
}

// objTileRowBytes returns the two bytes encoding one row of 8 pixels for
// an object's tileIndex. Sprites always use unsigned 0x8000-relative
// addressing regardless of LCDC bit 4, which only affects BG/Window
// tile fetches.
func (p *PPU) objTileRowBytes(tileIndex uint8, row int) (lo, hi uint8) {
	off := int(tileIndex)*16 + row*2
	return p.vram[off&0x1FFF], p.vram[(off+1)&0x1FFF]
}

func colorIDAt(lo, hi uint8, bit int) uint8 {
	b0 := (lo >> bit) & 1
	b1 := (hi >> bit) & 1
	return b1<<1 | b0
}

func (p *PPU) renderBackground(out *[ScreenWidth]uint8) {
	mapBase := 0x1800 // 0x9800 - 0x8000
	if p.lcdc&0x08 != 0 {
		mapBase = 0x1C00 // 0x9C00 - 0x8000
	}

	srcY := int(p.ly) + int(p.scy)
	srcY &= 0xFF
	tileRow := srcY / 8
	pixelRow := srcY % 8

	for x := 0; x < ScreenWidth; x++ {
		srcX := (x + int(p.scx)) & 0xFF
		tileCol := srcX / 8
		pixelCol := srcX % 8

		tileIndex := p.vram[mapBase+tileRow*32+tileCol]
		lo, hi := p.tileRowBytes(tileIndex, pixelRow)
		out[x] = colorIDAt(lo, hi, 7-pixelCol)
	}
}

func (p *PPU) renderWindow(out *[ScreenWidth]uint8) {
	if int(p.ly) < int(p.wy) {
		return
	}

	mapBase := 0x1800
	if p.lcdc&0x40 != 0 {
		mapBase = 0x1C00
	}

	windowRow := p.windowLine
	tileRow := windowRow / 8
	pixelRow := windowRow % 8

	drawn := false
	for x := 0; x < ScreenWidth; x++ {
		wx := x - (int(p.wx) - 7)
		if wx < 0 {
			continue
		}
		drawn = true
		tileCol := wx / 8
		pixelCol := wx % 8

		tileIndex := p.vram[mapBase+tileRow*32+tileCol]
		lo, hi := p.tileRowBytes(tileIndex, pixelRow)
		out[x] = colorIDAt(lo, hi, 7-pixelCol)
	}
	if drawn {
		p.windowLine++
	}
}

// object mirrors one 4-byte OAM entry.
type object struct {
	y, x, tile, attr uint8
}

// renderObjects draws sprites over the already-computed
// background/window row. Priority between overlapping sprites is
// resolved by OAM index (lowest index wins) rather than hardware's
// X-coordinate ordering.
func (p *PPU) renderObjects(bgColorID *[ScreenWidth]uint8) {
	height := 8
	if p.lcdc&0x04 != 0 {
		height = 16
	}

	var written [ScreenWidth]bool
	for i := 0; i < 40; i++ {
		off := i * 4
		obj := object{
			y:    p.oam[off],
			x:    p.oam[off+1],
			tile: p.oam[off+2],
			attr: p.oam[off+3],
		}

		spriteY := int(obj.y) - 16
		if int(p.ly) < spriteY || int(p.ly) >= spriteY+height {
			continue
		}

		row := int(p.ly) - spriteY
		if obj.attr&0x40 != 0 { // Y flip
			row = height - 1 - row
		}

		tileIndex := obj.tile
		if height == 16 {
			tileIndex &^= 0x01
			if row >= 8 {
				tileIndex |= 0x01
				row -= 8
			}
		}

		lo, hi := p.objTileRowBytes(tileIndex, row)
		palette := p.obp0
		if obj.attr&0x10 != 0 {
			palette = p.obp1
		}
		behindBG := obj.attr&0x80 != 0

		for col := 0; col < 8; col++ {
			x := int(obj.x) - 8 + col
			if x < 0 || x >= ScreenWidth || written[x] {
				continue
			}
			bit := col
			if obj.attr&0x20 == 0 { // not X-flipped
				bit = 7 - col
			}
			colorID := colorIDAt(lo, hi, bit)
			if colorID == 0 {
				continue
			}
			if behindBG && bgColorID[x] != 0 {
				continue
			}
			p.Framebuffer[p.ly][x] = applyPalette(palette, colorID)
			written[x] = true
		}
	}
}

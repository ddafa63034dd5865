package ppu

// backgroundFetchCycle runs the 8-dot nametable/attribute/pattern
// fetch pipeline described in §4.3: one byte is fetched every other
// dot, the shift registers reload from the previous tile's bytes at
// the start of each new 8-dot group, and the scroll counters advance
// on the dots hardware actually advances them on.
func (p *PPU) backgroundFetchCycle() {
	fetchActive := (p.dot >= 1 && p.dot <= 256) || (p.dot >= 321 && p.dot <= 336)
	dummyFetch := p.dot >= 337 && p.dot <= 340

	if !fetchActive && !dummyFetch {
		if p.dot == 257 && p.renderingEnabled() {
			p.v.transferX(&p.t)
		}
		return
	}

	if p.renderingEnabled() {
		p.shiftRegisters()
	}

	if dummyFetch {
		return
	}

	phase := (p.dot - 1) % 8
	switch phase {
	case 0:
		p.reloadShiftRegisters()
		if p.renderingEnabled() {
			addr := 0x2000 | (p.v.data & 0x0FFF)
			p.nextTileID = p.readVRAM(addr)
		}
	case 2:
		if p.renderingEnabled() {
			addr := 0x23C0 | (p.v.data & 0x0C00) |
				((p.v.coarseY() >> 2) << 3) | (p.v.coarseX() >> 2)
			at := p.readVRAM(addr)
			shift := uint8(0)
			if p.v.coarseY()&0x02 != 0 {
				shift += 4
			}
			if p.v.coarseX()&0x02 != 0 {
				shift += 2
			}
			p.nextAttr = (at >> shift) & 0x03
		}
	case 4:
		if p.renderingEnabled() {
			table := uint16(0)
			if p.ctrl&ctrlBGTable != 0 {
				table = 0x1000
			}
			addr := table + uint16(p.nextTileID)*16 + p.v.fineY()
			p.nextPatternLo = p.bus.ChrRead(addr)
		}
	case 6:
		if p.renderingEnabled() {
			table := uint16(0)
			if p.ctrl&ctrlBGTable != 0 {
				table = 0x1000
			}
			addr := table + uint16(p.nextTileID)*16 + p.v.fineY() + 8
			p.nextPatternHi = p.bus.ChrRead(addr)
		}
	case 7:
		if p.renderingEnabled() {
			p.v.incrementCoarseX()
		}
	}

	if p.dot == 256 && p.renderingEnabled() {
		p.v.incrementFineY()
	}
}

// reloadShiftRegisters loads the low byte of each shift register with
// the tile fetched during the previous 8 dots; the high byte was left
// there by the previous shiftRegisters calls and keeps shifting out.
func (p *PPU) reloadShiftRegisters() {
	p.shiftPatternLo = (p.shiftPatternLo &^ 0x00FF) | uint16(p.nextPatternLo)
	p.shiftPatternHi = (p.shiftPatternHi &^ 0x00FF) | uint16(p.nextPatternHi)

	attrLo, attrHi := uint16(0), uint16(0)
	if p.nextAttr&0x01 != 0 {
		attrLo = 0x00FF
	}
	if p.nextAttr&0x02 != 0 {
		attrHi = 0x00FF
	}
	p.shiftAttrLo = (p.shiftAttrLo &^ 0x00FF) | attrLo
	p.shiftAttrHi = (p.shiftAttrHi &^ 0x00FF) | attrHi
}

func (p *PPU) shiftRegisters() {
	p.shiftPatternLo <<= 1
	p.shiftPatternHi <<= 1
	p.shiftAttrLo <<= 1
	p.shiftAttrHi <<= 1
}

// backgroundPixel reads out the pixel currently selected by fineX
// from the shift registers: a 2-bit color index plus a 2-bit palette
// select.
func (p *PPU) backgroundPixel() (pixel, palette uint8) {
	if p.mask&maskShowBG == 0 {
		return 0, 0
	}
	if p.dot-1 < 8 && p.mask&maskShowBGLeft == 0 {
		return 0, 0
	}

	mux := uint16(0x8000) >> p.fineX
	p0 := uint8(0)
	if p.shiftPatternLo&mux != 0 {
		p0 = 1
	}
	p1 := uint8(0)
	if p.shiftPatternHi&mux != 0 {
		p1 = 1
	}
	a0 := uint8(0)
	if p.shiftAttrLo&mux != 0 {
		a0 = 1
	}
	a1 := uint8(0)
	if p.shiftAttrHi&mux != 0 {
		a1 = 1
	}
	return p1<<1 | p0, a1<<1 | a0
}

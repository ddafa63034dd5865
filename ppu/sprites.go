package ppu

// Sprite attribute byte bits, matching OAM byte 2 for each of the 64
// primary-OAM entries.
const (
	attrPaletteMask = 0x03
	attrPriority    = 1 << 5
	attrFlipH       = 1 << 6
	attrFlipV       = 1 << 7
)

// evaluateSprites runs the secondary-OAM evaluation the hardware
// performs at dot 257 of each visible scanline: scan all 64 primary
// sprites, copy the first eight whose Y range covers the next
// scanline into secondary OAM, and set the overflow flag as soon as a
// ninth in-range sprite is found; the hardware's buggy diagonal scan
// is not reproduced. Unlike the background pipeline this runs once
// per scanline rather than dot-by-dot, a deliberate granularity cut
// recorded against the spec's background-only cycle-accuracy
// requirement.
func (p *PPU) evaluateSprites() {
	p.secondaryCount = 0
	p.spriteZeroOnLine = false
	height := 8
	if p.ctrl&ctrlSpriteSize != 0 {
		height = 16
	}

	nextLine := p.scanline + 1
	overflowScan := 0

	for i := 0; i < 64; i++ {
		// OAM Y is one less than the sprite's first displayed line
		top := int(p.oam[i*4]) + 1
		if nextLine < top || nextLine >= top+height {
			continue
		}
		if p.secondaryCount < 8 {
			p.secondary[p.secondaryCount] = spriteSlot{
				y:     p.oam[i*4],
				tile:  p.oam[i*4+1],
				attr:  p.oam[i*4+2],
				x:     p.oam[i*4+3],
				index: i,
			}
			if i == 0 {
				p.spriteZeroOnLine = true
			}
			p.secondaryCount++
		} else {
			overflowScan++
			if overflowScan >= 1 {
				p.spriteOverflow = true
				p.status |= statusSpriteOverflow
			}
		}
	}

	p.fetchSpritePatterns(nextLine, height)
}

// fetchSpritePatterns loads the pattern bytes for every sprite
// secondary OAM picked up this scanline, applying vertical flip and
// 8x16 table selection before the next scanline needs them.
func (p *PPU) fetchSpritePatterns(line, height int) {
	p.outCount = p.secondaryCount
	for i := 0; i < p.secondaryCount; i++ {
		s := p.secondary[i]
		row := line - (int(s.y) + 1)
		if s.attr&attrFlipV != 0 {
			row = height - 1 - row
		}

		var table uint16
		var tile uint16
		if height == 16 {
			table = uint16(s.tile&0x01) * 0x1000
			tile = uint16(s.tile &^ 0x01)
			if row >= 8 {
				tile++
				row -= 8
			}
		} else {
			tile = uint16(s.tile)
			if p.ctrl&ctrlSpriteTable != 0 {
				table = 0x1000
			}
		}

		addr := table + tile*16 + uint16(row)
		lo := p.bus.ChrRead(addr)
		hi := p.bus.ChrRead(addr + 8)
		if s.attr&attrFlipH != 0 {
			lo = reverseBits(lo)
			hi = reverseBits(hi)
		}

		p.outPatternLo[i] = lo
		p.outPatternHi[i] = hi
		p.outAttr[i] = s.attr & attrPaletteMask
		p.outX[i] = s.x
		p.outIsZero[i] = s.index == 0
	}
}

func reverseBits(b uint8) uint8 {
	var r uint8
	for i := 0; i < 8; i++ {
		r <<= 1
		r |= b & 1
		b >>= 1
	}
	return r
}

// spritePixel returns the sprite pixel visible at screen column x, if
// any: a nonzero color index, its palette, priority bit (0 = front of
// background), and whether it came from OAM slot 0.
func (p *PPU) spritePixel(x int) (pixel, palette, priority uint8, isZero bool) {
	if p.mask&maskShowSprites == 0 {
		return 0, 0, 0, false
	}
	if x < 8 && p.mask&maskShowSpriteLeft == 0 {
		return 0, 0, 0, false
	}

	for i := 0; i < p.outCount; i++ {
		offset := x - int(p.outX[i])
		if offset < 0 || offset > 7 {
			continue
		}
		bit := 7 - offset
		lo := (p.outPatternLo[i] >> bit) & 1
		hi := (p.outPatternHi[i] >> bit) & 1
		px := hi<<1 | lo
		if px == 0 {
			continue // transparent, keep scanning lower-priority slots
		}
		pr := uint8(0)
		if p.secondaryAttrAt(i)&attrPriority != 0 {
			pr = 1
		}
		return px, p.outAttr[i], pr, p.outIsZero[i] && p.spriteZeroOnLine
	}
	return 0, 0, 0, false
}

func (p *PPU) secondaryAttrAt(i int) uint8 {
	if i < p.secondaryCount {
		return p.secondary[i].attr
	}
	return 0
}

// Package ppu implements the NES 2C02 picture processing unit: its
// 262x341 scanline/dot frame geometry, the background fetch pipeline
// and scroll registers, the CPU-visible register window, and (per
// the supplemented feature set) per-scanline sprite evaluation.
package ppu

// Register addresses, relative to the $2000 base the bus decodes to
// before calling WriteRegister/ReadRegister.
const (
	RegCTRL   = 0
	RegMASK   = 1
	RegSTATUS = 2
	RegOAMADDR = 3
	RegOAMDATA = 4
	RegSCROLL = 5
	RegADDR   = 6
	RegDATA   = 7
)

// PPUCTRL bits.
const (
	ctrlNametableMask = 0x03
	ctrlIncrement     = 1 << 2
	ctrlSpriteTable   = 1 << 3
	ctrlBGTable       = 1 << 4
	ctrlSpriteSize    = 1 << 5
	ctrlNMIEnable     = 1 << 7
)

// PPUMASK bits.
const (
	maskGreyscale     = 1 << 0
	maskShowBGLeft    = 1 << 1
	maskShowSpriteLeft = 1 << 2
	maskShowBG        = 1 << 3
	maskShowSprites   = 1 << 4
)

// PPUSTATUS bits.
const (
	statusSpriteOverflow = 1 << 5
	statusSprite0Hit     = 1 << 6
	statusVBlank         = 1 << 7
)

const (
	width, height = 256, 240
	// the PPU ignores writes to most registers for this many of its
	// own cycles after reset/power-on, per §4.3
	resetLockCycles = 29658
)

// Mirror identifies how the cartridge wires the PPU's two physical
// nametable pages across the logical $2000-$2FFF window.
type Mirror uint8

const (
	MirrorHorizontal Mirror = iota
	MirrorVertical
	MirrorSingleLower
	MirrorSingleUpper
	MirrorFour
)

// Bus is the narrow handle the PPU borrows to reach CHR memory and
// the cartridge's mirroring mode. Like cpu.Bus, it never becomes a
// pointer back to a sibling component; the aggregate (system.System)
// is the only thing that wires PPU and cartridge together.
type Bus interface {
	ChrRead(addr uint16) uint8
	ChrWrite(addr uint16, v uint8)
	Mirroring() Mirror
}

// PPU is the 2C02 state machine.
type PPU struct {
	bus Bus

	ctrl, mask, status uint8
	oamAddr            uint8
	oam                [256]uint8

	nametables [2048]uint8
	paletteRAM [32]uint8

	v, t   loopy
	fineX  uint8
	wLatch bool

	readBuffer uint8
	openBus    uint8

	dot, scanline int
	frame         uint64
	oddFrame      bool

	cyclesSinceReset uint64

	nmiOccurred bool // vblank flag's internal twin, cleared by $2002 read

	frameBuf [width * height]rgb
	palette  [64]rgb

	// background pipeline (fetch.go)
	nextTileID, nextAttr            uint8
	nextPatternLo, nextPatternHi    uint8
	shiftPatternLo, shiftPatternHi  uint16
	shiftAttrLo, shiftAttrHi        uint16

	// sprite pipeline (sprites.go)
	secondary        [8]spriteSlot
	secondaryCount   int
	spriteOverflow   bool
	spriteZeroOnLine bool
	outPatternLo     [8]uint8
	outPatternHi     [8]uint8
	outAttr          [8]uint8
	outX             [8]uint8
	outIsZero        [8]bool
	outCount         int
}

type spriteSlot struct {
	y, tile, attr, x uint8
	index            int
}

// New constructs a PPU wired to bus.
func New(bus Bus) *PPU {
	p := &PPU{bus: bus, palette: systemPalette}
	p.scanline = -1
	p.status = statusVBlank
	return p
}

// Reset puts the PPU back into its post-power-on state and re-arms
// the register-write lockout window.
func (p *PPU) Reset() {
	p.ctrl, p.mask = 0, 0
	p.wLatch = false
	p.oddFrame = false
	p.scanline = -1
	p.dot = 0
	p.cyclesSinceReset = 0
}

// NMILine reports the current level of the PPU-to-CPU NMI wire: high
// whenever vblank has occurred and NMI generation is enabled in
// PPUCTRL. The system composition root samples this once per PPU tick
// and relays it into cpu.CPU.SetNMILine.
func (p *PPU) NMILine() bool {
	return p.nmiOccurred && p.ctrl&ctrlNMIEnable != 0
}

// FrameBuffer returns the most recently completed frame as packed RGB
// triples, row-major, 256x240.
func (p *PPU) FrameBuffer() []rgb { return p.frameBuf[:] }

// Dot and Scanline expose the raster position for trace snapshots
// (the PPU:dot,scanline field of the oracle format).
func (p *PPU) Dot() int      { return p.dot }
func (p *PPU) Scanline() int { return p.scanline }

func (p *PPU) renderingEnabled() bool {
	return p.mask&(maskShowBG|maskShowSprites) != 0
}

// Tick advances the PPU by exactly one dot, per §4.1's ÷4 master
// clock divider.
func (p *PPU) Tick() {
	p.cyclesSinceReset++

	switch {
	case p.scanline == -1:
		p.preRenderScanline()
	case p.scanline >= 0 && p.scanline <= 239:
		p.visibleScanline()
	case p.scanline == 241:
		if p.dot == 1 {
			p.nmiOccurred = true
			p.status |= statusVBlank
		}
	}

	p.advanceDot()
}

func (p *PPU) advanceDot() {
	p.dot++
	if p.dot > 340 {
		p.dot = 0
		p.scanline++
		if p.scanline > 260 {
			p.scanline = -1
			p.frame++
			p.oddFrame = !p.oddFrame
		}
	}
	// the pre-render scanline's dot 0 is skipped on odd frames when
	// rendering is enabled, shortening that frame by one dot (§4.3)
	if p.scanline == -1 && p.dot == 0 && p.oddFrame && p.renderingEnabled() {
		p.dot = 1
	}
}

func (p *PPU) preRenderScanline() {
	if p.dot == 1 {
		p.status &^= statusVBlank | statusSprite0Hit | statusSpriteOverflow
		p.nmiOccurred = false
	}
	p.backgroundFetchCycle()
	if p.dot >= 280 && p.dot <= 304 && p.renderingEnabled() {
		p.v.transferY(&p.t)
	}
}

func (p *PPU) visibleScanline() {
	p.backgroundFetchCycle()
	if p.dot >= 1 && p.dot <= 256 {
		p.renderPixel()
	}
	if p.dot == 257 {
		p.evaluateSprites()
	}
}

func (p *PPU) renderPixel() {
	x := p.dot - 1
	y := p.scanline
	if x < 0 || x >= width || y < 0 || y >= height {
		return
	}

	bgPixel, bgPalette := p.backgroundPixel()
	sprPixel, sprPalette, sprPriority, isZero := p.spritePixel(x)

	var colorIdx uint8
	switch {
	case bgPixel == 0 && sprPixel == 0:
		colorIdx = p.paletteRAM[0]
	case bgPixel == 0:
		colorIdx = p.paletteAt(0x10 + sprPalette*4 + sprPixel)
	case sprPixel == 0:
		colorIdx = p.paletteAt(bgPalette*4 + bgPixel)
	default:
		if isZero && x != 255 {
			p.status |= statusSprite0Hit
		}
		if sprPriority == 0 {
			colorIdx = p.paletteAt(0x10 + sprPalette*4 + sprPixel)
		} else {
			colorIdx = p.paletteAt(bgPalette*4 + bgPixel)
		}
	}

	p.frameBuf[y*width+x] = p.palette[colorIdx&0x3F]
}

func (p *PPU) paletteAt(i uint8) uint8 {
	if i >= 32 {
		i %= 32
	}
	return p.paletteRAM[mirrorPaletteIndex(i)]
}

// mirrorPaletteIndex folds the four "background color" mirrors
// ($10/$14/$18/$1C) onto their universal-background counterparts
// ($00/$04/$08/$0C), per §4.3.
func mirrorPaletteIndex(i uint8) uint8 {
	if i >= 0x10 && i%4 == 0 {
		return i - 0x10
	}
	return i
}

// WriteRegister handles a CPU write to one of the eight $2000-$2007
// ports (already decoded and mirrored down to 0-7 by the bus fabric).
func (p *PPU) WriteRegister(reg uint8, v uint8) {
	p.openBus = v

	if p.cyclesSinceReset < resetLockCycles {
		switch reg {
		case RegCTRL, RegMASK, RegSCROLL, RegADDR:
			return
		}
	}

	switch reg {
	case RegCTRL:
		p.ctrl = v
		p.t.data = (p.t.data &^ 0x0C00) | (uint16(v&ctrlNametableMask) << 10)
	case RegMASK:
		p.mask = v
	case RegOAMADDR:
		p.oamAddr = v
	case RegOAMDATA:
		p.oam[p.oamAddr] = v
		p.oamAddr++
	case RegSCROLL:
		if !p.wLatch {
			p.t.setCoarseX(uint16(v >> 3))
			p.fineX = v & 0x07
			p.wLatch = true
		} else {
			p.t.setCoarseY(uint16(v >> 3))
			p.t.setFineY(uint16(v & 0x07))
			p.wLatch = false
		}
	case RegADDR:
		if !p.wLatch {
			p.t.data = (p.t.data & 0x00FF) | (uint16(v&0x3F) << 8)
			p.wLatch = true
		} else {
			p.t.data = (p.t.data & 0xFF00) | uint16(v)
			p.v = p.t
			p.wLatch = false
		}
	case RegDATA:
		p.writeVRAM(p.v.data, v)
		p.incrementVRAM()
	}
}

// ReadRegister handles a CPU read from $2000-$2007. Ports with no
// readable latch (CTRL/MASK/SCROLL/ADDR/OAMADDR) return the PPU's
// open-bus shadow of the last value written to any port, matching
// real hardware's floating-bus behavior.
func (p *PPU) ReadRegister(reg uint8) uint8 {
	switch reg {
	case RegSTATUS:
		v := (p.status & 0xE0) | (p.openBus & 0x1F)
		p.status &^= statusVBlank
		p.nmiOccurred = false
		p.wLatch = false
		return v
	case RegOAMDATA:
		return p.oam[p.oamAddr]
	case RegDATA:
		v := p.readBuffer
		p.readBuffer = p.readVRAM(p.v.data)
		if p.v.data&0x3FFF >= 0x3F00 {
			v = p.readBuffer // palette reads bypass the read-buffer delay
		}
		p.incrementVRAM()
		return v
	}
	return p.openBus
}

func (p *PPU) incrementVRAM() {
	if p.ctrl&ctrlIncrement != 0 {
		p.v.data += 32
	} else {
		p.v.data++
	}
}

// WriteOAMByte services $4014 OAM DMA, one byte per call; the CPU
// stall that makes the 256-byte copy take 513/514 cycles lives in
// system.System, not here.
func (p *PPU) WriteOAMByte(offset uint8, v uint8) {
	p.oam[offset] = v
}

func (p *PPU) readVRAM(addr uint16) uint8 {
	a := addr % 0x4000
	switch {
	case a < 0x2000:
		return p.bus.ChrRead(a)
	case a < 0x3F00:
		return p.nametables[p.mirror(a)]
	default:
		return p.paletteAt(uint8((a - 0x3F00) % 0x20))
	}
}

func (p *PPU) writeVRAM(addr uint16, v uint8) {
	a := addr % 0x4000
	switch {
	case a < 0x2000:
		p.bus.ChrWrite(a, v)
	case a < 0x3F00:
		p.nametables[p.mirror(a)] = v
	default:
		i := (a - 0x3F00) % 0x20
		p.paletteRAM[mirrorPaletteIndex(uint8(i))] = v
	}
}

// mirror resolves a $2000-$2FFF nametable address down to an index
// into the PPU's 2KiB of VRAM, per the cartridge's mirroring mode.
func (p *PPU) mirror(addr uint16) uint16 {
	a := (addr - 0x2000) % 0x1000
	table := a / 0x400
	offset := a % 0x400

	switch p.bus.Mirroring() {
	case MirrorVertical:
		return (table%2)*0x400 + offset
	case MirrorHorizontal:
		return (table/2)*0x400 + offset
	case MirrorSingleLower:
		return offset
	case MirrorSingleUpper:
		return 0x400 + offset
	default: // four-screen: this model has no extra cartridge VRAM,
		// so it degrades to vertical mirroring rather than panicking
		return (table%2)*0x400 + offset
	}
}

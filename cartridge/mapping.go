package cartridge

// Kind identifies which bank-mapping variant a Cartridge implements.
// Extending this closed union (plus one more branch in each dispatch
// switch below) is the system's one extension point per §4.5/§9; this
// repository ships only the reference variant, NROM (mapper 0).
type Kind uint8

const (
	KindNROM Kind = iota
)

const (
	prgRAMSize = 8 * 1024
	prgROMSize = 32 * 1024
)

// Cartridge is the constructed, playable form of a ROMImage: a
// mapping variant plus the fixed-size backing arrays it owns. All
// CPU/PPU accesses to the cartridge address ranges are required (§3
// invariant) to go through ReadCPU/WriteCPU/ReadPPU/WritePPU.
type Cartridge struct {
	kind   Kind
	mirror Mirror

	prgRAM [prgRAMSize]byte
	prgROM [prgROMSize]byte
	chrROM []byte // 8KiB, RAM-backed when the image carries no CHR-ROM
	chrIsRAM bool
}

// New constructs the mapping variant named by image's mapper number,
// or ErrUnsupportedMapper if this repository doesn't carry that
// variant (§7 error kind 3: the core must remain untouched, which
// New satisfies simply by not mutating anything until it is sure it
// can build a complete Cartridge).
func New(image *ROMImage) (*Cartridge, error) {
	switch image.MapperNumber() {
	case 0:
		return newNROM(image), nil
	default:
		return nil, ErrUnsupportedMapper
	}
}

// newNROM builds the reference mapping described in §4.5: 8KiB fixed
// PRG-RAM at $6000-$7FFF, 32KiB PRG-ROM at $8000-$FFFF (a 16KiB image
// mirrored into both halves), and 8KiB CHR-ROM (zero-filled up to
// size if the image is smaller, RAM-backed if the image carries none).
func newNROM(image *ROMImage) *Cartridge {
	c := &Cartridge{kind: KindNROM, mirror: image.mirror, chrIsRAM: image.chrIsRAM}

	if len(image.prg) >= prgROMSize {
		copy(c.prgROM[:], image.prg[:prgROMSize])
	} else {
		copy(c.prgROM[:], image.prg)
		copy(c.prgROM[prgROMSize/2:], image.prg) // 16KiB image: mirror into upper half
	}

	c.chrROM = make([]byte, chrBankSize)
	copy(c.chrROM, image.chr)

	return c
}

// Mirroring reports the nametable mirroring mode this cartridge wires
// into the PPU.
func (c *Cartridge) Mirroring() Mirror { return c.mirror }

// ReadCPU services a CPU-side read in the cartridge's $4020-$FFFF
// range, already decoded there by the bus fabric.
func (c *Cartridge) ReadCPU(addr uint16) uint8 {
	switch c.kind {
	case KindNROM:
		return c.readCPUNROM(addr)
	default:
		return 0
	}
}

// WriteCPU services a CPU-side write in $4020-$FFFF. Writes landing
// on ROM are silently ignored (§7: "not an error").
func (c *Cartridge) WriteCPU(addr uint16, v uint8) {
	switch c.kind {
	case KindNROM:
		c.writeCPUNROM(addr, v)
	}
}

// ReadPPU services a PPU-side read in $0000-$1FFF (CHR space).
func (c *Cartridge) ReadPPU(addr uint16) uint8 {
	switch c.kind {
	case KindNROM:
		return c.readPPUNROM(addr)
	default:
		return 0
	}
}

// WritePPU services a PPU-side write in $0000-$1FFF; a no-op unless
// the cartridge's CHR space is RAM-backed.
func (c *Cartridge) WritePPU(addr uint16, v uint8) {
	switch c.kind {
	case KindNROM:
		c.writePPUNROM(addr, v)
	}
}

func (c *Cartridge) readCPUNROM(addr uint16) uint8 {
	switch {
	case addr >= 0x6000 && addr < 0x8000:
		return c.prgRAM[addr-0x6000]
	case addr >= 0x8000:
		return c.prgROM[addr-0x8000]
	default:
		return 0
	}
}

func (c *Cartridge) writeCPUNROM(addr uint16, v uint8) {
	if addr >= 0x6000 && addr < 0x8000 {
		c.prgRAM[addr-0x6000] = v
	}
	// writes to $8000-$FFFF target ROM on the reference mapping: ignored.
}

func (c *Cartridge) readPPUNROM(addr uint16) uint8 {
	if int(addr) < len(c.chrROM) {
		return c.chrROM[addr]
	}
	return 0
}

func (c *Cartridge) writePPUNROM(addr uint16, v uint8) {
	if c.chrIsRAM && int(addr) < len(c.chrROM) {
		c.chrROM[addr] = v
	}
}

package ppu

// rgb is one entry of the NES's fixed 64-color master palette.
type rgb struct{ r, g, b uint8 }

// ARGB packs the color as an opaque 0xAARRGGBB word, the pixel format
// the core's external interface (§6) exposes the frame buffer in.
func (c rgb) ARGB() uint32 {
	return 0xFF000000 | uint32(c.r)<<16 | uint32(c.g)<<8 | uint32(c.b)
}

// LoadPalette overrides the 64-entry system color table from a raw
// .pal file's bytes (64 RGB triples, 192 bytes), the common on-disk
// format the palette-file collaborator layer (§1: out of core scope,
// but its boundary with the core is this one call) hands the core.
// Fewer than 64 triples leaves the remaining entries at their default.
func (p *PPU) LoadPalette(rgbTriples []byte) {
	n := len(rgbTriples) / 3
	if n > 64 {
		n = 64
	}
	for i := 0; i < n; i++ {
		p.palette[i] = rgb{rgbTriples[i*3], rgbTriples[i*3+1], rgbTriples[i*3+2]}
	}
}

// systemPalette maps a 6-bit PPU color index to its display RGB. The
// NES can only ever show these 64 colors; palette RAM just selects
// among them. It seeds PPU.palette, which LoadPalette may override.
var systemPalette = [64]rgb{
	{0x66, 0x66, 0x66}, {0x00, 0x2A, 0x88}, {0x14, 0x12, 0xA7}, {0x3B, 0x00, 0xA4},
	{0x5C, 0x00, 0x7E}, {0x6E, 0x00, 0x40}, {0x6C, 0x06, 0x00}, {0x56, 0x1D, 0x00},
	{0x33, 0x35, 0x00}, {0x0B, 0x48, 0x00}, {0x00, 0x52, 0x00}, {0x00, 0x4F, 0x08},
	{0x00, 0x40, 0x4D}, {0x00, 0x00, 0x00}, {0x00, 0x00, 0x00}, {0x00, 0x00, 0x00},
	{0xAD, 0xAD, 0xAD}, {0x15, 0x5F, 0xD9}, {0x42, 0x40, 0xFF}, {0x75, 0x27, 0xFE},
	{0xA0, 0x1A, 0xCC}, {0xB7, 0x1E, 0x7B}, {0xB5, 0x31, 0x20}, {0x99, 0x4E, 0x00},
	{0x6B, 0x6D, 0x00}, {0x38, 0x87, 0x00}, {0x0C, 0x93, 0x00}, {0x00, 0x8F, 0x32},
	{0x00, 0x7C, 0x8D}, {0x00, 0x00, 0x00}, {0x00, 0x00, 0x00}, {0x00, 0x00, 0x00},
	{0xFF, 0xFE, 0xFF}, {0x64, 0xB0, 0xFF}, {0x92, 0x90, 0xFF}, {0xC6, 0x76, 0xFF},
	{0xF3, 0x6A, 0xFF}, {0xFE, 0x6E, 0xCC}, {0xFE, 0x81, 0x70}, {0xEA, 0x9E, 0x22},
	{0xBC, 0xBE, 0x00}, {0x88, 0xD8, 0x00}, {0x5C, 0xE4, 0x30}, {0x45, 0xE0, 0x82},
	{0x48, 0xCD, 0xDE}, {0x4F, 0x4F, 0x4F}, {0x00, 0x00, 0x00}, {0x00, 0x00, 0x00},
	{0xFF, 0xFE, 0xFF}, {0xC0, 0xDF, 0xFF}, {0xD3, 0xD2, 0xFF}, {0xE8, 0xC8, 0xFF},
	{0xFB, 0xC2, 0xFF}, {0xFE, 0xC4, 0xEA}, {0xFE, 0xCC, 0xC5}, {0xF7, 0xD8, 0xA5},
	{0xE4, 0xE5, 0x94}, {0xCF, 0xEF, 0x96}, {0xBD, 0xF4, 0xAB}, {0xB3, 0xF3, 0xCC},
	{0xB5, 0xEB, 0xF2}, {0xB8, 0xB8, 0xB8}, {0x00, 0x00, 0x00}, {0x00, 0x00, 0x00},
}

package ppu

import "testing"

func TestReverseBits(t *testing.T) {
	cases := map[uint8]uint8{
		0b0000_0001: 0b1000_0000,
		0b1111_0000: 0b0000_1111,
		0b1010_1010: 0b0101_0101,
		0x00:        0x00,
	}
	for in, want := range cases {
		if got := reverseBits(in); got != want {
			t.Errorf("reverseBits(%08b) = %08b, want %08b", in, got, want)
		}
	}
}

func TestEvaluateSpritesCapsAtEightAndSetsOverflow(t *testing.T) {
	p, _ := newTestPPU()
	p.mask = maskShowSprites
	for i := 0; i < 10; i++ {
		p.oam[i*4] = 5 // all on-screen at row 5 for an 8px-tall sprite starting line 6
	}
	for i := 10; i < 64; i++ {
		p.oam[i*4] = 0xFF // the rest off-screen
	}
	p.scanline = 5
	p.evaluateSprites()

	if p.secondaryCount != 8 {
		t.Fatalf("secondaryCount = %d, want 8", p.secondaryCount)
	}
	if !p.spriteOverflow || p.status&statusSpriteOverflow == 0 {
		t.Fatalf("expected spriteOverflow to be set with 10 in-range sprites")
	}
}

func TestEvaluateSpritesTracksSpriteZero(t *testing.T) {
	p, _ := newTestPPU()
	p.oam[0] = 10 // sprite 0 at row 10
	p.scanline = 10
	p.evaluateSprites()
	if !p.spriteZeroOnLine {
		t.Fatalf("sprite 0 should be flagged present on this line")
	}
}

func TestFetchSpritePatternsHonors8x16TableSelect(t *testing.T) {
	p, b := newTestPPU()
	p.oam[0], p.oam[1], p.oam[2], p.oam[3] = 0, 0x11, 0, 20 // tile index odd -> table 0x1000
	for i := 1; i < 64; i++ {
		p.oam[i*4] = 0xFF // every other sprite off-screen
	}
	b.chr[0x1000+16*0x10] = 0xAA
	p.scanline = 0
	p.ctrl |= ctrlSpriteSize
	p.evaluateSprites()

	if p.outCount != 1 {
		t.Fatalf("outCount = %d, want 1", p.outCount)
	}
	if p.outPatternLo[0] != 0xAA {
		t.Fatalf("outPatternLo[0] = %#x, want 0xAA (8x16 odd tile selects $1000 table)", p.outPatternLo[0])
	}
}

func TestFetchSpritePatternsAppliesHorizontalFlip(t *testing.T) {
	p, b := newTestPPU()
	p.oam[0], p.oam[1], p.oam[2], p.oam[3] = 0, 0x01, attrFlipH, 0
	b.chr[0x01*16] = 0b1100_0001
	p.scanline = 0
	p.evaluateSprites()

	if want := uint8(0b1000_0011); p.outPatternLo[0] != want {
		t.Fatalf("outPatternLo[0] = %08b, want %08b (bit-reversed)", p.outPatternLo[0], want)
	}
}

func TestFetchSpritePatternsAppliesVerticalFlip(t *testing.T) {
	p, b := newTestPPU()
	p.oam[0], p.oam[1], p.oam[2], p.oam[3] = 0, 0x01, attrFlipV, 0
	b.chr[0x01*16+7] = 0x55 // row 7's plane-0 byte
	p.scanline = 0          // row 0 of the sprite, flipped reads row 7
	p.evaluateSprites()

	if p.outPatternLo[0] != 0x55 {
		t.Fatalf("outPatternLo[0] = %#x, want 0x55 (vertical flip should read the opposite row)", p.outPatternLo[0])
	}
}

func TestSpritePixelRespectsLeftColumnMask(t *testing.T) {
	p, _ := newTestPPU()
	p.mask = maskShowSprites // maskShowSpriteLeft NOT set
	p.outCount = 1
	p.outX[0] = 3 // covers columns 3..10, all opaque
	p.outPatternLo[0] = 0xFF
	p.outPatternHi[0] = 0

	if px, _, _, _ := p.spritePixel(3); px != 0 {
		t.Fatalf("pixel at x=3 should be masked off in the left 8 columns")
	}
	if px, _, _, _ := p.spritePixel(8); px == 0 {
		t.Fatalf("pixel at x=8 should render once past the masked columns")
	}
}

func TestSpritePixelSkipsTransparentToLowerPrioritySlot(t *testing.T) {
	p, _ := newTestPPU()
	p.mask = maskShowSprites | maskShowSpriteLeft
	p.outCount = 2
	p.outX[0], p.outPatternLo[0], p.outPatternHi[0] = 0, 0, 0 // fully transparent
	p.outX[1], p.outPatternLo[1], p.outPatternHi[1] = 0, 0x80, 0
	p.outAttr[1] = 2

	px, pal, _, _ := p.spritePixel(0)
	if px == 0 {
		t.Fatalf("expected the second, opaque slot to show through")
	}
	if pal != 2 {
		t.Fatalf("palette = %d, want 2 from the visible slot", pal)
	}
}

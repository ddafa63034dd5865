package ppu

import "testing"

type testBus struct {
	chr  [0x2000]uint8
	mirr Mirror
}

func (b *testBus) ChrRead(addr uint16) uint8     { return b.chr[addr%0x2000] }
func (b *testBus) ChrWrite(addr uint16, v uint8) { b.chr[addr%0x2000] = v }
func (b *testBus) Mirroring() Mirror             { return b.mirr }

func newTestPPU() (*PPU, *testBus) {
	b := &testBus{mirr: MirrorVertical}
	p := New(b)
	p.cyclesSinceReset = resetLockCycles // skip the post-reset lockout by default
	return p, b
}

func TestWriteRegisterLockedOutAfterReset(t *testing.T) {
	p, _ := newTestPPU()
	p.cyclesSinceReset = 0
	p.WriteRegister(RegCTRL, 0xFF)
	if p.ctrl != 0 {
		t.Fatalf("CTRL write during lockout took effect: %#x", p.ctrl)
	}
	p.cyclesSinceReset = resetLockCycles
	p.WriteRegister(RegCTRL, 0x80)
	if p.ctrl != 0x80 {
		t.Fatalf("CTRL = %#x after lockout, want 0x80", p.ctrl)
	}
}

func TestWriteRegisterOAMDATAIgnoresLockout(t *testing.T) {
	p, _ := newTestPPU()
	p.cyclesSinceReset = 0
	p.WriteRegister(RegOAMADDR, 0x10)
	p.WriteRegister(RegOAMDATA, 0x42)
	if p.oam[0x10] != 0x42 {
		t.Fatalf("OAMDATA write ignored during lockout, got %#x", p.oam[0x10])
	}
	if p.oamAddr != 0x11 {
		t.Fatalf("oamAddr = %#x, want 0x11 (auto-increment)", p.oamAddr)
	}
}

func TestScrollAndAddrLatchToggle(t *testing.T) {
	p, _ := newTestPPU()
	p.WriteRegister(RegSCROLL, 0x7D) // coarseX=15, fineX=5
	if !p.wLatch {
		t.Fatalf("first SCROLL write should set the latch")
	}
	if p.t.coarseX() != 15 || p.fineX != 5 {
		t.Fatalf("coarseX=%d fineX=%d, want 15/5", p.t.coarseX(), p.fineX)
	}
	p.WriteRegister(RegSCROLL, 0x5E) // coarseY=11, fineY=6
	if p.wLatch {
		t.Fatalf("second SCROLL write should clear the latch")
	}
	if p.t.coarseY() != 11 || p.t.fineY() != 6 {
		t.Fatalf("coarseY=%d fineY=%d, want 11/6", p.t.coarseY(), p.t.fineY())
	}
}

func TestAddrRegisterLoadsVOnSecondWrite(t *testing.T) {
	p, _ := newTestPPU()
	p.WriteRegister(RegADDR, 0x21)
	if p.v.data != 0 {
		t.Fatalf("v updated before the second ADDR write")
	}
	p.WriteRegister(RegADDR, 0x08)
	if p.v.data != 0x2108 {
		t.Fatalf("v = %#x, want 0x2108", p.v.data)
	}
}

func TestDataReadIsBufferedExceptPalette(t *testing.T) {
	p, b := newTestPPU()
	b.chr[0x0010] = 0x99
	p.WriteRegister(RegADDR, 0x00)
	p.WriteRegister(RegADDR, 0x10)
	first := p.ReadRegister(RegDATA)
	if first == 0x99 {
		t.Fatalf("first DATA read should return the stale buffer, not the fresh byte")
	}
	second := p.ReadRegister(RegDATA)
	if second != 0x99 {
		t.Fatalf("second DATA read = %#x, want 0x99", second)
	}

	p.WriteRegister(RegADDR, 0x3F)
	p.WriteRegister(RegADDR, 0x05)
	p.paletteRAM[5] = 0x2C
	if v := p.ReadRegister(RegDATA); v != 0x2C {
		t.Fatalf("palette DATA read = %#x, want 0x2C (no buffering delay)", v)
	}
}

func TestDataIncrementHonorsCtrlBit(t *testing.T) {
	p, _ := newTestPPU()
	p.WriteRegister(RegADDR, 0x20)
	p.WriteRegister(RegADDR, 0x00)
	p.ReadRegister(RegDATA)
	if p.v.data != 0x2001 {
		t.Fatalf("v = %#x after DATA read, want +1 increment", p.v.data)
	}

	p.WriteRegister(RegCTRL, ctrlIncrement)
	p.ReadRegister(RegDATA)
	if p.v.data != 0x2021 {
		t.Fatalf("v = %#x after DATA read with increment bit, want +32", p.v.data)
	}
}

func TestStatusReadClearsVBlankAndLatch(t *testing.T) {
	p, _ := newTestPPU()
	p.status |= statusVBlank
	p.nmiOccurred = true
	p.wLatch = true
	v := p.ReadRegister(RegSTATUS)
	if v&statusVBlank == 0 {
		t.Fatalf("STATUS read should report vblank was set")
	}
	if p.status&statusVBlank != 0 {
		t.Fatalf("STATUS read should clear vblank")
	}
	if p.nmiOccurred {
		t.Fatalf("STATUS read should clear the internal nmiOccurred latch")
	}
	if p.wLatch {
		t.Fatalf("STATUS read should clear the scroll/addr write latch")
	}
}

func TestNMILineRequiresEnableAndOccurred(t *testing.T) {
	p, _ := newTestPPU()
	if p.NMILine() {
		t.Fatalf("NMILine should be low before vblank")
	}
	p.nmiOccurred = true
	if p.NMILine() {
		t.Fatalf("NMILine should stay low without ctrlNMIEnable")
	}
	p.ctrl |= ctrlNMIEnable
	if !p.NMILine() {
		t.Fatalf("NMILine should be high once vblank occurred and NMI is enabled")
	}
}

func TestVBlankSetsAtDot1Scanline241(t *testing.T) {
	p, _ := newTestPPU()
	p.scanline = 241
	p.dot = 1
	p.Tick()
	if !p.nmiOccurred || p.status&statusVBlank == 0 {
		t.Fatalf("vblank should be set on scanline 241 dot 1")
	}
}

func TestPreRenderClearsStatusFlags(t *testing.T) {
	p, _ := newTestPPU()
	p.scanline = -1
	p.dot = 1
	p.status = statusVBlank | statusSprite0Hit | statusSpriteOverflow
	p.Tick()
	if p.status != 0 {
		t.Fatalf("status = %#x after pre-render dot 1, want cleared", p.status)
	}
}

func TestFrameGeometryWraps(t *testing.T) {
	p, _ := newTestPPU()
	p.scanline, p.dot = 260, 340
	startFrame := p.frame
	p.Tick()
	if p.scanline != -1 || p.dot != 0 {
		t.Fatalf("scanline=%d dot=%d after wraparound, want -1/0", p.scanline, p.dot)
	}
	if p.frame != startFrame+1 {
		t.Fatalf("frame counter did not advance across wraparound")
	}
}

func TestOddFrameSkipsPreRenderDot0(t *testing.T) {
	p, _ := newTestPPU()
	p.mask = maskShowBG
	p.oddFrame = false // frame 0 is even; the frame that starts at the wrap is odd
	p.scanline, p.dot = 260, 340
	p.Tick()
	if p.dot != 1 {
		t.Fatalf("dot = %d, want 1 (pre-render dot 0 skipped on odd frame while rendering)", p.dot)
	}
}

func TestMirrorVertical(t *testing.T) {
	p, b := newTestPPU()
	b.mirr = MirrorVertical
	if got := p.mirror(0x2000); got != 0x000 {
		t.Errorf("nametable 0 -> %#x, want 0x000", got)
	}
	if got := p.mirror(0x2800); got != 0x000 {
		t.Errorf("nametable 2 -> %#x, want 0x000 (mirrors nametable 0)", got)
	}
	if got := p.mirror(0x2400); got != 0x400 {
		t.Errorf("nametable 1 -> %#x, want 0x400", got)
	}
}

func TestMirrorPaletteIndexFoldsBackgroundMirrors(t *testing.T) {
	cases := map[uint8]uint8{0x10: 0x00, 0x14: 0x04, 0x18: 0x08, 0x1C: 0x0C, 0x11: 0x11, 0x00: 0x00}
	for in, want := range cases {
		if got := mirrorPaletteIndex(in); got != want {
			t.Errorf("mirrorPaletteIndex(%#x) = %#x, want %#x", in, got, want)
		}
	}
}

package cartridge

import "testing"

// buildINES assembles a minimal iNES-1 image: header, prgUnits x 16KiB
// of PRG (filled with a marker byte per bank), chrUnits x 8KiB of CHR.
func buildINES(prgUnits, chrUnits, flags6, flags7 uint8) []byte {
	h := make([]byte, headerSize)
	copy(h, magic)
	h[4] = prgUnits
	h[5] = chrUnits
	h[6] = flags6
	h[7] = flags7

	data := append([]byte{}, h...)
	for b := uint8(0); b < prgUnits; b++ {
		bank := make([]byte, prgBankSize)
		for i := range bank {
			bank[i] = b + 1
		}
		data = append(data, bank...)
	}
	for b := uint8(0); b < chrUnits; b++ {
		bank := make([]byte, chrBankSize)
		for i := range bank {
			bank[i] = 0xC0 + b
		}
		data = append(data, bank...)
	}
	return data
}

func TestParseROMRejectsBadMagic(t *testing.T) {
	if _, err := ParseROM([]byte("not a rom")); err != ErrBadHeader {
		t.Fatalf("err = %v, want ErrBadHeader", err)
	}
}

func TestParseROMRejectsTruncatedPayload(t *testing.T) {
	data := buildINES(2, 1, 0, 0)
	if _, err := ParseROM(data[:len(data)-100]); err != ErrTruncatedROM {
		t.Fatalf("err = %v, want ErrTruncatedROM", err)
	}
}

func TestParseROMMapperNumberINES1(t *testing.T) {
	// mapper 0x21: low nibble 1 from flags6 bit4-7, high nibble 2 from flags7
	data := buildINES(1, 1, 0x10, 0x20)
	img, err := ParseROM(data)
	if err != nil {
		t.Fatalf("ParseROM: %v", err)
	}
	if img.MapperNumber() != 0x21 {
		t.Fatalf("mapper = %#x, want 0x21", img.MapperNumber())
	}
}

func TestParseROMMirroring(t *testing.T) {
	cases := []struct {
		flags6 uint8
		want   Mirror
	}{
		{0x00, MirrorHorizontal},
		{0x01, MirrorVertical},
		{0x08, MirrorFourScreen},
	}
	for _, tc := range cases {
		img, err := ParseROM(buildINES(1, 1, tc.flags6, 0))
		if err != nil {
			t.Fatalf("ParseROM: %v", err)
		}
		if img.Mirroring() != tc.want {
			t.Errorf("flags6=%#x: mirror = %v, want %v", tc.flags6, img.Mirroring(), tc.want)
		}
	}
}

func TestParseROMCHRRAMWhenZeroUnits(t *testing.T) {
	img, err := ParseROM(buildINES(1, 0, 0, 0))
	if err != nil {
		t.Fatalf("ParseROM: %v", err)
	}
	if !img.chrIsRAM || len(img.chr) != chrBankSize {
		t.Fatalf("expected an 8KiB zero-filled CHR-RAM bank")
	}
}

func TestNewRejectsUnsupportedMapper(t *testing.T) {
	img, _ := ParseROM(buildINES(1, 1, 0x10, 0x00)) // mapper 1
	if _, err := New(img); err != ErrUnsupportedMapper {
		t.Fatalf("err = %v, want ErrUnsupportedMapper", err)
	}
}

func TestNROM16KiBPRGMirrorsIntoUpperHalf(t *testing.T) {
	img, err := ParseROM(buildINES(1, 1, 0, 0)) // mapper 0, 16KiB PRG
	if err != nil {
		t.Fatalf("ParseROM: %v", err)
	}
	c, err := New(img)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	lo := c.ReadCPU(0x8000)
	hi := c.ReadCPU(0xC000)
	if lo != hi || lo != 1 {
		t.Fatalf("lo=%d hi=%d, want both 1 (mirrored 16KiB bank)", lo, hi)
	}
}

func TestNROM32KiBPRGNotMirrored(t *testing.T) {
	img, err := ParseROM(buildINES(2, 1, 0, 0))
	if err != nil {
		t.Fatalf("ParseROM: %v", err)
	}
	c, err := New(img)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if c.ReadCPU(0x8000) != 1 || c.ReadCPU(0xC000) != 2 {
		t.Fatalf("expected distinct banks at 8000/C000")
	}
}

func TestNROMPRGRAMReadWrite(t *testing.T) {
	img, _ := ParseROM(buildINES(1, 1, 0, 0))
	c, _ := New(img)
	c.WriteCPU(0x6123, 0x42)
	if got := c.ReadCPU(0x6123); got != 0x42 {
		t.Fatalf("PRG-RAM readback = %#x, want 0x42", got)
	}
}

func TestNROMWriteToROMIgnored(t *testing.T) {
	img, _ := ParseROM(buildINES(1, 1, 0, 0))
	c, _ := New(img)
	before := c.ReadCPU(0x8000)
	c.WriteCPU(0x8000, 0xFF)
	if got := c.ReadCPU(0x8000); got != before {
		t.Fatalf("ROM write should be ignored: got %#x, want %#x", got, before)
	}
}

func TestNROMCHRZeroFilledWhenImageSmaller(t *testing.T) {
	img, _ := ParseROM(buildINES(1, 0, 0, 0)) // CHR-RAM case
	c, _ := New(img)
	if got := c.ReadPPU(0); got != 0 {
		t.Fatalf("CHR-RAM should start zeroed, got %#x", got)
	}
	c.WritePPU(0, 0x55)
	if got := c.ReadPPU(0); got != 0x55 {
		t.Fatalf("CHR-RAM write/read = %#x, want 0x55", got)
	}
}

func TestNROMCHRROMWritesIgnored(t *testing.T) {
	img, _ := ParseROM(buildINES(1, 1, 0, 0))
	c, _ := New(img)
	before := c.ReadPPU(0)
	c.WritePPU(0, 0xAA)
	if got := c.ReadPPU(0); got != before {
		t.Fatalf("CHR-ROM write should be ignored: got %#x, want %#x", got, before)
	}
}

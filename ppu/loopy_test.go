package ppu

import "testing"

func TestLoopyGet(t *testing.T) {
	cases := []struct {
		data                           uint16
		wantCoarseX, wantCoarseY       uint16
		wantNameTableX, wantNameTableY uint16
		wantFineY                      uint16
	}{
		{0b0000_0000_0000_0000, 0, 0, 0, 0, 0},
		{0b0111_1011_1001_1000, 0b11000, 0b11100, 0, 1, 0b111},
		{0b0011_0111_1001_0111, 0b10111, 0b11100, 1, 0, 0b011},
		{0b0011_1111_1001_0111, 0b10111, 0b11100, 1, 1, 0b011},
		{0b0011_0011_1011_0111, 0b10111, 0b11101, 0, 0, 0b011},
		{0b0011_0000_0001_0111, 0b10111, 0, 0, 0, 0b011},
	}

	for i, tc := range cases {
		l := &loopy{tc.data}

		cx, cy, ntx, nty, fy := l.coarseX(), l.coarseY(), l.nametableX(), l.nametableY(), l.fineY()
		if cx != tc.wantCoarseX || cy != tc.wantCoarseY || ntx != tc.wantNameTableX || nty != tc.wantNameTableY || fy != tc.wantFineY {
			t.Errorf("%d: got %05b %05b %01b %01b %03b, want %05b %05b %01b %01b %03b",
				i, cx, cy, ntx, nty, fy, tc.wantCoarseX, tc.wantCoarseY, tc.wantNameTableX, tc.wantNameTableY, tc.wantFineY)
		}
	}
}

func TestLoopySetCoarseX(t *testing.T) {
	l := &loopy{0b0011_0111_1001_0111}
	l.setCoarseX(0b10000)
	if got := l.coarseX(); got != 0b10000 {
		t.Errorf("coarseX = %05b, want 10000", got)
	}
	if l.data&^0x001F != 0b0011_0111_1000_0000 {
		t.Errorf("setCoarseX touched bits outside the field: %016b", l.data)
	}
}

func TestLoopyIncrementCoarseXWraps(t *testing.T) {
	l := &loopy{0b0000_0000_0001_1111} // coarseX = 31, nametableX = 0
	l.incrementCoarseX()
	if l.coarseX() != 0 || l.nametableX() != 1 {
		t.Errorf("coarseX=%05b nametableX=%01b, want 0/1", l.coarseX(), l.nametableX())
	}
}

func TestLoopySetCoarseY(t *testing.T) {
	l := &loopy{0}
	l.setCoarseY(0b10101)
	if got := l.coarseY(); got != 0b10101 {
		t.Errorf("coarseY = %05b, want 10101", got)
	}
}

func TestLoopyIncrementFineYCarriesIntoCoarseY(t *testing.T) {
	l := &loopy{0}
	l.setFineY(7)
	l.setCoarseY(5)
	l.incrementFineY()
	if l.fineY() != 0 || l.coarseY() != 6 {
		t.Errorf("fineY=%d coarseY=%d, want 0/6", l.fineY(), l.coarseY())
	}
}

func TestLoopyIncrementFineYWrapsAt29(t *testing.T) {
	l := &loopy{0}
	l.setFineY(7)
	l.setCoarseY(29)
	l.incrementFineY()
	if l.coarseY() != 0 || l.nametableY() != 1 {
		t.Errorf("coarseY=%d nametableY=%d, want 0/1", l.coarseY(), l.nametableY())
	}
}

func TestLoopyIncrementFineYAt31DoesNotFlipNametable(t *testing.T) {
	l := &loopy{0}
	l.setFineY(7)
	l.setCoarseY(31)
	l.incrementFineY()
	if l.coarseY() != 0 || l.nametableY() != 0 {
		t.Errorf("coarseY=%d nametableY=%d, want 0/0 (out-of-range row never flips)", l.coarseY(), l.nametableY())
	}
}

func TestLoopyTransferXY(t *testing.T) {
	v := &loopy{0}
	tr := &loopy{0b0111_1111_1111_1111}
	v.transferX(tr)
	if v.coarseX() != tr.coarseX() || v.nametableX() != tr.nametableX() {
		t.Fatalf("transferX did not copy horizontal fields")
	}
	if v.coarseY() != 0 {
		t.Fatalf("transferX touched vertical fields")
	}
	v2 := &loopy{0}
	v2.transferY(tr)
	if v2.coarseY() != tr.coarseY() || v2.fineY() != tr.fineY() || v2.nametableY() != tr.nametableY() {
		t.Fatalf("transferY did not copy vertical fields")
	}
	if v2.coarseX() != 0 {
		t.Fatalf("transferY touched horizontal fields")
	}
}

package ppu

// loopy holds one of the PPU's two 15-bit scroll registers (v or t):
//
//	yyy NN YYYYY XXXXX
//	||| || ||||| +++++-- coarse X scroll
//	||| || +++++-------- coarse Y scroll
//	||| ++-------------- nametable select
//	+++----------------- fine Y scroll
type loopy struct {
	data uint16 // only 15 bits used
}

func (l *loopy) coarseX() uint16 {
	return l.data & 0x001F
}

func (l *loopy) setCoarseX(n uint16) {
	l.data = (l.data & 0xFFE0) | (n & 0x001F)
}

// incrementCoarseX wraps at 31 into the adjacent horizontal
// nametable rather than overflowing into the attribute bits.
func (l *loopy) incrementCoarseX() {
	if l.coarseX() == 31 {
		l.data &^= 0x001F
		l.data ^= 0x0400
		return
	}
	l.data++
}

func (l *loopy) coarseY() uint16 {
	return (l.data & 0x03E0) >> 5
}

func (l *loopy) setCoarseY(n uint16) {
	l.data = (l.data & 0xFC1F) | ((n & 0x1F) << 5)
}

// incrementFineY implements the wrap-and-carry sequence the PPU's
// vertical scroll counter runs once per scanline: fine Y rolls over
// into coarse Y, which itself wraps at the nametable boundary (29),
// and wraps again at 31 without flipping a nametable, matching the
// attribute-table row store hardware actually uses there.
func (l *loopy) incrementFineY() {
	if l.fineY() < 7 {
		l.data += 0x1000
		return
	}
	l.data &^= 0x7000
	switch l.coarseY() {
	case 29:
		l.data &^= 0x03E0
		l.data ^= 0x0800
	case 31:
		l.data &^= 0x03E0
	default:
		l.setCoarseY(l.coarseY() + 1)
	}
}

func (l *loopy) nametableX() uint16 {
	return (l.data & 0x0400) >> 10
}

func (l *loopy) nametableY() uint16 {
	return (l.data & 0x0800) >> 11
}

func (l *loopy) fineY() uint16 {
	return (l.data & 0x7000) >> 12
}

func (l *loopy) setFineY(n uint16) {
	l.data = (l.data & 0x0FFF) | ((n & 0x7) << 12)
}

// transferX copies the horizontal position fields from t into v, the
// half of the scroll-register copy the hardware performs at dot 257
// of every visible and pre-render scanline.
func (v *loopy) transferX(t *loopy) {
	v.data = (v.data &^ 0x041F) | (t.data & 0x041F)
}

// transferY copies the vertical fields from t into v, done across
// dots 280-304 of the pre-render scanline once per frame.
func (v *loopy) transferY(t *loopy) {
	v.data = (v.data &^ 0x7BE0) | (t.data & 0x7BE0)
}

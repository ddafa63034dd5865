package cpu

// addrMode identifies the effective-address computation used by an
// opcode, per the table in §4.2.
type addrMode uint8

const (
	modeImplicit addrMode = iota
	modeAccumulator
	modeImmediate
	modeZeroPage
	modeZeroPageX
	modeZeroPageY
	modeAbsolute
	modeAbsoluteX
	modeAbsoluteY
	modeIndirectX // (zp,X)
	modeIndirectY // (zp),Y
	modeIndirect  // JMP ($addr) only
	modeRelative  // branches only
)

// category buckets opcodes by bus-cycle shape, independent of
// mnemonic: a "read" instruction skips the page-cross cycle when none
// occurs, a "write" never does, and a "read-modify-write" always pays
// the two extra cycles for the dummy writeback (§4.2, P5).
type category uint8

const (
	catRead category = iota
	catWrite
	catRMW
	catImplicit
	catBranch
	catJump
	catJSR
	catRTS
	catRTI
	catBRK
	catPush
	catPull
	catInterrupt // reset/NMI/IRQ vectoring; never appears in opcodeTable
)

// mnemonic identifies the operation a step applies once the operand
// is known. Undocumented opcodes reuse the documented RMW shape with
// a trailing ALU step chained on, per §4.2's "Undocumented RMW forms."
type mnemonic uint8

const (
	mADC mnemonic = iota
	mAND
	mASL
	mBCC
	mBCS
	mBEQ
	mBIT
	mBMI
	mBNE
	mBPL
	mBRK
	mBVC
	mBVS
	mCLC
	mCLD
	mCLI
	mCLV
	mCMP
	mCPX
	mCPY
	mDEC
	mDEX
	mDEY
	mEOR
	mINC
	mINX
	mINY
	mJMP
	mJSR
	mLDA
	mLDX
	mLDY
	mLSR
	mNOP
	mORA
	mPHA
	mPHP
	mPLA
	mPLP
	mROL
	mROR
	mRTI
	mRTS
	mSBC
	mSEC
	mSED
	mSEI
	mSTA
	mSTX
	mSTY
	mTAX
	mTAY
	mTSX
	mTXA
	mTXS
	mTYA
	// Undocumented opcodes exercised by the bus-accurate corpus.
	mSLO
	mRLA
	mSRE
	mRRA
	mSAX
	mLAX
	mDCP
	mISB
)

// opcodeEntry is one row of the 256-entry decode table: the
// addressing-mode step function to run and the mnemonic to apply once
// the operand address (or value) is ready.
type opcodeEntry struct {
	op      mnemonic
	mode    addrMode
	cat     category
	illegal bool // one of the modeled undocumented SLO..ISB mnemonics; unofficial NOP forms and $EB are not flagged (distinct from fault)
	fault   bool // JAM/KIL or one of the ten unstable combo opcodes: not modeled, §7 error kind 1
}

// opcodeTable is populated in init() below, table-driven from the
// same per-opcode metadata a disassembler would use: one row per byte
// value 0x00-0xFF. Building it in a loop over literal rows (rather
// than 256 explicit array-literal entries) keeps the huge documented
// instruction set and the smaller undocumented set equally easy to
// audit against a reference opcode matrix.
var opcodeTable [256]opcodeEntry

type opcodeRow struct {
	code uint8
	op   mnemonic
	mode addrMode
	cat  category
}

func init() {
	rows := []opcodeRow{
		// ADC
		{0x69, mADC, modeImmediate, catRead}, {0x65, mADC, modeZeroPage, catRead},
		{0x75, mADC, modeZeroPageX, catRead}, {0x6D, mADC, modeAbsolute, catRead},
		{0x7D, mADC, modeAbsoluteX, catRead}, {0x79, mADC, modeAbsoluteY, catRead},
		{0x61, mADC, modeIndirectX, catRead}, {0x71, mADC, modeIndirectY, catRead},
		// AND
		{0x29, mAND, modeImmediate, catRead}, {0x25, mAND, modeZeroPage, catRead},
		{0x35, mAND, modeZeroPageX, catRead}, {0x2D, mAND, modeAbsolute, catRead},
		{0x3D, mAND, modeAbsoluteX, catRead}, {0x39, mAND, modeAbsoluteY, catRead},
		{0x21, mAND, modeIndirectX, catRead}, {0x31, mAND, modeIndirectY, catRead},
		// ASL
		{0x0A, mASL, modeAccumulator, catRMW}, {0x06, mASL, modeZeroPage, catRMW},
		{0x16, mASL, modeZeroPageX, catRMW}, {0x0E, mASL, modeAbsolute, catRMW},
		{0x1E, mASL, modeAbsoluteX, catRMW},
		// Branches
		{0x90, mBCC, modeRelative, catBranch}, {0xB0, mBCS, modeRelative, catBranch},
		{0xF0, mBEQ, modeRelative, catBranch}, {0x30, mBMI, modeRelative, catBranch},
		{0xD0, mBNE, modeRelative, catBranch}, {0x10, mBPL, modeRelative, catBranch},
		{0x50, mBVC, modeRelative, catBranch}, {0x70, mBVS, modeRelative, catBranch},
		// BIT
		{0x24, mBIT, modeZeroPage, catRead}, {0x2C, mBIT, modeAbsolute, catRead},
		// BRK
		{0x00, mBRK, modeImplicit, catBRK},
		// Flags
		{0x18, mCLC, modeImplicit, catImplicit}, {0xD8, mCLD, modeImplicit, catImplicit},
		{0x58, mCLI, modeImplicit, catImplicit}, {0xB8, mCLV, modeImplicit, catImplicit},
		{0x38, mSEC, modeImplicit, catImplicit}, {0xF8, mSED, modeImplicit, catImplicit},
		{0x78, mSEI, modeImplicit, catImplicit},
		// Compares
		{0xC9, mCMP, modeImmediate, catRead}, {0xC5, mCMP, modeZeroPage, catRead},
		{0xD5, mCMP, modeZeroPageX, catRead}, {0xCD, mCMP, modeAbsolute, catRead},
		{0xDD, mCMP, modeAbsoluteX, catRead}, {0xD9, mCMP, modeAbsoluteY, catRead},
		{0xC1, mCMP, modeIndirectX, catRead}, {0xD1, mCMP, modeIndirectY, catRead},
		{0xE0, mCPX, modeImmediate, catRead}, {0xE4, mCPX, modeZeroPage, catRead},
		{0xEC, mCPX, modeAbsolute, catRead},
		{0xC0, mCPY, modeImmediate, catRead}, {0xC4, mCPY, modeZeroPage, catRead},
		{0xCC, mCPY, modeAbsolute, catRead},
		// DEC/DEX/DEY
		{0xC6, mDEC, modeZeroPage, catRMW}, {0xD6, mDEC, modeZeroPageX, catRMW},
		{0xCE, mDEC, modeAbsolute, catRMW}, {0xDE, mDEC, modeAbsoluteX, catRMW},
		{0xCA, mDEX, modeImplicit, catImplicit}, {0x88, mDEY, modeImplicit, catImplicit},
		// EOR
		{0x49, mEOR, modeImmediate, catRead}, {0x45, mEOR, modeZeroPage, catRead},
		{0x55, mEOR, modeZeroPageX, catRead}, {0x4D, mEOR, modeAbsolute, catRead},
		{0x5D, mEOR, modeAbsoluteX, catRead}, {0x59, mEOR, modeAbsoluteY, catRead},
		{0x41, mEOR, modeIndirectX, catRead}, {0x51, mEOR, modeIndirectY, catRead},
		// INC/INX/INY
		{0xE6, mINC, modeZeroPage, catRMW}, {0xF6, mINC, modeZeroPageX, catRMW},
		{0xEE, mINC, modeAbsolute, catRMW}, {0xFE, mINC, modeAbsoluteX, catRMW},
		{0xE8, mINX, modeImplicit, catImplicit}, {0xC8, mINY, modeImplicit, catImplicit},
		// JMP/JSR
		{0x4C, mJMP, modeAbsolute, catJump}, {0x6C, mJMP, modeIndirect, catJump},
		{0x20, mJSR, modeAbsolute, catJSR},
		// LDA/LDX/LDY
		{0xA9, mLDA, modeImmediate, catRead}, {0xA5, mLDA, modeZeroPage, catRead},
		{0xB5, mLDA, modeZeroPageX, catRead}, {0xAD, mLDA, modeAbsolute, catRead},
		{0xBD, mLDA, modeAbsoluteX, catRead}, {0xB9, mLDA, modeAbsoluteY, catRead},
		{0xA1, mLDA, modeIndirectX, catRead}, {0xB1, mLDA, modeIndirectY, catRead},
		{0xA2, mLDX, modeImmediate, catRead}, {0xA6, mLDX, modeZeroPage, catRead},
		{0xB6, mLDX, modeZeroPageY, catRead}, {0xAE, mLDX, modeAbsolute, catRead},
		{0xBE, mLDX, modeAbsoluteY, catRead},
		{0xA0, mLDY, modeImmediate, catRead}, {0xA4, mLDY, modeZeroPage, catRead},
		{0xB4, mLDY, modeZeroPageX, catRead}, {0xAC, mLDY, modeAbsolute, catRead},
		{0xBC, mLDY, modeAbsoluteX, catRead},
		// LSR
		{0x4A, mLSR, modeAccumulator, catRMW}, {0x46, mLSR, modeZeroPage, catRMW},
		{0x56, mLSR, modeZeroPageX, catRMW}, {0x4E, mLSR, modeAbsolute, catRMW},
		{0x5E, mLSR, modeAbsoluteX, catRMW},
		// NOP
		{0xEA, mNOP, modeImplicit, catImplicit},
		// ORA
		{0x09, mORA, modeImmediate, catRead}, {0x05, mORA, modeZeroPage, catRead},
		{0x15, mORA, modeZeroPageX, catRead}, {0x0D, mORA, modeAbsolute, catRead},
		{0x1D, mORA, modeAbsoluteX, catRead}, {0x19, mORA, modeAbsoluteY, catRead},
		{0x01, mORA, modeIndirectX, catRead}, {0x11, mORA, modeIndirectY, catRead},
		// Stack
		{0x48, mPHA, modeImplicit, catPush}, {0x08, mPHP, modeImplicit, catPush},
		{0x68, mPLA, modeImplicit, catPull}, {0x28, mPLP, modeImplicit, catPull},
		// ROL/ROR
		{0x2A, mROL, modeAccumulator, catRMW}, {0x26, mROL, modeZeroPage, catRMW},
		{0x36, mROL, modeZeroPageX, catRMW}, {0x2E, mROL, modeAbsolute, catRMW},
		{0x3E, mROL, modeAbsoluteX, catRMW},
		{0x6A, mROR, modeAccumulator, catRMW}, {0x66, mROR, modeZeroPage, catRMW},
		{0x76, mROR, modeZeroPageX, catRMW}, {0x6E, mROR, modeAbsolute, catRMW},
		{0x7E, mROR, modeAbsoluteX, catRMW},
		// RTI/RTS
		{0x40, mRTI, modeImplicit, catRTI}, {0x60, mRTS, modeImplicit, catRTS},
		// SBC
		{0xE9, mSBC, modeImmediate, catRead}, {0xE5, mSBC, modeZeroPage, catRead},
		{0xF5, mSBC, modeZeroPageX, catRead}, {0xED, mSBC, modeAbsolute, catRead},
		{0xFD, mSBC, modeAbsoluteX, catRead}, {0xF9, mSBC, modeAbsoluteY, catRead},
		{0xE1, mSBC, modeIndirectX, catRead}, {0xF1, mSBC, modeIndirectY, catRead},
		// STA/STX/STY
		{0x85, mSTA, modeZeroPage, catWrite}, {0x95, mSTA, modeZeroPageX, catWrite},
		{0x8D, mSTA, modeAbsolute, catWrite}, {0x9D, mSTA, modeAbsoluteX, catWrite},
		{0x99, mSTA, modeAbsoluteY, catWrite}, {0x81, mSTA, modeIndirectX, catWrite},
		{0x91, mSTA, modeIndirectY, catWrite},
		{0x86, mSTX, modeZeroPage, catWrite}, {0x96, mSTX, modeZeroPageY, catWrite},
		{0x8E, mSTX, modeAbsolute, catWrite},
		{0x84, mSTY, modeZeroPage, catWrite}, {0x94, mSTY, modeZeroPageX, catWrite},
		{0x8C, mSTY, modeAbsolute, catWrite},
		// Transfers
		{0xAA, mTAX, modeImplicit, catImplicit}, {0xA8, mTAY, modeImplicit, catImplicit},
		{0xBA, mTSX, modeImplicit, catImplicit}, {0x8A, mTXA, modeImplicit, catImplicit},
		{0x9A, mTXS, modeImplicit, catImplicit}, {0x98, mTYA, modeImplicit, catImplicit},

		// --- Undocumented opcodes exercised by the corpus ---
		// SLO = ASL + ORA
		{0x07, mSLO, modeZeroPage, catRMW}, {0x17, mSLO, modeZeroPageX, catRMW},
		{0x0F, mSLO, modeAbsolute, catRMW}, {0x1F, mSLO, modeAbsoluteX, catRMW},
		{0x1B, mSLO, modeAbsoluteY, catRMW}, {0x03, mSLO, modeIndirectX, catRMW},
		{0x13, mSLO, modeIndirectY, catRMW},
		// RLA = ROL + AND
		{0x27, mRLA, modeZeroPage, catRMW}, {0x37, mRLA, modeZeroPageX, catRMW},
		{0x2F, mRLA, modeAbsolute, catRMW}, {0x3F, mRLA, modeAbsoluteX, catRMW},
		{0x3B, mRLA, modeAbsoluteY, catRMW}, {0x23, mRLA, modeIndirectX, catRMW},
		{0x33, mRLA, modeIndirectY, catRMW},
		// SRE = LSR + EOR
		{0x47, mSRE, modeZeroPage, catRMW}, {0x57, mSRE, modeZeroPageX, catRMW},
		{0x4F, mSRE, modeAbsolute, catRMW}, {0x5F, mSRE, modeAbsoluteX, catRMW},
		{0x5B, mSRE, modeAbsoluteY, catRMW}, {0x43, mSRE, modeIndirectX, catRMW},
		{0x53, mSRE, modeIndirectY, catRMW},
		// RRA = ROR + ADC
		{0x67, mRRA, modeZeroPage, catRMW}, {0x77, mRRA, modeZeroPageX, catRMW},
		{0x6F, mRRA, modeAbsolute, catRMW}, {0x7F, mRRA, modeAbsoluteX, catRMW},
		{0x7B, mRRA, modeAbsoluteY, catRMW}, {0x63, mRRA, modeIndirectX, catRMW},
		{0x73, mRRA, modeIndirectY, catRMW},
		// SAX = store A & X
		{0x87, mSAX, modeZeroPage, catWrite}, {0x97, mSAX, modeZeroPageY, catWrite},
		{0x8F, mSAX, modeAbsolute, catWrite}, {0x83, mSAX, modeIndirectX, catWrite},
		// LAX = load A and X
		{0xA7, mLAX, modeZeroPage, catRead}, {0xB7, mLAX, modeZeroPageY, catRead},
		{0xAF, mLAX, modeAbsolute, catRead}, {0xBF, mLAX, modeAbsoluteY, catRead},
		{0xA3, mLAX, modeIndirectX, catRead}, {0xB3, mLAX, modeIndirectY, catRead},
		// DCP = DEC + CMP
		{0xC7, mDCP, modeZeroPage, catRMW}, {0xD7, mDCP, modeZeroPageX, catRMW},
		{0xCF, mDCP, modeAbsolute, catRMW}, {0xDF, mDCP, modeAbsoluteX, catRMW},
		{0xDB, mDCP, modeAbsoluteY, catRMW}, {0xC3, mDCP, modeIndirectX, catRMW},
		{0xD3, mDCP, modeIndirectY, catRMW},
		// ISB (ISC) = INC + SBC
		{0xE7, mISB, modeZeroPage, catRMW}, {0xF7, mISB, modeZeroPageX, catRMW},
		{0xEF, mISB, modeAbsolute, catRMW}, {0xFF, mISB, modeAbsoluteX, catRMW},
		{0xFB, mISB, modeAbsoluteY, catRMW}, {0xE3, mISB, modeIndirectX, catRMW},
		{0xF3, mISB, modeIndirectY, catRMW},

		// NOP variants: single-byte, zero-page, zero-page-X, absolute,
		// absolute-X and immediate forms, all behaving like the
		// documented NOP timing-wise for their addressing mode.
		{0x1A, mNOP, modeImplicit, catImplicit}, {0x3A, mNOP, modeImplicit, catImplicit},
		{0x5A, mNOP, modeImplicit, catImplicit}, {0x7A, mNOP, modeImplicit, catImplicit},
		{0xDA, mNOP, modeImplicit, catImplicit}, {0xFA, mNOP, modeImplicit, catImplicit},
		{0x80, mNOP, modeImmediate, catRead}, {0x82, mNOP, modeImmediate, catRead},
		{0x89, mNOP, modeImmediate, catRead}, {0xC2, mNOP, modeImmediate, catRead},
		{0xE2, mNOP, modeImmediate, catRead}, {0xEB, mSBC, modeImmediate, catRead},
		{0x04, mNOP, modeZeroPage, catRead}, {0x44, mNOP, modeZeroPage, catRead},
		{0x64, mNOP, modeZeroPage, catRead},
		{0x14, mNOP, modeZeroPageX, catRead}, {0x34, mNOP, modeZeroPageX, catRead},
		{0x54, mNOP, modeZeroPageX, catRead}, {0x74, mNOP, modeZeroPageX, catRead},
		{0xD4, mNOP, modeZeroPageX, catRead}, {0xF4, mNOP, modeZeroPageX, catRead},
		{0x0C, mNOP, modeAbsolute, catRead},
		{0x1C, mNOP, modeAbsoluteX, catRead}, {0x3C, mNOP, modeAbsoluteX, catRead},
		{0x5C, mNOP, modeAbsoluteX, catRead}, {0x7C, mNOP, modeAbsoluteX, catRead},
		{0xDC, mNOP, modeAbsoluteX, catRead}, {0xFC, mNOP, modeAbsoluteX, catRead},
	}

	for _, r := range rows {
		opcodeTable[r.code] = opcodeEntry{op: r.op, mode: r.mode, cat: r.cat,
			illegal: r.op >= mSLO}
	}

	// JAM/KIL opcodes lock the bus solid on real hardware and the ten
	// "unstable" combined-unknown-result opcodes (ANC ANE ARR ASR LXA
	// SBX SHA SHS SHX SHY) are deliberately not modeled, per §7 error
	// kind 1 and §4.2's "may fault or be stubbed."
	for _, code := range []uint8{
		0x02, 0x12, 0x22, 0x32, 0x42, 0x52, 0x62, 0x72, 0x92, 0xB2, 0xD2, 0xF2,
		0x0B, 0x2B, 0x4B, 0x6B, 0x8B, 0xAB, 0xCB, 0x93, 0x9F, 0x9B, 0x9C, 0x9E,
	} {
		opcodeTable[code] = opcodeEntry{fault: true}
	}
}

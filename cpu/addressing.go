package cpu

// stepInstruction advances the in-flight instruction by exactly one
// bus cycle. It is only called when cur.done is false; the cycle
// number (cur.cycle) tells each addressing-mode routine which bus
// access to perform next, per the timing table in §4.2.
func stepInstruction(c *CPU) {
	e := &c.cur.entry

	switch e.cat {
	case catBranch:
		stepBranch(c)
	case catJump:
		stepJump(c)
	case catJSR:
		stepJSR(c)
	case catRTS:
		stepRTS(c)
	case catRTI:
		stepRTI(c)
	case catBRK:
		stepBRKInstr(c)
	case catPush:
		stepPush(c)
	case catPull:
		stepPull(c)
	case catInterrupt:
		stepInterrupt(c)
	case catImplicit:
		stepImplied(c)
	default: // catRead, catWrite, catRMW with a real operand address
		if e.mode == modeAccumulator {
			stepAccumulator(c)
			return
		}
		switch e.mode {
		case modeImmediate:
			stepImmediate(c)
		case modeZeroPage:
			stepZeroPage(c)
		case modeZeroPageX:
			stepZeroPageIndexed(c, c.X)
		case modeZeroPageY:
			stepZeroPageIndexed(c, c.Y)
		case modeAbsolute:
			stepAbsolute(c)
		case modeAbsoluteX:
			stepAbsoluteIndexed(c, c.X)
		case modeAbsoluteY:
			stepAbsoluteIndexed(c, c.Y)
		case modeIndirectX:
			stepIndirectX(c)
		case modeIndirectY:
			stepIndirectY(c)
		}
	}
}

// finishOverlap ends a 2-cycle instruction by letting its only extra
// cycle double as the next opcode's fetch, the one case where real
// hardware's bus access is shared between two instructions (§4.2).
func (c *CPU) finishOverlap() {
	c.predecode = c.bus.Read(c.PC)
	c.PC++
	c.predecodeValid = true
	c.cur.done = true
}

func stepImplied(c *CPU) {
	applyImplicit(c, c.cur.entry.op)
	c.finishOverlap()
}

func stepAccumulator(c *CPU) {
	c.A = applyRMW(c, c.cur.entry.op, c.A)
	c.finishOverlap()
}

func stepImmediate(c *CPU) {
	v := c.bus.Read(c.PC)
	c.PC++
	applyRead(c, c.cur.entry.op, v)
	c.cur.done = true
}

// stepZeroPage covers read, write and RMW instructions addressed by a
// single zero-page byte.
func stepZeroPage(c *CPU) {
	switch c.cur.cycle {
	case 2:
		c.cur.addr = uint16(c.bus.Read(c.PC))
		c.PC++
		if c.cur.entry.cat == catWrite {
			v := produceWrite(c, c.cur.entry.op)
			c.bus.Write(c.cur.addr, v)
			c.cur.done = true
			return
		}
		c.cur.cycle++
	case 3:
		v := c.bus.Read(c.cur.addr)
		if c.cur.entry.cat == catRead {
			applyRead(c, c.cur.entry.op, v)
			c.cur.done = true
			return
		}
		c.cur.t1 = v // RMW: hold the original value
		c.cur.cycle++
	case 4:
		// dummy write-back of the unmodified value
		c.bus.Write(c.cur.addr, c.cur.t1)
		c.cur.cycle++
	case 5:
		nv := applyRMW(c, c.cur.entry.op, c.cur.t1)
		c.bus.Write(c.cur.addr, nv)
		c.cur.done = true
	}
}

func stepZeroPageIndexed(c *CPU, index uint8) {
	switch c.cur.cycle {
	case 2:
		c.cur.t1 = c.bus.Read(c.PC)
		c.PC++
		c.cur.cycle++
	case 3:
		c.bus.Read(uint16(c.cur.t1)) // dummy read of unindexed address
		c.cur.addr = uint16(c.cur.t1 + index)
		if c.cur.entry.cat == catWrite {
			v := produceWrite(c, c.cur.entry.op)
			c.bus.Write(c.cur.addr, v)
			c.cur.done = true
			return
		}
		c.cur.cycle++
	case 4:
		v := c.bus.Read(c.cur.addr)
		if c.cur.entry.cat == catRead {
			applyRead(c, c.cur.entry.op, v)
			c.cur.done = true
			return
		}
		c.cur.t2 = v
		c.cur.cycle++
	case 5:
		c.bus.Write(c.cur.addr, c.cur.t2)
		c.cur.cycle++
	case 6:
		nv := applyRMW(c, c.cur.entry.op, c.cur.t2)
		c.bus.Write(c.cur.addr, nv)
		c.cur.done = true
	}
}

func stepAbsolute(c *CPU) {
	switch c.cur.cycle {
	case 2:
		c.cur.t1 = c.bus.Read(c.PC)
		c.PC++
		c.cur.cycle++
	case 3:
		hi := c.bus.Read(c.PC)
		c.PC++
		c.cur.addr = uint16(hi)<<8 | uint16(c.cur.t1)
		if c.cur.entry.cat == catWrite {
			v := produceWrite(c, c.cur.entry.op)
			c.bus.Write(c.cur.addr, v)
			c.cur.done = true
			return
		}
		c.cur.cycle++
	case 4:
		v := c.bus.Read(c.cur.addr)
		if c.cur.entry.cat == catRead {
			applyRead(c, c.cur.entry.op, v)
			c.cur.done = true
			return
		}
		c.cur.t2 = v
		c.cur.cycle++
	case 5:
		c.bus.Write(c.cur.addr, c.cur.t2)
		c.cur.cycle++
	case 6:
		nv := applyRMW(c, c.cur.entry.op, c.cur.t2)
		c.bus.Write(c.cur.addr, nv)
		c.cur.done = true
	}
}

func stepAbsoluteIndexed(c *CPU, index uint8) {
	switch c.cur.cycle {
	case 2:
		c.cur.t1 = c.bus.Read(c.PC)
		c.PC++
		c.cur.cycle++
	case 3:
		hi := c.bus.Read(c.PC)
		c.PC++
		base := uint16(hi)<<8 | uint16(c.cur.t1)
		c.cur.addr = base + uint16(index)
		crossed := (c.cur.addr & 0xFF00) != (base & 0xFF00)
		if crossed {
			c.cur.t2 = 1
		} else {
			c.cur.t2 = 0
		}
		c.cur.cycle++
	case 4:
		// speculative read at the uncorrected address; discarded
		// unless no page cross occurred, in which case it's the
		// real operand read for a read-category instruction.
		guess := c.cur.addr
		if c.cur.t2 == 1 {
			guess = ((guess & 0xFF00) - 0x0100) | (guess & 0x00FF)
		}
		v := c.bus.Read(guess)
		switch c.cur.entry.cat {
		case catRead:
			if c.cur.t2 == 0 {
				applyRead(c, c.cur.entry.op, v)
				c.cur.done = true
				return
			}
			c.cur.cycle++
		case catWrite:
			c.cur.cycle++
		case catRMW:
			c.cur.cycle++
		}
	case 5:
		switch c.cur.entry.cat {
		case catRead:
			v := c.bus.Read(c.cur.addr)
			applyRead(c, c.cur.entry.op, v)
			c.cur.done = true
		case catWrite:
			v := produceWrite(c, c.cur.entry.op)
			c.bus.Write(c.cur.addr, v)
			c.cur.done = true
		case catRMW:
			c.cur.t1 = c.bus.Read(c.cur.addr)
			c.cur.cycle++
		}
	case 6:
		c.bus.Write(c.cur.addr, c.cur.t1)
		c.cur.cycle++
	case 7:
		nv := applyRMW(c, c.cur.entry.op, c.cur.t1)
		c.bus.Write(c.cur.addr, nv)
		c.cur.done = true
	}
}

func stepIndirectX(c *CPU) {
	switch c.cur.cycle {
	case 2:
		c.cur.t1 = c.bus.Read(c.PC)
		c.PC++
		c.cur.cycle++
	case 3:
		c.bus.Read(uint16(c.cur.t1)) // dummy read, pre-index
		c.cur.t1 += c.X
		c.cur.cycle++
	case 4:
		c.cur.t2 = c.bus.Read(uint16(c.cur.t1))
		c.cur.cycle++
	case 5:
		hi := c.bus.Read(uint16(c.cur.t1 + 1))
		c.cur.addr = uint16(hi)<<8 | uint16(c.cur.t2)
		if c.cur.entry.cat == catWrite {
			v := produceWrite(c, c.cur.entry.op)
			c.bus.Write(c.cur.addr, v)
			c.cur.done = true
			return
		}
		c.cur.cycle++
	case 6:
		v := c.bus.Read(c.cur.addr)
		if c.cur.entry.cat == catRead {
			applyRead(c, c.cur.entry.op, v)
			c.cur.done = true
			return
		}
		c.cur.t1 = v
		c.cur.cycle++
	case 7:
		c.bus.Write(c.cur.addr, c.cur.t1)
		c.cur.cycle++
	case 8:
		nv := applyRMW(c, c.cur.entry.op, c.cur.t1)
		c.bus.Write(c.cur.addr, nv)
		c.cur.done = true
	}
}

func stepIndirectY(c *CPU) {
	switch c.cur.cycle {
	case 2:
		c.cur.t1 = c.bus.Read(c.PC)
		c.PC++
		c.cur.cycle++
	case 3:
		c.cur.t2 = c.bus.Read(uint16(c.cur.t1))
		c.cur.cycle++
	case 4:
		hi := c.bus.Read(uint16(c.cur.t1 + 1))
		base := uint16(hi)<<8 | uint16(c.cur.t2)
		c.cur.addr = base + uint16(c.Y)
		if (c.cur.addr & 0xFF00) != (base & 0xFF00) {
			c.cur.isBranch = true // reuse as "page crossed" scratch
		} else {
			c.cur.isBranch = false
		}
		c.cur.cycle++
	case 5:
		guess := c.cur.addr
		if c.cur.isBranch {
			guess -= 0x0100
		}
		v := c.bus.Read(guess)
		switch c.cur.entry.cat {
		case catRead:
			if !c.cur.isBranch {
				applyRead(c, c.cur.entry.op, v)
				c.cur.done = true
				return
			}
			c.cur.cycle++
		default:
			c.cur.cycle++
		}
	case 6:
		switch c.cur.entry.cat {
		case catRead:
			v := c.bus.Read(c.cur.addr)
			applyRead(c, c.cur.entry.op, v)
			c.cur.done = true
		case catWrite:
			v := produceWrite(c, c.cur.entry.op)
			c.bus.Write(c.cur.addr, v)
			c.cur.done = true
		case catRMW:
			c.cur.t1 = c.bus.Read(c.cur.addr)
			c.cur.cycle++
		}
	case 7:
		c.bus.Write(c.cur.addr, c.cur.t1)
		c.cur.cycle++
	case 8:
		nv := applyRMW(c, c.cur.entry.op, c.cur.t1)
		c.bus.Write(c.cur.addr, nv)
		c.cur.done = true
	}
}

// stepBranch implements the three-shape branch timing from §4.2: 2
// cycles not taken, 3 taken without a page cross, 4 taken crossing a
// page boundary.
func stepBranch(c *CPU) {
	switch c.cur.cycle {
	case 2:
		offset := int8(c.bus.Read(c.PC))
		c.PC++
		taken := branchTaken(c, c.cur.entry.op)
		c.cur.isBranch = taken
		if !taken {
			c.finishOverlap()
			return
		}
		target := uint16(int32(c.PC) + int32(offset))
		c.cur.addr = target
		c.cur.cycle++
	case 3:
		// dummy read of the PC with the old page, taken branches
		// always pay this cycle regardless of page cross
		c.bus.Read((c.PC &^ 0x00FF) | (c.cur.addr & 0x00FF))
		if (c.cur.addr & 0xFF00) == (c.PC & 0xFF00) {
			c.PC = c.cur.addr
			c.cur.done = true
			return
		}
		c.PC = c.cur.addr
		c.cur.cycle++
	case 4:
		c.cur.done = true
	}
}

func stepJump(c *CPU) {
	switch c.cur.entry.mode {
	case modeAbsolute:
		switch c.cur.cycle {
		case 2:
			c.cur.t1 = c.bus.Read(c.PC)
			c.PC++
			c.cur.cycle++
		case 3:
			hi := c.bus.Read(c.PC)
			c.PC = uint16(hi)<<8 | uint16(c.cur.t1)
			c.cur.done = true
		}
	case modeIndirect:
		switch c.cur.cycle {
		case 2:
			c.cur.t1 = c.bus.Read(c.PC)
			c.PC++
			c.cur.cycle++
		case 3:
			hi := c.bus.Read(c.PC)
			c.PC++
			c.cur.addr = uint16(hi)<<8 | uint16(c.cur.t1)
			c.cur.cycle++
		case 4:
			c.cur.t2 = c.bus.Read(c.cur.addr)
			c.cur.cycle++
		case 5:
			// the infamous page-wrap bug: the high byte is
			// fetched from (addr & 0xFF00)|((addr+1)&0x00FF),
			// never crossing into the next page (P8/boundary law)
			hiAddr := (c.cur.addr & 0xFF00) | ((c.cur.addr + 1) & 0x00FF)
			hi := c.bus.Read(hiAddr)
			c.PC = uint16(hi)<<8 | uint16(c.cur.t2)
			c.cur.done = true
		}
	}
}

func stepJSR(c *CPU) {
	switch c.cur.cycle {
	case 2:
		c.cur.t1 = c.bus.Read(c.PC)
		c.PC++
		c.cur.cycle++
	case 3:
		c.bus.Read(c.stackAddr()) // internal delay, reads the stack
		c.cur.cycle++
	case 4:
		c.push(uint8(c.PC >> 8))
		c.cur.cycle++
	case 5:
		c.push(uint8(c.PC))
		c.cur.cycle++
	case 6:
		hi := c.bus.Read(c.PC)
		c.PC = uint16(hi)<<8 | uint16(c.cur.t1)
		c.cur.done = true
	}
}

func stepRTS(c *CPU) {
	switch c.cur.cycle {
	case 2:
		c.bus.Read(c.PC) // discarded operand byte
		c.cur.cycle++
	case 3:
		c.bus.Read(c.stackAddr())
		c.cur.cycle++
	case 4:
		c.cur.t1 = c.pull()
		c.cur.cycle++
	case 5:
		hi := c.pull()
		c.cur.addr = uint16(hi)<<8 | uint16(c.cur.t1)
		c.cur.cycle++
	case 6:
		c.bus.Read(c.cur.addr)
		c.PC = c.cur.addr + 1
		c.cur.done = true
	}
}

func stepRTI(c *CPU) {
	switch c.cur.cycle {
	case 2:
		c.bus.Read(c.PC)
		c.cur.cycle++
	case 3:
		c.bus.Read(c.stackAddr())
		c.cur.cycle++
	case 4:
		p := c.pull()
		c.P = (p &^ FlagBreak) | FlagUnused
		c.cur.cycle++
	case 5:
		c.cur.t1 = c.pull()
		c.cur.cycle++
	case 6:
		hi := c.pull()
		c.PC = uint16(hi)<<8 | uint16(c.cur.t1)
		c.cur.done = true
	}
}

func stepPush(c *CPU) {
	switch c.cur.cycle {
	case 2:
		c.bus.Read(c.PC)
		c.cur.cycle++
	case 3:
		if c.cur.entry.op == mPHA {
			c.push(c.A)
		} else {
			c.push(c.GetP() | FlagBreak)
		}
		c.finishOverlap()
	}
}

func stepPull(c *CPU) {
	switch c.cur.cycle {
	case 2:
		c.bus.Read(c.PC)
		c.cur.cycle++
	case 3:
		c.bus.Read(c.stackAddr())
		c.cur.cycle++
	case 4:
		v := c.pull()
		if c.cur.entry.op == mPLA {
			c.A = v
			c.setNZ(c.A)
		} else {
			c.P = (v &^ FlagBreak) | FlagUnused
		}
		c.finishOverlap()
	}
}

func stepBRKInstr(c *CPU) {
	switch c.cur.cycle {
	case 2:
		c.bus.Read(c.PC) // the padding byte after BRK's opcode
		c.PC++
		c.cur.cycle++
	case 3:
		c.push(uint8(c.PC >> 8))
		c.cur.cycle++
	case 4:
		c.push(uint8(c.PC))
		c.cur.cycle++
	case 5:
		c.push(c.GetP() | FlagBreak)
		c.setFlag(FlagInterrupt, true)
		c.cur.cycle++
	case 6:
		c.cur.t1 = c.bus.Read(vectorBRK)
		c.cur.cycle++
	case 7:
		hi := c.bus.Read(vectorBRK + 1)
		c.PC = uint16(hi)<<8 | uint16(c.cur.t1)
		c.cur.done = true
	}
}

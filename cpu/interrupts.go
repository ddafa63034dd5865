package cpu

// beginInterrupt starts the 7-cycle vectoring sequence shared by
// reset, NMI and IRQ (§4.2); BRK runs its own sequence in
// stepBRKInstr. It is called from startNext, which
// itself performs the sequence's first cycle (a discarded fetch at
// the current PC), so the remaining six cycles run through the normal
// stepInstruction pump under catInterrupt.
func (c *CPU) beginInterrupt(vector uint16, _ bool, isReset bool) {
	c.bus.Read(c.PC) // cycle 1: discarded, mirrors the opcode fetch every instruction starts with

	c.cur = inflight{
		entry: opcodeEntry{cat: catInterrupt},
		cycle: 2,
		addr:  vector,
	}
	c.cur.isReset = isReset
}

func stepInterrupt(c *CPU) {
	switch c.cur.cycle {
	case 2:
		c.bus.Read(c.PC) // cycle 2: second discarded fetch
		c.cur.cycle++
	case 3:
		if c.cur.isReset {
			c.bus.Read(c.stackAddr())
		} else {
			c.bus.Write(c.stackAddr(), uint8(c.PC>>8))
		}
		c.SP--
		c.cur.cycle++
	case 4:
		if c.cur.isReset {
			c.bus.Read(c.stackAddr())
		} else {
			c.bus.Write(c.stackAddr(), uint8(c.PC))
		}
		c.SP--
		c.cur.cycle++
	case 5:
		if c.cur.isReset {
			c.bus.Read(c.stackAddr())
		} else {
			// NMI/IRQ push B=0; only BRK/PHP push B=1, and they
			// build their own status byte in stepBRKInstr/stepPush.
			c.bus.Write(c.stackAddr(), c.GetP()&^FlagBreak)
		}
		c.SP--
		c.setFlag(FlagInterrupt, true)
		c.cur.cycle++
	case 6:
		c.cur.t1 = c.bus.Read(c.cur.addr)
		c.cur.cycle++
	case 7:
		hi := c.bus.Read(c.cur.addr + 1)
		c.PC = uint16(hi)<<8 | uint16(c.cur.t1)
		c.cur.done = true
	}
}

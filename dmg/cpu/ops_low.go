package cpu

// buildLowBlock implements 0x00-0x3F: the irregular block of 8/16-bit
// loads, 16-bit INC/DEC, relative jumps, A-rotates, and the miscellaneous
// single-purpose opcodes (DAA, CPL, SCF, CCF, STOP).
//
// The range is laid out in 8 rows of 8 columns (row = op>>3, col = op&7);
// columns 1, 3, 4, 5, and 6 follow a uniform pattern across all eight
// rows, which this builds mechanically rather than by 64 named functions.
func buildLowBlock(op uint8) Opcode {
	row := op >> 3
	col := op & 7
	pairIdx := row / 2

	switch col {
	case 0:
		return buildCol0(row)
	case 1:
		if row%2 == 0 {
			return func(c *CPU) int {
				c.setPair(pairIdx, c.readImmediateWord())
				return 12
			}
		}
		return func(c *CPU) int {
			c.addHL(c.getPair(pairIdx))
			return 8
		}
	case 2:
		return buildCol2(row)
	case 3:
		if row%2 == 0 {
			return func(c *CPU) int {
				c.setPair(pairIdx, c.getPair(pairIdx)+1)
				return 8
			}
		}
		return func(c *CPU) int {
			c.setPair(pairIdx, c.getPair(pairIdx)-1)
			return 8
		}
	case 4:
		cycles := 4
		if row == 6 {
			cycles = 12
		}
		return func(c *CPU) int {
			c.setReg8(row, c.inc8(c.reg8(row)))
			return cycles
		}
	case 5:
		cycles := 4
		if row == 6 {
			cycles = 12
		}
		return func(c *CPU) int {
			c.setReg8(row, c.dec8(c.reg8(row)))
			return cycles
		}
	case 6:
		cycles := 8
		if row == 6 {
			cycles = 12
		}
		return func(c *CPU) int {
			c.setReg8(row, c.readImmediate())
			return cycles
		}
	default: // col 7
		return buildCol7(row)
	}
}

func buildCol0(row uint8) Opcode {
	switch row {
	case 0:
		return func(c *CPU) int { return 4 }
	case 1:
		return func(c *CPU) int {
			addr := c.readImmediateWord()
			c.bus.Write(addr, byteOf(c.sp))
			c.bus.Write(addr+1, byteOf(c.sp>>8))
			return 20
		}
	case 2:
		return func(c *CPU) int {
			c.readImmediate() // consume the padding byte
			c.stopped = true
			return 4
		}
	case 3:
		return func(c *CPU) int {
			e := c.readSignedImmediate()
			c.pc = uint16(int32(c.pc) + int32(e))
			return 12
		}
	default:
		cc := row - 4 // 0=NZ,1=Z,2=NC,3=C
		return func(c *CPU) int {
			e := c.readSignedImmediate()
			if c.condition(cc) {
				c.pc = uint16(int32(c.pc) + int32(e))
				return 12
			}
			return 8
		}
	}
}

func buildCol2(row uint8) Opcode {
	switch row {
	case 0:
		return func(c *CPU) int { c.bus.Write(c.getBC(), c.a); return 8 }
	case 1:
		return func(c *CPU) int { c.a = c.bus.Read(c.getBC()); return 8 }
	case 2:
		return func(c *CPU) int { c.bus.Write(c.getDE(), c.a); return 8 }
	case 3:
		return func(c *CPU) int { c.a = c.bus.Read(c.getDE()); return 8 }
	case 4:
		return func(c *CPU) int {
			hl := c.getHL()
			c.bus.Write(hl, c.a)
			c.setHL(hl + 1)
			return 8
		}
	case 5:
		return func(c *CPU) int {
			hl := c.getHL()
			c.a = c.bus.Read(hl)
			c.setHL(hl + 1)
			return 8
		}
	case 6:
		return func(c *CPU) int {
			hl := c.getHL()
			c.bus.Write(hl, c.a)
			c.setHL(hl - 1)
			return 8
		}
	default:
		return func(c *CPU) int {
			hl := c.getHL()
			c.a = c.bus.Read(hl)
			c.setHL(hl - 1)
			return 8
		}
	}
}

func buildCol7(row uint8) Opcode {
	switch row {
	case 0:
		return func(c *CPU) int { c.rlca(); return 4 }
	case 1:
		return func(c *CPU) int { c.rrca(); return 4 }
	case 2:
		return func(c *CPU) int { c.rla(); return 4 }
	case 3:
		return func(c *CPU) int { c.rra(); return 4 }
	case 4:
		return func(c *CPU) int { c.daa(); return 4 }
	case 5:
		return func(c *CPU) int { c.cpl(); return 4 }
	case 6:
		return func(c *CPU) int { c.scf(); return 4 }
	default:
		return func(c *CPU) int { c.ccf(); return 4 }
	}
}

func byteOf(v uint16) uint8 { return uint8(v) }

// getPair/setPair address the four 16-bit register pairs used by the
// 0x00-0x3F block's row pairing (BC, DE, HL, SP), indexed 0-3.
func (c *CPU) getPair(idx uint8) uint16 {
	switch idx {
	case 0:
		return c.getBC()
	case 1:
		return c.getDE()
	case 2:
		return c.getHL()
	default:
		return c.sp
	}
}

func (c *CPU) setPair(idx uint8, v uint16) {
	switch idx {
	case 0:
		c.setBC(v)
	case 1:
		c.setDE(v)
	case 2:
		c.setHL(v)
	default:
		c.sp = v
	}
}

// condition evaluates one of the four branch conditions (0=NZ,1=Z,2=NC,3=C)
// shared by JR, JP, CALL and RET.
func (c *CPU) condition(cc uint8) bool {
	switch cc {
	case 0:
		return !c.isSet(flagZ)
	case 1:
		return c.isSet(flagZ)
	case 2:
		return !c.isSet(flagC)
	default:
		return c.isSet(flagC)
	}
}

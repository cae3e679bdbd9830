package cpu

import "github.com/rgstephen/go-dmgcore/dmg/bit"

// buildCBOp implements the CB-prefixed dispatch table: 0x00-0x3F is the
// rotate/shift group, 0x40-0x7F is BIT, 0x80-0xBF is RES, 0xC0-0xFF is
// SET. All four groups share the same three-bit register selector in the
// low bits, so dispatch is mechanical; the per-bit semantics follow the
// public DMG instruction table.
func buildCBOp(op uint8) Opcode {
	sel := op & 7
	cycles := func(base, memBase int) int {
		if sel == 6 {
			return memBase
		}
		return base
	}

	switch {
	case op <= 0x3F:
		kind := (op >> 3) & 7
		c8 := cycles(8, 16)
		return func(c *CPU) int {
			c.setReg8(sel, c.shiftRotate(kind, c.reg8(sel)))
			return c8
		}
	case op <= 0x7F:
		b := (op >> 3) & 7
		c8 := cycles(8, 12)
		return func(c *CPU) int {
			c.testBit(b, c.reg8(sel))
			return c8
		}
	case op <= 0xBF:
		b := (op >> 3) & 7
		c8 := cycles(8, 16)
		return func(c *CPU) int {
			c.setReg8(sel, bit.Reset(b, c.reg8(sel)))
			return c8
		}
	default:
		b := (op >> 3) & 7
		c8 := cycles(8, 16)
		return func(c *CPU) int {
			c.setReg8(sel, bit.Set(b, c.reg8(sel)))
			return c8
		}
	}
}

// shiftRotate implements the eight rotate/shift kinds selected by CB's
// bits 3-5: RLC, RRC, RL, RR, SLA, SRA, SWAP, SRL.
func (c *CPU) shiftRotate(kind uint8, v uint8) uint8 {
	var r uint8
	var carry bool

	switch kind {
	case 0: // RLC
		carry = v>>7&1 == 1
		r = v<<1 | v>>7
	case 1: // RRC
		carry = v&1 == 1
		r = v>>1 | v<<7
	case 2: // RL
		carry = v>>7&1 == 1
		r = v<<1 | c.bit01(flagC)
	case 3: // RR
		carry = v&1 == 1
		r = v>>1 | c.bit01(flagC)<<7
	case 4: // SLA
		carry = v>>7&1 == 1
		r = v << 1
	case 5: // SRA
		carry = v&1 == 1
		r = v>>1 | v&0x80
	case 6: // SWAP
		r = v<<4 | v>>4
	default: // SRL
		carry = v&1 == 1
		r = v >> 1
	}

	c.setFlagTo(flagZ, r == 0)
	c.resetFlag(flagN)
	c.resetFlag(flagH)
	c.setFlagTo(flagC, carry)
	return r
}

func (c *CPU) testBit(b, v uint8) {
	c.setFlagTo(flagZ, !bit.IsSet(b, v))
	c.resetFlag(flagN)
	c.setFlag(flagH)
}

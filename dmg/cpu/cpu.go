// Package cpu implements the LR35902 register file, the fetch/decode/
// execute loop for the full non-CB opcode table and the CB-prefixed
// dispatch table, and the interrupt service routine.
package cpu

import (
	"github.com/rgstephen/go-dmgcore/dmg/addr"
	"github.com/rgstephen/go-dmgcore/dmg/bit"
)

// Bus is everything the CPU needs from the rest of the machine: byte
// access and interrupt requests. Advancing the other subsystems by a
// cycle count is the top-level stepper's job, not the CPU's.
type Bus interface {
	Read(address uint16) uint8
	Write(address uint16, value uint8)
	RequestInterrupt(interrupt addr.Interrupt)
}

// Flag identifies one of F's four meaningful bits.
type Flag uint8

const (
	flagZ Flag = 0x80
	flagN Flag = 0x40
	flagH Flag = 0x20
	flagC Flag = 0x10
)

// CPU holds the LR35902 register file and the small amount of control
// state (IME, the EI delay, halt/stop) that governs instruction dispatch.
type CPU struct {
	a, f, b, c, d, e, h, l uint8
	sp, pc                 uint16

	interruptsEnabled bool
	eiPending         bool
	currentOpcode     uint16
	stopped           bool
	cycles            uint64
	halted            bool

	// haltBug marks that the previous instruction was HALT executed with
	// IME=0 and a pending interrupt: the next fetch must not advance PC
	// past the opcode byte, though operand reads still advance it.
	haltBug bool

	// TraceUnimplemented raises unimplemented-opcode diagnostics from
	// debug to warning level. They are logged either way.
	TraceUnimplemented bool

	bus Bus
}

// New returns a CPU wired to bus, with every register held at zero per
// this core's reset contract (IME=0, SP=0xFFFE, PC=0x0100).
func New(bus Bus) *CPU {
	c := &CPU{bus: bus}
	c.Reset()
	return c
}

// Reset restores the CPU to its power-on/reset state.
func (c *CPU) Reset() {
	c.a, c.f, c.b, c.c, c.d, c.e, c.h, c.l = 0, 0, 0, 0, 0, 0, 0, 0
	c.sp = 0xFFFE
	c.pc = 0x0100
	c.interruptsEnabled = false
	c.eiPending = false
	c.halted = false
	c.stopped = false
	c.haltBug = false
	c.cycles = 0
}

// Exec executes a single instruction (servicing a pending interrupt first
// if one is due) and returns the number of cycles it consumed, including
// the 20-cycle cost of any interrupt dispatch that preceded it.
func (c *CPU) Exec() int {
	wake, dispatchCycles := c.handleInterrupts()

	if c.halted {
		if wake {
			c.halted = false
		} else {
			// The top-level stepper, not the CPU, is responsible for
			// advancing the rest of the machine by the returned cycle
			// count - including while halted.
			return 4
		}
	}

	op := Decode(c)

	skipFirstPCInc := c.haltBug
	if !skipFirstPCInc {
		c.pc++
	}
	if bit.High(c.currentOpcode) == 0xCB {
		c.pc++
	}

	// An EI pending before this instruction takes effect after it; the EI
	// instruction itself does not enable IME, and a DI here cancels it.
	promoteIME := c.eiPending
	cycles := dispatchCycles + op(c)
	c.cycles += uint64(cycles)

	if skipFirstPCInc {
		c.haltBug = false
	}

	if promoteIME && c.eiPending {
		c.eiPending = false
		c.interruptsEnabled = true
	}

	return cycles
}

// handleInterrupts services the highest-priority pending interrupt, if IME
// is set, pushing PC and jumping to its vector. It reports wake (whether
// any enabled interrupt is pending at all, which wakes the CPU from HALT
// regardless of IME) and dispatchCycles (20 if an interrupt was actually
// serviced this call, 0 otherwise).
func (c *CPU) handleInterrupts() (wake bool, dispatchCycles int) {
	enabled := c.bus.Read(addr.IE)
	fired := c.bus.Read(addr.IF)
	pending := enabled&fired&0x1F != 0

	if !pending {
		return false, 0
	}
	if !c.interruptsEnabled {
		return true, 0
	}

	for i := uint8(0); i < 5; i++ {
		if bit.IsSet(i, fired) && bit.IsSet(i, enabled) {
			vector := addr.Interrupt(1 << i).Vector()
			c.bus.Write(addr.IF, bit.Reset(i, fired))
			c.pushStack(c.pc)
			c.pc = vector
			c.interruptsEnabled = false
			return true, 20
		}
	}

	return true, 0
}

func (c *CPU) pushStack(value uint16) {
	c.sp--
	c.bus.Write(c.sp, bit.High(value))
	c.sp--
	c.bus.Write(c.sp, bit.Low(value))
}

func (c *CPU) popStack() uint16 {
	low := c.bus.Read(c.sp)
	c.sp++
	high := c.bus.Read(c.sp)
	c.sp++
	return bit.Combine(high, low)
}

func (c *CPU) peekImmediate() uint8 {
	return c.bus.Read(c.pc)
}

func (c *CPU) peekImmediateWord() uint16 {
	low := c.bus.Read(c.pc)
	high := c.bus.Read(c.pc + 1)
	return bit.Combine(high, low)
}

func (c *CPU) readImmediate() uint8 {
	n := c.bus.Read(c.pc)
	c.pc++
	return n
}

func (c *CPU) readImmediateWord() uint16 {
	nn := c.peekImmediateWord()
	c.pc += 2
	return nn
}

func (c *CPU) readSignedImmediate() int8 {
	return int8(c.readImmediate())
}

func (c *CPU) setFlag(f Flag)   { c.f |= uint8(f) }
func (c *CPU) resetFlag(f Flag) { c.f &^= uint8(f) }
func (c *CPU) isSet(f Flag) bool { return c.f&uint8(f) != 0 }

func (c *CPU) setFlagTo(f Flag, on bool) {
	if on {
		c.setFlag(f)
		return
	}
	c.resetFlag(f)
}

func (c *CPU) bit01(f Flag) uint8 {
	if c.isSet(f) {
		return 1
	}
	return 0
}

func (c *CPU) setBC(v uint16) { c.b, c.c = bit.High(v), bit.Low(v) }
func (c *CPU) getBC() uint16  { return bit.Combine(c.b, c.c) }
func (c *CPU) setDE(v uint16) { c.d, c.e = bit.High(v), bit.Low(v) }
func (c *CPU) getDE() uint16  { return bit.Combine(c.d, c.e) }
func (c *CPU) setHL(v uint16) { c.h, c.l = bit.High(v), bit.Low(v) }
func (c *CPU) getHL() uint16  { return bit.Combine(c.h, c.l) }
func (c *CPU) setAF(v uint16) { c.a, c.f = bit.High(v), bit.Low(v)&0xF0 }
func (c *CPU) getAF() uint16  { return bit.Combine(c.a, c.f) }

// reg8 reads an operand selected by a three-bit selector (0-7 -> B, C, D,
// E, H, L, (HL), A); selector 6 reads through the bus instead of a
// register.
func (c *CPU) reg8(sel uint8) uint8 {
	switch sel {
	case 0:
		return c.b
	case 1:
		return c.c
	case 2:
		return c.d
	case 3:
		return c.e
	case 4:
		return c.h
	case 5:
		return c.l
	case 6:
		return c.bus.Read(c.getHL())
	default:
		return c.a
	}
}

// setReg8 is reg8's write-side counterpart.
func (c *CPU) setReg8(sel uint8, v uint8) {
	switch sel {
	case 0:
		c.b = v
	case 1:
		c.c = v
	case 2:
		c.d = v
	case 3:
		c.e = v
	case 4:
		c.h = v
	case 5:
		c.l = v
	case 6:
		c.bus.Write(c.getHL(), v)
	default:
		c.a = v
	}
}

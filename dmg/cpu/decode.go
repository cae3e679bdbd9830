package cpu

import (
	"context"
	"log/slog"

	"github.com/rgstephen/go-dmgcore/dmg/bit"
)

// Opcode is a decoded instruction body: given the CPU it has already been
// fetched against, it executes the instruction and returns its cycle cost.
type Opcode func(*CPU) int

// Decode peeks the instruction at PC, resolving the 0xCB prefix, and
// returns the Opcode to execute. It also records the opcode value so Exec
// can tell whether to advance PC past a CB prefix byte.
func Decode(c *CPU) Opcode {
	word := c.peekImmediateWord()
	high, low := bit.High(word), bit.Low(word)

	if low == 0xCB {
		c.currentOpcode = bit.Combine(0xCB, high)
		return opcodesCB[high]
	}

	c.currentOpcode = bit.Combine(0, low)
	return opcodes[low]
}

var opcodes [256]Opcode
var opcodesCB [256]Opcode

func init() {
	for op := 0; op <= 0x3F; op++ {
		opcodes[op] = buildLowBlock(uint8(op))
	}
	for op := 0x40; op <= 0x7F; op++ {
		opcodes[op] = buildLoadBlock(uint8(op))
	}
	for op := 0x80; op <= 0xBF; op++ {
		opcodes[op] = buildALUBlock(uint8(op))
	}
	for op := 0xC0; op <= 0xFF; op++ {
		opcodes[op] = buildHighBlock(uint8(op))
	}
	for op := 0; op < 256; op++ {
		opcodesCB[op] = buildCBOp(uint8(op))
	}
}

// unimplemented reports an opcode the core does not model and treats it
// as a NOP, per the core's error policy: diagnose, never silently
// misbehave. The report is debug-level by default, or a warning when the
// CPU's TraceUnimplemented is set.
func unimplemented(name string) Opcode {
	return func(c *CPU) int {
		level := slog.LevelDebug
		if c.TraceUnimplemented {
			level = slog.LevelWarn
		}
		slog.Log(context.Background(), level, "cpu: unimplemented opcode", "opcode", name, "pc", c.pc)
		return 4
	}
}

package cpu

// Snapshot is a debug-only view of CPU state, constructed by tests and
// debugging tools. Production code never builds or depends on one.
type Snapshot struct {
	A, F, B, C, D, E, H, L uint8
	SP, PC                 uint16
	IME                    bool
	Halted                 bool
	Cycles                 uint64
}

// Snapshot captures the CPU's current register file and control state.
func (c *CPU) Snapshot() Snapshot {
	return Snapshot{
		A: c.a, F: c.f, B: c.b, C: c.c, D: c.d, E: c.e, H: c.h, L: c.l,
		SP: c.sp, PC: c.pc,
		IME:    c.interruptsEnabled,
		Halted: c.halted,
		Cycles: c.cycles,
	}
}

// PC, SP, and AF/BC/DE/HL accessors give tests direct, read-only access
// without needing a full Snapshot for a single value.
func (c *CPU) PC() uint16 { return c.pc }
func (c *CPU) SP() uint16 { return c.sp }
func (c *CPU) AF() uint16 { return c.getAF() }
func (c *CPU) BC() uint16 { return c.getBC() }
func (c *CPU) DE() uint16 { return c.getDE() }
func (c *CPU) HL() uint16 { return c.getHL() }

// SetPC lets a test harness position the CPU at a specific instruction
// without going through a full Reset.
func (c *CPU) SetPC(pc uint16) { c.pc = pc }

// IsHalted reports whether the CPU is currently halted.
func (c *CPU) IsHalted() bool { return c.halted }

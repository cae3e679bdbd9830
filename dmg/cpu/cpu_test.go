package cpu

import (
	"testing"

	"github.com/rgstephen/go-dmgcore/dmg/addr"
	"github.com/stretchr/testify/require"
)

// testBus is a flat 64KiB byte array satisfying the Bus interface, enough
// to drive the CPU in isolation.
type testBus struct {
	mem [0x10000]uint8
}

func (b *testBus) Read(address uint16) uint8         { return b.mem[address] }
func (b *testBus) Write(address uint16, value uint8) { b.mem[address] = value }
func (b *testBus) RequestInterrupt(i addr.Interrupt) { b.mem[addr.IF] |= uint8(i) }

func newTestCPU(program ...uint8) (*CPU, *testBus) {
	bus := &testBus{}
	for i, b := range program {
		bus.mem[0x0100+i] = b
	}
	return New(bus), bus
}

func (c *CPU) run(n int) {
	for i := 0; i < n; i++ {
		c.Exec()
	}
}

func TestSeedLoadImmediatesIntoRegisters(t *testing.T) {
	c, _ := newTestCPU(0x06, 0x05, 0x0E, 0x07, 0x3E, 0x09)
	c.run(3)

	require.Equal(t, uint8(0x05), c.b)
	require.Equal(t, uint8(0x07), c.c)
	require.Equal(t, uint8(0x09), c.a)
}

func TestSeedAddSetsExpectedFlags(t *testing.T) {
	c, _ := newTestCPU(0x06, 0x05, 0x3E, 0x03, 0x80)
	c.run(3)

	require.Equal(t, uint8(0x08), c.a)
	require.False(t, c.isSet(flagZ))
	require.False(t, c.isSet(flagN))
	require.False(t, c.isSet(flagH))
	require.False(t, c.isSet(flagC))
}

func TestFLowNibbleAlwaysZero(t *testing.T) {
	c, _ := newTestCPU()
	c.setAF(0x12FF)
	require.Zero(t, c.f&0x0F)
}

func TestPushPopRoundTrip(t *testing.T) {
	c, _ := newTestCPU()
	c.setBC(0xBEEF)
	sp := c.sp

	c.pushStack(c.getBC())
	c.setBC(0)
	c.setBC(c.popStack())

	require.Equal(t, uint16(0xBEEF), c.getBC())
	require.Equal(t, sp, c.sp)
}

func TestCallThenRetRestoresPC(t *testing.T) {
	// CALL 0x0200; at 0x0200: RET
	c, bus := newTestCPU(0xCD, 0x00, 0x02)
	bus.mem[0x0200] = 0xC9

	c.run(2)

	require.Equal(t, uint16(0x0103), c.pc)
}

func TestDAARoundTripsBCDAddition(t *testing.T) {
	// LD A,0x09; LD B,0x09; ADD A,B; DAA
	c, _ := newTestCPU(0x3E, 0x09, 0x06, 0x09, 0x80, 0x27)
	c.run(4)

	require.Equal(t, uint8(0x18), c.a)
	require.False(t, c.isSet(flagC))
}

func TestEIDelaysIMEByOneInstruction(t *testing.T) {
	// EI; NOP
	c, _ := newTestCPU(0xFB, 0x00)
	c.Exec()
	require.False(t, c.interruptsEnabled)
	c.Exec()
	require.True(t, c.interruptsEnabled)
}

func TestHaltExitsWhenInterruptPending(t *testing.T) {
	c, bus := newTestCPU(0x76)
	bus.mem[addr.IE] = 0x01
	c.Exec()
	require.True(t, c.halted)

	bus.mem[addr.IF] = 0x01
	c.interruptsEnabled = false
	cycles := c.Exec()
	require.False(t, c.halted)
	require.Equal(t, 4, cycles)
}

func TestInterruptDispatchAddsTwentyCyclesToReturnedCount(t *testing.T) {
	c, bus := newTestCPU(0x00) // NOP at 0x0100; never reached once the interrupt fires
	bus.mem[addr.IE] = 0x01
	bus.mem[addr.IF] = 0x01
	bus.mem[0x0040] = 0x00 // NOP at the VBlank vector, costs 4 cycles on its own
	c.interruptsEnabled = true

	cycles := c.Exec()

	require.Equal(t, 24, cycles)
	require.False(t, c.interruptsEnabled)
	require.Equal(t, uint16(0x0041), c.pc)
	require.Equal(t, uint16(0x0100), c.popStack())
}

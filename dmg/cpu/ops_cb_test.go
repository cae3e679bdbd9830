package cpu

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCBRotateLeftCarriesHighBit(t *testing.T) {
	// CB 00 = RLC B
	c, _ := newTestCPU(0xCB, 0x00)
	c.b = 0x85
	c.run(1)

	require.Equal(t, uint8(0x0B), c.b)
	require.True(t, c.isSet(flagC))
}

func TestCBBitSetsZeroFlagWhenClear(t *testing.T) {
	// CB 7F = BIT 7,A
	c, _ := newTestCPU(0xCB, 0x7F)
	c.a = 0x00
	c.run(1)

	require.True(t, c.isSet(flagZ))
	require.True(t, c.isSet(flagH))
	require.False(t, c.isSet(flagN))
}

func TestCBResClearsBit(t *testing.T) {
	// CB 87 = RES 0,A
	c, _ := newTestCPU(0xCB, 0x87)
	c.a = 0xFF
	c.run(1)

	require.Equal(t, uint8(0xFE), c.a)
}

func TestCBSetOnMemoryOperandCostsSixteenCycles(t *testing.T) {
	// CB C6 = SET 0,(HL)
	c, bus := newTestCPU(0xCB, 0xC6)
	c.setHL(0xC000)
	bus.mem[0xC000] = 0x00

	cycles := c.Exec()

	require.Equal(t, 16, cycles)
	require.Equal(t, uint8(0x01), bus.mem[0xC000])
}

func TestCBSwapNibbles(t *testing.T) {
	// CB 37 = SWAP A
	c, _ := newTestCPU(0xCB, 0x37)
	c.a = 0x1E
	c.run(1)

	require.Equal(t, uint8(0xE1), c.a)
}

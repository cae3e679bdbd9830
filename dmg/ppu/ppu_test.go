package ppu

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStepAdvancesLYAfterOneLine(t *testing.T) {
	p := New()
	p.LCDC = 0x80

	p.Step(114)

	require.Equal(t, uint8(1), p.LY)
}

func TestReachingVBlankSetsModeAndRequestsInterrupt(t *testing.T) {
	p := New()
	p.LCDC = 0x80
	var requested uint8
	p.RequestInterrupt = func(bit uint8) { requested = bit }

	p.Step(114)
	p.Step(114 * 143)

	require.Equal(t, uint8(144), p.LY)
	require.Equal(t, VBlank, p.Mode)
	require.Equal(t, uint8(0x01), requested)
	require.Equal(t, uint8(1), p.STAT&0x03)
}

func TestVBlankInterruptLatchedOncePerFrame(t *testing.T) {
	p := New()
	p.LCDC = 0x80
	count := 0
	p.RequestInterrupt = func(uint8) { count++ }

	for i := 0; i < 154; i++ {
		p.Step(114)
	}

	require.Equal(t, 1, count)
}

func TestLCDDisabledForcesLYZeroAndModeZero(t *testing.T) {
	p := New()
	p.LCDC = 0x00

	p.Step(1000)

	require.Zero(t, p.LY)
	require.Equal(t, HBlank, p.Mode)
}

func TestLYCCoincidenceBit(t *testing.T) {
	p := New()
	p.LCDC = 0x80
	p.LYC = 1

	p.Step(114)

	require.NotZero(t, p.STAT&(1<<2))
}

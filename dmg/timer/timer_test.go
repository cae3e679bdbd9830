package timer

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTIMAOverflowReloadsFromTMAAndRequestsInterrupt(t *testing.T) {
	tm := New()
	tm.TAC = 0x05 // enabled, period 16
	tm.TMA = 0x00
	tm.TIMA = 0xFE

	var requested uint8
	tm.RequestInterrupt = func(bit uint8) { requested = bit }

	tm.Step(16)
	require.Equal(t, uint8(0xFF), tm.TIMA)
	require.Zero(t, requested)

	tm.Step(16)
	require.Equal(t, uint8(0x00), tm.TIMA)
	require.Equal(t, uint8(0x04), requested)
}

func TestDIVIncrementsOncePer256Cycles(t *testing.T) {
	tm := New()
	before := tm.DIV()

	tm.Step(256)

	require.Equal(t, uint8(before+1), tm.DIV())
}

func TestDIVResetOnlyOnExplicitWrite(t *testing.T) {
	tm := New()
	tm.Step(300)
	require.NotZero(t, tm.DIV())

	tm.ResetDIV()
	require.Zero(t, tm.DIV())
}

func TestDisabledTimerDoesNotAdvanceTIMA(t *testing.T) {
	tm := New()
	tm.TAC = 0x01 // disabled (bit 2 clear), period bits irrelevant
	tm.TIMA = 0x00

	tm.Step(10000)

	require.Zero(t, tm.TIMA)
}

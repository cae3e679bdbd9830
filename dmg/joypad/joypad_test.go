package joypad

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResetReadsAllOnes(t *testing.T) {
	j := New()
	require.Equal(t, uint8(0xFF), j.Read())
}

func TestActionGroupComposition(t *testing.T) {
	j := New()
	j.WriteSelect(0x20)
	j.Set(A, true)
	require.Equal(t, uint8(0xEE), j.Read())

	j.Set(A, false)
	require.Equal(t, uint8(0x0F), j.Read()&0x0F)
}

func TestDirectionGroupComposition(t *testing.T) {
	j := New()
	j.WriteSelect(0x10)
	j.Set(Up, true)
	require.Equal(t, uint8(0xDB), j.Read())
}

func TestInterruptFiresOnHighToLowTransition(t *testing.T) {
	j := New()
	j.WriteSelect(0x20)
	fired := false
	j.RequestInterrupt = func() { fired = true }

	j.Set(A, true)
	require.True(t, fired)
}

package dmg

import (
	"testing"

	"github.com/rgstephen/go-dmgcore/dmg/joypad"
	"github.com/stretchr/testify/require"
)

func romImage(size int) []byte {
	img := make([]byte, size)
	// LD B,0x05; LD C,0x07; LD A,0x09; HALT
	program := []byte{0x06, 0x05, 0x0E, 0x07, 0x3E, 0x09, 0x76}
	copy(img[0x0100:], program)
	return img
}

func TestMachineLoadResetsCPUAndRunsProgram(t *testing.T) {
	m := New(Config{})
	require.NoError(t, m.Load(romImage(0x8000)))

	for i := 0; i < 3; i++ {
		m.StepInstruction()
	}

	require.Equal(t, uint16(0x0507), m.CPU.BC())
	require.Equal(t, uint8(0x09), uint8(m.CPU.AF()>>8))
}

func TestMachineStepInstructionAdvancesPeripherals(t *testing.T) {
	m := New(Config{})
	require.NoError(t, m.Load(romImage(0x8000)))

	before := m.Bus.Timer.DIV()
	for i := 0; i < 100; i++ {
		m.StepInstruction()
	}
	require.NotEqual(t, before, m.Bus.Timer.DIV())
}

func TestMachineSetButtonReflectsInP1(t *testing.T) {
	m := New(Config{})
	require.NoError(t, m.Load(romImage(0x8000)))

	m.WriteByte(0xFF00, 0x20) // select action buttons
	m.SetButton(joypad.A, true)

	require.Equal(t, uint8(0xEE), m.ReadByte(0xFF00))
}

func TestMachineReadWriteByteBypassesCPU(t *testing.T) {
	m := New(Config{})
	require.NoError(t, m.Load(romImage(0x8000)))

	m.WriteByte(0xC000, 0x42)
	require.Equal(t, uint8(0x42), m.ReadByte(0xC000))
}

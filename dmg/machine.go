// Package dmg wires the CPU, Bus, and the cartridge it loads into the
// single top-level stepper a host drives.
package dmg

import (
	"github.com/rgstephen/go-dmgcore/dmg/cart"
	"github.com/rgstephen/go-dmgcore/dmg/cpu"
	"github.com/rgstephen/go-dmgcore/dmg/joypad"
	"github.com/rgstephen/go-dmgcore/dmg/memory"
)

// Config holds the handful of boot-time switches the host may set before
// calling Load. It is deliberately a plain struct: there is nothing here
// that warrants a configuration library.
type Config struct {
	// TraceUnimplementedOpcodes raises unimplemented-opcode diagnostics
	// from debug to warning level; they are logged either way, and the
	// opcode always continues as a 4-cycle NOP regardless of this setting.
	TraceUnimplementedOpcodes bool
}

// Machine is the single owner of the Bus and CPU, and the thing a host
// loop or debugger talks to. Subsystems never hold a reference to one
// another; only Machine and the Bus do.
type Machine struct {
	Bus *memory.Bus
	CPU *cpu.CPU

	cfg Config
}

// New creates a Machine with no cartridge loaded.
func New(cfg Config) *Machine {
	bus := memory.New()
	c := cpu.New(bus)
	c.TraceUnimplemented = cfg.TraceUnimplementedOpcodes
	return &Machine{
		Bus: bus,
		CPU: c,
		cfg: cfg,
	}
}

// Load parses image as a ROM, installs it, and resets every subsystem to
// its power-on state. It fails only if the image is empty.
func (m *Machine) Load(image []byte) error {
	c, err := cart.Load(image)
	if err != nil {
		return err
	}
	m.Bus.Load(c)
	m.CPU.Reset()
	return nil
}

// Reset clears all RAM and restores the CPU and peripherals to their
// power-on state, without discarding the loaded cartridge.
func (m *Machine) Reset() {
	m.Bus.Reset()
	m.CPU.Reset()
}

// StepInstruction executes exactly one CPU instruction, advances the
// Timer, PPU, and APU stub by the cycles it consumed, and returns that
// cycle count.
func (m *Machine) StepInstruction() int {
	cycles := m.CPU.Exec()
	m.Bus.Tick(cycles)
	return cycles
}

// SetButton latches a joypad button's pressed state.
func (m *Machine) SetButton(btn joypad.Button, pressed bool) {
	m.Bus.Joypad.Set(btn, pressed)
}

// ReadByte and WriteByte give a host or test harness debug access through
// the Bus, bypassing CPU cycle accounting entirely.
func (m *Machine) ReadByte(address uint16) uint8 {
	return m.Bus.Read(address)
}

func (m *Machine) WriteByte(address uint16, value uint8) {
	m.Bus.Write(address, value)
}

// Cartridge returns the currently loaded cartridge, or nil.
func (m *Machine) Cartridge() *cart.Cartridge {
	return m.Bus.Cartridge()
}

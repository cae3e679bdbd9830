// Package memory implements the Bus: address decoding, RAM/IO ownership,
// and dispatch of reads and writes to the cartridge, timer, PPU, joypad
// and APU-stub that live behind it.
package memory

import (
	"log/slog"

	"github.com/rgstephen/go-dmgcore/dmg/addr"
	"github.com/rgstephen/go-dmgcore/dmg/apu"
	"github.com/rgstephen/go-dmgcore/dmg/cart"
	"github.com/rgstephen/go-dmgcore/dmg/joypad"
	"github.com/rgstephen/go-dmgcore/dmg/ppu"
	"github.com/rgstephen/go-dmgcore/dmg/timer"
)

// Bus is the single owner of every RAM region, register page, and
// peripheral the machine's subsystems touch. The CPU holds the Bus; the
// Timer, PPU and Joypad hold no reference to the Bus or to one another and
// reach it only through the RequestInterrupt callbacks wired here.
type Bus struct {
	cart *cart.Cartridge

	vram [0x2000]uint8
	wram [8][0x1000]uint8 // banks 0-1 used on DMG; rest reserved for CGB parity
	oam  [0xA0]uint8
	hram [0x7F]uint8

	io [0x80]uint8 // backing store for I/O bytes with no dedicated owner

	ie uint8

	Timer  *timer.Timer
	PPU    *ppu.PPU
	Joypad *joypad.Joypad
	APU    *apu.APU

	bootROMDisabled bool
}

// New builds a Bus with no cartridge loaded. Load must be called before
// the machine is usable.
func New() *Bus {
	b := &Bus{
		Timer:  timer.New(),
		PPU:    ppu.New(),
		Joypad: joypad.New(),
		APU:    apu.New(),
	}
	b.Timer.RequestInterrupt = func(bit uint8) { b.RequestInterrupt(addr.Interrupt(bit)) }
	b.PPU.RequestInterrupt = func(bit uint8) { b.RequestInterrupt(addr.Interrupt(bit)) }
	b.Joypad.RequestInterrupt = func() { b.RequestInterrupt(addr.Joypad) }
	return b
}

// Load installs a parsed cartridge and clears all RAM/register state.
func (b *Bus) Load(c *cart.Cartridge) {
	b.cart = c
	b.Reset()
}

// Reset clears all RAM regions and restores peripheral state, without
// discarding the loaded cartridge image.
func (b *Bus) Reset() {
	b.vram = [0x2000]uint8{}
	b.wram = [8][0x1000]uint8{}
	b.oam = [0xA0]uint8{}
	b.hram = [0x7F]uint8{}
	b.io = [0x80]uint8{}
	b.ie = 0
	b.bootROMDisabled = false

	if b.cart != nil {
		b.cart.Reset()
	}
	b.Timer = timer.New()
	b.Timer.RequestInterrupt = func(bit uint8) { b.RequestInterrupt(addr.Interrupt(bit)) }
	b.PPU = ppu.New()
	b.PPU.RequestInterrupt = func(bit uint8) { b.RequestInterrupt(addr.Interrupt(bit)) }
	b.Joypad = joypad.New()
	b.Joypad.RequestInterrupt = func() { b.RequestInterrupt(addr.Joypad) }
	b.APU = apu.New()
}

// RequestInterrupt OR-sets i's bit into IF. Any subsystem may call this;
// only the CPU ever clears bits back out.
func (b *Bus) RequestInterrupt(i addr.Interrupt) {
	cur := b.io[addr.IF-0xFF00]
	b.io[addr.IF-0xFF00] = cur | uint8(i)
}

// Tick advances every peripheral by cycles CPU cycles, in the fixed order
// the top-level stepper relies on: Timer, then PPU, then the APU stub.
func (b *Bus) Tick(cycles int) {
	b.Timer.Step(cycles)
	b.PPU.Step(cycles)
	b.APU.Step(cycles)
}

// Read dispatches an address to its owning region per the DMG memory map.
func (b *Bus) Read(address uint16) uint8 {
	switch {
	case address <= 0x7FFF:
		if b.cart == nil {
			return 0xFF
		}
		return b.cart.Read(address)
	case address <= 0x9FFF:
		return b.vram[address-0x8000]
	case address <= 0xBFFF:
		if b.cart == nil {
			return 0xFF
		}
		return b.cart.Read(address)
	case address <= 0xCFFF:
		return b.wram[0][address-0xC000]
	case address <= 0xDFFF:
		return b.wram[1][address-0xD000]
	case address <= 0xFDFF:
		return b.readEchoedWRAM(address)
	case address <= 0xFE9F:
		return b.oam[address-0xFE00]
	case address <= 0xFEFF:
		return 0xFF // prohibited region
	case address <= 0xFF7F:
		return b.readIO(address)
	case address <= 0xFFFE:
		return b.hram[address-0xFF80]
	default:
		return b.ie
	}
}

// readEchoedWRAM aliases 0xE000-0xFDFF onto 0xC000-0xDDFF.
func (b *Bus) readEchoedWRAM(address uint16) uint8 {
	mirrored := address - 0x2000
	if mirrored <= 0xCFFF {
		return b.wram[0][mirrored-0xC000]
	}
	return b.wram[1][mirrored-0xD000]
}

func (b *Bus) writeEchoedWRAM(address uint16, value uint8) {
	mirrored := address - 0x2000
	if mirrored <= 0xCFFF {
		b.wram[0][mirrored-0xC000] = value
		return
	}
	b.wram[1][mirrored-0xD000] = value
}

// Write dispatches an address/value pair to its owning region.
func (b *Bus) Write(address uint16, value uint8) {
	switch {
	case address <= 0x7FFF:
		if b.cart != nil {
			b.cart.Write(address, value)
		}
	case address <= 0x9FFF:
		b.vram[address-0x8000] = value
	case address <= 0xBFFF:
		if b.cart != nil {
			b.cart.Write(address, value)
		}
	case address <= 0xCFFF:
		b.wram[0][address-0xC000] = value
	case address <= 0xDFFF:
		b.wram[1][address-0xD000] = value
	case address <= 0xFDFF:
		b.writeEchoedWRAM(address, value)
	case address <= 0xFE9F:
		b.oam[address-0xFE00] = value
	case address <= 0xFEFF:
		// prohibited region, writes ignored
	case address <= 0xFF7F:
		b.writeIO(address, value)
	case address <= 0xFFFE:
		b.hram[address-0xFF80] = value
	default:
		b.ie = value
	}
}

func (b *Bus) readIO(address uint16) uint8 {
	switch {
	case address == addr.P1:
		return b.Joypad.Read()
	case address == addr.DIV:
		return b.Timer.DIV()
	case address == addr.TIMA:
		return b.Timer.TIMA
	case address == addr.TMA:
		return b.Timer.TMA
	case address == addr.TAC:
		return b.Timer.TAC
	case address == addr.IF:
		return b.io[addr.IF-0xFF00]
	case address == addr.LCDC:
		return b.PPU.LCDC
	case address == addr.STAT:
		return b.PPU.STAT
	case address == addr.LY:
		return b.PPU.LY
	case address == addr.LYC:
		return b.PPU.LYC
	case address >= addr.AudioStart && address <= addr.AudioEnd:
		return b.APU.Read(address)
	default:
		return b.io[address-0xFF00]
	}
}

// logUnmapped reports an I/O write outside every recognized register,
// matching the core's policy of diagnosing rather than rejecting unusual
// accesses a real ROM might still make.
func (b *Bus) logUnmapped(address uint16, value uint8) {
	slog.Debug("bus: write to unmapped io register", "address", address, "value", value)
}

func (b *Bus) writeIO(address uint16, value uint8) {
	switch {
	case address == addr.P1:
		b.Joypad.WriteSelect(value)
	case address == addr.DIV:
		b.Timer.ResetDIV()
	case address == addr.TIMA:
		b.Timer.TIMA = value
	case address == addr.TMA:
		b.Timer.TMA = value
	case address == addr.TAC:
		b.Timer.TAC = value
	case address == addr.IF:
		b.io[addr.IF-0xFF00] = value & 0x1F
	case address == addr.LCDC:
		b.PPU.LCDC = value
	case address == addr.STAT:
		b.PPU.STAT = b.PPU.STAT&0x07 | value&0xF8
	case address == addr.LY:
		// CPU writes to LY are ignored; it is PPU-owned.
	case address == addr.LYC:
		b.PPU.LYC = value
	case address == addr.DMA:
		b.doDMA(value)
	case address == 0xFF50:
		b.bootROMDisabled = true
	case address >= addr.AudioStart && address <= addr.AudioEnd:
		b.APU.Write(address, value)
	default:
		b.logUnmapped(address, value)
		b.io[address-0xFF00] = value
	}
}

// doDMA copies 160 bytes starting at value<<8 into OAM, as triggered by a
// write to the DMA register.
func (b *Bus) doDMA(value uint8) {
	src := uint16(value) << 8
	for i := uint16(0); i < 0xA0; i++ {
		b.oam[i] = b.Read(src + i)
	}
}

// Cartridge returns the loaded cartridge, or nil if none has been loaded.
func (b *Bus) Cartridge() *cart.Cartridge {
	return b.cart
}

package cart

import "time"

// MBC is the uniform contract every cartridge controller implements,
// whether it switches banks or not.
type MBC interface {
	Read(address uint16) uint8
	Write(address uint16, value uint8)
	Reset()
}

func newMBC(t Type, rom []byte, ramBanks int) MBC {
	switch t {
	case TypeMBC1, TypeMBC1RAM, TypeMBC1RAMBattery:
		return newMBC1(rom, ramBanks)
	case TypeMBC2, TypeMBC2Battery:
		return newMBC2(rom)
	case TypeMBC3RTCBattery, TypeMBC3RTCRAMBattery, TypeMBC3, TypeMBC3RAM, TypeMBC3RAMBattery:
		return newMBC3(rom, ramBanks, t.hasRTC(), nil)
	case TypeMBC5, TypeMBC5RAM, TypeMBC5RAMBattery, TypeMBC5Rumble, TypeMBC5RumbleRAM, TypeMBC5RumbleRAMBattery:
		return newMBC5(rom, ramBanks)
	default:
		return newNoMBC(rom)
	}
}

// NoMBC is the controller for unbanked ROM-only cartridges. Per the bank
// write contract, it ignores every write into its address range.
type NoMBC struct {
	rom []uint8
}

func newNoMBC(rom []uint8) *NoMBC {
	return &NoMBC{rom: rom}
}

func (m *NoMBC) Read(address uint16) uint8 {
	if int(address) >= len(m.rom) {
		return 0xFF
	}
	return m.rom[address]
}

func (m *NoMBC) Write(address uint16, value uint8) {}

func (m *NoMBC) Reset() {}

// MBC1 implements the first and most common bank controller: a 5-bit low
// ROM-bank register, a 2-bit high register shared between ROM bank bits 5-6
// and the RAM bank depending on the mode flag, and a RAM-enable latch.
type MBC1 struct {
	rom []uint8
	ram []uint8

	romBankCount int
	ramBankCount int

	low        uint8 // 5 bits, power-on value 1
	high       uint8 // 2 bits
	mode       uint8 // 0 = ROM banking, 1 = RAM banking
	ramEnabled bool
}

func newMBC1(rom []uint8, ramBanks int) *MBC1 {
	bankCount := len(rom) / 0x4000
	if bankCount < 1 {
		bankCount = 1
	}
	return &MBC1{
		rom:          rom,
		ram:          make([]uint8, ramBanks*0x2000),
		romBankCount: bankCount,
		ramBankCount: ramBanks,
		low:          1,
	}
}

func (m *MBC1) romBank() int {
	bank := (int(m.high)<<5 | int(m.low)) % m.romBankCount
	return bank
}

func (m *MBC1) ramBank() int {
	if m.mode == 1 && m.ramBankCount > 0 {
		return int(m.high) % m.ramBankCount
	}
	return 0
}

func (m *MBC1) Read(address uint16) uint8 {
	switch {
	case address <= 0x3FFF:
		return m.rom[address]
	case address <= 0x7FFF:
		offset := m.romBank()*0x4000 + int(address-0x4000)
		if offset >= len(m.rom) {
			return 0xFF
		}
		return m.rom[offset]
	case address >= 0xA000 && address <= 0xBFFF:
		if !m.ramEnabled || len(m.ram) == 0 {
			return 0xFF
		}
		offset := m.ramBank()*0x2000 + int(address-0xA000)
		if offset >= len(m.ram) {
			return 0xFF
		}
		return m.ram[offset]
	default:
		return 0xFF
	}
}

func (m *MBC1) Write(address uint16, value uint8) {
	switch {
	case address <= 0x1FFF:
		m.ramEnabled = value&0x0F == 0x0A
	case address <= 0x3FFF:
		low := value & 0x1F
		if low == 0 {
			low = 1
		}
		m.low = low
	case address <= 0x5FFF:
		m.high = value & 0x03
	case address <= 0x7FFF:
		m.mode = value & 0x01
	case address >= 0xA000 && address <= 0xBFFF:
		if !m.ramEnabled || len(m.ram) == 0 {
			return
		}
		offset := m.ramBank()*0x2000 + int(address-0xA000)
		if offset < len(m.ram) {
			m.ram[offset] = value
		}
	}
}

func (m *MBC1) Reset() {
	m.low = 1
	m.high = 0
	m.mode = 0
	m.ramEnabled = false
}

// MBC2 adds a small built-in 512x4-bit RAM; address bit 8 selects between
// the ROM-bank register and the RAM-enable latch on writes below 0x4000.
type MBC2 struct {
	rom        []uint8
	ram        []uint8
	romBank    uint8
	ramEnabled bool
	bankCount  int
}

func newMBC2(rom []uint8) *MBC2 {
	bankCount := len(rom) / 0x4000
	if bankCount < 1 {
		bankCount = 1
	}
	return &MBC2{rom: rom, ram: make([]uint8, 512), romBank: 1, bankCount: bankCount}
}

func (m *MBC2) Read(address uint16) uint8 {
	switch {
	case address <= 0x3FFF:
		return m.rom[address]
	case address <= 0x7FFF:
		offset := (int(m.romBank)%m.bankCount)*0x4000 + int(address-0x4000)
		if offset >= len(m.rom) {
			return 0xFF
		}
		return m.rom[offset]
	case address >= 0xA000 && address <= 0xA1FF:
		if !m.ramEnabled {
			return 0xFF
		}
		return m.ram[address-0xA000]&0x0F | 0xF0
	default:
		return 0xFF
	}
}

func (m *MBC2) Write(address uint16, value uint8) {
	switch {
	case address <= 0x3FFF:
		if address&0x0100 == 0 {
			m.ramEnabled = value&0x0F == 0x0A
		} else {
			bank := value & 0x0F
			if bank == 0 {
				bank = 1
			}
			m.romBank = bank
		}
	case address >= 0xA000 && address <= 0xA1FF:
		if m.ramEnabled {
			m.ram[address-0xA000] = value & 0x0F
		}
	}
}

func (m *MBC2) Reset() {
	m.romBank = 1
	m.ramEnabled = false
}

// mbc3Clock abstracts wall-clock time for the MBC3's real-time clock so
// tests can supply a fixed time instead of the system clock.
type mbc3Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// MBC3 adds a latched real-time clock alongside MBC1-style ROM/RAM banking,
// with a flat (non-shared) 7-bit ROM bank register.
type MBC3 struct {
	rom []uint8
	ram []uint8
	rtc [5]uint8

	romBank    uint8
	ramBank    uint8
	ramEnabled bool
	hasRTC     bool
	latchArmed bool
	clock      mbc3Clock
	lastTick   time.Time

	bankCount int
}

func newMBC3(rom []uint8, ramBanks int, hasRTC bool, clock mbc3Clock) *MBC3 {
	if clock == nil {
		clock = systemClock{}
	}
	bankCount := len(rom) / 0x4000
	if bankCount < 1 {
		bankCount = 1
	}
	return &MBC3{
		rom: rom, ram: make([]uint8, ramBanks*0x2000),
		romBank: 1, hasRTC: hasRTC, clock: clock, lastTick: clock.Now(),
		bankCount: bankCount,
	}
}

func (m *MBC3) Read(address uint16) uint8 {
	switch {
	case address <= 0x3FFF:
		return m.rom[address]
	case address <= 0x7FFF:
		offset := (int(m.romBank)%m.bankCount)*0x4000 + int(address-0x4000)
		if offset >= len(m.rom) {
			return 0xFF
		}
		return m.rom[offset]
	case address >= 0xA000 && address <= 0xBFFF:
		if !m.ramEnabled {
			return 0xFF
		}
		if m.ramBank <= 0x03 && len(m.ram) > 0 {
			offset := int(m.ramBank)*0x2000 + int(address-0xA000)
			if offset < len(m.ram) {
				return m.ram[offset]
			}
			return 0xFF
		}
		if m.hasRTC && m.ramBank >= 0x08 && m.ramBank <= 0x0C {
			return m.rtc[m.ramBank-0x08]
		}
		return 0xFF
	default:
		return 0xFF
	}
}

func (m *MBC3) Write(address uint16, value uint8) {
	switch {
	case address <= 0x1FFF:
		m.ramEnabled = value&0x0F == 0x0A
	case address <= 0x3FFF:
		bank := value & 0x7F
		if bank == 0 {
			bank = 1
		}
		m.romBank = bank
	case address <= 0x5FFF:
		m.ramBank = value
	case address <= 0x7FFF:
		if value == 0x00 {
			m.latchArmed = true
		} else if value == 0x01 && m.latchArmed {
			m.latchRTC()
			m.latchArmed = false
		}
	case address >= 0xA000 && address <= 0xBFFF:
		if !m.ramEnabled {
			return
		}
		if m.ramBank <= 0x03 && len(m.ram) > 0 {
			offset := int(m.ramBank)*0x2000 + int(address-0xA000)
			if offset < len(m.ram) {
				m.ram[offset] = value
			}
		} else if m.hasRTC && m.ramBank >= 0x08 && m.ramBank <= 0x0C {
			m.rtc[m.ramBank-0x08] = value
		}
	}
}

func (m *MBC3) latchRTC() {
	now := m.clock.Now()
	elapsed := now.Sub(m.lastTick)
	m.lastTick = now

	days := int(elapsed.Hours() / 24)
	m.rtc[0] = uint8(int(elapsed.Seconds()) % 60)
	m.rtc[1] = uint8(int(elapsed.Minutes()) % 60)
	m.rtc[2] = uint8(int(elapsed.Hours()) % 24)
	m.rtc[3] = uint8(days & 0xFF)
	m.rtc[4] = uint8((days >> 8) & 0x01)
}

func (m *MBC3) Reset() {
	m.romBank = 1
	m.ramBank = 0
	m.ramEnabled = false
	m.latchArmed = false
}

// MBC5 is the simplest of the banked controllers: a 9-bit ROM bank number
// split across two write regions, and no mode quirks.
type MBC5 struct {
	rom []uint8
	ram []uint8

	romBank    uint16
	ramBank    uint8
	ramEnabled bool
	bankCount  int
}

func newMBC5(rom []uint8, ramBanks int) *MBC5 {
	bankCount := len(rom) / 0x4000
	if bankCount < 1 {
		bankCount = 1
	}
	return &MBC5{rom: rom, ram: make([]uint8, ramBanks*0x2000), romBank: 1, bankCount: bankCount}
}

func (m *MBC5) Read(address uint16) uint8 {
	switch {
	case address <= 0x3FFF:
		return m.rom[address]
	case address <= 0x7FFF:
		offset := (int(m.romBank)%m.bankCount)*0x4000 + int(address-0x4000)
		if offset >= len(m.rom) {
			return 0xFF
		}
		return m.rom[offset]
	case address >= 0xA000 && address <= 0xBFFF:
		if !m.ramEnabled || len(m.ram) == 0 {
			return 0xFF
		}
		offset := int(m.ramBank)*0x2000 + int(address-0xA000)
		if offset >= len(m.ram) {
			return 0xFF
		}
		return m.ram[offset]
	default:
		return 0xFF
	}
}

func (m *MBC5) Write(address uint16, value uint8) {
	switch {
	case address <= 0x1FFF:
		m.ramEnabled = value&0x0F == 0x0A
	case address <= 0x2FFF:
		m.romBank = m.romBank&0x100 | uint16(value)
	case address <= 0x3FFF:
		m.romBank = m.romBank&0xFF | uint16(value&0x01)<<8
	case address <= 0x5FFF:
		m.ramBank = value & 0x0F
	case address >= 0xA000 && address <= 0xBFFF:
		if !m.ramEnabled || len(m.ram) == 0 {
			return
		}
		offset := int(m.ramBank)*0x2000 + int(address-0xA000)
		if offset < len(m.ram) {
			m.ram[offset] = value
		}
	}
}

func (m *MBC5) Reset() {
	m.romBank = 1
	m.ramBank = 0
	m.ramEnabled = false
}

package memory

import "encoding/binary"

// readBIOS returns a byte lane of the word at the given BIOS address.
// The BIOS can only be read while executing inside it; from the outside
// the last fetched BIOS opcode is returned instead.
func (m *MMU) readBIOS(address uint32) uint32 {
	shift := (address & 3) * 8

	address &^= 3

	if address >= biosSize {
		return m.readUnused(address) >> shift
	}

	if m.CPU.R15 >= biosSize {
		return m.biosOpcode >> shift
	}

	m.biosOpcode = binary.LittleEndian.Uint32(m.bios[address:])

	return m.biosOpcode >> shift
}

// readUnused produces the open bus value: whatever the prefetcher last
// drove onto the bus. In ARM mode that is simply the next pipeline opcode;
// in Thumb mode the upper and lower half depend on the bus width of the
// region the CPU is executing from.
func (m *MMU) readUnused(address uint32) uint32 {
	var result uint32

	if m.CPU.CPSR.Thumb {
		r15 := m.CPU.R15

		switch r15 >> 24 {
		case regionEWRAM, regionPRAM, regionVRAM,
			regionROMW0L, regionROMW0H,
			regionROMW1L, regionROMW1H,
			regionROMW2L, regionROMW2H:
			result = m.CPU.PrefetchedOpcode(1) * 0x00010001
		case regionBIOS, regionOAM:
			if r15&3 != 0 {
				result = m.CPU.PrefetchedOpcode(0) |
					m.CPU.PrefetchedOpcode(1)<<16
			} else {
				// FIXME: this is not correct, but also [$+6] has not been
				// prefetched at this point.
				result = m.CPU.PrefetchedOpcode(1) * 0x00010001
			}
		case regionIWRAM:
			if r15&3 != 0 {
				result = m.CPU.PrefetchedOpcode(0) |
					m.CPU.PrefetchedOpcode(1)<<16
			} else {
				result = m.CPU.PrefetchedOpcode(1) |
					m.CPU.PrefetchedOpcode(0)<<16
			}
		}
	} else {
		result = m.CPU.PrefetchedOpcode(1)
	}

	return result >> ((address & 3) * 8)
}

// romBoundaryPenalty16 and romBoundaryPenalty32 force the non-sequential
// timing when an access crosses a 128 KiB ROM boundary. The subtraction is
// zero when the access already was non-sequential.
func (m *MMU) romBoundaryPenalty16(page int, access Access) {
	m.Tick(m.cycles16[NonSequential][page] - m.cycles16[access][page])
}

func (m *MMU) romBoundaryPenalty32(page int, access Access) {
	m.Tick(m.cycles32[NonSequential][page] - m.cycles32[access][page])
}

// ReadByte reads 8 bits from the bus, charging the access cost first.
func (m *MMU) ReadByte(address uint32, access Access) uint8 {
	page := int(address >> 24)
	cycles := m.cycles16[access][page]

	if m.waitcnt.Prefetch {
		m.prefetchStep(address, cycles)
	} else {
		m.Tick(cycles)
	}

	switch page {
	case regionBIOS:
		return uint8(m.readBIOS(address))
	case regionEWRAM:
		return m.ewram[address&0x3FFFF]
	case regionIWRAM:
		return m.iwram[address&0x7FFF]
	case regionMMIO:
		return m.readMMIO(address)
	case regionPRAM:
		return m.pram[address&0x3FF]
	case regionVRAM:
		return m.vram[foldVRAM(address)]
	case regionOAM:
		return m.oam[address&0x3FF]
	case regionROMW0L, regionROMW0H,
		regionROMW1L, regionROMW1H,
		regionROMW2L, regionROMW2H:
		if m.pak == nil {
			return uint8(m.readUnused(address))
		}
		address &= m.pak.Mask
		if address&0x1FFFF == 0 {
			m.romBoundaryPenalty16(page, access)
		}
		if address >= m.pak.Size {
			return uint8(address / 2)
		}
		return m.pak.ROM[address]
	case regionSRAM1, regionSRAM2:
		address &= 0x0EFFFFFF
		backup := m.backup()
		if backup == nil || backup.IsEEPROM() {
			return 0
		}
		return backup.Read(address)
	default:
		return uint8(m.readUnused(address))
	}
}

// ReadHalf reads 16 bits from the bus, charging the access cost first.
func (m *MMU) ReadHalf(address uint32, access Access) uint16 {
	page := int(address >> 24)
	cycles := m.cycles16[access][page]

	if m.waitcnt.Prefetch {
		m.prefetchStep(address, cycles)
	} else {
		m.Tick(cycles)
	}

	switch page {
	case regionBIOS:
		return uint16(m.readBIOS(address))
	case regionEWRAM:
		return binary.LittleEndian.Uint16(m.ewram[address&0x3FFFF&^1:])
	case regionIWRAM:
		return binary.LittleEndian.Uint16(m.iwram[address&0x7FFF&^1:])
	case regionMMIO:
		return uint16(m.readMMIO(address)) |
			uint16(m.readMMIO(address+1))<<8
	case regionPRAM:
		return binary.LittleEndian.Uint16(m.pram[address&0x3FF&^1:])
	case regionVRAM:
		return binary.LittleEndian.Uint16(m.vram[foldVRAM(address)&^1:])
	case regionOAM:
		return binary.LittleEndian.Uint16(m.oam[address&0x3FF&^1:])
	case regionROMW2H:
		// 0x0D may be EEPROM rather than an ordinary ROM mirror.
		if m.pak != nil && m.pak.IsEEPROMAddress(address) {
			// TODO: this is not a very nice way to do this.
			if !m.DMA.IsRunning() {
				return 1
			}
			return uint16(m.pak.Backup.Read(address))
		}
		fallthrough
	case regionROMW0L, regionROMW0H,
		regionROMW1L, regionROMW1H,
		regionROMW2L:
		if m.pak == nil {
			return uint16(m.readUnused(address))
		}
		address &= m.pak.Mask
		if address&0x1FFFF == 0 {
			m.romBoundaryPenalty16(page, access)
		}
		if address >= m.pak.Size {
			return uint16(address / 2)
		}
		return binary.LittleEndian.Uint16(m.pak.ROM[address&^1:])
	case regionSRAM1, regionSRAM2:
		address &= 0x0EFFFFFF
		backup := m.backup()
		if backup == nil || backup.IsEEPROM() {
			return 0
		}
		return uint16(backup.Read(address)) * 0x0101
	default:
		return uint16(m.readUnused(address))
	}
}

// ReadWord reads 32 bits from the bus, charging the access cost first.
func (m *MMU) ReadWord(address uint32, access Access) uint32 {
	page := int(address >> 24)
	cycles := m.cycles32[access][page]

	if m.waitcnt.Prefetch {
		m.prefetchStep(address, cycles)
	} else {
		m.Tick(cycles)
	}

	switch page {
	case regionBIOS:
		return m.readBIOS(address)
	case regionEWRAM:
		return binary.LittleEndian.Uint32(m.ewram[address&0x3FFFF&^3:])
	case regionIWRAM:
		return binary.LittleEndian.Uint32(m.iwram[address&0x7FFF&^3:])
	case regionMMIO:
		return uint32(m.readMMIO(address)) |
			uint32(m.readMMIO(address+1))<<8 |
			uint32(m.readMMIO(address+2))<<16 |
			uint32(m.readMMIO(address+3))<<24
	case regionPRAM:
		return binary.LittleEndian.Uint32(m.pram[address&0x3FF&^3:])
	case regionVRAM:
		return binary.LittleEndian.Uint32(m.vram[foldVRAM(address)&^3:])
	case regionOAM:
		return binary.LittleEndian.Uint32(m.oam[address&0x3FF&^3:])
	case regionROMW0L, regionROMW0H,
		regionROMW1L, regionROMW1H,
		regionROMW2L, regionROMW2H:
		if m.pak == nil {
			return m.readUnused(address)
		}
		address &= m.pak.Mask
		if address&0x1FFFF == 0 {
			m.romBoundaryPenalty32(page, access)
		}
		if address >= m.pak.Size {
			return (address/2)&0xFFFF | ((address+2)/2)<<16
		}
		return binary.LittleEndian.Uint32(m.pak.ROM[address&^3:])
	case regionSRAM1, regionSRAM2:
		address &= 0x0EFFFFFF
		backup := m.backup()
		if backup == nil || backup.IsEEPROM() {
			return 0
		}
		return uint32(backup.Read(address)) * 0x01010101
	default:
		return m.readUnused(address)
	}
}

func (m *MMU) backup() *Backup {
	if m.pak == nil {
		return nil
	}
	return m.pak.Backup
}

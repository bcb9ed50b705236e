package memory

import (
	"encoding/binary"
	"fmt"
	"log/slog"
)

// WriteByte writes 8 bits to the bus, charging the access cost first.
// PRAM and VRAM latch the byte on both halves of the containing half-word;
// VRAM ignores byte writes to the OBJ range and OAM ignores them entirely.
func (m *MMU) WriteByte(address uint32, value uint8, access Access) {
	page := int(address >> 24)
	cycles := m.cycles16[access][page]

	if m.waitcnt.Prefetch {
		m.prefetchStep(address, cycles)
	} else {
		m.Tick(cycles)
	}

	switch page {
	case regionEWRAM:
		m.ewram[address&0x3FFFF] = value
	case regionIWRAM:
		m.iwram[address&0x7FFF] = value
	case regionMMIO:
		m.writeMMIO(address, value)
	case regionPRAM:
		binary.LittleEndian.PutUint16(m.pram[address&0x3FF&^1:], uint16(value)*0x0101)
	case regionVRAM:
		offset := foldVRAM(address)
		if offset >= 0x10000 {
			break
		}
		binary.LittleEndian.PutUint16(m.vram[offset&^1:], uint16(value)*0x0101)
	case regionSRAM1, regionSRAM2:
		address &= 0x0EFFFFFF
		backup := m.backup()
		if backup == nil || backup.IsEEPROM() {
			break
		}
		backup.Write(address, value)
	default:
		slog.Debug("discarded byte write", "addr", fmt.Sprintf("0x%08X", address), "value", fmt.Sprintf("0x%02X", value))
	}
}

// WriteHalf writes 16 bits to the bus, charging the access cost first.
func (m *MMU) WriteHalf(address uint32, value uint16, access Access) {
	page := int(address >> 24)
	cycles := m.cycles16[access][page]

	if m.waitcnt.Prefetch {
		m.prefetchStep(address, cycles)
	} else {
		m.Tick(cycles)
	}

	switch page {
	case regionEWRAM:
		binary.LittleEndian.PutUint16(m.ewram[address&0x3FFFF&^1:], value)
	case regionIWRAM:
		binary.LittleEndian.PutUint16(m.iwram[address&0x7FFF&^1:], value)
	case regionMMIO:
		m.writeMMIO(address, uint8(value))
		m.writeMMIO(address+1, uint8(value>>8))
	case regionPRAM:
		binary.LittleEndian.PutUint16(m.pram[address&0x3FF&^1:], value)
	case regionVRAM:
		binary.LittleEndian.PutUint16(m.vram[foldVRAM(address)&^1:], value)
	case regionOAM:
		binary.LittleEndian.PutUint16(m.oam[address&0x3FF&^1:], value)
	case regionROMW2H:
		// EEPROM write; plain ROM writes are discarded.
		if m.pak != nil && m.pak.IsEEPROMAddress(address) {
			// TODO: this is not a very nice way to do this.
			if !m.DMA.IsRunning() {
				break
			}
			m.pak.Backup.Write(address, uint8(value))
		}
	case regionSRAM1, regionSRAM2:
		address &= 0x0EFFFFFF
		backup := m.backup()
		if backup == nil || backup.IsEEPROM() {
			break
		}
		backup.Write(address+0, uint8(value))
		backup.Write(address+1, uint8(value))
	default:
		slog.Debug("discarded half write", "addr", fmt.Sprintf("0x%08X", address), "value", fmt.Sprintf("0x%04X", value))
	}
}

// WriteWord writes 32 bits to the bus, charging the access cost first.
func (m *MMU) WriteWord(address uint32, value uint32, access Access) {
	page := int(address >> 24)
	cycles := m.cycles32[access][page]

	if m.waitcnt.Prefetch {
		m.prefetchStep(address, cycles)
	} else {
		m.Tick(cycles)
	}

	switch page {
	case regionEWRAM:
		binary.LittleEndian.PutUint32(m.ewram[address&0x3FFFF&^3:], value)
	case regionIWRAM:
		binary.LittleEndian.PutUint32(m.iwram[address&0x7FFF&^3:], value)
	case regionMMIO:
		m.writeMMIO(address, uint8(value))
		m.writeMMIO(address+1, uint8(value>>8))
		m.writeMMIO(address+2, uint8(value>>16))
		m.writeMMIO(address+3, uint8(value>>24))
	case regionPRAM:
		binary.LittleEndian.PutUint32(m.pram[address&0x3FF&^3:], value)
	case regionVRAM:
		binary.LittleEndian.PutUint32(m.vram[foldVRAM(address)&^3:], value)
	case regionOAM:
		binary.LittleEndian.PutUint32(m.oam[address&0x3FF&^3:], value)
	case regionSRAM1, regionSRAM2:
		address &= 0x0EFFFFFF
		backup := m.backup()
		if backup == nil || backup.IsEEPROM() {
			break
		}
		backup.Write(address+0, uint8(value))
		backup.Write(address+1, uint8(value))
		backup.Write(address+2, uint8(value))
		backup.Write(address+3, uint8(value))
	default:
		slog.Debug("discarded word write", "addr", fmt.Sprintf("0x%08X", address), "value", fmt.Sprintf("0x%08X", value))
	}
}

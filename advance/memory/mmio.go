package memory

import (
	"fmt"
	"log/slog"

	"github.com/valerio/go-advance/advance/addr"
	"github.com/valerio/go-advance/advance/bit"
)

// ppuRegistersEnd bounds the block of LCD control registers forwarded to
// the PPU (DISPCNT .. BLDY).
const ppuRegistersEnd uint32 = 0x04000058

// readMMIO reads a single MMIO byte. Half and word accesses are
// decomposed into byte reads and reassembled little-endian by the caller.
func (m *MMU) readMMIO(address uint32) uint8 {
	switch {
	case address < ppuRegistersEnd:
		if m.PPU == nil {
			return 0
		}
		return m.PPU.ReadRegister(address)
	case address >= addr.DMABase && address < addr.DMAEnd:
		return m.DMA.readRegister(address)
	case address >= addr.TimerBase && address < addr.TimerEnd:
		return m.Timers.readRegister(address)
	}

	switch address {
	case addr.SOUNDBIAS:
		return bit.Low(m.soundbias)
	case addr.SOUNDBIAS + 1:
		return bit.High(m.soundbias)
	case addr.KEYINPUT:
		return bit.Low(m.keyinput)
	case addr.KEYINPUT + 1:
		return bit.High(m.keyinput)
	case addr.RCNT:
		return bit.Low(m.rcnt)
	case addr.RCNT + 1:
		return bit.High(m.rcnt)
	case addr.IE:
		return bit.Low(m.IRQ.IE)
	case addr.IE + 1:
		return bit.High(m.IRQ.IE)
	case addr.IF:
		return bit.Low(m.IRQ.IF)
	case addr.IF + 1:
		return bit.High(m.IRQ.IF)
	case addr.WAITCNT:
		return bit.Low(m.waitcnt.value())
	case addr.WAITCNT + 1:
		return bit.High(m.waitcnt.value())
	case addr.IME:
		if m.IRQ.IME {
			return 1
		}
		return 0
	case addr.IME + 1, addr.IME + 2, addr.IME + 3:
		return 0
	case addr.POSTFLG:
		return m.postflg
	default:
		return 0
	}
}

// writeMMIO writes a single MMIO byte. Registers with read-only or unused
// bits mask them here; writes to unmapped registers are dropped.
func (m *MMU) writeMMIO(address uint32, value uint8) {
	switch {
	case address < ppuRegistersEnd:
		if m.PPU != nil {
			m.PPU.WriteRegister(address, value)
		}
		return
	case address >= addr.DMABase && address < addr.DMAEnd:
		m.DMA.writeRegister(address, value)
		return
	case address >= addr.TimerBase && address < addr.TimerEnd:
		m.Timers.writeRegister(address, value)
		return
	}

	switch address {
	case addr.SOUNDBIAS:
		m.soundbias = m.soundbias&0xFF00 | uint16(value)
	case addr.SOUNDBIAS + 1:
		m.soundbias = m.soundbias&0x00FF | uint16(value)<<8
	case addr.RCNT:
		m.rcnt = m.rcnt&0xFF00 | uint16(value)
	case addr.RCNT + 1:
		m.rcnt = m.rcnt&0x00FF | uint16(value)<<8
	case addr.IE:
		m.IRQ.IE = m.IRQ.IE&0xFF00 | uint16(value)
	case addr.IE + 1:
		m.IRQ.IE = m.IRQ.IE&0x00FF | uint16(value&0x3F)<<8
	case addr.IF:
		// Writing 1 acknowledges (clears) the request.
		m.IRQ.IF &^= uint16(value)
	case addr.IF + 1:
		m.IRQ.IF &^= uint16(value) << 8
	case addr.WAITCNT:
		m.waitcnt.setValue(m.waitcnt.value()&0xFF00 | uint16(value))
		m.updateWaitstateTable()
	case addr.WAITCNT + 1:
		m.waitcnt.setValue(m.waitcnt.value()&0x00FF | uint16(value)<<8)
		m.updateWaitstateTable()
	case addr.IME:
		m.IRQ.IME = value&1 != 0
	case addr.IME + 1, addr.IME + 2, addr.IME + 3:
		// Upper IME bytes exist but hold nothing.
	case addr.POSTFLG:
		m.postflg = value & 1
	case addr.HALTCNT:
		if value&0x80 != 0 {
			m.Halt = Stopped
		} else {
			m.Halt = Halted
		}
	default:
		slog.Debug("discarded MMIO write", "addr", fmt.Sprintf("0x%08X", address), "value", fmt.Sprintf("0x%02X", value))
	}
}

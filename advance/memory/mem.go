package memory

import (
	"github.com/valerio/go-advance/advance/addr"
	"github.com/valerio/go-advance/advance/cpu"
	"github.com/valerio/go-advance/advance/video"
)

// HaltControl is the power state selected through HALTCNT.
type HaltControl int

const (
	Running HaltControl = iota
	Halted
	Stopped
)

// IRQState holds the interrupt control registers. An IRQ is delivered to
// the CPU when IME is set and IE & IF is non-zero; a halted CPU wakes on
// IE & IF alone.
type IRQState struct {
	IE  uint16
	IF  uint16
	IME bool
}

// MMU arbitrates every access on the GBA memory bus and charges master
// cycles for it. All reads and writes go through the six entry points
// (ReadByte/Half/Word, WriteByte/Half/Word); each deducts its cycle cost
// from TicksLeft before returning, so peripherals observing the clock after
// an access see exactly what it charged.
type MMU struct {
	// CPU is the ARM7TDMI-facing state, read for BIOS gating, the open bus
	// formula and prefetch eligibility.
	CPU *cpu.State
	// PPU owns DISPCNT/DISPSTAT/VCOUNT; its MMIO block is forwarded there.
	PPU *video.PPU

	IRQ  IRQState
	Halt HaltControl

	// TicksLeft is the CPU's cycle budget for the current scheduler slice.
	// Every Tick decrements it; the execution loop refills it.
	TicksLeft int

	Timers Timers
	DMA    DMAController

	pak        *GamePak
	bios       [biosSize]byte
	biosOpcode uint32
	ewram      [ewramSize]byte
	iwram      [iwramSize]byte
	pram       [pramSize]byte
	vram       [vramSize]byte
	oam        [oamSize]byte

	waitcnt  WaitControl
	cycles16 [2][256]int
	cycles32 [2][256]int

	prefetch       Prefetch
	lastROMAddress uint32

	keyinput  uint16
	rcnt      uint16
	postflg   uint8
	soundbias uint16
}

// New creates an MMU wired to the given CPU state, PPU and cartridge.
// A nil pak behaves like an empty cartridge slot (open bus ROM reads).
func New(state *cpu.State, ppu *video.PPU, pak *GamePak) *MMU {
	m := &MMU{
		CPU: state,
		PPU: ppu,
		pak: pak,
	}
	m.Timers.irq = m.RequestInterrupt
	m.DMA.mmu = m
	m.Reset()
	return m
}

// LoadBIOS copies the BIOS image into place. Images larger than 16 KiB are
// truncated.
func (m *MMU) LoadBIOS(data []byte) {
	copy(m.bios[:], data)
}

// Reset restores the power-on state of everything behind the bus. The BIOS
// image and cartridge are preserved.
func (m *MMU) Reset() {
	m.ewram = [ewramSize]byte{}
	m.iwram = [iwramSize]byte{}
	m.pram = [pramSize]byte{}
	m.vram = [vramSize]byte{}
	m.oam = [oamSize]byte{}
	m.biosOpcode = 0

	m.IRQ = IRQState{}
	m.Halt = Running
	m.keyinput = 0x3FF
	m.rcnt = 0
	m.postflg = 0
	m.soundbias = 0x200

	m.waitcnt = WaitControl{}
	m.updateWaitstateTable()

	m.prefetch = Prefetch{}
	m.lastROMAddress = 0
	m.TicksLeft = 0

	m.Timers.Reset()
	m.DMA.Reset()
}

// RequestInterrupt raises an IRQ line by setting its IF bit. Delivery is
// decided by the execution loop.
func (m *MMU) RequestInterrupt(interrupt addr.Interrupt) {
	m.IRQ.IF |= uint16(interrupt)
}

// Tick advances the master clock by the given cycle count: timers run,
// the CPU budget shrinks and an in-flight prefetch makes progress.
func (m *MMU) Tick(cycles int) {
	m.Timers.Run(cycles)
	m.TicksLeft -= cycles

	if m.prefetch.active {
		m.prefetch.countdown -= cycles

		if m.prefetch.countdown <= 0 {
			m.prefetch.count++
			m.prefetch.wrPos = (m.prefetch.wrPos + 1) % 8
			m.prefetch.active = false
		}
	}
}

// Idle burns one internal CPU cycle. The ROM bus is free during it, so the
// prefetch unit may start a fetch; address 0 is never in ROM.
func (m *MMU) Idle() {
	if m.waitcnt.Prefetch {
		m.prefetchStep(0, 1)
	} else {
		m.Tick(1)
	}
}

package advance

import (
	"github.com/valerio/go-advance/advance/cpu"
	"github.com/valerio/go-advance/advance/events"
	"github.com/valerio/go-advance/advance/memory"
	"github.com/valerio/go-advance/advance/video"
)

// GBA is the root struct wiring the bus core together: CPU state, MMU,
// scheduler and the scheduled peripherals. It owns the execution loop that
// arbitrates CPU, DMA and HALT against the next scheduler deadline.
type GBA struct {
	State     *cpu.State
	MMU       *memory.MMU
	Scheduler *events.Scheduler
	PPU       *video.PPU

	proc         cpu.Processor
	ticksToEvent int
	inRun        bool

	// nonSeq forces the builtin fetcher's next access non-sequential,
	// set after resets and IRQ entry.
	nonSeq bool
}

// New wires up a core around the given cartridge. A nil pak leaves the
// ROM regions on the open bus.
func New(pak *memory.GamePak) *GBA {
	state := &cpu.State{}
	sched := events.New()
	ppu := video.New(sched)
	mmu := memory.New(state, ppu, pak)

	g := &GBA{
		State:     state,
		MMU:       mmu,
		Scheduler: sched,
		PPU:       ppu,
	}

	ppu.IRQ = mmu.RequestInterrupt
	ppu.OnVBlank = mmu.DMA.RequestVBlank
	ppu.OnHBlank = mmu.DMA.RequestHBlank

	g.Reset()
	return g
}

// SetProcessor installs an instruction executor. Without one the core
// free-runs the fetch pipeline, which is enough to exercise the bus,
// prefetch and IRQ machinery.
func (g *GBA) SetProcessor(p cpu.Processor) {
	g.proc = p
}

// Reset restores power-on state. The loaded BIOS and cartridge survive.
func (g *GBA) Reset() {
	*g.State = cpu.State{}
	g.State.CPSR.Mode = cpu.ModeSupervisor
	g.State.CPSR.IRQDisable = true
	g.State.CPSR.FIQDisable = true

	g.MMU.Reset()
	g.PPU.Reset()
	g.ticksToEvent = 0
	g.nonSeq = true
}

// SkipBIOS places the core in the state the BIOS hands off to a cartridge:
// system mode, executing from ROM.
func (g *GBA) SkipBIOS() {
	g.State.CPSR.Mode = cpu.ModeSystem
	g.State.CPSR.IRQDisable = false
	g.State.R15 = 0x08000000
	g.nonSeq = true
}

// RunFrame advances emulation by one LCD refresh.
func (g *GBA) RunFrame() {
	g.RunFor(video.CyclesFrame)
}

// RunFor advances emulation by the given number of master cycles, give or
// take the carry from the previous call. The loop runs the CPU (or DMA,
// which locks the CPU off the bus) until each scheduler deadline, then
// dispatches due events and repeats.
func (g *GBA) RunFor(cycles int) {
	if g.inRun {
		panic("advance: re-entrant RunFor call")
	}
	g.inRun = true
	defer func() { g.inRun = false }()

	m := g.MMU

	// Compensate for over- or undershoot from previous calls.
	cycles += m.TicksLeft

	for cycles > 0 {
		if cycles < g.ticksToEvent {
			g.ticksToEvent = cycles
		}

		// The CPU may run until the next event must be executed. The
		// budget is consumed by memory accesses, internal cycles and
		// timer fast-forwards, all through Tick.
		m.TicksLeft = g.ticksToEvent

		for m.TicksLeft > 0 {
			fire := m.IRQ.IE & m.IRQ.IF

			if m.Halt == memory.Halted && fire != 0 {
				m.Halt = memory.Running
			}

			switch {
			case m.DMA.IsRunning():
				// DMA and CPU cannot own the bus at the same time.
				m.DMA.Run(m.TicksLeft)
			case m.Halt == memory.Running:
				if m.IRQ.IME && fire != 0 {
					g.signalIRQ()
				}
				g.step()
			default:
				// Halted: forward to the next timer IRQ or deadline.
				m.Tick(min(m.Timers.EstimateCyclesUntilIRQ(), m.TicksLeft))
			}
		}

		elapsed := g.ticksToEvent - m.TicksLeft

		cycles -= elapsed

		g.ticksToEvent = g.Scheduler.Schedule(elapsed)
	}
}

func (g *GBA) step() {
	if g.proc != nil {
		g.proc.Step()
		return
	}

	// Builtin pipeline free-run: fetch at R15, shift, advance.
	s := g.State
	access := memory.Sequential
	if g.nonSeq {
		access = memory.NonSequential
		g.nonSeq = false
	}

	var opcode uint32
	if s.CPSR.Thumb {
		opcode = uint32(g.MMU.ReadHalf(s.R15, access))
	} else {
		opcode = g.MMU.ReadWord(s.R15, access)
	}
	s.Pipeline[0] = s.Pipeline[1]
	s.Pipeline[1] = opcode
	s.R15 += s.InstructionWidth()
}

func (g *GBA) signalIRQ() {
	if g.proc != nil {
		g.proc.SignalIRQ()
		return
	}

	s := g.State
	if s.CPSR.IRQDisable {
		return
	}
	s.CPSR.Mode = cpu.ModeIRQ
	s.CPSR.IRQDisable = true
	s.CPSR.Thumb = false
	s.R15 = 0x00000018
	g.nonSeq = true
}

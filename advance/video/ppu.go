package video

import (
	"github.com/valerio/go-advance/advance/addr"
	"github.com/valerio/go-advance/advance/bit"
	"github.com/valerio/go-advance/advance/events"
)

// LCD timing in master cycles.
const (
	CyclesHDraw  = 960
	CyclesHBlank = 272
	CyclesLine   = CyclesHDraw + CyclesHBlank
	VisibleLines = 160
	TotalLines   = 228
	// CyclesFrame is one full refresh (~59.73 Hz).
	CyclesFrame = CyclesLine * TotalLines
)

// DISPSTAT flag bits.
const (
	statVBlank       = 0
	statHBlank       = 1
	statVCount       = 2
	statVBlankIRQ    = 3
	statHBlankIRQ    = 4
	statVCountIRQ    = 5
	statVCountTarget = 8
)

// PPU models the LCD controller's timing: the HDraw/HBlank/VBlank state
// machine, VCOUNT progression and the IRQ and DMA trigger lines that hang
// off it. Pixel composition belongs to a frontend layer and is not done
// here.
type PPU struct {
	// IRQ raises an interrupt line; wired to the MMU's IF register.
	IRQ func(addr.Interrupt)
	// OnVBlank and OnHBlank fire at the respective blanking edges; wired
	// to the DMA controller's trigger inputs.
	OnVBlank func()
	OnHBlank func()

	sched *events.Scheduler
	event events.Event

	dispcnt  uint16
	dispstat uint16
	vcount   int
	inHBlank bool

	frames uint64
}

// New creates a PPU driven by the given scheduler. Reset must be called
// to start the scanline machinery.
func New(sched *events.Scheduler) *PPU {
	return &PPU{sched: sched}
}

// Reset returns to the top of the frame and schedules the first HBlank.
func (p *PPU) Reset() {
	p.dispcnt = 0
	p.dispstat = 0
	p.vcount = 0
	p.inHBlank = false
	p.frames = 0

	if p.event.Scheduled() {
		p.sched.Cancel(&p.event)
	}
	p.event = events.Event{Delay: CyclesHDraw, Callback: p.step}
	p.sched.Add(&p.event)
}

// Frames returns the number of complete refreshes since reset.
func (p *PPU) Frames() uint64 {
	return p.frames
}

// VCount returns the current scanline.
func (p *PPU) VCount() int {
	return p.vcount
}

func (p *PPU) step() {
	if !p.inHBlank {
		p.enterHBlank()
		p.event.Delay = CyclesHBlank
	} else {
		p.nextLine()
		p.event.Delay = CyclesHDraw
	}
	p.sched.Add(&p.event)
}

func (p *PPU) enterHBlank() {
	p.inHBlank = true
	p.dispstat = bit.Set16(statHBlank, p.dispstat)

	if bit.IsSet16(statHBlankIRQ, p.dispstat) && p.IRQ != nil {
		p.IRQ(addr.HBlankInterrupt)
	}
	// The HBlank DMA trigger only pulses on visible lines.
	if p.vcount < VisibleLines && p.OnHBlank != nil {
		p.OnHBlank()
	}
}

func (p *PPU) nextLine() {
	p.inHBlank = false
	p.dispstat = bit.Reset16(statHBlank, p.dispstat)

	p.vcount++
	switch {
	case p.vcount == VisibleLines:
		p.dispstat = bit.Set16(statVBlank, p.dispstat)
		if bit.IsSet16(statVBlankIRQ, p.dispstat) && p.IRQ != nil {
			p.IRQ(addr.VBlankInterrupt)
		}
		if p.OnVBlank != nil {
			p.OnVBlank()
		}
	case p.vcount == TotalLines-1:
		// The VBlank flag drops one line before wrap-around.
		p.dispstat = bit.Reset16(statVBlank, p.dispstat)
	case p.vcount == TotalLines:
		p.vcount = 0
		p.frames++
	}

	p.checkVCount()
}

func (p *PPU) checkVCount() {
	target := int(p.dispstat >> statVCountTarget)
	if p.vcount == target {
		if !bit.IsSet16(statVCount, p.dispstat) {
			p.dispstat = bit.Set16(statVCount, p.dispstat)
			if bit.IsSet16(statVCountIRQ, p.dispstat) && p.IRQ != nil {
				p.IRQ(addr.VCountInterrupt)
			}
		}
	} else {
		p.dispstat = bit.Reset16(statVCount, p.dispstat)
	}
}

// ReadRegister reads one byte of the LCD register block. Registers this
// skeleton does not model read as zero.
func (p *PPU) ReadRegister(address uint32) uint8 {
	switch address {
	case addr.DISPCNT:
		return bit.Low(p.dispcnt)
	case addr.DISPCNT + 1:
		return bit.High(p.dispcnt)
	case addr.DISPSTAT:
		return bit.Low(p.dispstat)
	case addr.DISPSTAT + 1:
		return bit.High(p.dispstat)
	case addr.VCOUNT:
		return uint8(p.vcount)
	case addr.VCOUNT + 1:
		return 0
	default:
		return 0
	}
}

// WriteRegister writes one byte of the LCD register block. The DISPSTAT
// status bits and VCOUNT are read-only.
func (p *PPU) WriteRegister(address uint32, value uint8) {
	switch address {
	case addr.DISPCNT:
		p.dispcnt = p.dispcnt&0xFF00 | uint16(value)
	case addr.DISPCNT + 1:
		p.dispcnt = p.dispcnt&0x00FF | uint16(value)<<8
	case addr.DISPSTAT:
		p.dispstat = p.dispstat&0xFFC7 | uint16(value&0x38)
	case addr.DISPSTAT + 1:
		p.dispstat = p.dispstat&0x00FF | uint16(value)<<8
		p.checkVCount()
	}
}

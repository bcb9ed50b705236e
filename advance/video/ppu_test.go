package video

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/valerio/go-advance/advance/addr"
	"github.com/valerio/go-advance/advance/events"
)

func newTestPPU() (*PPU, *events.Scheduler) {
	sched := events.New()
	p := New(sched)
	p.Reset()
	return p, sched
}

func dispstat(p *PPU) uint16 {
	return uint16(p.ReadRegister(addr.DISPSTAT)) |
		uint16(p.ReadRegister(addr.DISPSTAT+1))<<8
}

func TestPPUScanlineProgression(t *testing.T) {
	p, sched := newTestPPU()

	// End of HDraw: HBlank flag rises.
	sched.Schedule(CyclesHDraw)
	assert.Equal(t, uint16(1<<statHBlank), dispstat(p)&(1<<statHBlank))
	assert.Equal(t, 0, p.VCount())

	// End of the line: next scanline, flag drops.
	sched.Schedule(CyclesHBlank)
	assert.Zero(t, dispstat(p)&(1<<statHBlank))
	assert.Equal(t, 1, p.VCount())
}

func TestPPUVBlank(t *testing.T) {
	p, sched := newTestPPU()

	var irqs []addr.Interrupt
	p.IRQ = func(i addr.Interrupt) { irqs = append(irqs, i) }
	vblanks := 0
	p.OnVBlank = func() { vblanks++ }

	// Enable the VBlank interrupt.
	p.WriteRegister(addr.DISPSTAT, 1<<statVBlankIRQ)

	sched.Schedule(CyclesLine * VisibleLines)
	assert.Equal(t, VisibleLines, p.VCount())
	assert.NotZero(t, dispstat(p)&(1<<statVBlank))
	assert.Equal(t, 1, vblanks)
	assert.Contains(t, irqs, addr.VBlankInterrupt)

	// The flag drops on the last line before wrap-around.
	sched.Schedule(CyclesLine * (TotalLines - 1 - VisibleLines))
	assert.Zero(t, dispstat(p)&(1<<statVBlank))

	sched.Schedule(CyclesLine)
	assert.Equal(t, 0, p.VCount())
	assert.Equal(t, uint64(1), p.Frames())
}

func TestPPUHBlankDMATriggerOnlyWhileVisible(t *testing.T) {
	p, sched := newTestPPU()

	triggers := 0
	p.OnHBlank = func() { triggers++ }

	sched.Schedule(CyclesFrame)
	assert.Equal(t, VisibleLines, triggers)
}

func TestPPUVCountMatch(t *testing.T) {
	p, sched := newTestPPU()

	var irqs []addr.Interrupt
	p.IRQ = func(i addr.Interrupt) { irqs = append(irqs, i) }

	// Match line 3, IRQ enabled.
	p.WriteRegister(addr.DISPSTAT, 1<<statVCountIRQ)
	p.WriteRegister(addr.DISPSTAT+1, 3)

	sched.Schedule(CyclesLine * 3)
	assert.NotZero(t, dispstat(p)&(1<<statVCount))
	assert.Equal(t, []addr.Interrupt{addr.VCountInterrupt}, irqs)

	sched.Schedule(CyclesLine)
	assert.Zero(t, dispstat(p)&(1<<statVCount))
	assert.Len(t, irqs, 1)
}

func TestPPUVCountRegister(t *testing.T) {
	p, sched := newTestPPU()

	sched.Schedule(CyclesLine * 42)
	assert.Equal(t, uint8(42), p.ReadRegister(addr.VCOUNT))
	assert.Equal(t, uint8(0), p.ReadRegister(addr.VCOUNT+1))
}

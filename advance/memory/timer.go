package memory

import (
	"github.com/valerio/go-advance/advance/addr"
	"github.com/valerio/go-advance/advance/bit"
)

// timerNoIRQ is returned by EstimateCyclesUntilIRQ when no running timer
// can raise an interrupt.
const timerNoIRQ = 1 << 30

// timerPrescale maps TMxCNT_H bits 1..0 to master cycles per tick.
var timerPrescale = [4]int{1, 64, 256, 1024}

var timerInterrupts = [4]addr.Interrupt{
	addr.Timer0Interrupt,
	addr.Timer1Interrupt,
	addr.Timer2Interrupt,
	addr.Timer3Interrupt,
}

// TimerChannel is one of the four 16 bit timers. Reads of TMxCNT_L return
// the counter, writes set the reload value latched on the next overflow or
// enable edge.
type TimerChannel struct {
	counter uint16
	reload  uint16
	control uint16
	// cycles accumulates master cycles that have not yet amounted to a
	// full prescaled tick.
	cycles int
}

func (c *TimerChannel) enabled() bool    { return bit.IsSet16(7, c.control) }
func (c *TimerChannel) cascade() bool    { return bit.IsSet16(2, c.control) }
func (c *TimerChannel) irqEnabled() bool { return bit.IsSet16(6, c.control) }
func (c *TimerChannel) prescale() int    { return timerPrescale[c.control&3] }

// step advances the counter by the given tick count and returns how many
// times it overflowed.
func (c *TimerChannel) step(ticks int) (overflows int) {
	for ticks > 0 {
		remaining := 0x10000 - int(c.counter)
		if ticks < remaining {
			c.counter += uint16(ticks)
			break
		}
		ticks -= remaining
		c.counter = c.reload
		overflows++
	}
	return overflows
}

// Timers drives the four timer channels off the master clock, including
// count-up cascading.
type Timers struct {
	channels [4]TimerChannel
	irq      func(addr.Interrupt)
}

func (t *Timers) Reset() {
	for i := range t.channels {
		t.channels[i] = TimerChannel{}
	}
}

// Run advances all channels by the given master cycle count.
func (t *Timers) Run(cycles int) {
	overflows := 0

	for i := range t.channels {
		c := &t.channels[i]
		if !c.enabled() {
			overflows = 0
			continue
		}

		var ticks int
		if c.cascade() {
			// Timer 0 has no source to cascade from; the bit is ignored
			// there and the channel counts normally.
			if i > 0 {
				ticks = overflows
			} else {
				c.cycles += cycles
				ticks = c.cycles / c.prescale()
				c.cycles %= c.prescale()
			}
		} else {
			c.cycles += cycles
			ticks = c.cycles / c.prescale()
			c.cycles %= c.prescale()
		}

		overflows = c.step(ticks)
		if overflows > 0 && c.irqEnabled() && t.irq != nil {
			t.irq(timerInterrupts[i])
		}
	}
}

// EstimateCyclesUntilIRQ returns a lower bound on the master cycles until
// any timer raises an interrupt, or timerNoIRQ when none can. Cascaded
// channels are skipped; their IRQ is bounded by the driving channel's
// overflow anyway.
func (t *Timers) EstimateCyclesUntilIRQ() int {
	estimate := timerNoIRQ

	for i := range t.channels {
		c := &t.channels[i]
		if !c.enabled() || !c.irqEnabled() || (c.cascade() && i > 0) {
			continue
		}
		cycles := (0x10000-int(c.counter))*c.prescale() - c.cycles
		if cycles < estimate {
			estimate = cycles
		}
	}

	return estimate
}

func (t *Timers) readRegister(address uint32) uint8 {
	offset := address - addr.TimerBase
	c := &t.channels[offset/addr.TimerStride]

	switch offset % addr.TimerStride {
	case 0:
		return bit.Low(c.counter)
	case 1:
		return bit.High(c.counter)
	case 2:
		return bit.Low(c.control)
	default:
		return 0
	}
}

func (t *Timers) writeRegister(address uint32, value uint8) {
	offset := address - addr.TimerBase
	c := &t.channels[offset/addr.TimerStride]

	switch offset % addr.TimerStride {
	case 0:
		c.reload = c.reload&0xFF00 | uint16(value)
	case 1:
		c.reload = c.reload&0x00FF | uint16(value)<<8
	case 2:
		wasEnabled := c.enabled()
		c.control = uint16(value) & 0xC7
		if !wasEnabled && c.enabled() {
			c.counter = c.reload
			c.cycles = 0
		}
	}
}

package memory

import (
	"github.com/valerio/go-advance/advance/addr"
	"github.com/valerio/go-advance/advance/bit"
)

// DMA timing modes (DMAxCNT_H bits 13..12).
const (
	dmaImmediate = 0
	dmaVBlank    = 1
	dmaHBlank    = 2
	dmaSpecial   = 3
)

// Address adjustment modes (DMAxCNT_H bits 6..5 and 8..7).
const (
	dmaIncrement = 0
	dmaDecrement = 1
	dmaFixed     = 2
	dmaReload    = 3
)

// DMAChannel is one of the four DMA units. The SAD/DAD/CNT_L registers are
// write-only; their values are latched into internal counters when the
// channel is enabled.
type DMAChannel struct {
	id      int
	srcAddr uint32
	dstAddr uint32
	count   uint16
	control uint16

	internalSrc   uint32
	internalDst   uint32
	internalCount int
	active        bool
	first         bool
}

func (c *DMAChannel) enabled() bool    { return bit.IsSet16(15, c.control) }
func (c *DMAChannel) irqEnabled() bool { return bit.IsSet16(14, c.control) }
func (c *DMAChannel) word() bool       { return bit.IsSet16(10, c.control) }
func (c *DMAChannel) repeat() bool     { return bit.IsSet16(9, c.control) }
func (c *DMAChannel) timing() int      { return int(c.control>>12) & 3 }
func (c *DMAChannel) dstControl() int  { return int(c.control>>5) & 3 }
func (c *DMAChannel) srcControl() int  { return int(c.control>>7) & 3 }

// maxCount returns the transfer length encoded by a zero word count:
// 0x10000 on channel 3, 0x4000 elsewhere.
func (c *DMAChannel) maxCount() int {
	if c.id == 3 {
		return 0x10000
	}
	return 0x4000
}

func (c *DMAChannel) latchedCount() int {
	n := int(c.count)
	if c.id < 3 {
		n &= 0x3FFF
	}
	if n == 0 {
		n = c.maxCount()
	}
	return n
}

// DMAController owns the four channels and their bus arbitration: while
// any channel is active the CPU is locked off the bus.
type DMAController struct {
	mmu      *MMU
	channels [4]DMAChannel
}

func (d *DMAController) Reset() {
	for i := range d.channels {
		d.channels[i] = DMAChannel{id: i}
	}
}

// IsRunning reports whether any channel currently owns the bus.
func (d *DMAController) IsRunning() bool {
	for i := range d.channels {
		if d.channels[i].active {
			return true
		}
	}
	return false
}

// RequestVBlank activates every enabled channel waiting on VBlank timing.
func (d *DMAController) RequestVBlank() {
	d.request(dmaVBlank)
}

// RequestHBlank activates every enabled channel waiting on HBlank timing.
func (d *DMAController) RequestHBlank() {
	d.request(dmaHBlank)
}

func (d *DMAController) request(timing int) {
	for i := range d.channels {
		c := &d.channels[i]
		if c.enabled() && !c.active && c.timing() == timing {
			c.active = true
			c.first = true
		}
	}
}

// Run transfers until every active channel completes or the cycle budget
// runs out. Cycles are charged through the same bus entry points the CPU
// uses, so the budget is simply the MMU's TicksLeft.
func (d *DMAController) Run(budget int) {
	_ = budget // consumed through mmu.TicksLeft

	for d.mmu.TicksLeft > 0 {
		c := d.highestPriorityActive()
		if c == nil {
			return
		}
		d.transferOne(c)
	}
}

func (d *DMAController) highestPriorityActive() *DMAChannel {
	for i := range d.channels {
		if d.channels[i].active {
			return &d.channels[i]
		}
	}
	return nil
}

// transferOne moves a single unit on the given channel. The first unit of
// a transfer is non-sequential, the rest sequential.
func (d *DMAController) transferOne(c *DMAChannel) {
	access := Sequential
	if c.first {
		access = NonSequential
		c.first = false
	}

	if c.word() {
		v := d.mmu.ReadWord(c.internalSrc, access)
		d.mmu.WriteWord(c.internalDst, v, access)
		c.internalSrc = d.step(c.internalSrc, c.srcControl(), 4)
		c.internalDst = d.step(c.internalDst, c.dstControl(), 4)
	} else {
		v := d.mmu.ReadHalf(c.internalSrc, access)
		d.mmu.WriteHalf(c.internalDst, v, access)
		c.internalSrc = d.step(c.internalSrc, c.srcControl(), 2)
		c.internalDst = d.step(c.internalDst, c.dstControl(), 2)
	}

	c.internalCount--
	if c.internalCount <= 0 {
		d.complete(c)
	}
}

func (d *DMAController) step(address uint32, control int, size uint32) uint32 {
	switch control {
	case dmaDecrement:
		return address - size
	case dmaFixed:
		return address
	default:
		// Reload behaves as increment during the transfer.
		return address + size
	}
}

func (d *DMAController) complete(c *DMAChannel) {
	c.active = false

	if c.irqEnabled() {
		d.mmu.RequestInterrupt(addr.DMA0Interrupt << uint(c.id))
	}

	if c.repeat() && c.timing() != dmaImmediate {
		// The channel stays armed for its next trigger.
		c.internalCount = c.latchedCount()
		if c.dstControl() == dmaReload {
			c.internalDst = c.dstAddr
		}
		return
	}

	c.control = bit.Reset16(15, c.control)
}

func (d *DMAController) readRegister(address uint32) uint8 {
	offset := address - addr.DMABase
	c := &d.channels[offset/addr.DMAStride]

	// Only the control register reads back; everything else is write-only.
	switch offset % addr.DMAStride {
	case 10:
		return bit.Low(c.control)
	case 11:
		return bit.High(c.control)
	default:
		return 0
	}
}

func (d *DMAController) writeRegister(address uint32, value uint8) {
	offset := address - addr.DMABase
	c := &d.channels[offset/addr.DMAStride]

	switch offset % addr.DMAStride {
	case 0, 1, 2, 3:
		shift := (offset % addr.DMAStride) * 8
		c.srcAddr = c.srcAddr&^(0xFF<<shift) | uint32(value)<<shift
		c.srcAddr &= 0x0FFFFFFF
	case 4, 5, 6, 7:
		shift := (offset%addr.DMAStride - 4) * 8
		c.dstAddr = c.dstAddr&^(0xFF<<shift) | uint32(value)<<shift
		c.dstAddr &= 0x0FFFFFFF
	case 8:
		c.count = c.count&0xFF00 | uint16(value)
	case 9:
		c.count = c.count&0x00FF | uint16(value)<<8
	case 10:
		c.control = c.control&0xFF00 | uint16(value&0xE0)
	case 11:
		wasEnabled := c.enabled()
		c.control = c.control&0x00FF | uint16(value&0xF7)<<8
		if !wasEnabled && c.enabled() {
			c.internalSrc = c.srcAddr
			c.internalDst = c.dstAddr
			c.internalCount = c.latchedCount()
			if c.timing() == dmaImmediate {
				c.active = true
				c.first = true
			}
		} else if !c.enabled() {
			c.active = false
		}
	}
}

package addr

// ppu registers
const (
	// LCD Control register.
	DISPCNT uint32 = 0x04000000
	// General LCD Status register.
	DISPSTAT uint32 = 0x04000004
	// Vertical Counter (readonly) register.
	VCOUNT uint32 = 0x04000006
)

// sound
const (
	// SOUNDBIAS controls the PWM bias level. Only the resolution bits matter here.
	SOUNDBIAS uint32 = 0x04000088
)

// dma channel registers, 12 bytes apart per channel
const (
	DMA0SAD   uint32 = 0x040000B0 // Source address (27 or 28 bits)
	DMA0DAD   uint32 = 0x040000B4 // Destination address
	DMA0CNTL  uint32 = 0x040000B8 // Word count
	DMA0CNTH  uint32 = 0x040000BA // Control
	DMA1SAD   uint32 = 0x040000BC
	DMA1DAD   uint32 = 0x040000C0
	DMA1CNTL  uint32 = 0x040000C4
	DMA1CNTH  uint32 = 0x040000C6
	DMA2SAD   uint32 = 0x040000C8
	DMA2DAD   uint32 = 0x040000CC
	DMA2CNTL  uint32 = 0x040000D0
	DMA2CNTH  uint32 = 0x040000D2
	DMA3SAD   uint32 = 0x040000D4
	DMA3DAD   uint32 = 0x040000D8
	DMA3CNTL  uint32 = 0x040000DC
	DMA3CNTH  uint32 = 0x040000DE
	DMABase   uint32 = DMA0SAD
	DMAEnd    uint32 = DMA3CNTH + 2
	DMAStride uint32 = 12
)

// timer channel registers, 4 bytes apart per channel
const (
	// TM0CNTL is the counter/reload register of timer 0. Reads return the
	// current counter, writes set the reload value.
	TM0CNTL uint32 = 0x04000100
	// TM0CNTH is the control register of timer 0.
	TM0CNTH     uint32 = 0x04000102
	TM1CNTL     uint32 = 0x04000104
	TM1CNTH     uint32 = 0x04000106
	TM2CNTL     uint32 = 0x04000108
	TM2CNTH     uint32 = 0x0400010A
	TM3CNTL     uint32 = 0x0400010C
	TM3CNTH     uint32 = 0x0400010E
	TimerBase   uint32 = TM0CNTL
	TimerEnd    uint32 = TM3CNTH + 2
	TimerStride uint32 = 4
)

// keypad
const (
	// KEYINPUT is used to read the button state. 0 = pressed.
	KEYINPUT uint32 = 0x04000130
)

// serial / general purpose I/O
const (
	// RCNT is the SIO mode select register. Unused by this core but games
	// poke it during startup, so reads must round-trip.
	RCNT uint32 = 0x04000134
)

// interrupt, waitstate and power-down control
const (
	// IE is the Interrupt Enable register.
	IE uint32 = 0x04000200
	// IF is the Interrupt Request register. Writing 1 to a bit clears it.
	IF uint32 = 0x04000202
	// WAITCNT is the Waitstate Control register.
	WAITCNT uint32 = 0x04000204
	// IME is the Interrupt Master Enable register.
	IME uint32 = 0x04000208
	// POSTFLG is set to 1 by the BIOS after startup.
	POSTFLG uint32 = 0x04000300
	// HALTCNT selects the low power state. Bit 7: 0 = halt, 1 = stop.
	HALTCNT uint32 = 0x04000301
)

// Interrupt is an enum that represents one of the possible IRQ sources,
// encoded as its bit in IE/IF.
type Interrupt uint16

const (
	// VBlankInterrupt is fired when the PPU enters the vertical blank.
	VBlankInterrupt Interrupt = 1
	// HBlankInterrupt is fired when the PPU enters the horizontal blank.
	HBlankInterrupt Interrupt = 1 << 1
	// VCountInterrupt is fired when VCOUNT matches the DISPSTAT setting.
	VCountInterrupt Interrupt = 1 << 2
	// Timer0Interrupt .. Timer3Interrupt fire when the timer overflows.
	Timer0Interrupt Interrupt = 1 << 3
	Timer1Interrupt Interrupt = 1 << 4
	Timer2Interrupt Interrupt = 1 << 5
	Timer3Interrupt Interrupt = 1 << 6
	// SerialInterrupt is fired when a serial transfer completes.
	SerialInterrupt Interrupt = 1 << 7
	// DMA0Interrupt .. DMA3Interrupt fire when the transfer completes.
	DMA0Interrupt Interrupt = 1 << 8
	DMA1Interrupt Interrupt = 1 << 9
	DMA2Interrupt Interrupt = 1 << 10
	DMA3Interrupt Interrupt = 1 << 11
	// KeypadInterrupt is fired on the configured key combination.
	KeypadInterrupt Interrupt = 1 << 12
	// GamePakInterrupt is fired when the cartridge is removed.
	GamePakInterrupt Interrupt = 1 << 13
)

package memory

// Prefetch models the cartridge prefetch buffer: up to 8 half-words
// (Thumb) or 4 words (ARM) fetched speculatively from ROM while the CPU
// leaves the cartridge bus idle. Enabled through WAITCNT bit 14.
type Prefetch struct {
	active    bool
	countdown int
	rdPos     int
	wrPos     int
	count     int
	// lastAddress is the address of the most recently started fetch; the
	// next speculative fetch continues from it.
	lastAddress uint32
	address     [8]uint32
}

// prefetchStep arbitrates one bus access against the prefetch unit and
// charges its cycles. Called instead of Tick for every access while
// prefetch is enabled.
func (m *MMU) prefetchStep(address uint32, cycles int) {
	thumb := m.CPU.CPSR.Thumb
	capacity := 4
	if thumb {
		capacity = 8
	}

	if m.prefetch.active {
		// If prefetching the desired opcode just complete it: pay the
		// remaining countdown, not the full access cost.
		if address == m.prefetch.address[m.prefetch.wrPos] {
			count := m.prefetch.count
			wrPos := m.prefetch.wrPos

			m.Tick(m.prefetch.countdown)

			// The completed slot is consumed in place; restore count and
			// wrPos so the opcode handed to the CPU never enters the
			// buffer. The consume-at-PC path below is skipped.
			m.prefetch.count = count
			m.prefetch.wrPos = wrPos

			m.lastROMAddress = address
			return
		}

		// A different ROM access steals the cartridge bus; the cycles
		// already spent on the speculative fetch are lost.
		if isROMAddress(address) {
			m.prefetch.active = false
		}
	} else if m.prefetch.count < capacity &&
		isROMAddress(m.CPU.R15) &&
		!isROMAddress(address) &&
		m.CPU.R15 == m.lastROMAddress {
		var next uint32

		if m.prefetch.count > 0 {
			next = m.prefetch.lastAddress
		} else {
			next = m.CPU.R15
		}

		if thumb {
			next += 2
		} else {
			next += 4
		}
		m.prefetch.lastAddress = next

		m.prefetch.active = true
		m.prefetch.address[m.prefetch.wrPos] = next
		if thumb {
			m.prefetch.countdown = m.cycles16[Sequential][(next>>24)&0xFF]
		} else {
			m.prefetch.countdown = m.cycles32[Sequential][(next>>24)&0xFF]
		}
	}

	if isROMAddress(address) {
		m.lastROMAddress = address
	}

	// TODO: this check does not guarantee 100% that this is an opcode fetch.
	if m.prefetch.count > 0 && address == m.CPU.R15 {
		if address == m.prefetch.address[m.prefetch.rdPos] {
			// Opcode is already buffered, the fetch costs a single cycle.
			cycles = 1
			m.prefetch.count--
			m.prefetch.rdPos = (m.prefetch.rdPos + 1) % 8
		} else {
			// The CPU branched away from the prefetched stream.
			m.prefetch.active = false
			m.prefetch.count = 0
			m.prefetch.rdPos = 0
			m.prefetch.wrPos = 0
		}
	}

	m.Tick(cycles)
}
